package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/middleware"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/models"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/services"
	"github.com/kunalprakash3891/nifty-sms-verification-system/pkg/utils"
)

type BlacklistHandler struct {
	blacklistService *services.BlacklistService
}

func NewBlacklistHandler(blacklistService *services.BlacklistService) *BlacklistHandler {
	return &BlacklistHandler{blacklistService: blacklistService}
}

// List handles GET /blacklist
func (h *BlacklistHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.blacklistService.List(r.Context())
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to fetch blacklist")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// Add handles POST /blacklist
func (h *BlacklistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.BlacklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PhoneNumber == "" {
		utils.JSONError(w, http.StatusBadRequest, "phone_number is required")
		return
	}

	moderatorID := int(middleware.UserIDFromContext(r.Context()))
	entry, err := h.blacklistService.Add(r.Context(), moderatorID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, entry)
}

// Remove handles DELETE /blacklist/{phone_number}
func (h *BlacklistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	phone := mux.Vars(r)["phone_number"]
	if phone == "" {
		utils.JSONError(w, http.StatusBadRequest, "phone_number is required")
		return
	}

	if err := h.blacklistService.Remove(r.Context(), phone); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"removed": true})
}
