package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/middleware"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/models"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/services"
	"github.com/kunalprakash3891/nifty-sms-verification-system/pkg/utils"
)

// Phone numbers must arrive in E.164 form; anything else is rejected
// before touching the provider.
var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

type VerificationHandler struct {
	verificationService *services.VerificationService
}

func NewVerificationHandler(verificationService *services.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

// Available reports whether phone verification is offered and whether
// signup enforces it.
func (h *VerificationHandler) Available(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]bool{
		"available":            h.verificationService.Available(),
		"enforce_verification": h.verificationService.Enforced(),
	})
}

// RequestCode handles POST /requestsmscode
func (h *VerificationHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req models.RequestCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PhoneNumber == "" || req.DeviceID == "" {
		utils.JSONError(w, http.StatusBadRequest, "phone_number and device_id are required")
		return
	}
	if !e164Pattern.MatchString(req.PhoneNumber) {
		utils.JSONError(w, http.StatusBadRequest, "phone_number must be in E.164 format")
		return
	}

	userID := int(middleware.UserIDFromContext(r.Context()))
	resp, err := h.verificationService.RequestCode(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// VerifyCode handles POST /verifysmscode
func (h *VerificationHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PhoneNumber == "" || req.DeviceID == "" || req.VerificationCode == "" {
		utils.JSONError(w, http.StatusBadRequest, "phone_number, device_id and verification_code are required")
		return
	}

	userID := int(middleware.UserIDFromContext(r.Context()))
	resp, err := h.verificationService.VerifyCode(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// writeServiceError maps a tagged service error onto its HTTP status
// and code; anything untagged is a plain 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		utils.JSONErrorCode(w, svcErr.Status, string(svcErr.Kind), svcErr.Message)
		return
	}
	utils.JSONError(w, http.StatusInternalServerError, "internal server error")
}
