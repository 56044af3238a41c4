package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/middleware"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/services"
	"github.com/kunalprakash3891/nifty-sms-verification-system/pkg/utils"
)

type PhoneNumberHandler struct {
	phoneNumberService *services.PhoneNumberService
}

func NewPhoneNumberHandler(phoneNumberService *services.PhoneNumberService) *PhoneNumberHandler {
	return &PhoneNumberHandler{phoneNumberService: phoneNumberService}
}

// targetUserID resolves the {user_id} path variable and checks that the
// caller may act on that user's record. Users manage their own record;
// admins manage anyone's.
func targetUserID(r *http.Request) (int, bool) {
	userID, err := strconv.Atoi(mux.Vars(r)["user_id"])
	if err != nil || userID <= 0 {
		return 0, false
	}

	callerID := int(middleware.UserIDFromContext(r.Context()))
	if callerID == userID || middleware.RoleFromContext(r.Context()) == "admin" {
		return userID, true
	}
	return 0, false
}

// Get handles GET /phonenumber/{user_id}
func (h *PhoneNumberHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, allowed := targetUserID(r)
	if !allowed {
		utils.JSONError(w, http.StatusForbidden, "you are not allowed to access this resource")
		return
	}

	record, err := h.phoneNumberService.GetUserPhoneNumber(r.Context(), userID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to fetch phone number")
		return
	}
	if record == nil {
		utils.JSONError(w, http.StatusNotFound, "no phone number on record")
		return
	}
	utils.JSON(w, http.StatusOK, record)
}

// Delete handles DELETE /phonenumber/{user_id}
func (h *PhoneNumberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, allowed := targetUserID(r)
	if !allowed {
		utils.JSONError(w, http.StatusForbidden, "you are not allowed to access this resource")
		return
	}

	resp, err := h.phoneNumberService.DeleteUserPhoneNumber(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}
