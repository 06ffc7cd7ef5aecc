package account

import (
	"errors"
	"net/http"

	authdomain "finance-app-go/internal/domain/auth"
	userdomain "finance-app-go/internal/domain/user"
	commonhandler "finance-app-go/internal/transport/httpserver/handler/common"
)

type updatePreferencesRequest struct {
	AccentColor *string `json:"accent_color"`
	Theme       *string `json:"theme"`
	Locale      *string `json:"locale"`
	Currency    *string `json:"currency"`
	PrivacyMode *bool   `json:"privacy_mode"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *Handlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}

	prefs, err := h.Users.Preferences(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("preferences.get: load failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (h *Handlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req updatePreferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}

	prefs, err := h.Users.UpdatePreferences(r.Context(), user.ID, userdomain.UpdatePreferencesInput{
		AccentColor: req.AccentColor,
		Theme:       req.Theme,
		Locale:      req.Locale,
		Currency:    req.Currency,
		PrivacyMode: req.PrivacyMode,
	})
	if err != nil {
		writeDomainError(w, h.log, "preferences.update", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}

	err := h.Auth.ChangePassword(r.Context(), user.ID, user.SessionID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, authdomain.ErrIncorrectPassword) {
			h.log.BusinessError("password.change: incorrect current password", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "incorrect_password", "current password is incorrect")
			return
		}
		writeDomainError(w, h.log, "password.change", err, "user_id", user.ID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
