package admin

import (
	"net/http"

	settingsdomain "finance-app-go/internal/domain/settings"
)

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := h.Settings.Get(r.Context())
	if err != nil {
		h.log.InternalError("admin.settings.get: load failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(current))
}

func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Settings.Update(r.Context(), settingsdomain.UpdateInput{
		AllowRegistration:    req.AllowRegistration,
		EnableBalanceHistory: req.EnableBalanceHistory,
	})
	if err != nil {
		writeDomainError(w, h.log, "admin.settings.update", err)
		return
	}

	h.log.Info("admin.settings.update: saved",
		"allow_registration", updated.AllowRegistration,
		"enable_balance_history", updated.EnableBalanceHistory,
	)
	writeJSON(w, http.StatusOK, toSettingsResponse(updated))
}
