package account

import (
	"errors"
	"net/http"
	"strings"
	"time"

	groupdomain "finance-app-go/internal/domain/group"
	sessiondomain "finance-app-go/internal/domain/session"
	commonhandler "finance-app-go/internal/transport/httpserver/handler/common"
	"finance-app-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type switchGroupRequest struct {
	GroupID int64 `json:"groupId"`
}

type sessionResponse struct {
	ID             string    `json:"id"`
	DeviceType     string    `json:"device_type"`
	DeviceName     string    `json:"device_name"`
	IPAddress      string    `json:"ip_address"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	Current        bool      `json:"current"`
}

type listSessionsResponse struct {
	Items []sessionResponse `json:"items"`
}

func (h *Handlers) SwitchGroup(w http.ResponseWriter, r *http.Request) {
	var req switchGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.GroupID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "groupId is required")
		return
	}

	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}
	token, _ := middleware.TokenFromContext(r.Context())

	updated, err := h.Sessions.SwitchGroup(r.Context(), token, req.GroupID)
	if err != nil {
		switch {
		case errors.Is(err, groupdomain.ErrNotMember):
			h.log.BusinessError("sessions.switch_group: not a member", err, "user_id", user.ID, "group_id", req.GroupID)
			writeError(w, http.StatusForbidden, "not_member", "not a member of this group")
		case errors.Is(err, sessiondomain.ErrInvalidSession):
			writeError(w, http.StatusUnauthorized, "invalid_session", "invalid or expired session")
		default:
			h.log.InternalError("sessions.switch_group: switch failed", err, "user_id", user.ID, "group_id", req.GroupID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{User: commonhandler.ToUserContextResponse(updated)})
}

func (h *Handlers) ListSessions(w http.ResponseWriter, r *http.Request) {
	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}

	views, err := h.Sessions.List(r.Context(), user.ID, user.SessionID)
	if err != nil {
		h.log.InternalError("sessions.list: list failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]sessionResponse, 0, len(views))
	for _, view := range views {
		items = append(items, sessionResponse{
			ID:             view.ID,
			DeviceType:     view.DeviceType,
			DeviceName:     view.DeviceName,
			IPAddress:      view.IPAddress,
			CreatedAt:      view.CreatedAt,
			LastAccessedAt: view.LastAccessedAt,
			ExpiresAt:      view.ExpiresAt,
			Current:        view.Current,
		})
	}
	writeJSON(w, http.StatusOK, listSessionsResponse{Items: items})
}

func (h *Handlers) RevokeSession(w http.ResponseWriter, r *http.Request) {
	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}
	targetID := strings.TrimSpace(chi.URLParam(r, "id"))
	if targetID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "session id is required")
		return
	}

	if err := h.Sessions.Revoke(r.Context(), user.ID, user.SessionID, targetID); err != nil {
		switch {
		case errors.Is(err, sessiondomain.ErrCannotRevokeCurrent):
			h.log.BusinessError("sessions.revoke: current session", err, "user_id", user.ID)
			writeError(w, http.StatusForbidden, "cannot_revoke_current", "use logout to end the current session")
		case errors.Is(err, sessiondomain.ErrSessionNotFound):
			h.log.BusinessError("sessions.revoke: session not found", err, "user_id", user.ID, "session_id", targetID)
			writeError(w, http.StatusNotFound, "session_not_found", "session not found")
		default:
			h.log.InternalError("sessions.revoke: revoke failed", err, "user_id", user.ID, "session_id", targetID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RevokeOtherSessions(w http.ResponseWriter, r *http.Request) {
	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}

	removed, err := h.Sessions.RevokeOthers(r.Context(), user.ID, user.SessionID)
	if err != nil {
		h.log.InternalError("sessions.revoke_others: revoke failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"revoked": removed})
}
