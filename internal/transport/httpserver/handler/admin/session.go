package admin

import (
	"errors"
	"net/http"

	authdomain "finance-app-go/internal/domain/auth"
	commonhandler "finance-app-go/internal/transport/httpserver/handler/common"
	"finance-app-go/internal/transport/httpserver/middleware"
)

// Login opens the admin panel. Only one admin session exists at a time; logging in ends any
// other.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	issued, err := h.Auth.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authdomain.ErrInvalidCredentials):
			h.log.BusinessError("admin.login: invalid credentials", err, "username", req.Username)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		case errors.Is(err, authdomain.ErrAdminRequired):
			h.log.BusinessError("admin.login: not an administrator", err, "username", req.Username)
			writeError(w, http.StatusForbidden, "admin_required", "admin privileges required")
		default:
			h.log.InternalError("admin.login: login failed", err, "username", req.Username)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	commonhandler.SetCookie(w, middleware.AdminCookieName, issued.Token, h.Sessions.AdminTTL(), h.cookieSecure)
	writeJSON(w, http.StatusOK, adminSessionResponse{ExpiresAt: issued.Session.ExpiresAt})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.DeleteAdmin(r.Context(), middleware.AdminToken(r)); err != nil {
		h.log.InternalError("admin.logout: delete session failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	commonhandler.ClearCookie(w, middleware.AdminCookieName, h.cookieSecure)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "admin_required", "admin session required")
		return
	}
	writeJSON(w, http.StatusOK, adminSessionResponse{ExpiresAt: admin.ExpiresAt})
}
