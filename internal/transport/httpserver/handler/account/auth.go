package account

import (
	"errors"
	"net/http"

	authdomain "finance-app-go/internal/domain/auth"
	sessiondomain "finance-app-go/internal/domain/session"
	userdomain "finance-app-go/internal/domain/user"
	commonhandler "finance-app-go/internal/transport/httpserver/handler/common"
	"finance-app-go/internal/transport/httpserver/middleware"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User commonhandler.UserContextResponse `json:"user"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	result, err := h.Auth.Login(r.Context(), req.Username, req.Password, deviceInfo(r))
	if err != nil {
		if errors.Is(err, authdomain.ErrInvalidCredentials) {
			h.log.BusinessError("auth.login: invalid credentials", err, "username", req.Username)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
			return
		}
		h.log.InternalError("auth.login: login failed", err, "username", req.Username)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	h.startSession(w, r, "auth.login", result.Issued, http.StatusOK)
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	result, err := h.Auth.Register(r.Context(), req.Username, req.Password, deviceInfo(r))
	if err != nil {
		switch {
		case errors.Is(err, authdomain.ErrRegistrationDisabled):
			h.log.BusinessError("auth.register: registration disabled", err)
			writeError(w, http.StatusForbidden, "registration_disabled", "registration is disabled")
		case errors.Is(err, userdomain.ErrUsernameTaken):
			h.log.BusinessError("auth.register: username taken", err, "username", req.Username)
			writeError(w, http.StatusConflict, "username_taken", "username already taken")
		default:
			writeDomainError(w, h.log, "auth.register", err, "username", req.Username)
		}
		return
	}

	h.startSession(w, r, "auth.register", result.Issued, http.StatusCreated)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionToken(r)
	if err := h.Sessions.Delete(r.Context(), token); err != nil {
		h.log.InternalError("auth.logout: delete session failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	commonhandler.ClearCookie(w, middleware.SessionCookieName, h.cookieSecure)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{User: commonhandler.ToUserContextResponse(user)})
}

// startSession sets the cookie and answers with the same context GET /auth/session would return.
func (h *Handlers) startSession(w http.ResponseWriter, r *http.Request, action string, issued *sessiondomain.Issued, status int) {
	user, err := h.Sessions.Validate(r.Context(), issued.Token)
	if err != nil {
		h.log.InternalError(action+": validate new session failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	commonhandler.SetCookie(w, middleware.SessionCookieName, issued.Token, h.Sessions.TTL(), h.cookieSecure)
	writeJSON(w, status, loginResponse{User: commonhandler.ToUserContextResponse(user)})
}

func deviceInfo(r *http.Request) sessiondomain.DeviceInfo {
	return sessiondomain.DeviceInfo{
		UserAgent: r.UserAgent(),
		IPAddress: middleware.ClientIP(r),
	}
}
