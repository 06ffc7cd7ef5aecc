package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	sessiondomain "finance-app-go/internal/domain/session"
	"finance-app-go/pkg/logger"
)

const (
	SessionCookieName = "session"
	AdminCookieName   = "admin_session"
)

type Sessions interface {
	Validate(ctx context.Context, token string) (*sessiondomain.UserContext, error)
	ValidateAdmin(ctx context.Context, token string) (*sessiondomain.AdminSession, error)
}

type SessionAuth struct {
	sessions Sessions
	log      logger.Logger
}

type contextKey int

const (
	userKey contextKey = iota
	tokenKey
	adminKey
)

func NewSessionAuth(sessions Sessions, log logger.Logger) *SessionAuth {
	return &SessionAuth{sessions: sessions, log: log}
}

// Middleware resolves the user session from the session cookie or an Authorization bearer header.
func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := SessionToken(r)
		if token == "" {
			unauthorized(w)
			return
		}

		user, err := a.sessions.Validate(r.Context(), token)
		if err != nil {
			if errors.Is(err, sessiondomain.ErrInvalidSession) {
				unauthorized(w)
				return
			}
			a.log.InternalError("auth.session: validate failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}

		ctx := WithUser(r.Context(), user)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Admin guards the admin panel. It only accepts the admin session cookie.
func (a *SessionAuth) Admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := AdminToken(r)
		if token == "" {
			adminRequired(w)
			return
		}

		admin, err := a.sessions.ValidateAdmin(r.Context(), token)
		if err != nil {
			if errors.Is(err, sessiondomain.ErrInvalidSession) {
				adminRequired(w)
				return
			}
			a.log.InternalError("auth.admin: validate failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}

		ctx := context.WithValue(r.Context(), adminKey, admin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	token, _ := bearerToken(r.Header.Get("Authorization"))
	return token
}

func AdminToken(r *http.Request) string {
	cookie, err := r.Cookie(AdminCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_session", "invalid or expired session")
}

func adminRequired(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "admin_required", "admin session required")
}

func WithUser(ctx context.Context, user *sessiondomain.UserContext) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*sessiondomain.UserContext, bool) {
	user, ok := ctx.Value(userKey).(*sessiondomain.UserContext)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func AdminFromContext(ctx context.Context) (*sessiondomain.AdminSession, bool) {
	admin, ok := ctx.Value(adminKey).(*sessiondomain.AdminSession)
	if !ok || admin == nil {
		return nil, false
	}
	return admin, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
