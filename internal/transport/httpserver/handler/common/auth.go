package common

import (
	"net/http"
	"time"

	sessiondomain "finance-app-go/internal/domain/session"
	"finance-app-go/internal/transport/httpserver/middleware"
)

// CurrentUser returns the validated session user, answering 401 when the request carries none.
func CurrentUser(w http.ResponseWriter, r *http.Request) (*sessiondomain.UserContext, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_session", "invalid or expired session")
		return nil, false
	}
	return user, true
}

func SetCookie(w http.ResponseWriter, name, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type groupResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type preferencesResponse struct {
	AccentColor string `json:"accent_color"`
	Theme       string `json:"theme"`
	Locale      string `json:"locale"`
	Currency    string `json:"currency"`
	PrivacyMode bool   `json:"privacy_mode"`
}

type UserContextResponse struct {
	ID             int64               `json:"id"`
	Username       string              `json:"username"`
	IsAdmin        bool                `json:"is_admin"`
	Groups         []groupResponse     `json:"groups"`
	CurrentGroupID *int64              `json:"current_group_id"`
	Preferences    preferencesResponse `json:"preferences"`
	ExpiresAt      time.Time           `json:"expires_at"`
}

func ToUserContextResponse(user *sessiondomain.UserContext) UserContextResponse {
	groups := make([]groupResponse, 0, len(user.Groups))
	for _, group := range user.Groups {
		groups = append(groups, groupResponse{ID: group.ID, Name: group.Name})
	}
	return UserContextResponse{
		ID:             user.ID,
		Username:       user.Username,
		IsAdmin:        user.IsAdmin,
		Groups:         groups,
		CurrentGroupID: user.CurrentGroupID,
		Preferences: preferencesResponse{
			AccentColor: user.Preferences.AccentColor,
			Theme:       user.Preferences.Theme,
			Locale:      user.Preferences.Locale,
			Currency:    user.Preferences.Currency,
			PrivacyMode: user.Preferences.PrivacyMode,
		},
		ExpiresAt: user.ExpiresAt,
	}
}
