package admin

import (
	"time"

	groupdomain "finance-app-go/internal/domain/group"
	settingsdomain "finance-app-go/internal/domain/settings"
	userdomain "finance-app-go/internal/domain/user"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type settingsRequest struct {
	AllowRegistration    *bool `json:"allow_registration"`
	EnableBalanceHistory *bool `json:"enable_balance_history"`
}

type groupRequest struct {
	Name string `json:"name"`
}

type membershipRequest struct {
	UserID  int64 `json:"user_id"`
	GroupID int64 `json:"group_id"`
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
	GroupID  *int64 `json:"group_id"`
}

type updateUserRequest struct {
	IsAdmin  *bool   `json:"is_admin"`
	Password *string `json:"password"`
}

type adminSessionResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
}

type settingsResponse struct {
	AllowRegistration    bool      `json:"allow_registration"`
	EnableBalanceHistory bool      `json:"enable_balance_history"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type groupResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	CreatedBy   *int64    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int64     `json:"member_count"`
}

type membershipResponse struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	GroupID   int64     `json:"group_id"`
	GroupName string    `json:"group_name,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

type userResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	IsAdmin     bool      `json:"is_admin"`
	LastGroupID *int64    `json:"last_group_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}

func toSettingsResponse(settings *settingsdomain.Settings) settingsResponse {
	return settingsResponse{
		AllowRegistration:    settings.AllowRegistration,
		EnableBalanceHistory: settings.EnableBalanceHistory,
		UpdatedAt:            settings.UpdatedAt,
	}
}

func toGroupResponse(group groupdomain.Group, members int64) groupResponse {
	return groupResponse{
		ID:          group.ID,
		Name:        group.Name,
		CreatedBy:   group.CreatedBy,
		CreatedAt:   group.CreatedAt,
		MemberCount: members,
	}
}

func toUserResponse(user userdomain.User) userResponse {
	return userResponse{
		ID:          user.ID,
		Username:    user.Username,
		IsAdmin:     user.IsAdmin,
		LastGroupID: user.LastGroupID,
		CreatedAt:   user.CreatedAt,
	}
}
