package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	groupdomain "finance-app-go/internal/domain/group"
	sessiondomain "finance-app-go/internal/domain/session"
	settingsdomain "finance-app-go/internal/domain/settings"
	userdomain "finance-app-go/internal/domain/user"
	"finance-app-go/internal/domain/validate"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 32
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type Sessions interface {
	Create(ctx context.Context, userID int64, device sessiondomain.DeviceInfo) (*sessiondomain.Issued, error)
	CreateAdmin(ctx context.Context) (*sessiondomain.IssuedAdmin, error)
	RevokeOthers(ctx context.Context, userID int64, keepID string) (int64, error)
	RevokeAll(ctx context.Context, userID int64) (int64, error)
}

type Settings interface {
	Get(ctx context.Context) (*settingsdomain.Settings, error)
}

type Groups interface {
	GetGroup(ctx context.Context, groupID int64) (*groupdomain.Group, error)
	AssignUser(ctx context.Context, userID, groupID int64) (*groupdomain.Membership, error)
}

type Service struct {
	users    userdomain.Repository
	sessions Sessions
	settings Settings
	groups   Groups
	hasher   *Hasher
}

func NewService(users userdomain.Repository, sessions Sessions, settings Settings, groups Groups, hasher *Hasher) *Service {
	if hasher == nil {
		hasher = NewHasher(0)
	}
	return &Service{
		users:    users,
		sessions: sessions,
		settings: settings,
		groups:   groups,
		hasher:   hasher,
	}
}

type LoginResult struct {
	User   *userdomain.User
	Issued *sessiondomain.Issued
}

// Login never tells an unknown username apart from a wrong password.
func (s *Service) Login(ctx context.Context, username, password string, device sessiondomain.DeviceInfo) (*LoginResult, error) {
	account, err := s.authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	issued, err := s.sessions.Create(ctx, account.ID, device)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: account, Issued: issued}, nil
}

// Register creates a regular user without memberships and logs them in. An administrator has to
// assign a group before the user can touch financial data.
func (s *Service) Register(ctx context.Context, username, password string, device sessiondomain.DeviceInfo) (*LoginResult, error) {
	current, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !current.AllowRegistration {
		return nil, ErrRegistrationDisabled
	}

	account, err := s.CreateUser(ctx, CreateUserInput{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	issued, err := s.sessions.Create(ctx, account.ID, device)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: account, Issued: issued}, nil
}

// AdminLogin verifies an administrator and mints the single admin session.
func (s *Service) AdminLogin(ctx context.Context, username, password string) (*sessiondomain.IssuedAdmin, error) {
	account, err := s.authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !account.IsAdmin {
		return nil, ErrAdminRequired
	}
	return s.sessions.CreateAdmin(ctx)
}

// ChangePassword replaces the password and revokes every other session of the user.
func (s *Service) ChangePassword(ctx context.Context, userID int64, currentSessionID, currentPassword, newPassword string) error {
	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(currentPassword, account.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrIncorrectPassword
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}
	_, err = s.sessions.RevokeOthers(ctx, userID, currentSessionID)
	return err
}

// ResetPassword is the administrator path: no current password, every session is revoked.
func (s *Service) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}
	_, err = s.sessions.RevokeAll(ctx, userID)
	return err
}

type CreateUserInput struct {
	Username string
	Password string
	IsAdmin  bool
	GroupID  *int64
}

// CreateUser validates and stores a new user, optionally placing them in a group. The group is
// checked before the user row is written, and a failed assignment removes the row again, so a
// failed call never leaves the username taken.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*userdomain.User, error) {
	username, err := normalizeUsername(input.Username)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if input.GroupID != nil {
		if _, err := s.groups.GetGroup(ctx, *input.GroupID); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	prefs := userdomain.DefaultPreferences()
	account := userdomain.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      input.IsAdmin,
	}
	account.ApplyPreferences(prefs)

	if err := s.users.Create(ctx, &account); err != nil {
		return nil, err
	}

	if input.GroupID != nil {
		if _, err := s.groups.AssignUser(ctx, account.ID, *input.GroupID); err != nil && !errors.Is(err, groupdomain.ErrAlreadyMember) {
			if cleanupErr := s.users.Delete(ctx, account.ID); cleanupErr != nil {
				return nil, errors.Join(err, cleanupErr)
			}
			return nil, err
		}
	}
	return &account, nil
}

// EnsureAdmin seeds the first administrator into the default group when the user table is empty.
// It reports whether a user was created.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return false, nil
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	groupID := groupdomain.DefaultGroupID
	_, err = s.CreateUser(ctx, CreateUserInput{
		Username: username,
		Password: password,
		IsAdmin:  true,
		GroupID:  &groupID,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) authenticate(ctx context.Context, username, password string) (*userdomain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, userdomain.ErrUserNotFound) {
		s.hasher.Burn(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return "", validate.Field("username", "must be 3 to 32 characters")
	}
	if !usernameRegex.MatchString(username) {
		return "", validate.Field("username", "may contain letters, digits, '.', '-' and '_'")
	}
	return username, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return validate.Field("password", "must be at least 8 characters")
	}
	if len(password) > maxPasswordLength {
		return validate.Field("password", "must be at most 72 bytes")
	}
	return nil
}
