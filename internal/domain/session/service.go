package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	groupdomain "finance-app-go/internal/domain/group"
	userdomain "finance-app-go/internal/domain/user"
	"github.com/google/uuid"
)

const (
	DefaultTTL      = 7 * 24 * time.Hour
	DefaultAdminTTL = 8 * time.Hour
)

type Users interface {
	GetByID(ctx context.Context, id int64) (*userdomain.User, error)
	SetLastGroup(ctx context.Context, id int64, groupID *int64) error
}

// Memberships lists a user's groups ordered by join time, earliest first.
type Memberships interface {
	ListUserGroups(ctx context.Context, userID int64) ([]groupdomain.UserGroup, error)
}

type Service struct {
	repo        Repository
	users       Users
	memberships Memberships
	ttl         time.Duration
	adminTTL    time.Duration
	now         func() time.Time
}

type Option func(*Service)

func WithTTL(ttl, adminTTL time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
		if adminTTL > 0 {
			s.adminTTL = adminTTL
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, users Users, memberships Memberships, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		users:       users,
		memberships: memberships,
		ttl:         DefaultTTL,
		adminTTL:    DefaultAdminTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

func (s *Service) AdminTTL() time.Duration {
	return s.adminTTL
}

// Create mints a session bound to the user's preferred group: the last selected one while the
// user still belongs to it, else the earliest joined one, else none.
func (s *Service) Create(ctx context.Context, userID int64, device DeviceInfo) (*Issued, error) {
	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups, err := s.memberships.ListUserGroups(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	parsed := ParseDevice(device.UserAgent)
	created := Session{
		ID:             uuid.NewString(),
		TokenHash:      HashToken(token),
		UserID:         userID,
		CurrentGroupID: preferredGroup(account.LastGroupID, groups),
		UserAgent:      truncate(device.UserAgent, 512),
		IPAddress:      truncate(device.IPAddress, 64),
		DeviceType:     parsed.Type,
		DeviceName:     parsed.Name,
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(s.ttl),
	}
	if err := s.repo.Create(ctx, &created); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &Issued{Token: token, Session: created}, nil
}

// Validate resolves a token to its user. Expired and unknown tokens fail with ErrInvalidSession.
// Memberships are re-read on every call and a current group the user lost access to is replaced
// by the first remaining membership, or cleared.
func (s *Service) Validate(ctx context.Context, token string) (*UserContext, error) {
	current, err := s.activeSession(ctx, token)
	if err != nil {
		return nil, err
	}

	account, err := s.users.GetByID(ctx, current.UserID)
	if errors.Is(err, userdomain.ErrUserNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}

	groups, err := s.memberships.ListUserGroups(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	healed := healGroup(current.CurrentGroupID, groups)
	if !sameGroup(healed, current.CurrentGroupID) {
		if err := s.repo.SetCurrentGroup(ctx, current.ID, healed); err != nil {
			return nil, fmt.Errorf("heal current group: %w", err)
		}
		current.CurrentGroupID = healed
	}

	if err := s.repo.Touch(ctx, current.ID, s.now()); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}

	return buildContext(current, account, groups), nil
}

// SwitchGroup rebinds the session to groupID. The membership check and the update are one
// conditional write, so a user can never land in a group they do not belong to.
func (s *Service) SwitchGroup(ctx context.Context, token string, groupID int64) (*UserContext, error) {
	current, err := s.activeSession(ctx, token)
	if err != nil {
		return nil, err
	}

	switched, err := s.repo.SwitchGroup(ctx, current.ID, current.UserID, groupID)
	if err != nil {
		return nil, err
	}
	if !switched {
		return nil, groupdomain.ErrNotMember
	}
	if err := s.users.SetLastGroup(ctx, current.UserID, &groupID); err != nil {
		return nil, err
	}

	return s.Validate(ctx, token)
}

// Delete is idempotent: unknown tokens are ignored.
func (s *Service) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.repo.DeleteByTokenHash(ctx, HashToken(token))
}

func (s *Service) List(ctx context.Context, userID int64, currentID string) ([]View, error) {
	sessions, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]View, 0, len(sessions))
	for _, item := range sessions {
		if !now.Before(item.ExpiresAt) {
			continue
		}
		views = append(views, View{
			ID:             item.ID,
			DeviceType:     item.DeviceType,
			DeviceName:     item.DeviceName,
			IPAddress:      item.IPAddress,
			CreatedAt:      item.CreatedAt,
			LastAccessedAt: item.LastAccessedAt,
			ExpiresAt:      item.ExpiresAt,
			Current:        item.ID == currentID,
		})
	}
	return views, nil
}

// Revoke deletes another session of the same user. The session making the request cannot revoke
// itself; logout exists for that.
func (s *Service) Revoke(ctx context.Context, userID int64, currentID, targetID string) error {
	if targetID == currentID {
		return ErrCannotRevokeCurrent
	}
	deleted, err := s.repo.DeleteByIDForUser(ctx, targetID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSessionNotFound
	}
	return nil
}

func (s *Service) RevokeOthers(ctx context.Context, userID int64, keepID string) (int64, error) {
	return s.repo.DeleteOtherSessions(ctx, userID, keepID)
}

func (s *Service) RevokeAll(ctx context.Context, userID int64) (int64, error) {
	return s.repo.DeleteByUser(ctx, userID)
}

type CleanupResult struct {
	Sessions      int64
	AdminSessions int64
}

// CleanupExpired removes expired rows. Expired sessions already fail validation; this only
// reclaims storage.
func (s *Service) CleanupExpired(ctx context.Context) (CleanupResult, error) {
	now := s.now()

	var result CleanupResult
	deleted, err := s.repo.DeleteExpired(ctx, now)
	if err != nil {
		return result, fmt.Errorf("delete expired sessions: %w", err)
	}
	result.Sessions = deleted

	deleted, err = s.repo.DeleteExpiredAdmin(ctx, now)
	if err != nil {
		return result, fmt.Errorf("delete expired admin sessions: %w", err)
	}
	result.AdminSessions = deleted
	return result, nil
}

// CreateAdmin mints the admin session and purges every other one.
func (s *Service) CreateAdmin(ctx context.Context) (*IssuedAdmin, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	created := AdminSession{
		ID:        uuid.NewString(),
		TokenHash: HashToken(token),
		CreatedAt: now,
		ExpiresAt: now.Add(s.adminTTL),
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateAdmin(ctx, &created); err != nil {
			return err
		}
		return tx.PurgeAdminSessions(ctx, created.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("create admin session: %w", err)
	}

	return &IssuedAdmin{Token: token, Session: created}, nil
}

func (s *Service) ValidateAdmin(ctx context.Context, token string) (*AdminSession, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	current, err := s.repo.GetAdminByTokenHash(ctx, HashToken(token))
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}
	if !s.now().Before(current.ExpiresAt) {
		return nil, ErrInvalidSession
	}
	return current, nil
}

func (s *Service) DeleteAdmin(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.repo.DeleteAdminByTokenHash(ctx, HashToken(token))
}

func (s *Service) activeSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	current, err := s.repo.GetByTokenHash(ctx, HashToken(token))
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}
	if !s.now().Before(current.ExpiresAt) {
		return nil, ErrInvalidSession
	}
	return current, nil
}

func preferredGroup(lastGroupID *int64, groups []groupdomain.UserGroup) *int64 {
	if lastGroupID != nil && hasGroup(groups, *lastGroupID) {
		id := *lastGroupID
		return &id
	}
	return firstGroup(groups)
}

func healGroup(currentID *int64, groups []groupdomain.UserGroup) *int64 {
	if currentID != nil && hasGroup(groups, *currentID) {
		return currentID
	}
	return firstGroup(groups)
}

func firstGroup(groups []groupdomain.UserGroup) *int64 {
	if len(groups) == 0 {
		return nil
	}
	id := groups[0].GroupID
	return &id
}

func hasGroup(groups []groupdomain.UserGroup, groupID int64) bool {
	for _, item := range groups {
		if item.GroupID == groupID {
			return true
		}
	}
	return false
}

func sameGroup(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func buildContext(current *Session, account *userdomain.User, groups []groupdomain.UserGroup) *UserContext {
	refs := make([]GroupRef, 0, len(groups))
	for _, item := range groups {
		refs = append(refs, GroupRef{ID: item.GroupID, Name: item.Name})
	}
	return &UserContext{
		SessionID:      current.ID,
		ID:             account.ID,
		Username:       account.Username,
		IsAdmin:        account.IsAdmin,
		Groups:         refs,
		CurrentGroupID: current.CurrentGroupID,
		Preferences:    account.Preferences(),
		ExpiresAt:      current.ExpiresAt,
	}
}

// truncate drops invalid UTF-8 and cuts to at most limit bytes without splitting a rune.
func truncate(value string, limit int) string {
	value = strings.ToValidUTF8(value, "")
	if len(value) <= limit {
		return value
	}
	for limit > 0 && !utf8.RuneStart(value[limit]) {
		limit--
	}
	return value[:limit]
}
