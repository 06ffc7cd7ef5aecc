package group

import (
	"context"
	"testing"
	"time"

	"finance-app-go/internal/db/dbtest"
	groupdomain "finance-app-go/internal/domain/group"
	sessiondomain "finance-app-go/internal/domain/session"
	userdomain "finance-app-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type GroupRepositorySuite struct {
	suite.Suite
	db      *gorm.DB
	repo    *PostgresRepository
	service *groupdomain.Service
	userID  int64
}

func (s *GroupRepositorySuite) SetupTest() {
	s.db = dbtest.Open(s.T())
	s.repo = NewPostgres(s.db)
	s.service = groupdomain.NewService(s.repo)

	user := userdomain.User{Username: "alice", PasswordHash: "x"}
	require.NoError(s.T(), s.db.Create(&user).Error)
	s.userID = user.ID
}

func (s *GroupRepositorySuite) TestEnsureDefaultIsIdempotent() {
	ctx := context.Background()

	first, err := s.service.EnsureDefault(ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), groupdomain.DefaultGroupID, first.ID)

	second, err := s.service.EnsureDefault(ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), first.ID, second.ID)

	groups, err := s.service.ListGroups(ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), groups, 1)
}

func (s *GroupRepositorySuite) TestMembershipsOrderedByJoinTime() {
	ctx := context.Background()
	base := time.Now().UTC()

	var ids []int64
	for _, name := range []string{"later", "earlier"} {
		group, err := s.service.CreateGroup(ctx, name, nil)
		require.NoError(s.T(), err)
		ids = append(ids, group.ID)
	}
	require.NoError(s.T(), s.db.Create(&groupdomain.Membership{UserID: s.userID, GroupID: ids[0], JoinedAt: base.Add(time.Minute)}).Error)
	require.NoError(s.T(), s.db.Create(&groupdomain.Membership{UserID: s.userID, GroupID: ids[1], JoinedAt: base}).Error)

	groups, err := s.repo.ListUserGroups(ctx, s.userID)
	require.NoError(s.T(), err)
	require.Len(s.T(), groups, 2)
	assert.Equal(s.T(), "earlier", groups[0].Name)
	assert.Equal(s.T(), "later", groups[1].Name)

	summaries, err := s.service.ListGroups(ctx)
	require.NoError(s.T(), err)
	for _, summary := range summaries {
		assert.Equal(s.T(), int64(1), summary.MemberCount)
	}
}

func (s *GroupRepositorySuite) TestAssignTwiceFails() {
	ctx := context.Background()
	group, err := s.service.CreateGroup(ctx, "Home", &s.userID)
	require.NoError(s.T(), err)

	_, err = s.service.AssignUser(ctx, s.userID, group.ID)
	require.NoError(s.T(), err)

	_, err = s.service.AssignUser(ctx, s.userID, group.ID)
	assert.ErrorIs(s.T(), err, groupdomain.ErrAlreadyMember)

	err = s.repo.AddMembership(ctx, &groupdomain.Membership{UserID: s.userID, GroupID: group.ID})
	assert.ErrorIs(s.T(), err, groupdomain.ErrAlreadyMember)
}

func (s *GroupRepositorySuite) TestRemoveUserClearsStickyGroup() {
	ctx := context.Background()
	group, err := s.service.CreateGroup(ctx, "Home", nil)
	require.NoError(s.T(), err)
	_, err = s.service.AssignUser(ctx, s.userID, group.ID)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.db.Model(&userdomain.User{}).Where("id = ?", s.userID).Update("last_group_id", group.ID).Error)

	require.NoError(s.T(), s.service.RemoveUser(ctx, s.userID, group.ID))

	var user userdomain.User
	require.NoError(s.T(), s.db.First(&user, s.userID).Error)
	assert.Nil(s.T(), user.LastGroupID)

	err = s.service.RemoveUser(ctx, s.userID, group.ID)
	assert.ErrorIs(s.T(), err, groupdomain.ErrMembershipNotFound)
}

func (s *GroupRepositorySuite) TestDeleteGroupClearsSessionsAndData() {
	ctx := context.Background()
	group, err := s.service.CreateGroup(ctx, "Trip", nil)
	require.NoError(s.T(), err)
	_, err = s.service.AssignUser(ctx, s.userID, group.ID)
	require.NoError(s.T(), err)

	now := time.Now().UTC()
	session := sessiondomain.Session{
		ID:             "5b0c6f5e-9f39-4a53-8c1e-3f0cbb0f6a11",
		TokenHash:      "hash",
		UserID:         s.userID,
		CurrentGroupID: &group.ID,
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(time.Hour),
	}
	require.NoError(s.T(), s.db.Create(&session).Error)
	require.NoError(s.T(), s.db.Exec("INSERT INTO bank_amounts (group_id, amount, created_at) VALUES (?, ?, ?)", group.ID, "10", now).Error)

	require.NoError(s.T(), s.service.DeleteGroup(ctx, group.ID))

	var stored sessiondomain.Session
	require.NoError(s.T(), s.db.First(&stored, "id = ?", session.ID).Error)
	assert.Nil(s.T(), stored.CurrentGroupID)

	var remaining int64
	require.NoError(s.T(), s.db.Table("bank_amounts").Where("group_id = ?", group.ID).Count(&remaining).Error)
	assert.Zero(s.T(), remaining)

	member, err := s.repo.IsMember(ctx, s.userID, group.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), member)

	_, err = s.repo.GetGroup(ctx, group.ID)
	assert.ErrorIs(s.T(), err, groupdomain.ErrGroupNotFound)
}

func TestGroupRepositorySuite(t *testing.T) {
	suite.Run(t, new(GroupRepositorySuite))
}
