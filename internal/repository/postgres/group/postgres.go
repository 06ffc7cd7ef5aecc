package group

import (
	"context"
	"errors"
	"time"

	"finance-app-go/internal/db"
	groupdomain "finance-app-go/internal/domain/group"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(groupdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetGroup(ctx context.Context, groupID int64) (*groupdomain.Group, error) {
	var group groupdomain.Group
	if err := r.db.WithContext(ctx).Where("id = ?", groupID).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupdomain.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *PostgresRepository) ListGroups(ctx context.Context) ([]groupdomain.Summary, error) {
	type groupRow struct {
		ID          int64     `gorm:"column:id"`
		Name        string    `gorm:"column:name"`
		CreatedBy   *int64    `gorm:"column:created_by"`
		CreatedAt   time.Time `gorm:"column:created_at"`
		MemberCount int64     `gorm:"column:member_count"`
	}

	var rows []groupRow
	if err := r.db.WithContext(ctx).
		Table("groups").
		Select("groups.id, groups.name, groups.created_by, groups.created_at, COUNT(user_groups.user_id) AS member_count").
		Joins("left join user_groups on user_groups.group_id = groups.id").
		Group("groups.id, groups.name, groups.created_by, groups.created_at").
		Order("groups.id asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	groups := make([]groupdomain.Summary, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, groupdomain.Summary{
			Group: groupdomain.Group{
				ID:        row.ID,
				Name:      row.Name,
				CreatedBy: row.CreatedBy,
				CreatedAt: row.CreatedAt,
			},
			MemberCount: row.MemberCount,
		})
	}
	return groups, nil
}

func (r *PostgresRepository) CreateGroup(ctx context.Context, group *groupdomain.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *PostgresRepository) RenameGroup(ctx context.Context, groupID int64, name string) error {
	return r.db.WithContext(ctx).Model(&groupdomain.Group{}).Where("id = ?", groupID).Update("name", name).Error
}

// DeleteGroupData removes the group's bank log, its history and its entries.
func (r *PostgresRepository) DeleteGroupData(ctx context.Context, groupID int64) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Exec("DELETE FROM entry_amounts WHERE entry_id IN (SELECT id FROM entries WHERE group_id = ?)", groupID).Error; err != nil {
		return err
	}
	for _, table := range []string{"entries", "balance_history", "bank_amounts"} {
		if err := tx.Exec("DELETE FROM "+table+" WHERE group_id = ?", groupID).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) ClearGroupReferences(ctx context.Context, groupID int64) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Table("sessions").Where("current_group_id = ?", groupID).Update("current_group_id", nil).Error; err != nil {
		return err
	}
	return tx.Table("users").Where("last_group_id = ?", groupID).Update("last_group_id", nil).Error
}

func (r *PostgresRepository) DeleteMembershipsByGroup(ctx context.Context, groupID int64) error {
	return r.db.WithContext(ctx).Where("group_id = ?", groupID).Delete(&groupdomain.Membership{}).Error
}

func (r *PostgresRepository) DeleteGroup(ctx context.Context, groupID int64) error {
	return r.db.WithContext(ctx).Delete(&groupdomain.Group{}, "id = ?", groupID).Error
}

func (r *PostgresRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("users").Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) AddMembership(ctx context.Context, membership *groupdomain.Membership) error {
	err := r.db.WithContext(ctx).Create(membership).Error
	if db.IsUniqueViolation(err) {
		return groupdomain.ErrAlreadyMember
	}
	return err
}

func (r *PostgresRepository) DeleteMembership(ctx context.Context, userID, groupID int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&groupdomain.Membership{}, "user_id = ? AND group_id = ?", userID, groupID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ClearLastGroup(ctx context.Context, userID, groupID int64) error {
	return r.db.WithContext(ctx).
		Table("users").
		Where("id = ? AND last_group_id = ?", userID, groupID).
		Update("last_group_id", nil).Error
}

func (r *PostgresRepository) IsMember(ctx context.Context, userID, groupID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&groupdomain.Membership{}).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListUserGroups(ctx context.Context, userID int64) ([]groupdomain.UserGroup, error) {
	type membershipRow struct {
		GroupID  int64     `gorm:"column:group_id"`
		Name     string    `gorm:"column:name"`
		JoinedAt time.Time `gorm:"column:joined_at"`
	}

	var rows []membershipRow
	if err := r.db.WithContext(ctx).
		Table("user_groups").
		Select("user_groups.group_id, groups.name, user_groups.joined_at").
		Joins("join groups on groups.id = user_groups.group_id").
		Where("user_groups.user_id = ?", userID).
		Order("user_groups.joined_at asc, user_groups.group_id asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	groups := make([]groupdomain.UserGroup, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, groupdomain.UserGroup{
			GroupID:  row.GroupID,
			Name:     row.Name,
			JoinedAt: row.JoinedAt,
		})
	}
	return groups, nil
}

func (r *PostgresRepository) ListMemberships(ctx context.Context) ([]groupdomain.MembershipView, error) {
	type membershipRow struct {
		UserID    int64     `gorm:"column:user_id"`
		Username  string    `gorm:"column:username"`
		GroupID   int64     `gorm:"column:group_id"`
		GroupName string    `gorm:"column:group_name"`
		JoinedAt  time.Time `gorm:"column:joined_at"`
	}

	var rows []membershipRow
	if err := r.db.WithContext(ctx).
		Table("user_groups").
		Select("user_groups.user_id, users.username, user_groups.group_id, groups.name AS group_name, user_groups.joined_at").
		Joins("join users on users.id = user_groups.user_id").
		Joins("join groups on groups.id = user_groups.group_id").
		Order("user_groups.group_id asc, user_groups.joined_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	memberships := make([]groupdomain.MembershipView, 0, len(rows))
	for _, row := range rows {
		memberships = append(memberships, groupdomain.MembershipView{
			UserID:    row.UserID,
			Username:  row.Username,
			GroupID:   row.GroupID,
			GroupName: row.GroupName,
			JoinedAt:  row.JoinedAt,
		})
	}
	return memberships, nil
}
