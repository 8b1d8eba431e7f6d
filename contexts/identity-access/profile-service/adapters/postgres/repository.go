package postgresadapter

import (
	"context"
	"errors"
	"strings"
	"time"

	"spotlight/contexts/identity-access/profile-service/domain/entities"
	domainerrors "spotlight/contexts/identity-access/profile-service/domain/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateProfile(ctx context.Context, profile entities.Profile) (bool, error) {
	row := profileModel{
		AccountID:   profile.AccountID,
		DisplayName: profile.DisplayName,
		AvatarURL:   profile.AvatarURL,
		Role:        string(profile.Role),
		CreatedAt:   profile.CreatedAt.UTC(),
		UpdatedAt:   profile.UpdatedAt.UTC(),
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "account_id"}}, DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *Repository) GetProfile(ctx context.Context, accountID string) (entities.Profile, error) {
	var row profileModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", strings.TrimSpace(accountID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Profile{}, domainerrors.ErrProfileNotFound
		}
		return entities.Profile{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateProfile(ctx context.Context, profile entities.Profile) error {
	result := r.db.WithContext(ctx).
		Model(&profileModel{}).
		Where("account_id = ?", profile.AccountID).
		Updates(map[string]any{
			"display_name": profile.DisplayName,
			"avatar_url":   profile.AvatarURL,
			"role":         string(profile.Role),
			"updated_at":   profile.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProfileNotFound
	}
	return nil
}

func (r *Repository) ListProfiles(ctx context.Context, role entities.Role) ([]entities.Profile, error) {
	query := r.db.WithContext(ctx).Model(&profileModel{})
	if role != "" {
		query = query.Where("role = ?", string(role))
	}
	var rows []profileModel
	if err := query.Order("created_at DESC").Order("account_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Profile, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) Now() time.Time {
	return time.Now().UTC()
}

type profileModel struct {
	AccountID   string    `gorm:"column:account_id;primaryKey"`
	DisplayName string    `gorm:"column:display_name"`
	AvatarURL   string    `gorm:"column:avatar_url"`
	Role        string    `gorm:"column:role"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (profileModel) TableName() string {
	return "profiles"
}

func (m profileModel) toEntity() entities.Profile {
	return entities.Profile{
		AccountID:   m.AccountID,
		DisplayName: m.DisplayName,
		AvatarURL:   m.AvatarURL,
		Role:        entities.Role(m.Role),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}
