package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"spotlight/contexts/identity-access/onboarding-service/domain/entities"
	domainerrors "spotlight/contexts/identity-access/onboarding-service/domain/errors"
	"spotlight/contexts/identity-access/onboarding-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateApplication(ctx context.Context, item entities.Application) error {
	row, err := applicationModelFromEntity(item)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidRequest
		}
		return err
	}
	return nil
}

func (r *Repository) GetApplication(ctx context.Context, applicationID string) (entities.Application, error) {
	var row applicationModel
	err := r.db.WithContext(ctx).
		Where("application_id = ?", strings.TrimSpace(applicationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Application{}, domainerrors.ErrApplicationNotFound
		}
		return entities.Application{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListApplications(ctx context.Context, status entities.Status) ([]entities.Application, error) {
	tx := r.db.WithContext(ctx).Model(&applicationModel{})
	if status != "" {
		tx = tx.Where("status = ?", string(status))
	}
	var rows []applicationModel
	if err := tx.Order("created_at DESC").Order("application_id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Application, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ReviewApplication updates the row only while it is still pending.
func (r *Repository) ReviewApplication(ctx context.Context, input ports.ReviewInput) (entities.Application, error) {
	applicationID := strings.TrimSpace(input.ApplicationID)
	result := r.db.WithContext(ctx).
		Model(&applicationModel{}).
		Where("application_id = ? AND status = ?", applicationID, string(entities.StatusPending)).
		Updates(map[string]any{
			"status":        string(input.To),
			"reviewed_by":   input.ReviewerID,
			"review_reason": input.Reason,
			"updated_at":    input.ReviewedAt.UTC(),
		})
	if result.Error != nil {
		return entities.Application{}, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetApplication(ctx, applicationID); err != nil {
			return entities.Application{}, err
		}
		r.logger.Warn("application already reviewed",
			"event", "influencer_application_review_cas_miss",
			"module", "identity-access/onboarding-service",
			"layer", "adapter",
			"application_id", applicationID,
		)
		return entities.Application{}, domainerrors.ErrAlreadyReviewed
	}
	return r.GetApplication(ctx, applicationID)
}

func (r *Repository) CountByStatus(ctx context.Context) (map[entities.Status]int, error) {
	var rows []struct {
		Status string
		Total  int
	}
	if err := r.db.WithContext(ctx).
		Model(&applicationModel{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).
		Error; err != nil {
		return nil, err
	}
	counts := make(map[entities.Status]int, len(rows))
	for _, row := range rows {
		counts[entities.Status(row.Status)] = row.Total
	}
	return counts, nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}
	if now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", row.Key).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		return ports.IdempotencyRecord{}, false, nil
	}
	return ports.IdempotencyRecord{
		Key:         row.Key,
		RequestHash: row.RequestHash,
		Payload:     append([]byte(nil), row.ResponsePayload...),
		ExpiresAt:   row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		RequestHash:     record.RequestHash,
		ResponsePayload: append([]byte(nil), record.Payload...),
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	var existing idempotencyModel
	if err := r.db.WithContext(ctx).Where("key = ?", row.Key).First(&existing).Error; err != nil {
		return err
	}
	if existing.RequestHash != row.RequestHash || !bytes.Equal(existing.ResponsePayload, row.ResponsePayload) {
		return domainerrors.ErrIdempotencyConflict
	}
	return nil
}

type applicationModel struct {
	ApplicationID  string    `gorm:"column:application_id;primaryKey"`
	FullName       string    `gorm:"column:full_name"`
	Email          string    `gorm:"column:email"`
	Phone          string    `gorm:"column:phone"`
	Niche          string    `gorm:"column:niche"`
	FollowerCount  int64     `gorm:"column:follower_count"`
	EngagementRate float64   `gorm:"column:engagement_rate"`
	PortfolioURL   string    `gorm:"column:portfolio_url"`
	SocialHandles  []byte    `gorm:"column:social_handles;type:jsonb"`
	Bio            string    `gorm:"column:bio"`
	Status         string    `gorm:"column:status"`
	ReviewedBy     string    `gorm:"column:reviewed_by"`
	ReviewReason   string    `gorm:"column:review_reason"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (applicationModel) TableName() string {
	return "influencer_applications"
}

func applicationModelFromEntity(item entities.Application) (applicationModel, error) {
	handles := item.SocialHandles
	if handles == nil {
		handles = map[string]string{}
	}
	encoded, err := json.Marshal(handles)
	if err != nil {
		return applicationModel{}, err
	}
	id := strings.TrimSpace(item.ApplicationID)
	if id == "" {
		id = uuid.NewString()
	}
	return applicationModel{
		ApplicationID:  id,
		FullName:       item.FullName,
		Email:          item.Email,
		Phone:          item.Phone,
		Niche:          item.Niche,
		FollowerCount:  item.FollowerCount,
		EngagementRate: item.EngagementRate,
		PortfolioURL:   item.PortfolioURL,
		SocialHandles:  encoded,
		Bio:            item.Bio,
		Status:         string(item.Status),
		ReviewedBy:     item.ReviewedBy,
		ReviewReason:   item.ReviewReason,
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}, nil
}

func (m applicationModel) toEntity() (entities.Application, error) {
	handles := map[string]string{}
	if len(m.SocialHandles) > 0 {
		if err := json.Unmarshal(m.SocialHandles, &handles); err != nil {
			return entities.Application{}, err
		}
	}
	return entities.Application{
		ApplicationID:  m.ApplicationID,
		FullName:       m.FullName,
		Email:          m.Email,
		Phone:          m.Phone,
		Niche:          m.Niche,
		FollowerCount:  m.FollowerCount,
		EngagementRate: m.EngagementRate,
		PortfolioURL:   m.PortfolioURL,
		SocialHandles:  handles,
		Bio:            m.Bio,
		Status:         entities.Status(m.Status),
		ReviewedBy:     m.ReviewedBy,
		ReviewReason:   m.ReviewReason,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}, nil
}

type idempotencyModel struct {
	Key             string    `gorm:"column:key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "application_idempotency"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
