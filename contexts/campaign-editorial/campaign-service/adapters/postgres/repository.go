package postgresadapter

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"spotlight/contexts/campaign-editorial/campaign-service/domain/entities"
	domainerrors "spotlight/contexts/campaign-editorial/campaign-service/domain/errors"
	"spotlight/contexts/campaign-editorial/campaign-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
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
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateCampaign(ctx context.Context, campaign entities.Campaign) error {
	row := campaignModelFromEntity(campaign)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidCampaignInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	tx := r.db.WithContext(ctx).Model(&campaignModel{})
	if strings.TrimSpace(filter.BrandID) != "" {
		tx = tx.Where("brand_id = ?", strings.TrimSpace(filter.BrandID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []campaignModel
	if err := tx.Order("created_at DESC").Order("campaign_id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// UpdateStatus is a conditional update on the expected current status.
func (r *Repository) UpdateStatus(
	ctx context.Context,
	campaignID string,
	from entities.CampaignStatus,
	to entities.CampaignStatus,
	updatedAt time.Time,
) (entities.Campaign, error) {
	campaignID = strings.TrimSpace(campaignID)
	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ? AND status = ?", campaignID, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return entities.Campaign{}, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetCampaign(ctx, campaignID); err != nil {
			return entities.Campaign{}, err
		}
		r.logger.Warn("conditional status update lost",
			"event", "campaign_status_cas_miss",
			"module", "campaign-editorial/campaign-service",
			"layer", "adapter",
			"campaign_id", campaignID,
			"expected_status", string(from),
		)
		return entities.Campaign{}, domainerrors.ErrStatusConflict
	}
	return r.GetCampaign(ctx, campaignID)
}

func (r *Repository) CountByStatus(ctx context.Context) (map[entities.CampaignStatus]int, error) {
	var rows []struct {
		Status string
		Total  int
	}
	if err := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).
		Error; err != nil {
		return nil, err
	}
	counts := make(map[entities.CampaignStatus]int, len(rows))
	for _, row := range rows {
		counts[entities.CampaignStatus(row.Status)] = row.Total
	}
	return counts, nil
}

func (r *Repository) AppendState(ctx context.Context, item entities.StateHistory) error {
	row := stateHistoryModel{
		HistoryID:    strings.TrimSpace(item.HistoryID),
		CampaignID:   strings.TrimSpace(item.CampaignID),
		FromStatus:   string(item.FromState),
		ToStatus:     string(item.ToState),
		ChangedBy:    strings.TrimSpace(item.ChangedBy),
		ChangeReason: strings.TrimSpace(item.ChangeReason),
		CreatedAt:    item.CreatedAt.UTC(),
	}
	if row.HistoryID == "" {
		row.HistoryID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidCampaignInput
		}
		return err
	}
	return nil
}

func (r *Repository) ListStates(ctx context.Context, campaignID string) ([]entities.StateHistory, error) {
	var rows []stateHistoryModel
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Order("created_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.StateHistory, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.StateHistory{
			HistoryID:    row.HistoryID,
			CampaignID:   row.CampaignID,
			FromState:    entities.CampaignStatus(row.FromStatus),
			ToState:      entities.CampaignStatus(row.ToStatus),
			ChangedBy:    row.ChangedBy,
			ChangeReason: row.ChangeReason,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
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

	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", strings.TrimSpace(key)).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		return ports.IdempotencyRecord{}, false, nil
	}

	return ports.IdempotencyRecord{
		Key:             row.Key,
		RequestHash:     row.RequestHash,
		ResponsePayload: append([]byte(nil), row.ResponsePayload...),
		ExpiresAt:       row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		RequestHash:     record.RequestHash,
		ResponsePayload: append([]byte(nil), record.ResponsePayload...),
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).
		Error; err != nil {
		return err
	}
	if existing.RequestHash != row.RequestHash || !bytes.Equal(existing.ResponsePayload, row.ResponsePayload) {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	return nil
}

type campaignModel struct {
	CampaignID     string         `gorm:"column:campaign_id;primaryKey"`
	BrandID        string         `gorm:"column:brand_id"`
	Title          string         `gorm:"column:title"`
	Description    string         `gorm:"column:description"`
	Budget         float64        `gorm:"column:budget"`
	DurationDays   int            `gorm:"column:duration_days"`
	InfluencerTier string         `gorm:"column:influencer_tier"`
	TargetAudience string         `gorm:"column:target_audience"`
	Goals          string         `gorm:"column:goals"`
	ContentType    string         `gorm:"column:content_type"`
	Platforms      pq.StringArray `gorm:"column:platforms;type:text[]"`
	Timeline       string         `gorm:"column:timeline"`
	KPIs           string         `gorm:"column:kpis"`
	Status         string         `gorm:"column:status"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string {
	return "campaigns"
}

func campaignModelFromEntity(item entities.Campaign) campaignModel {
	return campaignModel{
		CampaignID:     strings.TrimSpace(item.CampaignID),
		BrandID:        strings.TrimSpace(item.BrandID),
		Title:          item.Title,
		Description:    item.Description,
		Budget:         item.Budget,
		DurationDays:   item.DurationDays,
		InfluencerTier: string(item.InfluencerTier),
		TargetAudience: item.TargetAudience,
		Goals:          item.Goals,
		ContentType:    item.ContentType,
		Platforms:      pq.StringArray(copyOrEmpty(item.Platforms)),
		Timeline:       item.Timeline,
		KPIs:           item.KPIs,
		Status:         string(item.Status),
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}
}

func (m campaignModel) toEntity() entities.Campaign {
	return entities.Campaign{
		CampaignID:     m.CampaignID,
		BrandID:        m.BrandID,
		Title:          m.Title,
		Description:    m.Description,
		Budget:         m.Budget,
		DurationDays:   m.DurationDays,
		InfluencerTier: entities.InfluencerTier(m.InfluencerTier),
		TargetAudience: m.TargetAudience,
		Goals:          m.Goals,
		ContentType:    m.ContentType,
		Platforms:      copyOrEmpty(m.Platforms),
		Timeline:       m.Timeline,
		KPIs:           m.KPIs,
		Status:         entities.CampaignStatus(m.Status),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type stateHistoryModel struct {
	HistoryID    string    `gorm:"column:history_id;primaryKey"`
	CampaignID   string    `gorm:"column:campaign_id"`
	FromStatus   string    `gorm:"column:from_status"`
	ToStatus     string    `gorm:"column:to_status"`
	ChangedBy    string    `gorm:"column:changed_by"`
	ChangeReason string    `gorm:"column:change_reason"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (stateHistoryModel) TableName() string {
	return "campaign_status_history"
}

type idempotencyModel struct {
	Key             string    `gorm:"column:key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "campaign_idempotency"
}

func copyOrEmpty(items []string) []string {
	if len(items) == 0 {
		return []string{}
	}
	return append([]string(nil), items...)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
