package postgresadapter

import (
	"context"
	"errors"
	"strings"
	"time"

	domainerrors "spotlight/contexts/internal-ops/admin-dashboard-service/domain/errors"
	"spotlight/contexts/internal-ops/admin-dashboard-service/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AppendAuditLog(ctx context.Context, row ports.AuditLog) (bool, error) {
	model := auditLogModel{
		LogID:         strings.TrimSpace(row.AuditID),
		ActorID:       row.ActorID,
		Action:        row.Action,
		TargetType:    row.TargetType,
		TargetID:      row.TargetID,
		Justification: row.Justification,
		OccurredAt:    row.OccurredAt.UTC(),
	}
	if model.LogID == "" {
		model.LogID = uuid.NewString()
	}
	if source := strings.TrimSpace(row.SourceEvent); source != "" {
		model.SourceEvent = &source
	}
	tx := r.db.WithContext(ctx)
	if model.SourceEvent != nil {
		tx = tx.Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "source_event"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "source_event IS NOT NULL"}}},
			DoNothing:   true,
		})
	}
	result := tx.Create(&model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) ListRecentAuditLogs(ctx context.Context, limit int) ([]ports.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []auditLogModel
	if err := r.db.WithContext(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.AuditLog, 0, len(rows))
	for _, row := range rows {
		item := ports.AuditLog{
			AuditID:       row.LogID,
			ActorID:       row.ActorID,
			Action:        row.Action,
			TargetType:    row.TargetType,
			TargetID:      row.TargetID,
			Justification: row.Justification,
			OccurredAt:    row.OccurredAt.UTC(),
		}
		if row.SourceEvent != nil {
			item.SourceEvent = *row.SourceEvent
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (*ports.IdempotencyRecord, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).Where("key = ?", strings.TrimSpace(key)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).Where("key = ?", row.Key).Delete(&idempotencyModel{}).Error; err != nil {
			return nil, err
		}
		return nil, nil
	}
	if row.ResponseBody == nil {
		return nil, nil
	}
	return &ports.IdempotencyRecord{
		Key:          row.Key,
		RequestHash:  row.RequestHash,
		ResponseBody: append([]byte(nil), row.ResponseBody...),
		ExpiresAt:    row.ExpiresAt.UTC(),
	}, nil
}

func (r *Repository) Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error {
	row := idempotencyModel{
		Key:         strings.TrimSpace(key),
		RequestHash: requestHash,
		ExpiresAt:   expiresAt.UTC(),
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
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
	if existing.RequestHash != requestHash {
		return domainerrors.ErrIdempotencyConflict
	}
	return nil
}

func (r *Repository) Complete(ctx context.Context, key string, responseBody []byte, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&idempotencyModel{}).
		Where("key = ?", strings.TrimSpace(key)).
		Updates(map[string]any{"response_body": responseBody}).
		Error
}

type auditLogModel struct {
	LogID         string    `gorm:"column:log_id;primaryKey"`
	ActorID       string    `gorm:"column:actor_id"`
	Action        string    `gorm:"column:action"`
	TargetType    string    `gorm:"column:target_type"`
	TargetID      string    `gorm:"column:target_id"`
	Justification string    `gorm:"column:justification"`
	SourceEvent   *string   `gorm:"column:source_event"`
	OccurredAt    time.Time `gorm:"column:occurred_at"`
}

func (auditLogModel) TableName() string {
	return "admin_audit_log"
}

type idempotencyModel struct {
	Key          string    `gorm:"column:key;primaryKey"`
	RequestHash  string    `gorm:"column:request_hash"`
	ResponseBody []byte    `gorm:"column:response_body"`
	ExpiresAt    time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "admin_action_idempotency"
}
