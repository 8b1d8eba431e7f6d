package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"spotlight/contexts/identity-access/identity-service/domain/entities"
	domainerrors "spotlight/contexts/identity-access/identity-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
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

func (r *Repository) CreateAccount(ctx context.Context, account entities.Account) error {
	row := accountModelFromEntity(account)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *Repository) DeleteAccount(ctx context.Context, accountID string) error {
	result := r.db.WithContext(ctx).
		Where("account_id = ?", strings.TrimSpace(accountID)).
		Delete(&accountModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAccountNotFound
	}
	return nil
}

func (r *Repository) UpdateAccount(ctx context.Context, account entities.Account) error {
	result := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("account_id = ?", strings.TrimSpace(account.AccountID)).
		Updates(map[string]any{
			"role":              string(account.Role),
			"display_name":      account.DisplayName,
			"password_hash":     account.PasswordHash,
			"email_verified_at": normalizeOptionalTime(account.EmailVerifiedAt),
			"updated_at":        account.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAccountNotFound
	}
	return nil
}

func (r *Repository) GetAccountByID(ctx context.Context, accountID string) (entities.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", strings.TrimSpace(accountID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, domainerrors.ErrAccountNotFound
		}
		return entities.Account{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (entities.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("lower(email) = ?", entities.NormalizeEmail(email)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, domainerrors.ErrAccountNotFound
		}
		return entities.Account{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateSession(ctx context.Context, session entities.Session) error {
	row := sessionModel{
		SessionID: session.SessionID,
		AccountID: session.AccountID,
		IssuedAt:  session.IssuedAt.UTC(),
		ExpiresAt: session.ExpiresAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetSession(ctx context.Context, sessionID string) (entities.Session, error) {
	var row sessionModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Session{}, domainerrors.ErrSessionNotFound
		}
		return entities.Session{}, err
	}
	return entities.Session{
		SessionID: row.SessionID,
		AccountID: row.AccountID,
		IssuedAt:  row.IssuedAt.UTC(),
		ExpiresAt: row.ExpiresAt.UTC(),
		RevokedAt: normalizeOptionalTime(row.RevokedAt),
	}, nil
}

func (r *Repository) RevokeSession(ctx context.Context, sessionID string, revokedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("session_id = ? AND revoked_at IS NULL", strings.TrimSpace(sessionID)).
		Update("revoked_at", revokedAt.UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&sessionModel{}).
			Where("session_id = ?", strings.TrimSpace(sessionID)).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrSessionNotFound
		}
	}
	return nil
}

func (r *Repository) CreateVerification(ctx context.Context, verification entities.EmailVerification) error {
	row := verificationModel{
		Token:     verification.Token,
		AccountID: verification.AccountID,
		ExpiresAt: verification.ExpiresAt.UTC(),
		CreatedAt: verification.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetVerification(ctx context.Context, token string) (entities.EmailVerification, error) {
	var row verificationModel
	err := r.db.WithContext(ctx).
		Where("token = ?", strings.TrimSpace(token)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.EmailVerification{}, domainerrors.ErrInvalidVerificationToken
		}
		return entities.EmailVerification{}, err
	}
	return entities.EmailVerification{
		Token:      row.Token,
		AccountID:  row.AccountID,
		ExpiresAt:  row.ExpiresAt.UTC(),
		ConsumedAt: normalizeOptionalTime(row.ConsumedAt),
		CreatedAt:  row.CreatedAt.UTC(),
	}, nil
}

func (r *Repository) ConsumeVerification(ctx context.Context, token string, consumedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&verificationModel{}).
		Where("token = ? AND consumed_at IS NULL", strings.TrimSpace(token)).
		Update("consumed_at", consumedAt.UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidVerificationToken
	}
	return nil
}

type accountModel struct {
	AccountID       string     `gorm:"column:account_id;primaryKey"`
	Email           string     `gorm:"column:email"`
	PasswordHash    string     `gorm:"column:password_hash"`
	Role            string     `gorm:"column:role"`
	DisplayName     string     `gorm:"column:display_name"`
	EmailVerifiedAt *time.Time `gorm:"column:email_verified_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (accountModel) TableName() string {
	return "accounts"
}

func accountModelFromEntity(account entities.Account) accountModel {
	return accountModel{
		AccountID:       account.AccountID,
		Email:           entities.NormalizeEmail(account.Email),
		PasswordHash:    account.PasswordHash,
		Role:            string(account.Role),
		DisplayName:     account.DisplayName,
		EmailVerifiedAt: normalizeOptionalTime(account.EmailVerifiedAt),
		CreatedAt:       account.CreatedAt.UTC(),
		UpdatedAt:       account.UpdatedAt.UTC(),
	}
}

func (m accountModel) toEntity() entities.Account {
	return entities.Account{
		AccountID:       m.AccountID,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		Role:            entities.Role(m.Role),
		DisplayName:     m.DisplayName,
		EmailVerifiedAt: normalizeOptionalTime(m.EmailVerifiedAt),
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type sessionModel struct {
	SessionID string     `gorm:"column:session_id;primaryKey"`
	AccountID string     `gorm:"column:account_id"`
	IssuedAt  time.Time  `gorm:"column:issued_at"`
	ExpiresAt time.Time  `gorm:"column:expires_at"`
	RevokedAt *time.Time `gorm:"column:revoked_at"`
}

func (sessionModel) TableName() string {
	return "sessions"
}

type verificationModel struct {
	Token      string     `gorm:"column:token;primaryKey"`
	AccountID  string     `gorm:"column:account_id"`
	ExpiresAt  time.Time  `gorm:"column:expires_at"`
	ConsumedAt *time.Time `gorm:"column:consumed_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
}

func (verificationModel) TableName() string {
	return "email_verifications"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
