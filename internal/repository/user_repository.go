package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/restofleet/pos-admin-api/internal/domain"
	"github.com/restofleet/pos-admin-api/internal/observability"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	CredentialByUserID(ctx context.Context, userID uint) (*domain.Credential, error)
	SaveCredential(ctx context.Context, cred *domain.Credential) error
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	defer observeUserOp(ctx, "find_by_id", time.Now())
	var u domain.User
	if err := r.db.WithContext(ctx).Preload("Role").First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	defer observeUserOp(ctx, "find_by_email", time.Now())
	normalized := strings.TrimSpace(strings.ToLower(email))
	var u domain.User
	if err := r.db.WithContext(ctx).Preload("Role").Where("email = ?", normalized).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) CredentialByUserID(ctx context.Context, userID uint) (*domain.Credential, error) {
	defer observeUserOp(ctx, "credential_by_user_id", time.Now())
	var cred domain.Credential
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cred, nil
}

func (r *GormUserRepository) SaveCredential(ctx context.Context, cred *domain.Credential) error {
	defer observeUserOp(ctx, "save_credential", time.Now())
	return r.db.WithContext(ctx).Save(cred).Error
}

func observeUserOp(ctx context.Context, op string, start time.Time) {
	observability.RecordRepositoryOperation(ctx, "USERS", op, time.Since(start))
}
