package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/reclaimhq/reclaim/internal/invitation/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) ListAccountUsers(ctx context.Context, accountID snowflake.ID) ([]domain.AccountUser, error) {
	var users []domain.AccountUser
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Select("email", "user_type").
		Where("account_id = ?", accountID).
		Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repo) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) FindUserByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) FindAccountByID(ctx context.Context, id snowflake.ID) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repo) FindEntityByID(ctx context.Context, id snowflake.ID) (*domain.Entity, error) {
	var entity domain.Entity
	err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *repo) FindActiveAdmin(ctx context.Context, accountID snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND user_type = ? AND status = ?", accountID, domain.UserTypeAdmin, domain.StatusActive).
		Order("id asc").
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) CreateUser(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repo) CreateUsersBatch(ctx context.Context, users []*domain.User) error {
	if len(users) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&users).Error
}

func (r *repo) ActivateUser(ctx context.Context, id snowflake.ID, patch domain.ActivationPatch) (bool, error) {
	// Conditional update: the row must still be pending with no password
	// hash, so two racing completions cannot both win.
	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ? AND status = ? AND (hashed_password IS NULL OR hashed_password = '')", id, domain.StatusPending).
		Updates(map[string]interface{}{
			"full_name":         patch.FullName,
			"hashed_password":   patch.HashedPassword,
			"phone":             patch.Phone,
			"profile_image_url": patch.ProfileImageURL,
			"status":            domain.StatusActive,
			"last_login_at":     patch.LastLoginAt,
			"updated_at":        time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
