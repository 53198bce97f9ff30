package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"devcircle/rollcall/internal/constants"
	models "devcircle/rollcall/internal/models/gorm"
)

// UserRepository manages user rows with GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by primary key
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constants.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// GetByDiscordID retrieves a user by their linked Discord identity
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).
		Where("discord_id = ?", discordID).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constants.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user by discord id: %w", err)
	}

	return &user, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateRole sets the user's platform role
func (r *UserRepository) UpdateRole(ctx context.Context, userID string, role constants.Role) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", role)

	if res.Error != nil {
		return fmt.Errorf("failed to update role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return constants.ErrUserNotFound
	}
	return nil
}

// LinkDiscord attaches a Discord identity to the user
func (r *UserRepository) LinkDiscord(ctx context.Context, userID, discordID string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("discord_id", discordID)

	if res.Error != nil {
		return fmt.Errorf("failed to link discord id: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return constants.ErrUserNotFound
	}
	return nil
}
