package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	models "devcircle/rollcall/internal/models/gorm"
)

// UserTagRepository manages tag assignments with GORM
type UserTagRepository struct {
	db *gorm.DB
}

// NewUserTagRepository creates a new user tag repository
func NewUserTagRepository(db *gorm.DB) *UserTagRepository {
	return &UserTagRepository{db: db}
}

// GetActiveByUser returns the user's active assignments with tag definitions
// preloaded. This is the eligibility engine's read path.
func (r *UserTagRepository) GetActiveByUser(ctx context.Context, userID string) ([]models.UserTag, error) {
	var assignments []models.UserTag

	err := r.db.WithContext(ctx).
		Preload("Tag").
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&assignments).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch user tags: %w", err)
	}

	return assignments, nil
}

// GetPair returns the newest assignment row for a (user, tag) pair, active or
// not. Returns nil without error when no history exists.
func (r *UserTagRepository) GetPair(ctx context.Context, userID, tagID string) (*models.UserTag, error) {
	var assignment models.UserTag

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND tag_id = ?", userID, tagID).
		Order("assigned_at DESC").
		First(&assignment).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch tag assignment: %w", err)
	}

	return &assignment, nil
}

// Create inserts a new assignment row
func (r *UserTagRepository) Create(ctx context.Context, assignment *models.UserTag) error {
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create tag assignment: %w", err)
	}
	return nil
}

// Update saves an assignment row
func (r *UserTagRepository) Update(ctx context.Context, assignment *models.UserTag) error {
	if err := r.db.WithContext(ctx).Save(assignment).Error; err != nil {
		return fmt.Errorf("failed to update tag assignment: %w", err)
	}
	return nil
}

// ClearPrimary drops the primary flag from every active assignment of the
// user. The assignment coordinator calls this before promoting a new primary
// so at most one active row stays primary.
func (r *UserTagRepository) ClearPrimary(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).
		Model(&models.UserTag{}).
		Where("user_id = ? AND is_active = ? AND is_primary = ?", userID, true, true).
		Update("is_primary", false).Error

	if err != nil {
		return fmt.Errorf("failed to clear primary tag: %w", err)
	}
	return nil
}
