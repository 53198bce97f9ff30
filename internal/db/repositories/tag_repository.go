package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"devcircle/rollcall/internal/constants"
	models "devcircle/rollcall/internal/models/gorm"
)

// TagRepository manages tag definitions with GORM
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// GetByID retrieves a tag by primary key
func (r *TagRepository) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	var tag models.Tag

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tag).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constants.ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to fetch tag: %w", err)
	}

	return &tag, nil
}

// GetByName retrieves a tag by its machine key
func (r *TagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag

	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&tag).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constants.ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to fetch tag by name: %w", err)
	}

	return &tag, nil
}

// List returns tag definitions, optionally only active ones
func (r *TagRepository) List(ctx context.Context, activeOnly bool) ([]models.Tag, error) {
	var tags []models.Tag

	q := r.db.WithContext(ctx).Order("category ASC, name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	if err := q.Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	return tags, nil
}

// Create inserts a new tag definition
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// Update saves an edited tag definition
func (r *TagRepository) Update(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Save(tag).Error; err != nil {
		return fmt.Errorf("failed to update tag: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a tag. Rows are never hard-deleted so historical
// assignments keep resolving.
func (r *TagRepository) Deactivate(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("id = ?", id).
		Update("is_active", false)

	if res.Error != nil {
		return fmt.Errorf("failed to deactivate tag: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return constants.ErrTagNotFound
	}
	return nil
}
