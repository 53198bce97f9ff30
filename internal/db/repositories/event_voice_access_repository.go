package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"devcircle/rollcall/internal/constants"
	models "devcircle/rollcall/internal/models/gorm"
)

// EventVoiceAccessRepository manages the external-facing grant records with GORM
type EventVoiceAccessRepository struct {
	db *gorm.DB
}

// NewEventVoiceAccessRepository creates a new voice access repository
func NewEventVoiceAccessRepository(db *gorm.DB) *EventVoiceAccessRepository {
	return &EventVoiceAccessRepository{db: db}
}

// GetActiveByPair returns the active grant record for the pair, or nil when
// none exists.
func (r *EventVoiceAccessRepository) GetActiveByPair(ctx context.Context, eventID, userID string) (*models.EventVoiceAccess, error) {
	var access models.EventVoiceAccess

	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ? AND status = ?", eventID, userID, constants.VoiceAccessActive).
		First(&access).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch voice access: %w", err)
	}

	return &access, nil
}

// Create inserts a grant record. Unique-index violations map to
// ErrDuplicateActive, same contract as the participant repository.
func (r *EventVoiceAccessRepository) Create(ctx context.Context, access *models.EventVoiceAccess) error {
	if err := r.db.WithContext(ctx).Create(access).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateActive
		}
		return fmt.Errorf("failed to create voice access: %w", err)
	}
	return nil
}

// Update saves a grant record
func (r *EventVoiceAccessRepository) Update(ctx context.Context, access *models.EventVoiceAccess) error {
	if err := r.db.WithContext(ctx).Save(access).Error; err != nil {
		return fmt.Errorf("failed to update voice access: %w", err)
	}
	return nil
}

// ListActiveByEvent returns every active grant under the event. Cleanup walks
// this list.
func (r *EventVoiceAccessRepository) ListActiveByEvent(ctx context.Context, eventID string) ([]models.EventVoiceAccess, error) {
	var access []models.EventVoiceAccess

	err := r.db.WithContext(ctx).
		Where("event_id = ? AND status = ?", eventID, constants.VoiceAccessActive).
		Find(&access).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list active voice access: %w", err)
	}

	return access, nil
}
