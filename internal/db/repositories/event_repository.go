package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"devcircle/rollcall/internal/constants"
	models "devcircle/rollcall/internal/models/gorm"
)

// EventRepository manages event rows and their required-tag sets with GORM
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// GetByID retrieves an event with its required tags preloaded
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event

	err := r.db.WithContext(ctx).
		Preload("RequiredTags.Tag").
		Where("id = ?", id).
		First(&event).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constants.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}

	return &event, nil
}

// ListByStatus returns events in the given status, soonest first
func (r *EventRepository) ListByStatus(ctx context.Context, status constants.EventStatus) ([]models.Event, error) {
	var events []models.Event

	err := r.db.WithContext(ctx).
		Preload("RequiredTags.Tag").
		Where("status = ?", status).
		Order("start_time ASC").
		Find(&events).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return events, nil
}

// ListOverdue returns active events whose end_time has passed. The sweep job
// feeds these into cleanup.
func (r *EventRepository) ListOverdue(ctx context.Context, now time.Time) ([]models.Event, error) {
	var events []models.Event

	err := r.db.WithContext(ctx).
		Where("status = ? AND end_time IS NOT NULL AND end_time < ?", constants.EventStatusActive, now).
		Find(&events).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list overdue events: %w", err)
	}

	return events, nil
}

// Create inserts the event together with its required-tag set in one
// transaction
func (r *EventRepository) Create(ctx context.Context, event *models.Event, tagIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		for _, tagID := range tagIDs {
			req := models.EventRequiredTag{EventID: event.ID, TagID: tagID}
			if err := tx.Create(&req).Error; err != nil {
				return fmt.Errorf("failed to attach required tag: %w", err)
			}
		}
		return nil
	})
}

// Update saves edited event fields
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// ReplaceRequiredTags swaps the full required-tag set. Per-row edits are not
// supported, edits always replace wholesale.
func (r *EventRepository) ReplaceRequiredTags(ctx context.Context, eventID string, tagIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventRequiredTag{}).Error; err != nil {
			return fmt.Errorf("failed to clear required tags: %w", err)
		}
		for _, tagID := range tagIDs {
			req := models.EventRequiredTag{EventID: eventID, TagID: tagID}
			if err := tx.Create(&req).Error; err != nil {
				return fmt.Errorf("failed to attach required tag: %w", err)
			}
		}
		return nil
	})
}

// UpdateStatus transitions the event status, enforcing the forward-only
// lifecycle at the store boundary.
func (r *EventRepository) UpdateStatus(ctx context.Context, eventID string, from, to constants.EventStatus) error {
	if !from.CanTransitionTo(to) {
		return constants.ErrInvalidTransition
	}

	res := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ? AND status = ?", eventID, from).
		Update("status", to)

	if res.Error != nil {
		return fmt.Errorf("failed to update event status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the event vanished or a concurrent transition won.
		return constants.ErrInvalidTransition
	}
	return nil
}

// Delete removes the event row together with its required-tag set, participant
// history and voice-access records. Callers run cleanup first so no active
// grants outlive the event; the child rows go in the same transaction because
// they carry foreign keys back to the event.
func (r *EventRepository) Delete(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventVoiceAccess{}).Error; err != nil {
			return fmt.Errorf("failed to delete voice access records: %w", err)
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventParticipant{}).Error; err != nil {
			return fmt.Errorf("failed to delete participants: %w", err)
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventRequiredTag{}).Error; err != nil {
			return fmt.Errorf("failed to delete required tags: %w", err)
		}
		if err := tx.Where("id = ?", eventID).Delete(&models.Event{}).Error; err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return nil
	})
}
