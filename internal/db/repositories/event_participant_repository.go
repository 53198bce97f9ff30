package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"devcircle/rollcall/internal/constants"
	models "devcircle/rollcall/internal/models/gorm"
)

// ErrDuplicateActive surfaces a violation of the partial unique index on
// active participant rows. The coordinator treats it as "the other writer
// won" and re-reads.
var ErrDuplicateActive = errors.New("active participant row already exists")

// EventParticipantRepository manages access-request lifecycle rows with GORM
type EventParticipantRepository struct {
	db *gorm.DB
}

// NewEventParticipantRepository creates a new participant repository
func NewEventParticipantRepository(db *gorm.DB) *EventParticipantRepository {
	return &EventParticipantRepository{db: db}
}

// GetActiveByPair returns the requested/granted row for the pair, or nil when
// none exists.
func (r *EventParticipantRepository) GetActiveByPair(ctx context.Context, eventID, userID string) (*models.EventParticipant, error) {
	var participant models.EventParticipant

	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ? AND status IN ?", eventID, userID,
			[]constants.ParticipantStatus{constants.ParticipantRequested, constants.ParticipantGranted}).
		First(&participant).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch participant: %w", err)
	}

	return &participant, nil
}

// Create inserts a new lifecycle row. A unique-index violation maps to
// ErrDuplicateActive so callers can resolve the race as idempotent success.
func (r *EventParticipantRepository) Create(ctx context.Context, participant *models.EventParticipant) error {
	if err := r.db.WithContext(ctx).Create(participant).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateActive
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

// Update saves a lifecycle row
func (r *EventParticipantRepository) Update(ctx context.Context, participant *models.EventParticipant) error {
	if err := r.db.WithContext(ctx).Save(participant).Error; err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	return nil
}

// CountGranted counts granted rows for the capacity check
func (r *EventParticipantRepository) CountGranted(ctx context.Context, eventID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.EventParticipant{}).
		Where("event_id = ? AND status = ?", eventID, constants.ParticipantGranted).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count granted participants: %w", err)
	}

	return count, nil
}

// ListByEvent returns all lifecycle rows for an event with users preloaded
func (r *EventParticipantRepository) ListByEvent(ctx context.Context, eventID string) ([]models.EventParticipant, error) {
	var participants []models.EventParticipant

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("requested_at ASC").
		Find(&participants).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	return participants, nil
}

// isUniqueViolation matches both the Postgres error text (lib/pq and pgx both
// carry "duplicate key value") and sqlite's, so tests behave like production.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
