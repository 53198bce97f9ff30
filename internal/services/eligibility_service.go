package services

import (
	"context"

	"devcircle/rollcall/internal/constants"
	"devcircle/rollcall/internal/db/repositories"
	"devcircle/rollcall/internal/models/dtos/responses"
)

// EligibilityService computes whether a user qualifies for an event. Pure
// reads, no side effects; safe to call repeatedly and concurrently. Business
// ineligibility is returned as data, never as an error.
type EligibilityService struct {
	events       *repositories.EventRepository
	userTags     *repositories.UserTagRepository
	participants *repositories.EventParticipantRepository
}

func NewEligibilityService(
	events *repositories.EventRepository,
	userTags *repositories.UserTagRepository,
	participants *repositories.EventParticipantRepository,
) *EligibilityService {
	return &EligibilityService{
		events:       events,
		userTags:     userTags,
		participants: participants,
	}
}

// CheckEligibility evaluates the ALL-of required-tag rule plus event state
// and capacity. An active event accepts requests regardless of start_time;
// completed and cancelled events accept none.
func (s *EligibilityService) CheckEligibility(ctx context.Context, eventID, userID string) (*responses.EligibilityResult, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.userTags.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	held := make(map[string]bool, len(assignments))
	userTags := make([]string, 0, len(assignments))
	for _, a := range assignments {
		// A deactivated tag definition no longer counts toward eligibility
		// even while the assignment row stays active.
		if !a.Tag.IsActive {
			continue
		}
		held[a.Tag.Name] = true
		userTags = append(userTags, a.Tag.Name)
	}

	missing := make([]string, 0)
	for _, required := range event.RequiredTags {
		if !held[required.Tag.Name] {
			missing = append(missing, required.Tag.Name)
		}
	}
	hasAllTags := len(missing) == 0

	result := &responses.EligibilityResult{
		HasAllRequiredTags:  hasAllTags,
		MissingRequiredTags: missing,
		UserTags:            userTags,
		EventStatus:         event.Status.String(),
	}

	hasCapacity := true
	if event.MaxParticipants != nil {
		granted, err := s.participants.CountGranted(ctx, eventID)
		if err != nil {
			return nil, err
		}
		remaining := *event.MaxParticipants - int(granted)
		if remaining < 0 {
			remaining = 0
		}
		result.SpotsRemaining = &remaining
		hasCapacity = remaining > 0
	}

	result.IsEligible = hasAllTags &&
		event.Status == constants.EventStatusActive &&
		hasCapacity

	return result, nil
}
