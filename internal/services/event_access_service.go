package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"devcircle/rollcall/internal/common"
	"devcircle/rollcall/internal/constants"
	"devcircle/rollcall/internal/db/repositories"
	"devcircle/rollcall/internal/discord"
	"devcircle/rollcall/internal/logging"
	"devcircle/rollcall/internal/metrics"
	"devcircle/rollcall/internal/models/dtos/responses"
	models "devcircle/rollcall/internal/models/gorm"
)

// EventAccessService is the state machine over (event, user) access pairs.
// It is the only component that mutates participation state or calls the
// directory for channel permissions. The local store is the source of truth;
// Discord is a cache of intent that this service keeps reconcilable.
type EventAccessService struct {
	events       *repositories.EventRepository
	participants *repositories.EventParticipantRepository
	voiceAccess  *repositories.EventVoiceAccessRepository
	users        *repositories.UserRepository
	statusRepo   *repositories.AccessStatusRepository
	eligibility  *EligibilityService
	directory    discord.DirectoryService
	limiter      common.RequestLimiter
	metrics      *metrics.MetricsRegistry
}

func NewEventAccessService(
	events *repositories.EventRepository,
	participants *repositories.EventParticipantRepository,
	voiceAccess *repositories.EventVoiceAccessRepository,
	users *repositories.UserRepository,
	statusRepo *repositories.AccessStatusRepository,
	eligibility *EligibilityService,
	directory discord.DirectoryService,
	limiter common.RequestLimiter,
	metricsReg *metrics.MetricsRegistry,
) *EventAccessService {
	return &EventAccessService{
		events:       events,
		participants: participants,
		voiceAccess:  voiceAccess,
		users:        users,
		statusRepo:   statusRepo,
		eligibility:  eligibility,
		directory:    directory,
		limiter:      limiter,
		metrics:      metricsReg,
	}
}

// RequestEventAccess runs the request-access workflow. On a Discord grant
// failure the participant row stays `requested` (never silently granted, never
// rolled back) and the caller gets a retryable error: local intent is durable
// across external failures.
func (s *EventAccessService) RequestEventAccess(ctx context.Context, eventID, userID string) (*responses.AccessRequestResult, error) {
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		if !allowed {
			s.metrics.IncAccessRequest("rate_limited")
			return nil, constants.ErrRateLimited
		}
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		s.metrics.IncAccessRequest("not_found")
		return nil, err
	}

	switch {
	case event.Status == constants.EventStatusDraft:
		s.metrics.IncAccessRequest("too_early")
		return nil, constants.ErrEventTooEarly
	case event.Status.Terminal():
		s.metrics.IncAccessRequest("not_active")
		return nil, constants.ErrEventNotActive
	}

	elig, err := s.eligibility.CheckEligibility(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if !elig.HasAllRequiredTags {
		s.metrics.IncAccessRequest("missing_tags")
		return nil, &constants.MissingTagsError{MissingTags: elig.MissingRequiredTags}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.DiscordLinked() {
		s.metrics.IncAccessRequest("discord_not_linked")
		return nil, constants.ErrDiscordNotLinked
	}

	// Idempotency: an existing requested/granted row wins over a new one,
	// so a holder's repeat request succeeds even at capacity. A row stuck in
	// requested after a failed grant is retried below instead of recreated.
	participant, err := s.participants.GetActiveByPair(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if participant != nil && participant.Status == constants.ParticipantGranted {
		s.metrics.IncAccessRequest("duplicate")
		return participantResult(participant), nil
	}

	if participant == nil {
		if event.MaxParticipants != nil {
			granted, err := s.participants.CountGranted(ctx, eventID)
			if err != nil {
				return nil, err
			}
			if granted >= int64(*event.MaxParticipants) {
				s.metrics.IncAccessRequest("full")
				return nil, constants.ErrEventFull
			}
		}

		participant = &models.EventParticipant{
			ID:      uuid.NewString(),
			EventID: eventID,
			UserID:  userID,
			Status:  constants.ParticipantRequested,
		}
		if err := s.participants.Create(ctx, participant); err != nil {
			if errors.Is(err, repositories.ErrDuplicateActive) {
				// A concurrent request for the same pair won the insert race.
				// The unique index serialized us; read their row back.
				winner, rerr := s.participants.GetActiveByPair(ctx, eventID, userID)
				if rerr != nil {
					return nil, rerr
				}
				if winner != nil {
					s.metrics.IncAccessRequest("duplicate")
					return participantResult(winner), nil
				}
			}
			return nil, err
		}
	}

	if err := s.grantVoiceAccess(ctx, event, participant, *user.DiscordID); err != nil {
		s.metrics.IncAccessRequest("grant_failed")
		s.metrics.IncDiscordFailure("grant_channel_access")
		logging.Error("voice grant failed, participant left requested",
			"event_id", eventID,
			"user_id", userID,
			"error", err.Error(),
		)
		return nil, fmt.Errorf("%w: grant for event %s", constants.ErrExternalFailure, eventID)
	}

	s.metrics.IncAccessRequest("granted")
	s.metrics.IncVoiceGrant()
	return participantResult(participant), nil
}

// grantVoiceAccess performs the external grant and, on success, advances the
// participant to granted and upserts the active voice-access record.
func (s *EventAccessService) grantVoiceAccess(ctx context.Context, event *models.Event, participant *models.EventParticipant, discordUserID string) error {
	if err := s.directory.GrantChannelAccess(ctx, discordUserID, event.VoiceChannelID); err != nil {
		return err
	}

	now := time.Now().UTC()
	participant.Status = constants.ParticipantGranted
	participant.ProcessedAt = &now
	if err := s.participants.Update(ctx, participant); err != nil {
		return err
	}

	existing, err := s.voiceAccess.GetActiveByPair(ctx, event.ID, participant.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	access := &models.EventVoiceAccess{
		ID:              uuid.NewString(),
		EventID:         event.ID,
		UserID:          participant.UserID,
		DiscordUserID:   discordUserID,
		Status:          constants.VoiceAccessActive,
		GrantedBySystem: true,
	}
	if err := s.voiceAccess.Create(ctx, access); err != nil {
		if errors.Is(err, repositories.ErrDuplicateActive) {
			return nil
		}
		return err
	}
	return nil
}

// RevokeEventAccess tears down a grant. Revoking a pair with no active grant
// is a successful no-op. A Discord failure is logged and swallowed: local
// rows still move to revoked so state never sticks "active" behind a flaky
// external call.
func (s *EventAccessService) RevokeEventAccess(ctx context.Context, eventID, userID, reason string) error {
	return s.revoke(ctx, eventID, userID, reason, "manual")
}

func (s *EventAccessService) revoke(ctx context.Context, eventID, userID, reason, trigger string) error {
	access, err := s.voiceAccess.GetActiveByPair(ctx, eventID, userID)
	if err != nil {
		return err
	}
	participant, err := s.participants.GetActiveByPair(ctx, eventID, userID)
	if err != nil {
		return err
	}

	if access == nil && participant == nil {
		return nil
	}

	if access != nil {
		event, err := s.events.GetByID(ctx, eventID)
		if err != nil && !errors.Is(err, constants.ErrEventNotFound) {
			return err
		}
		if event != nil {
			if err := s.directory.RevokeChannelAccess(ctx, access.DiscordUserID, event.VoiceChannelID); err != nil {
				s.metrics.IncDiscordFailure("revoke_channel_access")
				logging.Warn("discord revoke failed, marking local records revoked anyway",
					"event_id", eventID,
					"user_id", userID,
					"error", err.Error(),
				)
			}
		}

		now := time.Now().UTC()
		access.Status = constants.VoiceAccessRevoked
		access.RevokedAt = &now
		access.RevokeReason = reason
		if err := s.voiceAccess.Update(ctx, access); err != nil {
			return err
		}
	}

	if participant != nil {
		now := time.Now().UTC()
		participant.Status = constants.ParticipantRevoked
		participant.ProcessedAt = &now
		if err := s.participants.Update(ctx, participant); err != nil {
			return err
		}
	}

	s.metrics.IncVoiceRevoke(trigger)
	return nil
}

// CleanupEvent revokes every active grant under the event, best-effort.
// Safe to call twice: the second run finds zero active rows.
func (s *EventAccessService) CleanupEvent(ctx context.Context, eventID, reason string) (*responses.CleanupStats, error) {
	active, err := s.voiceAccess.ListActiveByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	stats := &responses.CleanupStats{}
	for _, access := range active {
		if err := s.revoke(ctx, eventID, access.UserID, reason, "cleanup"); err != nil {
			logging.Error("cleanup revoke failed",
				"event_id", eventID,
				"user_id", access.UserID,
				"error", err.Error(),
			)
			stats.Failed++
			continue
		}
		stats.Revoked++
	}

	return stats, nil
}

// EndEvent runs cleanup and completes the event. A draft event has nothing to
// end and is rejected. Ending an already-terminal event just re-runs cleanup,
// which is a no-op, so concurrent manual ends and sweep runs are safe.
func (s *EventAccessService) EndEvent(ctx context.Context, eventID string) (*responses.CleanupStats, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == constants.EventStatusDraft {
		return nil, fmt.Errorf("%w: event has not been activated", constants.ErrEventNotActive)
	}

	stats, err := s.CleanupEvent(ctx, eventID, "event ended")
	if err != nil {
		return nil, err
	}

	if !event.Status.Terminal() {
		if err := s.events.UpdateStatus(ctx, eventID, event.Status, constants.EventStatusCompleted); err != nil {
			// A concurrent end already completed it; cleanup still ran.
			if !errors.Is(err, constants.ErrInvalidTransition) {
				return nil, err
			}
		}
	}

	s.metrics.IncEventCleaned()
	return stats, nil
}

// DeleteEvent runs cleanup and then removes the event row.
func (s *EventAccessService) DeleteEvent(ctx context.Context, eventID string) (*responses.CleanupStats, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	stats, err := s.CleanupEvent(ctx, eventID, "event deleted")
	if err != nil {
		return nil, err
	}

	if err := s.events.Delete(ctx, eventID); err != nil {
		return nil, err
	}

	s.metrics.IncEventCleaned()
	return stats, nil
}

// GetUserAccessStatus is a read-only projection over the participant and
// voice-access rows, served by the sqlx repository.
func (s *EventAccessService) GetUserAccessStatus(ctx context.Context, eventID, userID string) (*responses.AccessStatus, error) {
	row, err := s.statusRepo.GetAccessStatus(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return &responses.AccessStatus{HasAccess: false, Status: "none"}, nil
	}

	status := &responses.AccessStatus{
		HasAccess:   row.VoiceStatus == constants.VoiceAccessActive.String(),
		Status:      row.ParticipantStatus,
		RequestedAt: &row.RequestedAt,
		GrantedAt:   row.GrantedAt,
		RevokedAt:   row.RevokedAt,
	}
	return status, nil
}

func participantResult(p *models.EventParticipant) *responses.AccessRequestResult {
	return &responses.AccessRequestResult{
		ParticipantID: p.ID,
		Status:        p.Status.String(),
		GrantPending:  p.Status == constants.ParticipantRequested,
		RequestedAt:   p.RequestedAt,
		ProcessedAt:   p.ProcessedAt,
	}
}
