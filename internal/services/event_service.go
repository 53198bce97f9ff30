package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"devcircle/rollcall/internal/constants"
	"devcircle/rollcall/internal/db/repositories"
	"devcircle/rollcall/internal/discord"
	"devcircle/rollcall/internal/models/dtos/requests"
	models "devcircle/rollcall/internal/models/gorm"
)

// EventService owns event CRUD around the access coordinator. Required-tag
// sets are immutable per row; edits replace the whole set.
type EventService struct {
	events    *repositories.EventRepository
	tags      *repositories.TagRepository
	directory discord.DirectoryService
}

func NewEventService(events *repositories.EventRepository, tags *repositories.TagRepository, directory discord.DirectoryService) *EventService {
	return &EventService{
		events:    events,
		tags:      tags,
		directory: directory,
	}
}

// Create validates the event type, the voice channel against the guild, and
// the required tags, then persists the event as a draft.
func (s *EventService) Create(ctx context.Context, req *requests.CreateEventReq, createdBy string) (*models.Event, error) {
	eventType := constants.EventType(req.EventType)
	if !eventType.Valid() {
		return nil, fmt.Errorf("%w: unknown event type %q", constants.ErrValidation, req.EventType)
	}
	if req.Title == "" || req.VoiceChannelID == "" {
		return nil, fmt.Errorf("%w: title and voice_channel_id are required", constants.ErrValidation)
	}

	if err := s.validateVoiceChannel(ctx, req.VoiceChannelID); err != nil {
		return nil, err
	}

	tagIDs, err := s.resolveTagIDs(ctx, req.RequiredTags)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		EventType:       eventType,
		Status:          constants.EventStatusDraft,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		VoiceChannelID:  req.VoiceChannelID,
		MaxParticipants: req.MaxParticipants,
		CreatedBy:       createdBy,
	}

	if err := s.events.Create(ctx, event, tagIDs); err != nil {
		return nil, err
	}

	return s.events.GetByID(ctx, event.ID)
}

// Update edits event fields; a non-nil RequiredTags replaces the full set.
func (s *EventService) Update(ctx context.Context, eventID string, req *requests.UpdateEventReq) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status.Terminal() {
		return nil, constants.ErrEventNotActive
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = req.EndTime
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = req.MaxParticipants
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}

	if req.RequiredTags != nil {
		tagIDs, err := s.resolveTagIDs(ctx, req.RequiredTags)
		if err != nil {
			return nil, err
		}
		if err := s.events.ReplaceRequiredTags(ctx, eventID, tagIDs); err != nil {
			return nil, err
		}
	}

	return s.events.GetByID(ctx, eventID)
}

// Activate moves a draft event to active, opening it for access requests.
func (s *EventService) Activate(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.events.UpdateStatus(ctx, eventID, event.Status, constants.EventStatusActive); err != nil {
		return nil, err
	}

	return s.events.GetByID(ctx, eventID)
}

// Get returns one event with its required tags.
func (s *EventService) Get(ctx context.Context, eventID string) (*models.Event, error) {
	return s.events.GetByID(ctx, eventID)
}

// ListByStatus returns events in a lifecycle state, soonest first.
func (s *EventService) ListByStatus(ctx context.Context, status constants.EventStatus) ([]models.Event, error) {
	return s.events.ListByStatus(ctx, status)
}

func (s *EventService) validateVoiceChannel(ctx context.Context, channelID string) error {
	channels, err := s.directory.ListVoiceChannels(ctx)
	if err != nil {
		return fmt.Errorf("%w: listing voice channels", constants.ErrExternalFailure)
	}
	for _, ch := range channels {
		if ch.ID == channelID {
			return nil
		}
	}
	return fmt.Errorf("%w: voice channel %s not found in guild", constants.ErrValidation, channelID)
}

func (s *EventService) resolveTagIDs(ctx context.Context, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		tag, err := s.tags.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if !tag.IsActive {
			return nil, fmt.Errorf("%w: tag %s is inactive", constants.ErrTagNotFound, name)
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}
