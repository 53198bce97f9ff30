package constants

import (
	"database/sql/driver"
	"fmt"
)

// EventType mirrors the Postgres ENUM 'event_type'
type EventType string

const (
	EventTypeSession       EventType = "session"
	EventTypeContest       EventType = "contest"
	EventTypeWorkshop      EventType = "workshop"
	EventTypeStudyGroup    EventType = "study_group"
	EventTypeMockInterview EventType = "mock_interview"
	EventTypeCodeReview    EventType = "code_review"
	EventTypeDiscussion    EventType = "discussion"
)

func (t EventType) String() string { return string(t) }

func (t EventType) Valid() bool {
	switch t {
	case EventTypeSession, EventTypeContest, EventTypeWorkshop, EventTypeStudyGroup,
		EventTypeMockInterview, EventTypeCodeReview, EventTypeDiscussion:
		return true
	}
	return false
}

// EventStatus mirrors the Postgres ENUM 'event_status'.
// Forward-moving: draft -> active -> {completed, cancelled}.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusActive    EventStatus = "active"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

func (s EventStatus) String() string { return string(s) }

// Terminal reports whether the status accepts no further transitions.
func (s EventStatus) Terminal() bool {
	return s == EventStatusCompleted || s == EventStatusCancelled
}

// CanTransitionTo enforces the forward-only event lifecycle.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	switch s {
	case EventStatusDraft:
		return next == EventStatusActive || next == EventStatusCancelled
	case EventStatusActive:
		return next == EventStatusCompleted || next == EventStatusCancelled
	}
	return false
}

// ParticipantStatus tracks one access-request lifecycle instance.
type ParticipantStatus string

const (
	ParticipantRequested ParticipantStatus = "requested"
	ParticipantGranted   ParticipantStatus = "granted"
	ParticipantDenied    ParticipantStatus = "denied"
	ParticipantRevoked   ParticipantStatus = "revoked"
)

func (s ParticipantStatus) String() string { return string(s) }

// Active reports whether the row counts against the
// one-active-request-per-pair invariant.
func (s ParticipantStatus) Active() bool {
	return s == ParticipantRequested || s == ParticipantGranted
}

// VoiceAccessStatus tracks the external-facing grant record.
type VoiceAccessStatus string

const (
	VoiceAccessActive  VoiceAccessStatus = "active"
	VoiceAccessRevoked VoiceAccessStatus = "revoked"
)

func (s VoiceAccessStatus) String() string { return string(s) }

/* ---------- DB adapters ---------- */

func (t *EventType) Scan(src interface{}) error          { return scanEnum((*string)(t), src, "EventType") }
func (t EventType) Value() (driver.Value, error)         { return string(t), nil }
func (s *EventStatus) Scan(src interface{}) error        { return scanEnum((*string)(s), src, "EventStatus") }
func (s EventStatus) Value() (driver.Value, error)       { return string(s), nil }
func (s *ParticipantStatus) Scan(src interface{}) error  { return scanEnum((*string)(s), src, "ParticipantStatus") }
func (s ParticipantStatus) Value() (driver.Value, error) { return string(s), nil }
func (s *VoiceAccessStatus) Scan(src interface{}) error  { return scanEnum((*string)(s), src, "VoiceAccessStatus") }
func (s VoiceAccessStatus) Value() (driver.Value, error) { return string(s), nil }

func scanEnum(dst *string, src interface{}, name string) error {
	if src == nil {
		*dst = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*dst = v
	case []byte:
		*dst = string(v)
	default:
		return fmt.Errorf("%s: cannot scan type %T", name, src)
	}
	return nil
}
