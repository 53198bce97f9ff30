package constants

import "errors"

// ErrorCode is the stable machine-readable code carried in error responses.
type ErrorCode string

const (
	CodeEventNotFound       ErrorCode = "EVENT_NOT_FOUND"
	CodeEventNotActive      ErrorCode = "EVENT_NOT_ACTIVE"
	CodeEventTooEarly       ErrorCode = "EVENT_TOO_EARLY"
	CodeEventFull           ErrorCode = "EVENT_FULL"
	CodeMissingRequiredTags ErrorCode = "MISSING_REQUIRED_TAGS"
	CodeDiscordNotLinked    ErrorCode = "DISCORD_NOT_LINKED"
	CodeRateLimited         ErrorCode = "RATE_LIMITED"
	CodeExternalFailure     ErrorCode = "EXTERNAL_FAILURE"
	CodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	CodeTagNotFound         ErrorCode = "TAG_NOT_FOUND"
	CodeValidation          ErrorCode = "VALIDATION_ERROR"
	CodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// Domain sentinels. The API layer maps these to transport status codes; the
// services never see HTTP.
var (
	ErrEventNotFound  = errors.New("event not found")
	ErrEventNotActive = errors.New("event is not accepting access requests")
	ErrEventTooEarly  = errors.New("event has not been activated yet")
	ErrEventFull      = errors.New("event is at max participants")
	// ErrMissingTags is only used as an errors.Is target; the coordinator
	// returns the typed MissingTagsError carrying the tag list.
	ErrMissingTags      = errors.New("user is missing required tags")
	ErrDiscordNotLinked = errors.New("user has no linked discord account")
	ErrRateLimited      = errors.New("too many access requests, slow down")
	ErrExternalFailure  = errors.New("discord api call failed")
	ErrUserNotFound     = errors.New("user not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrInvalidRole       = errors.New("unknown role")
	ErrInvalidTransition = errors.New("event status transition not allowed")
	ErrValidation        = errors.New("invalid input")
)

// MissingTagsError carries the structured missing-tag list so the UI can
// render "you need X, Y" instead of a generic failure.
type MissingTagsError struct {
	MissingTags []string
}

func (e *MissingTagsError) Error() string { return ErrMissingTags.Error() }

func (e *MissingTagsError) Unwrap() error { return ErrMissingTags }

// CodeFor resolves a domain error to its stable code.
func CodeFor(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrEventNotFound):
		return CodeEventNotFound
	case errors.Is(err, ErrEventNotActive):
		return CodeEventNotActive
	case errors.Is(err, ErrEventTooEarly):
		return CodeEventTooEarly
	case errors.Is(err, ErrEventFull):
		return CodeEventFull
	case errors.Is(err, ErrMissingTags):
		return CodeMissingRequiredTags
	case errors.Is(err, ErrDiscordNotLinked):
		return CodeDiscordNotLinked
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrExternalFailure):
		return CodeExternalFailure
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrTagNotFound):
		return CodeTagNotFound
	case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrValidation):
		return CodeValidation
	}
	return CodeInternal
}
