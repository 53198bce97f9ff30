package responses

import "time"

// EligibilityResult is the structured output of the eligibility engine.
// Business ineligibility is data, not an error.
type EligibilityResult struct {
	IsEligible          bool     `json:"is_eligible"`
	HasAllRequiredTags  bool     `json:"has_all_required_tags"`
	MissingRequiredTags []string `json:"missing_required_tags"`
	UserTags            []string `json:"user_tags"`
	EventStatus         string   `json:"event_status"`
	SpotsRemaining      *int     `json:"spots_remaining,omitempty"`
}

// AccessRequestResult reports the participant state after a request-access
// call. GrantPending is true when the local row was written but the Discord
// grant has not succeeded yet.
type AccessRequestResult struct {
	ParticipantID string     `json:"participant_id"`
	Status        string     `json:"status"`
	GrantPending  bool       `json:"grant_pending,omitempty"`
	RequestedAt   time.Time  `json:"requested_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

// AccessStatus combines the participant row with the voice-access record.
type AccessStatus struct {
	HasAccess   bool       `json:"has_access"`
	Status      string     `json:"status"`
	RequestedAt *time.Time `json:"requested_at,omitempty"`
	GrantedAt   *time.Time `json:"granted_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// CleanupStats accumulates best-effort revoke outcomes for an event.
type CleanupStats struct {
	Revoked int `json:"revoked"`
	Failed  int `json:"failed"`
}

// RoleSyncResult is the explicit partial-failure report of a role sync run.
type RoleSyncResult struct {
	Synced       bool     `json:"synced"`
	AssignedRole string   `json:"assigned_role,omitempty"`
	Removed      []string `json:"removed,omitempty"`
	Failed       []string `json:"failed,omitempty"`
}
