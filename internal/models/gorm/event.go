package gorm

import (
	"time"

	"devcircle/rollcall/internal/constants"
)

type Event struct {
	ID              string                `gorm:"column:id;primaryKey;type:uuid"`
	Title           string                `gorm:"column:title"`
	Description     string                `gorm:"column:description"`
	EventType       constants.EventType   `gorm:"column:event_type;type:event_type"`
	Status          constants.EventStatus `gorm:"column:status;type:event_status;default:draft"`
	StartTime       time.Time             `gorm:"column:start_time"`
	EndTime         *time.Time            `gorm:"column:end_time"`
	VoiceChannelID  string                `gorm:"column:voice_channel_id"`
	MaxParticipants *int                  `gorm:"column:max_participants"`
	CreatedBy       string                `gorm:"column:created_by;type:uuid"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	RequiredTags []EventRequiredTag `gorm:"foreignKey:EventID"`
	Participants []EventParticipant `gorm:"foreignKey:EventID"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

type EventRequiredTag struct {
	EventID string `gorm:"column:event_id;type:uuid;primaryKey"`
	TagID   string `gorm:"column:tag_id;type:uuid;primaryKey"`

	// Relationships
	Tag Tag `gorm:"foreignKey:TagID"`
}

// TableName specifies the table name for GORM
func (EventRequiredTag) TableName() string {
	return "event_required_tags"
}

type EventParticipant struct {
	ID          string                      `gorm:"column:id;primaryKey;type:uuid"`
	EventID     string                      `gorm:"column:event_id;type:uuid;index:idx_event_participants_pair"`
	UserID      string                      `gorm:"column:user_id;type:uuid;index:idx_event_participants_pair"`
	Status      constants.ParticipantStatus `gorm:"column:status;type:participant_status;default:requested"`
	RequestedAt time.Time                   `gorm:"column:requested_at;autoCreateTime"`
	ProcessedAt *time.Time                  `gorm:"column:processed_at"`
	ProcessedBy *string                     `gorm:"column:processed_by;type:uuid"`
	Notes       string                      `gorm:"column:notes"`

	// Relationships
	User User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (EventParticipant) TableName() string {
	return "event_participants"
}

type EventVoiceAccess struct {
	ID              string                      `gorm:"column:id;primaryKey;type:uuid"`
	EventID         string                      `gorm:"column:event_id;type:uuid;index:idx_event_voice_access_pair"`
	UserID          string                      `gorm:"column:user_id;type:uuid;index:idx_event_voice_access_pair"`
	DiscordUserID   string                      `gorm:"column:discord_user_id"`
	Status          constants.VoiceAccessStatus `gorm:"column:status;type:voice_access_status;default:active"`
	GrantedAt       time.Time                   `gorm:"column:granted_at;autoCreateTime"`
	RevokedAt       *time.Time                  `gorm:"column:revoked_at"`
	GrantedBySystem bool                        `gorm:"column:granted_by_system;default:true"`
	RevokeReason    string                      `gorm:"column:revoke_reason"`
}

// TableName specifies the table name for GORM
func (EventVoiceAccess) TableName() string {
	return "event_voice_access"
}
