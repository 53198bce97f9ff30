package requests

import "time"

type CreateEventReq struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	EventType       string     `json:"event_type"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	VoiceChannelID  string     `json:"voice_channel_id"`
	MaxParticipants *int       `json:"max_participants,omitempty"`
	RequiredTags    []string   `json:"required_tags"`
}

type UpdateEventReq struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	MaxParticipants *int       `json:"max_participants,omitempty"`
	RequiredTags    []string   `json:"required_tags,omitempty"`
}

type RevokeAccessReq struct {
	Reason string `json:"reason,omitempty"`
}

type CreateTagReq struct {
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	Category     string `json:"category"`
	Color        string `json:"color,omitempty"`
	Icon         string `json:"icon,omitempty"`
	IsAssignable *bool  `json:"is_assignable,omitempty"`
	IsEarnable   *bool  `json:"is_earnable,omitempty"`
}

type AssignTagReq struct {
	TagName   string `json:"tag_name"`
	IsPrimary bool   `json:"is_primary,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type UpdateRoleReq struct {
	Role string `json:"role"`
}

type LinkDiscordReq struct {
	DiscordID   string `json:"discord_id"`
	AccessToken string `json:"access_token"`
}
