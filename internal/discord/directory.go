package discord

import "context"

// Channel is a voice channel visible to the bot.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
}

// RoleRemoval reports a best-effort managed-role removal run. Failures are
// collected, not swallowed, so callers can inspect partial failure.
type RoleRemoval struct {
	Removed []string
	Failed  []string
}

// DirectoryService is the uniform interface over the chat platform's role and
// membership operations. Every call can fail transiently; callers own the
// retry/consistency policy.
type DirectoryService interface {
	GrantChannelAccess(ctx context.Context, discordUserID, channelID string) error
	RevokeChannelAccess(ctx context.Context, discordUserID, channelID string) error
	AssignRole(ctx context.Context, discordUserID, roleName string) error
	RemoveAllManagedRoles(ctx context.Context, discordUserID string) (*RoleRemoval, error)
	ListVoiceChannels(ctx context.Context) ([]Channel, error)
	AddMemberToGuild(ctx context.Context, accessToken, discordUserID string) error
}
