package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"devcircle/rollcall/internal/common"
	"devcircle/rollcall/internal/config"
	"devcircle/rollcall/internal/constants"
	"devcircle/rollcall/internal/logging"
)

// Permission bits for the channel overwrite the platform manages.
const (
	permViewChannel = 1 << 10
	permConnect     = 1 << 20
	permSpeak       = 1 << 21

	overwriteTypeMember = 1

	voiceChannelType = 2

	rolesCacheKey = "GUILD_ROLES"
	rolesCacheTTL = 5 * time.Minute
)

// Client talks to the Discord REST API with a bot token. It implements
// DirectoryService.
type Client struct {
	BaseURL string
	Token   string
	GuildID string
	HTTP    *http.Client

	cache common.CacheInterface
}

var _ DirectoryService = (*Client)(nil)

// NewClient builds a Discord client from config. The HTTP timeout bounds
// every directory call; a hung Discord never hangs a request handler.
func NewClient(cfg config.DiscordConfig, cache common.CacheInterface) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: cfg.BaseURL,
		Token:   cfg.BotToken,
		GuildID: cfg.GuildID,
		HTTP:    &http.Client{Timeout: timeout},
		cache:   cache,
	}
}

// do runs one REST call and decodes the response into result when non-nil.
func (c *Client) do(ctx context.Context, method, endpoint string, payload, result interface{}) (int, error) {
	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return 0, err
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bot "+c.Token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", constants.ErrExternalFailure, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusCreated:
		return resp.StatusCode, nil
	case resp.StatusCode == http.StatusOK:
		if result == nil {
			return resp.StatusCode, nil
		}
		return resp.StatusCode, json.NewDecoder(resp.Body).Decode(result)
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return resp.StatusCode, fmt.Errorf("%w: %s %s returned %d: %s",
			constants.ErrExternalFailure, method, endpoint, resp.StatusCode, string(respBody))
	}
}

type permissionOverwrite struct {
	Allow string `json:"allow"`
	Deny  string `json:"deny"`
	Type  int    `json:"type"`
}

// GrantChannelAccess writes a member permission overwrite allowing the user
// to see, join and speak in the voice channel.
func (c *Client) GrantChannelAccess(ctx context.Context, discordUserID, channelID string) error {
	endpoint := fmt.Sprintf("/channels/%s/permissions/%s", channelID, discordUserID)
	payload := permissionOverwrite{
		Allow: fmt.Sprintf("%d", permViewChannel|permConnect|permSpeak),
		Deny:  "0",
		Type:  overwriteTypeMember,
	}
	_, err := c.do(ctx, http.MethodPut, endpoint, payload, nil)
	return err
}

// RevokeChannelAccess deletes the member permission overwrite. A 404 from
// Discord means the overwrite is already gone and counts as success.
func (c *Client) RevokeChannelAccess(ctx context.Context, discordUserID, channelID string) error {
	endpoint := fmt.Sprintf("/channels/%s/permissions/%s", channelID, discordUserID)
	status, err := c.do(ctx, http.MethodDelete, endpoint, nil, nil)
	if status == http.StatusNotFound {
		return nil
	}
	return err
}

type guildRole struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// guildRoles fetches the guild's role list, cached briefly so role sync loops
// do not hammer Discord.
func (c *Client) guildRoles(ctx context.Context) (map[string]string, error) {
	if cached, found := c.cache.Get(rolesCacheKey); found {
		if byName, ok := cached.(map[string]string); ok {
			return byName, nil
		}
	}

	var roles []guildRole
	if _, err := c.do(ctx, http.MethodGet, "/guilds/"+c.GuildID+"/roles", nil, &roles); err != nil {
		return nil, err
	}

	byName := make(map[string]string, len(roles))
	for _, r := range roles {
		byName[r.Name] = r.ID
	}
	c.cache.Set(rolesCacheKey, byName, rolesCacheTTL)
	return byName, nil
}

// AssignRole grants the named guild role to the member.
func (c *Client) AssignRole(ctx context.Context, discordUserID, roleName string) error {
	roles, err := c.guildRoles(ctx)
	if err != nil {
		return err
	}
	roleID, ok := roles[roleName]
	if !ok {
		return fmt.Errorf("%w: guild has no role %q", constants.ErrExternalFailure, roleName)
	}

	endpoint := fmt.Sprintf("/guilds/%s/members/%s/roles/%s", c.GuildID, discordUserID, roleID)
	_, err = c.do(ctx, http.MethodPut, endpoint, nil, nil)
	return err
}

// RemoveAllManagedRoles strips every platform-managed role from the member,
// best-effort per role. A role missing from the guild is skipped silently;
// a failed removal lands in Failed and the loop continues.
func (c *Client) RemoveAllManagedRoles(ctx context.Context, discordUserID string) (*RoleRemoval, error) {
	roles, err := c.guildRoles(ctx)
	if err != nil {
		return nil, err
	}

	result := &RoleRemoval{}
	for _, name := range constants.ManagedDiscordRoles() {
		roleID, ok := roles[name]
		if !ok {
			continue
		}
		endpoint := fmt.Sprintf("/guilds/%s/members/%s/roles/%s", c.GuildID, discordUserID, roleID)
		status, err := c.do(ctx, http.MethodDelete, endpoint, nil, nil)
		if err != nil && status != http.StatusNotFound {
			logging.Warn("managed role removal failed",
				"discord_user_id", discordUserID,
				"role", name,
				"error", err.Error(),
			)
			result.Failed = append(result.Failed, name)
			continue
		}
		result.Removed = append(result.Removed, name)
	}

	return result, nil
}

// ListVoiceChannels returns the guild's voice channels. Event creation uses
// this to validate voice_channel_id.
func (c *Client) ListVoiceChannels(ctx context.Context) ([]Channel, error) {
	cacheKey := string(constants.CachePrefixVoiceChannels)
	if cached, found := c.cache.Get(cacheKey); found {
		if channels, ok := cached.([]Channel); ok {
			return channels, nil
		}
	}

	var all []Channel
	if _, err := c.do(ctx, http.MethodGet, "/guilds/"+c.GuildID+"/channels", nil, &all); err != nil {
		return nil, err
	}

	voice := make([]Channel, 0, len(all))
	for _, ch := range all {
		if ch.Type == voiceChannelType {
			voice = append(voice, ch)
		}
	}
	c.cache.Set(cacheKey, voice, time.Minute)
	return voice, nil
}

type addMemberPayload struct {
	AccessToken string `json:"access_token"`
}

// AddMemberToGuild joins the OAuth-authenticated user to the guild. A 204
// means the user was already a member, which is fine.
func (c *Client) AddMemberToGuild(ctx context.Context, accessToken, discordUserID string) error {
	endpoint := fmt.Sprintf("/guilds/%s/members/%s", c.GuildID, discordUserID)
	_, err := c.do(ctx, http.MethodPut, endpoint, addMemberPayload{AccessToken: accessToken}, nil)
	return err
}
