package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"devcircle/rollcall/internal/constants"
)

// UserClaims is what the rest of the system knows about the caller. Every
// handler behind the auth middleware can rely on a non-nil implementation.
type UserClaims interface {
	UserID() string
	Role() constants.Role
	DiscordUserID() string
	Source() string
}

// JWTClaims is the bearer-token claim set issued at login.
type JWTClaims struct {
	jwt.RegisteredClaims
	UserUUID   string         `json:"uid"`
	RoleValue  constants.Role `json:"role"`
	DiscordUID string         `json:"discord_id,omitempty"`
}

func (c *JWTClaims) UserID() string        { return c.UserUUID }
func (c *JWTClaims) Role() constants.Role  { return c.RoleValue }
func (c *JWTClaims) DiscordUserID() string { return c.DiscordUID }
func (c *JWTClaims) Source() string        { return "JWT" }

// BotClaims carries the identity the companion bot acts for, authenticated
// by API key plus headers.
type BotClaims struct {
	UserUUID   string
	RoleValue  constants.Role
	DiscordUID string
}

func (c *BotClaims) UserID() string        { return c.UserUUID }
func (c *BotClaims) Role() constants.Role  { return c.RoleValue }
func (c *BotClaims) DiscordUserID() string { return c.DiscordUID }
func (c *BotClaims) Source() string        { return "API_KEY" }
