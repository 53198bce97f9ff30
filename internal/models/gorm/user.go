package gorm

import (
	"time"

	"devcircle/rollcall/internal/constants"
)

type User struct {
	ID          string         `gorm:"column:id;primaryKey;type:uuid"`
	Username    string         `gorm:"column:username;uniqueIndex"`
	DiscordID   *string        `gorm:"column:discord_id;uniqueIndex"`
	Role        constants.Role `gorm:"column:role;type:user_role;default:newbie"`
	IsActive    bool           `gorm:"column:is_active;default:true"`
	DisplayName string         `gorm:"column:display_name"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Tags []UserTag `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// DiscordLinked reports whether the user has a linked Discord identity.
func (u *User) DiscordLinked() bool {
	return u.DiscordID != nil && *u.DiscordID != ""
}
