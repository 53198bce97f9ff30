package gorm

import "time"

type Tag struct {
	ID           string    `gorm:"column:id;primaryKey;type:uuid"`
	Name         string    `gorm:"column:name;uniqueIndex"`
	DisplayName  string    `gorm:"column:display_name"`
	Category     string    `gorm:"column:category"`
	Color        string    `gorm:"column:color"`
	Icon         string    `gorm:"column:icon"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	IsAssignable bool      `gorm:"column:is_assignable;default:true"`
	IsEarnable   bool      `gorm:"column:is_earnable;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Tag) TableName() string {
	return "tags"
}

type UserTag struct {
	ID         string     `gorm:"column:id;primaryKey;type:uuid"`
	UserID     string     `gorm:"column:user_id;type:uuid;index:idx_user_tags_pair"`
	TagID      string     `gorm:"column:tag_id;type:uuid;index:idx_user_tags_pair"`
	AssignedBy *string    `gorm:"column:assigned_by;type:uuid"` // nil means self-earned
	AssignedAt time.Time  `gorm:"column:assigned_at;autoCreateTime"`
	IsActive   bool       `gorm:"column:is_active;default:true"`
	IsPrimary  bool       `gorm:"column:is_primary;default:false"`
	Notes      string     `gorm:"column:notes"`
	RevokedAt  *time.Time `gorm:"column:revoked_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID"`
	Tag  Tag  `gorm:"foreignKey:TagID"`
}

// TableName specifies the table name for GORM
func (UserTag) TableName() string {
	return "user_tags"
}
