package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// InviteeStatus tracks the lifecycle of an invited user record.
// Only pending records may transition to active, and only through
// signup completion.
type InviteeStatus string

const (
	StatusPending    InviteeStatus = "pending"
	StatusActive     InviteeStatus = "active"
	StatusSendFailed InviteeStatus = "failed to send request"
)

// DefaultProfileImageURL is assigned at invitation time and may be
// replaced during signup completion.
const DefaultProfileImageURL = "/static/avatars/default.png"

type User struct {
	ID              snowflake.ID  `gorm:"primaryKey" json:"id"`
	AccountID       snowflake.ID  `gorm:"not null;index" json:"account_id"`
	EntityID        *snowflake.ID `gorm:"index" json:"entity_id,omitempty"`
	Email           string        `gorm:"not null;index" json:"email"`
	FullName        string        `gorm:"column:full_name" json:"full_name"`
	UserType        UserType      `gorm:"column:user_type" json:"user_type"`
	Status          InviteeStatus `gorm:"column:status" json:"status"`
	HashedPassword  string        `gorm:"column:hashed_password" json:"-"`
	Phone           string        `gorm:"column:phone" json:"phone,omitempty"`
	ProfileImageURL string        `gorm:"column:profile_image_url" json:"profile_image_url"`
	LastLoginAt     *time.Time    `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Account is the inviting tenant.
type Account struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Entity is a legal entity registered for VAT within an account.
type Entity struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	AccountID   snowflake.ID `gorm:"not null;index" json:"account_id"`
	Name        string       `gorm:"not null" json:"name"`
	CountryCode string       `gorm:"column:country_code" json:"country_code"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
