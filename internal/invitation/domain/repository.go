package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// AccountUser is the minimal projection used by the duplicate filter.
type AccountUser struct {
	Email    string
	UserType UserType
}

// ActivationPatch carries the fields written in one update when a pending
// invitee completes signup.
type ActivationPatch struct {
	FullName        string
	HashedPassword  string
	Phone           string
	ProfileImageURL string
	LastLoginAt     time.Time
}

type Repository interface {
	ListAccountUsers(ctx context.Context, accountID snowflake.ID) ([]AccountUser, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id snowflake.ID) (*User, error)
	FindAccountByID(ctx context.Context, id snowflake.ID) (*Account, error)
	FindEntityByID(ctx context.Context, id snowflake.ID) (*Entity, error)
	FindActiveAdmin(ctx context.Context, accountID snowflake.ID) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	CreateUsersBatch(ctx context.Context, users []*User) error
	// ActivateUser applies the patch and flips status to active only if the
	// record is still pending with no password hash. Returns false when the
	// conditional update matched no row.
	ActivateUser(ctx context.Context, id snowflake.ID, patch ActivationPatch) (bool, error)
}
