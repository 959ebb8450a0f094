package domain

import (
	"context"
	"errors"

	invitationdomain "github.com/reclaimhq/reclaim/internal/invitation/domain"
)

type Service interface {
	Complete(ctx context.Context, req Request) (*Result, error)
}

// Request is the signup-completion payload submitted by an invitee.
type Request struct {
	Email           string
	FullName        string
	Password        string
	Phone           string
	ProfileImageURL string
}

type Result struct {
	User    *invitationdomain.InviteeView `json:"user"`
	Message string                        `json:"message"`
}

// Completion failures are typed so the transport can surface the message
// verbatim. Each maps onto a guard in the completion sequence.
var (
	ErrUserNotFound     = errors.New("user_not_found")
	ErrEmailMismatch    = errors.New("email_mismatch")
	ErrAlreadyUsed      = errors.New("invitation_already_used")
	ErrNoLongerValid    = errors.New("invitation_no_longer_valid")
	ErrAlreadyActivated = errors.New("account_already_activated")
)
