package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// SendRequest is the explicit, typed input for one invitation batch.
// Account and inviter identity always come from the caller, never from
// ambient request state.
type SendRequest struct {
	AccountID       snowflake.ID
	InviterID       snowflake.ID
	EntityID        *snowflake.ID
	Role            string
	Emails          []string
	PersonalMessage string
}

// InviteResult is the per-email outcome of a batch.
type InviteResult struct {
	Email     string `json:"email"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode,omitempty"`
	MessageID string `json:"messageId,omitempty"`
}

// BatchResponse satisfies totalProcessed == successful + failed.
type BatchResponse struct {
	TotalProcessed int            `json:"totalProcessed"`
	Successful     int            `json:"successful"`
	Failed         int            `json:"failed"`
	Results        []InviteResult `json:"results"`
}

// LegacyValidateRequest carries client-supplied invitation parameters.
// This path trusts the caller for account, role, and entity and is kept
// only for backward compatibility; the token path is the secure one.
type LegacyValidateRequest struct {
	Email     string
	AccountID snowflake.ID
	Role      string
	EntityID  *snowflake.ID
}

type InviteeView struct {
	ID       string        `json:"id"`
	Email    string        `json:"email"`
	FullName string        `json:"full_name"`
	UserType UserType      `json:"user_type"`
	Status   InviteeStatus `json:"status"`
}

type AccountView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EntityView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code,omitempty"`
}

// ValidationResult is never an error at the transport level: failed guards
// surface as IsValid=false with a human-readable reason.
type ValidationResult struct {
	IsValid     bool         `json:"isValid"`
	Error       string       `json:"error,omitempty"`
	User        *InviteeView `json:"user,omitempty"`
	Account     *AccountView `json:"account,omitempty"`
	Entity      *EntityView  `json:"entity,omitempty"`
	InviterName string       `json:"inviter,omitempty"`
}

type Service interface {
	SendInvitations(ctx context.Context, req SendRequest) (*BatchResponse, error)
	ValidateToken(ctx context.Context, token string) (*ValidationResult, error)
	Validate(ctx context.Context, req LegacyValidateRequest) (*ValidationResult, error)
}

// Per-email error codes folded into batch results.
const (
	ErrCodeUserAlreadyExists = "user_already_exists"
	ErrCodeSendFailed        = "send_failed"
)

// User-facing guard messages. These are part of the product surface and
// returned verbatim to clients.
const (
	MsgSent             = "Invitation sent successfully"
	MsgDuplicate        = "A user with this email already exists in this account"
	MsgInvalidToken     = "Invalid or expired invitation link"
	MsgUserNotFound     = "User not found"
	MsgAlreadyUsed      = "This invitation has already been used. Please log in instead."
	MsgNoLongerValid    = "This invitation is no longer valid."
	MsgAlreadyActivated = "This account has already been activated."
	MsgInvalidParams    = "Invalid invitation parameters"
	MsgUnavailable      = "Unable to validate invitation"
)

var (
	ErrEntityRequired = errors.New("entity_required")
	ErrInviterInvalid = errors.New("invalid_inviter")
	ErrAccountInvalid = errors.New("invalid_account")
)
