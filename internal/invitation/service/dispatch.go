package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/google/uuid"
	"github.com/reclaimhq/reclaim/internal/invitation/domain"
	"github.com/reclaimhq/reclaim/internal/providers/email"
	"go.uber.org/zap"
)

type dispatchInput struct {
	emails          []string
	account         *domain.Account
	entity          *domain.Entity
	inviter         *domain.User
	role            domain.UserType
	personalMessage string
}

const inviteHTMLTemplate = `<html><body>
<p>{{.InviterName}} has invited you to join <strong>{{.AccountName}}</strong> on Reclaim.</p>
{{if .EntityName}}<p>You will be working with the entity <strong>{{.EntityName}}</strong>.</p>{{end}}
{{if .PersonalMessage}}<blockquote>{{.PersonalMessage}}</blockquote>{{end}}
<p><a href="{{.InviteURL}}">Accept your invitation</a></p>
<p>This link expires and can only be used once.</p>
</body></html>`

var inviteTemplate = template.Must(template.New("invite").Parse(inviteHTMLTemplate))

type inviteTemplateData struct {
	InviterName     string
	AccountName     string
	EntityName      string
	PersonalMessage string
	InviteURL       string
}

// dispatch mints one token per fresh email, sends the whole batch in a
// single mail call, and correlates outcomes back by email. The returned
// map is keyed by lowercased email and has one entry per input address.
func (s *service) dispatch(ctx context.Context, in dispatchInput) map[string]domain.InviteResult {
	results := make(map[string]domain.InviteResult, len(in.emails))
	msgs := make([]email.Message, 0, len(in.emails))
	batchID := uuid.NewString()
	subject := fmt.Sprintf("You're invited to join %s", in.account.Name)

	for _, addr := range in.emails {
		claims := domain.TokenClaims{
			Email:     addr,
			AccountID: in.account.ID,
			RoleCode:  in.role.Code(),
			InviterID: in.inviter.ID,
		}
		if in.entity != nil {
			id := in.entity.ID
			claims.EntityID = &id
		}

		signed, err := s.tokens.Generate(claims)
		if err != nil {
			s.log.Warn("failed to mint invitation token",
				zap.String("email", addr),
				zap.Error(err),
			)
			results[addr] = sendFailure(addr, err.Error())
			continue
		}

		body, text := s.renderInvite(in, signed)
		msgs = append(msgs, email.Message{
			To:      addr,
			Subject: subject,
			HTML:    body,
			Text:    text,
			BatchID: batchID,
		})
	}

	if len(msgs) == 0 {
		return results
	}

	outcomes, err := s.mail.SendBatch(ctx, msgs)
	if err != nil {
		// Transport failure: no partial success is assumed, every email in
		// the call is marked failed.
		s.log.Error("invitation batch dispatch failed", zap.Error(err))
		for _, msg := range msgs {
			results[strings.ToLower(msg.To)] = sendFailure(msg.To, err.Error())
		}
		return results
	}

	for _, outcome := range outcomes {
		key := strings.ToLower(outcome.Email)
		if outcome.Success {
			results[key] = domain.InviteResult{
				Email:     key,
				Success:   true,
				Message:   domain.MsgSent,
				MessageID: outcome.MessageID,
			}
			continue
		}
		reason := outcome.Error
		if reason == "" {
			reason = "failed to send invitation email"
		}
		results[key] = sendFailure(key, reason)
	}

	// The provider contract is one outcome per input; guard against a
	// misbehaving provider dropping entries.
	for _, msg := range msgs {
		key := strings.ToLower(msg.To)
		if _, ok := results[key]; !ok {
			results[key] = sendFailure(key, "no dispatch outcome returned")
		}
	}

	return results
}

func (s *service) renderInvite(in dispatchInput, signed string) (string, string) {
	data := inviteTemplateData{
		InviterName:     in.inviter.FullName,
		AccountName:     in.account.Name,
		PersonalMessage: in.personalMessage,
		InviteURL:       fmt.Sprintf("%s/signup?invitation=%s", s.inviteBaseURL, signed),
	}
	if in.entity != nil {
		data.EntityName = in.entity.Name
	}

	var buf bytes.Buffer
	if err := inviteTemplate.Execute(&buf, data); err != nil {
		s.log.Warn("failed to render invitation email", zap.Error(err))
	}

	text := fmt.Sprintf("%s has invited you to join %s on Reclaim. Accept here: %s",
		data.InviterName, data.AccountName, data.InviteURL)

	return buf.String(), text
}

func sendFailure(addr, reason string) domain.InviteResult {
	return domain.InviteResult{
		Email:     strings.ToLower(addr),
		Message:   reason,
		ErrorCode: domain.ErrCodeSendFailed,
	}
}
