package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/reclaimhq/reclaim/internal/config"
	"github.com/reclaimhq/reclaim/internal/invitation/domain"
	"github.com/reclaimhq/reclaim/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type service struct {
	repo          domain.Repository
	tokens        domain.TokenService
	mail          email.Provider
	genID         *snowflake.Node
	log           *zap.Logger
	inviteBaseURL string
}

type Params struct {
	fx.In

	Repo   domain.Repository
	Tokens domain.TokenService
	Mail   email.Provider
	GenID  *snowflake.Node
	Log    *zap.Logger
	Cfg    config.Config
}

func New(p Params) domain.Service {
	return &service{
		repo:          p.Repo,
		tokens:        p.Tokens,
		mail:          p.Mail,
		genID:         p.GenID,
		log:           p.Log,
		inviteBaseURL: p.Cfg.Invite.BaseURL,
	}
}

// SendInvitations implements the write path: dedup and filter, dispatch,
// then provision. Invitation success is decided by dispatch alone;
// provisioning failures are logged but never change the response.
func (s *service) SendInvitations(ctx context.Context, req domain.SendRequest) (*domain.BatchResponse, error) {
	role := domain.ParseRole(strings.TrimSpace(req.Role))
	if role != domain.UserTypeAdmin && req.EntityID == nil {
		return nil, domain.ErrEntityRequired
	}

	existing, err := s.repo.ListAccountUsers(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	deduped := Dedup(req.Emails)
	duplicates, fresh := Partition(deduped, existing)

	// Every email already belongs to the account: no mail call is made.
	if len(fresh) == 0 {
		return mergeResults(deduped, duplicates, nil), nil
	}

	inviter, err := s.repo.FindUserByID(ctx, req.InviterID)
	if err != nil {
		return nil, err
	}
	if inviter == nil {
		return nil, domain.ErrInviterInvalid
	}

	account, err := s.repo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountInvalid
	}

	var entity *domain.Entity
	if role != domain.UserTypeAdmin && req.EntityID != nil {
		entity, err = s.repo.FindEntityByID(ctx, *req.EntityID)
		if err != nil {
			return nil, err
		}
	}

	dispatched := s.dispatch(ctx, dispatchInput{
		emails:          fresh,
		account:         account,
		entity:          entity,
		inviter:         inviter,
		role:            role,
		personalMessage: strings.TrimSpace(req.PersonalMessage),
	})

	s.provision(ctx, fresh, dispatched, req.AccountID, req.EntityID, role)

	return mergeResults(deduped, duplicates, dispatched), nil
}

// mergeResults rebuilds the response in first-seen order and keeps the
// totalProcessed == successful + failed invariant.
func mergeResults(deduped []string, duplicates map[string]struct{}, dispatched map[string]domain.InviteResult) *domain.BatchResponse {
	resp := &domain.BatchResponse{
		TotalProcessed: len(deduped),
		Results:        make([]domain.InviteResult, 0, len(deduped)),
	}

	for _, addr := range deduped {
		if _, ok := duplicates[addr]; ok {
			resp.Failed++
			resp.Results = append(resp.Results, domain.InviteResult{
				Email:     addr,
				Message:   domain.MsgDuplicate,
				ErrorCode: domain.ErrCodeUserAlreadyExists,
			})
			continue
		}

		result, ok := dispatched[addr]
		if !ok {
			result = sendFailure(addr, "no dispatch outcome returned")
		}
		if result.Success {
			resp.Successful++
		} else {
			resp.Failed++
		}
		resp.Results = append(resp.Results, result)
	}

	return resp
}
