package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/reclaimhq/reclaim/internal/config"
	"github.com/reclaimhq/reclaim/internal/invitation/domain"
	"github.com/reclaimhq/reclaim/internal/providers/email"
	"go.uber.org/zap"
)

type fakeRepo struct {
	mu sync.Mutex

	accountUsers []domain.AccountUser
	usersByEmail map[string]*domain.User
	usersByID    map[snowflake.ID]*domain.User
	account      *domain.Account
	entity       *domain.Entity
	admin        *domain.User

	batchErr      error
	created       []*domain.User
	batchCreated  []*domain.User
	entityLookups int
}

func newFakeRepo() *fakeRepo {
	account := &domain.Account{ID: snowflake.ID(10), Name: "Acme VAT"}
	inviter := &domain.User{
		ID:        snowflake.ID(77),
		AccountID: account.ID,
		Email:     "owner@acme.com",
		FullName:  "Olive Owner",
		UserType:  domain.UserTypeAdmin,
		Status:    domain.StatusActive,
	}
	return &fakeRepo{
		usersByEmail: map[string]*domain.User{},
		usersByID:    map[snowflake.ID]*domain.User{inviter.ID: inviter},
		account:      account,
		entity:       &domain.Entity{ID: snowflake.ID(20), AccountID: account.ID, Name: "Acme GmbH", CountryCode: "DE"},
	}
}

func (f *fakeRepo) ListAccountUsers(ctx context.Context, accountID snowflake.ID) ([]domain.AccountUser, error) {
	return f.accountUsers, nil
}

func (f *fakeRepo) FindUserByEmail(ctx context.Context, addr string) (*domain.User, error) {
	return f.usersByEmail[addr], nil
}

func (f *fakeRepo) FindUserByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	return f.usersByID[id], nil
}

func (f *fakeRepo) FindAccountByID(ctx context.Context, id snowflake.ID) (*domain.Account, error) {
	if f.account != nil && f.account.ID == id {
		return f.account, nil
	}
	return nil, nil
}

func (f *fakeRepo) FindEntityByID(ctx context.Context, id snowflake.ID) (*domain.Entity, error) {
	f.mu.Lock()
	f.entityLookups++
	f.mu.Unlock()
	if f.entity != nil && f.entity.ID == id {
		return f.entity, nil
	}
	return nil, nil
}

func (f *fakeRepo) FindActiveAdmin(ctx context.Context, accountID snowflake.ID) (*domain.User, error) {
	return f.admin, nil
}

func (f *fakeRepo) CreateUser(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, user)
	return nil
}

func (f *fakeRepo) CreateUsersBatch(ctx context.Context, users []*domain.User) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCreated = append(f.batchCreated, users...)
	return nil
}

func (f *fakeRepo) ActivateUser(ctx context.Context, id snowflake.ID, patch domain.ActivationPatch) (bool, error) {
	return false, errors.New("not used in these tests")
}

type fakeTokens struct {
	generated []domain.TokenClaims
	err       error
	claims    *domain.TokenClaims
}

func (f *fakeTokens) Generate(claims domain.TokenClaims) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.generated = append(f.generated, claims)
	return "tok-" + claims.Email, nil
}

func (f *fakeTokens) Verify(token string) (*domain.TokenClaims, error) {
	if f.claims == nil {
		return nil, domain.ErrTokenInvalid
	}
	return f.claims, nil
}

type fakeMail struct {
	calls    [][]email.Message
	failFor  map[string]string
	batchErr error
}

func (f *fakeMail) SendBatch(ctx context.Context, msgs []email.Message) ([]email.Result, error) {
	f.calls = append(f.calls, msgs)
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	results := make([]email.Result, 0, len(msgs))
	for i, msg := range msgs {
		if reason, ok := f.failFor[msg.To]; ok {
			results = append(results, email.Result{Email: msg.To, Error: reason})
			continue
		}
		results = append(results, email.Result{
			Email:     msg.To,
			Success:   true,
			MessageID: fmt.Sprintf("mid-%d", i),
		})
	}
	return results, nil
}

func newTestService(t *testing.T, repo *fakeRepo, mail *fakeMail) domain.Service {
	t.Helper()

	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return New(Params{
		Repo:   repo,
		Tokens: &fakeTokens{},
		Mail:   mail,
		GenID:  node,
		Log:    zap.NewNop(),
		Cfg: config.Config{
			Invite: config.InviteConfig{BaseURL: "https://app.reclaim.test"},
		},
	})
}

func memberRequest(emails ...string) domain.SendRequest {
	entityID := snowflake.ID(20)
	return domain.SendRequest{
		AccountID: snowflake.ID(10),
		InviterID: snowflake.ID(77),
		EntityID:  &entityID,
		Role:      "member",
		Emails:    emails,
	}
}

func TestSendInvitationsDedupAcrossCase(t *testing.T) {
	repo := newFakeRepo()
	mail := &fakeMail{}
	svc := newTestService(t, repo, mail)

	resp, err := svc.SendInvitations(context.Background(), memberRequest("a@x.com", "A@X.COM"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.TotalProcessed != 1 {
		t.Fatalf("expected totalProcessed 1, got %d", resp.TotalProcessed)
	}
	if resp.Successful != 1 || resp.Failed != 0 {
		t.Fatalf("expected 1 success 0 failed, got %d/%d", resp.Successful, resp.Failed)
	}
	if len(mail.calls) != 1 || len(mail.calls[0]) != 1 {
		t.Fatalf("expected a single batch with one message, got %v", mail.calls)
	}
	if len(repo.batchCreated) != 1 {
		t.Fatalf("expected 1 provisioned user, got %d", len(repo.batchCreated))
	}
	if repo.batchCreated[0].Status != domain.StatusPending {
		t.Fatalf("expected pending status, got %q", repo.batchCreated[0].Status)
	}
	if repo.batchCreated[0].FullName != "a" {
		t.Fatalf("expected full name from local part, got %q", repo.batchCreated[0].FullName)
	}
}

func TestSendInvitationsExistingUserShortCircuits(t *testing.T) {
	repo := newFakeRepo()
	repo.accountUsers = []domain.AccountUser{{Email: "Taken@x.com", UserType: domain.UserTypeMember}}
	mail := &fakeMail{}
	svc := newTestService(t, repo, mail)

	resp, err := svc.SendInvitations(context.Background(), memberRequest("taken@x.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mail.calls) != 0 {
		t.Fatal("expected mail provider not to be invoked")
	}
	if resp.TotalProcessed != 1 || resp.Successful != 0 || resp.Failed != 1 {
		t.Fatalf("unexpected totals: %+v", resp)
	}
	if resp.Results[0].ErrorCode != domain.ErrCodeUserAlreadyExists {
		t.Fatalf("expected user_already_exists, got %q", resp.Results[0].ErrorCode)
	}
	if len(repo.batchCreated) != 0 || len(repo.created) != 0 {
		t.Fatal("expected no provisioning for duplicate-only batch")
	}
}

func TestSendInvitationsMixedBatchTotals(t *testing.T) {
	repo := newFakeRepo()
	repo.accountUsers = []domain.AccountUser{{Email: "taken@x.com", UserType: domain.UserTypeMember}}
	mail := &fakeMail{failFor: map[string]string{"bad@x.com": "mailbox unavailable"}}
	svc := newTestService(t, repo, mail)

	resp, err := svc.SendInvitations(context.Background(), memberRequest("taken@x.com", "good@x.com", "bad@x.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.TotalProcessed != resp.Successful+resp.Failed {
		t.Fatalf("totals invariant violated: %+v", resp)
	}
	if resp.TotalProcessed != 3 || resp.Successful != 1 || resp.Failed != 2 {
		t.Fatalf("unexpected totals: %+v", resp)
	}

	seen := map[string]bool{}
	for _, result := range resp.Results {
		if seen[result.Email] {
			t.Fatalf("duplicate email in results: %s", result.Email)
		}
		seen[result.Email] = true
	}

	byEmail := map[string]domain.InviteResult{}
	for _, result := range resp.Results {
		byEmail[result.Email] = result
	}
	if byEmail["bad@x.com"].ErrorCode != domain.ErrCodeSendFailed {
		t.Fatalf("expected send_failed for bad@x.com, got %+v", byEmail["bad@x.com"])
	}
	if byEmail["bad@x.com"].Message != "mailbox unavailable" {
		t.Fatalf("expected provider reason, got %q", byEmail["bad@x.com"].Message)
	}
}

func TestSendInvitationsEntityRequiredForMember(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeMail{})

	req := memberRequest("a@x.com")
	req.EntityID = nil

	_, err := svc.SendInvitations(context.Background(), req)
	if !errors.Is(err, domain.ErrEntityRequired) {
		t.Fatalf("expected ErrEntityRequired, got %v", err)
	}
}

func TestSendInvitationsAdminSkipsEntityLookup(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeMail{})

	req := memberRequest("new-admin@x.com")
	req.Role = "admin"
	req.EntityID = nil

	resp, err := svc.SendInvitations(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Successful != 1 {
		t.Fatalf("expected success, got %+v", resp)
	}
	if repo.entityLookups != 0 {
		t.Fatalf("expected no entity lookups for admin invite, got %d", repo.entityLookups)
	}
}

func TestSendInvitationsBulkCreateFallback(t *testing.T) {
	repo := newFakeRepo()
	repo.batchErr = errors.New("bulk insert rejected")
	mail := &fakeMail{failFor: map[string]string{"bad@x.com": "bounced"}}
	svc := newTestService(t, repo, mail)

	resp, err := svc.SendInvitations(context.Background(), memberRequest("good@x.com", "bad@x.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.created) != 2 {
		t.Fatalf("expected fallback to create each user individually, got %d", len(repo.created))
	}

	statuses := map[string]domain.InviteeStatus{}
	for _, user := range repo.created {
		statuses[user.Email] = user.Status
	}
	if statuses["good@x.com"] != domain.StatusPending {
		t.Fatalf("expected pending for good@x.com, got %q", statuses["good@x.com"])
	}
	if statuses["bad@x.com"] != domain.StatusSendFailed {
		t.Fatalf("expected failed-to-send for bad@x.com, got %q", statuses["bad@x.com"])
	}

	// Provisioning failures never change the invitation outcome.
	if resp.Successful != 1 || resp.Failed != 1 {
		t.Fatalf("unexpected totals after fallback: %+v", resp)
	}
}

func TestSendInvitationsTransportFailureMarksAll(t *testing.T) {
	repo := newFakeRepo()
	mail := &fakeMail{batchErr: errors.New("smtp connection refused")}
	svc := newTestService(t, repo, mail)

	resp, err := svc.SendInvitations(context.Background(), memberRequest("a@x.com", "b@x.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Successful != 0 || resp.Failed != 2 {
		t.Fatalf("expected all failed, got %+v", resp)
	}
	for _, result := range resp.Results {
		if result.ErrorCode != domain.ErrCodeSendFailed {
			t.Fatalf("expected send_failed, got %+v", result)
		}
		if result.Message != "smtp connection refused" {
			t.Fatalf("expected transport reason, got %q", result.Message)
		}
	}

	// Records are still provisioned, all marked failed-to-send.
	if len(repo.batchCreated) != 2 {
		t.Fatalf("expected 2 provisioned users, got %d", len(repo.batchCreated))
	}
	for _, user := range repo.batchCreated {
		if user.Status != domain.StatusSendFailed {
			t.Fatalf("expected failed-to-send status, got %q", user.Status)
		}
	}
}

func TestSendInvitationsUnknownRoleDefaultsToMember(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo, &fakeMail{})

	req := memberRequest("someone@x.com")
	req.Role = "superuser"

	resp, err := svc.SendInvitations(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Successful != 1 {
		t.Fatalf("expected success, got %+v", resp)
	}
	if repo.batchCreated[0].UserType != domain.UserTypeMember {
		t.Fatalf("expected member fallback, got %q", repo.batchCreated[0].UserType)
	}
}
