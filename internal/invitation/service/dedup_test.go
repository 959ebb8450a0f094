package service

import (
	"testing"

	"github.com/reclaimhq/reclaim/internal/invitation/domain"
)

func TestDedupCaseInsensitiveFirstSeenOrder(t *testing.T) {
	deduped := Dedup([]string{"a@x.com", "A@X.COM", "b@x.com", " B@x.com ", "a@x.com"})

	if len(deduped) != 2 {
		t.Fatalf("expected 2 emails, got %d: %v", len(deduped), deduped)
	}
	if deduped[0] != "a@x.com" || deduped[1] != "b@x.com" {
		t.Fatalf("unexpected order: %v", deduped)
	}
}

func TestDedupSkipsEmpty(t *testing.T) {
	deduped := Dedup([]string{"", "  ", "a@x.com"})
	if len(deduped) != 1 {
		t.Fatalf("expected 1 email, got %v", deduped)
	}
}

func TestPartitionAgainstExistingUsers(t *testing.T) {
	existing := []domain.AccountUser{
		{Email: "Taken@x.com", UserType: domain.UserTypeMember},
	}

	duplicates, fresh := Partition([]string{"taken@x.com", "new@x.com"}, existing)

	if _, ok := duplicates["taken@x.com"]; !ok {
		t.Fatal("expected taken@x.com to be a duplicate")
	}
	if len(fresh) != 1 || fresh[0] != "new@x.com" {
		t.Fatalf("unexpected fresh list: %v", fresh)
	}
}

func TestPartitionNoExistingUsers(t *testing.T) {
	duplicates, fresh := Partition([]string{"a@x.com", "b@x.com"}, nil)
	if len(duplicates) != 0 {
		t.Fatalf("expected no duplicates, got %v", duplicates)
	}
	if len(fresh) != 2 {
		t.Fatalf("expected 2 fresh emails, got %v", fresh)
	}
}
