package service

import (
	"strings"

	"github.com/reclaimhq/reclaim/internal/invitation/domain"
)

// Dedup lowercases raw emails and removes duplicates preserving first-seen
// order. Order only drives deterministic result numbering, the batch
// semantics do not depend on it.
func Dedup(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	deduped := make([]string, 0, len(raw))
	for _, addr := range raw {
		normalized := strings.ToLower(strings.TrimSpace(addr))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		deduped = append(deduped, normalized)
	}
	return deduped
}

// Partition splits a deduplicated email list against the account's current
// users. Emails already present in the account come back in the duplicate
// set; the rest are fresh and eligible for dispatch.
func Partition(deduped []string, existing []domain.AccountUser) (map[string]struct{}, []string) {
	members := make(map[string]struct{}, len(existing))
	for _, user := range existing {
		members[strings.ToLower(user.Email)] = struct{}{}
	}

	duplicates := make(map[string]struct{})
	fresh := make([]string, 0, len(deduped))
	for _, addr := range deduped {
		if _, ok := members[addr]; ok {
			duplicates[addr] = struct{}{}
			continue
		}
		fresh = append(fresh, addr)
	}
	return duplicates, fresh
}
