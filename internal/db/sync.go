package db

import (
	"context"
	"fmt"

	"github.com/jonathan/talentscout/internal/types"
)

// SyncResult counts what a mirror pass changed.
type SyncResult struct {
	Upserted int
	Removed  int
}

// Mirror is the subset of DB used by Sync.
type Mirror interface {
	UpsertCandidate(ctx context.Context, r *types.CandidateRecord) error
	CandidateIDs(ctx context.Context) ([]string, error)
	DeleteCandidate(ctx context.Context, id string) (bool, error)
}

// Sync makes the mirror hold exactly records: every record is upserted and
// rows whose id is not among them are removed.
func Sync(ctx context.Context, m Mirror, records []*types.CandidateRecord) (SyncResult, error) {
	var result SyncResult

	keep := make(map[string]bool, len(records))
	for _, r := range records {
		if err := m.UpsertCandidate(ctx, r); err != nil {
			return result, err
		}
		keep[r.CandidateID] = true
		result.Upserted++
	}

	ids, err := m.CandidateIDs(ctx)
	if err != nil {
		return result, err
	}
	for _, id := range ids {
		if keep[id] {
			continue
		}
		removed, err := m.DeleteCandidate(ctx, id)
		if err != nil {
			return result, fmt.Errorf("failed to prune mirror: %w", err)
		}
		if removed {
			result.Removed++
		}
	}
	return result, nil
}
