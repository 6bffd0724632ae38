package jobs

import (
	"sync/atomic"
	"time"

	"SiteLedger/internal/recon"
)

// DashboardSnapshot is one completed aggregation run. Runs are
// one-shot: a newer run replaces the snapshot wholesale and a stale
// in-flight run loses the swap (last-write-wins at this boundary, the
// recon core itself stays pure).
type DashboardSnapshot struct {
	RunID       string               `json:"run_id"`
	RefreshedAt time.Time            `json:"refreshed_at"`
	Stats       recon.DashboardStats `json:"stats"`
}

// SnapshotStore hands the latest snapshot to the gateway without
// blocking a refresh in progress.
type SnapshotStore struct {
	current atomic.Pointer[DashboardSnapshot]
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

func (s *SnapshotStore) Swap(snap *DashboardSnapshot) {
	s.current.Store(snap)
}

// Latest returns the most recent snapshot, or nil before the first
// completed run.
func (s *SnapshotStore) Latest() *DashboardSnapshot {
	return s.current.Load()
}
