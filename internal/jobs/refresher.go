package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"SiteLedger/internal/config"
	"SiteLedger/internal/datasource"
	"SiteLedger/internal/logger"
	"SiteLedger/internal/recon"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// RefreshService recomputes the landing dashboard on a schedule so the
// gateway can serve it without refetching every collection per
// request. Each run is a full refetch; there is no incremental state.
type RefreshService struct {
	config   map[string]interface{}
	client   *datasource.Client
	store    *SnapshotStore
	schedule string
	cron     *cron.Cron
}

func NewRefreshService(cfg map[string]interface{}, client *datasource.Client, store *SnapshotStore) *RefreshService {
	schedule := config.DefaultRefreshSchedule
	if cfg != nil {
		if s, ok := cfg["schedule"].(string); ok && s != "" {
			schedule = s
		}
	}
	return &RefreshService{config: cfg, client: client, store: store, schedule: schedule}
}

func (s *RefreshService) Name() string {
	return "jobs"
}

func (s *RefreshService) Start() error {
	loc, err := time.LoadLocation(config.DefaultTimeZone)
	if err != nil {
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(s.schedule, func() {
		if err := s.RunRefresh(context.Background()); err != nil {
			log.Printf("[ERROR] dashboard refresh: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule dashboard refresh: %v", err)
	}
	c.Start()
	s.cron = c
	log.Println("[INFO] dashboard refresher scheduled:", s.schedule)

	// warm the first snapshot so the gateway never starts cold
	go func() {
		if err := s.RunRefresh(context.Background()); err != nil {
			log.Printf("[WARN] initial dashboard refresh: %v", err)
		}
	}()
	return nil
}

func (s *RefreshService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	return nil
}

// RunRefresh executes one aggregation run: fetch projects, fan out the
// per-project summaries, fetch invoices, fuse, swap the snapshot.
func (s *RefreshService) RunRefresh(ctx context.Context) error {
	runID := uuid.New().String()
	started := time.Now()

	projects, err := s.client.Projects(ctx)
	if err != nil {
		return fmt.Errorf("fetch projects: %w", err)
	}
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	summaries, failed := s.client.FetchProjectSummaries(ctx, ids)

	// invoices are best-effort: a failed invoice fetch degrades the
	// revenue figure, not the whole snapshot
	invoices, err := s.client.Invoices(ctx)
	if err != nil {
		log.Printf("[WARN] run %s: invoice fetch failed: %v", runID, err)
		invoices = nil
	}

	stats := recon.AggregateDashboardStats(projects, summaries, invoices)
	s.store.Swap(&DashboardSnapshot{
		RunID:       runID,
		RefreshedAt: time.Now(),
		Stats:       stats,
	})

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit(fmt.Sprintf(
			"dashboard refresh run %s: %d projects, %d failed, took %s",
			runID, len(projects), len(failed), time.Since(started).Round(time.Millisecond)))
	}
	return nil
}
