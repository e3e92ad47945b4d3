// Package scheduler runs the polypill API background jobs: catalog reloads,
// idle-session eviction and a staleness watch over the catalog.
package scheduler

import (
	"fmt"
	"time"

	"github.com/giygas/polypill-api/interfaces"
	"github.com/giygas/polypill-api/logging"
	"github.com/giygas/polypill-api/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Options tunes job intervals
type Options struct {
	ReloadInterval time.Duration // zero disables periodic reloads
	SessionTTL     time.Duration
	EvictEvery     time.Duration
}

// Scheduler owns a gocron scheduler and the stores its jobs act on
type Scheduler struct {
	catalogStore interfaces.CatalogStore
	sessions     interfaces.SessionStore
	loader       interfaces.CatalogLoader
	opts         Options
	scheduler    *gocron.Scheduler
}

// NewScheduler creates a scheduler with injected dependencies
func NewScheduler(catalogStore interfaces.CatalogStore, sessions interfaces.SessionStore,
	loader interfaces.CatalogLoader, opts Options) *Scheduler {
	if opts.EvictEvery <= 0 {
		opts.EvictEvery = time.Minute
	}
	return &Scheduler{
		catalogStore: catalogStore,
		sessions:     sessions,
		loader:       loader,
		opts:         opts,
		scheduler:    gocron.NewScheduler(time.Local),
	}
}

// Start loads the catalog once, failing if that load fails, then schedules
// the recurring jobs
func (s *Scheduler) Start() error {
	if err := s.reloadCatalog(); err != nil {
		logging.Error("Failed to perform initial catalog load", "error", err)
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	if s.opts.ReloadInterval > 0 {
		_, err := s.scheduler.Every(s.opts.ReloadInterval).WaitForSchedule().Do(func() {
			if err := s.reloadCatalog(); err != nil {
				logging.Error("Failed to reload catalog, keeping the previous one", "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule catalog reload: %w", err)
		}

		_, err = s.scheduler.Every(1).Hour().WaitForSchedule().Do(s.checkStaleness)
		if err != nil {
			return fmt.Errorf("failed to schedule staleness watch: %w", err)
		}
	}

	if s.sessions != nil && s.opts.SessionTTL > 0 {
		_, err := s.scheduler.Every(s.opts.EvictEvery).WaitForSchedule().Do(s.evictIdleSessions)
		if err != nil {
			return fmt.Errorf("failed to schedule session eviction: %w", err)
		}
	}

	s.scheduler.StartAsync()
	logging.Info("Scheduler started",
		"catalog_source", s.loader.Source(),
		"reload_interval", s.opts.ReloadInterval.String(),
		"session_ttl", s.opts.SessionTTL.String())

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// reloadCatalog loads a fresh catalog and swaps it in. Sessions keep the
// prices they captured when items were added.
func (s *Scheduler) reloadCatalog() error {
	if !s.catalogStore.BeginUpdate() {
		logging.Info("Catalog reload already in progress, skipping...")
		return nil
	}
	defer s.catalogStore.EndUpdate()

	start := time.Now()
	logging.Info("Starting catalog load", "source", s.loader.Source())

	c, err := s.loader.Load()
	if err != nil {
		s.catalogStore.SetReloadError(err)
		metrics.CatalogReloads.WithLabelValues("failure").Inc()
		return fmt.Errorf("failed to load catalog from %s: %w", s.loader.Source(), err)
	}

	s.catalogStore.UpdateCatalog(c)
	s.catalogStore.SetReloadError(nil)
	metrics.CatalogReloads.WithLabelValues("success").Inc()
	metrics.CatalogMedications.Set(float64(c.Len()))

	logging.Info("Catalog load completed",
		"duration", time.Since(start).String(),
		"medications", c.Len(),
		"rules", len(c.ListInteractionRules()))

	return nil
}

func (s *Scheduler) evictIdleSessions() {
	if n := s.sessions.EvictIdle(s.opts.SessionTTL); n > 0 {
		logging.Info("Evicted idle sessions", "count", n)
	}
	metrics.ActiveSessions.Set(float64(s.sessions.Count()))
}

// checkStaleness warns when two reload windows passed without a successful load
func (s *Scheduler) checkStaleness() {
	age := time.Since(s.catalogStore.GetLastUpdated())
	if age > 2*s.opts.ReloadInterval+time.Hour {
		logging.Warn("Catalog hasn't been reloaded recently",
			"age", age.Round(time.Minute).String(),
			"last_error", errString(s.catalogStore.GetReloadError()))
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
