// Package backup produces periodic snapshots of the zone databases.
//
// Snapshots are written with SQLite's VACUUM INTO, which yields a compact,
// consistent copy without blocking concurrent readers. A gocron scheduler
// drives the interval; old snapshots beyond the retention count are pruned
// after each run.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"

	"shelf/internal/config"
	"shelf/internal/logging"
	"shelf/internal/store"
)

const timestampLayout = "20060102-150405"

// Scheduler runs zone database snapshots on a fixed interval.
type Scheduler struct {
	cfg    *config.Config
	zones  *store.Zones
	logger *slog.Logger
	gocron gocron.Scheduler
}

// New builds a snapshot scheduler for the configured zones. The scheduler is
// inert until Start is called.
func New(cfg *config.Config, zones *store.Zones, logger *slog.Logger) (*Scheduler, error) {
	gs, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{
		cfg:    cfg,
		zones:  zones,
		logger: logger.With(logging.String(logging.FieldComponent, "backup")),
		gocron: gs,
	}, nil
}

// Start registers the snapshot job and begins the interval timer. When
// run_on_start is set, a snapshot is taken immediately in the background.
func (s *Scheduler) Start() error {
	if !s.cfg.Backup.Enabled {
		return nil
	}
	interval := time.Duration(s.cfg.Backup.IntervalHours) * time.Hour
	task := func() {
		if err := s.Run(context.Background()); err != nil {
			s.logger.Error("snapshot run failed", logging.Error(err))
		}
	}
	_, err := s.gocron.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName("zone-db-snapshot"),
	)
	if err != nil {
		return fmt.Errorf("register snapshot job: %w", err)
	}
	s.gocron.Start()
	s.logger.Info("snapshot scheduler started",
		logging.Duration("interval", interval),
		logging.Int("keep", s.cfg.Backup.Keep))
	if s.cfg.Backup.RunOnStart {
		go task()
	}
	return nil
}

// Stop shuts the scheduler down. An in-flight snapshot finishes first.
func (s *Scheduler) Stop() error {
	return s.gocron.Shutdown()
}

// Run snapshots every zone database that exists on disk, then prunes old
// snapshots past the retention count. A failed zone does not stop the rest.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.Paths.BackupDir, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}
	stamp := time.Now().UTC().Format(timestampLayout)
	var failed []string
	for _, zone := range []store.Zone{store.ZoneStaging, store.ZoneProduction, store.ZoneRejection} {
		st := s.zones.ForZone(zone)
		if st == nil {
			continue
		}
		dest := filepath.Join(s.cfg.Paths.BackupDir, fmt.Sprintf("%s-%s.db", zone, stamp))
		if err := st.Backup(ctx, dest); err != nil {
			s.logger.Error("snapshot failed",
				logging.String(logging.FieldZone, string(zone)),
				logging.Error(err))
			failed = append(failed, string(zone))
			continue
		}
		s.logger.Info("snapshot written",
			logging.String(logging.FieldZone, string(zone)),
			logging.String("path", dest))
		if err := s.prune(string(zone)); err != nil {
			s.logger.Warn("snapshot pruning failed",
				logging.String(logging.FieldZone, string(zone)),
				logging.Error(err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("snapshot failed for zones: %s", strings.Join(failed, ", "))
	}
	return nil
}

// prune removes the oldest snapshots for a zone beyond the retention count.
func (s *Scheduler) prune(zone string) error {
	keep := s.cfg.Backup.Keep
	if keep <= 0 {
		return nil
	}
	pattern := filepath.Join(s.cfg.Paths.BackupDir, zone+"-*.db")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}
	if len(matches) <= keep {
		return nil
	}
	// Timestamped names sort chronologically.
	sort.Strings(matches)
	for _, stale := range matches[:len(matches)-keep] {
		if err := os.Remove(stale); err != nil {
			return err
		}
		s.logger.Debug("pruned snapshot", logging.String("path", stale))
	}
	return nil
}
