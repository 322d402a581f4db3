package scheduler

import (
	"context"
	"time"

	"github.com/ndelvaux/handleforge/internal/logger"
)

const (
	// DefaultRetention is how long history rows are kept when unconfigured
	DefaultRetention = 90 * 24 * time.Hour // 90 days
)

// HistoryPruner deletes history rows older than the given age.
type HistoryPruner interface {
	PruneHistory(ctx context.Context, olderThan time.Duration) (int64, error)
}

// HistoryRetention periodically prunes old generation history rows
type HistoryRetention struct {
	store     HistoryPruner
	logger    logger.Logger
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
}

// NewHistoryRetention creates a new history retention sweeper
func NewHistoryRetention(
	store HistoryPruner,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
) *HistoryRetention {
	if retention == 0 {
		retention = DefaultRetention
	}

	return &HistoryRetention{
		store:     store,
		logger:    log,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic retention sweep
func (hr *HistoryRetention) Start(ctx context.Context) error {
	// Run immediately on start
	if err := hr.Sweep(ctx); err != nil {
		hr.logger.Warn("initial history retention sweep failed",
			logger.Error(err))
	}

	// Start periodic sweeps
	ticker := time.NewTicker(hr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := hr.Sweep(ctx); err != nil {
					hr.logger.Error("history retention sweep failed",
						logger.Error(err))
				}
			case <-hr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the retention sweeper
func (hr *HistoryRetention) Stop() {
	close(hr.stopCh)
}

// Sweep removes history rows older than the retention threshold
func (hr *HistoryRetention) Sweep(ctx context.Context) error {
	deleted, err := hr.store.PruneHistory(ctx, hr.retention)
	if err != nil {
		return err
	}

	if deleted > 0 {
		hr.logger.Info("history retention sweep completed",
			logger.Int("rows_deleted", int(deleted)),
			logger.String("retention", hr.retention.String()))
	} else {
		hr.logger.Debug("no history rows to prune")
	}

	return nil
}
