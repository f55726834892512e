package background

import (
	"context"
	"log/slog"
	"time"
)

// CodePurger removes consumed activation codes older than a cutoff
type CodePurger interface {
	PurgeConsumed(ctx context.Context, before time.Time) (int64, error)
}

// CleanupManager periodically purges consumed activation codes past the
// retention window. Consumed codes are kept around for a while so admins
// can audit recent registrations.
type CleanupManager struct {
	codes     CodePurger
	logger    *slog.Logger
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(
	codes CodePurger,
	logger *slog.Logger,
	interval time.Duration,
	retention time.Duration,
) *CleanupManager {
	return &CleanupManager{
		codes:     codes,
		logger:    logger,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

// runCleanup purges consumed activation codes past the retention window
func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cm.logger.Info("starting activation code cleanup")

	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-cm.retention)
	rowsDeleted, err := cm.codes.PurgeConsumed(cleanupCtx, cutoff)
	if err != nil {
		cm.logger.Error("failed to purge consumed activation codes", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		cm.logger.Info("activation code cleanup completed", slog.Int64("rows_deleted", rowsDeleted))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
