package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"wealthlens/pkg/wealthlens"
)

const refreshTimeout = 2 * time.Minute

// Scheduler runs the periodic price refresh.
type Scheduler struct {
	cron   *cron.Cron
	core   *wealthlens.Core
	logger *slog.Logger
}

// New builds a scheduler bound to the given core. The price refresh is
// registered with the provided cron spec (standard 5-field format).
func New(core *wealthlens.Core, spec string, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(wealthlens.NowInKolkata().Location())),
		core:   core,
		logger: logger,
	}

	if _, err := s.cron.AddFunc(spec, s.refreshPrices); err != nil {
		return nil, wealthlens.WrapError(wealthlens.ErrCodeInvalidInput, "invalid refresh schedule", err)
	}
	return s, nil
}

// Start begins scheduling in a background goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop cancels scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) refreshPrices() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.core.RefreshAllPrices(ctx)
	if err != nil {
		s.logger.Error("scheduled price refresh failed", "err", err)
		return
	}
	s.logger.Info("scheduled price refresh completed",
		"updated", len(result.Updated),
		"failed", len(result.Failed),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
