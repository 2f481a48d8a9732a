package comment

import (
	"context"
	"log/slog"
	"time"
)

const DefaultPollInterval = 3 * time.Second

// Poller calls refresh on a fixed interval until its context ends. It does
// not care whether a submission is pending.
type Poller struct {
	interval time.Duration
	refresh  func(context.Context) error
	logger   *slog.Logger
}

func NewPoller(interval time.Duration, refresh func(context.Context) error, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{interval: interval, refresh: refresh, logger: logger}
}

func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.refresh(ctx); err != nil && ctx.Err() == nil {
				p.logger.Warn("comment poll failed", "error", err)
			}
		}
	}
}
