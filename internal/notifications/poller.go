package notifications

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// UnreadCounter is the read side the poller observes.
type UnreadCounter func(ctx context.Context) (int64, error)

// Poller observes an unread count on a fixed interval and hands each value to
// a callback. There is no push channel anywhere in the system; cooperative
// polling like this is the only delivery mechanism for unread counts.
type Poller struct {
	interval time.Duration
	count    UnreadCounter
	onCount  func(int64)
	logger   *zap.Logger
}

// NewPoller creates a Poller. interval defaults to 15s when non-positive.
func NewPoller(interval time.Duration, count UnreadCounter, onCount func(int64), logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Poller{interval: interval, count: count, onCount: onCount, logger: logger}
}

// Run polls until ctx is cancelled. An immediate first poll fires before the
// ticker settles into the interval. Poll errors are logged and the loop keeps
// going.
func (p *Poller) Run(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	n, err := p.count(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("unread poll failed", zap.Error(err))
		}
		return
	}
	p.onCount(n)
}
