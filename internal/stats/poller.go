package stats

import (
	"context"
	"log/slog"
	"time"
)

// Poller pushes samples from a Sampler to a publish callback on a fixed
// interval until its context is cancelled. Samples are not buffered and there
// is no backpressure: a failed read is logged and the tick skipped.
type Poller struct {
	sampler  Sampler
	interval time.Duration
	publish  func(Sample)
}

// NewPoller creates a poller. publish is invoked once per tick with the
// freshest sample.
func NewPoller(sampler Sampler, interval time.Duration, publish func(Sample)) *Poller {
	return &Poller{sampler: sampler, interval: interval, publish: publish}
}

// Run blocks until ctx is done
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample, err := p.sampler.Sample()
			if err != nil {
				slog.Warn("resource sample failed", "error", err)
				continue
			}
			p.publish(sample)
		}
	}
}
