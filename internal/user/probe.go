package user

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// ProbeInterval is how often the background liveness check runs.
const ProbeInterval = 5 * time.Second

// Probe tracks whether the user service answers its ping endpoint. One
// probe exists per upstream; handlers consult IsAlive and the client asks
// for an immediate re-check when a call fails on transport.
type Probe struct {
	client   *Client
	alive    atomic.Bool
	checking atomic.Bool
	onChange func(alive bool)
}

// NewProbe creates a probe over the client and wires itself into it.
// The probe starts pessimistic; the first CheckNow or Run tick settles it.
func NewProbe(c *Client) *Probe {
	p := &Probe{client: c}
	c.bindProbe(p)
	return p
}

// OnChange registers a callback fired on every aliveness flip. Used for
// metrics; must be set before Run.
func (p *Probe) OnChange(fn func(alive bool)) {
	p.onChange = fn
}

// IsAlive returns the last observed aliveness.
func (p *Probe) IsAlive() bool {
	return p.alive.Load()
}

// CheckNow pings the service once and updates aliveness.
func (p *Probe) CheckNow(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := p.client.ping(ctx)
	alive := err == nil
	if p.alive.Swap(alive) != alive {
		if alive {
			slog.Info("user service is back", "base", p.client.base)
		} else {
			slog.Warn("user service went away", "base", p.client.base, "err", err)
		}
		if p.onChange != nil {
			p.onChange(alive)
		}
	}
	return alive
}

// TriggerRecheck schedules one asynchronous CheckNow. Concurrent triggers
// collapse into a single in-flight check.
func (p *Probe) TriggerRecheck() {
	if !p.checking.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer p.checking.Store(false)
		p.CheckNow(context.Background())
	}()
}

// Run blocks, re-checking the service every ProbeInterval until the context
// is canceled. The first check fires immediately.
func (p *Probe) Run(ctx context.Context) error {
	ticker := time.NewTicker(ProbeInterval)
	defer ticker.Stop()

	slog.Info("user service probe started", "interval", ProbeInterval.String(), "base", p.client.base)
	p.CheckNow(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("user service probe stopping")
			return ctx.Err()
		case <-ticker.C:
			p.CheckNow(ctx)
		}
	}
}
