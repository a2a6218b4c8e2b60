// Package killswitch disables request processing at runtime. Operators flip a
// JSON flag file on shared storage; a background poller picks the change up
// and the HTTP layer starts rejecting requests without a redeploy.
package killswitch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Switch reports whether request processing is currently disabled.
type Switch interface {
	Enabled() bool
}

// flagFile is the on-disk document the poller watches.
type flagFile struct {
	Enabled bool `json:"enabled"`
}

// Poller re-reads the flag file on an interval and keeps the current state in
// an atomic flag. A missing or unreadable file leaves the previous state in
// place, so a transient storage failure never flips the switch.
type Poller struct {
	path     string
	interval time.Duration
	enabled  atomic.Bool
	log      *zap.Logger
}

// NewPoller creates a poller for the given flag file. The initial state is
// read immediately so the switch is accurate before the first tick.
func NewPoller(path string, interval time.Duration, log *zap.Logger) *Poller {
	p := &Poller{
		path:     path,
		interval: interval,
		log:      log,
	}
	if err := p.refresh(); err != nil {
		log.Warn("Failed to read kill-switch file on startup", zap.String("path", path), zap.Error(err))
	}
	return p
}

// Enabled reports the state observed at the last successful refresh.
func (p *Poller) Enabled() bool {
	return p.enabled.Load()
}

// Run polls the flag file until the context is cancelled. It never returns a
// fatal error; read failures are logged and retried on the next tick.
func (p *Poller) Run(ctx context.Context) error {
	if p == nil {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.refresh(); err != nil {
				p.log.Warn("Failed to refresh kill-switch state", zap.String("path", p.path), zap.Error(err))
			}
		}
	}
}

func (p *Poller) refresh() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("read kill-switch file: %w", err)
	}

	var flag flagFile
	if err := json.Unmarshal(data, &flag); err != nil {
		return fmt.Errorf("parse kill-switch file: %w", err)
	}

	was := p.enabled.Swap(flag.Enabled)
	if was != flag.Enabled {
		p.log.Warn("Kill-switch state changed", zap.Bool("enabled", flag.Enabled))
	}
	return nil
}

// Disabled is a Switch that is never enabled. It stands in when no flag file
// is configured.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }
