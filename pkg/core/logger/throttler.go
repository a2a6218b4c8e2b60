package logger

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Throttler rate-limits repetitive warnings. Each instance keeps its own map
// of per-key limiters so components can throttle independently.
type Throttler struct {
	log      *zap.Logger
	limiters sync.Map // map[string]*rate.Limiter
	interval time.Duration
}

// NewThrottler creates a Throttler allowing one WARN per key per interval.
// An interval of 0 defaults to 5 minutes.
func NewThrottler(log *zap.Logger, interval time.Duration) *Throttler {
	if interval == 0 {
		interval = 5 * time.Minute
	}
	return &Throttler{
		log:      log,
		interval: interval,
	}
}

// Warn logs at WARN once per interval per key and at DEBUG otherwise, keeping
// visibility of ongoing conditions without flooding the log.
func (t *Throttler) Warn(key string, msg string, fields ...zap.Field) {
	if t.limiter(key).Allow() {
		t.log.Warn(msg, fields...)
	} else {
		t.log.Debug(msg, fields...)
	}
}

func (t *Throttler) limiter(key string) *rate.Limiter {
	if limiter, ok := t.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(rate.Every(t.interval), 1)
	actual, _ := t.limiters.LoadOrStore(key, limiter)
	return actual.(*rate.Limiter)
}
