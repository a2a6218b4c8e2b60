package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestThrottlerWarn(t *testing.T) {
	t.Run("first call per key logs at warn", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		throttler := NewThrottler(zap.New(core), time.Hour)

		throttler.Warn("kill-switch", "service disabled")

		entries := logs.All()
		assert.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("repeated calls within the interval drop to debug", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		throttler := NewThrottler(zap.New(core), time.Hour)

		throttler.Warn("kill-switch", "service disabled")
		throttler.Warn("kill-switch", "service disabled")
		throttler.Warn("kill-switch", "service disabled")

		entries := logs.All()
		assert.Len(t, entries, 3)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
		assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
	})

	t.Run("keys throttle independently", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		throttler := NewThrottler(zap.New(core), time.Hour)

		throttler.Warn("a", "first")
		throttler.Warn("b", "second")

		for _, entry := range logs.All() {
			assert.Equal(t, zapcore.WarnLevel, entry.Level)
		}
	})
}
