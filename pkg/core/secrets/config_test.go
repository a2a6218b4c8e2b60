package secrets

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewConfig(t *testing.T) {
	t.Run("reads the secrets section", func(t *testing.T) {
		v := viper.New()
		v.Set("secrets.ttl", "90s")

		cfg, err := newConfig(v, zap.NewNop())

		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, cfg.TTL)
	})

	t.Run("defaults when the section is absent", func(t *testing.T) {
		cfg, err := newConfig(viper.New(), zap.NewNop())

		require.NoError(t, err)
		assert.Equal(t, 5*time.Minute, cfg.TTL)
	})
}
