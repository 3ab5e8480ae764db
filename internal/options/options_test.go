package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type tableConfig struct {
	name  string
	count int
	calls []string
}

var errNegativeCount = errors.New("count cannot be negative")

func withCount(n int) Option[*tableConfig] {
	return New(func(c *tableConfig) error {
		if n < 0 {
			return errNegativeCount
		}
		c.count = n
		c.calls = append(c.calls, "count")

		return nil
	})
}

func withName(name string) Option[*tableConfig] {
	return NoError(func(c *tableConfig) {
		c.name = name
		c.calls = append(c.calls, "name")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &tableConfig{}
		err := Apply(cfg, withName("trees"), withCount(4))

		require.NoError(t, err)
		require.Equal(t, "trees", cfg.name)
		require.Equal(t, 4, cfg.count)
		require.Equal(t, []string{"name", "count"}, cfg.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &tableConfig{}
		err := Apply(cfg, withCount(-1), withName("never"))

		require.ErrorIs(t, err, errNegativeCount)
		require.Empty(t, cfg.name)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &tableConfig{}
		err := Apply(cfg, nil, withName("ok"))

		require.NoError(t, err)
		require.Equal(t, "ok", cfg.name)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &tableConfig{count: 7}
		require.NoError(t, Apply[*tableConfig](cfg))
		require.Equal(t, 7, cfg.count)
	})
}
