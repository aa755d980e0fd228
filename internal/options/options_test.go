package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type alignConfig struct {
	Origin   string
	Stepped  []string
	Verbose  bool
	LastCall string
}

func (c *alignConfig) setOrigin(origin string) error {
	if origin != "sample" && origin != "advance" {
		return errors.New("unknown origin")
	}
	c.Origin = origin
	c.LastCall = "setOrigin"

	return nil
}

func (c *alignConfig) addStepped(name string) {
	c.Stepped = append(c.Stepped, name)
	c.LastCall = "addStepped"
}

func withOrigin(origin string) Option[*alignConfig] {
	return New(func(c *alignConfig) error { return c.setOrigin(origin) })
}

func withStepped(name string) Option[*alignConfig] {
	return NoError(func(c *alignConfig) { c.addStepped(name) })
}

func TestNew(t *testing.T) {
	t.Run("applies setter", func(t *testing.T) {
		cfg := &alignConfig{}
		require.NoError(t, withOrigin("advance").apply(cfg))
		require.Equal(t, "advance", cfg.Origin)
		require.Equal(t, "setOrigin", cfg.LastCall)
	})

	t.Run("propagates setter error", func(t *testing.T) {
		cfg := &alignConfig{}
		err := withOrigin("bogus").apply(cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "unknown origin")
		require.Empty(t, cfg.Origin)
	})
}

func TestNoError(t *testing.T) {
	cfg := &alignConfig{}
	require.NoError(t, withStepped("heart_rate").apply(cfg))
	require.Equal(t, []string{"heart_rate"}, cfg.Stepped)
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &alignConfig{}
		err := Apply(cfg, withStepped("cadence"), withOrigin("sample"), withStepped("heart_rate"))
		require.NoError(t, err)
		require.Equal(t, []string{"cadence", "heart_rate"}, cfg.Stepped)
		require.Equal(t, "sample", cfg.Origin)
		require.Equal(t, "addStepped", cfg.LastCall)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &alignConfig{}
		err := Apply(cfg, withStepped("cadence"), withOrigin("bogus"), withStepped("heart_rate"))
		require.Error(t, err)
		require.Equal(t, []string{"cadence"}, cfg.Stepped)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &alignConfig{}
		require.NoError(t, Apply(cfg, nil, withStepped("power")))
		require.Equal(t, []string{"power"}, cfg.Stepped)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &alignConfig{Origin: "sample"}
		require.NoError(t, Apply(cfg))
		require.Equal(t, "sample", cfg.Origin)
	})
}

func TestJoin(t *testing.T) {
	joined := Join(withOrigin("advance"), withStepped("temperature"))

	cfg := &alignConfig{}
	require.NoError(t, Apply[*alignConfig](cfg, joined))
	require.Equal(t, "advance", cfg.Origin)
	require.Equal(t, []string{"temperature"}, cfg.Stepped)

	failing := Join(withStepped("a"), withOrigin("bogus"))
	require.Error(t, Apply[*alignConfig](&alignConfig{}, failing))
}
