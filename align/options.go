package align

import (
	"fmt"

	"github.com/arloliu/fitlay/internal/options"
	"github.com/arloliu/fitlay/telemetry"
)

type config struct {
	policies [telemetry.NumMetrics]Policy
	origin   Origin
}

func defaultConfig() *config {
	cfg := &config{origin: OriginSample}
	for _, m := range telemetry.Metrics() {
		cfg.policies[m] = DefaultPolicy(m)
	}

	return cfg
}

func (c *config) setPolicy(m telemetry.Metric, p Policy) error {
	if !m.Valid() {
		return fmt.Errorf("invalid metric %s", m)
	}
	if p != Interpolated && p != Stepped {
		return fmt.Errorf("invalid policy %s for metric %s", p, m)
	}
	c.policies[m] = p

	return nil
}

// Option configures an Aligner.
type Option = options.Option[*config]

// WithPolicy sets the policy of one metric.
func WithPolicy(m telemetry.Metric, p Policy) Option {
	return options.New(func(c *config) error {
		return c.setPolicy(m, p)
	})
}

// WithPolicies sets the policies of several metrics at once.
func WithPolicies(policies map[telemetry.Metric]Policy) Option {
	return options.New(func(c *config) error {
		for m, p := range policies {
			if err := c.setPolicy(m, p); err != nil {
				return err
			}
		}

		return nil
	})
}

// WithStepped marks metrics as stepped.
func WithStepped(metrics ...telemetry.Metric) Option {
	return options.New(func(c *config) error {
		for _, m := range metrics {
			if err := c.setPolicy(m, Stepped); err != nil {
				return err
			}
		}

		return nil
	})
}

// WithInterpolated marks metrics as interpolated.
func WithInterpolated(metrics ...telemetry.Metric) Option {
	return options.New(func(c *config) error {
		for _, m := range metrics {
			if err := c.setPolicy(m, Interpolated); err != nil {
				return err
			}
		}

		return nil
	})
}

// WithFractionOrigin selects where elapsed time inside an interval is
// measured from. The default is OriginSample.
func WithFractionOrigin(o Origin) Option {
	return options.New(func(c *config) error {
		if o != OriginSample && o != OriginAdvance {
			return fmt.Errorf("invalid fraction origin %s", o)
		}
		c.origin = o

		return nil
	})
}
