package sheetlive

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultInterval is the poll interval used when none is configured.
const DefaultInterval = 3000 * time.Millisecond

// Options holds configuration for the Updater.
type Options struct {
	interval time.Duration
	timeout  time.Duration
	logger   logrus.FieldLogger
	presets  []Preset
}

func defaultOptions() *Options {
	return &Options{
		interval: DefaultInterval,
		logger:   logrus.StandardLogger(),
	}
}

// Option configures the Updater.
type Option func(*Options)

// WithInterval sets the poll interval (default: 3s). Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithTimeout bounds each fetch (default: the poll interval).
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger used for cycle reports and handler warnings.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOperation registers a custom operation kind at construction time.
func WithOperation(name string, op Operation, simple bool) Option {
	return WithPreset(Preset{Name: name, Operation: op, Simple: simple})
}

// WithPreset imports a bundled preset at construction time.
func WithPreset(p Preset) Option {
	return func(o *Options) { o.presets = append(o.presets, p) }
}
