package thinwrap

import (
	"errors"
	"sync/atomic"
)

// Config holds process-wide wrapper settings. The zero Config disables all
// checks; wrappers then cost a handle plus one state word.
type Config struct {
	// CheckAffinity records the adopting OS thread and panics with an
	// AffinityError when a handle is borrowed or released elsewhere.
	CheckAffinity bool

	// Collector, when set, receives unbound handles whose wrapper became
	// unreachable while still owning.
	Collector *Collector
}

// Option configures wrapper behavior.
type Option func(*Config) error

// WithAffinityCheck enables or disables OS-thread affinity checks.
// Enabling it fails on platforms without a thread id syscall.
func WithAffinityCheck(on bool) Option {
	return func(c *Config) error {
		if on && !affinitySupported {
			return errors.New("thinwrap: affinity checks are not supported on this platform")
		}
		c.CheckAffinity = on
		return nil
	}
}

// WithCollector routes leaked handles to col. A nil col disables leak
// tracking.
func WithCollector(col *Collector) Option {
	return func(c *Config) error {
		c.Collector = col
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var settings atomic.Pointer[Config]

// Configure applies opts on top of the current settings and installs the
// result. Wrappers created earlier keep the settings they were created with.
// On error the current settings are left unchanged.
func Configure(opts ...Option) error {
	c := Settings()
	if err := c.Apply(opts...); err != nil {
		return err
	}
	settings.Store(&c)
	return nil
}

// Settings returns a copy of the current settings.
func Settings() Config {
	if c := settings.Load(); c != nil {
		return *c
	}
	return Config{}
}

// ResetSettings restores the zero Config.
func ResetSettings() {
	settings.Store(nil)
}
