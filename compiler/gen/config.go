package gen

import (
	"runtime"
	"slices"

	"go.uber.org/zap"
)

const (
	defaultHeader = "Code generated by thinwrap. DO NOT EDIT."

	// RuntimePkg is the import path of the thinwrap runtime package that
	// generated code instantiates.
	RuntimePkg = "github.com/syssam/thinwrap"
)

// Config holds the global codegen configuration.
type Config struct {
	// Package is the name of the generated Go package, e.g. "res".
	// Defaults to the manifest package, then the base of Target.
	Package string

	// Target is the output directory of the generated package.
	Target string

	// Header is the comment placed at the top of every generated file.
	Header string

	// Runtime is the import path of the thinwrap runtime.
	Runtime string

	// Workers limits the number of files generated in parallel.
	Workers int

	// Features enables optional codegen features.
	Features []Feature

	// Logger receives generation progress. Nil means no logging.
	Logger *zap.Logger
}

// OutputConfig groups the settings that control where and how files are written.
type OutputConfig struct {
	Target  string
	Package string
	Header  string
}

// Output returns the output settings of c.
func (c *Config) Output() OutputConfig {
	return OutputConfig{
		Target:  c.Target,
		Package: c.Package,
		Header:  c.Header,
	}
}

// DefaultConfig returns a Config with default settings.
func DefaultConfig() *Config {
	return &Config{
		Header:   defaultHeader,
		Runtime:  RuntimePkg,
		Workers:  runtime.GOMAXPROCS(0),
		Features: DefaultFeatures(),
	}
}

// FeatureEnabled reports if the given feature name is enabled.
// It returns a ConfigError if the feature is not known.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	if _, ok := FeatureByName(name); !ok {
		return false, NewConfigError("Features", name, "unknown feature")
	}
	return c.HasFeature(name), nil
}

// HasFeature reports if the given feature name is enabled, without checking
// that the name is known.
func (c *Config) HasFeature(name string) bool {
	return slices.ContainsFunc(c.Features, func(f Feature) bool {
		return f.Name == name
	})
}

func (c *Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
