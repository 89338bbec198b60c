package gen

import (
	"os"
	"path/filepath"
)

var (
	// FeatureLayoutTests emits a layout_test.go that checks every generated
	// wrapper keeps its handle at offset zero.
	FeatureLayoutTests = Feature{
		Name:        "layout-tests",
		Stage:       Stable,
		Default:     true,
		Description: "Generates a test asserting the wrapper layout of every kind",
		cleanup: func(c *Config) error {
			return remove(c.Target, layoutTestFile)
		},
	}

	// FeatureScopeHelpers emits With<Kind> helpers that run a callback with a
	// wrapper and release it when the callback returns.
	FeatureScopeHelpers = Feature{
		Name:        "scope-helpers",
		Stage:       Beta,
		Default:     false,
		Description: "Generates With<Kind> helpers built on thinwrap.With and thinwrap.WithBound",
	}

	// FeatureKindList emits a Kinds slice listing the kind names of the package.
	FeatureKindList = Feature{
		Name:        "kind-list",
		Stage:       Experimental,
		Default:     false,
		Description: "Generates a Kinds variable with the name of every generated kind",
		cleanup: func(c *Config) error {
			return remove(c.Target, kindListFile)
		},
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureLayoutTests,
		FeatureScopeHelpers,
		FeatureKindList,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development and may change or disappear.
	Experimental

	// Alpha features are complete, but their output may still change.
	Alpha

	// Beta features are documented and no breaking changes are expected.
	Beta

	// Stable features have been in use for a while.
	Stable
)

// String returns the stage name.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the thinwrap codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// cleanup removes the output of a previous run when the feature is
	// turned off.
	cleanup func(*Config) error
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// DefaultFeatures returns the features enabled by default.
func DefaultFeatures() []Feature {
	var fs []Feature
	for _, f := range AllFeatures {
		if f.Default {
			fs = append(fs, f)
		}
	}
	return fs
}

// remove file (if exists) and its dir if it's empty.
func remove(dir, file string) error {
	if err := os.Remove(filepath.Join(dir, file)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	infos, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return os.Remove(dir)
	}
	return nil
}
