// Package gen generates named ownership wrappers from a thinwrap manifest.
//
// For every resource in the manifest the generator emits a zero-size
// releaser type, an exported alias of the matching thinwrap wrapper
// instantiation and a FromRaw constructor:
//
//	type imageReleaser struct{}
//
//	func (imageReleaser) Release(h ffi.Image) { ffi.UnloadImage(h) }
//	func (imageReleaser) Kind() string        { return "Image" }
//
//	type Image = thinwrap.Owned[ffi.Image, imageReleaser]
//
//	func ImageFromRaw(raw ffi.Image) *Image {
//		return thinwrap.FromRaw[ffi.Image, imageReleaser](raw)
//	}
//
// Resources with a binding produce thinwrap.Bound aliases whose constructor
// takes the *thinwrap.Binding the handle depends on.
//
// # Pipeline
//
//	manifest.yaml
//	        ↓  load.Load
//	   load.Manifest
//	        ↓  NewGraph (validation)
//	   Graph of Kinds
//	        ↓  Generator (jennifer, parallel)
//	   goimports
//	        ↓
//	   {target}/*.go
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ManifestError: the manifest could not be read or parsed
//   - ConfigError: configuration errors
//   - ValidationError: an invalid resource, with its manifest line
//   - GenerationError: rendering, formatting or writing failed
//
// NewGraph reports every validation error at once, joined with errors.Join:
//
//	graph, err := gen.NewGraph(config, manifest)
//	if gen.IsValidationError(err) {
//	    // fix the manifest
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	config, err := gen.NewConfig(
//	    gen.WithTarget("./res"),
//	    gen.WithFeatureNames("scope-helpers"),
//	    gen.WithWorkers(4),
//	)
//
// Package name, header and features fall back to the manifest.
//
// # Generated Output
//
//	{target}/
//	├── doc.go              // Package documentation listing the kinds
//	├── {kind}.go           // Releaser, alias, constructor per kind
//	├── kinds.go            // kind-list feature
//	└── layout_test.go      // layout-tests feature
//
// # Features
//
//   - layout-tests: a test calling thinwrap.CheckLayout for every kind (default)
//   - scope-helpers: With<Kind> helpers built on thinwrap.With
//   - kind-list: a Kinds variable naming every generated kind
package gen
