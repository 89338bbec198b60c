package gen

import (
	"errors"
	"fmt"
	"go/token"
	"path/filepath"
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/thinwrap/compiler/load"
)

type (
	// Graph holds the validated kinds of a manifest together with the
	// configuration used to generate them.
	Graph struct {
		*Config
		// Kinds in manifest order.
		Kinds []*Kind
		// Manifest the graph was built from.
		Manifest *load.Manifest
	}

	// Kind is a single handle kind to generate a wrapper for.
	Kind struct {
		// Name is the exported Go name of the wrapper, e.g. "RenderTexture".
		Name string
		// Label is a human-readable name, e.g. "Render Texture".
		Label string
		// Handle is the foreign handle type.
		Handle QualifiedName
		// Release is the foreign release function.
		Release QualifiedName
		// Binding is the context type of bound kinds.
		Binding *QualifiedName
		// Doc is the documentation from the manifest.
		Doc string
		// Line of the resource in the manifest, if known.
		Line int
	}

	// QualifiedName is a package-qualified Go identifier.
	QualifiedName struct {
		Path string
		Name string
	}
)

var titleCaser = cases.Title(language.English)

// reserved kind names clash with package-level files or declarations.
var reserved = map[string]bool{
	"Doc":        true,
	"Kinds":      true,
	"LayoutTest": true,
}

// ParseQualified parses "import/path.Name". The name must be exported.
func ParseQualified(s string) (QualifiedName, error) {
	slash := strings.LastIndex(s, "/")
	dot := strings.LastIndex(s[slash+1:], ".")
	if dot < 0 {
		return QualifiedName{}, fmt.Errorf("%q is not of the form import/path.Name", s)
	}
	q := QualifiedName{
		Path: s[:slash+1+dot],
		Name: s[slash+1+dot+1:],
	}
	switch {
	case q.Path == "" || strings.HasSuffix(q.Path, "/"):
		return QualifiedName{}, fmt.Errorf("%q has an empty import path", s)
	case !token.IsIdentifier(q.Name):
		return QualifiedName{}, fmt.Errorf("%q is not a valid Go identifier", q.Name)
	case !token.IsExported(q.Name):
		return QualifiedName{}, fmt.Errorf("%q is not exported", q.Name)
	}
	return q, nil
}

// String returns the qualified form "import/path.Name".
func (q QualifiedName) String() string {
	return q.Path + "." + q.Name
}

// Bound reports whether k is tied to a binding context.
func (k *Kind) Bound() bool {
	return k.Binding != nil
}

// FileName returns the name of the generated file of k.
func (k *Kind) FileName() string {
	return inflect.Underscore(k.Name) + ".go"
}

// Releaser returns the name of the unexported releaser type of k.
func (k *Kind) Releaser() string {
	return inflect.CamelizeDownFirst(k.Name) + "Releaser"
}

// Constructor returns the name of the FromRaw constructor of k.
func (k *Kind) Constructor() string {
	return k.Name + "FromRaw"
}

// KindName derives the exported Go name of a resource name:
// "render_texture" and "render-texture" both give "RenderTexture".
func KindName(name string) string {
	return inflect.Camelize(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
}

// KindLabel derives a human-readable label from a Go name:
// "RenderTexture" gives "Render Texture".
func KindLabel(name string) string {
	return titleCaser.String(strings.ReplaceAll(inflect.Underscore(name), "_", " "))
}

// NewGraph validates the manifest and builds the graph of kinds.
// All validation errors are returned together.
func NewGraph(c *Config, m *load.Manifest) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if m == nil {
		return nil, NewManifestError("", "manifest cannot be nil", nil)
	}
	g := &Graph{Config: c, Manifest: m}
	var errs []error
	if err := g.resolveConfig(); err != nil {
		errs = append(errs, err)
	}
	if len(m.Resources) == 0 {
		errs = append(errs, NewValidationError("", "resources", nil, "manifest declares no resources"))
	}
	seen := make(map[string]*Kind, len(m.Resources))
	for _, r := range m.Resources {
		k, err := newKind(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if prev, ok := seen[k.Name]; ok {
			errs = append(errs, &ValidationError{
				Resource: r.Name,
				Field:    "name",
				Value:    k.Name,
				Line:     r.Line,
				Message:  fmt.Sprintf("duplicate kind %s (first declared on line %d)", k.Name, prev.Line),
			})
			continue
		}
		seen[k.Name] = k
		g.Kinds = append(g.Kinds, k)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return g, nil
}

// resolveConfig fills package, header and features from the manifest where
// the config leaves them unset.
func (g *Graph) resolveConfig() error {
	m := g.Manifest
	if g.Package == "" {
		g.Package = m.Package
	}
	if g.Package == "" && g.Target != "" {
		g.Package = filepath.Base(g.Target)
	}
	if g.Header == "" {
		g.Header = m.Header
	}
	if g.Header == "" {
		g.Header = defaultHeader
	}
	if g.Runtime == "" {
		g.Runtime = RuntimePkg
	}
	var errs []error
	if g.Package == "" {
		errs = append(errs, NewConfigError("Package", nil, "no package name in config or manifest"))
	} else if !token.IsIdentifier(g.Package) {
		errs = append(errs, NewConfigError("Package", g.Package, "package must be a valid Go identifier"))
	}
	if err := WithFeatureNames(m.Features...)(g.Config); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func newKind(r *load.Resource) (*Kind, error) {
	invalid := func(field string, value any, format string, args ...any) error {
		return &ValidationError{
			Resource: r.Name,
			Field:    field,
			Value:    value,
			Line:     r.Line,
			Message:  fmt.Sprintf(format, args...),
		}
	}
	if strings.TrimSpace(r.Name) == "" {
		return nil, invalid("name", nil, "name is required")
	}
	k := &Kind{
		Name: KindName(r.Name),
		Doc:  strings.TrimSpace(r.Doc),
		Line: r.Line,
	}
	if !token.IsIdentifier(k.Name) || !token.IsExported(k.Name) {
		return nil, invalid("name", r.Name, "%q does not give an exported Go identifier", k.Name)
	}
	if reserved[k.Name] || strings.HasSuffix(inflect.Underscore(k.Name), "_test") {
		return nil, invalid("name", r.Name, "%q is reserved", k.Name)
	}
	k.Label = KindLabel(k.Name)

	var errs []error
	switch q, err := ParseQualified(r.Handle); {
	case r.Handle == "":
		errs = append(errs, invalid("handle", nil, "handle type is required"))
	case err != nil:
		errs = append(errs, invalid("handle", r.Handle, "%v", err))
	default:
		k.Handle = q
	}
	switch q, err := ParseQualified(r.Release); {
	case r.Release == "":
		errs = append(errs, invalid("release", nil, "release function is required"))
	case err != nil:
		errs = append(errs, invalid("release", r.Release, "%v", err))
	default:
		k.Release = q
	}
	if r.Bound() {
		q, err := ParseQualified(r.Binding)
		if err != nil {
			errs = append(errs, invalid("binding", r.Binding, "%v", err))
		} else {
			k.Binding = &q
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return k, nil
}
