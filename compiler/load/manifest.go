// Package load reads thinwrap manifests: YAML documents that describe which
// foreign handle kinds should get generated ownership wrappers.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest represents a manifest file loaded from disk.
type Manifest struct {
	// Path of the file the manifest was loaded from. Empty for Parse.
	Path string `yaml:"-"`
	// Package is the name of the generated Go package.
	Package string `yaml:"package,omitempty"`
	// Header replaces the default generated-code header.
	Header string `yaml:"header,omitempty"`
	// Features lists optional codegen features by name.
	Features StringList `yaml:"features,omitempty"`
	// Resources lists the handle kinds to wrap.
	Resources []*Resource `yaml:"resources"`
}

// Resource describes a single handle kind.
//
// Handle, Release and Binding are qualified Go names of the form
// "import/path.Name", for example "github.com/x/ffi.UnloadImage".
type Resource struct {
	Name    string `yaml:"name"`
	Handle  string `yaml:"handle"`
	Release string `yaml:"release"`
	Binding string `yaml:"binding,omitempty"`
	Doc     string `yaml:"doc,omitempty"`
	// Line is the 1-based line of the resource entry in its source.
	Line int `yaml:"-"`
}

// Bound reports whether the resource is tied to a binding context.
func (r *Resource) Bound() bool {
	return r.Binding != ""
}

// StringList is a YAML value that can be either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler for StringList.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// ErrEmpty is returned for a manifest without any document.
var ErrEmpty = errors.New("load: empty manifest")

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse decodes a manifest. Unknown keys are rejected.
func Parse(buf []byte) (*Manifest, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, err
	}
	m := &Manifest{}
	dec = yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil {
		return nil, err
	}
	lines := resourceLines(&doc)
	for i, r := range m.Resources {
		if r == nil {
			return nil, fmt.Errorf("resource %d is empty", i)
		}
		if i < len(lines) {
			r.Line = lines[i]
		}
	}
	return m, nil
}

// Marshal encodes m back to YAML.
func Marshal(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// resourceLines returns the source line of every entry of the top-level
// "resources" sequence.
func resourceLines(doc *yaml.Node) []int {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "resources" {
			continue
		}
		seq := root.Content[i+1]
		lines := make([]int, len(seq.Content))
		for j, n := range seq.Content {
			lines[j] = n.Line
		}
		return lines
	}
	return nil
}
