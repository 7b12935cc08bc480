package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the on-disk type catalog: which host types are in scope, in order,
// optionally narrowed to a set of operation names.
type File struct {
	Types []Entry `yaml:"types"`
}

// Entry selects one host type.
type Entry struct {
	Name       string   `yaml:"name"`
	Operations []string `yaml:"operations,omitempty"`
}

// Target is one resolved catalog entry.
type Target struct {
	Type       *TypeInfo
	Operations []*Operation
}

// LoadFile parses the YAML catalog at path.
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML catalog document.
func Parse(raw []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, e := range f.Types {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog entry %d is missing a name", i)
		}
		f.Types[i].Name = name
	}
	return &f, nil
}

// All builds a catalog covering every registered type.
func All(r *Registry) *File {
	f := &File{}
	for _, t := range r.Types() {
		f.Types = append(f.Types, Entry{Name: t.Name})
	}
	return f
}

// Filter keeps only the named types (case-insensitive). An empty filter keeps all.
func (f *File) Filter(names []string) *File {
	if len(names) == 0 {
		return f
	}
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			keep[strings.ToLower(n)] = true
		}
	}
	out := &File{}
	for _, e := range f.Types {
		if keep[strings.ToLower(e.Name)] {
			out.Types = append(out.Types, e)
		}
	}
	return out
}

// Discover resolves the catalog against the registry. Unknown types are an
// error; unknown operation names are returned as warnings and skipped.
func Discover(r *Registry, f *File) ([]Target, []string, error) {
	var (
		targets  []Target
		warnings []string
	)
	for _, e := range f.Types {
		t, ok := r.Type(e.Name)
		if !ok {
			return nil, warnings, fmt.Errorf("catalog type %q is not registered", e.Name)
		}
		target := Target{Type: t}
		if len(e.Operations) == 0 {
			target.Operations = t.Operations()
		} else {
			wanted := make(map[string]bool, len(e.Operations))
			for _, n := range e.Operations {
				wanted[n] = true
				if _, ok := t.Operation(n); !ok {
					warnings = append(warnings, fmt.Sprintf("%s.%s is not registered", t.Name, n))
				}
			}
			for _, op := range t.Operations() {
				if wanted[op.Name] {
					target.Operations = append(target.Operations, op)
				}
			}
		}
		targets = append(targets, target)
	}
	return targets, warnings, nil
}
