// Package posttype keeps the set of content types the platform knows about.
package posttype

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"urlexport/internal/model"
)

// Builtins mirrors the types every site registers out of the box.
var Builtins = []model.PostType{
	{Name: "post", Label: "Posts", Public: true},
	{Name: "page", Label: "Pages", Public: true, Hierarchical: true},
	{Name: model.TypeAttachment, Label: "Media", Public: true},
	{Name: "revision", Label: "Revisions"},
	{Name: "nav_menu_item", Label: "Navigation Menu Items"},
	{Name: "wp_block", Label: "Reusable Blocks"},
}

// Registry is an ordered set of post types. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	order []string
	types map[string]model.PostType
}

// NewRegistry returns a registry holding the given types in order.
func NewRegistry(types ...model.PostType) *Registry {
	r := &Registry{types: make(map[string]model.PostType)}
	for _, t := range types {
		r.Register(t)
	}
	return r
}

// Register adds a type, or replaces an existing one in place.
func (r *Registry) Register(t model.PostType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[t.Name]; !ok {
		r.order = append(r.order, t.Name)
	}
	r.types[t.Name] = t
}

// Get looks a type up by name.
func (r *Registry) Get(name string) (model.PostType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// PublicNames returns the names of public types in registration order.
func (r *Registry) PublicNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.order))
	for _, n := range r.order {
		if r.types[n].Public {
			names = append(names, n)
		}
	}
	return names
}

type fileFormat struct {
	PostTypes []model.PostType `yaml:"post_types"`
}

// LoadFile builds a registry from the built-ins plus the types declared in a YAML file:
//
//	post_types:
//	  - name: book
//	    label: Books
//	    public: true
//	    rewrite: library
//
// An empty path yields the built-ins only.
func LoadFile(path string) (*Registry, error) {
	r := NewRegistry(Builtins...)
	if path == "" {
		return r, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read post types file: %w", err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse post types file: %w", err)
	}
	for i, t := range f.PostTypes {
		if t.Name == "" {
			return nil, fmt.Errorf("post type #%d: name is required", i+1)
		}
		if len(t.Name) > 20 {
			return nil, fmt.Errorf("post type %q: name exceeds 20 characters", t.Name)
		}
		r.Register(t)
	}
	return r, nil
}
