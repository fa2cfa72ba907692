package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-slicerform/pkg/schema"
)

// FormatAdapter normalizes a source document into Slicer XML.
type FormatAdapter interface {
	Name() string
	Detect(src schema.Source, raw []byte) bool
	Normalize(ctx context.Context, doc schema.Document) (schema.Document, error)
}

// AdapterRegistry stores format adapters by name.
type AdapterRegistry struct {
	mu       sync.RWMutex
	adapters map[string]FormatAdapter
}

// NewAdapterRegistry creates an empty adapter registry.
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{
		adapters: make(map[string]FormatAdapter),
	}
}

// DefaultAdapterRegistry returns a registry holding the XML and description
// adapters.
func DefaultAdapterRegistry() *AdapterRegistry {
	r := NewAdapterRegistry()
	r.MustRegister(XMLAdapter{})
	r.MustRegister(DescriptionAdapter{})
	return r
}

// Register adds an adapter by its Name(). Duplicate names return an error.
func (r *AdapterRegistry) Register(adapter FormatAdapter) error {
	if adapter == nil {
		return fmt.Errorf("orchestrator: adapter is required")
	}
	name := normalizeAdapterName(adapter.Name())
	if name == "" {
		return fmt.Errorf("orchestrator: adapter name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[name]; exists {
		return fmt.Errorf("orchestrator: adapter %q already registered", name)
	}

	r.adapters[name] = adapter
	return nil
}

// MustRegister panics on registration failure.
func (r *AdapterRegistry) MustRegister(adapter FormatAdapter) {
	if err := r.Register(adapter); err != nil {
		panic(err)
	}
}

// Get retrieves an adapter by name.
func (r *AdapterRegistry) Get(name string) (FormatAdapter, error) {
	key := normalizeAdapterName(name)
	if key == "" {
		return nil, fmt.Errorf("orchestrator: adapter name is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[key]
	if !ok {
		return nil, fmt.Errorf("orchestrator: adapter %q not found", key)
	}
	return adapter, nil
}

// List returns a sorted list of adapter names.
func (r *AdapterRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect returns all adapters that match the provided payload, ordered by
// name.
func (r *AdapterRegistry) Detect(src schema.Source, raw []byte) []FormatAdapter {
	if r == nil {
		return nil
	}
	var matches []FormatAdapter
	for _, name := range r.List() {
		r.mu.RLock()
		adapter := r.adapters[name]
		r.mu.RUnlock()
		if adapter != nil && adapter.Detect(src, raw) {
			matches = append(matches, adapter)
		}
	}
	return matches
}

func normalizeAdapterName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func adapterNames(adapters []FormatAdapter) string {
	names := make([]string, 0, len(adapters))
	for _, adapter := range adapters {
		names = append(names, adapter.Name())
	}
	return strings.Join(names, ", ")
}
