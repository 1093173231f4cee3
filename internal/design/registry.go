package design

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps code names to implementations. Codes register themselves
// from init(); the engine seals the registry before serving requests.
type Registry struct {
	mu     sync.RWMutex
	codes  map[string]Code
	sealed bool
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{codes: make(map[string]Code)}
}

// Register stores c under name. Names are case-insensitive.
// A code with a nil capability is a programming error and panics.
func (r *Registry) Register(name string, c Code) error {
	if c == nil {
		panic(fmt.Sprintf("design: Register(%q) with nil code", name))
	}
	if missing := missingCapabilities(c); len(missing) > 0 {
		panic(fmt.Sprintf("design: code %q is missing capabilities %v", name, missing))
	}

	key := normalise(name)
	if key == "" {
		panic("design: Register with empty code name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		panic(fmt.Sprintf("design: Register(%q) after registry was sealed", name))
	}
	if _, dup := r.codes[key]; dup {
		return &DuplicateCodeError{Name: name}
	}
	r.codes[key] = c
	return nil
}

// MustRegister is Register for init() functions
func (r *Registry) MustRegister(name string, c Code) {
	if err := r.Register(name, c); err != nil {
		panic(err)
	}
}

// Get returns the code registered under name
func (r *Registry) Get(name string) (Code, error) {
	r.mu.RLock()
	c, ok := r.codes[normalise(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownCodeError{Name: name, Available: r.Names()}
	}
	return c, nil
}

// Names lists registered names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.codes))
	for k := range r.codes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Seal stops further registration
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

func normalise(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide code registry
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register stores c in the default registry
func Register(name string, c Code) error {
	return defaultRegistry.Register(name, c)
}

// MustRegister stores c in the default registry and panics on collision
func MustRegister(name string, c Code) {
	defaultRegistry.MustRegister(name, c)
}

// Get looks up name in the default registry
func Get(name string) (Code, error) {
	return defaultRegistry.Get(name)
}

// Names lists the codes in the default registry
func Names() []string {
	return defaultRegistry.Names()
}
