package clause

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Registry maps routine ids to the clause ids they implement.
// It is written during package initialisation and read afterwards.
type Registry struct {
	mu       sync.RWMutex
	db       *Database
	routines map[string][]string
	order    []string
	// unresolved holds routine -> clause ids missing from the database
	unresolved map[string][]string
	strict     bool
	sealed     bool
	logger     *slog.Logger
}

// Option configures a Registry
type Option func(*Registry)

// Strict makes registration of an unknown clause id panic instead of warn
func Strict() Option {
	return func(r *Registry) { r.strict = true }
}

// WithLogger sets the logger used for unknown-clause warnings.
// The default is slog.Default() at the time of the warning.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry creates an empty registry over db
func NewRegistry(db *Database, opts ...Option) *Registry {
	r := &Registry{
		db:         db,
		routines:   make(map[string][]string),
		unresolved: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register binds routine to the given clause ids. Registering the same
// routine twice appends ids that are not already present.
//
// An id missing from the database is logged as a warning and recorded;
// a strict registry panics instead. Registering after Seal panics.
func (r *Registry) Register(routine string, ids ...string) {
	if routine == "" || len(ids) == 0 {
		panic("clause: Register needs a routine id and at least one clause id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		panic(fmt.Sprintf("clause: Register(%q) after registry was sealed", routine))
	}

	if _, seen := r.routines[routine]; !seen {
		r.order = append(r.order, routine)
	}
	for _, id := range ids {
		if contains(r.routines[routine], id) {
			continue
		}
		r.routines[routine] = append(r.routines[routine], id)

		if !r.db.Has(id) {
			if r.strict {
				panic(fmt.Sprintf("clause: routine %q references unknown clause %q", routine, id))
			}
			r.unresolved[routine] = append(r.unresolved[routine], id)
			r.log().Warn("routine references clause missing from database",
				"routine", routine,
				"clause", id)
		}
	}
}

func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

// Seal stops further registration
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether Seal was called
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Database returns the clause database behind the registry
func (r *Registry) Database() *Database {
	return r.db
}

// Refs returns the clause ids registered for routine, or nil if none
func (r *Registry) Refs(routine string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.routines[routine]
	if len(ids) == 0 {
		return nil
	}
	return append([]string(nil), ids...)
}

// References resolves the clause ids of routine against the database.
// Unknown ids are skipped.
func (r *Registry) References(routine string) []Reference {
	var out []Reference
	for _, id := range r.Refs(routine) {
		if ref, err := r.db.Clause(id); err == nil {
			out = append(out, ref)
		}
	}
	return out
}

// Routines lists registered routine ids in registration order
func (r *Registry) Routines() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// ImplementedBy returns the routines registered against clause id, sorted
func (r *Registry) ImplementedBy(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for routine, ids := range r.routines {
		if contains(ids, id) {
			out = append(out, routine)
		}
	}
	sort.Strings(out)
	return out
}

// Verify returns an UnresolvedClausesError when any registered id is
// missing from the database
func (r *Registry) Verify() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.unresolved) == 0 {
		return nil
	}
	e := &UnresolvedClausesError{Missing: make(map[string][]string, len(r.unresolved))}
	for k, v := range r.unresolved {
		e.Missing[k] = append([]string(nil), v...)
	}
	return e
}

// UnresolvedClausesError lists routines whose clause ids are not in the database
type UnresolvedClausesError struct {
	Missing map[string][]string
}

func (e *UnresolvedClausesError) Error() string {
	routines := make([]string, 0, len(e.Missing))
	for k := range e.Missing {
		routines = append(routines, k)
	}
	sort.Strings(routines)

	parts := make([]string, len(routines))
	for i, k := range routines {
		parts[i] = fmt.Sprintf("%s -> %s", k, strings.Join(e.Missing[k], ","))
	}
	return "unresolved clause references: " + strings.Join(parts, "; ")
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry used by the code packages
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(DefaultDatabase())
	})
	return defaultRegistry
}

// Register records routine against ids in the default registry
func Register(routine string, ids ...string) {
	Default().Register(routine, ids...)
}

// Refs returns the clause ids of routine in the default registry
func Refs(routine string) []string {
	return Default().Refs(routine)
}

// Lookup returns the clause record for id from the embedded database
func Lookup(id string) (Reference, error) {
	return DefaultDatabase().Clause(id)
}

// Search runs a keyword search over the embedded database
func Search(keyword string) []Reference {
	return DefaultDatabase().Search(keyword)
}

// ByCategory lists clauses of one category from the embedded database
func ByCategory(c Category) []Reference {
	return DefaultDatabase().ByCategory(c)
}
