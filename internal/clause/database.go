// Package clause holds the design-code clause database and the registry
// that binds calculation routines to the clauses that justify them.
//
// Routines register their clause ids from init() in the package that
// implements them. Lookups after start-up are read-only.
package clause

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Category groups clauses by the design check they serve
type Category string

const (
	Flexure        Category = "flexure"
	Shear          Category = "shear"
	Torsion        Category = "torsion"
	Detailing      Category = "detailing"
	Serviceability Category = "serviceability"
	Material       Category = "material"
	Ductile        Category = "ductile"
	Loads          Category = "loads"
)

// Reference is one clause record
type Reference struct {
	ID       string   `json:"id" yaml:"id"`
	Code     string   `json:"code" yaml:"-"`
	Title    string   `json:"title" yaml:"title"`
	Category Category `json:"category" yaml:"category"`
	Formula  string   `json:"formula,omitempty" yaml:"formula"`
	Tables   []string `json:"tables,omitempty" yaml:"tables"`
	Figures  []string `json:"figures,omitempty" yaml:"figures"`
}

func (r Reference) String() string {
	return fmt.Sprintf("%s %s", r.ID, r.Title)
}

// Standard names one published document covered by the database
type Standard struct {
	Code  string `json:"code" yaml:"code"`
	Title string `json:"title" yaml:"standard"`
}

// file is the on-disk layout of one data/*.yaml document
type file struct {
	Code     string      `yaml:"code"`
	Standard string      `yaml:"standard"`
	Clauses  []Reference `yaml:"clauses"`
}

// Database is an immutable, ordered set of clause records
type Database struct {
	standards []Standard
	order     []string
	byID      map[string]Reference
}

//go:embed data/*.yaml
var dataFS embed.FS

var (
	defaultDB     *Database
	defaultDBErr  error
	defaultDBOnce sync.Once
)

// DefaultDatabase returns the embedded clause database, loading it on first use.
// A malformed embedded file is a build defect and panics.
func DefaultDatabase() *Database {
	defaultDBOnce.Do(func() {
		defaultDB, defaultDBErr = Load(dataFS, "data")
	})
	if defaultDBErr != nil {
		panic(defaultDBErr)
	}
	return defaultDB
}

// Load reads every *.yaml file in dir of fsys. Files are read in name order
// and clauses keep their file order, so iteration is deterministic.
func Load(fsys fs.FS, dir string) (*Database, error) {
	names, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing clause files: %w", err)
	}
	sort.Strings(names)

	db := &Database{byID: make(map[string]Reference)}
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if err := db.add(name, raw); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func (db *Database) add(name string, raw []byte) error {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	if f.Code == "" {
		return fmt.Errorf("%s: missing code", name)
	}
	db.standards = append(db.standards, Standard{Code: f.Code, Title: f.Standard})

	for i, ref := range f.Clauses {
		if ref.ID == "" {
			return fmt.Errorf("%s: clause %d has no id", name, i)
		}
		if _, dup := db.byID[ref.ID]; dup {
			return fmt.Errorf("%s: duplicate clause id %q", name, ref.ID)
		}
		ref.Code = f.Code
		db.byID[ref.ID] = ref
		db.order = append(db.order, ref.ID)
	}
	return nil
}

// Len returns the number of clauses
func (db *Database) Len() int {
	return len(db.order)
}

// Standards lists the documents loaded, in load order
func (db *Database) Standards() []Standard {
	return append([]Standard(nil), db.standards...)
}

// Has reports whether id is a known clause
func (db *Database) Has(id string) bool {
	_, ok := db.byID[id]
	return ok
}

// Clause returns the record for id
func (db *Database) Clause(id string) (Reference, error) {
	ref, ok := db.byID[id]
	if !ok {
		return Reference{}, &UnknownClauseError{ID: id}
	}
	return ref, nil
}

// ByCategory returns every clause in category c in database order
func (db *Database) ByCategory(c Category) []Reference {
	var out []Reference
	for _, id := range db.order {
		if ref := db.byID[id]; ref.Category == c {
			out = append(out, ref)
		}
	}
	return out
}

// ByCode returns every clause of one standard (e.g. "IS456")
func (db *Database) ByCode(code string) []Reference {
	var out []Reference
	for _, id := range db.order {
		if ref := db.byID[id]; strings.EqualFold(ref.Code, code) {
			out = append(out, ref)
		}
	}
	return out
}

// Search returns clauses whose title or formula contains every word of
// keyword, compared case-insensitively. An empty keyword matches nothing.
func (db *Database) Search(keyword string) []Reference {
	terms := strings.Fields(strings.ToLower(keyword))
	if len(terms) == 0 {
		return nil
	}

	var out []Reference
	for _, id := range db.order {
		ref := db.byID[id]
		text := strings.ToLower(ref.Title + " " + ref.Formula)
		match := true
		for _, t := range terms {
			if !strings.Contains(text, t) {
				match = false
				break
			}
		}
		if match {
			out = append(out, ref)
		}
	}
	return out
}

// UnknownClauseError is returned when a clause id is not in the database
type UnknownClauseError struct {
	ID string
}

func (e *UnknownClauseError) Error() string {
	return fmt.Sprintf("unknown clause %q", e.ID)
}
