package clause

// Traceable is implemented by results that record the routines they ran
type Traceable interface {
	TraceRoutines() []string
}

// TraceEntry is one routine and the clauses behind it
type TraceEntry struct {
	Routine string      `json:"routine"`
	Clauses []Reference `json:"clauses"`
}

// TraceReport is a clause-by-clause audit trail for one design case
type TraceReport struct {
	Entries []TraceEntry `json:"entries"`
	// Unregistered lists routines that ran but have no clause binding
	Unregistered []string `json:"unregistered,omitempty"`
}

// Clauses returns the distinct clauses cited by the report in first-use order
func (t TraceReport) Clauses() []Reference {
	seen := make(map[string]bool)
	var out []Reference
	for _, e := range t.Entries {
		for _, c := range e.Clauses {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, c)
		}
	}
	return out
}

// Report walks the routine ids recorded by t in call order and resolves
// each against the registry. Repeated routines are reported once.
func (r *Registry) Report(t Traceable) TraceReport {
	var rep TraceReport
	seen := make(map[string]bool)
	for _, routine := range t.TraceRoutines() {
		if seen[routine] {
			continue
		}
		seen[routine] = true

		refs := r.References(routine)
		if len(refs) == 0 {
			rep.Unregistered = append(rep.Unregistered, routine)
			continue
		}
		rep.Entries = append(rep.Entries, TraceEntry{Routine: routine, Clauses: refs})
	}
	return rep
}

// Trace is a plain list of routine ids satisfying Traceable
type Trace []string

// TraceRoutines implements Traceable
func (t Trace) TraceRoutines() []string {
	return t
}
