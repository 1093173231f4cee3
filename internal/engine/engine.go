// Package engine runs the design pipeline for a request: flexure, shear,
// detailing, serviceability and compliance, once per load case.
package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alexiusacademia/rcbeam/internal/clause"
	"github.com/alexiusacademia/rcbeam/internal/compliance"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/detailing"
	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/serviceability"
	"github.com/alexiusacademia/rcbeam/internal/version"
)

// DefaultCode is used when neither the request nor the engine names a code
const DefaultCode = "IS456"

// resultNamespace seeds the name-based result ids
var resultNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/alexiusacademia/rcbeam/result"))

// Engine designs beams against the registered codes. It is safe for
// concurrent use once constructed.
type Engine struct {
	codes       *design.Registry
	clauses     *clause.Registry
	logger      *slog.Logger
	workers     int
	defaultCode string
	strict      bool
	metrics     *Metrics
}

// Option configures an Engine
type Option func(*Engine)

// WithCodes replaces the default code registry
func WithCodes(r *design.Registry) Option {
	return func(e *Engine) { e.codes = r }
}

// WithClauses replaces the default clause registry
func WithClauses(r *clause.Registry) Option {
	return func(e *Engine) { e.clauses = r }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithWorkers bounds batch concurrency. Zero or less means one per request.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithDefaultCode sets the code for requests that name none
func WithDefaultCode(name string) Option {
	return func(e *Engine) { e.defaultCode = name }
}

// WithStrictClauses makes New fail when a routine cites a clause id that
// is missing from the clause database
func WithStrictClauses(strict bool) Option {
	return func(e *Engine) { e.strict = strict }
}

// New builds an engine and seals the code and clause registries
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		codes:       design.DefaultRegistry(),
		clauses:     clause.Default(),
		logger:      slog.Default(),
		defaultCode: DefaultCode,
	}
	for _, opt := range opts {
		opt(e)
	}
	if _, err := e.codes.Get(e.defaultCode); err != nil {
		return nil, fmt.Errorf("default code: %w", err)
	}
	if e.strict {
		if err := e.clauses.Verify(); err != nil {
			return nil, err
		}
	}
	e.codes.Seal()
	e.clauses.Seal()
	e.metrics = newMetrics()

	e.logger.Debug("engine ready",
		"codes", e.codes.Names(),
		"routines", len(e.clauses.Routines()),
		"default_code", e.defaultCode,
		"strict_clauses", e.strict)
	return e, nil
}

// Metrics returns the engine's collectors
func (e *Engine) Metrics() *Metrics { return e.metrics }

// Codes returns the code registry
func (e *Engine) Codes() *design.Registry { return e.codes }

// Clauses returns the clause registry
func (e *Engine) Clauses() *clause.Registry { return e.clauses }

// DefaultCode returns the code used for requests that name none
func (e *Engine) DefaultCode() string { return e.defaultCode }

// Trace returns the clause report for a result
func (e *Engine) Trace(r *design.Result) clause.TraceReport {
	return e.clauses.Report(r)
}

// ResultID is the deterministic id of a request after defaults are applied
func ResultID(req design.Request) string {
	data, err := json.Marshal(req)
	if err != nil {
		// Request holds only plain values
		panic(fmt.Sprintf("engine: marshal request: %v", err))
	}
	return uuid.NewSHA1(resultNamespace, data).String()
}

// Design runs the pipeline for one request. The error is non-nil only for
// an unknown code; invalid and infeasible designs are reported in the
// result's status and issues.
func (e *Engine) Design(req design.Request) (*design.Result, error) {
	start := time.Now()
	req = req.WithDefaults(e.defaultCode)

	code, err := e.codes.Get(req.Code)
	if err != nil {
		e.metrics.designs.WithLabelValues("unknown", "error").Inc()
		return nil, err
	}
	name := code.Name()

	res := &design.Result{
		SchemaVersion: design.SchemaVersion,
		ID:            ResultID(req),
		Label:         req.Label,
		Code:          name,
		Units:         design.DefaultUnits,
		Section:       req.Section,
		EngineVersion: version.Version,
	}
	e.run(code, req, res)

	elapsed := time.Since(start)
	e.metrics.designs.WithLabelValues(name, string(res.Status)).Inc()
	e.metrics.duration.WithLabelValues(name).Observe(elapsed.Seconds())
	if n := clamps(res); n > 0 {
		e.metrics.clamps.WithLabelValues(name).Add(float64(n))
	}
	e.logger.Debug("design complete",
		"id", res.ID,
		"label", res.Label,
		"code", name,
		"status", res.Status,
		"cases", len(res.Cases),
		"utilisation", res.Utilisation,
		"duration", elapsed)
	return res, nil
}

func (e *Engine) run(code design.Code, req design.Request, res *design.Result) {
	if res.Issues = req.Validate(); design.HasErrors(res.Issues) {
		res.Status = design.StatusInvalid
		return
	}

	sec, err := material.NewSection(req.Section)
	if err != nil {
		res.Issues = append(res.Issues, design.FieldIssues(material.AsFieldErrors(err))...)
		res.Status = design.StatusInvalid
		return
	}
	res.Section = sec

	grades, err := code.Materials().Grades(req.Concrete, req.Steel)
	if err != nil {
		res.Issues = append(res.Issues, gradeIssues(err)...)
		res.Status = design.StatusInvalid
		return
	}
	res.Materials = grades

	stirrupFy := grades.Fy
	if req.StirrupSteel != req.Steel {
		sg, err := code.Materials().Grades(req.Concrete, req.StirrupSteel)
		if err != nil {
			for _, i := range gradeIssues(err) {
				i.Field = "stirrup_steel"
				res.Issues = append(res.Issues, i)
			}
			res.Status = design.StatusInvalid
			return
		}
		stirrupFy = sg.Fy
	}

	demands, issues := e.demands(code, req)
	res.Issues = append(res.Issues, issues...)
	if design.HasErrors(issues) {
		res.Status = design.StatusInvalid
		return
	}

	p := pipeline{code: code, req: req, section: sec, grades: grades, stirrupFy: stirrupFy}
	res.Cases = make([]design.CaseResult, 0, len(demands))
	for i, d := range demands {
		if d.Name == "" {
			d.Name = fmt.Sprintf("case %d", i+1)
		}
		res.Cases = append(res.Cases, p.run(d))
	}
	summarise(res)
}

// demands returns the request's factored demands, or expands its loads
// with the code's combinations
func (e *Engine) demands(code design.Code, req design.Request) ([]material.ForceDemand, []design.Issue) {
	if len(req.Demands) > 0 {
		return req.Demands, nil
	}
	lc, ok := code.(design.LoadCombiner)
	if !ok {
		return nil, []design.Issue{{
			Code: design.CodeInvalidInput, Severity: design.Error, Field: "loads",
			Message: fmt.Sprintf("%s has no load combinations", code.Name()),
			Hint:    "give factored demands instead",
		}}
	}
	combos := lc.Combinations()
	out := design.Expand(*req.Loads, combos)
	if len(out) == 0 {
		return nil, []design.Issue{{
			Code: design.CodeInvalidInput, Severity: design.Error, Field: "loads",
			Message: "load combinations produce no demand",
		}}
	}
	clauseID := ""
	if len(combos) > 0 {
		clauseID = combos[0].Clause
	}
	return out, []design.Issue{{
		Code: design.CodeLoads, Severity: design.Info, Field: "loads", Clause: clauseID,
		Message: fmt.Sprintf("%d load combinations expanded from unfactored loads", len(out)),
	}}
}

// pipeline holds what every case of one request shares
type pipeline struct {
	code      design.Code
	req       design.Request
	section   material.SectionGeometry
	grades    material.Grades
	stirrupFy float64
}

func (p pipeline) run(d material.ForceDemand) design.CaseResult {
	req := p.req
	opt := req.Detailing

	fr := p.code.Flexure().Design(design.FlexureInput{
		Section: p.section,
		Grades:  p.grades,
		Demand:  d,
		Span:    req.Span.Length,
		Support: req.Span.Support,
	})
	sr := p.code.Shear().Design(design.ShearInput{
		Section:     p.section,
		Grades:      p.grades,
		StirrupFy:   p.stirrupFy,
		Demand:      d,
		AstProvided: fr.AstRequired,
		Diameter:    opt.StirrupDiameter,
		Legs:        opt.StirrupLegs,
	})

	c := compliance.Case{Name: d.Name, Demand: d, Flexure: fr, Shear: sr}
	if fr.State == design.Infeasible {
		return compliance.Aggregate(c)
	}

	c.Detailing = detailing.Detail(p.code.Detailing(), detailing.Input{
		Section: p.section,
		Grades:  p.grades,
		Flexure: fr,
		Shear:   sr,
		Options: opt,
		Span:    req.Span.Length,
	})
	if len(req.Serviceability.Levels) > 0 {
		c.Serviceability = serviceability.CheckAll(p.code.Serviceability(), serviceability.Input{
			Section:     p.section,
			Grades:      p.grades,
			Span:        req.Span.Length,
			Support:     req.Span.Support,
			AstRequired: fr.AstRequired,
			AstProvided: c.Detailing.AstProvided,
			AscProvided: c.Detailing.AscProvided,
			Bars:        c.Detailing.Bars,
			Stirrup:     sr.Stirrup.Diameter,
			Moment:      fr.Moment,
			Options:     req.Serviceability,
		})
	}
	return compliance.Aggregate(c)
}

// summarise sets the result's governing check and status from its cases
func summarise(res *design.Result) {
	res.Status = design.StatusPass
	for i, c := range res.Cases {
		if i == 0 || c.Utilisation > res.Utilisation {
			res.Utilisation = c.Utilisation
			res.Governing = c.Name + ": " + c.Governing
		}
		switch {
		case !c.Feasible:
			res.Status = design.StatusInfeasible
		case !c.Pass && res.Status == design.StatusPass:
			res.Status = design.StatusFail
		}
	}
}

func gradeIssues(err error) []design.Issue {
	issues := design.FieldIssues(material.AsFieldErrors(err))
	for i := range issues {
		issues[i].Code = design.CodeUnknownGrade
	}
	return issues
}

func clamps(res *design.Result) int {
	n := 0
	for _, c := range res.Cases {
		for _, i := range c.Issues() {
			if i.Code == design.CodeTableClamped {
				n++
			}
		}
	}
	return n
}
