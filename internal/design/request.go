package design

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/rcbeam/internal/material"
)

// Request is one beam to design
type Request struct {
	Label string `json:"label,omitempty" yaml:"label"`
	Code  string `json:"code" yaml:"code"`

	Section      material.SectionGeometry `json:"section" yaml:"section" validate:"-"`
	Concrete     string                   `json:"concrete" yaml:"concrete" validate:"required"`
	Steel        string                   `json:"steel" yaml:"steel" validate:"required"`
	StirrupSteel string                   `json:"stirrup_steel,omitempty" yaml:"stirrup_steel"`

	// Factored demands; when empty, Loads are factored with the code's combinations
	Demands []material.ForceDemand `json:"demands,omitempty" yaml:"demands" validate:"dive"`
	Loads   *material.LoadEffects  `json:"loads,omitempty" yaml:"loads"`

	Span           Span                  `json:"span" yaml:"span"`
	Detailing      DetailingOptions      `json:"detailing" yaml:"detailing"`
	Serviceability ServiceabilityOptions `json:"serviceability" yaml:"serviceability"`
}

// Span describes the member between supports
type Span struct {
	Length  float64          `json:"length_mm" yaml:"length_mm" validate:"gte=0"` // effective span
	Support material.Support `json:"support" yaml:"support"`
}

// DetailingOptions are the detailer's choices
type DetailingOptions struct {
	BarDiameter     float64   `json:"bar_diameter_mm,omitempty" yaml:"bar_diameter_mm" validate:"gte=0"`
	StirrupDiameter float64   `json:"stirrup_diameter_mm,omitempty" yaml:"stirrup_diameter_mm" validate:"gte=0"`
	StirrupLegs     int       `json:"stirrup_legs,omitempty" yaml:"stirrup_legs" validate:"gte=0"`
	Hook            HookAngle `json:"hook_deg,omitempty" yaml:"hook_deg"`
	Aggregate       float64   `json:"aggregate_mm,omitempty" yaml:"aggregate_mm" validate:"gte=0"`
	Ductile         bool      `json:"ductile" yaml:"ductile"`
	CriticalSection bool      `json:"critical_section" yaml:"critical_section"`
	TopBars         bool      `json:"top_bars" yaml:"top_bars"`
}

// ServiceabilityOptions select and parameterise serviceability checks
type ServiceabilityOptions struct {
	Levels            []Level `json:"levels,omitempty" yaml:"levels"`
	ServiceMoment     float64 `json:"service_moment_knm,omitempty" yaml:"service_moment_knm" validate:"gte=0"`
	SustainedFraction float64 `json:"sustained_fraction,omitempty" yaml:"sustained_fraction" validate:"gte=0,lte=1"`
	LoadingAge        float64 `json:"loading_age_days,omitempty" yaml:"loading_age_days" validate:"gte=0"`
	Duration          float64 `json:"duration_days,omitempty" yaml:"duration_days" validate:"gte=0"`
	Humidity          float64 `json:"humidity_pct,omitempty" yaml:"humidity_pct" validate:"gte=0,lte=100"`
}

// Defaults applied by WithDefaults
const (
	DefaultAggregate         = 20.0
	DefaultStirrupLegs       = 2
	DefaultSustainedFraction = 0.6
	DefaultLoadingAge        = 28.0
	DefaultDuration          = 1825.0
	DefaultHumidity          = 70.0
)

// WithDefaults fills unset optional fields. code is used when the request
// names none.
func (r Request) WithDefaults(code string) Request {
	if strings.TrimSpace(r.Code) == "" {
		r.Code = code
	}
	if r.StirrupSteel == "" {
		r.StirrupSteel = r.Steel
	}
	if r.Span.Support == "" {
		r.Span.Support = material.SimplySupported
	}

	d := &r.Detailing
	if d.Aggregate == 0 {
		d.Aggregate = DefaultAggregate
	}
	if d.StirrupLegs == 0 {
		d.StirrupLegs = DefaultStirrupLegs
	}
	if d.Hook == 0 {
		d.Hook = Hook90
	}

	s := &r.Serviceability
	if len(s.Levels) == 0 && r.Span.Length > 0 {
		s.Levels = []Level{Basic}
	}
	if s.SustainedFraction == 0 {
		s.SustainedFraction = DefaultSustainedFraction
	}
	if s.LoadingAge == 0 {
		s.LoadingAge = DefaultLoadingAge
	}
	if s.Duration == 0 {
		s.Duration = DefaultDuration
	}
	if s.Humidity == 0 {
		s.Humidity = DefaultHumidity
	}
	return r
}

// Validate checks the request shape. Grade names are checked later by the
// selected code's MaterialFactory.
func (r Request) Validate() []Issue {
	var issues []Issue

	if strings.TrimSpace(r.Code) == "" {
		issues = append(issues, Issue{Code: CodeInvalidInput, Severity: Error, Field: "code", Message: "is required", Hint: "name a registered design code such as IS456"})
	}
	issues = append(issues, FieldIssues(material.StructErrors(r))...)
	if _, err := material.NewSection(r.Section); err != nil {
		for _, i := range FieldIssues(material.AsFieldErrors(err)) {
			i.Field = "section." + i.Field
			issues = append(issues, i)
		}
	}

	if len(r.Demands) == 0 && (r.Loads == nil || r.Loads.IsZero()) {
		issues = append(issues, Issue{
			Code: CodeInvalidInput, Severity: Error, Field: "demands",
			Message: "at least one force demand is required",
			Hint:    "give factored demands, or unfactored loads to be combined",
		})
	}
	if !r.Span.Support.Valid() && r.Span.Support != "" {
		issues = append(issues, Issue{
			Code: CodeInvalidInput, Severity: Error, Field: "span.support",
			Message: fmt.Sprintf("unknown support condition %q", r.Span.Support),
			Hint:    "use simply_supported, one_end_continuous, both_ends_continuous or cantilever",
		})
	}
	if r.Detailing.BarDiameter > 0 && !material.IsCatalogueBar(r.Detailing.BarDiameter) {
		issues = append(issues, Issue{
			Code: CodeInvalidInput, Severity: Error, Field: "detailing.bar_diameter_mm",
			Message: fmt.Sprintf("%.0f mm is not a stocked bar diameter", r.Detailing.BarDiameter),
			Hint:    fmt.Sprintf("use one of %v", material.BarDiameters),
		})
	}
	if r.Detailing.StirrupDiameter > 0 && !material.IsCatalogueBar(r.Detailing.StirrupDiameter) {
		issues = append(issues, Issue{
			Code: CodeInvalidInput, Severity: Error, Field: "detailing.stirrup_diameter_mm",
			Message: fmt.Sprintf("%.0f mm is not a stocked bar diameter", r.Detailing.StirrupDiameter),
		})
	}
	if r.Detailing.Hook != 0 && !r.Detailing.Hook.Valid() {
		issues = append(issues, Issue{
			Code: CodeInvalidInput, Severity: Error, Field: "detailing.hook_deg",
			Message: fmt.Sprintf("%d is not a standard hook angle", r.Detailing.Hook),
			Hint:    "use 90, 135 or 180",
		})
	}
	for i, l := range r.Serviceability.Levels {
		if !l.Valid() {
			issues = append(issues, Issue{
				Code: CodeInvalidInput, Severity: Error, Field: fmt.Sprintf("serviceability.levels[%d]", i),
				Message: fmt.Sprintf("unknown serviceability level %q", l),
				Hint:    "use basic, intermediate, advanced or crack",
			})
		}
	}
	if len(r.Serviceability.Levels) > 0 && r.Span.Length <= 0 {
		issues = append(issues, Issue{
			Code: CodeInvalidInput, Severity: Error, Field: "span.length_mm",
			Message: "serviceability checks need the span",
		})
	}
	return issues
}

// LoadRequests reads one request or a list of requests from a YAML or JSON file
func LoadRequests(path string) ([]Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	reqs, err := ParseRequests(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reqs, nil
}

// ParseRequests decodes one request or a list of requests
func ParseRequests(data []byte, isJSON bool) ([]Request, error) {
	if isJSON {
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var reqs []Request
			if err := json.Unmarshal(trimmed, &reqs); err != nil {
				return nil, fmt.Errorf("failed to parse JSON: %w", err)
			}
			return reqs, nil
		}
		var req Request
		if err := json.Unmarshal(trimmed, &req); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return []Request{req}, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, fmt.Errorf("empty request document")
	}
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var reqs []Request
		if err := root.Decode(&reqs); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		return reqs, nil
	}
	var req Request
	if err := root.Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return []Request{req}, nil
}
