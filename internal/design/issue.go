package design

import (
	"fmt"
	"strings"

	"github.com/alexiusacademia/rcbeam/internal/material"
)

// Severity of an Issue
type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Issue codes
const (
	CodeInvalidInput   = "invalid_input"
	CodeUnknownGrade   = "unknown_grade"
	CodeInfeasible     = "infeasible"
	CodeTableClamped   = "table_clamped"
	CodeMinimumSteel   = "minimum_steel_governs"
	CodeBarLayout      = "bar_layout"
	CodeSpacing        = "spacing"
	CodeDuctile        = "ductile_detailing"
	CodeServiceability = "serviceability"
	CodeTorsion        = "torsion"
	CodeLoads          = "load_combination"
)

// Issue is a structured diagnostic attached to a result.
// Validation failures and infeasible designs are reported as issues
// rather than returned as Go errors so a batch can carry on.
type Issue struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Field    string   `json:"field,omitempty"`
	Hint     string   `json:"hint,omitempty"`
	Clause   string   `json:"clause,omitempty"`
}

func (i Issue) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", i.Severity, i.Message)
	if i.Field != "" {
		fmt.Fprintf(&b, " (field %s)", i.Field)
	}
	if i.Clause != "" {
		fmt.Fprintf(&b, " [%s]", i.Clause)
	}
	return b.String()
}

// Warn builds a warning issue
func Warn(code, clause, format string, args ...any) Issue {
	return Issue{Code: code, Severity: Warning, Message: fmt.Sprintf(format, args...), Clause: clause}
}

// InfeasibleIssue builds the error issue for a design that cannot satisfy the code
func InfeasibleIssue(clause, hint, format string, args ...any) Issue {
	return Issue{Code: CodeInfeasible, Severity: Error, Message: fmt.Sprintf(format, args...), Hint: hint, Clause: clause}
}

// FieldIssues converts material field errors into validation issues
func FieldIssues(errs material.FieldErrors) []Issue {
	out := make([]Issue, 0, len(errs))
	for _, fe := range errs {
		out = append(out, Issue{
			Code:     CodeInvalidInput,
			Severity: Error,
			Message:  fe.Message,
			Field:    fe.Field,
			Hint:     fe.Hint,
		})
	}
	return out
}

// HasErrors reports whether any issue has error severity
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == Error {
			return true
		}
	}
	return false
}

// ValidationError reports input that violates a precondition
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		if i.Field != "" {
			msgs = append(msgs, i.Field+": "+i.Message)
			continue
		}
		msgs = append(msgs, i.Message)
	}
	return "invalid design request: " + strings.Join(msgs, "; ")
}

// InfeasibleDesignError reports valid input for which no design satisfies the code
type InfeasibleDesignError struct {
	Issues []Issue
}

func (e *InfeasibleDesignError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		if i.Clause != "" {
			msgs = append(msgs, fmt.Sprintf("%s [%s]", i.Message, i.Clause))
			continue
		}
		msgs = append(msgs, i.Message)
	}
	return "infeasible design: " + strings.Join(msgs, "; ")
}

// UnknownCodeError is returned when no design code is registered under Name
type UnknownCodeError struct {
	Name      string
	Available []string
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unknown design code %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// DuplicateCodeError is returned when a name is registered twice
type DuplicateCodeError struct {
	Name string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("design code %q already registered", e.Name)
}
