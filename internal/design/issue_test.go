package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueString(t *testing.T) {
	i := Issue{Severity: Error, Message: "must be positive", Field: "section.width_mm"}
	assert.Equal(t, "[error] must be positive (field section.width_mm)", i.String())

	w := Warn(CodeMinimumSteel, "IS456:26.5.1.1", "minimum steel %.0f mm² governs", 150.0)
	assert.Equal(t, Warning, w.Severity)
	assert.Equal(t, "[warning] minimum steel 150 mm² governs [IS456:26.5.1.1]", w.String())
}

func TestErrorsJoinIssues(t *testing.T) {
	v := &ValidationError{Issues: []Issue{
		{Field: "code", Message: "is required"},
		{Message: "at least one force demand is required"},
	}}
	assert.Equal(t, "invalid design request: code: is required; at least one force demand is required", v.Error())

	inf := &InfeasibleDesignError{Issues: []Issue{InfeasibleIssue("IS456:40.2.3", "deepen the section", "shear stress exceeds τc,max")}}
	assert.Contains(t, inf.Error(), "[IS456:40.2.3]")

	u := &UnknownCodeError{Name: "EC2", Available: []string{"IS456", "NSCP2015"}}
	assert.Equal(t, `unknown design code "EC2" (available: IS456, NSCP2015)`, u.Error())
}

func TestHasErrors(t *testing.T) {
	assert.False(t, HasErrors(nil))
	assert.False(t, HasErrors([]Issue{{Severity: Warning}, {Severity: Info}}))
	assert.True(t, HasErrors([]Issue{{Severity: Warning}, {Severity: Error}}))
}
