package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/alexiusacademia/rcbeam/internal/codes/all"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

func scenarioA() design.Request {
	return design.Request{
		Label:    "B-1",
		Code:     "IS456",
		Section:  material.SectionGeometry{Width: 230, Depth: 450, EffectiveDepth: 400, Cover: 25},
		Concrete: "M20",
		Steel:    "Fe415",
		Demands:  []material.ForceDemand{{Name: "ULS", Moment: 60, Shear: 100}},
		Span:     design.Span{Length: 4000, Support: material.SimplySupported},
		Serviceability: design.ServiceabilityOptions{
			Levels: []design.Level{design.Basic, design.CrackWidth},
		},
	}
}

func TestDesignScenarioA(t *testing.T) {
	e := newEngine(t)
	res, err := e.Design(scenarioA())
	require.NoError(t, err)

	assert.Equal(t, design.SchemaVersion, res.SchemaVersion)
	assert.Equal(t, "IS456", res.Code)
	assert.Equal(t, design.DefaultUnits, res.Units)
	assert.Equal(t, design.StatusPass, res.Status, "%v", res.Issues)
	assert.NoError(t, res.Err())
	require.Len(t, res.Cases, 1)

	c := res.Cases[0]
	assert.Equal(t, "ULS", c.Name)
	assert.Equal(t, design.SinglyReinforced, c.Flexure.Classification)
	assert.GreaterOrEqual(t, c.Detailing.AstProvided, c.Flexure.AstRequired)
	require.Len(t, c.Serviceability, 2)
	assert.Equal(t, design.Basic, c.Serviceability[0].Level)
	assert.Equal(t, design.CrackWidth, c.Serviceability[1].Level)
	assert.True(t, c.Pass)
	assert.Contains(t, res.Governing, "ULS: ")
	assert.LessOrEqual(t, res.Utilisation, 1.0001)

	report := e.Trace(res)
	require.NotEmpty(t, report.Entries)
	for _, entry := range report.Entries {
		assert.NotEmpty(t, entry.Clauses, entry.Routine)
	}
}

func TestDesignIsDeterministic(t *testing.T) {
	e := newEngine(t)
	a, err := e.Design(scenarioA())
	require.NoError(t, err)
	b, err := e.Design(scenarioA())
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
	assert.Equal(t, a.ID, b.ID)

	other := scenarioA()
	other.Demands[0].Moment = 61
	c, err := e.Design(other)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestDefaultsApplyBeforeID(t *testing.T) {
	req := scenarioA()
	explicit := req
	explicit.Detailing.Aggregate = design.DefaultAggregate
	assert.Equal(t, ResultID(req.WithDefaults(DefaultCode)), ResultID(explicit.WithDefaults(DefaultCode)))
}

func TestUnknownCode(t *testing.T) {
	e := newEngine(t)
	req := scenarioA()
	req.Code = "EC2"
	res, err := e.Design(req)
	assert.Nil(t, res)

	var unknown *design.UnknownCodeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "EC2", unknown.Name)
	assert.Contains(t, unknown.Available, "IS456")
}

func TestInvalidRequest(t *testing.T) {
	e := newEngine(t)
	req := scenarioA()
	req.Section.EffectiveDepth = 500
	res, err := e.Design(req)
	require.NoError(t, err)
	assert.Equal(t, design.StatusInvalid, res.Status)
	assert.Empty(t, res.Cases)

	var verr *design.ValidationError
	require.ErrorAs(t, res.Err(), &verr)
	assert.NotEmpty(t, verr.Issues)
}

func TestUnknownGrade(t *testing.T) {
	e := newEngine(t)
	req := scenarioA()
	req.Concrete = "FC28"
	res, err := e.Design(req)
	require.NoError(t, err)
	assert.Equal(t, design.StatusInvalid, res.Status)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, design.CodeUnknownGrade, res.Issues[0].Code)
	assert.Equal(t, "concrete", res.Issues[0].Field)
}

func TestShearCeilingIsInfeasible(t *testing.T) {
	e := newEngine(t)
	req := scenarioA()
	req.Demands = []material.ForceDemand{{Moment: 60, Shear: 400}}
	res, err := e.Design(req)
	require.NoError(t, err)
	assert.Equal(t, design.StatusInfeasible, res.Status)
	assert.Equal(t, "case 1", res.Cases[0].Name)
	assert.False(t, res.Cases[0].Feasible)

	var inf *design.InfeasibleDesignError
	require.ErrorAs(t, res.Err(), &inf)
	require.NotEmpty(t, inf.Issues)
	assert.Equal(t, "IS456:40.2.3", inf.Issues[0].Clause)
}

func TestWorstCaseGoverns(t *testing.T) {
	e := newEngine(t)
	req := scenarioA()
	req.Demands = []material.ForceDemand{
		{Name: "light", Moment: 20, Shear: 30},
		{Name: "heavy", Moment: 80, Shear: 150},
	}
	res, err := e.Design(req)
	require.NoError(t, err)
	require.Len(t, res.Cases, 2)
	assert.Equal(t, "light", res.Cases[0].Name)
	assert.Equal(t, "heavy", res.Cases[1].Name)
	assert.Contains(t, res.Governing, "heavy: ")
	assert.Equal(t, res.Cases[1].Utilisation, res.Utilisation)
}

func TestLoadExpansion(t *testing.T) {
	e := newEngine(t)
	req := design.Request{
		Code:     "NSCP2015",
		Section:  material.SectionGeometry{Width: 300, Depth: 500, EffectiveDepth: 440, Cover: 40},
		Concrete: "FC28",
		Steel:    "G415",
		Loads: &material.LoadEffects{
			Dead: material.Effect{Moment: 60, Shear: 50},
			Live: material.Effect{Moment: 40, Shear: 30},
		},
	}
	res, err := e.Design(req)
	require.NoError(t, err)
	require.NotEqual(t, design.StatusInvalid, res.Status, "%v", res.Issues)
	require.NotEmpty(t, res.Cases)
	require.NotEmpty(t, res.Issues)
	assert.Equal(t, design.CodeLoads, res.Issues[0].Code)
	assert.Equal(t, design.Info, res.Issues[0].Severity)
	assert.Equal(t, "NSCP:203.3.1", res.Issues[0].Clause)
	for _, c := range res.Cases {
		assert.NotEmpty(t, c.Name)
		assert.Greater(t, c.Demand.Moment, 0.0)
	}
}

func TestAliasCode(t *testing.T) {
	e := newEngine(t)
	req := scenarioA()
	req.Code = "aci318"
	req.Concrete, req.Steel = "FC28", "G415"
	res, err := e.Design(req)
	require.NoError(t, err)
	assert.Equal(t, "ACI318", res.Code)
	assert.NotEqual(t, design.StatusInvalid, res.Status)
}

func TestDefaultCode(t *testing.T) {
	e := newEngine(t, WithDefaultCode("NSCP2015"))
	req := scenarioA()
	req.Code = ""
	req.Concrete, req.Steel = "FC28", "G415"
	res, err := e.Design(req)
	require.NoError(t, err)
	assert.Equal(t, "NSCP2015", res.Code)

	_, err = New(WithDefaultCode("EC2"))
	assert.Error(t, err)
}

func TestStrictClausesVerify(t *testing.T) {
	_, err := New(WithStrictClauses(true))
	assert.NoError(t, err)
}

func TestBatchPreservesOrder(t *testing.T) {
	e := newEngine(t, WithWorkers(3))
	var reqs []design.Request
	for i := range 20 {
		r := scenarioA()
		r.Label = fmt.Sprintf("B-%02d", i)
		r.Demands = []material.ForceDemand{{Moment: float64(20 + 3*i), Shear: float64(40 + 5*i)}}
		reqs = append(reqs, r)
	}
	reqs[7].Code = "EC2"

	items, err := e.Batch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, items, len(reqs))
	for i, it := range items {
		assert.Equal(t, i, it.Index)
		if i == 7 {
			assert.Nil(t, it.Result)
			assert.Contains(t, it.Error, "EC2")
			continue
		}
		require.NotNil(t, it.Result, it.Error)
		assert.Equal(t, reqs[i].Label, it.Result.Label)

		single, err := e.Design(reqs[i])
		require.NoError(t, err)
		assert.Equal(t, single.ID, it.Result.ID)
	}
}

func TestBatchCancelled(t *testing.T) {
	e := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Batch(ctx, []design.Request{scenarioA(), scenarioA()})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMetrics(t *testing.T) {
	e := newEngine(t)
	_, err := e.Design(scenarioA())
	require.NoError(t, err)
	bad := scenarioA()
	bad.Steel = "Fe999"
	_, err = e.Design(bad)
	require.NoError(t, err)
	bad.Code = "EC2"
	_, _ = e.Design(bad)

	m := e.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.designs.WithLabelValues("IS456", "pass")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.designs.WithLabelValues("IS456", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.designs.WithLabelValues("unknown", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))

	_, err = e.Batch(context.Background(), []design.Request{scenarioA()})
	require.NoError(t, err)
	assert.Equal(t, 1, testutil.CollectAndCount(m.batchSize))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.designs.WithLabelValues("IS456", "pass")))
}
