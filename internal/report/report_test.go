package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	_ "github.com/alexiusacademia/rcbeam/internal/codes/all"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/engine"
	"github.com/alexiusacademia/rcbeam/internal/material"
)

func request() design.Request {
	return design.Request{
		Label:    "B-1",
		Code:     "IS456",
		Section:  material.SectionGeometry{Width: 230, Depth: 450, EffectiveDepth: 400, Cover: 25},
		Concrete: "M20",
		Steel:    "Fe415",
		Demands:  []material.ForceDemand{{Name: "ULS", Moment: 60, Shear: 100}},
		Span:     design.Span{Length: 4000},
	}
}

func designed(t *testing.T) (*engine.Engine, *design.Result) {
	t.Helper()
	e, err := engine.New()
	require.NoError(t, err)
	res, err := e.Design(request())
	require.NoError(t, err)
	return e, res
}

func TestWriteResult(t *testing.T) {
	_, res := designed(t)
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, res))
	out := buf.String()

	assert.Contains(t, out, "RC BEAM DESIGN - IS456")
	assert.Contains(t, out, "CASE ULS")
	assert.Contains(t, out, "flexure capacity")
	assert.Contains(t, out, "IS456:26.3.2")
	assert.Contains(t, out, "Status: "+strings.ToUpper(string(res.Status)))
	assert.Contains(t, out, res.ID)
}

func TestWriteResultInvalid(t *testing.T) {
	e, err := engine.New()
	require.NoError(t, err)
	req := request()
	req.Concrete = "M99"
	res, err := e.Design(req)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, res))
	assert.Contains(t, buf.String(), "REQUEST ISSUES")
	assert.Contains(t, buf.String(), "Status: INVALID")
}

func TestWriteTrace(t *testing.T) {
	e, res := designed(t)
	var buf bytes.Buffer
	require.NoError(t, WriteTrace(&buf, "TRACE", e.Trace(res)))
	out := buf.String()
	assert.Contains(t, out, "ROUTINE")
	assert.Contains(t, out, "is456.flexure.singly")
	assert.Contains(t, out, "IS456:26.3.2")
}

func TestWriteClauses(t *testing.T) {
	e, res := designed(t)
	var buf bytes.Buffer
	require.NoError(t, WriteClauses(&buf, e.Trace(res).Clauses()))
	assert.Contains(t, buf.String(), "IS456:40.1")
}

func TestWriteSuggestions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSuggestions(&buf, 464))
	assert.Contains(t, buf.String(), "SUGGESTED BAR COMBINATIONS")
	assert.Contains(t, buf.String(), "3-φ16")

	buf.Reset()
	require.NoError(t, WriteSuggestions(&buf, 0))
	assert.Empty(t, buf.String())
}

func TestWritePDF(t *testing.T) {
	e, res := designed(t)
	var buf bytes.Buffer
	err := WritePDF(&buf, res, e.Trace(res), Meta{
		Project: "Test", Author: "QA", Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestTruncateAndLatin(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "3-dia 16 mm2 OK", latin.Replace("3-φ16 mm² ✓"))
}

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadRequests(t *testing.T) {
	buf := workbook(t, [][]any{
		{"label", "code", "width_mm", "depth_mm", "effective_depth_mm", "cover_mm", "concrete", "steel", "case", "moment_knm", "shear_kn", "span_mm", "levels", "ductile"},
		{"B-1", "IS456", 230, 450, 400, 25, "M20", "Fe415", "gravity", 60, 100, 4000, "basic, crack", "no"},
		{"B-1", "", "", "", "", "", "", "", "", 45, 80},
		{"B-2", "NSCP2015", 300, 500, "x", 40, "FC28", "G415", "", 100, 90},
		{},
		{"B-3", "NSCP2015", 300, 500, 440, 40, "FC28", "G415", "", 100, 90, "", "", "yes"},
	})

	reqs, err := ReadRequests(buf)
	var ierr *ImportError
	require.True(t, errors.As(err, &ierr))
	require.Len(t, ierr.Rows, 1)
	assert.Equal(t, 4, ierr.Rows[0].Row)
	assert.Equal(t, "effective_depth_mm", ierr.Rows[0].Column)

	require.Len(t, reqs, 2)
	b1 := reqs[0]
	assert.Equal(t, "B-1", b1.Label)
	assert.Equal(t, 400.0, b1.Section.EffectiveDepth)
	assert.Equal(t, []design.Level{design.Basic, design.CrackWidth}, b1.Serviceability.Levels)
	assert.False(t, b1.Detailing.Ductile)
	require.Len(t, b1.Demands, 2)
	assert.Equal(t, "gravity", b1.Demands[0].Name)
	assert.Equal(t, "row 3", b1.Demands[1].Name)
	assert.Equal(t, 45.0, b1.Demands[1].Moment)

	assert.Equal(t, "B-3", reqs[1].Label)
	assert.True(t, reqs[1].Detailing.Ductile)
}

func TestReadRequestsMissingColumn(t *testing.T) {
	buf := workbook(t, [][]any{{"label", "width_mm"}, {"B-1", 230}})
	_, err := ReadRequests(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depth_mm")
}

func TestWriteResults(t *testing.T) {
	e, err := engine.New()
	require.NoError(t, err)
	bad := request()
	bad.Code = "EC2"
	two := request()
	two.Demands = append(two.Demands, material.ForceDemand{Name: "SLS", Moment: 30, Shear: 40})

	items, err := e.Batch(context.Background(), []design.Request{two, bad})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, items))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(resultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "status", rows[0][3])
	assert.Equal(t, "ULS", rows[1][4])
	assert.Equal(t, "SLS", rows[2][4])
	assert.Equal(t, "error", rows[3][3])

	checks, err := f.GetRows(checksSheet)
	require.NoError(t, err)
	assert.Greater(t, len(checks), 2)
	assert.Equal(t, "clause", checks[0][9])
}
