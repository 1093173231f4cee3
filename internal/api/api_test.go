package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	_ "github.com/alexiusacademia/rcbeam/internal/codes/all"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/engine"
	"github.com/alexiusacademia/rcbeam/internal/logging"
)

const beam = `{
	"label": "B-1",
	"code": "IS456",
	"section": {"width_mm": 230, "depth_mm": 450, "effective_depth_mm": 400, "cover_mm": 25},
	"concrete": "M20",
	"steel": "Fe415",
	"demands": [{"name": "ULS", "moment_knm": 60, "shear_kn": 100}],
	"span": {"length_mm": 4000}
}`

func newServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	e, err := engine.New(engine.WithLogger(logging.Discard()))
	require.NoError(t, err)
	opts.Logger = logging.Discard()
	ts := httptest.NewServer(New(e, opts).Router())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	ts := newServer(t, Options{})
	resp := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestDesign(t *testing.T) {
	ts := newServer(t, Options{})
	resp := post(t, ts.URL+"/api/v1/design", beam)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var res design.Result
	decodeBody(t, resp, &res)
	assert.Equal(t, "IS456", res.Code)
	assert.Equal(t, design.StatusPass, res.Status)
	assert.NotEmpty(t, res.ID)
	require.Len(t, res.Cases, 1)
	assert.Equal(t, "ULS", res.Cases[0].Name)
}

func TestDesignUnknownCode(t *testing.T) {
	ts := newServer(t, Options{})
	resp := post(t, ts.URL+"/api/v1/design", strings.Replace(beam, `"IS456"`, `"EC2"`, 1))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errorBody
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Error, "EC2")
	assert.Contains(t, body.Available, "IS456")
}

func TestDesignInvalid(t *testing.T) {
	ts := newServer(t, Options{})
	resp := post(t, ts.URL+"/api/v1/design", strings.Replace(beam, `"effective_depth_mm": 400`, `"effective_depth_mm": 500`, 1))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var res design.Result
	decodeBody(t, resp, &res)
	assert.Equal(t, design.StatusInvalid, res.Status)
	assert.NotEmpty(t, res.Issues)
}

func TestDesignBadBody(t *testing.T) {
	ts := newServer(t, Options{})
	resp := post(t, ts.URL+"/api/v1/design", `{"bogus": 1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts.URL+"/api/v1/design", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTrace(t *testing.T) {
	ts := newServer(t, Options{})
	resp := post(t, ts.URL+"/api/v1/trace", beam)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Result design.Result `json:"result"`
		Trace  struct {
			Entries []struct {
				Routine string `json:"routine"`
			} `json:"entries"`
		} `json:"trace"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, design.StatusPass, body.Result.Status)
	assert.NotEmpty(t, body.Trace.Entries)
}

func TestCodes(t *testing.T) {
	ts := newServer(t, Options{})
	resp := get(t, ts.URL+"/api/v1/codes")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Default string     `json:"default"`
		Codes   []CodeInfo `json:"codes"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "IS456", body.Default)
	var names []string
	for _, c := range body.Codes {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "IS456")
	assert.Contains(t, names, "NSCP2015")
	assert.Contains(t, names, "ACI318")

	resp = get(t, ts.URL+"/api/v1/codes/nscp2015")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var info CodeInfo
	decodeBody(t, resp, &info)
	assert.Equal(t, "NSCP2015", info.Name)
	assert.Contains(t, info.ConcreteGrades, "FC28")
	assert.NotEmpty(t, info.Combinations)

	resp = get(t, ts.URL+"/api/v1/codes/EC2")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClauses(t *testing.T) {
	ts := newServer(t, Options{})

	resp := get(t, ts.URL+"/api/v1/clauses/IS456:40.1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ref struct {
		ID            string   `json:"id"`
		Category      string   `json:"category"`
		ImplementedBy []string `json:"implemented_by"`
	}
	decodeBody(t, resp, &ref)
	assert.Equal(t, "IS456:40.1", ref.ID)
	assert.Equal(t, "shear", ref.Category)
	assert.NotEmpty(t, ref.ImplementedBy)

	resp = get(t, ts.URL+"/api/v1/clauses/IS456:999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = get(t, ts.URL+"/api/v1/clauses?category=shear&code=NSCP2015")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var refs []struct {
		Category string `json:"category"`
	}
	decodeBody(t, resp, &refs)
	require.NotEmpty(t, refs)
	for _, r := range refs {
		assert.Equal(t, "shear", r.Category)
	}

	resp = get(t, ts.URL+"/api/v1/clauses?q=zzzzzz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func batchOf(n int, bad int) string {
	reqs := make([]string, n)
	for i := range reqs {
		reqs[i] = beam
		if i == bad {
			reqs[i] = strings.Replace(beam, `"IS456"`, `"EC2"`, 1)
		}
	}
	return `{"requests": [` + strings.Join(reqs, ",") + `]}`
}

func TestBatch(t *testing.T) {
	ts := newServer(t, Options{})
	resp := post(t, ts.URL+"/api/v1/batch", batchOf(5, 2))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Items []engine.Item `json:"items"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Items, 5)
	for i, it := range body.Items {
		assert.Equal(t, i, it.Index)
		if i == 2 {
			assert.Nil(t, it.Result)
			assert.Contains(t, it.Error, "EC2")
			continue
		}
		require.NotNil(t, it.Result)
		assert.Equal(t, body.Items[0].Result.ID, it.Result.ID)
	}
}

func TestBatchLimits(t *testing.T) {
	ts := newServer(t, Options{MaxBatch: 3})
	resp := post(t, ts.URL+"/api/v1/batch", batchOf(4, -1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	resp = post(t, ts.URL+"/api/v1/batch", `{"requests": []}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportPDF(t *testing.T) {
	ts := newServer(t, Options{})
	resp := post(t, ts.URL+"/api/v1/report/pdf?project=Test", beam)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
}

func TestBatchXLSX(t *testing.T) {
	ts := newServer(t, Options{})

	book := excelize.NewFile()
	rows := [][]any{
		{"label", "code", "width_mm", "depth_mm", "effective_depth_mm", "cover_mm", "concrete", "steel", "moment_knm", "shear_kn"},
		{"B-1", "IS456", 230, 450, 400, 25, "M20", "Fe415", 60, 100},
		{"B-2", "IS456", 230, 450, "bad", 25, "M20", "Fe415", 60, 100},
		{"B-3", "NSCP2015", 300, 500, 440, 40, "FC28", "G415", 100, 90},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow("Sheet1", cell, &row))
	}
	var sheet bytes.Buffer
	require.NoError(t, book.Write(&sheet))
	require.NoError(t, book.Close())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "beams.xlsx")
	require.NoError(t, err)
	_, err = io.Copy(fw, &sheet)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/v1/batch/xlsx", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxType, resp.Header.Get("Content-Type"))
	assert.Equal(t, "1", resp.Header.Get("X-Skipped-Rows"))

	out, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer out.Close()
	results, err := out.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "B-1", results[1][1])
	assert.Equal(t, "B-3", results[2][1])
}

func TestBatchXLSXMissingFile(t *testing.T) {
	ts := newServer(t, Options{})
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/v1/batch/xlsx", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	ts := newServer(t, Options{Rate: 0.001, Burst: 2})
	for i := 0; i < 2; i++ {
		resp := get(t, ts.URL+"/api/v1/codes")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp := get(t, ts.URL+"/api/v1/codes")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// health and metrics sit outside the limited prefix
	resp = get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	ts := newServer(t, Options{})
	post(t, ts.URL+"/api/v1/design", beam)
	get(t, ts.URL+"/api/v1/codes/IS456")

	resp := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, `rcbeam_engine_designs_total{code="IS456",status="pass"} 1`)
	assert.Contains(t, text, `rcbeam_http_requests_total{code="200",route="/api/v1/design"} 1`)
	assert.Contains(t, text, `route="/api/v1/codes/{code}"`)
}

func TestIPRateLimiterSharesBucketPerHost(t *testing.T) {
	l := NewIPRateLimiter(0.001, 1)
	r1 := httptest.NewRequest(http.MethodGet, "/", nil)
	r1.RemoteAddr = "10.0.0.1:1000"
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.RemoteAddr = "10.0.0.1:2000"
	r3 := httptest.NewRequest(http.MethodGet, "/", nil)
	r3.RemoteAddr = "10.0.0.2:1000"

	assert.True(t, l.getLimiter(clientIP(r1)).Allow())
	assert.False(t, l.getLimiter(clientIP(r2)).Allow())
	assert.True(t, l.getLimiter(clientIP(r3)).Allow())
}

func TestIPRateLimiterDropsIdleBuckets(t *testing.T) {
	l := NewIPRateLimiter(1, 5)
	assert.Equal(t, time.Minute, l.idle)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.getLimiter("10.0.0.1")
	now = now.Add(30 * time.Second)
	l.getLimiter("10.0.0.2")
	assert.Len(t, l.ips, 2)

	now = now.Add(45 * time.Second)
	l.getLimiter("10.0.0.3")
	assert.Len(t, l.ips, 2)
	assert.NotContains(t, l.ips, "10.0.0.1")
	assert.Contains(t, l.ips, "10.0.0.2")

	slow := NewIPRateLimiter(0.001, 1)
	assert.InDelta(t, 1000, slow.idle.Seconds(), 1e-6)
}
