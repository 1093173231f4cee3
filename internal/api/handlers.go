package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/alexiusacademia/rcbeam/internal/clause"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/engine"
	"github.com/alexiusacademia/rcbeam/internal/report"
	"github.com/alexiusacademia/rcbeam/internal/version"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

// CodeInfo describes one registered design code
type CodeInfo struct {
	Name           string        `json:"name"`
	Title          string        `json:"title"`
	ConcreteGrades []string      `json:"concrete_grades"`
	SteelGrades    []string      `json:"steel_grades"`
	Combinations   []Combination `json:"combinations,omitempty"`
}

// Combination is a load combination as served over the API
type Combination struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Clause      string  `json:"clause"`
	Dead        float64 `json:"dead"`
	Live        float64 `json:"live"`
	Roof        float64 `json:"roof,omitempty"`
	Wind        float64 `json:"wind,omitempty"`
	Earthquake  float64 `json:"earthquake,omitempty"`
	Rain        float64 `json:"rain,omitempty"`
}

func codeInfo(c design.Code) CodeInfo {
	m := c.Materials()
	info := CodeInfo{
		Name:           c.Name(),
		Title:          c.Title(),
		ConcreteGrades: m.ConcreteGrades(),
		SteelGrades:    m.SteelGrades(),
	}
	if lc, ok := c.(design.LoadCombiner); ok {
		for _, cb := range lc.Combinations() {
			info.Combinations = append(info.Combinations, Combination{
				ID:          cb.ID,
				Description: cb.Description,
				Clause:      cb.Clause,
				Dead:        cb.Dead,
				Live:        cb.Live,
				Roof:        cb.Roof,
				Wind:        cb.Wind,
				Earthquake:  cb.Earthquake,
				Rain:        cb.Rain,
			})
		}
	}
	return info
}

func (s *Server) listCodes(w http.ResponseWriter, r *http.Request) {
	reg := s.engine.Codes()
	var out []CodeInfo
	for _, name := range reg.Names() {
		c, err := reg.Get(name)
		if err != nil {
			continue
		}
		info := codeInfo(c)
		// aliases are listed under the name they were registered with
		info.Name = name
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"default": s.engine.DefaultCode(),
		"codes":   out,
	})
}

func (s *Server) getCode(w http.ResponseWriter, r *http.Request) {
	c, err := s.engine.Codes().Get(mux.Vars(r)["code"])
	if err != nil {
		s.codeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, codeInfo(c))
}

func (s *Server) codeError(w http.ResponseWriter, status int, err error) {
	var uce *design.UnknownCodeError
	if errors.As(err, &uce) {
		writeJSON(w, status, errorBody{Error: err.Error(), Available: uce.Available})
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) searchClauses(w http.ResponseWriter, r *http.Request) {
	db := s.engine.Clauses().Database()
	q := r.URL.Query()

	var refs []clause.Reference
	switch {
	case q.Get("q") != "":
		refs = db.Search(q.Get("q"))
	case q.Get("category") != "":
		refs = db.ByCategory(clause.Category(strings.ToLower(q.Get("category"))))
	case q.Get("code") != "":
		refs = db.ByCode(q.Get("code"))
	default:
		writeJSON(w, http.StatusOK, map[string]any{"standards": db.Standards(), "count": db.Len()})
		return
	}

	// the remaining parameters narrow the set
	refs = filter(refs, func(ref clause.Reference) bool {
		if c := q.Get("category"); c != "" && !strings.EqualFold(string(ref.Category), c) {
			return false
		}
		if c := q.Get("code"); c != "" && !strings.EqualFold(ref.Code, c) {
			return false
		}
		return true
	})
	if refs == nil {
		refs = []clause.Reference{}
	}
	writeJSON(w, http.StatusOK, refs)
}

func filter(refs []clause.Reference, keep func(clause.Reference) bool) []clause.Reference {
	out := refs[:0:0]
	for _, r := range refs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

type clauseBody struct {
	clause.Reference
	ImplementedBy []string `json:"implemented_by"`
}

func (s *Server) getClause(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ref, err := s.engine.Clauses().Database().Clause(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, clauseBody{
		Reference:     ref,
		ImplementedBy: s.engine.Clauses().ImplementedBy(id),
	})
}

// designOne decodes a request and runs it, writing the error response
// itself when it returns nil
func (s *Server) designOne(w http.ResponseWriter, r *http.Request) *design.Result {
	var req design.Request
	if err := decode(w, r, &req); err != nil {
		s.decodeError(w, err)
		return nil
	}
	res, err := s.engine.Design(req)
	if err != nil {
		s.codeError(w, http.StatusBadRequest, err)
		return nil
	}
	return res
}

func (s *Server) decodeError(w http.ResponseWriter, err error) {
	if isTooLarge(err) {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
}

func resultStatus(res *design.Result) int {
	if res.Status == design.StatusInvalid {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func (s *Server) design(w http.ResponseWriter, r *http.Request) {
	res := s.designOne(w, r)
	if res == nil {
		return
	}
	writeJSON(w, resultStatus(res), res)
}

// traceBody pairs a result with the clauses that produced it
type traceBody struct {
	Result *design.Result     `json:"result"`
	Trace  clause.TraceReport `json:"trace"`
}

func (s *Server) trace(w http.ResponseWriter, r *http.Request) {
	res := s.designOne(w, r)
	if res == nil {
		return
	}
	writeJSON(w, resultStatus(res), traceBody{Result: res, Trace: s.engine.Trace(res)})
}

func (s *Server) reportPDF(w http.ResponseWriter, r *http.Request) {
	res := s.designOne(w, r)
	if res == nil {
		return
	}
	meta := s.meta
	if p := r.URL.Query().Get("project"); p != "" {
		meta.Project = p
	}
	meta.Date = time.Now()

	var buf bytes.Buffer
	if err := report.WritePDF(&buf, res, s.engine.Trace(res), meta); err != nil {
		s.logger.Error("render pdf", "id", res.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not render report")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.ID+".pdf"))
	w.WriteHeader(resultStatus(res))
	_, _ = w.Write(buf.Bytes())
}

type batchBody struct {
	Requests []design.Request `json:"requests"`
}

type batchResponse struct {
	Items []engine.Item `json:"items"`
}

func (s *Server) runBatch(w http.ResponseWriter, r *http.Request, reqs []design.Request) ([]engine.Item, bool) {
	if len(reqs) == 0 {
		writeError(w, http.StatusBadRequest, "batch has no requests")
		return nil, false
	}
	if len(reqs) > s.maxBatch {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("batch of %d exceeds the limit of %d", len(reqs), s.maxBatch))
		return nil, false
	}
	items, err := s.engine.Batch(r.Context(), reqs)
	if err != nil {
		// the client went away
		s.logger.Warn("batch cancelled", "requests", len(reqs), "error", err)
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return nil, false
	}
	return items, true
}

func (s *Server) batch(w http.ResponseWriter, r *http.Request) {
	var body batchBody
	if err := decode(w, r, &body); err != nil {
		s.decodeError(w, err)
		return
	}
	items, ok := s.runBatch(w, r, body.Requests)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Items: items})
}

// batchXLSX takes a workbook in the multipart field "file" and answers
// with a results workbook. Rows that fail to import are listed in the
// X-Skipped-Rows header.
func (s *Server) batchXLSX(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart body: %v", err))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing form file \"file\"")
		return
	}
	defer file.Close()

	reqs, err := report.ReadRequests(file)
	var ierr *report.ImportError
	switch {
	case errors.As(err, &ierr):
		w.Header().Set("X-Skipped-Rows", fmt.Sprint(len(ierr.Rows)))
		s.logger.Warn("xlsx rows skipped", "error", ierr)
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, ok := s.runBatch(w, r, reqs)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteResults(&buf, items); err != nil {
		s.logger.Error("render xlsx", "error", err)
		writeError(w, http.StatusInternalServerError, "could not render workbook")
		return
	}
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", `attachment; filename="results.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}
