package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ativbrasil/arsenal/internal/cohort"
	"github.com/ativbrasil/arsenal/internal/store"
)

// POST /cohorts  { "name": "...", "validity_days": 365 }
func CreateCohortHandler(svc *cohort.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name         string `json:"name"`
			ValidityDays int    `json:"validity_days"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		c, err := svc.CreateCohort(r.Context(), req.Name, req.ValidityDays)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(c)
	}
}

// POST /cohorts/{cohortID}/codes  { "codes": ["A1", "B2", ...] }
//
// Partial success is a 200 with a warning, never a failure: codes that
// already existed are skipped, the rest go in.
func AddCodesHandler(svc *cohort.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cohortID := chi.URLParam(r, "cohortID")
		var req struct {
			Codes []string `json:"codes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		res, err := svc.AddCodes(r.Context(), cohortID, req.Codes)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "cohort not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := map[string]any{"result": res}
		if warn := res.Warning(); warn != "" {
			resp["warning"] = warn
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// GET /cohorts/{cohortID}/report        (JSON)
// GET /cohorts/{cohortID}/report.csv    (export)
func ReportHandler(svc *cohort.Service, asCSV bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cohortID := chi.URLParam(r, "cohortID")
		rows, err := svc.Report(r.Context(), cohortID)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "cohort not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if asCSV {
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", `attachment; filename="turma_`+cohortID+`.csv"`)
			_ = cohort.WriteReportCSV(w, rows)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	}
}

// POST /access-links  { "validity_days": 30 }
func AccessLinkHandler(svc *cohort.Service, origin string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ValidityDays int `json:"validity_days"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		link, err := svc.GenerateAccessLink(r.Context(), origin, req.ValidityDays)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"link":   link,
			"invite": link[strings.LastIndex(link, "=")+1:],
		})
	}
}
