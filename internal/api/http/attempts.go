package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ativbrasil/arsenal/internal/cert"
	"github.com/ativbrasil/arsenal/internal/quiz"
	"github.com/ativbrasil/arsenal/internal/rbac"
	"github.com/ativbrasil/arsenal/internal/store"
)

type attemptStore interface {
	Course(ctx context.Context, id string) (store.Course, error)
	ListAttempts(ctx context.Context, opts store.AttemptListOpts) ([]store.Attempt, error)
}

// POST /attempts  { "course_id": "...", "answers": [0,2,1,...] }
//
// Scores the submission and runs certificate issuance. The attempt record is
// committed before any rendering; a render failure still reports the attempt.
func SubmitAttemptHandler(st attemptStore, issuer *cert.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := rbac.SubjectFromContext(r.Context())
		var req struct {
			CourseID string `json:"course_id"`
			Answers  []int  `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.CourseID) == "" {
			http.Error(w, "course_id required", http.StatusBadRequest)
			return
		}
		course, err := st.Course(r.Context(), req.CourseID)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "falha de comunicação", http.StatusBadGateway)
			return
		}
		questions, err := quiz.ParseQuestions([]byte(course.QuestionsJSON))
		if err != nil {
			http.Error(w, "course has malformed quiz data: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		res, err := quiz.Score(questions, req.Answers)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		out, err := issuer.Issue(r.Context(), sub, req.CourseID, res)
		if err != nil && out.Attempt.ID == "" {
			http.Error(w, "falha de comunicação", http.StatusBadGateway)
			return
		}
		resp := map[string]any{
			"attempt": out.Attempt,
			"result":  res,
		}
		if out.Warning != "" {
			resp["warning"] = out.Warning
		}
		if err != nil {
			// attempt persisted, artifact not rendered
			resp["error"] = "certificate generation failed"
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
		if out.PDF != nil {
			resp["certificate_url"] = "/certificates/" + out.Attempt.CertificateCode + "/pdf"
			resp["certificate_filename"] = out.Filename
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// GET /attempts?learner_id=...&course_id=...&limit=50&offset=0
//
// Callers without attempts:view-all are pinned to their own attempts.
func ListAttemptsHandler(st attemptStore, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := rbac.RoleFromContext(r.Context())
		sub := rbac.SubjectFromContext(r.Context())

		learnerID := strings.TrimSpace(r.URL.Query().Get("learner_id"))
		courseID := strings.TrimSpace(r.URL.Query().Get("course_id"))
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		offset := parseIntDefault(r.URL.Query().Get("offset"), 0)

		if !checker.Has(role, "attempts:view-all") {
			learnerID = sub
		}
		list, err := st.ListAttempts(r.Context(), store.AttemptListOpts{
			LearnerID: learnerID,
			CourseID:  courseID,
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
