package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ativbrasil/arsenal/internal/quiz"
	"github.com/ativbrasil/arsenal/internal/store"
)

type courseStore interface {
	Course(ctx context.Context, id string) (store.Course, error)
	PutCourse(ctx context.Context, c store.Course) error
}

// PUT /courses/{courseID}
//
// Content management upload. The question payload is parsed and validated on
// the way in so malformed quizzes are rejected here, not at scoring time.
func PutCourseHandler(st courseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title      string          `json:"title"`
			SkillsText string          `json:"skills_text"`
			Questions  json.RawMessage `json:"questions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Title == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		if _, err := quiz.ParseQuestions(req.Questions); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		qjson := "[]"
		if len(req.Questions) > 0 {
			qjson = string(req.Questions)
		}
		c := store.Course{
			ID:            chi.URLParam(r, "courseID"),
			Title:         req.Title,
			SkillsText:    req.SkillsText,
			QuestionsJSON: qjson,
		}
		if err := st.PutCourse(r.Context(), c); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /courses/{courseID}
//
// Serves the quiz without correct-answer indices.
func GetCourseHandler(st courseStore) http.HandlerFunc {
	type publicQuestion struct {
		ID      string   `json:"id"`
		Prompt  string   `json:"prompt"`
		Options []string `json:"options"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := st.Course(r.Context(), chi.URLParam(r, "courseID"))
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		questions, err := quiz.ParseQuestions([]byte(c.QuestionsJSON))
		if err != nil {
			http.Error(w, "course has malformed quiz data", http.StatusUnprocessableEntity)
			return
		}
		pub := make([]publicQuestion, 0, len(questions))
		for _, q := range questions {
			pub = append(pub, publicQuestion{ID: q.ID, Prompt: q.Prompt, Options: q.Options})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          c.ID,
			"title":       c.Title,
			"skills_text": c.SkillsText,
			"questions":   pub,
		})
	}
}
