package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	api "github.com/ativbrasil/arsenal/internal/api/http"
	"github.com/ativbrasil/arsenal/internal/store"
	"github.com/ativbrasil/arsenal/internal/verify"
)

type fakeVerifyStore struct{ attempts map[string]store.Attempt }

func (s *fakeVerifyStore) AttemptByCode(_ context.Context, code string) (store.Attempt, error) {
	a, ok := s.attempts[code]
	if !ok {
		return store.Attempt{}, store.ErrNotFound
	}
	return a, nil
}
func (s *fakeVerifyStore) Learner(context.Context, string) (store.Learner, error) {
	return store.Learner{}, store.ErrNotFound
}
func (s *fakeVerifyStore) Course(context.Context, string) (store.Course, error) {
	return store.Course{}, store.ErrNotFound
}

func TestValidateHandler(t *testing.T) {
	svc := verify.NewService(&fakeVerifyStore{attempts: map[string]store.Attempt{
		"ATIV-OK123456": {ID: "a1", Outcome: store.OutcomePassed, CertificateCode: "ATIV-OK123456", CreatedAt: 1767225600},
	}})
	h := api.ValidateHandler(svc)

	t.Run("missing code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest("GET", "/validar", nil))
		if rec.Code != 400 {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown code is 200 invalid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest("GET", "/validar?code=ATIV-NOPE", nil))
		if rec.Code != 200 {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var res verify.Result
		if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
			t.Fatal(err)
		}
		if res.Status != verify.StatusInvalid {
			t.Errorf("status = %q", res.Status)
		}
	})

	t.Run("known code valid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest("GET", "/validar?code=ATIV-OK123456", nil))
		var res verify.Result
		if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
			t.Fatal(err)
		}
		if res.Status != verify.StatusValid {
			t.Errorf("status = %q", res.Status)
		}
	})
}
