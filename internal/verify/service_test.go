package verify_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ativbrasil/arsenal/internal/store"
	"github.com/ativbrasil/arsenal/internal/verify"
)

type fakeStore struct {
	attempts map[string]store.Attempt
	learners map[string]store.Learner
	courses  map[string]store.Course
}

func (s *fakeStore) AttemptByCode(_ context.Context, code string) (store.Attempt, error) {
	a, ok := s.attempts[code]
	if !ok {
		return store.Attempt{}, store.ErrNotFound
	}
	return a, nil
}

func (s *fakeStore) Learner(_ context.Context, id string) (store.Learner, error) {
	l, ok := s.learners[id]
	if !ok {
		return store.Learner{}, store.ErrNotFound
	}
	return l, nil
}

func (s *fakeStore) Course(_ context.Context, id string) (store.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return store.Course{}, store.ErrNotFound
	}
	return c, nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		attempts: map[string]store.Attempt{
			"ATIV-GOOD0001": {ID: "a1", LearnerID: "l1", CourseID: "c1", Score: 95, Outcome: store.OutcomePassed, CertificateCode: "ATIV-GOOD0001", CreatedAt: 1767225600},
			"ATIV-REVOKED1": {ID: "a2", LearnerID: "l1", CourseID: "c1", Score: 95, Outcome: "revogado", CertificateCode: "ATIV-REVOKED1", CreatedAt: 1767225600},
			"ATIV-ORPHAN01": {ID: "a3", LearnerID: "gone", CourseID: "gone", Score: 92, Outcome: store.OutcomePassed, CertificateCode: "ATIV-ORPHAN01", CreatedAt: 1767225600},
		},
		learners: map[string]store.Learner{"l1": {ID: "l1", DisplayName: "Maria Souza"}},
		courses:  map[string]store.Course{"c1": {ID: "c1", Title: "Tiro Defensivo"}},
	}
}

func TestValidateMissingCode(t *testing.T) {
	svc := verify.NewService(newFakeStore())
	if _, err := svc.Validate(context.Background(), ""); !errors.Is(err, verify.ErrCodeMissing) {
		t.Fatalf("err = %v, want ErrCodeMissing", err)
	}
}

func TestValidateUnknownCode(t *testing.T) {
	svc := verify.NewService(newFakeStore())
	res, err := svc.Validate(context.Background(), "ATIV-FORGED00")
	if err != nil {
		t.Fatalf("unknown code is a negative result, not an error: %v", err)
	}
	if res.Status != verify.StatusInvalid {
		t.Errorf("status = %q, want %q", res.Status, verify.StatusInvalid)
	}
}

func TestValidateApproved(t *testing.T) {
	svc := verify.NewService(newFakeStore())
	res, err := svc.Validate(context.Background(), "ATIV-GOOD0001")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != verify.StatusValid {
		t.Errorf("status = %q", res.Status)
	}
	if res.LearnerName != "Maria Souza" || res.CourseTitle != "Tiro Defensivo" {
		t.Errorf("details = %q / %q", res.LearnerName, res.CourseTitle)
	}
	if res.IssuedAt == "" {
		t.Error("issued date missing")
	}
}

func TestValidateRevokedStillShowsRecord(t *testing.T) {
	svc := verify.NewService(newFakeStore())
	res, err := svc.Validate(context.Background(), "ATIV-REVOKED1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != verify.StatusNotApproved {
		t.Errorf("status = %q, want %q", res.Status, verify.StatusNotApproved)
	}
	if res.LearnerName != "Maria Souza" {
		t.Error("record fields should still be displayed for revoked codes")
	}
}

func TestValidateZeroScoreStaysInResponse(t *testing.T) {
	st := newFakeStore()
	st.attempts["ATIV-ZERO0001"] = store.Attempt{
		ID: "a4", LearnerID: "l1", CourseID: "c1", Score: 0, Outcome: "revogado",
		CertificateCode: "ATIV-ZERO0001", CreatedAt: 1767225600,
	}
	svc := verify.NewService(st)
	res, err := svc.Validate(context.Background(), "ATIV-ZERO0001")
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"score":0`) {
		t.Errorf("score 0 missing from response: %s", b)
	}
	if !strings.Contains(string(b), `"outcome":"revogado"`) {
		t.Errorf("outcome missing from response: %s", b)
	}
}

func TestValidateOrphanedReferences(t *testing.T) {
	svc := verify.NewService(newFakeStore())
	res, err := svc.Validate(context.Background(), "ATIV-ORPHAN01")
	if err != nil {
		t.Fatalf("missing learner/course must not fail validation: %v", err)
	}
	if res.Status != verify.StatusValid {
		t.Errorf("status = %q", res.Status)
	}
	if res.LearnerName != "-" || res.CourseTitle != "-" {
		t.Errorf("placeholders = %q / %q, want dashes", res.LearnerName, res.CourseTitle)
	}
}
