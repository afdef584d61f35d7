package cohort_test

import (
	"context"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/ativbrasil/arsenal/internal/cohort"
	"github.com/ativbrasil/arsenal/internal/store"
)

/* ---------------- in-memory fake satisfying cohort.Store ---------------- */

type fakeStore struct {
	cohorts  map[string]store.Cohort
	entries  map[string][]store.AllowEntry // by cohort ID
	learners map[string][]store.Learner    // by cohort ID
	approved map[string]int                // by learner ID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cohorts:  map[string]store.Cohort{},
		entries:  map[string][]store.AllowEntry{},
		learners: map[string][]store.Learner{},
		approved: map[string]int{},
	}
}

func (s *fakeStore) CreateCohort(_ context.Context, c store.Cohort) error {
	s.cohorts[c.ID] = c
	return nil
}

func (s *fakeStore) Cohort(_ context.Context, id string) (store.Cohort, error) {
	c, ok := s.cohorts[id]
	if !ok {
		return store.Cohort{}, store.ErrNotFound
	}
	return c, nil
}

func (s *fakeStore) CohortByName(_ context.Context, name string) (store.Cohort, error) {
	for _, c := range s.cohorts {
		if c.Name == name {
			return c, nil
		}
	}
	return store.Cohort{}, store.ErrNotFound
}

func (s *fakeStore) InsertAllowEntries(_ context.Context, cohortID string, codes []string) (int, error) {
	existing := map[string]bool{}
	for _, e := range s.entries[cohortID] {
		existing[e.Code] = true
	}
	inserted := 0
	for _, c := range codes {
		if existing[c] {
			continue
		}
		s.entries[cohortID] = append(s.entries[cohortID], store.AllowEntry{CohortID: cohortID, Code: c})
		existing[c] = true
		inserted++
	}
	return inserted, nil
}

func (s *fakeStore) AllowEntries(_ context.Context, cohortID string) ([]store.AllowEntry, error) {
	return s.entries[cohortID], nil
}

func (s *fakeStore) LearnersByCohort(_ context.Context, cohortID string) ([]store.Learner, error) {
	return s.learners[cohortID], nil
}

func (s *fakeStore) CountApprovedAttempts(_ context.Context, learnerID string) (int, error) {
	return s.approved[learnerID], nil
}

/* ---------------- tests ---------------- */

func TestCreateCohortNormalizesName(t *testing.T) {
	svc := cohort.NewService(newFakeStore())
	c, err := svc.CreateCohort(context.Background(), "  turma bravo  ", 365)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "TURMA BRAVO" {
		t.Errorf("name = %q", c.Name)
	}
	if c.ValidityDays != 365 {
		t.Errorf("validity = %d", c.ValidityDays)
	}
}

func TestCreateCohortRejectsBadInput(t *testing.T) {
	svc := cohort.NewService(newFakeStore())
	if _, err := svc.CreateCohort(context.Background(), "   ", 30); err == nil {
		t.Error("blank name accepted")
	}
	if _, err := svc.CreateCohort(context.Background(), "X", 0); err == nil {
		t.Error("zero validity accepted")
	}
	if _, err := svc.CreateCohort(context.Background(), "X", -5); err == nil {
		t.Error("negative validity accepted")
	}
}

func TestAddCodesNormalizesAndDedupes(t *testing.T) {
	st := newFakeStore()
	svc := cohort.NewService(st)
	c, _ := svc.CreateCohort(context.Background(), "ALFA", 30)

	res, err := svc.AddCodes(context.Background(), c.ID, []string{"A1", "a1 ", "B2", "", "  "})
	if err != nil {
		t.Fatal(err)
	}
	if res.Inserted != 2 {
		t.Errorf("inserted = %d, want 2", res.Inserted)
	}
	got := []string{}
	for _, e := range st.entries[c.ID] {
		got = append(got, e.Code)
	}
	if !reflect.DeepEqual(got, []string{"A1", "B2"}) {
		t.Errorf("stored codes = %v", got)
	}
}

func TestAddCodesPartialSuccessWarns(t *testing.T) {
	st := newFakeStore()
	svc := cohort.NewService(st)
	c, _ := svc.CreateCohort(context.Background(), "ALFA", 30)

	if _, err := svc.AddCodes(context.Background(), c.ID, []string{"A1"}); err != nil {
		t.Fatal(err)
	}
	res, err := svc.AddCodes(context.Background(), c.ID, []string{"A1", "C3"})
	if err != nil {
		t.Fatalf("existing codes must not fail the batch: %v", err)
	}
	if res.Inserted != 1 || res.Skipped != 1 {
		t.Errorf("result = %+v", res)
	}
	if res.Warning() == "" {
		t.Error("expected a partial-success warning")
	}
}

func TestAddCodesEmptyList(t *testing.T) {
	st := newFakeStore()
	svc := cohort.NewService(st)
	c, _ := svc.CreateCohort(context.Background(), "ALFA", 30)
	if _, err := svc.AddCodes(context.Background(), c.ID, []string{"", "  "}); err == nil {
		t.Error("all-empty list accepted")
	}
}

func TestGenerateAccessLink(t *testing.T) {
	st := newFakeStore()
	svc := cohort.NewService(st)

	link, err := svc.GenerateAccessLink(context.Background(), "https://arsenal.ativbrasil.com.br/", 30)
	if err != nil {
		t.Fatal(err)
	}
	re := regexp.MustCompile(`^https://arsenal\.ativbrasil\.com\.br/\?invite=ATIV-[A-Z0-9]{6}$`)
	if !re.MatchString(link) {
		t.Errorf("link = %q", link)
	}

	// same duration reuses the cohort, new duration creates another
	if _, err := svc.GenerateAccessLink(context.Background(), "https://arsenal.ativbrasil.com.br", 30); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GenerateAccessLink(context.Background(), "https://arsenal.ativbrasil.com.br", 99999); err != nil {
		t.Fatal(err)
	}
	if len(st.cohorts) != 2 {
		t.Errorf("cohorts = %d, want 2 (30d reused, lifetime new)", len(st.cohorts))
	}
	var names []string
	for _, c := range st.cohorts {
		names = append(names, c.Name)
	}
	joined := strings.Join(names, ",")
	if !strings.Contains(joined, "ACESSO 30 DIAS") || !strings.Contains(joined, "ACESSO VITALICIO") {
		t.Errorf("cohort names = %v", names)
	}
}
