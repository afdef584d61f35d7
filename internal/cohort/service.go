package cohort

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ativbrasil/arsenal/internal/cert"
	"github.com/ativbrasil/arsenal/internal/store"
)

// LifetimeSentinel: a validity above this many days means unlimited access.
const LifetimeSentinel = 10000

type Store interface {
	CreateCohort(ctx context.Context, c store.Cohort) error
	Cohort(ctx context.Context, id string) (store.Cohort, error)
	CohortByName(ctx context.Context, name string) (store.Cohort, error)
	InsertAllowEntries(ctx context.Context, cohortID string, codes []string) (int, error)
	AllowEntries(ctx context.Context, cohortID string) ([]store.AllowEntry, error)
	LearnersByCohort(ctx context.Context, cohortID string) ([]store.Learner, error)
	CountApprovedAttempts(ctx context.Context, learnerID string) (int, error)
}

type Service struct {
	store Store
}

func NewService(st Store) *Service {
	return &Service{store: st}
}

func (s *Service) CreateCohort(ctx context.Context, name string, validityDays int) (store.Cohort, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return store.Cohort{}, errors.New("cohort name required")
	}
	if validityDays <= 0 {
		return store.Cohort{}, errors.New("validity must be a positive number of days")
	}
	c := store.Cohort{
		ID:           uuid.NewString(),
		Name:         name,
		ValidityDays: validityDays,
		CreatedAt:    time.Now().Unix(),
	}
	if err := s.store.CreateCohort(ctx, c); err != nil {
		return store.Cohort{}, err
	}
	return c, nil
}

// BatchResult reports a bulk code insertion. Skipped counts codes that
// already existed in the cohort; their presence is a warning, not a failure.
type BatchResult struct {
	Requested int `json:"requested"`
	Inserted  int `json:"inserted"`
	Skipped   int `json:"skipped"`
}

func (r BatchResult) Warning() string {
	if r.Skipped == 0 {
		return ""
	}
	return fmt.Sprintf("%d codes already existed and were skipped", r.Skipped)
}

// AddCodes normalizes (trim, upper-case), drops empties, dedupes within the
// batch and bulk-inserts the rest. Codes already present in the cohort are
// skipped and surfaced through BatchResult, never aborting the batch.
func (s *Service) AddCodes(ctx context.Context, cohortID string, raw []string) (BatchResult, error) {
	if _, err := s.store.Cohort(ctx, cohortID); err != nil {
		return BatchResult{}, fmt.Errorf("cohort %s: %w", cohortID, err)
	}
	codes := NormalizeCodes(raw)
	if len(codes) == 0 {
		return BatchResult{}, errors.New("no valid codes in list")
	}
	inserted, err := s.store.InsertAllowEntries(ctx, cohortID, codes)
	if err != nil {
		return BatchResult{Requested: len(codes), Inserted: inserted}, err
	}
	return BatchResult{Requested: len(codes), Inserted: inserted, Skipped: len(codes) - inserted}, nil
}

// NormalizeCodes trims, upper-cases, drops empties and in-batch duplicates,
// preserving first-seen order.
func NormalizeCodes(raw []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, r := range raw {
		c := strings.ToUpper(strings.TrimSpace(r))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// accessCohortName is the find-or-create key for quick-link cohorts: the name
// encodes the duration, so equal durations reuse one cohort.
func accessCohortName(validityDays int) string {
	if validityDays > LifetimeSentinel {
		return "ACESSO VITALICIO"
	}
	return fmt.Sprintf("ACESSO %d DIAS", validityDays)
}

// GenerateAccessLink mints a single-use activation link: it resolves or
// creates the duration-named cohort, inserts one fresh 6-char code and
// returns `<origin>/?invite=<code>`.
func (s *Service) GenerateAccessLink(ctx context.Context, origin string, validityDays int) (string, error) {
	if validityDays <= 0 {
		return "", errors.New("validity must be a positive number of days")
	}
	name := accessCohortName(validityDays)
	c, err := s.store.CohortByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		c, err = s.CreateCohort(ctx, name, validityDays)
	}
	if err != nil {
		return "", fmt.Errorf("access link: %w", err)
	}
	code, err := cert.NewCode(cert.QuickCodeLen)
	if err != nil {
		return "", fmt.Errorf("access link: %w", err)
	}
	if _, err := s.store.InsertAllowEntries(ctx, c.ID, []string{code}); err != nil {
		return "", fmt.Errorf("access link: %w", err)
	}
	return strings.TrimSuffix(origin, "/") + "/?invite=" + code, nil
}
