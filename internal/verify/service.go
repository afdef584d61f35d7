package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ativbrasil/arsenal/internal/store"
)

// ErrCodeMissing means the request carried no code at all; no lookup is done.
var ErrCodeMissing = errors.New("code missing")

// Validation statuses.
const (
	StatusValid       = "valid"
	StatusNotApproved = "not_approved"
	StatusInvalid     = "invalid" // no record for the code
)

// approvedOutcomes drives the verdict. Changing a stored outcome to anything
// outside this set revokes the certificate without deleting history.
var approvedOutcomes = map[string]bool{
	store.OutcomePassed: true,
	"approved":          true,
	"passed":            true,
}

type Store interface {
	AttemptByCode(ctx context.Context, code string) (store.Attempt, error)
	Learner(ctx context.Context, id string) (store.Learner, error)
	Course(ctx context.Context, id string) (store.Course, error)
}

type Service struct {
	store Store
	loc   *time.Location
}

func NewService(st Store) *Service {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.FixedZone("-03", -3*60*60)
	}
	return &Service{store: st, loc: loc}
}

// Result is what the public validation page renders.
type Result struct {
	Status      string `json:"status"`
	Code        string `json:"code"`
	LearnerName string `json:"learner_name,omitempty"`
	CourseTitle string `json:"course_title,omitempty"`
	Score       int    `json:"score"`
	Outcome     string `json:"outcome"`
	IssuedAt    string `json:"issued_at,omitempty"`
}

// Validate looks up a certificate code. An unknown code is a negative result
// (StatusInvalid), not an error: it is the authoritative forgery/typo signal.
// Learner and course are fetched independently; either being gone degrades to
// a "-" placeholder instead of failing the validation.
func (s *Service) Validate(ctx context.Context, code string) (Result, error) {
	if code == "" {
		return Result{}, ErrCodeMissing
	}
	a, err := s.store.AttemptByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return Result{Status: StatusInvalid, Code: code}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("validate %s: %w", code, err)
	}

	res := Result{
		Code:        code,
		Score:       a.Score,
		Outcome:     a.Outcome,
		LearnerName: "-",
		CourseTitle: "-",
		IssuedAt:    s.formatDate(a.CreatedAt),
	}
	if l, err := s.store.Learner(ctx, a.LearnerID); err == nil && l.DisplayName != "" {
		res.LearnerName = l.DisplayName
	}
	if c, err := s.store.Course(ctx, a.CourseID); err == nil && c.Title != "" {
		res.CourseTitle = c.Title
	}
	if approvedOutcomes[a.Outcome] {
		res.Status = StatusValid
	} else {
		res.Status = StatusNotApproved
	}
	return res, nil
}

// formatDate renders the stored timestamp in the fixed regional format. A
// zero/garbage value falls back to the raw stored number rather than erroring.
func (s *Service) formatDate(unix int64) string {
	if unix <= 0 {
		return fmt.Sprintf("%d", unix)
	}
	return time.Unix(unix, 0).In(s.loc).Format("02/01/2006")
}
