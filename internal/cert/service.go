package cert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ativbrasil/arsenal/internal/quiz"
	"github.com/ativbrasil/arsenal/internal/store"
)

// Store is the slice of persistence the issuance workflow needs.
type Store interface {
	CreateAttempt(ctx context.Context, a store.Attempt) error
	AttemptByCode(ctx context.Context, code string) (store.Attempt, error)
	Learner(ctx context.Context, id string) (store.Learner, error)
	Course(ctx context.Context, id string) (store.Course, error)
}

// Notifier delivers the operator notice for an issued certificate.
type Notifier interface {
	CertificateIssued(ctx context.Context, learner store.Learner, course store.Course, score int, code string) error
}

// Archive optionally keeps a copy of rendered PDFs. The stored attempt is
// authoritative either way; the artifact can always be re-rendered.
type Archive interface {
	Put(key string, r io.Reader) (string, error)
}

type Service struct {
	store             Store
	notifier          Notifier
	archive           Archive // may be nil
	validationBaseURL string
	logger            *log.Logger
}

func NewService(st Store, n Notifier, ar Archive, validationBaseURL string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{store: st, notifier: n, archive: ar, validationBaseURL: validationBaseURL, logger: logger}
}

// Issued is the outcome of one issuance run.
type Issued struct {
	Attempt  store.Attempt
	PDF      []byte // nil for failed attempts
	Filename string
	Warning  string // set when the operator notification could not be delivered
}

// Issue persists the attempt and, for a passing result, mints a certificate
// code, notifies operations and renders the PDF. The attempt insert happens
// strictly first; once it commits it is never rolled back. A notification
// failure is downgraded to a warning. A render failure is returned as an
// error, but the persisted attempt and code stay valid: callers can re-render
// later with Render.
func (s *Service) Issue(ctx context.Context, learnerID, courseID string, res quiz.Result) (Issued, error) {
	learner, err := s.store.Learner(ctx, learnerID)
	if err != nil {
		return Issued{}, fmt.Errorf("issue: learner %s: %w", learnerID, err)
	}
	course, err := s.store.Course(ctx, courseID)
	if err != nil {
		return Issued{}, fmt.Errorf("issue: course %s: %w", courseID, err)
	}

	a := store.Attempt{
		ID:        uuid.NewString(),
		LearnerID: learnerID,
		CourseID:  courseID,
		Score:     res.Score,
		Outcome:   store.OutcomeFailed,
		CreatedAt: time.Now().Unix(),
	}
	if res.Passed {
		code, err := NewCode(IssueCodeLen)
		if err != nil {
			return Issued{}, fmt.Errorf("issue: %w", err)
		}
		a.Outcome = store.OutcomePassed
		a.CertificateCode = code
	}
	if err := s.store.CreateAttempt(ctx, a); err != nil {
		return Issued{}, fmt.Errorf("issue: %w", err)
	}
	out := Issued{Attempt: a}
	if !res.Passed {
		return out, nil
	}

	if s.notifier != nil {
		if err := s.notifier.CertificateIssued(ctx, learner, course, a.Score, a.CertificateCode); err != nil {
			out.Warning = "operator notification failed: " + err.Error()
			s.logger.Printf("certificate %s: %s", a.CertificateCode, out.Warning)
		}
	}

	pdf, err := Render(Certificate{
		LearnerName: learner.DisplayName,
		CourseTitle: course.Title,
		Code:        a.CertificateCode,
		SkillsText:  course.SkillsText,
		IssuedAt:    time.Unix(a.CreatedAt, 0),
	}, s.validationBaseURL)
	if err != nil {
		s.logger.Printf("certificate %s: render failed: %v", a.CertificateCode, err)
		return out, fmt.Errorf("certificate generation failed: %w", err)
	}
	out.PDF = pdf
	out.Filename = Filename(a.CertificateCode)
	s.archivePDF(out.Filename, pdf)
	return out, nil
}

// Render re-renders the certificate for an existing code from stored data.
// It performs no writes, so re-running it is always safe.
func (s *Service) Render(ctx context.Context, code string) ([]byte, string, error) {
	a, err := s.store.AttemptByCode(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("render %s: %w", code, err)
	}
	var learnerName, courseTitle, skills string
	if l, err := s.store.Learner(ctx, a.LearnerID); err == nil {
		learnerName = l.DisplayName
	}
	if c, err := s.store.Course(ctx, a.CourseID); err == nil {
		courseTitle = c.Title
		skills = c.SkillsText
	}
	pdf, err := Render(Certificate{
		LearnerName: learnerName,
		CourseTitle: courseTitle,
		Code:        a.CertificateCode,
		SkillsText:  skills,
		IssuedAt:    time.Unix(a.CreatedAt, 0),
	}, s.validationBaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("certificate generation failed: %w", err)
	}
	return pdf, Filename(a.CertificateCode), nil
}

func (s *Service) archivePDF(name string, pdf []byte) {
	if s.archive == nil {
		return
	}
	if _, err := s.archive.Put(name, bytes.NewReader(pdf)); err != nil {
		s.logger.Printf("archive %s: %v", name, err)
	}
}
