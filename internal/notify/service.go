package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ativbrasil/arsenal/internal/store"
)

type Store interface {
	CreateNotification(ctx context.Context, n store.Notification) error
	ListNotifications(ctx context.Context, recipient string) ([]store.Notification, error)
	ExpireNotifications(ctx context.Context, now int64) (int64, error)
}

// Mailer delivers a notification out-of-band. Use NopMailer when email is
// not configured.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type NopMailer struct{}

func (NopMailer) Send(context.Context, string, string, string) error { return nil }

// Service is the operator notification queue: records are persisted first,
// email delivery is best-effort on top.
type Service struct {
	store    Store
	mailer   Mailer
	opsInbox string
	ttl      time.Duration
	logger   *log.Logger
}

func NewService(st Store, m Mailer, opsInbox string, logger *log.Logger) *Service {
	if m == nil {
		m = NopMailer{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{store: st, mailer: m, opsInbox: opsInbox, ttl: 90 * 24 * time.Hour, logger: logger}
}

// CertificateIssued queues the fixed operational notice for a new
// certificate. The persisted record is the source of truth; a mail failure
// is folded into the returned error but never undoes the record.
func (s *Service) CertificateIssued(ctx context.Context, learner store.Learner, course store.Course, score int, code string) error {
	now := time.Now()
	subject := fmt.Sprintf("Certificado emitido: %s", code)
	body := fmt.Sprintf("Aluno: %s\nCurso: %s\nNota: %d\nCódigo: %s", learner.DisplayName, course.Title, score, code)
	n := store.Notification{
		ID:        uuid.NewString(),
		Recipient: s.opsInbox,
		Subject:   subject,
		Body:      body,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	if err := s.mailer.Send(ctx, s.opsInbox, subject, body); err != nil {
		return fmt.Errorf("notify: mail: %w", err)
	}
	return nil
}

// Inbox lists queued notifications for a recipient.
func (s *Service) Inbox(ctx context.Context, recipient string) ([]store.Notification, error) {
	if recipient == "" {
		recipient = s.opsInbox
	}
	return s.store.ListNotifications(ctx, recipient)
}

// Expire drops notifications past their TTL.
func (s *Service) Expire(ctx context.Context) (int64, error) {
	n, err := s.store.ExpireNotifications(ctx, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Printf("expired %d notifications", n)
	}
	return n, nil
}
