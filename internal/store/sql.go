package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("not found")

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// ---- attempts ----

func (s *SQLStore) CreateAttempt(ctx context.Context, a Attempt) error {
	var code any
	if a.CertificateCode != "" {
		code = a.CertificateCode
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO exam_attempts (id,learner_id,course_id,score,outcome,certificate_code,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.LearnerID, a.CourseID, a.Score, a.Outcome, code, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create attempt: %w", err)
	}
	return nil
}

func (s *SQLStore) AttemptByCode(ctx context.Context, code string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,learner_id,course_id,score,outcome,certificate_code,created_at
		FROM exam_attempts WHERE certificate_code=$1`, code)
	return scanAttempt(row)
}

type AttemptListOpts struct {
	LearnerID string
	CourseID  string
	Limit     int
	Offset    int
}

func (s *SQLStore) ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error) {
	q := `SELECT id,learner_id,course_id,score,outcome,certificate_code,created_at FROM exam_attempts WHERE 1=1`
	args := []any{}
	n := 0
	if opts.LearnerID != "" {
		n++
		q += fmt.Sprintf(" AND learner_id=$%d", n)
		args = append(args, opts.LearnerID)
	}
	if opts.CourseID != "" {
		n++
		q += fmt.Sprintf(" AND course_id=$%d", n)
		args = append(args, opts.CourseID)
	}
	q += " ORDER BY created_at DESC"
	if opts.Limit <= 0 || opts.Limit > 200 {
		opts.Limit = 50
	}
	n++
	q += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, opts.Limit)
	n++
	q += fmt.Sprintf(" OFFSET $%d", n)
	args = append(args, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) CountApprovedAttempts(ctx context.Context, learnerID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exam_attempts WHERE learner_id=$1 AND outcome=$2`,
		learnerID, OutcomePassed).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(r rowScanner) (Attempt, error) {
	var a Attempt
	var code sql.NullString
	if err := r.Scan(&a.ID, &a.LearnerID, &a.CourseID, &a.Score, &a.Outcome, &code, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrNotFound
		}
		return Attempt{}, err
	}
	a.CertificateCode = code.String
	return a, nil
}

// ---- learners ----

func (s *SQLStore) Learner(ctx context.Context, id string) (Learner, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,display_name,email,role,cohort_id,expires_at,created_at
		FROM learners WHERE id=$1`, id)
	return scanLearner(row)
}

func (s *SQLStore) LearnerByEmail(ctx context.Context, email string) (Learner, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,display_name,email,role,cohort_id,expires_at,created_at
		FROM learners WHERE email=$1`, email)
	return scanLearner(row)
}

// LearnerCredentials returns the learner plus its stored bcrypt hash.
func (s *SQLStore) LearnerCredentials(ctx context.Context, email string) (Learner, string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,display_name,email,role,cohort_id,expires_at,created_at,password_hash
		FROM learners WHERE email=$1`, email)
	var l Learner
	var cohort sql.NullString
	var expires sql.NullInt64
	var hash string
	if err := row.Scan(&l.ID, &l.DisplayName, &l.Email, &l.Role, &cohort, &expires, &l.CreatedAt, &hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Learner{}, "", ErrNotFound
		}
		return Learner{}, "", err
	}
	l.CohortID = cohort.String
	l.ExpiresAt = expires.Int64
	return l, hash, nil
}

func (s *SQLStore) CreateLearner(ctx context.Context, l Learner, passwordHash string) error {
	var cohort, expires any
	if l.CohortID != "" {
		cohort = l.CohortID
	}
	if l.ExpiresAt != 0 {
		expires = l.ExpiresAt
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO learners (id,display_name,email,role,password_hash,cohort_id,expires_at,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		l.ID, l.DisplayName, l.Email, l.Role, passwordHash, cohort, expires, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("create learner: %w", err)
	}
	return nil
}

func (s *SQLStore) LearnersByCohort(ctx context.Context, cohortID string) ([]Learner, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,display_name,email,role,cohort_id,expires_at,created_at
		FROM learners WHERE cohort_id=$1 ORDER BY created_at`, cohortID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Learner{}
	for rows.Next() {
		l, err := scanLearner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanLearner(r rowScanner) (Learner, error) {
	var l Learner
	var cohort sql.NullString
	var expires sql.NullInt64
	if err := r.Scan(&l.ID, &l.DisplayName, &l.Email, &l.Role, &cohort, &expires, &l.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Learner{}, ErrNotFound
		}
		return Learner{}, err
	}
	l.CohortID = cohort.String
	l.ExpiresAt = expires.Int64
	return l, nil
}

// ---- courses ----

func (s *SQLStore) Course(ctx context.Context, id string) (Course, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,skills_text,questions_json,created_at FROM courses WHERE id=$1`, id)
	var c Course
	if err := row.Scan(&c.ID, &c.Title, &c.SkillsText, &c.QuestionsJSON, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, ErrNotFound
		}
		return Course{}, err
	}
	return c, nil
}

func (s *SQLStore) PutCourse(ctx context.Context, c Course) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO courses (id,title,skills_text,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, skills_text=EXCLUDED.skills_text, questions_json=EXCLUDED.questions_json`,
		c.ID, c.Title, c.SkillsText, c.QuestionsJSON, time.Now().Unix())
	return err
}

// ---- cohorts ----

func (s *SQLStore) CreateCohort(ctx context.Context, c Cohort) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO cohorts (id,name,validity_days,created_at) VALUES ($1,$2,$3,$4)`,
		c.ID, c.Name, c.ValidityDays, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create cohort: %w", err)
	}
	return nil
}

func (s *SQLStore) Cohort(ctx context.Context, id string) (Cohort, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,name,validity_days,created_at FROM cohorts WHERE id=$1`, id)
	return scanCohort(row)
}

func (s *SQLStore) CohortByName(ctx context.Context, name string) (Cohort, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,name,validity_days,created_at FROM cohorts WHERE name=$1 ORDER BY created_at LIMIT 1`, name)
	return scanCohort(row)
}

func scanCohort(r rowScanner) (Cohort, error) {
	var c Cohort
	if err := r.Scan(&c.ID, &c.Name, &c.ValidityDays, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Cohort{}, ErrNotFound
		}
		return Cohort{}, err
	}
	return c, nil
}

// InsertAllowEntries bulk-inserts codes for a cohort. Codes already present are
// skipped, not failed; the returned count is the number actually inserted.
func (s *SQLStore) InsertAllowEntries(ctx context.Context, cohortID string, codes []string) (int, error) {
	now := time.Now().Unix()
	inserted := 0
	for _, code := range codes {
		res, err := s.db.ExecContext(ctx, `INSERT INTO cohort_codes (cohort_id,code,created_at)
			VALUES ($1,$2,$3) ON CONFLICT (cohort_id,code) DO NOTHING`,
			cohortID, code, now)
		if err != nil {
			return inserted, fmt.Errorf("insert code %s: %w", code, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func (s *SQLStore) AllowEntries(ctx context.Context, cohortID string) ([]AllowEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT cohort_id,code,used_at,created_at FROM cohort_codes
		WHERE cohort_id=$1 ORDER BY created_at, code`, cohortID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []AllowEntry{}
	for rows.Next() {
		var e AllowEntry
		var used sql.NullInt64
		if err := rows.Scan(&e.CohortID, &e.Code, &used, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.UsedAt = used.Int64
		out = append(out, e)
	}
	return out, rows.Err()
}

// ConsumeAllowEntry marks an unused allow-list code as used and returns its
// entry. A code already consumed (or unknown) yields ErrNotFound; the
// used_at guard in the UPDATE makes consumption single-shot.
func (s *SQLStore) ConsumeAllowEntry(ctx context.Context, code string) (AllowEntry, error) {
	var e AllowEntry
	now := time.Now().Unix()
	row := s.db.QueryRowContext(ctx, `UPDATE cohort_codes SET used_at=$1
		WHERE code=$2 AND used_at IS NULL
		RETURNING cohort_id,code,used_at,created_at`, now, code)
	var used sql.NullInt64
	if err := row.Scan(&e.CohortID, &e.Code, &used, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AllowEntry{}, ErrNotFound
		}
		return AllowEntry{}, err
	}
	e.UsedAt = used.Int64
	return e, nil
}

// ---- notifications ----

func (s *SQLStore) CreateNotification(ctx context.Context, n Notification) error {
	var expires any
	if n.ExpiresAt != 0 {
		expires = n.ExpiresAt
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO notifications (id,recipient,subject,body,created_at,expires_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		n.ID, n.Recipient, n.Subject, n.Body, n.CreatedAt, expires)
	return err
}

func (s *SQLStore) ListNotifications(ctx context.Context, recipient string) ([]Notification, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,recipient,subject,body,created_at,expires_at FROM notifications
		WHERE recipient=$1 ORDER BY created_at DESC`, recipient)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Notification{}
	for rows.Next() {
		var n Notification
		var expires sql.NullInt64
		if err := rows.Scan(&n.ID, &n.Recipient, &n.Subject, &n.Body, &n.CreatedAt, &expires); err != nil {
			return nil, err
		}
		n.ExpiresAt = expires.Int64
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *SQLStore) ExpireNotifications(ctx context.Context, now int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE expires_at IS NOT NULL AND expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
