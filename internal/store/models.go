package store

// Outcome values persisted on an exam attempt. "Aprovado"/"Reprovado" are the
// canonical stored tokens; the validator additionally accepts legacy ones.
const (
	OutcomePassed = "Aprovado"
	OutcomeFailed = "Reprovado"
)

type Attempt struct {
	ID              string `json:"id"`
	LearnerID       string `json:"learner_id"`
	CourseID        string `json:"course_id"`
	Score           int    `json:"score"`
	Outcome         string `json:"outcome"`
	CertificateCode string `json:"certificate_code,omitempty"`
	CreatedAt       int64  `json:"created_at"`
}

type Learner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CohortID    string `json:"cohort_id,omitempty"`
	ExpiresAt   int64  `json:"expires_at,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

type Course struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	SkillsText string `json:"skills_text"`
	// Raw question payload; parsed and validated by the quiz package.
	QuestionsJSON string `json:"-"`
	CreatedAt     int64  `json:"created_at"`
}

type Cohort struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ValidityDays int    `json:"validity_days"`
	CreatedAt    int64  `json:"created_at"`
}

type AllowEntry struct {
	CohortID  string `json:"cohort_id"`
	Code      string `json:"code"`
	UsedAt    int64  `json:"used_at,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type Notification struct {
	ID        string `json:"id"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}
