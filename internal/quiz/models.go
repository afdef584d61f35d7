package quiz

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Question is one multiple-choice item. Correct indexes into Options.
type Question struct {
	ID      string   `json:"id" validate:"required"`
	Prompt  string   `json:"prompt" validate:"required"`
	Options []string `json:"options" validate:"required,min=2,max=5,dive,required"`
	Correct int      `json:"correct" validate:"gte=0"`
}

var validate = validator.New()

// ParseQuestions parses and validates a stored question payload at the
// boundary, so malformed course records fail here with a clear error instead
// of at scoring or render time.
func ParseQuestions(raw []byte) ([]Question, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var qs []Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, fmt.Errorf("questions payload: %w", err)
	}
	for i, q := range qs {
		if err := validate.Struct(q); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		if q.Correct >= len(q.Options) {
			return nil, fmt.Errorf("question %d: correct index %d out of range (%d options)", i, q.Correct, len(q.Options))
		}
	}
	return qs, nil
}
