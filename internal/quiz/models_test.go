package quiz_test

import (
	"testing"

	"github.com/ativbrasil/arsenal/internal/quiz"
)

func TestParseQuestions(t *testing.T) {
	qs, err := quiz.ParseQuestions([]byte(`[
		{"id":"q1","prompt":"Qual?","options":["a","b","c"],"correct":2},
		{"id":"q2","prompt":"Quando?","options":["x","y"],"correct":0}
	]`))
	if err != nil {
		t.Fatalf("ParseQuestions: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want 2", len(qs))
	}
	if qs[0].Correct != 2 {
		t.Errorf("q1 correct = %d, want 2", qs[0].Correct)
	}
}

func TestParseQuestionsRejectsMalformed(t *testing.T) {
	bad := map[string]string{
		"not json":            `{oops`,
		"missing prompt":      `[{"id":"q1","options":["a","b"],"correct":0}]`,
		"one option":          `[{"id":"q1","prompt":"p","options":["a"],"correct":0}]`,
		"correct out of range": `[{"id":"q1","prompt":"p","options":["a","b"],"correct":5}]`,
		"negative correct":    `[{"id":"q1","prompt":"p","options":["a","b"],"correct":-1}]`,
	}
	for name, payload := range bad {
		if _, err := quiz.ParseQuestions([]byte(payload)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestParseQuestionsEmpty(t *testing.T) {
	qs, err := quiz.ParseQuestions(nil)
	if err != nil || qs != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", qs, err)
	}
}
