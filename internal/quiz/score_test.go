package quiz_test

import (
	"testing"

	"github.com/ativbrasil/arsenal/internal/quiz"
)

func q(correct int) quiz.Question {
	return quiz.Question{ID: "q", Prompt: "p", Options: []string{"a", "b", "c"}, Correct: correct}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		questions []quiz.Question
		answers   []int
		wantScore int
		wantPass  bool
	}{
		{"all correct", []quiz.Question{q(0), q(1), q(2)}, []int{0, 1, 2}, 100, true},
		{"all wrong", []quiz.Question{q(0), q(1)}, []int{1, 0}, 0, false},
		{"two thirds", []quiz.Question{q(0), q(1), q(2)}, []int{0, 1, 0}, 67, false},
		{"nine of ten", []quiz.Question{q(0), q(0), q(0), q(0), q(0), q(0), q(0), q(0), q(0), q(0)}, []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, 90, true},
		{"zero questions fails", nil, nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := quiz.Score(tt.questions, tt.answers)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if res.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", res.Score, tt.wantScore)
			}
			if res.Passed != tt.wantPass {
				t.Errorf("passed = %v, want %v", res.Passed, tt.wantPass)
			}
			if res.Score < 0 || res.Score > 100 {
				t.Errorf("score %d out of range", res.Score)
			}
		})
	}
}

func TestScoreAnswerCountMismatch(t *testing.T) {
	if _, err := quiz.Score([]quiz.Question{q(0), q(1)}, []int{0}); err == nil {
		t.Fatal("expected error for mismatched answer count")
	}
}
