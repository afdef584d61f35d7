package quiz

import (
	"fmt"
	"math"
)

// PassThreshold is the minimum percentage score for approval.
const PassThreshold = 90

type Result struct {
	Score  int  `json:"score"` // 0..100
	Passed bool `json:"passed"`
}

// Score grades a full submission. answers[i] is the chosen option index for
// questions[i]. A course with zero questions scores 0 and fails: an empty
// quiz can never certify.
func Score(questions []Question, answers []int) (Result, error) {
	if len(answers) != len(questions) {
		return Result{}, fmt.Errorf("expected %d answers, got %d", len(questions), len(answers))
	}
	if len(questions) == 0 {
		return Result{Score: 0, Passed: false}, nil
	}
	correct := 0
	for i, q := range questions {
		if answers[i] == q.Correct {
			correct++
		}
	}
	score := int(math.Round(100 * float64(correct) / float64(len(questions))))
	return Result{Score: score, Passed: score >= PassThreshold}, nil
}
