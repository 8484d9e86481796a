package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateQuestion(t *testing.T) {
	valid := Question{
		ID:         "math-1",
		Prompt:     "What is 2 + 2?",
		Options:    []string{"3", "4", "5"},
		Correct:    1,
		Points:     10,
		Difficulty: DifficultyEasy,
	}
	if err := ValidateQuestion(valid); err != nil {
		t.Fatalf("expected valid question, got %v", err)
	}

	broken := valid
	broken.Options = []string{"only"}
	broken.Correct = 3
	broken.Difficulty = "impossible"
	err := ValidateQuestion(broken)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Issues) != 3 {
		t.Fatalf("expected 3 issues, got %+v", verr.Issues)
	}
}

func TestValidateSubmission(t *testing.T) {
	if err := ValidateSubmission(ScoreSubmission{Username: "ada", Score: 40, Category: "Math"}); err != nil {
		t.Fatalf("expected valid submission, got %v", err)
	}

	err := ValidateSubmission(ScoreSubmission{Username: "   ", Score: -1})
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, field := range []string{"username", "category", "score"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("expected %s in %q", field, err.Error())
		}
	}

	long := strings.Repeat("x", MaxUsernameLength+1)
	if err := ValidateSubmission(ScoreSubmission{Username: long, Category: "Math"}); err == nil {
		t.Fatalf("expected long username to be rejected")
	}
}

func TestDifficultyRank(t *testing.T) {
	if !(DifficultyEasy.Rank() < DifficultyMedium.Rank() && DifficultyMedium.Rank() < DifficultyHard.Rank()) {
		t.Fatalf("unexpected difficulty ordering")
	}
	if Difficulty("other").Valid() {
		t.Fatalf("expected unknown difficulty to be invalid")
	}
}
