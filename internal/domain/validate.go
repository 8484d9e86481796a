package domain

import (
	"fmt"
	"strings"
)

// ValidateQuestion checks the structural invariants of a question.
func ValidateQuestion(q Question) error {
	issues := &Issues{}
	if strings.TrimSpace(q.ID) == "" {
		issues.Add("id", "is required")
	}
	if strings.TrimSpace(q.Prompt) == "" {
		issues.Add("question", "is required")
	}
	if n := len(q.Options); n < MinOptions || n > MaxOptions {
		issues.Add("options", fmt.Sprintf("must have %d-%d entries, got %d", MinOptions, MaxOptions, n))
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			issues.Add(fmt.Sprintf("options[%d]", i), "is empty")
		}
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		issues.Add("correct", fmt.Sprintf("index %d out of range", q.Correct))
	}
	if q.Points < 0 {
		issues.Add("points", "must not be negative")
	}
	if !q.Difficulty.Valid() {
		issues.Add("difficulty", fmt.Sprintf("unknown difficulty %q", q.Difficulty))
	}
	return issues.Err()
}

// ValidateSubmission checks a score submission before it is stored.
func ValidateSubmission(sub ScoreSubmission) error {
	issues := &Issues{}
	name := strings.TrimSpace(sub.Username)
	if name == "" {
		issues.Add("username", "is required")
	} else if len([]rune(name)) > MaxUsernameLength {
		issues.Add("username", fmt.Sprintf("must be at most %d characters", MaxUsernameLength))
	}
	if strings.TrimSpace(sub.Category) == "" {
		issues.Add("category", "is required")
	}
	if sub.Score < 0 {
		issues.Add("score", "must not be negative")
	}
	return issues.Err()
}

// MaxUsernameLength bounds leaderboard nicknames.
const MaxUsernameLength = 64
