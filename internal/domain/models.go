package domain

import "time"

// Difficulty tags how hard a question is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Rank orders difficulties from easy to hard. Unknown tags sort last.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	default:
		return 4
	}
}

// Valid reports whether d is one of the known tags.
func (d Difficulty) Valid() bool {
	return d.Rank() < 4
}

const (
	MinOptions = 2
	MaxOptions = 6
)

// Question models a multiple-choice question with exactly one correct option.
type Question struct {
	ID         string     `json:"id"`
	Prompt     string     `json:"question"`
	Options    []string   `json:"options"`
	Correct    int        `json:"correct"` // zero-based index into Options
	Points     int        `json:"points"`
	Difficulty Difficulty `json:"difficulty"`
}

// IsCorrect reports whether option is the correct answer.
func (q Question) IsCorrect(option int) bool {
	return option == q.Correct
}

// Source tags where a question set was loaded from.
type Source string

const (
	SourceDatabase Source = "database"
	SourceStatic   Source = "static"
)

// QuestionSet is the full pool of questions for one category.
type QuestionSet struct {
	Category  string     `json:"category"`
	Questions []Question `json:"questions"`
	Source    Source     `json:"source"`
}

// CategoryGroup separates the classic categories from the offbeat ones.
type CategoryGroup string

const (
	GroupClassic     CategoryGroup = "classic"
	GroupInteresting CategoryGroup = "interesting"
)

// Category describes a playable question category.
type Category struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Group       CategoryGroup `json:"group"`
}

// ScoreSubmission is what a finished session sends to the score sink.
type ScoreSubmission struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Category string `json:"category"`
}

// ScoreRecord is a stored leaderboard row. It is never mutated after creation.
type ScoreRecord struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// Leaderboard is an ordered snapshot of top scores for a category ("" means all categories).
type Leaderboard struct {
	Category  string        `json:"category"`
	Scores    []ScoreRecord `json:"scores"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// CategoryCount is the number of stored questions for one category.
type CategoryCount struct {
	CategoryID string `json:"categoryId"`
	Count      int    `json:"count"`
}

// DatabaseStats summarizes what the question and score stores hold.
type DatabaseStats struct {
	TableExists     bool            `json:"tableExists"`
	TotalQuestions  int             `json:"totalQuestions"`
	CategoryCounts  []CategoryCount `json:"categoryCounts"`
	TotalScores     int             `json:"totalScores"`
	SampleQuestions []Question      `json:"sampleQuestions,omitempty"`
	Source          Source          `json:"source"`
}

// ImportStatus is the outcome of importing one category bundle.
type ImportStatus string

const (
	ImportSuccess ImportStatus = "success"
	ImportError   ImportStatus = "error"
	ImportMissing ImportStatus = "missing"
)

// ImportResult reports how one category import went.
type ImportResult struct {
	Category string       `json:"category"`
	Imported int          `json:"imported"`
	Status   ImportStatus `json:"status"`
	Error    string       `json:"error,omitempty"`
}
