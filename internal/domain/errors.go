package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCategoryRequired is returned when a question request names no category.
	ErrCategoryRequired = errors.New("category is required")
	// ErrNoQuestions indicates a category has no questions in any source.
	ErrNoQuestions = errors.New("no questions found for category")
	// ErrDatabaseUnavailable is returned by admin operations that need Postgres.
	ErrDatabaseUnavailable = errors.New("database not configured")
	// ErrBundleNotFound indicates a category has no bundled question file.
	ErrBundleNotFound = errors.New("question bundle not found")
)

// Issue is a single field-level validation problem.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports one or more invalid fields.
type ValidationError struct {
	Issues []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s %s", issue.Field, issue.Message))
	}
	return strings.Join(parts, "; ")
}

// Issues collects validation problems and turns them into a *ValidationError.
type Issues struct {
	list []Issue
}

func (c *Issues) Add(field, message string) {
	c.list = append(c.list, Issue{Field: field, Message: message})
}

// Err returns nil when nothing was collected.
func (c *Issues) Err() error {
	if len(c.list) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.list}
}
