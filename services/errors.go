package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/romuloroldao/Black-House-sub001/importer"
)

// ErrImportNotFound is returned when a confirm call references an unknown
// preview token.
var ErrImportNotFound = errors.New("import record not found")

// ErrAlreadyConfirmed is returned when a preview token is confirmed twice.
var ErrAlreadyConfirmed = errors.New("import record already confirmed")

// ErrStudentNotFound is returned when a confirm call targets a student that
// does not exist.
var ErrStudentNotFound = errors.New("student not found")

// ValidationError carries the structural schema issues that stopped a
// payload.
type ValidationError struct {
	Issues []importer.Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("payload failed schema validation: %s", strings.Join(parts, "; "))
}

// RuleError carries business-rule violations. At confirm time a non-empty
// warning list is a hard failure.
type RuleError struct {
	Warnings []string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("payload failed business validation: %s", strings.Join(e.Warnings, "; "))
}
