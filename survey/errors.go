package survey

import (
	"errors"
	"fmt"
)

// ErrQuestionnaireNotFound is returned when the referenced questionnaire
// does not exist.
var ErrQuestionnaireNotFound = errors.New("questionnaire not found")

// ValidationError rejects a submission for bad or missing content. Nothing
// is persisted when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// EligibilityError rejects a submission because the questionnaire is not
// currently accepting responses.
type EligibilityError struct {
	Message string
}

func (e *EligibilityError) Error() string { return e.Message }

// PersistenceError wraps an unexpected failure during the atomic write; the
// transaction has been rolled back when one is returned.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "submission failed: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }
