package engine

import (
	"fmt"
	"math"

	"github.com/LumenHealth/TriageFlow/internal/models"
)

// validateAnswer checks a raw answer value against the question's declared
// type, options, and range. Rejected values are never stored.
func validateAnswer(q *models.Question, value any) error {
	if value == nil {
		return fmt.Errorf("question %s: %w", q.ID, models.ErrMissingValue)
	}
	switch q.Type {
	case models.QuestionTypeNumber, models.QuestionTypeScale:
		n, ok := models.AsNumber(value)
		if !ok {
			return fmt.Errorf("question %s expects a number: %w", q.ID, models.ErrValueType)
		}
		if q.Type == models.QuestionTypeScale && n != math.Trunc(n) {
			return fmt.Errorf("question %s expects a whole number: %w", q.ID, models.ErrValueType)
		}
		if q.Validation != nil && (n < q.Validation.Min || n > q.Validation.Max) {
			return fmt.Errorf("question %s value %v outside [%v, %v]: %w",
				q.ID, n, q.Validation.Min, q.Validation.Max, models.ErrValueOutOfRange)
		}
	case models.QuestionTypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("question %s expects a boolean: %w", q.ID, models.ErrValueType)
		}
	case models.QuestionTypeSelect:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("question %s expects a string option: %w", q.ID, models.ErrValueType)
		}
		if !optionAllowed(q.Options, s) {
			return fmt.Errorf("question %s option %q: %w", q.ID, s, models.ErrUnknownOption)
		}
	case models.QuestionTypeMultiSelect:
		values, ok := models.AsStrings(value)
		if !ok {
			return fmt.Errorf("question %s expects a list of options: %w", q.ID, models.ErrValueType)
		}
		for _, s := range values {
			if !optionAllowed(q.Options, s) {
				return fmt.Errorf("question %s option %q: %w", q.ID, s, models.ErrUnknownOption)
			}
		}
	case models.QuestionTypeText:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("question %s expects text: %w", q.ID, models.ErrValueType)
		}
	default:
		return fmt.Errorf("question %s has unsupported type %q: %w", q.ID, q.Type, models.ErrValueType)
	}
	return nil
}

func optionAllowed(options []string, s string) bool {
	for _, opt := range options {
		if opt == s {
			return true
		}
	}
	return false
}

// conditionMet reports whether a question's gating condition is satisfied by
// the responses recorded so far. An unanswered reference never matches.
func conditionMet(cond *models.Condition, rs models.ResponseSet) bool {
	if cond == nil {
		return true
	}
	answer, ok := rs[cond.QuestionID]
	if !ok {
		return false
	}
	for _, want := range cond.Values {
		if valueMatches(answer.Value, want) {
			return true
		}
	}
	return false
}

// valueMatches compares a recorded answer to a condition value. Numeric
// answers compare numerically (JSON numbers arrive as float64, condition
// tables are written with ints); multiselect answers match if any selected
// option equals the condition value.
func valueMatches(got, want any) bool {
	if gn, ok := models.AsNumber(got); ok {
		if wn, ok := models.AsNumber(want); ok {
			return gn == wn
		}
		return false
	}
	if list, ok := models.AsStrings(got); ok {
		ws, ok := want.(string)
		if !ok {
			return false
		}
		for _, item := range list {
			if item == ws {
				return true
			}
		}
		return false
	}
	return got == want
}
