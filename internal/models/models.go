// Package models defines the core data structures for TriageFlow.
//
// It includes the question and domain definitions shared by the engine,
// scorers, store, and API modules.
package models

import (
	"errors"
)

// QuestionType defines how a question's answer value is interpreted and validated.
type QuestionType string

const (
	// QuestionTypeNumber expects a numeric answer within the declared range.
	QuestionTypeNumber QuestionType = "number"
	// QuestionTypeScale expects an integer on a bounded rating scale.
	QuestionTypeScale QuestionType = "scale"
	// QuestionTypeBoolean expects a true/false answer.
	QuestionTypeBoolean QuestionType = "boolean"
	// QuestionTypeSelect expects exactly one of the declared options.
	QuestionTypeSelect QuestionType = "select"
	// QuestionTypeMultiSelect expects zero or more of the declared options.
	QuestionTypeMultiSelect QuestionType = "multiselect"
	// QuestionTypeText expects free text.
	QuestionTypeText QuestionType = "text"
)

// IsValidQuestionType checks if the given question type is supported.
func IsValidQuestionType(qt QuestionType) bool {
	switch qt {
	case QuestionTypeNumber, QuestionTypeScale, QuestionTypeBoolean,
		QuestionTypeSelect, QuestionTypeMultiSelect, QuestionTypeText:
		return true
	default:
		return false
	}
}

// Error variables for better error handling and testability
var (
	ErrSessionNotStarted = errors.New("session has not been started")
	ErrSessionComplete   = errors.New("session is already complete")
	ErrSessionAbandoned  = errors.New("session has been abandoned")
	ErrInvalidTransition = errors.New("answer does not match the currently expected question")
	ErrNoPendingDomain   = errors.New("no domain transition is pending")
	ErrValueType         = errors.New("answer value has the wrong type for this question")
	ErrValueOutOfRange   = errors.New("answer value is outside the allowed range")
	ErrUnknownOption     = errors.New("answer value is not one of the allowed options")
	ErrMissingValue      = errors.New("answer value is required")
	ErrResultsNotReady   = errors.New("results are not available until the session completes")
	ErrUnknownDomain     = errors.New("unknown domain id")
)

// Range bounds a numeric or scale answer, both ends inclusive.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Condition gates a question on a previously recorded answer. The question
// is only surfaced when the referenced answer matches one of Values.
type Condition struct {
	QuestionID string `json:"question_id"`
	Values     []any  `json:"values"`
}

// Question describes a single prompt in the triage or domain sequences.
type Question struct {
	ID            string       `json:"id"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Required      bool         `json:"required"`
	Options       []string     `json:"options,omitempty"`
	Validation    *Range       `json:"validation,omitempty"`
	ConditionalOn *Condition   `json:"conditional_on,omitempty"`
	RiskWeight    float64      `json:"risk_weight,omitempty"`
}

// Domain identifiers. Declaration order in the engine registry is also the
// tie-break order used by the selector.
const (
	DomainMentalHealth   = "mental_health"
	DomainPainManagement = "pain_management"
	DomainChronicDisease = "chronic_disease"
	DomainLifestyle      = "lifestyle"
	DomainFamilyHistory  = "family_history"
	DomainValidation     = "validation"
)

// DomainInfo is the wire-facing descriptor announced on a domain transition.
type DomainInfo struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Priority      int    `json:"priority"`
	QuestionCount int    `json:"question_count"`
}

// Stage identifies where a session is in its lifecycle.
type Stage string

const (
	StageNotStarted Stage = "not_started"
	StageTriage     Stage = "triage"
	StageTransition Stage = "transition"
	StageDomain     Stage = "domain"
	StageComplete   Stage = "complete"
	StageAbandoned  Stage = "abandoned"
)

// FlowResultKind tags the variant carried by a FlowResult.
type FlowResultKind string

const (
	// FlowResultQuestion carries the next question to render.
	FlowResultQuestion FlowResultKind = "question"
	// FlowResultDomainTransition announces the next domain; the caller
	// acknowledges with the _continue pseudo-input.
	FlowResultDomainTransition FlowResultKind = "domain_transition"
	// FlowResultComplete carries the final session results.
	FlowResultComplete FlowResultKind = "complete"
)

// FlowResult is the tagged variant returned by every ProcessResponse call.
// Exactly one of Question, Domain, or Results is set, per Kind.
type FlowResult struct {
	Kind     FlowResultKind `json:"kind"`
	Question *Question      `json:"question,omitempty"`
	Domain   *DomainInfo    `json:"domain,omitempty"`
	Results  *Results       `json:"results,omitempty"`
}

// Pseudo-inputs accepted by ProcessResponse alongside real question ids.
const (
	// PseudoInit bootstraps a session and returns the first triage question.
	PseudoInit = "_init"
	// PseudoContinue advances past a domain_transition announcement into
	// that domain's first question without recording an answer.
	PseudoContinue = "_continue"
)
