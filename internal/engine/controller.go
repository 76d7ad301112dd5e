package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/LumenHealth/TriageFlow/internal/models"
	"github.com/LumenHealth/TriageFlow/internal/scoring"
)

// Controller is the per-session flow state machine. It owns the response
// set, the visited-domain set, and the cursor over the active question
// sequence. It is strictly sequential: callers must serialize
// ProcessResponse calls against one instance; there is no internal locking.
//
// ProcessResponse is modeled as a pure transition over this explicit state:
// every branch either rejects the input (state unchanged) or advances the
// state and returns exactly one FlowResult.
type Controller struct {
	registry *Registry

	stage         models.Stage
	currentDomain string // "" while in triage
	pendingDomain string // set while a domain_transition awaits _continue
	queue         []models.Question
	cursor        int
	responses     models.ResponseSet
	visited       map[string]bool
	domainOrder   []string // domains entered, in order
	results       *models.Results
	now           func() time.Time
}

// New creates a controller over the default registry.
func New() *Controller {
	return NewWithRegistry(DefaultRegistry())
}

// NewWithRegistry creates a controller over a custom registry. Tests use
// this to pin trigger boundaries without the full question catalog.
func NewWithRegistry(r *Registry) *Controller {
	return &Controller{
		registry:  r,
		stage:     models.StageNotStarted,
		responses: make(models.ResponseSet),
		visited:   make(map[string]bool),
		now:       time.Now,
	}
}

// Stage returns the current lifecycle stage.
func (c *Controller) Stage() models.Stage {
	return c.stage
}

// CurrentDomain returns the id of the active domain, or "" during triage
// and before _init.
func (c *Controller) CurrentDomain() string {
	return c.currentDomain
}

// CurrentQuestion returns the question the controller expects an answer to,
// or nil when none is pending (before _init, during a transition
// announcement, and after completion).
func (c *Controller) CurrentQuestion() *models.Question {
	if c.stage != models.StageTriage && c.stage != models.StageDomain {
		return nil
	}
	if c.cursor >= len(c.queue) {
		return nil
	}
	q := c.queue[c.cursor]
	return &q
}

// Responses returns a read-only snapshot of the recorded answers. Rejected
// writes are never visible here.
func (c *Controller) Responses() models.ResponseSet {
	return c.responses.Clone()
}

// Results returns the final results once the session is complete.
func (c *Controller) Results() (*models.Results, error) {
	if c.results == nil {
		return nil, models.ErrResultsNotReady
	}
	return c.results, nil
}

// Abandon is the explicit external abandon transition. It is terminal.
func (c *Controller) Abandon() error {
	switch c.stage {
	case models.StageComplete:
		return models.ErrSessionComplete
	case models.StageAbandoned:
		return models.ErrSessionAbandoned
	}
	slog.Info("Controller.Abandon: session abandoned", "stage", c.stage, "domain", c.currentDomain)
	c.stage = models.StageAbandoned
	c.queue = nil
	c.cursor = 0
	c.pendingDomain = ""
	c.currentDomain = ""
	return nil
}

// ProcessResponse is the single mutating entry point. questionID is either
// a pseudo-input (_init, _continue) or the id of the currently expected
// question. Any other id is rejected with ErrInvalidTransition and leaves
// the response set untouched.
func (c *Controller) ProcessResponse(questionID string, value any) (models.FlowResult, error) {
	slog.Debug("Controller.ProcessResponse: invoked", "question_id", questionID, "stage", c.stage)
	switch c.stage {
	case models.StageComplete:
		return models.FlowResult{}, models.ErrSessionComplete
	case models.StageAbandoned:
		return models.FlowResult{}, models.ErrSessionAbandoned
	}

	switch questionID {
	case models.PseudoInit:
		return c.handleInit()
	case models.PseudoContinue:
		return c.handleContinue()
	}

	if c.stage == models.StageNotStarted {
		return models.FlowResult{}, models.ErrSessionNotStarted
	}
	if c.stage == models.StageTransition {
		slog.Warn("Controller.ProcessResponse: answer received while transition pending", "question_id", questionID, "pending", c.pendingDomain)
		return models.FlowResult{}, models.ErrInvalidTransition
	}

	expected := c.CurrentQuestion()
	if expected == nil || expected.ID != questionID {
		slog.Warn("Controller.ProcessResponse: unexpected question id", "got", questionID, "expected", expectedID(expected))
		return models.FlowResult{}, fmt.Errorf("got answer for %q: %w", questionID, models.ErrInvalidTransition)
	}
	if err := validateAnswer(expected, value); err != nil {
		slog.Warn("Controller.ProcessResponse: answer rejected", "question_id", questionID, "error", err)
		return models.FlowResult{}, err
	}

	c.responses[expected.ID] = models.Response{
		QuestionID: expected.ID,
		Value:      value,
		Timestamp:  c.now(),
	}
	c.cursor++
	c.skipIneligible()
	return c.advance()
}

func expectedID(q *models.Question) string {
	if q == nil {
		return ""
	}
	return q.ID
}

func (c *Controller) handleInit() (models.FlowResult, error) {
	if c.stage != models.StageNotStarted {
		slog.Warn("Controller.handleInit: _init on started session", "stage", c.stage)
		return models.FlowResult{}, models.ErrInvalidTransition
	}
	c.stage = models.StageTriage
	c.queue = c.registry.Triage()
	c.cursor = 0
	c.skipIneligible()
	slog.Info("Controller.handleInit: session started", "triage_questions", len(c.queue))
	return c.advance()
}

func (c *Controller) handleContinue() (models.FlowResult, error) {
	if c.stage != models.StageTransition || c.pendingDomain == "" {
		return models.FlowResult{}, models.ErrNoPendingDomain
	}
	d, ok := c.registry.Domain(c.pendingDomain)
	if !ok {
		return models.FlowResult{}, fmt.Errorf("pending domain %q: %w", c.pendingDomain, models.ErrUnknownDomain)
	}
	c.stage = models.StageDomain
	c.currentDomain = d.ID
	c.pendingDomain = ""
	c.domainOrder = append(c.domainOrder, d.ID)
	c.queue = d.Questions
	c.cursor = 0
	c.skipIneligible()
	slog.Info("Controller.handleContinue: entered domain", "domain", d.ID)
	return c.advance()
}

// skipIneligible moves the cursor past questions whose gating condition is
// unmet. Conditions only reference earlier answers, which are frozen by the
// time the cursor reaches the gated question, so eager skipping is safe and
// guarantees a surfaced question always has its condition satisfied.
func (c *Controller) skipIneligible() {
	for c.cursor < len(c.queue) && !conditionMet(c.queue[c.cursor].ConditionalOn, c.responses) {
		slog.Debug("Controller.skipIneligible: condition unmet, skipping", "question_id", c.queue[c.cursor].ID)
		c.cursor++
	}
}

// advance returns the current question if one is pending, otherwise closes
// out the active stage and decides what comes next.
func (c *Controller) advance() (models.FlowResult, error) {
	if q := c.CurrentQuestion(); q != nil {
		return models.FlowResult{Kind: models.FlowResultQuestion, Question: q}, nil
	}
	return c.finishStage()
}

// finishStage runs when the active question sequence is exhausted: triage
// hands off to the selector; a finished domain is marked visited and may
// chain into its continuation; the validation domain ends the session.
func (c *Controller) finishStage() (models.FlowResult, error) {
	if c.stage == models.StageTriage {
		slog.Info("Controller.finishStage: triage complete")
		return c.selectNext()
	}

	d, ok := c.registry.Domain(c.currentDomain)
	if !ok {
		return models.FlowResult{}, fmt.Errorf("active domain %q: %w", c.currentDomain, models.ErrUnknownDomain)
	}
	c.visited[d.ID] = true
	c.currentDomain = ""
	c.queue = nil
	c.cursor = 0
	slog.Info("Controller.finishStage: domain complete", "domain", d.ID)

	if d.ID == models.DomainValidation {
		return c.complete()
	}
	if cont := d.Continuation; cont != nil && !c.visited[cont.DomainID] && cont.Eligible(c.responses) {
		return c.announce(cont.DomainID)
	}
	return c.selectNext()
}

func (c *Controller) selectNext() (models.FlowResult, error) {
	if d := c.registry.Select(c.responses, c.visited); d != nil {
		return c.announce(d.ID)
	}
	if !c.visited[models.DomainValidation] {
		return c.announce(models.DomainValidation)
	}
	// Validation already ran; nothing left to ask.
	return c.complete()
}

func (c *Controller) announce(domainID string) (models.FlowResult, error) {
	d, ok := c.registry.Domain(domainID)
	if !ok {
		return models.FlowResult{}, fmt.Errorf("domain %q: %w", domainID, models.ErrUnknownDomain)
	}
	c.stage = models.StageTransition
	c.pendingDomain = d.ID
	c.queue = nil
	c.cursor = 0
	info := d.Info()
	slog.Info("Controller.announce: domain transition", "domain", d.ID, "priority", d.Priority)
	return models.FlowResult{Kind: models.FlowResultDomainTransition, Domain: &info}, nil
}

func (c *Controller) complete() (models.FlowResult, error) {
	results := scoring.Compute(c.responses.Clone(), append([]string(nil), c.domainOrder...), c.now())
	c.results = &results
	c.stage = models.StageComplete
	slog.Info("Controller.complete: session complete",
		"overall_risk", results.Risk.Overall,
		"band", results.Risk.Band,
		"fraud", results.Fraud.Recommendation,
		"domains", len(results.CompletedDomains))
	return models.FlowResult{Kind: models.FlowResultComplete, Results: c.results}, nil
}
