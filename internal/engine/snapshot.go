package engine

import (
	"fmt"
	"sort"

	"github.com/LumenHealth/TriageFlow/internal/models"
	"github.com/LumenHealth/TriageFlow/internal/scoring"
)

// State captures the controller's full internal state as a serializable
// snapshot. The active question queue is intentionally omitted: it is a
// pure function of the registry plus (stage, current domain), so a restored
// controller rebuilds it and behaves identically.
func (c *Controller) State() models.Snapshot {
	visited := make([]string, 0, len(c.visited))
	for id := range c.visited {
		visited = append(visited, id)
	}
	sort.Strings(visited)
	return models.Snapshot{
		Stage:          c.stage,
		CurrentDomain:  c.currentDomain,
		PendingDomain:  c.pendingDomain,
		Cursor:         c.cursor,
		Responses:      c.responses.Clone(),
		VisitedDomains: visited,
		DomainOrder:    append([]string(nil), c.domainOrder...),
		UpdatedAt:      c.now(),
	}
}

// RestoreState replaces the controller's state with a previously captured
// snapshot. The registry must be the one the snapshot was taken against.
func (c *Controller) RestoreState(snap models.Snapshot) error {
	var queue []models.Question
	switch snap.Stage {
	case models.StageTriage:
		queue = c.registry.Triage()
	case models.StageDomain:
		d, ok := c.registry.Domain(snap.CurrentDomain)
		if !ok {
			return fmt.Errorf("snapshot domain %q: %w", snap.CurrentDomain, models.ErrUnknownDomain)
		}
		queue = d.Questions
	case models.StageNotStarted, models.StageTransition, models.StageComplete, models.StageAbandoned:
		// No active question sequence in these stages.
	default:
		return fmt.Errorf("snapshot stage %q is not restorable", snap.Stage)
	}
	if snap.Stage == models.StageTransition && snap.PendingDomain == "" {
		return fmt.Errorf("snapshot in transition stage without pending domain: %w", models.ErrNoPendingDomain)
	}
	if snap.Cursor < 0 || snap.Cursor > len(queue) {
		return fmt.Errorf("snapshot cursor %d out of bounds for %d questions", snap.Cursor, len(queue))
	}

	responses := make(models.ResponseSet, len(snap.Responses))
	for id, r := range snap.Responses {
		responses[id] = r
	}
	visited := make(map[string]bool, len(snap.VisitedDomains))
	for _, id := range snap.VisitedDomains {
		visited[id] = true
	}

	c.stage = snap.Stage
	c.currentDomain = snap.CurrentDomain
	c.pendingDomain = snap.PendingDomain
	c.queue = queue
	c.cursor = snap.Cursor
	c.responses = responses
	c.visited = visited
	c.domainOrder = append([]string(nil), snap.DomainOrder...)
	c.results = nil
	if snap.Stage == models.StageComplete {
		// Recompute deterministically from the restored response set.
		results := scoring.Compute(c.responses.Clone(), append([]string(nil), c.domainOrder...), snap.UpdatedAt)
		c.results = &results
	}
	return nil
}
