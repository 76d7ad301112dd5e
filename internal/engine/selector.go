package engine

import (
	"log/slog"

	"github.com/LumenHealth/TriageFlow/internal/models"
)

// Select evaluates every unvisited, non-nested, non-validation domain
// against its trigger predicate and returns the triggered domain with the
// highest priority. Ties break by declaration order: iteration keeps the
// earlier entry unless a strictly higher priority appears. Returns nil when
// nothing triggers; the controller then falls back to the validation stage.
func (r *Registry) Select(rs models.ResponseSet, visited map[string]bool) *Domain {
	var best *Domain
	for _, d := range r.domains {
		if d.Nested || d.ID == models.DomainValidation {
			continue
		}
		if visited[d.ID] {
			continue
		}
		if d.Trigger == nil || !d.Trigger(rs) {
			continue
		}
		if best == nil || d.Priority > best.Priority {
			best = d
		}
	}
	if best != nil {
		slog.Debug("Registry.Select: domain selected", "domain", best.ID, "priority", best.Priority)
	} else {
		slog.Debug("Registry.Select: no domain triggered")
	}
	return best
}
