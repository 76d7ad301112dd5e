package engine

import (
	"testing"
	"time"

	"github.com/LumenHealth/TriageFlow/internal/models"
)

func responsesOf(values map[string]any) models.ResponseSet {
	rs := make(models.ResponseSet, len(values))
	now := time.Now()
	for id, v := range values {
		rs[id] = models.Response{QuestionID: id, Value: v, Timestamp: now}
	}
	return rs
}

func selectID(t *testing.T, values map[string]any, visited ...string) string {
	t.Helper()
	seen := make(map[string]bool, len(visited))
	for _, id := range visited {
		seen[id] = true
	}
	d := DefaultRegistry().Select(responsesOf(values), seen)
	if d == nil {
		return ""
	}
	return d.ID
}

func TestPainSeverityBoundary(t *testing.T) {
	if got := selectID(t, map[string]any{"pain_severity": 3}); got != "" {
		t.Errorf("pain_severity=3 must not trigger pain_management, got %q", got)
	}
	if got := selectID(t, map[string]any{"pain_severity": 4}); got != models.DomainPainManagement {
		t.Errorf("pain_severity=4 must trigger pain_management, got %q", got)
	}
}

func TestMoodInterestBoundary(t *testing.T) {
	if got := selectID(t, map[string]any{"mood_interest": 0}); got != "" {
		t.Errorf("mood_interest=0 must not trigger mental_health, got %q", got)
	}
	if got := selectID(t, map[string]any{"mood_interest": 1}); got != models.DomainMentalHealth {
		t.Errorf("mood_interest=1 must trigger mental_health, got %q", got)
	}
}

func TestAgeBoundaryForLifestyle(t *testing.T) {
	if got := selectID(t, map[string]any{"age": 17}); got != "" {
		t.Errorf("age=17 must not trigger lifestyle, got %q", got)
	}
	if got := selectID(t, map[string]any{"age": 18}); got != models.DomainLifestyle {
		t.Errorf("age=18 must trigger lifestyle, got %q", got)
	}
}

func TestChronicConditionsFlagTrigger(t *testing.T) {
	if got := selectID(t, map[string]any{"chronic_conditions_flag": false}); got != "" {
		t.Errorf("chronic_conditions_flag=false must not trigger, got %q", got)
	}
	if got := selectID(t, map[string]any{"chronic_conditions_flag": true}); got != models.DomainChronicDisease {
		t.Errorf("chronic_conditions_flag=true must trigger chronic_disease, got %q", got)
	}
}

func TestPriorityResolution(t *testing.T) {
	values := map[string]any{
		"age":                     50,
		"pain_severity":           9,
		"mood_interest":           2,
		"chronic_conditions_flag": true,
	}
	// All four top-level domains trigger; highest priority wins each round.
	order := []string{
		models.DomainMentalHealth,
		models.DomainPainManagement,
		models.DomainChronicDisease,
		models.DomainLifestyle,
	}
	var visited []string
	for _, want := range order {
		if got := selectID(t, values, visited...); got != want {
			t.Fatalf("with visited %v: got %q, want %q", visited, got, want)
		}
		visited = append(visited, want)
	}
	if got := selectID(t, values, visited...); got != "" {
		t.Errorf("all domains visited, selector should return nothing, got %q", got)
	}
}

func TestSelectorNeverPicksNestedOrValidation(t *testing.T) {
	// Even with every answer favorable, neither family_history nor
	// validation is selectable at the top level.
	values := map[string]any{"age": 80}
	got := selectID(t, values, models.DomainLifestyle)
	if got == models.DomainFamilyHistory || got == models.DomainValidation {
		t.Errorf("selector picked %q, which is not top-level selectable", got)
	}
}

func TestSelectorIgnoresVisitedDomains(t *testing.T) {
	values := map[string]any{"pain_severity": 7, "mood_interest": 1}
	if got := selectID(t, values, models.DomainMentalHealth); got != models.DomainPainManagement {
		t.Errorf("visited mental_health should yield pain_management, got %q", got)
	}
}
