package engine

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/LumenHealth/TriageFlow/internal/models"
)

// TestSnapshotRestoreResumesIdentically drives a session halfway, snapshots
// it (through a JSON round trip, as the persistence layer would), restores
// into a fresh controller, and verifies both controllers produce identical
// behavior from there on.
func TestSnapshotRestoreResumesIdentically(t *testing.T) {
	overrides := map[string]any{
		"age":                     30,
		"biological_sex":          "female",
		"emergency_check":         []string{"none"},
		"pain_severity":           6,
		"mood_interest":           1,
		"chronic_conditions_flag": false,
	}

	original := New()
	res, err := original.ProcessResponse(models.PseudoInit, true)
	if err != nil {
		t.Fatalf("_init failed: %v", err)
	}
	// Stop midway: after triage and into the first domain's second question.
	steps := 0
	for steps < 9 {
		switch res.Kind {
		case models.FlowResultQuestion:
			res, err = original.ProcessResponse(res.Question.ID, answerFor(t, res.Question, overrides))
		case models.FlowResultDomainTransition:
			res, err = original.ProcessResponse(models.PseudoContinue, true)
		default:
			t.Fatalf("session completed too early at step %d", steps)
		}
		if err != nil {
			t.Fatalf("step %d failed: %v", steps, err)
		}
		steps++
	}

	snap := original.State()
	payload, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("snapshot marshal failed: %v", err)
	}
	var decoded models.Snapshot
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("snapshot unmarshal failed: %v", err)
	}

	restored := New()
	if err := restored.RestoreState(decoded); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored.Stage() != original.Stage() {
		t.Fatalf("restored stage %q != original %q", restored.Stage(), original.Stage())
	}
	origQ, restQ := original.CurrentQuestion(), restored.CurrentQuestion()
	if (origQ == nil) != (restQ == nil) || (origQ != nil && origQ.ID != restQ.ID) {
		t.Fatalf("restored current question %v != original %v", restQ, origQ)
	}

	// Drive both to completion with identical answers and compare.
	origTrace := finishSession(t, original, overrides)
	restTrace := finishSession(t, restored, overrides)
	if !reflect.DeepEqual(origTrace.askedIDs, restTrace.askedIDs) {
		t.Errorf("asked questions diverged:\noriginal: %v\nrestored: %v", origTrace.askedIDs, restTrace.askedIDs)
	}
	if !reflect.DeepEqual(origTrace.transitions, restTrace.transitions) {
		t.Errorf("transitions diverged:\noriginal: %v\nrestored: %v", origTrace.transitions, restTrace.transitions)
	}
	if !reflect.DeepEqual(origTrace.results.Clinical, restTrace.results.Clinical) {
		t.Errorf("clinical scores diverged: %+v vs %+v", origTrace.results.Clinical, restTrace.results.Clinical)
	}
	if !reflect.DeepEqual(origTrace.results.Risk, restTrace.results.Risk) {
		t.Errorf("risk assessments diverged: %+v vs %+v", origTrace.results.Risk, restTrace.results.Risk)
	}
	if !reflect.DeepEqual(origTrace.results.Fraud, restTrace.results.Fraud) {
		t.Errorf("fraud indicators diverged: %+v vs %+v", origTrace.results.Fraud, restTrace.results.Fraud)
	}
}

// finishSession resumes an in-flight controller to completion.
func finishSession(t *testing.T, ctrl *Controller, overrides map[string]any) sessionTrace {
	t.Helper()
	var trace sessionTrace
	var res models.FlowResult
	var err error
	if q := ctrl.CurrentQuestion(); q != nil {
		res = models.FlowResult{Kind: models.FlowResultQuestion, Question: q}
	} else {
		res, err = ctrl.ProcessResponse(models.PseudoContinue, true)
		if err != nil {
			t.Fatalf("resume continue failed: %v", err)
		}
	}
	for i := 0; i < 500; i++ {
		switch res.Kind {
		case models.FlowResultQuestion:
			trace.askedIDs = append(trace.askedIDs, res.Question.ID)
			res, err = ctrl.ProcessResponse(res.Question.ID, answerFor(t, res.Question, overrides))
		case models.FlowResultDomainTransition:
			trace.transitions = append(trace.transitions, res.Domain.ID)
			res, err = ctrl.ProcessResponse(models.PseudoContinue, true)
		case models.FlowResultComplete:
			trace.results = res.Results
			return trace
		}
		if err != nil {
			t.Fatalf("resumed walkthrough failed: %v", err)
		}
	}
	t.Fatal("resumed session did not complete")
	return trace
}

func TestRestoreRejectsBadSnapshots(t *testing.T) {
	ctrl := New()
	if err := ctrl.RestoreState(models.Snapshot{Stage: models.StageDomain, CurrentDomain: "nope"}); err == nil {
		t.Error("unknown domain should fail restore")
	}
	if err := ctrl.RestoreState(models.Snapshot{Stage: models.StageTriage, Cursor: 99}); err == nil {
		t.Error("out-of-bounds cursor should fail restore")
	}
	if err := ctrl.RestoreState(models.Snapshot{Stage: models.StageTransition}); err == nil {
		t.Error("transition snapshot without pending domain should fail restore")
	}
}

func TestStateReportsVisitedAndOrder(t *testing.T) {
	ctrl := New()
	trace := runSession(t, ctrl, map[string]any{"age": 30, "pain_severity": 5})
	snap := ctrl.State()
	if snap.Stage != models.StageComplete {
		t.Fatalf("stage = %q, want complete", snap.Stage)
	}
	if !reflect.DeepEqual(snap.DomainOrder, trace.transitions) {
		t.Errorf("domain order %v != transitions %v", snap.DomainOrder, trace.transitions)
	}
	for _, id := range trace.transitions {
		if !contains(snap.VisitedDomains, id) {
			t.Errorf("visited domains %v missing %q", snap.VisitedDomains, id)
		}
	}
}
