package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LumenHealth/TriageFlow/internal/models"
)

func TestFraudCleanSessionAccepted(t *testing.T) {
	out := Fraud(responsesOf(map[string]any{
		"age":            40,
		"height_cm":      175,
		"height_confirm": 173,
		"smoking_status": "former",
	}))
	assert.Zero(t, out.InconsistencyScore)
	assert.Equal(t, models.FraudAccept, out.Recommendation)
	assert.Empty(t, out.SuspiciousPatterns)
	assert.Empty(t, out.ValidationFailures)
}

func TestFraudPairMismatch(t *testing.T) {
	// Exactly at tolerance: fine.
	out := Fraud(responsesOf(map[string]any{"height_cm": 180, "height_confirm": 175}))
	assert.Zero(t, out.InconsistencyScore)

	// Past tolerance: one failure.
	out = Fraud(responsesOf(map[string]any{"height_cm": 180, "height_confirm": 174}))
	assert.Equal(t, pairMismatchPoints, out.InconsistencyScore)
	assert.Len(t, out.ValidationFailures, 1)

	// Both pairs off: independent entries accumulate.
	out = Fraud(responsesOf(map[string]any{
		"height_cm": 180, "height_confirm": 160,
		"weight_kg": 90, "weight_confirm": 70,
	}))
	assert.Equal(t, 2*pairMismatchPoints, out.InconsistencyScore)
}

func TestFraudSmokingContradiction(t *testing.T) {
	out := Fraud(responsesOf(map[string]any{
		"smoking_status":        "never",
		"doctor_smoking_advice": true,
	}))
	assert.Equal(t, smokingContradictPoints, out.InconsistencyScore)
	assert.Equal(t, models.FraudReview, out.Recommendation)

	// A former smoker with cessation advice is consistent.
	out = Fraud(responsesOf(map[string]any{
		"smoking_status":        "former",
		"doctor_smoking_advice": true,
	}))
	assert.Zero(t, out.InconsistencyScore)
}

func TestFraudExtremeBooleanPattern(t *testing.T) {
	allTrue := map[string]any{}
	for i := 0; i < 10; i++ {
		allTrue[fmt.Sprintf("bool_q_%d", i)] = true
	}
	out := Fraud(responsesOf(allTrue))
	assert.Equal(t, extremeBooleanPoints, out.InconsistencyScore)
	assert.Len(t, out.SuspiciousPatterns, 1)

	// One dissenting answer breaks the pattern.
	allTrue["bool_q_0"] = false
	out = Fraud(responsesOf(allTrue))
	assert.Zero(t, out.InconsistencyScore)

	// Nine identical booleans are below the sample floor.
	nine := map[string]any{}
	for i := 0; i < 9; i++ {
		nine[fmt.Sprintf("bool_q_%d", i)] = true
	}
	out = Fraud(responsesOf(nine))
	assert.Zero(t, out.InconsistencyScore)
}

func TestFraudStraightLineResponding(t *testing.T) {
	values := map[string]any{}
	fillItems(values, models.PHQ9ItemIDs()[:5], 2)
	out := Fraud(responsesOf(values))
	assert.Equal(t, straightLinePoints, out.InconsistencyScore)

	values["phq9_6"] = 1
	out = Fraud(responsesOf(values))
	assert.Zero(t, out.InconsistencyScore, "a single differing answer defeats straight-lining")

	// Four identical answers are below the sample floor.
	short := map[string]any{}
	fillItems(short, models.PHQ9ItemIDs()[:4], 2)
	out = Fraud(responsesOf(short))
	assert.Zero(t, out.InconsistencyScore)
}

func TestFraudImplausibleChronicCount(t *testing.T) {
	conditions := []string{"hypertension", "diabetes", "heart_disease", "asthma", "arthritis", "cancer"}
	out := Fraud(responsesOf(map[string]any{
		"age":                    25,
		"chronic_condition_list": conditions,
	}))
	assert.Equal(t, implausibleChronicPoints, out.InconsistencyScore)

	out = Fraud(responsesOf(map[string]any{
		"age":                    30,
		"chronic_condition_list": conditions,
	}))
	assert.Zero(t, out.InconsistencyScore, "age 30 is not under the implausibility cutoff")

	out = Fraud(responsesOf(map[string]any{
		"age":                    25,
		"chronic_condition_list": conditions[:5],
	}))
	assert.Zero(t, out.InconsistencyScore, "five conditions are within bounds")
}

func TestFraudSurgeryWithoutHospitalization(t *testing.T) {
	out := Fraud(responsesOf(map[string]any{"surgery_history": true}))
	assert.Equal(t, surgeryNoAdmissionPoints, out.InconsistencyScore)

	out = Fraud(responsesOf(map[string]any{"surgery_history": true, "hospitalization_count": 0}))
	assert.Equal(t, surgeryNoAdmissionPoints, out.InconsistencyScore)

	out = Fraud(responsesOf(map[string]any{"surgery_history": true, "hospitalization_count": 1}))
	assert.Zero(t, out.InconsistencyScore)
}

func TestFraudChecksAccumulateLinearly(t *testing.T) {
	// Pair mismatch (20) + smoking contradiction (30) -> 50 -> flag.
	out := Fraud(responsesOf(map[string]any{
		"height_cm":             180,
		"height_confirm":        170,
		"smoking_status":        "never",
		"doctor_smoking_advice": true,
	}))
	assert.Equal(t, pairMismatchPoints+smokingContradictPoints, out.InconsistencyScore)
	assert.Equal(t, models.FraudFlag, out.Recommendation)
}

func TestFraudRecommendationThresholds(t *testing.T) {
	assert.Equal(t, models.FraudAccept, Fraud(models.ResponseSet{}).Recommendation)

	// 25 points -> review boundary.
	out := Fraud(responsesOf(map[string]any{"surgery_history": true}))
	assert.Equal(t, models.FraudReview, out.Recommendation)
}
