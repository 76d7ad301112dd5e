package scoring

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/LumenHealth/TriageFlow/internal/models"
)

// Inconsistency weights and verdict cutoffs. Accumulation is strictly
// linear: every check always runs and adds its weight independently.
const (
	pairMismatchPoints       = 20
	smokingContradictPoints  = 30
	extremeBooleanPoints     = 25
	straightLinePoints       = 20
	implausibleChronicPoints = 15
	surgeryNoAdmissionPoints = 25

	fraudFlagThreshold   = 50
	fraudReviewThreshold = 25

	minBooleanSample   = 10
	minStraightSample  = 5
	implausibleMaxAge  = 30
	implausibleChronic = 5
)

// consistencyPair re-captures the same measurement twice; answers differing
// beyond the tolerance are a validation failure.
type consistencyPair struct {
	First     string
	Second    string
	Tolerance float64
}

var consistencyPairs = []consistencyPair{
	{"height_cm", "height_confirm", 5},
	{"weight_kg", "weight_confirm", 5},
}

// straightLineItemIDs is the pool of scale answers inspected for
// straight-line responding.
func straightLineItemIDs() []string {
	ids := models.PHQ9ItemIDs()
	ids = append(ids, models.GAD7ItemIDs()...)
	ids = append(ids, models.AUDITCItemIDs()...)
	ids = append(ids, models.WHO5ItemIDs()...)
	ids = append(ids, models.PEGItemIDs()...)
	return ids
}

// Fraud runs the full consistency pass over a response set. It never
// errors; unanswered questions simply leave their checks untriggered,
// except where an absence is itself the signal (surgery without any
// hospitalization count).
func Fraud(rs models.ResponseSet) models.FraudIndicators {
	out := models.FraudIndicators{
		SuspiciousPatterns: []string{},
		ValidationFailures: []string{},
	}

	for _, pair := range consistencyPairs {
		first, okA := rs.Number(pair.First)
		second, okB := rs.Number(pair.Second)
		if okA && okB && math.Abs(first-second) > pair.Tolerance {
			out.InconsistencyScore += pairMismatchPoints
			out.ValidationFailures = append(out.ValidationFailures,
				fmt.Sprintf("%s and %s differ by more than %v", pair.First, pair.Second, pair.Tolerance))
		}
	}

	if smoking, _ := rs.String("smoking_status"); smoking == "never" && rs.BoolOrFalse("doctor_smoking_advice") {
		out.InconsistencyScore += smokingContradictPoints
		out.ValidationFailures = append(out.ValidationFailures,
			"reports never smoking but confirms a doctor's cessation advice")
	}

	if trueCount, total := booleanCounts(rs); total >= minBooleanSample && (trueCount == 0 || trueCount == total) {
		out.InconsistencyScore += extremeBooleanPoints
		out.SuspiciousPatterns = append(out.SuspiciousPatterns,
			fmt.Sprintf("all %d boolean answers are identical", total))
	}

	if values := answeredScaleValues(rs); len(values) >= minStraightSample && allEqual(values) {
		out.InconsistencyScore += straightLinePoints
		out.SuspiciousPatterns = append(out.SuspiciousPatterns,
			fmt.Sprintf("%d scale answers share the identical value %v", len(values), values[0]))
	}

	if age, ok := rs.Number("age"); ok && age < implausibleMaxAge {
		if conditions, ok := rs.Strings("chronic_condition_list"); ok && len(conditions) > implausibleChronic {
			out.InconsistencyScore += implausibleChronicPoints
			out.SuspiciousPatterns = append(out.SuspiciousPatterns,
				fmt.Sprintf("age %v with %d chronic conditions", age, len(conditions)))
		}
	}

	if rs.BoolOrFalse("surgery_history") && rs.NumberOrZero("hospitalization_count") == 0 {
		out.InconsistencyScore += surgeryNoAdmissionPoints
		out.SuspiciousPatterns = append(out.SuspiciousPatterns,
			"reports surgery but no hospitalizations")
	}

	switch {
	case out.InconsistencyScore >= fraudFlagThreshold:
		out.Recommendation = models.FraudFlag
	case out.InconsistencyScore >= fraudReviewThreshold:
		out.Recommendation = models.FraudReview
	default:
		out.Recommendation = models.FraudAccept
	}
	slog.Debug("scoring.Fraud: consistency pass complete",
		"score", out.InconsistencyScore, "recommendation", out.Recommendation)
	return out
}

func booleanCounts(rs models.ResponseSet) (trueCount, total int) {
	for _, r := range rs {
		if b, ok := r.Value.(bool); ok {
			total++
			if b {
				trueCount++
			}
		}
	}
	return trueCount, total
}

// answeredScaleValues collects the instrument scale answers actually present
// in the set. Unanswered items stay absent here: the straight-line check
// inspects what the respondent typed, not the scorers' missing-as-zero view.
func answeredScaleValues(rs models.ResponseSet) []float64 {
	var values []float64
	for _, id := range straightLineItemIDs() {
		if n, ok := rs.Number(id); ok {
			values = append(values, n)
		}
	}
	return values
}

func allEqual(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
