package scoring

import (
	"log/slog"

	"github.com/LumenHealth/TriageFlow/internal/models"
)

// Risk point weights. Every weighted rule below is a named table entry so
// the point arithmetic stays auditable.
const (
	cardioFactorWeight     = 5
	chronicConditionWeight = 10
	allergyWeight          = 5

	suicideItemPoints     = 50
	suicidalScreenPoints  = 40
	violenceSafetyPoints  = 30
	bmiObesityThreshold   = 30.0
	heavyAlcoholThreshold = 8
)

// Overall band cutoffs.
const (
	bandCriticalSafety  = 50
	bandCriticalOverall = 150
	bandHighOverall     = 100
	bandModerateOverall = 50
)

// scoreBand is one row of an instrument threshold table. Bands are listed
// descending; the first row whose Min the total reaches wins.
type scoreBand struct {
	Min            int
	Points         int
	Flag           string
	Recommendation string
}

var phq9Bands = []scoreBand{
	{20, 40, "depression_severe", "PHQ-9 indicates severe depression; arrange a clinical assessment within one week."},
	{15, 30, "depression_moderately_severe", "PHQ-9 indicates moderately severe depression; recommend prompt follow-up with a clinician."},
	{10, 20, "depression_moderate", "PHQ-9 indicates moderate depression; recommend follow-up with a clinician."},
	{5, 10, "depression_mild", "PHQ-9 indicates mild depressive symptoms; suggest monitoring and re-screening."},
}

var gad7Bands = []scoreBand{
	{15, 30, "anxiety_severe", "GAD-7 indicates severe anxiety; arrange a clinical assessment."},
	{10, 20, "anxiety_moderate", "GAD-7 indicates moderate anxiety; recommend follow-up with a clinician."},
	{5, 10, "anxiety_mild", "GAD-7 indicates mild anxiety; suggest monitoring and re-screening."},
}

var auditCBands = []scoreBand{
	{8, 30, "alcohol_high_risk", "AUDIT-C indicates high-risk alcohol use; recommend a specialist referral."},
	{4, 20, "alcohol_moderate_risk", "AUDIT-C indicates moderate-risk alcohol use; recommend a brief intervention."},
	{3, 10, "alcohol_mild_risk", "AUDIT-C indicates elevated alcohol use; suggest discussing drinking habits at the next visit."},
}

// safetyRule is one crisis check. These are deliberately NOT mutually
// exclusive: overlapping conditions each add their own points.
type safetyRule struct {
	Name           string
	Points         int
	Flag           string
	Recommendation string
	Applies        func(models.ResponseSet) bool
}

var safetyRules = []safetyRule{
	{
		Name:           "phq9_item9",
		Points:         suicideItemPoints,
		Flag:           "suicide_risk",
		Recommendation: "CRITICAL: responses indicate possible suicidal ideation; contact the respondent immediately and share crisis resources.",
		Applies: func(rs models.ResponseSet) bool {
			return rs.NumberOrZero("phq9_9") > 0
		},
	},
	{
		Name:           "suicidal_ideation_screen",
		Points:         suicidalScreenPoints,
		Flag:           "suicidal_ideation_confirmed",
		Recommendation: "Direct suicidal ideation screen is positive; escalate to the clinical on-call pathway.",
		Applies: func(rs models.ResponseSet) bool {
			return rs.BoolOrFalse("suicidal_ideation_screen")
		},
	},
	{
		Name:           "violence_safety",
		Points:         violenceSafetyPoints,
		Flag:           "safety_concern_home",
		Recommendation: "Respondent reports feeling unsafe at home; provide safety planning resources.",
		Applies: func(rs models.ResponseSet) bool {
			return rs.BoolOrFalse("violence_safety")
		},
	},
}

// cardioFactor is one boolean cardiovascular risk factor. The category
// total is the factor count times cardioFactorWeight.
type cardioFactor struct {
	Name    string
	Applies func(models.ResponseSet, models.ClinicalScores) bool
}

var cardioFactors = []cardioFactor{
	{"hypertension", func(rs models.ResponseSet, _ models.ClinicalScores) bool {
		return rs.Contains("chronic_condition_list", "hypertension")
	}},
	{"diabetes", func(rs models.ResponseSet, _ models.ClinicalScores) bool {
		return rs.Contains("chronic_condition_list", "diabetes")
	}},
	{"heart_disease", func(rs models.ResponseSet, _ models.ClinicalScores) bool {
		return rs.Contains("chronic_condition_list", "heart_disease")
	}},
	{"current_smoking", func(rs models.ResponseSet, _ models.ClinicalScores) bool {
		s, _ := rs.String("smoking_status")
		return s == "current"
	}},
	{"obesity", func(rs models.ResponseSet, _ models.ClinicalScores) bool {
		height, okH := rs.Number("height_cm")
		weight, okW := rs.Number("weight_kg")
		if !okH || !okW || height <= 0 {
			return false
		}
		m := height / 100
		return weight/(m*m) > bmiObesityThreshold
	}},
	{"low_exercise", func(rs models.ResponseSet, _ models.ClinicalScores) bool {
		n, ok := rs.Number("exercise_frequency")
		return ok && n <= 1
	}},
	{"family_heart_disease", func(rs models.ResponseSet, _ models.ClinicalScores) bool {
		return rs.BoolOrFalse("family_heart_disease")
	}},
	{"heavy_alcohol", func(_ models.ResponseSet, s models.ClinicalScores) bool {
		return s.AUDITC >= heavyAlcoholThreshold
	}},
	{"age_over_65", func(rs models.ResponseSet, _ models.ClinicalScores) bool {
		return rs.NumberOrZero("age") > 65
	}},
}

// Risk maps the instrument totals and recorded answers to per-category
// point totals, an overall band, and flag/recommendation strings. Overall
// is the unclamped sum of all category totals.
func Risk(scores models.ClinicalScores, rs models.ResponseSet) models.RiskAssessment {
	out := models.RiskAssessment{
		Categories: map[string]int{
			models.CategoryCardiovascular: 0,
			models.CategoryMentalHealth:   0,
			models.CategorySubstanceAbuse: 0,
			models.CategoryChronicDisease: 0,
			models.CategoryAllergyRisk:    0,
			models.CategorySafetyRisk:     0,
		},
		Flags:           []string{},
		Recommendations: []string{},
	}

	applyBands(&out, models.CategoryMentalHealth, scores.PHQ9, phq9Bands)
	applyBands(&out, models.CategoryMentalHealth, scores.GAD7, gad7Bands)
	applyBands(&out, models.CategorySubstanceAbuse, scores.AUDITC, auditCBands)

	for _, rule := range safetyRules {
		if rule.Applies(rs) {
			out.Categories[models.CategorySafetyRisk] += rule.Points
			out.Flags = append(out.Flags, rule.Flag)
			out.Recommendations = append(out.Recommendations, rule.Recommendation)
		}
	}

	factorCount := 0
	for _, f := range cardioFactors {
		if f.Applies(rs, scores) {
			factorCount++
			out.Flags = append(out.Flags, "cardio_"+f.Name)
		}
	}
	out.Categories[models.CategoryCardiovascular] = factorCount * cardioFactorWeight

	if conditions, ok := rs.Strings("chronic_condition_list"); ok {
		out.Categories[models.CategoryChronicDisease] = len(conditions) * chronicConditionWeight
	}
	if allergies, ok := rs.Strings("allergy_list"); ok {
		count := 0
		for _, a := range allergies {
			if a != "none" {
				count++
			}
		}
		out.Categories[models.CategoryAllergyRisk] = count * allergyWeight
	}

	// Emergency selections surface as flags only; they never add points or
	// redirect the flow.
	if selections, ok := rs.Strings("emergency_check"); ok {
		for _, item := range selections {
			if item != "none" {
				out.Flags = append(out.Flags, "emergency_"+item)
			}
		}
	}

	for _, points := range out.Categories {
		out.Overall += points
	}
	out.Band = band(out.Overall, out.Categories[models.CategorySafetyRisk])
	slog.Debug("scoring.Risk: classified", "overall", out.Overall, "band", out.Band, "flags", len(out.Flags))
	return out
}

// applyBands walks a descending threshold table and applies the first
// matching band.
func applyBands(out *models.RiskAssessment, category string, total int, bands []scoreBand) {
	for _, b := range bands {
		if total >= b.Min {
			out.Categories[category] += b.Points
			out.Flags = append(out.Flags, b.Flag)
			out.Recommendations = append(out.Recommendations, b.Recommendation)
			return
		}
	}
}

func band(overall, safety int) models.RiskBand {
	switch {
	case safety >= bandCriticalSafety || overall >= bandCriticalOverall:
		return models.RiskBandCritical
	case overall >= bandHighOverall:
		return models.RiskBandHigh
	case overall >= bandModerateOverall:
		return models.RiskBandModerate
	default:
		return models.RiskBandLow
	}
}
