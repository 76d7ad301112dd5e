package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumenHealth/TriageFlow/internal/models"
)

func riskFor(values map[string]any) models.RiskAssessment {
	rs := responsesOf(values)
	return Risk(Clinical(rs), rs)
}

func TestPHQ9Bands(t *testing.T) {
	cases := []struct {
		total  int
		points int
		flag   string
	}{
		{24, 40, "depression_severe"},
		{20, 40, "depression_severe"},
		{19, 30, "depression_moderately_severe"},
		{15, 30, "depression_moderately_severe"},
		{14, 20, "depression_moderate"},
		{10, 20, "depression_moderate"},
		{9, 10, "depression_mild"},
		{5, 10, "depression_mild"},
		{4, 0, ""},
		{0, 0, ""},
	}
	for _, tc := range cases {
		// Spread the total over items 1..8 so the phq9_9 safety rule
		// stays out of the picture.
		values := map[string]any{}
		remaining := tc.total
		for _, id := range models.PHQ9ItemIDs()[:8] {
			v := remaining
			if v > 3 {
				v = 3
			}
			values[id] = v
			remaining -= v
		}
		require.Zero(t, remaining, "total %d does not fit in 8 items", tc.total)

		out := riskFor(values)
		assert.Equal(t, tc.points, out.Categories[models.CategoryMentalHealth], "total %d", tc.total)
		if tc.flag != "" {
			assert.Contains(t, out.Flags, tc.flag, "total %d", tc.total)
		} else {
			assert.Empty(t, out.Flags, "total %d", tc.total)
		}
	}
}

func TestGAD7AndAUDITCBands(t *testing.T) {
	out := riskFor(fillItems(map[string]any{}, models.GAD7ItemIDs(), 3)) // 21
	assert.Equal(t, 30, out.Categories[models.CategoryMentalHealth])
	assert.Contains(t, out.Flags, "anxiety_severe")

	out = riskFor(map[string]any{"alcohol_consumption": 4, "audit_quantity": 4}) // 8
	assert.Equal(t, 30, out.Categories[models.CategorySubstanceAbuse])
	assert.Contains(t, out.Flags, "alcohol_high_risk")
	// AUDIT-C >= 8 is also the heavy-alcohol cardiovascular factor.
	assert.Equal(t, cardioFactorWeight, out.Categories[models.CategoryCardiovascular])

	out = riskFor(map[string]any{"alcohol_consumption": 3}) // 3
	assert.Equal(t, 10, out.Categories[models.CategorySubstanceAbuse])
	assert.Contains(t, out.Flags, "alcohol_mild_risk")

	out = riskFor(map[string]any{"alcohol_consumption": 2}) // 2
	assert.Zero(t, out.Categories[models.CategorySubstanceAbuse])
}

func TestSafetyRulesAreNotMutuallyExclusive(t *testing.T) {
	out := riskFor(map[string]any{
		"phq9_9":                   1,
		"suicidal_ideation_screen": true,
		"violence_safety":          true,
	})
	// All three crisis rules add independently: 50 + 40 + 30.
	assert.Equal(t, 120, out.Categories[models.CategorySafetyRisk])
	assert.Contains(t, out.Flags, "suicide_risk")
	assert.Contains(t, out.Flags, "suicidal_ideation_confirmed")
	assert.Contains(t, out.Flags, "safety_concern_home")
	assert.Equal(t, models.RiskBandCritical, out.Band)
}

func TestPHQ9Item9RaisesSafetyRegardlessOfTotal(t *testing.T) {
	out := riskFor(map[string]any{"phq9_9": 1}) // PHQ-9 total 1, below mild
	assert.Zero(t, out.Categories[models.CategoryMentalHealth])
	assert.Equal(t, suicideItemPoints, out.Categories[models.CategorySafetyRisk])
	assert.Contains(t, out.Flags, "suicide_risk")
	assert.Equal(t, models.RiskBandCritical, out.Band)
}

func TestCardiovascularFactorCount(t *testing.T) {
	out := riskFor(map[string]any{
		"age":                    70,                                    // >65
		"chronic_condition_list": []string{"hypertension", "diabetes"}, // 2 factors
		"smoking_status":         "current",
		"height_cm":              170,
		"weight_kg":              95, // BMI 32.9 > 30
		"exercise_frequency":     1,  // low exercise
		"family_heart_disease":   true,
	})
	// 7 factors at 5 points each.
	assert.Equal(t, 7*cardioFactorWeight, out.Categories[models.CategoryCardiovascular])
	// The two listed conditions also feed the chronic category.
	assert.Equal(t, 2*chronicConditionWeight, out.Categories[models.CategoryChronicDisease])
}

func TestLowExerciseRequiresAnAnswer(t *testing.T) {
	out := riskFor(map[string]any{})
	assert.Zero(t, out.Categories[models.CategoryCardiovascular],
		"unanswered exercise_frequency must not count as low exercise")
}

func TestAllergyRiskExcludesNone(t *testing.T) {
	out := riskFor(map[string]any{"allergy_list": []string{"none"}})
	assert.Zero(t, out.Categories[models.CategoryAllergyRisk])

	out = riskFor(map[string]any{"allergy_list": []string{"penicillin", "latex"}})
	assert.Equal(t, 2*allergyWeight, out.Categories[models.CategoryAllergyRisk])
}

func TestEmergencySelectionsFlagOnly(t *testing.T) {
	out := riskFor(map[string]any{"emergency_check": []string{"chest_pain", "none"}})
	assert.Contains(t, out.Flags, "emergency_chest_pain")
	assert.NotContains(t, out.Flags, "emergency_none")
	assert.Zero(t, out.Overall, "emergency selections never add points")
}

func TestOverallIsUnclampedCategorySum(t *testing.T) {
	values := map[string]any{
		"phq9_9":                   3,
		"suicidal_ideation_screen": true,
		"violence_safety":          true,
		"chronic_condition_list":   []string{"hypertension", "diabetes", "heart_disease", "copd", "cancer"},
		"allergy_list":             []string{"penicillin"},
	}
	fillItems(values, models.PHQ9ItemIDs(), 3) // 27: severe +40
	fillItems(values, models.GAD7ItemIDs(), 3) // 21: severe +30
	out := riskFor(values)

	sum := 0
	for _, points := range out.Categories {
		sum += points
	}
	assert.Equal(t, sum, out.Overall)
	assert.Greater(t, out.Overall, 150)
	assert.Equal(t, models.RiskBandCritical, out.Band)
}

func TestBandThresholds(t *testing.T) {
	assert.Equal(t, models.RiskBandLow, band(49, 0))
	assert.Equal(t, models.RiskBandModerate, band(50, 0))
	assert.Equal(t, models.RiskBandHigh, band(100, 0))
	assert.Equal(t, models.RiskBandCritical, band(150, 0))
	assert.Equal(t, models.RiskBandCritical, band(0, bandCriticalSafety))
}
