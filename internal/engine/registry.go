// Package engine implements the adaptive triage flow: a rule-driven state
// machine that decides which clinical domain to probe next based on the
// answers recorded so far.
package engine

import (
	"github.com/LumenHealth/TriageFlow/internal/models"
)

// Domain is one registry entry: a named cluster of follow-up questions with
// a trigger predicate and a priority used for conflict resolution.
type Domain struct {
	ID       string
	Title    string
	Priority int
	// Trigger reports whether this domain should be probed given the
	// responses recorded so far. Nil for nested domains, which are never
	// selected at the top level.
	Trigger func(models.ResponseSet) bool
	// Nested domains are reachable only through another domain's
	// continuation, never from the selector.
	Nested    bool
	Questions []models.Question
	// Continuation names a nested domain entered after this domain's
	// question sequence completes, gated by its own predicate.
	Continuation *Continuation
}

// Continuation links a domain to a nested follow-up domain.
type Continuation struct {
	DomainID string
	Eligible func(models.ResponseSet) bool
}

// Info returns the wire-facing descriptor for this domain.
func (d *Domain) Info() models.DomainInfo {
	return models.DomainInfo{
		ID:            d.ID,
		Title:         d.Title,
		Priority:      d.Priority,
		QuestionCount: len(d.Questions),
	}
}

// Registry holds the triage question sequence and the ordered domain table.
// Declaration order doubles as the selector's tie-break order.
type Registry struct {
	triage  []models.Question
	domains []*Domain
	byID    map[string]*Domain
}

// NewRegistry builds a registry from an ordered domain list.
func NewRegistry(triage []models.Question, domains []*Domain) *Registry {
	byID := make(map[string]*Domain, len(domains))
	for _, d := range domains {
		byID[d.ID] = d
	}
	return &Registry{triage: triage, domains: domains, byID: byID}
}

// Triage returns the fixed ordered triage question sequence.
func (r *Registry) Triage() []models.Question {
	return r.triage
}

// Domain looks up a domain by id.
func (r *Registry) Domain(id string) (*Domain, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Domains returns the domain table in declaration order.
func (r *Registry) Domains() []*Domain {
	return r.domains
}

func scaleQ(id, text string, min, max float64) models.Question {
	return models.Question{
		ID:         id,
		Text:       text,
		Type:       models.QuestionTypeScale,
		Required:   true,
		Validation: &models.Range{Min: min, Max: max},
	}
}

func boolQ(id, text string) models.Question {
	return models.Question{ID: id, Text: text, Type: models.QuestionTypeBoolean, Required: true}
}

// Frequency anchors shared by the PHQ-9 and GAD-7 items (0-3 each).
const instrumentScaleHint = " (0 = not at all, 1 = several days, 2 = more than half the days, 3 = nearly every day)"

func phq9Questions() []models.Question {
	texts := []string{
		"Little interest or pleasure in doing things",
		"Feeling down, depressed, or hopeless",
		"Trouble falling or staying asleep, or sleeping too much",
		"Feeling tired or having little energy",
		"Poor appetite or overeating",
		"Feeling bad about yourself, or that you are a failure",
		"Trouble concentrating on things",
		"Moving or speaking noticeably slowly, or being fidgety or restless",
		"Thoughts that you would be better off dead, or of hurting yourself",
	}
	ids := models.PHQ9ItemIDs()
	qs := make([]models.Question, 0, len(texts))
	for i, text := range texts {
		qs = append(qs, scaleQ(ids[i], text+instrumentScaleHint, 0, 3))
	}
	return qs
}

func gad7Questions() []models.Question {
	texts := []string{
		"Feeling nervous, anxious, or on edge",
		"Not being able to stop or control worrying",
		"Worrying too much about different things",
		"Trouble relaxing",
		"Being so restless that it is hard to sit still",
		"Becoming easily annoyed or irritable",
		"Feeling afraid as if something awful might happen",
	}
	ids := models.GAD7ItemIDs()
	qs := make([]models.Question, 0, len(texts))
	for i, text := range texts {
		qs = append(qs, scaleQ(ids[i], text+instrumentScaleHint, 0, 3))
	}
	return qs
}

func who5Questions() []models.Question {
	texts := []string{
		"I have felt cheerful and in good spirits",
		"I have felt calm and relaxed",
		"I have felt active and vigorous",
		"I woke up feeling fresh and rested",
		"My daily life has been filled with things that interest me",
	}
	ids := models.WHO5ItemIDs()
	qs := make([]models.Question, 0, len(texts))
	for i, text := range texts {
		qs = append(qs, scaleQ(ids[i], text+" (0 = at no time, 5 = all of the time)", 0, 5))
	}
	return qs
}

// DefaultRegistry returns the production triage sequence and domain table.
// The trigger thresholds and priorities here are load-bearing: boundary
// tests pin them exactly.
func DefaultRegistry() *Registry {
	triage := []models.Question{
		{
			ID:         "age",
			Text:       "How old are you?",
			Type:       models.QuestionTypeNumber,
			Required:   true,
			Validation: &models.Range{Min: 0, Max: 120},
		},
		{
			ID:       "biological_sex",
			Text:     "What is your biological sex?",
			Type:     models.QuestionTypeSelect,
			Required: true,
			Options:  []string{"male", "female", "intersex", "prefer_not_to_say"},
		},
		{
			ID:       "emergency_check",
			Text:     "Are you currently experiencing any of the following?",
			Type:     models.QuestionTypeMultiSelect,
			Required: true,
			Options:  []string{"chest_pain", "difficulty_breathing", "severe_bleeding", "suicidal_thoughts", "none"},
		},
		scaleQ("pain_severity", "How would you rate your pain over the past week? (0 = no pain, 10 = worst imaginable)", 0, 10),
		scaleQ("mood_interest", "Over the past two weeks, how often have you been bothered by little interest or low mood?"+instrumentScaleHint, 0, 3),
		boolQ("chronic_conditions_flag", "Have you ever been diagnosed with a chronic medical condition?"),
	}

	mentalHealth := &Domain{
		ID:       models.DomainMentalHealth,
		Title:    "Mental Health",
		Priority: 9,
		Trigger: func(rs models.ResponseSet) bool {
			return rs.NumberOrZero("mood_interest") >= 1
		},
		Questions: func() []models.Question {
			qs := phq9Questions()
			qs = append(qs, gad7Questions()...)
			qs = append(qs, models.Question{
				ID:       "suicidal_ideation_screen",
				Text:     "In the past month, have you had thoughts of ending your life?",
				Type:     models.QuestionTypeBoolean,
				Required: true,
				ConditionalOn: &models.Condition{
					QuestionID: "phq9_9",
					Values:     []any{1, 2, 3},
				},
			})
			qs = append(qs, boolQ("violence_safety", "Do you currently feel unsafe at home or threatened by anyone?"))
			return qs
		}(),
	}

	painManagement := &Domain{
		ID:       models.DomainPainManagement,
		Title:    "Pain Management",
		Priority: 8,
		Trigger: func(rs models.ResponseSet) bool {
			return rs.NumberOrZero("pain_severity") >= 4
		},
		Questions: []models.Question{
			{
				ID:       "pain_location",
				Text:     "Where is your pain located?",
				Type:     models.QuestionTypeMultiSelect,
				Required: true,
				Options:  []string{"head", "neck", "back", "chest", "abdomen", "joints", "limbs", "widespread"},
			},
			{
				ID:       "pain_duration",
				Text:     "How long have you had this pain?",
				Type:     models.QuestionTypeSelect,
				Required: true,
				Options:  []string{"less_than_week", "one_to_four_weeks", "one_to_six_months", "more_than_six_months"},
			},
			scaleQ("peg_pain", "What number best describes your pain on average in the past week? (0 = no pain, 10 = worst)", 0, 10),
			scaleQ("peg_enjoyment", "What number best describes how pain has interfered with your enjoyment of life? (0 = none, 10 = completely)", 0, 10),
			scaleQ("peg_activity", "What number best describes how pain has interfered with your general activity? (0 = none, 10 = completely)", 0, 10),
			boolQ("pain_medication", "Are you currently taking medication for this pain?"),
			{
				ID:       "pain_medication_type",
				Text:     "What kind of pain medication do you take?",
				Type:     models.QuestionTypeSelect,
				Required: true,
				Options:  []string{"over_the_counter", "prescription_non_opioid", "prescription_opioid", "other"},
				ConditionalOn: &models.Condition{
					QuestionID: "pain_medication",
					Values:     []any{true},
				},
			},
		},
	}

	chronicDisease := &Domain{
		ID:       models.DomainChronicDisease,
		Title:    "Chronic Conditions",
		Priority: 7,
		Trigger: func(rs models.ResponseSet) bool {
			return rs.BoolOrFalse("chronic_conditions_flag")
		},
		Questions: []models.Question{
			{
				ID:       "chronic_condition_list",
				Text:     "Which of the following conditions have you been diagnosed with?",
				Type:     models.QuestionTypeMultiSelect,
				Required: true,
				Options:  []string{"hypertension", "diabetes", "heart_disease", "asthma", "arthritis", "cancer", "kidney_disease", "copd", "other"},
			},
			{
				ID:         "medication_count",
				Text:       "How many prescription medications do you take regularly?",
				Type:       models.QuestionTypeNumber,
				Required:   true,
				Validation: &models.Range{Min: 0, Max: 40},
			},
			{
				ID:         "hospitalization_count",
				Text:       "How many times have you been hospitalized in the past five years?",
				Type:       models.QuestionTypeNumber,
				Required:   true,
				Validation: &models.Range{Min: 0, Max: 50},
			},
			boolQ("surgery_history", "Have you had surgery in the past five years?"),
			boolQ("doctor_smoking_advice", "Has a doctor ever advised you to stop smoking?"),
			{
				ID:       "allergy_list",
				Text:     "Do you have any of the following allergies?",
				Type:     models.QuestionTypeMultiSelect,
				Required: true,
				Options:  []string{"none", "penicillin", "sulfa", "nsaids", "latex", "peanuts", "shellfish"},
			},
			{
				ID:         "height_cm",
				Text:       "What is your height in centimeters?",
				Type:       models.QuestionTypeNumber,
				Required:   true,
				Validation: &models.Range{Min: 50, Max: 250},
			},
			{
				ID:         "weight_kg",
				Text:       "What is your weight in kilograms?",
				Type:       models.QuestionTypeNumber,
				Required:   true,
				Validation: &models.Range{Min: 20, Max: 350},
			},
		},
	}

	auditFollowUp := &models.Condition{
		QuestionID: "alcohol_consumption",
		Values:     []any{1, 2, 3, 4},
	}
	lifestyle := &Domain{
		ID:       models.DomainLifestyle,
		Title:    "Lifestyle",
		Priority: 5,
		Trigger: func(rs models.ResponseSet) bool {
			return rs.NumberOrZero("age") >= 18
		},
		Questions: []models.Question{
			scaleQ("exercise_frequency", "On how many days per week do you exercise for at least 30 minutes?", 0, 7),
			{
				ID:       "smoking_status",
				Text:     "Do you smoke tobacco?",
				Type:     models.QuestionTypeSelect,
				Required: true,
				Options:  []string{"never", "former", "current"},
			},
			scaleQ("alcohol_consumption", "How often do you have a drink containing alcohol? (0 = never, 4 = four or more times a week)", 0, 4),
			{
				ID:            "audit_quantity",
				Text:          "How many drinks do you have on a typical day when drinking? (0 = 1-2, 4 = 10 or more)",
				Type:          models.QuestionTypeScale,
				Required:      true,
				Validation:    &models.Range{Min: 0, Max: 4},
				ConditionalOn: auditFollowUp,
			},
			{
				ID:            "audit_binge",
				Text:          "How often do you have six or more drinks on one occasion? (0 = never, 4 = daily or almost daily)",
				Type:          models.QuestionTypeScale,
				Required:      true,
				Validation:    &models.Range{Min: 0, Max: 4},
				ConditionalOn: auditFollowUp,
			},
		},
		Continuation: &Continuation{
			DomainID: models.DomainFamilyHistory,
			Eligible: func(rs models.ResponseSet) bool {
				return rs.NumberOrZero("age") >= 25
			},
		},
	}

	familyHistory := &Domain{
		ID:       models.DomainFamilyHistory,
		Title:    "Family History",
		Priority: 5,
		Nested:   true,
		Questions: []models.Question{
			boolQ("family_heart_disease", "Has a parent or sibling been diagnosed with heart disease?"),
			boolQ("family_diabetes", "Has a parent or sibling been diagnosed with diabetes?"),
			boolQ("family_cancer", "Has a parent or sibling been diagnosed with cancer?"),
			boolQ("family_mental_health", "Has a parent or sibling been treated for a mental health condition?"),
		},
	}

	validation := &Domain{
		ID:       models.DomainValidation,
		Title:    "Final Check",
		Priority: 1,
		Questions: func() []models.Question {
			qs := who5Questions()
			qs = append(qs,
				models.Question{
					ID:         "sleep_hours",
					Text:       "On average, how many hours do you sleep per night?",
					Type:       models.QuestionTypeNumber,
					Required:   true,
					Validation: &models.Range{Min: 0, Max: 24},
				},
				models.Question{
					ID:         "height_confirm",
					Text:       "To confirm our records, what is your height in centimeters?",
					Type:       models.QuestionTypeNumber,
					Required:   true,
					Validation: &models.Range{Min: 50, Max: 250},
				},
				models.Question{
					ID:         "weight_confirm",
					Text:       "To confirm our records, what is your weight in kilograms?",
					Type:       models.QuestionTypeNumber,
					Required:   true,
					Validation: &models.Range{Min: 20, Max: 350},
				},
				boolQ("accuracy_confirmation", "Do you confirm that your answers are accurate to the best of your knowledge?"),
			)
			return qs
		}(),
	}

	return NewRegistry(triage, []*Domain{
		mentalHealth,
		painManagement,
		chronicDisease,
		lifestyle,
		familyHistory,
		validation,
	})
}
