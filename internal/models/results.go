package models

import "time"

// ClinicalScores holds the computed instrument totals for one session.
// Missing answers contribute zero, so partial sessions still score.
type ClinicalScores struct {
	PHQ9             int     `json:"phq9"`              // 0-27
	GAD7             int     `json:"gad7"`              // 0-21
	AUDITC           int     `json:"audit_c"`           // 0-12
	WHO5             int     `json:"who5"`              // 0-25
	PainInterference float64 `json:"pain_interference"` // mean of the three PEG items, 0-10
}

// RiskBand is the overall classification derived from category totals and
// safety flags.
type RiskBand string

const (
	RiskBandLow      RiskBand = "low"
	RiskBandModerate RiskBand = "moderate"
	RiskBandHigh     RiskBand = "high"
	RiskBandCritical RiskBand = "critical"
)

// Risk category names used as keys in RiskAssessment.Categories.
const (
	CategoryCardiovascular = "cardiovascular"
	CategoryMentalHealth   = "mental_health"
	CategorySubstanceAbuse = "substance_abuse"
	CategoryChronicDisease = "chronic_disease"
	CategoryAllergyRisk    = "allergy_risk"
	CategorySafetyRisk     = "safety_risk"
)

// RiskAssessment is the output of the risk classifier. Overall is the
// unclamped sum of all category totals.
type RiskAssessment struct {
	Overall         int            `json:"overall"`
	Band            RiskBand       `json:"band"`
	Categories      map[string]int `json:"categories"`
	Flags           []string       `json:"flags"`
	Recommendations []string       `json:"recommendations"`
}

// FraudRecommendation is the consistency verdict for a response set.
type FraudRecommendation string

const (
	FraudAccept FraudRecommendation = "accept"
	FraudReview FraudRecommendation = "review"
	FraudFlag   FraudRecommendation = "flag"
)

// FraudIndicators is the output of the consistency checker. Every check
// always runs; the score is a linear accumulation of the triggered weights.
type FraudIndicators struct {
	InconsistencyScore int                 `json:"inconsistency_score"`
	SuspiciousPatterns []string            `json:"suspicious_patterns"`
	ValidationFailures []string            `json:"validation_failures"`
	Recommendation     FraudRecommendation `json:"recommendation"`
}

// GamificationLevel is the badge tier derived from the gamification score.
type GamificationLevel string

const (
	LevelBronze   GamificationLevel = "bronze"
	LevelSilver   GamificationLevel = "silver"
	LevelGold     GamificationLevel = "gold"
	LevelPlatinum GamificationLevel = "platinum"
)

// GamificationScore is the engagement summary shown to the user after
// completion. Score is clamped to [0,100].
type GamificationScore struct {
	Score   int               `json:"score"`
	Level   GamificationLevel `json:"level"`
	Badges  []string          `json:"badges,omitempty"`
	Bonuses []string          `json:"bonuses,omitempty"`
}

// Results bundles everything computed at session completion.
type Results struct {
	Clinical         ClinicalScores    `json:"clinical"`
	Risk             RiskAssessment    `json:"risk"`
	Fraud            FraudIndicators   `json:"fraud"`
	Gamification     GamificationScore `json:"gamification"`
	CompletedDomains []string          `json:"completed_domains"`
	CompletedAt      time.Time         `json:"completed_at"`
}
