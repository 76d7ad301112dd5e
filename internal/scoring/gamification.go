package scoring

import (
	"log/slog"

	"github.com/LumenHealth/TriageFlow/internal/models"
)

// Gamification constants.
const (
	gamificationBase   = 100
	riskPenaltyDivisor = 10
	riskPenaltyCap     = 50

	levelPlatinumMin = 95
	levelGoldMin     = 85
	levelSilverMin   = 75
)

// bonus is one enumerated engagement bonus.
type bonus struct {
	Name    string
	Points  int
	Applies func(models.ResponseSet, models.FraudIndicators) bool
}

var bonuses = []bonus{
	{"regular_exercise", 5, func(rs models.ResponseSet, _ models.FraudIndicators) bool {
		n, ok := rs.Number("exercise_frequency")
		return ok && n >= 3
	}},
	{"healthy_sleep", 5, func(rs models.ResponseSet, _ models.FraudIndicators) bool {
		n, ok := rs.Number("sleep_hours")
		return ok && n >= 7 && n <= 9
	}},
	{"non_smoker", 5, func(rs models.ResponseSet, _ models.FraudIndicators) bool {
		s, _ := rs.String("smoking_status")
		return s == "never"
	}},
	{"consistent_answers", 10, func(_ models.ResponseSet, fraud models.FraudIndicators) bool {
		return fraud.Recommendation == models.FraudAccept
	}},
	{"session_complete", 10, func(_ models.ResponseSet, _ models.FraudIndicators) bool {
		return true
	}},
}

// instrumentBadge awards a badge (and its bonus) for fully answering an
// instrument's item group.
type instrumentBadge struct {
	Name   string
	Points int
	Items  []string
}

func instrumentBadges() []instrumentBadge {
	return []instrumentBadge{
		{"phq9_complete", 5, models.PHQ9ItemIDs()},
		{"gad7_complete", 5, models.GAD7ItemIDs()},
		{"who5_complete", 5, models.WHO5ItemIDs()},
	}
}

// Gamify derives the engagement score from the risk and fraud outputs plus
// the recorded answers. The score starts at 100, loses up to 50 points for
// overall risk, earns the enumerated bonuses, and is clamped to [0,100].
func Gamify(rs models.ResponseSet, risk models.RiskAssessment, fraud models.FraudIndicators) models.GamificationScore {
	penalty := risk.Overall / riskPenaltyDivisor
	if penalty > riskPenaltyCap {
		penalty = riskPenaltyCap
	}
	score := gamificationBase - penalty

	out := models.GamificationScore{Badges: []string{}, Bonuses: []string{}}
	for _, b := range bonuses {
		if b.Applies(rs, fraud) {
			score += b.Points
			out.Bonuses = append(out.Bonuses, b.Name)
		}
	}
	for _, badge := range instrumentBadges() {
		if allAnswered(rs, badge.Items) {
			score += badge.Points
			out.Badges = append(out.Badges, badge.Name)
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	out.Score = score
	out.Level = level(score)
	slog.Debug("scoring.Gamify: scored", "score", out.Score, "level", out.Level)
	return out
}

func allAnswered(rs models.ResponseSet, ids []string) bool {
	for _, id := range ids {
		if _, ok := rs[id]; !ok {
			return false
		}
	}
	return true
}

func level(score int) models.GamificationLevel {
	switch {
	case score >= levelPlatinumMin:
		return models.LevelPlatinum
	case score >= levelGoldMin:
		return models.LevelGold
	case score >= levelSilverMin:
		return models.LevelSilver
	default:
		return models.LevelBronze
	}
}
