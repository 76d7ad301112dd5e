package scoring

import (
	"time"

	"github.com/LumenHealth/TriageFlow/internal/models"
)

// Compute runs the full scoring pipeline over a completed session's
// responses: instrument totals, risk classification, consistency pass, and
// the engagement score.
func Compute(rs models.ResponseSet, completedDomains []string, completedAt time.Time) models.Results {
	clinical := Clinical(rs)
	risk := Risk(clinical, rs)
	fraud := Fraud(rs)
	return models.Results{
		Clinical:         clinical,
		Risk:             risk,
		Fraud:            fraud,
		Gamification:     Gamify(rs, risk, fraud),
		CompletedDomains: completedDomains,
		CompletedAt:      completedAt,
	}
}
