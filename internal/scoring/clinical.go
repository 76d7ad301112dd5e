// Package scoring holds the pure computations run at session completion:
// clinical instrument totals, risk classification, consistency checking,
// and the engagement score. Nothing here mutates the response set and
// nothing here returns an error: missing answers read as 0/false so partial
// sessions still produce a best-effort result.
package scoring

import (
	"github.com/LumenHealth/TriageFlow/internal/models"
)

// Clinical computes the instrument totals from the recorded answers.
func Clinical(rs models.ResponseSet) models.ClinicalScores {
	return models.ClinicalScores{
		PHQ9:             sumItems(rs, models.PHQ9ItemIDs()),
		GAD7:             sumItems(rs, models.GAD7ItemIDs()),
		AUDITC:           sumItems(rs, models.AUDITCItemIDs()),
		WHO5:             sumItems(rs, models.WHO5ItemIDs()),
		PainInterference: meanItems(rs, models.PEGItemIDs()),
	}
}

func sumItems(rs models.ResponseSet, ids []string) int {
	total := 0.0
	for _, id := range ids {
		total += rs.NumberOrZero(id)
	}
	return int(total)
}

// meanItems is the arithmetic mean over the fixed item group, missing items
// counting as zero.
func meanItems(rs models.ResponseSet, ids []string) float64 {
	if len(ids) == 0 {
		return 0
	}
	total := 0.0
	for _, id := range ids {
		total += rs.NumberOrZero(id)
	}
	return total / float64(len(ids))
}
