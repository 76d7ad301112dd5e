package models

import "fmt"

// Instrument item ids. The registry asks these questions and the clinical
// scorer sums them; both sides must agree on the exact ids.

// PHQ9ItemIDs returns phq9_1 .. phq9_9.
func PHQ9ItemIDs() []string {
	return instrumentItemIDs("phq9", 9)
}

// GAD7ItemIDs returns gad7_1 .. gad7_7.
func GAD7ItemIDs() []string {
	return instrumentItemIDs("gad7", 7)
}

// WHO5ItemIDs returns who5_1 .. who5_5.
func WHO5ItemIDs() []string {
	return instrumentItemIDs("who5", 5)
}

// AUDITCItemIDs returns the three AUDIT-C item ids. The first doubles as
// the lifestyle alcohol question; the other two are its conditional
// follow-ups.
func AUDITCItemIDs() []string {
	return []string{"alcohol_consumption", "audit_quantity", "audit_binge"}
}

// PEGItemIDs returns the three pain-interference item ids.
func PEGItemIDs() []string {
	return []string{"peg_pain", "peg_enjoyment", "peg_activity"}
}

func instrumentItemIDs(prefix string, n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, fmt.Sprintf("%s_%d", prefix, i))
	}
	return ids
}
