package services

import (
	"math"

	"audit-service/internal/models"
)

// ComputeScore derives the compliance percentage for a set of audit items.
//
// Items still pending and items marked n/a are excluded from both numerator
// and denominator: pending work must not move the rate while the audit is
// unfinished, and not-applicable questions cannot be held against a site.
// Observations and corrected-on-site findings count as scored but not
// compliant; both recorded a failure at inspection time.
//
// When no item is scoreable the score is 0, not undefined. Callers that need
// to tell "no evidence yet" apart from "everything failed" must also inspect
// the returned scored count.
func ComputeScore(items []models.AuditItem) (score, scored int) {
	compliant := 0
	for i := range items {
		if !items[i].IsScored() {
			continue
		}
		scored++
		if items[i].Status == models.ItemStatusCompliant {
			compliant++
		}
	}
	if scored == 0 {
		return 0, 0
	}
	return int(math.Round(100 * float64(compliant) / float64(scored))), scored
}
