// Package projections computes display values derived from a trip
// snapshot. Everything here is pure: no I/O, no stored state, recomputed
// on every read.
package projections

import (
	"tripnest-backend/internal/models"
)

// Spent is the sum of all budget category amounts.
func Spent(s *models.TripSnapshot) float64 {
	var total float64
	for _, c := range s.BudgetCategories {
		total += c.Amount
	}
	return total
}

// Collected is the sum of all participant amounts.
func Collected(s *models.TripSnapshot) float64 {
	var total float64
	for _, p := range s.Participants {
		total += p.Amount
	}
	return total
}

// ChecklistProgress is the done ratio, 0 for an empty checklist.
func ChecklistProgress(s *models.TripSnapshot) float64 {
	if len(s.Checklist) == 0 {
		return 0
	}
	done := 0
	for _, item := range s.Checklist {
		if item.Done {
			done++
		}
	}
	return float64(done) / float64(len(s.Checklist))
}

// RemainingBudget is budget minus spent. Overspend yields a negative
// value and is allowed.
func RemainingBudget(s *models.TripSnapshot) float64 {
	return s.Budget - Spent(s)
}

// RemainingToCollect is budget minus collected.
func RemainingToCollect(s *models.TripSnapshot) float64 {
	return s.Budget - Collected(s)
}

// Summary bundles every derived value for one snapshot.
type Summary struct {
	Spent              float64 `json:"spent"`
	Collected          float64 `json:"collected"`
	ChecklistProgress  float64 `json:"checklist_progress"`
	RemainingBudget    float64 `json:"remaining_budget"`
	RemainingToCollect float64 `json:"remaining_to_collect"`
}

// Summarize computes the full Summary for a snapshot.
func Summarize(s *models.TripSnapshot) Summary {
	return Summary{
		Spent:              Spent(s),
		Collected:          Collected(s),
		ChecklistProgress:  ChecklistProgress(s),
		RemainingBudget:    RemainingBudget(s),
		RemainingToCollect: RemainingToCollect(s),
	}
}
