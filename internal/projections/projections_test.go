package projections

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tripnest-backend/internal/models"
)

func snapshotWithBudget(budget float64) *models.TripSnapshot {
	s := &models.TripSnapshot{}
	s.Budget = budget
	return s
}

func TestCollectedAndRemaining(t *testing.T) {
	s := snapshotWithBudget(1000)
	s.Participants = []models.Participant{
		{Name: "Alice", Amount: 400},
		{Name: "Bob", Amount: 600},
	}

	assert.Equal(t, 1000.0, Collected(s))
	assert.Equal(t, 0.0, RemainingToCollect(s))
}

func TestSpentAndRemainingBudget(t *testing.T) {
	s := snapshotWithBudget(500)
	s.BudgetCategories = []models.BudgetCategory{
		{Category: "flights", Amount: 300},
		{Category: "hotel", Amount: 150},
	}

	assert.Equal(t, 450.0, Spent(s))
	assert.Equal(t, 50.0, RemainingBudget(s))
}

func TestOverspendIsAllowed(t *testing.T) {
	s := snapshotWithBudget(100)
	s.BudgetCategories = []models.BudgetCategory{
		{Category: "hotel", Amount: 250},
	}

	assert.Equal(t, -150.0, RemainingBudget(s))
}

func TestChecklistProgress(t *testing.T) {
	s := snapshotWithBudget(0)
	s.Checklist = []models.ChecklistItem{
		{Text: "pack bags", Done: true},
		{Text: "book flight", Done: false},
	}

	assert.Equal(t, 0.5, ChecklistProgress(s))
}

func TestChecklistProgressEmpty(t *testing.T) {
	s := snapshotWithBudget(0)

	assert.Equal(t, 0.0, ChecklistProgress(s))
}

func TestSummarize(t *testing.T) {
	s := snapshotWithBudget(1000)
	s.BudgetCategories = []models.BudgetCategory{{Category: "food", Amount: 200}}
	s.Participants = []models.Participant{{Name: "Alice", Amount: 400}}
	s.Checklist = []models.ChecklistItem{
		{Text: "pack", Done: true},
		{Text: "plan", Done: true},
		{Text: "go", Done: false},
	}

	got := Summarize(s)
	assert.Equal(t, 200.0, got.Spent)
	assert.Equal(t, 400.0, got.Collected)
	assert.InDelta(t, 2.0/3.0, got.ChecklistProgress, 1e-9)
	assert.Equal(t, 800.0, got.RemainingBudget)
	assert.Equal(t, 600.0, got.RemainingToCollect)
}
