package dto

import "tripnest-backend/internal/projections"

// CreateTripRequest represents the payload to create a trip
type CreateTripRequest struct {
	Name        string  `json:"name"`
	Destination string  `json:"destination"`
	StartDate   string  `json:"start_date"` // ISO 8601 format: YYYY-MM-DD or RFC3339
	EndDate     string  `json:"end_date"`   // ISO 8601 format: YYYY-MM-DD or RFC3339
	Budget      float64 `json:"budget"`
}

// MemberResponse is a membership entry in trip responses
type MemberResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

// InvitationResponse is a pending invitation entry in trip responses
type InvitationResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Status   string `json:"status"`
}

// ChecklistItemResponse is a checklist entry in trip responses
type ChecklistItemResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// BudgetCategoryResponse is a budget bucket in trip responses
type BudgetCategoryResponse struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// ParticipantResponse is a contributor entry in trip responses
type ParticipantResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// TripResponse represents a full trip aggregate in responses, including
// values derived from the nested collections.
type TripResponse struct {
	ID               string                   `json:"id"`
	Name             string                   `json:"name,omitempty"`
	Destination      string                   `json:"destination"`
	StartDate        string                   `json:"start_date"`
	EndDate          string                   `json:"end_date"`
	Budget           float64                  `json:"budget"`
	CreatedBy        string                   `json:"created_by"`
	Members          []MemberResponse         `json:"members"`
	Invitations      []InvitationResponse     `json:"invitations"`
	Checklist        []ChecklistItemResponse  `json:"checklist"`
	BudgetCategories []BudgetCategoryResponse `json:"budget_categories"`
	Participants     []ParticipantResponse    `json:"participants"`
	Summary          projections.Summary      `json:"summary"`
	CreatedAt        string                   `json:"created_at"`
	UpdatedAt        string                   `json:"updated_at"`
}

// CreateTripResponse envelope
type CreateTripResponse struct {
	Trip TripResponse `json:"trip"`
}

// TripListResponse envelope
type TripListResponse struct {
	Trips []TripResponse `json:"trips"`
}

// AddChecklistItemRequest represents the payload to add a checklist item
type AddChecklistItemRequest struct {
	Text string `json:"text"`
}

// SetBudgetCategoryRequest represents the payload to set a budget bucket
type SetBudgetCategoryRequest struct {
	Amount float64 `json:"amount"`
}

// AddParticipantRequest represents the payload to add a participant
type AddParticipantRequest struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// UpdateParticipantRequest represents the payload to update a pledge
type UpdateParticipantRequest struct {
	Amount float64 `json:"amount"`
}
