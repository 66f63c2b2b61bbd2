package dto

// SendInvitationRequest represents the payload to invite a user by email
type SendInvitationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PendingInvitationItem is one pending invitation across all trips
type PendingInvitationItem struct {
	TripID   string `json:"trip_id"`
	TripName string `json:"trip_name"`
	Inviter  string `json:"inviter"`
}

// PendingInvitationsResponse envelope
type PendingInvitationsResponse struct {
	Invitations []PendingInvitationItem `json:"invitations"`
}
