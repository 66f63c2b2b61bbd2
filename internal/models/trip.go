package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Member roles. Exactly one admin exists per trip, assigned at creation
// to the creator; there is no code path that demotes or reassigns it.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Invitation status. Accepted invitations are deleted rather than marked,
// their effect is the resulting member row.
const InvitationPending = "pending"

// Trip represents a planned journey owned by its creator.
type Trip struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Destination string    `json:"destination" db:"destination"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	Budget      float64   `json:"budget" db:"budget"`
	CreatedBy   uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Member is a user with accepted access to a trip.
type Member struct {
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	Username string    `json:"username" db:"username"`
	Role     string    `json:"role" db:"role"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

// Invitation is a pending offer of membership tied to a target user.
type Invitation struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Status    string    `json:"status" db:"status"`
	InvitedBy uuid.UUID `json:"invited_by" db:"invited_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ChecklistItem is a boolean-state task associated with a trip.
type ChecklistItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	Done      bool      `json:"done" db:"done"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BudgetCategory is a named non-negative expense bucket.
type BudgetCategory struct {
	Category string  `json:"category" db:"category"`
	Amount   float64 `json:"amount" db:"amount"`
}

// Participant is a named contributor with a pledged amount. Participants
// are display records, distinct from members.
type Participant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Amount    float64   `json:"amount" db:"amount"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PendingInvite is the cross-trip view of an invitation, shown to the
// invited user.
type PendingInvite struct {
	TripID   uuid.UUID `json:"trip_id"`
	TripName string    `json:"trip_name"`
	Inviter  string    `json:"inviter"`
}

// InviterFallback labels an invitation when the trip has no admin row.
const InviterFallback = "Trip admin"

// TripSnapshot is the fully loaded aggregate: the trip row plus every
// nested collection, in insertion order. All workflow checks operate on
// a snapshot so that the rules live in one place.
type TripSnapshot struct {
	Trip
	Members          []Member         `json:"members"`
	Invitations      []Invitation     `json:"invitations"`
	Checklist        []ChecklistItem  `json:"checklist"`
	BudgetCategories []BudgetCategory `json:"budget_categories"`
	Participants     []Participant    `json:"participants"`
}

// ValidateNewTrip checks the creation attributes. Destination is
// mandatory, name is optional, budget must be non-negative and the
// dates must be ordered.
func ValidateNewTrip(destination string, budget float64, start, end time.Time) error {
	if strings.TrimSpace(destination) == "" {
		return Invalid("destination", "destination is required")
	}
	if budget < 0 {
		return Invalid("budget", "budget cannot be negative")
	}
	if end.Before(start) {
		return Invalid("end_date", "end_date cannot be before start_date")
	}
	return nil
}

// ValidateChecklistText rejects empty checklist items and returns the
// trimmed text.
func ValidateChecklistText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", Invalid("text", "text is required")
	}
	return text, nil
}

// ValidateAmount rejects negative monetary values for the named field.
func ValidateAmount(field string, amount float64) error {
	if amount < 0 {
		return Invalid(field, field+" cannot be negative")
	}
	return nil
}

// ValidateParticipant checks a new participant entry and returns the
// trimmed name.
func ValidateParticipant(name string, amount float64) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", Invalid("name", "name is required")
	}
	if err := ValidateAmount("amount", amount); err != nil {
		return "", err
	}
	return name, nil
}

// Member returns the membership entry for the given user.
func (s *TripSnapshot) Member(userID uuid.UUID) (Member, bool) {
	for _, m := range s.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return Member{}, false
}

// IsMember reports whether the user has accepted access to the trip.
func (s *TripSnapshot) IsMember(userID uuid.UUID) bool {
	_, ok := s.Member(userID)
	return ok
}

// IsAdmin reports whether the user holds the admin role on the trip.
func (s *TripSnapshot) IsAdmin(userID uuid.UUID) bool {
	m, ok := s.Member(userID)
	return ok && m.Role == RoleAdmin
}

// Admin returns the trip's admin member, if one exists.
func (s *TripSnapshot) Admin() (Member, bool) {
	for _, m := range s.Members {
		if m.Role == RoleAdmin {
			return m, true
		}
	}
	return Member{}, false
}

// InviterLabel is the username shown next to a pending invitation:
// the admin's name, or a fallback when no admin row is present.
func (s *TripSnapshot) InviterLabel() string {
	if admin, ok := s.Admin(); ok {
		return admin.Username
	}
	return InviterFallback
}

// PendingInvitation returns the user's pending invitation to this trip.
func (s *TripSnapshot) PendingInvitation(userID uuid.UUID) (Invitation, bool) {
	for _, inv := range s.Invitations {
		if inv.UserID == userID && inv.Status == InvitationPending {
			return inv, true
		}
	}
	return Invitation{}, false
}

// CheckDelete enforces admin-only trip deletion.
func (s *TripSnapshot) CheckDelete(requesterID uuid.UUID) error {
	if !s.IsAdmin(requesterID) {
		return ErrForbidden
	}
	return nil
}

// CheckEdit enforces the mutation policy for checklist, budget and
// participant edits: any member may edit.
func (s *TripSnapshot) CheckEdit(requesterID uuid.UUID) error {
	if !s.IsMember(requesterID) {
		return ErrForbidden
	}
	return nil
}

// CheckInvite validates an invitation from inviterID to the resolved
// target user. Only the admin invites; a target may be invited once,
// may not already be a member and may not be the inviter.
func (s *TripSnapshot) CheckInvite(inviterID uuid.UUID, target User) error {
	if !s.IsAdmin(inviterID) {
		return ErrForbidden
	}
	if target.ID == inviterID {
		return ErrSelfInvite
	}
	if s.IsMember(target.ID) {
		return ErrAlreadyMember
	}
	if _, ok := s.PendingInvitation(target.ID); ok {
		return ErrDuplicatePending
	}
	return nil
}

// CheckAccept validates that userID can accept an invitation to this
// trip and returns the invitation that will be consumed.
func (s *TripSnapshot) CheckAccept(userID uuid.UUID) (Invitation, error) {
	inv, ok := s.PendingInvitation(userID)
	if !ok {
		return Invitation{}, ErrNoSuchInvitation
	}
	return inv, nil
}
