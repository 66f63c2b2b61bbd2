package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2026, 9, n, 0, 0, 0, 0, time.UTC)
}

func testSnapshot(adminID uuid.UUID) *TripSnapshot {
	s := &TripSnapshot{}
	s.ID = uuid.New()
	s.Name = "Summer trip"
	s.Destination = "Lisbon"
	s.Members = []Member{
		{UserID: adminID, Username: "alice", Role: RoleAdmin, JoinedAt: day(1)},
	}
	return s
}

func TestValidateNewTrip(t *testing.T) {
	assert.NoError(t, ValidateNewTrip("Lisbon", 100, day(1), day(5)))

	var verr *ValidationError

	err := ValidateNewTrip("  ", 100, day(1), day(5))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "destination", verr.Field)

	err = ValidateNewTrip("Lisbon", -1, day(1), day(5))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "budget", verr.Field)

	err = ValidateNewTrip("Lisbon", 0, day(5), day(1))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "end_date", verr.Field)

	// Single-day trips are fine
	assert.NoError(t, ValidateNewTrip("Lisbon", 0, day(3), day(3)))
}

func TestValidateChecklistText(t *testing.T) {
	text, err := ValidateChecklistText("  pack bags  ")
	require.NoError(t, err)
	assert.Equal(t, "pack bags", text)

	_, err = ValidateChecklistText("   ")
	assert.Error(t, err)
}

func TestValidateParticipant(t *testing.T) {
	name, err := ValidateParticipant(" Bob ", 50)
	require.NoError(t, err)
	assert.Equal(t, "Bob", name)

	_, err = ValidateParticipant("", 50)
	assert.Error(t, err)

	_, err = ValidateParticipant("Bob", -1)
	assert.Error(t, err)
}

func TestCheckDelete(t *testing.T) {
	adminID := uuid.New()
	memberID := uuid.New()
	s := testSnapshot(adminID)
	s.Members = append(s.Members, Member{UserID: memberID, Username: "bob", Role: RoleMember})

	assert.NoError(t, s.CheckDelete(adminID))
	assert.ErrorIs(t, s.CheckDelete(memberID), ErrForbidden)
	assert.ErrorIs(t, s.CheckDelete(uuid.New()), ErrForbidden)
}

func TestCheckEdit(t *testing.T) {
	adminID := uuid.New()
	memberID := uuid.New()
	s := testSnapshot(adminID)
	s.Members = append(s.Members, Member{UserID: memberID, Username: "bob", Role: RoleMember})

	assert.NoError(t, s.CheckEdit(adminID))
	assert.NoError(t, s.CheckEdit(memberID))
	assert.ErrorIs(t, s.CheckEdit(uuid.New()), ErrForbidden)
}

func TestCheckInvite(t *testing.T) {
	adminID := uuid.New()
	memberID := uuid.New()
	pendingID := uuid.New()
	s := testSnapshot(adminID)
	s.Members = append(s.Members, Member{UserID: memberID, Username: "bob", Role: RoleMember})
	s.Invitations = []Invitation{
		{ID: uuid.New(), UserID: pendingID, Username: "carol", Status: InvitationPending},
	}

	fresh := User{ID: uuid.New(), Username: "dave"}

	// Only the admin may invite
	assert.ErrorIs(t, s.CheckInvite(memberID, fresh), ErrForbidden)
	assert.ErrorIs(t, s.CheckInvite(uuid.New(), fresh), ErrForbidden)

	assert.ErrorIs(t, s.CheckInvite(adminID, User{ID: adminID}), ErrSelfInvite)
	assert.ErrorIs(t, s.CheckInvite(adminID, User{ID: memberID}), ErrAlreadyMember)
	assert.ErrorIs(t, s.CheckInvite(adminID, User{ID: pendingID}), ErrDuplicatePending)

	assert.NoError(t, s.CheckInvite(adminID, fresh))
}

func TestCheckAccept(t *testing.T) {
	adminID := uuid.New()
	invitedID := uuid.New()
	s := testSnapshot(adminID)
	s.Invitations = []Invitation{
		{ID: uuid.New(), UserID: invitedID, Username: "carol", Status: InvitationPending},
	}

	inv, err := s.CheckAccept(invitedID)
	require.NoError(t, err)
	assert.Equal(t, "carol", inv.Username)

	_, err = s.CheckAccept(uuid.New())
	assert.ErrorIs(t, err, ErrNoSuchInvitation)
}

func TestInviterLabel(t *testing.T) {
	adminID := uuid.New()
	s := testSnapshot(adminID)
	assert.Equal(t, "alice", s.InviterLabel())

	s.Members = nil
	assert.Equal(t, InviterFallback, s.InviterLabel())
}

func TestAdminLookup(t *testing.T) {
	adminID := uuid.New()
	s := testSnapshot(adminID)

	admin, ok := s.Admin()
	require.True(t, ok)
	assert.Equal(t, adminID, admin.UserID)
	assert.True(t, s.IsAdmin(adminID))
	assert.False(t, s.IsAdmin(uuid.New()))
}
