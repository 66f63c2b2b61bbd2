package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tripnest-backend/internal/dto"
	"tripnest-backend/internal/models"
	"tripnest-backend/internal/projections"
	"tripnest-backend/internal/utils"
	"tripnest-backend/internal/watch"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the loaders
// below work inside and outside transactions.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// writeScanError maps a row-scan failure onto the response: no rows
// means the entity is absent, anything else is a storage failure.
func writeScanError(w http.ResponseWriter, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		utils.WriteDomainError(w, models.ErrNotFound)
		return
	}
	utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
}

// loadTripSnapshot loads the trip row and every nested collection in
// insertion order. Returns models.ErrNotFound for unknown trips.
func loadTripSnapshot(ctx context.Context, q querier, tripID uuid.UUID) (*models.TripSnapshot, error) {
	var s models.TripSnapshot
	err := q.QueryRow(ctx,
		`SELECT id, name, destination, start_date, end_date, budget, created_by, created_at, updated_at
           FROM trips WHERE id = $1`, tripID).Scan(
		&s.ID, &s.Name, &s.Destination, &s.StartDate, &s.EndDate, &s.Budget, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("load trip: %w", err)
	}

	rows, err := q.Query(ctx,
		`SELECT user_id, username, role, joined_at
           FROM trip_members WHERE trip_id = $1 ORDER BY joined_at, user_id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	s.Members = make([]models.Member, 0, 4)
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UserID, &m.Username, &m.Role, &m.JoinedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan member: %w", err)
		}
		s.Members = append(s.Members, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	rows, err = q.Query(ctx,
		`SELECT id, user_id, username, email, status, invited_by, created_at
           FROM trip_invitations WHERE trip_id = $1 ORDER BY created_at, id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("load invitations: %w", err)
	}
	s.Invitations = make([]models.Invitation, 0)
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.Username, &inv.Email, &inv.Status, &inv.InvitedBy, &inv.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		s.Invitations = append(s.Invitations, inv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invitations: %w", err)
	}

	rows, err = q.Query(ctx,
		`SELECT id, text, done, created_at
           FROM checklist_items WHERE trip_id = $1 ORDER BY created_at, id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("load checklist: %w", err)
	}
	s.Checklist = make([]models.ChecklistItem, 0)
	for rows.Next() {
		var item models.ChecklistItem
		if err := rows.Scan(&item.ID, &item.Text, &item.Done, &item.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan checklist item: %w", err)
		}
		s.Checklist = append(s.Checklist, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checklist: %w", err)
	}

	rows, err = q.Query(ctx,
		`SELECT category, amount
           FROM budget_categories WHERE trip_id = $1 ORDER BY created_at, category`, tripID)
	if err != nil {
		return nil, fmt.Errorf("load budget categories: %w", err)
	}
	s.BudgetCategories = make([]models.BudgetCategory, 0)
	for rows.Next() {
		var c models.BudgetCategory
		if err := rows.Scan(&c.Category, &c.Amount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan budget category: %w", err)
		}
		s.BudgetCategories = append(s.BudgetCategories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget categories: %w", err)
	}

	rows, err = q.Query(ctx,
		`SELECT id, name, amount, created_at
           FROM participants WHERE trip_id = $1 ORDER BY created_at, id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	s.Participants = make([]models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Amount, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		s.Participants = append(s.Participants, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}

	return &s, nil
}

// loadUserTrips loads the full snapshot of every trip the user is a
// member of, most recent first.
func loadUserTrips(ctx context.Context, q querier, userID uuid.UUID) ([]models.TripSnapshot, error) {
	rows, err := q.Query(ctx,
		`SELECT t.id
           FROM trips t
           JOIN trip_members tm ON tm.trip_id = t.id
          WHERE tm.user_id = $1
          ORDER BY t.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan trip id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trip ids: %w", err)
	}

	trips := make([]models.TripSnapshot, 0, len(ids))
	for _, id := range ids {
		s, err := loadTripSnapshot(ctx, q, id)
		if err != nil {
			// Deleted between the list query and the load; skip.
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return nil, err
		}
		trips = append(trips, *s)
	}
	return trips, nil
}

// loadPendingInvites scans all trips for pending invitations addressed
// to the user, labelled with the admin member's username.
func loadPendingInvites(ctx context.Context, q querier, userID uuid.UUID) ([]models.PendingInvite, error) {
	rows, err := q.Query(ctx,
		`SELECT t.id, t.name, COALESCE(am.username, '')
           FROM trip_invitations i
           JOIN trips t ON t.id = i.trip_id
           LEFT JOIN trip_members am ON am.trip_id = t.id AND am.role = 'admin'
          WHERE i.user_id = $1 AND i.status = 'pending'
          ORDER BY i.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending invitations: %w", err)
	}
	defer rows.Close()

	invites := make([]models.PendingInvite, 0)
	for rows.Next() {
		var inv models.PendingInvite
		if err := rows.Scan(&inv.TripID, &inv.TripName, &inv.Inviter); err != nil {
			return nil, fmt.Errorf("scan pending invitation: %w", err)
		}
		if inv.Inviter == "" {
			inv.Inviter = models.InviterFallback
		}
		invites = append(invites, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending invitations: %w", err)
	}
	return invites, nil
}

// NewSnapshotLoader adapts the pool-backed loaders to the watch hub.
func NewSnapshotLoader(db *pgxpool.Pool) watch.LoadFunc {
	return func(ctx context.Context, userID uuid.UUID) (*watch.Snapshot, error) {
		trips, err := loadUserTrips(ctx, db, userID)
		if err != nil {
			return nil, err
		}
		invites, err := loadPendingInvites(ctx, db, userID)
		if err != nil {
			return nil, err
		}
		return &watch.Snapshot{Trips: trips, Invitations: invites}, nil
	}
}

// tripToResponse converts a snapshot into its API shape, recomputing
// the derived summary.
func tripToResponse(s *models.TripSnapshot) dto.TripResponse {
	members := make([]dto.MemberResponse, 0, len(s.Members))
	for _, m := range s.Members {
		members = append(members, dto.MemberResponse{
			UserID:   m.UserID.String(),
			Username: m.Username,
			Role:     m.Role,
			JoinedAt: utils.FormatTimestamp(m.JoinedAt),
		})
	}
	invitations := make([]dto.InvitationResponse, 0, len(s.Invitations))
	for _, inv := range s.Invitations {
		invitations = append(invitations, dto.InvitationResponse{
			ID:       inv.ID.String(),
			UserID:   inv.UserID.String(),
			Username: inv.Username,
			Email:    inv.Email,
			Status:   inv.Status,
		})
	}
	checklist := make([]dto.ChecklistItemResponse, 0, len(s.Checklist))
	for _, item := range s.Checklist {
		checklist = append(checklist, dto.ChecklistItemResponse{
			ID:   item.ID.String(),
			Text: item.Text,
			Done: item.Done,
		})
	}
	categories := make([]dto.BudgetCategoryResponse, 0, len(s.BudgetCategories))
	for _, c := range s.BudgetCategories {
		categories = append(categories, dto.BudgetCategoryResponse{
			Category: c.Category,
			Amount:   c.Amount,
		})
	}
	participants := make([]dto.ParticipantResponse, 0, len(s.Participants))
	for _, p := range s.Participants {
		participants = append(participants, dto.ParticipantResponse{
			ID:     p.ID.String(),
			Name:   p.Name,
			Amount: p.Amount,
		})
	}

	return dto.TripResponse{
		ID:               s.ID.String(),
		Name:             s.Name,
		Destination:      s.Destination,
		StartDate:        utils.FormatDate(s.StartDate),
		EndDate:          utils.FormatDate(s.EndDate),
		Budget:           s.Budget,
		CreatedBy:        s.CreatedBy.String(),
		Members:          members,
		Invitations:      invitations,
		Checklist:        checklist,
		BudgetCategories: categories,
		Participants:     participants,
		Summary:          projections.Summarize(s),
		CreatedAt:        utils.FormatTimestamp(s.CreatedAt),
		UpdatedAt:        utils.FormatTimestamp(s.UpdatedAt),
	}
}

// pendingToResponse converts pending invites into their API shape.
func pendingToResponse(invites []models.PendingInvite) []dto.PendingInvitationItem {
	items := make([]dto.PendingInvitationItem, 0, len(invites))
	for _, inv := range invites {
		items = append(items, dto.PendingInvitationItem{
			TripID:   inv.TripID.String(),
			TripName: inv.TripName,
			Inviter:  inv.Inviter,
		})
	}
	return items
}
