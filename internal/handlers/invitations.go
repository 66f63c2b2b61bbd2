package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tripnest-backend/internal/config"
	"tripnest-backend/internal/dto"
	"tripnest-backend/internal/models"
	"tripnest-backend/internal/utils"
	"tripnest-backend/internal/watch"
)

// InvitationsHandler manages the membership invitation workflow
type InvitationsHandler struct {
	db    *pgxpool.Pool
	hub   *watch.Hub
	email *utils.EmailService
	cfg   *config.Config
}

// NewInvitationsHandler creates a new InvitationsHandler
func NewInvitationsHandler(db *pgxpool.Pool, hub *watch.Hub, email *utils.EmailService, cfg *config.Config) *InvitationsHandler {
	return &InvitationsHandler{db: db, hub: hub, email: email, cfg: cfg}
}

// SendInvitation handles POST /api/trips/{trip_id}/invitations
// @Summary Invite a user to a trip by email
// @Description Admin only; the target must be a registered user who is not
// @Description the inviter, not a member and not already invited
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param payload body dto.SendInvitationRequest true "Target email"
// @Success 201 {object} dto.InvitationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/invitations [post]
func (h *InvitationsHandler) SendInvitation(w http.ResponseWriter, r *http.Request, tripID uuid.UUID) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.SendInvitationRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		utils.WriteDomainError(w, models.Invalid("email", "email is required"))
		return
	}

	ctx := context.Background()

	// The uniqueness check and the insert must see the same state, so
	// both happen inside one transaction holding the trip row lock.
	tx, err := h.db.Begin(ctx)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}
	defer tx.Rollback(ctx)

	var lockedID uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT id FROM trips WHERE id = $1 FOR UPDATE`, tripID).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteDomainError(w, models.ErrNotFound)
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	var target models.User
	err = tx.QueryRow(ctx,
		`SELECT id, username, email FROM users WHERE email = $1`, email).Scan(
		&target.ID, &target.Username, &target.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteDomainError(w, models.ErrUserNotFound)
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	snapshot, err := loadTripSnapshot(ctx, tx, tripID)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	if err := snapshot.CheckInvite(userID, target); err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	invitationID := uuid.New()
	_, err = tx.Exec(ctx,
		`INSERT INTO trip_invitations (id, trip_id, user_id, username, email, status, invited_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		invitationID, tripID, target.ID, target.Username, target.Email,
		models.InvitationPending, userID, time.Now())
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	if err := tx.Commit(ctx); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	h.hub.Broadcast()

	// Email delivery is best effort and never blocks the response
	if h.cfg.IsEmailConfigured() {
		inviter := snapshot.InviterLabel()
		go func() {
			if err := h.email.SendInvitation(target.Email, snapshot.Name, inviter); err != nil {
				log.Printf("Failed to send invitation email to %s: %v", target.Email, err)
			}
		}()
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.InvitationResponse{
		ID:       invitationID.String(),
		UserID:   target.ID.String(),
		Username: target.Username,
		Email:    target.Email,
		Status:   models.InvitationPending,
	})
}

// AcceptInvitation handles POST /api/trips/{trip_id}/invitations/accept
// @Summary Accept a pending invitation
// @Description Consumes the caller's pending invitation and adds them as a member
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/invitations/accept [post]
func (h *InvitationsHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request, tripID uuid.UUID) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	ctx := context.Background()

	// Deleting the invitation and inserting the member row is atomic;
	// a second accept of the same invitation sees no pending row.
	tx, err := h.db.Begin(ctx)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}
	defer tx.Rollback(ctx)

	var lockedID uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT id FROM trips WHERE id = $1 FOR UPDATE`, tripID).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteDomainError(w, models.ErrNotFound)
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	snapshot, err := loadTripSnapshot(ctx, tx, tripID)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	inv, err := snapshot.CheckAccept(userID)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	if _, err := tx.Exec(ctx, `DELETE FROM trip_invitations WHERE id = $1`, inv.ID); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO trip_members (trip_id, user_id, username, role, joined_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		tripID, userID, inv.Username, models.RoleMember, time.Now())
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	if err := tx.Commit(ctx); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	h.hub.Broadcast()
	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Invitation accepted"})
}

// ListPending handles GET /api/invitations
// @Summary List the caller's pending invitations across all trips
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.PendingInvitationsResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/invitations [get]
func (h *InvitationsHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	invites, err := loadPendingInvites(r.Context(), h.db, userID)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.PendingInvitationsResponse{
		Invitations: pendingToResponse(invites),
	})
}
