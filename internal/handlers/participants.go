package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tripnest-backend/internal/dto"
	"tripnest-backend/internal/models"
	"tripnest-backend/internal/utils"
	"tripnest-backend/internal/watch"
)

// ParticipantsHandler manages the participant collection of a trip
type ParticipantsHandler struct {
	db  *pgxpool.Pool
	hub *watch.Hub
}

// NewParticipantsHandler creates a new ParticipantsHandler
func NewParticipantsHandler(db *pgxpool.Pool, hub *watch.Hub) *ParticipantsHandler {
	return &ParticipantsHandler{db: db, hub: hub}
}

// AddParticipant handles POST /api/trips/{trip_id}/participants
// @Summary Add a contributor
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param payload body dto.AddParticipantRequest true "Participant payload"
// @Success 201 {object} dto.ParticipantResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/participants [post]
func (h *ParticipantsHandler) AddParticipant(w http.ResponseWriter, r *http.Request, tripID uuid.UUID) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.AddParticipantRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	name, err := models.ValidateParticipant(req.Name, req.Amount)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	ctx := context.Background()
	snapshot, err := loadTripSnapshot(ctx, h.db, tripID)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	if err := snapshot.CheckEdit(userID); err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	participantID := uuid.New()
	_, err = h.db.Exec(ctx,
		`INSERT INTO participants (id, trip_id, name, amount, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		participantID, tripID, name, req.Amount, time.Now())
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	h.hub.Broadcast()
	utils.WriteJSONResponse(w, http.StatusCreated, dto.ParticipantResponse{
		ID:     participantID.String(),
		Name:   name,
		Amount: req.Amount,
	})
}

// UpdateParticipant handles PATCH /api/trips/{trip_id}/participants/{participant_id}
// @Summary Update a contributor's pledged amount
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param participant_id path string true "Participant ID"
// @Param payload body dto.UpdateParticipantRequest true "Amount payload"
// @Success 200 {object} dto.ParticipantResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/participants/{participant_id} [patch]
func (h *ParticipantsHandler) UpdateParticipant(w http.ResponseWriter, r *http.Request, tripID, participantID uuid.UUID) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.UpdateParticipantRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	if err := models.ValidateAmount("amount", req.Amount); err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	ctx := context.Background()
	snapshot, err := loadTripSnapshot(ctx, h.db, tripID)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	if err := snapshot.CheckEdit(userID); err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	var name string
	err = h.db.QueryRow(ctx,
		`UPDATE participants SET amount = $1
		  WHERE id = $2 AND trip_id = $3
		  RETURNING name`, req.Amount, participantID, tripID).Scan(&name)
	if err != nil {
		writeScanError(w, err)
		return
	}

	h.hub.Broadcast()
	utils.WriteJSONResponse(w, http.StatusOK, dto.ParticipantResponse{
		ID:     participantID.String(),
		Name:   name,
		Amount: req.Amount,
	})
}

// RemoveParticipant handles DELETE /api/trips/{trip_id}/participants/{participant_id}
// @Summary Remove a contributor
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param participant_id path string true "Participant ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/participants/{participant_id} [delete]
func (h *ParticipantsHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request, tripID, participantID uuid.UUID) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	ctx := context.Background()
	snapshot, err := loadTripSnapshot(ctx, h.db, tripID)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	if err := snapshot.CheckEdit(userID); err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	cmd, err := h.db.Exec(ctx,
		`DELETE FROM participants WHERE id = $1 AND trip_id = $2`, participantID, tripID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}
	if cmd.RowsAffected() == 0 {
		utils.WriteDomainError(w, models.ErrNotFound)
		return
	}

	h.hub.Broadcast()
	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Participant removed"})
}
