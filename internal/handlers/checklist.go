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

// ChecklistHandler manages the checklist collection of a trip
type ChecklistHandler struct {
	db  *pgxpool.Pool
	hub *watch.Hub
}

// NewChecklistHandler creates a new ChecklistHandler
func NewChecklistHandler(db *pgxpool.Pool, hub *watch.Hub) *ChecklistHandler {
	return &ChecklistHandler{db: db, hub: hub}
}

// AddItem handles POST /api/trips/{trip_id}/checklist
// @Summary Add a checklist item
// @Tags checklist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param payload body dto.AddChecklistItemRequest true "Item payload"
// @Success 201 {object} dto.ChecklistItemResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/checklist [post]
func (h *ChecklistHandler) AddItem(w http.ResponseWriter, r *http.Request, tripID uuid.UUID) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.AddChecklistItemRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	text, err := models.ValidateChecklistText(req.Text)
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

	itemID := uuid.New()
	now := time.Now()
	_, err = h.db.Exec(ctx,
		`INSERT INTO checklist_items (id, trip_id, text, done, created_at)
		 VALUES ($1, $2, $3, FALSE, $4)`,
		itemID, tripID, text, now)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	h.hub.Broadcast()
	utils.WriteJSONResponse(w, http.StatusCreated, dto.ChecklistItemResponse{
		ID:   itemID.String(),
		Text: text,
		Done: false,
	})
}

// ToggleItem handles POST /api/trips/{trip_id}/checklist/{item_id}/toggle
// @Summary Toggle a checklist item's done state
// @Tags checklist
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param item_id path string true "Item ID"
// @Success 200 {object} dto.ChecklistItemResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/checklist/{item_id}/toggle [post]
func (h *ChecklistHandler) ToggleItem(w http.ResponseWriter, r *http.Request, tripID, itemID uuid.UUID) {
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

	var text string
	var done bool
	err = h.db.QueryRow(ctx,
		`UPDATE checklist_items SET done = NOT done
		  WHERE id = $1 AND trip_id = $2
		  RETURNING text, done`, itemID, tripID).Scan(&text, &done)
	if err != nil {
		writeScanError(w, err)
		return
	}

	h.hub.Broadcast()
	utils.WriteJSONResponse(w, http.StatusOK, dto.ChecklistItemResponse{
		ID:   itemID.String(),
		Text: text,
		Done: done,
	})
}

// RemoveItem handles DELETE /api/trips/{trip_id}/checklist/{item_id}
// @Summary Remove a checklist item
// @Description Idempotent; removing an absent item succeeds
// @Tags checklist
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param item_id path string true "Item ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/checklist/{item_id} [delete]
func (h *ChecklistHandler) RemoveItem(w http.ResponseWriter, r *http.Request, tripID, itemID uuid.UUID) {
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

	if _, err := h.db.Exec(ctx,
		`DELETE FROM checklist_items WHERE id = $1 AND trip_id = $2`, itemID, tripID); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	h.hub.Broadcast()
	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Checklist item removed"})
}
