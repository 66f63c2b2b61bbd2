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

// BudgetHandler manages the budget category collection of a trip
type BudgetHandler struct {
	db  *pgxpool.Pool
	hub *watch.Hub
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(db *pgxpool.Pool, hub *watch.Hub) *BudgetHandler {
	return &BudgetHandler{db: db, hub: hub}
}

// SetCategory handles PUT /api/trips/{trip_id}/budget/{category}
// @Summary Set a budget category amount
// @Description An amount of zero removes the category entirely
// @Tags budget
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param category path string true "Category name"
// @Param payload body dto.SetBudgetCategoryRequest true "Amount payload"
// @Success 200 {object} dto.BudgetCategoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/budget/{category} [put]
func (h *BudgetHandler) SetCategory(w http.ResponseWriter, r *http.Request, tripID uuid.UUID, category string) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.SetBudgetCategoryRequest
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

	// Delete-on-zero: a zero amount removes the bucket
	if req.Amount == 0 {
		if _, err := h.db.Exec(ctx,
			`DELETE FROM budget_categories WHERE trip_id = $1 AND category = $2`, tripID, category); err != nil {
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
			return
		}
	} else {
		_, err = h.db.Exec(ctx,
			`INSERT INTO budget_categories (trip_id, category, amount, created_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (trip_id, category) DO UPDATE SET amount = EXCLUDED.amount`,
			tripID, category, req.Amount, time.Now())
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
			return
		}
	}

	h.hub.Broadcast()
	utils.WriteJSONResponse(w, http.StatusOK, dto.BudgetCategoryResponse{
		Category: category,
		Amount:   req.Amount,
	})
}

// RemoveCategory handles DELETE /api/trips/{trip_id}/budget/{category}
// @Summary Remove a budget category
// @Description Idempotent; removing an absent category succeeds
// @Tags budget
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param category path string true "Category name"
// @Success 200 {object} map[string]string
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/budget/{category} [delete]
func (h *BudgetHandler) RemoveCategory(w http.ResponseWriter, r *http.Request, tripID uuid.UUID, category string) {
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
		`DELETE FROM budget_categories WHERE trip_id = $1 AND category = $2`, tripID, category); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	h.hub.Broadcast()
	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Budget category removed"})
}
