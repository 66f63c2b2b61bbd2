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

// TripsHandler manages the trip aggregate endpoints
type TripsHandler struct {
	db  *pgxpool.Pool
	hub *watch.Hub
}

// NewTripsHandler creates a new TripsHandler
func NewTripsHandler(db *pgxpool.Pool, hub *watch.Hub) *TripsHandler {
	return &TripsHandler{db: db, hub: hub}
}

// Trips dispatches by HTTP method for /api/trips
func (h *TripsHandler) Trips(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.CreateTrip(w, r)
	case http.MethodGet:
		h.ListTrips(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// CreateTrip handles POST /api/trips
// @Summary Create a new trip
// @Description Create a trip; the creator becomes its single admin member
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateTripRequest true "Trip payload"
// @Success 201 {object} dto.CreateTripResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips [post]
func (h *TripsHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.CreateTripRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	if req.StartDate == "" || req.EndDate == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "start_date and end_date are required")
		return
	}
	startAt, err := utils.ParseDate(req.StartDate)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "start_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)")
		return
	}
	endAt, err := utils.ParseDate(req.EndDate)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "end_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)")
		return
	}
	if err := models.ValidateNewTrip(req.Destination, req.Budget, startAt, endAt); err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	ctx := context.Background()

	// Creator's username goes onto the admin member row
	var username string
	if err := h.db.QueryRow(ctx, `SELECT username FROM users WHERE id = $1`, userID).Scan(&username); err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Unknown user")
		return
	}

	now := time.Now()
	tripID := uuid.New()

	// Trip row and its admin member commit together
	tx, err := h.db.Begin(ctx)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO trips (id, name, destination, start_date, end_date, budget, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tripID, req.Name, req.Destination, startAt, endAt, req.Budget, userID, now, now)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO trip_members (trip_id, user_id, username, role, joined_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		tripID, userID, username, models.RoleAdmin, now)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	if err := tx.Commit(ctx); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	h.hub.Broadcast()

	snapshot, err := loadTripSnapshot(ctx, h.db, tripID)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.CreateTripResponse{Trip: tripToResponse(snapshot)})
}

// ListTrips handles GET /api/trips
// @Summary List the caller's trips
// @Description Full aggregate snapshots of every trip the caller is a member of
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TripListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips [get]
func (h *TripsHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	trips, err := loadUserTrips(r.Context(), h.db, userID)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	items := make([]dto.TripResponse, 0, len(trips))
	for i := range trips {
		items = append(items, tripToResponse(&trips[i]))
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.TripListResponse{Trips: items})
}

// TripDetail handles GET /api/trips/{trip_id}
// @Summary Get a trip snapshot
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.CreateTripResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id} [get]
func (h *TripsHandler) TripDetail(w http.ResponseWriter, r *http.Request, tripID uuid.UUID) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	snapshot, err := loadTripSnapshot(r.Context(), h.db, tripID)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	if !snapshot.IsMember(userID) {
		utils.WriteDomainError(w, models.ErrForbidden)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.CreateTripResponse{Trip: tripToResponse(snapshot)})
}

// DeleteTrip handles DELETE /api/trips/{trip_id}
// @Summary Delete a trip
// @Description Admin only; removes the trip and all nested collections
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id} [delete]
func (h *TripsHandler) DeleteTrip(w http.ResponseWriter, r *http.Request, tripID uuid.UUID) {
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
	if err := snapshot.CheckDelete(userID); err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	// Nested collections go with the trip via ON DELETE CASCADE
	if _, err := h.db.Exec(ctx, `DELETE FROM trips WHERE id = $1`, tripID); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	h.hub.Broadcast()
	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Trip deleted successfully"})
}
