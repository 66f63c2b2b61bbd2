package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// Router tests exercise the dispatch layer only; none of these paths
// reach the database.
func testRouter() *TripRouter {
	return &TripRouter{
		Trips:        NewTripsHandler(nil, nil),
		Checklist:    NewChecklistHandler(nil, nil),
		Budget:       NewBudgetHandler(nil, nil),
		Participants: NewParticipantsHandler(nil, nil),
		Invitations:  NewInvitationsHandler(nil, nil, nil, nil),
	}
}

func TestRouteRejectsInvalidTripID(t *testing.T) {
	rt := testRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/trips/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	rt.Route(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouteUnknownSubresource(t *testing.T) {
	rt := testRouter()
	tripID := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/api/trips/"+tripID+"/gallery", nil)
	rec := httptest.NewRecorder()
	rt.Route(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouteEmptyPath(t *testing.T) {
	rt := testRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/trips/", nil)
	rec := httptest.NewRecorder()
	rt.Route(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouteMethodNotAllowed(t *testing.T) {
	rt := testRouter()
	tripID := uuid.New().String()

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPatch, "/api/trips/" + tripID},
		{http.MethodGet, "/api/trips/" + tripID + "/checklist"},
		{http.MethodPut, "/api/trips/" + tripID + "/checklist/" + uuid.New().String()},
		{http.MethodGet, "/api/trips/" + tripID + "/checklist/" + uuid.New().String() + "/toggle"},
		{http.MethodPost, "/api/trips/" + tripID + "/budget/food"},
		{http.MethodGet, "/api/trips/" + tripID + "/participants"},
		{http.MethodPut, "/api/trips/" + tripID + "/participants/" + uuid.New().String()},
		{http.MethodGet, "/api/trips/" + tripID + "/invitations"},
		{http.MethodGet, "/api/trips/" + tripID + "/invitations/accept"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		rt.Route(rec, req)
		assert.Equalf(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouteRejectsInvalidNestedIDs(t *testing.T) {
	rt := testRouter()
	tripID := uuid.New().String()

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodDelete, "/api/trips/" + tripID + "/checklist/xyz"},
		{http.MethodPost, "/api/trips/" + tripID + "/checklist/xyz/toggle"},
		{http.MethodPatch, "/api/trips/" + tripID + "/participants/xyz"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		rt.Route(rec, req)
		assert.Equalf(t, http.StatusBadRequest, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestTripsCollectionMethodNotAllowed(t *testing.T) {
	h := NewTripsHandler(nil, nil)
	req := httptest.NewRequest(http.MethodPut, "/api/trips", nil)
	rec := httptest.NewRecorder()
	h.Trips(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCreateTripRequiresUserContext(t *testing.T) {
	h := NewTripsHandler(nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/trips", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Trips(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListPendingRejectsNonGet(t *testing.T) {
	h := NewInvitationsHandler(nil, nil, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/invitations", nil)
	rec := httptest.NewRecorder()
	h.ListPending(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
