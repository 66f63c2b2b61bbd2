package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripnest-backend/internal/dto"
	"tripnest-backend/internal/utils"
)

func authedRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	ctx := utils.WithUser(req.Context(), uuid.New(), "alice@example.com")
	return req.WithContext(ctx)
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestCreateTripRejectsBadPayload(t *testing.T) {
	h := NewTripsHandler(nil, nil)

	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing dates",
			body: `{"destination":"Lisbon","budget":100}`,
			want: "start_date and end_date are required",
		},
		{
			name: "bad start date",
			body: `{"destination":"Lisbon","start_date":"01/09/2026","end_date":"2026-09-05"}`,
			want: "start_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)",
		},
		{
			name: "bad end date",
			body: `{"destination":"Lisbon","start_date":"2026-09-01","end_date":"tomorrow"}`,
			want: "end_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)",
		},
		{
			name: "missing destination",
			body: `{"start_date":"2026-09-01","end_date":"2026-09-05"}`,
			want: "destination: destination is required",
		},
		{
			name: "negative budget",
			body: `{"destination":"Lisbon","budget":-5,"start_date":"2026-09-01","end_date":"2026-09-05"}`,
			want: "budget: budget cannot be negative",
		},
		{
			name: "end before start",
			body: `{"destination":"Lisbon","start_date":"2026-09-05","end_date":"2026-09-01"}`,
			want: "end_date: end_date cannot be before start_date",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.CreateTrip(rec, authedRequest(http.MethodPost, "/api/trips", tc.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, errorMessage(t, rec))
		})
	}
}

func TestAddChecklistItemRejectsEmptyText(t *testing.T) {
	h := NewChecklistHandler(nil, nil)
	rec := httptest.NewRecorder()
	h.AddItem(rec, authedRequest(http.MethodPost, "/api/trips/x/checklist", `{"text":"   "}`), uuid.New())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetBudgetCategoryRejectsNegativeAmount(t *testing.T) {
	h := NewBudgetHandler(nil, nil)
	rec := httptest.NewRecorder()
	h.SetCategory(rec, authedRequest(http.MethodPut, "/api/trips/x/budget/food", `{"amount":-10}`), uuid.New(), "food")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddParticipantRejectsBadInput(t *testing.T) {
	h := NewParticipantsHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.AddParticipant(rec, authedRequest(http.MethodPost, "/api/trips/x/participants", `{"name":"","amount":10}`), uuid.New())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.AddParticipant(rec, authedRequest(http.MethodPost, "/api/trips/x/participants", `{"name":"Bob","amount":-1}`), uuid.New())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendInvitationRequiresEmail(t *testing.T) {
	h := NewInvitationsHandler(nil, nil, nil, nil)
	rec := httptest.NewRecorder()
	h.SendInvitation(rec, authedRequest(http.MethodPost, "/api/trips/x/invitations", `{"email":"  "}`), uuid.New())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
