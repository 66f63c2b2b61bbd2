package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripnest-backend/internal/dto"
	"tripnest-backend/internal/models"
)

func TestWriteDomainErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.Invalid("text", "text is required"), http.StatusBadRequest},
		{models.ErrNotFound, http.StatusNotFound},
		{models.ErrUserNotFound, http.StatusNotFound},
		{models.ErrNoSuchInvitation, http.StatusNotFound},
		{models.ErrForbidden, http.StatusForbidden},
		{models.ErrDuplicateEmail, http.StatusConflict},
		{models.ErrSelfInvite, http.StatusConflict},
		{models.ErrAlreadyMember, http.StatusConflict},
		{models.ErrDuplicatePending, http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteDomainError(rec, tc.err)
		assert.Equalf(t, tc.want, rec.Code, "error %v", tc.err)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}

func TestWriteErrorResponseEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorResponse(rec, http.StatusConflict, "Conflict", "details here")

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Conflict", body.Error)
	assert.Equal(t, "details here", body.Message)
}

func TestWriteJSONResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSONResponse(rec, http.StatusCreated, map[string]string{"message": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"ok"}`, rec.Body.String())
}
