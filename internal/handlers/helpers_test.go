package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestWriteScanErrorDistinguishesAbsenceFromFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeScanError(rec, pgx.ErrNoRows)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	writeScanError(rec, fmt.Errorf("toggle item: %w", pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Infrastructure failures must not masquerade as missing entities
	rec = httptest.NewRecorder()
	writeScanError(rec, errors.New("closed pool"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
