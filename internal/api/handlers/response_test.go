package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TableBookingService/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: party of 9", domain.ErrTableCountMismatch), http.StatusBadRequest},
		{"invalid slot", domain.ErrInvalidSlot, http.StatusBadRequest},
		{"not found", fmt.Errorf("%w: reservation", domain.ErrNotFound), http.StatusNotFound},
		{"conflict", domain.NewConflictError(domain.ConflictTableReserved, []int{5}), http.StatusConflict},
		{"already cancelled", domain.ErrAlreadyCancelled, http.StatusBadRequest},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusConflict},
		{"persistence", fmt.Errorf("%w: tx", domain.ErrPersistence), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestRespondDomainError_ConflictCarriesTables(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, domain.NewConflictError(domain.ConflictTableReserved, []int{7, 5}))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, domain.ConflictTableReserved, body.Error)
	assert.Equal(t, []int{5, 7}, body.ConflictingTables)
}

func TestRespondDomainError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, fmt.Errorf("%w: dial tcp 10.0.0.1:5432", domain.ErrPersistence))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.1")
}

func TestDecodeJSON(t *testing.T) {
	var dest struct {
		PartySize int `json:"partySize"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"partySize":4}`))
	require.NoError(t, DecodeJSON(req, &dest))
	assert.Equal(t, 4, dest.PartySize)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"partySize":4,"extra":1}`))
	assert.Error(t, DecodeJSON(req, &dest))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Error(t, DecodeJSON(req, &dest))
}
