package create_reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TableBookingService/internal/api/handlers"
	"github.com/m04kA/TableBookingService/internal/domain"
	createReservation "github.com/m04kA/TableBookingService/internal/usecase/create_reservation"
	"github.com/m04kA/TableBookingService/pkg/logger"
	"github.com/m04kA/TableBookingService/pkg/types"
)

type fakeUseCase struct {
	got  *createReservation.Request
	resp *createReservation.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	f.got = req
	return f.resp, f.err
}

const validBody = `{
	"startInstant": "2025-01-10T22:00:00Z",
	"partySize": 4,
	"tableNumbers": [5],
	"customerName": "Ann Lee",
	"customerEmail": "ann@example.com",
	"customerPhone": "+1 555 0100"
}`

func post(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body)))
	return rec
}

func TestHandle_Created(t *testing.T) {
	start := time.Date(2025, time.January, 10, 22, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &createReservation.Response{
		BookingID:       "BK7Q2M4XKD9PL3ZT8W",
		ServiceDate:     types.NewDate(2025, time.January, 10),
		SlotTime:        types.MustTimeString("22:00"),
		StartInstant:    start,
		DurationMinutes: 90,
		PartySize:       4,
		TableNumbers:    []int{5},
		Status:          "confirmed",
		CreatedAt:       start.Add(-time.Hour),
	}}

	rec := post(NewHandler(uc, logger.NewNop()), validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body ReservationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "BK7Q2M4XKD9PL3ZT8W", body.BookingID)
	assert.Equal(t, "2025-01-10", body.Date)
	assert.Equal(t, "22:00", body.Time)
	assert.Equal(t, "2025-01-10T22:00:00Z", body.StartInstant)
	assert.Equal(t, []int{5}, body.TableNumbers)

	require.NotNil(t, uc.got)
	assert.True(t, uc.got.StartInstant.Equal(start))
	assert.Equal(t, []int{5}, uc.got.TableNumbers)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		ucErr      error
		wantStatus int
		wantTables []int
	}{
		{name: "malformed json", body: `{"partySize":`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"partySize":4,"userId":1}`, wantStatus: http.StatusBadRequest},
		{name: "bad start instant", body: `{"startInstant":"Friday 22:00","partySize":4}`, wantStatus: http.StatusBadRequest},
		{
			name:       "table taken",
			body:       validBody,
			ucErr:      domain.NewConflictError(domain.ConflictTableReserved, []int{5}),
			wantStatus: http.StatusConflict,
			wantTables: []int{5},
		},
		{
			name:       "count mismatch",
			body:       validBody,
			ucErr:      fmt.Errorf("%w: party of 9 needs 3 tables, got 2", domain.ErrTableCountMismatch),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no slot",
			body:       validBody,
			ucErr:      createReservation.ErrSlotNotFound,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store down",
			body:       validBody,
			ucErr:      fmt.Errorf("%w: CreateReservation - create reservation", domain.ErrPersistence),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{err: tt.ucErr}
			rec := post(NewHandler(uc, logger.NewNop()), tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tt.wantTables, body.ConflictingTables)
		})
	}
}

func TestHandle_EmptyStartInstantReachesValidation(t *testing.T) {
	uc := &fakeUseCase{err: fmt.Errorf("%w: startInstant is required", domain.ErrMissingField)}
	rec := post(NewHandler(uc, logger.NewNop()), `{"partySize":4}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, uc.got)
	assert.True(t, uc.got.StartInstant.IsZero())
}
