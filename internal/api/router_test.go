package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TableBookingService/internal/api"
	cancelReservationHandler "github.com/m04kA/TableBookingService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/TableBookingService/internal/api/handlers/create_reservation"
	getAvailabilityHandler "github.com/m04kA/TableBookingService/internal/api/handlers/get_availability"
	getDateReservationsHandler "github.com/m04kA/TableBookingService/internal/api/handlers/get_date_reservations"
	getDayStatsHandler "github.com/m04kA/TableBookingService/internal/api/handlers/get_day_stats"
	getReservationHandler "github.com/m04kA/TableBookingService/internal/api/handlers/get_reservation"
	listSlotsHandler "github.com/m04kA/TableBookingService/internal/api/handlers/list_slots"
	markNoShowHandler "github.com/m04kA/TableBookingService/internal/api/handlers/mark_no_show"
	reservedTablesHandler "github.com/m04kA/TableBookingService/internal/api/handlers/reserved_tables"
	setSlotActiveHandler "github.com/m04kA/TableBookingService/internal/api/handlers/set_slot_active"
	"github.com/m04kA/TableBookingService/internal/domain"
	reservationsService "github.com/m04kA/TableBookingService/internal/service/reservations"
	slotsService "github.com/m04kA/TableBookingService/internal/service/slots"
	"github.com/m04kA/TableBookingService/internal/testutil"
	createReservationUC "github.com/m04kA/TableBookingService/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/TableBookingService/internal/usecase/get_availability"
	"github.com/m04kA/TableBookingService/pkg/bookingid"
	"github.com/m04kA/TableBookingService/pkg/logger"
	"github.com/m04kA/TableBookingService/pkg/metrics"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()

	policy := domain.DefaultVenuePolicy()
	store := testutil.NewMemStore()
	log := logger.NewNop()
	m := metrics.New("tablebook-test")

	slotSvc := slotsService.NewService(store, &policy, nil, m, log)
	reservationSvc := reservationsService.NewService(store, store, store, &policy, nil, nil, m, log)
	availabilityUC := getAvailabilityUC.NewUseCase(slotSvc, store, nil, &policy, log)
	createUC := createReservationUC.NewUseCase(store, store, store, bookingid.NewGenerator(), &policy, nil, nil, m, log)

	return api.NewRouter(api.Handlers{
		GetAvailability:     getAvailabilityHandler.NewHandler(availabilityUC, log).Handle,
		CreateReservation:   createReservationHandler.NewHandler(createUC, log).Handle,
		GetReservation:      getReservationHandler.NewHandler(reservationSvc, log).Handle,
		CancelReservation:   cancelReservationHandler.NewHandler(reservationSvc, log).Handle,
		ReservedTables:      reservedTablesHandler.NewHandler(reservationSvc, log).Handle,
		GetDateReservations: getDateReservationsHandler.NewHandler(reservationSvc, log).Handle,
		GetDayStats:         getDayStatsHandler.NewHandler(reservationSvc, log).Handle,
		MarkNoShow:          markNoShowHandler.NewHandler(reservationSvc, log).Handle,
		ListSlots:           listSlotsHandler.NewHandler(slotSvc, log).Handle,
		SetSlotActive:       setSlotActiveHandler.NewHandler(slotSvc, log).Handle,
	}, api.Options{
		Metrics:        m,
		MetricsPath:    "/metrics",
		MetricsHandler: m.Handler(),
		Logger:         log,
	})
}

func do(t *testing.T, srv http.Handler, method, path, body string) (int, map[string]interface{}) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec.Code, decoded
}

func reservationBody(start string, partySize int, tables string) string {
	body := `{"startInstant":"` + start + `","partySize":` + itoa(partySize)
	if tables != "" {
		body += `,"tableNumbers":` + tables
	}
	return body + `,"customerName":"Ann Lee","customerEmail":"Ann@Example.com","customerPhone":"+1 555 0100"}`
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestReservationFlow(t *testing.T) {
	srv := newServer(t)

	// пятница, три слота по 10 столов
	code, body := do(t, srv, http.MethodGet, "/api/v1/availability?date=2025-01-10&partySize=4", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Friday", body["dayLabel"])
	require.Len(t, body["availableSlots"], 3)

	code, body = do(t, srv, http.MethodPost, "/api/v1/reservations", reservationBody("2025-01-10T22:00:00Z", 4, "[3]"))
	require.Equal(t, http.StatusCreated, code)
	bookingID := body["bookingId"].(string)
	assert.True(t, bookingid.Valid(bookingID))
	assert.Equal(t, "confirmed", body["status"])

	code, body = do(t, srv, http.MethodPost, "/api/v1/reservations", reservationBody("2025-01-10T22:00:00Z", 4, "[3]"))
	require.Equal(t, http.StatusConflict, code)
	assert.Equal(t, []interface{}{float64(3)}, body["conflictingTables"])

	code, body = do(t, srv, http.MethodGet, "/api/v1/availability?date=2025-01-10&partySize=4", "")
	require.Equal(t, http.StatusOK, code)
	first := body["availableSlots"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "22:00", first["time"])
	assert.Equal(t, float64(9), first["availableCount"])

	code, body = do(t, srv, http.MethodGet, "/api/v1/reserved-tables?startInstant=2025-01-10T22:00:00Z", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{float64(3)}, body["tableNumbers"])

	code, body = do(t, srv, http.MethodGet, "/api/v1/reservations/"+strings.ToLower(bookingID), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ann@example.com", body["customerEmail"])

	code, body = do(t, srv, http.MethodPut, "/api/v1/reservations/"+bookingID+"/cancel", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cancelled", body["status"])

	code, _ = do(t, srv, http.MethodPut, "/api/v1/reservations/"+bookingID+"/cancel", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = do(t, srv, http.MethodGet, "/api/v1/reserved-tables?startInstant=2025-01-10T22:00:00Z", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["tableNumbers"])

	code, body = do(t, srv, http.MethodGet, "/api/v1/admin/dates/2025-01-10/reservations", "")
	require.Equal(t, http.StatusOK, code)
	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["cancelled"])

	code, body = do(t, srv, http.MethodGet, "/api/v1/admin/dates/2025-01-10/stats", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(0), body["tablesClaimed"])
	assert.Equal(t, float64(30), body["tableCapacity"])
}

func TestNoShowAndSlots(t *testing.T) {
	srv := newServer(t)

	// без слотов даты размещать некуда
	code, _ := do(t, srv, http.MethodPost, "/api/v1/reservations", reservationBody("2025-01-11T23:30:00Z", 2, ""))
	require.Equal(t, http.StatusBadRequest, code)

	// слоты создаются первым запросом доступности
	code, _ = do(t, srv, http.MethodGet, "/api/v1/availability?date=2025-01-11&partySize=2", "")
	require.Equal(t, http.StatusOK, code)

	code, body := do(t, srv, http.MethodPost, "/api/v1/reservations", reservationBody("2025-01-11T23:30:00Z", 2, ""))
	require.Equal(t, http.StatusCreated, code)
	bookingID := body["bookingId"].(string)

	code, body = do(t, srv, http.MethodPut, "/api/v1/admin/reservations/"+bookingID+"/no-show", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "no-show", body["status"])

	code, _ = do(t, srv, http.MethodPut, "/api/v1/reservations/"+bookingID+"/cancel", "")
	assert.Equal(t, http.StatusConflict, code)

	code, body = do(t, srv, http.MethodPut, "/api/v1/admin/dates/2025-01-11/slots/00:00", `{"isActive":false}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["isActive"])

	code, body = do(t, srv, http.MethodGet, "/api/v1/admin/dates/2025-01-11/slots", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["slots"], 3)

	code, body = do(t, srv, http.MethodGet, "/api/v1/availability?date=2025-01-11&partySize=2", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["availableSlots"], 2)

	code, _ = do(t, srv, http.MethodPost, "/api/v1/reservations", reservationBody("2025-01-12T00:00:00Z", 2, ""))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestClosedDayAndErrors(t *testing.T) {
	srv := newServer(t)

	code, body := do(t, srv, http.MethodGet, "/api/v1/availability?date=2025-01-08&partySize=2", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["availableSlots"])
	assert.Equal(t, "Reservations are only available on Fridays and Saturdays", body["message"])

	code, _ = do(t, srv, http.MethodGet, "/api/v1/availability?date=10-01-2025&partySize=2", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, srv, http.MethodGet, "/api/v1/reservations/BKAAAAAAAAAAAAAAAA", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, srv, http.MethodPost, "/api/v1/reservations", reservationBody("2025-01-10T22:00:00Z", 9, "[1,2]"))
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newServer(t)
	do(t, srv, http.MethodGet, "/health", "")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/health"`)
}
