package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/TableBookingService/internal/api/handlers"
	"github.com/m04kA/TableBookingService/internal/api/middleware"
)

// Handlers обработчики HTTP API
type Handlers struct {
	GetAvailability     http.HandlerFunc
	CreateReservation   http.HandlerFunc
	GetReservation      http.HandlerFunc
	CancelReservation   http.HandlerFunc
	ReservedTables      http.HandlerFunc
	GetDateReservations http.HandlerFunc
	GetDayStats         http.HandlerFunc
	MarkNoShow          http.HandlerFunc
	ListSlots           http.HandlerFunc
	SetSlotActive       http.HandlerFunc
}

// Options дополнительные маршруты и middleware. Пустые поля отключают соответствующую часть.
type Options struct {
	Metrics        middleware.HTTPMetrics
	MetricsPath    string
	MetricsHandler http.Handler
	Logger         middleware.Logger
}

// NewRouter собирает маршруты /api/v1, /health и метрик
func NewRouter(h Handlers, opts Options) *mux.Router {
	r := mux.NewRouter()

	if opts.Logger != nil {
		r.Use(middleware.Recover(opts.Logger))
	}
	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))
	}
	if opts.MetricsHandler != nil && opts.MetricsPath != "" {
		r.Handle(opts.MetricsPath, opts.MetricsHandler).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/availability", h.GetAvailability).Methods(http.MethodGet)
	api.HandleFunc("/reservations", h.CreateReservation).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{bookingId}", h.GetReservation).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{bookingId}/cancel", h.CancelReservation).Methods(http.MethodPut)
	api.HandleFunc("/reserved-tables", h.ReservedTables).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/dates/{date}/reservations", h.GetDateReservations).Methods(http.MethodGet)
	admin.HandleFunc("/dates/{date}/stats", h.GetDayStats).Methods(http.MethodGet)
	admin.HandleFunc("/reservations/{bookingId}/no-show", h.MarkNoShow).Methods(http.MethodPut)
	admin.HandleFunc("/dates/{date}/slots", h.ListSlots).Methods(http.MethodGet)
	admin.HandleFunc("/dates/{date}/slots/{time}", h.SetSlotActive).Methods(http.MethodPut)

	return r
}
