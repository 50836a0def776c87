package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

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
	"github.com/m04kA/TableBookingService/internal/infra/cache/availability"
	reservationRepo "github.com/m04kA/TableBookingService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/TableBookingService/internal/infra/storage/slot"
	"github.com/m04kA/TableBookingService/internal/integrations/eventbus"
	reservationsService "github.com/m04kA/TableBookingService/internal/service/reservations"
	slotsService "github.com/m04kA/TableBookingService/internal/service/slots"
	createReservationUC "github.com/m04kA/TableBookingService/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/TableBookingService/internal/usecase/get_availability"
	"github.com/m04kA/TableBookingService/migrations"
	"github.com/m04kA/TableBookingService/pkg/bookingid"
	"github.com/m04kA/TableBookingService/pkg/dbmetrics"
	"github.com/m04kA/TableBookingService/pkg/metrics"
	"github.com/m04kA/TableBookingService/pkg/txmanager"
)

func newServeCmd(configPath *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if migrate {
				if err := migrations.Apply(ctx, a.db, a.log); err != nil {
					a.log.Error("Migration failed: %v", err)
					return err
				}
			}

			return serve(ctx, a)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations before serving")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	cfg, log := a.cfg, a.log
	log.Info("Starting TableBookingService (addressing=%s, scope=%s)", a.policy.AddressingMode, a.policy.ConflictScope)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)

	var db *dbmetrics.DB
	if cfg.Metrics.Enabled {
		db = dbmetrics.WrapWithDefault(a.db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		db = dbmetrics.Wrap(a.db, nil)
	}

	// Кэш доступности (Redis). Недоступный Redis выключает кэш, но не мешает запуску.
	var cacheClient availability.Client
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("Redis unavailable at %s, availability cache disabled: %v", cfg.Redis.Addr, err)
			_ = rdb.Close()
		} else {
			defer rdb.Close()
			cacheClient = rdb
			log.Info("Availability cache enabled (redis=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.TTL())
		}
	}
	cache := availability.New(cacheClient, cfg.Redis.TTL(), metricsCollector, log)

	// События бронирований
	publisher, err := eventbus.New(cfg.Events, log)
	if err != nil {
		return fmt.Errorf("init event publisher: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher: %v", err)
		}
	}()
	notifier := eventbus.NewNotifier(publisher, metricsCollector, log)
	log.Info("Reservation events driver: %s", cfg.Events.Driver)

	// Репозитории, сервисы и use cases
	slotRepository := slotRepo.NewRepository(db)
	reservationRepository := reservationRepo.NewRepository(db)
	txMgr := txmanager.NewTransactionManager(db)

	slotSvc := slotsService.NewService(slotRepository, &a.policy, cache, metricsCollector, log)
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		slotRepository,
		txMgr,
		&a.policy,
		cache,
		notifier,
		metricsCollector,
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		slotSvc,
		reservationRepository,
		cache,
		&a.policy,
		log,
	)
	createReservationUseCase := createReservationUC.NewUseCase(
		slotRepository,
		reservationRepository,
		txMgr,
		bookingid.NewGenerator(),
		&a.policy,
		cache,
		notifier,
		metricsCollector,
		log,
	)

	// Настраиваем роутер
	routes := api.Handlers{
		GetAvailability:     getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log).Handle,
		CreateReservation:   createReservationHandler.NewHandler(createReservationUseCase, log).Handle,
		GetReservation:      getReservationHandler.NewHandler(reservationSvc, log).Handle,
		CancelReservation:   cancelReservationHandler.NewHandler(reservationSvc, log).Handle,
		ReservedTables:      reservedTablesHandler.NewHandler(reservationSvc, log).Handle,
		GetDateReservations: getDateReservationsHandler.NewHandler(reservationSvc, log).Handle,
		GetDayStats:         getDayStatsHandler.NewHandler(reservationSvc, log).Handle,
		MarkNoShow:          markNoShowHandler.NewHandler(reservationSvc, log).Handle,
		ListSlots:           listSlotsHandler.NewHandler(slotSvc, log).Handle,
		SetSlotActive:       setSlotActiveHandler.NewHandler(slotSvc, log).Handle,
	}
	opts := api.Options{Logger: log}
	if cfg.Metrics.Enabled {
		opts.Metrics = metricsCollector
		opts.MetricsPath = cfg.Metrics.Path
		opts.MetricsHandler = metricsCollector.Handler()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      api.NewRouter(routes, opts),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error: %v", err)
		return err
	}
	log.Info("Server stopped gracefully")
	return nil
}
