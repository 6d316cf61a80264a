package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	createReservationHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/create_reservation"
	getAvailableSlotsHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/get_available_slots"
	getLayoutHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/get_layout"
	getSettingsHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/get_settings"
	getUserReservationsHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/get_user_reservations"
	listReservationsHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/list_reservations"
	listTablesHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/list_tables"
	registerUserHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/register_user"
	setTableAvailabilityHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/set_table_availability"
	sweepExpiredHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/sweep_expired"
	transitionReservationHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/transition_reservation"
	updateSettingsHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-TableBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TableBooking/internal/config"
	"github.com/m04kA/SMC-TableBooking/internal/infra/queue"
	"github.com/m04kA/SMC-TableBooking/internal/integrations/chatgateway"
	"github.com/m04kA/SMC-TableBooking/internal/layout"
	"github.com/m04kA/SMC-TableBooking/internal/scheduler"
	"github.com/m04kA/SMC-TableBooking/internal/service/notifier"
	reservationsService "github.com/m04kA/SMC-TableBooking/internal/service/reservations"
	settingsService "github.com/m04kA/SMC-TableBooking/internal/service/settings"
	tablesService "github.com/m04kA/SMC-TableBooking/internal/service/tables"
	usersService "github.com/m04kA/SMC-TableBooking/internal/service/users"
	createReservationUC "github.com/m04kA/SMC-TableBooking/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/m04kA/SMC-TableBooking/internal/usecase/get_available_slots"
	sweepExpiredUC "github.com/m04kA/SMC-TableBooking/internal/usecase/sweep_expired"
	transitionReservationUC "github.com/m04kA/SMC-TableBooking/internal/usecase/transition_reservation"
	"github.com/m04kA/SMC-TableBooking/migrations"
	"github.com/m04kA/SMC-TableBooking/pkg/keylock"
	"github.com/m04kA/SMC-TableBooking/pkg/redislock"
)

func newServeCmd(configPath *string) *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the expiry sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, true)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, a, migrateUp)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "apply database migrations on startup")
	return cmd
}

func serve(ctx context.Context, a *app, migrateUp bool) error {
	cfg, log := a.cfg, a.log
	log.Info("Starting SMC-TableBooking...")

	if migrateUp {
		applied, err := migrations.Up(ctx, a.wrappedDB)
		if err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Info("Migrations applied: %v", applied)
	}

	approvers := cfg.Booking.Approvers()
	policy, err := cfg.Booking.BlockingPolicy()
	if err != nil {
		return err
	}

	// Инициализируем канал уведомлений
	sink, closeSink, err := newSink(cfg.Notifier, log)
	if err != nil {
		return err
	}
	defer closeSink()
	notifyRouter := notifier.NewRouter(approvers, sink, a.metrics, log)
	log.Info("Notifier initialized (driver=%s, approvers=%d)", cfg.Notifier.Driver, len(approvers.IDs()))

	// Инициализируем блокировку создания бронирований
	locker, closeLocker, err := newLocker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLocker()

	// Инициализируем сервисы
	renderer := layout.NewRenderer(cfg.Layout.Width, cfg.Layout.Height, cfg.Layout.Domain())
	tableSvc := tablesService.NewService(a.tables, renderer, approvers, log)
	userSvc := usersService.NewService(a.users, approvers, log)
	reservationSvc := reservationsService.NewService(a.reservations, a.users, approvers, log)
	settingsSvc := settingsService.NewService(a.settings, a.txManager, cfg.Booking.DefaultSettings(), approvers, log)

	// Столы из схемы зала
	seedCtx, cancelSeed := a.queryContext(ctx)
	seeded, err := tableSvc.Seed(seedCtx, cfg.Layout.Numbers())
	cancelSeed()
	if err != nil {
		return fmt.Errorf("failed to seed tables: %w", err)
	}
	log.Info("Tables seeded from layout: %d new of %d", seeded, len(cfg.Layout.Tables))

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		a.users,
		a.tables,
		a.reservations,
		a.txManager,
		locker,
		notifyRouter,
		settingsSvc,
		policy,
		a.metrics,
		log,
	)
	transitionReservationUseCase := transitionReservationUC.NewUseCase(
		a.reservations,
		a.tables,
		a.txManager,
		notifyRouter,
		approvers,
		a.metrics,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		a.tables,
		a.reservations,
		settingsSvc,
		policy,
		log,
	)
	sweepExpiredUseCase := sweepExpiredUC.NewUseCase(
		a.reservations,
		a.tables,
		a.txManager,
		a.metrics,
		log,
	)

	// Инициализируем handlers
	listTables := listTablesHandler.NewHandler(tableSvc, log)
	getLayout := getLayoutHandler.NewHandler(tableSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	setTableAvailability := setTableAvailabilityHandler.NewHandler(tableSvc, log)
	registerUser := registerUserHandler.NewHandler(userSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	transitionReservation := transitionReservationHandler.NewHandler(transitionReservationUseCase, log)
	listReservations := listReservationsHandler.NewHandler(reservationSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)
	sweepExpired := sweepExpiredHandler.NewHandler(sweepExpiredUseCase, approvers, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if a.metrics != nil {
		r.Use(middleware.MetricsMiddleware(a.metrics))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Timeout(config.Seconds(cfg.Database.QueryTimeout)))

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/tables/layout.png", getLayout.Handle).Methods(http.MethodGet)
	api.HandleFunc("/tables", listTables.Handle).Methods(http.MethodGet)
	api.HandleFunc("/tables/{number:[0-9]+}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerSecond,
			cfg.RateLimit.Burst,
			config.Seconds(cfg.RateLimit.IdleTTL),
		)
		protected.Use(limiter.Limit)
		log.Info("Rate limiting enabled (%.1f rps, burst %d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// --- Пользователи ---
	protected.HandleFunc("/users/me", registerUser.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/users/me", registerUser.HandleGet).Methods(http.MethodGet)
	protected.HandleFunc("/users/me/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/status", transitionReservation.Handle).Methods(http.MethodPatch)

	// --- Администрирование ---
	protected.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tables/{number}/availability", setTableAvailability.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/admin/sweep", sweepExpired.Handle).Methods(http.MethodPost)

	// Фоновая очистка просроченных бронирований
	if cfg.Sweeper.Enabled {
		sweeper := scheduler.NewSweeper(
			sweepExpiredUseCase,
			config.Seconds(cfg.Sweeper.Interval),
			config.Seconds(cfg.Database.QueryTimeout),
			log,
		)
		go func() { _ = sweeper.Run(ctx) }()
		log.Info("Expiry sweeper started (interval=%ds)", cfg.Sweeper.Interval)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  config.Seconds(cfg.Server.ReadTimeout),
		WriteTimeout: config.Seconds(cfg.Server.WriteTimeout),
		IdleTimeout:  config.Seconds(cfg.Server.IdleTimeout),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Ожидаем сигнал завершения или падение сервера
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Seconds(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// newSink выбирает канал доставки уведомлений по notifier.driver
func newSink(cfg config.NotifierConfig, log appLogger) (notifier.Sink, func(), error) {
	switch cfg.Driver {
	case config.NotifierDriverHTTP:
		client := chatgateway.NewClient(cfg.GatewayURL, config.Seconds(cfg.GatewayTimeout), log)
		return client, func() {}, nil

	case config.NotifierDriverAMQP:
		publisher, err := queue.NewPublisher(cfg.AMQPURL, cfg.AMQPQueue, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to amqp: %w", err)
		}
		return publisher, func() {
			if err := publisher.Close(); err != nil {
				log.Error("Failed to close amqp publisher: %v", err)
			}
		}, nil

	default:
		return notifier.NewLogSink(log), func() {}, nil
	}
}

type appLogger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// newLocker возвращает keylock внутри процесса или redislock для нескольких инстансов
func newLocker(ctx context.Context, cfg *config.Config, log appLogger) (createReservationUC.Locker, func(), error) {
	wait := config.Seconds(cfg.Booking.LockWait)

	if cfg.Booking.LockBackend != config.LockBackendRedis {
		return &waitLocker{locker: keylock.New(), wait: wait}, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}
	log.Info("Redis lock backend connected (addr=%s)", cfg.Redis.Addr)

	locker := redislock.New(client, "table-booking:lock:", config.Seconds(cfg.Redis.LockTTL), wait)
	return locker, func() {
		if err := client.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}, nil
}

// waitLocker ограничивает ожидание keylock тем же lock_wait, что и у redislock
type waitLocker struct {
	locker *keylock.KeyedMutex
	wait   time.Duration
}

func (l *waitLocker) Lock(ctx context.Context, key string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()
	return l.locker.Lock(ctx, key)
}

// compile-time checks
var (
	_ notifier.Sink              = (*chatgateway.Client)(nil)
	_ notifier.Sink              = (*queue.Publisher)(nil)
	_ createReservationUC.Locker = (*redislock.Locker)(nil)
)
