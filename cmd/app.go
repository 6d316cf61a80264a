package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-TableBooking/internal/config"
	reservationRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/reservation"
	settingsRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/settings"
	tableRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/table"
	userRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-TableBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
	"github.com/m04kA/SMC-TableBooking/pkg/metrics"
	"github.com/m04kA/SMC-TableBooking/pkg/txmanager"
)

// app общие зависимости всех команд: конфиг, логгер, БД и репозитории
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics

	db        *sql.DB
	wrappedDB *dbmetrics.DB
	txManager *txmanager.TransactionManager

	users        *userRepo.Repository
	tables       *tableRepo.Repository
	reservations *reservationRepo.Repository
	settings     *settingsRepo.Repository

	stopMetricsCh chan struct{}
}

// newApp загружает конфигурацию и подключается к БД.
// withMetrics включает Prometheus-коллекторы (только для serve).
func newApp(configPath string, withMetrics bool) (*app, error) {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Info("Configuration loaded from %s", configPath)

	a := &app{
		cfg:           cfg,
		log:           log,
		stopMetricsCh: make(chan struct{}),
	}

	// Инициализируем метрики (если включены)
	if withMetrics && cfg.Metrics.Enabled {
		a.metrics = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных (lib/pq или pgx)
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(config.Seconds(cfg.Database.ConnMaxLifetime))

	// Проверяем соединение
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		log.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (driver=%s, host=%s, port=%d, db=%s)",
		cfg.Database.Driver, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	a.db = db
	a.wrappedDB = dbmetrics.WrapWithDefault(db, a.metrics, a.stopMetricsCh)
	a.txManager = txmanager.NewTransactionManager(a.wrappedDB)

	// Инициализируем репозитории
	a.users = userRepo.NewRepository(a.wrappedDB)
	a.tables = tableRepo.NewRepository(a.wrappedDB)
	a.reservations = reservationRepo.NewRepository(a.wrappedDB)
	a.settings = settingsRepo.NewRepository(a.wrappedDB)

	return a, nil
}

// queryContext контекст с таймаутом запросов к БД для CLI-команд
func (a *app) queryContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, config.Seconds(a.cfg.Database.QueryTimeout))
}

func (a *app) close() {
	close(a.stopMetricsCh)
	if err := a.db.Close(); err != nil {
		a.log.Error("Failed to close database: %v", err)
	}
	a.log.Close()
}
