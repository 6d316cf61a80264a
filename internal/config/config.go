package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/slots"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// ErrInvalidConfig is returned by Validate for inconsistent values
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Notifier drivers
const (
	NotifierDriverHTTP = "http"
	NotifierDriverAMQP = "amqp"
	NotifierDriverLog  = "log"
)

// Lock backends for reservation creation
const (
	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Booking   BookingConfig   `toml:"booking"`
	Layout    LayoutConfig    `toml:"layout"`
	Sweeper   SweeperConfig   `toml:"sweeper"`
	Notifier  NotifierConfig  `toml:"notifier"`
	Redis     RedisConfig     `toml:"redis"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres (lib/pq) или pgx
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	QueryTimeout    int    `toml:"query_timeout"`
}

// DSN builds a connection string accepted by both lib/pq and pgx
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type BookingConfig struct {
	ApproverIDs         []int64  `toml:"approver_ids"`
	BlockingStatuses    []string `toml:"blocking_statuses"`
	OpeningTime         string   `toml:"opening_time"`
	ClosingTime         string   `toml:"closing_time"`
	SlotDurationMinutes int      `toml:"slot_duration_minutes"`
	LockBackend         string   `toml:"lock_backend"`
	LockWait            int      `toml:"lock_wait"`
}

// Approvers returns the configured approver set
func (b BookingConfig) Approvers() domain.ApproverSet {
	return domain.NewApproverSet(b.ApproverIDs...)
}

// BlockingPolicy parses the configured blocking statuses
func (b BookingConfig) BlockingPolicy() (slots.BlockingPolicy, error) {
	return slots.ParseBlockingPolicy(b.BlockingStatuses)
}

// DefaultSettings returns the settings seeded when the settings row is missing
func (b BookingConfig) DefaultSettings() *domain.Settings {
	return &domain.Settings{
		OpeningTime:         types.TimeString(b.OpeningTime),
		ClosingTime:         types.TimeString(b.ClosingTime),
		SlotDurationMinutes: b.SlotDurationMinutes,
	}
}

type LayoutConfig struct {
	Width  int           `toml:"width"`
	Height int           `toml:"height"`
	Tables []TableLayout `toml:"tables"`
}

type TableLayout struct {
	Number int `toml:"number"`
	X      int `toml:"x"`
	Y      int `toml:"y"`
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Domain converts the floor plan to domain values
func (l LayoutConfig) Domain() []domain.TableLayout {
	result := make([]domain.TableLayout, 0, len(l.Tables))
	for _, t := range l.Tables {
		result = append(result, domain.TableLayout{
			Number: t.Number,
			X:      t.X,
			Y:      t.Y,
			Width:  t.Width,
			Height: t.Height,
		})
	}
	return result
}

// Numbers returns the table numbers of the floor plan
func (l LayoutConfig) Numbers() []int {
	result := make([]int, 0, len(l.Tables))
	for _, t := range l.Tables {
		result = append(result, t.Number)
	}
	return result
}

type SweeperConfig struct {
	Enabled  bool `toml:"enabled"`
	Interval int  `toml:"interval"` // секунды
}

type NotifierConfig struct {
	Driver         string `toml:"driver"`
	GatewayURL     string `toml:"gateway_url"`
	GatewayTimeout int    `toml:"gateway_timeout"`
	AMQPURL        string `toml:"amqp_url"`
	AMQPQueue      string `toml:"amqp_queue"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	LockTTL  int    `toml:"lock_ttl"`
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	IdleTTL           int     `toml:"idle_ttl"`
}

// Load reads the TOML file at path, applies defaults, loads an optional .env
// next to the process and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	// .env необязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the configuration used for keys absent from the file
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "table_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			QueryTimeout:    5,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "table-booking",
		},
		Booking: BookingConfig{
			OpeningTime:         domain.DefaultOpeningTime,
			ClosingTime:         domain.DefaultClosingTime,
			SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
			LockBackend:         LockBackendLocal,
			LockWait:            5,
		},
		Layout: LayoutConfig{
			Width:  600,
			Height: 400,
		},
		Sweeper: SweeperConfig{
			Enabled:  true,
			Interval: 60,
		},
		Notifier: NotifierConfig{
			Driver:         NotifierDriverLog,
			GatewayTimeout: 5,
			AMQPQueue:      "table_booking.notifications",
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			LockTTL: 10,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 5,
			Burst:             10,
			IdleTTL:           600,
		},
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("AMQP_URL"); v != "" {
		c.Notifier.AMQPURL = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("APPROVER_IDS"); v != "" {
		ids, err := parseIDs(v)
		if err != nil {
			return fmt.Errorf("%w: APPROVER_IDS: %w", ErrInvalidConfig, err)
		}
		c.Booking.ApproverIDs = ids
	}
	return nil
}

func parseIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Validate rejects inconsistent values
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port %d out of range", c.Server.HTTPPort))
	}
	if c.Database.Driver != "postgres" && c.Database.Driver != "pgx" {
		errs = append(errs, fmt.Errorf("database.driver %q is not postgres or pgx", c.Database.Driver))
	}
	if c.Database.QueryTimeout <= 0 {
		errs = append(errs, errors.New("database.query_timeout must be positive"))
	}
	if len(c.Booking.ApproverIDs) == 0 {
		errs = append(errs, errors.New("booking.approver_ids is empty"))
	}
	if _, err := c.Booking.BlockingPolicy(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Booking.DefaultSettings().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("booking defaults: %w", err))
	}
	if c.Booking.LockBackend != LockBackendLocal && c.Booking.LockBackend != LockBackendRedis {
		errs = append(errs, fmt.Errorf("booking.lock_backend %q is not local or redis", c.Booking.LockBackend))
	}

	seen := make(map[int]struct{}, len(c.Layout.Tables))
	for _, t := range c.Layout.Tables {
		if t.Number <= 0 {
			errs = append(errs, fmt.Errorf("layout table number %d must be positive", t.Number))
		}
		if _, ok := seen[t.Number]; ok {
			errs = append(errs, fmt.Errorf("layout table number %d is duplicated", t.Number))
		}
		seen[t.Number] = struct{}{}
	}

	if c.Sweeper.Enabled && c.Sweeper.Interval <= 0 {
		errs = append(errs, errors.New("sweeper.interval must be positive"))
	}

	switch c.Notifier.Driver {
	case NotifierDriverLog:
	case NotifierDriverHTTP:
		if c.Notifier.GatewayURL == "" {
			errs = append(errs, errors.New("notifier.gateway_url is required for http driver"))
		}
	case NotifierDriverAMQP:
		if c.Notifier.AMQPURL == "" || c.Notifier.AMQPQueue == "" {
			errs = append(errs, errors.New("notifier.amqp_url and notifier.amqp_queue are required for amqp driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("notifier.driver %q is unknown", c.Notifier.Driver))
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("ratelimit.requests_per_second and ratelimit.burst must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Seconds converts a config value in seconds to a duration
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
