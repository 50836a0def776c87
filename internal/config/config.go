package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/TableBookingService/internal/domain"
	"github.com/m04kA/TableBookingService/pkg/types"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Переменные окружения, переопределяющие значения из файла
const (
	envDBHost        = "TABLEBOOK_DB_HOST"
	envDBPassword    = "TABLEBOOK_DB_PASSWORD"
	envHTTPPort      = "TABLEBOOK_HTTP_PORT"
	envRedisAddr     = "TABLEBOOK_REDIS_ADDR"
	envRedisPassword = "TABLEBOOK_REDIS_PASSWORD"
	envEventsDriver  = "TABLEBOOK_EVENTS_DRIVER"
	envRabbitMQURL   = "TABLEBOOK_RABBITMQ_URL"
	envKafkaBrokers  = "TABLEBOOK_KAFKA_BROKERS"
	envLogLevel      = "TABLEBOOK_LOG_LEVEL"
	envVenueTimezone = "TABLEBOOK_VENUE_TIMEZONE"
)

// Event drivers
const (
	EventsDriverNone     = "none"
	EventsDriverRabbitMQ = "rabbitmq"
	EventsDriverKafka    = "kafka"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Venue    VenueConfig    `toml:"venue"`
	Redis    RedisConfig    `toml:"redis"`
	Events   EventsConfig   `toml:"events"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// VenueConfig политика заведения
type VenueConfig struct {
	AddressingMode      string                `toml:"addressing_mode"`
	ConflictScope       string                `toml:"conflict_scope"`
	MaxPartySize        int                   `toml:"max_party_size"`
	PerTableCapacity    int                   `toml:"per_table_capacity"`
	CapacityTables      int                   `toml:"capacity_tables"`
	SlotDurationMinutes int                   `toml:"slot_duration_minutes"`
	SlotTimes           []string              `toml:"slot_times"`
	OperatingDays       []string              `toml:"operating_days"`
	Timezone            string                `toml:"timezone"`
	Tables              []TableConfig         `toml:"tables"`
	ServicePeriods      []ServicePeriodConfig `toml:"service_periods"`
}

// TableConfig стол заведения
type TableConfig struct {
	ID       int    `toml:"id"`
	Capacity int    `toml:"capacity"`
	Location string `toml:"location"`
}

// ServicePeriodConfig период обслуживания с коэффициентом доступности
type ServicePeriodConfig struct {
	Name   string  `toml:"name"`
	Start  string  `toml:"start"`
	End    string  `toml:"end"`
	Factor float64 `toml:"factor"`
}

// RedisConfig кэш доступности
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL время жизни записи кэша
func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

// EventsConfig публикация событий бронирований
type EventsConfig struct {
	Driver   string         `toml:"driver"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq"`
	Kafka    KafkaConfig    `toml:"kafka"`
}

// RabbitMQConfig настройки RabbitMQ
type RabbitMQConfig struct {
	URL   string `toml:"url"`
	Queue string `toml:"queue"`
}

// KafkaConfig настройки Kafka
type KafkaConfig struct {
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// Load читает TOML файл, подгружает .env рядом с ним и применяет переопределения из окружения
func Load(path string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("%w: load %s: %v", ErrInvalidConfig, envPath, err)
		}
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidConfig, path, err)
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)

	setDefault(&c.Database.Host, "localhost")
	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.SSLMode, "disable")
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	setDefault(&c.Logs.Level, "info")

	setDefault(&c.Metrics.Path, "/metrics")
	setDefault(&c.Metrics.ServiceName, "table-booking-service")

	setDefault(&c.Venue.AddressingMode, string(domain.AddressingTables))
	setDefault(&c.Venue.ConflictScope, string(domain.ScopeOverlap))
	setDefault(&c.Venue.PerTableCapacity, domain.DefaultPerTableCapacity)
	setDefault(&c.Venue.CapacityTables, domain.DefaultCapacityTables)
	setDefault(&c.Venue.SlotDurationMinutes, domain.DefaultSlotDurationMinutes)
	setDefault(&c.Venue.Timezone, domain.DefaultLocation)
	if len(c.Venue.SlotTimes) == 0 {
		c.Venue.SlotTimes = append([]string(nil), domain.DefaultSlotTimes...)
	}
	if len(c.Venue.OperatingDays) == 0 {
		c.Venue.OperatingDays = []string{"friday", "saturday"}
	}
	if c.Venue.MaxPartySize == 0 {
		if c.Venue.AddressingMode == string(domain.AddressingCount) {
			c.Venue.MaxPartySize = c.Venue.PerTableCapacity
		} else {
			c.Venue.MaxPartySize = c.Venue.CapacityTables * c.Venue.PerTableCapacity
		}
	}
	if len(c.Venue.Tables) == 0 {
		for _, t := range domain.DefaultTables(c.Venue.CapacityTables, c.Venue.PerTableCapacity, domain.DefaultTableLocation) {
			c.Venue.Tables = append(c.Venue.Tables, TableConfig{ID: t.ID, Capacity: t.Capacity, Location: t.Location})
		}
	}

	setDefault(&c.Redis.TTLSeconds, 30)

	setDefault(&c.Events.Driver, EventsDriverNone)
	setDefault(&c.Events.RabbitMQ.Queue, "reservation.events")
	setDefault(&c.Events.Kafka.Topic, "reservation.events")
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(envDBHost); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv(envDBPassword); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv(envHTTPPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, envHTTPPort, v)
		}
		c.Server.HTTPPort = port
	}
	if v := os.Getenv(envRedisAddr); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv(envRedisPassword); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv(envEventsDriver); v != "" {
		c.Events.Driver = v
	}
	if v := os.Getenv(envRabbitMQURL); v != "" {
		c.Events.RabbitMQ.URL = v
	}
	if v := os.Getenv(envKafkaBrokers); v != "" {
		c.Events.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.Logs.Level = v
	}
	if v := os.Getenv(envVenueTimezone); v != "" {
		c.Venue.Timezone = v
	}
	return nil
}

// Validate проверяет конфигурацию, включая политику заведения
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}

	switch c.Events.Driver {
	case EventsDriverNone:
	case EventsDriverRabbitMQ:
		if c.Events.RabbitMQ.URL == "" {
			return fmt.Errorf("%w: events.rabbitmq.url is required", ErrInvalidConfig)
		}
	case EventsDriverKafka:
		if len(c.Events.Kafka.Brokers) == 0 {
			return fmt.Errorf("%w: events.kafka.brokers is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown events.driver %q", ErrInvalidConfig, c.Events.Driver)
	}

	if _, err := c.VenuePolicy(); err != nil {
		return err
	}
	return nil
}

// VenuePolicy собирает и валидирует доменную политику из секции venue
func (c *Config) VenuePolicy() (domain.VenuePolicy, error) {
	v := c.Venue

	loc, err := time.LoadLocation(v.Timezone)
	if err != nil {
		return domain.VenuePolicy{}, fmt.Errorf("%w: venue.timezone %q: %v", ErrInvalidConfig, v.Timezone, err)
	}

	slotTimes := make([]types.TimeString, 0, len(v.SlotTimes))
	for _, s := range v.SlotTimes {
		ts, err := types.NewTimeStringFromString(s)
		if err != nil {
			return domain.VenuePolicy{}, fmt.Errorf("%w: venue.slot_times: %v", ErrInvalidConfig, err)
		}
		slotTimes = append(slotTimes, ts)
	}

	days := make([]time.Weekday, 0, len(v.OperatingDays))
	for _, s := range v.OperatingDays {
		wd, err := parseWeekday(s)
		if err != nil {
			return domain.VenuePolicy{}, err
		}
		days = append(days, wd)
	}

	tables := make([]domain.Table, 0, len(v.Tables))
	for _, t := range v.Tables {
		location := t.Location
		if location == "" {
			location = domain.DefaultTableLocation
		}
		tables = append(tables, domain.Table{ID: t.ID, Capacity: t.Capacity, Location: location})
	}

	periods := make([]domain.ServicePeriod, 0, len(v.ServicePeriods))
	for _, sp := range v.ServicePeriods {
		start, err := types.NewTimeStringFromString(sp.Start)
		if err != nil {
			return domain.VenuePolicy{}, fmt.Errorf("%w: venue.service_periods %q start: %v", ErrInvalidConfig, sp.Name, err)
		}
		end, err := types.NewTimeStringFromString(sp.End)
		if err != nil {
			return domain.VenuePolicy{}, fmt.Errorf("%w: venue.service_periods %q end: %v", ErrInvalidConfig, sp.Name, err)
		}
		periods = append(periods, domain.ServicePeriod{Name: sp.Name, Start: start, End: end, Factor: sp.Factor})
	}

	policy := domain.VenuePolicy{
		AddressingMode:      domain.AddressingMode(v.AddressingMode),
		ConflictScope:       domain.ConflictScope(v.ConflictScope),
		MaxPartySize:        v.MaxPartySize,
		PerTableCapacity:    v.PerTableCapacity,
		CapacityTables:      v.CapacityTables,
		SlotDurationMinutes: v.SlotDurationMinutes,
		SlotTimes:           slotTimes,
		OperatingDays:       days,
		Location:            loc,
		Tables:              tables,
		ServicePeriods:      periods,
	}

	if err := policy.Validate(); err != nil {
		return domain.VenuePolicy{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return policy, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidConfig, s)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}
