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
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Pricing       PricingConfig       `toml:"pricing"`
	Booking       BookingConfig       `toml:"booking"`
	Redis         RedisConfig         `toml:"redis"`
	Notifications NotificationsConfig `toml:"notifications"`
	Scheduler     SchedulerConfig     `toml:"scheduler"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к БД
type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | memory
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

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пусто - вывод в stdout
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// PricingConfig дневные ставки дополнительных услуг
type PricingConfig struct {
	DriverFeePerDay    float64 `toml:"driver_fee_per_day"`
	InsuranceFeePerDay float64 `toml:"insurance_fee_per_day"`
}

// BookingConfig правила бронирования
type BookingConfig struct {
	AllowSameDayTurnover bool   `toml:"allow_same_day_turnover"`
	MaxTxRetries         int    `toml:"max_tx_retries"`
	RetryBackoffMs       int    `toml:"retry_backoff_ms"`
	Timezone             string `toml:"timezone"`
}

// RedisConfig настройки Redis
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Address  string `toml:"address"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// NotificationsConfig настройки доставки уведомлений
type NotificationsConfig struct {
	Enabled          bool    `toml:"enabled"`
	Channel          string  `toml:"channel"`
	WebhookURL       string  `toml:"webhook_url"`
	QueueSize        int     `toml:"queue_size"`
	RatePerSecond    float64 `toml:"rate_per_second"`
	Burst            int     `toml:"burst"`
	PublishTimeoutMs int     `toml:"publish_timeout_ms"`
}

// SchedulerConfig настройки фоновых заданий
type SchedulerConfig struct {
	Enabled          bool   `toml:"enabled"`
	StatusResyncCron string `toml:"status_resync_cron"`
	ResyncTimeout    int    `toml:"resync_timeout"` // секунды
}

// Load читает .env (если есть), затем TOML файл и переменные окружения
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	// ${ENV_VAR} в файле конфигурации
	data = []byte(os.ExpandEnv(string(data)))

	cfg := &Config{}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strVars := map[string]*string{
		"DB_DRIVER":      &c.Database.Driver,
		"DB_HOST":        &c.Database.Host,
		"DB_USER":        &c.Database.User,
		"DB_PASSWORD":    &c.Database.Password,
		"DB_NAME":        &c.Database.DBName,
		"DB_SSLMODE":     &c.Database.SSLMode,
		"REDIS_ADDRESS":  &c.Redis.Address,
		"REDIS_PASSWORD": &c.Redis.Password,
		"LOG_LEVEL":      &c.Logs.Level,
		"LOG_FILE":       &c.Logs.File,
	}
	for name, dst := range strVars {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	intVars := map[string]*int{
		"DB_PORT":   &c.Database.Port,
		"HTTP_PORT": &c.Server.HTTPPort,
		"REDIS_DB":  &c.Redis.DB,
	}
	for name, dst := range intVars {
		v, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s must be an integer: %w", name, err)
		}
		*dst = n
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "carvo_rentals"
	}

	if c.Pricing.DriverFeePerDay == 0 {
		c.Pricing.DriverFeePerDay = 150
	}
	if c.Pricing.InsuranceFeePerDay == 0 {
		c.Pricing.InsuranceFeePerDay = 50
	}

	if c.Booking.MaxTxRetries == 0 {
		c.Booking.MaxTxRetries = 3
	}
	if c.Booking.RetryBackoffMs == 0 {
		c.Booking.RetryBackoffMs = 20
	}
	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "UTC"
	}

	if c.Redis.Address == "" {
		c.Redis.Address = "localhost:6379"
	}

	if c.Notifications.Channel == "" {
		c.Notifications.Channel = "carvo.events"
	}
	if c.Notifications.QueueSize == 0 {
		c.Notifications.QueueSize = 256
	}
	if c.Notifications.RatePerSecond == 0 {
		c.Notifications.RatePerSecond = 50
	}
	if c.Notifications.Burst == 0 {
		c.Notifications.Burst = 10
	}
	if c.Notifications.PublishTimeoutMs == 0 {
		c.Notifications.PublishTimeoutMs = 2000
	}

	if c.Scheduler.StatusResyncCron == "" {
		c.Scheduler.StatusResyncCron = "0 5 0 * * *"
	}
	if c.Scheduler.ResyncTimeout == 0 {
		c.Scheduler.ResyncTimeout = 300
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			errs = append(errs, errors.New("database.host is required"))
		}
		if c.Database.DBName == "" {
			errs = append(errs, errors.New("database.dbname is required"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Database.Driver))
	}

	switch strings.ToLower(c.Logs.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logs.level %q is not supported", c.Logs.Level))
	}

	if c.Pricing.DriverFeePerDay < 0 || c.Pricing.InsuranceFeePerDay < 0 {
		errs = append(errs, errors.New("pricing fees must not be negative"))
	}
	if c.Booking.MaxTxRetries < 0 {
		errs = append(errs, errors.New("booking.max_tx_retries must not be negative"))
	}
	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("booking.timezone: %w", err))
	}

	if c.Notifications.Enabled && !c.Redis.Enabled && c.Notifications.WebhookURL == "" {
		errs = append(errs, errors.New("notifications require redis.enabled or notifications.webhook_url"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// DSN строка подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, quote(d.Password), d.DBName, d.SSLMode)
}

// Location часовой пояс, в котором считаются календарные даты
func (b BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RetryBackoff пауза перед повтором транзакции
func (b BookingConfig) RetryBackoff() time.Duration {
	return time.Duration(b.RetryBackoffMs) * time.Millisecond
}

// PublishTimeout таймаут публикации одного уведомления
func (n NotificationsConfig) PublishTimeout() time.Duration {
	return time.Duration(n.PublishTimeoutMs) * time.Millisecond
}

// RedactedDSN строка подключения без пароля для логов
func (d DatabaseConfig) RedactedDSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.User(d.User),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	return u.String()
}

func quote(v string) string {
	if v == "" {
		return "''"
	}
	if strings.ContainsAny(v, ` '\`) {
		return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
	}
	return v
}
