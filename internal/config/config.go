package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
// Таймауты задаются в секундах
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	RateLimit      RateLimitConfig      `toml:"rate_limit"`
	Redis          RedisConfig          `toml:"redis"`
	CORS           CORSConfig           `toml:"cors"`
	GoogleCalendar GoogleCalendarConfig `toml:"google_calendar"`
	SMTP           SMTPConfig           `toml:"smtp"`
	Enrichment     EnrichmentConfig     `toml:"enrichment"`
	Jobs           JobsConfig           `toml:"jobs"`
	Feed           FeedConfig           `toml:"feed"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
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

// RateLimitConfig ограничение частоты публичных запросов
// Если Redis выключен, лимит считается в памяти процесса
type RateLimitConfig struct {
	Enabled       bool   `toml:"enabled"`
	Requests      int    `toml:"requests"`
	WindowSeconds int    `toml:"window_seconds"`
	FailOpen      bool   `toml:"fail_open"`
	KeyPrefix     string `toml:"key_prefix"`

	// TrustedProxies IP или CIDR балансировщиков, которым разрешено передавать X-Forwarded-For
	TrustedProxies []string `toml:"trusted_proxies"`
}

func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
	MaxAge         int      `toml:"max_age"`
	Debug          bool     `toml:"debug"`
}

// GoogleCalendarConfig OAuth-приложение Google
// Без client_id/client_secret создание событий пропускается
type GoogleCalendarConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURL  string `toml:"redirect_url"`
	Timeout      int    `toml:"timeout"`
}

// SMTPConfig пустой host отключает отправку писем
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	Timeout  int    `toml:"timeout"`
}

type EnrichmentConfig struct {
	Timeout int `toml:"timeout"`
}

type JobsConfig struct {
	CalendarRetryEnabled bool   `toml:"calendar_retry_enabled"`
	CalendarRetrySpec    string `toml:"calendar_retry_spec"`
	CalendarRetryTimeout int    `toml:"calendar_retry_timeout"`
}

type FeedConfig struct {
	ProductID string `toml:"product_id"`
	UIDDomain string `toml:"uid_domain"`
}

// Переменные окружения с секретами, перекрывают значения из файла
const (
	envDatabasePassword   = "DB_PASSWORD"
	envRedisPassword      = "REDIS_PASSWORD"
	envGoogleClientID     = "GOOGLE_CLIENT_ID"
	envGoogleClientSecret = "GOOGLE_CLIENT_SECRET"
	envSMTPPassword       = "SMTP_PASSWORD"
	envHTTPPort           = "HTTP_PORT"
)

// Load читает конфигурацию из TOML-файла, применяет значения по умолчанию и переменные окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "scheduling-service",
		},
		RateLimit: RateLimitConfig{
			Requests:      60,
			WindowSeconds: 60,
			FailOpen:      true,
			KeyPrefix:     "scheduling:rl",
		},
		Redis:          RedisConfig{Addr: "localhost:6379"},
		GoogleCalendar: GoogleCalendarConfig{Timeout: 10},
		SMTP:           SMTPConfig{Port: 587, Timeout: 10},
		Enrichment:     EnrichmentConfig{Timeout: 15},
		Jobs: JobsConfig{
			CalendarRetrySpec:    "@every 10m",
			CalendarRetryTimeout: 120,
		},
		Feed: FeedConfig{
			ProductID: "-//SMC//Scheduling Service//EN",
			UIDDomain: "scheduling.local",
		},
	}
}

func (c *Config) applyEnv() error {
	overrides := map[string]*string{
		envDatabasePassword:   &c.Database.Password,
		envRedisPassword:      &c.Redis.Password,
		envGoogleClientID:     &c.GoogleCalendar.ClientID,
		envGoogleClientSecret: &c.GoogleCalendar.ClientSecret,
		envSMTPPassword:       &c.SMTP.Password,
	}
	for env, dst := range overrides {
		if v, ok := os.LookupEnv(env); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(envHTTPPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envHTTPPort, err)
		}
		c.Server.HTTPPort = port
	}
	return nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port must be in 1..65535, got %d", c.Server.HTTPPort))
	}
	if strings.TrimSpace(c.Database.Host) == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if strings.TrimSpace(c.Database.DBName) == "" {
		errs = append(errs, errors.New("database.dbname is required"))
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with '/', got %q", c.Metrics.Path))
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.WindowSeconds <= 0) {
		errs = append(errs, errors.New("rate_limit.requests and rate_limit.window_seconds must be positive"))
	}
	for _, proxy := range c.RateLimit.TrustedProxies {
		if !validProxy(proxy) {
			errs = append(errs, fmt.Errorf("rate_limit.trusted_proxies: %q is neither an IP nor a CIDR", proxy))
		}
	}
	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
		errs = append(errs, errors.New("redis.addr is required when redis is enabled"))
	}
	if c.Jobs.CalendarRetryEnabled && strings.TrimSpace(c.Jobs.CalendarRetrySpec) == "" {
		errs = append(errs, errors.New("jobs.calendar_retry_spec is required when the job is enabled"))
	}

	return errors.Join(errs...)
}

func validProxy(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		_, err := netip.ParsePrefix(s)
		return err == nil
	}
	_, err := netip.ParseAddr(s)
	return err == nil
}

// Seconds переводит целое число секунд из конфига в time.Duration
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
