package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Cache    CacheConfig
	Calendar CalendarConfig
	Report   ReportConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type StoreConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type CacheConfig struct {
	EmployeesTTL   time.Duration
	HolidaysTTL    time.Duration
	DailyTTL       time.Duration
	LeavesTTL      time.Duration
	ReportsTTL     time.Duration
	DashboardTTL   time.Duration
	SweepInterval  time.Duration
	WarmUpInterval time.Duration
}

type CalendarConfig struct {
	// File is an optional YAML calendar with per-department overrides.
	File    string
	Default calendar.Config
}

type ReportConfig struct {
	Concurrency  int
	MaxRangeDays int
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config, err := fromEnv()
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func fromEnv() (*Config, error) {
	p := &parser{}
	config := &Config{}

	config.App = AppConfig{
		Port:     p.int("APP_PORT", 8080),
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.Store = StoreConfig{
		Driver: getEnv("STORE_DRIVER", StoreDriverPostgres),
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     p.int("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(p.int("DB_MAX_CONNS", 10)),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.Cache = CacheConfig{
		EmployeesTTL:   p.duration("CACHE_TTL_EMPLOYEES", 5*time.Minute),
		HolidaysTTL:    p.duration("CACHE_TTL_HOLIDAYS", time.Hour),
		DailyTTL:       p.duration("CACHE_TTL_DAILY", 2*time.Minute),
		LeavesTTL:      p.duration("CACHE_TTL_LEAVES", 5*time.Minute),
		ReportsTTL:     p.duration("CACHE_TTL_REPORTS", 30*time.Minute),
		DashboardTTL:   p.duration("CACHE_TTL_DASHBOARD", time.Minute),
		SweepInterval:  p.duration("CACHE_SWEEP_INTERVAL", 5*time.Minute),
		WarmUpInterval: p.duration("CACHE_WARMUP_INTERVAL", time.Hour),
	}

	def := calendar.DefaultConfig()
	def.Timezone = getEnv("CALENDAR_TIMEZONE", def.Timezone)
	def.MinimumWorkHours = p.float("CALENDAR_MIN_WORK_HOURS", def.MinimumWorkHours)
	def.FullDayHours = p.float("CALENDAR_FULL_DAY_HOURS", def.FullDayHours)
	def.ShiftStart = getEnv("CALENDAR_SHIFT_START", def.ShiftStart)
	def.GracePeriodMinutes = p.int("CALENDAR_GRACE_MINUTES", def.GracePeriodMinutes)
	def.NonWorkingSaturdays = p.ints("CALENDAR_NON_WORKING_SATURDAYS", def.NonWorkingSaturdays)
	config.Calendar = CalendarConfig{
		File:    getEnv("CALENDAR_FILE", ""),
		Default: def,
	}

	config.Report = ReportConfig{
		Concurrency:  p.int("REPORT_CONCURRENCY", 8),
		MaxRangeDays: p.int("REPORT_MAX_RANGE_DAYS", 366),
	}

	if p.err != nil {
		return nil, p.err
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", StoreDriverPostgres, StoreDriverMemory)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	ttls := map[string]time.Duration{
		"CACHE_TTL_EMPLOYEES":   c.Cache.EmployeesTTL,
		"CACHE_TTL_HOLIDAYS":    c.Cache.HolidaysTTL,
		"CACHE_TTL_DAILY":       c.Cache.DailyTTL,
		"CACHE_TTL_LEAVES":      c.Cache.LeavesTTL,
		"CACHE_TTL_REPORTS":     c.Cache.ReportsTTL,
		"CACHE_TTL_DASHBOARD":   c.Cache.DashboardTTL,
		"CACHE_SWEEP_INTERVAL":  c.Cache.SweepInterval,
		"CACHE_WARMUP_INTERVAL": c.Cache.WarmUpInterval,
	}
	for name, d := range ttls {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	if c.Report.Concurrency <= 0 {
		return fmt.Errorf("REPORT_CONCURRENCY must be positive")
	}
	if c.Report.MaxRangeDays <= 0 {
		return fmt.Errorf("REPORT_MAX_RANGE_DAYS must be positive")
	}

	if err := c.Calendar.Default.Validate(); err != nil {
		return err
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parser keeps the first conversion error so fromEnv can report it once.
type parser struct {
	err error
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}

func (p *parser) int(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return v
}

func (p *parser) float(key string, fallback float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return v
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return v
}

// ints parses a comma-separated list, e.g. "2,4".
func (p *parser) ints(key string, fallback []int) []int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			p.fail(key, err)
			return fallback
		}
		out = append(out, v)
	}
	return out
}
