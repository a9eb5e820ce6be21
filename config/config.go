// Package config loads settings from .env and the environment, optionally overlaid by a
// watched config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"
	DriverSQLite    = "sqlite"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	StoreDriver string `mapstructure:"STORE_DRIVER"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	SQLitePath  string `mapstructure:"SQLITE_PATH"`

	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsJSON string `mapstructure:"FIREBASE_CREDENTIALS_JSON"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	TelrStoreID       int    `mapstructure:"TELR_STORE_ID"`
	TelrAuthKey       string `mapstructure:"TELR_AUTH_KEY"`
	TelrAPIURL        string `mapstructure:"TELR_API_URL"`
	TelrMode          string `mapstructure:"TELR_MODE"`
	TelrWebhookSecret string `mapstructure:"TELR_WEBHOOK_SECRET"`
	TelrSuccessURL    string `mapstructure:"TELR_SUCCESS_URL"`
	TelrFailureURL    string `mapstructure:"TELR_FAILURE_URL"`
	TelrCancelURL     string `mapstructure:"TELR_CANCEL_URL"`
	Currency          string `mapstructure:"CURRENCY"`

	UploadDir       string        `mapstructure:"UPLOAD_DIR"`
	BackupDir       string        `mapstructure:"BACKUP_DIR"`
	BackupRetention time.Duration `mapstructure:"BACKUP_RETENTION"`
	BackupHour      int           `mapstructure:"BACKUP_HOUR"`
	PublicBaseURL   string        `mapstructure:"PUBLIC_BASE_URL"`
	CORSOrigins     string        `mapstructure:"CORS_ORIGINS"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`
}

var defaults = map[string]any{
	"PORT":                      "8080",
	"STORE_DRIVER":              DriverPostgres,
	"DATABASE_URL":              "",
	"DB_HOST":                   "localhost",
	"DB_PORT":                   "5432",
	"DB_USER":                   "postgres",
	"DB_PASSWORD":               "",
	"DB_NAME":                   "beauty",
	"SQLITE_PATH":               "beauty.db",
	"FIREBASE_PROJECT_ID":       "",
	"FIREBASE_CREDENTIALS_JSON": "",
	"JWT_SECRET":                "",
	"JWT_TTL":                   "72h",
	"REDIS_ADDR":                "",
	"REDIS_PASSWORD":            "",
	"CACHE_TTL":                 "5m",
	"KAFKA_BROKERS":             "",
	"KAFKA_TOPIC":               "orders",
	"TELR_STORE_ID":             0,
	"TELR_AUTH_KEY":             "",
	"TELR_API_URL":              "https://secure.telr.com/gateway/order.json",
	"TELR_MODE":                 "sandbox",
	"TELR_WEBHOOK_SECRET":       "",
	"TELR_SUCCESS_URL":          "",
	"TELR_FAILURE_URL":          "",
	"TELR_CANCEL_URL":           "",
	"CURRENCY":                  "AED",
	"UPLOAD_DIR":                "uploads",
	"BACKUP_DIR":                "backup/uploads",
	"BACKUP_RETENTION":          "96h",
	"BACKUP_HOUR":               2,
	"PUBLIC_BASE_URL":           "http://localhost:8080",
	"CORS_ORIGINS":              "*",
	"LOG_LEVEL":                 "info",
	"LOG_PRETTY":                false,
}

// Loader owns the viper instance so the config can be reloaded when the file changes.
type Loader struct {
	v   *viper.Viper
	mu  sync.RWMutex
	cfg *Config
}

// Load reads .env (if any), the environment and, when file is non-empty, a config file.
func Load(file string) (*Loader, error) {
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	l := &Loader{v: v}
	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.cfg = cfg
	return l, nil
}

func (l *Loader) decode() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	return cfg, nil
}

func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// Watch re-reads the config file on change and hands the new config to onChange. It is a
// no-op when no file was loaded.
func (l *Loader) Watch(onChange func(*Config)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.decode()
		if err != nil {
			return
		}
		l.mu.Lock()
		l.cfg = cfg
		l.mu.Unlock()
		onChange(cfg)
	})
	l.v.WatchConfig()
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.StoreDriver {
	case DriverPostgres, DriverSQLite:
	case DriverFirestore:
		if c.FirebaseProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required for the firestore driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.BackupHour < 0 || c.BackupHour > 23 {
		errs = append(errs, errors.New("BACKUP_HOUR must be between 0 and 23"))
	}
	return errors.Join(errs...)
}

func (c *Config) Brokers() []string {
	return splitList(c.KafkaBrokers)
}

func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSOrigins)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
