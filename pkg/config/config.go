package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	POS      POSConfig
	Storage  StorageConfig
	DB       DBConfig
	Redis    RedisConfig
	Events   EventsConfig
	Payments PaymentsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.UsesSQL() {
		if err := cfg.DB.ensureDSN(cfg.Storage.Driver); err != nil {
			return nil, err
		}
	}
	if cfg.Storage.Driver == StorageDriverRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("either %s or %s is required for redis storage", EnvRedisURL, EnvRedisAddr)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"TABLEPOS_APP_ENV" required:"true"`
	Port         string   `envconfig:"TABLEPOS_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"TABLEPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"TABLEPOS_LOG_WARN_STACK" default:"false"`
	StoreName    string   `envconfig:"TABLEPOS_STORE_NAME" default:"tablepos"`
	CORSOrigins  []string `envconfig:"TABLEPOS_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the remote restaurant backend that owns orders, tables and payments.
type BackendConfig struct {
	BaseURL string        `envconfig:"TABLEPOS_BACKEND_BASE_URL" required:"true"`
	Token   string        `envconfig:"TABLEPOS_BACKEND_TOKEN"`
	Timeout time.Duration `envconfig:"TABLEPOS_BACKEND_TIMEOUT" default:"10s"`
}

func (b BackendConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(b.BaseURL))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvBackendBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url", EnvBackendBaseURL)
	}
	return nil
}

type POSConfig struct {
	DefaultTableID string `envconfig:"TABLEPOS_DEFAULT_TABLE_ID" default:"table-01"`
	DefaultChannel string `envconfig:"TABLEPOS_DEFAULT_CHANNEL" default:"dine_in"`
	HistoryLimit   int    `envconfig:"TABLEPOS_HISTORY_LIMIT" default:"10"`
}

type StorageConfig struct {
	Driver      string `envconfig:"TABLEPOS_STORAGE_DRIVER" default:"sqlite"`
	Namespace   string `envconfig:"TABLEPOS_STORAGE_NAMESPACE" default:"pos"`
	AutoMigrate bool   `envconfig:"TABLEPOS_STORAGE_AUTO_MIGRATE" default:"true"`
}

// UsesSQL reports whether local state lives in a SQL database.
func (s StorageConfig) UsesSQL() bool {
	return s.Driver == StorageDriverSQLite || s.Driver == StorageDriverPostgres
}

func (s StorageConfig) validate() error {
	switch s.Driver {
	case StorageDriverMemory, StorageDriverSQLite, StorageDriverPostgres, StorageDriverRedis:
		return nil
	}
	return fmt.Errorf("%s must be one of memory, sqlite, postgres, redis (got %q)", EnvStorageDriver, s.Driver)
}

type DBConfig struct {
	DSN        string `envconfig:"TABLEPOS_DB_DSN"`
	SQLitePath string `envconfig:"TABLEPOS_DB_SQLITE_PATH" default:"tablepos.db"`

	Host     string `envconfig:"TABLEPOS_DB_HOST"`
	Port     int    `envconfig:"TABLEPOS_DB_PORT" default:"5432"`
	User     string `envconfig:"TABLEPOS_DB_USER"`
	Password string `envconfig:"TABLEPOS_DB_PASSWORD"`
	Name     string `envconfig:"TABLEPOS_DB_NAME"`
	SSLMode  string `envconfig:"TABLEPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TABLEPOS_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"TABLEPOS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"TABLEPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TABLEPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// Driver is filled from the storage driver once the config is loaded.
	Driver string `ignored:"true"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TABLEPOS_REDIS_URL"`
	Address      string        `envconfig:"TABLEPOS_REDIS_ADDR"`
	Password     string        `envconfig:"TABLEPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"TABLEPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TABLEPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TABLEPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TABLEPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TABLEPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TABLEPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type EventsConfig struct {
	NATSURL      string `envconfig:"TABLEPOS_EVENTS_NATS_URL"`
	OrderSubject string `envconfig:"TABLEPOS_EVENTS_ORDER_SUBJECT" default:"pos.orders.placed"`
}

// Enabled reports whether order notifications should be published.
func (e EventsConfig) Enabled() bool {
	return strings.TrimSpace(e.NATSURL) != ""
}

type PaymentsConfig struct {
	PollInterval time.Duration `envconfig:"TABLEPOS_PAYMENTS_POLL_INTERVAL" default:"2s"`
	PollTimeout  time.Duration `envconfig:"TABLEPOS_PAYMENTS_POLL_TIMEOUT" default:"2m"`
}

func (db *DBConfig) ensureDSN(driver string) error {
	db.Driver = driver
	if db.DSN != "" {
		return nil
	}

	if driver == StorageDriverSQLite {
		if strings.TrimSpace(db.SQLitePath) == "" {
			return fmt.Errorf("%s is required for sqlite storage", EnvDBSQLitePath)
		}
		db.DSN = db.SQLitePath
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range postgresDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
