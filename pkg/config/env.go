package config

const EnvPrefix = "TABLEPOS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
)

const (
	EnvAppEnv         = "TABLEPOS_APP_ENV"
	EnvPort           = "TABLEPOS_APP_PORT"
	EnvLogLevel       = "TABLEPOS_LOG_LEVEL"
	EnvBackendBaseURL = "TABLEPOS_BACKEND_BASE_URL"
	EnvBackendTimeout = "TABLEPOS_BACKEND_TIMEOUT"
	EnvDefaultTableID = "TABLEPOS_DEFAULT_TABLE_ID"
	EnvHistoryLimit   = "TABLEPOS_HISTORY_LIMIT"
	EnvStorageDriver  = "TABLEPOS_STORAGE_DRIVER"
	EnvDBDSN          = "TABLEPOS_DB_DSN"
	EnvDBSQLitePath   = "TABLEPOS_DB_SQLITE_PATH"
	EnvDBHost         = "TABLEPOS_DB_HOST"
	EnvDBUser         = "TABLEPOS_DB_USER"
	EnvDBPassword     = "TABLEPOS_DB_PASSWORD"
	EnvDBName         = "TABLEPOS_DB_NAME"
	EnvRedisURL       = "TABLEPOS_REDIS_URL"
	EnvRedisAddr      = "TABLEPOS_REDIS_ADDR"
	EnvEventsNATSURL  = "TABLEPOS_EVENTS_NATS_URL"
	EnvCORSOrigins    = "TABLEPOS_CORS_ORIGINS"
)

var postgresDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
