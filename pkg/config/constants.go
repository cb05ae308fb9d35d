package config

const EnvPrefix = "MOVIEREVIEW"

const (
	AppEnvDev = "dev"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv    = "MOVIEREVIEW_APP_ENV"
	EnvPort      = "MOVIEREVIEW_APP_PORT"
	EnvLogLevel  = "MOVIEREVIEW_LOG_LEVEL"
	EnvDBDSN     = "MOVIEREVIEW_DB_DSN"
	EnvDBDriver  = "MOVIEREVIEW_DB_DRIVER"
	EnvDBHost    = "MOVIEREVIEW_DB_HOST"
	EnvDBPort    = "MOVIEREVIEW_DB_PORT"
	EnvDBUser    = "MOVIEREVIEW_DB_USER"
	EnvDBPass    = "MOVIEREVIEW_DB_PASSWORD"
	EnvDBName    = "MOVIEREVIEW_DB_NAME"
	EnvRedisURL  = "MOVIEREVIEW_REDIS_URL"
	EnvUploadDir = "MOVIEREVIEW_UPLOAD_DIR"
	EnvCORS      = "MOVIEREVIEW_CORS_ORIGINS"
	EnvCacheTTL  = "MOVIEREVIEW_CACHE_MOVIE_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
