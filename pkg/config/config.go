package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cache        CacheConfig
	CORS         CORSConfig
	Media        MediaConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MOVIEREVIEW_APP_ENV" required:"true"`
	Port         string `envconfig:"MOVIEREVIEW_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"MOVIEREVIEW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MOVIEREVIEW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

type DBConfig struct {
	DSN    string `envconfig:"MOVIEREVIEW_DB_DSN"`
	Driver string `envconfig:"MOVIEREVIEW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MOVIEREVIEW_DB_HOST"`
	LegacyPort     int    `envconfig:"MOVIEREVIEW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MOVIEREVIEW_DB_USER"`
	LegacyPassword string `envconfig:"MOVIEREVIEW_DB_PASSWORD"`
	LegacyName     string `envconfig:"MOVIEREVIEW_DB_NAME"`
	LegacySSLMode  string `envconfig:"MOVIEREVIEW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MOVIEREVIEW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MOVIEREVIEW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MOVIEREVIEW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MOVIEREVIEW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite one.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

// RedisConfig is optional: with neither URL nor address set the API runs without a cache.
type RedisConfig struct {
	URL          string        `envconfig:"MOVIEREVIEW_REDIS_URL"`
	Address      string        `envconfig:"MOVIEREVIEW_REDIS_ADDR"`
	Password     string        `envconfig:"MOVIEREVIEW_REDIS_PASSWORD"`
	DB           int           `envconfig:"MOVIEREVIEW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MOVIEREVIEW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MOVIEREVIEW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MOVIEREVIEW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MOVIEREVIEW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MOVIEREVIEW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// CacheConfig tunes the movie row cache. LocalFallback opts into an in-process cache when redis is absent;
// it is only safe with a single API replica.
type CacheConfig struct {
	MovieTTL      time.Duration `envconfig:"MOVIEREVIEW_CACHE_MOVIE_TTL" default:"15m"`
	LocalFallback bool          `envconfig:"MOVIEREVIEW_CACHE_LOCAL_FALLBACK" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MOVIEREVIEW_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

type MediaConfig struct {
	UploadDir   string `envconfig:"MOVIEREVIEW_UPLOAD_DIR" default:"uploads"`
	PublicPath  string `envconfig:"MOVIEREVIEW_UPLOAD_PUBLIC_PATH" default:"/uploads"`
	MaxUploadMB int    `envconfig:"MOVIEREVIEW_MAX_UPLOAD_MB" default:"10"`
}

// MaxUploadBytes converts the configured megabyte limit to bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 0
	}
	return int64(m.MaxUploadMB) << 20
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MOVIEREVIEW_AUTO_MIGRATE" default:"false"`
	Metrics     bool `envconfig:"MOVIEREVIEW_METRICS_ENABLED" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DriverSQLite)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
