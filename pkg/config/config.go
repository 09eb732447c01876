package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Intake        IntakeConfig
	OIDC          OIDCConfig
	GoogleMaps    GoogleMapsConfig
	Cron          CronConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LAUNDRY_APP_ENV" required:"true"`
	Port         string `envconfig:"LAUNDRY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LAUNDRY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LAUNDRY_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"LAUNDRY_LOG_FORMAT" default:"json"`
	Timezone     string `envconfig:"LAUNDRY_TIMEZONE" default:"Asia/Jakarta"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves the business timezone used for day boundaries in reports.
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", EnvTimezone, name, err)
	}
	return loc, nil
}

type ServiceConfig struct {
	Kind string `envconfig:"LAUNDRY_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"LAUNDRY_DB_DSN"`
	Driver string `envconfig:"LAUNDRY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LAUNDRY_DB_HOST"`
	LegacyPort     int    `envconfig:"LAUNDRY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LAUNDRY_DB_USER"`
	LegacyPassword string `envconfig:"LAUNDRY_DB_PASSWORD"`
	LegacyName     string `envconfig:"LAUNDRY_DB_NAME"`
	LegacySSLMode  string `envconfig:"LAUNDRY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LAUNDRY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LAUNDRY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LAUNDRY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LAUNDRY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"LAUNDRY_DB_SLOW_QUERY" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LAUNDRY_REDIS_URL"`
	Address      string        `envconfig:"LAUNDRY_REDIS_ADDR"`
	Password     string        `envconfig:"LAUNDRY_REDIS_PASSWORD"`
	DB           int           `envconfig:"LAUNDRY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LAUNDRY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LAUNDRY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LAUNDRY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LAUNDRY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LAUNDRY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"LAUNDRY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LAUNDRY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"LAUNDRY_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"LAUNDRY_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
	CookieSecure           bool   `envconfig:"LAUNDRY_COOKIE_SECURE" default:"true"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int    `envconfig:"LAUNDRY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int    `envconfig:"LAUNDRY_ARGON_TIME" default:"3"`
	ArgonParallelism int    `envconfig:"LAUNDRY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int    `envconfig:"LAUNDRY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int    `envconfig:"LAUNDRY_ARGON_KEY_LEN" default:"32"`
	DefaultPassword  string `envconfig:"LAUNDRY_DEFAULT_USER_PASSWORD" default:"12345678"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"LAUNDRY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"LAUNDRY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"LAUNDRY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// IntakeConfig throttles the public order form.
type IntakeConfig struct {
	Window  time.Duration `envconfig:"LAUNDRY_INTAKE_RATE_LIMIT_WINDOW" default:"10m"`
	IPLimit int           `envconfig:"LAUNDRY_INTAKE_RATE_LIMIT_IP_LIMIT" default:"10"`
}

// OIDCConfig enables Google sign-in for whitelisted staff accounts.
type OIDCConfig struct {
	Issuer   string `envconfig:"LAUNDRY_OIDC_ISSUER" default:"https://accounts.google.com"`
	ClientID string `envconfig:"LAUNDRY_OIDC_CLIENT_ID"`
}

// Enabled reports whether Google sign-in is configured.
func (o OIDCConfig) Enabled() bool {
	return strings.TrimSpace(o.ClientID) != ""
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"LAUNDRY_GOOGLE_MAPS_API_KEY"`
	Region string `envconfig:"LAUNDRY_GOOGLE_MAPS_REGION" default:"ID"`
}

type CronConfig struct {
	Schedule           string        `envconfig:"LAUNDRY_CRON_SCHEDULE" default:"@every 15m"`
	LockTTL            time.Duration `envconfig:"LAUNDRY_CRON_LOCK_TTL" default:"10m"`
	StaleNewAfter      time.Duration `envconfig:"LAUNDRY_CRON_STALE_NEW_AFTER" default:"2h"`
	StaleAssignedAfter time.Duration `envconfig:"LAUNDRY_CRON_STALE_ASSIGNED_AFTER" default:"12h"`
	StaleConfirmAfter  time.Duration `envconfig:"LAUNDRY_CRON_STALE_CONFIRM_AFTER" default:"24h"`
	MetricsAddr        string        `envconfig:"LAUNDRY_CRON_METRICS_ADDR" default:":9102"`
	RunOnStart         bool          `envconfig:"LAUNDRY_CRON_RUN_ON_START" default:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"LAUNDRY_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LAUNDRY_AUTO_MIGRATE" default:"false"`
	Metrics     bool `envconfig:"LAUNDRY_METRICS_ENABLED" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
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
