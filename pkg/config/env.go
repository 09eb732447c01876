package config

// EnvPrefix is passed to envconfig; every field carries its full variable name.
const EnvPrefix = "LAUNDRY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "LAUNDRY_APP_ENV"
	EnvPort     = "LAUNDRY_APP_PORT"
	EnvLogLevel = "LAUNDRY_LOG_LEVEL"
	EnvTimezone = "LAUNDRY_TIMEZONE"

	EnvDBDSN  = "LAUNDRY_DB_DSN"
	EnvDBHost = "LAUNDRY_DB_HOST"
	EnvDBUser = "LAUNDRY_DB_USER"
	EnvDBName = "LAUNDRY_DB_NAME"

	EnvRedisURL = "LAUNDRY_REDIS_URL"

	EnvJWTSecret              = "LAUNDRY_JWT_SECRET"
	EnvJWTIssuer              = "LAUNDRY_JWT_ISSUER"
	EnvJWTExpMins             = "LAUNDRY_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "LAUNDRY_REFRESH_TOKEN_TTL_MINUTES"

	EnvOIDCClientID   = "LAUNDRY_OIDC_CLIENT_ID"
	EnvCORSOrigins    = "LAUNDRY_CORS_ALLOWED_ORIGINS"
	EnvCronSchedule   = "LAUNDRY_CRON_SCHEDULE"
	EnvIntakeIPLimit  = "LAUNDRY_INTAKE_RATE_LIMIT_IP_LIMIT"
	EnvDefaultUserPwd = "LAUNDRY_DEFAULT_USER_PASSWORD"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
