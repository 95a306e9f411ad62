package config

const EnvPrefix = "TIMBERMILL"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	UploadsBackendLocal = "local"
	UploadsBackendGCS   = "gcs"
)

const (
	EnvAppEnv   = "TIMBERMILL_APP_ENV"
	EnvPort     = "TIMBERMILL_APP_PORT"
	EnvLogLevel = "TIMBERMILL_LOG_LEVEL"

	EnvDBDSN    = "TIMBERMILL_DB_DSN"
	EnvDBDriver = "TIMBERMILL_DB_DRIVER"
	EnvDBHost   = "TIMBERMILL_DB_HOST"
	EnvDBUser   = "TIMBERMILL_DB_USER"
	EnvDBName   = "TIMBERMILL_DB_NAME"

	EnvRedisURL = "TIMBERMILL_REDIS_URL"

	EnvJWTSecret = "TIMBERMILL_JWT_SECRET"
	EnvJWTIssuer = "TIMBERMILL_JWT_ISSUER"

	EnvCORSAllowedOrigins = "TIMBERMILL_CORS_ALLOWED_ORIGINS"

	EnvUploadsBackend = "TIMBERMILL_UPLOADS_BACKEND"
	EnvUploadsDir     = "TIMBERMILL_UPLOADS_DIR"
	EnvMaxUploadMB    = "TIMBERMILL_MAX_UPLOAD_MB"
	EnvGCSBucket      = "TIMBERMILL_GCS_BUCKET_NAME"

	EnvCronInterval          = "TIMBERMILL_CRON_INTERVAL"
	EnvCronOrphanGracePeriod = "TIMBERMILL_CRON_ORPHAN_GRACE_PERIOD"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
