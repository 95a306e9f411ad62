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
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
	Uploads      UploadsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Uploads.validate(cfg.GCS); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TIMBERMILL_APP_ENV" required:"true"`
	Port         string `envconfig:"TIMBERMILL_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"TIMBERMILL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TIMBERMILL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TIMBERMILL_DB_DSN"`
	Driver string `envconfig:"TIMBERMILL_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"TIMBERMILL_DB_HOST"`
	Port     int    `envconfig:"TIMBERMILL_DB_PORT" default:"5432"`
	User     string `envconfig:"TIMBERMILL_DB_USER"`
	Password string `envconfig:"TIMBERMILL_DB_PASSWORD"`
	Name     string `envconfig:"TIMBERMILL_DB_NAME"`
	SSLMode  string `envconfig:"TIMBERMILL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TIMBERMILL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TIMBERMILL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TIMBERMILL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TIMBERMILL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver is selected. The DSN is then a file path.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

// RedisConfig is optional; an empty URL and address disables idempotency replay
// and the cron lock falls back to a process-local lock.
type RedisConfig struct {
	URL          string        `envconfig:"TIMBERMILL_REDIS_URL"`
	Address      string        `envconfig:"TIMBERMILL_REDIS_ADDR"`
	Password     string        `envconfig:"TIMBERMILL_REDIS_PASSWORD"`
	DB           int           `envconfig:"TIMBERMILL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TIMBERMILL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TIMBERMILL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TIMBERMILL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TIMBERMILL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TIMBERMILL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret string `envconfig:"TIMBERMILL_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"TIMBERMILL_JWT_ISSUER" default:"timbermill"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TIMBERMILL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TIMBERMILL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TIMBERMILL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TIMBERMILL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TIMBERMILL_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TIMBERMILL_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"TIMBERMILL_CORS_ALLOWED_ORIGINS" default:"*"`
}

type UploadsConfig struct {
	Backend     string `envconfig:"TIMBERMILL_UPLOADS_BACKEND" default:"local"`
	Dir         string `envconfig:"TIMBERMILL_UPLOADS_DIR" default:"uploads"`
	MaxUploadMB int    `envconfig:"TIMBERMILL_MAX_UPLOAD_MB" default:"10"`
}

// MaxUploadBytes returns the multipart body limit.
func (u UploadsConfig) MaxUploadBytes() int64 {
	if u.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(u.MaxUploadMB) << 20
}

func (u UploadsConfig) UsesGCS() bool {
	return strings.EqualFold(strings.TrimSpace(u.Backend), UploadsBackendGCS)
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TIMBERMILL_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"TIMBERMILL_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TIMBERMILL_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName    string `envconfig:"TIMBERMILL_GCS_BUCKET_NAME"`
	PublicBaseURL string `envconfig:"TIMBERMILL_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
	ObjectPrefix  string `envconfig:"TIMBERMILL_GCS_OBJECT_PREFIX" default:"uploads"`
}

type CronConfig struct {
	Interval          time.Duration `envconfig:"TIMBERMILL_CRON_INTERVAL" default:"24h"`
	OrphanGracePeriod time.Duration `envconfig:"TIMBERMILL_CRON_ORPHAN_GRACE_PERIOD" default:"24h"`
}

func (u UploadsConfig) validate(gcs GCSConfig) error {
	switch strings.ToLower(strings.TrimSpace(u.Backend)) {
	case UploadsBackendLocal:
		if strings.TrimSpace(u.Dir) == "" {
			return fmt.Errorf("%s is required for the local uploads backend", EnvUploadsDir)
		}
		return nil
	case UploadsBackendGCS:
		if strings.TrimSpace(gcs.BucketName) == "" {
			return fmt.Errorf("%s is required for the gcs uploads backend", EnvGCSBucket)
		}
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvUploadsBackend, u.Backend)
	}
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
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
