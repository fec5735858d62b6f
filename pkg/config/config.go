package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "renoquote"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "RENOQUOTE_APP_ENV"
	EnvPort   = "RENOQUOTE_APP_PORT"
	EnvDBDSN  = "RENOQUOTE_DB_DSN"
	EnvDBHost = "RENOQUOTE_DB_HOST"
	EnvDBUser = "RENOQUOTE_DB_USER"
	EnvDBName = "RENOQUOTE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Uploads       UploadsConfig
	Share         ShareConfig
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
	Env          string `envconfig:"RENOQUOTE_APP_ENV" required:"true"`
	Port         string `envconfig:"RENOQUOTE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RENOQUOTE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RENOQUOTE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"RENOQUOTE_DB_DSN"`

	LegacyHost     string `envconfig:"RENOQUOTE_DB_HOST"`
	LegacyPort     int    `envconfig:"RENOQUOTE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RENOQUOTE_DB_USER"`
	LegacyPassword string `envconfig:"RENOQUOTE_DB_PASSWORD"`
	LegacyName     string `envconfig:"RENOQUOTE_DB_NAME"`
	LegacySSLMode  string `envconfig:"RENOQUOTE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RENOQUOTE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RENOQUOTE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RENOQUOTE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RENOQUOTE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RENOQUOTE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RENOQUOTE_REDIS_ADDR"`
	Password     string        `envconfig:"RENOQUOTE_REDIS_PASSWORD"`
	DB           int           `envconfig:"RENOQUOTE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RENOQUOTE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RENOQUOTE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RENOQUOTE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RENOQUOTE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RENOQUOTE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"RENOQUOTE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"RENOQUOTE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"RENOQUOTE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"RENOQUOTE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RENOQUOTE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RENOQUOTE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RENOQUOTE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RENOQUOTE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RENOQUOTE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"RENOQUOTE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"RENOQUOTE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"RENOQUOTE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"RENOQUOTE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"RENOQUOTE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"RENOQUOTE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RENOQUOTE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"RENOQUOTE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"RENOQUOTE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"RENOQUOTE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"RENOQUOTE_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry   time.Duration `envconfig:"RENOQUOTE_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"RENOQUOTE_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
}

type UploadsConfig struct {
	MaxUploadMB   int `envconfig:"RENOQUOTE_MAX_UPLOAD_MB" default:"20"`
	MaxBatchFiles int `envconfig:"RENOQUOTE_MAX_BATCH_FILES" default:"20"`
}

type ShareConfig struct {
	LinkTTL time.Duration `envconfig:"RENOQUOTE_SHARE_LINK_TTL" default:"720h"`
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
