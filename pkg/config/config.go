package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every SolarGrade environment variable.
	EnvPrefix = "SOLARGRADE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SOLARGRADE_DB_DSN"
	EnvDBHost = "SOLARGRADE_DB_HOST"
	EnvDBUser = "SOLARGRADE_DB_USER"
	EnvDBName = "SOLARGRADE_DB_NAME"
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
	Attachments   AttachmentsConfig
	PubSub        PubSubConfig
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
	Env          string `envconfig:"SOLARGRADE_APP_ENV" required:"true"`
	Port         string `envconfig:"SOLARGRADE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SOLARGRADE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOLARGRADE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SOLARGRADE_DB_DSN"`
	Driver string `envconfig:"SOLARGRADE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SOLARGRADE_DB_HOST"`
	LegacyPort     int    `envconfig:"SOLARGRADE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SOLARGRADE_DB_USER"`
	LegacyPassword string `envconfig:"SOLARGRADE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SOLARGRADE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SOLARGRADE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOLARGRADE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOLARGRADE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOLARGRADE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOLARGRADE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SOLARGRADE_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"SOLARGRADE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOLARGRADE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOLARGRADE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOLARGRADE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOLARGRADE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SOLARGRADE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SOLARGRADE_JWT_ISSUER" default:"solargrade"`
	ExpirationMinutes      int    `envconfig:"SOLARGRADE_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"SOLARGRADE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SOLARGRADE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SOLARGRADE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SOLARGRADE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SOLARGRADE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SOLARGRADE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SOLARGRADE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SOLARGRADE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SOLARGRADE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SOLARGRADE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SOLARGRADE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SOLARGRADE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SOLARGRADE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SOLARGRADE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SOLARGRADE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SOLARGRADE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"SOLARGRADE_GCS_BUCKET_NAME"`
	UploadURLExpiry   time.Duration `envconfig:"SOLARGRADE_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"SOLARGRADE_GCS_DOWNLOAD_URL_EXPIRY" default:"15m"`
}

type AttachmentsConfig struct {
	MaxUploadMB int `envconfig:"SOLARGRADE_ATTACHMENT_MAX_UPLOAD_MB" default:"5"`
}

// MaxUploadBytes returns the attachment size ceiling in bytes.
func (a AttachmentsConfig) MaxUploadBytes() int64 {
	return int64(a.MaxUploadMB) * 1024 * 1024
}

type PubSubConfig struct {
	Enabled         bool   `envconfig:"SOLARGRADE_PUBSUB_ENABLED" default:"false"`
	ModerationTopic string `envconfig:"SOLARGRADE_PUBSUB_MODERATION_TOPIC" default:"sg-moderation-events"`
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
