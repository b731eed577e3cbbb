package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by every section.
const EnvPrefix = "SUNILFAB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SUNILFAB_DB_DSN"
	EnvDBHost = "SUNILFAB_DB_HOST"
	EnvDBUser = "SUNILFAB_DB_USER"
	EnvDBName = "SUNILFAB_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GoogleMaps    GoogleMapsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	Pricing       PricingConfig
	WhatsApp      WhatsAppConfig
	Cron          CronConfig
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
	Env          string `envconfig:"SUNILFAB_APP_ENV" required:"true"`
	Port         string `envconfig:"SUNILFAB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SUNILFAB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SUNILFAB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SUNILFAB_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SUNILFAB_DB_DSN"`
	Driver string `envconfig:"SUNILFAB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SUNILFAB_DB_HOST"`
	LegacyPort     int    `envconfig:"SUNILFAB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SUNILFAB_DB_USER"`
	LegacyPassword string `envconfig:"SUNILFAB_DB_PASSWORD"`
	LegacyName     string `envconfig:"SUNILFAB_DB_NAME"`
	LegacySSLMode  string `envconfig:"SUNILFAB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SUNILFAB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SUNILFAB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SUNILFAB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SUNILFAB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SUNILFAB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SUNILFAB_REDIS_ADDR"`
	Password     string        `envconfig:"SUNILFAB_REDIS_PASSWORD"`
	DB           int           `envconfig:"SUNILFAB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SUNILFAB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SUNILFAB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SUNILFAB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SUNILFAB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SUNILFAB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SUNILFAB_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SUNILFAB_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SUNILFAB_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SUNILFAB_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SUNILFAB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SUNILFAB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SUNILFAB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SUNILFAB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SUNILFAB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"SUNILFAB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"SUNILFAB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"SUNILFAB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SubmitWindow    time.Duration `envconfig:"SUNILFAB_AUTH_RATE_LIMIT_SUBMIT_WINDOW" default:"5m"`
	SubmitIPLimit   int           `envconfig:"SUNILFAB_AUTH_RATE_LIMIT_SUBMIT_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite     bool   `envconfig:"SUNILFAB_USE_SQLITE" default:"false"`
	AutoMigrate   bool   `envconfig:"SUNILFAB_AUTO_MIGRATE" default:"false"`
	GCSAccessMode string `envconfig:"SUNILFAB_GCS_ACCESS_MODE" default:"public"`
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"SUNILFAB_GOOGLE_MAPS_API_KEY"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SUNILFAB_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"SUNILFAB_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SUNILFAB_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"SUNILFAB_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry   time.Duration `envconfig:"SUNILFAB_GCS_UPLOAD_URL_EXPIRY" required:"true"`
	DownloadURLExpiry time.Duration `envconfig:"SUNILFAB_GCS_DOWNLOAD_URL_EXPIRY" required:"true"`
}

type MediaConfig struct {
	MaxUploadMB    int `envconfig:"SUNILFAB_MAX_UPLOAD_MB" default:"25"`
	ImageMaxWidth  int `envconfig:"SUNILFAB_MEDIA_IMAGE_MAX_WIDTH" default:"1920"`
	ImageMaxHeight int `envconfig:"SUNILFAB_MEDIA_IMAGE_MAX_HEIGHT" default:"1080"`
	ImageQuality   int `envconfig:"SUNILFAB_MEDIA_IMAGE_QUALITY" default:"80"`

	PendingTTL time.Duration `envconfig:"SUNILFAB_MEDIA_PENDING_TTL" default:"24h"`
}

type PricingConfig struct {
	// DefaultRate is the fallback rate per square foot applied when a
	// pricing row has no base rate configured.
	DefaultRate string `envconfig:"SUNILFAB_PRICING_DEFAULT_RATE" default:"650"`
}

type WhatsAppConfig struct {
	// OwnerNumber receives visit-log summaries, E.164 with leading plus.
	OwnerNumber  string `envconfig:"SUNILFAB_WHATSAPP_OWNER_NUMBER" default:"+919100248598"`
	BusinessName string `envconfig:"SUNILFAB_WHATSAPP_BUSINESS_NAME" default:"SUNIL FABRICATIONS"`
}

type CronConfig struct {
	MediaCleanupInterval time.Duration `envconfig:"SUNILFAB_CRON_MEDIA_CLEANUP_INTERVAL" default:"1h"`
	LockTTL              time.Duration `envconfig:"SUNILFAB_CRON_LOCK_TTL" default:"10m"`
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
