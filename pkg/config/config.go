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
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"STUDIOOPS_APP_ENV" required:"true"`
	Port         string `envconfig:"STUDIOOPS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STUDIOOPS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STUDIOOPS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STUDIOOPS_DB_DSN"`
	Driver string `envconfig:"STUDIOOPS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STUDIOOPS_DB_HOST"`
	LegacyPort     int    `envconfig:"STUDIOOPS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STUDIOOPS_DB_USER"`
	LegacyPassword string `envconfig:"STUDIOOPS_DB_PASSWORD"`
	LegacyName     string `envconfig:"STUDIOOPS_DB_NAME"`
	LegacySSLMode  string `envconfig:"STUDIOOPS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STUDIOOPS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STUDIOOPS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STUDIOOPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STUDIOOPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STUDIOOPS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STUDIOOPS_REDIS_ADDR"`
	Password     string        `envconfig:"STUDIOOPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"STUDIOOPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STUDIOOPS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STUDIOOPS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STUDIOOPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STUDIOOPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STUDIOOPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig describes the token contract with the studio identity service.
// Production tokens are minted there; this service verifies them.
type JWTConfig struct {
	Secret            string `envconfig:"STUDIOOPS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STUDIOOPS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"STUDIOOPS_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STUDIOOPS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STUDIOOPS_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"STUDIOOPS_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"STUDIOOPS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"STUDIOOPS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DeploymentTopic        string `envconfig:"STUDIOOPS_PUBSUB_DEPLOYMENT_TOPIC" default:"so-deployment-events"`
	DeploymentSubscription string `envconfig:"STUDIOOPS_PUBSUB_DEPLOYMENT_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"STUDIOOPS_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"STUDIOOPS_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"STUDIOOPS_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
