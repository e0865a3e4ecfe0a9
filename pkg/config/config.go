package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	GCP        GCPConfig
	PubSub     PubSubConfig
	Outbox     OutboxConfig
	Settlement SettlementConfig
	Features   FeatureFlagsConfig
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
	Env          string `envconfig:"PROCUREHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"PROCUREHUB_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PROCUREHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PROCUREHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PROCUREHUB_DB_DSN"`
	Driver string `envconfig:"PROCUREHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PROCUREHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"PROCUREHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PROCUREHUB_DB_USER"`
	LegacyPassword string `envconfig:"PROCUREHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"PROCUREHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"PROCUREHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PROCUREHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PROCUREHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PROCUREHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PROCUREHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("database DSN or host/user/name settings are required")
	}
	userInfo := url.User(d.LegacyUser)
	if d.LegacyPassword != "" {
		userInfo = url.UserPassword(d.LegacyUser, d.LegacyPassword)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:     d.LegacyName,
		RawQuery: url.Values{"sslmode": []string{d.LegacySSLMode}}.Encode(),
	}
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"PROCUREHUB_REDIS_URL"`
	Address      string        `envconfig:"PROCUREHUB_REDIS_ADDR"`
	Password     string        `envconfig:"PROCUREHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"PROCUREHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PROCUREHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PROCUREHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PROCUREHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PROCUREHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PROCUREHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PROCUREHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PROCUREHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PROCUREHUB_JWT_EXPIRATION_MINUTES" default:"60"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"PROCUREHUB_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	DomainTopic string `envconfig:"PROCUREHUB_PUBSUB_DOMAIN_TOPIC" default:"procurement-events"`
}

type OutboxConfig struct {
	BatchSize    int           `envconfig:"PROCUREHUB_OUTBOX_BATCH_SIZE" default:"50"`
	PollInterval time.Duration `envconfig:"PROCUREHUB_OUTBOX_POLL_INTERVAL" default:"500ms"`
	MaxAttempts  int           `envconfig:"PROCUREHUB_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type SettlementConfig struct {
	// Transactional selects the atomic unit-of-work for settlements. Turn
	// off only on backing stores without multi-statement transactions;
	// settlements then run the same steps sequentially, best effort.
	Transactional bool `envconfig:"PROCUREHUB_SETTLEMENT_TRANSACTIONAL" default:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PROCUREHUB_AUTO_MIGRATE" default:"false"`
}
