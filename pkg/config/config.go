package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "SHOPLEDGER"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv      = "SHOPLEDGER_APP_ENV"
	EnvPort        = "SHOPLEDGER_APP_PORT"
	EnvDBDSN       = "SHOPLEDGER_DB_DSN"
	EnvDBHost      = "SHOPLEDGER_DB_HOST"
	EnvDBUser      = "SHOPLEDGER_DB_USER"
	EnvDBName      = "SHOPLEDGER_DB_NAME"
	EnvRedisURL    = "SHOPLEDGER_REDIS_URL"
	EnvTablePrefix = "SHOPLEDGER_TABLE_PREFIX"
	EnvTaxAccount  = "SHOPLEDGER_ECONOMY_TAX_ACCOUNT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Schema       SchemaConfig
	Economy      EconomyConfig
	Retention    RetentionConfig
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
	if err := cfg.Economy.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPLEDGER_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPLEDGER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPLEDGER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPLEDGER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SHOPLEDGER_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPLEDGER_DB_DSN"`
	Driver string `envconfig:"SHOPLEDGER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPLEDGER_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPLEDGER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPLEDGER_DB_USER"`
	LegacyPassword string `envconfig:"SHOPLEDGER_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPLEDGER_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPLEDGER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPLEDGER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPLEDGER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPLEDGER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPLEDGER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPLEDGER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPLEDGER_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPLEDGER_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPLEDGER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPLEDGER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPLEDGER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPLEDGER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPLEDGER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPLEDGER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SchemaConfig controls how logical table names map onto the physical store.
type SchemaConfig struct {
	TablePrefix string `envconfig:"SHOPLEDGER_TABLE_PREFIX" default:"sl_"`
}

// EconomyConfig holds the money-movement policy knobs.
type EconomyConfig struct {
	TaxRate         string `envconfig:"SHOPLEDGER_ECONOMY_TAX_RATE" default:"0"`
	TaxAccount      string `envconfig:"SHOPLEDGER_ECONOMY_TAX_ACCOUNT"`
	DefaultCurrency string `envconfig:"SHOPLEDGER_ECONOMY_DEFAULT_CURRENCY" default:""`
}

// TaxRateDecimal returns the configured tax rate as a decimal fraction (0.05 = 5%).
func (e EconomyConfig) TaxRateDecimal() decimal.Decimal {
	rate, err := decimal.NewFromString(e.TaxRate)
	if err != nil {
		return decimal.Zero
	}
	return rate
}

func (e EconomyConfig) validate() error {
	rate, err := decimal.NewFromString(e.TaxRate)
	if err != nil {
		return fmt.Errorf("invalid tax rate %q: %w", e.TaxRate, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate %q must be within [0, 1]", e.TaxRate)
	}
	return nil
}

// RetentionConfig controls how long audit log rows are kept before the
// scheduled purge removes them.
type RetentionConfig struct {
	LogLifetimeDays int `envconfig:"SHOPLEDGER_LOG_LIFETIME_DAYS" default:"180"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOPLEDGER_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOPLEDGER_AUTO_MIGRATE" default:"false"`
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
