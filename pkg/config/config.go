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
	PayPal     PayPalConfig
	Storefront StorefrontConfig
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
	Env          string `envconfig:"ADHUNIK_APP_ENV" required:"true"`
	Port         string `envconfig:"ADHUNIK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ADHUNIK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ADHUNIK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ADHUNIK_DB_DSN"`
	Driver string `envconfig:"ADHUNIK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"ADHUNIK_DB_HOST"`
	Port     int    `envconfig:"ADHUNIK_DB_PORT" default:"5432"`
	User     string `envconfig:"ADHUNIK_DB_USER"`
	Password string `envconfig:"ADHUNIK_DB_PASSWORD"`
	Name     string `envconfig:"ADHUNIK_DB_NAME"`
	SSLMode  string `envconfig:"ADHUNIK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ADHUNIK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ADHUNIK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ADHUNIK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ADHUNIK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ADHUNIK_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"ADHUNIK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ADHUNIK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ADHUNIK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ADHUNIK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ADHUNIK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ADHUNIK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ADHUNIK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ADHUNIK_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PayPalConfig struct {
	ClientID string `envconfig:"ADHUNIK_PAYPAL_CLIENT_ID" required:"true"`
	Secret   string `envconfig:"ADHUNIK_PAYPAL_SECRET" required:"true"`
	Env      string `envconfig:"ADHUNIK_PAYPAL_ENV" default:"sandbox"`
}

// Environment returns the normalized PayPal environment (sandbox/live).
func (p PayPalConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(p.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

// StorefrontConfig drives the buyer-side client: where the API lives, where
// the local cart file persists, and the bearer token used on calls.
type StorefrontConfig struct {
	APIBaseURL  string        `envconfig:"ADHUNIK_STOREFRONT_API_URL" default:"http://localhost:8080"`
	CartPath    string        `envconfig:"ADHUNIK_STOREFRONT_CART_PATH"`
	Token       string        `envconfig:"ADHUNIK_STOREFRONT_TOKEN"`
	HTTPTimeout time.Duration `envconfig:"ADHUNIK_STOREFRONT_HTTP_TIMEOUT" default:"30s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ADHUNIK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ADHUNIK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if parts[env] == "" {
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
