package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// defaultCORSOrigins are always allowed so the PWA works against a local API.
var defaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://localhost:5000",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5000",
}

// Config holds all runtime configuration values.  It is read once at startup
// and passed by value to every component that needs it; nothing in the
// application reads the environment after Load returns.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"dev"`      // application environment (dev, prod)
	Port     string `env:"APP_PORT" envDefault:"8000"`    // HTTP port to listen on
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`   // debug, info, warn, error

	DBUser string `env:"DB_USER" envDefault:"root"`
	DBPass string `env:"DB_PASS"`
	DBHost string `env:"DB_HOST" envDefault:"localhost"`
	DBPort string `env:"DB_PORT" envDefault:"3306"`
	DBName string `env:"DB_NAME" envDefault:"joyas"`

	JWTSecret          string `env:"JWT_SECRET,required"`
	JWTAlgorithm       string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	JWTExpirationHours int    `env:"JWT_EXPIRATION_HOURS" envDefault:"24"`
	BcryptCost         int    `env:"BCRYPT_COST" envDefault:"12"`

	// CORSOrigins is the extra comma separated list from CORS_ORIGINS.  Use
	// AllowedOrigins for the effective list.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// ProfitRate is the share of total sales counted as profit (ganancia).
	ProfitRate decimal.Decimal `env:"PROFIT_RATE" envDefault:"0.40"`

	UploadDir      string `env:"UPLOAD_DIR" envDefault:"uploads/images"`
	UploadMaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`

	RabbitURL   string `env:"RABBITMQ_URL"`
	EventsQueue string `env:"EVENTS_QUEUE" envDefault:"ledger.events"`

	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// Load reads an optional .env file and then the process environment.  Values
// already present in the environment win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.RateLimit.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be blank"))
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q not supported", c.JWTAlgorithm))
	}
	if c.JWTExpirationHours <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_HOURS must be positive"))
	}
	if c.ProfitRate.IsNegative() || c.ProfitRate.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, errors.New("PROFIT_RATE must be between 0 and 1"))
	}
	if c.UploadMaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

// TokenTTL is the default lifetime of issued access tokens.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpirationHours) * time.Hour
}

// AllowedOrigins merges the built-in origins with CORS_ORIGINS, dropping
// blanks and duplicates while keeping the first occurrence order.
func (c Config) AllowedOrigins() []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(defaultCORSOrigins)+len(c.CORSOrigins))
	for _, o := range append(append([]string{}, defaultCORSOrigins...), c.CORSOrigins...) {
		o = strings.TrimSpace(o)
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}
