package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env      string `env:"APP_ENV" env-default:"local"`
	HTTP     HTTPConfig
	Auth     AuthConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	CORS     CORSConfig
}

type HTTPConfig struct {
	Addr         string        `env:"HTTP_ADDR" env-default:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET"`
	AllowSignup      string        `env:"ALLOW_SIGNUP" env-default:"true"`
	AdminUsername    string        `env:"ADMIN_USERNAME"`
	AdminPassword    string        `env:"ADMIN_PASSWORD"`
	CookieDomain     string        `env:"AUTH_COOKIE_DOMAIN"`
	CookiePath       string        `env:"AUTH_COOKIE_PATH" env-default:"/"`
	CookieSecure     string        `env:"AUTH_COOKIE_SECURE"`
	CookieSameSite   string        `env:"AUTH_COOKIE_SAMESITE"`
	LockoutThreshold int           `env:"AUTH_LOCKOUT_THRESHOLD" env-default:"5"`
	LockoutWindow    time.Duration `env:"AUTH_LOCKOUT_WINDOW" env-default:"15m"`
}

type PostgresConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`
	Host        string `env:"PGHOST" env-default:"localhost"`
	Port        string `env:"PGPORT" env-default:"5432"`
	User        string `env:"PGUSER"`
	Password    string `env:"PGPASSWORD"`
	Database    string `env:"PGDATABASE"`
	SSLMode     string `env:"PGSSLMODE" env-default:"disable"`
}

// RedisConfig is optional. An empty URL disables login lockout.
type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" env-separator:","`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read env config: %w", err)
	}

	switch cfg.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV: %q", cfg.Env)
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == EnvProd
}
