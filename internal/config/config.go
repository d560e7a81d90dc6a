package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppPort string `env:"PORT" envDefault:"3000"`

	DBHost     string `env:"DB_HOST,required,notEmpty"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER,required,notEmpty"`
	DBPassword string `env:"DB_PASSWORD,required,notEmpty"`
	DBName     string `env:"DB_DATABASE,required,notEmpty"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID,required,notEmpty"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET,required,notEmpty"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL,required,notEmpty"`

	SessionSecret string `env:"SESSION_SECRET,required,notEmpty"`
	JWTSecret     string `env:"JWT_SECRET,required,notEmpty"`

	FrontendURL string `env:"FRONTEND_URL,required,notEmpty"`

	RedisAddr     string `env:"REDIS_ADDR,required,notEmpty"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	QueryTimeout    time.Duration `env:"QUERY_TIMEOUT" envDefault:"5s"`
	ExchangeTimeout time.Duration `env:"EXCHANGE_TIMEOUT" envDefault:"10s"`
}

// Load reads configuration from the environment. Every secret and
// endpoint is required: running with an undefined signing secret would
// make every issued token unverifiable, so startup fails instead.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// DatabaseDSN assembles the postgres connection string from the
// individual DB_* variables.
func (c Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}
