package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// MinSecretLength is the shortest JWT_SECRET any service accepts.
const MinSecretLength = 16

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Shared holds the settings every service reads. JWT_SECRET is the single
// trust root; it is injected here and nowhere else.
type Shared struct {
	Env         string `env:"ENV" env-default:"local"`
	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`
	JWTSecret   string `env:"JWT_SECRET" env-required:"true"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" env-default:"true"`

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	LogJSON  bool   `env:"LOG_JSON" env-default:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	APIRateLimit  int           `env:"API_RATE_LIMIT" env-default:"120"`
	APIRateWindow time.Duration `env:"API_RATE_WINDOW" env-default:"1m"`

	AllowedOrigin string `env:"ALLOWED_ORIGIN"`

	// Base URLs of the other services whose secret fingerprint must match ours.
	SecretPeers     []string      `env:"SECRET_PEERS" env-separator:","`
	SecretCheckWait time.Duration `env:"SECRET_CHECK_WAIT" env-default:"30s"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type UserService struct {
	Shared
	AppPort        string        `env:"APP_PORT" env-default:"4000"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" env-default:"1h"`
	BcryptCost     int           `env:"BCRYPT_COST" env-default:"10"`
	AuthRateLimit  int           `env:"AUTH_RATE_LIMIT" env-default:"5"`
	AuthRateWindow time.Duration `env:"AUTH_RATE_WINDOW" env-default:"1m"`
}

type TaskService struct {
	Shared
	AppPort string `env:"APP_PORT" env-default:"5000"`
}

type DeadlineService struct {
	Shared
	AppPort          string        `env:"APP_PORT" env-default:"6001"`
	TaskServiceURL   string        `env:"TASK_SERVICE_URL" env-default:"http://localhost:5000"`
	OwnershipTimeout time.Duration `env:"OWNERSHIP_CHECK_TIMEOUT" env-default:"3s"`
	WriteRateLimit   int           `env:"DEADLINE_WRITE_RATE_LIMIT" env-default:"30"`
	WriteRateWindow  time.Duration `env:"DEADLINE_WRITE_RATE_WINDOW" env-default:"1m"`
}

// LoadUserService reads the identity provider configuration from env.
func LoadUserService() (*UserService, error) {
	cfg := new(UserService)
	if err := load(cfg, &cfg.Shared); err != nil {
		return nil, err
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("TOKEN_TTL must be positive")
	}
	return cfg, nil
}

// LoadTaskService reads the task store configuration from env.
func LoadTaskService() (*TaskService, error) {
	cfg := new(TaskService)
	if err := load(cfg, &cfg.Shared); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDeadlineService reads the deadline store configuration from env.
func LoadDeadlineService() (*DeadlineService, error) {
	cfg := new(DeadlineService)
	if err := load(cfg, &cfg.Shared); err != nil {
		return nil, err
	}
	cfg.TaskServiceURL = strings.TrimRight(cfg.TaskServiceURL, "/")
	if cfg.TaskServiceURL == "" {
		return nil, errors.New("TASK_SERVICE_URL is not set")
	}
	if cfg.OwnershipTimeout <= 0 {
		return nil, errors.New("OWNERSHIP_CHECK_TIMEOUT must be positive")
	}
	return cfg, nil
}

func load(cfg any, shared *Shared) error {
	_ = godotenv.Load()

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read env: %w", err)
	}
	return shared.validate()
}

func (s *Shared) validate() error {
	if len(s.JWTSecret) < MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", MinSecretLength)
	}

	peers := s.SecretPeers[:0]
	for _, p := range s.SecretPeers {
		if p = strings.TrimRight(strings.TrimSpace(p), "/"); p != "" {
			peers = append(peers, p)
		}
	}
	s.SecretPeers = peers
	return nil
}
