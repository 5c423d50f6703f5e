package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/labdesk/workbench/internal/logger"
	"github.com/labdesk/workbench/internal/postgres"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultPath = "./config/config.yaml"

type HTTP struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	IdleTimeout    time.Duration `yaml:"idleTimeout"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	CORSOrigins    []string      `yaml:"corsOrigins"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|stage|prod
	Service   string `yaml:"service"`   // workbench
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap, empty: by env
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Postgres struct {
	DSN               string        `yaml:"dsn"`
	MaxConns          int32         `yaml:"maxConns"`
	MinConns          int32         `yaml:"minConns"`
	MaxConnLifetime   time.Duration `yaml:"maxConnLifetime"`
	MaxConnIdleTime   time.Duration `yaml:"maxConnIdleTime"`
	HealthCheckPeriod time.Duration `yaml:"healthCheckPeriod"`
	ApplicationName   string        `yaml:"applicationName"`
}

func (p Postgres) ToPGConfig() postgres.Config {
	return postgres.Config{
		DSN:               p.DSN,
		MaxConns:          p.MaxConns,
		MinConns:          p.MinConns,
		MaxConnLifetime:   p.MaxConnLifetime,
		MaxConnIdleTime:   p.MaxConnIdleTime,
		HealthCheckPeriod: p.HealthCheckPeriod,
		ApplicationName:   p.ApplicationName,
	}
}

type Auth struct {
	JWTSecret string `yaml:"jwtSecret"` // HS256, shared with the account service
	Issuer    string `yaml:"issuer"`    // optional
}

type Memos struct {
	Timezone string `yaml:"timezone"` // export timestamps, e.g. Asia/Tokyo
}

type Config struct {
	HTTP            HTTP          `yaml:"http"`
	Postgres        Postgres      `yaml:"postgres"`
	Auth            Auth          `yaml:"auth"`
	Logging         Logging       `yaml:"logging"`
	Memos           Memos         `yaml:"memos"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// LoadConfig reads .env (if present), then the YAML file from CONFIG_PATH.
// POSTGRES_DSN and AUTH_JWT_SECRET override the file so secrets can stay out of it;
// APP_ENV overrides logging.env.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if os.Getenv("APP_ENV") != "" {
		cfg.Logging.Env = string(logger.DetectEnv())
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves memos.timezone; empty means local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Memos.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Memos.Timezone)
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return errors.New("auth.jwtSecret must be at least 32 bytes")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("memos.timezone: %w", err)
	}

	// defaults
	c.HTTP.ReadTimeout = durationOr(c.HTTP.ReadTimeout, 10*time.Second)
	c.HTTP.WriteTimeout = durationOr(c.HTTP.WriteTimeout, 15*time.Second)
	c.HTTP.IdleTimeout = durationOr(c.HTTP.IdleTimeout, 60*time.Second)
	c.HTTP.RequestTimeout = durationOr(c.HTTP.RequestTimeout, 30*time.Second)
	c.ShutdownTimeout = durationOr(c.ShutdownTimeout, 10*time.Second)
	if c.Logging.Service == "" {
		c.Logging.Service = "workbench"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = string(logger.DetectEnv())
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Postgres.ApplicationName == "" {
		c.Postgres.ApplicationName = c.Logging.Service
	}
	return nil
}

func durationOr(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
