package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	UploadLocal = "local"
	UploadMinIO = "minio"

	devSecret = "formbuilder-dev-secret-change-me"
)

type MinIO struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"useSSL"`
}

type Config struct {
	HTTPAddr          string        `yaml:"httpAddr"`
	MongoURI          string        `yaml:"mongoURI"`
	MongoDatabase     string        `yaml:"mongoDatabase"`
	PoolSize          int           `yaml:"poolSize"`
	Store             string        `yaml:"store"`
	JWTSecret         string        `yaml:"jwtSecret"`
	TokenTTL          time.Duration `yaml:"tokenTTL"`
	UploadDriver      string        `yaml:"uploadDriver"`
	UploadDir         string        `yaml:"uploadDir"`
	MinIO             MinIO         `yaml:"minio"`
	MaxUploadBytes    int64         `yaml:"maxUploadBytes"`
	CORSOrigins       []string      `yaml:"corsOrigins"`
	AllowRegistration bool          `yaml:"allowRegistration"`
	GelfAddr          string        `yaml:"gelfAddr"`
	LogLevel          string        `yaml:"logLevel"`
}

func defaults() *Config {
	return &Config{
		HTTPAddr:       ":5000",
		MongoURI:       "mongodb://127.0.0.1:27017",
		MongoDatabase:  "formbuilder",
		PoolSize:       10,
		Store:          StoreMongo,
		JWTSecret:      devSecret,
		TokenTTL:       7 * 24 * time.Hour,
		UploadDriver:   UploadLocal,
		UploadDir:      "uploads",
		MinIO:          MinIO{Bucket: "formbuilder-uploads"},
		MaxUploadBytes: 50 << 20,
		CORSOrigins:    []string{"*"},
		LogLevel:       "info",
	}
}

// Load builds the configuration from defaults, then the YAML file at path (if any),
// then a .env file in the working directory, then the environment.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: .env: %w", err)
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.HTTPAddr = ":" + port
	}
	cfg.HTTPAddr = getEnv("FORMS_ADDR", cfg.HTTPAddr)
	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDatabase = getEnv("MONGO_DB", cfg.MongoDatabase)
	cfg.PoolSize = getEnvInt("FORMS_POOL_SIZE", cfg.PoolSize)
	cfg.Store = getEnv("FORMS_STORE", cfg.Store)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.TokenTTL = getEnvDuration("FORMS_TOKEN_TTL", cfg.TokenTTL)
	cfg.UploadDriver = getEnv("FORMS_UPLOAD_DRIVER", cfg.UploadDriver)
	cfg.UploadDir = getEnv("FORMS_UPLOAD_DIR", cfg.UploadDir)
	cfg.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", cfg.MinIO.Endpoint)
	cfg.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", cfg.MinIO.AccessKey)
	cfg.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", cfg.MinIO.SecretKey)
	cfg.MinIO.Bucket = getEnv("MINIO_BUCKET", cfg.MinIO.Bucket)
	cfg.MinIO.UseSSL = getEnvBool("MINIO_USE_SSL", cfg.MinIO.UseSSL)
	cfg.MaxUploadBytes = int64(getEnvInt("FORMS_MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes)))
	if v := os.Getenv("FORMS_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	cfg.AllowRegistration = getEnvBool("FORMS_ALLOW_REGISTRATION", cfg.AllowRegistration)
	cfg.GelfAddr = getEnv("GELF_ADDR", cfg.GelfAddr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("config: unknown store %q", c.Store)
	}
	switch c.UploadDriver {
	case UploadLocal:
		if c.UploadDir == "" {
			return errors.New("config: uploadDir is required for the local upload driver")
		}
	case UploadMinIO:
		if c.MinIO.Endpoint == "" || c.MinIO.Bucket == "" {
			return errors.New("config: minio endpoint and bucket are required for the minio upload driver")
		}
	default:
		return fmt.Errorf("config: unknown upload driver %q", c.UploadDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("config: jwtSecret must not be empty")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("config: maxUploadBytes must be positive")
	}
	return nil
}

// DevSecret reports whether the built-in development JWT secret is in use.
func (c *Config) DevSecret() bool { return c.JWTSecret == devSecret }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
