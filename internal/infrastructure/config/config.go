package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment override, e.g. ENSEMBLE_SERVER_PORT.
const EnvPrefix = "ENSEMBLE_"

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// Label sources
const (
	LabelSourceCSV      = "csv"
	LabelSourcePostgres = "postgres"
	LabelSourceRedis    = "redis"
	LabelSourceNone     = "none"
)

// Config holds all service configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Labels    LabelsConfig    `koanf:"labels"`
	Predict   PredictConfig   `koanf:"predict"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Log       LogConfig       `koanf:"log"`
	CORS      CORSConfig      `koanf:"cors"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Mode            string        `koanf:"mode"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// ModelArtifact names one model artifact file
type ModelArtifact struct {
	Name string `koanf:"name"`
	File string `koanf:"file"`
}

// ArtifactsConfig locates the vectorizer and model artifacts
type ArtifactsConfig struct {
	Dir        string          `koanf:"dir"`
	Vectorizer string          `koanf:"vectorizer"`
	Models     []ModelArtifact `koanf:"models"`
}

// LabelsConfig selects where the cluster label table is loaded from
type LabelsConfig struct {
	Source   string `koanf:"source"`
	CSVPath  string `koanf:"csv_path"`
	RedisKey string `koanf:"redis_key"`
}

// PredictConfig holds request validation limits
type PredictConfig struct {
	MaxDescriptionLength int `koanf:"max_description_length"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// CORSConfig holds allowed origins
type CORSConfig struct {
	AllowOrigins []string `koanf:"allow_origins"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            6006,
			Mode:            "debug",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Artifacts: ArtifactsConfig{
			Dir:        "models",
			Vectorizer: "vectorizer.msgpack",
			Models: []ModelArtifact{
				{Name: "sgd_classifier_model", File: "sgd_classifier_model.msgpack"},
				{Name: "linearsvc_classifier_model", File: "linearsvc_classifier_model.msgpack"},
				{Name: "LogisticRegression_model", File: "LogisticRegression_classifier_model.msgpack"},
			},
		},
		Labels: LabelsConfig{
			Source:   LabelSourceCSV,
			CSVPath:  "output_tokenized.csv",
			RedisKey: "cluster_labels",
		},
		Predict: PredictConfig{
			MaxDescriptionLength: 10000,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "ensemble",
			Password: "ensemble",
			DBName:   "ensemble",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
	}
}

// Load reads configuration from defaults, an optional YAML file and ENSEMBLE_* environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitCommaList(k, "cors.allow_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration values that would otherwise fail late
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	switch c.Labels.Source {
	case LabelSourceCSV, LabelSourcePostgres, LabelSourceRedis, LabelSourceNone:
	default:
		return fmt.Errorf("unknown labels.source %q", c.Labels.Source)
	}
	if c.Predict.MaxDescriptionLength < 0 {
		return errors.New("predict.max_description_length must not be negative")
	}

	seen := make(map[string]bool, len(c.Artifacts.Models))
	for _, m := range c.Artifacts.Models {
		if m.Name == "" || m.File == "" {
			return errors.New("every artifacts.models entry needs a name and a file")
		}
		if seen[m.Name] {
			return fmt.Errorf("duplicate model name %q", m.Name)
		}
		seen[m.Name] = true
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Addr returns host:port of the Redis server
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransformFunc maps ENSEMBLE_SECTION_SOME_KEY to section.some_key
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, rest, found := strings.Cut(key, "_")
	if !found {
		return key
	}
	return section + "." + rest
}

func splitCommaList(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok || s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}
