package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Telegram TelegramConfig `yaml:"telegram"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	MenuKey string `yaml:"menu_key"`
	CartKey string `yaml:"cart_key"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL       string `yaml:"url"`
	KeyPrefix string `yaml:"key_prefix"`
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Exchange string `yaml:"exchange"`
	Queue    string `yaml:"queue"`
	Prefetch int    `yaml:"prefetch"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a configuration that runs without external services.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Port: 3000},
		Storage: StorageConfig{
			Backend: BackendMemory,
			MenuKey: "@chef_menu_items_v2",
			CartKey: "@chef_menu_cart_v1",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Database: "chefmenu",
			MaxConns: 4,
		},
		Redis: RedisConfig{URL: "redis://localhost:6379/0"},
		RabbitMQ: RabbitMQConfig{
			Host:     "localhost",
			Port:     5672,
			User:     "guest",
			Password: "guest",
			Exchange: "menu_events",
			Queue:    "menu_notifications",
			Prefetch: 10,
		},
		Log: LogConfig{Level: "debug"},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides (a .env file next to the binary is honoured).
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	_ = godotenv.Load()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Storage.Backend, "STORAGE_BACKEND")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Database, "DB_NAME")
	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.RabbitMQ.Host, "RABBITMQ_HOST")
	setString(&cfg.RabbitMQ.User, "RABBITMQ_USER")
	setString(&cfg.RabbitMQ.Password, "RABBITMQ_PASSWORD")
	setString(&cfg.Telegram.Token, "TELEGRAM_TOKEN")
	setString(&cfg.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT %q: %w", v, err)
		}
		cfg.Database.Port = port
	}
	if v := os.Getenv("RABBITMQ_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RABBITMQ_ENABLED %q: %w", v, err)
		}
		cfg.RabbitMQ.Enabled = enabled
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", v, err)
		}
		cfg.Telegram.ChatID = id
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case BackendMemory, BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.MenuKey == "" || c.Storage.CartKey == "" {
		return errors.New("storage keys must not be empty")
	}
	if c.Storage.MenuKey == c.Storage.CartKey {
		return errors.New("menu and cart must use different storage keys")
	}
	if c.RabbitMQ.Enabled && (c.RabbitMQ.Exchange == "" || c.RabbitMQ.Queue == "") {
		return errors.New("rabbitmq exchange and queue must not be empty")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}
	return nil
}

// DSN is the libpq-style connection string for pgx.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Database)
}

func (r RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", r.User, r.Password, r.Host, r.Port)
}
