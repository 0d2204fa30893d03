package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported storage drivers
const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Driver         string `yaml:"driver" env:"DB_DRIVER"`
		ConnectTimeout string `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT"`

		Mongo struct {
			URI      string `yaml:"uri" env:"MONGO_URI"`
			Database string `yaml:"database" env:"MONGO_DATABASE"`
		} `yaml:"mongo"`

		Postgres struct {
			Host            string `yaml:"host" env:"DB_HOST"`
			Port            string `yaml:"port" env:"DB_PORT"`
			User            string `yaml:"user" env:"DB_USER"`
			Password        string `yaml:"password" env:"DB_PASSWORD"`
			DBName          string `yaml:"dbname" env:"DB_NAME"`
			SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
			MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
			MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
			MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
		} `yaml:"postgres"`
	} `yaml:"database"`

	JWT struct {
		Secret     string `yaml:"secret" env:"JWT_SECRET"`
		Expiration string `yaml:"expiration" env:"JWT_EXPIRATION"`
		Issuer     string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	// Admin is the account seeded at startup when no user with that email exists.
	Admin struct {
		Name     string `yaml:"name" env:"ADMIN_NAME"`
		Email    string `yaml:"email" env:"ADMIN_EMAIL"`
		Password string `yaml:"password" env:"ADMIN_PASSWORD"`
	} `yaml:"admin"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; environment variables alone are enough.
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Variables already present in the environment win over the .env file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := applyEnv(reflect.ValueOf(config)); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	config.Database.Driver = strings.ToLower(strings.TrimSpace(config.Database.Driver))

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "5000"
	config.Server.Mode = "development"

	config.Database.Driver = DriverMongo
	config.Database.ConnectTimeout = "10s"

	config.Database.Mongo.URI = "mongodb://localhost:27017"
	config.Database.Mongo.Database = "uspt"

	config.Database.Postgres.Host = "localhost"
	config.Database.Postgres.Port = "5432"
	config.Database.Postgres.User = "postgres"
	config.Database.Postgres.Password = "postgres"
	config.Database.Postgres.DBName = "uspt"
	config.Database.Postgres.SSLMode = "disable"
	config.Database.Postgres.MaxIdleConns = 5
	config.Database.Postgres.MaxOpenConns = 20
	config.Database.Postgres.ConnMaxLifetime = "1h"
	config.Database.Postgres.MigrationsDir = "migrations"

	config.JWT.Expiration = "720h"
	config.JWT.Issuer = "uspt"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Admin.Name = "Administrator"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverMongo:
		if config.Database.Mongo.URI == "" {
			return fmt.Errorf("mongo uri is required")
		}
		if config.Database.Mongo.Database == "" {
			return fmt.Errorf("mongo database name is required")
		}
	case DriverPostgres:
		if config.Database.Postgres.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.Postgres.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid connection max lifetime: %w", err)
		}
	case "":
		return fmt.Errorf("database driver is required")
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if _, err := time.ParseDuration(config.Database.ConnectTimeout); err != nil {
		return fmt.Errorf("invalid database connect timeout: %w", err)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.Expiration); err != nil {
		return fmt.Errorf("invalid JWT expiration format: %w", err)
	}

	if (config.Admin.Email == "") != (config.Admin.Password == "") {
		return fmt.Errorf("admin email and password must be set together")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	pg := c.Database.Postgres
	sslMode := pg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		pg.User,
		pg.Password,
		pg.Host,
		pg.Port,
		pg.DBName,
		sslMode,
	)
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}
