package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	DBDriver       string `yaml:"db_driver"`
	DBPath         string `yaml:"db_path"`
	DBHost         string `yaml:"db_host"`
	DBPort         int    `yaml:"db_port"`
	DBUser         string `yaml:"db_user"`
	DBPassword     string `yaml:"db_password"`
	DBName         string `yaml:"db_name"`
	DBSSLMode      string `yaml:"db_sslmode"`
	DBMaxOpenConns int    `yaml:"db_max_open_conns"`

	ServerPort      string        `yaml:"server_port"`
	MirrorPort      string        `yaml:"mirror_port"`
	MirrorEnabled   bool          `yaml:"mirror_enabled"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ImportMaxFileSize int64 `yaml:"import_max_file_size"`
}

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		DBDriver:          DriverSQLite,
		DBPath:            "student_management.db",
		DBHost:            "localhost",
		DBPort:            5432,
		DBUser:            "postgres",
		DBName:            "students_db",
		DBSSLMode:         "disable",
		DBMaxOpenConns:    10,
		ServerPort:        "8080",
		MirrorPort:        "5000",
		MirrorEnabled:     true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		LogLevel:          "info",
		LogFormat:         "text",
		ImportMaxFileSize: 10 << 20,
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables (a .env file is read first if present).
// Environment variables win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnvAsInt("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSLMODE", cfg.DBSSLMode)
	cfg.DBMaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", cfg.DBMaxOpenConns)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.MirrorPort = getEnv("MIRROR_PORT", cfg.MirrorPort)
	cfg.MirrorEnabled = getEnvAsBool("MIRROR_ENABLED", cfg.MirrorEnabled)
	cfg.ReadTimeout = getEnvAsDuration("SERVER_READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvAsDuration("SERVER_WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.ShutdownTimeout = getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.ImportMaxFileSize = int64(getEnvAsInt("IMPORT_MAX_FILE_SIZE", int(cfg.ImportMaxFileSize)))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string

	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, "DB_PATH is required for the sqlite3 driver")
		}
	case DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			errs = append(errs, "DB_HOST and DB_NAME are required for the postgres driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("DB_DRIVER (%q) must be one of: sqlite3, postgres", c.DBDriver))
	}
	if c.DBMaxOpenConns <= 0 {
		errs = append(errs, "DB_MAX_OPEN_CONNS must be positive")
	}
	if !validPort(c.ServerPort) {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%q) must be 1-65535", c.ServerPort))
	}
	if c.MirrorEnabled {
		if !validPort(c.MirrorPort) {
			errs = append(errs, fmt.Sprintf("MIRROR_PORT (%q) must be 1-65535", c.MirrorPort))
		} else if c.MirrorPort == c.ServerPort {
			errs = append(errs, "MIRROR_PORT must differ from SERVER_PORT")
		}
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.ImportMaxFileSize <= 0 {
		errs = append(errs, "IMPORT_MAX_FILE_SIZE must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// PostgresDSN builds the lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func validPort(port string) bool {
	n, err := strconv.Atoi(port)
	return err == nil && n > 0 && n <= 65535
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
