package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Passcode PasscodeConfig `mapstructure:"passcode"`
	JoinCode JoinCodeConfig `mapstructure:"joincode"`
	Session  SessionConfig  `mapstructure:"session"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	SessionSecret string `mapstructure:"session_secret"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// PasscodeConfig governs one-time passcode issuance and verification.
type PasscodeConfig struct {
	Length                int `mapstructure:"length"`
	TTLMinutes            int `mapstructure:"ttl_minutes"`
	MaxAttempts           int `mapstructure:"max_attempts"`
	ResendIntervalSeconds int `mapstructure:"resend_interval_seconds"`
	VerifiedWindowMinutes int `mapstructure:"verified_window_minutes"`
}

func (p PasscodeConfig) TTL() time.Duration {
	return time.Duration(p.TTLMinutes) * time.Minute
}

func (p PasscodeConfig) ResendInterval() time.Duration {
	return time.Duration(p.ResendIntervalSeconds) * time.Second
}

func (p PasscodeConfig) VerifiedWindow() time.Duration {
	return time.Duration(p.VerifiedWindowMinutes) * time.Minute
}

// JoinCodeConfig governs join-code generation.
type JoinCodeConfig struct {
	Length              int `mapstructure:"length"`
	MaxGenerateAttempts int `mapstructure:"max_generate_attempts"`
}

// SessionConfig holds participant-session settings. The heartbeat
// interval is advisory; it is handed to clients at session start.
type SessionConfig struct {
	HeartbeatIntervalSeconds int `mapstructure:"heartbeat_interval_seconds"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5050")
	v.SetDefault("server.session_secret", "change-me-in-production")

	// Database defaults
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "infinova-db")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Passcode defaults
	v.SetDefault("passcode.length", 6)
	v.SetDefault("passcode.ttl_minutes", 5)
	v.SetDefault("passcode.max_attempts", 3)
	v.SetDefault("passcode.resend_interval_seconds", 60)
	v.SetDefault("passcode.verified_window_minutes", 15)

	// Join-code defaults
	v.SetDefault("joincode.length", 6)
	v.SetDefault("joincode.max_generate_attempts", 5)

	// Session defaults
	v.SetDefault("session.heartbeat_interval_seconds", 30)
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config") // Name of config file (without extension)
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("INFINOVA") // e.g., INFINOVA_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}
