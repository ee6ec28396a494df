package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	MQTT       MQTTConfig
	Thresholds ThresholdConfig
	SMTP       SMTPConfig
	Monitoring MonitoringConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
	// Retention bounds how long observations are kept; zero disables pruning
	Retention time.Duration `mapstructure:"retention"`
}

type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type MQTTConfig struct {
	BrokerURL         string        `mapstructure:"broker_url"`
	ClientID          string        `mapstructure:"client_id"`
	Locations         []string      `mapstructure:"locations"`
	QoS               byte          `mapstructure:"qos"`
	ReconnectMinDelay time.Duration `mapstructure:"reconnect_min_delay"`
	ReconnectMaxDelay time.Duration `mapstructure:"reconnect_max_delay"`
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout"`
}

type ThresholdConfig struct {
	High             float64 `mapstructure:"high"`
	Low              float64 `mapstructure:"low"`
	TemperatureFloor float64 `mapstructure:"temperature_floor"`
}

type SMTPConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Sender    string `mapstructure:"sender"`
	Password  string `mapstructure:"password"`
	Recipient string `mapstructure:"recipient"`
}

type MonitoringConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("SMARTIES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	viper.SetDefault("database.path", "./smarties.db")
	viper.SetDefault("database.retention", "0")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", "24h")

	// MQTT defaults
	viper.SetDefault("mqtt.broker_url", "tcp://localhost:1883")
	viper.SetDefault("mqtt.client_id", "smarties-hub")
	viper.SetDefault("mqtt.locations", []string{"Frig1", "Frig2"})
	viper.SetDefault("mqtt.qos", 1)
	viper.SetDefault("mqtt.reconnect_min_delay", "1s")
	viper.SetDefault("mqtt.reconnect_max_delay", "5s")
	viper.SetDefault("mqtt.connect_timeout", "10s")

	// Threshold defaults
	viper.SetDefault("thresholds.high", 10.0)
	viper.SetDefault("thresholds.low", -5.0)
	viper.SetDefault("thresholds.temperature_floor", -40.0)

	// SMTP defaults
	viper.SetDefault("smtp.host", "smtp.gmail.com")
	viper.SetDefault("smtp.port", 587)

	// Monitoring defaults
	viper.SetDefault("monitoring.log_level", "info")
}

func validateConfig(config *Config) error {
	if config.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if config.MQTT.BrokerURL == "" {
		return fmt.Errorf("mqtt broker URL is required")
	}
	if len(config.MQTT.Locations) == 0 {
		return fmt.Errorf("at least one mqtt location is required")
	}
	if config.Thresholds.High <= config.Thresholds.Low {
		return fmt.Errorf("threshold high must be greater than low")
	}
	return nil
}
