package config

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Alerts  AlertsConfig  `mapstructure:"alerts"`
}

// ServerConfig holds the console HTTP server configuration
type ServerConfig struct {
	Port            string `mapstructure:"port"`
	AllowedOrigins  string `mapstructure:"allowedOrigins"`
	ShutdownTimeout int    `mapstructure:"shutdownTimeout"`
}

// BackendConfig holds the SimShield backend connection configuration
type BackendConfig struct {
	Origin           string `mapstructure:"origin"`
	RefreshIntervalS int    `mapstructure:"refreshIntervalSeconds"`
	SettleDelayMs    int    `mapstructure:"settleDelayMs"`
	ReconnectDelayMs int    `mapstructure:"reconnectDelayMs"`
	RequestTimeoutS  int    `mapstructure:"requestTimeoutSeconds"`
}

// AlertsConfig holds the live alert feed configuration
type AlertsConfig struct {
	RingCapacity int `mapstructure:"ringCapacity"`
}

// RefreshInterval returns the periodic fleet refresh interval
func (b BackendConfig) RefreshInterval() time.Duration {
	return time.Duration(b.RefreshIntervalS) * time.Second
}

// SettleDelay returns the delay between a relevant alert and the follow-up
// fleet refresh, giving the backend time to settle
func (b BackendConfig) SettleDelay() time.Duration {
	return time.Duration(b.SettleDelayMs) * time.Millisecond
}

// ReconnectDelay returns the fixed delay before a reconnect attempt
func (b BackendConfig) ReconnectDelay() time.Duration {
	return time.Duration(b.ReconnectDelayMs) * time.Millisecond
}

// RequestTimeout returns the per-request timeout for backend HTTP calls
func (b BackendConfig) RequestTimeout() time.Duration {
	return time.Duration(b.RequestTimeoutS) * time.Second
}

// LoadConfig loads the application configuration from file or environment variables
func LoadConfig(configPath string) (*Config, error) {
	var config Config

	// Set default values
	viper.SetDefault("server.port", "8090")
	viper.SetDefault("server.allowedOrigins", "*")
	viper.SetDefault("server.shutdownTimeout", 10)
	viper.SetDefault("backend.origin", "http://localhost:8080")
	viper.SetDefault("backend.refreshIntervalSeconds", 30)
	viper.SetDefault("backend.settleDelayMs", 1000)
	viper.SetDefault("backend.reconnectDelayMs", 3000)
	viper.SetDefault("backend.requestTimeoutSeconds", 15)
	viper.SetDefault("alerts.ringCapacity", 50)

	// Allow environment variables to override config file
	viper.SetEnvPrefix("SIMSHIELD")
	viper.AutomaticEnv()

	// If config file is provided, read it
	if configPath != "" {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			logrus.Warnf("Error reading config file: %v", err)
		}
	}

	// Unmarshal config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
