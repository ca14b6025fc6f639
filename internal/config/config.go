package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Server is the gpodder.net API base URL
	Server string

	// LogLevel controls CLI logging (debug, info, warn, error)
	LogLevel string

	// Account holds gpodder.net credentials and the device identity
	Account AccountConfig
}

// AccountConfig holds gpodder.net specific configuration
type AccountConfig struct {
	Username string
	Password string
	DeviceID string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("server", "https://gpodder.net")
	v.SetDefault("log_level", "info")

	// Read config file (optional - don't fail if missing)
	_ = v.ReadInConfig()

	// Read from environment variables
	v.SetEnvPrefix("MYGPO")
	v.AutomaticEnv()

	// Map config to struct
	cfg := &Config{
		Server:   v.GetString("server"),
		LogLevel: v.GetString("log_level"),
		Account: AccountConfig{
			Username: v.GetString("account.username"),
			Password: v.GetString("account.password"),
			DeviceID: v.GetString("account.device_id"),
		},
	}

	return cfg, nil
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "mygpo")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// DatabasePath returns the default path of the local sync database
func DatabasePath() string {
	return filepath.Join(getConfigDir(), "sync.db")
}

// Save writes configuration to file
func (c *Config) Save() error {
	v := viper.New()

	// Set config file path
	configDir := getConfigDir()
	configFile := filepath.Join(configDir, "config.yaml")

	// Set values in viper
	v.Set("server", c.Server)
	v.Set("log_level", c.LogLevel)
	v.Set("account.username", c.Account.Username)
	v.Set("account.password", c.Account.Password)
	v.Set("account.device_id", c.Account.DeviceID)

	// Write to file
	return v.WriteConfigAs(configFile)
}
