package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	APIBaseURL      string `mapstructure:"api_base_url"`
	AppOrigin       string `mapstructure:"app_origin"` // used to build invite links
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`
	GeminiModel     string `mapstructure:"gemini_model"`
	HTTPTimeoutSecs int    `mapstructure:"http_timeout_seconds"`
	RedirectDelayMS int    `mapstructure:"redirect_delay_ms"`
	TemplatesFile   string `mapstructure:"templates_file"` // optional override of the built-in catalog
	LogLevel        string `mapstructure:"log_level"`
	// Reflection reminders
	ReminderEnabled bool   `mapstructure:"reminder_enabled"`
	ReminderCycle   string `mapstructure:"reminder_cycle"` // daily, weekly, biweekly, monthly
	ReminderTime    string `mapstructure:"reminder_time"`  // HH:MM, local time
}

// Keys that can be changed with `proof config set`.
var SettableKeys = []string{
	"api_base_url", "app_origin", "gemini_api_key", "gemini_model",
	"http_timeout_seconds", "redirect_delay_ms", "templates_file", "log_level",
	"reminder_enabled", "reminder_cycle", "reminder_time",
}

// Dir returns the directory holding config and local data.
// PROOF_HOME overrides the default of ~/.proof.
func Dir() (string, error) {
	if dir := os.Getenv("PROOF_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".proof"), nil
}

// Load reads the configuration file, creating it with defaults if missing.
func Load() (*Config, error) {
	configDir, err := Dir()
	if err != nil {
		return nil, err
	}
	configFile := filepath.Join(configDir, "config.yaml")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return nil, err
		}
	}

	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")
	setDefaults(viper.GetViper())

	// GEMINI_API_KEY in the environment beats an empty config value
	_ = viper.BindEnv("gemini_api_key", "GEMINI_API_KEY")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_base_url", "http://localhost:8000")
	v.SetDefault("app_origin", "http://localhost:3000")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-2.0-flash")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("redirect_delay_ms", 500)
	v.SetDefault("templates_file", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("reminder_enabled", false)
	v.SetDefault("reminder_cycle", "weekly")
	v.SetDefault("reminder_time", "21:00")
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# ProoF Configuration
api_base_url: http://localhost:8000
app_origin: http://localhost:3000

# Gemini (AI feedback). GEMINI_API_KEY in the environment also works.
gemini_api_key: ""
gemini_model: gemini-2.0-flash

http_timeout_seconds: 30
redirect_delay_ms: 500

# Path to a YAML reflection template catalog. Empty uses the built-in one.
templates_file: ""

# debug, info, warn, error
log_level: warn

# Reflection reminders (proof remind)
reminder_enabled: false
reminder_cycle: weekly
reminder_time: "21:00"
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// HTTPTimeout returns the request timeout, never less than one second.
func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSecs) * time.Second
}

// RedirectDelay is the pause between a successful auth and navigation.
func (c *Config) RedirectDelay() time.Duration {
	if c.RedirectDelayMS < 0 {
		return 0
	}
	return time.Duration(c.RedirectDelayMS) * time.Millisecond
}

// Set updates a configuration value
func Set(key, value string) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

// Get retrieves a configuration value
func Get(key string) string {
	return viper.GetString(key)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	dir, _ := Dir()
	return filepath.Join(dir, "config.yaml")
}

// IsSettable reports whether key may be changed from the command line.
func IsSettable(key string) bool {
	for _, k := range SettableKeys {
		if k == key {
			return true
		}
	}
	return false
}
