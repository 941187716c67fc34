package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	GoogleCloudProject    string `json:"google_cloud_project"`
	GoogleCloudLocation   string `json:"google_cloud_location"`
	GoogleCredentialsPath string `json:"google_credentials_path"`
	GmailCredentialsPath  string `json:"gmail_credentials_path"`
	UploadsDir            string `json:"uploads_dir"`
	ModelName             string `json:"model_name"`
	AIEnabled             bool   `json:"ai_enabled"`
	ListenAddr            string `json:"listen_addr"`

	// Identity used on generated cover letters.
	UserName    string `json:"user_name"`
	UserAddress string `json:"user_address"`
	// DesiredTitle feeds the title component of match scoring.
	DesiredTitle string `json:"desired_title"`
}

// DefaultConfig returns a new config with default values.
func DefaultConfig() *Config {
	return &Config{
		GoogleCloudLocation: "us-central1",
		UploadsDir:          "uploads",
		AIEnabled:           true,
		ListenAddr:          ":8080",
	}
}

// GetConfigPath returns the path to the configuration file.
// On Windows: %APPDATA%/ResumeTailor/config.json
// On Unix: ~/.config/ResumeTailor/config.json
func GetConfigPath() (string, error) {
	var configDir string

	if os.Getenv("APPDATA") != "" {
		// Windows
		configDir = filepath.Join(os.Getenv("APPDATA"), "ResumeTailor")
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "ResumeTailor")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.json"), nil
}

// Load loads configuration from the default config path with the .env
// overlay applied.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadFrom(configPath)
}

// LoadFrom loads configuration from a specific path. A .env file in the
// working directory and process environment variables override the file
// values, so deployments can reconfigure without editing the JSON.
func LoadFrom(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// File is optional; env overlay may carry everything needed.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Missing .env is fine; variables already in the environment still apply.
	_ = godotenv.Load()
	config.applyEnv()

	return config, nil
}

// applyEnv overlays environment variables onto the config.
func (c *Config) applyEnv() {
	overlay := map[string]*string{
		"GOOGLE_CLOUD_PROJECT":           &c.GoogleCloudProject,
		"GOOGLE_CLOUD_LOCATION":          &c.GoogleCloudLocation,
		"GOOGLE_APPLICATION_CREDENTIALS": &c.GoogleCredentialsPath,
		"GMAIL_CREDENTIALS_PATH":         &c.GmailCredentialsPath,
		"UPLOADS_DIR":                    &c.UploadsDir,
		"MODEL_NAME":                     &c.ModelName,
		"LISTEN_ADDR":                    &c.ListenAddr,
		"USER_NAME":                      &c.UserName,
		"USER_ADDRESS":                   &c.UserAddress,
		"DESIRED_TITLE":                  &c.DesiredTitle,
	}
	for key, field := range overlay {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}

	if v := os.Getenv("AI_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.AIEnabled = enabled
		}
	}
}

// Save saves the configuration to the default config path.
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveTo(configPath)
}

// SaveTo saves the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.AIEnabled && c.GoogleCloudProject == "" {
		return fmt.Errorf("google_cloud_project is required when AI is enabled")
	}

	if c.UploadsDir == "" {
		return fmt.Errorf("uploads_dir is required")
	}

	if c.GoogleCredentialsPath != "" {
		if _, err := os.Stat(c.GoogleCredentialsPath); err != nil {
			return fmt.Errorf("google credentials file not found: %w", err)
		}
	}

	if c.GmailCredentialsPath != "" {
		if _, err := os.Stat(c.GmailCredentialsPath); err != nil {
			return fmt.Errorf("gmail credentials file not found: %w", err)
		}
	}

	return nil
}

// ApplyToEnv applies configuration values to environment variables for
// the Google client libraries that read them directly.
func (c *Config) ApplyToEnv() {
	if c.GoogleCloudProject != "" {
		os.Setenv("GOOGLE_CLOUD_PROJECT", c.GoogleCloudProject)
	}
	if c.GoogleCloudLocation != "" {
		os.Setenv("GOOGLE_CLOUD_LOCATION", c.GoogleCloudLocation)
	}
	if c.GoogleCredentialsPath != "" {
		os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", c.GoogleCredentialsPath)
	}
}
