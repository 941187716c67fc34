package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.GoogleCloudLocation != "us-central1" {
		t.Errorf("GoogleCloudLocation = %q, want default us-central1", cfg.GoogleCloudLocation)
	}
	if cfg.UploadsDir != "uploads" {
		t.Errorf("UploadsDir = %q, want default uploads", cfg.UploadsDir)
	}
	if !cfg.AIEnabled {
		t.Error("AIEnabled should default to true")
	}
}

func TestLoadFrom_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "google_cloud_project": "my-project",
  "uploads_dir": "/tmp/resumes",
  "user_name": "Jane Doe",
  "desired_title": "Staff Engineer"
}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.GoogleCloudProject != "my-project" {
		t.Errorf("GoogleCloudProject = %q", cfg.GoogleCloudProject)
	}
	if cfg.UploadsDir != "/tmp/resumes" {
		t.Errorf("UploadsDir = %q", cfg.UploadsDir)
	}
	if cfg.UserName != "Jane Doe" {
		t.Errorf("UserName = %q", cfg.UserName)
	}
	if cfg.DesiredTitle != "Staff Engineer" {
		t.Errorf("DesiredTitle = %q", cfg.DesiredTitle)
	}
	// File omits the location, defaults still apply.
	if cfg.GoogleCloudLocation != "us-central1" {
		t.Errorf("GoogleCloudLocation = %q, want default", cfg.GoogleCloudLocation)
	}
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"google_cloud_project":"from-file","ai_enabled":true}`), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GOOGLE_CLOUD_PROJECT", "from-env")
	t.Setenv("AI_ENABLED", "false")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.GoogleCloudProject != "from-env" {
		t.Errorf("GoogleCloudProject = %q, want env value", cfg.GoogleCloudProject)
	}
	if cfg.AIEnabled {
		t.Error("AIEnabled should be overridden to false by env")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := DefaultConfig()
	cfg.GoogleCloudProject = "round-trip"
	cfg.UserAddress = "12 Main St\nSpringfield, IL"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.GoogleCloudProject != "round-trip" {
		t.Errorf("GoogleCloudProject = %q", loaded.GoogleCloudProject)
	}
	if loaded.UserAddress != cfg.UserAddress {
		t.Errorf("UserAddress = %q", loaded.UserAddress)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "AI disabled needs no project",
			mutate: func(c *Config) { c.AIEnabled = false },
		},
		{
			name:    "AI enabled without project",
			mutate:  func(c *Config) {},
			wantErr: true,
		},
		{
			name:   "AI enabled with project",
			mutate: func(c *Config) { c.GoogleCloudProject = "p" },
		},
		{
			name: "Empty uploads dir",
			mutate: func(c *Config) {
				c.AIEnabled = false
				c.UploadsDir = ""
			},
			wantErr: true,
		},
		{
			name: "Missing credentials file",
			mutate: func(c *Config) {
				c.GoogleCloudProject = "p"
				c.GoogleCredentialsPath = "/nonexistent/creds.json"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
