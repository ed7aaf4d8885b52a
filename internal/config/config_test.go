package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
database: /var/lib/licensewatch/data.db
smtp:
  host: mail.example.com
  port: 587
  username: notifier
  password: secret
  from: noreply@example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/licensewatch/data.db", cfg.Database)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, "mail.example.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "noreply@example.com", cfg.SMTP.From)
}

func TestLoad_DatabaseOnly(t *testing.T) {
	path := writeConfig(t, "database: data.db\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.SMTP.Enabled(), "email channel disabled without host")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
database: data.db
databse_typo: other.db
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "database: [unclosed\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing database",
			cfg:     Config{},
			wantErr: "database path is required",
		},
		{
			name: "smtp host without port",
			cfg: Config{
				Database: "data.db",
				SMTP:     SMTPConfig{Host: "mail.example.com", From: "noreply@example.com"},
			},
			wantErr: "smtp.port is required",
		},
		{
			name: "smtp host without from",
			cfg: Config{
				Database: "data.db",
				SMTP:     SMTPConfig{Host: "mail.example.com", Port: 587},
			},
			wantErr: "smtp.from is required",
		},
		{
			name: "smtp fully disabled",
			cfg:  Config{Database: "data.db"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}
