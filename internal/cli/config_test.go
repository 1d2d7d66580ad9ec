package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikematt33/gitgrade/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetConfigValue(t *testing.T) {
	cfg := config.Default()
	cfg.Global.GitHubToken = "old-token"

	tests := []struct {
		name      string
		key       string
		val       string
		wantErr   bool
		validator func(*config.Config) bool
	}{
		{
			name: "Set Global String",
			key:  "global.github_token",
			val:  "new-token",
			validator: func(c *config.Config) bool {
				return c.Global.GitHubToken == "new-token"
			},
		},
		{
			name: "Set Global Int",
			key:  "global.concurrency",
			val:  "20",
			validator: func(c *config.Config) bool {
				return c.Global.Concurrency == 20
			},
		},
		{
			name: "Set Narrative Float",
			key:  "narrative.temperature",
			val:  "0.25",
			validator: func(c *config.Config) bool {
				return c.Narrative.Temperature == 0.25
			},
		},
		{
			name: "Set Narrative Int",
			key:  "narrative.max_tokens",
			val:  "1500",
			validator: func(c *config.Config) bool {
				return c.Narrative.MaxTokens == 1500
			},
		},
		{
			name: "Field Name Fallback",
			key:  "narrative.Provider",
			val:  "gemini",
			validator: func(c *config.Config) bool {
				return c.Narrative.Provider == "gemini"
			},
		},
		{
			name:    "Invalid Key",
			key:     "global.unknown_field",
			val:     "foo",
			wantErr: true,
		},
		{
			name:    "Invalid Type Match (Int expected)",
			key:     "global.concurrency",
			val:     "not-an-int",
			wantErr: true,
		},
		{
			name:    "Invalid Type Match (Float expected)",
			key:     "narrative.temperature",
			val:     "warm",
			wantErr: true,
		},
		{
			name:    "Part is not a struct",
			key:     "global.concurrency.subfield",
			val:     "10",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := setConfigValue(cfg, tt.key, tt.val)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validator != nil {
				assert.True(t, tt.validator(cfg))
			}
		})
	}
}

func TestConfigKeysAreSettable(t *testing.T) {
	for _, key := range configKeys {
		cfg := config.Default()
		val := "1"
		if key == "global.timeout" || key == "narrative.timeout" {
			val = "1m"
		}
		assert.NoError(t, setConfigValue(cfg, key, val), key)
	}
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "****wxyz", maskSecret("ghp_abcdefghijklmnopqrstuvwxyz"))
}

func TestConfigSetAndList(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HOME", tmpDir)
	t.Chdir(tmpDir)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	rootCmd.SetArgs([]string{"config", "set", "narrative.provider", "gemini"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Configuration saved")

	rootCmd.SetArgs([]string{"config", "set-token", "ghp_0123456789abcdef"})
	require.NoError(t, rootCmd.Execute())

	path := filepath.Join(tmpDir, "gitgrade", "config.yaml")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Narrative.Provider)
	assert.Equal(t, "ghp_0123456789abcdef", cfg.Global.GitHubToken)

	out.Reset()
	rootCmd.SetArgs([]string{"config", "list"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "provider: gemini")
	assert.Contains(t, out.String(), "****cdef")
	assert.NotContains(t, out.String(), "ghp_0123456789abcdef")

	rootCmd.SetArgs([]string{"config", "set", "narrative.provider", "carrier-pigeon"})
	assert.Error(t, rootCmd.Execute(), "invalid values are rejected before saving")
}
