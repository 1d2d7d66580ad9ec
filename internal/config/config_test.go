package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.Global.Concurrency)
	assert.Equal(t, "auto", cfg.Narrative.Provider)
	assert.Equal(t, 1000, cfg.Narrative.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Narrative.Temperature, 1e-9)

	d, err := cfg.Narrative.RequestTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)
}

func TestLoadFile_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("global:\n  concurrency: 8\nnarrative:\n  provider: gemini\n"), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Global.Concurrency)
	assert.Equal(t, "2m", cfg.Global.Timeout)
	assert.Equal(t, "gemini", cfg.Narrative.Provider)
	assert.Equal(t, 1000, cfg.Narrative.MaxTokens)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":     "global: [",
		"concurrency":  "global:\n  concurrency: 0\n",
		"provider":     "narrative:\n  provider: palm\n",
		"timeout":      "narrative:\n  timeout: soon\n",
		"temperature":  "narrative:\n  temperature: 3.5\n",
		"repo timeout": "global:\n  timeout: -1m\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0600))
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg := Default()
	cfg.Global.GitHubToken = "ghp_test"
	path, err := Save(cfg)
	require.NoError(t, err)

	want, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, want, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ghp_test", loaded.Global.GitHubToken)
}

func TestResolveProvider(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}
	both := env(map[string]string{EnvOpenRouterKey: "or-key", EnvGeminiKey: "gm-key"})
	geminiOnly := env(map[string]string{EnvGeminiKey: "gm-key"})
	none := env(nil)

	tests := []struct {
		name         string
		cfg          NarrativeConfig
		getenv       func(string) string
		wantProvider string
		wantKey      string
	}{
		{"auto prefers openrouter", NarrativeConfig{Provider: "auto"}, both, "openrouter", "or-key"},
		{"auto falls to gemini", NarrativeConfig{Provider: "auto"}, geminiOnly, "gemini", "gm-key"},
		{"auto without keys", NarrativeConfig{Provider: "auto"}, none, "none", ""},
		{"auto with config key", NarrativeConfig{Provider: "auto", APIKey: "cfg"}, geminiOnly, "openrouter", "cfg"},
		{"explicit gemini", NarrativeConfig{Provider: "gemini"}, both, "gemini", "gm-key"},
		{"config key wins", NarrativeConfig{Provider: "gemini", APIKey: "cfg"}, both, "gemini", "cfg"},
		{"explicit openrouter without key", NarrativeConfig{Provider: "openrouter"}, geminiOnly, "openrouter", ""},
		{"none", NarrativeConfig{Provider: "none", APIKey: "cfg"}, both, "none", ""},
		{"empty means auto", NarrativeConfig{}, geminiOnly, "gemini", "gm-key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, k := tt.cfg.ResolveProvider(tt.getenv)
			assert.Equal(t, tt.wantProvider, p)
			assert.Equal(t, tt.wantKey, k)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("GITGRADE_TEST_A=from-file\nGITGRADE_TEST_B=from-file\n"), 0600))
	t.Setenv("GITGRADE_TEST_B", "from-env")
	t.Setenv("GITGRADE_TEST_A", "")
	os.Unsetenv("GITGRADE_TEST_A")

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-file", os.Getenv("GITGRADE_TEST_A"))
	assert.Equal(t, "from-env", os.Getenv("GITGRADE_TEST_B"), "existing variables are kept")

	assert.NoError(t, LoadEnv(filepath.Join(dir, "missing.env")))
}
