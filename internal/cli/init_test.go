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

func TestInitCmd(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Chdir(tmpDir)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	rootCmd.SetArgs([]string{"init"})
	require.NoError(t, rootCmd.Execute())

	configPath := filepath.Join(tmpDir, "gitgrade", "config.yaml")
	_, err := os.Stat(configPath)
	require.NoError(t, err, "config.yaml should be created")
	assert.Contains(t, out.String(), "Successfully created")

	// The template must load cleanly and match the built-in defaults.
	cfg, err := config.LoadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	out.Reset()
	rootCmd.SetArgs([]string{"init"})
	require.NoError(t, rootCmd.Execute(), "second run should not fail")
	assert.Contains(t, out.String(), "already exists")
}
