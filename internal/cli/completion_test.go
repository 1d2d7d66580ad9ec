package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionCmd(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

			rootCmd.SetArgs([]string{"completion", shell})
			require.NoError(t, rootCmd.Execute())

			assert.Contains(t, out.String(), "# gitgrade completion version: "+completionVersion(rootCmd))
			assert.Greater(t, out.Len(), 100, "expected a full completion script")
		})
	}
}

func TestCompletionCmd_RejectsUnknownShell(t *testing.T) {
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	rootCmd.SetArgs([]string{"completion", "tcsh"})
	assert.Error(t, rootCmd.Execute())
}

func TestCompletionVersion(t *testing.T) {
	a := &cobra.Command{Use: "a"}
	a.AddCommand(&cobra.Command{Use: "sub"})
	b := &cobra.Command{Use: "a"}
	b.AddCommand(&cobra.Command{Use: "other"})

	assert.Len(t, completionVersion(a), 12)
	assert.Equal(t, completionVersion(a), completionVersion(a))
	assert.NotEqual(t, completionVersion(a), completionVersion(b))
}
