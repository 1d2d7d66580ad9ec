package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikematt33/gitgrade/internal/config"
	"github.com/spf13/cobra"
)

const defaultConfig = `# gitgrade Configuration

# Global settings
global:
  concurrency: 5 # Max concurrent repository analyses, also bounds API calls per repository
  timeout: "2m" # Time budget per repository
  # github_token: "YOUR_TOKEN" # Optional: Store token here (not recommended for shared machines)

# Summary and roadmap generation
# Without an API key (here, OPENROUTER_API_KEY or GEMINI_API_KEY) a rule-based narrative is used.
narrative:
  provider: auto # auto, openrouter, gemini, none
  # model: "openai/gpt-4-turbo-preview"
  # api_key: "YOUR_KEY"
  # base_url: "https://openrouter.ai/api/v1/chat/completions"
  max_tokens: 1000
  temperature: 0.7
  timeout: "30s"
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Creates a default configuration file (config.yaml) in your user configuration directory if it doesn't exist.
Use this to pick the narrative backend, tune concurrency and timeouts, or store a token.

Note: 'gitgrade analyze', 'org', etc. will automatically create this file if it's missing.
'gitgrade init' is useful if you want to inspect or customize the config before running any analysis.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// createDefaultConfig writes the default configuration to the specified path
func createDefaultConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("error getting config path: %w", err)
	}

	// Check if file already exists to prevent overwriting
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(out, "⚠️  Checking %s... already exists.\n", configPath)
		fmt.Fprintln(out, "Aborting to prevent overwrite. Delete the existing file first if you want to regenerate it.")
		return nil
	}

	if err := createDefaultConfig(configPath); err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}

	fmt.Fprintf(out, "✅ Successfully created %s\n", configPath)
	fmt.Fprintln(out, "You can now edit this file to choose a narrative backend and tune concurrency.")
	return nil
}
