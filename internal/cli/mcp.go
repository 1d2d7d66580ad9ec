package cli

import (
	"fmt"

	"github.com/mikematt33/gitgrade/internal/config"
	"github.com/mikematt33/gitgrade/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run a Model Context Protocol server on stdio",
	Long: `Expose gitgrade to MCP clients such as editors and AI assistants.
The server speaks MCP over stdin/stdout and offers the tools analyze_repository and list_scoring_rules.
Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		// Anything but the protocol on stdout would corrupt the session.
		flagQuiet = true

		analyzer, _, err := newAnalyzer(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		return mcpserver.Serve(analyzer, Version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
