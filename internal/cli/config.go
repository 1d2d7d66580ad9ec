package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mikematt33/gitgrade/internal/config"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage the gitgrade configuration file.
The configuration file is typically located at:
- Linux: ~/.config/gitgrade/config.yaml
- macOS: ~/Library/Application Support/gitgrade/config.yaml
- Windows: %APPDATA%\gitgrade\config.yaml`,
}

var setTokenCmd = &cobra.Command{
	Use:   "set-token [token]",
	Short: "Shortcut to set the GitHub API token",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetToken,
}

var setCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value using dot notation.
Examples:
  gitgrade config set global.concurrency 10
  gitgrade config set narrative.provider gemini
  gitgrade config set narrative.temperature 0.3`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List current configuration (secrets are masked)",
	RunE:  runList,
}

// configKeys lists every settable key, for shell completion.
var configKeys = []string{
	"global.concurrency",
	"global.github_token",
	"global.timeout",
	"narrative.provider",
	"narrative.model",
	"narrative.api_key",
	"narrative.base_url",
	"narrative.max_tokens",
	"narrative.temperature",
	"narrative.timeout",
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(setTokenCmd)
	configCmd.AddCommand(setCmd)
	configCmd.AddCommand(listCmd)

	setCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return configKeys, cobra.ShellCompDirectiveNoFileComp
	}
}

func saveConfig(cmd *cobra.Command, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	path, err := config.Save(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Configuration saved to %s\n", path)
	return nil
}

func runSetToken(cmd *cobra.Command, args []string) error {
	if !isValidToken(args[0]) {
		return fmt.Errorf("that does not look like a GitHub token (expected at least 20 characters)")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	cfg.Global.GitHubToken = args[0]
	return saveConfig(cmd, cfg)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	masked := *cfg
	masked.Global.GitHubToken = maskSecret(cfg.Global.GitHubToken)
	masked.Narrative.APIKey = maskSecret(cfg.Narrative.APIKey)

	data, err := yaml.Marshal(&masked)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

// maskSecret keeps the last four characters of a secret.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

func runSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if err := setConfigValue(cfg, args[0], args[1]); err != nil {
		return fmt.Errorf("error setting value: %w", err)
	}
	return saveConfig(cmd, cfg)
}

// setConfigValue traverses the struct using reflection and sets the value
func setConfigValue(obj interface{}, path string, valStr string) error {
	parts := strings.Split(path, ".")
	v := reflect.ValueOf(obj)

	// Ensure we have a pointer if we want to set it, or unwrap if it's an interface
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	for i, part := range parts {
		if v.Kind() != reflect.Struct {
			return fmt.Errorf("field %s is not a struct", strings.Join(parts[:i], "."))
		}

		// Find field by yaml tag
		typ := v.Type()
		var fieldVal reflect.Value
		found := false

		for j := 0; j < typ.NumField(); j++ {
			tag := strings.Split(typ.Field(j).Tag.Get("yaml"), ",")[0]
			if tag == part {
				fieldVal = v.Field(j)
				found = true
				break
			}
		}

		if !found {
			// Fallback: try case-insensitive field name match
			fieldVal = v.FieldByNameFunc(func(n string) bool {
				return strings.EqualFold(n, part)
			})
			if !fieldVal.IsValid() {
				return fmt.Errorf("field '%s' not found", part)
			}
		}

		v = fieldVal
	}

	if !v.CanSet() {
		return fmt.Errorf("cannot set field %s", path)
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(valStr)
	case reflect.Int, reflect.Int64:
		i, err := strconv.ParseInt(valStr, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer value: %s", valStr)
		}
		v.SetInt(i)
	case reflect.Float64:
		f, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			return fmt.Errorf("invalid number value: %s", valStr)
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(valStr)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %s", valStr)
		}
		v.SetBool(b)
	default:
		return fmt.Errorf("unsupported type %s for key %s", v.Kind(), path)
	}

	return nil
}
