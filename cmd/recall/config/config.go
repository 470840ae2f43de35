// Package configcmder provides the config command for managing the persistent
// recall configuration stored in memory-config.toml.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent recall configuration.

Configuration is stored as memory-config.toml in <claude-home>/memory/ and
is read by the hooks on every run. RECALL_ environment variables (for
example RECALL_MIN_MESSAGES or RECALL_ORACLE_PROVIDER) override file values.

Keys use dotted notation matching the TOML section structure:
  enabled, min_messages, categories,
  synthesis_interval_hours, max_memories_per_category, cleanup_after_days,
  oracle.provider, oracle.model, oracle.base_url, oracle.timeout_seconds

Use subcommands to get, set, or list configuration values:
  recall config set <key> <value>    Set a configuration value
  recall config get <key>            Get a configuration value
  recall config list                 List all configuration values

Examples:
  recall config set oracle.provider ollama
  recall config set categories preferences,technical_style
  recall config get min_messages
  recall config list`

const configShortDesc string = "Manage persistent recall configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
