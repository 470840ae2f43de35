package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/recall/cmd/recall/cmdenv"
	"github.com/papercomputeco/recall/pkg/cliui"
	"github.com/papercomputeco/recall/pkg/config"
)

const setLongDesc string = `Set a configuration value.

Sets the given key to the provided value in memory-config.toml, creating the
file with defaults when it does not exist. Environment overrides are never
written to the file.

Valid keys:
  enabled, min_messages, categories,
  synthesis_interval_hours, max_memories_per_category, cleanup_after_days,
  oracle.provider, oracle.model, oracle.base_url, oracle.timeout_seconds

Examples:
  recall config set min_messages 3
  recall config set oracle.provider anthropic
  recall config set categories ""`

const setShortDesc string = "Set a configuration value"

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdenv.Resolve(cmd)
			if err != nil {
				return err
			}
			return runSet(cmd.OutOrStdout(), args[0], args[1], env.Layout.ConfigPath)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	return cmd
}

func runSet(w io.Writer, key, value, path string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}

	if err := config.SetConfigValue(path, key, value); err != nil {
		return err
	}

	fmt.Fprintf(w, "  %s Set %s = %s\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(key),
		cliui.ValueStyle.Render(value),
	)
	return nil
}
