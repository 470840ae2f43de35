package hookcmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/recall/cmd/recall/cmdenv"
	"github.com/papercomputeco/recall/pkg/memory/local"
	"github.com/papercomputeco/recall/pkg/spawn"
	"github.com/papercomputeco/recall/pkg/synthesis"
)

const sessionStartLongDesc string = `Trigger background synthesis when it is due.

Synthesis is launched as a detached "recall synthesize" process when
collection is enabled, the synthesis interval has elapsed since the last run
and at least one session record is waiting. The hook never waits for it and
always exits successfully.`

const sessionStartShortDesc string = "Trigger background synthesis when due"

type sessionStartCommander struct {
	launcher func(env *cmdenv.Env) synthesis.LaunchFunc
}

func newSessionStartCmd() *cobra.Command {
	cmder := &sessionStartCommander{launcher: detachedSynthesis}

	cmd := &cobra.Command{
		Use:   "session-start",
		Short: sessionStartShortDesc,
		Long:  sessionStartLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.run(cmd)
			return nil
		},
	}

	return cmd
}

func (c *sessionStartCommander) run(cmd *cobra.Command) {
	env, err := cmdenv.Resolve(cmd)
	if err != nil {
		return
	}

	log, closeLog := env.HookLogger(cmd.ErrOrStderr(), "session-start")
	defer closeLog()

	cfg := env.LoadConfig(log)
	store := local.NewStore(env.Layout.SessionsDir, log)

	d := synthesis.NewScheduler(
		store,
		env.Layout.StatePath,
		cfg.SynthesisInterval(),
		cfg.Enabled,
		c.launcher(env),
		log,
	).Check(cmd.Context())

	log.Debug("synthesis schedule checked",
		"enabled", d.Enabled,
		"due", d.Due,
		"pending", d.Pending,
		"triggered", d.Triggered,
	)
}

// detachedSynthesis re-executes this binary as "recall synthesize
// --background" in its own session.
func detachedSynthesis(env *cmdenv.Env) synthesis.LaunchFunc {
	args := []string{"synthesize", "--background", "--" + cmdenv.FlagClaudeHome, env.Layout.Home}
	if env.Debug {
		args = append(args, "--"+cmdenv.FlagDebug)
	}

	d := &spawn.Detached{Args: args}
	return d.Start
}
