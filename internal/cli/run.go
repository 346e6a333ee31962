package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/reporter/internal/harness"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	RunID     string
	TimeoutMS int
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run the reporter against a scenario's host",
		Long: `Build the simulated host described by the scenario's bundle, register the
scenario's patches and search history, run the reporter and print its
diagnostic log.

The reporter is fire-and-forget: failures it finds are printed, not turned
into a non-zero exit. Interrupting a run that never completes prints the log
so far without a completion marker.

Example:
  reporter run ./scenarios/found_and_missing.yaml
  reporter run ./scenarios/found_and_missing.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReporter(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "fixed run id (default: the scenario's run_id)")
	cmd.Flags().IntVar(&opts.TimeoutMS, "timeout-ms", 0, "wait bound for the host (default: the scenario's timeout_ms)")

	return cmd
}

func runReporter(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		_ = formatter.Error(ErrCodeScenario, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	if opts.RunID != "" {
		scenario.RunID = opts.RunID
	}
	if opts.TimeoutMS > 0 {
		scenario.TimeoutMS = opts.TimeoutMS
	}

	formatter.VerboseLog("Running %s against %s", scenario.Name, scenario.Bundle)

	result, err := harness.RunContext(cmd.Context(), scenario, harness.WithLogger(opts.logger(cmd.ErrOrStderr())))
	if err != nil {
		_ = formatter.Error(ErrCodeScenarioRun, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	if formatter.JSON() {
		return formatter.Encode(CLIResponse{Status: "ok", Data: result, RunID: result.RunID})
	}

	w := cmd.OutOrStdout()
	for _, line := range result.Lines {
		fmt.Fprintln(w, line)
	}
	if !result.Completed && result.Fatal == "" {
		formatter.VerboseLog("Run %s did not complete", result.RunID)
	}
	return nil
}
