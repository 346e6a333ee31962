package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/reporter/internal/config"
	"github.com/roach88/reporter/internal/logging"
)

// RootOptions holds global flags for all commands, resolved against the
// config file and environment before any command runs.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	LogFormat  string // "json" | "text"
	ConfigFile string

	// Scenarios is the default scenario directory for the test command.
	Scenarios string
}

// NewRootCommand creates the root command for the reporter CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "reporter",
		Short: "Reporter - lazy-chunk self-diagnostics",
		Long: `Run the extension self-diagnostic against a simulated host.

The reporter waits for the host to finish bootstrapping, forces every lazy
chunk to load, then reports patches that matched no module and recorded
searches that no longer resolve.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.DefaultFormat, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", config.DefaultLogFormat, "verbose log format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default: reporter.yaml in the working directory)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// resolve layers flags over the environment, config file and defaults.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigFile, cmd.Flags())
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	o.Verbose = cfg.Verbose
	o.Format = cfg.Format
	o.LogFormat = cfg.LogFormat
	o.Scenarios = cfg.Scenarios
	return nil
}

// logger returns the progress logger: debug records on w when verbose,
// nothing otherwise.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	if !o.Verbose {
		return logging.Discard()
	}
	return logging.New(w, true, o.LogFormat)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
