package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/legendsbarber/seqfold/internal/builtin"
	"github.com/legendsbarber/seqfold/internal/config"
	"github.com/legendsbarber/seqfold/internal/store"
)

// RootOptions holds global flags for all commands. The fields are filled
// from the resolved config before any command runs.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	DB         string
	ConfigFile string

	Registry *builtin.Registry
	Logger   *logrus.Logger

	viper *viper.Viper
}

// ValidFormats defines the allowed output formats.
var ValidFormats = config.ValidFormats

// NewRootCommand creates the root command for the seqfold CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{
		Registry: builtin.Default(),
		Logger:   logrus.New(),
		viper:    config.New(),
	}

	cmd := &cobra.Command{
		Use:   "seqfold",
		Short: "seqfold - reduce and map with holes",
		Long: `Evaluate reduce and map over sparse sequences, run conformance
scenarios against them, and keep a replayable log of every run.

Settings come from flags, SEQFOLD_* environment variables
(SEQFOLD_DB, SEQFOLD_FORMAT, SEQFOLD_LOG_LEVEL) and --config, in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.DB, "db", "", "path to the SQLite run store")
	flags.String("log-level", "warning", "log level (debug|info|warning|error)")
	flags.StringVar(&opts.ConfigFile, "config", "", "path to a YAML config file")

	// Add subcommands
	cmd.AddCommand(NewReduceCommand(opts))
	cmd.AddCommand(NewMapCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))
	cmd.AddCommand(NewBuiltinsCommand(opts))

	return cmd
}

// load resolves flags, environment and config file, then sets up logging.
func (o *RootOptions) load(cmd *cobra.Command) error {
	if err := config.BindFlags(o.viper, cmd.Root().PersistentFlags()); err != nil {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}
	cfg, err := config.Load(o.viper, o.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	o.Verbose = cfg.Verbose
	o.Format = cfg.Format
	o.DB = cfg.DB

	o.Logger.SetOutput(cmd.ErrOrStderr())
	o.Logger.SetFormatter(&prefixed.TextFormatter{FullTimestamp: true})
	o.Logger.SetLevel(cfg.Level())
	return nil
}

// log returns a component logger.
func (o *RootOptions) log(component string) *logrus.Entry {
	return o.Logger.WithField("component", component)
}

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// openStore opens the run store. required reports whether a missing --db
// is an error; otherwise a nil store is returned.
func (o *RootOptions) openStore(required bool) (*store.Store, error) {
	if o.DB == "" {
		if required {
			return nil, NewExitError(ExitCommandError, "database path required (--db or SEQFOLD_DB)")
		}
		return nil, nil
	}
	st, err := store.Open(o.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to open database %s", o.DB), err)
	}
	return st, nil
}
