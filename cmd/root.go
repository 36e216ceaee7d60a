// Package cmd holds the mango-meta command line.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vrsandeep/mango-meta/internal/config"
	"github.com/vrsandeep/mango-meta/internal/formats"
)

// app is the state shared by every subcommand once the root pre-run has
// loaded the configuration.
type app struct {
	v   *viper.Viper
	cfg *config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{v: config.New(), log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "mango-meta",
		Short: "Normalized metadata for comic archives, EPUBs and PDFs",
		Long: `mango-meta reads the metadata embedded in comic book archives
(ComicInfo.xml), EPUB package documents and PDF document info, and prints it
as one normalized book record.

Settings come from ./config.yml, MANGO_* environment variables (a .env file
is honoured) and flags, in increasing order of precedence.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default ./config.yml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "console", "log format: console or json")
	flags.Bool("pretty", false, "indent JSON output")
	a.bind("log.level", flags.Lookup("log-level"))
	a.bind("log.format", flags.Lookup("log-format"))
	a.bind("output.pretty", flags.Lookup("pretty"))

	cmd.AddCommand(newReadCmd(a))
	cmd.AddCommand(newCoverCmd(a))
	cmd.AddCommand(newScanCmd(a))
	cmd.AddCommand(newWatchCmd(a))
	cmd.AddCommand(newFormatsCmd(a))

	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		a.v.SetConfigFile(path)
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg

	log, err := newLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.log = log
	zap.ReplaceGlobals(log)

	formats.RegisterDefaults()
	return nil
}

// bind makes a flag override the configuration key when it is set.
func (a *app) bind(key string, flag *pflag.Flag) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func (a *app) writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if a.cfg.Output.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// newLogger builds a console (development) or JSON (production) logger at
// the given level. Logs go to stderr so JSON output stays clean.
func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var zc zap.Config
	switch format {
	case "json":
		zc = zap.NewProductionConfig()
	case "console", "":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	zc.Level = lvl
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
