// Package cli implements the ddi command line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rxcheck/ddi/internal/bootstrap"
	"github.com/rxcheck/ddi/internal/config"
	"github.com/rxcheck/ddi/internal/util"
	"github.com/rxcheck/ddi/pkg/logger"
	"github.com/rxcheck/ddi/pkg/logger/console"

	"github.com/spf13/cobra"
)

type options struct {
	snapshot  string
	encoder   string
	reasoning bool
	debug     bool

	cfg config.Config
}

// NewRootCmd builds the command tree. Flags override the environment.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "ddi",
		Short:         "ddi: drug-drug interaction checks against a curated snapshot",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			util.LoadEnv()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("snapshot") {
				cfg.SnapshotURI = opts.snapshot
			}
			if flags.Changed("encoder") {
				cfg.Encoder = opts.encoder
			}
			if flags.Changed("reasoning") {
				cfg.Reasoning.Enabled = opts.reasoning
			}
			if flags.Changed("debug") {
				cfg.Log.Debug = opts.debug
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
				Debug:  cfg.Log.Debug,
				Level:  cfg.Log.Level,
				JSON:   cfg.Log.JSON,
				Output: cmd.ErrOrStderr(),
			}))
			opts.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.snapshot, "snapshot", "s", "", "snapshot path or s3://bucket/key (overrides SNAPSHOT_URI)")
	rootCmd.PersistentFlags().StringVar(&opts.encoder, "encoder", "", "tfidf, openai, ollama or none (overrides ENCODER)")
	rootCmd.PersistentFlags().BoolVar(&opts.reasoning, "reasoning", false, "enable the reasoning service (overrides REASONING_ENABLED)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newDrugsCmd(opts))
	rootCmd.AddCommand(newValidateCmd(opts))

	return rootCmd
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func buildApp(cmd *cobra.Command, opts *options) (*bootstrap.App, error) {
	return bootstrap.Build(cmd.Context(), opts.cfg, nil)
}
