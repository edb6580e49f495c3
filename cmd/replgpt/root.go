package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/minhyannv/replgpt-go/pkg/config"
	"github.com/minhyannv/replgpt-go/pkg/logger"
	"github.com/minhyannv/replgpt-go/pkg/repl"
	"github.com/minhyannv/replgpt-go/pkg/version"
)

var (
	flagConfig   string
	flagVerbose  bool
	flagStream   bool
	flagAutoEval string
)

var rootCmd = &cobra.Command{
	Use:   "replgpt",
	Short: "LLM-enhanced JavaScript REPL",
	Long: `replgpt is an interactive REPL that mixes local code execution with an
LLM conversation. Lines that parse as JavaScript run in a persistent
session; everything else goes to the model together with the code you
have run, its output, and any files you load into context.

Requires OPENAI_API_KEY in the environment or a .env file.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("replgpt %s\n", version.String()))

	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Config file path (default ~/.config/replgpt/config.yaml)")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Verbose debug logging")
	rootCmd.Flags().BoolVar(&flagStream, "stream", true, "Stream assistant output")
	rootCmd.Flags().StringVar(&flagAutoEval, "auto-eval", "", "Strategy for suggested code: always, never, or infer")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("stream") {
		cfg.Stream = flagStream
	}
	if cmd.Flags().Changed("auto-eval") {
		cfg.AutoEval = flagAutoEval
	}
	cfg.Verbose = flagVerbose

	cfg, err = config.Normalize(cfg)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	var log logger.Logger = logger.NopLogger{}
	if cfg.Verbose {
		log = logger.NewWriterLogger(os.Stderr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := repl.New(cfg, repl.WithLogger(log))
	if err != nil {
		return err
	}
	return r.Run(ctx)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
