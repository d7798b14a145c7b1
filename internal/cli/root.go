// Package cli - stockanalyzer commands
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"stockanalyzer/internal/config"
	"stockanalyzer/internal/logger"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
)

// errNoResult is returned when an operation ended without a status line,
// meaning it failed; the reason is already printed as a note.
var errNoResult = errors.New("search did not produce a result")

var rootCmd = &cobra.Command{
	Use:   "stockanalyzer",
	Short: "Load historical stock prices for one or more tickers",
	Long: `Load historical stock prices for one or more tickers.

A single-ticker search streams the record file and can be cancelled while it
reads. A multi-ticker search fetches every ticker concurrently and fails as a
whole if any ticker fails or the batch deadline passes.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(multiCmd)
	rootCmd.AddCommand(interactiveCmd)
}

// initConfig loads .env, the configuration and the logger
func initConfig(cmd *cobra.Command, args []string) error {
	envErr := godotenv.Load()

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Level: level, Format: cfg.LogFormat}); err != nil {
		return err
	}

	if envErr != nil {
		log.Debug().Msg(".env file not found, using environment variables")
	}
	return nil
}

// onInterrupt calls cancel on SIGINT or SIGTERM until the returned stop
// func is called.
func onInterrupt(cancel func()) (stop func()) {
	sigChan := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			log.Info().Msg("received interrupt signal, cancelling")
			cancel()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
