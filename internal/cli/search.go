package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <ticker>",
	Short: "Search the record file for one ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession(commandContext(cmd), cfg, cmd.OutOrStdout())

		stop := onInterrupt(func() { s.app.Cancel() })
		s.app.Search(args[0])
		s.close()
		stop()

		if s.terminal.Status() == "" {
			return errNoResult
		}
		return nil
	},
}

var multiCmd = &cobra.Command{
	Use:   "multi <tickers>",
	Short: "Fetch several tickers concurrently",
	Long: `Fetch several tickers concurrently.

Tickers are separated by commas or spaces, e.g. "AAPL,MSFT GOOG". The whole
batch fails if any ticker fails or the deadline (MULTI_DEADLINE) passes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession(commandContext(cmd), cfg, cmd.OutOrStdout())

		stop := onInterrupt(func() { s.app.Cancel() })
		s.app.SearchMulti(strings.Join(args, " "))
		s.close()
		stop()

		if s.terminal.Status() == "" {
			return errNoResult
		}
		return nil
	},
}
