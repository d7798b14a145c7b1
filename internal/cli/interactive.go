package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"stockanalyzer/internal/report"
)

const interactiveHelp = `commands:
  search <ticker>      search the record file; repeat while running to cancel
  multi <tickers>      fetch several tickers; repeat while running to cancel
  cancel               cancel the running search
  status               show the last status line and button labels
  notes                show all notes
  quit                 exit`

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Read search commands from standard input",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession(commandContext(cmd), cfg, cmd.OutOrStdout())
		defer s.close()

		stop := onInterrupt(func() { s.app.Cancel() })
		defer stop()

		return runInteractive(s, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// runInteractive dispatches one command per input line until quit or EOF.
func runInteractive(s *session, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, interactiveHelp)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		verb, rest, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		rest = strings.TrimSpace(rest)

		switch verb {
		case "":
		case "search":
			if rest == "" {
				fmt.Fprintln(out, "usage: search <ticker>")
				continue
			}
			s.app.Search(rest)
		case "multi":
			if rest == "" {
				fmt.Fprintln(out, "usage: multi <tickers>")
				continue
			}
			s.app.SearchMulti(rest)
		case "cancel":
			if !s.app.Cancel() {
				fmt.Fprintln(out, "nothing to cancel")
			}
		case "status":
			fmt.Fprintf(out, "status: %s\n[%s] [%s]\n",
				s.terminal.Status(),
				s.terminal.Label(report.KindSingle),
				s.terminal.Label(report.KindMulti))
		case "notes":
			fmt.Fprint(out, s.terminal.Notes())
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q\n", verb)
		}
	}
	return scanner.Err()
}
