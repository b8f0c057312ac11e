// Command bytecol encodes generated columns, moves them between goroutines
// and verifies what arrives.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "bytecol",
		Short: "bytecol - value column codec harness",
		Long: `bytecol encodes columns of mixed values into flat buffers, hands the
buffers to another goroutine and decodes them there. It reports the time
spent in every phase and checks that the decoded values match.`,
		SilenceUsage: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bytecol v%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
		},
	})
	root.AddCommand(newRoundtripCommand())

	return root
}
