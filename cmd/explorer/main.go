// Command explorer runs the Block And Play explorer API and ships client-side
// tools to watch and crawl it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blockandplay/explorer/pkg/logging"
)

// Set via -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
)

type rootOptions struct {
	logLevel string
	pretty   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "explorer",
		Short:         "Block And Play explorer API and client tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := logging.ParseLevel(opts.logLevel); err != nil {
				return err
			}
			logging.Setup(logging.Config{
				Level:  opts.logLevel,
				Pretty: opts.pretty,
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "human-readable console logs")

	root.AddCommand(
		newServeCmd(opts),
		newWatchCmd(),
		newCrawlCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
