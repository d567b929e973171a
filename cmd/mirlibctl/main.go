package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "mirlibctl",
		Short: "mirlib command-line client and server",
		Long: `mirlibctl drives mirlib's meter-radio protocol from the command line:
query a meter as a client, serve sample fixtures as a server, or run a
self-test transacting both roles over an in-process loopback.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newClientCmd())
	rootCmd.AddCommand(newServerCmd())
	rootCmd.AddCommand(newSelftestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mirlibctl version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(os.Stdout, version)
			return nil
		},
	}
}
