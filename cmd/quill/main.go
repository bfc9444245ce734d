// Command quill is the command-line driver: run a script file, or drop
// into an interactive REPL when no script is given.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/cli"
	"quill/internal/repl"
)

var (
	traceExec bool
	verbose   bool
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quill [script]",
		Short: "Compile and run quill scripts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := cli.New(traceExec, verbose)
			defer runner.Close()

			if len(args) == 0 {
				return repl.Run(runner)
			}
			runner.RunFile(args[0])
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&traceExec, "trace", false, "trace each instruction as it executes")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the quill version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("quill 0.1.0")
		},
	}
}
