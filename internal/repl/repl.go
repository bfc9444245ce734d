// Package repl implements the interactive read-eval-print loop used when
// quill is invoked with no script argument.
package repl

import (
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"quill/internal/cli"
)

// Run drives the interactive loop against runner until EOF (Ctrl-D) or an
// interrupt (Ctrl-C on an empty line).
func Run(runner *cli.Runner) error {
	rl, err := readline.New("quill> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if line == "" {
			continue
		}
		runner.RunSource(line)
	}

	fmt.Println()
	return nil
}
