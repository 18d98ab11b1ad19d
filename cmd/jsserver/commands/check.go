package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pjlast/jsserver/internal/ast"
	"github.com/pjlast/jsserver/internal/checker"
	jserrors "github.com/pjlast/jsserver/internal/errors"
	"github.com/pjlast/jsserver/internal/watch"
)

var watchFlag bool

var checkCmd = &cobra.Command{
	Use:   "check <program.json>",
	Short: "Infer types for a JSON-encoded program and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if err := runCheck(path); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}

		if !watchFlag {
			return nil
		}
		return watchAndRecheck(path)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&watchFlag, "watch", false, "re-check the program every time the file changes")
}

func runCheck(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return jserrors.IO("read "+path, err)
	}

	program, err := ast.DecodeProgram(data)
	if err != nil {
		return jserrors.IO("decode "+path, err)
	}

	results := checker.CheckProgram(checker.SeedEnvironment(), cfg, program)

	failed := false
	for i, r := range results {
		if r.Err != nil {
			failed = true
			fmt.Printf("[%d] error: %s\n", i, jserrors.FromCheckerError(r.Err).Error())
			continue
		}
		fmt.Printf("[%d] %s\n", i, r.Type)
	}
	if failed {
		return fmt.Errorf("%s: type checking failed", path)
	}
	return nil
}

func watchAndRecheck(path string) error {
	w, err := watch.New(150 * time.Millisecond)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	fmt.Fprintf(os.Stderr, "watching %s for changes (ctrl-c to stop)\n", path)
	for {
		select {
		case changed := <-w.Paths():
			fmt.Println("---")
			if err := runCheck(changed); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case err := <-w.Errors():
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
