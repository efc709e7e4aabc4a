package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/agent-eval/internal/testcase"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Validate suite files without running them",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{defaultSuitesDir}
			}

			failed := 0
			for _, path := range paths {
				suites, err := loadSuitePath(path)
				if err != nil {
					failed++
					cmd.Printf("%s: %v\n", path, err)
					continue
				}
				for _, s := range suites {
					cmd.Printf("%s: suite %q ok (%d tools, %d cases)\n", path, s.Suite, len(s.Tools), len(s.Cases))
				}
			}
			if failed > 0 {
				return fmt.Errorf("validate: %d path(s) failed", failed)
			}
			return nil
		},
	}
}

func loadSuitePath(path string) ([]*testcase.Suite, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return testcase.LoadFromDir(path)
	}
	s, err := testcase.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return []*testcase.Suite{s}, nil
}
