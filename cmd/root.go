// Package cmd is the command-line front end: a thin cobra wrapper that
// exposes the bftw engine's configuration knobs and prints discovered
// paths. It deliberately has no predicate/action language of its own
// (see SPEC_FULL.md §1, §13); that's out of scope for this module.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bfind [paths...]",
	Short: "Walk one or more directory trees",
	Long: "bfind walks one or more directory trees using the bftw engine, " +
		"printing one path per discovered entry.",
	RunE: runWalk,
}

func init() {
	registerWalkFlags(rootCmd)
}

// Execute runs the root command, exiting the process on error the way
// cobra-based CLIs in the corpus do.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
