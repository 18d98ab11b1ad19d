package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the jsserver version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jsserver %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}
