package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spigell/resume-screener/internal/ai/openrouter"
	"github.com/spigell/resume-screener/internal/screening"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the built-in screening defaults",
	Run: func(cmd *cobra.Command, _ []string) {
		printVersion(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s version: %s\n", app, version)
	fmt.Fprintf(w, "user agent: %s/%s\n", app, version)
	fmt.Fprintf(w, "default model: %s\n", screening.DefaultModel)
	fmt.Fprintf(w, "openrouter api: %s\n", openrouter.DefaultAPIURL)
}
