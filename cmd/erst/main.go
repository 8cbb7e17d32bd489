// Command erst translates EPUB novels with LLM backends: it extracts
// the container, decomposes each content document into translatable
// segments, runs size-bounded chunks through a provider, and reinjects
// the translations into the original markup.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "erst",
	Short:         "AI translation for EPUB books",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(translateCmd, keysCmd, modelsCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
