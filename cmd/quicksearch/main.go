package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/petervflocke/quicksearch/internal/cmd"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Zero matches exits 1 without noise so shell pipelines can
		// branch on it; real failures report on stderr and exit 2.
		if errors.Is(err, cmd.ErrNoMatches) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
