// aiwatch crawls AI news sources, canonicalizes what it finds, and
// serves digests of the result.
package main

import (
	"fmt"
	"os"

	"github.com/jonesrussell/aiwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
