// Command vireo-demo hosts a small counter-and-list application end to end
// through the engine package, exercising the full reactive → layout → frame
// → render pipeline against a real terminal (§4.G).
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}
