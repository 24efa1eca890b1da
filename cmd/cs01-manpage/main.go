package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/cs01/cmd/cs01"
)

func main() {
	rootCmd := cs01.NewRootCmd()

	err := doc.GenMan(rootCmd, cs01.ManHeader(), os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
