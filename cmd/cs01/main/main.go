package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/cs01/cmd/cs01"
	"github.com/charmbracelet/lipgloss"
)

func main() {
	rootCmd := cs01.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print the error in red
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"})
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
