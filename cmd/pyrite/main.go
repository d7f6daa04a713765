// Package main implements the pyrite CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pyrite/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "pyrite",
	Short: "Pyrite bytecode-to-IR translator",
	Long:  `Pyrite lowers stack-machine code objects into typed IR for native code generation`,
}

func main() {
	// Version for the automatic --version flag.
	rootCmd.Version = version.Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(disasmCmd)
	rootCmd.AddCommand(versionCmd)

	// Global flags.
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
