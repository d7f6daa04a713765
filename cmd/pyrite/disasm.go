package main

import (
	"github.com/spf13/cobra"

	"pyrite/internal/bytecode"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <file>",
	Short: "Disassemble an encoded code object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := bytecode.ReadFile(args[0])
		if err != nil {
			return err
		}
		return bytecode.Disasm(cmd.OutOrStdout(), code)
	},
}
