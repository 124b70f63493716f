package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orchidlang/orchid"
)

// newASTCmd is the explicit form of the root command's default behavior.
func newASTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ast [file]",
		Short: "Parse a file and print its syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := readInput(args)
			if err != nil {
				return err
			}
			result, err := orchid.Parse(cmd.Context(), source, parseOptions(filename)...)
			if err != nil {
				reportDiagnostics(err, source)
				return err
			}
			reportWarnings(result.Warnings, source)
			return writeAST(result.Module, viper.GetString("format"), viper.GetString("output"))
		},
	}
}
