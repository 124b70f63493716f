package main

import (
	"encoding/json"
	"os"

	prettyjson "github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orchidlang/orchid"
	"github.com/orchidlang/orchid/compile"
)

// newCompileCmd lowers a validated module into the artifact format that
// downstream graph runtimes consume.
func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a file into a runtime artifact",
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
			artifact, err := compile.Compile(result.Module)
			if err != nil {
				return err
			}
			outPath := viper.GetString("output")
			var data []byte
			if viper.GetString("format") == "pretty" && outPath == "" && isatty.IsTerminal(os.Stdout.Fd()) {
				data, err = prettyjson.Marshal(artifact)
			} else {
				data, err = json.MarshalIndent(artifact, "", "  ")
			}
			if err != nil {
				return err
			}
			return writeOutput(append(data, '\n'), outPath)
		},
	}
}
