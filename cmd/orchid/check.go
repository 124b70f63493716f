package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orchidlang/orchid"
	"github.com/orchidlang/orchid/diag"
)

// newCheckCmd validates files without printing their syntax trees. Unlike
// the other commands it always collects every diagnostic, and it accepts
// multiple files so a whole project can be checked in one run.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [files...]",
		Short: "Validate .orc files and report diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			var result *multierror.Error
			for _, path := range args {
				if err := checkFile(cmd, path); err != nil {
					result = multierror.Append(result, err)
				}
			}
			return result.ErrorOrNil()
		},
	}
}

func checkFile(cmd *cobra.Command, path string) error {
	source, filename, err := readInput([]string{path})
	if err != nil {
		return err
	}
	collection, err := orchid.Check(cmd.Context(), source, checkOptions(filename)...)
	if err != nil {
		return err
	}
	if collection.IsEmpty() {
		return nil
	}
	f := diag.NewFormatter(useColor(os.Stderr))
	fmt.Fprint(os.Stderr, f.FormatAll(collection, source))
	if collection.HasErrors() {
		if filename == "" {
			filename = "<stdin>"
		}
		return fmt.Errorf("%s: %w", filename, collection)
	}
	return nil
}

// checkOptions mirrors parseOptions but never enables fail-fast: check
// exists to report everything wrong with a file at once.
func checkOptions(filename string) []orchid.Option {
	opts := []orchid.Option{orchid.WithLogger(logger)}
	if filename != "" && filename != "-" {
		opts = append(opts, orchid.WithFilename(filename))
	}
	if viper.GetBool("strict") {
		opts = append(opts, orchid.WithStrictDeprecated())
	}
	if viper.GetBool("debug") {
		opts = append(opts, orchid.WithDebug())
	}
	if depth := viper.GetInt("max-depth"); depth > 0 {
		opts = append(opts, orchid.WithMaxDepth(depth))
	}
	return opts
}
