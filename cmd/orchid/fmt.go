package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/orchidlang/orchid"
	"github.com/orchidlang/orchid/format"
)

// newFmtCmd rewrites files in canonical form. Formatting refuses input
// with syntax errors rather than guessing at the author's intent.
func newFmtCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Format .orc files in canonical style",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			if write && args[0] == "-" {
				return fmt.Errorf("cannot use -w with standard input")
			}
			var result *multierror.Error
			for _, path := range args {
				if err := formatFile(cmd, path, write); err != nil {
					result = multierror.Append(result, err)
				}
			}
			return result.ErrorOrNil()
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the source file")
	return cmd
}

func formatFile(cmd *cobra.Command, path string, write bool) error {
	source, filename, err := readInput([]string{path})
	if err != nil {
		return err
	}
	result, err := orchid.Parse(cmd.Context(), source, checkOptions(filename)...)
	if err != nil {
		reportDiagnostics(err, source)
		if filename == "" {
			filename = "<stdin>"
		}
		return fmt.Errorf("%s: not formatted", filename)
	}
	formatted := format.Module(result.Module)
	if !write {
		_, err := fmt.Fprint(cmd.OutOrStdout(), formatted)
		return err
	}
	if formatted == source {
		return nil
	}
	return os.WriteFile(filename, []byte(formatted), 0o644)
}
