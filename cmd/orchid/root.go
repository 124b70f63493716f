package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orchidlang/orchid"
	"github.com/orchidlang/orchid/diag"
)

// Version is set at build time.
var Version = "0.1.0"

var cfgFile string

// NewRootCmd creates the root command. Invoked without a subcommand it
// parses one file (or stdin) and writes the AST in the selected format.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orchid [file]",
		Short: "Orchid graph-description language tools",
		Long: `Orchid parses .orc files describing computation graphs and their
metadata. Without a subcommand it parses one file (or standard input when
the argument is "-" or absent) and prints the syntax tree.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd)
		},
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

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ~/.orchid.yaml)")
	flags.StringP("format", "f", "json", "output format (json|pretty)")
	flags.StringP("output", "o", "", "write output to this path instead of stdout")
	flags.Bool("error", false, "collect every diagnostic instead of stopping at the first error")
	flags.Bool("strict", false, "treat deprecated constructs as errors")
	flags.Bool("debug", false, "enable verbose logging and parse tracing")
	flags.Int("max-depth", 0, "maximum value nesting depth (0 means the default)")
	flags.Bool("color", true, "colorize diagnostics when writing to a terminal")

	for _, name := range []string{"format", "output", "error", "strict", "debug", "max-depth", "color"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newASTCmd())
	rootCmd.AddCommand(newFmtCmd())
	rootCmd.AddCommand(newCompileCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// initConfig layers defaults from ~/.orchid.yaml and ORCHID_* environment
// variables under the command-line flags.
func initConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".orchid")
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("ORCHID")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		// A missing default config file is fine; an explicit one that
		// cannot be read is not.
		return err
	}
	setupLogger(cmd.ErrOrStderr())
	return nil
}

var logger zerolog.Logger

func setupLogger(w io.Writer) {
	level := zerolog.WarnLevel
	if viper.GetBool("debug") {
		level = zerolog.TraceLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).
		Level(level).
		With().Timestamp().Logger()
}

// parseOptions translates the CLI configuration into facade options. The
// CLI default is fail-fast; --error enables collect-all mode.
func parseOptions(filename string) []orchid.Option {
	opts := []orchid.Option{orchid.WithLogger(logger)}
	if filename != "" && filename != "-" {
		opts = append(opts, orchid.WithFilename(filename))
	}
	if !viper.GetBool("error") {
		opts = append(opts, orchid.WithFailFast())
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

// readInput returns the source text and display name for the file
// argument, reading standard input for "-" or no argument.
func readInput(args []string) (source, filename string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return string(data), args[0], nil
}

// reportDiagnostics renders a parse failure to stderr. Errors that are
// not diagnostic collections print as plain messages.
func reportDiagnostics(err error, source string) {
	if collection, ok := err.(*diag.Collection); ok {
		f := diag.NewFormatter(useColor(os.Stderr))
		fmt.Fprint(os.Stderr, f.FormatAll(collection, source))
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

func reportWarnings(warnings []*diag.Diagnostic, source string) {
	if len(warnings) == 0 {
		return
	}
	f := diag.NewFormatter(useColor(os.Stderr))
	for _, w := range warnings {
		fmt.Fprint(os.Stderr, f.Format(w, source))
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the orchid version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "orchid", Version)
		},
	}
}
