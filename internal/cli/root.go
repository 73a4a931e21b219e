// Package cli implements the fmtrank command line.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/famomatic/fmtrank/resolver"
)

// NewRootCommand builds the fmtrank command reading candidate files from fs.
func NewRootCommand(fs afero.Fs) *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   appName + " [flags] FILE",
		Short: "Rank media formats and pick the best match for a selector",
		Long: `Rank the candidate formats of a media item and select the ones matching a
format expression. FILE is a JSON or YAML document holding a list of format
records or an object with a "formats" list. Use "-" to read from stdin.

Examples:
  fmtrank formats.json                             # best format
  fmtrank -f 'bestvideo+bestaudio/best' info.json  # merged streams with fallback
  fmtrank -F -S fps,res formats.yaml               # list formats, fps first
  cat info.json | fmtrank --match-filter 'f.protocol != "rtmp"' -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return setupConfig(v, fs, configFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, fs, OptionsFromViper(v, args[0]))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "Config file (default ./fmtrank.yaml or ~/.config/fmtrank/fmtrank.yaml)")
	flags.StringP("format", "f", "best", "Format selection expression")
	flags.BoolP("list-formats", "F", false, "List ranked formats, highlighting the selection")
	flags.StringSlice("languages", nil, "Preferred languages, most preferred first")
	flags.StringSliceP("field-preference", "S", nil, "Sort fields compared after preference (e.g. res,fps,codec)")
	flags.String("match-filter", "", "JavaScript expression over f that a format must satisfy")
	flags.BoolP("json", "j", false, "Print the selected formats as JSON")
	flags.Bool("no-color", false, "Disable colored output")
	flags.BoolP("verbose", "v", false, "Print debugging information")
	flags.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	flags.Bool("log-json", false, "Log as JSON")

	for key, flag := range map[string]string{
		keyFormat:          "format",
		keyListFormats:     "list-formats",
		keyLanguages:       "languages",
		keyFieldPreference: "field-preference",
		keyMatchFilter:     "match-filter",
		keyJSON:            "json",
		keyNoColor:         "no-color",
		keyVerbose:         "verbose",
		keyLogLevel:        "log-level",
		keyLogJSON:         "log-json",
	} {
		lo.Must0(v.BindPFlag(key, flags.Lookup(flag)))
	}

	cmd.AddCommand(newSchemaCommand())
	return cmd
}

func run(cmd *cobra.Command, fs afero.Fs, opts Options) error {
	if opts.NoColor {
		color.NoColor = true
	}
	logger := newLogger(opts, cmd.ErrOrStderr())

	r, err := resolver.New(ToResolverConfig(opts, logger))
	if err != nil {
		return err
	}

	records, err := LoadRecords(fs, opts.Input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	logger.Debugf("loaded %d candidate record(s) from %s", len(records), opts.Input)

	normalized, err := r.Normalize(records)
	if err != nil {
		return err
	}
	selected, err := r.Select(normalized, opts.FormatSelector)
	if err != nil && !(opts.ListFormats && resolver.ClassifyError(err) == resolver.ErrorCategoryNoFormatAvailable) {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case opts.ListFormats:
		printFormatTable(out, r.Sort(normalized), selected)
		return nil
	case opts.PrintJSON:
		return printJSON(out, selected)
	default:
		printSelected(out, selected)
		return nil
	}
}

// Execute runs the command line against the OS filesystem and exits non-zero
// on failure.
func Execute() {
	rootCmd := NewRootCommand(afero.NewOsFs())
	if !color.NoColor {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error[%s]:", errorLabel(err)), err)
		os.Exit(1)
	}
}

func errorLabel(err error) string {
	if category := resolver.ClassifyError(err); category != resolver.ErrorCategoryUnknown {
		return string(category)
	}
	return "fmtrank"
}
