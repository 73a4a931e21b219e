package cli

import (
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/famomatic/fmtrank/resolver"
)

// Options holds the effective command-line options after flags, environment
// and config file have been merged.
type Options struct {
	// Input
	Input string // FILE argument, "-" for stdin

	// Selection
	FormatSelector  string   // -f, --format
	ListFormats     bool     // -F, --list-formats
	Languages       []string // --languages
	FieldPreference []string // -S, --field-preference
	MatchFilter     string   // --match-filter

	// Output
	PrintJSON bool // -j, --json
	NoColor   bool // --no-color

	// Verbosity / Debug
	Verbose  bool
	LogLevel string // --log-level
	LogJSON  bool   // --log-json
}

// OptionsFromViper reads Options from a configured viper instance.
func OptionsFromViper(v *viper.Viper, input string) Options {
	return Options{
		Input:           input,
		FormatSelector:  strings.TrimSpace(v.GetString(keyFormat)),
		ListFormats:     v.GetBool(keyListFormats),
		Languages:       parseList(v.Get(keyLanguages)),
		FieldPreference: parseList(v.Get(keyFieldPreference)),
		MatchFilter:     strings.TrimSpace(v.GetString(keyMatchFilter)),
		PrintJSON:       v.GetBool(keyJSON),
		NoColor:         v.GetBool(keyNoColor),
		Verbose:         v.GetBool(keyVerbose),
		LogLevel:        v.GetString(keyLogLevel),
		LogJSON:         v.GetBool(keyLogJSON),
	}
}

// ToResolverConfig converts Options to resolver.Config.
func ToResolverConfig(opts Options, logger resolver.Logger) resolver.Config {
	return resolver.Config{
		Languages:       opts.Languages,
		FieldPreference: opts.FieldPreference,
		MatchFilter:     opts.MatchFilter,
		Logger:          logger,
	}
}

// parseList accepts a list or a comma separated string (as set through the
// environment) and returns the trimmed, de-duplicated entries.
func parseList(raw any) []string {
	var parts []string
	for _, item := range cast.ToStringSlice(raw) {
		parts = append(parts, strings.Split(item, ",")...)
	}
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
