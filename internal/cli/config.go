package cli

import (
	"errors"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const appName = "fmtrank"

const (
	keyFormat          = "format"
	keyListFormats     = "list_formats"
	keyLanguages       = "languages"
	keyFieldPreference = "field_preference"
	keyMatchFilter     = "match_filter"
	keyJSON            = "json"
	keyNoColor         = "no_color"
	keyVerbose         = "verbose"
	keyLogLevel        = "log.level"
	keyLogJSON         = "log.json"
)

// envKeyReplacer maps nested config keys to environment names, e.g.
// log.level -> FMTRANK_LOG_LEVEL.
var envKeyReplacer = strings.NewReplacer(".", "_")

var defaults = map[string]any{
	keyFormat:          "best",
	keyListFormats:     false,
	keyLanguages:       []string{},
	keyFieldPreference: []string{},
	keyMatchFilter:     "",
	keyJSON:            false,
	keyNoColor:         false,
	keyVerbose:         false,
	keyLogLevel:        "warn",
	keyLogJSON:         false,
}

// setupConfig wires defaults, FMTRANK_* environment variables and the
// optional fmtrank.yaml file into v. An explicit configFile must exist;
// otherwise a missing file is not an error.
func setupConfig(v *viper.Viper, fs afero.Fs, configFile string) error {
	v.SetFs(fs)
	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	for name, value := range defaults {
		v.SetDefault(name, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/" + appName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}
