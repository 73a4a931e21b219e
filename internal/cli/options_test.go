package cli

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

func TestOptions(t *testing.T) {
	Convey("Options", t, func() {
		Convey("parseList should split, trim and dedupe", func() {
			So(parseList("en, de,,en"), ShouldResemble, []string{"en", "de"})
			So(parseList([]string{"res", "fps,codec"}), ShouldResemble, []string{"res", "fps", "codec"})
			So(parseList([]any{"lang", "size"}), ShouldResemble, []string{"lang", "size"})
			So(parseList(nil), ShouldBeEmpty)
		})

		Convey("OptionsFromViper should apply defaults", func() {
			v := viper.New()
			So(setupConfig(v, afero.NewMemMapFs(), ""), ShouldBeNil)
			opts := OptionsFromViper(v, "in.json")
			So(opts.Input, ShouldEqual, "in.json")
			So(opts.FormatSelector, ShouldEqual, "best")
			So(opts.LogLevel, ShouldEqual, "warn")
			So(opts.Languages, ShouldBeEmpty)
			So(opts.ListFormats, ShouldBeFalse)
		})

		Convey("OptionsFromViper should read nested and list keys from the environment", func() {
			t.Setenv("FMTRANK_LANGUAGES", "pt-BR,en")
			t.Setenv("FMTRANK_LOG_JSON", "true")
			v := viper.New()
			So(setupConfig(v, afero.NewMemMapFs(), ""), ShouldBeNil)
			opts := OptionsFromViper(v, "-")
			So(opts.Languages, ShouldResemble, []string{"pt-BR", "en"})
			So(opts.LogJSON, ShouldBeTrue)
		})

		Convey("ToResolverConfig should carry the selection settings", func() {
			opts := Options{Languages: []string{"en"}, FieldPreference: []string{"fps"}, MatchFilter: "f.height > 0"}
			cfg := ToResolverConfig(opts, nil)
			So(cfg.Languages, ShouldResemble, []string{"en"})
			So(cfg.FieldPreference, ShouldResemble, []string{"fps"})
			So(cfg.MatchFilter, ShouldEqual, "f.height > 0")
			So(cfg.Tables, ShouldBeNil)
		})
	})
}

func TestNewLogger(t *testing.T) {
	Convey("newLogger", t, func() {
		var buf bytes.Buffer

		Convey("Should parse the configured level", func() {
			So(newLogger(Options{LogLevel: "error"}, &buf).GetLevel(), ShouldEqual, logrus.ErrorLevel)
		})

		Convey("Should fall back to warn on an unknown level", func() {
			So(newLogger(Options{LogLevel: "chatty"}, &buf).GetLevel(), ShouldEqual, logrus.WarnLevel)
		})

		Convey("Should force debug when verbose", func() {
			So(newLogger(Options{LogLevel: "error", Verbose: true}, &buf).GetLevel(), ShouldEqual, logrus.DebugLevel)
		})

		Convey("Should emit JSON when asked", func() {
			logger := newLogger(Options{LogLevel: "warn", LogJSON: true}, &buf)
			logger.Warnf("format %q has no url, skipping", "x")
			So(buf.String(), ShouldStartWith, "{")
			So(buf.String(), ShouldContainSubstring, `"level":"warning"`)
		})
	})
}
