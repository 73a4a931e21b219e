package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"

	"github.com/famomatic/fmtrank/resolver"
)

const candidatesYAML = `
- format_id: A
  url: https://example.test/a.mp4
  height: 480
  tbr: 500
- format_id: B
  url: https://example.test/b.mp4
  height: 720
  tbr: 1000
- format_id: C
  url: https://example.test/c.mp4
  height: 720
  tbr: 1200
  filesize: 1500000
`

const infoJSON = `{
  "id": "xyz",
  "formats": [
    {"format_id": "v1", "url": "https://example.test/v1.webm", "vcodec": "vp9", "acodec": "none", "height": 1080},
    {"format_id": "a1", "url": "https://example.test/a1.m4a", "vcodec": "none", "acodec": "mp4a.40.2", "abr": 128},
    {"format_id": "live", "url": "rtmp://example.test/live", "height": 2160}
  ]
}`

func runCLI(fs afero.Fs, stdin string, args ...string) (string, string, error) {
	cmd := NewRootCommand(fs)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	color.NoColor = true

	Convey("Root command", t, func() {
		fs := afero.NewMemMapFs()
		So(afero.WriteFile(fs, "/data/candidates.yaml", []byte(candidatesYAML), 0o644), ShouldBeNil)
		So(afero.WriteFile(fs, "/data/info.json", []byte(infoJSON), 0o644), ShouldBeNil)

		Convey("Should print the best format by default", func() {
			out, _, err := runCLI(fs, "", "/data/candidates.yaml")
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "C\thttps\tmp4\thttps://example.test/c.mp4\n")
		})

		Convey("Should honor the format flag", func() {
			out, _, err := runCLI(fs, "", "-f", "worst", "/data/candidates.yaml")
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, "A\t")
		})

		Convey("Should resolve merged streams from an info object", func() {
			out, _, err := runCLI(fs, "", "-f", "bv+ba/best", "/data/info.json")
			So(err, ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(out), "\n")
			So(len(lines), ShouldEqual, 2)
			So(lines[0], ShouldStartWith, "v1\thttps\twebm\t")
			So(lines[1], ShouldStartWith, "a1\thttps\tm4a\t")
		})

		Convey("Should apply the match filter", func() {
			out, _, err := runCLI(fs, "", "--match-filter", `f.protocol != "rtmp"`, "/data/info.json")
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, "v1\t")
		})

		Convey("Should read candidates from stdin", func() {
			out, _, err := runCLI(fs, candidatesYAML, "-")
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, "C\t")
		})

		Convey("Should print JSON that decodes back into records", func() {
			out, _, err := runCLI(fs, "", "--json", "/data/candidates.yaml")
			So(err, ShouldBeNil)
			records, err := DecodeRecords([]byte(out))
			So(err, ShouldBeNil)
			So(len(records), ShouldEqual, 1)
			So(records[0]["format_id"], ShouldEqual, "C")
			So(records[0]["protocol"], ShouldEqual, "https")
			So(records[0]["filesize"], ShouldEqual, 1500000)
		})

		Convey("Should list ranked formats worst first", func() {
			out, _, err := runCLI(fs, "", "-F", "/data/candidates.yaml")
			So(err, ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(out), "\n")
			So(len(lines), ShouldEqual, 5)
			So(lines[0], ShouldStartWith, "ID")
			So(lines[2], ShouldStartWith, "A ")
			So(lines[4], ShouldStartWith, "C ")
			So(lines[4], ShouldContainSubstring, "1.5 MB")
		})

		Convey("Should list formats even when nothing matches", func() {
			out, _, err := runCLI(fs, "", "-F", "-f", "bestaudio", "/data/candidates.yaml")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "B ")
		})

		Convey("Should read settings from an explicit config file", func() {
			config := "format: worst\nfield_preference: [tbr]\nlog:\n  level: debug\n"
			So(afero.WriteFile(fs, "/etc/fmtrank.yaml", []byte(config), 0o644), ShouldBeNil)
			out, stderr, err := runCLI(fs, "", "--config", "/etc/fmtrank.yaml", "/data/candidates.yaml")
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, "A\t")
			So(stderr, ShouldContainSubstring, "loaded 3 candidate record(s)")
		})

		Convey("Should let flags override the config file", func() {
			So(afero.WriteFile(fs, "/etc/fmtrank.yaml", []byte("format: worst\n"), 0o644), ShouldBeNil)
			out, _, err := runCLI(fs, "", "--config", "/etc/fmtrank.yaml", "-f", "B", "/data/candidates.yaml")
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, "B\t")
		})

		Convey("Should read settings from the environment", func() {
			t.Setenv("FMTRANK_FORMAT", "worst")
			out, _, err := runCLI(fs, "", "/data/candidates.yaml")
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, "A\t")
		})

		Convey("Should fail on a missing explicit config file", func() {
			_, _, err := runCLI(fs, "", "--config", "/etc/missing.yaml", "/data/candidates.yaml")
			So(err, ShouldNotBeNil)
		})

		Convey("Should fail on a missing candidates file", func() {
			_, _, err := runCLI(fs, "", "/data/nope.json")
			So(err, ShouldNotBeNil)
			So(errorLabel(err), ShouldEqual, "fmtrank")
		})

		Convey("Should report an unmatched selection", func() {
			_, _, err := runCLI(fs, "", "-f", "bestaudio", "/data/candidates.yaml")
			So(resolver.ClassifyError(err), ShouldEqual, resolver.ErrorCategoryNoFormatAvailable)
			So(errorLabel(err), ShouldEqual, "no_format_available")
		})

		Convey("Should report a malformed selection", func() {
			_, _, err := runCLI(fs, "", "-f", "best[", "/data/candidates.yaml")
			So(resolver.ClassifyError(err), ShouldEqual, resolver.ErrorCategoryInvalidSelector)
		})

		Convey("Should report a malformed match filter", func() {
			_, _, err := runCLI(fs, "", "--match-filter", "f.height >", "/data/candidates.yaml")
			So(resolver.ClassifyError(err), ShouldEqual, resolver.ErrorCategoryInvalidMatchFilter)
		})

		Convey("Should require exactly one input", func() {
			_, _, err := runCLI(fs, "")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSchemaCommand(t *testing.T) {
	Convey("Schema command", t, func() {
		out, _, err := runCLI(afero.NewMemMapFs(), "", "schema")
		So(err, ShouldBeNil)

		var schema map[string]any
		So(json.Unmarshal([]byte(out), &schema), ShouldBeNil)
		So(schema["title"], ShouldEqual, "fmtrank candidate format")

		props, ok := schema["properties"].(map[string]any)
		So(ok, ShouldBeTrue)
		So(props, ShouldContainKey, "format_id")
		So(props, ShouldContainKey, "filesize_approx")
		height := props["height"].(map[string]any)
		So(height["type"], ShouldEqual, "integer")
		fps := props["fps"].(map[string]any)
		So(fps["type"], ShouldEqual, "number")
		So(schema["required"], ShouldBeNil)
	})
}
