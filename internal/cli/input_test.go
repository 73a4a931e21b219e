package cli

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestDecodeRecords(t *testing.T) {
	Convey("DecodeRecords", t, func() {
		Convey("Should accept a JSON list", func() {
			records, err := DecodeRecords([]byte(`[{"format_id": "18", "url": "https://x/18", "height": 360, "fps": 29.97}]`))
			So(err, ShouldBeNil)
			So(len(records), ShouldEqual, 1)
			So(records[0]["format_id"], ShouldEqual, "18")
			So(records[0]["height"], ShouldEqual, 360)
			So(records[0]["fps"], ShouldEqual, 29.97)
		})

		Convey("Should accept an object with a formats list", func() {
			records, err := DecodeRecords([]byte("title: clip\nformats:\n  - format_id: a\n    url: https://x/a\n  - format_id: b\n    url: https://x/b\n"))
			So(err, ShouldBeNil)
			So(len(records), ShouldEqual, 2)
			So(records[1]["format_id"], ShouldEqual, "b")
		})

		Convey("Should treat an empty document as no records", func() {
			records, err := DecodeRecords([]byte(""))
			So(err, ShouldBeNil)
			So(records, ShouldBeEmpty)
		})

		Convey("Should reject an object without formats", func() {
			_, err := DecodeRecords([]byte(`{"id": "x"}`))
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject a scalar document", func() {
			_, err := DecodeRecords([]byte(`42`))
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject non-object entries", func() {
			_, err := DecodeRecords([]byte(`[{"format_id": "a"}, "b"]`))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "entry 1")
		})

		Convey("Should reject malformed input", func() {
			_, err := DecodeRecords([]byte(`[{"format_id": `))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLoadRecords(t *testing.T) {
	Convey("LoadRecords", t, func() {
		fs := afero.NewMemMapFs()

		Convey("Should read from the filesystem", func() {
			So(afero.WriteFile(fs, "/in.json", []byte(`[{"format_id": "a", "url": "https://x/a"}]`), 0o644), ShouldBeNil)
			records, err := LoadRecords(fs, "/in.json", nil)
			So(err, ShouldBeNil)
			So(len(records), ShouldEqual, 1)
		})

		Convey("Should read from stdin for -", func() {
			records, err := LoadRecords(fs, "-", strings.NewReader("- {format_id: a, url: 'https://x/a'}\n"))
			So(err, ShouldBeNil)
			So(len(records), ShouldEqual, 1)
			So(records[0]["url"], ShouldEqual, "https://x/a")
		})

		Convey("Should fail on a missing file", func() {
			_, err := LoadRecords(fs, "/missing.json", nil)
			So(err, ShouldNotBeNil)
		})
	})
}
