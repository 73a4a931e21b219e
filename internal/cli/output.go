package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/famomatic/fmtrank/resolver"
)

var (
	headerStyle   = color.New(color.Bold)
	selectedStyle = color.New(color.FgGreen, color.Bold)
)

// tableColumns are the --list-formats columns. Positive widths pad on the
// right, negative widths right-align the cell.
var tableColumns = []struct {
	title string
	width int
}{
	{"ID", 14}, {"EXT", 5}, {"PROTO", 11}, {"RESOLUTION", 10}, {"FPS", -5},
	{"VCODEC", 12}, {"ACODEC", 12}, {"TBR", -8}, {"SIZE", -10}, {"LANG", 6},
}

// printFormatTable writes the ranked formats, worst first, highlighting the
// rows picked by the selection.
func printFormatTable(w io.Writer, ranked []resolver.Format, selected []resolver.Format) {
	picked := make(map[string]struct{}, len(selected))
	for _, f := range selected {
		picked[f.FormatID] = struct{}{}
	}

	titles := make([]string, len(tableColumns))
	for i, col := range tableColumns {
		titles[i] = col.title
	}
	header := tableLine(titles)
	headerStyle.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", runewidth.StringWidth(header)))

	for _, f := range ranked {
		line := tableLine([]string{
			f.FormatID,
			dash(f.Ext),
			string(f.Protocol),
			resolutionLabel(f),
			optionalNumber(f.FPS.Get()),
			dash(f.VCodec),
			dash(f.ACodec),
			bitrateLabel(f),
			sizeLabel(f),
			dash(f.Language),
		})
		if _, ok := picked[f.FormatID]; ok {
			selectedStyle.Fprintln(w, line)
			continue
		}
		fmt.Fprintln(w, line)
	}
}

// tableLine pads cells by display width so that ids and language tags in
// wide scripts stay aligned.
func tableLine(cells []string) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		width := tableColumns[i].width
		if width < 0 {
			padded[i] = runewidth.FillLeft(cell, -width)
			continue
		}
		padded[i] = runewidth.FillRight(cell, width)
	}
	return strings.Join(padded, " ")
}

// printSelected writes one line per selected format.
func printSelected(w io.Writer, selected []resolver.Format) {
	for _, f := range selected {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.FormatID, f.Protocol, dash(f.Ext), f.URL)
	}
}

func printJSON(w io.Writer, selected []resolver.Format) error {
	out := make([]map[string]any, 0, len(selected))
	for _, f := range selected {
		out = append(out, formatRecord(f))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// formatRecord renders a format with collector field names, leaving absent
// values out, so the output can be fed back as input.
func formatRecord(f resolver.Format) map[string]any {
	rec := map[string]any{
		"format_id": f.FormatID,
		"url":       f.URL,
		"protocol":  string(f.Protocol),
	}
	setString(rec, "ext", f.Ext)
	setString(rec, "vcodec", f.VCodec)
	setString(rec, "acodec", f.ACodec)
	setString(rec, "language", f.Language)
	setOption(rec, "width", f.Width.Get)
	setOption(rec, "height", f.Height.Get)
	setOption(rec, "fps", f.FPS.Get)
	setOption(rec, "tbr", f.TBR.Get)
	setOption(rec, "vbr", f.VBR.Get)
	setOption(rec, "abr", f.ABR.Get)
	setOption(rec, "filesize", f.Filesize.Get)
	setOption(rec, "filesize_approx", f.FilesizeApprox.Get)
	setOption(rec, "quality", f.Quality.Get)
	setOption(rec, "preference", f.Preference.Get)
	return rec
}

func setString(rec map[string]any, key, value string) {
	if value != "" {
		rec[key] = value
	}
}

func setOption[T any](rec map[string]any, key string, get func() (T, bool)) {
	if v, ok := get(); ok {
		rec[key] = v
	}
}

func resolutionLabel(f resolver.Format) string {
	if f.VCodec == "none" {
		return "audio only"
	}
	w, hasW := f.Width.Get()
	h, hasH := f.Height.Get()
	switch {
	case hasW && hasH:
		return fmt.Sprintf("%dx%d", w, h)
	case hasH:
		return fmt.Sprintf("%dp", h)
	case hasW:
		return fmt.Sprintf("%dx?", w)
	default:
		return "unknown"
	}
}

func bitrateLabel(f resolver.Format) string {
	if v, ok := f.Bitrate().Get(); ok {
		return strconv.FormatFloat(v, 'f', 0, 64) + "k"
	}
	return "-"
}

func sizeLabel(f resolver.Format) string {
	if v, ok := f.Filesize.Get(); ok {
		return humanize.Bytes(uint64(v))
	}
	if v, ok := f.FilesizeApprox.Get(); ok {
		return "~" + humanize.Bytes(uint64(v))
	}
	return "-"
}

func optionalNumber(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
