package formats

import (
	"sort"
	"strings"

	"github.com/famomatic/fmtrank/internal/types"
)

// Field names a reorderable sort key. Preference is not a Field: it always
// compares first.
type Field string

const (
	FieldLanguage   Field = "language"
	FieldQuality    Field = "quality"
	FieldResolution Field = "resolution"
	FieldFPS        Field = "fps"
	FieldCodec      Field = "codec"
	FieldBitrate    Field = "bitrate"
	FieldSize       Field = "size"
	FieldExt        Field = "ext"
	FieldFormatID   Field = "format_id"
)

// DefaultFieldOrder is the comparison order applied after preference.
var DefaultFieldOrder = []Field{
	FieldLanguage,
	FieldQuality,
	FieldResolution,
	FieldFPS,
	FieldCodec,
	FieldBitrate,
	FieldSize,
	FieldExt,
	FieldFormatID,
}

// absent is the sentinel score for missing numeric metadata.
const absent = -1

// Sorter orders formats from worst to best. It is immutable after
// construction and safe for concurrent use.
type Sorter struct {
	vcodecs   rankTable
	acodecs   rankTable
	videoExts rankTable
	audioExts rankTable
	languages []string
}

// NewSorter builds a sorter from ranking tables and the user's preferred
// languages (most preferred first).
func NewSorter(t Tables, languages []string) *Sorter {
	s := &Sorter{
		vcodecs:   newRankTable(t.VideoCodecs),
		acodecs:   newRankTable(t.AudioCodecs),
		videoExts: newRankTable(t.VideoExts),
		audioExts: newRankTable(t.AudioExts),
	}
	for _, lang := range languages {
		if l := normalizeLanguage(lang); l != "" {
			s.languages = append(s.languages, l)
		}
	}
	return s
}

// Sort returns a new slice ordered ascending (best last). A nil or empty
// field order means DefaultFieldOrder. Fields missing from a custom order are
// compared afterwards in default order, so the result is always total.
func (s *Sorter) Sort(in []types.Format, order []Field) []types.Format {
	order = completeOrder(order)

	keys := make([][]keyPart, len(in))
	for i, f := range in {
		keys[i] = s.key(f, order)
	}

	idx := make([]int, len(in))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return compareKeys(keys[idx[a]], keys[idx[b]]) < 0
	})

	out := make([]types.Format, len(in))
	for i, j := range idx {
		out[i] = in[j]
	}
	return out
}

func completeOrder(order []Field) []Field {
	if len(order) == 0 {
		return DefaultFieldOrder
	}
	seen := make(map[Field]struct{}, len(DefaultFieldOrder))
	full := make([]Field, 0, len(DefaultFieldOrder))
	for _, f := range append(append([]Field{}, order...), DefaultFieldOrder...) {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		full = append(full, f)
	}
	return full
}

type keyPart struct {
	num float64
	str string
}

func compareKeys(a, b []keyPart) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i].num < b[i].num:
			return -1
		case a[i].num > b[i].num:
			return 1
		case a[i].str < b[i].str:
			return -1
		case a[i].str > b[i].str:
			return 1
		}
	}
	return len(a) - len(b)
}

func (s *Sorter) key(f types.Format, order []Field) []keyPart {
	k := make([]keyPart, 0, len(order)+2)
	k = append(k, keyPart{num: float64(f.Preference.OrElse(absent))})
	for _, field := range order {
		switch field {
		case FieldLanguage:
			k = append(k, keyPart{num: float64(s.languageScore(f.Language))})
		case FieldQuality:
			k = append(k, keyPart{num: f.Quality.OrElse(absent)})
		case FieldResolution:
			k = append(k, keyPart{num: resolution(f)})
		case FieldFPS:
			k = append(k, keyPart{num: f.FPS.OrElse(absent)})
		case FieldCodec:
			k = append(k,
				keyPart{num: float64(s.vcodecs.rank(CodecFamily(f.VCodec)))},
				keyPart{num: float64(s.acodecs.rank(CodecFamily(f.ACodec)))},
			)
		case FieldBitrate:
			k = append(k, keyPart{num: f.Bitrate().OrElse(absent)})
		case FieldSize:
			k = append(k, keyPart{num: float64(f.Size().OrElse(absent))})
		case FieldExt:
			k = append(k, keyPart{num: float64(s.extRank(f))})
		case FieldFormatID:
			k = append(k, keyPart{str: f.FormatID})
		}
	}
	return k
}

// resolution is the height, or a height derived from the width assuming a
// 16:9 frame.
func resolution(f types.Format) float64 {
	if h, ok := f.Height.Get(); ok {
		return float64(h)
	}
	if w, ok := f.Width.Get(); ok {
		return float64(w) * 9 / 16
	}
	return absent
}

func (s *Sorter) extRank(f types.Format) int {
	if f.VCodec == types.CodecNone {
		return s.audioExts.rank(f.Ext)
	}
	return s.videoExts.rank(f.Ext)
}

// languageScore ranks an exact tag match above a primary-subtag match, and
// earlier preferred languages above later ones. Zero means no match.
func (s *Sorter) languageScore(lang string) int {
	l := normalizeLanguage(lang)
	if l == "" {
		return 0
	}
	n := len(s.languages)
	for i, want := range s.languages {
		if l == want {
			return (n - i) * 2
		}
		if primarySubtag(l) == primarySubtag(want) {
			return (n-i)*2 - 1
		}
	}
	return 0
}

func normalizeLanguage(lang string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(lang)), "_", "-")
}

func primarySubtag(lang string) string {
	if i := strings.IndexByte(lang, '-'); i >= 0 {
		return lang[:i]
	}
	return lang
}
