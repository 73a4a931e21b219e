package formats

import "strings"

// Tables holds the static rankings consulted by the sorter. Every list is
// ordered best first and holds canonical names.
type Tables struct {
	VideoCodecs []string
	AudioCodecs []string
	VideoExts   []string
	AudioExts   []string
}

// DefaultTables returns the built-in rankings.
func DefaultTables() Tables {
	return Tables{
		VideoCodecs: []string{"av1", "vp9", "h265", "h264", "vp8", "h263", "theora"},
		AudioCodecs: []string{"flac", "alac", "opus", "vorbis", "aac", "mp3", "eac3", "ac3"},
		VideoExts:   []string{"mp4", "webm", "flv"},
		AudioExts:   []string{"m4a", "mp3", "ogg"},
	}
}

// codecFamilies maps the leading token of a codec string to its canonical name.
var codecFamilies = map[string]string{
	"av01":   "av1",
	"av1":    "av1",
	"vp09":   "vp9",
	"vp9":    "vp9",
	"hev1":   "h265",
	"hvc1":   "h265",
	"hevc":   "h265",
	"h265":   "h265",
	"avc1":   "h264",
	"avc3":   "h264",
	"avc":    "h264",
	"h264":   "h264",
	"vp08":   "vp8",
	"vp8":    "vp8",
	"h263":   "h263",
	"theora": "theora",

	"flac":   "flac",
	"alac":   "alac",
	"opus":   "opus",
	"vorbis": "vorbis",
	"mp4a":   "aac",
	"aac":    "aac",
	"mp3":    "mp3",
	"ec-3":   "eac3",
	"eac3":   "eac3",
	"ac-3":   "ac3",
	"ac3":    "ac3",
}

// CodecFamily reduces a codec string such as "avc1.64001f" to "h264".
// Unrecognised codecs are returned as their leading token.
func CodecFamily(codec string) string {
	c := strings.ToLower(strings.TrimSpace(codec))
	if i := strings.IndexByte(c, '.'); i >= 0 {
		c = c[:i]
	}
	if family, ok := codecFamilies[c]; ok {
		return family
	}
	return c
}

// rankTable scores names: known entries score above 1 (best highest),
// unknown and absent names score 1, "none" scores 0.
type rankTable map[string]int

func newRankTable(bestFirst []string) rankTable {
	t := make(rankTable, len(bestFirst))
	for i, name := range bestFirst {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := t[name]; dup {
			continue
		}
		t[name] = len(bestFirst) - i + 1
	}
	return t
}

func (t rankTable) rank(name string) int {
	if name == "none" {
		return 0
	}
	if r, ok := t[name]; ok {
		return r
	}
	return 1
}
