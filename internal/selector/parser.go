package selector

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/famomatic/fmtrank/internal/types"
)

// Selector is a parsed selection expression.
type Selector struct {
	// Fallbacks are the "/" separated alternatives in order. The first
	// group that resolves wins.
	Fallbacks []MergeGroup
}

// MergeGroup holds the "+" joined streams of one alternative, such as
// bestvideo and bestaudio in "bestvideo+bestaudio".
type MergeGroup []*StreamSpec

// StreamSpec selects a single stream. All of its filters must hold.
type StreamSpec struct {
	Filters []FormatFilter
}

// FormatFilter is one condition of a StreamSpec, such as bestvideo or
// height<=1080.
type FormatFilter struct {
	Type  string // builtin, media, id, ext, num, str
	Key   string // field name for num/str filters
	Value string // raw operand such as 1080 or mp4
	Op    string // =, !=, <, >, <=, >= (num); =, !=, ^=, $=, *= (str); best/worst (media)

	// Num is Value parsed for num filters.
	Num float64
	// AllowMissing lets formats without the field pass ("height<=?720").
	AllowMissing bool
}

// Parse parses a selection expression like "bestvideo[ext=mp4]+bestaudio/best".
// An empty string selects "best".
func Parse(s string) (*Selector, error) {
	if strings.TrimSpace(s) == "" {
		s = "best"
	}

	fallbackStrs := strings.Split(s, "/")
	var fallbacks []MergeGroup

	for _, fbStr := range fallbackStrs {
		mergeStrs := strings.Split(fbStr, "+")
		var group MergeGroup
		for _, mStr := range mergeStrs {
			spec, err := parseStreamSpec(strings.TrimSpace(mStr))
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", types.ErrInvalidSelector, s, err)
			}
			group = append(group, spec)
		}
		fallbacks = append(fallbacks, group)
	}

	return &Selector{Fallbacks: fallbacks}, nil
}

var (
	modifiersRegex = regexp.MustCompile(`^(\[[^\[\]]+\])*$`)
	modifierRegex  = regexp.MustCompile(`\[([^\]]+)\]`)
	conditionRegex = regexp.MustCompile(`^\s*([a-z_]+)\s*(!=|<=|>=|\^=|\$=|\*=|=|<|>|:)(\?)?\s*(.*?)\s*$`)
)

func parseStreamSpec(s string) (*StreamSpec, error) {
	if s == "" {
		return nil, fmt.Errorf("empty selector segment")
	}

	idx := strings.Index(s, "[")
	var base string
	var mods string
	if idx == -1 {
		base = s
	} else {
		base = strings.TrimSpace(s[:idx])
		mods = strings.TrimSpace(s[idx:])
	}
	if !modifiersRegex.MatchString(mods) {
		return nil, fmt.Errorf("malformed modifiers: %s", mods)
	}

	spec := &StreamSpec{}

	if base != "" {
		f, err := parseFilter(base)
		if err != nil {
			return nil, err
		}
		spec.Filters = append(spec.Filters, *f)
	}

	for _, m := range modifierRegex.FindAllStringSubmatch(mods, -1) {
		f, err := parseModifier(m[1])
		if err != nil {
			return nil, err
		}
		spec.Filters = append(spec.Filters, *f)
	}

	return spec, nil
}

var numericKeys = map[string]string{
	"height":   "height",
	"res":      "height",
	"width":    "width",
	"fps":      "fps",
	"tbr":      "tbr",
	"vbr":      "vbr",
	"abr":      "abr",
	"filesize": "filesize",
	"quality":  "quality",
}

var stringKeys = map[string]struct{}{
	"ext":       {},
	"vcodec":    {},
	"acodec":    {},
	"protocol":  {},
	"language":  {},
	"format_id": {},
}

func parseModifier(s string) (*FormatFilter, error) {
	m := conditionRegex.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("unknown modifier syntax: %s", s)
	}
	key, op, optional, val := m[1], m[2], m[3] == "?", m[4]
	if val == "" {
		return nil, fmt.Errorf("missing value in modifier: %s", s)
	}

	if field, ok := numericKeys[key]; ok {
		if op == ":" {
			op = "="
		}
		switch op {
		case "=", "!=", "<", ">", "<=", ">=":
		default:
			return nil, fmt.Errorf("operator %s not supported for %s", op, key)
		}
		num, err := parseNumber(field, val)
		if err != nil {
			return nil, err
		}
		return &FormatFilter{Type: "num", Key: field, Value: val, Op: op, Num: num, AllowMissing: optional}, nil
	}

	if _, ok := stringKeys[key]; ok {
		switch op {
		case "=", "!=", "^=", "$=", "*=":
		case ":":
			op = "="
		default:
			return nil, fmt.Errorf("operator %s not supported for %s", op, key)
		}
		return &FormatFilter{Type: "str", Key: key, Value: val, Op: op, AllowMissing: optional}, nil
	}

	return nil, fmt.Errorf("unknown modifier key: %s", key)
}

func parseNumber(field, val string) (float64, error) {
	if field == "filesize" {
		n, err := humanize.ParseBytes(val)
		if err != nil {
			return 0, fmt.Errorf("invalid filesize %q: %v", val, err)
		}
		return float64(n), nil
	}
	if field == "height" {
		val = strings.TrimSuffix(strings.ToLower(val), "p")
	}
	n, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q for %s", val, field)
	}
	return n, nil
}

func parseFilter(s string) (*FormatFilter, error) {
	// Keywords are case-sensitive so that ids such as "B" or "BV" stay ids.
	switch s {
	case "best":
		return &FormatFilter{Type: "builtin", Value: "best"}, nil
	case "worst":
		return &FormatFilter{Type: "builtin", Value: "worst"}, nil
	case "all":
		return &FormatFilter{Type: "builtin", Value: "all"}, nil
	case "bestvideo", "bv":
		return &FormatFilter{Type: "media", Value: "video", Op: "best"}, nil
	case "worstvideo", "wv":
		return &FormatFilter{Type: "media", Value: "video", Op: "worst"}, nil
	case "bestaudio", "ba":
		return &FormatFilter{Type: "media", Value: "audio", Op: "best"}, nil
	case "worstaudio", "wa":
		return &FormatFilter{Type: "media", Value: "audio", Op: "worst"}, nil
	case "videoonly":
		return &FormatFilter{Type: "media", Value: "video"}, nil
	case "audioonly":
		return &FormatFilter{Type: "media", Value: "audio"}, nil

	case "mp4", "webm", "m4a", "mp3":
		return &FormatFilter{Type: "ext", Value: s}, nil
	}

	// Bare conditions such as "height<=720" work without brackets.
	if flt, err := parseModifier(s); err == nil {
		return flt, nil
	}

	// Anything else names a format id. Ids are matched verbatim.
	return &FormatFilter{Type: "id", Value: s}, nil
}
