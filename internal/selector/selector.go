package selector

import (
	"strings"

	"github.com/samber/lo"

	"github.com/famomatic/fmtrank/internal/types"
)

// Select evaluates the selector against formats already ordered from worst to
// best. Fallback groups are tried left to right; the first group whose every
// stream spec resolves wins. types.ErrNoFormatAvailable is returned when no
// group resolves.
func Select(sorted []types.Format, selector *Selector) ([]types.Format, error) {
	if selector == nil || len(selector.Fallbacks) == 0 {
		selector = &Selector{Fallbacks: []MergeGroup{{{Filters: []FormatFilter{{Type: "builtin", Value: "best"}}}}}}
	}

	for _, group := range selector.Fallbacks {
		// A MergeGroup is a list of StreamSpecs (e.g. [video, audio])
		var selected []types.Format
		failed := false

		for _, spec := range group {
			picked := pick(sorted, spec)
			if len(picked) == 0 {
				failed = true
				break
			}
			selected = append(selected, picked...)
		}

		if !failed {
			return selected, nil
		}
	}

	return nil, types.ErrNoFormatAvailable
}

func pick(sorted []types.Format, spec *StreamSpec) []types.Format {
	candidates := lo.Filter(sorted, func(f types.Format, _ int) bool {
		return matchesAll(f, spec.Filters)
	})
	if len(candidates) == 0 {
		return nil
	}

	switch mode(spec) {
	case "all":
		return candidates
	case "worst":
		return candidates[:1]
	default:
		return candidates[len(candidates)-1:]
	}
}

// mode reports how a spec picks among its candidates: "best", "worst" or "all".
func mode(spec *StreamSpec) string {
	for _, flt := range spec.Filters {
		switch flt.Type {
		case "builtin":
			return flt.Value
		case "media":
			if flt.Op == "worst" {
				return "worst"
			}
			return "best"
		}
	}
	return "best"
}

func matchesAll(f types.Format, filters []FormatFilter) bool {
	for i := range filters {
		if !matches(f, &filters[i]) {
			return false
		}
	}
	return true
}

func matches(f types.Format, filter *FormatFilter) bool {
	switch filter.Type {
	case "builtin":
		return true
	case "media":
		if filter.Value == "video" {
			return f.VideoOnly()
		}
		if filter.Value == "audio" {
			return f.AudioOnly()
		}
	case "id":
		return f.FormatID == filter.Value
	case "ext":
		return strings.EqualFold(f.Ext, filter.Value)
	case "num":
		val, ok := numericField(f, filter.Key)
		if !ok {
			return filter.AllowMissing
		}
		return checkOp(val, filter.Num, filter.Op)
	case "str":
		val := stringField(f, filter.Key)
		if val == "" {
			return filter.AllowMissing
		}
		want := filter.Value
		if filter.Key != "format_id" {
			val, want = strings.ToLower(val), strings.ToLower(want)
		}
		return checkStringOp(val, want, filter.Op)
	}
	return false
}

func numericField(f types.Format, key string) (float64, bool) {
	switch key {
	case "height":
		h, ok := f.Height.Get()
		return float64(h), ok
	case "width":
		w, ok := f.Width.Get()
		return float64(w), ok
	case "fps":
		return f.FPS.Get()
	case "tbr":
		return f.Bitrate().Get()
	case "vbr":
		return f.VBR.Get()
	case "abr":
		return f.ABR.Get()
	case "filesize":
		n, ok := f.Size().Get()
		return float64(n), ok
	case "quality":
		return f.Quality.Get()
	}
	return 0, false
}

func stringField(f types.Format, key string) string {
	switch key {
	case "ext":
		return f.Ext
	case "vcodec":
		return f.VCodec
	case "acodec":
		return f.ACodec
	case "protocol":
		return string(f.Protocol)
	case "language":
		return f.Language
	case "format_id":
		return f.FormatID
	}
	return ""
}

func checkOp(a, b float64, op string) bool {
	switch op {
	case ":", "=":
		return a == b
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	case "!=":
		return a != b
	}
	return false
}

func checkStringOp(a, b, op string) bool {
	switch op {
	case "=":
		return a == b
	case "!=":
		return a != b
	case "^=":
		return strings.HasPrefix(a, b)
	case "$=":
		return strings.HasSuffix(a, b)
	case "*=":
		return strings.Contains(a, b)
	}
	return false
}
