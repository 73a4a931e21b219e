package policy

import (
	"slices"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"

	"github.com/famomatic/fmtrank/internal/formats"
)

var fieldAliases = map[string]formats.Field{
	"lang":       formats.FieldLanguage,
	"language":   formats.FieldLanguage,
	"quality":    formats.FieldQuality,
	"res":        formats.FieldResolution,
	"resolution": formats.FieldResolution,
	"height":     formats.FieldResolution,
	"fps":        formats.FieldFPS,
	"codec":      formats.FieldCodec,
	"vcodec":     formats.FieldCodec,
	"acodec":     formats.FieldCodec,
	"br":         formats.FieldBitrate,
	"bitrate":    formats.FieldBitrate,
	"tbr":        formats.FieldBitrate,
	"size":       formats.FieldSize,
	"filesize":   formats.FieldSize,
	"ext":        formats.FieldExt,
	"id":         formats.FieldFormatID,
	"format_id":  formats.FieldFormatID,
}

// FieldOrder is a normalized user field preference.
type FieldOrder struct {
	// Fields lists the recognised fields in the order given, deduplicated.
	// Empty means the default order.
	Fields []formats.Field
	// Ignored lists names that were not recognised, or "preference", which is
	// always compared first and cannot be reordered.
	Ignored []string
}

// NewFieldOrder normalizes user supplied field names: trims, lowercases,
// resolves aliases and drops duplicates and unknown names.
func NewFieldOrder(names []string) FieldOrder {
	var order FieldOrder
	seen := make(map[formats.Field]struct{}, len(names))
	for _, name := range names {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" {
			continue
		}
		field, ok := fieldAliases[normalized]
		if !ok {
			order.Ignored = append(order.Ignored, name)
			continue
		}
		if _, exists := seen[field]; exists {
			continue
		}
		seen[field] = struct{}{}
		order.Fields = append(order.Fields, field)
	}
	return order
}

// knownNames is the sorted list of accepted field names.
var knownNames = func() []string {
	names := lo.Keys(fieldAliases)
	slices.Sort(names)
	return names
}()

// Suggest returns the accepted field name closest to an unrecognised one, or
// "" when nothing is within two edits.
func Suggest(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" || normalized == "preference" {
		return ""
	}
	closest := lo.MinBy(knownNames, func(a, b string) bool {
		return levenshtein.Distance(normalized, a) < levenshtein.Distance(normalized, b)
	})
	if levenshtein.Distance(normalized, closest) > 2 {
		return ""
	}
	return closest
}
