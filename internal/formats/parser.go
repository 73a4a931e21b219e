package formats

import (
	"math"
	"mime"
	"strings"

	"github.com/samber/mo"
	"github.com/spf13/cast"

	"github.com/famomatic/fmtrank/internal/types"
)

// Record keys understood by FromRecord. Anything else is ignored.
const (
	keyFormatID       = "format_id"
	keyURL            = "url"
	keyProtocol       = "protocol"
	keyExt            = "ext"
	keyMimeType       = "mime_type"
	keyVCodec         = "vcodec"
	keyACodec         = "acodec"
	keyWidth          = "width"
	keyHeight         = "height"
	keyFPS            = "fps"
	keyTBR            = "tbr"
	keyVBR            = "vbr"
	keyABR            = "abr"
	keyFilesize       = "filesize"
	keyFilesizeApprox = "filesize_approx"
	keyQuality        = "quality"
	keyPreference     = "preference"
	keyLanguage       = "language"
)

// FromRecord converts one loosely typed record into a Format. It never fails:
// values of the wrong type or out of range are left absent. Validation of
// format_id/url presence happens in Clean.
func FromRecord(rec types.Record) types.Format {
	f := types.Format{
		FormatID: stringField(rec, keyFormatID),
		URL:      stringField(rec, keyURL),
		Ext:      strings.ToLower(stringField(rec, keyExt)),
		VCodec:   strings.ToLower(stringField(rec, keyVCodec)),
		ACodec:   strings.ToLower(stringField(rec, keyACodec)),
		Language: stringField(rec, keyLanguage),

		Width:          nonNegative(intField(rec, keyWidth)),
		Height:         nonNegative(intField(rec, keyHeight)),
		FPS:            nonNegative(floatField(rec, keyFPS)),
		TBR:            nonNegative(floatField(rec, keyTBR)),
		VBR:            nonNegative(floatField(rec, keyVBR)),
		ABR:            nonNegative(floatField(rec, keyABR)),
		Filesize:       nonNegative(int64Field(rec, keyFilesize)),
		FilesizeApprox: nonNegative(int64Field(rec, keyFilesizeApprox)),

		Quality:    floatField(rec, keyQuality),
		Preference: intField(rec, keyPreference),
	}

	if p, ok := ParseProtocol(stringField(rec, keyProtocol)); ok {
		f.Protocol = p
	}
	if f.Ext == "" {
		f.Ext = extFromMimeType(stringField(rec, keyMimeType))
	}
	return f
}

func stringField(rec types.Record, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return ""
	}
	switch v.(type) {
	case bool, map[string]any, []any:
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func floatField(rec types.Record, key string) mo.Option[float64] {
	v, ok := rec[key]
	if !ok || v == nil {
		return mo.None[float64]()
	}
	if _, isBool := v.(bool); isBool {
		return mo.None[float64]()
	}
	if s, isString := v.(string); isString {
		v = strings.TrimSpace(s)
		if v == "" {
			return mo.None[float64]()
		}
	}
	n, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return mo.None[float64]()
	}
	return mo.Some(n)
}

func int64Field(rec types.Record, key string) mo.Option[int64] {
	n, ok := floatField(rec, key).Get()
	if !ok || n != math.Trunc(n) || math.Abs(n) > 1<<53 {
		return mo.None[int64]()
	}
	return mo.Some(int64(n))
}

func intField(rec types.Record, key string) mo.Option[int] {
	n, ok := int64Field(rec, key).Get()
	if !ok || n > math.MaxInt32 || n < math.MinInt32 {
		return mo.None[int]()
	}
	return mo.Some(int(n))
}

// finite drops NaN and infinities, which would make the sort order
// intransitive.
func finite(o mo.Option[float64]) mo.Option[float64] {
	if v, ok := o.Get(); ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return mo.None[float64]()
	}
	return o
}

type number interface {
	~int | ~int64 | ~float64
}

func nonNegative[T number](o mo.Option[T]) mo.Option[T] {
	if v, ok := o.Get(); ok && v < 0 {
		return mo.None[T]()
	}
	return o
}

var mimeSubtypeExt = map[string]string{
	"audio/mp4":       "m4a",
	"audio/mpeg":      "mp3",
	"audio/webm":      "webm",
	"audio/ogg":       "ogg",
	"audio/aac":       "aac",
	"audio/flac":      "flac",
	"video/x-flv":     "flv",
	"video/mp2t":      "ts",
	"video/quicktime": "mov",
	"video/3gpp":      "3gp",
}

func extFromMimeType(mimeType string) string {
	if mimeType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return ""
	}
	mediaType = strings.ToLower(mediaType)
	if ext, ok := mimeSubtypeExt[mediaType]; ok {
		return ext
	}
	parts := strings.SplitN(mediaType, "/", 2)
	if len(parts) != 2 || (parts[0] != "video" && parts[0] != "audio") {
		return ""
	}
	return parts[1]
}
