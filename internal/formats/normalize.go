package formats

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/famomatic/fmtrank/internal/types"
)

// Logger receives non-fatal normalization notices.
type Logger interface {
	Warnf(format string, args ...any)
	Debugf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Debugf(string, ...any) {}

// InvalidRecordError reports the input position of a record that carries
// neither a format_id nor a url.
type InvalidRecordError struct {
	Index int
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("format record %d has neither format_id nor url", e.Index)
}

func (e *InvalidRecordError) Unwrap() error {
	return types.ErrInvalidFormatRecord
}

// Normalize converts collector records into a cleaned format list.
func Normalize(records []types.Record, log Logger) ([]types.Format, error) {
	return Clean(lo.Map(records, func(rec types.Record, _ int) types.Format {
		return FromRecord(rec)
	}), log)
}

// Clean validates and canonicalizes formats. The input slice is not modified.
//
// Formats without any track (vcodec and acodec both "none") and formats
// without a url are dropped. Missing format ids are replaced by the input
// position, and duplicate ids get "-2", "-3", ... suffixes in first-seen order.
func Clean(in []types.Format, log Logger) ([]types.Format, error) {
	if log == nil {
		log = nopLogger{}
	}

	out := make([]types.Format, 0, len(in))
	for i, f := range in {
		f = canonicalize(f)
		if f.FormatID == "" && f.URL == "" {
			return nil, &InvalidRecordError{Index: i}
		}
		if f.FormatID == "" {
			f.FormatID = strconv.Itoa(i)
		}
		if f.URL == "" {
			log.Warnf("format %q has no url, skipping", f.FormatID)
			continue
		}
		if f.VCodec == types.CodecNone && f.ACodec == types.CodecNone {
			log.Debugf("format %q carries neither audio nor video, skipping", f.FormatID)
			continue
		}
		if f.Protocol == "" {
			f.Protocol = InferProtocol(f.URL)
		}
		if f.Ext == "" {
			f.Ext = extFromURL(f.URL)
		}
		out = append(out, f)
	}

	disambiguateIDs(out, log)
	return out, nil
}

func canonicalize(f types.Format) types.Format {
	f.FormatID = strings.TrimSpace(f.FormatID)
	f.URL = strings.TrimSpace(f.URL)
	f.Ext = strings.ToLower(strings.TrimSpace(f.Ext))
	f.VCodec = strings.ToLower(strings.TrimSpace(f.VCodec))
	f.ACodec = strings.ToLower(strings.TrimSpace(f.ACodec))
	f.Language = strings.TrimSpace(f.Language)
	if f.Protocol != "" {
		// Unknown protocol names are re-inferred from the url.
		p, _ := ParseProtocol(string(f.Protocol))
		f.Protocol = p
	}

	f.Width = nonNegative(f.Width)
	f.Height = nonNegative(f.Height)
	f.FPS = nonNegative(finite(f.FPS))
	f.TBR = nonNegative(finite(f.TBR))
	f.VBR = nonNegative(finite(f.VBR))
	f.ABR = nonNegative(finite(f.ABR))
	f.Quality = finite(f.Quality)
	f.Filesize = nonNegative(f.Filesize)
	f.FilesizeApprox = nonNegative(f.FilesizeApprox)
	return f
}

// disambiguateIDs rewrites duplicate ids in place. Generated ids never collide
// with an id that appears verbatim elsewhere in the list.
func disambiguateIDs(formats []types.Format, log Logger) {
	original := make(map[string]struct{}, len(formats))
	for _, f := range formats {
		original[f.FormatID] = struct{}{}
	}

	used := make(map[string]struct{}, len(formats))
	for i := range formats {
		id := formats[i].FormatID
		if _, dup := used[id]; !dup {
			used[id] = struct{}{}
			continue
		}
		for n := 2; ; n++ {
			candidate := id + "-" + strconv.Itoa(n)
			_, taken := used[candidate]
			_, reserved := original[candidate]
			if taken || reserved {
				continue
			}
			log.Debugf("duplicate format id %q renamed to %q", id, candidate)
			formats[i].FormatID = candidate
			used[candidate] = struct{}{}
			break
		}
	}
}

var mediaExts = map[string]struct{}{
	"mp4": {}, "m4a": {}, "m4v": {}, "webm": {}, "flv": {}, "mp3": {},
	"ogg": {}, "oga": {}, "opus": {}, "aac": {}, "flac": {}, "wav": {},
	"mkv": {}, "mov": {}, "3gp": {}, "ts": {},
}

func extFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
	if _, ok := mediaExts[ext]; !ok {
		return ""
	}
	return ext
}
