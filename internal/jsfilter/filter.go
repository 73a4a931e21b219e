// Package jsfilter evaluates user supplied JavaScript predicates against
// formats, e.g. `f.height >= 720 && f.protocol != "rtmp"`.
package jsfilter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/famomatic/fmtrank/internal/types"
)

// DefaultTimeout bounds a single Apply call.
const DefaultTimeout = 2 * time.Second

// Filter is a compiled match filter. The compiled program is immutable and may
// be shared between goroutines; every Apply call gets its own runtime.
type Filter struct {
	source  string
	program *goja.Program
	timeout time.Duration
}

// Compile parses expr as a JavaScript expression over the variable f.
func Compile(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", types.ErrInvalidMatchFilter)
	}
	src := "(function(f) {\n\"use strict\";\nreturn (" + expr + "\n);\n})"
	program, err := goja.Compile("match_filter", src, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidMatchFilter, err)
	}
	return &Filter{source: expr, program: program, timeout: DefaultTimeout}, nil
}

// String returns the source expression.
func (flt *Filter) String() string {
	return flt.source
}

// Apply returns the formats for which the expression is truthy, preserving
// order. A format whose evaluation throws is excluded and reported to onError
// (which may be nil).
func (flt *Filter) Apply(formats []types.Format, onError func(types.Format, error)) ([]types.Format, error) {
	vm := goja.New()
	timer := time.AfterFunc(flt.timeout, func() {
		vm.Interrupt("match filter timed out")
	})
	defer timer.Stop()

	fnVal, err := vm.RunProgram(flt.program)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidMatchFilter, err)
	}
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return nil, fmt.Errorf("%w: expression did not compile to a function", types.ErrInvalidMatchFilter)
	}

	out := make([]types.Format, 0, len(formats))
	for _, f := range formats {
		res, err := fn(goja.Undefined(), vm.ToValue(toObject(f)))
		if err != nil {
			var interrupted *goja.InterruptedError
			if errors.As(err, &interrupted) {
				return nil, fmt.Errorf("%w: %q: %v", types.ErrInvalidMatchFilter, flt.source, err)
			}
			if onError != nil {
				onError(f, err)
			}
			continue
		}
		if res.ToBoolean() {
			out = append(out, f)
		}
	}
	return out, nil
}

// toObject exposes a format to scripts using collector field names. Absent
// values are null.
func toObject(f types.Format) map[string]any {
	obj := map[string]any{
		"format_id":       f.FormatID,
		"url":             f.URL,
		"protocol":        string(f.Protocol),
		"ext":             nullIfEmpty(f.Ext),
		"vcodec":          nullIfEmpty(f.VCodec),
		"acodec":          nullIfEmpty(f.ACodec),
		"language":        nullIfEmpty(f.Language),
		"width":           nil,
		"height":          nil,
		"fps":             nil,
		"tbr":             nil,
		"vbr":             nil,
		"abr":             nil,
		"filesize":        nil,
		"filesize_approx": nil,
		"quality":         nil,
		"preference":      nil,
	}
	if v, ok := f.Width.Get(); ok {
		obj["width"] = v
	}
	if v, ok := f.Height.Get(); ok {
		obj["height"] = v
	}
	if v, ok := f.FPS.Get(); ok {
		obj["fps"] = v
	}
	if v, ok := f.Bitrate().Get(); ok {
		obj["tbr"] = v
	}
	if v, ok := f.VBR.Get(); ok {
		obj["vbr"] = v
	}
	if v, ok := f.ABR.Get(); ok {
		obj["abr"] = v
	}
	if v, ok := f.Filesize.Get(); ok {
		obj["filesize"] = v
	}
	if v, ok := f.FilesizeApprox.Get(); ok {
		obj["filesize_approx"] = v
	}
	if v, ok := f.Quality.Get(); ok {
		obj["quality"] = v
	}
	if v, ok := f.Preference.Get(); ok {
		obj["preference"] = v
	}
	return obj
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
