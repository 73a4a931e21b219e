// Package resolver ranks the candidate renditions of a media item and picks
// the ones matching a format selection expression.
//
// A Resolver is immutable after New and safe for concurrent use.
package resolver

import (
	"errors"
	"fmt"

	"github.com/famomatic/fmtrank/internal/formats"
	"github.com/famomatic/fmtrank/internal/jsfilter"
	"github.com/famomatic/fmtrank/internal/policy"
	"github.com/famomatic/fmtrank/internal/selector"
	"github.com/famomatic/fmtrank/internal/types"
)

// Resolver normalizes, sorts and selects formats.
type Resolver struct {
	sorter *formats.Sorter
	order  []formats.Field
	filter *jsfilter.Filter
	logger Logger
}

// New creates a Resolver. It fails only when Config.MatchFilter does not compile.
func New(config Config) (*Resolver, error) {
	logger := config.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	tables := formats.DefaultTables()
	if config.Tables != nil {
		tables = *config.Tables
	}

	r := &Resolver{
		sorter: formats.NewSorter(tables, config.Languages),
		logger: logger,
	}
	r.order = r.fieldOrder(config.FieldPreference)

	if config.MatchFilter != "" {
		flt, err := jsfilter.Compile(config.MatchFilter)
		if err != nil {
			return nil, err
		}
		r.filter = flt
	}
	return r, nil
}

// Normalize converts collector records into formats: drops formats with no
// track or no url, infers protocol and ext, and disambiguates duplicate ids.
// The only error is an *InvalidFormatRecordError.
func (r *Resolver) Normalize(records []Record) ([]Format, error) {
	return formats.Normalize(records, r.logger)
}

// NormalizeFormats applies the same cleaning to formats built by typed
// collectors. The input slice is not modified.
func (r *Resolver) NormalizeFormats(in []Format) ([]Format, error) {
	return formats.Clean(in, r.logger)
}

// Sort returns the formats ordered from worst to best using the configured
// field preference. The input slice is not modified.
func (r *Resolver) Sort(in []Format) []Format {
	return r.sorter.Sort(in, r.order)
}

// SortBy is Sort with a per-call field preference. Preference always
// compares first regardless of fieldPreference.
func (r *Resolver) SortBy(in []Format, fieldPreference []string) []Format {
	order := r.order
	if len(fieldPreference) > 0 {
		order = r.fieldOrder(fieldPreference)
	}
	return r.sorter.Sort(in, order)
}

// Select evaluates a selection expression such as "bestvideo+bestaudio/best"
// against normalized formats. The result holds one format per merged stream,
// or every match for "all".
func (r *Resolver) Select(in []Format, expression string) ([]Format, error) {
	sel, err := selector.Parse(expression)
	if err != nil {
		return nil, err
	}

	candidates, err := r.applyFilter(in)
	if err != nil {
		return nil, err
	}

	selected, err := selector.Select(r.Sort(candidates), sel)
	if errors.Is(err, types.ErrNoFormatAvailable) {
		return nil, &NoFormatAvailableError{Expression: expression, Candidates: len(in)}
	}
	if err != nil {
		return nil, err
	}
	for _, f := range selected {
		r.logger.Debugf("selected format %s (%s, %s) for %q", f.FormatID, f.Protocol, f.Ext, expression)
	}
	return selected, nil
}

// Resolve normalizes records and selects from them in one step.
func (r *Resolver) Resolve(records []Record, expression string) ([]Format, error) {
	normalized, err := r.Normalize(records)
	if err != nil {
		return nil, err
	}
	return r.Select(normalized, expression)
}

func (r *Resolver) applyFilter(in []Format) ([]Format, error) {
	if r.filter == nil {
		return in, nil
	}
	out, err := r.filter.Apply(in, func(f Format, err error) {
		r.logger.Warnf("match filter failed on format %s: %v", f.FormatID, err)
	})
	if err != nil {
		return nil, fmt.Errorf("apply match filter: %w", err)
	}
	return out, nil
}

func (r *Resolver) fieldOrder(names []string) []formats.Field {
	order := policy.NewFieldOrder(names)
	for _, name := range order.Ignored {
		if suggestion := policy.Suggest(name); suggestion != "" {
			r.logger.Warnf("ignoring field preference %q, did you mean %q?", name, suggestion)
			continue
		}
		r.logger.Warnf("ignoring field preference %q", name)
	}
	return order.Fields
}
