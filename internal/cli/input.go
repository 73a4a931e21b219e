package cli

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/famomatic/fmtrank/resolver"
)

// LoadRecords reads candidate records from path, or from stdin when path is
// "-". The document is YAML or JSON and holds either a list of records or an
// object with a "formats" list, as emitted by most site extractors.
func LoadRecords(fs afero.Fs, path string, stdin io.Reader) ([]resolver.Record, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = afero.ReadFile(fs, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}
	return DecodeRecords(data)
}

// DecodeRecords decodes a candidate document.
func DecodeRecords(data []byte) ([]resolver.Record, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}

	var items []any
	switch v := doc.(type) {
	case nil:
		return []resolver.Record{}, nil
	case []any:
		items = v
	case map[string]any:
		list, ok := v["formats"].([]any)
		if !ok {
			return nil, fmt.Errorf("decode candidates: object has no \"formats\" list")
		}
		items = list
	default:
		return nil, fmt.Errorf("decode candidates: unexpected top-level %T", doc)
	}

	records := make([]resolver.Record, 0, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("decode candidates: entry %d is %T, want an object", i, item)
		}
		records = append(records, resolver.Record(rec))
	}
	return records, nil
}
