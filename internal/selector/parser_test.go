package selector

import (
	"errors"
	"reflect"
	"testing"

	"github.com/famomatic/fmtrank/internal/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected *Selector
		wantErr  bool
	}{
		{
			input: "best",
			expected: &Selector{
				Fallbacks: []MergeGroup{
					{
						{Filters: []FormatFilter{{Type: "builtin", Value: "best"}}},
					},
				},
			},
		},
		{
			input: "",
			expected: &Selector{
				Fallbacks: []MergeGroup{
					{
						{Filters: []FormatFilter{{Type: "builtin", Value: "best"}}},
					},
				},
			},
		},
		{
			input: "bestvideo+bestaudio",
			expected: &Selector{
				Fallbacks: []MergeGroup{
					{
						{Filters: []FormatFilter{{Type: "media", Value: "video", Op: "best"}}},
						{Filters: []FormatFilter{{Type: "media", Value: "audio", Op: "best"}}},
					},
				},
			},
		},
		{
			input: "bestvideo[ext=mp4]+bestaudio[ext=m4a]",
			expected: &Selector{
				Fallbacks: []MergeGroup{
					{
						{Filters: []FormatFilter{
							{Type: "media", Value: "video", Op: "best"},
							{Type: "str", Key: "ext", Value: "mp4", Op: "="},
						}},
						{Filters: []FormatFilter{
							{Type: "media", Value: "audio", Op: "best"},
							{Type: "str", Key: "ext", Value: "m4a", Op: "="},
						}},
					},
				},
			},
		},
		{
			input: "bestvideo[height<=720]",
			expected: &Selector{
				Fallbacks: []MergeGroup{
					{
						{Filters: []FormatFilter{
							{Type: "media", Value: "video", Op: "best"},
							{Type: "num", Key: "height", Value: "720", Op: "<=", Num: 720},
						}},
					},
				},
			},
		},
		{
			input: "137/22/best",
			expected: &Selector{
				Fallbacks: []MergeGroup{
					{{Filters: []FormatFilter{{Type: "id", Value: "137"}}}},
					{{Filters: []FormatFilter{{Type: "id", Value: "22"}}}},
					{{Filters: []FormatFilter{{Type: "builtin", Value: "best"}}}},
				},
			},
		},
		{
			input: "worstaudio/fps!=60",
			expected: &Selector{
				Fallbacks: []MergeGroup{
					{
						{Filters: []FormatFilter{{Type: "media", Value: "audio", Op: "worst"}}},
					},
					{
						{Filters: []FormatFilter{
							{Type: "num", Key: "fps", Value: "60", Op: "!=", Num: 60},
						}},
					},
				},
			},
		},
		{
			input: "best[res:1080p][filesize<?10MB][protocol^=m3u8]",
			expected: &Selector{
				Fallbacks: []MergeGroup{
					{
						{Filters: []FormatFilter{
							{Type: "builtin", Value: "best"},
							{Type: "num", Key: "height", Value: "1080p", Op: "=", Num: 1080},
							{Type: "num", Key: "filesize", Value: "10MB", Op: "<", Num: 10_000_000, AllowMissing: true},
							{Type: "str", Key: "protocol", Value: "m3u8", Op: "^="},
						}},
					},
				},
			},
		},
		{
			input: "hls-720p/B",
			expected: &Selector{
				Fallbacks: []MergeGroup{
					{{Filters: []FormatFilter{{Type: "id", Value: "hls-720p"}}}},
					{{Filters: []FormatFilter{{Type: "id", Value: "B"}}}},
				},
			},
		},
		{input: "best/", wantErr: true},
		{input: "bestvideo+", wantErr: true},
		{input: "best[height<=720", wantErr: true},
		{input: "best[loudness>3]", wantErr: true},
		{input: "best[height<=tall]", wantErr: true},
		{input: "best[ext<mp4]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, types.ErrInvalidSelector) {
					t.Errorf("Parse() error = %v, want ErrInvalidSelector", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Parse() = \n%#v\nwant \n%#v", got, tt.expected)
			}
		})
	}
}
