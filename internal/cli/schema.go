package cli

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
)

// candidateRecord documents the record shape accepted in candidate files.
// Decoding itself is lenient and goes through resolver.Record.
type candidateRecord struct {
	FormatID       string  `json:"format_id,omitempty" jsonschema:"description=Identifier unique within the media item. Defaults to the record position."`
	URL            string  `json:"url,omitempty" jsonschema:"description=Media or manifest URL. Records without one are skipped."`
	Protocol       string  `json:"protocol,omitempty" jsonschema:"enum=http,enum=https,enum=rtmp,enum=m3u8,enum=m3u8_native,enum=mpd,enum=f4m,enum=ism,description=Transport. Inferred from the URL when absent."`
	Ext            string  `json:"ext,omitempty" jsonschema:"description=Container extension. Inferred from mime_type or the URL when absent."`
	MimeType       string  `json:"mime_type,omitempty" jsonschema:"description=Used only to infer ext."`
	VCodec         string  `json:"vcodec,omitempty" jsonschema:"description=Video codec or none for audio-only renditions."`
	ACodec         string  `json:"acodec,omitempty" jsonschema:"description=Audio codec or none for video-only renditions."`
	Language       string  `json:"language,omitempty" jsonschema:"description=BCP 47 language tag of the audio track."`
	Width          int     `json:"width,omitempty" jsonschema:"minimum=0"`
	Height         int     `json:"height,omitempty" jsonschema:"minimum=0"`
	FPS            float64 `json:"fps,omitempty" jsonschema:"minimum=0"`
	TBR            float64 `json:"tbr,omitempty" jsonschema:"minimum=0,description=Total bitrate in kbps."`
	VBR            float64 `json:"vbr,omitempty" jsonschema:"minimum=0,description=Video bitrate in kbps."`
	ABR            float64 `json:"abr,omitempty" jsonschema:"minimum=0,description=Audio bitrate in kbps."`
	Filesize       int64   `json:"filesize,omitempty" jsonschema:"minimum=0,description=Exact size in bytes."`
	FilesizeApprox int64   `json:"filesize_approx,omitempty" jsonschema:"minimum=0,description=Estimated size in bytes."`
	Quality        float64 `json:"quality,omitempty" jsonschema:"description=Collector quality score. Higher is better."`
	Preference     int     `json:"preference,omitempty" jsonschema:"description=Collector preference. Dominates every other sort key."`
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of a candidate format record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reflector := jsonschema.Reflector{ExpandedStruct: true, DoNotReference: true}
			schema := reflector.Reflect(&candidateRecord{})
			schema.Title = "fmtrank candidate format"

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(schema)
		},
	}
}
