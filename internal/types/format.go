package types

import "github.com/samber/mo"

// Protocol is the transport or manifest mechanism used to fetch a format.
type Protocol string

const (
	ProtocolHTTP       Protocol = "http"
	ProtocolHTTPS      Protocol = "https"
	ProtocolRTMP       Protocol = "rtmp"
	ProtocolM3U8       Protocol = "m3u8"
	ProtocolM3U8Native Protocol = "m3u8_native"
	ProtocolMPD        Protocol = "mpd"
	ProtocolF4M        Protocol = "f4m"
	ProtocolISM        Protocol = "ism"
)

// CodecNone marks a rendition that carries no track of that kind.
const CodecNone = "none"

// Record is a loosely typed candidate as supplied by a site collector.
type Record map[string]any

// Format is the normalized format model.
type Format struct {
	FormatID string
	URL      string
	Protocol Protocol
	Ext      string
	VCodec   string
	ACodec   string
	Language string

	Width  mo.Option[int]
	Height mo.Option[int]
	FPS    mo.Option[float64]

	// Bitrates in kbps.
	TBR mo.Option[float64]
	VBR mo.Option[float64]
	ABR mo.Option[float64]

	Filesize       mo.Option[int64]
	FilesizeApprox mo.Option[int64]

	Quality    mo.Option[float64]
	Preference mo.Option[int]
}

// VideoOnly reports whether the format explicitly carries video and no audio.
func (f Format) VideoOnly() bool {
	return f.ACodec == CodecNone && f.VCodec != CodecNone
}

// AudioOnly reports whether the format explicitly carries audio and no video.
func (f Format) AudioOnly() bool {
	return f.VCodec == CodecNone && f.ACodec != CodecNone
}

// Bitrate returns tbr, else vbr+abr, else whichever of the two is present.
func (f Format) Bitrate() mo.Option[float64] {
	if f.TBR.IsPresent() {
		return f.TBR
	}
	v, hasV := f.VBR.Get()
	a, hasA := f.ABR.Get()
	switch {
	case hasV && hasA:
		return mo.Some(v + a)
	case hasV:
		return f.VBR
	case hasA:
		return f.ABR
	}
	return mo.None[float64]()
}

// Size returns filesize, falling back to filesize_approx.
func (f Format) Size() mo.Option[int64] {
	if f.Filesize.IsPresent() {
		return f.Filesize
	}
	return f.FilesizeApprox
}
