package formats

import (
	"net/url"
	"strings"

	"github.com/famomatic/fmtrank/internal/types"
)

var protocolAliases = map[string]types.Protocol{
	"http":        types.ProtocolHTTP,
	"https":       types.ProtocolHTTPS,
	"rtmp":        types.ProtocolRTMP,
	"rtmpe":       types.ProtocolRTMP,
	"rtmps":       types.ProtocolRTMP,
	"rtmpt":       types.ProtocolRTMP,
	"m3u8":        types.ProtocolM3U8,
	"hls":         types.ProtocolM3U8,
	"m3u8_native": types.ProtocolM3U8Native,
	"mpd":         types.ProtocolMPD,
	"dash":        types.ProtocolMPD,
	"f4m":         types.ProtocolF4M,
	"hds":         types.ProtocolF4M,
	"ism":         types.ProtocolISM,
	"mss":         types.ProtocolISM,
}

// ParseProtocol maps an explicit protocol name (or a common alias such as
// "hls" or "dash") to its canonical value.
func ParseProtocol(s string) (types.Protocol, bool) {
	p, ok := protocolAliases[strings.ToLower(strings.TrimSpace(s))]
	return p, ok
}

// InferProtocol derives the protocol from the shape of a format URL.
func InferProtocol(rawURL string) types.Protocol {
	raw := strings.TrimSpace(rawURL)
	u, err := url.Parse(raw)
	if err != nil {
		// Unparseable URLs still get a best-effort suffix check.
		u = &url.URL{Path: raw}
	}
	p := strings.ToLower(u.Path)

	switch {
	case strings.HasSuffix(p, ".m3u8"):
		return types.ProtocolM3U8
	case strings.HasSuffix(p, ".mpd"):
		return types.ProtocolMPD
	case strings.HasSuffix(p, ".f4m"):
		return types.ProtocolF4M
	case isSmoothStreaming(p):
		return types.ProtocolISM
	}

	scheme := strings.ToLower(u.Scheme)
	if strings.HasPrefix(scheme, "rtmp") {
		return types.ProtocolRTMP
	}
	if scheme == "https" {
		return types.ProtocolHTTPS
	}
	return types.ProtocolHTTP
}

func isSmoothStreaming(p string) bool {
	return strings.HasSuffix(p, ".ism") ||
		strings.HasSuffix(p, ".isml") ||
		strings.Contains(p, ".ism/") ||
		strings.Contains(p, ".isml/")
}
