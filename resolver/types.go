package resolver

import (
	"github.com/famomatic/fmtrank/internal/formats"
	"github.com/famomatic/fmtrank/internal/types"
)

// Format is one playable rendition of a media item.
type Format = types.Format

// Record is a loosely typed candidate as produced by a site collector.
type Record = types.Record

// Protocol is the transport used to fetch a format.
type Protocol = types.Protocol

// Tables are the static codec and container rankings used by Sort.
type Tables = formats.Tables

const (
	ProtocolHTTP       = types.ProtocolHTTP
	ProtocolHTTPS      = types.ProtocolHTTPS
	ProtocolRTMP       = types.ProtocolRTMP
	ProtocolM3U8       = types.ProtocolM3U8
	ProtocolM3U8Native = types.ProtocolM3U8Native
	ProtocolMPD        = types.ProtocolMPD
	ProtocolF4M        = types.ProtocolF4M
	ProtocolISM        = types.ProtocolISM
)

// DefaultTables returns the built-in codec and container rankings.
func DefaultTables() Tables {
	return formats.DefaultTables()
}
