package http

import (
	"net"

	"github.com/weft-http/weft/http/method"
	"github.com/weft-http/weft/http/proto"
	"github.com/weft-http/weft/kv"
)

type (
	Headers = *kv.Storage
	Header  = kv.Pair
)

// NoStream marks a request that arrived without a stream id: its response is
// written as a plain HTTP message instead of being framed.
const NoStream int64 = -1

// Request is one parsed message head. It is immutable once the parser hands
// it out and lives exactly as long as the worker serving it.
type Request struct {
	// Method is an enum representing the request method. Unknown methods are
	// still served, the engine never branches on them apart from suppressing
	// HEAD bodies.
	Method method.Method
	// Path as it appeared on the request line, non-empty.
	Path string
	// Protocol is the recognized version token. Anything but HTTP/1.1 is
	// answered with 505 before the path is even looked at.
	Protocol proto.Protocol
	// ProtoToken keeps the raw version token for diagnostics, as Unknown
	// covers everything from HTTP/2 down to plain garbage.
	ProtoToken string
	// Headers holds non-normalized header pairs with case-insensitive lookup.
	// A repeated key keeps the value seen last. The stream id header never
	// appears here.
	Headers Headers
	// StreamID is the logical stream the response must be framed into, or
	// NoStream for ordinary messages.
	StreamID int64
	// ContentLength is the announced body size. The body itself is discarded
	// by the connection before the next head is read; it never reaches
	// handlers.
	ContentLength int
	// Remote holds the remote address of the client the message came from.
	Remote net.Addr
}

// Multiplexed reports whether the message carried a stream id.
func (r *Request) Multiplexed() bool {
	return r.StreamID != NoStream
}
