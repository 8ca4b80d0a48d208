package proto

import "github.com/indigo-web/utils/uf"

type Protocol uint8

const (
	Unknown Protocol = iota
	HTTP10
	HTTP11
)

func (p Protocol) String() string {
	switch p {
	case HTTP10:
		return "HTTP/1.0"
	case HTTP11:
		return "HTTP/1.1"
	default:
		return "unknown"
	}
}

const tokenLength = len("HTTP/x.x")

// FromBytes maps a version token to a Protocol. Anything but the two literal
// tokens "HTTP/1.0" and "HTTP/1.1" is Unknown, which downstream turns into
// a 505. The raw token is kept by the caller for diagnostics.
func FromBytes(raw []byte) Protocol {
	if len(raw) != tokenLength {
		return Unknown
	}

	switch uf.B2S(raw) {
	case "HTTP/1.0":
		return HTTP10
	case "HTTP/1.1":
		return HTTP11
	default:
		return Unknown
	}
}

func FromString(raw string) Protocol {
	return FromBytes(uf.S2B(raw))
}
