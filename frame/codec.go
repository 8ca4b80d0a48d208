package frame

import "errors"

var (
	ErrPayloadTooLarge = errors.New("frame payload exceeds the protocol limit")
	ErrBadStreamID     = errors.New("stream id is out of range")
	ErrBadFrame        = errors.New("malformed frame")
)

// Codec encodes frames for the wire and hands out decoders for the inverse.
// Two implementations exist: Binary, the default self-delimiting format, and
// Delimited, the text format legacy peers speak.
type Codec interface {
	// AppendEncode appends the encoded frame to dst and returns the extended
	// slice.
	AppendEncode(dst []byte, f Frame) ([]byte, error)
	// Decoder returns a fresh stateful decoder for one connection.
	Decoder() Decoder
}

// Decoder consumes raw bytes as they arrive and returns every frame completed
// so far. Payloads of returned frames are owned by the caller.
type Decoder interface {
	Feed(data []byte) ([]Frame, error)
}

func validate(f Frame) error {
	switch {
	case len(f.Payload) > MaxPayload:
		return ErrPayloadTooLarge
	case f.StreamID < 0 || f.StreamID > MaxStreamID:
		return ErrBadStreamID
	}

	return nil
}

// MaxStreamID is the highest stream id the binary encoding can carry. Ids
// above it are not recognized as stream ids at all.
const MaxStreamID = 1<<32 - 1
