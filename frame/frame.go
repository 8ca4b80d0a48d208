package frame

import "iter"

// MaxPayload is the protocol-wide cap on the number of body bytes a single
// frame may carry. Codecs reject frames above it on both directions.
const MaxPayload = 1024

// Frame is a bounded unit of a response tagged with the logical stream it
// belongs to. For every stream, frames travel in production order and exactly
// the last one has End set.
type Frame struct {
	StreamID int64
	End      bool
	Payload  []byte
}

// Split segments payload into frames of at most size bytes each, preserving
// order. Every frame but the last has End=false; the last one, produced even
// for an empty payload, has End=true. The sequence is lazy and single-use:
// ranging over it a second time yields nothing.
func Split(streamID int64, payload []byte, size int) iter.Seq[Frame] {
	if size <= 0 || size > MaxPayload {
		size = MaxPayload
	}

	offset, done := 0, false

	return func(yield func(Frame) bool) {
		if done {
			return
		}

		for {
			piece := len(payload) - offset
			if piece > size {
				piece = size
			}

			f := Frame{
				StreamID: streamID,
				End:      offset+piece == len(payload),
				Payload:  payload[offset : offset+piece],
			}
			offset += piece
			done = f.End

			if !yield(f) || done {
				return
			}
		}
	}
}
