package frame

import "encoding/binary"

// Binary is the default wire format: a fixed 9-octet header carrying the
// stream id (4 octets, big-endian), a flags octet with the END bit, and the
// payload length (4 octets, big-endian), followed by the payload itself.
// Unlike the delimited format it is self-delimiting, so arbitrary binary
// payloads survive a byte stream untouched.
type Binary struct{}

const (
	headerSize = 9
	flagEnd    = 0x01
)

func (Binary) AppendEncode(dst []byte, f Frame) ([]byte, error) {
	if err := validate(f); err != nil {
		return dst, err
	}

	var flags byte
	if f.End {
		flags |= flagEnd
	}

	dst = binary.BigEndian.AppendUint32(dst, uint32(f.StreamID))
	dst = append(dst, flags)
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(f.Payload)))

	return append(dst, f.Payload...), nil
}

func (Binary) Decoder() Decoder {
	return new(binaryDecoder)
}

type binaryDecoderState uint8

const (
	eHeader binaryDecoderState = iota
	ePayload
)

// binaryDecoder reassembles frames from arbitrarily split reads: first the
// fixed-size header is accumulated, then the announced number of payload
// bytes.
type binaryDecoder struct {
	state   binaryDecoderState
	header  [headerSize]byte
	offset  int
	pending Frame
	left    int
}

func (d *binaryDecoder) Feed(data []byte) (frames []Frame, err error) {
	for len(data) > 0 {
		switch d.state {
		case eHeader:
			n := copy(d.header[d.offset:], data)
			d.offset += n
			data = data[n:]
			if d.offset < headerSize {
				return frames, nil
			}

			length := binary.BigEndian.Uint32(d.header[5:9])
			if length > MaxPayload {
				return frames, ErrPayloadTooLarge
			}

			d.pending = Frame{
				StreamID: int64(binary.BigEndian.Uint32(d.header[0:4])),
				End:      d.header[4]&flagEnd != 0,
				Payload:  make([]byte, 0, length),
			}
			d.left = int(length)
			d.offset = 0
			d.state = ePayload
		case ePayload:
			piece := len(data)
			if piece > d.left {
				piece = d.left
			}

			d.pending.Payload = append(d.pending.Payload, data[:piece]...)
			d.left -= piece
			data = data[piece:]
		}

		if d.state == ePayload && d.left == 0 {
			frames = append(frames, d.pending)
			d.pending = Frame{}
			d.state = eHeader
		}
	}

	return frames, nil
}
