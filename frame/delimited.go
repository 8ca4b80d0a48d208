package frame

import (
	"bytes"
	"strconv"

	"github.com/indigo-web/utils/uf"
)

// Delimited is the historical text format: `<stream_id>|<end_flag>|<payload>`
// with the end flag rendered as 0 or 1. Decoding splits on the first two
// delimiters only, so payloads containing '|' survive; but the format
// announces no length and therefore cannot be reassembled from a byte
// stream. It is kept for peers that map one frame onto one transport
// datagram and read it back whole.
type Delimited struct{}

const delimiter = '|'

func (Delimited) AppendEncode(dst []byte, f Frame) ([]byte, error) {
	if err := validate(f); err != nil {
		return dst, err
	}

	dst = strconv.AppendInt(dst, f.StreamID, 10)
	dst = append(dst, delimiter)
	if f.End {
		dst = append(dst, '1')
	} else {
		dst = append(dst, '0')
	}
	dst = append(dst, delimiter)

	return append(dst, f.Payload...), nil
}

func (Delimited) Decoder() Decoder {
	return delimitedDecoder{}
}

// delimitedDecoder treats every Feed call as exactly one whole frame, the
// way the original datagram-style peers consumed them.
type delimitedDecoder struct{}

func (delimitedDecoder) Feed(data []byte) ([]Frame, error) {
	if len(data) == 0 {
		return nil, nil
	}

	first := bytes.IndexByte(data, delimiter)
	if first < 0 {
		return nil, ErrBadFrame
	}

	second := bytes.IndexByte(data[first+1:], delimiter)
	if second < 0 {
		return nil, ErrBadFrame
	}
	second += first + 1

	id, err := strconv.ParseInt(uf.B2S(data[:first]), 10, 64)
	if err != nil || id < 0 || id > MaxStreamID {
		return nil, ErrBadFrame
	}

	var end bool
	switch uf.B2S(data[first+1 : second]) {
	case "0":
		end = false
	case "1":
		end = true
	default:
		return nil, ErrBadFrame
	}

	payload := data[second+1:]
	if len(payload) > MaxPayload {
		return nil, ErrPayloadTooLarge
	}

	return []Frame{{
		StreamID: id,
		End:      end,
		Payload:  bytes.Clone(payload),
	}}, nil
}
