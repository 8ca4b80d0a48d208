package http1

import (
	"bytes"
	"net"
	"strconv"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	"github.com/weft-http/weft/frame"
	"github.com/weft-http/weft/http"
	"github.com/weft-http/weft/http/method"
	"github.com/weft-http/weft/http/proto"
	"github.com/weft-http/weft/http/status"
	"github.com/weft-http/weft/kv"
)

var (
	crlf           = []byte("\r\n")
	headTerminator = []byte("\r\n\r\n")
)

// FindHead reports the length of the first complete head in buff, the
// terminating empty line included, or -1 if no terminator arrived yet.
func FindHead(buff []byte) int {
	idx := bytes.Index(buff, headTerminator)
	if idx == -1 {
		return -1
	}

	return idx + len(headTerminator)
}

// Parse decodes one complete head into a request. Nothing of the input is
// retained: every string the request carries is copied out, as the connection
// reuses the underlying buffer for the next message.
//
// A request line that doesn't split into exactly three tokens is reported as
// status.ErrMalformedRequestLine. Header lines without a colon are skipped,
// repeated header keys keep the value seen last.
func Parse(head []byte, remote net.Addr, headersPrealloc int) (*http.Request, error) {
	line, rest := cutLine(head)

	tokens := bytes.Fields(line)
	if len(tokens) != 3 {
		return nil, status.ErrMalformedRequestLine
	}

	request := &http.Request{
		Method:     method.Parse(uf.B2S(tokens[0])),
		Path:       string(tokens[1]),
		Protocol:   proto.FromBytes(tokens[2]),
		ProtoToken: string(tokens[2]),
		Headers:    kv.NewPrealloc(headersPrealloc),
		StreamID:   http.NoStream,
		Remote:     remote,
	}

	for len(rest) > 0 {
		line, rest = cutLine(rest)
		if len(line) == 0 {
			break
		}

		colon := bytes.IndexByte(line, ':')
		if colon == -1 {
			// not a header field at all, skip the line
			continue
		}

		key := line[:colon]
		value := bytes.Trim(line[colon+1:], " \t")

		if id, ok := parseStreamID(key, value); ok {
			request.StreamID = id
			continue
		}

		request.Headers.Set(string(key), string(value))
	}

	request.ContentLength = contentLength(request.Headers)

	return request, nil
}

func cutLine(b []byte) (line, rest []byte) {
	idx := bytes.Index(b, crlf)
	if idx == -1 {
		return b, nil
	}

	return b[:idx], b[idx+2:]
}

// parseStreamID recognizes the stream id header. A value that is not a
// decimal integer within the protocol range does not match, the pair then
// stays an ordinary header.
func parseStreamID(key, value []byte) (int64, bool) {
	if !strcomp.EqualFold(uf.B2S(key), "stream-id") {
		return 0, false
	}

	id, err := strconv.ParseInt(uf.B2S(value), 10, 64)
	if err != nil || id < 0 || id > frame.MaxStreamID {
		return 0, false
	}

	return id, true
}

// contentLength parses the announced body size. Unparsable values count as no
// body, matching the engine's overall stance of never reading bodies.
func contentLength(headers http.Headers) int {
	value := headers.Value("content-length")
	if len(value) == 0 {
		return 0
	}

	length, err := strconv.Atoi(value)
	if err != nil || length < 0 {
		return 0
	}

	return length
}
