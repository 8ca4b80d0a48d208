package httptest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/weft-http/weft/kv"
)

// Response is a decoded wire response, as seen by a test.
type Response struct {
	Proto   string
	Code    int
	Status  string
	Headers *kv.Storage
	Body    string
}

// Parse decodes the first complete response in raw and returns whatever
// followed it, so pipelined wires can be consumed response by response. The
// body is sized by Content-Length; a response without one carries no body.
func Parse(raw string) (response Response, rest string, err error) {
	response.Headers = kv.New()

	var found bool
	response.Proto, raw, found = strings.Cut(raw, " ")
	if !found || len(raw) == 0 {
		return response, "", fmt.Errorf("bad status line: lacking code and status")
	}

	var code string
	code, raw, found = strings.Cut(raw, " ")
	response.Code, err = strconv.Atoi(code)
	if err != nil {
		return response, "", err
	}

	if !found || len(raw) == 0 {
		return response, "", fmt.Errorf("bad status line: lacking reason phrase")
	}

	response.Status, raw, found = strings.Cut(raw, "\r\n")
	if !found {
		return response, "", fmt.Errorf("bad response: nothing past the status line")
	}

	for {
		var line string
		line, raw, found = strings.Cut(raw, "\r\n")
		if !found {
			return response, "", fmt.Errorf("bad header line %q: no breaking CRLF", line)
		}
		if len(line) == 0 {
			break
		}

		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			return response, "", fmt.Errorf("bad header line %q: no value", line)
		}

		response.Headers.Add(key, value)
	}

	length := 0
	if cl := response.Headers.Value("content-length"); len(cl) > 0 {
		if length, err = strconv.Atoi(cl); err != nil {
			return response, "", err
		}
	}

	if len(raw) < length {
		return response, "", fmt.Errorf("bad body: announced %d bytes, got %d", length, len(raw))
	}

	response.Body = raw[:length]

	return response, raw[length:], nil
}

// ParseSeries decodes a wire holding any number of back-to-back responses.
func ParseSeries(raw string) (responses []Response, err error) {
	for len(raw) > 0 {
		var response Response
		response, raw, err = Parse(raw)
		if err != nil {
			return responses, err
		}

		responses = append(responses, response)
	}

	return responses, nil
}
