package http1

import (
	"strconv"
	"time"

	"github.com/weft-http/weft/http"
	"github.com/weft-http/weft/http/method"
	"github.com/weft-http/weft/http/status"
	"github.com/weft-http/weft/internal/httpdate"
)

const server = "weft"

// Render serializes a complete response into dst and returns the extended
// slice. The request is consulted for HEAD body suppression only and may be
// nil on paths where no request was parsed at all.
//
// Every response carries Date and Server. Content-Length is always announced
// except on 304, whose head must stay minimal. Content-Type accompanies
// non-empty bodies only.
func Render(dst []byte, req *http.Request, fields *http.Fields) []byte {
	dst = append(dst, status.Line(fields.Code)...)
	dst = append(dst, crlf...)

	dst = append(dst, "Date: "...)
	dst = httpdate.Append(dst, time.Now())
	dst = append(dst, crlf...)

	dst = append(dst, "Server: "...)
	dst = append(dst, server...)
	dst = append(dst, crlf...)

	for _, header := range fields.Headers {
		dst = append(dst, header.Key...)
		dst = append(dst, ':', ' ')
		dst = append(dst, header.Value...)
		dst = append(dst, crlf...)
	}

	if fields.Code != status.NotModified {
		dst = append(dst, "Content-Length: "...)
		dst = strconv.AppendInt(dst, int64(len(fields.Body)), 10)
		dst = append(dst, crlf...)
	}

	if len(fields.Body) > 0 {
		dst = append(dst, "Content-Type: "...)
		dst = append(dst, fields.ContentType...)
		dst = append(dst, crlf...)
	}

	dst = append(dst, crlf...)

	if req != nil && req.Method == method.HEAD {
		return dst
	}

	return append(dst, fields.Body...)
}
