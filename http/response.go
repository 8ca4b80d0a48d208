package http

import (
	"io"
	"strconv"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	"github.com/weft-http/weft/http/mime"
	"github.com/weft-http/weft/http/status"
	"github.com/weft-http/weft/kv"
)

const preallocRespHeaders = 4

// Fields is what the builder accumulates and the wire layer renders.
type Fields struct {
	Code        status.Code
	ContentType mime.MIME
	Headers     []kv.Pair
	Body        []byte
	// Passthrough, when set, wins over everything above: the wire layer
	// copies the reader through in bounded chunks with no reinterpretation,
	// as the bytes already form a complete HTTP response.
	Passthrough io.Reader
}

type Response struct {
	fields Fields
}

// NewResponse returns a response builder with the code set to 200 OK and
// text/html content type.
func NewResponse() *Response {
	return &Response{
		fields: Fields{
			Code:        status.OK,
			ContentType: mime.HTML,
			Headers:     make([]kv.Pair, 0, preallocRespHeaders),
		},
	}
}

// Code sets the response code. The reason phrase follows automatically.
func (r *Response) Code(code status.Code) *Response {
	r.fields.Code = code
	return r
}

// ContentType sets a custom Content-Type header value. It is rendered only
// when the body is non-empty.
func (r *Response) ContentType(value mime.MIME) *Response {
	r.fields.ContentType = value
	return r
}

// Header adds a header pair. Content-Type is redirected to its dedicated
// field.
func (r *Response) Header(key, value string) *Response {
	if strcomp.EqualFold(key, "content-type") {
		return r.ContentType(value)
	}

	r.fields.Headers = append(r.fields.Headers, kv.Pair{Key: key, Value: value})
	return r
}

// String sets the response body to the passed string.
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response body to the passed slice WITHOUT copying, so the
// caller must not modify it afterwards.
func (r *Response) Bytes(body []byte) *Response {
	r.fields.Body = body
	return r
}

// Passthrough makes the wire layer relay the reader's bytes untouched
// instead of rendering the builder's own head and body.
func (r *Response) Passthrough(origin io.Reader) *Response {
	r.fields.Passthrough = origin
	return r
}

// Error fills the response from an error value: status.HTTPError selects its
// own code, anything else renders as 500. The body becomes the standard
// explanatory page for the code.
func (r *Response) Error(err error) *Response {
	if err == nil {
		return r
	}

	code := status.InternalServerError
	if http, ok := err.(status.HTTPError); ok {
		code = http.Code
	}

	return r.
		Code(code).
		ContentType(mime.HTML).
		Bytes(ErrorPage(code))
}

// Reveal returns the accumulated fields. Used by the wire layer.
func (r *Response) Reveal() *Fields {
	return &r.fields
}

// ErrorPage renders the explanatory body every non-200 status is served
// with, e.g. "<h1>404 Not Found</h1>".
func ErrorPage(code status.Code) []byte {
	page := make([]byte, 0, 32)
	page = append(page, "<h1>"...)
	page = strconv.AppendInt(page, int64(code), 10)
	page = append(page, ' ')
	page = append(page, status.Text(code)...)
	page = append(page, "</h1>"...)

	return page
}
