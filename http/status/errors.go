package status

type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrCloseConnection = NewError(CloseConnection, "actively closing the connection")

	ErrBadRequest              = NewError(BadRequest, "bad request")
	ErrMalformedRequestLine    = NewError(BadRequest, "request line must carry exactly three tokens")
	ErrHeadTooLarge            = NewError(BadRequest, "request head exceeds the size limit")
	ErrMissingHost             = NewError(BadRequest, "missing Host header")
	ErrForbidden               = NewError(Forbidden, "forbidden")
	ErrNotFound                = NewError(NotFound, "not found")
	ErrInternalServerError     = NewError(InternalServerError, "internal server error")
	ErrUnsupportedMethod       = NewError(NotImplemented, "request method is not supported")
	ErrUnsupportedEncoding     = NewError(NotImplemented, "transfer encodings are not supported")
	ErrBadGateway              = NewError(BadGateway, "bad gateway")
	ErrHTTPVersionNotSupported = NewError(HTTPVersionNotSupported, "HTTP version not supported")
)
