package status

type (
	Code   uint16
	Status string
)

// The engine deliberately speaks a small dialect of HTTP: these are the only
// codes it ever puts on the wire. CloseConnection is an internal sentinel and
// is never rendered.
const (
	CloseConnection Code = 0

	OK          Code = 200 // RFC 9110, 15.3.1
	NotModified Code = 304 // RFC 9110, 15.4.5

	BadRequest Code = 400 // RFC 9110, 15.5.1
	Forbidden  Code = 403 // RFC 9110, 15.5.4
	NotFound   Code = 404 // RFC 9110, 15.5.5

	InternalServerError     Code = 500 // RFC 9110, 15.6.1
	NotImplemented          Code = 501 // RFC 9110, 15.6.2
	BadGateway              Code = 502 // RFC 9110, 15.6.3
	HTTPVersionNotSupported Code = 505 // RFC 9110, 15.6.6
)

// Text returns the reason phrase for the status code, or "Unknown Status Code"
// for codes outside the supported dialect.
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case NotModified:
		return "Not Modified"
	case BadRequest:
		return "Bad Request"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "Not Found"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	case BadGateway:
		return "Bad Gateway"
	case HTTPVersionNotSupported:
		return "HTTP Version Not Supported"
	default:
		return "Unknown Status Code"
	}
}

// Line returns the complete status line for the code, without the trailing
// CRLF, e.g. "HTTP/1.1 404 Not Found".
func Line(code Code) string {
	switch code {
	case OK:
		return "HTTP/1.1 200 OK"
	case NotModified:
		return "HTTP/1.1 304 Not Modified"
	case BadRequest:
		return "HTTP/1.1 400 Bad Request"
	case Forbidden:
		return "HTTP/1.1 403 Forbidden"
	case NotFound:
		return "HTTP/1.1 404 Not Found"
	case InternalServerError:
		return "HTTP/1.1 500 Internal Server Error"
	case NotImplemented:
		return "HTTP/1.1 501 Not Implemented"
	case BadGateway:
		return "HTTP/1.1 502 Bad Gateway"
	case HTTPVersionNotSupported:
		return "HTTP/1.1 505 HTTP Version Not Supported"
	default:
		return "HTTP/1.1 500 Internal Server Error"
	}
}
