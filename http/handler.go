package http

// Handler turns one parsed request into one response. Implementations must be
// safe for concurrent use: the connection layer runs one worker per received
// message, and all of them share the handler.
type Handler interface {
	Serve(request *Request) *Response
}

type HandlerFunc func(request *Request) *Response

func (f HandlerFunc) Serve(request *Request) *Response {
	return f(request)
}
