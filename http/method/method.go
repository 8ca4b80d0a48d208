package method

type Method uint8

const (
	Unknown Method = iota
	GET
	HEAD
	POST
	PUT
	DELETE
	CONNECT
	OPTIONS
	TRACE
	PATCH
)

// List contains all recognized methods, Unknown excluded.
var List = []Method{GET, HEAD, POST, PUT, DELETE, CONNECT, OPTIONS, TRACE, PATCH}

var names = [...]string{
	Unknown: "UNKNOWN",
	GET:     "GET",
	HEAD:    "HEAD",
	POST:    "POST",
	PUT:     "PUT",
	DELETE:  "DELETE",
	CONNECT: "CONNECT",
	OPTIONS: "OPTIONS",
	TRACE:   "TRACE",
	PATCH:   "PATCH",
}

func (m Method) String() string {
	if int(m) >= len(names) {
		return names[Unknown]
	}

	return names[m]
}

// Parse recognizes the nine standard request methods. Unrecognized tokens map
// to Unknown; the engine still serves them, as the decision order never
// consults the method apart from suppressing HEAD bodies.
func Parse(token string) Method {
	if len(token) < 3 {
		return Unknown
	}

	switch token[0] {
	case 'G':
		if token == "GET" {
			return GET
		}
	case 'H':
		if token == "HEAD" {
			return HEAD
		}
	case 'P':
		switch token {
		case "POST":
			return POST
		case "PUT":
			return PUT
		case "PATCH":
			return PATCH
		}
	case 'D':
		if token == "DELETE" {
			return DELETE
		}
	case 'C':
		if token == "CONNECT" {
			return CONNECT
		}
	case 'O':
		if token == "OPTIONS" {
			return OPTIONS
		}
	case 'T':
		if token == "TRACE" {
			return TRACE
		}
	}

	return Unknown
}
