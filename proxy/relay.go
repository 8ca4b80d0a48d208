// Package proxy forwards requests to their origin and relays the raw answer
// back, optionally remembering what it saw to spare the origin a transfer.
package proxy

import (
	"net"
	"time"

	"github.com/indigo-web/utils/strcomp"
	"github.com/rs/zerolog"
	"github.com/weft-http/weft/config"
	"github.com/weft-http/weft/http"
	"github.com/weft-http/weft/http/method"
	"github.com/weft-http/weft/http/proto"
	"github.com/weft-http/weft/http/status"
)

var crlf = []byte("\r\n")

// Dialer opens one upstream connection. The relay never pools: every request
// dials and closes its own.
type Dialer func(addr string) (net.Conn, error)

// Relay is an http.Handler forwarding each request to the origin named by
// its Host header. Responses come back as passthrough bytes with no
// reinterpretation of status or body, unless the cache takes part.
type Relay struct {
	cfg   config.Proxy
	dial  Dialer
	cache *Cache
	log   zerolog.Logger
}

func New(cfg config.Proxy, log zerolog.Logger) *Relay {
	relay := &Relay{
		cfg: cfg,
		dial: func(addr string) (net.Conn, error) {
			return net.DialTimeout("tcp", addr, cfg.DialTimeout)
		},
		log: log,
	}

	if cfg.CacheEntries > 0 {
		relay.cache = NewCache(cfg.CacheEntries)
	}

	return relay
}

func (r *Relay) Serve(request *http.Request) *http.Response {
	resp := http.NewResponse()

	// unsupported versions fail locally, no upstream connection is opened
	if request.Protocol != proto.HTTP11 {
		return resp.Error(status.ErrHTTPVersionNotSupported)
	}

	if request.Method == method.Unknown {
		// the parsed request keeps no token to forward for these
		return resp.Error(status.ErrUnsupportedMethod)
	}

	host := request.Headers.Value("host")
	if len(host) == 0 {
		return resp.Error(status.ErrMissingHost)
	}

	var key, validator string
	if r.cache != nil && request.Method == method.GET {
		key = host + request.Path
		validator = r.cache.Validator(key)
	}

	conn, err := r.dial(originAddr(host))
	if err != nil {
		r.log.Warn().Err(err).Str("host", host).Msg("upstream dial failed")
		return resp.Error(status.ErrBadGateway)
	}

	_ = conn.SetDeadline(time.Now().Add(r.cfg.DialTimeout))

	if _, err = conn.Write(forwardHead(request, validator)); err != nil {
		_ = conn.Close()
		r.log.Warn().Err(err).Str("host", host).Msg("upstream write failed")
		return resp.Error(status.ErrBadGateway)
	}

	if len(key) == 0 {
		// transparent mode: hand the socket over, the connection layer
		// streams it in bounded reads and closes it afterwards
		_ = conn.SetDeadline(time.Time{})
		return resp.Passthrough(conn)
	}

	return r.refresh(resp, key, conn)
}

// Snapshot persists the cache to the configured path, if both exist.
func (r *Relay) Snapshot() error {
	if r.cache == nil || len(r.cfg.CacheSnapshot) == 0 {
		return nil
	}

	return r.cache.Dump(r.cfg.CacheSnapshot)
}

// RestoreSnapshot loads a previously persisted cache. A missing file is not
// an error, the proxy then simply starts cold.
func (r *Relay) RestoreSnapshot() error {
	if r.cache == nil || len(r.cfg.CacheSnapshot) == 0 {
		return nil
	}

	return r.cache.Restore(r.cfg.CacheSnapshot)
}

// originAddr derives the dialable origin address from a Host header value,
// assuming port 80 when none is given.
func originAddr(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}

	return net.JoinHostPort(host, "80")
}

// forwardHead rebuilds the head for the origin: the request line and headers
// verbatim, minus hop-by-hop connection control, plus our own Connection:
// close so the origin terminates the response with EOF. A cache validator is
// injected as If-Modified-Since unless the client sent a condition itself.
func forwardHead(request *http.Request, validator string) []byte {
	head := make([]byte, 0, 256)
	head = append(head, request.Method.String()...)
	head = append(head, ' ')
	head = append(head, request.Path...)
	head = append(head, ' ')
	head = append(head, request.ProtoToken...)
	head = append(head, crlf...)

	hasCondition := false
	for key, value := range request.Headers.Pairs() {
		if strcomp.EqualFold(key, "connection") {
			continue
		}
		if strcomp.EqualFold(key, "if-modified-since") {
			hasCondition = true
		}

		head = append(head, key...)
		head = append(head, ':', ' ')
		head = append(head, value...)
		head = append(head, crlf...)
	}

	if len(validator) > 0 && !hasCondition {
		head = append(head, "If-Modified-Since: "...)
		head = append(head, validator...)
		head = append(head, crlf...)
	}

	head = append(head, "Connection: close"...)
	head = append(head, crlf...)

	return append(head, crlf...)
}
