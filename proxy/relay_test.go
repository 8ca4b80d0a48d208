package proxy

import (
	"errors"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/weft-http/weft/config"
	"github.com/weft-http/weft/http"
	"github.com/weft-http/weft/http/method"
	"github.com/weft-http/weft/http/mime"
	"github.com/weft-http/weft/http/proto"
	"github.com/weft-http/weft/http/status"
	"github.com/weft-http/weft/kv"
	"github.com/weft-http/weft/transport/dummy"
)

func get(path string, headers ...string) *http.Request {
	request := &http.Request{
		Method:     method.GET,
		Path:       path,
		Protocol:   proto.HTTP11,
		ProtoToken: "HTTP/1.1",
		Headers:    kv.New(),
		StreamID:   http.NoStream,
	}

	for i := 0; i < len(headers); i += 2 {
		request.Headers.Add(headers[i], headers[i+1])
	}

	return request
}

func TestLocalFailures(t *testing.T) {
	relay := New(config.Default().Proxy, zerolog.Nop())
	dials := 0
	relay.dial = func(addr string) (net.Conn, error) {
		dials++
		return nil, errors.New("must not be dialed")
	}

	t.Run("unsupported version", func(t *testing.T) {
		request := get("/index.html", "Host", "example.com")
		request.Protocol, request.ProtoToken = proto.HTTP10, "HTTP/1.0"

		fields := relay.Serve(request).Reveal()
		require.Equal(t, status.HTTPVersionNotSupported, fields.Code)
	})

	t.Run("unknown method", func(t *testing.T) {
		request := get("/index.html", "Host", "example.com")
		request.Method = method.Unknown

		fields := relay.Serve(request).Reveal()
		require.Equal(t, status.NotImplemented, fields.Code)
	})

	t.Run("missing host", func(t *testing.T) {
		fields := relay.Serve(get("/index.html")).Reveal()
		require.Equal(t, status.BadRequest, fields.Code)
	})

	require.Zero(t, dials, "local failures must not open upstream connections")

	t.Run("unreachable origin", func(t *testing.T) {
		relay := New(config.Default().Proxy, zerolog.Nop())
		relay.dial = func(addr string) (net.Conn, error) {
			return nil, errors.New("connection refused")
		}

		fields := relay.Serve(get("/index.html", "Host", "example.com")).Reveal()
		require.Equal(t, status.BadGateway, fields.Code)
	})
}

func TestForwardHead(t *testing.T) {
	const remembered = "Fri, 15 Mar 2024 10:00:00 GMT"

	t.Run("verbatim with connection close", func(t *testing.T) {
		request := get("/page.html",
			"Host", "example.com",
			"User-Agent", "weft-test",
			"Connection", "keep-alive",
		)

		head := string(forwardHead(request, ""))
		require.True(t, strings.HasPrefix(head, "GET /page.html HTTP/1.1\r\n"))
		require.Contains(t, head, "Host: example.com\r\n")
		require.Contains(t, head, "User-Agent: weft-test\r\n")
		require.NotContains(t, head, "keep-alive")
		require.Contains(t, head, "Connection: close\r\n")
		require.True(t, strings.HasSuffix(head, "\r\n\r\n"))
	})

	t.Run("validator injected", func(t *testing.T) {
		head := string(forwardHead(get("/page.html", "Host", "example.com"), remembered))
		require.Contains(t, head, "If-Modified-Since: "+remembered+"\r\n")
	})

	t.Run("client condition wins", func(t *testing.T) {
		const own = "Sat, 16 Mar 2024 12:30:00 GMT"
		request := get("/page.html", "Host", "example.com", "If-Modified-Since", own)

		head := string(forwardHead(request, remembered))
		require.Contains(t, head, "If-Modified-Since: "+own+"\r\n")
		require.NotContains(t, head, remembered)
		require.Equal(t, 1, strings.Count(head, "If-Modified-Since"))
	})
}

func TestOriginAddr(t *testing.T) {
	require.Equal(t, "example.com:80", originAddr("example.com"))
	require.Equal(t, "example.com:8080", originAddr("example.com:8080"))
}

func TestTransparentRelay(t *testing.T) {
	const wire = "HTTP/1.1 200 OK\r\nContent-Length: 5\r\nContent-Type: text/html\r\n\r\nhello"
	origin := dummy.NewConn([]byte(wire))

	relay := New(config.Default().Proxy, zerolog.Nop())
	var dialed []string
	relay.dial = func(addr string) (net.Conn, error) {
		dialed = append(dialed, addr)
		return origin, nil
	}

	fields := relay.Serve(get("/page.html", "Host", "example.com:8080")).Reveal()
	require.Equal(t, []string{"example.com:8080"}, dialed)
	require.NotNil(t, fields.Passthrough)

	relayed, err := io.ReadAll(fields.Passthrough)
	require.NoError(t, err)
	require.Equal(t, wire, string(relayed))

	sent := string(origin.Data)
	require.True(t, strings.HasPrefix(sent, "GET /page.html HTTP/1.1\r\n"))
	require.Contains(t, sent, "Connection: close\r\n")
}

func TestCachingExchange(t *testing.T) {
	cfg := config.Default().Proxy
	cfg.CacheEntries = 8

	const validator = "Fri, 15 Mar 2024 10:00:00 GMT"
	first := "HTTP/1.1 200 OK\r\n" +
		"Content-Length: 5\r\n" +
		"Content-Type: text/plain\r\n" +
		"Last-Modified: " + validator + "\r\n" +
		"\r\n" +
		"hello"

	relay := New(cfg, zerolog.Nop())
	origins := []*dummy.Conn{
		dummy.NewConn([]byte(first)),
		dummy.NewConn([]byte("HTTP/1.1 304 Not Modified\r\n\r\n")),
	}
	dials := 0
	relay.dial = func(addr string) (net.Conn, error) {
		conn := origins[dials]
		dials++
		return conn, nil
	}

	t.Run("miss populates", func(t *testing.T) {
		fields := relay.Serve(get("/data.txt", "Host", "example.com")).Reveal()
		require.NotNil(t, fields.Passthrough)

		relayed, err := io.ReadAll(fields.Passthrough)
		require.NoError(t, err)
		require.Equal(t, first, string(relayed))
		require.Equal(t, 1, relay.cache.Len())
		require.True(t, origins[0].Closed())
	})

	t.Run("revalidation replays", func(t *testing.T) {
		fields := relay.Serve(get("/data.txt", "Host", "example.com")).Reveal()
		require.Nil(t, fields.Passthrough)
		require.Equal(t, status.OK, fields.Code)
		require.Equal(t, "hello", string(fields.Body))
		require.Equal(t, mime.Plain, fields.ContentType)
		require.Equal(t, []kv.Pair{{Key: "Last-Modified", Value: validator}}, fields.Headers)

		// the remembered validator traveled upstream as a condition
		sent := string(origins[1].Data)
		require.Contains(t, sent, "If-Modified-Since: "+validator+"\r\n")
	})

	require.Equal(t, 2, dials)
}

func TestUncacheableRelaysRaw(t *testing.T) {
	cfg := config.Default().Proxy
	cfg.CacheEntries = 8

	for name, wire := range map[string]string{
		"error response": "HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\n\r\n",
		"opaque bytes":   "not http at all",
	} {
		t.Run(name, func(t *testing.T) {
			relay := New(cfg, zerolog.Nop())
			relay.dial = func(addr string) (net.Conn, error) {
				return dummy.NewConn([]byte(wire)), nil
			}

			fields := relay.Serve(get("/data.txt", "Host", "example.com")).Reveal()
			require.NotNil(t, fields.Passthrough)

			relayed, err := io.ReadAll(fields.Passthrough)
			require.NoError(t, err)
			require.Equal(t, wire, string(relayed))
			require.Equal(t, 0, relay.cache.Len())
		})
	}
}

func TestCacheSkipsNonGET(t *testing.T) {
	cfg := config.Default().Proxy
	cfg.CacheEntries = 8

	origin := dummy.NewConn([]byte("HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n"))
	relay := New(cfg, zerolog.Nop())
	relay.dial = func(addr string) (net.Conn, error) {
		return origin, nil
	}

	request := get("/submit", "Host", "example.com")
	request.Method = method.POST

	fields := relay.Serve(request).Reveal()
	// transparent mode hands the socket itself over
	require.Same(t, origin, fields.Passthrough)
	require.Equal(t, 0, relay.cache.Len())
}
