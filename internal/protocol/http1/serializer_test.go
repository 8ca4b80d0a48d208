package http1

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/weft-http/weft/http"
	"github.com/weft-http/weft/http/method"
	"github.com/weft-http/weft/http/status"
	"github.com/weft-http/weft/internal/httpdate"
	"github.com/weft-http/weft/internal/httptest"
)

func render(req *http.Request, response *http.Response) string {
	return string(Render(nil, req, response.Reveal()))
}

func parseRendered(t *testing.T, raw string) httptest.Response {
	t.Helper()

	response, rest, err := httptest.Parse(raw)
	require.NoError(t, err)
	require.Empty(t, rest)

	return response
}

func TestRender(t *testing.T) {
	t.Run("200 with body", func(t *testing.T) {
		raw := render(nil, http.NewResponse().String("Hello, world!"))
		response := parseRendered(t, raw)
		require.Equal(t, "HTTP/1.1", response.Proto)
		require.Equal(t, 200, response.Code)
		require.Equal(t, "OK", response.Status)
		require.Equal(t, "weft", response.Headers.Value("server"))
		require.Equal(t, "13", response.Headers.Value("content-length"))
		require.Equal(t, "text/html", response.Headers.Value("content-type"))
		require.Equal(t, "Hello, world!", response.Body)

		_, err := httpdate.Parse(response.Headers.Value("date"))
		require.NoError(t, err, "every response must carry a valid Date")
	})

	t.Run("empty body omits content-type", func(t *testing.T) {
		raw := render(nil, http.NewResponse())
		response := parseRendered(t, raw)
		require.Equal(t, 200, response.Code)
		require.Equal(t, "0", response.Headers.Value("content-length"))
		_, found := response.Headers.Lookup("content-type")
		require.False(t, found)
	})

	t.Run("304 stays minimal", func(t *testing.T) {
		raw := render(nil, http.NewResponse().Code(status.NotModified))
		response := parseRendered(t, raw)
		require.Equal(t, 304, response.Code)
		require.Equal(t, "Not Modified", response.Status)
		require.Empty(t, response.Body)
		_, found := response.Headers.Lookup("content-length")
		require.False(t, found)
		_, found = response.Headers.Lookup("content-type")
		require.False(t, found)
		require.True(t, strings.HasSuffix(raw, "\r\n\r\n"))
	})

	t.Run("custom headers are rendered", func(t *testing.T) {
		resp := http.NewResponse().
			Header("Last-Modified", "Thu, 07 Mar 2024 16:45:09 GMT").
			String("content")
		response := parseRendered(t, render(nil, resp))
		require.Equal(t, "Thu, 07 Mar 2024 16:45:09 GMT", response.Headers.Value("last-modified"))
	})

	t.Run("error page", func(t *testing.T) {
		raw := render(nil, http.NewResponse().Error(status.ErrForbidden))
		response := parseRendered(t, raw)
		require.Equal(t, 403, response.Code)
		require.Equal(t, "Forbidden", response.Status)
		require.Equal(t, "<h1>403 Forbidden</h1>", response.Body)
	})

	t.Run("HEAD suppresses the body but not its length", func(t *testing.T) {
		request := &http.Request{Method: method.HEAD, StreamID: http.NoStream}
		raw := render(request, http.NewResponse().String("Hello, world!"))
		require.True(t, strings.HasSuffix(raw, "\r\n\r\n"), "no body bytes may follow the head")
		require.Contains(t, raw, "Content-Length: 13\r\n")
		require.NotContains(t, raw, "Hello, world!")
	})
}
