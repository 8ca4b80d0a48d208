// Package fileserver turns resource facts into status decisions: every
// request deterministically maps to one of 505, 403, 404, 304 or 200, in
// exactly that order of checks.
package fileserver

import (
	"path"
	"strings"
	"time"

	"github.com/weft-http/weft/config"
	"github.com/weft-http/weft/http"
	"github.com/weft-http/weft/http/mime"
	"github.com/weft-http/weft/http/proto"
	"github.com/weft-http/weft/http/status"
	"github.com/weft-http/weft/internal/httpdate"
)

// Server is the status decision engine over a document storage. It is a pure
// function of the request and the facts, safe for concurrent use.
type Server struct {
	index      string
	facts      Facts
	restricted map[string]struct{}
}

func New(cfg config.FS, facts Facts) *Server {
	restricted := make(map[string]struct{}, len(cfg.Restricted))
	for _, entry := range cfg.Restricted {
		restricted[canonical(entry)] = struct{}{}
	}

	return &Server{
		index:      cfg.Index,
		facts:      facts,
		restricted: restricted,
	}
}

func (s *Server) Serve(request *http.Request) *http.Response {
	resp := http.NewResponse()

	// the version gate comes first: even a nonexistent path on HTTP/1.0
	// answers 505, never 404
	if request.Protocol != proto.HTTP11 {
		return resp.Error(status.ErrHTTPVersionNotSupported)
	}

	name, confined := s.resolve(request.Path)
	if !confined {
		return resp.Error(status.ErrNotFound)
	}

	if _, found := s.restricted[name]; found {
		// restricted names deny regardless of their existence on disk
		return resp.Error(status.ErrForbidden)
	}

	if !s.facts.Exists(name) {
		return resp.Error(status.ErrNotFound)
	}

	modified, haveModified := s.facts.LastModified(name)
	if haveModified {
		// wire dates carry whole seconds only, so the comparison drops the
		// fractional part too
		modified = modified.Truncate(time.Second)
	}

	if since, ok := s.condition(request); ok && haveModified && !modified.After(since) {
		return resp.Code(status.NotModified)
	}

	content, err := s.facts.Read(name)
	if err != nil {
		return resp.Error(status.ErrInternalServerError)
	}

	resp.ContentType(mime.ByExtension(name)).Bytes(content)
	if haveModified {
		resp.Header("Last-Modified", httpdate.Format(modified))
	}

	return resp
}

// condition extracts the If-Modified-Since timestamp. A malformed value
// counts as no conditional header at all.
func (s *Server) condition(request *http.Request) (time.Time, bool) {
	value := request.Headers.Value("if-modified-since")
	if len(value) == 0 {
		return time.Time{}, false
	}

	since, err := httpdate.Parse(value)
	if err != nil {
		return time.Time{}, false
	}

	return since, true
}

// resolve maps a request path onto a relative document name, substituting
// the index document for the bare root. It reports false for paths that
// escape the serving root.
func (s *Server) resolve(requestPath string) (name string, confined bool) {
	if requestPath == "" || requestPath == "/" {
		requestPath = s.index
	}

	name = canonical(requestPath)
	if name == ".." || strings.HasPrefix(name, "../") {
		return "", false
	}

	return name, true
}

func canonical(p string) string {
	return path.Clean(strings.TrimPrefix(p, "/"))
}
