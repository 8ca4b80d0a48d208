package proxy

import (
	"bytes"
	"errors"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	jsoniter "github.com/json-iterator/go"
	"github.com/weft-http/weft/http"
	"github.com/weft-http/weft/http/status"
	"github.com/weft-http/weft/internal/httpdate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// refresh drives the caching exchange: the origin's response is taken whole,
// a 200 refreshes the entry, a 304 replays the remembered one to the client
// as a plain 200. Everything else relays untouched.
func (r *Relay) refresh(resp *http.Response, key string, conn net.Conn) *http.Response {
	raw, err := r.slurp(conn)
	_ = conn.Close()

	if err != nil {
		r.log.Warn().Err(err).Msg("upstream read failed")
		return resp.Error(status.ErrBadGateway)
	}

	code, head, body := dissect(raw)

	switch code {
	case status.OK:
		validator := headerValue(head, "last-modified")
		if len(validator) == 0 {
			// the origin gave nothing to validate against, remember the
			// moment of arrival instead
			validator = httpdate.Format(time.Now())
		}

		r.cache.Store(key, Entry{
			Validator:   validator,
			ContentType: headerValue(head, "content-type"),
			Body:        bytes.Clone(body),
		})
	case status.NotModified:
		if entry, found := r.cache.Load(key); found {
			if len(entry.ContentType) > 0 {
				resp.ContentType(entry.ContentType)
			}
			if len(entry.Validator) > 0 {
				resp.Header("Last-Modified", entry.Validator)
			}

			return resp.Bytes(entry.Body)
		}
	}

	return resp.Passthrough(bytes.NewReader(raw))
}

// slurp reads the upstream response whole, in bounded reads, until EOF.
func (r *Relay) slurp(conn net.Conn) ([]byte, error) {
	var (
		raw  []byte
		buff = make([]byte, r.cfg.UpstreamReadBuffer)
	)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(r.cfg.DialTimeout))

		n, err := conn.Read(buff)
		raw = append(raw, buff[:n]...)

		switch err {
		case nil:
		case io.EOF:
			return raw, nil
		default:
			return nil, err
		}
	}
}

// dissect splits a raw response into its advertised code, head and body. A
// response it cannot make sense of comes back with code zero, which no
// branch matches, so such responses relay untouched.
func dissect(raw []byte) (status.Code, []byte, []byte) {
	head, body, found := bytes.Cut(raw, []byte("\r\n\r\n"))
	if !found {
		return 0, raw, nil
	}

	line := head
	if idx := bytes.Index(line, crlf); idx != -1 {
		line = line[:idx]
	}

	fields := bytes.Fields(line)
	if len(fields) < 2 {
		return 0, head, body
	}

	code, err := strconv.Atoi(uf.B2S(fields[1]))
	if err != nil {
		return 0, head, body
	}

	return status.Code(code), head, body
}

func headerValue(head []byte, key string) string {
	lines := bytes.Split(head, crlf)
	for _, line := range lines[1:] {
		k, v, found := bytes.Cut(line, []byte(":"))
		if found && strcomp.EqualFold(uf.B2S(k), key) {
			return string(bytes.Trim(v, " \t"))
		}
	}

	return ""
}

// Entry is one remembered origin response.
type Entry struct {
	Validator   string `json:"validator"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Cache remembers origin responses per host+path, bounded by entry count
// with least-recently-touched eviction. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	limit   int
	tick    uint64
	entries map[string]*cached
}

type cached struct {
	entry Entry
	used  uint64
}

func NewCache(limit int) *Cache {
	return &Cache{
		limit:   limit,
		entries: make(map[string]*cached, limit),
	}
}

// Validator returns the stored validator for the key, or empty when the key
// was never cached.
func (c *Cache) Validator(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.entries[key]
	if !found {
		return ""
	}

	c.touch(item)

	return item.entry.Validator
}

// Load returns the remembered entry, touching it on the way.
func (c *Cache) Load(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.entries[key]
	if !found {
		return Entry{}, false
	}

	c.touch(item)

	return item.entry, true
}

// Store inserts or replaces an entry, evicting the least recently touched
// one once the limit is exceeded.
func (c *Cache) Store(key string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, found := c.entries[key]; found {
		item.entry = entry
		c.touch(item)
		return
	}

	item := &cached{entry: entry}
	c.touch(item)
	c.entries[key] = item

	if len(c.entries) <= c.limit {
		return
	}

	var (
		oldestKey  string
		oldestUsed = c.tick + 1
	)

	for k, it := range c.entries {
		if it.used < oldestUsed {
			oldestKey, oldestUsed = k, it.used
		}
	}

	delete(c.entries, oldestKey)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *Cache) touch(item *cached) {
	c.tick++
	item.used = c.tick
}

// Dump persists the cache contents as JSON.
func (c *Cache) Dump(path string) error {
	c.mu.Lock()
	snapshot := make(map[string]Entry, len(c.entries))
	for key, item := range c.entries {
		snapshot[key] = item.entry
	}
	c.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Restore loads a dump made earlier. A missing file is fine, the cache then
// starts cold.
func (c *Cache) Restore(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return err
	}

	snapshot := make(map[string]Entry)
	if err = json.Unmarshal(data, &snapshot); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range snapshot {
		item := &cached{entry: entry}
		c.touch(item)
		c.entries[key] = item
	}

	return nil
}
