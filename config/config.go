package config

import "time"

type (
	NET struct {
		// ReadBufferSize is a size of the buffer in bytes used to read from a socket.
		ReadBufferSize int
		// ReadTimeout controls the maximal lifetime of idle connections. If no data
		// arrived in this period of time, the connection is closed.
		ReadTimeout time.Duration
		// WriteTimeout is armed before every locked write to a client connection.
		WriteTimeout time.Duration
		// AcceptLoopInterruptPeriod controls how often the Accept() call is interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod time.Duration
	}

	HTTP struct {
		// HeadBufferPrealloc is the initial size of the per-connection buffer
		// accumulating request heads.
		HeadBufferPrealloc int
		// HeadMaxSize caps a single request head. A head growing past it is answered
		// with 400 and the connection is closed, as its end cannot be found anymore.
		HeadMaxSize int
		// HeadersPrealloc is the number of preallocated seats for parsed headers.
		HeadersPrealloc int
		// ResponseBuffPrealloc is the initial size of the per-worker buffer a response
		// is serialized into before the connection lock is taken.
		ResponseBuffPrealloc int
		// FileBuffSize bounds a single read of a passthrough body (files, upstream
		// responses).
		FileBuffSize int
	}

	Frame struct {
		// PayloadSize is the number of body bytes carried by a single frame. Values
		// above the protocol limit are clamped to it.
		PayloadSize int
		// Legacy switches the wire codec from the length-prefixed binary format to
		// the delimited text format old peers speak.
		Legacy bool `test:"nullable"`
	}

	FS struct {
		// Root is the directory documents are served from.
		Root string
		// Index substitutes a bare "/" path.
		Index string
		// Restricted lists paths answered with 403 no matter whether they exist.
		Restricted []string `test:"nullable"`
	}

	Proxy struct {
		// DialTimeout limits establishing an upstream connection.
		DialTimeout time.Duration
		// UpstreamReadBuffer bounds a single read of an origin response.
		UpstreamReadBuffer int
		// CacheEntries caps the response cache. Zero disables caching entirely.
		CacheEntries int `test:"nullable"`
		// CacheSnapshot is an optional path the cache is persisted to on shutdown
		// and loaded from on start. Empty disables persistence.
		CacheSnapshot string `test:"nullable"`
	}
)

// Config holds settings used across the engine, mainly restrictions,
// limitations and pre-allocations.
//
// Always modify defaults (returned via Default()) instead of constructing the
// struct manually, otherwise zero limits will reject everything.
type Config struct {
	NET   NET
	HTTP  HTTP
	Frame Frame
	FS    FS
	Proxy Proxy
}

// Default returns a well-balanced default config.
func Default() *Config {
	return &Config{
		NET: NET{
			ReadBufferSize:            2 * 1024,
			ReadTimeout:               90 * time.Second,
			WriteTimeout:              10 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
		},
		HTTP: HTTP{
			HeadBufferPrealloc: 1024,
			// most web entities limit the head to 4-8kb, so being twice as
			// tolerant is already generous
			HeadMaxSize:          16 * 1024,
			HeadersPrealloc:      10,
			ResponseBuffPrealloc: 2 * 1024,
			FileBuffSize:         4 * 1024,
		},
		Frame: Frame{
			PayloadSize: 1024,
			Legacy:      false,
		},
		FS: FS{
			Root:  "static",
			Index: "index.html",
		},
		Proxy: Proxy{
			DialTimeout:        10 * time.Second,
			UpstreamReadBuffer: 4 * 1024,
			CacheEntries:       0,
		},
	}
}
