package http1

import (
	"io"
	"sync"
	"time"

	"github.com/indigo-web/utils/strcomp"
	"github.com/rs/zerolog"
	"github.com/weft-http/weft/config"
	"github.com/weft-http/weft/frame"
	"github.com/weft-http/weft/http"
	"github.com/weft-http/weft/http/status"
	"github.com/weft-http/weft/internal/buffer"
	"github.com/weft-http/weft/internal/construct"
	"github.com/weft-http/weft/transport"
)

// frameHeadroom generously covers the frame header in both wire formats.
const frameHeadroom = 32

// Conn drives one accepted connection. The reader goroutine accumulates and
// parses message heads, spawning a worker per request; workers run the
// handler and push the outcome back through a single write lock, which is
// held for one whole response or one whole frame at a time. A closing
// connection stops accepting messages first, then waits out every worker
// still in flight.
type Conn struct {
	cfg     *config.Config
	client  transport.Client
	handler http.Handler
	log     zerolog.Logger
	codec   frame.Codec

	head    buffer.Buffer
	discard int

	mu sync.Mutex
	wg sync.WaitGroup
}

// New assembles a driver around an accepted client connection.
func New(cfg *config.Config, handler http.Handler, client transport.Client, log zerolog.Logger) *Conn {
	return &Conn{
		cfg:     cfg,
		client:  client,
		handler: handler,
		log:     log.With().Str("remote", remote(client)).Logger(),
		codec:   Codec(cfg.Frame),
		head:    construct.HeadBuffer(cfg.HTTP),
	}
}

// Codec selects the frame wire format the connection speaks.
func Codec(cfg config.Frame) frame.Codec {
	if cfg.Legacy {
		return frame.Delimited{}
	}

	return frame.Binary{}
}

// Serve runs the read loop until the peer disconnects or asks to close, the
// idle deadline fires or a protocol violation forces the connection down.
func (c *Conn) Serve() {
	c.log.Debug().Msg("connection opened")

	for {
		data, err := c.client.Read()
		if err != nil {
			break
		}

		if !c.consume(data) {
			break
		}
	}

	c.wg.Wait()
	_ = c.client.Close()
	c.log.Debug().Msg("connection closed")
}

// consume feeds freshly read bytes through body discarding, head
// accumulation and parsing. It reports false once the connection must close.
func (c *Conn) consume(data []byte) bool {
	if c.discard > 0 {
		n := min(c.discard, len(data))
		c.discard -= n
		data = data[n:]

		if len(data) == 0 {
			return true
		}
	}

	if !c.head.Append(data) {
		c.respondFatal(nil, status.ErrHeadTooLarge)
		return false
	}

	for {
		n := FindHead(c.head.Bytes())
		if n == -1 {
			return true
		}

		ok := c.dispatch(c.head.Bytes()[:n])
		c.head.Skip(n)

		if c.discard > 0 {
			drained := min(c.discard, c.head.Len())
			c.head.Skip(drained)
			c.discard -= drained
		}

		if !ok {
			return false
		}
	}
}

// dispatch parses one complete head and hands the request over to a worker.
func (c *Conn) dispatch(head []byte) bool {
	request, err := Parse(head, c.client.Remote(), c.cfg.HTTP.HeadersPrealloc)
	if err != nil {
		// the message cannot be attributed to a method, path or stream, so
		// there is nothing meaningful to answer. Drop it, keep the connection.
		c.log.Warn().Err(err).Msg("dropped a malformed message")
		return true
	}

	if len(request.Headers.Value("transfer-encoding")) > 0 {
		// no body decoding is on board, so an encoded body cannot even be
		// skipped. The message boundary is lost, the connection goes down.
		c.respondFatal(request, status.ErrUnsupportedEncoding)
		return false
	}

	c.discard += request.ContentLength

	c.wg.Add(1)
	go c.serve(request)

	if !request.Multiplexed() && strcomp.EqualFold(request.Headers.Value("connection"), "close") {
		// honored for plain messages only: a single stream asking to close
		// must not take its siblings down with it
		return false
	}

	return true
}

// serve runs a single request through the handler and writes the outcome
// back. It is the only piece running outside the reader goroutine.
func (c *Conn) serve(request *http.Request) {
	defer c.wg.Done()

	response := c.handler.Serve(request)
	if response == nil {
		response = http.NewResponse().Error(status.ErrInternalServerError)
	}

	if err := c.deliver(request, response); err != nil {
		c.log.Error().Err(err).Msg("delivery failed, closing the connection")
		_ = c.client.Close()
		return
	}

	c.logOutcome(request, response.Reveal())
}

// logOutcome reports one served request. Passthrough responses carry a status
// the engine never looked at, so none is reported for them.
func (c *Conn) logOutcome(request *http.Request, fields *http.Fields) {
	event := c.log.Info().
		Str("method", request.Method.String()).
		Str("path", request.Path)

	if request.Multiplexed() {
		event = event.Int64("stream", request.StreamID)
	}

	if fields.Passthrough == nil {
		event = event.Uint16("status", uint16(fields.Code))
	}

	event.Msg("served")
}

// deliver renders the response and pushes it to the peer, framed if the
// request asked for multiplexing. A nil request delivers as a plain message.
func (c *Conn) deliver(request *http.Request, response *http.Response) error {
	fields := response.Reveal()
	framed := request != nil && request.Multiplexed()

	if fields.Passthrough != nil {
		if closer, ok := fields.Passthrough.(io.Closer); ok {
			defer func() { _ = closer.Close() }()
		}

		if framed {
			return c.relayFramed(request.StreamID, fields.Passthrough)
		}

		return c.relayWhole(fields.Passthrough)
	}

	buff := Render(make([]byte, 0, c.cfg.HTTP.ResponseBuffPrealloc), request, fields)

	if framed {
		return c.writeFramed(request.StreamID, buff)
	}

	return c.write(buff)
}

// respondFatal reports a connection-fatal violation as a well-formed
// response. The caller closes the connection right after.
func (c *Conn) respondFatal(request *http.Request, err error) {
	c.log.Warn().Err(err).Msg("protocol violation, closing the connection")

	response := http.NewResponse().Error(err)

	if werr := c.deliver(request, response); werr != nil {
		c.log.Error().Err(werr).Msg("failed to deliver the final response")
	}
}

// writeFramed splits an in-memory response into frames. The lock is taken
// per frame, letting other streams interleave between them.
func (c *Conn) writeFramed(id int64, payload []byte) error {
	var (
		wire = make([]byte, 0, c.frameChunk()+frameHeadroom)
		err  error
	)

	for f := range frame.Split(id, payload, c.cfg.Frame.PayloadSize) {
		wire, err = c.codec.AppendEncode(wire[:0], f)
		if err != nil {
			return err
		}

		if err = c.write(wire); err != nil {
			return err
		}
	}

	return nil
}

// relayFramed pumps passthrough bytes to the peer as frames: every bounded
// read becomes one non-final frame, EOF yields the empty closing one.
func (c *Conn) relayFramed(id int64, origin io.Reader) error {
	var (
		buff      = make([]byte, c.frameChunk())
		wire      = make([]byte, 0, c.frameChunk()+frameHeadroom)
		encodeErr error
	)

	for {
		n, readErr := origin.Read(buff)
		if n > 0 {
			wire, encodeErr = c.codec.AppendEncode(wire[:0], frame.Frame{StreamID: id, Payload: buff[:n]})
			if encodeErr != nil {
				return encodeErr
			}

			if err := c.write(wire); err != nil {
				return err
			}
		}

		switch readErr {
		case nil:
		case io.EOF:
			wire, encodeErr = c.codec.AppendEncode(wire[:0], frame.Frame{StreamID: id, End: true})
			if encodeErr != nil {
				return encodeErr
			}

			return c.write(wire)
		default:
			return readErr
		}
	}
}

// relayWhole pumps passthrough bytes as one atomic response: the lock is
// held from the first byte to the last.
func (c *Conn) relayWhole(origin io.Reader) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	buff := make([]byte, c.cfg.HTTP.FileBuffSize)

	for {
		n, readErr := origin.Read(buff)
		if n > 0 {
			if err := c.push(buff[:n]); err != nil {
				return err
			}
		}

		switch readErr {
		case nil:
		case io.EOF:
			return nil
		default:
			return readErr
		}
	}
}

// write pushes one complete response or frame under the connection lock.
func (c *Conn) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.push(b)
}

// push writes to the socket with an armed write deadline. The caller must
// hold the lock.
func (c *Conn) push(b []byte) error {
	if err := c.client.Conn().SetWriteDeadline(time.Now().Add(c.cfg.NET.WriteTimeout)); err != nil {
		return err
	}

	_, err := c.client.Write(b)

	return err
}

// frameChunk is the number of payload bytes a single relayed frame carries.
func (c *Conn) frameChunk() int {
	size := c.cfg.Frame.PayloadSize
	if size <= 0 || size > frame.MaxPayload {
		size = frame.MaxPayload
	}

	return min(size, c.cfg.HTTP.FileBuffSize)
}

func remote(client transport.Client) string {
	if addr := client.Remote(); addr != nil {
		return addr.String()
	}

	return "unknown"
}
