package dummy

import (
	"io"
	"net"
	"time"
)

// Conn is a scripted net.Conn: it serves the given chunks read by read, then
// EOF, and journals everything written into Data. The zero value reads
// nothing and journals writes.
type Conn struct {
	Data    []byte
	chunks  [][]byte
	pointer int
	nop     bool
	closed  bool
}

func NewConn(chunks ...[]byte) *Conn {
	return &Conn{chunks: chunks}
}

func (c *Conn) Read(b []byte) (n int, err error) {
	if c.closed || c.pointer >= len(c.chunks) {
		return 0, io.EOF
	}

	chunk := c.chunks[c.pointer]
	n = copy(b, chunk)
	if n < len(chunk) {
		c.chunks[c.pointer] = chunk[n:]
	} else {
		c.pointer++
	}

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	if !c.nop {
		c.Data = append(c.Data, b...)
	}

	return len(b), nil
}

func (c *Conn) Close() error {
	c.closed = true
	return nil
}

func (c *Conn) Closed() bool {
	return c.closed
}

func (c *Conn) LocalAddr() net.Addr {
	return nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return nil
}

func (c *Conn) SetDeadline(t time.Time) error {
	return nil
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	return nil
}

func (c *Conn) SetWriteDeadline(t time.Time) error {
	return nil
}

// Nop disables journaling.
func (c *Conn) Nop() *Conn {
	c.nop = true
	return c
}
