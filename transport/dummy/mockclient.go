package dummy

import (
	"io"
	"net"

	"github.com/weft-http/weft/transport"
)

var _ transport.Client = new(Client)

// Client serves the data it was initialised with read by read, then reports
// EOF. All written data is journaled, making it a universal mock suitable for
// most of the tests.
type Client struct {
	closed  bool
	pointer int
	written []byte
	data    [][]byte
	conn    *Conn
}

func NewMockClient(data ...[]byte) *Client {
	return &Client{
		data: data,
		conn: new(Conn).Nop(),
	}
}

func (c *Client) Read() (data []byte, err error) {
	if c.closed {
		return nil, io.EOF
	}

	if c.pointer >= len(c.data) {
		return nil, io.EOF
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Write(p []byte) (int, error) {
	c.written = append(c.written, p...)
	return len(p), nil
}

func (c *Client) Conn() net.Conn {
	return c.conn
}

func (*Client) Remote() net.Addr {
	return nil
}

func (c *Client) Close() error {
	c.closed = true
	return nil
}

func (c *Client) Closed() bool {
	return c.closed
}

// Written returns everything the code under test has put on the wire so far.
func (c *Client) Written() []byte {
	return c.written
}
