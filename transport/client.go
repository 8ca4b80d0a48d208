package transport

import (
	"net"
	"time"
)

// Client is the connection surface the protocol layer works against: reads
// come back as slices of an internal buffer with the deadline armed per call,
// writes go straight through. Mocks in dummy/ implement it for tests.
type Client interface {
	Read() ([]byte, error)
	Write([]byte) (int, error)
	Conn() net.Conn
	Remote() net.Addr
	Close() error
}

type tcpClient struct {
	conn    net.Conn
	buff    []byte
	timeout time.Duration
}

func NewClient(conn net.Conn, timeout time.Duration, buff []byte) Client {
	return &tcpClient{
		conn:    conn,
		buff:    buff,
		timeout: timeout,
	}
}

// Read arms the read deadline and returns a slice of the internal buffer,
// valid until the next call.
func (c *tcpClient) Read() ([]byte, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}

	n, err := c.conn.Read(c.buff)
	return c.buff[:n], err
}

func (c *tcpClient) Write(b []byte) (int, error) {
	return c.conn.Write(b)
}

// Conn exposes the underlying connection for the odd operation the interface
// does not carry, like handing the socket over to a passthrough body.
func (c *tcpClient) Conn() net.Conn {
	return c.conn
}

func (c *tcpClient) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *tcpClient) Close() error {
	return c.conn.Close()
}
