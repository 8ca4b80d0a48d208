package transport

import (
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/weft-http/weft/config"
)

// TCP accepts plaintext connections and hands each one to the callback in a
// goroutine of its own. The accept call is re-armed with a deadline on every
// lap so that a requested stop is noticed even when no clients show up.
type TCP struct {
	l        *net.TCPListener
	conns    sync.WaitGroup
	stopping atomic.Bool
}

func NewTCP() *TCP {
	return new(TCP)
}

func (t *TCP) Bind(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	t.l = l.(*net.TCPListener)
	return nil
}

// Addr reports the bound address. That is how the caller learns the actual
// port after binding to :0.
func (t *TCP) Addr() net.Addr {
	if t.l == nil {
		return nil
	}

	return t.l.Addr()
}

func (t *TCP) Listen(cfg config.NET, cb ConnCallback) error {
	for !t.stopping.Load() {
		if err := t.l.SetDeadline(time.Now().Add(cfg.AcceptLoopInterruptPeriod)); err != nil {
			return err
		}

		conn, err := t.l.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}

			return err
		}

		t.conns.Add(1)
		go t.handle(conn, cb)
	}

	return nil
}

func (t *TCP) handle(conn net.Conn, cb ConnCallback) {
	defer t.conns.Done()
	defer conn.Close()

	cb(conn)
}

func (t *TCP) Stop() {
	t.stopping.Store(true)
}

func (t *TCP) Close() {
	if t.l != nil {
		_ = t.l.Close()
	}
}

func (t *TCP) Wait() {
	t.conns.Wait()
}
