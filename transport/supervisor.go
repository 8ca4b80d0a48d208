package transport

import (
	"net"
	"sync"

	"github.com/weft-http/weft/config"
)

// ConnCallback is what a transport hands every accepted connection to.
type ConnCallback = func(conn net.Conn)

// Transport is a listener the supervisor can bind, run and wind down.
type Transport interface {
	Bind(addr string) error
	Listen(cfg config.NET, cb ConnCallback) error
	Stop()
	Close()
	Wait()
}

// Supervisor owns a group of bound transports. It runs them all at once and
// winds the whole group down as soon as any member quits, or when Stop is
// called. Either way the wind-down waits out every accepted connection.
type Supervisor struct {
	group []member
	quit  chan struct{}
	done  chan struct{}
	once  sync.Once
}

type member struct {
	t  Transport
	cb ConnCallback
}

func NewSupervisor() *Supervisor {
	return &Supervisor{
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Add binds the transport to addr and enrolls it. A bind failure closes the
// transports enrolled so far, as the group is of no use anymore.
func (s *Supervisor) Add(addr string, t Transport, cb ConnCallback) error {
	if err := t.Bind(addr); err != nil {
		for _, m := range s.group {
			m.t.Close()
		}

		return err
	}

	s.group = append(s.group, member{t: t, cb: cb})
	return nil
}

// Run serves every enrolled transport and blocks until the group is wound
// down: the first member to quit takes the rest with it and its error (if
// any) is returned, while a wind-down requested via Stop returns nil.
func (s *Supervisor) Run(cfg config.NET) error {
	defer close(s.done)

	if len(s.group) == 0 {
		return nil
	}

	// buffered so that late quitters never block on their send
	quitters := make(chan error, len(s.group))

	for _, m := range s.group {
		go func(m member) {
			quitters <- m.t.Listen(cfg, m.cb)
		}(m)
	}

	var cause error
	select {
	case cause = <-quitters:
	case <-s.quit:
	}

	for _, m := range s.group {
		m.t.Stop()
	}

	for _, m := range s.group {
		m.t.Wait()
		m.t.Close()
	}

	return cause
}

// Stop requests the wind-down and blocks until a concurrently running Run has
// returned. Calling it again, or after Run has already quit on its own, is
// harmless.
func (s *Supervisor) Stop() {
	s.once.Do(func() {
		close(s.quit)
	})

	<-s.done
}
