// Package weft is a compact HTTP/1.1 engine that multiplexes logical request
// streams over a single client connection. A request carrying a STREAM-ID
// header gets its response back as a sequence of frames tagged with that id,
// so many requests can run concurrently without each holding the connection
// for its whole response. Requests without the header are served as plain
// HTTP messages.
package weft

import (
	"errors"
	"net"

	"github.com/rs/zerolog"
	"github.com/weft-http/weft/config"
	"github.com/weft-http/weft/http"
	"github.com/weft-http/weft/internal/construct"
	"github.com/weft-http/weft/internal/protocol/http1"
	"github.com/weft-http/weft/transport"
)

// App wires a handler, a config and any number of listeners into a running
// server.
type App struct {
	cfg     *config.Config
	handler http.Handler
	log     zerolog.Logger
	sup     *transport.Supervisor
	bound   []*transport.TCP
	hooks   hooks
	err     error
}

// New returns an application serving every accepted connection with the
// passed handler. The config starts at Default() and the logger discards
// everything until replaced via Log.
func New(handler http.Handler) *App {
	return &App{
		cfg:     config.Default(),
		handler: handler,
		log:     zerolog.Nop(),
		sup:     transport.NewSupervisor(),
	}
}

// Tune replaces the default config.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// Log replaces the discarding default logger.
func (a *App) Log(log zerolog.Logger) *App {
	a.log = log
	return a
}

// NotifyOnStart calls the callback right before the accept loops start. The
// sockets are bound already, so connections arriving meanwhile are queued,
// not refused.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback once the listeners are down and every
// connection is served out.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Listen binds a TCP listener on the address right away, so the actual port
// is known (via Addr) before Serve is even called. A binding failure is
// remembered and returned by Serve.
func (a *App) Listen(addr string) *App {
	if a.err != nil {
		return a
	}

	tcp := transport.NewTCP()
	if err := a.sup.Add(addr, tcp, a.onConn); err != nil {
		a.err = err
		return a
	}

	a.bound = append(a.bound, tcp)

	return a
}

// Addr returns the address the first listener is bound to, handy when the
// port was left for the system to pick. Nil before any successful Listen.
func (a *App) Addr() net.Addr {
	if len(a.bound) == 0 {
		return nil
	}

	return a.bound[0].Addr()
}

// Serve runs the application until the first listener fails or GracefulStop
// is called.
func (a *App) Serve() error {
	if a.err != nil {
		return a.err
	}

	if len(a.bound) == 0 {
		return errors.New("weft: no listeners, call Listen first")
	}

	for _, tcp := range a.bound {
		a.log.Info().Str("addr", tcp.Addr().String()).Msg("listening")
	}

	callIfSet(a.hooks.OnStart)
	err := a.sup.Run(a.cfg.NET)
	callIfSet(a.hooks.OnStop)

	return err
}

// GracefulStop stops accepting new connections and blocks until the ones in
// flight are served out.
func (a *App) GracefulStop() {
	a.sup.Stop()
}

func (a *App) onConn(conn net.Conn) {
	client := construct.Client(a.cfg.NET, conn)
	http1.New(a.cfg, a.handler, client, a.log).Serve()
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfSet(f func()) {
	if f != nil {
		f()
	}
}
