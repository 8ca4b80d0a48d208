package transport

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/weft-http/weft/config"
)

var (
	errListenerDied = errors.New("listener died")
	errNoBind       = errors.New("address already in use")
)

// fakeTransport idles until the test feeds its quit channel or the
// supervisor flips the stop flag.
type fakeTransport struct {
	quit    chan error
	stopped atomic.Bool
	closed  atomic.Bool
	bound   string
}

func newFake() *fakeTransport {
	return &fakeTransport{quit: make(chan error)}
}

func (f *fakeTransport) Bind(addr string) error {
	f.bound = addr
	return nil
}

func (f *fakeTransport) Listen(config.NET, ConnCallback) error {
	for {
		select {
		case err := <-f.quit:
			return err
		default:
			if f.stopped.Load() {
				return nil
			}

			time.Sleep(time.Millisecond)
		}
	}
}

func (f *fakeTransport) Stop()  { f.stopped.Store(true) }
func (f *fakeTransport) Close() { f.closed.Store(true) }
func (f *fakeTransport) Wait()  {}

type unbindable struct{}

func (unbindable) Bind(string) error                     { return errNoBind }
func (unbindable) Listen(config.NET, ConnCallback) error { return nil }
func (unbindable) Stop()                                 {}
func (unbindable) Close()                                {}
func (unbindable) Wait()                                 {}

func supervise(t *testing.T, sup *Supervisor) chan error {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		done <- sup.Run(config.Default().NET)
	}()

	return done
}

func waitFor(t *testing.T, done chan error) error {
	t.Helper()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not wind down on time")
		return nil
	}
}

func TestSupervisor(t *testing.T) {
	t.Run("first quitter takes the group down", func(t *testing.T) {
		a, b := newFake(), newFake()
		sup := NewSupervisor()
		require.NoError(t, sup.Add(":1", a, nil))
		require.NoError(t, sup.Add(":2", b, nil))

		done := supervise(t, sup)
		a.quit <- errListenerDied

		require.ErrorIs(t, waitFor(t, done), errListenerDied)
		require.True(t, b.stopped.Load())
		require.True(t, a.closed.Load())
		require.True(t, b.closed.Load())
	})

	t.Run("uneventful quit is not an error", func(t *testing.T) {
		a, b := newFake(), newFake()
		sup := NewSupervisor()
		require.NoError(t, sup.Add(":1", a, nil))
		require.NoError(t, sup.Add(":2", b, nil))

		done := supervise(t, sup)
		a.quit <- nil

		require.NoError(t, waitFor(t, done))
		require.True(t, b.stopped.Load())
	})

	t.Run("stop blocks until wound down", func(t *testing.T) {
		a := newFake()
		sup := NewSupervisor()
		require.NoError(t, sup.Add(":1", a, nil))

		done := supervise(t, sup)
		sup.Stop()

		require.True(t, a.stopped.Load())
		require.True(t, a.closed.Load())
		require.NoError(t, waitFor(t, done))

		// repeated stops are harmless even after the group is gone
		sup.Stop()
	})

	t.Run("bind failure closes the group", func(t *testing.T) {
		a := newFake()
		sup := NewSupervisor()
		require.NoError(t, sup.Add(":1", a, nil))
		require.Equal(t, ":1", a.bound)

		require.ErrorIs(t, sup.Add(":2", unbindable{}, nil), errNoBind)
		require.True(t, a.closed.Load())
	})
}
