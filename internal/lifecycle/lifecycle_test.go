package lifecycle

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type harness struct {
	listener *Listener
	exits    chan int
	stopped  chan struct{}
}

func newHarness() *harness {
	h := &harness{
		listener: NewListener(),
		exits:    make(chan int, 1),
		stopped:  make(chan struct{}, 1),
	}
	h.listener.notify = func(chan<- os.Signal, ...os.Signal) {}
	h.listener.stop = func(chan<- os.Signal) { h.stopped <- struct{}{} }
	h.listener.exit = func(code int) { h.exits <- code }
	return h
}

func (h *harness) send(t *testing.T, sig os.Signal) {
	t.Helper()
	h.listener.signals <- sig
	select {
	case code := <-h.exits:
		assert.Equal(t, ExitCode(sig), code)
	case <-time.After(time.Second):
		t.Fatalf("signal %v not handled", sig)
	}
}

func TestHandlersRunInReverseOrder(t *testing.T) {
	h := newHarness()
	var calls []string
	h.listener.Register(func(os.Signal) { calls = append(calls, "first") })
	h.listener.Register(func(os.Signal) { calls = append(calls, "second") })

	h.send(t, syscall.SIGINT)
	assert.Equal(t, []string{"second", "first"}, calls)
}

func TestHandlersReceiveTheSignal(t *testing.T) {
	h := newHarness()
	var received os.Signal
	h.listener.Register(func(sig os.Signal) { received = sig })

	h.send(t, syscall.SIGTERM)
	assert.Equal(t, syscall.SIGTERM, received)
}

func TestUnregisterPreventsInvocation(t *testing.T) {
	h := newHarness()
	var called bool
	id := h.listener.Register(func(os.Signal) { called = true })
	h.listener.Unregister(id)

	h.send(t, syscall.SIGTERM)
	assert.False(t, called)
}

func TestPanicsAreSwallowed(t *testing.T) {
	h := newHarness()
	var called bool
	h.listener.Register(func(os.Signal) { called = true })
	h.listener.Register(func(os.Signal) { panic("boom") })

	h.send(t, syscall.SIGINT)
	assert.True(t, called)
}

func TestRegisterIgnoresNil(t *testing.T) {
	h := newHarness()
	assert.Equal(t, HandlerID(0), h.listener.Register(nil))
	assert.Equal(t, HandlerID(1), h.listener.Register(func(os.Signal) {}))
	assert.Equal(t, HandlerID(2), h.listener.Register(func(os.Signal) {}))
}

func TestUnregisterIgnoresZero(t *testing.T) {
	h := newHarness()
	h.listener.Unregister(0)
	assert.Empty(t, h.listener.order)
}

func TestCloseStopsSignalDelivery(t *testing.T) {
	h := newHarness()
	h.listener.Register(func(os.Signal) {})

	h.listener.Close()

	select {
	case <-h.stopped:
	case <-time.After(time.Second):
		t.Fatal("stop was not called")
	}
}

func TestExitCodeMappings(t *testing.T) {
	assert.Equal(t, 130, ExitCode(os.Interrupt))
	assert.Equal(t, 143, ExitCode(syscall.SIGTERM))
	assert.Equal(t, 1, ExitCode(syscall.Signal(0)))
}
