// Package lifecycle runs cleanup handlers when the process is interrupted.
package lifecycle

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler receives the OS signal that triggered shutdown.
type Handler func(os.Signal)

// HandlerID identifies a registered handler. Zero is never issued.
type HandlerID int64

var defaultSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Listener waits for an interrupt, runs the registered handlers newest first
// and exits with the conventional 128+signal code.
type Listener struct {
	mu       sync.Mutex
	handlers map[HandlerID]Handler
	order    []HandlerID
	lastID   HandlerID

	startOnce sync.Once
	signals   chan os.Signal

	notify func(chan<- os.Signal, ...os.Signal)
	stop   func(chan<- os.Signal)
	exit   func(int)
}

func NewListener() *Listener {
	return &Listener{
		handlers: make(map[HandlerID]Handler),
		signals:  make(chan os.Signal, 1),
		notify:   signal.Notify,
		stop:     signal.Stop,
		exit:     os.Exit,
	}
}

// Register adds handler and starts listening on first use.
func (l *Listener) Register(handler Handler) HandlerID {
	if handler == nil {
		return 0
	}

	l.startOnce.Do(l.start)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastID++
	l.handlers[l.lastID] = handler
	l.order = append(l.order, l.lastID)
	return l.lastID
}

func (l *Listener) Unregister(id HandlerID) {
	if id == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.handlers, id)
	for i, existing := range l.order {
		if existing == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Close stops signal delivery. Pending handlers are never run afterwards.
func (l *Listener) Close() {
	l.startOnce.Do(func() {})
	l.stop(l.signals)
}

func (l *Listener) start() {
	l.notify(l.signals, defaultSignals...)

	go func() {
		sig, ok := <-l.signals
		if !ok {
			return
		}
		l.runHandlers(sig)
		l.exit(ExitCode(sig))
	}()
}

func (l *Listener) runHandlers(sig os.Signal) {
	l.mu.Lock()
	pending := make([]Handler, 0, len(l.order))
	for i := len(l.order) - 1; i >= 0; i-- {
		pending = append(pending, l.handlers[l.order[i]])
	}
	l.mu.Unlock()

	for _, handler := range pending {
		callHandler(handler, sig)
	}
}

func callHandler(handler Handler, sig os.Signal) {
	defer func() {
		_ = recover()
	}()
	handler(sig)
}

// ExitCode maps a shutdown signal to the shell convention.
func ExitCode(sig os.Signal) int {
	switch sig {
	case os.Interrupt:
		return 130
	case syscall.SIGTERM:
		return 143
	default:
		return 1
	}
}
