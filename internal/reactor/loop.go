// Package reactor is a minimal, single-goroutine implementation of
// beadapter.EventLoop: a ticker-driven poll of registered file descriptors
// plus a channel-fed job queue, so every armed callback and every
// scheduled timer still runs on the one goroutine that calls Run. It is
// deliberately small -- the event loop is an external collaborator as far
// as the adapter core is concerned, and this is just enough of a real one
// to exercise against real goroutine scheduling in tests.
package reactor

import (
	"sync"
	"time"

	"github.com/isabelladeleon12/frr/beadapter"
)

// Pollable is the minimal non-blocking-readiness surface a registered fd
// must provide. Real production use would back this with epoll/kqueue;
// this package backs it with a ticker poll instead.
type Pollable interface {
	FD() int
	ReadReady() (bool, error)
	WriteReady() (bool, error)
}

// Loop is a single-goroutine cooperative dispatcher. Call Run on its own
// goroutine; every other method is safe to call from any goroutine, but
// the functions they ultimately invoke (ArmRead/ArmWrite callbacks,
// Schedule/ScheduleAfter callbacks) always run inside Run.
type Loop struct {
	pollInterval time.Duration

	jobs chan func()

	mu         sync.Mutex
	pollables  map[int]Pollable
	readWatch  map[int]func()
	writeWatch map[int]func()

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New returns a Loop that polls registered fds every pollInterval.
func New(pollInterval time.Duration) *Loop {
	return &Loop{
		pollInterval: pollInterval,
		jobs:         make(chan func(), 256),
		pollables:    make(map[int]Pollable),
		readWatch:    make(map[int]func()),
		writeWatch:   make(map[int]func()),
		stopCh:       make(chan struct{}),
	}
}

var _ beadapter.EventLoop = (*Loop)(nil)

// Register associates a Pollable with its fd so ArmRead/ArmWrite can poll
// it. Must be called before the first ArmRead/ArmWrite for that fd.
func (l *Loop) Register(p Pollable) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pollables[p.FD()] = p
}

// Unregister drops a fd's Pollable and any pending watches on it.
func (l *Loop) Unregister(fd int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pollables, fd)
	delete(l.readWatch, fd)
	delete(l.writeWatch, fd)
}

func (l *Loop) ArmRead(fd int, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readWatch[fd] = fn
}

func (l *Loop) ArmWrite(fd int, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writeWatch[fd] = fn
}

func (l *Loop) ClearWrite(fd int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.writeWatch, fd)
}

func (l *Loop) Schedule(fn func()) {
	select {
	case l.jobs <- fn:
	case <-l.stopCh:
	}
}

func (l *Loop) ScheduleAfter(delay time.Duration, fn func()) beadapter.Timer {
	t := time.AfterFunc(delay, func() {
		l.Schedule(fn)
	})
	return &timerHandle{t: t}
}

// Run polls and dispatches until Stop is called. It must run on its own
// goroutine; it blocks until stopped.
func (l *Loop) Run() {
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case fn := <-l.jobs:
			fn()
		case <-ticker.C:
			l.pollOnce()
		case <-l.stopCh:
			return
		}
	}
}

func (l *Loop) pollOnce() {
	l.mu.Lock()
	var fired []func()
	for fd, fn := range l.readWatch {
		p, ok := l.pollables[fd]
		if !ok {
			continue
		}
		if ready, _ := p.ReadReady(); ready {
			fired = append(fired, fn)
			delete(l.readWatch, fd)
		}
	}
	for fd, fn := range l.writeWatch {
		p, ok := l.pollables[fd]
		if !ok {
			continue
		}
		if ready, _ := p.WriteReady(); ready {
			fired = append(fired, fn)
			delete(l.writeWatch, fd)
		}
	}
	l.mu.Unlock()

	for _, fn := range fired {
		fn()
	}
}

// Stop halts Run. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCh)
	})
}

type timerHandle struct {
	t *time.Timer
}

func (h *timerHandle) Cancel() {
	h.t.Stop()
}
