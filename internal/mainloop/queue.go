// Package mainloop marshals callbacks from engine goroutines onto the
// bubbletea Update loop, the single goroutine allowed to touch player state.
package mainloop

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

const queueSize = 256

// CallbackMsg carries a marshaled callback into Update.
type CallbackMsg struct {
	fn func()
}

// Run executes the callback. Call it from Update only.
func (m CallbackMsg) Run() {
	if m.fn != nil {
		m.fn()
	}
}

// ClosedMsg is returned by Wait once the queue is closed.
type ClosedMsg struct{}

// Queue is a FIFO of callbacks posted from any goroutine.
type Queue struct {
	mu     sync.RWMutex
	ch     chan func()
	done   chan struct{}
	once   sync.Once
	closed bool
}

// New creates an open queue.
func New() *Queue {
	return &Queue{
		ch:   make(chan func(), queueSize),
		done: make(chan struct{}),
	}
}

// Post enqueues fn. It blocks while the queue is full and drops fn once the
// queue is closed.
func (q *Queue) Post(fn func()) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return
	}
	select {
	case q.ch <- fn:
	case <-q.done:
	}
}

// Wait returns a command that delivers the next callback as a CallbackMsg.
// Re-issue it after handling each message.
func (q *Queue) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-q.ch:
			return CallbackMsg{fn: fn}
		case <-q.done:
			return ClosedMsg{}
		}
	}
}

// Drain runs every queued callback on the calling goroutine.
// Returns the number of callbacks run.
func (q *Queue) Drain() int {
	n := 0
	for {
		select {
		case fn := <-q.ch:
			fn()
			n++
		default:
			return n
		}
	}
}

// Close stops delivery. Pending callbacks are discarded.
func (q *Queue) Close() {
	// Closing done first unblocks posters holding the read lock.
	q.once.Do(func() { close(q.done) })

	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}
