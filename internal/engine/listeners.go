package engine

import (
	"sync"
	"time"
)

// listeners is a goroutine-safe callback registry shared by the backends.
type listeners[T any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(T)
}

func (l *listeners[T]) add(fn func(T)) *subscription {
	l.mu.Lock()
	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	l.mu.Unlock()
	return newSubscription(func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	})
}

// emit calls every listener outside the lock.
func (l *listeners[T]) emit(v T) {
	l.mu.Lock()
	fns := make([]func(T), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}

func (l *listeners[T]) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}

type subscription struct {
	once   sync.Once
	cancel func()
}

func newSubscription(cancel func()) *subscription {
	return &subscription{cancel: cancel}
}

// Cancel implements Subscription.
func (s *subscription) Cancel() {
	s.once.Do(s.cancel)
}

// periodic samples a position function on a ticker until cancelled.
type periodic struct {
	sub  *subscription
	stop chan struct{}
}

func startPeriodic(interval time.Duration, sample func() float64, fn func(float64)) *periodic {
	p := &periodic{stop: make(chan struct{})}
	p.sub = newSubscription(func() { close(p.stop) })
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-p.stop:
				return
			case <-t.C:
				select {
				case <-p.stop:
					return
				default:
				}
				fn(sample())
			}
		}
	}()
	return p
}

// Cancel implements Subscription.
func (p *periodic) Cancel() {
	p.sub.Cancel()
}
