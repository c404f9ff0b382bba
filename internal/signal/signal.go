// Package signal carries the image cache-invalidation token. Observers keep
// the last token they saw and reload image bytes when it changes.
package signal

import (
	"sync"

	"github.com/google/uuid"
)

// Signal is owned by the application context and lives as long as it does.
type Signal struct {
	mu     sync.Mutex
	token  string
	next   int
	subs   map[int]chan string
	closed bool
}

func New() *Signal {
	return &Signal{token: uuid.NewString(), subs: make(map[int]chan string)}
}

func (s *Signal) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Bump regenerates the token and notifies subscribers. It never blocks:
// a subscriber that has not drained its previous token gets it replaced.
func (s *Signal) Bump() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = uuid.NewString()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s.token
	}
	return s.token
}

// Subscribe returns a channel receiving each new token and a cancel func.
// The channel is closed on cancel or Close.
func (s *Signal) Subscribe() (<-chan string, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan string, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.next
	s.next++
	s.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Close drops every subscriber.
func (s *Signal) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
