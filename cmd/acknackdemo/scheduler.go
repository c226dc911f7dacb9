package main

import (
	"sync"
	"time"
)

// tickerScheduler is a minimal external.EventScheduler: it just remembers
// the earliest requested rearm time for logging/demo purposes. A real
// scheduler would drive a timer wheel; nothing here claims to be one.
type tickerScheduler struct {
	mu   sync.Mutex
	next time.Time
}

func (s *tickerScheduler) ReschedIfEarlier(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next.IsZero() || t.Before(s.next) {
		s.next = t
	}
}

func (s *tickerScheduler) NextFire() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
