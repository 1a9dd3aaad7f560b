package virtual

import (
	"sync"
	"time"
)

// DefaultFrameInterval is the coalescing window of TimerScheduler,
// one frame at 60 frames per second.
const DefaultFrameInterval = time.Second / 60

// Scheduler requests frame callbacks.
// A Scroller calls Schedule at most once per pending frame,
// so any number of raw scroll or resize events between two
// frames result in a single recomputation.
type Scheduler interface {
	// Schedule requests that frame is called once
	// at the next frame boundary.
	// It must not call frame before returning.
	Schedule(frame func())
}

// ManualScheduler collects frame requests until RunFrame is called.
// Use it from event loops that have their own frame tick, and in tests.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []func()
}

// Schedule implements Scheduler.
func (s *ManualScheduler) Schedule(frame func()) {
	s.mu.Lock()
	s.pending = append(s.pending, frame)
	s.mu.Unlock()
}

// Pending returns the number of requested frames.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// RunFrame calls all requested frame callbacks
// and returns how many were called.
func (s *ManualScheduler) RunFrame() int {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, frame := range pending {
		frame()
	}
	return len(pending)
}

// TimerScheduler calls requested frames after Interval.
// If Post is not nil, then the frame is handed to Post
// instead of being called on the timer goroutine,
// so it can be run on the goroutine owning the UI state.
type TimerScheduler struct {
	Interval time.Duration
	Post     func(frame func())
}

// NewTimerScheduler returns a TimerScheduler with DefaultFrameInterval.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{Interval: DefaultFrameInterval}
}

// Schedule implements Scheduler.
func (s *TimerScheduler) Schedule(frame func()) {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	time.AfterFunc(interval, func() {
		if s.Post != nil {
			s.Post(frame)
			return
		}
		frame()
	})
}
