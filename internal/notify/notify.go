// Package notify replaces transient UI toasts with a per-session feed that
// clients drain.
package notify

import (
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a single user-facing message.
type Notice struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier is what services use to tell the person something happened.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// DefaultCapacity is how many notices a Feed keeps before dropping the oldest.
const DefaultCapacity = 50

// Feed keeps the most recent notices in order; older ones are dropped once
// capacity is reached.
type Feed struct {
	mu       sync.Mutex
	items    []Notice
	capacity int
	now      func() time.Time
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{capacity: capacity, now: time.Now}
}

func (f *Feed) Success(msg string) { f.push(LevelSuccess, msg) }

func (f *Feed) Error(msg string) { f.push(LevelError, msg) }

func (f *Feed) push(level Level, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, Notice{Level: level, Message: msg, CreatedAt: f.now()})
	if over := len(f.items) - f.capacity; over > 0 {
		f.items = append([]Notice(nil), f.items[over:]...)
	}
}

// Drain returns up to limit notices, oldest first, and removes them.
// limit <= 0 drains everything.
func (f *Feed) Drain(limit int) []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.items)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Notice, n)
	copy(out, f.items[:n])
	f.items = append([]Notice(nil), f.items[n:]...)
	return out
}

// Len returns the number of pending notices.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Discard is a Notifier that drops everything.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
