// Package events carries scan progress notifications to interested listeners.
package events

import (
	"sync"
	"sync/atomic"
)

// EventType defines the type of event
type EventType string

const (
	EventScanStarted        EventType = "scan_started"
	EventProfileFound       EventType = "profile_found"
	EventProbeFailed        EventType = "probe_failed"
	EventAdapterStarted     EventType = "adapter_started"
	EventAdapterFinished    EventType = "adapter_finished"
	EventSweepFinished      EventType = "sweep_finished"
	EventRecordsMerged      EventType = "records_merged"
	EventScreenshotCaptured EventType = "screenshot_captured"
	EventScanFinished       EventType = "scan_finished"
)

// Event represents something that happened during a scan
type Event struct {
	Type     EventType `json:"type"`
	Platform string    `json:"platform,omitempty"`
	Tool     string    `json:"tool,omitempty"`
	Target   string    `json:"target,omitempty"`
	Count    int       `json:"count,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}

// Bus allows publishing and subscribing to events
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
	dropped     atomic.Int64
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (b *Bus) Subscribe(ch chan<- Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, ch)
}

// Publish sends an event to all subscribers without blocking.
// Safe to call on a nil bus.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
			b.dropped.Add(1)
		}
	}
}

// Dropped returns how many deliveries were skipped for slow subscribers
func (b *Bus) Dropped() int {
	return int(b.dropped.Load())
}
