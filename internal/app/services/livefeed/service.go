// Package livefeed keeps the capped, newest-first stream of mechanic events
// shown to members. Mechanic services publish into it through the feed.Sink
// interface; publishing never fails and never blocks a mutation.
package livefeed

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sanctum-collective/sanctum/internal/app/domain/feed"
	"github.com/sanctum-collective/sanctum/pkg/clock"
	"github.com/sanctum-collective/sanctum/pkg/logger"
)

// MaxEvents caps how many events the feed retains.
const MaxEvents = 100

// Service is the in-memory live feed.
type Service struct {
	mu     sync.RWMutex
	events []feed.Event
	clk    clock.Clock
	log    *logger.Logger
}

var _ feed.Sink = (*Service)(nil)

// New constructs a live feed.
func New(clk clock.Clock, log *logger.Logger) *Service {
	if clk == nil {
		clk = clock.System()
	}
	if log == nil {
		log = logger.NewDefault("livefeed")
	}
	return &Service{clk: clk, log: log}
}

// Publish prepends an event, evicting the oldest past the cap.
func (s *Service) Publish(evtType feed.EventType, displayText string, urgency feed.Urgency, memberIDs ...int64) {
	event := feed.Event{
		ID:          uuid.NewString(),
		Type:        evtType,
		Timestamp:   s.clk.Now(),
		DisplayText: displayText,
		MemberIDs:   memberIDs,
		Urgency:     urgency,
	}

	s.mu.Lock()
	s.events = append([]feed.Event{event}, s.events...)
	if len(s.events) > MaxEvents {
		s.events = s.events[:MaxEvents]
	}
	s.mu.Unlock()

	s.log.WithField("type", string(evtType)).
		WithField("urgency", string(urgency)).
		Debug(displayText)
}

// Recent returns the newest events, capped at limit.
func (s *Service) Recent(limit int) []feed.Event {
	if limit <= 0 || limit > MaxEvents {
		limit = MaxEvents
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := limit
	if n > len(s.events) {
		n = len(s.events)
	}
	out := make([]feed.Event, n)
	copy(out, s.events[:n])
	return out
}
