// Package feed defines the live activity feed shown to members: a capped,
// newest-first stream of mechanic events.
package feed

import "time"

// Urgency ranks how prominently a feed event displays.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// EventType mirrors the mechanic that produced the event.
type EventType string

const (
	EventAnointing       EventType = "anointing"
	EventTokenClaim      EventType = "token_claim"
	EventProphecyReforge EventType = "prophecy_reforge"
	EventGovernanceVote  EventType = "governance_vote"
	EventRitual          EventType = "ritual"
)

// Event is one feed entry.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	DisplayText string    `json:"display_text"`
	MemberIDs   []int64   `json:"member_ids"`
	Urgency     Urgency   `json:"urgency"`
}

// Sink receives feed events from mutation handlers. Implementations must be
// best-effort: a failing sink never blocks or fails the mutation.
type Sink interface {
	Publish(evtType EventType, displayText string, urgency Urgency, memberIDs ...int64)
}
