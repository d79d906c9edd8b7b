// Package ledger defines the append-only activity ledger shared by every
// mechanic. Events are immutable once appended; old events are never deleted,
// they simply fall outside the trailing windows eligibility rules query.
package ledger

import (
	"time"

	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
)

// Mechanic identifies which engagement mechanic produced an event.
type Mechanic string

const (
	MechanicAnoint     Mechanic = "anoint"
	MechanicStake      Mechanic = "stake"
	MechanicGovVote    Mechanic = "governance_vote"
	MechanicTokenClaim Mechanic = "token_claim"
	MechanicReforge    Mechanic = "reforge"
	MechanicRitualVote Mechanic = "ritual_vote"
)

// Event is a single ledger entry. RefID points at the mechanic record the
// event concerns (anointment, proposal, drop, reforge request). Amount is
// mechanic-specific: staked tokens, reforge cost, or claim seconds.
type Event struct {
	ID        string      `json:"id"`
	Mechanic  Mechanic    `json:"mechanic"`
	ActorID   int64       `json:"actor_id"`
	TargetID  int64       `json:"target_id,omitempty"`
	Tier      member.Tier `json:"tier"`
	RefID     string      `json:"ref_id,omitempty"`
	Amount    float64     `json:"amount,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
