// Package ritual defines scarcity proposals: quorum-gated rituals that only
// recently staked oracle+ members may vote on. A ritual passes when enough
// distinct voters accumulate, or expires when its window closes; there is no
// rejected state for this mechanic.
package ritual

import "time"

// ProposalType categorizes the scarcity ritual.
type ProposalType string

const (
	TypeOracleExclusive ProposalType = "oracle_exclusive"
	TypeWhisperQuorum   ProposalType = "whisper_quorum"
	TypeShadowOnly      ProposalType = "shadow_only"
)

// Status is the ritual lifecycle state.
type Status string

const (
	StatusActive  Status = "active"
	StatusPassed  Status = "passed"
	StatusExpired Status = "expired"
)

// Proposal is a scarcity ritual. Voters is a growing, de-duplicated set;
// the count is monotonically non-decreasing while the proposal is active.
type Proposal struct {
	ID             string        `json:"id"`
	Type           ProposalType  `json:"type"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	StakingWindow  time.Duration `json:"staking_window"`
	MinimumQuorum  int           `json:"minimum_quorum"`
	TimeDecay      bool          `json:"time_decay"`
	WhisperTrigger int           `json:"whisper_trigger,omitempty"`
	Voters         []int64       `json:"voters"`
	Status         Status        `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	ExpiresAt      time.Time     `json:"expires_at"`
}

// HasVoter reports whether the member already voted.
func (p Proposal) HasVoter(memberID int64) bool {
	for _, id := range p.Voters {
		if id == memberID {
			return true
		}
	}
	return false
}
