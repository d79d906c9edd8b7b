// Package governance defines staking positions and token-weighted proposals.
package governance

import (
	"time"

	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
)

// ProposalType categorizes what a proposal decides.
type ProposalType string

const (
	ProposalProphecyPrompt ProposalType = "prophecy_prompt"
	ProposalMerchDesign    ProposalType = "merch_design"
	ProposalAnnouncement   ProposalType = "announcement"
	ProposalFeatureRequest ProposalType = "feature_request"
)

// ProposalStatus is the proposal lifecycle state.
type ProposalStatus string

const (
	ProposalActive   ProposalStatus = "active"
	ProposalPassed   ProposalStatus = "passed"
	ProposalRejected ProposalStatus = "rejected"
	ProposalExecuted ProposalStatus = "executed"
)

// Choice is a ballot option.
type Choice string

const (
	ChoiceYes Choice = "yes"
	ChoiceNo  Choice = "no"
)

// Valid reports whether c is a known choice.
func (c Choice) Valid() bool { return c == ChoiceYes || c == ChoiceNo }

// Vote is one member's ballot with the voting power snapshotted from their
// staking position at vote time.
type Vote struct {
	MemberID int64  `json:"member_id"`
	Power    int64  `json:"power"`
	Choice   Choice `json:"choice"`
}

// Proposal is a governance ballot. Votes are keyed by member so a member's
// latest ballot replaces an earlier one.
type Proposal struct {
	ID                 string         `json:"id"`
	Type               ProposalType   `json:"type"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	ProposerID         int64          `json:"proposer_id"`
	StakingRequirement int64          `json:"staking_requirement"`
	Status             ProposalStatus `json:"status"`
	Votes              map[int64]Vote `json:"votes"`
	CreatedAt          time.Time      `json:"created_at"`
	ExecutedAt         time.Time      `json:"executed_at,omitempty"`
}

// Results is the tier-weighted tally of a proposal.
type Results struct {
	Yes   int64 `json:"yes"`
	No    int64 `json:"no"`
	Total int64 `json:"total"`
}

// StakingPosition is a member's stake. VotingPower is computed once when the
// stake is placed and is not recomputed on later tier changes.
type StakingPosition struct {
	MemberID      int64       `json:"member_id"`
	StakedAmount  int64       `json:"staked_amount"`
	Tier          member.Tier `json:"tier"`
	StakedAt      time.Time   `json:"staked_at"`
	VotingPower   int64       `json:"voting_power"`
	RewardsEarned int64       `json:"rewards_earned"`
}

// VotingMultiplier returns the tier's voting power multiplier.
func VotingMultiplier(t member.Tier) float64 {
	switch t {
	case member.TierShadow:
		return 2.0
	case member.TierOracle:
		return 1.5
	case member.TierHerald:
		return 1.2
	default:
		return 1.0
	}
}

// APY returns the tier's annual staking reward percentage.
func APY(t member.Tier) int {
	switch t {
	case member.TierShadow:
		return 15
	case member.TierOracle:
		return 12
	case member.TierHerald:
		return 8
	default:
		return 5
	}
}

// ParticipationReward is the flat reward credited per governance vote.
const ParticipationReward = 100
