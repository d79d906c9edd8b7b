// Package staking implements token staking and staking-weighted governance:
// proposals, tier-weighted ballots, tallying, execution, and reward accrual.
package staking

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/sanctum-collective/sanctum/internal/app/domain/eligibility"
	"github.com/sanctum-collective/sanctum/internal/app/domain/feed"
	"github.com/sanctum-collective/sanctum/internal/app/domain/governance"
	"github.com/sanctum-collective/sanctum/internal/app/domain/ledger"
	"github.com/sanctum-collective/sanctum/internal/app/storage"
	"github.com/sanctum-collective/sanctum/pkg/clock"
	"github.com/sanctum-collective/sanctum/pkg/logger"
)

// Service manages staking positions and governance proposals.
type Service struct {
	mu      sync.Mutex
	members storage.MemberStore
	store   storage.GovernanceStore
	events  storage.LedgerStore
	feed    feed.Sink
	clk     clock.Clock
	log     *logger.Logger
}

// New constructs a staking service. The feed sink may be nil.
func New(members storage.MemberStore, store storage.GovernanceStore, events storage.LedgerStore, sink feed.Sink, clk clock.Clock, log *logger.Logger) *Service {
	if clk == nil {
		clk = clock.System()
	}
	if log == nil {
		log = logger.NewDefault("staking")
	}
	return &Service{
		members: members,
		store:   store,
		events:  events,
		feed:    sink,
		clk:     clk,
		log:     log,
	}
}

// Rewards summarizes a member's staking yield.
type Rewards struct {
	APY       int   `json:"apy"`
	Earned    int64 `json:"earned"`
	Claimable int64 `json:"claimable"`
}

// ExecutionResult reports the outcome of executing a proposal.
type ExecutionResult struct {
	Executed bool   `json:"executed"`
	Result   string `json:"result"`
}

// Stake places or replaces a member's staking position. Voting power is
// snapshotted here from the amount and current tier; it does not move when
// the member's tier later changes.
func (s *Service) Stake(ctx context.Context, memberID, amount int64) (governance.StakingPosition, error) {
	if amount <= 0 {
		return governance.StakingPosition{}, fmt.Errorf("stake amount must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.members.GetMember(ctx, memberID)
	if err != nil {
		return governance.StakingPosition{}, err
	}

	now := s.clk.Now()
	position := governance.StakingPosition{
		MemberID:     memberID,
		StakedAmount: amount,
		Tier:         m.Tier,
		StakedAt:     now,
		VotingPower:  int64(math.Floor(float64(amount) * governance.VotingMultiplier(m.Tier))),
	}
	if err := s.store.PutStakingPosition(ctx, position); err != nil {
		return governance.StakingPosition{}, err
	}

	if _, err := s.events.AppendEvent(ctx, ledger.Event{
		Mechanic:  ledger.MechanicStake,
		ActorID:   memberID,
		Tier:      m.Tier,
		Amount:    float64(amount),
		CreatedAt: now,
	}); err != nil {
		return governance.StakingPosition{}, err
	}

	s.log.WithField("member_id", memberID).
		WithField("amount", amount).
		WithField("voting_power", position.VotingPower).
		Info("stake placed")
	return position, nil
}

// Position returns a member's staking position.
func (s *Service) Position(ctx context.Context, memberID int64) (governance.StakingPosition, error) {
	return s.store.GetStakingPosition(ctx, memberID)
}

// CreateProposal opens a new governance ballot.
func (s *Service) CreateProposal(ctx context.Context, proposerID int64, pType governance.ProposalType, title, description string, stakingRequirement int64) (governance.Proposal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return governance.Proposal{}, fmt.Errorf("title is required")
	}
	if stakingRequirement < 0 {
		return governance.Proposal{}, fmt.Errorf("staking_requirement cannot be negative")
	}
	if _, err := s.members.GetMember(ctx, proposerID); err != nil {
		return governance.Proposal{}, err
	}

	proposal := governance.Proposal{
		Type:               pType,
		Title:              title,
		Description:        strings.TrimSpace(description),
		ProposerID:         proposerID,
		StakingRequirement: stakingRequirement,
		Status:             governance.ProposalActive,
		Votes:              map[int64]governance.Vote{},
		CreatedAt:          s.clk.Now(),
	}
	proposal, err := s.store.CreateProposal(ctx, proposal)
	if err != nil {
		return governance.Proposal{}, err
	}
	s.log.WithField("proposal_id", proposal.ID).
		WithField("proposer_id", proposerID).
		Info("governance proposal created")
	return proposal, nil
}

// Vote casts a tier-weighted ballot. A member's later ballot replaces their
// earlier one. Each cast credits the flat participation reward.
func (s *Service) Vote(ctx context.Context, proposalID string, memberID int64, choice governance.Choice) error {
	if !choice.Valid() {
		return fmt.Errorf("unknown choice %q", choice)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	proposal, err := s.store.GetProposal(ctx, proposalID)
	if err != nil {
		return err
	}
	if proposal.Status != governance.ProposalActive {
		return eligibility.Reject(eligibility.Deny("Proposal not found or voting closed"))
	}

	position, err := s.store.GetStakingPosition(ctx, memberID)
	if err != nil {
		return eligibility.Reject(eligibility.Deny("Must stake $BONKED tokens to vote"))
	}
	if position.StakedAmount < proposal.StakingRequirement {
		return eligibility.Reject(eligibility.Deny(fmt.Sprintf(
			"Minimum %d $BONKED required to vote on this proposal", proposal.StakingRequirement)))
	}

	proposal.Votes[memberID] = governance.Vote{
		MemberID: memberID,
		Power:    position.VotingPower,
		Choice:   choice,
	}
	if _, err := s.store.UpdateProposal(ctx, proposal); err != nil {
		return err
	}

	position.RewardsEarned += governance.ParticipationReward
	if err := s.store.PutStakingPosition(ctx, position); err != nil {
		return err
	}

	now := s.clk.Now()
	if _, err := s.events.AppendEvent(ctx, ledger.Event{
		Mechanic:  ledger.MechanicGovVote,
		ActorID:   memberID,
		Tier:      position.Tier,
		RefID:     proposalID,
		Amount:    float64(position.VotingPower),
		CreatedAt: now,
	}); err != nil {
		return err
	}

	if s.feed != nil {
		s.feed.Publish(feed.EventGovernanceVote,
			fmt.Sprintf("A ballot of %d power was cast on %q", position.VotingPower, proposal.Title),
			feed.UrgencyLow, memberID)
	}
	return nil
}

// ActiveProposals lists open ballots, newest first.
func (s *Service) ActiveProposals(ctx context.Context) ([]governance.Proposal, error) {
	all, err := s.store.ListProposals(ctx)
	if err != nil {
		return nil, err
	}
	var active []governance.Proposal
	for _, p := range all {
		if p.Status == governance.ProposalActive {
			active = append(active, p)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].CreatedAt.After(active[j].CreatedAt) })
	return active, nil
}

// Results tallies a proposal's tier-weighted votes.
func (s *Service) Results(ctx context.Context, proposalID string) (governance.Results, error) {
	proposal, err := s.store.GetProposal(ctx, proposalID)
	if err != nil {
		return governance.Results{}, err
	}
	return tally(proposal), nil
}

// ExecuteProposal settles an active proposal: yes must strictly exceed no
// and at least one vote must exist for it to pass. A pass is recorded as
// passed before execution flips it to executed, so a proposal stranded at
// passed resumes here; a failed tally terminates at rejected.
func (s *Service) ExecuteProposal(ctx context.Context, proposalID string) (ExecutionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposal, err := s.store.GetProposal(ctx, proposalID)
	if err != nil {
		return ExecutionResult{}, err
	}
	switch proposal.Status {
	case governance.ProposalActive:
	case governance.ProposalPassed:
		return s.finishExecution(ctx, proposal)
	default:
		return ExecutionResult{}, eligibility.Reject(eligibility.Deny("Proposal already settled"))
	}

	results := tally(proposal)
	passed := results.Yes > results.No && results.Total > 0

	if !passed {
		proposal.Status = governance.ProposalRejected
		proposal.ExecutedAt = s.clk.Now()
		if _, err := s.store.UpdateProposal(ctx, proposal); err != nil {
			return ExecutionResult{}, err
		}
		s.log.WithField("proposal_id", proposalID).
			WithField("passed", false).
			Info("governance proposal executed")
		return ExecutionResult{Executed: false, Result: "Proposal rejected by community vote."}, nil
	}

	proposal.Status = governance.ProposalPassed
	if proposal, err = s.store.UpdateProposal(ctx, proposal); err != nil {
		return ExecutionResult{}, err
	}
	return s.finishExecution(ctx, proposal)
}

func (s *Service) finishExecution(ctx context.Context, proposal governance.Proposal) (ExecutionResult, error) {
	proposal.Status = governance.ProposalExecuted
	proposal.ExecutedAt = s.clk.Now()
	if _, err := s.store.UpdateProposal(ctx, proposal); err != nil {
		return ExecutionResult{}, err
	}
	s.log.WithField("proposal_id", proposal.ID).
		WithField("passed", true).
		Info("governance proposal executed")
	return ExecutionResult{Executed: true, Result: executionEffect(proposal.Type)}, nil
}

// StakingRewards reports a member's yield. Claimable accrues daily from the
// tier APY over whole staking days; earned is the participation total.
func (s *Service) StakingRewards(ctx context.Context, memberID int64) (Rewards, error) {
	position, err := s.store.GetStakingPosition(ctx, memberID)
	if err != nil {
		return Rewards{}, nil
	}

	apy := governance.APY(position.Tier)
	stakingDays := int64(s.clk.Now().Sub(position.StakedAt).Hours() / 24)
	dailyRate := float64(apy) / 365 / 100
	claimable := int64(math.Floor(float64(position.StakedAmount) * dailyRate * float64(stakingDays)))

	return Rewards{
		APY:       apy,
		Earned:    position.RewardsEarned,
		Claimable: claimable,
	}, nil
}

func tally(p governance.Proposal) governance.Results {
	var results governance.Results
	for _, v := range p.Votes {
		if v.Choice == governance.ChoiceYes {
			results.Yes += v.Power
		} else {
			results.No += v.Power
		}
	}
	results.Total = results.Yes + results.No
	return results
}

func executionEffect(t governance.ProposalType) string {
	switch t {
	case governance.ProposalProphecyPrompt:
		return "Oracle prophecy themes updated. New content will reflect community preferences."
	case governance.ProposalAnnouncement:
		return "Early access granted to Shadow Key holders. Notifications sent."
	case governance.ProposalMerchDesign:
		return "Merch design approved. Production scheduled for next quarter."
	case governance.ProposalFeatureRequest:
		return "Feature approved for development roadmap."
	default:
		return "Proposal passed."
	}
}
