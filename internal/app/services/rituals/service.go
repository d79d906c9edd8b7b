// Package rituals implements scarcity proposals: quorum-gated rituals open
// only to oracle+ members with a qualifying stake inside the proposal's
// staking window. A ritual passes on quorum or expires; nothing rejects it.
package rituals

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sanctum-collective/sanctum/internal/app/domain/eligibility"
	"github.com/sanctum-collective/sanctum/internal/app/domain/feed"
	"github.com/sanctum-collective/sanctum/internal/app/domain/ledger"
	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
	"github.com/sanctum-collective/sanctum/internal/app/domain/ritual"
	"github.com/sanctum-collective/sanctum/internal/app/storage"
	"github.com/sanctum-collective/sanctum/internal/notify"
	"github.com/sanctum-collective/sanctum/pkg/clock"
	"github.com/sanctum-collective/sanctum/pkg/logger"
)

// Service manages scarcity rituals.
type Service struct {
	mu       sync.Mutex
	members  storage.MemberStore
	store    storage.RitualStore
	events   storage.LedgerStore
	notifier notify.Notifier
	feed     feed.Sink
	clk      clock.Clock
	log      *logger.Logger
}

// New constructs a rituals service. The notifier and feed sink may be nil.
func New(members storage.MemberStore, store storage.RitualStore, events storage.LedgerStore, notifier notify.Notifier, sink feed.Sink, clk clock.Clock, log *logger.Logger) *Service {
	if clk == nil {
		clk = clock.System()
	}
	if log == nil {
		log = logger.NewDefault("rituals")
	}
	return &Service{
		members:  members,
		store:    store,
		events:   events,
		notifier: notifier,
		feed:     sink,
		clk:      clk,
		log:      log,
	}
}

// VoteOutcome reports a cast ritual vote and the quorum progress after it.
type VoteOutcome struct {
	Success      bool   `json:"success"`
	QuorumStatus string `json:"quorum_status"`
}

// CreateRitual opens a scarcity proposal. The staking window doubles as the
// proposal's lifetime: it expires that long after creation.
func (s *Service) CreateRitual(ctx context.Context, rType ritual.ProposalType, title, description string, stakingWindow time.Duration, minimumQuorum, whisperTrigger int, timeDecay bool) (ritual.Proposal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return ritual.Proposal{}, fmt.Errorf("title is required")
	}
	if minimumQuorum <= 0 {
		return ritual.Proposal{}, fmt.Errorf("minimum_quorum must be positive")
	}
	if stakingWindow <= 0 {
		return ritual.Proposal{}, fmt.Errorf("staking_window must be positive")
	}
	if whisperTrigger > minimumQuorum {
		return ritual.Proposal{}, fmt.Errorf("whisper_trigger cannot exceed minimum_quorum")
	}

	now := s.clk.Now()
	proposal := ritual.Proposal{
		Type:           rType,
		Title:          title,
		Description:    strings.TrimSpace(description),
		StakingWindow:  stakingWindow,
		MinimumQuorum:  minimumQuorum,
		TimeDecay:      timeDecay,
		WhisperTrigger: whisperTrigger,
		Status:         ritual.StatusActive,
		CreatedAt:      now,
		ExpiresAt:      now.Add(stakingWindow),
	}
	proposal, err := s.store.CreateRitual(ctx, proposal)
	if err != nil {
		return ritual.Proposal{}, err
	}
	s.log.WithField("ritual_id", proposal.ID).
		WithField("quorum", minimumQuorum).
		Info("scarcity ritual opened")
	return proposal, nil
}

// CheckEligibility evaluates whether a member may vote on a ritual.
func (s *Service) CheckEligibility(ctx context.Context, proposalID string, memberID int64) (eligibility.Result, error) {
	proposal, err := s.store.GetRitual(ctx, proposalID)
	if err != nil {
		return eligibility.Deny("Proposal not found"), nil
	}

	now := s.clk.Now()
	if proposal.Status != ritual.StatusActive || now.After(proposal.ExpiresAt) {
		return eligibility.Deny("Voting window has expired"), nil
	}

	m, err := s.members.GetMember(ctx, memberID)
	if err != nil || !m.Tier.AtLeast(member.TierOracle) {
		return eligibility.Deny("Oracle+ tier required for ritual voting"), nil
	}

	stakes, err := s.events.EventsSince(ctx, ledger.MechanicStake, memberID, now.Add(-proposal.StakingWindow))
	if err != nil {
		return eligibility.Result{}, err
	}
	qualifying := false
	for _, ev := range stakes {
		if ev.Tier.AtLeast(member.TierOracle) {
			qualifying = true
			break
		}
	}
	if !qualifying {
		days := int(math.Ceil(proposal.StakingWindow.Hours() / 24))
		return eligibility.Deny(fmt.Sprintf("Must stake within last %d days to participate in ritual voting", days)), nil
	}
	return eligibility.Allow(), nil
}

// Vote adds the member to the ritual's voter set. Voting is idempotent per
// member; the quorum machine flips active→passed at the threshold and fans
// out whispers when the secondary trigger is also met.
func (s *Service) Vote(ctx context.Context, proposalID string, memberID int64) (VoteOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.CheckEligibility(ctx, proposalID, memberID)
	if err != nil {
		return VoteOutcome{}, err
	}
	if !res.Eligible {
		return VoteOutcome{}, eligibility.Reject(res)
	}

	proposal, err := s.store.GetRitual(ctx, proposalID)
	if err != nil {
		return VoteOutcome{}, err
	}

	if !proposal.HasVoter(memberID) {
		proposal.Voters = append(proposal.Voters, memberID)
	}

	now := s.clk.Now()
	votes := len(proposal.Voters)
	var status string
	if votes >= proposal.MinimumQuorum {
		proposal.Status = ritual.StatusPassed
		status = fmt.Sprintf("Quorum reached! %d/%d ritual votes secured.", votes, proposal.MinimumQuorum)
	} else {
		status = fmt.Sprintf("%d/%d votes. %d more needed for ritual activation.", votes, proposal.MinimumQuorum, proposal.MinimumQuorum-votes)
	}

	proposal, err = s.store.UpdateRitual(ctx, proposal)
	if err != nil {
		return VoteOutcome{}, err
	}

	if _, err := s.events.AppendEvent(ctx, ledger.Event{
		Mechanic:  ledger.MechanicRitualVote,
		ActorID:   memberID,
		RefID:     proposalID,
		CreatedAt: now,
	}); err != nil {
		return VoteOutcome{}, err
	}

	if proposal.Status == ritual.StatusPassed {
		if s.feed != nil {
			s.feed.Publish(feed.EventRitual,
				fmt.Sprintf("Ritual %q has been sealed by %d voters", proposal.Title, votes),
				feed.UrgencyCritical, proposal.Voters...)
		}
		if proposal.WhisperTrigger > 0 && votes >= proposal.WhisperTrigger {
			s.triggerWhispers(ctx, proposal)
		}
	}
	return VoteOutcome{Success: true, QuorumStatus: status}, nil
}

// ActiveRituals lists open, unexpired rituals, newest first.
func (s *Service) ActiveRituals(ctx context.Context) ([]ritual.Proposal, error) {
	all, err := s.store.ListRituals(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clk.Now()
	var active []ritual.Proposal
	for _, p := range all {
		if p.Status == ritual.StatusActive && p.ExpiresAt.After(now) {
			active = append(active, p)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].CreatedAt.After(active[j].CreatedAt) })
	return active, nil
}

// GetRitual returns one ritual.
func (s *Service) GetRitual(ctx context.Context, id string) (ritual.Proposal, error) {
	return s.store.GetRitual(ctx, id)
}

// ExpireOverdue flips every active ritual past its deadline to expired.
// Runs from the scheduler.
func (s *Service) ExpireOverdue(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.ListRituals(ctx)
	if err != nil {
		return err
	}
	now := s.clk.Now()
	expired := 0
	for _, p := range all {
		if p.Status != ritual.StatusActive || p.ExpiresAt.After(now) {
			continue
		}
		p.Status = ritual.StatusExpired
		if _, err := s.store.UpdateRitual(ctx, p); err != nil {
			return err
		}
		expired++
	}
	if expired > 0 {
		s.log.WithField("expired", expired).Info("overdue rituals closed")
	}
	return nil
}

// Delivery failures are logged and swallowed; the vote already settled.
func (s *Service) triggerWhispers(ctx context.Context, proposal ritual.Proposal) {
	if s.notifier == nil {
		return
	}
	for _, voterID := range proposal.Voters {
		err := s.notifier.Notify(ctx, notify.Notification{
			RecipientID: voterID,
			Message:     fmt.Sprintf("A ritual whisper awaits you: %s", proposal.Title),
			Urgency:     string(feed.UrgencyHigh),
		})
		if err != nil {
			s.log.WithError(err).
				WithField("ritual_id", proposal.ID).
				WithField("recipient_id", voterID).
				Warn("ritual whisper delivery failed")
		}
	}
}
