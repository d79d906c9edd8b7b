// Package anointing implements the peer-to-peer anointing mechanic: the
// eligibility rules, the grant itself, benefit composition over unexpired
// grants, and the monthly allowance reset.
package anointing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sanctum-collective/sanctum/internal/app/domain/anoint"
	"github.com/sanctum-collective/sanctum/internal/app/domain/eligibility"
	"github.com/sanctum-collective/sanctum/internal/app/domain/feed"
	"github.com/sanctum-collective/sanctum/internal/app/domain/ledger"
	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
	"github.com/sanctum-collective/sanctum/internal/app/storage"
	"github.com/sanctum-collective/sanctum/pkg/clock"
	"github.com/sanctum-collective/sanctum/pkg/logger"
)

// Service manages anointments.
type Service struct {
	mu      sync.Mutex
	members storage.MemberStore
	store   storage.AnointStore
	events  storage.LedgerStore
	feed    feed.Sink
	clk     clock.Clock
	log     *logger.Logger
}

// New constructs an anointing service. The feed sink may be nil.
func New(members storage.MemberStore, store storage.AnointStore, events storage.LedgerStore, sink feed.Sink, clk clock.Clock, log *logger.Logger) *Service {
	if clk == nil {
		clk = clock.System()
	}
	if log == nil {
		log = logger.NewDefault("anointing")
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

// CheckEligibility evaluates whether a member may anoint right now. A member
// seen for the first time gets a fresh allowance for their tier.
func (s *Service) CheckEligibility(ctx context.Context, anointerID int64) (eligibility.Result, error) {
	anointer, err := s.members.GetMember(ctx, anointerID)
	if err != nil {
		return eligibility.Result{}, err
	}
	if !anointer.Tier.AtLeast(member.TierOracle) {
		return eligibility.Deny("Anointing requires Oracle+ tier"), nil
	}

	status, err := s.anointerStatus(ctx, anointer)
	if err != nil {
		return eligibility.Result{}, err
	}
	if status.Remaining <= 0 {
		return eligibility.DenyRemaining("Monthly anointing limit reached. Resets on the 1st.", 0), nil
	}
	return eligibility.AllowRemaining(status.Remaining), nil
}

// Anoint grants a sigil from one member to another. The allowance decrement,
// record creation, and ledger append happen under a single lock so two
// concurrent calls cannot double-spend the last allowance.
func (s *Service) Anoint(ctx context.Context, anointerID, recipientID int64, sigil anoint.SigilType, publicMessage string) (anoint.Anointment, error) {
	if anointerID == recipientID {
		return anoint.Anointment{}, eligibility.Reject(eligibility.Deny("Cannot anoint yourself"))
	}
	if !sigil.Valid() {
		return anoint.Anointment{}, fmt.Errorf("unknown sigil type %q", sigil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.CheckEligibility(ctx, anointerID)
	if err != nil {
		return anoint.Anointment{}, err
	}
	if !res.Eligible {
		return anoint.Anointment{}, eligibility.Reject(res)
	}

	anointer, err := s.members.GetMember(ctx, anointerID)
	if err != nil {
		return anoint.Anointment{}, err
	}
	recipient, err := s.members.GetMember(ctx, recipientID)
	if err != nil {
		return anoint.Anointment{}, err
	}

	now := s.clk.Now()
	recent, err := s.events.EventsSince(ctx, ledger.MechanicAnoint, anointerID, now.Add(-anoint.PairWindow))
	if err != nil {
		return anoint.Anointment{}, err
	}
	for _, ev := range recent {
		if ev.TargetID == recipientID {
			return anoint.Anointment{}, eligibility.Reject(eligibility.Deny("Can only anoint the same user once per week"))
		}
	}

	record := anoint.Anointment{
		AnointerID:    anointerID,
		RecipientID:   recipientID,
		AnointerTier:  anointer.Tier,
		RecipientTier: recipient.Tier,
		Sigil:         sigil,
		Benefits:      ComputeBenefits(anointer.Tier, recipient.Tier, sigil),
		PublicMessage: strings.TrimSpace(publicMessage),
		CreatedAt:     now,
		ExpiresAt:     now.Add(anoint.BenefitDuration),
		Active:        true,
	}
	record, err = s.store.CreateAnointment(ctx, record)
	if err != nil {
		return anoint.Anointment{}, err
	}

	status, err := s.anointerStatus(ctx, anointer)
	if err != nil {
		return anoint.Anointment{}, err
	}
	status.Remaining--
	status.LastAnointment = now
	status.TotalAnointed++
	if err := s.store.PutAnointerStatus(ctx, status); err != nil {
		return anoint.Anointment{}, err
	}

	if _, err := s.events.AppendEvent(ctx, ledger.Event{
		Mechanic:  ledger.MechanicAnoint,
		ActorID:   anointerID,
		TargetID:  recipientID,
		Tier:      anointer.Tier,
		RefID:     record.ID,
		CreatedAt: now,
	}); err != nil {
		return anoint.Anointment{}, err
	}

	s.broadcast(record)
	s.log.WithField("anointment_id", record.ID).
		WithField("anointer_id", anointerID).
		WithField("recipient_id", recipientID).
		WithField("sigil", string(sigil)).
		Info("anointment granted")
	return record, nil
}

// MemberAnointments returns a member's unexpired received grants in grant
// order and their full given history, newest first. The grant order matters:
// FoldBenefits keeps the last boost it sees, which must be the newest grant.
func (s *Service) MemberAnointments(ctx context.Context, memberID int64) (received, given []anoint.Anointment, err error) {
	now := s.clk.Now()

	all, err := s.store.ListAnointmentsByRecipient(ctx, memberID)
	if err != nil {
		return nil, nil, err
	}
	for _, a := range all {
		if a.Active && a.ExpiresAt.After(now) {
			received = append(received, a)
		}
	}
	sort.Slice(received, func(i, j int) bool { return received[i].CreatedAt.Before(received[j].CreatedAt) })

	given, err = s.store.ListAnointmentsByAnointer(ctx, memberID)
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(given, func(i, j int) bool { return given[i].CreatedAt.After(given[j].CreatedAt) })
	return received, given, nil
}

// GetAnointment returns one grant by id.
func (s *Service) GetAnointment(ctx context.Context, id string) (anoint.Anointment, error) {
	return s.store.GetAnointment(ctx, id)
}

// ActiveBenefits folds a member's unexpired received anointments into one
// bundle. The result is recomputed from the records on every call; nothing
// cached can drift from them.
func (s *Service) ActiveBenefits(ctx context.Context, memberID int64) (anoint.Benefits, error) {
	received, _, err := s.MemberAnointments(ctx, memberID)
	if err != nil {
		return anoint.Benefits{}, err
	}
	return FoldBenefits(received), nil
}

// RecentAnointings returns the newest grants, capped at limit.
func (s *Service) RecentAnointings(ctx context.Context, limit int) ([]anoint.Anointment, error) {
	if limit <= 0 {
		limit = 10
	}
	all, err := s.store.ListAnointments(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// TopAnointers ranks anointers by lifetime grants given, capped at 10.
func (s *Service) TopAnointers(ctx context.Context) ([]anoint.AnointerStatus, error) {
	statuses, err := s.store.ListAnointerStatuses(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].TotalAnointed > statuses[j].TotalAnointed })
	if len(statuses) > 10 {
		statuses = statuses[:10]
	}
	return statuses, nil
}

// ResetMonthlyAllowances restores every tracked anointer's allowance to
// their tier's monthly limit. Runs from the scheduler on the 1st.
func (s *Service) ResetMonthlyAllowances(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses, err := s.store.ListAnointerStatuses(ctx)
	if err != nil {
		return err
	}
	for _, status := range statuses {
		tier := status.Tier
		if m, err := s.members.GetMember(ctx, status.MemberID); err == nil {
			tier = m.Tier
		}
		status.Tier = tier
		status.Remaining = anoint.MonthlyAllowance(tier)
		if err := s.store.PutAnointerStatus(ctx, status); err != nil {
			return err
		}
	}
	s.log.WithField("anointers", len(statuses)).Info("monthly anointing allowances reset")
	return nil
}

func (s *Service) anointerStatus(ctx context.Context, m member.Member) (anoint.AnointerStatus, error) {
	status, err := s.store.GetAnointerStatus(ctx, m.ID)
	if err == nil {
		return status, nil
	}
	status = anoint.AnointerStatus{
		MemberID:   m.ID,
		Tier:       m.Tier,
		Remaining:  anoint.MonthlyAllowance(m.Tier),
		Reputation: 5.0,
	}
	if err := s.store.PutAnointerStatus(ctx, status); err != nil {
		return anoint.AnointerStatus{}, err
	}
	return status, nil
}

func (s *Service) broadcast(a anoint.Anointment) {
	if s.feed == nil {
		return
	}
	message := a.PublicMessage
	if message == "" {
		message = "deemed worthy of favor"
	}
	text := fmt.Sprintf("%s %03d blessed %s %03d with Sigil of %s: %q",
		strings.ToUpper(string(a.AnointerTier)), a.AnointerID%1000,
		strings.ToUpper(string(a.RecipientTier)), a.RecipientID%1000,
		a.Sigil, message)
	s.feed.Publish(feed.EventAnointing, text, feed.UrgencyHigh, a.AnointerID, a.RecipientID)
}

// ComputeBenefits derives the benefit bundle for a single grant from the
// anointer's tier, the recipient's tier, and the chosen sigil.
func ComputeBenefits(anointerTier, recipientTier member.Tier, sigil anoint.SigilType) anoint.Benefits {
	b := anoint.Benefits{
		FreeProphecies:        1,
		GovernanceVotingPower: 1.1,
	}
	if anointerTier == member.TierShadow {
		b.FreeProphecies = 2
		b.VoiceWhispersUnlocked = true
		b.GovernanceVotingPower = 1.5
		b.EncounterPriority = true
		switch recipientTier {
		case member.TierInitiate, member.TierHerald:
			b.TemporaryTierBoost = recipientTier.Next()
		}
	}
	switch sigil {
	case anoint.SigilFavor:
		b.FreeProphecies++
	case anoint.SigilWisdom:
		b.VoiceWhispersUnlocked = true
	case anoint.SigilPower:
		b.GovernanceVotingPower *= 1.5
	}
	return b
}

// FoldBenefits combines several active grants. Prophecies sum, the boolean
// unlocks OR, voting power multiplies from 1.0, and the tier boost keeps the
// last folded value.
func FoldBenefits(received []anoint.Anointment) anoint.Benefits {
	combined := anoint.Benefits{GovernanceVotingPower: 1.0}
	for _, a := range received {
		combined.FreeProphecies += a.Benefits.FreeProphecies
		combined.VoiceWhispersUnlocked = combined.VoiceWhispersUnlocked || a.Benefits.VoiceWhispersUnlocked
		combined.GovernanceVotingPower *= a.Benefits.GovernanceVotingPower
		combined.EncounterPriority = combined.EncounterPriority || a.Benefits.EncounterPriority
		if a.Benefits.TemporaryTierBoost != "" {
			combined.TemporaryTierBoost = a.Benefits.TemporaryTierBoost
		}
	}
	return combined
}
