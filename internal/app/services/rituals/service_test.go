package rituals

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sanctum-collective/sanctum/internal/app/domain/eligibility"
	"github.com/sanctum-collective/sanctum/internal/app/domain/ledger"
	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
	"github.com/sanctum-collective/sanctum/internal/app/domain/ritual"
	"github.com/sanctum-collective/sanctum/internal/app/storage/memory"
	"github.com/sanctum-collective/sanctum/internal/notify"
	"github.com/sanctum-collective/sanctum/pkg/clock"
)

type captureNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (c *captureNotifier) Notify(_ context.Context, n notify.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
	return nil
}

func seedVoter(t *testing.T, store *memory.Store, clk clock.Clock, email string, tier member.Tier) member.Member {
	t.Helper()
	ctx := context.Background()
	m, err := store.CreateMember(ctx, member.Member{Email: email, Tier: tier})
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
	_, err = store.AppendEvent(ctx, ledger.Event{
		Mechanic:  ledger.MechanicStake,
		ActorID:   m.ID,
		Tier:      tier,
		Amount:    1000,
		CreatedAt: clk.Now(),
	})
	if err != nil {
		t.Fatalf("seed stake event: %v", err)
	}
	return m
}

func TestService_EligibilityRules(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	clk := clock.NewFake(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	svc := New(store, store, store, nil, nil, clk, nil)

	proposal, err := svc.CreateRitual(ctx, ritual.TypeOracleExclusive, "exclusive session", "", 168*time.Hour, 5, 5, true)
	if err != nil {
		t.Fatalf("create ritual: %v", err)
	}

	herald, err := store.CreateMember(ctx, member.Member{Email: "herald@sanctum.io", Tier: member.TierHerald})
	if err != nil {
		t.Fatalf("seed herald: %v", err)
	}
	res, err := svc.CheckEligibility(ctx, proposal.ID, herald.ID)
	if err != nil || res.Eligible || res.Reason != "Oracle+ tier required for ritual voting" {
		t.Fatalf("herald should be tier-gated: %#v %v", res, err)
	}

	// Oracle with no stake event inside the window.
	oracle, err := store.CreateMember(ctx, member.Member{Email: "oracle@sanctum.io", Tier: member.TierOracle})
	if err != nil {
		t.Fatalf("seed oracle: %v", err)
	}
	res, err = svc.CheckEligibility(ctx, proposal.ID, oracle.ID)
	if err != nil || res.Eligible {
		t.Fatalf("unstaked oracle should be rejected: %#v %v", res, err)
	}
	if res.Reason != "Must stake within last 7 days to participate in ritual voting" {
		t.Fatalf("unexpected reason: %q", res.Reason)
	}

	if _, err := store.AppendEvent(ctx, ledger.Event{
		Mechanic:  ledger.MechanicStake,
		ActorID:   oracle.ID,
		Tier:      member.TierOracle,
		CreatedAt: clk.Now(),
	}); err != nil {
		t.Fatalf("seed stake: %v", err)
	}
	res, err = svc.CheckEligibility(ctx, proposal.ID, oracle.ID)
	if err != nil || !res.Eligible {
		t.Fatalf("staked oracle should be eligible: %#v %v", res, err)
	}

	// A stake event placed while still herald does not qualify.
	lateBloom := seedVoter(t, store, clk, "late@sanctum.io", member.TierHerald)
	lateBloom.Tier = member.TierOracle
	if _, err := store.UpdateMember(ctx, lateBloom); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	res, err = svc.CheckEligibility(ctx, proposal.ID, lateBloom.ID)
	if err != nil || res.Eligible {
		t.Fatalf("herald-tier stake event should not qualify: %#v %v", res, err)
	}

	res, err = svc.CheckEligibility(ctx, "missing", oracle.ID)
	if err != nil || res.Eligible || res.Reason != "Proposal not found" {
		t.Fatalf("unknown proposal: %#v %v", res, err)
	}
}

func TestService_QuorumStateMachine(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	clk := clock.NewFake(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	notifier := &captureNotifier{}
	svc := New(store, store, store, notifier, nil, clk, nil)

	proposal, err := svc.CreateRitual(ctx, ritual.TypeWhisperQuorum, "sacred recording", "", 72*time.Hour, 3, 3, false)
	if err != nil {
		t.Fatalf("create ritual: %v", err)
	}

	voters := []member.Member{
		seedVoter(t, store, clk, "a@sanctum.io", member.TierOracle),
		seedVoter(t, store, clk, "b@sanctum.io", member.TierShadow),
		seedVoter(t, store, clk, "c@sanctum.io", member.TierOracle),
	}

	outcome, err := svc.Vote(ctx, proposal.ID, voters[0].ID)
	if err != nil || !outcome.Success {
		t.Fatalf("first vote: %#v %v", outcome, err)
	}
	if outcome.QuorumStatus != "1/3 votes. 2 more needed for ritual activation." {
		t.Fatalf("unexpected quorum status: %q", outcome.QuorumStatus)
	}

	// Repeat votes do not grow the voter set.
	if _, err := svc.Vote(ctx, proposal.ID, voters[0].ID); err != nil {
		t.Fatalf("repeat vote: %v", err)
	}
	p, _ := svc.GetRitual(ctx, proposal.ID)
	if len(p.Voters) != 1 {
		t.Fatalf("voter set should dedup, got %d", len(p.Voters))
	}

	if _, err := svc.Vote(ctx, proposal.ID, voters[1].ID); err != nil {
		t.Fatalf("second vote: %v", err)
	}
	outcome, err = svc.Vote(ctx, proposal.ID, voters[2].ID)
	if err != nil {
		t.Fatalf("third vote: %v", err)
	}
	if outcome.QuorumStatus != "Quorum reached! 3/3 ritual votes secured." {
		t.Fatalf("unexpected quorum status: %q", outcome.QuorumStatus)
	}

	p, _ = svc.GetRitual(ctx, proposal.ID)
	if p.Status != ritual.StatusPassed {
		t.Fatalf("ritual should have passed: %s", p.Status)
	}
	if len(notifier.sent) != 3 {
		t.Fatalf("whisper fan-out should reach every voter, got %d", len(notifier.sent))
	}

	// A sealed ritual accepts no more votes.
	late := seedVoter(t, store, clk, "late@sanctum.io", member.TierOracle)
	if _, err := svc.Vote(ctx, proposal.ID, late.ID); !eligibility.IsRejection(err) {
		t.Fatalf("expected sealed-ritual rejection, got %v", err)
	}
}

func TestService_ExpiryWithoutQuorum(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	clk := clock.NewFake(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	svc := New(store, store, store, nil, nil, clk, nil)

	proposal, err := svc.CreateRitual(ctx, ritual.TypeShadowOnly, "midnight circle", "", 72*time.Hour, 5, 0, false)
	if err != nil {
		t.Fatalf("create ritual: %v", err)
	}

	voter := seedVoter(t, store, clk, "v@sanctum.io", member.TierShadow)
	if _, err := svc.Vote(ctx, proposal.ID, voter.ID); err != nil {
		t.Fatalf("vote: %v", err)
	}

	clk.Advance(73 * time.Hour)
	if _, err := svc.Vote(ctx, proposal.ID, voter.ID); !eligibility.IsRejection(err) {
		t.Fatalf("expected expired-window rejection, got %v", err)
	}

	if err := svc.ExpireOverdue(ctx); err != nil {
		t.Fatalf("expire overdue: %v", err)
	}
	p, err := svc.GetRitual(ctx, proposal.ID)
	if err != nil || p.Status != ritual.StatusExpired {
		t.Fatalf("ritual should be expired, got %s %v", p.Status, err)
	}

	active, err := svc.ActiveRituals(ctx)
	if err != nil || len(active) != 0 {
		t.Fatalf("no rituals should remain active: %d %v", len(active), err)
	}
}
