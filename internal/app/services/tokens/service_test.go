package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
	"github.com/sanctum-collective/sanctum/internal/app/domain/token"
	"github.com/sanctum-collective/sanctum/internal/app/storage/memory"
	"github.com/sanctum-collective/sanctum/pkg/clock"
)

func seedMember(t *testing.T, store *memory.Store, email string, tier member.Tier) member.Member {
	t.Helper()
	m, err := store.CreateMember(context.Background(), member.Member{Email: email, Tier: tier})
	if err != nil {
		t.Fatalf("seed member %s: %v", email, err)
	}
	return m
}

func TestService_ClaimExactlyOnce(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	clk := clock.NewFake(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	svc := New(store, store, store, nil, clk, nil)

	drop, err := svc.CreateDrop(ctx, member.TierHerald, token.TypeCoin)
	if err != nil {
		t.Fatalf("create drop: %v", err)
	}
	if drop.SerialNumber != "HC001" {
		t.Fatalf("first coin serial should be HC001, got %s", drop.SerialNumber)
	}

	winner := seedMember(t, store, "winner@sanctum.io", member.TierHerald)
	rival := seedMember(t, store, "rival@sanctum.io", member.TierShadow)

	clk.Advance(42 * time.Second)
	result, err := svc.AttemptClaim(ctx, drop.ID, winner.ID)
	if err != nil || !result.Success {
		t.Fatalf("first claim should win: %#v %v", result, err)
	}
	if result.ClaimSeconds != 42 {
		t.Fatalf("claim seconds should be 42, got %d", result.ClaimSeconds)
	}

	result, err = svc.AttemptClaim(ctx, drop.ID, rival.ID)
	if err != nil || result.Success || result.Message != "Token no longer available" {
		t.Fatalf("second claim should lose: %#v %v", result, err)
	}

	// Repeat attempts by the winner also lose.
	result, err = svc.AttemptClaim(ctx, drop.ID, winner.ID)
	if err != nil || result.Success {
		t.Fatalf("repeat claim should lose: %#v %v", result, err)
	}

	claims, err := svc.RecentClaims(ctx, 10)
	if err != nil || len(claims) != 1 {
		t.Fatalf("exactly one claim event expected: %d %v", len(claims), err)
	}
}

func TestService_TierGate(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := New(store, store, store, nil, clock.NewFake(time.Now()), nil)

	drop, err := svc.CreateDrop(ctx, member.TierOracle, token.TypeSigil)
	if err != nil {
		t.Fatalf("create drop: %v", err)
	}

	herald := seedMember(t, store, "herald@sanctum.io", member.TierHerald)
	result, err := svc.AttemptClaim(ctx, drop.ID, herald.ID)
	if err != nil || result.Success {
		t.Fatalf("herald should not claim oracle drop: %#v %v", result, err)
	}
	if result.Message != "oracle tier or higher required to claim this token" {
		t.Fatalf("unexpected message: %q", result.Message)
	}

	result, err = svc.AttemptClaim(ctx, drop.ID, 404)
	if err != nil || result.Success || result.Message != "User not found" {
		t.Fatalf("unknown member should lose: %#v %v", result, err)
	}

	shadow := seedMember(t, store, "shadow@sanctum.io", member.TierShadow)
	result, err = svc.AttemptClaim(ctx, drop.ID, shadow.ID)
	if err != nil || !result.Success {
		t.Fatalf("shadow should claim oracle drop: %#v %v", result, err)
	}
}

func TestService_AvailableTokens(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := New(store, store, store, nil, clock.NewFake(time.Now()), nil)

	if _, err := svc.CreateDrop(ctx, member.TierHerald, token.TypeCoin); err != nil {
		t.Fatalf("create drop: %v", err)
	}
	oracleDrop, err := svc.CreateDrop(ctx, member.TierOracle, token.TypeSigil)
	if err != nil {
		t.Fatalf("create drop: %v", err)
	}
	if _, err := svc.CreateDrop(ctx, member.TierShadow, token.TypeScroll); err != nil {
		t.Fatalf("create drop: %v", err)
	}

	visible, err := svc.AvailableTokens(ctx, member.TierOracle)
	if err != nil || len(visible) != 2 {
		t.Fatalf("oracle should see 2 drops: %d %v", len(visible), err)
	}

	claimer := seedMember(t, store, "oracle@sanctum.io", member.TierOracle)
	if _, err := svc.AttemptClaim(ctx, oracleDrop.ID, claimer.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}
	visible, err = svc.AvailableTokens(ctx, member.TierOracle)
	if err != nil || len(visible) != 1 {
		t.Fatalf("claimed drop should disappear: %d %v", len(visible), err)
	}
}

func TestService_RandomDropWeights(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := New(store, store, store, nil, clock.NewFake(time.Now()), nil)

	cases := []struct {
		roll float64
		tier member.Tier
	}{
		{0.4, member.TierHerald},
		{0.6, member.TierOracle},
		{0.9, member.TierShadow},
	}
	for _, tc := range cases {
		rolls := []float64{tc.roll, 0}
		svc.WithRand(func() float64 {
			r := rolls[0]
			rolls = rolls[1:]
			return r
		})
		drop, err := svc.ScheduleRandomDrop(ctx)
		if err != nil {
			t.Fatalf("random drop: %v", err)
		}
		if drop.RequiredTier != tc.tier {
			t.Fatalf("roll %v should land on %s, got %s", tc.roll, tc.tier, drop.RequiredTier)
		}
	}
}

func TestService_SerialsIncrementPerType(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := New(store, store, store, nil, clock.NewFake(time.Now()), nil)

	first, err := svc.CreateDrop(ctx, member.TierShadow, token.TypeScroll)
	if err != nil {
		t.Fatalf("create drop: %v", err)
	}
	second, err := svc.CreateDrop(ctx, member.TierShadow, token.TypeScroll)
	if err != nil {
		t.Fatalf("create drop: %v", err)
	}
	if first.SerialNumber != "SK001" || second.SerialNumber != "SK002" {
		t.Fatalf("scroll serials wrong: %s %s", first.SerialNumber, second.SerialNumber)
	}

	coin, err := svc.CreateDrop(ctx, member.TierHerald, token.TypeCoin)
	if err != nil || coin.SerialNumber != "HC001" {
		t.Fatalf("coin serial should be independent: %s %v", coin.SerialNumber, err)
	}
}

func TestService_ShipAfterClaim(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := New(store, store, store, nil, clock.NewFake(time.Now()), nil)

	drop, err := svc.CreateDrop(ctx, member.TierHerald, token.TypeCoin)
	if err != nil {
		t.Fatalf("create drop: %v", err)
	}

	if _, err := svc.MarkShipped(ctx, drop.ID); err == nil {
		t.Fatalf("unclaimed drop must not ship")
	}

	owner := seedMember(t, store, "owner@sanctum.io", member.TierHerald)
	if _, err := svc.AttemptClaim(ctx, drop.ID, owner.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}

	shipped, err := svc.MarkShipped(ctx, drop.ID)
	if err != nil || shipped.Status != token.StatusShipped {
		t.Fatalf("shipped drop: %#v %v", shipped, err)
	}
	if shipped.ClaimedBy != owner.ID {
		t.Fatalf("shipping must not disturb the claim: %#v", shipped)
	}

	if _, err := svc.MarkShipped(ctx, drop.ID); err == nil {
		t.Fatalf("a shipped drop must not ship twice")
	}
	if _, err := svc.MarkShipped(ctx, "missing"); err == nil {
		t.Fatalf("unknown drop must error")
	}
}
