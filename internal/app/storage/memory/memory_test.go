package memory

import (
	"context"
	"testing"
	"time"

	"github.com/sanctum-collective/sanctum/internal/app/domain/governance"
	"github.com/sanctum-collective/sanctum/internal/app/domain/ledger"
	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
	"github.com/sanctum-collective/sanctum/internal/app/domain/prophecy"
	"github.com/sanctum-collective/sanctum/internal/app/domain/token"
)

func TestStore_MemberLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()

	m, err := store.CreateMember(ctx, member.Member{Email: "Seer@Example.com", Tier: member.TierOracle})
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if m.ID == 0 || m.Email != "seer@example.com" {
		t.Fatalf("unexpected member: %#v", m)
	}

	if _, err := store.CreateMember(ctx, member.Member{Email: "seer@example.com"}); err == nil {
		t.Fatalf("expected duplicate email error")
	}

	got, err := store.GetMemberByEmail(ctx, "SEER@example.com")
	if err != nil || got.ID != m.ID {
		t.Fatalf("lookup by email: %v %#v", err, got)
	}

	m.Tier = member.TierShadow
	m.CustomerRef = "cus_123"
	if _, err := store.UpdateMember(ctx, m); err != nil {
		t.Fatalf("update member: %v", err)
	}
	byRef, err := store.GetMemberByCustomerRef(ctx, "cus_123")
	if err != nil || byRef.Tier != member.TierShadow {
		t.Fatalf("lookup by customer ref: %v %#v", err, byRef)
	}

	if _, err := store.GetMember(ctx, 999); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestStore_LedgerWindows(t *testing.T) {
	store := New()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := store.AppendEvent(ctx, ledger.Event{
			Mechanic:  ledger.MechanicStake,
			ActorID:   7,
			Amount:    100,
			CreatedAt: base.Add(time.Duration(i) * 24 * time.Hour),
		})
		if err != nil {
			t.Fatalf("append event: %v", err)
		}
	}
	if _, err := store.AppendEvent(ctx, ledger.Event{Mechanic: ledger.MechanicAnoint, ActorID: 7, CreatedAt: base}); err != nil {
		t.Fatalf("append event: %v", err)
	}

	since, err := store.EventsSince(ctx, ledger.MechanicStake, 7, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("events since: %v", err)
	}
	if len(since) != 2 {
		t.Fatalf("expected 2 windowed events, got %d", len(since))
	}

	all, err := store.QueryEvents(ctx, ledger.MechanicStake, nil)
	if err != nil {
		t.Fatalf("query events: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 stake events, got %d", len(all))
	}
}

func TestStore_ProposalVotesAreCloned(t *testing.T) {
	store := New()
	ctx := context.Background()

	p, err := store.CreateProposal(ctx, governance.Proposal{
		Title:  "lower the quorum",
		Status: governance.ProposalActive,
		Votes:  map[int64]governance.Vote{},
	})
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}

	p.Votes[1] = governance.Vote{MemberID: 1, Power: 10, Choice: governance.ChoiceYes}
	fresh, err := store.GetProposal(ctx, p.ID)
	if err != nil {
		t.Fatalf("get proposal: %v", err)
	}
	if len(fresh.Votes) != 0 {
		t.Fatalf("stored proposal shares vote map with caller")
	}
}

func TestStore_SerialsPerType(t *testing.T) {
	store := New()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := store.NextSerial(ctx, token.TypeCoin)
		if err != nil {
			t.Fatalf("next serial: %v", err)
		}
		if n != i {
			t.Fatalf("expected serial %d, got %d", i, n)
		}
	}
	n, err := store.NextSerial(ctx, token.TypeScroll)
	if err != nil || n != 1 {
		t.Fatalf("scroll serial should start at 1: %d %v", n, err)
	}
}

func TestStore_ReforgeKeepsRequestedAt(t *testing.T) {
	store := New()
	ctx := context.Background()

	req, err := store.CreateReforge(ctx, prophecy.ReforgeRequest{
		MemberID:      1,
		OriginalID:    "p1",
		PaymentMethod: prophecy.PayUSD,
		Amount:        9,
		Status:        prophecy.ReforgePending,
	})
	if err != nil {
		t.Fatalf("create reforge: %v", err)
	}
	requested := req.RequestedAt

	req.Status = prophecy.ReforgeCompleted
	req.RequestedAt = time.Time{}
	updated, err := store.UpdateReforge(ctx, req)
	if err != nil {
		t.Fatalf("update reforge: %v", err)
	}
	if !updated.RequestedAt.Equal(requested) {
		t.Fatalf("requested_at should be immutable")
	}
	if updated.Status != prophecy.ReforgeCompleted {
		t.Fatalf("status not updated: %#v", updated)
	}
}
