package staking

import (
	"context"
	"testing"
	"time"

	"github.com/sanctum-collective/sanctum/internal/app/domain/eligibility"
	"github.com/sanctum-collective/sanctum/internal/app/domain/governance"
	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
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

func TestService_VotingPowerSnapshot(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	clk := clock.NewFake(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	svc := New(store, store, store, nil, clk, nil)

	m := seedMember(t, store, "herald@sanctum.io", member.TierHerald)
	pos, err := svc.Stake(ctx, m.ID, 1000)
	if err != nil {
		t.Fatalf("stake: %v", err)
	}
	if pos.VotingPower != 1200 {
		t.Fatalf("herald 1000 should yield 1200 power, got %d", pos.VotingPower)
	}

	// Upgrading the tier after staking must not move the snapshot.
	m.Tier = member.TierShadow
	if _, err := store.UpdateMember(ctx, m); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	pos, err = svc.Position(ctx, m.ID)
	if err != nil || pos.VotingPower != 1200 {
		t.Fatalf("snapshot moved: %d %v", pos.VotingPower, err)
	}

	shadow := seedMember(t, store, "shadow@sanctum.io", member.TierShadow)
	pos, err = svc.Stake(ctx, shadow.ID, 999)
	if err != nil || pos.VotingPower != 1998 {
		t.Fatalf("shadow 999 should yield 1998 power, got %d %v", pos.VotingPower, err)
	}

	if _, err := svc.Stake(ctx, m.ID, 0); err == nil {
		t.Fatalf("expected error for non-positive amount")
	}
}

func TestService_VoteRequiresStake(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := New(store, store, store, nil, clock.NewFake(time.Now()), nil)

	proposer := seedMember(t, store, "proposer@sanctum.io", member.TierOracle)
	voter := seedMember(t, store, "voter@sanctum.io", member.TierHerald)

	proposal, err := svc.CreateProposal(ctx, proposer.ID, governance.ProposalMerchDesign, "new sigil pendant", "", 500)
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}

	err = svc.Vote(ctx, proposal.ID, voter.ID, governance.ChoiceYes)
	if !eligibility.IsRejection(err) || err.Error() != "Must stake $BONKED tokens to vote" {
		t.Fatalf("expected stake-required rejection, got %v", err)
	}

	if _, err := svc.Stake(ctx, voter.ID, 499); err != nil {
		t.Fatalf("stake: %v", err)
	}
	err = svc.Vote(ctx, proposal.ID, voter.ID, governance.ChoiceYes)
	if !eligibility.IsRejection(err) {
		t.Fatalf("expected minimum-stake rejection, got %v", err)
	}

	if _, err := svc.Stake(ctx, voter.ID, 500); err != nil {
		t.Fatalf("restake: %v", err)
	}
	if err := svc.Vote(ctx, proposal.ID, voter.ID, governance.ChoiceYes); err != nil {
		t.Fatalf("vote: %v", err)
	}

	rewards, err := svc.StakingRewards(ctx, voter.ID)
	if err != nil || rewards.Earned != governance.ParticipationReward {
		t.Fatalf("participation reward not credited: %#v %v", rewards, err)
	}
}

func TestService_ExecuteProposal(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := New(store, store, store, nil, clock.NewFake(time.Now()), nil)

	proposer := seedMember(t, store, "proposer@sanctum.io", member.TierShadow)

	cases := []struct {
		name     string
		yes, no  int64
		expected bool
	}{
		{"passes on majority", 150, 100, true},
		{"rejects on minority", 100, 150, false},
		{"rejects with no votes", 0, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			proposal, err := svc.CreateProposal(ctx, proposer.ID, governance.ProposalFeatureRequest, tc.name, "", 0)
			if err != nil {
				t.Fatalf("create proposal: %v", err)
			}

			if tc.yes > 0 {
				yes := seedMember(t, store, "yes-"+tc.name+"@sanctum.io", member.TierInitiate)
				if _, err := svc.Stake(ctx, yes.ID, tc.yes); err != nil {
					t.Fatalf("stake: %v", err)
				}
				if err := svc.Vote(ctx, proposal.ID, yes.ID, governance.ChoiceYes); err != nil {
					t.Fatalf("vote yes: %v", err)
				}
			}
			if tc.no > 0 {
				no := seedMember(t, store, "no-"+tc.name+"@sanctum.io", member.TierInitiate)
				if _, err := svc.Stake(ctx, no.ID, tc.no); err != nil {
					t.Fatalf("stake: %v", err)
				}
				if err := svc.Vote(ctx, proposal.ID, no.ID, governance.ChoiceNo); err != nil {
					t.Fatalf("vote no: %v", err)
				}
			}

			outcome, err := svc.ExecuteProposal(ctx, proposal.ID)
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			if outcome.Executed != tc.expected {
				t.Fatalf("expected executed=%v, got %#v", tc.expected, outcome)
			}

			settled, err := store.GetProposal(ctx, proposal.ID)
			if err != nil {
				t.Fatalf("get proposal: %v", err)
			}
			want := governance.ProposalRejected
			if tc.expected {
				want = governance.ProposalExecuted
			}
			if settled.Status != want {
				t.Fatalf("expected status %s, got %s", want, settled.Status)
			}

			// Settled proposals never re-enter active.
			if _, err := svc.ExecuteProposal(ctx, proposal.ID); !eligibility.IsRejection(err) {
				t.Fatalf("expected re-execution rejection, got %v", err)
			}
			if err := svc.Vote(ctx, proposal.ID, proposer.ID, governance.ChoiceYes); !eligibility.IsRejection(err) {
				t.Fatalf("expected closed-ballot rejection, got %v", err)
			}
		})
	}
}

func TestService_LatestBallotReplaces(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := New(store, store, store, nil, clock.NewFake(time.Now()), nil)

	proposer := seedMember(t, store, "proposer@sanctum.io", member.TierOracle)
	voter := seedMember(t, store, "voter@sanctum.io", member.TierInitiate)
	if _, err := svc.Stake(ctx, voter.ID, 100); err != nil {
		t.Fatalf("stake: %v", err)
	}

	proposal, err := svc.CreateProposal(ctx, proposer.ID, governance.ProposalAnnouncement, "moon gathering", "", 0)
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}

	if err := svc.Vote(ctx, proposal.ID, voter.ID, governance.ChoiceYes); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if err := svc.Vote(ctx, proposal.ID, voter.ID, governance.ChoiceNo); err != nil {
		t.Fatalf("second vote: %v", err)
	}

	results, err := svc.Results(ctx, proposal.ID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if results.Yes != 0 || results.No != 100 || results.Total != 100 {
		t.Fatalf("latest ballot should replace earlier: %#v", results)
	}
}

func TestService_StakingRewardsAccrue(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	clk := clock.NewFake(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	svc := New(store, store, store, nil, clk, nil)

	m := seedMember(t, store, "shadow@sanctum.io", member.TierShadow)
	if _, err := svc.Stake(ctx, m.ID, 10000); err != nil {
		t.Fatalf("stake: %v", err)
	}

	clk.Advance(30 * 24 * time.Hour)
	rewards, err := svc.StakingRewards(ctx, m.ID)
	if err != nil {
		t.Fatalf("rewards: %v", err)
	}
	if rewards.APY != 15 {
		t.Fatalf("shadow APY should be 15, got %d", rewards.APY)
	}
	// floor(10000 × 0.15/365 × 30)
	if rewards.Claimable != 123 {
		t.Fatalf("expected 123 claimable, got %d", rewards.Claimable)
	}

	none, err := svc.StakingRewards(ctx, 999)
	if err != nil || none.APY != 0 || none.Claimable != 0 {
		t.Fatalf("unstaked member should report zeros: %#v %v", none, err)
	}
}

func TestService_ExecuteResumesRecordedPass(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := New(store, store, store, nil, clock.NewFake(time.Now()), nil)

	// A proposal stranded at passed, as if execution was cut off after the
	// pass was recorded.
	proposal, err := store.CreateProposal(ctx, governance.Proposal{
		Title:  "stranded",
		Type:   governance.ProposalFeatureRequest,
		Status: governance.ProposalPassed,
		Votes: map[int64]governance.Vote{
			1: {MemberID: 1, Power: 100, Choice: governance.ChoiceYes},
		},
	})
	if err != nil {
		t.Fatalf("seed proposal: %v", err)
	}

	outcome, err := svc.ExecuteProposal(ctx, proposal.ID)
	if err != nil || !outcome.Executed {
		t.Fatalf("execution should resume from passed: %#v %v", outcome, err)
	}

	settled, err := store.GetProposal(ctx, proposal.ID)
	if err != nil || settled.Status != governance.ProposalExecuted {
		t.Fatalf("expected executed status, got %s %v", settled.Status, err)
	}
	if settled.ExecutedAt.IsZero() {
		t.Fatalf("executed_at should be set")
	}
}
