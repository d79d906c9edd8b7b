package livefeed

import (
	"fmt"
	"testing"
	"time"

	"github.com/sanctum-collective/sanctum/internal/app/domain/feed"
	"github.com/sanctum-collective/sanctum/pkg/clock"
)

func TestService_NewestFirstAndCapped(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	svc := New(clk, nil)

	for i := 0; i < MaxEvents+20; i++ {
		svc.Publish(feed.EventTokenClaim, fmt.Sprintf("event %d", i), feed.UrgencyLow, int64(i))
		clk.Advance(time.Second)
	}

	all := svc.Recent(0)
	if len(all) != MaxEvents {
		t.Fatalf("feed should cap at %d, got %d", MaxEvents, len(all))
	}
	if all[0].DisplayText != fmt.Sprintf("event %d", MaxEvents+19) {
		t.Fatalf("newest event should lead: %q", all[0].DisplayText)
	}
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp.After(all[i-1].Timestamp) {
			t.Fatalf("feed should be newest first")
		}
	}

	top := svc.Recent(5)
	if len(top) != 5 || top[0].ID != all[0].ID {
		t.Fatalf("limited read should return the newest slice")
	}
}
