package jobs

import (
	"context"
	"testing"
	"time"

	app "github.com/sanctum-collective/sanctum/internal/app"
	"github.com/sanctum-collective/sanctum/internal/config"
	"github.com/sanctum-collective/sanctum/pkg/clock"
)

func TestNewRegistersConfiguredJobs(t *testing.T) {
	application := app.New(app.Stores{}, app.Options{}, nil)

	if _, err := New(application, config.Default().Jobs, nil); err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	// Empty expressions are skipped rather than rejected.
	if _, err := New(application, config.JobsConfig{}, nil); err != nil {
		t.Fatalf("new scheduler with disabled jobs: %v", err)
	}

	if _, err := New(application, config.JobsConfig{RitualSweep: "not a cron expr"}, nil); err == nil {
		t.Fatalf("expected error for malformed cron expression")
	}
}

func TestExecuteResetsAllowances(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 4, 28, 9, 0, 0, 0, time.UTC))
	application := app.New(app.Stores{}, app.Options{Clock: clk}, nil)
	ctx := context.Background()

	anointer, err := application.Members.Activate(ctx, "oracle@sanctum.io", "oracle", "")
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	recipient, err := application.Members.Activate(ctx, "novice@sanctum.io", "initiate", "")
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if _, err := application.Anointing.Anoint(ctx, anointer.ID, recipient.ID, "favor", ""); err != nil {
		t.Fatalf("anoint: %v", err)
	}
	res, err := application.Anointing.CheckEligibility(ctx, anointer.ID)
	if err != nil {
		t.Fatalf("eligibility: %v", err)
	}
	if res.Eligible {
		t.Fatalf("expected allowance spent before reset")
	}

	sched, err := New(application, config.JobsConfig{}, nil)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	clk.Set(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	sched.Execute("allowance_reset", func(ctx context.Context) error {
		return application.Anointing.ResetMonthlyAllowances(ctx)
	})

	res, err = application.Anointing.CheckEligibility(ctx, anointer.ID)
	if err != nil {
		t.Fatalf("eligibility after reset: %v", err)
	}
	if !res.Eligible || res.Remaining == nil || *res.Remaining != 1 {
		t.Fatalf("expected restored allowance after reset, got %+v", res)
	}
}
