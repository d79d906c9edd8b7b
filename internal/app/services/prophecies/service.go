// Package prophecies implements prophecy records and the burn-and-reforge
// lifecycle: aging rules, escalating per-lineage cost, the two-phase
// pending→completed settlement, and reforge revenue stats.
package prophecies

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/sanctum-collective/sanctum/internal/app/domain/eligibility"
	"github.com/sanctum-collective/sanctum/internal/app/domain/feed"
	"github.com/sanctum-collective/sanctum/internal/app/domain/ledger"
	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
	"github.com/sanctum-collective/sanctum/internal/app/domain/prophecy"
	"github.com/sanctum-collective/sanctum/internal/app/storage"
	"github.com/sanctum-collective/sanctum/pkg/clock"
	"github.com/sanctum-collective/sanctum/pkg/logger"
)

// ContentSource produces the text of a reforged prophecy. Implementations
// may call out to a generation backend; the default is template-based.
type ContentSource interface {
	Reforged(ctx context.Context, memberID int64, originalContent string) (string, error)
}

// Service manages prophecies and reforges.
type Service struct {
	mu      sync.Mutex
	members storage.MemberStore
	store   storage.ProphecyStore
	events  storage.LedgerStore
	content ContentSource
	feed    feed.Sink
	clk     clock.Clock
	log     *logger.Logger
}

// New constructs a prophecies service. A nil content source falls back to
// the built-in templates; the feed sink may be nil.
func New(members storage.MemberStore, store storage.ProphecyStore, events storage.LedgerStore, content ContentSource, sink feed.Sink, clk clock.Clock, log *logger.Logger) *Service {
	if clk == nil {
		clk = clock.System()
	}
	if log == nil {
		log = logger.NewDefault("prophecies")
	}
	if content == nil {
		content = NewTemplateSource()
	}
	return &Service{
		members: members,
		store:   store,
		events:  events,
		content: content,
		feed:    sink,
		clk:     clk,
		log:     log,
	}
}

// BurnResult reports an accepted burn request and its quoted cost.
type BurnResult struct {
	Success   bool   `json:"success"`
	ReforgeID string `json:"reforge_id,omitempty"`
	Cost      int64  `json:"cost"`
}

// ReforgeResult reports a settled reforge.
type ReforgeResult struct {
	Success     bool   `json:"success"`
	NewRecordID string `json:"new_prophecy_id,omitempty"`
}

// CreateProphecy records a new prophecy for a member.
func (s *Service) CreateProphecy(ctx context.Context, memberID int64, content string) (prophecy.Record, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return prophecy.Record{}, fmt.Errorf("content is required")
	}
	if _, err := s.members.GetMember(ctx, memberID); err != nil {
		return prophecy.Record{}, err
	}
	return s.store.CreateRecord(ctx, prophecy.Record{
		MemberID:  memberID,
		Content:   content,
		CreatedAt: s.clk.Now(),
	})
}

// MemberProphecies returns a member's unburned records, newest first.
func (s *Service) MemberProphecies(ctx context.Context, memberID int64) ([]prophecy.Record, error) {
	all, err := s.store.ListRecordsByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	var out []prophecy.Record
	for _, r := range all {
		if !r.Burned {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// BurnedProphecies returns a member's burned records, most recently burned
// first.
func (s *Service) BurnedProphecies(ctx context.Context, memberID int64) ([]prophecy.Record, error) {
	all, err := s.store.ListRecordsByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	var out []prophecy.Record
	for _, r := range all {
		if r.Burned {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BurnedAt.After(out[j].BurnedAt) })
	return out, nil
}

// CheckEligibility evaluates whether a record can be burned for reforging.
// The age rule measures from the record's creation, never from the lineage's
// last reforge.
func (s *Service) CheckEligibility(ctx context.Context, prophecyID string, memberID int64) (eligibility.Result, error) {
	record, err := s.store.GetRecord(ctx, prophecyID)
	if err != nil {
		return eligibility.Deny("Prophecy not found"), nil
	}
	if record.MemberID != memberID {
		return eligibility.Deny("You can only reforge your own prophecies"), nil
	}
	if record.Burned {
		return eligibility.Deny("This prophecy has already been burned"), nil
	}

	m, err := s.members.GetMember(ctx, memberID)
	if err != nil || !m.Tier.AtLeast(member.TierOracle) {
		return eligibility.Deny("Prophecy reforging requires Oracle+ tier"), nil
	}

	now := s.clk.Now()
	age := now.Sub(record.CreatedAt)
	if age < prophecy.MinAge {
		hoursRemaining := int(math.Ceil((prophecy.MinAge - age).Hours()))
		return eligibility.Deny(fmt.Sprintf(
			"Prophecy must age 24 hours before reforging. %d hours remaining.", hoursRemaining)), nil
	}
	return eligibility.Allow(), nil
}

// InitiateBurn opens a pending reforge against an eligible record. The
// quoted cost compounds at 50% per prior reforge in the lineage.
func (s *Service) InitiateBurn(ctx context.Context, prophecyID string, memberID int64, method prophecy.PaymentMethod) (BurnResult, error) {
	if !method.Valid() {
		return BurnResult{}, fmt.Errorf("unknown payment method %q", method)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.CheckEligibility(ctx, prophecyID, memberID)
	if err != nil {
		return BurnResult{}, err
	}
	if !res.Eligible {
		return BurnResult{}, eligibility.Reject(res)
	}

	record, err := s.store.GetRecord(ctx, prophecyID)
	if err != nil {
		return BurnResult{}, err
	}
	cost := prophecy.CostFor(method, record.ReforgeCount)

	request, err := s.store.CreateReforge(ctx, prophecy.ReforgeRequest{
		MemberID:      memberID,
		OriginalID:    prophecyID,
		PaymentMethod: method,
		Amount:        cost,
		Status:        prophecy.ReforgePending,
		RequestedAt:   s.clk.Now(),
	})
	if err != nil {
		return BurnResult{}, err
	}

	s.log.WithField("reforge_id", request.ID).
		WithField("member_id", memberID).
		WithField("cost", cost).
		Info("prophecy burn initiated")
	return BurnResult{Success: true, ReforgeID: request.ID, Cost: cost}, nil
}

// CompleteReforge settles a pending request: the original burns, a successor
// record inherits the lineage's reforge count plus one, and the request
// flips to completed. Each request settles at most once.
func (s *Service) CompleteReforge(ctx context.Context, reforgeID string) (ReforgeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, err := s.store.GetReforge(ctx, reforgeID)
	if err != nil || request.Status != prophecy.ReforgePending {
		return ReforgeResult{}, eligibility.Reject(eligibility.Deny("Reforge request not found or already processed"))
	}

	original, err := s.store.GetRecord(ctx, request.OriginalID)
	if err != nil {
		return ReforgeResult{}, fmt.Errorf("original prophecy not found: %w", err)
	}

	now := s.clk.Now()
	original.Burned = true
	original.BurnedAt = now
	if _, err := s.store.UpdateRecord(ctx, original); err != nil {
		return ReforgeResult{}, err
	}

	content, err := s.content.Reforged(ctx, request.MemberID, original.Content)
	if err != nil {
		s.log.WithError(err).WithField("reforge_id", reforgeID).Warn("content source failed, using fallback")
		content = fallbackContent
	}

	successor, err := s.store.CreateRecord(ctx, prophecy.Record{
		MemberID:     request.MemberID,
		Content:      content,
		CreatedAt:    now,
		ReforgeCount: original.ReforgeCount + 1,
	})
	if err != nil {
		return ReforgeResult{}, err
	}

	request.Status = prophecy.ReforgeCompleted
	if _, err := s.store.UpdateReforge(ctx, request); err != nil {
		return ReforgeResult{}, err
	}

	if _, err := s.events.AppendEvent(ctx, ledger.Event{
		Mechanic:  ledger.MechanicReforge,
		ActorID:   request.MemberID,
		RefID:     successor.ID,
		Amount:    float64(request.Amount),
		CreatedAt: now,
	}); err != nil {
		return ReforgeResult{}, err
	}

	if s.feed != nil {
		s.feed.Publish(feed.EventProphecyReforge,
			fmt.Sprintf("A prophecy was burned and reforged for %d %s", request.Amount, strings.ToUpper(string(request.PaymentMethod))),
			feed.UrgencyMedium, request.MemberID)
	}
	s.log.WithField("reforge_id", reforgeID).
		WithField("member_id", request.MemberID).
		WithField("reforge_count", successor.ReforgeCount).
		Info("prophecy reforged")
	return ReforgeResult{Success: true, NewRecordID: successor.ID}, nil
}

// FailReforge abandons a pending request, e.g. when the payment never
// settles. The original record is untouched and can open a new reforge
// later; a settled request cannot fail.
func (s *Service) FailReforge(ctx context.Context, reforgeID string) (prophecy.ReforgeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, err := s.store.GetReforge(ctx, reforgeID)
	if err != nil || request.Status != prophecy.ReforgePending {
		return prophecy.ReforgeRequest{}, eligibility.Reject(eligibility.Deny("Reforge request not found or already processed"))
	}

	request.Status = prophecy.ReforgeFailed
	request, err = s.store.UpdateReforge(ctx, request)
	if err != nil {
		return prophecy.ReforgeRequest{}, err
	}
	s.log.WithField("reforge_id", reforgeID).
		WithField("member_id", request.MemberID).
		Info("prophecy reforge failed")
	return request, nil
}

// ReforgeStats totals settled reforges and their revenue per currency.
func (s *Service) ReforgeStats(ctx context.Context) (prophecy.ReforgeStats, error) {
	all, err := s.store.ListReforges(ctx)
	if err != nil {
		return prophecy.ReforgeStats{}, err
	}
	var stats prophecy.ReforgeStats
	for _, r := range all {
		if r.Status != prophecy.ReforgeCompleted {
			continue
		}
		stats.TotalReforges++
		if r.PaymentMethod == prophecy.PayBonked {
			stats.RevenueBonked += r.Amount
		} else {
			stats.RevenueUSD += r.Amount
		}
	}
	return stats, nil
}
