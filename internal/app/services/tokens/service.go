// Package tokens implements physical token drops and the claim race: tiered
// drops with per-type serials, exactly-once claims, and scheduled random
// drops weighted toward the lower tiers.
package tokens

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/sanctum-collective/sanctum/internal/app/domain/eligibility"
	"github.com/sanctum-collective/sanctum/internal/app/domain/feed"
	"github.com/sanctum-collective/sanctum/internal/app/domain/ledger"
	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
	"github.com/sanctum-collective/sanctum/internal/app/domain/token"
	"github.com/sanctum-collective/sanctum/internal/app/storage"
	"github.com/sanctum-collective/sanctum/pkg/clock"
	"github.com/sanctum-collective/sanctum/pkg/logger"
)

// Service manages token drops and claims.
type Service struct {
	mu      sync.Mutex
	members storage.MemberStore
	store   storage.TokenStore
	events  storage.LedgerStore
	feed    feed.Sink
	clk     clock.Clock
	rng     func() float64
	log     *logger.Logger
}

// New constructs a tokens service. The feed sink may be nil.
func New(members storage.MemberStore, store storage.TokenStore, events storage.LedgerStore, sink feed.Sink, clk clock.Clock, log *logger.Logger) *Service {
	if clk == nil {
		clk = clock.System()
	}
	if log == nil {
		log = logger.NewDefault("tokens")
	}
	return &Service{
		members: members,
		store:   store,
		events:  events,
		feed:    sink,
		clk:     clk,
		rng:     rand.Float64,
		log:     log,
	}
}

// WithRand replaces the randomness source used by random drops. Tests use it
// to make tier and type selection deterministic.
func (s *Service) WithRand(rng func() float64) *Service {
	s.rng = rng
	return s
}

// ClaimResult reports a claim attempt.
type ClaimResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ClaimSeconds int    `json:"claim_seconds,omitempty"`
}

// CreateDrop mints a new claimable token gated at the given tier.
func (s *Service) CreateDrop(ctx context.Context, tier member.Tier, tType token.Type) (token.Drop, error) {
	if !tier.Valid() {
		return token.Drop{}, fmt.Errorf("unknown tier %q", tier)
	}
	if !tType.Valid() {
		return token.Drop{}, fmt.Errorf("unknown token type %q", tType)
	}

	serial, err := s.store.NextSerial(ctx, tType)
	if err != nil {
		return token.Drop{}, err
	}
	drop := token.Drop{
		Type:         tType,
		SerialNumber: token.SerialNumber(tType, serial),
		RequiredTier: tier,
		Status:       token.StatusAvailable,
		CreatedAt:    s.clk.Now(),
	}
	drop, err = s.store.CreateDrop(ctx, drop)
	if err != nil {
		return token.Drop{}, err
	}

	if s.feed != nil {
		s.feed.Publish(feed.EventTokenClaim,
			fmt.Sprintf("%s %s has manifested. Only %s tier may claim.", tType.DisplayName(), drop.SerialNumber, tier),
			feed.UrgencyMedium)
	}
	s.log.WithField("drop_id", drop.ID).
		WithField("serial", drop.SerialNumber).
		WithField("required_tier", string(tier)).
		Info("token drop created")
	return drop, nil
}

// AttemptClaim races for a drop. The status check and the flip to claimed
// happen under one lock, so exactly one claimant can ever win a drop; every
// later attempt sees the claimed status.
func (s *Service) AttemptClaim(ctx context.Context, dropID string, memberID int64) (ClaimResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop, err := s.store.GetDrop(ctx, dropID)
	if err != nil || drop.Status != token.StatusAvailable {
		return ClaimResult{Message: "Token no longer available"}, nil
	}

	m, err := s.members.GetMember(ctx, memberID)
	if err != nil {
		return ClaimResult{Message: "User not found"}, nil
	}
	if !m.Tier.AtLeast(drop.RequiredTier) {
		return ClaimResult{Message: fmt.Sprintf("%s tier or higher required to claim this token", drop.RequiredTier)}, nil
	}

	now := s.clk.Now()
	claimSeconds := int(now.Sub(drop.CreatedAt).Seconds())

	drop.ClaimedBy = memberID
	drop.ClaimedAt = now
	drop.ClaimSeconds = claimSeconds
	drop.Status = token.StatusClaimed
	if _, err := s.store.UpdateDrop(ctx, drop); err != nil {
		return ClaimResult{}, err
	}

	claim := token.ClaimEvent{
		MemberID:     memberID,
		DropID:       dropID,
		ClaimSeconds: claimSeconds,
		Tier:         m.Tier,
		Timestamp:    now,
	}
	if err := s.store.AppendClaim(ctx, claim); err != nil {
		return ClaimResult{}, err
	}
	if _, err := s.events.AppendEvent(ctx, ledger.Event{
		Mechanic:  ledger.MechanicTokenClaim,
		ActorID:   memberID,
		Tier:      m.Tier,
		RefID:     dropID,
		Amount:    float64(claimSeconds),
		CreatedAt: now,
	}); err != nil {
		return ClaimResult{}, err
	}

	s.broadcastClaim(drop, claim)
	return ClaimResult{
		Success:      true,
		Message:      fmt.Sprintf("%s claimed successfully!", drop.SerialNumber),
		ClaimSeconds: claimSeconds,
	}, nil
}

// MarkShipped records fulfilment of a claimed token. Only claimed drops can
// move to shipped.
func (s *Service) MarkShipped(ctx context.Context, dropID string) (token.Drop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop, err := s.store.GetDrop(ctx, dropID)
	if err != nil {
		return token.Drop{}, err
	}
	if drop.Status != token.StatusClaimed {
		return token.Drop{}, eligibility.Reject(eligibility.Deny("Only claimed tokens can be shipped"))
	}

	drop.Status = token.StatusShipped
	drop, err = s.store.UpdateDrop(ctx, drop)
	if err != nil {
		return token.Drop{}, err
	}
	s.log.WithField("drop_id", drop.ID).
		WithField("serial", drop.SerialNumber).
		Info("token shipped")
	return drop, nil
}

// AvailableTokens lists unclaimed drops the member's tier can reach.
func (s *Service) AvailableTokens(ctx context.Context, tier member.Tier) ([]token.Drop, error) {
	all, err := s.store.ListDrops(ctx)
	if err != nil {
		return nil, err
	}
	var out []token.Drop
	for _, d := range all {
		if d.Status == token.StatusAvailable && tier.AtLeast(d.RequiredTier) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// RecentClaims returns the newest claim events, capped at limit.
func (s *Service) RecentClaims(ctx context.Context, limit int) ([]token.ClaimEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	claims, err := s.store.ListClaims(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(claims, func(i, j int) bool { return claims[i].Timestamp.After(claims[j].Timestamp) })
	if len(claims) > limit {
		claims = claims[:limit]
	}
	return claims, nil
}

// ScheduleRandomDrop mints a drop with a random tier and type. Tier weights
// skew toward herald (50/30/20) so the rarer tiers stay rare. Runs from the
// scheduler.
func (s *Service) ScheduleRandomDrop(ctx context.Context) (token.Drop, error) {
	tiers := []member.Tier{member.TierHerald, member.TierOracle, member.TierShadow}
	weights := []float64{0.5, 0.3, 0.2}

	roll := s.rng()
	tier := tiers[0]
	sum := 0.0
	for i, w := range weights {
		sum += w
		if roll <= sum {
			tier = tiers[i]
			break
		}
	}

	types := []token.Type{token.TypeCoin, token.TypeSigil, token.TypeScroll}
	tType := types[int(s.rng()*float64(len(types)))%len(types)]

	return s.CreateDrop(ctx, tier, tType)
}

func (s *Service) broadcastClaim(drop token.Drop, claim token.ClaimEvent) {
	if s.feed == nil {
		return
	}
	timeDisplay := fmt.Sprintf("%dsec", claim.ClaimSeconds)
	if claim.ClaimSeconds >= 60 {
		timeDisplay = fmt.Sprintf("%dmin", claim.ClaimSeconds/60)
	}
	text := fmt.Sprintf("%s %03d claimed %s %s in %s",
		strings.ToUpper(string(claim.Tier)), claim.MemberID%1000,
		drop.Type.DisplayName(), drop.SerialNumber, timeDisplay)
	s.feed.Publish(feed.EventTokenClaim, text, feed.UrgencyHigh, claim.MemberID)
}
