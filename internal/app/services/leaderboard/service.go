// Package leaderboard computes ranked projections over the mechanic stores.
// Boards are recomputed from current state on every read; ranks are the
// 1-based position in score-descending order.
package leaderboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
	"github.com/sanctum-collective/sanctum/internal/app/domain/prophecy"
	"github.com/sanctum-collective/sanctum/internal/app/storage"
	"github.com/sanctum-collective/sanctum/pkg/clock"
	"github.com/sanctum-collective/sanctum/pkg/logger"
)

// Category names a leaderboard.
type Category string

const (
	CategoryMostAnointed Category = "most_anointed"
	CategoryMostReforged Category = "most_reforged"
	CategoryMostStaked   Category = "most_staked"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryMostAnointed, CategoryMostReforged, CategoryMostStaked:
		return true
	}
	return false
}

// Entry is one ranked row.
type Entry struct {
	MemberID     int64       `json:"member_id"`
	Tier         member.Tier `json:"tier"`
	Score        int64       `json:"score"`
	Rank         int         `json:"rank"`
	DisplayValue string      `json:"display_value"`
	LastActivity time.Time   `json:"last_activity,omitempty"`
}

// Service computes leaderboards.
type Service struct {
	members    storage.MemberStore
	anoints    storage.AnointStore
	governance storage.GovernanceStore
	prophecies storage.ProphecyStore
	clk        clock.Clock
	log        *logger.Logger
	topN       int
}

// New constructs a leaderboard service.
func New(members storage.MemberStore, anoints storage.AnointStore, governance storage.GovernanceStore, prophecies storage.ProphecyStore, clk clock.Clock, log *logger.Logger) *Service {
	if clk == nil {
		clk = clock.System()
	}
	if log == nil {
		log = logger.NewDefault("leaderboard")
	}
	return &Service{
		members:    members,
		anoints:    anoints,
		governance: governance,
		prophecies: prophecies,
		clk:        clk,
		log:        log,
		topN:       10,
	}
}

// Board computes the named leaderboard.
func (s *Service) Board(ctx context.Context, category Category) ([]Entry, error) {
	switch category {
	case CategoryMostAnointed:
		return s.mostAnointed(ctx)
	case CategoryMostReforged:
		return s.mostReforged(ctx)
	case CategoryMostStaked:
		return s.mostStaked(ctx)
	default:
		return nil, fmt.Errorf("unknown leaderboard category %q", category)
	}
}

// Refresh recomputes every board once. The boards are stateless, so this
// exists purely to surface computation errors on a schedule.
func (s *Service) Refresh(ctx context.Context) error {
	for _, c := range []Category{CategoryMostAnointed, CategoryMostReforged, CategoryMostStaked} {
		if _, err := s.Board(ctx, c); err != nil {
			return fmt.Errorf("refresh %s: %w", c, err)
		}
	}
	s.log.Debug("leaderboards refreshed")
	return nil
}

func (s *Service) mostAnointed(ctx context.Context) ([]Entry, error) {
	all, err := s.anoints.ListAnointments(ctx)
	if err != nil {
		return nil, err
	}
	scores := map[int64]*Entry{}
	for _, a := range all {
		e, ok := scores[a.RecipientID]
		if !ok {
			e = &Entry{MemberID: a.RecipientID, Tier: a.RecipientTier}
			scores[a.RecipientID] = e
		}
		e.Score++
		if a.CreatedAt.After(e.LastActivity) {
			e.LastActivity = a.CreatedAt
			e.Tier = a.RecipientTier
		}
	}
	entries := collect(scores)
	for i := range entries {
		entries[i].DisplayValue = fmt.Sprintf("%d anointments", entries[i].Score)
	}
	return s.rank(entries), nil
}

func (s *Service) mostReforged(ctx context.Context) ([]Entry, error) {
	all, err := s.prophecies.ListReforges(ctx)
	if err != nil {
		return nil, err
	}
	scores := map[int64]*Entry{}
	spentUSD := map[int64]int64{}
	for _, r := range all {
		if r.Status != prophecy.ReforgeCompleted {
			continue
		}
		e, ok := scores[r.MemberID]
		if !ok {
			e = &Entry{MemberID: r.MemberID}
			scores[r.MemberID] = e
		}
		e.Score++
		if r.PaymentMethod == prophecy.PayUSD {
			spentUSD[r.MemberID] += r.Amount
		}
		if r.RequestedAt.After(e.LastActivity) {
			e.LastActivity = r.RequestedAt
		}
	}
	entries := collect(scores)
	for i := range entries {
		entries[i].Tier = s.tierOf(ctx, entries[i].MemberID)
		entries[i].DisplayValue = fmt.Sprintf("%d reforges ($%d)", entries[i].Score, spentUSD[entries[i].MemberID])
	}
	return s.rank(entries), nil
}

func (s *Service) mostStaked(ctx context.Context) ([]Entry, error) {
	positions, err := s.governance.ListStakingPositions(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(positions))
	for _, p := range positions {
		entries = append(entries, Entry{
			MemberID:     p.MemberID,
			Tier:         p.Tier,
			Score:        p.StakedAmount,
			DisplayValue: fmt.Sprintf("%d $BONKED", p.StakedAmount),
			LastActivity: p.StakedAt,
		})
	}
	return s.rank(entries), nil
}

func (s *Service) tierOf(ctx context.Context, memberID int64) member.Tier {
	m, err := s.members.GetMember(ctx, memberID)
	if err != nil {
		return ""
	}
	return m.Tier
}

func collect(scores map[int64]*Entry) []Entry {
	entries := make([]Entry, 0, len(scores))
	for _, e := range scores {
		entries = append(entries, *e)
	}
	return entries
}

// rank sorts score-descending (member id breaks ties for a stable order)
// and assigns 1-based ranks, keeping the top N.
func (s *Service) rank(entries []Entry) []Entry {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].MemberID < entries[j].MemberID
	})
	if len(entries) > s.topN {
		entries = entries[:s.topN]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
