// Package members manages the membership directory: activation on payment
// confirmation, tier upgrades, and lookups.
package members

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
	"github.com/sanctum-collective/sanctum/internal/app/storage"
	"github.com/sanctum-collective/sanctum/pkg/clock"
	"github.com/sanctum-collective/sanctum/pkg/logger"
)

// Service manages the membership directory.
type Service struct {
	mu    sync.Mutex
	store storage.MemberStore
	clk   clock.Clock
	log   *logger.Logger
}

// New constructs a members service.
func New(store storage.MemberStore, clk clock.Clock, log *logger.Logger) *Service {
	if clk == nil {
		clk = clock.System()
	}
	if log == nil {
		log = logger.NewDefault("members")
	}
	return &Service{store: store, clk: clk, log: log}
}

// Activate handles a payment confirmation: an existing member keeps their
// record and gains the customer reference; a new email creates a member at
// the purchased tier. Activation is idempotent per email.
func (s *Service) Activate(ctx context.Context, email string, tier member.Tier, customerRef string) (member.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return member.Member{}, fmt.Errorf("email is required")
	}
	if tier == "" {
		tier = member.TierInitiate
	}
	if !tier.Valid() {
		return member.Member{}, fmt.Errorf("unknown tier %q", tier)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	if existing, err := s.store.GetMemberByEmail(ctx, email); err == nil {
		if customerRef != "" && existing.CustomerRef == "" {
			existing.CustomerRef = customerRef
		}
		existing.LastActiveAt = now
		return s.store.UpdateMember(ctx, existing)
	}

	m, err := s.store.CreateMember(ctx, member.Member{
		Email:        email,
		Tier:         tier,
		CustomerRef:  customerRef,
		StartedAt:    now,
		LastActiveAt: now,
	})
	if err != nil {
		return member.Member{}, err
	}
	s.log.WithField("member_id", m.ID).
		WithField("tier", string(m.Tier)).
		Info("member activated")
	return m, nil
}

// Get returns one member.
func (s *Service) Get(ctx context.Context, id int64) (member.Member, error) {
	return s.store.GetMember(ctx, id)
}

// GetByCustomerRef resolves a billing customer reference to a member.
func (s *Service) GetByCustomerRef(ctx context.Context, ref string) (member.Member, error) {
	return s.store.GetMemberByCustomerRef(ctx, ref)
}

// Upgrade moves a member to a higher tier. Downgrades are refused; tier only
// ever moves up through this path.
func (s *Service) Upgrade(ctx context.Context, id int64, tier member.Tier) (member.Member, error) {
	if !tier.Valid() {
		return member.Member{}, fmt.Errorf("unknown tier %q", tier)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.store.GetMember(ctx, id)
	if err != nil {
		return member.Member{}, err
	}
	if !tier.AtLeast(m.Tier) || tier == m.Tier {
		return member.Member{}, fmt.Errorf("cannot downgrade from %s to %s", m.Tier, tier)
	}

	m.Tier = tier
	m.LastActiveAt = s.clk.Now()
	m, err = s.store.UpdateMember(ctx, m)
	if err != nil {
		return member.Member{}, err
	}
	s.log.WithField("member_id", id).
		WithField("tier", string(tier)).
		Info("member upgraded")
	return m, nil
}

// TouchActivity refreshes a member's last-active timestamp.
func (s *Service) TouchActivity(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.store.GetMember(ctx, id)
	if err != nil {
		return err
	}
	m.LastActiveAt = s.clk.Now()
	_, err = s.store.UpdateMember(ctx, m)
	return err
}

// List returns the directory ordered by member id.
func (s *Service) List(ctx context.Context) ([]member.Member, error) {
	all, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}
