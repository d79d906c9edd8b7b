// Package memory provides an in-memory implementation of the storage
// interfaces. It is safe for concurrent use and is primarily intended for
// tests and local development.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sanctum-collective/sanctum/internal/app/domain/anoint"
	"github.com/sanctum-collective/sanctum/internal/app/domain/governance"
	"github.com/sanctum-collective/sanctum/internal/app/domain/ledger"
	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
	"github.com/sanctum-collective/sanctum/internal/app/domain/prophecy"
	"github.com/sanctum-collective/sanctum/internal/app/domain/ritual"
	"github.com/sanctum-collective/sanctum/internal/app/domain/token"
	"github.com/sanctum-collective/sanctum/internal/app/storage"
)

// Store is an in-memory implementation of every storage interface.
type Store struct {
	mu             sync.RWMutex
	nextMemberID   int64
	members        map[int64]member.Member
	membersByEmail map[string]int64
	membersByRef   map[string]int64
	events         []ledger.Event
	anointments    map[string]anoint.Anointment
	anointStatuses map[int64]anoint.AnointerStatus
	proposals      map[string]governance.Proposal
	positions      map[int64]governance.StakingPosition
	rituals        map[string]ritual.Proposal
	drops          map[string]token.Drop
	serials        map[token.Type]int
	claims         []token.ClaimEvent
	prophecies     map[string]prophecy.Record
	reforges       map[string]prophecy.ReforgeRequest
}

var _ storage.MemberStore = (*Store)(nil)
var _ storage.LedgerStore = (*Store)(nil)
var _ storage.AnointStore = (*Store)(nil)
var _ storage.GovernanceStore = (*Store)(nil)
var _ storage.RitualStore = (*Store)(nil)
var _ storage.TokenStore = (*Store)(nil)
var _ storage.ProphecyStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextMemberID:   1,
		members:        make(map[int64]member.Member),
		membersByEmail: make(map[string]int64),
		membersByRef:   make(map[string]int64),
		anointments:    make(map[string]anoint.Anointment),
		anointStatuses: make(map[int64]anoint.AnointerStatus),
		proposals:      make(map[string]governance.Proposal),
		positions:      make(map[int64]governance.StakingPosition),
		rituals:        make(map[string]ritual.Proposal),
		drops:          make(map[string]token.Drop),
		serials:        make(map[token.Type]int),
		prophecies:     make(map[string]prophecy.Record),
		reforges:       make(map[string]prophecy.ReforgeRequest),
	}
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// MemberStore implementation --------------------------------------------------

func (s *Store) CreateMember(_ context.Context, m member.Member) (member.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(m.Email))
	if email == "" {
		return member.Member{}, fmt.Errorf("member email is required")
	}
	if _, exists := s.membersByEmail[email]; exists {
		return member.Member{}, fmt.Errorf("member %s already exists", email)
	}

	if m.ID == 0 {
		m.ID = s.nextMemberID
		s.nextMemberID++
	} else if _, exists := s.members[m.ID]; exists {
		return member.Member{}, fmt.Errorf("member %d already exists", m.ID)
	} else if m.ID >= s.nextMemberID {
		s.nextMemberID = m.ID + 1
	}

	now := time.Now().UTC()
	m.Email = email
	m.CreatedAt = now
	m.UpdatedAt = now

	s.members[m.ID] = m
	s.membersByEmail[email] = m.ID
	if m.CustomerRef != "" {
		s.membersByRef[m.CustomerRef] = m.ID
	}
	return m, nil
}

func (s *Store) GetMember(_ context.Context, id int64) (member.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[id]
	if !ok {
		return member.Member{}, fmt.Errorf("member %d not found", id)
	}
	return m, nil
}

func (s *Store) GetMemberByEmail(_ context.Context, email string) (member.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.membersByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return member.Member{}, fmt.Errorf("member %s not found", email)
	}
	return s.members[id], nil
}

func (s *Store) GetMemberByCustomerRef(_ context.Context, ref string) (member.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.membersByRef[ref]
	if !ok {
		return member.Member{}, fmt.Errorf("member %s not found", ref)
	}
	return s.members[id], nil
}

func (s *Store) UpdateMember(_ context.Context, m member.Member) (member.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.members[m.ID]
	if !ok {
		return member.Member{}, fmt.Errorf("member %d not found", m.ID)
	}

	m.Email = original.Email
	m.CreatedAt = original.CreatedAt
	m.UpdatedAt = time.Now().UTC()

	if original.CustomerRef != m.CustomerRef {
		if original.CustomerRef != "" {
			delete(s.membersByRef, original.CustomerRef)
		}
		if m.CustomerRef != "" {
			s.membersByRef[m.CustomerRef] = m.ID
		}
	}

	s.members[m.ID] = m
	return m, nil
}

func (s *Store) ListMembers(_ context.Context) ([]member.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]member.Member, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m)
	}
	return out, nil
}

// LedgerStore implementation --------------------------------------------------

func (s *Store) AppendEvent(_ context.Context, ev ledger.Event) (ledger.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.ID = newID(ev.ID)
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	s.events = append(s.events, ev)
	return ev, nil
}

func (s *Store) QueryEvents(_ context.Context, mechanic ledger.Mechanic, match func(ledger.Event) bool) ([]ledger.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ledger.Event
	for _, ev := range s.events {
		if mechanic != "" && ev.Mechanic != mechanic {
			continue
		}
		if match != nil && !match(ev) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *Store) EventsSince(_ context.Context, mechanic ledger.Mechanic, actorID int64, since time.Time) ([]ledger.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ledger.Event
	for _, ev := range s.events {
		if mechanic != "" && ev.Mechanic != mechanic {
			continue
		}
		if actorID != 0 && ev.ActorID != actorID {
			continue
		}
		if ev.CreatedAt.Before(since) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// AnointStore implementation --------------------------------------------------

func (s *Store) CreateAnointment(_ context.Context, a anoint.Anointment) (anoint.Anointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = newID(a.ID)
	if _, exists := s.anointments[a.ID]; exists {
		return anoint.Anointment{}, fmt.Errorf("anointment %s already exists", a.ID)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	s.anointments[a.ID] = a
	return a, nil
}

func (s *Store) GetAnointment(_ context.Context, id string) (anoint.Anointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.anointments[id]
	if !ok {
		return anoint.Anointment{}, fmt.Errorf("anointment %s not found", id)
	}
	return a, nil
}

func (s *Store) ListAnointmentsByRecipient(_ context.Context, memberID int64) ([]anoint.Anointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []anoint.Anointment
	for _, a := range s.anointments {
		if a.RecipientID == memberID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) ListAnointmentsByAnointer(_ context.Context, memberID int64) ([]anoint.Anointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []anoint.Anointment
	for _, a := range s.anointments {
		if a.AnointerID == memberID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) ListAnointments(_ context.Context) ([]anoint.Anointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]anoint.Anointment, 0, len(s.anointments))
	for _, a := range s.anointments {
		out = append(out, a)
	}
	return out, nil
}

func (s *Store) GetAnointerStatus(_ context.Context, memberID int64) (anoint.AnointerStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.anointStatuses[memberID]
	if !ok {
		return anoint.AnointerStatus{}, fmt.Errorf("anointer status %d not found", memberID)
	}
	return st, nil
}

func (s *Store) PutAnointerStatus(_ context.Context, st anoint.AnointerStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.anointStatuses[st.MemberID] = st
	return nil
}

func (s *Store) ListAnointerStatuses(_ context.Context) ([]anoint.AnointerStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]anoint.AnointerStatus, 0, len(s.anointStatuses))
	for _, st := range s.anointStatuses {
		out = append(out, st)
	}
	return out, nil
}

// GovernanceStore implementation ----------------------------------------------

func (s *Store) CreateProposal(_ context.Context, p governance.Proposal) (governance.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = newID(p.ID)
	if _, exists := s.proposals[p.ID]; exists {
		return governance.Proposal{}, fmt.Errorf("proposal %s already exists", p.ID)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.Votes = cloneVotes(p.Votes)

	s.proposals[p.ID] = p
	return cloneProposal(p), nil
}

func (s *Store) GetProposal(_ context.Context, id string) (governance.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.proposals[id]
	if !ok {
		return governance.Proposal{}, fmt.Errorf("proposal %s not found", id)
	}
	return cloneProposal(p), nil
}

func (s *Store) UpdateProposal(_ context.Context, p governance.Proposal) (governance.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.proposals[p.ID]
	if !ok {
		return governance.Proposal{}, fmt.Errorf("proposal %s not found", p.ID)
	}

	p.CreatedAt = original.CreatedAt
	p.Votes = cloneVotes(p.Votes)

	s.proposals[p.ID] = p
	return cloneProposal(p), nil
}

func (s *Store) ListProposals(_ context.Context) ([]governance.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]governance.Proposal, 0, len(s.proposals))
	for _, p := range s.proposals {
		out = append(out, cloneProposal(p))
	}
	return out, nil
}

func (s *Store) PutStakingPosition(_ context.Context, pos governance.StakingPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.positions[pos.MemberID] = pos
	return nil
}

func (s *Store) GetStakingPosition(_ context.Context, memberID int64) (governance.StakingPosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.positions[memberID]
	if !ok {
		return governance.StakingPosition{}, fmt.Errorf("staking position %d not found", memberID)
	}
	return pos, nil
}

func (s *Store) ListStakingPositions(_ context.Context) ([]governance.StakingPosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]governance.StakingPosition, 0, len(s.positions))
	for _, pos := range s.positions {
		out = append(out, pos)
	}
	return out, nil
}

// RitualStore implementation --------------------------------------------------

func (s *Store) CreateRitual(_ context.Context, p ritual.Proposal) (ritual.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = newID(p.ID)
	if _, exists := s.rituals[p.ID]; exists {
		return ritual.Proposal{}, fmt.Errorf("ritual %s already exists", p.ID)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.Voters = cloneInt64s(p.Voters)

	s.rituals[p.ID] = p
	return cloneRitual(p), nil
}

func (s *Store) GetRitual(_ context.Context, id string) (ritual.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.rituals[id]
	if !ok {
		return ritual.Proposal{}, fmt.Errorf("ritual %s not found", id)
	}
	return cloneRitual(p), nil
}

func (s *Store) UpdateRitual(_ context.Context, p ritual.Proposal) (ritual.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.rituals[p.ID]
	if !ok {
		return ritual.Proposal{}, fmt.Errorf("ritual %s not found", p.ID)
	}

	p.CreatedAt = original.CreatedAt
	p.Voters = cloneInt64s(p.Voters)

	s.rituals[p.ID] = p
	return cloneRitual(p), nil
}

func (s *Store) ListRituals(_ context.Context) ([]ritual.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ritual.Proposal, 0, len(s.rituals))
	for _, p := range s.rituals {
		out = append(out, cloneRitual(p))
	}
	return out, nil
}

// TokenStore implementation ---------------------------------------------------

func (s *Store) CreateDrop(_ context.Context, d token.Drop) (token.Drop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = newID(d.ID)
	if _, exists := s.drops[d.ID]; exists {
		return token.Drop{}, fmt.Errorf("drop %s already exists", d.ID)
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	s.drops[d.ID] = d
	return d, nil
}

func (s *Store) GetDrop(_ context.Context, id string) (token.Drop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drops[id]
	if !ok {
		return token.Drop{}, fmt.Errorf("drop %s not found", id)
	}
	return d, nil
}

func (s *Store) UpdateDrop(_ context.Context, d token.Drop) (token.Drop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.drops[d.ID]
	if !ok {
		return token.Drop{}, fmt.Errorf("drop %s not found", d.ID)
	}

	d.CreatedAt = original.CreatedAt

	s.drops[d.ID] = d
	return d, nil
}

func (s *Store) ListDrops(_ context.Context) ([]token.Drop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]token.Drop, 0, len(s.drops))
	for _, d := range s.drops {
		out = append(out, d)
	}
	return out, nil
}

func (s *Store) NextSerial(_ context.Context, t token.Type) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.serials[t]++
	return s.serials[t], nil
}

func (s *Store) AppendClaim(_ context.Context, c token.ClaimEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.claims = append(s.claims, c)
	return nil
}

func (s *Store) ListClaims(_ context.Context) ([]token.ClaimEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]token.ClaimEvent, len(s.claims))
	copy(out, s.claims)
	return out, nil
}

// ProphecyStore implementation ------------------------------------------------

func (s *Store) CreateRecord(_ context.Context, r prophecy.Record) (prophecy.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = newID(r.ID)
	if _, exists := s.prophecies[r.ID]; exists {
		return prophecy.Record{}, fmt.Errorf("prophecy %s already exists", r.ID)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	s.prophecies[r.ID] = r
	return r, nil
}

func (s *Store) GetRecord(_ context.Context, id string) (prophecy.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.prophecies[id]
	if !ok {
		return prophecy.Record{}, fmt.Errorf("prophecy %s not found", id)
	}
	return r, nil
}

func (s *Store) UpdateRecord(_ context.Context, r prophecy.Record) (prophecy.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.prophecies[r.ID]
	if !ok {
		return prophecy.Record{}, fmt.Errorf("prophecy %s not found", r.ID)
	}

	r.CreatedAt = original.CreatedAt

	s.prophecies[r.ID] = r
	return r, nil
}

func (s *Store) ListRecordsByMember(_ context.Context, memberID int64) ([]prophecy.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []prophecy.Record
	for _, r := range s.prophecies {
		if r.MemberID == memberID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) CreateReforge(_ context.Context, req prophecy.ReforgeRequest) (prophecy.ReforgeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req.ID = newID(req.ID)
	if _, exists := s.reforges[req.ID]; exists {
		return prophecy.ReforgeRequest{}, fmt.Errorf("reforge %s already exists", req.ID)
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}

	s.reforges[req.ID] = req
	return req, nil
}

func (s *Store) GetReforge(_ context.Context, id string) (prophecy.ReforgeRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.reforges[id]
	if !ok {
		return prophecy.ReforgeRequest{}, fmt.Errorf("reforge %s not found", id)
	}
	return req, nil
}

func (s *Store) UpdateReforge(_ context.Context, req prophecy.ReforgeRequest) (prophecy.ReforgeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.reforges[req.ID]
	if !ok {
		return prophecy.ReforgeRequest{}, fmt.Errorf("reforge %s not found", req.ID)
	}

	req.RequestedAt = original.RequestedAt

	s.reforges[req.ID] = req
	return req, nil
}

func (s *Store) ListReforges(_ context.Context) ([]prophecy.ReforgeRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]prophecy.ReforgeRequest, 0, len(s.reforges))
	for _, req := range s.reforges {
		out = append(out, req)
	}
	return out, nil
}

// clone helpers ---------------------------------------------------------------

func cloneInt64s(in []int64) []int64 {
	if in == nil {
		return nil
	}
	out := make([]int64, len(in))
	copy(out, in)
	return out
}

func cloneVotes(in map[int64]governance.Vote) map[int64]governance.Vote {
	if in == nil {
		return nil
	}
	out := make(map[int64]governance.Vote, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneProposal(p governance.Proposal) governance.Proposal {
	p.Votes = cloneVotes(p.Votes)
	return p
}

func cloneRitual(p ritual.Proposal) ritual.Proposal {
	p.Voters = cloneInt64s(p.Voters)
	return p
}
