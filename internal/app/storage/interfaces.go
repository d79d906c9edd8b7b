// Package storage declares the persistence interfaces the services depend
// on. The in-memory implementation lives in storage/memory; business logic
// never touches a concrete store type.
package storage

import (
	"context"
	"time"

	"github.com/sanctum-collective/sanctum/internal/app/domain/anoint"
	"github.com/sanctum-collective/sanctum/internal/app/domain/governance"
	"github.com/sanctum-collective/sanctum/internal/app/domain/ledger"
	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
	"github.com/sanctum-collective/sanctum/internal/app/domain/prophecy"
	"github.com/sanctum-collective/sanctum/internal/app/domain/ritual"
	"github.com/sanctum-collective/sanctum/internal/app/domain/token"
)

// MemberStore is the membership directory.
type MemberStore interface {
	CreateMember(ctx context.Context, m member.Member) (member.Member, error)
	GetMember(ctx context.Context, id int64) (member.Member, error)
	GetMemberByEmail(ctx context.Context, email string) (member.Member, error)
	GetMemberByCustomerRef(ctx context.Context, ref string) (member.Member, error)
	UpdateMember(ctx context.Context, m member.Member) (member.Member, error)
	ListMembers(ctx context.Context) ([]member.Member, error)
}

// LedgerStore is the append-only activity ledger. EventsSince is the
// windowed-query primitive every time-boxed eligibility rule builds on;
// ordering of returned events is unspecified.
type LedgerStore interface {
	AppendEvent(ctx context.Context, ev ledger.Event) (ledger.Event, error)
	QueryEvents(ctx context.Context, mechanic ledger.Mechanic, match func(ledger.Event) bool) ([]ledger.Event, error)
	EventsSince(ctx context.Context, mechanic ledger.Mechanic, actorID int64, since time.Time) ([]ledger.Event, error)
}

// AnointStore holds anointment records and per-anointer allowance status.
type AnointStore interface {
	CreateAnointment(ctx context.Context, a anoint.Anointment) (anoint.Anointment, error)
	GetAnointment(ctx context.Context, id string) (anoint.Anointment, error)
	ListAnointmentsByRecipient(ctx context.Context, memberID int64) ([]anoint.Anointment, error)
	ListAnointmentsByAnointer(ctx context.Context, memberID int64) ([]anoint.Anointment, error)
	ListAnointments(ctx context.Context) ([]anoint.Anointment, error)
	GetAnointerStatus(ctx context.Context, memberID int64) (anoint.AnointerStatus, error)
	PutAnointerStatus(ctx context.Context, st anoint.AnointerStatus) error
	ListAnointerStatuses(ctx context.Context) ([]anoint.AnointerStatus, error)
}

// GovernanceStore holds proposals and staking positions.
type GovernanceStore interface {
	CreateProposal(ctx context.Context, p governance.Proposal) (governance.Proposal, error)
	GetProposal(ctx context.Context, id string) (governance.Proposal, error)
	UpdateProposal(ctx context.Context, p governance.Proposal) (governance.Proposal, error)
	ListProposals(ctx context.Context) ([]governance.Proposal, error)
	PutStakingPosition(ctx context.Context, pos governance.StakingPosition) error
	GetStakingPosition(ctx context.Context, memberID int64) (governance.StakingPosition, error)
	ListStakingPositions(ctx context.Context) ([]governance.StakingPosition, error)
}

// RitualStore holds scarcity proposals.
type RitualStore interface {
	CreateRitual(ctx context.Context, p ritual.Proposal) (ritual.Proposal, error)
	GetRitual(ctx context.Context, id string) (ritual.Proposal, error)
	UpdateRitual(ctx context.Context, p ritual.Proposal) (ritual.Proposal, error)
	ListRituals(ctx context.Context) ([]ritual.Proposal, error)
}

// TokenStore holds token drops and claim events.
type TokenStore interface {
	CreateDrop(ctx context.Context, d token.Drop) (token.Drop, error)
	GetDrop(ctx context.Context, id string) (token.Drop, error)
	UpdateDrop(ctx context.Context, d token.Drop) (token.Drop, error)
	ListDrops(ctx context.Context) ([]token.Drop, error)
	NextSerial(ctx context.Context, t token.Type) (int, error)
	AppendClaim(ctx context.Context, c token.ClaimEvent) error
	ListClaims(ctx context.Context) ([]token.ClaimEvent, error)
}

// ProphecyStore holds prophecy records and reforge requests.
type ProphecyStore interface {
	CreateRecord(ctx context.Context, r prophecy.Record) (prophecy.Record, error)
	GetRecord(ctx context.Context, id string) (prophecy.Record, error)
	UpdateRecord(ctx context.Context, r prophecy.Record) (prophecy.Record, error)
	ListRecordsByMember(ctx context.Context, memberID int64) ([]prophecy.Record, error)
	CreateReforge(ctx context.Context, req prophecy.ReforgeRequest) (prophecy.ReforgeRequest, error)
	GetReforge(ctx context.Context, id string) (prophecy.ReforgeRequest, error)
	UpdateReforge(ctx context.Context, req prophecy.ReforgeRequest) (prophecy.ReforgeRequest, error)
	ListReforges(ctx context.Context) ([]prophecy.ReforgeRequest, error)
}
