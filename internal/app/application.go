// Package app assembles the mechanic services over a shared store set.
package app

import (
	"github.com/sanctum-collective/sanctum/internal/app/services/anointing"
	"github.com/sanctum-collective/sanctum/internal/app/services/leaderboard"
	"github.com/sanctum-collective/sanctum/internal/app/services/livefeed"
	membersvc "github.com/sanctum-collective/sanctum/internal/app/services/members"
	"github.com/sanctum-collective/sanctum/internal/app/services/prophecies"
	"github.com/sanctum-collective/sanctum/internal/app/services/rituals"
	"github.com/sanctum-collective/sanctum/internal/app/services/staking"
	"github.com/sanctum-collective/sanctum/internal/app/services/tokens"
	"github.com/sanctum-collective/sanctum/internal/app/storage"
	"github.com/sanctum-collective/sanctum/internal/app/storage/memory"
	"github.com/sanctum-collective/sanctum/internal/notify"
	"github.com/sanctum-collective/sanctum/pkg/clock"
	"github.com/sanctum-collective/sanctum/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Members    storage.MemberStore
	Ledger     storage.LedgerStore
	Anoints    storage.AnointStore
	Governance storage.GovernanceStore
	Rituals    storage.RitualStore
	Tokens     storage.TokenStore
	Prophecies storage.ProphecyStore
}

// Options carries optional collaborators. Nil fields get defaults: the
// system clock, a log-backed notifier, and the built-in content templates.
type Options struct {
	Clock    clock.Clock
	Notifier notify.Notifier
	Content  prophecies.ContentSource
}

// Application ties the mechanic services together.
type Application struct {
	log *logger.Logger

	Members      *membersvc.Service
	Anointing    *anointing.Service
	Staking      *staking.Service
	Rituals      *rituals.Service
	Tokens       *tokens.Service
	Prophecies   *prophecies.Service
	Leaderboards *leaderboard.Service
	Feed         *livefeed.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, opts Options, log *logger.Logger) *Application {
	if log == nil {
		log = logger.NewDefault("app")
	}
	if opts.Clock == nil {
		opts.Clock = clock.System()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NewLogNotifier(log)
	}

	mem := memory.New()
	if stores.Members == nil {
		stores.Members = mem
	}
	if stores.Ledger == nil {
		stores.Ledger = mem
	}
	if stores.Anoints == nil {
		stores.Anoints = mem
	}
	if stores.Governance == nil {
		stores.Governance = mem
	}
	if stores.Rituals == nil {
		stores.Rituals = mem
	}
	if stores.Tokens == nil {
		stores.Tokens = mem
	}
	if stores.Prophecies == nil {
		stores.Prophecies = mem
	}

	feed := livefeed.New(opts.Clock, log)

	return &Application{
		log:          log,
		Members:      membersvc.New(stores.Members, opts.Clock, log),
		Anointing:    anointing.New(stores.Members, stores.Anoints, stores.Ledger, feed, opts.Clock, log),
		Staking:      staking.New(stores.Members, stores.Governance, stores.Ledger, feed, opts.Clock, log),
		Rituals:      rituals.New(stores.Members, stores.Rituals, stores.Ledger, opts.Notifier, feed, opts.Clock, log),
		Tokens:       tokens.New(stores.Members, stores.Tokens, stores.Ledger, feed, opts.Clock, log),
		Prophecies:   prophecies.New(stores.Members, stores.Prophecies, stores.Ledger, opts.Content, feed, opts.Clock, log),
		Leaderboards: leaderboard.New(stores.Members, stores.Anoints, stores.Governance, stores.Prophecies, opts.Clock, log),
		Feed:         feed,
	}
}
