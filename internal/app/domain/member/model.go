// Package member defines the membership directory model. Tier is the ordered
// rank every mechanic gates on; rank comparison lives here and nowhere else.
package member

import (
	"fmt"
	"strings"
	"time"
)

// Tier is one of four ranked membership levels.
type Tier string

const (
	TierInitiate Tier = "initiate"
	TierHerald   Tier = "herald"
	TierOracle   Tier = "oracle"
	TierShadow   Tier = "shadow"
)

// tierOrder is the single authoritative rank list, lowest first.
var tierOrder = []Tier{TierInitiate, TierHerald, TierOracle, TierShadow}

// Rank returns the position of the tier in the hierarchy, or -1 for an
// unknown tier.
func (t Tier) Rank() int {
	for i, tier := range tierOrder {
		if tier == t {
			return i
		}
	}
	return -1
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool { return t.Rank() >= 0 }

// AtLeast reports whether t ranks at or above other. Unknown tiers never
// satisfy any threshold.
func (t Tier) AtLeast(other Tier) bool {
	r, o := t.Rank(), other.Rank()
	return r >= 0 && o >= 0 && r >= o
}

// Next returns the tier one step above t. The top tier returns itself.
func (t Tier) Next() Tier {
	r := t.Rank()
	if r < 0 || r >= len(tierOrder)-1 {
		return t
	}
	return tierOrder[r+1]
}

// ParseTier normalizes and validates a tier string.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}

// Member is a directory entry. Created on the first payment confirmation for
// a customer reference; the tier changes only through an explicit upgrade.
type Member struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Tier         Tier      `json:"tier"`
	CustomerRef  string    `json:"customer_ref"`
	StartedAt    time.Time `json:"started_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
