// Package token defines physical token drops and the claim race over them.
package token

import (
	"fmt"
	"time"

	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
)

// Type is the kind of physical token.
type Type string

const (
	TypeCoin   Type = "coin"
	TypeSigil  Type = "sigil"
	TypeScroll Type = "scroll"
)

// Valid reports whether t is a known token type.
func (t Type) Valid() bool {
	switch t {
	case TypeCoin, TypeSigil, TypeScroll:
		return true
	}
	return false
}

// Status is the drop lifecycle state. A drop transitions available→claimed
// exactly once; shipped is a fulfilment state beyond that.
type Status string

const (
	StatusAvailable Status = "available"
	StatusClaimed   Status = "claimed"
	StatusShipped   Status = "shipped"
)

// Drop is a claimable token instance.
type Drop struct {
	ID           string      `json:"id"`
	Type         Type        `json:"token_type"`
	SerialNumber string      `json:"serial_number"`
	RequiredTier member.Tier `json:"required_tier"`
	ClaimedBy    int64       `json:"claimed_by,omitempty"`
	ClaimedAt    time.Time   `json:"claimed_at,omitempty"`
	ClaimSeconds int         `json:"claim_seconds,omitempty"`
	Status       Status      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// ClaimEvent records a successful claim and how fast it happened.
type ClaimEvent struct {
	MemberID     int64       `json:"member_id"`
	DropID       string      `json:"drop_id"`
	ClaimSeconds int         `json:"claim_seconds"`
	Tier         member.Tier `json:"tier"`
	Timestamp    time.Time   `json:"timestamp"`
}

// DisplayName returns the ceremonial name of a token type.
func (t Type) DisplayName() string {
	switch t {
	case TypeCoin:
		return "Bronze Coin"
	case TypeSigil:
		return "Obsidian Sigil"
	case TypeScroll:
		return "Sacred Scroll"
	default:
		return "Token"
	}
}

// SerialNumber formats the nth serial for a token type, e.g. HC001.
func SerialNumber(t Type, n int) string {
	prefix := "SNC"
	switch t {
	case TypeCoin:
		prefix = "HC"
	case TypeSigil:
		prefix = "OS"
	case TypeScroll:
		prefix = "SK"
	}
	return fmt.Sprintf("%s%03d", prefix, n)
}
