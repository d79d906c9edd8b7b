// Package anoint defines the peer-to-peer anointing model: a limited,
// tier-gated grant of temporary benefits from one member to another.
package anoint

import (
	"time"

	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
)

// SigilType selects which benefit the anointer emphasizes.
type SigilType string

const (
	SigilFavor  SigilType = "favor"
	SigilWisdom SigilType = "wisdom"
	SigilPower  SigilType = "power"
)

// Valid reports whether s is a known sigil type.
func (s SigilType) Valid() bool {
	switch s {
	case SigilFavor, SigilWisdom, SigilPower:
		return true
	}
	return false
}

// Benefits is the bundle granted by a single anointment, and also the shape
// of a recipient's combined active benefits.
type Benefits struct {
	TemporaryTierBoost    member.Tier `json:"temporary_tier_boost,omitempty"`
	FreeProphecies        int         `json:"free_prophecies"`
	VoiceWhispersUnlocked bool        `json:"voice_whispers_unlocked"`
	GovernanceVotingPower float64     `json:"governance_voting_power"`
	EncounterPriority     bool        `json:"encounter_priority"`
}

// Anointment records one grant. Active anointments inside the benefit window
// contribute to the recipient's combined benefits.
type Anointment struct {
	ID            string      `json:"id"`
	AnointerID    int64       `json:"anointer_id"`
	RecipientID   int64       `json:"recipient_id"`
	AnointerTier  member.Tier `json:"anointer_tier"`
	RecipientTier member.Tier `json:"recipient_tier"`
	Sigil         SigilType   `json:"sigil_type"`
	Benefits      Benefits    `json:"benefits"`
	PublicMessage string      `json:"public_message,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	ExpiresAt     time.Time   `json:"expires_at"`
	Active        bool        `json:"active"`
}

// AnointerStatus tracks a member's monthly allowance and standing.
type AnointerStatus struct {
	MemberID       int64       `json:"member_id"`
	Tier           member.Tier `json:"tier"`
	Remaining      int         `json:"anointments_remaining"`
	LastAnointment time.Time   `json:"last_anointment,omitempty"`
	TotalAnointed  int         `json:"total_anointed"`
	Reputation     float64     `json:"reputation"`
}

const (
	// BenefitDuration is how long a single anointment's benefits last.
	BenefitDuration = 30 * 24 * time.Hour
	// PairWindow is the minimum spacing between anointments of the same
	// (anointer, recipient) pair.
	PairWindow = 7 * 24 * time.Hour
)

// MonthlyAllowance returns how many anointments a tier may bestow per month.
func MonthlyAllowance(t member.Tier) int {
	switch t {
	case member.TierOracle:
		return 1
	case member.TierShadow:
		return 3
	default:
		return 0
	}
}
