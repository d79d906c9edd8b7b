// Package prophecy defines prophecy records and the burn-and-reforge
// lifecycle. Reforge cost escalates along a record's lineage: each reforged
// record inherits its predecessor's count plus one, and cost compounds on
// that inherited count.
package prophecy

import (
	"math"
	"time"
)

// PaymentMethod selects the reforge currency.
type PaymentMethod string

const (
	PayUSD    PaymentMethod = "usd"
	PayBonked PaymentMethod = "bonked"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool { return m == PayUSD || m == PayBonked }

// ReforgeStatus is the two-phase reforge request state.
type ReforgeStatus string

const (
	ReforgePending   ReforgeStatus = "pending"
	ReforgeCompleted ReforgeStatus = "completed"
	ReforgeFailed    ReforgeStatus = "failed"
)

// Record is a prophecy. Burned records stay in the store; the lineage lives
// on in the successor's ReforgeCount.
type Record struct {
	ID           string    `json:"id"`
	MemberID     int64     `json:"member_id"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	Burned       bool      `json:"burned"`
	BurnedAt     time.Time `json:"burned_at,omitempty"`
	ReforgeCount int       `json:"reforge_count"`
}

// ReforgeRequest is a pending or settled burn-and-reforge.
type ReforgeRequest struct {
	ID            string        `json:"id"`
	MemberID      int64         `json:"member_id"`
	OriginalID    string        `json:"original_prophecy_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Amount        int64         `json:"amount"`
	Status        ReforgeStatus `json:"status"`
	RequestedAt   time.Time     `json:"requested_at"`
}

// ReforgeStats summarizes settled reforges.
type ReforgeStats struct {
	TotalReforges int   `json:"total_reforges"`
	RevenueUSD    int64 `json:"revenue_usd"`
	RevenueBonked int64 `json:"revenue_bonked"`
}

// MinAge is how old a record must be, from creation, before it can burn.
const MinAge = 24 * time.Hour

// BaseCost returns the first-reforge price for a payment method.
func BaseCost(m PaymentMethod) int64 {
	if m == PayBonked {
		return 90
	}
	return 9
}

// CostFor computes floor(base × 1.5ⁿ) for the nth reforge of a lineage,
// 0-indexed on the record's inherited count.
func CostFor(m PaymentMethod, reforgeCount int) int64 {
	base := float64(BaseCost(m))
	return int64(math.Floor(base * math.Pow(1.5, float64(reforgeCount))))
}
