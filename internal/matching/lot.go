package matching

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Leg is the capability set the matching engine needs from a trade. Both raw
// and currency-translated trades satisfy it, so the same engine serves both
// matching passes.
type Leg interface {
	// MatchKey returns the per-asset inventory key.
	MatchKey() string

	// MatchDate returns the timestamp used for chronological ordering.
	MatchDate() time.Time

	// SignedQuantity returns the signed quantity, negative for sells.
	SignedQuantity() float64
}

// Errors reported by lot construction.
var (
	ErrSameSignLegs       = errors.New("matched lot legs must have opposite-signed quantities")
	ErrQuantityExceedsLeg = errors.New("matched quantity exceeds a leg quantity")
	ErrNonPositiveMatch   = errors.New("matched quantity must be positive")
)

// Lot pairs a buy-direction leg and a sell-direction leg with the quantity
// matched between them. For a long position the buy is the older leg; for a
// covered short the sell is. Immutable once created.
type Lot[T Leg] struct {
	Buy      T
	Sell     T
	Quantity float64
}

// NewLot validates the lot invariants: a buy-direction leg, a sell-direction
// leg, and a positive matched quantity no greater than either leg.
func NewLot[T Leg](buy, sell T, quantity float64) (Lot[T], error) {
	buyQty := buy.SignedQuantity()
	sellQty := sell.SignedQuantity()

	if buyQty*sellQty >= 0 {
		return Lot[T]{}, fmt.Errorf("%s: legs %f and %f: %w",
			buy.MatchKey(), buyQty, sellQty, ErrSameSignLegs)
	}
	if buyQty < 0 {
		// Caller passed the legs the wrong way around.
		return Lot[T]{}, fmt.Errorf("%s: buy leg has quantity %f: %w",
			buy.MatchKey(), buyQty, ErrSameSignLegs)
	}
	if quantity <= 0 {
		return Lot[T]{}, fmt.Errorf("%s: %f: %w", buy.MatchKey(), quantity, ErrNonPositiveMatch)
	}
	if quantity > buyQty+tolerance || quantity > math.Abs(sellQty)+tolerance {
		return Lot[T]{}, fmt.Errorf("%s: matched %f against legs %f/%f: %w",
			buy.MatchKey(), quantity, buyQty, sellQty, ErrQuantityExceedsLeg)
	}

	return Lot[T]{Buy: buy, Sell: sell, Quantity: quantity}, nil
}
