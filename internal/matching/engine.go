package matching

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// tolerance absorbs floating rounding on every quantity-against-zero
// comparison: balance tracking, remaining-quantity tracking and the
// queue-entry-fully-closed check all use the same epsilon.
const tolerance = 1e-6

// partial wraps one queued trade with its still-unmatched quantity. Entries
// are owned exclusively by their asset's queue and are discarded once the
// remaining quantity nets to near zero.
type partial[T Leg] struct {
	trade     T
	remaining float64
}

// OpenPosition describes inventory left unmatched after a matching run.
type OpenPosition struct {
	AssetCode string
	Date      time.Time
	Quantity  float64
}

// Engine pairs opening and closing trades per asset on a first-in-first-out
// basis. Each engine owns its per-asset queues and running balances for the
// duration of a single Match call; unmatched inventory survives the call and
// can be read back through Open. Not safe for concurrent use.
type Engine[T Leg] struct {
	queues   map[string][]*partial[T]
	balances map[string]float64
	order    []string // asset keys in first-seen order, for deterministic Open output
}

// NewEngine creates an empty matching engine.
func NewEngine[T Leg]() *Engine[T] {
	return &Engine[T]{
		queues:   make(map[string][]*partial[T]),
		balances: make(map[string]float64),
	}
}

// Match processes trades in a single global chronological order and returns
// the matched lots in processing order. Older inventory is always consumed
// before newer inventory within an asset. Quantity left open by the stream
// is not an error; it is retained and reported by Open.
func (e *Engine[T]) Match(trades []T) ([]Lot[T], error) {
	sorted := make([]T, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MatchDate().Before(sorted[j].MatchDate())
	})

	var lots []Lot[T]
	for _, trade := range sorted {
		matched, err := e.process(trade)
		if err != nil {
			return nil, fmt.Errorf("match %s at %s: %w",
				trade.MatchKey(), trade.MatchDate().Format("2006-01-02"), err)
		}
		lots = append(lots, matched...)
	}

	return lots, nil
}

// process nets one trade against the asset's opposing inventory, oldest
// first, and queues whatever quantity is left.
func (e *Engine[T]) process(trade T) ([]Lot[T], error) {
	key := trade.MatchKey()
	if _, seen := e.balances[key]; !seen {
		e.order = append(e.order, key)
	}

	remaining := trade.SignedQuantity()
	balance := e.balances[key]

	var lots []Lot[T]
	switch {
	case remaining > tolerance && balance < -tolerance:
		// Buy covering an open short: consume queued sells oldest first.
		for _, p := range e.queues[key] {
			if balance >= -tolerance || remaining <= tolerance {
				break
			}
			if p.remaining >= -tolerance {
				continue
			}
			closed := min3(remaining, -p.remaining, -balance)
			balance += closed
			p.remaining += closed
			remaining -= closed

			lot, err := NewLot(trade, p.trade, closed)
			if err != nil {
				return nil, err
			}
			lots = append(lots, lot)
		}
		balance += remaining

	case remaining < -tolerance && balance > tolerance:
		// Sell closing a long: consume queued buys oldest first.
		for _, p := range e.queues[key] {
			if balance <= tolerance || remaining >= -tolerance {
				break
			}
			if p.remaining <= tolerance {
				continue
			}
			closed := min3(-remaining, p.remaining, balance)
			balance -= closed
			p.remaining -= closed
			remaining += closed

			lot, err := NewLot(p.trade, trade, closed)
			if err != nil {
				return nil, err
			}
			lots = append(lots, lot)
		}
		balance += remaining

	default:
		// No opposing exposure: the trade only accumulates.
		balance += remaining
	}

	e.balances[key] = balance
	e.compact(key)

	if math.Abs(remaining) > tolerance {
		e.queues[key] = append(e.queues[key], &partial[T]{trade: trade, remaining: remaining})
	}

	MatchedLotsTotal.Add(float64(len(lots)))
	return lots, nil
}

// compact drops fully closed queue entries while preserving insertion order.
func (e *Engine[T]) compact(key string) {
	q := e.queues[key]
	kept := q[:0]
	for _, p := range q {
		if math.Abs(p.remaining) > tolerance {
			kept = append(kept, p)
		}
	}
	e.queues[key] = kept
}

// Open returns the inventory left unmatched by previous Match calls, per
// asset in first-seen order and within an asset in insertion order.
func (e *Engine[T]) Open() []OpenPosition {
	var open []OpenPosition
	for _, key := range e.order {
		for _, p := range e.queues[key] {
			open = append(open, OpenPosition{
				AssetCode: key,
				Date:      p.trade.MatchDate(),
				Quantity:  p.remaining,
			})
		}
	}
	return open
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}
