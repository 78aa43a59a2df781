/*
Package game
File: market.go
Description:
    Tiered commodity markets. Each market holds a quantity and a fixed,
    non-decreasing price ladder. Prices are read from the sold-out end of the
    ladder: the fewer units the market holds, the more expensive the next
    unit is to buy and the more a seller receives.

    Buying lowers the market quantity, selling raises it.
*/

package game

import "fmt"

// Market is the price engine for one commodity.
type Market struct {
	commodity Commodity
	qty       int
	prices    []int
}

// NewMarket validates a market definition.
func NewMarket(c Commodity, qty int, prices []int) (*Market, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown commodity %q", c)
	}
	if c.IsVirtual() {
		return nil, fmt.Errorf("%s is virtual and cannot have a market", c)
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("%s: empty price ladder", c)
	}
	last := 0
	for i, p := range prices {
		if p < last {
			return nil, fmt.Errorf("%s: price ladder decreases at rung %d (%d < %d)", c, i, p, last)
		}
		last = p
	}
	if qty < 0 || qty > len(prices) {
		return nil, fmt.Errorf("%s: quantity %d outside 0..%d", c, qty, len(prices))
	}

	return &Market{
		commodity: c,
		qty:       qty,
		prices:    append([]int(nil), prices...),
	}, nil
}

func (m *Market) Commodity() Commodity { return m.commodity }
func (m *Market) Qty() int             { return m.qty }
func (m *Market) Capacity() int        { return len(m.prices) }

// Prices returns a copy of the ascending ladder.
func (m *Market) Prices() []int { return append([]int(nil), m.prices...) }

// rung indexes the ladder from the expensive end.
func (m *Market) rung(i int) int {
	return m.prices[len(m.prices)-1-i]
}

// BuyPrice is the cost of taking one unit out of the market. Finished goods
// are never sold by the market.
func (m *Market) BuyPrice() (int, bool) {
	if m.commodity.IsFinished() || m.qty <= 0 {
		return 0, false
	}
	if m.qty >= len(m.prices) {
		return m.prices[0], true
	}
	return m.rung(m.qty - 1), true
}

// SellPrice is what a player receives for adding one unit to the market.
func (m *Market) SellPrice() (int, bool) {
	if m.qty >= len(m.prices) {
		return 0, false
	}
	return m.rung(m.qty), true
}

// TotalPriceForBuying prices a net purchase of n units. A negative n is a
// sale and yields a negative total (money received).
func (m *Market) TotalPriceForBuying(n int) (int, bool) {
	switch {
	case n == 0:
		return 0, true
	case n > 0:
		if m.commodity.IsFinished() || n > m.qty {
			return 0, false
		}
		total := 0
		for i := 0; i < n; i++ {
			total += m.rung(m.qty - 1 - i)
		}
		return total, true
	default:
		sold := -n
		if m.qty+sold > len(m.prices) {
			return 0, false
		}
		total := 0
		for i := 0; i < sold; i++ {
			total -= m.rung(m.qty + i)
		}
		return total, true
	}
}

// Adjust shifts the quantity by delta, clamped to the ladder bounds.
// Used by events and economy effects, never by trades.
func (m *Market) Adjust(delta int) {
	m.qty = clamp(m.qty+delta, 0, len(m.prices))
}

// take applies a validated trade of n units (negative n sells).
func (m *Market) take(n int) {
	q := m.qty - n
	if q < 0 || q > len(m.prices) {
		panicInvariant("market", "%s quantity would become %d", m.commodity, q)
	}
	m.qty = q
}

// Clone copies the market so each game owns its own quantities.
func (m *Market) Clone() *Market {
	return &Market{commodity: m.commodity, qty: m.qty, prices: append([]int(nil), m.prices...)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
