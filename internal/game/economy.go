/*
Package game
File: economy.go
Description:
    The economy table. A single scalar level drives the energy price and a
    pair of market effects per level:
    1. "change" applies once when the level actually moves onto it.
    2. "steady" applies on every events phase the level stays put.
*/

package game

import (
	"fmt"
	"sort"
	"strings"
)

// Effect shifts market quantities by commodity tier. Goods is a price delta:
// a positive value removes goods from the market, raising their sell price.
type Effect struct {
	Raw     int `json:"raw"`
	Refined int `json:"refined"`
	Goods   int `json:"goods"`
}

// IsZero reports whether applying the effect would change nothing.
func (e Effect) IsZero() bool { return e == Effect{} }

func (e Effect) String() string {
	var parts []string
	add := func(name string, v int) {
		if v > 0 {
			parts = append(parts, fmt.Sprintf("%s +%d", name, v))
		} else if v < 0 {
			parts = append(parts, fmt.Sprintf("%s %d", name, v))
		}
	}
	add("Raw", e.Raw)
	add("Refined", e.Refined)
	add("Goods price", e.Goods)
	return strings.Join(parts, ", ")
}

// Apply shifts every market in the map according to its commodity tier.
func (e Effect) Apply(markets map[Commodity]*Market) {
	for c, m := range markets {
		switch c.Category() {
		case CategoryRaw:
			m.Adjust(e.Raw)
		case CategoryRefined:
			m.Adjust(e.Refined)
		case CategoryFinished:
			m.Adjust(-e.Goods)
		}
	}
}

// EconomyLevel is one row of the economy table.
type EconomyLevel struct {
	Level           int    `json:"level"`
	EnergyPrice     int    `json:"energy_price"`
	EnergySellPrice int    `json:"energy_sell_price"`
	Change          Effect `json:"change"`
	Steady          Effect `json:"steady"`
}

// EconomyTable indexes levels. Levels need not be contiguous.
type EconomyTable struct {
	levels map[int]EconomyLevel
	order  []int
	start  int
}

// NewEconomyTable validates the levels and the starting level.
func NewEconomyTable(levels []EconomyLevel, start int) (*EconomyTable, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("economy table is empty")
	}

	t := &EconomyTable{levels: make(map[int]EconomyLevel, len(levels)), start: start}
	for _, l := range levels {
		if _, dup := t.levels[l.Level]; dup {
			return nil, fmt.Errorf("duplicate economy level %d", l.Level)
		}
		if l.EnergyPrice <= 0 {
			return nil, fmt.Errorf("economy level %d: energy price must be positive", l.Level)
		}
		if l.EnergySellPrice == 0 {
			l.EnergySellPrice = l.EnergyPrice / 2
		}
		if l.EnergySellPrice < 0 || l.EnergySellPrice > l.EnergyPrice {
			return nil, fmt.Errorf("economy level %d: energy sell price %d outside 0..%d", l.Level, l.EnergySellPrice, l.EnergyPrice)
		}
		t.levels[l.Level] = l
		t.order = append(t.order, l.Level)
	}
	sort.Ints(t.order)

	if _, ok := t.levels[start]; !ok {
		return nil, fmt.Errorf("start level %d is not defined", start)
	}
	return t, nil
}

func (t *EconomyTable) Min() int   { return t.order[0] }
func (t *EconomyTable) Max() int   { return t.order[len(t.order)-1] }
func (t *EconomyTable) Start() int { return t.start }

// Levels returns the defined level numbers in ascending order.
func (t *EconomyTable) Levels() []int { return append([]int(nil), t.order...) }

// Level looks up a row.
func (t *EconomyTable) Level(n int) (EconomyLevel, bool) {
	l, ok := t.levels[n]
	return l, ok
}

// Move steps delta positions through the defined levels from level from,
// stopping at either end of the table.
func (t *EconomyTable) Move(from, delta int) int {
	pos := sort.SearchInts(t.order, from)
	if pos >= len(t.order) || t.order[pos] != from {
		panicInvariant("economy", "current level %d is not in the table", from)
	}
	return t.order[clamp(pos+delta, 0, len(t.order)-1)]
}
