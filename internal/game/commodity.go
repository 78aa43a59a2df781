/*
Package game
File: commodity.go
Description:
    The fixed commodity catalog. Every tradeable good belongs to exactly one
    category (raw, refined, finished). Energy is refined but also virtual: it
    only exists inside a single production resolution and is never stockpiled.
*/

package game

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Commodity identifies a good. The string value is the key used in catalog files.
type Commodity string

const (
	Timber   Commodity = "timber"
	IronOre  Commodity = "iron_ore"
	Bauxite  Commodity = "bauxite"
	Oil      Commodity = "oil"
	Lumber   Commodity = "lumber"
	Steel    Commodity = "steel"
	Aluminum Commodity = "aluminum"
	Plastic  Commodity = "plastic"
	Energy   Commodity = "energy"
	Goods    Commodity = "goods"
)

// CommodityCategory is the production tier of a commodity.
type CommodityCategory int

const (
	CategoryRaw CommodityCategory = iota
	CategoryRefined
	CategoryFinished
)

func (c CommodityCategory) String() string {
	switch c {
	case CategoryRaw:
		return "raw"
	case CategoryRefined:
		return "refined"
	case CategoryFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// AllCommodities lists the catalog in display order (raw, refined, finished).
var AllCommodities = []Commodity{
	Timber, IronOre, Bauxite, Oil,
	Lumber, Steel, Aluminum, Plastic, Energy,
	Goods,
}

var displayNames = map[Commodity]string{
	Timber:   "Timber",
	IronOre:  "Iron Ore",
	Bauxite:  "Bauxite",
	Oil:      "Oil",
	Lumber:   "Lumber",
	Steel:    "Steel",
	Aluminum: "Aluminum",
	Plastic:  "Plastic",
	Energy:   "Energy",
	Goods:    "Goods",
}

// Valid reports whether c is one of the ten catalog commodities.
func (c Commodity) Valid() bool {
	_, ok := displayNames[c]
	return ok
}

// DisplayName returns the human readable name ("Iron Ore").
func (c Commodity) DisplayName() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return string(c)
}

// Category returns the tier of the commodity. Unknown values report CategoryRaw;
// callers validate with Valid first.
func (c Commodity) Category() CommodityCategory {
	switch c {
	case Lumber, Steel, Aluminum, Plastic, Energy:
		return CategoryRefined
	case Goods:
		return CategoryFinished
	default:
		return CategoryRaw
	}
}

func (c Commodity) IsRaw() bool      { return c.Valid() && c.Category() == CategoryRaw }
func (c Commodity) IsRefined() bool  { return c.Category() == CategoryRefined }
func (c Commodity) IsFinished() bool { return c.Category() == CategoryFinished }

// IsVirtual is true for energy only.
func (c Commodity) IsVirtual() bool { return c == Energy }

// ParseCommodity resolves a catalog name. It accepts the key ("iron_ore"), the
// display name ("Iron Ore") and camel case ("ironOre"), ignoring case.
func ParseCommodity(name string) (Commodity, error) {
	norm := normaliseCommodityName(name)
	for _, c := range AllCommodities {
		if normaliseCommodityName(string(c)) == norm {
			return c, nil
		}
	}

	if suggestion, ok := closestCommodity(norm); ok {
		return "", fmt.Errorf("unknown commodity %q (did you mean %q?)", name, suggestion)
	}
	return "", fmt.Errorf("unknown commodity %q", name)
}

func normaliseCommodityName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if r == ' ' || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// closestCommodity returns the nearest catalog key within a small edit distance.
func closestCommodity(norm string) (Commodity, bool) {
	if norm == "" {
		return "", false
	}
	best := Commodity("")
	bestDist := 3
	for _, c := range AllCommodities {
		d := levenshtein.ComputeDistance(norm, normaliseCommodityName(string(c)))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, best != ""
}

// CommodityQty is an immutable (commodity, quantity) pair.
type CommodityQty struct {
	Commodity Commodity `json:"commodity"`
	Qty       int       `json:"qty"`
}

func (q CommodityQty) String() string {
	return fmt.Sprintf("%s(%d)", q.Commodity.DisplayName(), q.Qty)
}

// Stockpile maps commodities to owned quantities. Zero entries are removed.
type Stockpile map[Commodity]int

// Get returns the quantity held, zero when absent.
func (s Stockpile) Get(c Commodity) int {
	return s[c]
}

// Add changes the held quantity by delta. A negative result is an invariant
// violation: callers must check availability first.
func (s Stockpile) Add(c Commodity, delta int) {
	n := s[c] + delta
	switch {
	case n < 0:
		panicInvariant("stockpile", "%s would drop to %d", c, n)
	case n == 0:
		delete(s, c)
	default:
		s[c] = n
	}
}

// Clone returns an independent copy without zero entries.
func (s Stockpile) Clone() Stockpile {
	out := make(Stockpile, len(s))
	for c, n := range s {
		if n != 0 {
			out[c] = n
		}
	}
	return out
}

// Total is the number of units held across all commodities.
func (s Stockpile) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// String renders the stockpile in catalog order ("Lumber:1, Goods:2").
func (s Stockpile) String() string {
	parts := make([]string, 0, len(s))
	for _, c := range AllCommodities {
		if n := s[c]; n != 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", c.DisplayName(), n))
		}
	}
	return strings.Join(parts, ", ")
}
