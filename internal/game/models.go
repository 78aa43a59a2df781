/*
Package game
File: models.go
Description:
    Defines the YAML schema of the rules catalog (assets.yaml, markets.yaml,
    economy.yaml, events.yaml). These structs only mirror the files; catalog.go
    turns them into validated engine types.

    Commodity quantities are written as one-key mappings, e.g. {steel: 2}.
    An asset input is either such a mapping (fixed) or a sequence of them
    (choose one alternative).
*/

package game

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// QtyDef is a one-key mapping of commodity name to quantity.
type QtyDef struct {
	Name string
	Qty  int
}

func (q *QtyDef) UnmarshalYAML(n *yaml.Node) error {
	var m map[string]int
	if err := n.Decode(&m); err != nil {
		return fmt.Errorf("line %d: expected {commodity: qty}", n.Line)
	}
	if len(m) != 1 {
		return fmt.Errorf("line %d: expected exactly one commodity, got %d", n.Line, len(m))
	}
	for k, v := range m {
		q.Name, q.Qty = k, v
	}
	return nil
}

// InputDef is one input requirement: a mapping (fixed) or a sequence (choice).
type InputDef struct {
	Fixed   *QtyDef
	Choices []QtyDef
}

func (d *InputDef) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.MappingNode:
		var q QtyDef
		if err := n.Decode(&q); err != nil {
			return err
		}
		d.Fixed = &q
		return nil
	case yaml.SequenceNode:
		return n.Decode(&d.Choices)
	default:
		return fmt.Errorf("line %d: input must be a mapping or a list of alternatives", n.Line)
	}
}

// AssetDef is one entry of assets.yaml.
type AssetDef struct {
	ID      int        `yaml:"id"`      // Optional; defaults to position in the file
	Value   int        `yaml:"value"`   // Listed value and opening bid
	Initial int        `yaml:"initial"` // >0 places the asset at the top of the regular deck, in this order
	Output  QtyDef     `yaml:"output"`  // What one run produces
	Inputs  []InputDef `yaml:"inputs"`  // Empty for extraction assets
}

type AssetsFile struct {
	Assets []AssetDef `yaml:"assets"`
}

// MarketDef is one commodity market in markets.yaml.
type MarketDef struct {
	Qty    int   `yaml:"qty"`    // Starting quantity
	Prices []int `yaml:"prices"` // Non-decreasing ladder, cheapest first
}

type MarketsFile struct {
	Markets map[string]MarketDef `yaml:"markets"`
}

// EffectDef mirrors Effect.
type EffectDef struct {
	Raw     int `yaml:"raw"`
	Refined int `yaml:"refined"`
	Goods   int `yaml:"goods"`
}

// EconomyLevelDef is one row of economy.yaml.
type EconomyLevelDef struct {
	Level      int       `yaml:"level"`
	Energy     int       `yaml:"energy"`      // Buy price of one energy unit
	EnergySell int       `yaml:"energy_sell"` // Optional; defaults to half of energy
	Change     EffectDef `yaml:"change"`      // Applied once on arrival at this level
	Steady     EffectDef `yaml:"steady"`      // Applied every events phase spent here
}

type EconomyFile struct {
	Start  int               `yaml:"start"`
	Levels []EconomyLevelDef `yaml:"levels"`
}

// TaxDef describes a per-unit tax (negative amount) or subsidy.
type TaxDef struct {
	Per      string `yaml:"per"`      // "stockpile", "category" or "output"
	Category string `yaml:"category"` // With per: category
	Output   string `yaml:"output"`   // With per: output
	Amount   int    `yaml:"amount"`
}

// EventDef is one card of events.yaml. Exactly one effect field is set.
type EventDef struct {
	Title       string  `yaml:"title"`
	Market      *QtyDef `yaml:"market"`
	Unavailable string  `yaml:"unavailable"`
	Economy     int     `yaml:"economy"`
	Tax         *TaxDef `yaml:"tax"`
}

type EventsFile struct {
	Events []EventDef `yaml:"events"`
}
