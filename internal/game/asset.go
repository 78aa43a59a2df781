/*
Package game
File: asset.go
Description:
    Production recipes ("assets"). An asset turns a list of input requirements
    into one output. Its category is derived from the output commodity and is
    never stored. Assets are immutable once built by NewAsset.
*/

package game

import (
	"fmt"
	"strings"
)

// AssetCategory orders assets by tier: production < refining < manufacturing.
type AssetCategory int

const (
	Production AssetCategory = iota
	Refining
	Manufacturing
)

func (c AssetCategory) String() string {
	switch c {
	case Production:
		return "production"
	case Refining:
		return "refining"
	case Manufacturing:
		return "manufacturing"
	default:
		return "unknown"
	}
}

// ParseAssetCategory resolves "production", "refining" or "manufacturing".
func ParseAssetCategory(s string) (AssetCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production":
		return Production, nil
	case "refining":
		return Refining, nil
	case "manufacturing":
		return Manufacturing, nil
	}
	return 0, fmt.Errorf("unknown asset category %q", s)
}

// InputRequirement is one input slot of a recipe. It is either a FixedInput
// or a ChoiceInput; no other implementations exist.
type InputRequirement interface {
	fmt.Stringer
	isInputRequirement()
}

// FixedInput requires exactly this commodity and quantity.
type FixedInput CommodityQty

// ChoiceInput is satisfied by any one of its alternatives.
type ChoiceInput []CommodityQty

func (FixedInput) isInputRequirement()  {}
func (ChoiceInput) isInputRequirement() {}

func (f FixedInput) String() string { return CommodityQty(f).String() }

func (c ChoiceInput) String() string {
	parts := make([]string, len(c))
	for i, q := range c {
		parts[i] = q.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func validateInput(in InputRequirement) error {
	switch v := in.(type) {
	case FixedInput:
		if !v.Commodity.Valid() {
			return fmt.Errorf("unknown commodity %q", v.Commodity)
		}
		if v.Qty <= 0 {
			return fmt.Errorf("fixed input %s must have a positive quantity", v.Commodity)
		}
	case ChoiceInput:
		if len(v) == 0 {
			return fmt.Errorf("choice input has no alternatives")
		}
		for _, q := range v {
			if !q.Commodity.Valid() {
				return fmt.Errorf("unknown commodity %q", q.Commodity)
			}
			if q.Qty <= 0 {
				return fmt.Errorf("choice %s must have a positive quantity", q.Commodity)
			}
		}
	case nil:
		return fmt.Errorf("missing input requirement")
	default:
		return fmt.Errorf("unsupported input requirement %T", in)
	}
	return nil
}

// Asset is an immutable production recipe.
type Asset struct {
	id       int
	value    int
	initial  int
	output   CommodityQty
	inputs   []InputRequirement
	category AssetCategory
}

// NewAsset validates and builds an asset. initial <= 0 means the asset is
// shuffled into the deck instead of taking a fixed position.
func NewAsset(id, value, initial int, output CommodityQty, inputs []InputRequirement) (*Asset, error) {
	if value <= 0 {
		return nil, fmt.Errorf("asset value must be positive, got %d", value)
	}
	if !output.Commodity.Valid() {
		return nil, fmt.Errorf("output: unknown commodity %q", output.Commodity)
	}
	if output.Qty <= 0 {
		return nil, fmt.Errorf("output quantity must be positive, got %d", output.Qty)
	}

	var category AssetCategory
	switch output.Commodity.Category() {
	case CategoryRaw:
		category = Production
	case CategoryRefined:
		category = Refining
	case CategoryFinished:
		category = Manufacturing
	default:
		return nil, fmt.Errorf("output %s has no asset category", output.Commodity)
	}

	copied := make([]InputRequirement, len(inputs))
	for i, in := range inputs {
		if err := validateInput(in); err != nil {
			return nil, fmt.Errorf("inputs[%d]: %w", i, err)
		}
		if choices, ok := in.(ChoiceInput); ok {
			in = append(ChoiceInput(nil), choices...)
		}
		copied[i] = in
	}

	return &Asset{
		id:       id,
		value:    value,
		initial:  initial,
		output:   output,
		inputs:   copied,
		category: category,
	}, nil
}

func (a *Asset) ID() int                 { return a.id }
func (a *Asset) Value() int              { return a.value }
func (a *Asset) InitialOrdering() int    { return a.initial }
func (a *Asset) Output() CommodityQty    { return a.output }
func (a *Asset) Category() AssetCategory { return a.category }
func (a *Asset) HasInputs() bool         { return len(a.inputs) > 0 }

// Inputs returns a copy of the input list.
func (a *Asset) Inputs() []InputRequirement {
	out := make([]InputRequirement, len(a.inputs))
	for i, in := range a.inputs {
		if choices, ok := in.(ChoiceInput); ok {
			in = append(ChoiceInput(nil), choices...)
		}
		out[i] = in
	}
	return out
}

// CanProduce checks the stockpile against the inputs. Energy is never checked
// against the stockpile; it is summed into energy because it is bought, not
// stocked. A choice input only needs one satisfiable alternative.
func (a *Asset) CanProduce(stock Stockpile) (ok bool, energy int) {
	for _, in := range a.inputs {
		switch v := in.(type) {
		case FixedInput:
			if v.Commodity == Energy {
				energy += v.Qty
				continue
			}
			if stock.Get(v.Commodity) < v.Qty {
				return false, energy
			}
		case ChoiceInput:
			satisfied := false
			for _, q := range v {
				if stock.Get(q.Commodity) >= q.Qty {
					satisfied = true
					break
				}
			}
			if !satisfied {
				return false, energy
			}
		}
	}
	return true, energy
}

// RequiresCommodity reports whether c appears as a fixed input.
func (a *Asset) RequiresCommodity(c Commodity) bool {
	for _, in := range a.inputs {
		if f, ok := in.(FixedInput); ok && f.Commodity == c {
			return true
		}
	}
	return false
}

// InputDescription renders the inputs joined by " + ".
func (a *Asset) InputDescription() string {
	parts := make([]string, len(a.inputs))
	for i, in := range a.inputs {
		parts[i] = in.String()
	}
	return strings.Join(parts, " + ")
}

func (a *Asset) String() string {
	if len(a.inputs) == 0 {
		return fmt.Sprintf("[%d] %s", a.value, a.output)
	}
	return fmt.Sprintf("[%d] %s => %s", a.value, a.InputDescription(), a.output)
}
