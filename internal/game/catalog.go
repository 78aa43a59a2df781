/*
Package game
File: catalog.go
Description:
    Loads and validates the rules catalog from YAML. Every failure wraps
    ErrInvalidCatalog and names the offending entry, e.g.
    "invalid catalog: assets.yaml: assets[4].inputs[1]: unknown commodity".
*/

package game

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog file names inside a catalog directory.
const (
	AssetsFileName  = "assets.yaml"
	MarketsFileName = "markets.yaml"
	EconomyFileName = "economy.yaml"
	EventsFileName  = "events.yaml"
)

// Catalog is the validated, immutable rule data a game is dealt from.
type Catalog struct {
	Assets  []*Asset
	Markets []*Market // one per tradeable commodity, in AllCommodities order
	Economy *EconomyTable
	Events  []Event
}

// Validate checks the cross-file requirements a game needs to start.
func (c *Catalog) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: catalog is nil", ErrInvalidCatalog)
	}
	if len(c.Assets) == 0 {
		return fmt.Errorf("%w: no assets defined", ErrInvalidCatalog)
	}
	if c.Economy == nil {
		return fmt.Errorf("%w: no economy table", ErrInvalidCatalog)
	}
	if len(c.Events) == 0 {
		return fmt.Errorf("%w: no events defined", ErrInvalidCatalog)
	}
	seen := make(map[Commodity]bool, len(c.Markets))
	for _, m := range c.Markets {
		if seen[m.Commodity()] {
			return fmt.Errorf("%w: duplicate market for %s", ErrInvalidCatalog, m.Commodity())
		}
		seen[m.Commodity()] = true
	}
	return nil
}

// decodeStrict decodes one YAML document, rejecting keys the schema does not
// define. An empty document decodes to the zero value.
func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func catalogErr(loc string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, loc, err)
}

// LoadCatalog reads the four catalog files from dir.
func LoadCatalog(dir string) (*Catalog, error) {
	read := func(name string) ([]byte, error) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		return data, nil
	}

	var (
		cat Catalog
		err error
	)

	// 1. Assets
	data, err := read(AssetsFileName)
	if err != nil {
		return nil, err
	}
	if cat.Assets, err = ParseAssets(data); err != nil {
		return nil, err
	}

	// 2. Markets
	if data, err = read(MarketsFileName); err != nil {
		return nil, err
	}
	if cat.Markets, err = ParseMarkets(data); err != nil {
		return nil, err
	}

	// 3. Economy
	if data, err = read(EconomyFileName); err != nil {
		return nil, err
	}
	if cat.Economy, err = ParseEconomy(data); err != nil {
		return nil, err
	}

	// 4. Events
	if data, err = read(EventsFileName); err != nil {
		return nil, err
	}
	if cat.Events, err = ParseEvents(data); err != nil {
		return nil, err
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (q QtyDef) resolve() (CommodityQty, error) {
	c, err := ParseCommodity(q.Name)
	if err != nil {
		return CommodityQty{}, err
	}
	return CommodityQty{Commodity: c, Qty: q.Qty}, nil
}

func (d InputDef) resolve() (InputRequirement, error) {
	if d.Fixed != nil {
		q, err := d.Fixed.resolve()
		if err != nil {
			return nil, err
		}
		return FixedInput(q), nil
	}
	if len(d.Choices) == 0 {
		return nil, errors.New("choice input has no alternatives")
	}
	choices := make(ChoiceInput, 0, len(d.Choices))
	for i, alt := range d.Choices {
		q, err := alt.resolve()
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		choices = append(choices, q)
	}
	return choices, nil
}

// ParseAssets decodes assets.yaml.
func ParseAssets(data []byte) ([]*Asset, error) {
	var f AssetsFile
	if err := decodeStrict(data, &f); err != nil {
		return nil, catalogErr(AssetsFileName, err)
	}
	if len(f.Assets) == 0 {
		return nil, catalogErr(AssetsFileName, errors.New("no assets"))
	}

	ids := make(map[int]bool, len(f.Assets))
	out := make([]*Asset, 0, len(f.Assets))
	for i, def := range f.Assets {
		loc := fmt.Sprintf("%s: assets[%d]", AssetsFileName, i)

		id := def.ID
		if id == 0 {
			id = i + 1
		}
		if ids[id] {
			return nil, catalogErr(loc, fmt.Errorf("duplicate id %d", id))
		}
		ids[id] = true

		output, err := def.Output.resolve()
		if err != nil {
			return nil, catalogErr(loc+".output", err)
		}
		inputs := make([]InputRequirement, 0, len(def.Inputs))
		for j, in := range def.Inputs {
			req, err := in.resolve()
			if err != nil {
				return nil, catalogErr(fmt.Sprintf("%s.inputs[%d]", loc, j), err)
			}
			inputs = append(inputs, req)
		}

		a, err := NewAsset(id, def.Value, def.Initial, output, inputs)
		if err != nil {
			return nil, catalogErr(loc, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// ParseMarkets decodes markets.yaml. Energy has no market.
func ParseMarkets(data []byte) ([]*Market, error) {
	var f MarketsFile
	if err := decodeStrict(data, &f); err != nil {
		return nil, catalogErr(MarketsFileName, err)
	}

	byCommodity := make(map[Commodity]*Market, len(f.Markets))
	for name, def := range f.Markets {
		loc := fmt.Sprintf("%s: markets.%s", MarketsFileName, name)
		c, err := ParseCommodity(name)
		if err != nil {
			return nil, catalogErr(loc, err)
		}
		if _, dup := byCommodity[c]; dup {
			return nil, catalogErr(loc, fmt.Errorf("duplicate market for %s", c))
		}
		m, err := NewMarket(c, def.Qty, def.Prices)
		if err != nil {
			return nil, catalogErr(loc, err)
		}
		byCommodity[c] = m
	}

	var out []*Market
	var missing []string
	for _, c := range AllCommodities {
		if c.IsVirtual() {
			continue
		}
		m, ok := byCommodity[c]
		if !ok {
			missing = append(missing, string(c))
			continue
		}
		out = append(out, m)
	}
	if len(missing) > 0 {
		return nil, catalogErr(MarketsFileName, fmt.Errorf("missing markets: %s", strings.Join(missing, ", ")))
	}
	return out, nil
}

// ParseEconomy decodes economy.yaml.
func ParseEconomy(data []byte) (*EconomyTable, error) {
	var f EconomyFile
	if err := decodeStrict(data, &f); err != nil {
		return nil, catalogErr(EconomyFileName, err)
	}
	levels := make([]EconomyLevel, 0, len(f.Levels))
	for _, l := range f.Levels {
		levels = append(levels, EconomyLevel{
			Level:           l.Level,
			EnergyPrice:     l.Energy,
			EnergySellPrice: l.EnergySell,
			Change:          Effect(l.Change),
			Steady:          Effect(l.Steady),
		})
	}
	t, err := NewEconomyTable(levels, f.Start)
	if err != nil {
		return nil, catalogErr(EconomyFileName, err)
	}
	return t, nil
}

// ParseEvents decodes events.yaml.
func ParseEvents(data []byte) ([]Event, error) {
	var f EventsFile
	if err := decodeStrict(data, &f); err != nil {
		return nil, catalogErr(EventsFileName, err)
	}
	if len(f.Events) == 0 {
		return nil, catalogErr(EventsFileName, errors.New("no events"))
	}

	out := make([]Event, 0, len(f.Events))
	for i, def := range f.Events {
		loc := fmt.Sprintf("%s: events[%d]", EventsFileName, i)
		effect, err := def.effect()
		if err != nil {
			return nil, catalogErr(loc, err)
		}
		ev, err := NewEvent(def.Title, effect)
		if err != nil {
			return nil, catalogErr(loc, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

func (d EventDef) effect() (EventEffect, error) {
	var effects []EventEffect

	if d.Market != nil {
		q, err := d.Market.resolve()
		if err != nil {
			return nil, fmt.Errorf("market: %w", err)
		}
		effects = append(effects, MarketDelta{Commodity: q.Commodity, Delta: q.Qty})
	}
	if d.Unavailable != "" {
		c, err := ParseCommodity(d.Unavailable)
		if err != nil {
			return nil, fmt.Errorf("unavailable: %w", err)
		}
		effects = append(effects, MarketUnavailable{Commodity: c})
	}
	if d.Economy != 0 {
		effects = append(effects, EconomyShift{Delta: d.Economy})
	}
	if d.Tax != nil {
		tax, err := d.Tax.effect()
		if err != nil {
			return nil, fmt.Errorf("tax: %w", err)
		}
		effects = append(effects, tax)
	}

	if len(effects) != 1 {
		return nil, fmt.Errorf("expected exactly one of market, unavailable, economy or tax, got %d", len(effects))
	}
	return effects[0], nil
}

func (t TaxDef) effect() (EventEffect, error) {
	switch strings.ToLower(t.Per) {
	case "stockpile":
		return StockpileTax{Amount: t.Amount}, nil
	case "category":
		cat, err := ParseAssetCategory(t.Category)
		if err != nil {
			return nil, err
		}
		return AssetCategoryTax{Category: cat, Amount: t.Amount}, nil
	case "output":
		c, err := ParseCommodity(t.Output)
		if err != nil {
			return nil, err
		}
		return AssetOutputTax{Output: c, Amount: t.Amount}, nil
	default:
		return nil, fmt.Errorf("unknown tax basis %q (want stockpile, category or output)", t.Per)
	}
}
