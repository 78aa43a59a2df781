package game

import (
	"errors"
	"testing"
)

func qty(c Commodity, n int) CommodityQty { return CommodityQty{Commodity: c, Qty: n} }

func fixed(c Commodity, n int) FixedInput { return FixedInput(qty(c, n)) }

func choice(alts ...CommodityQty) ChoiceInput { return ChoiceInput(alts) }

func mustAsset(t *testing.T, id, value int, out CommodityQty, inputs ...InputRequirement) *Asset {
	t.Helper()
	a, err := NewAsset(id, value, 0, out, inputs)
	if err != nil {
		t.Fatalf("new asset %d: %v", id, err)
	}
	return a
}

func mustMarket(t *testing.T, c Commodity, q int, prices ...int) *Market {
	t.Helper()
	m, err := NewMarket(c, q, prices)
	if err != nil {
		t.Fatalf("new market %s: %v", c, err)
	}
	return m
}

func mustEvent(t *testing.T, effect EventEffect) Event {
	t.Helper()
	ev, err := NewEvent("", effect)
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	return ev
}

// keepOrder is a Shuffler that leaves every deck in catalog order.
type keepOrder struct{}

func (keepOrder) Shuffle(int, func(i, j int)) {}

func testEconomy(t *testing.T) *EconomyTable {
	t.Helper()
	table, err := NewEconomyTable([]EconomyLevel{
		{Level: -1, EnergyPrice: 10, Change: Effect{Raw: 1}, Steady: Effect{}},
		{Level: 0, EnergyPrice: 8, EnergySellPrice: 4, Steady: Effect{Raw: -1, Goods: 1}},
		{Level: 1, EnergyPrice: 6, Change: Effect{Refined: -1}, Steady: Effect{Goods: 2}},
	}, 0)
	if err != nil {
		t.Fatalf("economy: %v", err)
	}
	return table
}

func testMarkets(t *testing.T) []*Market {
	t.Helper()
	ladder := []int{1, 2, 3, 4, 5, 6, 7, 8}
	var out []*Market
	for _, c := range AllCommodities {
		if c.IsVirtual() {
			continue
		}
		out = append(out, mustMarket(t, c, 4, ladder...))
	}
	return out
}

// testCatalog builds a small deck: regular assets with values 1..regular
// (multiples of three output a single unit, the rest two) and manufacturing
// assets with values 100.. upward.
func testCatalog(t *testing.T, regular, manufacturing int) *Catalog {
	t.Helper()
	raws := []Commodity{Timber, IronOre, Bauxite, Oil}
	var assets []*Asset
	for i := 1; i <= regular; i++ {
		n := 2
		if i%3 == 0 {
			n = 1
		}
		assets = append(assets, mustAsset(t, i, i, qty(raws[i%len(raws)], n)))
	}
	for i := 0; i < manufacturing; i++ {
		assets = append(assets, mustAsset(t, 100+i, 100+i, qty(Goods, 1), fixed(Steel, 1)))
	}
	return catalogOf(t, assets...)
}

func catalogOf(t *testing.T, assets ...*Asset) *Catalog {
	t.Helper()
	return &Catalog{
		Assets:  assets,
		Markets: testMarkets(t),
		Economy: testEconomy(t),
		Events:  []Event{mustEvent(t, MarketDelta{Commodity: Timber, Delta: 1})},
	}
}

func newTestGame(t *testing.T, cat *Catalog, players int) *GameState {
	t.Helper()
	names := make([]string, players)
	g, err := NewGame(cat, GameConfig{Players: names, Shuffler: keepOrder{}})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

func expectRejected(t *testing.T, err, want error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", want)
	}
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func expectInvariantPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected invariant panic")
		}
		if _, ok := r.(*InvariantError); !ok {
			t.Fatalf("expected *InvariantError, got %T: %v", r, r)
		}
	}()
	fn()
}
