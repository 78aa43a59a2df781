package game

import "testing"

func TestNewEconomyTableValidates(t *testing.T) {
	cases := []struct {
		name   string
		levels []EconomyLevel
		start  int
	}{
		{"empty", nil, 0},
		{"duplicate level", []EconomyLevel{{Level: 0, EnergyPrice: 8}, {Level: 0, EnergyPrice: 6}}, 0},
		{"free energy", []EconomyLevel{{Level: 0, EnergyPrice: 0}}, 0},
		{"sell above buy", []EconomyLevel{{Level: 0, EnergyPrice: 8, EnergySellPrice: 9}}, 0},
		{"undefined start", []EconomyLevel{{Level: 0, EnergyPrice: 8}}, 3},
	}
	for _, tc := range cases {
		if _, err := NewEconomyTable(tc.levels, tc.start); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestEconomyDefaultsSellPriceToHalf(t *testing.T) {
	table := testEconomy(t)
	l, ok := table.Level(-1)
	if !ok {
		t.Fatalf("level -1 missing")
	}
	if l.EnergySellPrice != 5 {
		t.Fatalf("expected sell price 5, got %d", l.EnergySellPrice)
	}
	if l, _ := table.Level(0); l.EnergySellPrice != 4 {
		t.Fatalf("explicit sell price must be kept, got %d", l.EnergySellPrice)
	}
}

func TestEconomyMoveStepsThroughDefinedLevels(t *testing.T) {
	table, err := NewEconomyTable([]EconomyLevel{
		{Level: -3, EnergyPrice: 12},
		{Level: 0, EnergyPrice: 8},
		{Level: 4, EnergyPrice: 5},
	}, 0)
	if err != nil {
		t.Fatalf("economy: %v", err)
	}
	if table.Min() != -3 || table.Max() != 4 {
		t.Fatalf("unexpected bounds %d..%d", table.Min(), table.Max())
	}

	cases := []struct{ from, delta, want int }{
		{0, 1, 4},
		{0, -1, -3},
		{0, 5, 4},
		{-3, -2, -3},
		{4, -2, -3},
		{0, 0, 0},
	}
	for _, tc := range cases {
		if got := table.Move(tc.from, tc.delta); got != tc.want {
			t.Fatalf("Move(%d, %d): expected %d, got %d", tc.from, tc.delta, tc.want, got)
		}
	}
	expectInvariantPanic(t, func() { table.Move(2, 1) })
}

func TestEffectApplyShiftsByTier(t *testing.T) {
	markets := map[Commodity]*Market{
		Timber: mustMarket(t, Timber, 2, 1, 2, 3, 4),
		Steel:  mustMarket(t, Steel, 2, 1, 2, 3, 4),
		Goods:  mustMarket(t, Goods, 2, 1, 2, 3, 4),
	}
	Effect{Raw: 1, Refined: -1, Goods: 1}.Apply(markets)

	if markets[Timber].Qty() != 3 {
		t.Fatalf("raw market should grow, got %d", markets[Timber].Qty())
	}
	if markets[Steel].Qty() != 1 {
		t.Fatalf("refined market should shrink, got %d", markets[Steel].Qty())
	}
	// A positive goods shift removes units, raising the goods sell price.
	if markets[Goods].Qty() != 1 {
		t.Fatalf("goods market should shrink, got %d", markets[Goods].Qty())
	}

	Effect{Raw: 10}.Apply(markets)
	if markets[Timber].Qty() != 4 {
		t.Fatalf("effects clamp to capacity, got %d", markets[Timber].Qty())
	}
	if !(Effect{}).IsZero() || (Effect{Goods: 1}).IsZero() {
		t.Fatalf("IsZero mismatch")
	}
}
