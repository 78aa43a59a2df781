package game

import "testing"

func TestEventDescriptions(t *testing.T) {
	cases := []struct {
		effect EventEffect
		want   string
	}{
		{MarketDelta{Commodity: Steel, Delta: 2}, "Steel +2"},
		{MarketDelta{Commodity: IronOre, Delta: -1}, "Iron Ore -1"},
		{MarketUnavailable{Commodity: Steel}, "Steel market unavailable next turn."},
		{EconomyShift{Delta: -1}, "Economy -1"},
		{EconomyShift{Delta: 2}, "Economy +2"},
		{StockpileTax{Amount: -1}, "-$1 per stockpiled commodity"},
		{AssetCategoryTax{Category: Manufacturing, Amount: 3}, "+$3 per manufacturing asset"},
		{AssetOutputTax{Output: Oil, Amount: -2}, "-$2 per Oil producing asset"},
	}
	for _, tc := range cases {
		ev := mustEvent(t, tc.effect)
		if got := ev.Description(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}

	titled, err := NewEvent("Port blockade", MarketUnavailable{Commodity: Steel})
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	if got := titled.String(); got != "Port blockade: Steel market unavailable next turn." {
		t.Fatalf("unexpected title rendering %q", got)
	}
}

func TestNewEventRejectsBadPayloads(t *testing.T) {
	bad := []EventEffect{
		nil,
		MarketDelta{Commodity: Energy, Delta: 1},
		MarketDelta{Commodity: Steel, Delta: 0},
		MarketUnavailable{Commodity: "gold"},
		EconomyShift{Delta: 0},
		AssetCategoryTax{Category: AssetCategory(9), Amount: 1},
		AssetOutputTax{Output: "gold", Amount: 1},
	}
	for _, effect := range bad {
		if _, err := NewEvent("", effect); err == nil {
			t.Fatalf("expected %#v to be rejected", effect)
		}
	}
}

func TestEventDeckReshufflesDiscards(t *testing.T) {
	a := mustEvent(t, EconomyShift{Delta: 1})
	b := mustEvent(t, EconomyShift{Delta: -1})
	deck := NewEventDeck([]Event{a, b}, keepOrder{})

	first := deck.Draw()
	deck.Discard(first)
	second := deck.Draw()
	deck.Discard(second)
	if deck.Remaining() != 0 || deck.Discarded() != 2 {
		t.Fatalf("expected empty draw pile and 2 discards, got %d/%d", deck.Remaining(), deck.Discarded())
	}

	third := deck.Draw()
	if third.Description() != first.Description() {
		t.Fatalf("expected the discard pile to come back in order, got %q", third.Description())
	}
	if deck.Remaining() != 1 || deck.Discarded() != 0 {
		t.Fatalf("expected reshuffle to move discards back, got %d/%d", deck.Remaining(), deck.Discarded())
	}
}

func TestEventDeckEmptyIsInvariantViolation(t *testing.T) {
	deck := NewEventDeck(nil, keepOrder{})
	expectInvariantPanic(t, func() { deck.Draw() })
}
