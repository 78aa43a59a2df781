package game

import (
	"strings"
	"testing"
)

func TestParseCommodityAcceptsCatalogSpellings(t *testing.T) {
	for _, name := range []string{"iron_ore", "Iron Ore", "ironOre", "IRON-ORE", "  iron ore "} {
		c, err := ParseCommodity(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if c != IronOre {
			t.Fatalf("parse %q: expected iron_ore, got %s", name, c)
		}
	}
}

func TestParseCommoditySuggestsNearMatch(t *testing.T) {
	_, err := ParseCommodity("steal")
	if err == nil {
		t.Fatalf("expected error for misspelled commodity")
	}
	if !strings.Contains(err.Error(), `did you mean "steel"`) {
		t.Fatalf("expected steel suggestion, got %v", err)
	}

	_, err = ParseCommodity("unobtainium")
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("expected plain unknown commodity error, got %v", err)
	}
}

func TestCommodityCategoriesPartitionCatalog(t *testing.T) {
	counts := map[CommodityCategory]int{}
	virtual := 0
	for _, c := range AllCommodities {
		if !c.Valid() {
			t.Fatalf("%s should be valid", c)
		}
		tiers := 0
		for _, in := range []bool{c.IsRaw(), c.IsRefined(), c.IsFinished()} {
			if in {
				tiers++
			}
		}
		if tiers != 1 {
			t.Fatalf("%s belongs to %d categories", c, tiers)
		}
		counts[c.Category()]++
		if c.IsVirtual() {
			virtual++
		}
	}
	if counts[CategoryRaw] != 4 || counts[CategoryRefined] != 5 || counts[CategoryFinished] != 1 {
		t.Fatalf("unexpected category counts %v", counts)
	}
	if virtual != 1 || !Energy.IsVirtual() {
		t.Fatalf("expected energy to be the only virtual commodity")
	}
	if Commodity("gold").Valid() {
		t.Fatalf("gold is not a catalog commodity")
	}
}

func TestStockpileDropsZeroEntries(t *testing.T) {
	s := Stockpile{}
	s.Add(Steel, 2)
	s.Add(Steel, -2)
	if _, ok := s[Steel]; ok {
		t.Fatalf("expected zero entry to be removed, got %v", s)
	}
	s.Add(Lumber, 1)
	s.Add(Goods, 3)
	if s.Total() != 4 {
		t.Fatalf("expected total 4, got %d", s.Total())
	}
	if got := s.String(); got != "Lumber:1, Goods:3" {
		t.Fatalf("unexpected rendering %q", got)
	}

	clone := s.Clone()
	clone.Add(Goods, 1)
	if s.Get(Goods) != 3 {
		t.Fatalf("clone must not alias the original")
	}
}

func TestStockpileNegativeIsInvariantViolation(t *testing.T) {
	s := Stockpile{Oil: 1}
	expectInvariantPanic(t, func() { s.Add(Oil, -2) })
}
