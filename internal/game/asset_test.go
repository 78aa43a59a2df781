package game

import "testing"

func TestNewAssetDerivesCategoryFromOutput(t *testing.T) {
	cases := []struct {
		out  Commodity
		want AssetCategory
	}{
		{Timber, Production},
		{Oil, Production},
		{Steel, Refining},
		{Energy, Refining},
		{Goods, Manufacturing},
	}
	for _, tc := range cases {
		a := mustAsset(t, 1, 5, qty(tc.out, 1))
		if a.Category() != tc.want {
			t.Fatalf("%s output: expected %s, got %s", tc.out, tc.want, a.Category())
		}
	}
}

func TestNewAssetRejectsMalformedRecipes(t *testing.T) {
	cases := []struct {
		name   string
		value  int
		out    CommodityQty
		inputs []InputRequirement
	}{
		{"zero value", 0, qty(Steel, 1), nil},
		{"zero output", 5, qty(Steel, 0), nil},
		{"unknown output", 5, qty("gold", 1), nil},
		{"nil input", 5, qty(Steel, 1), []InputRequirement{nil}},
		{"zero fixed input", 5, qty(Steel, 1), []InputRequirement{fixed(IronOre, 0)}},
		{"empty choice", 5, qty(Steel, 1), []InputRequirement{choice()}},
		{"zero choice alternative", 5, qty(Steel, 1), []InputRequirement{choice(qty(IronOre, 1), qty(Bauxite, 0))}},
	}
	for _, tc := range cases {
		if _, err := NewAsset(1, tc.value, 0, tc.out, tc.inputs); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestNewAssetCopiesChoiceInputs(t *testing.T) {
	alts := choice(qty(Steel, 1), qty(Aluminum, 1))
	a := mustAsset(t, 1, 20, qty(Goods, 1), alts)
	alts[0] = qty(Plastic, 9)

	got := a.Inputs()[0].(ChoiceInput)
	if got[0] != qty(Steel, 1) {
		t.Fatalf("asset must not alias caller slices, got %v", got)
	}
	got[1] = qty(Plastic, 9)
	if a.Inputs()[0].(ChoiceInput)[1] != qty(Aluminum, 1) {
		t.Fatalf("Inputs must return a copy")
	}
}

func TestCanProduceChecksStockAndSumsEnergy(t *testing.T) {
	a := mustAsset(t, 1, 30, qty(Goods, 2),
		choice(qty(Aluminum, 1), qty(Steel, 1)),
		fixed(Plastic, 1),
		fixed(Energy, 2),
	)

	ok, energy := a.CanProduce(Stockpile{Steel: 1, Plastic: 1})
	if !ok || energy != 2 {
		t.Fatalf("expected feasible with 2 energy, got ok=%v energy=%d", ok, energy)
	}

	if ok, _ := a.CanProduce(Stockpile{Plastic: 1}); ok {
		t.Fatalf("no alternative of the choice is stocked")
	}
	if ok, _ := a.CanProduce(Stockpile{Aluminum: 1}); ok {
		t.Fatalf("plastic is missing")
	}

	free := mustAsset(t, 2, 3, qty(Timber, 1))
	if ok, energy := free.CanProduce(nil); !ok || energy != 0 {
		t.Fatalf("assets without inputs always run, got ok=%v energy=%d", ok, energy)
	}
}

func TestAssetStringRendersRecipe(t *testing.T) {
	a := mustAsset(t, 1, 51, qty(Goods, 2),
		choice(qty(Aluminum, 1), qty(Plastic, 1), qty(Steel, 1), qty(Lumber, 1)),
		fixed(Energy, 1),
	)
	want := "[51] {Aluminum(1), Plastic(1), Steel(1), Lumber(1)} + Energy(1) => Goods(2)"
	if got := a.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if !a.RequiresCommodity(Energy) || a.RequiresCommodity(Steel) {
		t.Fatalf("RequiresCommodity only considers fixed inputs")
	}
}
