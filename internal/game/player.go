/*
Package game
File: player.go
Description:
    The player ledger: money, stockpile and owned assets, plus the production
    resolver that turns a selection of assets into a new stockpile and balance.

    Resolution order is fixed regardless of selection order:
    1. Assets without inputs add their output unconditionally.
    2. Input-bearing assets run tier by tier (production, refining,
       manufacturing) so refined intermediates exist before manufacturing
       consumes them.
    3. Leftover energy is sold back. Energy never survives the phase.
*/

package game

import "sort"

// MaxAssets is the most assets a player may own.
const MaxAssets = 6

// Player is one seat at the table.
type Player struct {
	ID                int
	Name              string
	Money             int
	Stockpile         Stockpile
	Assets            []*Asset
	LastGoodsProduced int
}

// NewPlayer seats a player with starting money and an empty ledger.
func NewPlayer(id int, name string, money int) *Player {
	return &Player{ID: id, Name: name, Money: money, Stockpile: Stockpile{}}
}

// TotalAssetValue sums the listed value of owned assets.
func (p *Player) TotalAssetValue() int {
	total := 0
	for _, a := range p.Assets {
		total += a.Value()
	}
	return total
}

func (p *Player) HasMaximumAssets() bool { return len(p.Assets) >= MaxAssets }

// ManufacturingAssets counts owned assets that output finished goods.
func (p *Player) ManufacturingAssets() int {
	n := 0
	for _, a := range p.Assets {
		if a.Category() == Manufacturing {
			n++
		}
	}
	return n
}

// addAsset keeps owned assets sorted by value, most valuable first.
func (p *Player) addAsset(a *Asset) {
	p.Assets = append(p.Assets, a)
	sort.SliceStable(p.Assets, func(i, j int) bool { return p.Assets[i].Value() > p.Assets[j].Value() })
}

// ProductionResult is the outcome of resolving a set of assets.
type ProductionResult struct {
	Stockpile    Stockpile `json:"stockpile"`
	Money        int       `json:"money"`
	Produced     []int     `json:"produced"`
	EnergyBought int       `json:"energy_bought"`
	EnergySold   int       `json:"energy_sold"`
}

// productionPasses orders assets with inputs by tier. Extractors that burn
// energy run in the first pass so refining can consume their output.
var productionPasses = []AssetCategory{Production, Refining, Manufacturing}

// Produce resolves assets against a starting stockpile and balance. It does
// not touch any player; Player.Produce and GameState.ProduceAssets apply the
// result. Assets that cannot run (missing inputs, unaffordable energy) are
// skipped silently. Produced lists the indices of assets that ran.
func Produce(assets []*Asset, energyBuy, energySell int, stock Stockpile, money int) ProductionResult {
	work := stock.Clone()
	res := ProductionResult{}

	for i, a := range assets {
		if a.HasInputs() {
			continue
		}
		work.Add(a.Output().Commodity, a.Output().Qty)
		res.Produced = append(res.Produced, i)
	}

	for _, pass := range productionPasses {
		for i, a := range assets {
			if !a.HasInputs() || a.Category() != pass {
				continue
			}
			ok, energy := a.CanProduce(work)
			if !ok {
				continue
			}

			shortfall := energy - work.Get(Energy)
			if shortfall > 0 && shortfall*energyBuy > money {
				continue
			}
			if shortfall > 0 {
				money -= shortfall * energyBuy
				res.EnergyBought += shortfall
				delete(work, Energy)
			} else if energy > 0 {
				work.Add(Energy, -energy)
			}

			consumeInputs(a, work)
			work.Add(a.Output().Commodity, a.Output().Qty)
			res.Produced = append(res.Produced, i)
		}
	}

	if left := work.Get(Energy); left > 0 {
		money += left * energySell
		res.EnergySold = left
	}
	delete(work, Energy)

	if money < 0 {
		panicInvariant("produce", "money dropped to %d", money)
	}
	sort.Ints(res.Produced)
	res.Stockpile = work
	res.Money = money
	return res
}

// consumeInputs removes the non-energy inputs of a feasible asset. Choice
// inputs are matched in reverse of their declared order, so the last listed
// alternative the stockpile can cover is the one consumed.
func consumeInputs(a *Asset, work Stockpile) {
	for _, in := range a.inputs {
		switch v := in.(type) {
		case FixedInput:
			if v.Commodity == Energy {
				continue
			}
			if work.Get(v.Commodity) < v.Qty {
				panicInvariant("produce", "asset %s: %s short after feasibility check", a, v.Commodity)
			}
			work.Add(v.Commodity, -v.Qty)
		case ChoiceInput:
			satisfied := false
			for i := len(v) - 1; i >= 0; i-- {
				if work.Get(v[i].Commodity) >= v[i].Qty {
					work.Add(v[i].Commodity, -v[i].Qty)
					satisfied = true
					break
				}
			}
			if !satisfied {
				panicInvariant("produce", "asset %s: no alternative of %s available after feasibility check", a, v)
			}
		}
	}
}

// Produce resolves the given owned assets against the player's own ledger
// without applying the result.
func (p *Player) Produce(assets []*Asset, energyBuy, energySell int) ProductionResult {
	return Produce(assets, energyBuy, energySell, p.Stockpile, p.Money)
}

// AssetsThatCanProduce returns indices of owned assets the player could
// select this production phase. Outputs of earlier tiers count as available
// for later tiers; inputs are not deducted, so the set is optimistic.
func (p *Player) AssetsThatCanProduce(energyPrice int) []int {
	stock := p.Stockpile.Clone()
	var out []int

	for i, a := range p.Assets {
		if !a.HasInputs() {
			out = append(out, i)
			stock.Add(a.Output().Commodity, a.Output().Qty)
		}
	}
	for _, pass := range productionPasses {
		for i, a := range p.Assets {
			if !a.HasInputs() || a.Category() != pass {
				continue
			}
			ok, energy := a.CanProduce(stock)
			if !ok {
				continue
			}
			if need := energy - stock.Get(Energy); need > 0 && need*energyPrice > p.Money {
				continue
			}
			out = append(out, i)
			stock.Add(a.Output().Commodity, a.Output().Qty)
		}
	}
	sort.Ints(out)
	return out
}

// RequiredCommodities estimates what the player must buy to run every owned
// asset. It walks assets in tier order, simulating depletion of the current
// stockpile. Choice inputs take the first declared alternative in stock and
// otherwise report the last declared one as short. This intentionally differs
// from the reverse matching Produce uses.
func (p *Player) RequiredCommodities() Stockpile {
	stock := p.Stockpile.Clone()
	need := Stockpile{}

	for _, a := range p.Assets {
		if !a.HasInputs() {
			stock.Add(a.Output().Commodity, a.Output().Qty)
		}
	}

	var ordered []*Asset
	for _, a := range p.Assets {
		if a.HasInputs() {
			ordered = append(ordered, a)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Category() < ordered[j].Category() })

	draw := func(q CommodityQty) {
		have := stock.Get(q.Commodity)
		if have >= q.Qty {
			stock.Add(q.Commodity, -q.Qty)
			return
		}
		delete(stock, q.Commodity)
		need.Add(q.Commodity, q.Qty-have)
	}

	for _, a := range ordered {
		for _, in := range a.inputs {
			switch v := in.(type) {
			case FixedInput:
				if v.Commodity.IsVirtual() {
					continue
				}
				draw(CommodityQty(v))
			case ChoiceInput:
				matched := false
				for _, q := range v {
					if stock.Get(q.Commodity) >= q.Qty {
						stock.Add(q.Commodity, -q.Qty)
						matched = true
						break
					}
				}
				if !matched {
					draw(v[len(v)-1])
				}
			}
		}
		if out := a.Output(); !out.Commodity.IsVirtual() {
			stock.Add(out.Commodity, out.Qty)
		}
	}
	return need
}

// ApplyTax settles a tax or subsidy event and returns the money change
// actually applied. Money never drops below zero.
func (p *Player) ApplyTax(effect EventEffect) int {
	var delta int
	switch e := effect.(type) {
	case StockpileTax:
		delta = e.Amount * p.Stockpile.Total()
	case AssetCategoryTax:
		for _, a := range p.Assets {
			if a.Category() == e.Category {
				delta += e.Amount
			}
		}
	case AssetOutputTax:
		for _, a := range p.Assets {
			if a.Output().Commodity == e.Output {
				delta += e.Amount
			}
		}
	default:
		return 0
	}

	before := p.Money
	p.Money += delta
	if p.Money < 0 {
		p.Money = 0
	}
	return p.Money - before
}
