/*
Package game
File: snapshot.go
Description:
    JSON read model of a GameState for the presentation layer. A snapshot is
    a detached copy; nothing in it aliases engine state.
*/

package game

import "github.com/google/uuid"

type AssetView struct {
	ID       int    `json:"id"`
	Value    int    `json:"value"`
	Category string `json:"category"`
	Output   string `json:"output"`
	Inputs   string `json:"inputs"`
}

type MarketView struct {
	Commodity   Commodity `json:"commodity"`
	Name        string    `json:"name"`
	Qty         int       `json:"qty"`
	Capacity    int       `json:"capacity"`
	BuyPrice    *int      `json:"buy_price"`
	SellPrice   *int      `json:"sell_price"`
	Unavailable bool      `json:"unavailable,omitempty"`
}

type PlayerView struct {
	ID                int         `json:"id"`
	Name              string      `json:"name"`
	Money             int         `json:"money"`
	Stockpile         Stockpile   `json:"stockpile"`
	Assets            []AssetView `json:"assets"`
	AssetValue        int         `json:"asset_value"`
	LastGoodsProduced int         `json:"last_goods_produced"`
	Acted             bool        `json:"acted"`
}

type AuctionView struct {
	State     string     `json:"state"`
	Mover     int        `json:"mover"`
	Bidder    int        `json:"bidder"`
	High      Bid        `json:"high"`
	Lot       *Lot       `json:"lot,omitempty"`
	Asset     *AssetView `json:"asset,omitempty"`
	InBidding []int      `json:"in_bidding,omitempty"`
}

type DeckView struct {
	Regular       int `json:"regular"`
	Manufacturing int `json:"manufacturing"`
	Reshuffle     int `json:"reshuffle"`
	Discard       int `json:"discard"`
	Events        int `json:"events"`
}

// Snapshot is the full public state of a game.
type Snapshot struct {
	ID                  uuid.UUID     `json:"id"`
	Phase               string        `json:"phase"`
	Round               int           `json:"round"`
	Stage               int           `json:"stage"`
	MovingToStage2      bool          `json:"moving_to_stage2"`
	LastTurn            bool          `json:"last_turn"`
	EconomyLevel        int           `json:"economy_level"`
	EnergyBuyPrice      int           `json:"energy_buy_price"`
	EnergySellPrice     int           `json:"energy_sell_price"`
	Markets             []MarketView  `json:"markets"`
	RegularMarket       []AssetView   `json:"regular_market"`
	ManufacturingMarket []AssetView   `json:"manufacturing_market"`
	Players             []PlayerView  `json:"players"`
	TurnOrder           []int         `json:"turn_order"`
	Auction             *AuctionView  `json:"auction,omitempty"`
	MarketTurn          int           `json:"market_turn,omitempty"`
	LastEvent           *EventOutcome `json:"last_event,omitempty"`
	Decks               DeckView      `json:"decks"`
	Standings           []Standing    `json:"standings,omitempty"`
}

func viewAsset(a *Asset) AssetView {
	return AssetView{
		ID:       a.ID(),
		Value:    a.Value(),
		Category: a.Category().String(),
		Output:   a.Output().String(),
		Inputs:   a.InputDescription(),
	}
}

func viewAssets(assets []*Asset) []AssetView {
	out := make([]AssetView, len(assets))
	for i, a := range assets {
		out[i] = viewAsset(a)
	}
	return out
}

func optional(v int, ok bool) *int {
	if !ok {
		return nil
	}
	return &v
}

// Snapshot captures the current state.
func (g *GameState) Snapshot() Snapshot {
	buy, sell := g.EnergyPrices()
	regular, mfg, reshuffle, discard := g.DeckSizes()

	s := Snapshot{
		ID:                  g.ID,
		Phase:               g.phase.String(),
		Round:               g.round,
		Stage:               g.stage,
		MovingToStage2:      g.movingToStage2,
		LastTurn:            g.lastTurn,
		EconomyLevel:        g.economyLevel,
		EnergyBuyPrice:      buy,
		EnergySellPrice:     sell,
		RegularMarket:       viewAssets(g.regularMarket),
		ManufacturingMarket: viewAssets(g.mfgMarket),
		TurnOrder:           g.TurnOrder(),
		MarketTurn:          g.MarketTurn(),
		Decks: DeckView{
			Regular:       regular,
			Manufacturing: mfg,
			Reshuffle:     reshuffle,
			Discard:       discard,
			Events:        g.events.Remaining(),
		},
	}

	for _, c := range AllCommodities {
		m, ok := g.markets[c]
		if !ok {
			continue
		}
		s.Markets = append(s.Markets, MarketView{
			Commodity:   c,
			Name:        c.DisplayName(),
			Qty:         m.Qty(),
			Capacity:    m.Capacity(),
			BuyPrice:    optional(m.BuyPrice()),
			SellPrice:   optional(m.SellPrice()),
			Unavailable: c == g.unavailable,
		})
	}

	for _, p := range g.Players() {
		s.Players = append(s.Players, PlayerView{
			ID:                p.ID,
			Name:              p.Name,
			Money:             p.Money,
			Stockpile:         p.Stockpile.Clone(),
			Assets:            viewAssets(p.Assets),
			AssetValue:        p.TotalAssetValue(),
			LastGoodsProduced: p.LastGoodsProduced,
			Acted:             g.acted[p.ID],
		})
	}

	if a := g.auction; a != nil {
		av := &AuctionView{
			State:     a.State().String(),
			Mover:     a.Mover(),
			Bidder:    a.Bidder(),
			High:      a.HighBid(),
			InBidding: a.InBidding(),
		}
		if lot, asset, ok := a.Selected(); ok {
			v := viewAsset(asset)
			av.Lot, av.Asset = &lot, &v
		}
		s.Auction = av
	}

	if ev, ok := g.LastEvent(); ok {
		s.LastEvent = &ev
	}
	if g.phase == PhaseFinish {
		s.Standings = g.Standings()
	}
	return s
}
