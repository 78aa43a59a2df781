/*
Package game
File: state.go
Description:
    GameState owns the whole authoritative session: asset decks and auction
    markets, commodity markets, the economy level, the event deck and every
    player ledger. It drives the phase machine

        Auction -> Production -> Market -> Events -> Auction ...
                              \-> Finish (last round)

    All mutation goes through its methods. GameState is not safe for
    concurrent use; callers serialise access (see internal/api).
*/

package game

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Phase is a step of the game round.
type Phase int

const (
	PhaseAuction Phase = iota
	PhaseProduction
	PhaseMarket
	PhaseEvents
	PhaseFinish
)

func (p Phase) String() string {
	switch p {
	case PhaseAuction:
		return "auction"
	case PhaseProduction:
		return "production"
	case PhaseMarket:
		return "market"
	case PhaseEvents:
		return "events"
	case PhaseFinish:
		return "finish"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Market sizes per stage.
const (
	stage1RegularSlots       = 6
	stage2RegularSlots       = 4
	stage2ManufacturingSlots = 4
)

// ChangeKind tells observers what kind of mutation happened.
type ChangeKind string

const (
	ChangePhase      ChangeKind = "phase"
	ChangeAuction    ChangeKind = "auction"
	ChangeProduction ChangeKind = "production"
	ChangeTrade      ChangeKind = "trade"
)

// Change is a refresh hint sent to observers after a successful mutation.
// It carries no state; observers read what they need from the game.
type Change struct {
	Kind   ChangeKind `json:"kind"`
	Phase  Phase      `json:"phase"`
	Player int        `json:"player,omitempty"`
}

// GameState is the rules engine for one game.
type GameState struct {
	ID uuid.UUID

	log *slog.Logger
	rng Shuffler

	manufacturingDeck []*Asset
	regularDeck       []*Asset
	reshufflePile     []*Asset
	discardPile       []*Asset
	regularMarket     []*Asset
	mfgMarket         []*Asset

	markets      map[Commodity]*Market
	economy      *EconomyTable
	economyLevel int
	events       *EventDeck
	lastEvent    *EventOutcome

	phase          Phase
	stage          int
	round          int
	movingToStage2 bool
	lastTurn       bool

	players map[int]*Player
	seats   []int
	order   []int

	auction       *Auction
	lowestRegular *Asset
	lowestMfg     *Asset
	acted         map[int]bool
	unavailable   Commodity

	observers []func(Change)
}

// NewGame deals a new game from a validated catalog.
func NewGame(cat *Catalog, cfg GameConfig) (*GameState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}

	rng := cfg.Shuffler
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = seededRNG(seed)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	money := cfg.StartingMoney
	if money == 0 {
		money = DefaultStartingMoney
	}

	g := &GameState{
		ID:           uuid.New(),
		rng:          rng,
		markets:      make(map[Commodity]*Market, len(cat.Markets)),
		economy:      cat.Economy,
		economyLevel: cat.Economy.Start(),
		events:       NewEventDeck(cat.Events, rng),
		phase:        PhaseAuction,
		stage:        1,
		round:        1,
		players:      make(map[int]*Player, len(cfg.Players)),
	}
	g.log = logger.With("game", g.ID.String())

	// 1. Split the catalog into the manufacturing and regular decks.
	var fixed, loose []*Asset
	for _, a := range cat.Assets {
		switch {
		case a.Category() == Manufacturing:
			g.manufacturingDeck = append(g.manufacturingDeck, a)
		case a.InitialOrdering() > 0:
			fixed = append(fixed, a)
		default:
			loose = append(loose, a)
		}
	}
	g.manufacturingDeck = shuffled(rng, g.manufacturingDeck)
	sort.SliceStable(fixed, func(i, j int) bool { return fixed[i].InitialOrdering() < fixed[j].InitialOrdering() })
	g.regularDeck = append(fixed, shuffled(rng, loose)...)

	// 2. Each game trades on its own copy of the markets.
	for _, m := range cat.Markets {
		g.markets[m.Commodity()] = m.Clone()
	}

	// 3. Seat the players.
	for i := range cfg.Players {
		id := i + 1
		g.players[id] = NewPlayer(id, cfg.playerName(i), money)
		g.seats = append(g.seats, id)
	}
	g.order = append([]int(nil), g.seats...)

	// 4. Open the first auction market.
	for len(g.regularMarket) < stage1RegularSlots {
		if exhausted := g.drawAsset(RegularMarket); exhausted {
			break
		}
	}

	g.PrepareForPhase()
	g.log.Info("game created",
		"players", len(g.seats),
		"regular_deck", len(g.regularDeck),
		"manufacturing_deck", len(g.manufacturingDeck),
		"economy_level", g.economyLevel,
	)
	return g, nil
}

// OnChange registers an observer called after every successful mutation.
func (g *GameState) OnChange(fn func(Change)) {
	g.observers = append(g.observers, fn)
}

func (g *GameState) notify(kind ChangeKind, player int) {
	c := Change{Kind: kind, Phase: g.phase, Player: player}
	for _, fn := range g.observers {
		fn(c)
	}
}

// Read access

func (g *GameState) Phase() Phase         { return g.phase }
func (g *GameState) Stage() int           { return g.stage }
func (g *GameState) Round() int           { return g.round }
func (g *GameState) LastTurn() bool       { return g.lastTurn }
func (g *GameState) MovingToStage2() bool { return g.movingToStage2 }
func (g *GameState) EconomyLevel() int    { return g.economyLevel }
func (g *GameState) Economy() *EconomyTable {
	return g.economy
}

// Auction returns the running auction, nil outside the Auction phase.
func (g *GameState) Auction() *Auction { return g.auction }

// LastEvent returns the most recently resolved event, if any.
func (g *GameState) LastEvent() (EventOutcome, bool) {
	if g.lastEvent == nil {
		return EventOutcome{}, false
	}
	return *g.lastEvent, true
}

// EnergyPrices returns the current buy and sell price of one energy unit.
func (g *GameState) EnergyPrices() (buy, sell int) {
	l, ok := g.economy.Level(g.economyLevel)
	if !ok {
		panicInvariant("economy", "level %d missing", g.economyLevel)
	}
	return l.EnergyPrice, l.EnergySellPrice
}

// Unavailable returns the commodity closed for this Market phase.
func (g *GameState) Unavailable() (Commodity, bool) {
	return g.unavailable, g.unavailable != ""
}

// Market returns the live market for a commodity.
func (g *GameState) Market(c Commodity) (*Market, bool) {
	m, ok := g.markets[c]
	return m, ok
}

// AuctionMarket returns the assets on offer, cheapest first.
func (g *GameState) AuctionMarket(kind MarketKind) []*Asset {
	return append([]*Asset(nil), *g.marketSlice(kind)...)
}

// DeckSizes reports the regular deck, manufacturing deck, reshuffle and
// discard pile sizes.
func (g *GameState) DeckSizes() (regular, manufacturing, reshuffle, discard int) {
	return len(g.regularDeck), len(g.manufacturingDeck), len(g.reshufflePile), len(g.discardPile)
}

// Player implements AuctionHost.
func (g *GameState) Player(id int) (*Player, bool) {
	p, ok := g.players[id]
	return p, ok
}

// Players returns every player in seat order.
func (g *GameState) Players() []*Player {
	out := make([]*Player, len(g.seats))
	for i, id := range g.seats {
		out[i] = g.players[id]
	}
	return out
}

// TurnOrder implements AuctionHost.
func (g *GameState) TurnOrder() []int { return append([]int(nil), g.order...) }

// Seats implements AuctionHost.
func (g *GameState) Seats() []int { return append([]int(nil), g.seats...) }

// LotAsset implements AuctionHost.
func (g *GameState) LotAsset(lot Lot) (*Asset, bool) {
	m := *g.marketSlice(lot.Market)
	if lot.Index < 0 || lot.Index >= len(m) || lot.Index >= g.marketCapacity(lot.Market) {
		return nil, false
	}
	return m[lot.Index], true
}

// AwardLot implements AuctionHost: the asset moves to the player, the price
// is charged and a replacement is drawn into the market.
func (g *GameState) AwardLot(lot Lot, playerID, price int) error {
	asset, ok := g.LotAsset(lot)
	if !ok {
		return rejectf(ErrInvalidLot, "%s market slot %d", lot.Market, lot.Index)
	}
	p, ok := g.players[playerID]
	if !ok {
		return rejectf(ErrUnknownPlayer, "player %d", playerID)
	}
	if p.HasMaximumAssets() {
		return rejectf(ErrAssetLimit, "player %d", playerID)
	}
	if price > p.Money {
		return rejectf(ErrInsufficientFunds, "player %d has %d, price is %d", playerID, p.Money, price)
	}

	m := g.marketSlice(lot.Market)
	*m = append((*m)[:lot.Index:lot.Index], (*m)[lot.Index+1:]...)
	p.addAsset(asset)
	p.Money -= price
	g.drawAsset(lot.Market)

	g.log.Info("asset sold", "player", playerID, "asset", asset.String(), "price", price)
	return nil
}

func (g *GameState) marketSlice(kind MarketKind) *[]*Asset {
	if kind == ManufacturingMarket {
		return &g.mfgMarket
	}
	return &g.regularMarket
}

func (g *GameState) marketCapacity(kind MarketKind) int {
	switch {
	case kind == ManufacturingMarket && g.stage == 2:
		return stage2ManufacturingSlots
	case kind == ManufacturingMarket:
		return 0
	case g.stage == 2:
		return stage2RegularSlots
	default:
		return stage1RegularSlots
	}
}

// drawAsset moves the top of a deck into its market and reports whether the
// deck was already empty. The regular deck running out in stage 1 schedules
// the move to stage 2.
func (g *GameState) drawAsset(kind MarketKind) (exhausted bool) {
	deck := &g.regularDeck
	if kind == ManufacturingMarket {
		if g.stage < 2 {
			return true
		}
		deck = &g.manufacturingDeck
	}
	if len(*deck) == 0 {
		if kind == RegularMarket && g.stage == 1 && !g.movingToStage2 {
			g.movingToStage2 = true
			g.log.Info("regular deck exhausted, stage 2 scheduled")
		}
		return true
	}

	m := g.marketSlice(kind)
	*m = append(*m, (*deck)[0])
	*deck = (*deck)[1:]
	sortByValue(*m)
	return false
}

func sortByValue(assets []*Asset) {
	sort.SliceStable(assets, func(i, j int) bool { return assets[i].Value() < assets[j].Value() })
}

// Phase machine

// PhaseResult describes a completed phase transition.
type PhaseResult struct {
	From         Phase         `json:"from"`
	To           Phase         `json:"to"`
	Stage        int           `json:"stage"`
	StageChanged bool          `json:"stage_changed"`
	LastTurn     bool          `json:"last_turn"`
	Event        *EventOutcome `json:"event,omitempty"`
}

// EventOutcome records how a drawn event resolved.
type EventOutcome struct {
	Event       Event       `json:"-"`
	Description string      `json:"description"`
	EconomyFrom int         `json:"economy_from"`
	EconomyTo   int         `json:"economy_to"`
	Economy     Effect      `json:"economy_effect"`
	MoneyChange map[int]int `json:"money_change,omitempty"`
}

// PrepareForPhase runs the entry setup of the current phase. NewGame and
// FinishPhase call it; it only needs calling directly after restoring a
// phase by hand.
func (g *GameState) PrepareForPhase() {
	switch g.phase {
	case PhaseAuction:
		g.checkEndGame()
		g.lowestRegular, g.lowestMfg = nil, nil
		if g.stage == 2 {
			if len(g.regularMarket) > 0 {
				g.lowestRegular = g.regularMarket[0]
			}
			if len(g.mfgMarket) > 0 {
				g.lowestMfg = g.mfgMarket[0]
			}
		}
		g.auction = NewAuction(g)
	case PhaseProduction:
		g.auction = nil
		g.acted = make(map[int]bool)
		for _, p := range g.players {
			p.LastGoodsProduced = 0
		}
	case PhaseMarket:
		g.acted = make(map[int]bool)
	case PhaseEvents, PhaseFinish:
		g.auction = nil
		g.acted = nil
	}
}

// FinishPhase applies the exit effects of the current phase and moves on.
func (g *GameState) FinishPhase() (PhaseResult, error) {
	res := PhaseResult{From: g.phase}

	switch g.phase {
	case PhaseAuction:
		if g.auction != nil && !g.auction.Complete() {
			return PhaseResult{}, rejectf(ErrPhaseIncomplete, "auction still has movers")
		}
		res.StageChanged = g.finishAuction()
		g.phase = PhaseProduction
	case PhaseProduction:
		if g.lastTurn {
			g.phase = PhaseFinish
		} else {
			g.phase = PhaseMarket
		}
	case PhaseMarket:
		g.unavailable = ""
		g.phase = PhaseEvents
	case PhaseEvents:
		outcome := g.resolveEvent()
		res.Event = &outcome
		g.phase = PhaseAuction
		g.round++
	default:
		return PhaseResult{}, rejectf(ErrGameOver, "no phase after %s", g.phase)
	}

	g.PrepareForPhase()
	res.To = g.phase
	res.Stage = g.stage
	res.LastTurn = g.lastTurn

	g.log.Info("phase finished", "from", res.From.String(), "to", res.To.String(), "round", g.round, "stage", g.stage)
	g.notify(ChangePhase, 0)
	return res, nil
}

// finishAuction replenishes the markets, handles the stage transition and
// re-sorts turn order. It reports whether stage 2 began.
func (g *GameState) finishAuction() (stageChanged bool) {
	if g.stage == 1 && len(g.regularMarket) >= stage1RegularSlots && !g.movingToStage2 {
		g.reshufflePile = append(g.reshufflePile, g.regularMarket[0])
		g.regularMarket = g.regularMarket[1:]
		g.drawAsset(RegularMarket)
	}

	if g.stage == 2 {
		g.ageOut(RegularMarket, g.lowestRegular)
		g.ageOut(ManufacturingMarket, g.lowestMfg)
	}
	g.lowestRegular, g.lowestMfg = nil, nil

	if g.movingToStage2 && g.stage == 1 {
		g.enterStage2()
		stageChanged = true
	}

	sort.SliceStable(g.order, func(i, j int) bool {
		return g.players[g.order[i]].TotalAssetValue() > g.players[g.order[j]].TotalAssetValue()
	})
	g.checkEndGame()
	return stageChanged
}

// ageOut discards the market's cheapest asset if it was already the cheapest
// when the phase began, then draws a replacement.
func (g *GameState) ageOut(kind MarketKind, lowest *Asset) {
	m := g.marketSlice(kind)
	if lowest == nil || len(*m) == 0 || (*m)[0] != lowest {
		return
	}
	g.discardPile = append(g.discardPile, lowest)
	*m = (*m)[1:]
	g.drawAsset(kind)
	g.log.Debug("asset aged out", "market", kind.String(), "asset", lowest.String())
}

func (g *GameState) enterStage2() {
	g.stage = 2
	g.movingToStage2 = false

	g.regularDeck = append(g.regularDeck, shuffled(g.rng, g.reshufflePile)...)
	g.reshufflePile = nil

	g.regularDeck = g.purgeObsolete(g.regularDeck)
	g.regularMarket = g.purgeObsolete(g.regularMarket)

	for len(g.regularMarket) < stage2RegularSlots {
		if g.drawAsset(RegularMarket) {
			break
		}
	}
	for len(g.regularMarket) > stage2RegularSlots {
		g.discardPile = append(g.discardPile, g.regularMarket[0])
		g.regularMarket = g.regularMarket[1:]
	}
	for len(g.mfgMarket) < stage2ManufacturingSlots {
		if g.drawAsset(ManufacturingMarket) {
			break
		}
	}

	g.log.Info("stage 2 begins",
		"regular_deck", len(g.regularDeck),
		"regular_market", len(g.regularMarket),
		"manufacturing_market", len(g.mfgMarket),
	)
}

// purgeObsolete moves single-unit production and refining assets to the
// discard pile and returns what remains.
func (g *GameState) purgeObsolete(assets []*Asset) []*Asset {
	kept := assets[:0:0]
	for _, a := range assets {
		if a.Category() != Manufacturing && a.Output().Qty == 1 {
			g.discardPile = append(g.discardPile, a)
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// checkEndGame sets lastTurn once one player owns three manufacturing
// assets or two players own two each.
func (g *GameState) checkEndGame() {
	if g.lastTurn {
		return
	}
	withTwo := 0
	for _, p := range g.players {
		n := p.ManufacturingAssets()
		if n >= 3 {
			withTwo = 2
			break
		}
		if n >= 2 {
			withTwo++
		}
	}
	if withTwo >= 2 {
		g.lastTurn = true
		g.log.Info("end game triggered", "round", g.round)
	}
}

func (g *GameState) resolveEvent() EventOutcome {
	ev := g.events.Draw()
	from := g.economyLevel
	out := EventOutcome{Event: ev, Description: ev.String(), EconomyFrom: from}

	switch e := ev.Effect.(type) {
	case MarketDelta:
		if m, ok := g.markets[e.Commodity]; ok {
			m.Adjust(e.Delta)
		}
	case MarketUnavailable:
		g.unavailable = e.Commodity
	case EconomyShift:
		g.economyLevel = g.economy.Move(from, e.Delta)
	case StockpileTax, AssetCategoryTax, AssetOutputTax:
		out.MoneyChange = make(map[int]int, len(g.players))
		for _, id := range g.seats {
			if d := g.players[id].ApplyTax(e); d != 0 {
				out.MoneyChange[id] = d
			}
		}
	default:
		panicInvariant("events", "unhandled effect %T", ev.Effect)
	}

	level, _ := g.economy.Level(g.economyLevel)
	if g.economyLevel != from {
		out.Economy = level.Change
	} else {
		out.Economy = level.Steady
	}
	out.Economy.Apply(g.markets)
	out.EconomyTo = g.economyLevel

	g.events.Discard(ev)
	g.lastEvent = &out
	g.log.Info("event resolved", "event", out.Description, "economy_from", from, "economy_to", g.economyLevel)
	return out
}

// Player actions

func (g *GameState) auctionAction(playerID int, act func(*Auction) (AuctionResult, error)) (AuctionResult, error) {
	if g.phase != PhaseAuction || g.auction == nil {
		return AuctionResult{}, rejectf(ErrWrongPhase, "phase is %s", g.phase)
	}
	res, err := act(g.auction)
	if err != nil {
		return AuctionResult{}, err
	}
	g.notify(ChangeAuction, playerID)
	return res, nil
}

// SelectLot puts an asset up for auction.
func (g *GameState) SelectLot(playerID int, lot Lot) (AuctionResult, error) {
	return g.auctionAction(playerID, func(a *Auction) (AuctionResult, error) { return a.Select(playerID, lot) })
}

// CancelLot withdraws the selected asset before any bid.
func (g *GameState) CancelLot(playerID int) (AuctionResult, error) {
	return g.auctionAction(playerID, func(a *Auction) (AuctionResult, error) { return a.Cancel(playerID) })
}

// PlaceBid opens or raises the bid on the selected asset.
func (g *GameState) PlaceBid(playerID, amount int) (AuctionResult, error) {
	return g.auctionAction(playerID, func(a *Auction) (AuctionResult, error) { return a.Bid(playerID, amount) })
}

// PassAuction passes the player's move or bid.
func (g *GameState) PassAuction(playerID int) (AuctionResult, error) {
	return g.auctionAction(playerID, func(a *Auction) (AuctionResult, error) { return a.Pass(playerID) })
}

// ProducibleAssets lists owned asset indices the player may select.
func (g *GameState) ProducibleAssets(playerID int) ([]int, error) {
	p, ok := g.players[playerID]
	if !ok {
		return nil, rejectf(ErrUnknownPlayer, "player %d", playerID)
	}
	buy, _ := g.EnergyPrices()
	return p.AssetsThatCanProduce(buy), nil
}

// ProduceAssets runs the selected owned assets (by index) for one player.
// Each player produces once per Production phase.
func (g *GameState) ProduceAssets(playerID int, indices []int) (ProductionResult, error) {
	if g.phase != PhaseProduction {
		return ProductionResult{}, rejectf(ErrWrongPhase, "phase is %s", g.phase)
	}
	p, ok := g.players[playerID]
	if !ok {
		return ProductionResult{}, rejectf(ErrUnknownPlayer, "player %d", playerID)
	}
	if g.acted[playerID] {
		return ProductionResult{}, rejectf(ErrAlreadyActed, "player %d", playerID)
	}

	seen := make(map[int]bool, len(indices))
	selected := make([]*Asset, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(p.Assets) || seen[i] {
			return ProductionResult{}, rejectf(ErrInvalidSelection, "asset index %d", i)
		}
		seen[i] = true
		selected = append(selected, p.Assets[i])
	}

	buy, sell := g.EnergyPrices()
	res := p.Produce(selected, buy, sell)

	goods := 0
	for i, sel := range res.Produced {
		a := selected[sel]
		if a.Output().Commodity == Goods {
			goods += a.Output().Qty
		}
		res.Produced[i] = indices[sel]
	}
	sort.Ints(res.Produced)

	p.Stockpile = res.Stockpile.Clone()
	p.Money = res.Money
	p.LastGoodsProduced = goods
	g.acted[playerID] = true

	g.log.Info("production resolved", "player", playerID, "ran", len(res.Produced), "goods", goods, "money", p.Money)
	g.notify(ChangeProduction, playerID)
	return res, nil
}

// RequiredCommodities is the purchase recommendation for a player.
func (g *GameState) RequiredCommodities(playerID int) (Stockpile, error) {
	p, ok := g.players[playerID]
	if !ok {
		return nil, rejectf(ErrUnknownPlayer, "player %d", playerID)
	}
	return p.RequiredCommodities(), nil
}

// MarketTurn is the player due to trade, 0 once everyone has traded or
// outside the Market phase. Players trade in reverse turn order.
func (g *GameState) MarketTurn() int {
	if g.phase != PhaseMarket {
		return 0
	}
	for i := len(g.order) - 1; i >= 0; i-- {
		if id := g.order[i]; !g.acted[id] {
			return id
		}
	}
	return 0
}

// TradeResult is the outcome of a commodity order.
type TradeResult struct {
	// Cost is the net amount paid; negative when the player sold more than bought.
	Cost  int `json:"cost"`
	Money int `json:"money"`
}

// BuyCommodities settles one player's whole order for the Market phase.
// Positive quantities buy from the market, negative quantities sell to it.
// An empty order passes. The order is validated in full before anything
// changes.
func (g *GameState) BuyCommodities(playerID int, order map[Commodity]int) (TradeResult, error) {
	if g.phase != PhaseMarket {
		return TradeResult{}, rejectf(ErrWrongPhase, "phase is %s", g.phase)
	}
	p, ok := g.players[playerID]
	if !ok {
		return TradeResult{}, rejectf(ErrUnknownPlayer, "player %d", playerID)
	}
	if g.acted[playerID] {
		return TradeResult{}, rejectf(ErrAlreadyActed, "player %d", playerID)
	}
	if turn := g.MarketTurn(); turn != playerID {
		return TradeResult{}, rejectf(ErrNotYourTurn, "player %d is due to trade", turn)
	}

	for c := range order {
		if !c.Valid() {
			return TradeResult{}, rejectf(ErrInvalidTrade, "unknown commodity %q", c)
		}
	}

	cost := 0
	for _, c := range AllCommodities {
		n := order[c]
		if n == 0 {
			continue
		}
		if c == g.unavailable {
			return TradeResult{}, rejectf(ErrMarketUnavailable, "%s", c.DisplayName())
		}
		m, ok := g.markets[c]
		if !ok {
			return TradeResult{}, rejectf(ErrInvalidTrade, "no market for %s", c.DisplayName())
		}
		price, ok := m.TotalPriceForBuying(n)
		if !ok {
			return TradeResult{}, rejectf(ErrInvalidTrade, "market cannot take %s %s", c.DisplayName(), signed(-n))
		}
		if p.Stockpile.Get(c)+n < 0 {
			return TradeResult{}, rejectf(ErrInvalidTrade, "player %d holds %d %s", playerID, p.Stockpile.Get(c), c.DisplayName())
		}
		cost += price
	}
	if cost > p.Money {
		return TradeResult{}, rejectf(ErrInsufficientFunds, "order costs %d, player has %d", cost, p.Money)
	}

	for _, c := range AllCommodities {
		if n := order[c]; n != 0 {
			g.markets[c].take(n)
			p.Stockpile.Add(c, n)
		}
	}
	p.Money -= cost
	g.acted[playerID] = true

	g.log.Info("trade settled", "player", playerID, "cost", cost, "money", p.Money)
	g.notify(ChangeTrade, playerID)
	return TradeResult{Cost: cost, Money: p.Money}, nil
}

// Scoring

// Standing is one line of the final ranking.
type Standing struct {
	Player        int    `json:"player"`
	Name          string `json:"name"`
	GoodsProduced int    `json:"goods_produced"`
	AssetValue    int    `json:"asset_value"`
	Money         int    `json:"money"`
}

// Standings ranks players by goods produced in the last round; ties go to
// the player with the lower total asset value.
func (g *GameState) Standings() []Standing {
	out := make([]Standing, 0, len(g.seats))
	for _, p := range g.Players() {
		out = append(out, Standing{
			Player:        p.ID,
			Name:          p.Name,
			GoodsProduced: p.LastGoodsProduced,
			AssetValue:    p.TotalAssetValue(),
			Money:         p.Money,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GoodsProduced != out[j].GoodsProduced {
			return out[i].GoodsProduced > out[j].GoodsProduced
		}
		return out[i].AssetValue < out[j].AssetValue
	})
	return out
}

func (g *GameState) String() string {
	return fmt.Sprintf("game %s round %d stage %d phase %s", g.ID, g.round, g.stage, g.phase)
}
