/*
Package game
File: auction.go
Description:
    The auction protocol for buying assets.

    Idle      -> the mover passes (done for this phase) or selects a lot.
    Selecting -> the mover cancels or places the opening bid.
    Bidding   -> the bidder in turn raises or passes. When the turn comes back
                 to the high bidder, that player wins the lot.
    Complete  -> every player in turn order has passed or won.

    Each player wins at most one lot per auction phase.
*/

package game

import "fmt"

// MarketKind selects one of the two asset markets.
type MarketKind int

const (
	RegularMarket MarketKind = iota
	ManufacturingMarket
)

func (k MarketKind) String() string {
	if k == ManufacturingMarket {
		return "manufacturing"
	}
	return "regular"
}

func (k MarketKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *MarketKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "regular":
		*k = RegularMarket
	case "manufacturing":
		*k = ManufacturingMarket
	default:
		return fmt.Errorf("unknown asset market %q", b)
	}
	return nil
}

// Lot addresses an asset slot in an auction market.
type Lot struct {
	Market MarketKind `json:"market"`
	Index  int        `json:"index"`
}

// AuctionHost is what the auction needs from the game.
type AuctionHost interface {
	Player(id int) (*Player, bool)
	// TurnOrder is the order movers are offered the auction.
	TurnOrder() []int
	// Seats is the fixed seating order bidding rotates through.
	Seats() []int
	LotAsset(lot Lot) (*Asset, bool)
	// AwardLot transfers the asset and charges the price.
	AwardLot(lot Lot, playerID, price int) error
}

// AuctionState is the protocol state.
type AuctionState int

const (
	AuctionIdle AuctionState = iota
	AuctionSelecting
	AuctionBidding
	AuctionComplete
)

func (s AuctionState) String() string {
	switch s {
	case AuctionIdle:
		return "idle"
	case AuctionSelecting:
		return "selecting"
	case AuctionBidding:
		return "bidding"
	case AuctionComplete:
		return "complete"
	default:
		return "unknown"
	}
}

func (s AuctionState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Bid is a standing offer. Player 0 means no bid.
type Bid struct {
	Player int `json:"player"`
	Amount int `json:"amount"`
}

// Award describes a completed sale.
type Award struct {
	Player int    `json:"player"`
	Price  int    `json:"price"`
	Lot    Lot    `json:"lot"`
	Asset  *Asset `json:"-"`
}

// AuctionResult is the protocol position after an accepted action.
type AuctionResult struct {
	State  AuctionState `json:"state"`
	Mover  int          `json:"mover"`
	Bidder int          `json:"bidder"`
	High   Bid          `json:"high"`
	Award  *Award       `json:"award,omitempty"`
}

// Auction runs one auction phase.
type Auction struct {
	host     AuctionHost
	state    AuctionState
	mover    int
	bidder   int
	lot      Lot
	asset    *Asset
	high     Bid
	finished map[int]bool
	passed   map[int]bool
}

// NewAuction opens the phase with the first player in turn order.
func NewAuction(host AuctionHost) *Auction {
	a := &Auction{
		host:     host,
		finished: make(map[int]bool),
		passed:   make(map[int]bool),
	}
	a.nextMover()
	return a
}

func (a *Auction) State() AuctionState { return a.state }
func (a *Auction) Mover() int          { return a.mover }
func (a *Auction) Bidder() int         { return a.bidder }
func (a *Auction) HighBid() Bid        { return a.high }
func (a *Auction) Complete() bool      { return a.state == AuctionComplete }

// Selected returns the lot under auction, if any.
func (a *Auction) Selected() (Lot, *Asset, bool) {
	if a.asset == nil {
		return Lot{}, nil, false
	}
	return a.lot, a.asset, true
}

// Finished reports whether a player is done for this phase.
func (a *Auction) Finished(id int) bool { return a.finished[id] }

// InBidding lists seats still able to bid on the current lot.
func (a *Auction) InBidding() []int {
	if a.state != AuctionSelecting && a.state != AuctionBidding {
		return nil
	}
	var out []int
	for _, id := range a.host.Seats() {
		if !a.finished[id] && !a.passed[id] {
			out = append(out, id)
		}
	}
	return out
}

func (a *Auction) result(award *Award) AuctionResult {
	return AuctionResult{State: a.state, Mover: a.mover, Bidder: a.bidder, High: a.high, Award: award}
}

// Select puts a lot up for auction on behalf of the mover.
func (a *Auction) Select(playerID int, lot Lot) (AuctionResult, error) {
	if a.state != AuctionIdle {
		return AuctionResult{}, rejectf(ErrWrongPhase, "cannot select a lot while %s", a.state)
	}
	if playerID != a.mover {
		return AuctionResult{}, rejectf(ErrNotYourTurn, "player %d is not the mover", playerID)
	}
	p, ok := a.host.Player(playerID)
	if !ok {
		return AuctionResult{}, rejectf(ErrUnknownPlayer, "player %d", playerID)
	}
	asset, ok := a.host.LotAsset(lot)
	if !ok {
		return AuctionResult{}, rejectf(ErrInvalidLot, "%s market slot %d", lot.Market, lot.Index)
	}
	if p.HasMaximumAssets() {
		return AuctionResult{}, rejectf(ErrAssetLimit, "player %d owns %d assets", playerID, len(p.Assets))
	}
	if p.Money < asset.Value() {
		return AuctionResult{}, rejectf(ErrInsufficientFunds, "player %d has %d, asset costs %d", playerID, p.Money, asset.Value())
	}

	a.state = AuctionSelecting
	a.lot = lot
	a.asset = asset
	a.bidder = playerID
	a.high = Bid{}
	a.passed = make(map[int]bool)
	return a.result(nil), nil
}

// Cancel withdraws a selected lot before any bid.
func (a *Auction) Cancel(playerID int) (AuctionResult, error) {
	if a.state != AuctionSelecting {
		return AuctionResult{}, rejectf(ErrWrongPhase, "nothing to cancel while %s", a.state)
	}
	if playerID != a.mover {
		return AuctionResult{}, rejectf(ErrNotYourTurn, "player %d is not the mover", playerID)
	}
	a.clearLot()
	a.state = AuctionIdle
	return a.result(nil), nil
}

// Bid places the opening bid (Selecting) or a raise (Bidding).
func (a *Auction) Bid(playerID, amount int) (AuctionResult, error) {
	switch a.state {
	case AuctionSelecting, AuctionBidding:
	default:
		return AuctionResult{}, rejectf(ErrWrongPhase, "no lot is up for bidding")
	}
	if playerID != a.bidder {
		return AuctionResult{}, rejectf(ErrNotYourTurn, "player %d is not the bidder", playerID)
	}
	p, ok := a.host.Player(playerID)
	if !ok {
		return AuctionResult{}, rejectf(ErrUnknownPlayer, "player %d", playerID)
	}

	minimum := a.asset.Value()
	if a.state == AuctionBidding {
		minimum = a.high.Amount + 1
	}
	if amount < minimum {
		return AuctionResult{}, rejectf(ErrInvalidBid, "bid %d below minimum %d", amount, minimum)
	}
	if amount > p.Money {
		return AuctionResult{}, rejectf(ErrInsufficientFunds, "player %d has %d, bid is %d", playerID, p.Money, amount)
	}

	a.high = Bid{Player: playerID, Amount: amount}
	a.state = AuctionBidding
	award := a.advanceBidder()
	return a.result(award), nil
}

// Pass ends the mover's auction phase (Idle), cancels a selection
// (Selecting) or drops the bidder out of the current lot (Bidding).
func (a *Auction) Pass(playerID int) (AuctionResult, error) {
	switch a.state {
	case AuctionIdle:
		if playerID != a.mover {
			return AuctionResult{}, rejectf(ErrNotYourTurn, "player %d is not the mover", playerID)
		}
		a.finished[playerID] = true
		a.nextMover()
		return a.result(nil), nil
	case AuctionSelecting:
		return a.Cancel(playerID)
	case AuctionBidding:
		if playerID != a.bidder {
			return AuctionResult{}, rejectf(ErrNotYourTurn, "player %d is not the bidder", playerID)
		}
		a.passed[playerID] = true
		award := a.advanceBidder()
		return a.result(award), nil
	default:
		return AuctionResult{}, rejectf(ErrWrongPhase, "auction is complete")
	}
}

// canBid reports whether a seat may still raise; broke or capped players are
// marked passed as a side effect.
func (a *Auction) canBid(id int) bool {
	if a.finished[id] || a.passed[id] {
		return false
	}
	p, ok := a.host.Player(id)
	if !ok {
		return false
	}
	if p.Money <= a.high.Amount || p.HasMaximumAssets() {
		a.passed[id] = true
		return false
	}
	return true
}

// advanceBidder rotates to the next eligible seat. Arriving back at the high
// bidder closes the lot.
func (a *Auction) advanceBidder() *Award {
	seats := a.host.Seats()
	idx := indexOf(seats, a.bidder)
	if idx < 0 {
		panicInvariant("auction", "bidder %d is not seated", a.bidder)
	}
	for range seats {
		idx = (idx + 1) % len(seats)
		id := seats[idx]
		if id == a.high.Player {
			return a.closeLot()
		}
		if a.canBid(id) {
			a.bidder = id
			return nil
		}
	}
	panicInvariant("auction", "high bidder %d is not seated", a.high.Player)
	return nil
}

func (a *Auction) closeLot() *Award {
	award := &Award{Player: a.high.Player, Price: a.high.Amount, Lot: a.lot, Asset: a.asset}
	if err := a.host.AwardLot(a.lot, award.Player, award.Price); err != nil {
		panicInvariant("auction", "award of %s failed: %v", a.asset, err)
	}
	a.finished[award.Player] = true
	a.clearLot()
	a.nextMover()
	return award
}

func (a *Auction) clearLot() {
	a.lot = Lot{}
	a.asset = nil
	a.high = Bid{}
	a.bidder = 0
	a.passed = make(map[int]bool)
}

func (a *Auction) nextMover() {
	a.clearLot()
	for _, id := range a.host.TurnOrder() {
		if !a.finished[id] {
			a.mover = id
			a.state = AuctionIdle
			return
		}
	}
	a.mover = 0
	a.state = AuctionComplete
}

func indexOf(ids []int, id int) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
