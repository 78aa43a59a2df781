package game

import (
	"slices"
	"testing"
)

// tableHost is an AuctionHost over a plain list of lots.
type tableHost struct {
	players map[int]*Player
	order   []int
	seats   []int
	lots    []*Asset
	awards  []Award
}

func newTableHost(t *testing.T, money ...int) *tableHost {
	t.Helper()
	h := &tableHost{players: map[int]*Player{}}
	for i, m := range money {
		id := i + 1
		h.players[id] = NewPlayer(id, "", m)
		h.order = append(h.order, id)
		h.seats = append(h.seats, id)
	}
	h.lots = []*Asset{
		mustAsset(t, 1, 10, qty(Timber, 2)),
		mustAsset(t, 2, 15, qty(Oil, 2)),
	}
	return h
}

func (h *tableHost) Player(id int) (*Player, bool) {
	p, ok := h.players[id]
	return p, ok
}

func (h *tableHost) TurnOrder() []int { return h.order }
func (h *tableHost) Seats() []int     { return h.seats }

func (h *tableHost) LotAsset(lot Lot) (*Asset, bool) {
	if lot.Market != RegularMarket || lot.Index < 0 || lot.Index >= len(h.lots) {
		return nil, false
	}
	return h.lots[lot.Index], true
}

func (h *tableHost) AwardLot(lot Lot, playerID, price int) error {
	a := h.lots[lot.Index]
	p := h.players[playerID]
	p.addAsset(a)
	p.Money -= price
	h.lots = slices.Delete(h.lots, lot.Index, lot.Index+1)
	h.awards = append(h.awards, Award{Player: playerID, Price: price, Lot: lot, Asset: a})
	return nil
}

// mustAct wraps an auction call: mustAct(t)(a.Bid(1, 10)).
func mustAct(t *testing.T) func(AuctionResult, error) AuctionResult {
	return func(res AuctionResult, err error) AuctionResult {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected rejection: %v", err)
		}
		return res
	}
}

func TestAuctionHighestBidderWins(t *testing.T) {
	h := newTableHost(t, 30, 30, 30, 30)
	a := NewAuction(h)
	lot := Lot{Market: RegularMarket, Index: 0}

	mustAct(t)(a.Select(1, lot))
	mustAct(t)(a.Bid(1, 10))
	mustAct(t)(a.Bid(2, 11))
	mustAct(t)(a.Pass(3))
	mustAct(t)(a.Pass(4))
	res := mustAct(t)(a.Pass(1))

	if res.Award == nil || res.Award.Player != 2 || res.Award.Price != 11 {
		t.Fatalf("expected player 2 to win at 11, got %+v", res.Award)
	}
	if h.players[1].Money != 30 {
		t.Fatalf("loser must keep their money, got %d", h.players[1].Money)
	}
	if h.players[2].Money != 19 || len(h.players[2].Assets) != 1 {
		t.Fatalf("winner must pay 11 and own the asset, got money %d assets %d", h.players[2].Money, len(h.players[2].Assets))
	}
	if !a.Finished(2) || a.Finished(1) {
		t.Fatalf("only the winner is done for the phase")
	}
	if a.State() != AuctionIdle || a.Mover() != 1 {
		t.Fatalf("player 1 should move again, got %s mover %d", a.State(), a.Mover())
	}
}

func TestAuctionRejectsOutOfTurnAndLowBids(t *testing.T) {
	h := newTableHost(t, 30, 30, 30)
	a := NewAuction(h)
	lot := Lot{Market: RegularMarket, Index: 0}

	_, err := a.Select(2, lot)
	expectRejected(t, err, ErrNotYourTurn)
	_, err = a.Bid(1, 10)
	expectRejected(t, err, ErrWrongPhase)
	_, err = a.Select(1, Lot{Market: RegularMarket, Index: 7})
	expectRejected(t, err, ErrInvalidLot)

	mustAct(t)(a.Select(1, lot))
	_, err = a.Bid(1, 9)
	expectRejected(t, err, ErrInvalidBid)
	_, err = a.Bid(1, 31)
	expectRejected(t, err, ErrInsufficientFunds)

	mustAct(t)(a.Bid(1, 12))
	_, err = a.Bid(2, 12)
	expectRejected(t, err, ErrInvalidBid)
	_, err = a.Bid(3, 13)
	expectRejected(t, err, ErrNotYourTurn)

	if a.HighBid() != (Bid{Player: 1, Amount: 12}) || a.Bidder() != 2 {
		t.Fatalf("rejections must not change the auction, got high %+v bidder %d", a.HighBid(), a.Bidder())
	}
}

func TestAuctionCancelAndPassWhileSelecting(t *testing.T) {
	h := newTableHost(t, 30, 30)
	a := NewAuction(h)

	mustAct(t)(a.Select(1, Lot{Market: RegularMarket, Index: 1}))
	res := mustAct(t)(a.Cancel(1))
	if res.State != AuctionIdle || res.Mover != 1 {
		t.Fatalf("cancel returns to idle with the same mover, got %+v", res)
	}
	if _, _, ok := a.Selected(); ok {
		t.Fatalf("cancel must clear the lot")
	}

	mustAct(t)(a.Select(1, Lot{Market: RegularMarket, Index: 0}))
	res = mustAct(t)(a.Pass(1))
	if res.State != AuctionIdle || a.Finished(1) {
		t.Fatalf("passing while selecting only cancels, got %+v", res)
	}
}

func TestAuctionSkipsBrokeBidders(t *testing.T) {
	h := newTableHost(t, 30, 5, 30)
	a := NewAuction(h)

	mustAct(t)(a.Select(1, Lot{Market: RegularMarket, Index: 0}))
	res := mustAct(t)(a.Bid(1, 10))
	if res.Bidder != 3 {
		t.Fatalf("player 2 cannot beat 10 with 5 and must be skipped, got bidder %d", res.Bidder)
	}
	res = mustAct(t)(a.Pass(3))
	if res.Award == nil || res.Award.Player != 1 || res.Award.Price != 10 {
		t.Fatalf("expected opening bidder to win at 10, got %+v", res.Award)
	}
}

func TestAuctionSelectRequiresMeans(t *testing.T) {
	h := newTableHost(t, 9, 30)
	a := NewAuction(h)
	_, err := a.Select(1, Lot{Market: RegularMarket, Index: 0})
	expectRejected(t, err, ErrInsufficientFunds)

	capped := newTableHost(t, 100, 30)
	for i := 0; i < MaxAssets; i++ {
		capped.players[1].addAsset(mustAsset(t, 50+i, 1, qty(Timber, 1)))
	}
	a = NewAuction(capped)
	_, err = a.Select(1, Lot{Market: RegularMarket, Index: 0})
	expectRejected(t, err, ErrAssetLimit)
}

func TestAuctionCompletesWhenEveryoneIsDone(t *testing.T) {
	h := newTableHost(t, 30, 30, 30)
	a := NewAuction(h)

	// Player 1 buys unopposed, then everyone else passes.
	mustAct(t)(a.Select(1, Lot{Market: RegularMarket, Index: 0}))
	mustAct(t)(a.Bid(1, 10))
	mustAct(t)(a.Pass(2))
	res := mustAct(t)(a.Pass(3))
	if res.Award == nil || res.Mover != 2 {
		t.Fatalf("expected award and player 2 to move, got %+v", res)
	}
	mustAct(t)(a.Pass(2))
	res = mustAct(t)(a.Pass(3))
	if !a.Complete() || res.State != AuctionComplete {
		t.Fatalf("expected auction complete, got %s", res.State)
	}
	_, err := a.Pass(1)
	expectRejected(t, err, ErrWrongPhase)

	if len(h.awards) != 1 || len(h.lots) != 1 {
		t.Fatalf("expected exactly one lot sold, got %d awards", len(h.awards))
	}
}

func TestAuctionBiddingFollowsSeatsNotTurnOrder(t *testing.T) {
	h := newTableHost(t, 30, 30, 30)
	h.order = []int{3, 1, 2}
	a := NewAuction(h)
	if a.Mover() != 3 {
		t.Fatalf("expected player 3 to move first, got %d", a.Mover())
	}

	mustAct(t)(a.Select(3, Lot{Market: RegularMarket, Index: 0}))
	res := mustAct(t)(a.Bid(3, 10))
	if res.Bidder != 1 {
		t.Fatalf("bidding wraps from seat 3 to seat 1, got %d", res.Bidder)
	}
	res = mustAct(t)(a.Pass(1))
	if res.Bidder != 2 {
		t.Fatalf("expected seat 2 next, got %d", res.Bidder)
	}
	if got := a.InBidding(); !slices.Equal(got, []int{2, 3}) {
		t.Fatalf("expected 2 and 3 still bidding, got %v", got)
	}
}
