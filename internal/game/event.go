/*
Package game
File: event.go
Description:
    Economic event cards and the event deck.

    Each event carries exactly one effect. The deck is drawn without
    replacement; when it runs dry the discard pile is shuffled back in.
*/

package game

import "fmt"

// EventEffect is the payload of an event card. Implementations are the
// types declared in this file.
type EventEffect interface {
	Description() string
	isEventEffect()
}

// MarketDelta adds (or removes) units to a commodity market.
type MarketDelta struct {
	Commodity Commodity `json:"commodity"`
	Delta     int       `json:"delta"`
}

// MarketUnavailable closes a market for the following Market phase.
type MarketUnavailable struct {
	Commodity Commodity `json:"commodity"`
}

// EconomyShift moves the economy level.
type EconomyShift struct {
	Delta int `json:"delta"`
}

// StockpileTax pays Amount per stockpiled unit (negative Amount is a tax).
type StockpileTax struct {
	Amount int `json:"amount"`
}

// AssetCategoryTax pays Amount per owned asset of a category.
type AssetCategoryTax struct {
	Category AssetCategory `json:"category"`
	Amount   int           `json:"amount"`
}

// AssetOutputTax pays Amount per owned asset producing Output.
type AssetOutputTax struct {
	Output Commodity `json:"output"`
	Amount int       `json:"amount"`
}

func (MarketDelta) isEventEffect()       {}
func (MarketUnavailable) isEventEffect() {}
func (EconomyShift) isEventEffect()      {}
func (StockpileTax) isEventEffect()      {}
func (AssetCategoryTax) isEventEffect()  {}
func (AssetOutputTax) isEventEffect()    {}

func (e MarketDelta) Description() string {
	return fmt.Sprintf("%s %s", e.Commodity.DisplayName(), signed(e.Delta))
}

func (e MarketUnavailable) Description() string {
	return fmt.Sprintf("%s market unavailable next turn.", e.Commodity.DisplayName())
}

func (e EconomyShift) Description() string {
	return fmt.Sprintf("Economy %s", signed(e.Delta))
}

func (e StockpileTax) Description() string {
	return fmt.Sprintf("%s per stockpiled commodity", money(e.Amount))
}

func (e AssetCategoryTax) Description() string {
	return fmt.Sprintf("%s per %s asset", money(e.Amount), e.Category)
}

func (e AssetOutputTax) Description() string {
	return fmt.Sprintf("%s per %s producing asset", money(e.Amount), e.Output.DisplayName())
}

func signed(v int) string {
	if v > 0 {
		return fmt.Sprintf("+%d", v)
	}
	return fmt.Sprintf("%d", v)
}

func money(v int) string {
	if v < 0 {
		return fmt.Sprintf("-$%d", -v)
	}
	return fmt.Sprintf("+$%d", v)
}

// Event is a card in the event deck.
type Event struct {
	Title  string
	Effect EventEffect
}

// NewEvent validates the effect payload.
func NewEvent(title string, effect EventEffect) (Event, error) {
	switch e := effect.(type) {
	case MarketDelta:
		if !e.Commodity.Valid() || e.Commodity.IsVirtual() {
			return Event{}, fmt.Errorf("market delta on invalid commodity %q", e.Commodity)
		}
		if e.Delta == 0 {
			return Event{}, fmt.Errorf("market delta for %s is zero", e.Commodity)
		}
	case MarketUnavailable:
		if !e.Commodity.Valid() || e.Commodity.IsVirtual() {
			return Event{}, fmt.Errorf("unavailable market %q is not tradeable", e.Commodity)
		}
	case EconomyShift:
		if e.Delta == 0 {
			return Event{}, fmt.Errorf("economy shift is zero")
		}
	case StockpileTax:
	case AssetCategoryTax:
		if e.Category < Production || e.Category > Manufacturing {
			return Event{}, fmt.Errorf("unknown asset category %d", e.Category)
		}
	case AssetOutputTax:
		if !e.Output.Valid() {
			return Event{}, fmt.Errorf("unknown output commodity %q", e.Output)
		}
	case nil:
		return Event{}, fmt.Errorf("event has no effect")
	default:
		return Event{}, fmt.Errorf("unsupported event effect %T", effect)
	}
	return Event{Title: title, Effect: effect}, nil
}

// Description is the effect line shown to players.
func (e Event) Description() string {
	if e.Effect == nil {
		return ""
	}
	return e.Effect.Description()
}

func (e Event) String() string {
	if e.Title == "" {
		return e.Description()
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Description())
}

// EventDeck is a draw pile plus discard pile.
type EventDeck struct {
	draw    []Event
	discard []Event
	rng     Shuffler
}

// NewEventDeck shuffles the definitions into a fresh draw pile.
func NewEventDeck(events []Event, rng Shuffler) *EventDeck {
	return &EventDeck{draw: shuffled(rng, events), rng: rng}
}

func (d *EventDeck) Remaining() int { return len(d.draw) }
func (d *EventDeck) Discarded() int { return len(d.discard) }

// Draw takes the top card, reshuffling the discard pile first if needed.
// Running out of both piles is a configuration bug.
func (d *EventDeck) Draw() Event {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			panicInvariant("event deck", "draw and discard piles are both empty")
		}
		d.draw = shuffled(d.rng, d.discard)
		d.discard = nil
	}
	ev := d.draw[0]
	d.draw = d.draw[1:]
	return ev
}

// Discard puts a resolved card on the discard pile.
func (d *EventDeck) Discard(ev Event) {
	d.discard = append(d.discard, ev)
}
