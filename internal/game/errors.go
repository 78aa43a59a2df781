/*
Package game
File: errors.go
Description:
    Error classes used by the engine.

    1. Load errors wrap ErrInvalidCatalog and abort game creation.
    2. Rejected player actions wrap one of the sentinels below. A rejected
       action never changes state.
    3. Invariant violations are logic bugs. They panic with *InvariantError.
*/

package game

import (
	"errors"
	"fmt"
)

// ErrInvalidCatalog wraps every catalog validation failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

// ErrInvalidConfig wraps game configuration failures.
var ErrInvalidConfig = errors.New("invalid game config")

// Rejections. These are ordinary outcomes of bad user input.
var (
	ErrWrongPhase        = errors.New("action not allowed in this phase")
	ErrNotYourTurn       = errors.New("not this player's turn")
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAssetLimit        = errors.New("asset limit reached")
	ErrInvalidBid        = errors.New("invalid bid")
	ErrInvalidLot        = errors.New("invalid auction lot")
	ErrAlreadyActed      = errors.New("player already acted this phase")
	ErrInvalidTrade      = errors.New("invalid trade")
	ErrMarketUnavailable = errors.New("market unavailable this turn")
	ErrInvalidSelection  = errors.New("invalid asset selection")
	ErrPhaseIncomplete   = errors.New("phase is not complete")
	ErrGameOver          = errors.New("game is over")
)

// InvariantError reports a broken engine invariant. It is only ever raised
// through panic.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated in %s: %s", e.Op, e.Detail)
}

func panicInvariant(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)})
}

func rejectf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
