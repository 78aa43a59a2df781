package game

import (
	"fmt"
	"log/slog"
	"strings"
)

const (
	MinPlayers           = 2
	MaxPlayers           = 6
	DefaultStartingMoney = 30
)

// GameConfig describes one game session.
type GameConfig struct {
	// Players holds display names in seat order. Blank names become "Player N".
	Players       []string
	StartingMoney int
	// Seed makes deck and event shuffles reproducible. Zero picks a time seed.
	Seed int64
	// Shuffler overrides the seeded generator when set.
	Shuffler Shuffler
	Logger   *slog.Logger
}

func (c GameConfig) Validate() error {
	if len(c.Players) < MinPlayers || len(c.Players) > MaxPlayers {
		return fmt.Errorf("%w: player count must be between %d and %d, got %d", ErrInvalidConfig, MinPlayers, MaxPlayers, len(c.Players))
	}
	if c.StartingMoney < 0 {
		return fmt.Errorf("%w: starting money must not be negative, got %d", ErrInvalidConfig, c.StartingMoney)
	}
	return nil
}

func (c GameConfig) playerName(i int) string {
	if name := strings.TrimSpace(c.Players[i]); name != "" {
		return name
	}
	return fmt.Sprintf("Player %d", i+1)
}
