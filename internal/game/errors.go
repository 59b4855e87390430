// Package game defines the contract shared by the three game engines and
// the registry the API lists them through.
package game

import "errors"

// Errors shared by the stake-consuming engines.
var (
	// ErrInsufficientFunds is returned when a stake would drive the balance
	// negative. Nothing is mutated and no randomness is drawn on this path.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidConfiguration marks a structurally invalid catalog, crate
	// or game parameter. It is a programming/configuration error, not a
	// normal player-facing outcome.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
