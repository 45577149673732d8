package payout

import (
	"errors"
	"time"

	"entertablock.io/internal/registry"
)

// Direction is relative to the registry: in is a deposit, out a withdrawal.
type Direction string

const (
	DirectionIn   Direction = "in"
	DirectionOut  Direction = "out"
	DirectionFund Direction = "fund"
)

// Transfer is one journaled movement of native units.
type Transfer struct {
	ID        string            `json:"id"`
	Sequence  uint64            `json:"sequence"`
	CreatedAt time.Time         `json:"created_at"`
	Direction Direction         `json:"direction"`
	Identity  registry.Identity `json:"identity"`
	Amount    int64             `json:"amount"`
}

var (
	ErrInvalidAmount     = errors.New("payout: invalid amount (must be > 0)")
	ErrInvalidIdentity   = errors.New("payout: identity is required")
	ErrInsufficientFunds = errors.New("payout: insufficient funds")
)
