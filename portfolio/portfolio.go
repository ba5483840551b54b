// Package portfolio is the cash and position ledger for a single-instrument
// spot account. Fills are immediate and final; there is no margin, no
// shorting, and no partial-fill bookkeeping.
package portfolio

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientFunds means a buy's cost exceeds available cash. The
	// engine derives quantities from available cash, so hitting this
	// indicates a sizing defect upstream and the run must stop.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrOverSell means a sell's quantity exceeds the held position.
	// Accepting it would leave a negative holding, so the run must stop.
	ErrOverSell = errors.New("oversell")
)

// costTolerance absorbs the one-ulp rounding that derived quantities can
// carry: quantity = cash*multiplier/price can round so that
// quantity*price lands a hair above cash.
const costTolerance = 1e-9

// Portfolio tracks cash and position size. Both are never negative after a
// successful execution. The zero value is an empty account; use New to
// fund one.
type Portfolio struct {
	cash     float64
	position float64
}

// New returns a portfolio funded with startingCash and no position.
func New(startingCash float64) *Portfolio {
	return &Portfolio{cash: startingCash}
}

func (p *Portfolio) Cash() float64     { return p.cash }
func (p *Portfolio) Position() float64 { return p.position }

// ExecuteBuy debits quantity*price from cash and credits quantity to the
// position. Quantity and price must be positive and the cost must not
// exceed available cash.
func (p *Portfolio) ExecuteBuy(quantity, price float64) error {
	if quantity <= 0 || price <= 0 {
		return fmt.Errorf("buy: quantity and price must be positive (qty=%v price=%v)", quantity, price)
	}
	cost := quantity * price
	if cost > p.cash+costTolerance {
		return fmt.Errorf("%w: cost %.6f exceeds cash %.6f", ErrInsufficientFunds, cost, p.cash)
	}
	p.cash -= cost
	if p.cash < 0 {
		p.cash = 0
	}
	p.position += quantity
	return nil
}

// ExecuteSell credits quantity*price to cash and debits quantity from the
// position. Quantity must not exceed the held position.
func (p *Portfolio) ExecuteSell(quantity, price float64) error {
	if quantity <= 0 || price <= 0 {
		return fmt.Errorf("sell: quantity and price must be positive (qty=%v price=%v)", quantity, price)
	}
	if quantity > p.position+costTolerance {
		return fmt.Errorf("%w: quantity %.6f exceeds position %.6f", ErrOverSell, quantity, p.position)
	}
	p.position -= quantity
	if p.position < 0 {
		p.position = 0
	}
	p.cash += quantity * price
	return nil
}

// MarkToMarket values the account at price: cash plus position at the
// current close. No side effects.
func (p *Portfolio) MarkToMarket(price float64) float64 {
	return p.cash + p.position*price
}
