package portfolio

import (
	"errors"
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestBuyDebitsCashCreditsPosition(t *testing.T) {
	p := New(10000)

	if err := p.ExecuteBuy(10, 100); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if !approxEqual(p.Cash(), 9000, 1e-9) {
		t.Fatalf("cash mismatch: got %.6f", p.Cash())
	}
	if !approxEqual(p.Position(), 10, 1e-9) {
		t.Fatalf("position mismatch: got %.6f", p.Position())
	}
}

func TestSellCreditsCashDebitsPosition(t *testing.T) {
	p := New(10000)
	if err := p.ExecuteBuy(10, 100); err != nil {
		t.Fatalf("buy: %v", err)
	}

	if err := p.ExecuteSell(4, 110); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if !approxEqual(p.Cash(), 9000+4*110, 1e-9) {
		t.Fatalf("cash mismatch: got %.6f", p.Cash())
	}
	if !approxEqual(p.Position(), 6, 1e-9) {
		t.Fatalf("position mismatch: got %.6f", p.Position())
	}
}

func TestBuyRejectsOverspend(t *testing.T) {
	p := New(1000)

	err := p.ExecuteBuy(11, 100)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Ledger untouched after a rejected fill.
	if p.Cash() != 1000 || p.Position() != 0 {
		t.Fatalf("ledger changed after rejected buy: cash=%.6f pos=%.6f", p.Cash(), p.Position())
	}
}

func TestSellRejectsOverSell(t *testing.T) {
	p := New(1000)
	if err := p.ExecuteBuy(5, 100); err != nil {
		t.Fatalf("buy: %v", err)
	}

	err := p.ExecuteSell(6, 100)
	if !errors.Is(err, ErrOverSell) {
		t.Fatalf("expected ErrOverSell, got %v", err)
	}
	if !approxEqual(p.Position(), 5, 1e-9) {
		t.Fatalf("position changed after rejected sell: %.6f", p.Position())
	}
}

func TestBuyToleratesDerivedQuantityRounding(t *testing.T) {
	// quantity = cash*mult/price can round so cost lands a hair above cash;
	// spending all cash this way must not trip the funds check.
	cash := 10000.0
	price := 333.31
	p := New(cash)

	qty := cash * 1.0 / price
	if err := p.ExecuteBuy(qty, price); err != nil {
		t.Fatalf("full-cash buy: %v", err)
	}
	if p.Cash() < 0 {
		t.Fatalf("cash went negative: %v", p.Cash())
	}
}

func TestRejectsNonPositiveArgs(t *testing.T) {
	p := New(1000)

	if err := p.ExecuteBuy(0, 100); err == nil {
		t.Fatal("expected error for zero quantity buy")
	}
	if err := p.ExecuteBuy(1, 0); err == nil {
		t.Fatal("expected error for zero price buy")
	}
	if err := p.ExecuteSell(0, 100); err == nil {
		t.Fatal("expected error for zero quantity sell")
	}
	if err := p.ExecuteSell(-1, 100); err == nil {
		t.Fatal("expected error for negative quantity sell")
	}
}

func TestMarkToMarket(t *testing.T) {
	p := New(5000)
	if err := p.ExecuteBuy(20, 100); err != nil {
		t.Fatalf("buy: %v", err)
	}

	want := 3000 + 20*110.0
	if !approxEqual(p.MarkToMarket(110), want, 1e-9) {
		t.Fatalf("mark mismatch: got %.6f want %.6f", p.MarkToMarket(110), want)
	}

	// Idempotent: repeated marks with no intervening trade agree.
	first := p.MarkToMarket(110)
	for i := 0; i < 3; i++ {
		if got := p.MarkToMarket(110); got != first {
			t.Fatalf("mark not idempotent: got %.6f want %.6f", got, first)
		}
	}
}
