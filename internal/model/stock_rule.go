package model

import "math"

// Apply returns the stock after recording a line of quantity q.
// Decrements are floored at zero.
func (t TransactionType) Apply(stock, q int) int {
	switch t {
	case TxSale:
		return floor(stock - q)
	case TxPurchase, TxReturn:
		return add(stock, q)
	}
	return stock
}

// Revert returns the stock after undoing a line of quantity q.
func (t TransactionType) Revert(stock, q int) int {
	switch t {
	case TxSale:
		return add(stock, q)
	case TxPurchase, TxReturn:
		return floor(stock - q)
	}
	return stock
}

// Clamps reports whether Apply floors the result, i.e. the line could not
// be exactly reverted later.
func (t TransactionType) Clamps(stock, q int) bool {
	return t == TxSale && stock < q
}

// RevertClamps is Clamps for Revert.
func (t TransactionType) RevertClamps(stock, q int) bool {
	return (t == TxPurchase || t == TxReturn) && stock < q
}

// add saturates at math.MaxInt instead of wrapping negative.
func add(stock, q int) int {
	if q > 0 && stock > math.MaxInt-q {
		return math.MaxInt
	}
	return floor(stock + q)
}

func floor(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
