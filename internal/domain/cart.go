package domain

import (
	"fmt"
	"math"
)

// MaxQuantity is the largest quantity a cart entry holds.
const MaxQuantity = math.MaxInt32

var (
	ErrNotInteger       = fmt.Errorf("%w: not an integer", ErrInvalidArgument)
	ErrQuantityTooLarge = fmt.Errorf("%w: magnitude above %d", ErrInvalidArgument, MaxQuantity)
)

// Cart maps dish ids to positive quantities. Zero is never stored.
type Cart map[string]int

func (c Cart) clone() Cart {
	next := make(Cart, len(c))
	for id, qty := range c {
		next[id] = qty
	}
	return next
}

// SetQuantity returns a cart where id holds quantity; a quantity of zero
// or less removes the entry and anything above MaxQuantity is clamped.
func SetQuantity(cart Cart, id string, quantity int) Cart {
	next := cart.clone()
	if quantity <= 0 {
		delete(next, id)
		return next
	}
	next[id] = min(quantity, MaxQuantity)
	return next
}

// AdjustQuantity adds delta to the current quantity, flooring at zero and
// clamping at MaxQuantity.
func AdjustQuantity(cart Cart, id string, delta int) Cart {
	cur := cart[id]
	var qty int
	switch {
	case delta > 0 && cur > MaxQuantity-delta:
		qty = MaxQuantity
	case delta < 0 && cur < -delta:
		qty = 0
	default:
		qty = cur + delta
	}
	return SetQuantity(cart, id, qty)
}

func RemoveFromCart(cart Cart, id string) Cart {
	return SetQuantity(cart, id, 0)
}

func ClearCart(Cart) Cart {
	return Cart{}
}

// Quantity converts a quantity that arrived as a JSON number. Fractions,
// NaN and infinities fail with ErrNotInteger, values beyond ±MaxQuantity
// with ErrQuantityTooLarge; both wrap ErrInvalidArgument.
func Quantity(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, ErrNotInteger
	}
	if math.Abs(f) > MaxQuantity {
		return 0, ErrQuantityTooLarge
	}
	return int(f), nil
}

// Sanitize drops entries that break the positive-quantity invariant.
func Sanitize(cart Cart) Cart {
	next := make(Cart, len(cart))
	for id, qty := range cart {
		if id != "" && qty > 0 {
			next[id] = qty
		}
	}
	return next
}
