package registry

import (
	"math"

	"github.com/holiman/uint256"
)

// Amounts are int64 minor units. Intermediate products are computed in 256 bits
// and rejected when the result no longer fits.

func fitsAmount(v *uint256.Int) bool {
	return v.IsUint64() && v.Uint64() <= math.MaxInt64
}

func mulAmount(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, fail(ErrAmountOverflow, "amount", a)
	}
	product, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(uint64(a)), uint256.NewInt(uint64(b)))
	if overflow || !fitsAmount(product) {
		return 0, fail(ErrAmountOverflow, "amount", product.Dec())
	}
	return int64(product.Uint64()), nil
}

func addAmount(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, fail(ErrAmountOverflow, "amount", a)
	}
	sum := new(uint256.Int).Add(uint256.NewInt(uint64(a)), uint256.NewInt(uint64(b)))
	if !fitsAmount(sum) {
		return 0, fail(ErrAmountOverflow, "amount", sum.Dec())
	}
	return int64(sum.Uint64()), nil
}

// proRata returns floor(pool * part / total). total must be positive and part <= total.
func proRata(pool, part, total int64) int64 {
	if pool <= 0 || part <= 0 || total <= 0 {
		return 0
	}
	share, overflow := new(uint256.Int).MulDivOverflow(
		uint256.NewInt(uint64(pool)),
		uint256.NewInt(uint64(part)),
		uint256.NewInt(uint64(total)),
	)
	if overflow || !fitsAmount(share) {
		// part <= total keeps share <= pool, so this only happens on bad input.
		return pool
	}
	return int64(share.Uint64())
}

// splitProRata divides pool across weights by floor division and hands any
// remainder to remainderTo. The returned shares always sum to pool.
func splitProRata(pool int64, order []Identity, weights map[Identity]int64, remainderTo Identity) (map[Identity]int64, error) {
	var total int64
	for _, id := range order {
		var err error
		if total, err = addAmount(total, weights[id]); err != nil {
			return nil, err
		}
	}
	shares := make(map[Identity]int64, len(order)+1)
	var assigned int64
	for _, id := range order {
		s := proRata(pool, weights[id], total)
		shares[id] = s
		assigned += s
	}
	if rem := pool - assigned; rem > 0 {
		shares[remainderTo] += rem
	}
	return shares, nil
}

// splitEqual divides pool evenly; the first identity absorbs the remainder.
func splitEqual(pool int64, order []Identity) map[Identity]int64 {
	shares := make(map[Identity]int64, len(order))
	if len(order) == 0 {
		return shares
	}
	n := int64(len(order))
	each := pool / n
	for _, id := range order {
		shares[id] += each
	}
	shares[order[0]] += pool - each*n
	return shares
}
