package multiswap

import (
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SwapStep is one pool traversal of an externally owned path.
type SwapStep interface {
	// PoolAddress returns the pool the step trades through.
	PoolAddress() common.Address

	// FeePPM returns the pool's swap fee in parts per million.
	FeePPM() uint32
}

// Path is an externally owned ordered sequence of swap steps. This package
// only reads it.
type Path interface {
	// Len returns the number of steps.
	Len() int

	// Step returns the step at index i, 0 <= i < Len().
	Step(i int) SwapStep
}

// FeeOverride replaces the fees a path's own pools report when building
// inspection calldata. This is a sealed interface - the only implementations
// are the ones this package provides: nil (no override), BroadcastFee, and
// PerStepFees.
type FeeOverride interface {
	// isFeeOverride is unexported to seal the interface.
	isFeeOverride()

	// apply resolves the final fee sequence for a path of length n whose
	// own fees are given.
	apply(own []uint32) ([]uint32, error)
}

// broadcastFee applies one fee to every step.
type broadcastFee uint32

func (broadcastFee) isFeeOverride() {}

func (f broadcastFee) apply(own []uint32) ([]uint32, error) {
	fees := make([]uint32, len(own))
	for i := range fees {
		fees[i] = uint32(f)
	}
	return fees, nil
}

// perStepFees overrides fees position by position; a nil entry keeps the
// step's own fee.
type perStepFees []*uint32

func (perStepFees) isFeeOverride() {}

func (f perStepFees) apply(own []uint32) ([]uint32, error) {
	if len(f) != len(own) {
		return nil, &ShapeMismatchError{What: "override fees/path", Want: len(own), Got: len(f)}
	}
	fees := make([]uint32, len(own))
	for i := range fees {
		if f[i] != nil {
			fees[i] = *f[i]
		} else {
			fees[i] = own[i]
		}
	}
	return fees, nil
}

// BroadcastFee returns an override that applies fee to every step of the
// path.
func BroadcastFee(fee uint32) FeeOverride {
	return broadcastFee(fee)
}

// PerStepFees returns an override with one entry per step. A nil entry
// falls back to that step's own fee. The sequence length must equal the
// path length at build time.
func PerStepFees(fees []*uint32) FeeOverride {
	return perStepFees(fees)
}

// FeeOverrideFrom converts a loosely typed override value into a
// FeeOverride. Accepted shapes: nil (no override), any unsigned or
// non-negative signed integer that fits in 32 bits (broadcast), []uint32 or
// []*uint32 (per-step). Anything else fails with ErrUnsupportedOverride;
// integers are never narrowed silently.
//
// Prefer constructing overrides with BroadcastFee and PerStepFees directly;
// this exists for callers fed by dynamic configuration.
func FeeOverrideFrom(v any) (FeeOverride, error) {
	switch o := v.(type) {
	case nil:
		return nil, nil
	case FeeOverride:
		return o, nil
	case uint32:
		return BroadcastFee(o), nil
	case uint64:
		if o > math.MaxUint32 {
			return nil, ErrUnsupportedOverride
		}
		return BroadcastFee(uint32(o)), nil
	case uint:
		if uint64(o) > math.MaxUint32 {
			return nil, ErrUnsupportedOverride
		}
		return BroadcastFee(uint32(o)), nil
	case int:
		if o < 0 || int64(o) > math.MaxUint32 {
			return nil, ErrUnsupportedOverride
		}
		return BroadcastFee(uint32(o)), nil
	case int64:
		if o < 0 || o > math.MaxUint32 {
			return nil, ErrUnsupportedOverride
		}
		return BroadcastFee(uint32(o)), nil
	case []uint32:
		entries := make([]*uint32, len(o))
		for i := range o {
			fee := o[i]
			entries[i] = &fee
		}
		return PerStepFees(entries), nil
	case []*uint32:
		return PerStepFees(o), nil
	default:
		return nil, ErrUnsupportedOverride
	}
}

// BuildInspectionArgs reads an externally owned path and packs it into
// inspection calldata. The expected amount is fixed at zero: the inspection
// contract variants skip the profit-floor check.
//
// override may be nil to use each step's own fee; see BroadcastFee and
// PerStepFees for the other shapes.
func BuildInspectionArgs(path Path, initialAmount *big.Int, override FeeOverride) (*CalldataArgs, error) {
	n := path.Len()
	pools := make([]common.Address, n)
	own := make([]uint32, n)
	for i := 0; i < n; i++ {
		step := path.Step(i)
		pools[i] = step.PoolAddress()
		own[i] = step.FeePPM()
	}

	fees := own
	if override != nil {
		var err error
		fees, err = override.apply(own)
		if err != nil {
			return nil, err
		}
	}

	return PackArgs(pools, fees, initialAmount, big.NewInt(0))
}
