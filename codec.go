package multiswap

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Word layout constants.
const (
	// AddressBits is the width of the pool address field, bits [0,160).
	AddressBits = 160

	// FeeShift is the bit offset of the fee field within a step word.
	FeeShift = AddressBits

	// FeeBits is the width of the fee field, bits [160,180).
	FeeBits = 20

	// EarlyStopBit marks a step as the last one to execute. Only debug
	// contract variants consume it.
	EarlyStopBit = 180

	// AmountBits is the width of each amount in the trailing amounts word.
	AmountBits = 128

	// MaxFeePPM is the largest fee (parts per million) a step word can carry.
	MaxFeePPM = 1<<FeeBits - 1
)

var (
	earlyStopMask = new(uint256.Int).Lsh(uint256.NewInt(1), EarlyStopBit)
	amountMask    = new(uint256.Int).SubUint64(new(uint256.Int).Lsh(uint256.NewInt(1), AmountBits), 1)
)

// CalldataArgs is the packed call payload: one word per swap step plus the
// trailing amounts word, ready to pass as the single dynamic-array argument
// the contract functions expect. Immutable after construction.
type CalldataArgs struct {
	words []*big.Int
}

// Len returns the number of packed words (steps + 1). This is the path
// length a selector must support, in DiscoverSelectors terms.
func (a *CalldataArgs) Len() int {
	return len(a.words)
}

// Words returns the packed words in order. The slice is a copy; callers may
// reorder or mutate it freely.
func (a *CalldataArgs) Words() []*big.Int {
	out := make([]*big.Int, len(a.words))
	copy(out, a.words)
	return out
}

// CallArgs returns the one-element argument list for ABI encoding: the word
// sequence as the sole dynamic array parameter.
func (a *CalldataArgs) CallArgs() []any {
	return []any{a.Words()}
}

// packConfig holds configuration for PackArgs.
type packConfig struct {
	stopAfterPool int
	hasStop       bool
}

// PackOption configures PackArgs.
type PackOption func(*packConfig)

// WithStopAfterPool sets bit 180 on the word of step i, telling debug
// contract variants to stop executing after that pool.
func WithStopAfterPool(i int) PackOption {
	return func(c *packConfig) {
		c.stopAfterPool = i
		c.hasStop = true
	}
}

// PackArgs packs an ordered pool/fee path and the two amount fields into
// calldata words.
//
// Word i carries pools[i] in bits [0,160) and fees[i] (PPM) in bits
// [160,180). The final word carries initialAmount in bits [0,128) and
// expectedAmount in bits [128,256). A nil amount packs as zero.
//
// Fails with ShapeMismatchError when pools and fees differ in length, and
// with OutOfRangeError when a fee or amount does not fit its field or the
// stop-after index is not a valid step index. Nothing is truncated silently.
func PackArgs(pools []common.Address, fees []uint32, initialAmount, expectedAmount *big.Int, opts ...PackOption) (*CalldataArgs, error) {
	if len(pools) != len(fees) {
		return nil, &ShapeMismatchError{What: "pools/fees", Want: len(pools), Got: len(fees)}
	}

	cfg := packConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.hasStop && (cfg.stopAfterPool < 0 || cfg.stopAfterPool >= len(pools)) {
		return nil, &OutOfRangeError{Field: "stop-after pool", Index: cfg.stopAfterPool}
	}

	words := make([]*big.Int, 0, len(pools)+1)

	for i, pool := range pools {
		if fees[i] > MaxFeePPM {
			return nil, &OutOfRangeError{
				Field: "fee",
				Index: i,
				Value: new(big.Int).SetUint64(uint64(fees[i])),
				Bits:  FeeBits,
			}
		}

		word := new(uint256.Int).SetBytes(pool.Bytes())
		word.Or(word, new(uint256.Int).Lsh(uint256.NewInt(uint64(fees[i])), FeeShift))
		if cfg.hasStop && cfg.stopAfterPool == i {
			word.Or(word, earlyStopMask)
		}
		words = append(words, word.ToBig())
	}

	initial, err := amountField(initialAmount, "initial amount")
	if err != nil {
		return nil, err
	}
	expected, err := amountField(expectedAmount, "expected amount")
	if err != nil {
		return nil, err
	}

	amounts := new(uint256.Int).Lsh(expected, AmountBits)
	amounts.Or(amounts, initial)
	words = append(words, amounts.ToBig())

	return &CalldataArgs{words: words}, nil
}

// amountField validates a 128-bit amount and converts it to word form.
func amountField(v *big.Int, field string) (*uint256.Int, error) {
	if v == nil {
		return uint256.NewInt(0), nil
	}
	if v.Sign() < 0 || v.BitLen() > AmountBits {
		return nil, &OutOfRangeError{Field: field, Index: -1, Value: v, Bits: AmountBits}
	}
	u, _ := uint256.FromBig(v)
	return u, nil
}

// UnpackStepWord splits a step word back into its pool address, fee, and
// early-stop marker. Useful for debugging and testing.
func UnpackStepWord(word *big.Int) (pool common.Address, feePPM uint32, earlyStop bool) {
	if word == nil {
		return
	}
	w, overflow := uint256.FromBig(word)
	if overflow {
		return
	}
	pool = common.Address(w.Bytes20())
	feePPM = uint32(new(uint256.Int).Rsh(w, FeeShift).Uint64() & MaxFeePPM)
	earlyStop = new(uint256.Int).Rsh(w, EarlyStopBit).Uint64()&1 == 1
	return
}

// UnpackAmountsWord splits an amounts word back into its initial and
// expected amounts. Useful for debugging and testing.
func UnpackAmountsWord(word *big.Int) (initialAmount, expectedAmount *big.Int) {
	if word == nil {
		return new(big.Int), new(big.Int)
	}
	w, overflow := uint256.FromBig(word)
	if overflow {
		return new(big.Int), new(big.Int)
	}
	initialAmount = new(uint256.Int).And(w, amountMask).ToBig()
	expectedAmount = new(uint256.Int).Rsh(w, AmountBits).ToBig()
	return
}
