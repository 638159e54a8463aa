package multiswap

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestPackArgsWordLayout(t *testing.T) {
	pools := []common.Address{
		common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"),
		common.HexToAddress("0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"),
		common.HexToAddress("0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC"),
	}
	fees := []uint32{300, 500, 1000}
	initial := big.NewInt(1_000_000)

	args, err := PackArgs(pools, fees, initial, big.NewInt(0))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	t.Run("word count", func(t *testing.T) {
		if args.Len() != len(pools)+1 {
			t.Errorf("Expected %d words, got %d", len(pools)+1, args.Len())
		}
	})

	words := args.Words()

	t.Run("pool and fee fields", func(t *testing.T) {
		for i := range pools {
			pool, fee, stop := UnpackStepWord(words[i])
			if pool != pools[i] {
				t.Errorf("Word %d pool: expected %s, got %s", i, pools[i].Hex(), pool.Hex())
			}
			if fee != fees[i] {
				t.Errorf("Word %d fee: expected %d, got %d", i, fees[i], fee)
			}
			if stop {
				t.Errorf("Word %d: early-stop bit set without option", i)
			}
		}
	})

	t.Run("amounts word", func(t *testing.T) {
		gotInitial, gotExpected := UnpackAmountsWord(words[len(words)-1])
		if gotInitial.Cmp(initial) != 0 {
			t.Errorf("Initial amount: expected %v, got %v", initial, gotInitial)
		}
		if gotExpected.Sign() != 0 {
			t.Errorf("Expected amount: expected 0, got %v", gotExpected)
		}
		// expected = 0, so the whole word is just the initial amount
		if words[len(words)-1].Cmp(initial) != 0 {
			t.Errorf("Amounts word: expected %v, got %v", initial, words[len(words)-1])
		}
	})

	t.Run("high bits clear", func(t *testing.T) {
		for i := range pools {
			if words[i].BitLen() > EarlyStopBit {
				t.Errorf("Word %d uses bits above %d", i, EarlyStopBit)
			}
		}
	})
}

func TestPackArgsAmountsRoundTrip(t *testing.T) {
	maxAmount := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), AmountBits), big.NewInt(1))

	tests := []struct {
		name     string
		initial  *big.Int
		expected *big.Int
	}{
		{"small values", big.NewInt(1_000_000), big.NewInt(42)},
		{"zero expected", big.NewInt(123456789), big.NewInt(0)},
		{"both zero", big.NewInt(0), big.NewInt(0)},
		{"nil packs as zero", nil, nil},
		{"max 128-bit values", maxAmount, maxAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := PackArgs(nil, nil, tt.initial, tt.expected)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if args.Len() != 1 {
				t.Fatalf("Expected 1 word for empty path, got %d", args.Len())
			}

			gotInitial, gotExpected := UnpackAmountsWord(args.Words()[0])
			wantInitial, wantExpected := tt.initial, tt.expected
			if wantInitial == nil {
				wantInitial = big.NewInt(0)
			}
			if wantExpected == nil {
				wantExpected = big.NewInt(0)
			}
			if gotInitial.Cmp(wantInitial) != 0 {
				t.Errorf("Initial: expected %v, got %v", wantInitial, gotInitial)
			}
			if gotExpected.Cmp(wantExpected) != 0 {
				t.Errorf("Expected: expected %v, got %v", wantExpected, gotExpected)
			}
		})
	}
}

func TestPackArgsShapeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		pools int
		fees  int
	}{
		{"more pools than fees", 3, 2},
		{"more fees than pools", 1, 4},
		{"pools only", 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pools := make([]common.Address, tt.pools)
			fees := make([]uint32, tt.fees)

			_, err := PackArgs(pools, fees, big.NewInt(1), big.NewInt(0))

			var shapeErr *ShapeMismatchError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("Expected ShapeMismatchError, got %v", err)
			}
			if shapeErr.Want != tt.pools || shapeErr.Got != tt.fees {
				t.Errorf("Expected want=%d got=%d, have want=%d got=%d",
					tt.pools, tt.fees, shapeErr.Want, shapeErr.Got)
			}
		})
	}
}

func TestPackArgsOutOfRange(t *testing.T) {
	pool := []common.Address{common.HexToAddress("0x01")}
	tooWide := new(big.Int).Lsh(big.NewInt(1), AmountBits)

	t.Run("fee above 20 bits", func(t *testing.T) {
		_, err := PackArgs(pool, []uint32{MaxFeePPM + 1}, big.NewInt(1), big.NewInt(0))

		var rangeErr *OutOfRangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("Expected OutOfRangeError, got %v", err)
		}
		if rangeErr.Field != "fee" || rangeErr.Index != 0 {
			t.Errorf("Unexpected error detail: %v", rangeErr)
		}
	})

	t.Run("fee at limit succeeds", func(t *testing.T) {
		args, err := PackArgs(pool, []uint32{MaxFeePPM}, big.NewInt(1), big.NewInt(0))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		_, fee, _ := UnpackStepWord(args.Words()[0])
		if fee != MaxFeePPM {
			t.Errorf("Expected fee %d, got %d", MaxFeePPM, fee)
		}
	})

	t.Run("initial amount above 128 bits", func(t *testing.T) {
		_, err := PackArgs(pool, []uint32{300}, tooWide, big.NewInt(0))

		var rangeErr *OutOfRangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("Expected OutOfRangeError, got %v", err)
		}
	})

	t.Run("expected amount above 128 bits", func(t *testing.T) {
		_, err := PackArgs(pool, []uint32{300}, big.NewInt(0), tooWide)

		var rangeErr *OutOfRangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("Expected OutOfRangeError, got %v", err)
		}
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := PackArgs(pool, []uint32{300}, big.NewInt(-1), big.NewInt(0))

		var rangeErr *OutOfRangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("Expected OutOfRangeError, got %v", err)
		}
	})
}

func TestPackArgsStopAfterPool(t *testing.T) {
	pools := []common.Address{
		common.HexToAddress("0x01"),
		common.HexToAddress("0x02"),
		common.HexToAddress("0x03"),
	}
	fees := []uint32{300, 300, 300}

	t.Run("marks only the chosen step", func(t *testing.T) {
		args, err := PackArgs(pools, fees, big.NewInt(1), big.NewInt(0), WithStopAfterPool(1))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		for i, word := range args.Words()[:len(pools)] {
			pool, fee, stop := UnpackStepWord(word)
			if stop != (i == 1) {
				t.Errorf("Word %d: early-stop = %v", i, stop)
			}
			// the marker must not disturb the adjacent fields
			if pool != pools[i] || fee != fees[i] {
				t.Errorf("Word %d: fields disturbed by marker", i)
			}
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		for _, idx := range []int{-1, 3, 100} {
			_, err := PackArgs(pools, fees, big.NewInt(1), big.NewInt(0), WithStopAfterPool(idx))

			var rangeErr *OutOfRangeError
			if !errors.As(err, &rangeErr) {
				t.Errorf("Index %d: expected OutOfRangeError, got %v", idx, err)
			}
		}
	})
}

func TestCalldataArgsCallArgs(t *testing.T) {
	args, err := PackArgs(
		[]common.Address{common.HexToAddress("0x01")},
		[]uint32{300},
		big.NewInt(5), big.NewInt(7),
	)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	callArgs := args.CallArgs()
	if len(callArgs) != 1 {
		t.Fatalf("Expected exactly one call argument, got %d", len(callArgs))
	}

	words, ok := callArgs[0].([]*big.Int)
	if !ok {
		t.Fatalf("Expected []*big.Int argument, got %T", callArgs[0])
	}
	if len(words) != 2 {
		t.Errorf("Expected 2 words, got %d", len(words))
	}
}

func TestCalldataArgsWordsIsACopy(t *testing.T) {
	args, err := PackArgs(nil, nil, big.NewInt(9), big.NewInt(0))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	words := args.Words()
	words[0] = big.NewInt(0)

	if args.Words()[0].Cmp(big.NewInt(9)) != 0 {
		t.Error("Mutating the returned slice changed the packed args")
	}
}
