package multiswap

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
)

// Row arities of the contract output shapes.
const (
	inspectionFieldCount = 8
	debugFieldCount      = 15
)

// SwapInspection is one decoded step of a simulation trace. Token addresses
// are normalized to their EIP-55 checksummed textual form; every amount is
// a non-negative integer.
type SwapInspection struct {
	TokenIn              string
	TokenOut             string
	ReserveIn            *big.Int
	ReserveOut           *big.Int
	TransferredAmountIn  *big.Int
	MeasuredAmountIn     *big.Int
	TransferredAmountOut *big.Int
	MeasuredAmountOut    *big.Int
}

// DecodeSwapInspections decodes a contract's raw simulation output into
// per-step inspection records, preserving row order (row order is step
// order in the path).
//
// raw must be an ordered sequence (slice or array) of rows, else the decode
// fails with ErrNotASequence. Each row must carry exactly 8 positional
// fields - a slice, an array, or a struct such as the anonymous tuple types
// go-ethereum's unpacker produces - else the decode fails with
// RowShapeError.
func DecodeSwapInspections(raw any) ([]SwapInspection, error) {
	v := reflect.ValueOf(raw)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
		return nil, ErrNotASequence
	}

	out := make([]SwapInspection, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		fields, err := rowFields(v.Index(i).Interface(), i, inspectionFieldCount)
		if err != nil {
			return nil, err
		}

		var ins SwapInspection
		if ins.TokenIn, err = addressField(fields[0], i, "tokenIn"); err != nil {
			return nil, err
		}
		if ins.TokenOut, err = addressField(fields[1], i, "tokenOut"); err != nil {
			return nil, err
		}
		if ins.ReserveIn, err = uintField(fields[2], i, "reserveIn"); err != nil {
			return nil, err
		}
		if ins.ReserveOut, err = uintField(fields[3], i, "reserveOut"); err != nil {
			return nil, err
		}
		if ins.TransferredAmountIn, err = uintField(fields[4], i, "transferredAmountIn"); err != nil {
			return nil, err
		}
		if ins.MeasuredAmountIn, err = uintField(fields[5], i, "measuredAmountIn"); err != nil {
			return nil, err
		}
		if ins.TransferredAmountOut, err = uintField(fields[6], i, "transferredAmountOut"); err != nil {
			return nil, err
		}
		if ins.MeasuredAmountOut, err = uintField(fields[7], i, "measuredAmountOut"); err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
	return out, nil
}

// DebugRecord is one decoded step of the full execution trace the debug
// contract variants emit. Pure data; construction validates shape and
// non-negativity, nothing more.
type DebugRecord struct {
	Token0          string
	Token1          string
	Reserve0        *big.Int
	Reserve1        *big.Int
	AmountIn        *big.Int
	AmountOut       *big.Int
	FeePPM          *big.Int
	AmountInWithFee *big.Int
	TokenOut        string
	ReserveIn       *big.Int
	ReserveOut      *big.Int
	Numerator       *big.Int
	Denominator     *big.Int
	Amount0Out      *big.Int
	Amount1Out      *big.Int
}

// DecodeDebugRecord decodes one full-trace debug row into its fifteen
// positional fields. Any missing or extra field fails with RowShapeError.
func DecodeDebugRecord(row any) (*DebugRecord, error) {
	fields, err := rowFields(row, -1, debugFieldCount)
	if err != nil {
		return nil, err
	}

	var rec DebugRecord
	if rec.Token0, err = addressField(fields[0], -1, "token0"); err != nil {
		return nil, err
	}
	if rec.Token1, err = addressField(fields[1], -1, "token1"); err != nil {
		return nil, err
	}
	if rec.TokenOut, err = addressField(fields[8], -1, "tokenOut"); err != nil {
		return nil, err
	}

	numeric := []struct {
		dst  **big.Int
		pos  int
		name string
	}{
		{&rec.Reserve0, 2, "reserve0"},
		{&rec.Reserve1, 3, "reserve1"},
		{&rec.AmountIn, 4, "amountIn"},
		{&rec.AmountOut, 5, "amountOut"},
		{&rec.FeePPM, 6, "feePPM"},
		{&rec.AmountInWithFee, 7, "amountInWithFee"},
		{&rec.ReserveIn, 9, "reserveIn"},
		{&rec.ReserveOut, 10, "reserveOut"},
		{&rec.Numerator, 11, "numerator"},
		{&rec.Denominator, 12, "denominator"},
		{&rec.Amount0Out, 13, "amount0Out"},
		{&rec.Amount1Out, 14, "amount1Out"},
	}
	for _, f := range numeric {
		if *f.dst, err = uintField(fields[f.pos], -1, f.name); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

// rowFields flattens one row into its positional fields, enforcing arity.
func rowFields(row any, index, want int) ([]any, error) {
	v := reflect.ValueOf(row)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Len() != want {
			return nil, &RowShapeError{Row: index, Fields: v.Len(), Want: want}
		}
		fields := make([]any, want)
		for i := 0; i < want; i++ {
			fields[i] = v.Index(i).Interface()
		}
		return fields, nil

	case reflect.Struct:
		if v.NumField() != want {
			return nil, &RowShapeError{Row: index, Fields: v.NumField(), Want: want}
		}
		fields := make([]any, want)
		for i := 0; i < want; i++ {
			if !v.Field(i).CanInterface() {
				return nil, &RowShapeError{Row: index, Fields: want, Want: want,
					Reason: fmt.Sprintf("field %d is unexported", i)}
			}
			fields[i] = v.Field(i).Interface()
		}
		return fields, nil

	default:
		return nil, &RowShapeError{Row: index, Fields: -1, Want: want,
			Reason: fmt.Sprintf("row is not positional (%T)", row)}
	}
}

// addressField normalizes one positional field to a checksummed address.
func addressField(v any, row int, name string) (string, error) {
	switch a := v.(type) {
	case common.Address:
		return a.Hex(), nil
	case *common.Address:
		if a == nil {
			break
		}
		return a.Hex(), nil
	case [20]byte:
		return common.Address(a).Hex(), nil
	case []byte:
		if len(a) != common.AddressLength {
			break
		}
		return common.BytesToAddress(a).Hex(), nil
	case string:
		if !common.IsHexAddress(a) {
			break
		}
		return common.HexToAddress(a).Hex(), nil
	}
	return "", &RowShapeError{Row: row, Fields: -1, Want: -1,
		Reason: fmt.Sprintf("field %s: %T is not an address", name, v)}
}

// uintField decodes one positional field as a non-negative integer.
func uintField(v any, row int, name string) (*big.Int, error) {
	var n *big.Int
	switch i := v.(type) {
	case *big.Int:
		if i != nil {
			n = new(big.Int).Set(i)
		}
	case big.Int:
		n = new(big.Int).Set(&i)
	case uint64:
		n = new(big.Int).SetUint64(i)
	case uint32:
		n = new(big.Int).SetUint64(uint64(i))
	case uint:
		n = new(big.Int).SetUint64(uint64(i))
	case int:
		n = big.NewInt(int64(i))
	case int64:
		n = big.NewInt(i)
	case int32:
		n = big.NewInt(int64(i))
	}
	if n == nil {
		return nil, &RowShapeError{Row: row, Fields: -1, Want: -1,
			Reason: fmt.Sprintf("field %s: %T is not an unsigned integer", name, v)}
	}
	if n.Sign() < 0 {
		return nil, &RowShapeError{Row: row, Fields: -1, Want: -1,
			Reason: fmt.Sprintf("field %s: negative value %v", name, n)}
	}
	return n, nil
}
