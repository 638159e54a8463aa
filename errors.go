package multiswap

import (
	"errors"
	"fmt"
	"math/big"
)

// Sentinel errors for common failure conditions.
var (
	// ErrNotASequence indicates decoder input that is not an ordered
	// sequence of rows.
	ErrNotASequence = errors.New("multiswap: inspection output is not a sequence of rows")

	// ErrUnsupportedOverride indicates a fee override that is neither
	// absent, a single integer, nor a per-step sequence.
	ErrUnsupportedOverride = errors.New("multiswap: unsupported fee override type")
)

// ShapeMismatchError indicates two parallel sequences of different lengths.
type ShapeMismatchError struct {
	What string
	Want int
	Got  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("multiswap: %s: length %d does not match expected %d", e.What, e.Got, e.Want)
}

// OutOfRangeError indicates a value that does not fit its designated bit
// width in the packed word layout, or a step index outside the step
// sequence (Value is nil in that case).
type OutOfRangeError struct {
	Field string
	Index int // step index, or -1 when not step-scoped
	Value *big.Int
	Bits  uint
}

func (e *OutOfRangeError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("multiswap: %s: index %d out of range", e.Field, e.Index)
	}
	if e.Index >= 0 {
		return fmt.Sprintf("multiswap: %s at step %d: value %v does not fit %d bits", e.Field, e.Index, e.Value, e.Bits)
	}
	return fmt.Sprintf("multiswap: %s: value %v does not fit %d bits", e.Field, e.Value, e.Bits)
}

// SelectorShapeError indicates a contract function whose shape does not
// admit a path length: no usable numeric name suffix, and no single
// fixed-size array parameter to read the length from.
type SelectorShapeError struct {
	Function string
	Reason   string
}

func (e *SelectorShapeError) Error() string {
	return fmt.Sprintf("multiswap: function %q: %s", e.Function, e.Reason)
}

// RowShapeError indicates an inspection or debug row that does not carry
// the expected positional fields.
type RowShapeError struct {
	Row    int    // row index within the sequence, or -1 for a lone row
	Fields int    // fields found, -1 when the row is not positional at all
	Want   int    // fields expected
	Reason string // set when a field decodes badly rather than a bad arity
}

func (e *RowShapeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("multiswap: row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("multiswap: row %d: expected %d fields, got %d", e.Row, e.Want, e.Fields)
}
