package multiswap

import (
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Contract function name prefixes the catalog scans for.
const (
	multiswapPrefix   = "multiswap"
	swapinspectPrefix = "swapinspect"
)

// probePlaceholder fills the synthetic probe call's array argument. The
// selector depends only on the function signature, never on this value.
const probePlaceholder = 123

// SelectorEntry maps one contract function to the path length it supports.
//
// PathLength counts packed words, so usable hops are PathLength - 1: the
// last word slot is always the amounts word, never a hop.
type SelectorEntry struct {
	Name        string
	PathLength  int
	Selector    [4]byte
	Description string
}

// SelectorCatalog is a lookup table from path length to call selector,
// built by inspecting a contract's function list.
type SelectorCatalog struct {
	entries  []SelectorEntry
	byLength map[int]SelectorEntry
}

// Entries returns every discovered entry, ordered by function name.
func (c *SelectorCatalog) Entries() []SelectorEntry {
	out := make([]SelectorEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of discovered entries.
func (c *SelectorCatalog) Len() int {
	return len(c.entries)
}

// ForPathLength returns the selector entry supporting a path of n words.
// When several functions support the same length, the first in name order
// wins.
func (c *SelectorCatalog) ForPathLength(n int) (SelectorEntry, bool) {
	entry, ok := c.byLength[n]
	return entry, ok
}

// DiscoverSelectors inspects a contract's function list and derives, for
// each function named multiswap* or swapinspect*, the path length it
// supports and its 4-byte call selector.
//
// A function with a numeric name suffix and no parameters supports the path
// length the suffix states. Any other matching function must take exactly
// one fixed-size array parameter, whose size is the path length; anything
// else fails with SelectorShapeError.
func DiscoverSelectors(contractABI abi.ABI) (*SelectorCatalog, error) {
	names := make([]string, 0, len(contractABI.Methods))
	for name := range contractABI.Methods {
		if strings.HasPrefix(name, multiswapPrefix) || strings.HasPrefix(name, swapinspectPrefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	catalog := &SelectorCatalog{
		entries:  make([]SelectorEntry, 0, len(names)),
		byLength: make(map[int]SelectorEntry, len(names)),
	}
	for _, name := range names {
		entry, err := deriveEntry(contractABI, name)
		if err != nil {
			return nil, err
		}
		catalog.entries = append(catalog.entries, entry)
		if _, taken := catalog.byLength[entry.PathLength]; !taken {
			catalog.byLength[entry.PathLength] = entry
		}
	}
	return catalog, nil
}

// deriveEntry determines one function's path length and encodes its
// synthetic probe call.
func deriveEntry(contractABI abi.ABI, name string) (SelectorEntry, error) {
	method := contractABI.Methods[name]

	if n, ok := numericSuffix(name); ok && len(method.Inputs) == 0 {
		calldata, err := contractABI.Pack(name)
		if err != nil {
			return SelectorEntry{}, &SelectorShapeError{Function: name, Reason: err.Error()}
		}
		return SelectorEntry{
			Name:        name,
			PathLength:  n,
			Selector:    [4]byte(calldata[:4]),
			Description: fmt.Sprintf("%s() reads uint256[%d], %d usable hops", name, n, n-1),
		}, nil
	}

	if len(method.Inputs) != 1 {
		return SelectorEntry{}, &SelectorShapeError{
			Function: name,
			Reason:   fmt.Sprintf("expected exactly one input parameter, got %d", len(method.Inputs)),
		}
	}
	argType := method.Inputs[0].Type
	if argType.T != abi.ArrayTy {
		return SelectorEntry{}, &SelectorShapeError{
			Function: name,
			Reason:   fmt.Sprintf("input type %s carries no fixed array size", argType.String()),
		}
	}

	calldata, err := contractABI.Pack(name, probeArgument(argType, probePlaceholder))
	if err != nil {
		return SelectorEntry{}, &SelectorShapeError{Function: name, Reason: err.Error()}
	}
	return SelectorEntry{
		Name:        name,
		PathLength:  argType.Size,
		Selector:    [4]byte(calldata[:4]),
		Description: fmt.Sprintf("%s(%s), %d usable hops", name, argType.String(), argType.Size-1),
	}, nil
}

// probeArgument builds a fixed-size array argument of the right Go type,
// filled with a non-zero placeholder where the element type allows one.
func probeArgument(argType abi.Type, placeholder uint64) any {
	elemType := argType.Elem.GetType()
	slice := reflect.MakeSlice(reflect.SliceOf(elemType), argType.Size, argType.Size)
	bigIntType := reflect.TypeOf((*big.Int)(nil))
	for i := 0; i < argType.Size; i++ {
		elem := slice.Index(i)
		switch {
		case elemType == bigIntType:
			elem.Set(reflect.ValueOf(new(big.Int).SetUint64(placeholder)))
		case elem.CanUint():
			elem.SetUint(placeholder)
		case elem.CanInt():
			elem.SetInt(int64(placeholder))
		}
	}
	return slice.Interface()
}

// numericSuffix extracts the trailing decimal digits of a function name.
func numericSuffix(name string) (int, bool) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) {
		return 0, false
	}
	n, err := strconv.Atoi(name[i:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseABI parses a JSON ABI string into an abi.ABI.
// This is a convenience function for building catalogs from ABI JSON.
func ParseABI(abiJSON string) (abi.ABI, error) {
	return abi.JSON(strings.NewReader(abiJSON))
}

// MustParseABI is like ParseABI but panics on error.
func MustParseABI(abiJSON string) abi.ABI {
	parsed, err := ParseABI(abiJSON)
	if err != nil {
		panic(err)
	}
	return parsed
}
