package multiswap

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Plan is the caller-owned mutable model a reconciliation writes into. The
// plan keeps its own token sequence; this package only asks which token
// sits before and after each step, then overwrites the plan's estimated
// reserves and balances with the measured ones.
//
// A Plan must be reconciled from a single goroutine at a time; this package
// takes no locks.
type Plan interface {
	// PathLength returns the number of swap steps in the plan.
	PathLength() int

	// TokenBeforeStep returns the token entering step i.
	TokenBeforeStep(i int) common.Address

	// TokenAfterStep returns the token leaving step i.
	TokenAfterStep(i int) common.Address

	// SetPoolTokenReserve records the measured reserve of token in step i's
	// pool.
	SetPoolTokenReserve(i int, token common.Address, reserve *big.Int)

	// SetIssuedBalanceBeforeStep records the balance issued into step i.
	SetIssuedBalanceBeforeStep(i int, amount *big.Int)

	// SetMeasuredBalanceBeforeStep records the balance measured before
	// step i.
	SetMeasuredBalanceBeforeStep(i int, amount *big.Int)

	// SetIssuedBalanceAfterStep records the balance issued out of step i.
	SetIssuedBalanceAfterStep(i int, amount *big.Int)

	// SetMeasuredBalanceAfterStep records the balance measured after
	// step i.
	SetMeasuredBalanceAfterStep(i int, amount *big.Int)
}

// ReconcilePlan folds decoded inspection records into the plan, overwriting
// its estimated reserves and balances with the measured ones. The freshest
// reconciliation always wins; no merging, no conflict detection.
//
// The inspection sequence must be exactly one record per plan step, else
// the call fails with ShapeMismatchError before touching the plan. On
// success every step has been written; there is no partial outcome.
func ReconcilePlan(plan Plan, inspections []SwapInspection) error {
	if len(inspections) != plan.PathLength() {
		return &ShapeMismatchError{What: "inspections/plan", Want: plan.PathLength(), Got: len(inspections)}
	}

	for i := range inspections {
		ins := &inspections[i]
		plan.SetPoolTokenReserve(i, plan.TokenBeforeStep(i), ins.ReserveIn)
		plan.SetPoolTokenReserve(i, plan.TokenAfterStep(i), ins.ReserveOut)
		if i == 0 {
			// Seed of the balance chain; no earlier step wrote these.
			plan.SetIssuedBalanceBeforeStep(i, ins.TransferredAmountIn)
			plan.SetMeasuredBalanceBeforeStep(i, ins.MeasuredAmountIn)
		}
		plan.SetIssuedBalanceAfterStep(i, ins.TransferredAmountOut)
		plan.SetMeasuredBalanceAfterStep(i, ins.MeasuredAmountOut)
	}
	return nil
}
