// Package multiswap prepares and interprets the binary call payload of a
// multi-hop token-swap execution contract.
//
// The contract family this package targets takes its whole swap programme as
// a single uint256 dynamic array: one packed word per pool traversal plus a
// trailing word carrying the initial and minimum-expected amounts. This
// library is the single source of truth for that layout. It lets you:
//   - Pack an ordered pool/fee path into calldata words (PackArgs)
//   - Derive calldata straight from an externally owned path
//     (BuildInspectionArgs)
//   - Discover which 4-byte selector serves a path of a given length
//     (DiscoverSelectors)
//   - Decode the contract's structured simulation output
//     (DecodeSwapInspections, DecodeDebugRecord)
//   - Fold measured reserves and balances back into a caller-owned plan
//     (ReconcilePlan)
//
// # Basic Usage
//
// Pack a three-pool path and look up the matching selector:
//
//	contractABI := multiswap.MustParseABI(contractABIJSON)
//
//	args, err := multiswap.PackArgs(pools, fees, initialAmount, big.NewInt(0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	catalog, err := multiswap.DiscoverSelectors(contractABI)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	entry, ok := catalog.ForPathLength(args.Len())
//
// The RPC dispatch itself belongs to the caller. Once the simulation result
// comes back, decode and reconcile:
//
//	inspections, err := multiswap.DecodeSwapInspections(rawOutput)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := multiswap.ReconcilePlan(plan, inspections); err != nil {
//	    log.Fatal(err)
//	}
//
// # Word Layout
//
// Each step word packs, low to high: bits [0,160) pool address, bits
// [160,180) fee in parts per million, bit 180 the early-stop marker consumed
// by debug contract variants. The final word packs the initial amount in
// bits [0,128) and the expected amount in bits [128,256).
//
// # Scope
//
// Everything here is a synchronous, pure transformation; the only mutation
// is ReconcilePlan writing into the caller's Plan. Connection management,
// transaction submission and route search live outside this package; see
// the artifact and nodeconn packages for the collaborators the CLI uses.
package multiswap
