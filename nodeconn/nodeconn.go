// Package nodeconn dials blockchain nodes for the callers that dispatch the
// packed calldata this module produces.
//
// Connections are explicit and caller-owned: every Dial returns a fresh
// client the caller closes when done. There is deliberately no process-wide
// connection singleton.
package nodeconn

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/ethclient"
)

// DefaultEndpoints maps known network names to public RPC endpoints.
var DefaultEndpoints = map[string]string{
	"bsc":         "https://bsc-dataseed1.binance.org",
	"bsc_testnet": "https://data-seed-prebsc-1-s1.binance.org:8545",
	"ethereum":    "https://eth.public-rpc.com",
	"polygon":     "https://polygon-rpc.com",
}

// UnknownNetworkError indicates a network name with no default endpoint.
type UnknownNetworkError struct {
	Network   string
	Available []string
}

func (e *UnknownNetworkError) Error() string {
	return fmt.Sprintf("nodeconn: unknown network %q, available: %v", e.Network, e.Available)
}

// Endpoint resolves the RPC URL to dial. An explicit rpcURL always wins;
// otherwise the network name selects a default endpoint.
func Endpoint(network, rpcURL string) (string, error) {
	if rpcURL != "" {
		return rpcURL, nil
	}
	if url, ok := DefaultEndpoints[network]; ok {
		return url, nil
	}
	available := make([]string, 0, len(DefaultEndpoints))
	for name := range DefaultEndpoints {
		available = append(available, name)
	}
	sort.Strings(available)
	return "", &UnknownNetworkError{Network: network, Available: available}
}

// Dial connects to a node, resolving the endpoint with Endpoint. The caller
// owns the returned client and must Close it.
func Dial(ctx context.Context, network, rpcURL string) (*ethclient.Client, error) {
	url, err := Endpoint(network, rpcURL)
	if err != nil {
		return nil, err
	}
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("nodeconn: dialing %s: %w", url, err)
	}
	return client, nil
}

// NetworkInfo describes the node a client is connected to.
type NetworkInfo struct {
	ChainID     *big.Int
	LatestBlock uint64
	GasPrice    *big.Int
}

// nodeReader is the slice of the client API NetworkInfo needs. ethclient
// satisfies it.
type nodeReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

// FetchNetworkInfo reads the connected network's vitals.
func FetchNetworkInfo(ctx context.Context, client nodeReader) (*NetworkInfo, error) {
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("nodeconn: chain id: %w", err)
	}
	block, err := client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("nodeconn: block number: %w", err)
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("nodeconn: gas price: %w", err)
	}
	return &NetworkInfo{ChainID: chainID, LatestBlock: block, GasPrice: gasPrice}, nil
}
