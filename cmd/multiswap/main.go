// Command multiswap inspects compiled multiswap contracts and packs swap
// paths into calldata words, all offline: nothing here talks to a node.
package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/branched-services/go-multiswap"
	"github.com/branched-services/go-multiswap/artifact"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

type rootFlags struct {
	artifactDirs []string
	contract     string
	verbose      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "multiswap",
		Short:         "Inspect multiswap contracts and pack swap calldata",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if flags.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringSliceVar(&flags.artifactDirs, "artifacts", []string{"."},
		"directories holding compiled contract artifacts")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSelectorsCmd(flags),
		newPackCmd(),
		newContractsCmd(flags),
		newABICmd(flags),
	)
	return root
}

func openStore(flags *rootFlags) (*artifact.Store, error) {
	return artifact.NewStore(flags.artifactDirs)
}

func newSelectorsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selectors",
		Short: "Enumerate the path-length selectors a compiled contract exposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(flags)
			if err != nil {
				return err
			}
			contractABI, err := store.ABI(flags.contract)
			if err != nil {
				return err
			}

			catalog, err := multiswap.DiscoverSelectors(contractABI)
			if err != nil {
				return err
			}
			if catalog.Len() == 0 {
				log.Warn().Str("contract", flags.contract).Msg("no multiswap or swapinspect functions found")
				return nil
			}
			for _, entry := range catalog.Entries() {
				log.Info().
					Str("selector", "0x"+strings.ToUpper(hex.EncodeToString(entry.Selector[:]))).
					Int("path_length", entry.PathLength).
					Msg(entry.Description)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.contract, "contract", "", "contract artifact name")
	cmd.MarkFlagRequired("contract")
	return cmd
}

func newPackCmd() *cobra.Command {
	var (
		poolArgs  []string
		feeArgs   []string
		amount    string
		expected  string
		stopAfter int
	)

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack a pool/fee path into calldata words",
		RunE: func(cmd *cobra.Command, args []string) error {
			pools, err := parsePools(poolArgs)
			if err != nil {
				return err
			}
			fees, err := parseFees(feeArgs)
			if err != nil {
				return err
			}
			initialAmount, err := parseAmount(amount, "amount")
			if err != nil {
				return err
			}
			expectedAmount, err := parseAmount(expected, "expected")
			if err != nil {
				return err
			}

			var opts []multiswap.PackOption
			if stopAfter >= 0 {
				opts = append(opts, multiswap.WithStopAfterPool(stopAfter))
			}
			packed, err := multiswap.PackArgs(pools, fees, initialAmount, expectedAmount, opts...)
			if err != nil {
				return err
			}

			log.Debug().Int("words", packed.Len()).Msg("packed path")
			for _, word := range packed.Words() {
				fmt.Fprintf(cmd.OutOrStdout(), "0x%064x\n", word)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&poolArgs, "pools", nil, "pool addresses, in path order")
	cmd.Flags().StringSliceVar(&feeArgs, "fees", nil, "fees in PPM, one per pool")
	cmd.Flags().StringVar(&amount, "amount", "0", "initial amount (wei)")
	cmd.Flags().StringVar(&expected, "expected", "0", "minimum expected amount (wei)")
	cmd.Flags().IntVar(&stopAfter, "stop-after", -1, "set the early-stop marker on this step (debug contracts)")
	cmd.MarkFlagRequired("pools")
	cmd.MarkFlagRequired("fees")
	return cmd
}

func newContractsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "contracts",
		Short: "List the compiled contracts under the artifact directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(flags)
			if err != nil {
				return err
			}
			names, err := store.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				log.Warn().Msg("no compiled contracts found; compile the contracts first")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newABICmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abi",
		Short: "Print a contract's ABI JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(flags)
			if err != nil {
				return err
			}
			raw, err := store.RawABI(flags.contract)
			if err != nil {
				return err
			}
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, raw, "", "  "); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.contract, "contract", "", "contract artifact name")
	cmd.MarkFlagRequired("contract")
	return cmd
}

func parsePools(args []string) ([]common.Address, error) {
	pools := make([]common.Address, len(args))
	for i, arg := range args {
		arg = strings.TrimSpace(arg)
		if !common.IsHexAddress(arg) {
			return nil, fmt.Errorf("pool %d: %q is not a hex address", i, arg)
		}
		pools[i] = common.HexToAddress(arg)
	}
	return pools, nil
}

func parseFees(args []string) ([]uint32, error) {
	fees := make([]uint32, len(args))
	for i, arg := range args {
		fee, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("fee %d: %q is not an unsigned integer", i, arg)
		}
		fees[i] = uint32(fee)
	}
	return fees, nil
}

func parseAmount(arg, name string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(strings.TrimSpace(arg), 10)
	if !ok {
		return nil, fmt.Errorf("%s: %q is not a decimal integer", name, arg)
	}
	return amount, nil
}
