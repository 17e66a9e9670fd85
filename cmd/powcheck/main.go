// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command powcheck is a small diagnostic CLI around the proof-of-work
// core: it decodes compact difficulty bits, and checks a hand-specified
// block header against one of the named consensus parameter sets
// (mainnet, testnet, regtest).
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/cuckoofork/jaxcore/corelog"
	"github.com/cuckoofork/jaxcore/node/blockchain"
	"github.com/cuckoofork/jaxcore/node/chaindata"
	"github.com/cuckoofork/jaxcore/types/chaincfg"
	"github.com/cuckoofork/jaxcore/types/chainhash"
	"github.com/cuckoofork/jaxcore/types/pow"
	"github.com/cuckoofork/jaxcore/types/wire"
)

func main() {
	app := &cli.App{
		Name:  "powcheck",
		Usage: "inspect and validate jaxcore proof-of-work headers",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "net", Value: "mainnet", Usage: "mainnet, testnet, or regtest"},
			&cli.BoolFlag{Name: "verbose", Usage: "enable debug logging"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				params, err := resolveParams(c.String("net"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				logger := corelog.New("powcheck", params.Name, zerolog.DebugLevel, corelog.DefaultForNetwork(params))
				chaindata.UseLogger(logger)
				blockchain.UseLogger(logger)
			}
			return nil
		},
		Commands: []*cli.Command{
			targetCommand(),
			verifyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func targetCommand() *cli.Command {
	return &cli.Command{
		Name:      "target",
		Usage:     "decode compact difficulty bits into a target and work value",
		ArgsUsage: "<bits-hex>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return cli.Exit("expected exactly one argument: bits in hex", 1)
			}
			bits, err := strconv.ParseUint(strings.TrimPrefix(c.Args().First(), "0x"), 16, 32)
			if err != nil {
				return cli.Exit(fmt.Sprintf("invalid bits: %v", err), 1)
			}

			target := pow.CompactToBig(uint32(bits))
			work := pow.CalcWork(uint32(bits))
			fmt.Printf("bits:   %08x\n", bits)
			fmt.Printf("target: %064x\n", target)
			fmt.Printf("work:   %s\n", work.String())
			return nil
		},
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "check a block header's proof of work against a parameter set",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "version", Value: 1},
			&cli.StringFlag{Name: "prev-block", Value: strings.Repeat("0", 64)},
			&cli.StringFlag{Name: "merkle-root", Required: true},
			&cli.Int64Flag{Name: "timestamp", Usage: "unix seconds", Required: true},
			&cli.StringFlag{Name: "bits", Required: true, Usage: "compact difficulty bits, hex"},
			&cli.Uint64Flag{Name: "nonce"},
			&cli.StringFlag{Name: "cuckoo-proof", Usage: "42 comma-separated ascending edge nonces; implies the Cuckoo hardfork bit"},
		},
		Action: func(c *cli.Context) error {
			params, err := resolveParams(c.String("net"))
			if err != nil {
				return cli.Exit(err, 1)
			}

			header, err := buildHeader(c)
			if err != nil {
				return cli.Exit(err, 1)
			}

			if err := (pow.PowCheck{}).Check(header, params); err != nil {
				fmt.Printf("rejected: %v\n", err)
				return cli.Exit("", 1)
			}

			fmt.Printf("accepted: hash=%s\n", header.BlockHash())
			return nil
		},
	}
}

func resolveParams(net string) (*chaincfg.ConsensusParams, error) {
	switch net {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet":
		return &chaincfg.TestNetParams, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network %q: want mainnet, testnet, or regtest", net)
	}
}

func buildHeader(c *cli.Context) (*wire.BlockHeader, error) {
	bits, err := strconv.ParseUint(strings.TrimPrefix(c.String("bits"), "0x"), 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid bits: %w", err)
	}

	prevBlock, err := chainhash.NewHashFromStr(c.String("prev-block"))
	if err != nil {
		return nil, fmt.Errorf("invalid prev-block: %w", err)
	}
	merkleRoot, err := chainhash.NewHashFromStr(c.String("merkle-root"))
	if err != nil {
		return nil, fmt.Errorf("invalid merkle-root: %w", err)
	}

	header := &wire.BlockHeader{
		Version:    int32(c.Int64("version")),
		PrevBlock:  *prevBlock,
		MerkleRoot: *merkleRoot,
		Timestamp:  time.Unix(c.Int64("timestamp"), 0),
		Bits:       uint32(bits),
		Nonce:      uint32(c.Uint64("nonce")),
	}

	if raw := c.String("cuckoo-proof"); raw != "" {
		proof, err := parseCuckooProof(raw)
		if err != nil {
			return nil, err
		}
		header.CuckooProof = proof
		header.Version |= wire.CuckooHardforkVersionBit
	}

	return header, nil
}

func parseCuckooProof(raw string) ([wire.CuckooProofSize]uint32, error) {
	var proof [wire.CuckooProofSize]uint32
	parts := strings.Split(raw, ",")
	if len(parts) != wire.CuckooProofSize {
		return proof, fmt.Errorf("cuckoo-proof must have exactly %d entries, got %d", wire.CuckooProofSize, len(parts))
	}
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return proof, fmt.Errorf("invalid cuckoo-proof entry %d: %w", i, err)
		}
		proof[i] = uint32(n)
	}
	return proof, nil
}
