// Copyright (c) 2021 The nheqminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.
package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/michaelotis/nheqminer/types/chainhash"
	"github.com/michaelotis/nheqminer/types/pow"
	"github.com/michaelotis/nheqminer/types/wire"
)

const (
	flagKind   = "kind"
	flagHex    = "hex"
	flagFile   = "file"
	flagBranch = "branch"
	flagN      = "n"
	flagK      = "k"
)

func (app *App) DecodeHeaderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  flagKind,
			Value: "primary",
			Usage: "header kind: primary or alternate",
		},
		&cli.StringFlag{
			Name:  flagHex,
			Usage: "hex-encoded header bytes",
		},
		&cli.StringFlag{
			Name:  flagFile,
			Usage: "path to a file with hex-encoded header bytes",
		},
	}
}

func (app *App) DecodeHeaderCmd(c *cli.Context) error {
	raw, err := app.rawInput(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	var kind wire.HeaderKind
	switch c.String(flagKind) {
	case "primary":
		kind = wire.KindPrimary
	case "alternate":
		kind = wire.KindAlternateReduced
	default:
		return cli.Exit(errors.Errorf("unknown header kind %q", c.String(flagKind)), 1)
	}

	header, err := wire.DecodeHeader(kind, bytes.NewReader(raw))
	if err != nil {
		return cli.Exit(errors.Wrap(err, "can't decode header"), 1)
	}

	app.log.Debug().
		Stringer("kind", kind).
		Int("size", header.SerializeSize()).
		Msg("header decoded")

	switch h := header.(type) {
	case *wire.PrimaryHeader:
		fmt.Printf("kind:          %v\n", kind)
		fmt.Printf("version:       %d\n", h.Version())
		fmt.Printf("prevBlock:     %v\n", h.PrevBlock())
		fmt.Printf("merkleRoot:    %v\n", h.MerkleRoot())
		fmt.Printf("reservedRoot:  %v\n", h.ReservedRoot())
		fmt.Printf("time:          %v\n", h.Timestamp().UTC())
		fmt.Printf("bits:          0x%08x\n", h.Bits())
	case *wire.AlternateHeader:
		fmt.Printf("kind:          %v\n", kind)
		fmt.Printf("headerHash:    %v\n", h.HeaderHash())
	}
	fmt.Printf("nonce:         %v\n", header.Nonce())
	fmt.Printf("solution:      %d bytes\n", len(header.Solution()))
	fmt.Printf("blockHash:     %v\n", header.BlockHash())
	fmt.Printf("equihashInput: %s\n", hex.EncodeToString(header.EquihashInput()))
	fmt.Printf("isNull:        %v\n", header.IsNull())
	return nil
}

func (app *App) MerkleRootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  flagHex,
			Usage: "leaf hash in display (byte-reversed hex) order; repeatable",
		},
		&cli.StringFlag{
			Name:  flagFile,
			Usage: "path to a file with one leaf hash per line",
		},
		&cli.IntFlag{
			Name:  flagBranch,
			Value: -1,
			Usage: "also print the inclusion branch for this leaf index",
		},
	}
}

func (app *App) MerkleRootCmd(c *cli.Context) error {
	leaves, err := app.leafHashes(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	tree := chainhash.BuildMerkleTree(leaves)
	fmt.Printf("leaves:  %d\n", tree.LeafCount())
	fmt.Printf("root:    %v\n", tree.Root())
	fmt.Printf("mutated: %v\n", tree.Mutated())
	if tree.Mutated() {
		app.log.Warn().Msg("duplicate leaves detected; the root is ambiguous and must be rejected")
	}

	if index := c.Int(flagBranch); index >= 0 {
		branch, err := tree.Branch(index)
		if err != nil {
			return cli.Exit(err, 1)
		}
		spew.Fdump(os.Stdout, branch)

		root := chainhash.CheckMerkleBranch(leaves[index], branch, index)
		fmt.Printf("folded:  %v\n", root)
	}
	return nil
}

func (app *App) SolutionSizeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.UintFlag{Name: flagN, Value: 200, Usage: "equihash parameter n"},
		&cli.UintFlag{Name: flagK, Value: 9, Usage: "equihash parameter k"},
	}
}

func (app *App) SolutionSizeCmd(c *cli.Context) error {
	n, k := uint32(c.Uint(flagN)), uint32(c.Uint(flagK))
	size, ok := pow.SolutionLen(n, k)
	if !ok {
		return cli.Exit(errors.Errorf("equihash %d,%d has no byte-aligned solution", n, k), 1)
	}

	fmt.Printf("equihash %d,%d solution: %d bytes\n", n, k, size)
	return nil
}

func (app *App) rawInput(c *cli.Context) ([]byte, error) {
	h := c.String(flagHex)
	if path := c.String(flagFile); path != "" {
		raw, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, err
		}
		h = strings.TrimSpace(string(raw))
	}
	if h == "" {
		return nil, errors.New("either --hex or --file is required")
	}

	return hex.DecodeString(h)
}

func (app *App) leafHashes(c *cli.Context) ([]chainhash.Hash, error) {
	lines := c.StringSlice(flagHex)
	if path := c.String(flagFile); path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				lines = append(lines, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	leaves := make([]chainhash.Hash, len(lines))
	for i, line := range lines {
		hash, err := chainhash.NewHashFromStr(line)
		if err != nil {
			return nil, errors.Wrapf(err, "leaf %d", i)
		}
		leaves[i] = *hash
	}
	return leaves, nil
}
