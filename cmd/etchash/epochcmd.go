// Copyright 2018 The aquachain Authors
// This file is part of etchash.
//
// etchash is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// etchash is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with etchash. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/urfave/cli"
	"gitlab.com/aquachain/etchash/cmd/utils"
	"gitlab.com/aquachain/etchash/consensus/etchash"
	"gitlab.com/aquachain/etchash/crypto/keccak"
)

var (
	blockFlag = cli.BoolFlag{
		Name:  "block",
		Usage: "Interpret the argument as a block number instead of an epoch",
	}
	withCacheFlag = cli.BoolFlag{
		Name:  "withcache",
		Usage: "Include every light cache item in the output",
	}
	groupFlag = cli.BoolFlag{
		Name:  "group",
		Usage: "Print 2048 bit groups (items 2i and 2i+1) instead of single items",
	}
	keccak512Flag = cli.BoolFlag{
		Name:  "512",
		Usage: "Use Keccak-512 instead of Keccak-256",
	}
)

var (
	seedCommand = cli.Command{
		Action:    utils.MigrateFlags(seed),
		Name:      "seed",
		Usage:     "Print the seed hash of an epoch",
		ArgsUsage: "<epoch>",
		Flags:     []cli.Flag{blockFlag},
		Category:  "EPOCH COMMANDS",
	}
	epochCommand = cli.Command{
		Action:    utils.MigrateFlags(epoch),
		Name:      "epoch",
		Usage:     "Find the epoch number of a seed hash",
		ArgsUsage: "<seed>",
		Category:  "EPOCH COMMANDS",
		Description: `
The epoch command searches the first 30000 epochs for the given seed.`,
	}
	sizesCommand = cli.Command{
		Action:    utils.MigrateFlags(sizes),
		Name:      "sizes",
		Usage:     "Print the cache and DAG sizes of an epoch",
		ArgsUsage: "<epoch>",
		Flags:     append([]cli.Flag{blockFlag, utils.JSONFlag}, utils.EtchashFlags...),
		Category:  "EPOCH COMMANDS",
		Description: `
Sizes follow the ECIP-1099 schedule unless --noecip1099 is given.`,
	}
	contextCommand = cli.Command{
		Action:    utils.MigrateFlags(epochContext),
		Name:      "context",
		Usage:     "Build the light context of an epoch and print it as JSON",
		ArgsUsage: "<epoch>",
		Flags:     append([]cli.Flag{blockFlag, withCacheFlag}, utils.EtchashFlags...),
		Category:  "EPOCH COMMANDS",
	}
	itemCommand = cli.Command{
		Action:    utils.MigrateFlags(item),
		Name:      "item",
		Usage:     "Compute dataset items from the light cache",
		ArgsUsage: "<epoch> <index> [<index>...]",
		Flags:     append([]cli.Flag{blockFlag, groupFlag}, utils.EtchashFlags...),
		Category:  "EPOCH COMMANDS",
	}
	keccakCommand = cli.Command{
		Action:    utils.MigrateFlags(keccakHash),
		Name:      "keccak",
		Usage:     "Hash the arguments, or standard input, with Keccak",
		ArgsUsage: "[<data>|0x<hex>]",
		Flags:     []cli.Flag{keccak512Flag},
		Category:  "MISCELLANEOUS COMMANDS",
	}
)

func seed(ctx *cli.Context) error {
	if len(ctx.Args()) != 1 {
		utils.Fatalf("Usage: etchash seed [--block] <epoch>")
	}
	epoch, err := parseEpoch(ctx.Args().First(), ctx.Bool(blockFlag.Name))
	if err != nil {
		utils.Fatalf("%v", err)
	}
	fmt.Println(etchash.CalcEpochSeed(epoch).Hex())
	return nil
}

func epoch(ctx *cli.Context) error {
	if len(ctx.Args()) != 1 {
		utils.Fatalf("Usage: etchash epoch <seed>")
	}
	seed, err := parseSeed(ctx.Args().First())
	if err != nil {
		utils.Fatalf("Invalid seed: %v", err)
	}
	engine, err := makeEngine(ctx)
	if err != nil {
		return err
	}
	epoch, err := engine.EpochForSeed(seed)
	if err != nil {
		return err
	}
	fmt.Println(epoch)
	return nil
}

// epochSizes is the output of the sizes command.
type epochSizes struct {
	Epoch          int    `json:"epoch"`
	EffectiveEpoch int    `json:"effectiveEpoch"`
	LightNumItems  int    `json:"lightNumItems"`
	LightSize      uint64 `json:"lightSize"`
	DagNumItems    int    `json:"dagNumItems"`
	DagSize        uint64 `json:"dagSize"`
}

func calcSizes(epoch, activation int) epochSizes {
	effective := etchash.EffectiveEpoch(epoch, activation)
	light, full := etchash.CalcLightCacheItems(effective), etchash.CalcFullDatasetItems(effective)
	return epochSizes{
		Epoch:          epoch,
		EffectiveEpoch: effective,
		LightNumItems:  light,
		LightSize:      etchash.LightCacheSize(light),
		DagNumItems:    full,
		DagSize:        etchash.FullDatasetSize(full),
	}
}

func sizes(ctx *cli.Context) error {
	if len(ctx.Args()) != 1 {
		utils.Fatalf("Usage: etchash sizes [--block] [--json] <epoch>")
	}
	epoch, err := parseEpoch(ctx.Args().First(), ctx.Bool(blockFlag.Name))
	if err != nil {
		utils.Fatalf("%v", err)
	}
	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return err
	}
	s := calcSizes(epoch, cfg.Etchash.Activation())
	if ctx.Bool(utils.JSONFlag.Name) {
		return printJSON(os.Stdout, s)
	}
	fmt.Println("Epoch:", s.Epoch)
	fmt.Println("Effective epoch:", s.EffectiveEpoch)
	fmt.Printf("Light cache: %d items, %d bytes\n", s.LightNumItems, s.LightSize)
	fmt.Printf("DAG: %d items, %d bytes\n", s.DagNumItems, s.DagSize)
	return nil
}

func epochContext(ctx *cli.Context) error {
	if len(ctx.Args()) != 1 {
		utils.Fatalf("Usage: etchash context [--block] [--withcache] <epoch>")
	}
	epoch, err := parseEpoch(ctx.Args().First(), ctx.Bool(blockFlag.Name))
	if err != nil {
		utils.Fatalf("%v", err)
	}
	engine, err := makeEngine(ctx)
	if err != nil {
		return err
	}
	ec, err := engine.LightContext(epoch)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, ec.Summary(ctx.Bool(withCacheFlag.Name)))
}

func item(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) < 2 {
		utils.Fatalf("Usage: etchash item [--block] [--group] <epoch> <index> [<index>...]")
	}
	epoch, err := parseEpoch(args[0], ctx.Bool(blockFlag.Name))
	if err != nil {
		utils.Fatalf("%v", err)
	}
	indexes := make([]uint32, len(args)-1)
	for i, arg := range args[1:] {
		n, err := strconv.ParseUint(arg, 0, 32)
		if err != nil {
			utils.Fatalf("Invalid item index %q: %v", arg, err)
		}
		indexes[i] = uint32(n)
	}
	engine, err := makeEngine(ctx)
	if err != nil {
		return err
	}
	ec, err := engine.LightContext(epoch)
	if err != nil {
		return err
	}
	for _, index := range indexes {
		if ctx.Bool(groupFlag.Name) {
			fmt.Println(index, ec.DatasetItem2048(index).Hex())
		} else {
			fmt.Println(index, ec.DatasetItem(index).Hex())
		}
	}
	return nil
}

func keccakHash(ctx *cli.Context) error {
	var data []byte
	if len(ctx.Args()) == 0 {
		in, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		data = in
	} else {
		for _, arg := range ctx.Args() {
			b, err := hashInput(arg)
			if err != nil {
				utils.Fatalf("Invalid hex input %q: %v", arg, err)
			}
			data = append(data, b...)
		}
	}
	if ctx.Bool(keccak512Flag.Name) {
		fmt.Printf("0x%x\n", keccak.Keccak512(data))
	} else {
		fmt.Printf("0x%x\n", keccak.Keccak256(data))
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
