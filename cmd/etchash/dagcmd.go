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
	"bufio"
	"os"

	"github.com/urfave/cli"
	"gitlab.com/aquachain/etchash/cmd/utils"
	"gitlab.com/aquachain/etchash/common/log"
	"gitlab.com/aquachain/etchash/consensus/etchash"
)

var (
	makecacheCommand = cli.Command{
		Action:    utils.MigrateFlags(makecache),
		Name:      "makecache",
		Usage:     "Generate etchash verification cache (for testing)",
		ArgsUsage: "<epoch> <outputDir>",
		Flags:     []cli.Flag{blockFlag},
		Category:  "MISCELLANEOUS COMMANDS",
		Description: `
The makecache command generates an etchash cache in <outputDir>.

This command exists to support the system testing project.
Regular users do not need to execute it.
`,
	}
	makedagCommand = cli.Command{
		Action:    utils.MigrateFlags(makedag),
		Name:      "makedag",
		Usage:     "Generate etchash mining DAG (for testing)",
		ArgsUsage: "<epoch> <outputDir>",
		Flags:     []cli.Flag{blockFlag},
		Category:  "MISCELLANEOUS COMMANDS",
		Description: `
The makedag command generates an etchash DAG in <outputDir>.
The DAG is over a gigabyte and takes minutes to compute.

This command exists to support the system testing project.
Regular users do not need to execute it.
`,
	}
	exportCommand = cli.Command{
		Action:    utils.MigrateFlags(export),
		Name:      "export",
		Usage:     "Write the light cache of an epoch as a snappy compressed stream",
		ArgsUsage: "<epoch> <file>",
		Flags:     append([]cli.Flag{blockFlag}, utils.EtchashFlags...),
		Category:  "MISCELLANEOUS COMMANDS",
	}
)

// makecache generates an etchash verification cache into the provided folder.
func makecache(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 2 {
		utils.Fatalf(`Usage: etchash makecache <epoch> <outputdir>`)
	}
	epoch, err := parseEpoch(args[0], ctx.Bool(blockFlag.Name))
	if err != nil {
		utils.Fatalf("Invalid epoch: %v", err)
	}
	path, err := etchash.MakeCache(epoch, args[1])
	if err != nil {
		utils.Fatalf("Failed to generate cache: %v", err)
	}
	log.Info("Wrote etchash cache", "epoch", epoch, "path", path)
	return nil
}

// makedag generates an etchash mining DAG into the provided folder.
func makedag(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 2 {
		utils.Fatalf(`Usage: etchash makedag <epoch> <outputdir>`)
	}
	epoch, err := parseEpoch(args[0], ctx.Bool(blockFlag.Name))
	if err != nil {
		utils.Fatalf("Invalid epoch: %v", err)
	}
	path, err := etchash.MakeDataset(epoch, args[1])
	if err != nil {
		utils.Fatalf("Failed to generate DAG: %v", err)
	}
	log.Info("Wrote etchash DAG", "epoch", epoch, "path", path)
	return nil
}

func export(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 2 {
		utils.Fatalf(`Usage: etchash export <epoch> <file>`)
	}
	epoch, err := parseEpoch(args[0], ctx.Bool(blockFlag.Name))
	if err != nil {
		utils.Fatalf("Invalid epoch: %v", err)
	}
	engine, err := makeEngine(ctx)
	if err != nil {
		return err
	}
	ec, err := engine.LightContext(epoch)
	if err != nil {
		return err
	}
	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := exportCache(w, ec.LightCache); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	log.Info("Exported etchash cache", "epoch", epoch, "items", len(ec.LightCache), "file", args[1])
	return f.Close()
}
