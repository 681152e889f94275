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

// etchash is the command line interface to the etchash proof-of-work
// primitives.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"
	"gitlab.com/aquachain/etchash/cmd/utils"
	"gitlab.com/aquachain/etchash/common"
	"gitlab.com/aquachain/etchash/common/log"
	"gitlab.com/aquachain/etchash/internal/debug"
)

const clientIdentifier = "etchash"

var (
	// Git SHA1 commit hash and timestamp of the release (set via linker flags)
	gitCommit, buildDate string
	// The app that holds all commands and flags.
	app = utils.NewApp(gitCommit, "the etchash command line interface")
)

func init() {
	app.Name = clientIdentifier
	app.HideVersion = true // we have a command to print the version
	app.Copyright = "Copyright 2018-2024 The Aquachain Authors"
	app.Commands = []cli.Command{
		// See epochcmd.go:
		seedCommand,
		epochCommand,
		sizesCommand,
		contextCommand,
		itemCommand,
		keccakCommand,
		// See dagcmd.go:
		makecacheCommand,
		makedagCommand,
		exportCommand,
		// See misccmd.go:
		dumpConfigCommand,
		versionCommand,
		licenseCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))

	app.Flags = append(app.Flags, utils.EtchashFlags...)
	app.Flags = append(app.Flags, debug.Flags...)

	app.Before = func(ctx *cli.Context) error {
		return debug.Setup(ctx)
	}
	app.After = func(ctx *cli.Context) error {
		debug.Exit()
		return nil
	}
}

func main() {
	if common.FileExist(".env") {
		if err := godotenv.Load(".env"); err != nil {
			utils.Fatalf("Failed to load .env: %v", err)
		}
	}
	if err := app.Run(os.Args); err != nil {
		log.Debug("command failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
