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

// Package utils contains internal helper functions for etchash commands.
package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli"
	"gitlab.com/aquachain/etchash/common"
	"gitlab.com/aquachain/etchash/common/sense"
	"gitlab.com/aquachain/etchash/consensus/etchash"
)

// Version of the command line tools.
const Version = "0.3.0"

var (
	ConfigFileFlag = cli.StringFlag{
		Name:   "config",
		Usage:  "TOML configuration file",
		EnvVar: "ETCHASH_CONFIG",
	}
	CacheDirFlag = cli.StringFlag{
		Name:  "cachedir",
		Usage: "Directory to store the verification caches (empty = memory only, env ETCHASH_CACHEDIR)",
	}
	CachesInMemFlag = cli.IntFlag{
		Name:  "caches.inmem",
		Usage: "Number of recent verification caches to keep in memory",
		Value: etchash.DefaultConfig.CachesInMem,
	}
	CachesOnDiskFlag = cli.IntFlag{
		Name:  "caches.ondisk",
		Usage: "Number of recent verification caches to keep on disk",
		Value: etchash.DefaultConfig.CachesOnDisk,
	}
	DatasetDirFlag = cli.StringFlag{
		Name:  "dagdir",
		Usage: "Directory to store the mining DAGs (empty = memory only, env ETCHASH_DAGDIR)",
	}
	DatasetsInMemFlag = cli.IntFlag{
		Name:  "dags.inmem",
		Usage: "Number of recent mining DAGs to keep in memory",
		Value: etchash.DefaultConfig.DatasetsInMem,
	}
	DatasetsOnDiskFlag = cli.IntFlag{
		Name:  "dags.ondisk",
		Usage: "Number of recent mining DAGs to keep on disk",
		Value: etchash.DefaultConfig.DatasetsOnDisk,
	}
	ECIP1099Flag = cli.IntFlag{
		Name:  "ecip1099",
		Usage: "Epoch at which cache and DAG growth is halved",
		Value: etchash.ECIP1099Epoch,
	}
	NoECIP1099Flag = cli.BoolFlag{
		Name:  "noecip1099",
		Usage: "Use plain ethash sizes for every epoch",
	}
	ThreadsFlag = cli.IntFlag{
		Name:  "threads",
		Usage: "Number of DAG generation threads (0 = all CPUs)",
		Value: runtime.NumCPU(),
	}
	MaxDatasetFlag = cli.Uint64Flag{
		Name:  "dags.maxbytes",
		Usage: "Refuse to allocate DAGs larger than this (0 = no limit)",
	}
	JSONFlag = cli.BoolFlag{
		Name:  "json",
		Usage: "Print results as JSON",
	}
)

// EtchashFlags are the flags configuring the etchash engine.
var EtchashFlags = []cli.Flag{
	ConfigFileFlag,
	CacheDirFlag, CachesInMemFlag, CachesOnDiskFlag,
	DatasetDirFlag, DatasetsInMemFlag, DatasetsOnDiskFlag,
	ECIP1099Flag, NoECIP1099Flag, ThreadsFlag, MaxDatasetFlag,
}

// NewApp creates an app with sane defaults.
func NewApp(gitCommit, usage string) *cli.App {
	app := cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Author = ""
	app.Email = ""
	app.Version = Version
	if len(gitCommit) >= 8 {
		app.Version += "-" + gitCommit[:8]
	}
	app.Usage = usage
	return app
}

// MigrateFlags sets the global flag from a local flag when it's set.
// This is a temporary function used for migrating old command/flags to the
// new format.
//
// e.g. etchash context --threads 1 1 is equivalent to etchash --threads 1
// context 1
func MigrateFlags(action func(ctx *cli.Context) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		for _, name := range ctx.FlagNames() {
			if ctx.IsSet(name) {
				ctx.GlobalSet(name, ctx.String(name))
			}
		}
		return action(ctx)
	}
}

// SetEtchashConfig applies the engine flags that were given on the command
// line on top of cfg. The storage directories fall back to ETCHASH_CACHEDIR
// and ETCHASH_DAGDIR when their flags are absent.
func SetEtchashConfig(ctx *cli.Context, cfg *etchash.Config) {
	cfg.CacheDir = sense.EnvOr("ETCHASH_CACHEDIR", cfg.CacheDir)
	cfg.DatasetDir = sense.EnvOr("ETCHASH_DAGDIR", cfg.DatasetDir)
	if ctx.GlobalIsSet(CacheDirFlag.Name) {
		cfg.CacheDir = common.AbsolutePath(".", ctx.GlobalString(CacheDirFlag.Name))
	}
	if ctx.GlobalIsSet(CachesInMemFlag.Name) {
		cfg.CachesInMem = ctx.GlobalInt(CachesInMemFlag.Name)
	}
	if ctx.GlobalIsSet(CachesOnDiskFlag.Name) {
		cfg.CachesOnDisk = ctx.GlobalInt(CachesOnDiskFlag.Name)
	}
	if ctx.GlobalIsSet(DatasetDirFlag.Name) {
		cfg.DatasetDir = common.AbsolutePath(".", ctx.GlobalString(DatasetDirFlag.Name))
	}
	if ctx.GlobalIsSet(DatasetsInMemFlag.Name) {
		cfg.DatasetsInMem = ctx.GlobalInt(DatasetsInMemFlag.Name)
	}
	if ctx.GlobalIsSet(DatasetsOnDiskFlag.Name) {
		cfg.DatasetsOnDisk = ctx.GlobalInt(DatasetsOnDiskFlag.Name)
	}
	if ctx.GlobalIsSet(ECIP1099Flag.Name) {
		cfg.ECIP1099Epoch = ctx.GlobalInt(ECIP1099Flag.Name)
	}
	if ctx.GlobalBool(NoECIP1099Flag.Name) {
		cfg.DisableECIP1099 = true
	}
	if ctx.GlobalIsSet(ThreadsFlag.Name) {
		cfg.Threads = ctx.GlobalInt(ThreadsFlag.Name)
	}
	if ctx.GlobalIsSet(MaxDatasetFlag.Name) {
		cfg.MaxDatasetBytes = ctx.GlobalUint64(MaxDatasetFlag.Name)
	}
}
