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

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli"
	"gitlab.com/aquachain/etchash/common/log"
	"gitlab.com/aquachain/etchash/common/sense"
	"gitlab.com/aquachain/etchash/common/toml"
	"gitlab.com/aquachain/etchash/consensus/etchash"
)

// EtchashConfig is the layout of the TOML configuration file.
type EtchashConfig struct {
	Etchash etchash.Config
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *EtchashConfig {
	return &EtchashConfig{Etchash: etchash.DefaultConfig}
}

// LoadConfig decodes the TOML file into cfg. Keys that match no field are
// an error, unless TOML_MISSING_FIELD=OK is set in the environment.
func LoadConfig(file string, cfg *EtchashConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	md, err := toml.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	if err != nil {
		return fmt.Errorf("%s: %v", file, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i := range undecoded {
			keys[i] = undecoded[i].String()
		}
		err := fmt.Errorf("%s: fields not defined in config: %s", file, strings.Join(keys, ", "))
		if sense.Getenv("TOML_MISSING_FIELD") == "OK" {
			log.Warn(err.Error())
			return nil
		}
		// wrong config file, or outdated config file
		return err
	}
	return nil
}

// MakeConfig loads the config file named on the command line, if any, and
// applies the engine flags on top.
func MakeConfig(ctx *cli.Context) (*EtchashConfig, error) {
	cfg := DefaultConfig()
	if file := ctx.GlobalString(ConfigFileFlag.Name); file != "" {
		if err := LoadConfig(file, cfg); err != nil {
			return nil, err
		}
	}
	SetEtchashConfig(ctx, &cfg.Etchash)
	return cfg, nil
}

// DumpConfig writes cfg as TOML.
func DumpConfig(w io.Writer, cfg *EtchashConfig) error {
	return toml.NewEncoder(w).Encode(cfg)
}
