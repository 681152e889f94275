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
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"github.com/urfave/cli"
	"gitlab.com/aquachain/etchash/cmd/utils"
	"gitlab.com/aquachain/etchash/consensus/etchash"
)

// parseEpoch reads an epoch number, or with block set a block number whose
// epoch is returned.
func parseEpoch(arg string, block bool) (int, error) {
	n, err := strconv.ParseUint(arg, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %v", arg, err)
	}
	if block {
		return etchash.EpochForBlock(n), nil
	}
	if n > 1<<31-1 {
		return 0, fmt.Errorf("epoch %d out of range", n)
	}
	return int(n), nil
}

// parseSeed decodes a 32 byte seed, with or without 0x prefix.
func parseSeed(arg string) (seed etchash.Hash256, err error) {
	b, err := decodeHex(arg)
	if err != nil {
		return seed, err
	}
	if len(b) != len(seed) {
		return seed, fmt.Errorf("seed must be %d bytes, got %d", len(seed), len(b))
	}
	copy(seed[:], b)
	return seed, nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}

// hashInput is the data to hash: hex when 0x prefixed, the text otherwise.
func hashInput(arg string) ([]byte, error) {
	if strings.HasPrefix(arg, "0x") || strings.HasPrefix(arg, "0X") {
		return decodeHex(arg)
	}
	return []byte(arg), nil
}

// exportCache writes the light cache as a snappy framed stream.
func exportCache(w io.Writer, cache []etchash.Hash512) error {
	sw := snappy.NewBufferedWriter(w)
	for i := range cache {
		if _, err := sw.Write(cache[i][:]); err != nil {
			return err
		}
	}
	return sw.Close()
}

// importCache reads a light cache written by exportCache.
func importCache(r io.Reader, items int) ([]etchash.Hash512, error) {
	sr := snappy.NewReader(r)
	cache := make([]etchash.Hash512, items)
	for i := range cache {
		if _, err := io.ReadFull(sr, cache[i][:]); err != nil {
			return nil, fmt.Errorf("item %d: %v", i, err)
		}
	}
	return cache, nil
}

// makeEngine builds the etchash engine from the config file and flags.
func makeEngine(ctx *cli.Context) (*etchash.Etchash, error) {
	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return nil, err
	}
	return etchash.New(&cfg.Etchash), nil
}
