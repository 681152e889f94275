// Copyright 2018 The aquachain Authors
// This file is part of the aquachain library.
//
// The aquachain library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The aquachain library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the aquachain library. If not, see <http://www.gnu.org/licenses/>.

package etchash

import (
	"fmt"
	"sync"
)

// maxEpochSearch bounds the reverse seed lookup.
const maxEpochSearch = 30000

// CalcEpochSeed is the seed to use for generating the verification cache and
// the mining dataset of an epoch: keccak256 applied epoch times to zero.
func CalcEpochSeed(epoch int) Hash256 {
	var seed Hash256
	for i := 0; i < epoch; i++ {
		seed = keccak256(seed[:])
	}
	return seed
}

// SeedHash is the seed for the epoch containing block.
func SeedHash(block uint64) []byte {
	seed := CalcEpochSeed(EpochForBlock(block))
	return seed[:]
}

// EpochFinder maps seeds back to epoch numbers. It remembers the last match,
// so walking epochs upwards one at a time costs a single hash per lookup.
//
// The zero value is ready to use. An EpochFinder is not safe for concurrent
// use; see SyncEpochFinder.
type EpochFinder struct {
	epoch int
	seed  Hash256
}

// NewEpochFinder returns an empty finder.
func NewEpochFinder() *EpochFinder {
	return &EpochFinder{}
}

// Find returns the epoch whose seed is seed, or ErrEpochNotFound if it is not
// one of the first 30000 epochs.
func (f *EpochFinder) Find(seed Hash256) (int, error) {
	if seed == f.seed {
		return f.epoch, nil
	}

	// sequential access
	next := keccak256(f.seed[:])
	if seed == next {
		f.epoch++
		f.seed = next
		return f.epoch, nil
	}

	var s Hash256
	for i := 0; i < maxEpochSearch; i++ {
		if s == seed {
			f.epoch, f.seed = i, s
			return i, nil
		}
		s = keccak256(s[:])
	}
	return 0, fmt.Errorf("%w: %s", ErrEpochNotFound, seed.Hex())
}

// SyncEpochFinder is an EpochFinder guarded by a mutex, for callers sharing
// one finder between goroutines.
type SyncEpochFinder struct {
	mu     sync.Mutex
	finder EpochFinder
}

// Find is EpochFinder.Find under the lock.
func (f *SyncEpochFinder) Find(seed Hash256) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finder.Find(seed)
}
