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
	"gitlab.com/aquachain/etchash/crypto/keccak"
)

const (
	datasetInitBytes   = 1 << 30 // Bytes in dataset at genesis
	datasetGrowthBytes = 1 << 23 // Dataset growth per epoch
	cacheInitBytes     = 1 << 24 // Bytes in cache at genesis
	cacheGrowthBytes   = 1 << 17 // Cache growth per epoch
	epochLength        = 30000   // Blocks per epoch
	hashBytes          = 64      // Hash length in bytes
	hashWords          = 16      // Number of 32 bit ints in a hash
	itemBytes          = 128     // Bytes in one dataset item
	datasetParents     = 256     // Number of parents of each dataset element
	cacheRounds        = 3       // Number of rounds in cache production
	l1CacheBytes       = 16 * 1024
	l1CacheItems       = l1CacheBytes / itemBytes

	// ECIP1099Epoch is the first epoch at which the classic mainnet halves
	// the epoch used for cache and dataset sizing.
	ECIP1099Epoch = 390
)

func keccak256(data []byte) Hash256 { return keccak.Sum256(data) }

func keccak512(data []byte) Hash512 { return keccak.Sum512(data) }

// Keccak256 is the 256 bit Keccak digest of data.
func Keccak256(data []byte) Hash256 { return keccak256(data) }

// Keccak512 is the 512 bit Keccak digest of data.
func Keccak512(data []byte) Hash512 { return keccak512(data) }

// BuildLightCache creates the verification cache of items entries for the
// given seed.
func BuildLightCache(items int, seed Hash256) []Hash512 {
	cache := make([]Hash512, items)
	buildLightCache(cache, seed)
	return cache
}

// buildLightCache fills cache in place. The first pass is a sequential hash
// chain; the RandMemoHash rounds then rewrite each item from two others. A
// round reads items already rewritten earlier in the same round, so the
// indexes must be visited in order.
func buildLightCache(cache []Hash512, seed Hash256) {
	n := len(cache)
	if n == 0 {
		return
	}
	hashChain(cache, seed)

	limit := uint32(n)
	for round := 0; round < cacheRounds; round++ {
		for i := 0; i < n; i++ {
			v := cache[i].Word32(0) % limit
			w := uint32(n+i-1) % limit
			x := xorHash512(&cache[v], &cache[w])
			cache[i] = keccak512(x[:])
		}
	}
}

// hashChain fills cache with keccak512(seed), keccak512 of that, and so on.
func hashChain(cache []Hash512, seed Hash256) {
	if len(cache) == 0 {
		return
	}
	cache[0] = keccak512(seed[:])
	for i := 1; i < len(cache); i++ {
		cache[i] = keccak512(cache[i-1][:])
	}
}

// itemState derives one 512 bit dataset node from the light cache.
type itemState struct {
	cache    []Hash512
	numItems int64
	seed     uint32
	mix      Hash512
}

func newItemState(cache []Hash512, index int64) itemState {
	s := itemState{
		cache:    cache,
		numItems: int64(len(cache)),
		seed:     uint32(index),
	}
	s.mix = cache[index%s.numItems]
	s.mix.SetWord32(0, s.mix.Word32(0)^s.seed)
	s.mix = keccak512(s.mix[:])
	return s
}

func (s *itemState) update(round uint32) {
	t := fnv1(s.seed^round, s.mix.Word32(int(round%hashWords)))
	parent := int64(t) % s.numItems
	s.mix = fnv1Hash512(&s.mix, &s.cache[parent])
}

func (s *itemState) final() Hash512 {
	return keccak512(s.mix[:])
}

// CalcDatasetItem512 computes the 512 bit dataset node at index.
func CalcDatasetItem512(cache []Hash512, index int64) Hash512 {
	s := newItemState(cache, index)
	for j := uint32(0); j < datasetParents; j++ {
		s.update(j)
	}
	return s.final()
}

// CalcDatasetItem1024 computes dataset item index, the nodes 2*index and
// 2*index+1.
func CalcDatasetItem1024(cache []Hash512, index uint32) (item Hash1024) {
	s0 := newItemState(cache, int64(index)*2)
	s1 := newItemState(cache, int64(index)*2+1)
	for j := uint32(0); j < datasetParents; j++ {
		s0.update(j)
		s1.update(j)
	}
	n0, n1 := s0.final(), s1.final()
	copy(item[:64], n0[:])
	copy(item[64:], n1[:])
	return item
}

// CalcDatasetItem2048 computes the nodes 4*index through 4*index+3, which
// are the dataset items 2*index and 2*index+1.
func CalcDatasetItem2048(cache []Hash512, index uint32) (group Hash2048) {
	var states [4]itemState
	for k := range states {
		states[k] = newItemState(cache, int64(index)*4+int64(k))
	}
	for j := uint32(0); j < datasetParents; j++ {
		for k := range states {
			states[k].update(j)
		}
	}
	for k := range states {
		node := states[k].final()
		copy(group[k*64:(k+1)*64], node[:])
	}
	return group
}
