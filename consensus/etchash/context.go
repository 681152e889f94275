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
	"math"
	"math/bits"
	"sync"
	"sync/atomic"
	"time"

	"gitlab.com/aquachain/etchash/common/log"
)

// EpochContext holds everything derived for one epoch: the item counts, the
// seed, the light cache and the 16 KiB L1 region. Full contexts additionally
// own the dataset, filled either on demand or by GenerateDataset.
type EpochContext struct {
	EpochNumber      int
	Seed             Hash256
	LightCacheItems  int
	LightCache       []Hash512
	L1               []Hash1024 // dataset items [0, 128)
	FullDatasetItems int

	dataset []Hash1024
	filled  []uint64 // bitmap of computed dataset items, read atomically
	fillMu  sync.Mutex

	loaded bool // light cache came from a cacheSource
}

// cacheSource supplies a previously stored light cache, or nil.
type cacheSource func(seed Hash256, items int) []Hash512

// NewEpochContext builds the context for epoch under the classic mainnet
// ECIP-1099 activation. With full set the dataset is allocated as well, but
// only its first 16 KiB are computed here.
func NewEpochContext(epoch int, full bool) (*EpochContext, error) {
	return buildEpochContext(epoch, full, ECIP1099Epoch, 0, nil)
}

// NewEpochContextWithActivation is NewEpochContext with a custom ECIP-1099
// activation epoch. A negative activation gives plain ethash sizes.
func NewEpochContextWithActivation(epoch int, full bool, activation int) (*EpochContext, error) {
	return buildEpochContext(epoch, full, activation, 0, nil)
}

// buildEpochContext does the work; maxDatasetBytes of zero means no limit.
// A non-nil source is asked for a stored light cache before building one.
func buildEpochContext(epoch int, full bool, activation int, maxDatasetBytes uint64, source cacheSource) (*EpochContext, error) {
	if epoch < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidEpoch, epoch)
	}
	var (
		start     = time.Now()
		effective = EffectiveEpoch(epoch, activation)
		ctx       = &EpochContext{
			EpochNumber:      epoch,
			LightCacheItems:  CalcLightCacheItems(effective),
			FullDatasetItems: CalcFullDatasetItems(effective),
		}
		err error
	)
	logger := log.New("epoch", epoch)

	if full {
		if ctx.dataset, err = allocItems[Hash1024](ctx.FullDatasetItems, itemBytes, maxDatasetBytes); err != nil {
			return nil, err
		}
		ctx.filled = make([]uint64, (ctx.FullDatasetItems+63)/64)
		ctx.L1 = ctx.dataset[:l1CacheItems]
	} else {
		ctx.L1 = make([]Hash1024, l1CacheItems)
	}

	ctx.Seed = CalcEpochSeed(epoch)
	if source != nil {
		ctx.LightCache = source(ctx.Seed, ctx.LightCacheItems)
		ctx.loaded = ctx.LightCache != nil
	}
	if !ctx.loaded {
		if ctx.LightCache, err = allocItems[Hash512](ctx.LightCacheItems, hashBytes, 0); err != nil {
			return nil, err
		}
		buildLightCache(ctx.LightCache, ctx.Seed)
	}

	for i := uint32(0); i < l1CacheItems/2; i++ {
		group := CalcDatasetItem2048(ctx.LightCache, i)
		ctx.L1[2*i] = group.Item(0)
		ctx.L1[2*i+1] = group.Item(1)
	}
	if full {
		// l1CacheItems is a multiple of 64
		for w := 0; w < l1CacheItems/64; w++ {
			ctx.filled[w] = math.MaxUint64
		}
	}

	logger.Debug("Generated etchash epoch context", "effective", effective,
		"cache", LightCacheSize(ctx.LightCacheItems), "full", full, "loaded", ctx.loaded, "elapsed", time.Since(start))
	return ctx, nil
}

// allocItems makes a slice of n items of itemSize bytes, failing instead of
// proceeding when the size is over limit (if non-zero) or cannot be made.
func allocItems[T any](n int, itemSize, limit uint64) (s []T, err error) {
	size := uint64(n) * itemSize
	if n < 0 || (limit > 0 && size > limit) {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrAllocation, size, limit)
	}
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("%w: %d bytes: %v", ErrAllocation, size, r)
		}
	}()
	return make([]T, n), nil
}

// IsFull reports whether the context owns a dataset.
func (c *EpochContext) IsFull() bool { return c.dataset != nil }

// LightCacheSize is the light cache size in bytes.
func (c *EpochContext) LightCacheSize() uint64 { return LightCacheSize(c.LightCacheItems) }

// FullDatasetSize is the dataset size in bytes.
func (c *EpochContext) FullDatasetSize() uint64 { return FullDatasetSize(c.FullDatasetItems) }

// L1Word returns the i'th 32 bit word of the L1 region.
func (c *EpochContext) L1Word(i int) uint32 {
	return c.L1[i/32].Word32(i % 32)
}

// DatasetItem returns dataset item index. Light contexts compute it (or read
// it from L1); full contexts compute it once and keep it. It is safe to call
// from multiple goroutines.
func (c *EpochContext) DatasetItem(index uint32) Hash1024 {
	if c.dataset == nil {
		if index < l1CacheItems {
			return c.L1[index]
		}
		return CalcDatasetItem1024(c.LightCache, index)
	}
	if int(index) >= len(c.dataset) {
		return CalcDatasetItem1024(c.LightCache, index)
	}
	word, bit := index/64, uint64(1)<<(index%64)
	if atomic.LoadUint64(&c.filled[word])&bit != 0 {
		return c.dataset[index]
	}
	item := CalcDatasetItem1024(c.LightCache, index)

	c.fillMu.Lock()
	if c.filled[word]&bit == 0 {
		c.dataset[index] = item
		atomic.StoreUint64(&c.filled[word], c.filled[word]|bit)
	}
	c.fillMu.Unlock()
	return item
}

// DatasetItem2048 returns the dataset items 2*index and 2*index+1. The
// item indexes can exceed 32 bits.
func (c *EpochContext) DatasetItem2048(index uint32) (group Hash2048) {
	var a, b Hash1024
	first := 2 * uint64(index)
	switch {
	case c.dataset == nil && index < l1CacheItems/2:
		a, b = c.L1[first], c.L1[first+1]
	case c.dataset == nil || first+1 >= uint64(len(c.dataset)):
		return CalcDatasetItem2048(c.LightCache, index)
	default:
		a, b = c.DatasetItem(uint32(first)), c.DatasetItem(uint32(first+1))
	}
	copy(group[:128], a[:])
	copy(group[128:], b[:])
	return group
}

// storeBlock stores the 64 items starting at word*64, skipping any that were
// filled concurrently.
func (c *EpochContext) storeBlock(word int, items []Hash1024) {
	c.fillMu.Lock()
	defer c.fillMu.Unlock()

	have := c.filled[word]
	for k := range items {
		if have&(1<<k) == 0 {
			c.dataset[word*64+k] = items[k]
		}
	}
	atomic.StoreUint64(&c.filled[word], have|mask(len(items)))
}

func mask(n int) uint64 {
	if n >= 64 {
		return math.MaxUint64
	}
	return 1<<n - 1
}

// FilledItems counts the dataset items computed so far.
func (c *EpochContext) FilledItems() int {
	n := 0
	for i := range c.filled {
		n += bits.OnesCount64(atomic.LoadUint64(&c.filled[i]))
	}
	return n
}

// Dataset returns the dataset buffer of a full context, or nil. Items not
// yet computed are zero; use DatasetItem unless FilledItems equals
// FullDatasetItems.
func (c *EpochContext) Dataset() []Hash1024 {
	return c.dataset
}

// ContextSummary is the JSON description of a context.
type ContextSummary struct {
	EpochNumber   int      `json:"epochNumber"`
	LightNumItems int      `json:"lightNumItems"`
	LightSize     uint64   `json:"lightSize"`
	DagNumItems   int      `json:"dagNumItems"`
	DagSize       uint64   `json:"dagSize"`
	Seed          string   `json:"seed"`
	LightCache    []string `json:"lightCache,omitempty"`
}

// Summary describes the context, optionally listing every light cache item
// in hex.
func (c *EpochContext) Summary(withCache bool) ContextSummary {
	s := ContextSummary{
		EpochNumber:   c.EpochNumber,
		LightNumItems: c.LightCacheItems,
		LightSize:     c.LightCacheSize(),
		DagNumItems:   c.FullDatasetItems,
		DagSize:       c.FullDatasetSize(),
		Seed:          c.Seed.Hex(),
	}
	if withCache {
		s.LightCache = make([]string, len(c.LightCache))
		for i := range c.LightCache {
			s.LightCache[i] = c.LightCache[i].Hex()
		}
	}
	return s
}
