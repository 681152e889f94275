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

// Package etchash implements the ethash/etchash proof-of-work primitives:
// epoch seeds, light cache and dataset generation, with the ECIP-1099 size
// schedule of Ethereum Classic.
package etchash

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"gitlab.com/aquachain/etchash/common/log"
	"golang.org/x/sync/singleflight"
)

// Config are the configuration parameters of the etchash engine.
type Config struct {
	CacheDir       string `toml:",omitempty"`
	CachesInMem    int
	CachesOnDisk   int
	DatasetDir     string `toml:",omitempty"`
	DatasetsInMem  int
	DatasetsOnDisk int

	// ECIP1099Epoch overrides the activation epoch of the size halving,
	// 0 means the classic mainnet value.
	ECIP1099Epoch   int  `toml:",omitempty"`
	DisableECIP1099 bool `toml:",omitempty"` // plain ethash sizes

	Threads         int    // dataset generation threads, 0 for all CPUs
	MaxDatasetBytes uint64 `toml:",omitempty"` // refuse larger datasets, 0 for no limit
}

// DefaultConfig contains default settings for use on the classic mainnet.
var DefaultConfig = Config{
	CachesInMem:    2,
	CachesOnDisk:   3,
	DatasetsInMem:  1,
	DatasetsOnDisk: 2,
}

// Activation returns the ECIP-1099 activation epoch in effect, or -1 when
// the rule is disabled.
func (c *Config) Activation() int {
	switch {
	case c.DisableECIP1099:
		return -1
	case c.ECIP1099Epoch > 0:
		return c.ECIP1099Epoch
	default:
		return ECIP1099Epoch
	}
}

// Etchash keeps recently used epoch contexts in memory and, when configured,
// on disk.
type Etchash struct {
	config *Config

	caches   *lru.Cache // epoch -> light *EpochContext
	datasets *lru.Cache // epoch -> full *EpochContext
	inflight singleflight.Group
	finder   SyncEpochFinder

	buildFull func(ctx context.Context, epoch int) (*EpochContext, error)

	threads int
	lock    sync.Mutex // Ensures thread safety for the mining fields
}

// New creates an etchash engine. Zero sized in-memory limits are raised to
// one, as at least one context must be held.
func New(config *Config) *Etchash {
	if config.CachesInMem <= 0 {
		log.Warn("One etchash cache must always be in memory", "requested", config.CachesInMem)
		config.CachesInMem = 1
	}
	if config.DatasetsInMem <= 0 {
		config.DatasetsInMem = 1
	}
	if config.CacheDir != "" && config.CachesOnDisk > 0 {
		log.Info("Disk storage enabled for etchash caches", "dir", config.CacheDir, "count", config.CachesOnDisk)
	}
	if config.DatasetDir != "" && config.DatasetsOnDisk > 0 {
		log.Info("Disk storage enabled for etchash DAGs", "dir", config.DatasetDir, "count", config.DatasetsOnDisk)
	}
	caches, err := lru.New(config.CachesInMem)
	if err != nil {
		panic(err) // size was checked above
	}
	datasets, err := lru.New(config.DatasetsInMem)
	if err != nil {
		panic(err)
	}
	e := &Etchash{
		config:   config,
		caches:   caches,
		datasets: datasets,
		threads:  config.Threads,
	}
	e.buildFull = e.buildFullContext
	return e
}

// NewTester creates an in-memory only engine holding a single context of
// each kind.
func NewTester() *Etchash {
	return New(&Config{CachesInMem: 1, DatasetsInMem: 1})
}

// Config returns a copy of the engine configuration.
func (e *Etchash) Config() Config {
	return *e.config
}

// Threads returns the number of dataset generation threads.
func (e *Etchash) Threads() int {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.threads
}

// SetThreads updates the number of dataset generation threads used by
// subsequent FullContext calls. Zero or less uses all CPUs.
func (e *Etchash) SetThreads(threads int) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.threads = threads
}

// LightContext returns the light context of epoch, from memory, disk or
// freshly built.
func (e *Etchash) LightContext(epoch int) (*EpochContext, error) {
	if epoch < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidEpoch, epoch)
	}
	if ec, ok := e.caches.Get(epoch); ok {
		return ec.(*EpochContext), nil
	}
	v, err, _ := e.inflight.Do(fmt.Sprintf("light-%d", epoch), func() (interface{}, error) {
		ec, err := buildEpochContext(epoch, false, e.config.Activation(), 0, e.diskCache())
		if err != nil {
			return nil, err
		}
		e.storeCache(ec)
		e.caches.Add(epoch, ec)
		return ec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*EpochContext), nil
}

// FullContext returns the full context of epoch with every dataset item
// computed, loading the dataset from disk when available.
//
// Concurrent callers for one epoch share a single build. The build is not
// tied to any one caller: cancelling ctx makes this call return ctx.Err(),
// while the build carries on for the other callers and is cached when done.
func (e *Etchash) FullContext(ctx context.Context, epoch int) (*EpochContext, error) {
	if epoch < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidEpoch, epoch)
	}
	if ec, ok := e.datasets.Get(epoch); ok {
		return ec.(*EpochContext), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ch := e.inflight.DoChan(fmt.Sprintf("full-%d", epoch), func() (interface{}, error) {
		ec, err := e.buildFull(context.WithoutCancel(ctx), epoch)
		if err != nil {
			return nil, err
		}
		e.datasets.Add(epoch, ec)
		return ec, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*EpochContext), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Etchash) buildFullContext(ctx context.Context, epoch int) (*EpochContext, error) {
	ec, err := buildEpochContext(epoch, true, e.config.Activation(), e.config.MaxDatasetBytes, e.diskCache())
	if err != nil {
		return nil, err
	}
	e.storeCache(ec)
	if err := e.loadOrGenerateDataset(ctx, ec); err != nil {
		return nil, err
	}
	return ec, nil
}

// EpochForSeed resolves a seed with the engine's shared finder.
func (e *Etchash) EpochForSeed(seed Hash256) (int, error) {
	return e.finder.Find(seed)
}

// diskCache returns the cache loader, or nil without disk storage.
func (e *Etchash) diskCache() cacheSource {
	if e.config.CacheDir == "" || e.config.CachesOnDisk <= 0 {
		return nil
	}
	dir := e.config.CacheDir
	return func(seed Hash256, items int) []Hash512 {
		path := cachePath(dir, seed, items)
		cache, err := readLightCache(path, items)
		if err != nil {
			log.Debug("Etchash cache not loaded from disk", "path", path, "err", err)
			return nil
		}
		log.Debug("Loaded etchash cache from disk", "path", path)
		return cache
	}
}

// storeCache writes a freshly built light cache to disk and drops the oldest
// stored one.
func (e *Etchash) storeCache(ec *EpochContext) {
	if ec.loaded || e.config.CacheDir == "" || e.config.CachesOnDisk <= 0 {
		return
	}
	path := cachePath(e.config.CacheDir, ec.Seed, ec.LightCacheItems)
	if err := writeLightCache(path, ec.LightCache); err != nil {
		log.Error("Failed to write etchash cache to disk", "path", path, "err", err)
		return
	}
	removeStale(e.config.CacheDir, "cache", ec.EpochNumber, e.config.CachesOnDisk)
}

func (e *Etchash) loadOrGenerateDataset(ctx context.Context, ec *EpochContext) error {
	var path string
	onDisk := e.config.DatasetDir != "" && e.config.DatasetsOnDisk > 0
	if onDisk {
		path = datasetPath(e.config.DatasetDir, ec.Seed, ec.FullDatasetItems)
		if err := readDataset(path, ec); err == nil {
			log.Debug("Loaded etchash dataset from disk", "path", path)
			return nil
		}
	}
	if err := GenerateDataset(ctx, ec, e.Threads(), nil); err != nil {
		return err
	}
	if onDisk {
		if err := writeDataset(path, ec); err != nil {
			log.Error("Failed to write etchash dataset to disk", "path", path, "err", err)
			return nil
		}
		removeStale(e.config.DatasetDir, "full", ec.EpochNumber, e.config.DatasetsOnDisk)
	}
	return nil
}
