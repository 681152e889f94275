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
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/edsrzf/mmap-go"
	"gitlab.com/aquachain/etchash/common/log"
)

// algorithmRevision is the data structure version used for file naming.
const algorithmRevision = 23

// cachePath is the file holding the light cache of the given seed and size.
func cachePath(dir string, seed Hash256, items int) string {
	return filepath.Join(dir, fmt.Sprintf("cache-R%d-%x-%d", algorithmRevision, seed[:8], items))
}

// datasetPath is the file holding the full dataset of the given seed and size.
func datasetPath(dir string, seed Hash256, items int) string {
	return filepath.Join(dir, fmt.Sprintf("full-R%d-%x-%d", algorithmRevision, seed[:8], items))
}

// memoryMapAndGenerate creates a file of size bytes at path, memory maps it
// and lets fill write the content. The file only appears under path once it
// is complete.
func memoryMapAndGenerate(path string, size uint64, fill func(buf []byte) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	temp := path + "." + strconv.Itoa(rand.Int())
	f, err := os.OpenFile(temp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer os.Remove(temp)

	if err = f.Truncate(int64(size)); err != nil {
		f.Close()
		return err
	}
	mem, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return err
	}
	if err = fill(mem); err == nil {
		err = mem.Flush()
	}
	if uerr := mem.Unmap(); err == nil {
		err = uerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return os.Rename(temp, path)
}

// memoryMapAndRead maps the file at path read-only, checks it holds exactly
// size bytes and hands the mapping to read. The mapping is released when read
// returns, so read must copy what it keeps.
func memoryMapAndRead(path string, size uint64, read func(buf []byte)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if uint64(info.Size()) != size {
		return fmt.Errorf("corrupt file %s: %d bytes, want %d", path, info.Size(), size)
	}
	mem, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return err
	}
	read(mem)
	return mem.Unmap()
}

func writeLightCache(path string, cache []Hash512) error {
	return memoryMapAndGenerate(path, LightCacheSize(len(cache)), func(buf []byte) error {
		for i := range cache {
			copy(buf[i*hashBytes:], cache[i][:])
		}
		return nil
	})
}

func readLightCache(path string, items int) ([]Hash512, error) {
	cache, err := allocItems[Hash512](items, hashBytes, 0)
	if err != nil {
		return nil, err
	}
	err = memoryMapAndRead(path, LightCacheSize(items), func(buf []byte) {
		for i := range cache {
			copy(cache[i][:], buf[i*hashBytes:])
		}
	})
	if err != nil {
		return nil, err
	}
	return cache, nil
}

// writeDataset stores a complete dataset.
func writeDataset(path string, ec *EpochContext) error {
	if ec.FilledItems() != ec.FullDatasetItems {
		return fmt.Errorf("dataset of epoch %d is incomplete", ec.EpochNumber)
	}
	return memoryMapAndGenerate(path, ec.FullDatasetSize(), func(buf []byte) error {
		for i := range ec.dataset {
			copy(buf[i*itemBytes:], ec.dataset[i][:])
		}
		return nil
	})
}

// readDataset loads a stored dataset into a full context and marks every
// item filled.
func readDataset(path string, ec *EpochContext) error {
	err := memoryMapAndRead(path, ec.FullDatasetSize(), func(buf []byte) {
		ec.fillMu.Lock()
		defer ec.fillMu.Unlock()
		for i := range ec.dataset {
			copy(ec.dataset[i][:], buf[i*itemBytes:])
		}
		for w := range ec.filled {
			ec.filled[w] = mask(ec.FullDatasetItems - w*64)
		}
	})
	return err
}

// removeStale deletes files of the same kind as path for the epoch limit
// epochs before the current one.
func removeStale(dir, kind string, epoch, limit int) {
	old := epoch - limit
	if limit <= 0 || old < 0 {
		return
	}
	seed := CalcEpochSeed(old)
	matches, _ := filepath.Glob(filepath.Join(dir, fmt.Sprintf("%s-R%d-%x*", kind, algorithmRevision, seed[:8])))
	for _, file := range matches {
		if err := os.Remove(file); err == nil {
			log.Debug("Removed stale etchash file", "epoch", old, "file", file)
		}
	}
}

// MakeCache generates the light cache of an epoch and stores it in dir.
func MakeCache(epoch int, dir string) (string, error) {
	ec, err := NewEpochContext(epoch, false)
	if err != nil {
		return "", err
	}
	path := cachePath(dir, ec.Seed, ec.LightCacheItems)
	return path, writeLightCache(path, ec.LightCache)
}

// MakeDataset generates the full dataset of an epoch and stores it in dir.
func MakeDataset(epoch int, dir string) (string, error) {
	ec, err := NewEpochContext(epoch, true)
	if err != nil {
		return "", err
	}
	if err := GenerateDataset(context.Background(), ec, 0, nil); err != nil {
		return "", err
	}
	path := datasetPath(dir, ec.Seed, ec.FullDatasetItems)
	return path, writeDataset(path, ec)
}
