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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileNames(t *testing.T) {
	dir := "/var/etchash"
	assert.Equal(t, "/var/etchash/cache-R23-0000000000000000-262139", cachePath(dir, Hash256{}, 262139))
	assert.Equal(t, "/var/etchash/full-R23-290decd9548b62a8-8454143", datasetPath(dir, CalcEpochSeed(1), 8454143))
}

func TestLightCacheFile(t *testing.T) {
	dir := t.TempDir()
	cache := BuildLightCache(1021, CalcEpochSeed(4))
	path := cachePath(dir, CalcEpochSeed(4), len(cache))

	require.NoError(t, writeLightCache(path, cache))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1021*hashBytes), info.Size())

	loaded, err := readLightCache(path, len(cache))
	require.NoError(t, err)
	assert.Equal(t, cache, loaded)

	_, err = readLightCache(path, 1000)
	assert.ErrorContains(t, err, "corrupt file")
	_, err = readLightCache(filepath.Join(dir, "missing"), 10)
	assert.True(t, errors.Is(err, os.ErrNotExist), "err: %v", err)

	// no temporary files are left behind
	matches, _ := filepath.Glob(filepath.Join(dir, "*"))
	assert.Equal(t, []string{path}, matches)
}

func TestMemoryMapFillError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "file")
	fail := errors.New("fill failed")
	err := memoryMapAndGenerate(path, 4096, func(buf []byte) error {
		buf[0] = 1
		return fail
	})
	assert.Equal(t, fail, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	matches, _ := filepath.Glob(filepath.Join(dir, "sub", "*"))
	assert.Empty(t, matches)
}

func TestDatasetFile(t *testing.T) {
	dir := t.TempDir()
	ec := newTestContext(509, 300)
	path := datasetPath(dir, ec.Seed, ec.FullDatasetItems)

	ec.DatasetItem(5)
	assert.ErrorContains(t, writeDataset(path, ec), "incomplete")

	require.NoError(t, GenerateDataset(context.Background(), ec, 2, nil))
	require.NoError(t, writeDataset(path, ec))

	fresh := newTestContext(509, 300)
	require.NoError(t, readDataset(path, fresh))
	assert.Equal(t, 300, fresh.FilledItems())
	assert.Equal(t, ec.Dataset(), fresh.Dataset())
	assert.Equal(t, ec.DatasetItem(299), fresh.DatasetItem(299))

	short := newTestContext(509, 299)
	assert.Error(t, readDataset(path, short))
	assert.Equal(t, 0, short.FilledItems())
}

func TestRemoveStale(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for epoch := 0; epoch < 4; epoch++ {
		path := cachePath(dir, CalcEpochSeed(epoch), 100+epoch)
		require.NoError(t, os.WriteFile(path, []byte{1}, 0644))
		paths = append(paths, path)
	}
	removeStale(dir, "cache", 2, 2)
	removeStale(dir, "full", 3, 2)
	removeStale(dir, "cache", 1, 2)
	removeStale(dir, "cache", 3, 0)

	for epoch, path := range paths {
		_, err := os.Stat(path)
		if epoch == 0 {
			assert.True(t, os.IsNotExist(err), "epoch %d file kept", epoch)
		} else {
			assert.NoError(t, err, "epoch %d file removed", epoch)
		}
	}
}
