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
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestContext assembles a full context over a small light cache, so the
// dataset code paths can be exercised without gigabytes of memory.
func newTestContext(cacheItems, datasetItems int) *EpochContext {
	seed := CalcEpochSeed(1)
	ec := &EpochContext{
		EpochNumber:      1,
		Seed:             seed,
		LightCacheItems:  cacheItems,
		LightCache:       BuildLightCache(cacheItems, seed),
		FullDatasetItems: datasetItems,
		dataset:          make([]Hash1024, datasetItems),
		filled:           make([]uint64, (datasetItems+63)/64),
	}
	ec.L1 = ec.dataset[:l1CacheItems]
	return ec
}

// Epoch 0 light cache ends and dataset nodes (node 2i and 2i+1 form item i).
const (
	epochZeroCacheFirst = "5e493e76a1318e50815c6ce77950425532964ebbb8dcf94718991fa9a82eaf37658de68ca6fe078884e803da3a26a4aa56420a6867ebcd9ab0f29b08d1c48fed"
	epochZeroCacheLast  = "724f2f86c24c487809dc3897acbbd32d5d791e4536aa1520e65e93891a40dde5887899ffc556cbd174f426e32ae2ab711be859601c024d1514b29a27370b662e"
)

var epochZeroNodes = map[uint32]string{
	0:    "22db2229cc516c46d2210086f1ab417e0bd1c3827c5ecc6af7d3a33f8dae332bab5aa31fc58e71cff27666e81bf418775e74839743ca9d410fdf514d009bcec2",
	1:    "e5263184c4985ca0570d1ebdf507049e427dc86c7e96485739c0960a2ce4e6eb386d5aa39471876225c23c5b69443f6d5db8120fe3204cedcfefd0347f69ec1d",
	2:    "5032bb01e2f49e791d56e1fe216bea4887ec06b1859e2f025f6cd029d9144620f0d1e805a94e662720bac97da59c0a0189a64b0c492f18cab4a99e27b37ab7d5",
	3:    "a362c1fa64f14cc9ec08ebbc2b1daae5324c62c76bfc7b5480875a73c8daddff584bcf7705d83baf4c1e3493be4a84370596fafc336b885f9b85be052cdef153",
	255:  "018d821b152b35b113a3e0e78460de192509ce27024c6b415f89ba10d49fb5b04b0214fd26226e9088ff573b953cb2555880d3b0cec4393ca2ae339285fae0f9",
	256:  "e543945a178ff0621e72af3f2d4b2bdc92523432f5d428927d7ed09457cc997b71474b06cc9f7ef9ecb8689a24b4decfaead864272951a92d1af3e9e0865e997",
	257:  "53f6cfa8db62cc8da6b3bcfbf47367d8247f9e3c6a0a891f367168e0a5dafbd2905fdaa35c05f009307d11c4b7900fb7bac81afc2162fc027e9137c58dd6e352",
	1000: "8e6094037ad186a0fde024e3ef505627e2aae8a6ffdcb8f2fd3b6a85b654db8fc3144afa2b98e5d8a45f94b0a3521cf04accaec4298b9274d4f0de7d802bed71",
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestEpochZeroContext(t *testing.T) {
	ec, err := NewEpochContext(0, false)
	require.NoError(t, err)

	assert.Equal(t, 0, ec.EpochNumber)
	assert.Equal(t, Hash256{}, ec.Seed)
	assert.Equal(t, 262139, ec.LightCacheItems)
	assert.Equal(t, 8388593, ec.FullDatasetItems)
	assert.Equal(t, uint64(16776896), ec.LightCacheSize())
	assert.Equal(t, uint64(1073739904), ec.FullDatasetSize())
	assert.Len(t, ec.LightCache, 262139)
	assert.Len(t, ec.L1, l1CacheItems)
	assert.False(t, ec.IsFull())
	assert.Nil(t, ec.Dataset())

	assert.Equal(t, mustHex(epochZeroCacheFirst), ec.LightCache[0][:])
	assert.Equal(t, mustHex(epochZeroCacheLast), ec.LightCache[len(ec.LightCache)-1][:])

	for index, node := range epochZeroNodes {
		item := ec.DatasetItem(index / 2)
		assert.Equal(t, mustHex(node), item[(index%2)*64:(index%2+1)*64], "node %d", index)
	}
	for i := uint32(0); i < l1CacheItems; i++ {
		if ec.L1[i] != CalcDatasetItem1024(ec.LightCache, i) {
			t.Fatalf("L1 item %d differs from computed item", i)
		}
	}
	item := ec.L1[1]
	assert.Equal(t, item.Word32(3), ec.L1Word(32+3))
	assert.Equal(t, CalcDatasetItem2048(ec.LightCache, 100), ec.DatasetItem2048(100))
	assert.Equal(t, CalcDatasetItem2048(ec.LightCache, 10), ec.DatasetItem2048(10))
}

func TestECIP1099Boundary(t *testing.T) {
	if testing.Short() {
		t.Skip("builds two large light caches")
	}
	before, err := NewEpochContext(389, false)
	require.NoError(t, err)
	after, err := NewEpochContext(390, false)
	require.NoError(t, err)

	assert.Equal(t, 1058809, before.LightCacheItems)
	assert.Equal(t, 33882103, before.FullDatasetItems)
	assert.Equal(t, 661483, after.LightCacheItems)
	assert.Equal(t, 21168113, after.FullDatasetItems)
	assert.Less(t, after.LightCacheItems, before.LightCacheItems)

	// the seed keeps following the real epoch
	assert.Equal(t, CalcEpochSeed(390), after.Seed)
	assert.NotEqual(t, CalcEpochSeed(195), after.Seed)
	assert.Len(t, after.LightCache, 661483)
	head := make([]Hash512, 1)
	hashChain(head, after.Seed)
	assert.NotEqual(t, head[0], after.LightCache[0])
}

func TestContextActivation(t *testing.T) {
	const epoch = 12
	plain, err := NewEpochContextWithActivation(epoch, false, -1)
	require.NoError(t, err)
	halved, err := NewEpochContextWithActivation(epoch, false, 10)
	require.NoError(t, err)

	assert.Equal(t, CalcLightCacheItems(epoch), plain.LightCacheItems)
	assert.Equal(t, CalcLightCacheItems(epoch/2), halved.LightCacheItems)
	assert.Equal(t, CalcFullDatasetItems(epoch/2), halved.FullDatasetItems)
	assert.Equal(t, plain.Seed, halved.Seed)
}

func TestContextInvalidEpoch(t *testing.T) {
	_, err := NewEpochContext(-1, false)
	assert.True(t, errors.Is(err, ErrInvalidEpoch), "err: %v", err)
	_, err = NewEpochContext(-1, true)
	assert.True(t, errors.Is(err, ErrInvalidEpoch), "err: %v", err)
}

func TestContextAllocationFailure(t *testing.T) {
	_, err := buildEpochContext(0, true, ECIP1099Epoch, 1<<20, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAllocation), "err: %v", err)

	_, err = allocItems[Hash1024](1<<50, itemBytes, 0)
	assert.True(t, errors.Is(err, ErrAllocation), "err: %v", err)
	_, err = allocItems[Hash512](-1, hashBytes, 0)
	assert.True(t, errors.Is(err, ErrAllocation), "err: %v", err)

	s, err := allocItems[Hash512](3, hashBytes, 1<<10)
	require.NoError(t, err)
	assert.Len(t, s, 3)
}

func TestContextCacheSource(t *testing.T) {
	var asked []int
	source := func(seed Hash256, items int) []Hash512 {
		asked = append(asked, items)
		return BuildLightCache(items, seed)
	}
	ec, err := buildEpochContext(1, false, ECIP1099Epoch, 0, source)
	require.NoError(t, err)
	assert.True(t, ec.loaded)
	assert.Equal(t, []int{264179}, asked)

	missing := func(Hash256, int) []Hash512 { return nil }
	ec, err = buildEpochContext(1, false, ECIP1099Epoch, 0, missing)
	require.NoError(t, err)
	assert.False(t, ec.loaded)
	assert.Len(t, ec.LightCache, 264179)
}

// Full contexts hand out the same items as light ones, computing each once.
func TestFullContextLazyItems(t *testing.T) {
	ec := newTestContext(1021, 1000)
	require.True(t, ec.IsFull())
	assert.Equal(t, 0, ec.FilledItems())

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i += 1 + w {
				ec.DatasetItem(uint32(i))
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 1000, ec.FilledItems())
	for i := uint32(0); i < 1000; i++ {
		want := CalcDatasetItem1024(ec.LightCache, i)
		if ec.Dataset()[i] != want || ec.DatasetItem(i) != want {
			t.Fatalf("item %d differs from computed item", i)
		}
	}
	assert.Equal(t, ec.Dataset()[0], ec.L1[0])
	assert.Equal(t, CalcDatasetItem2048(ec.LightCache, 7), ec.DatasetItem2048(7))

	// out of range indexes are computed, not stored
	assert.Equal(t, CalcDatasetItem1024(ec.LightCache, 5000), ec.DatasetItem(5000))
	assert.Equal(t, 1000, ec.FilledItems())
}

// Group indexes of 2^31 and above address items past 2^32.
func TestDatasetItem2048HighIndex(t *testing.T) {
	full := newTestContext(1021, 200)
	light := &EpochContext{LightCache: full.LightCache, L1: make([]Hash1024, l1CacheItems)}
	for i := uint32(0); i < l1CacheItems; i++ {
		light.L1[i] = CalcDatasetItem1024(light.LightCache, i)
	}

	for _, ec := range []*EpochContext{light, full} {
		for _, index := range []uint32{1 << 31, 1<<31 + 1, 1<<32 - 1, 99, 100} {
			want := CalcDatasetItem2048(ec.LightCache, index)
			if got := ec.DatasetItem2048(index); got != want {
				t.Fatalf("full=%v: group %d differs from computed group", ec.IsFull(), index)
			}
		}
		assert.NotEqual(t, ec.DatasetItem2048(0), ec.DatasetItem2048(1<<31))
		assert.Equal(t, CalcDatasetItem2048(ec.LightCache, 63), ec.DatasetItem2048(63))
	}
	// only groups inside the dataset are stored
	assert.Equal(t, 6, full.FilledItems())
}

func TestStoreBlockKeepsFilledItems(t *testing.T) {
	ec := newTestContext(101, 200)
	first := ec.DatasetItem(3)

	var block [64]Hash1024
	for k := range block {
		block[k][0] = 0xff
	}
	ec.storeBlock(0, block[:])
	assert.Equal(t, first, ec.Dataset()[3])
	assert.Equal(t, byte(0xff), ec.Dataset()[4][0])
	assert.Equal(t, 64, ec.FilledItems())

	ec.storeBlock(3, block[:200-192])
	assert.Equal(t, 72, ec.FilledItems())
	assert.Equal(t, uint64(0xff), ec.filled[3])
}

func TestContextSummary(t *testing.T) {
	ec := newTestContext(3, 128)
	blob, err := json.Marshal(ec.Summary(false))
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(blob, &fields))
	assert.Equal(t, float64(1), fields["epochNumber"])
	assert.Equal(t, float64(3), fields["lightNumItems"])
	assert.Equal(t, float64(192), fields["lightSize"])
	assert.Equal(t, float64(128), fields["dagNumItems"])
	assert.Equal(t, float64(128*128), fields["dagSize"])
	assert.Equal(t, CalcEpochSeed(1).Hex(), fields["seed"])
	assert.NotContains(t, fields, "lightCache")

	withCache := ec.Summary(true)
	require.Len(t, withCache.LightCache, 3)
	assert.Equal(t, ec.LightCache[2].Hex(), withCache.LightCache[2])
}
