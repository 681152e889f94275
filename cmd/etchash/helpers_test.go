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
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/aquachain/etchash/consensus/etchash"
)

func TestParseEpoch(t *testing.T) {
	tests := []struct {
		arg   string
		block bool
		want  int
		fail  bool
	}{
		{"0", false, 0, false},
		{"390", false, 390, false},
		{"0x10", false, 16, false},
		{"29999", true, 0, false},
		{"11700000", true, 390, false},
		{"-1", false, 0, true},
		{"abc", false, 0, true},
		{"4294967296", false, 0, true},
	}
	for _, tt := range tests {
		got, err := parseEpoch(tt.arg, tt.block)
		if tt.fail {
			assert.Error(t, err, tt.arg)
			continue
		}
		require.NoError(t, err, tt.arg)
		assert.Equal(t, tt.want, got, tt.arg)
	}
}

func TestParseSeed(t *testing.T) {
	want := etchash.CalcEpochSeed(1)
	for _, arg := range []string{want.Hex(), want.Hex()[2:]} {
		seed, err := parseSeed(arg)
		require.NoError(t, err)
		assert.Equal(t, want, seed)
	}
	_, err := parseSeed("0x1234")
	assert.ErrorContains(t, err, "32 bytes")
	_, err = parseSeed("0xzz")
	assert.Error(t, err)
}

func TestHashInput(t *testing.T) {
	b, err := hashInput("0x00ff")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0xff}, b)

	b, err = hashInput("hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)

	_, err = hashInput("0xf")
	assert.Error(t, err)
}

func TestExportCache(t *testing.T) {
	cache := etchash.BuildLightCache(257, etchash.CalcEpochSeed(3))
	var buf bytes.Buffer
	require.NoError(t, exportCache(&buf, cache))

	loaded, err := importCache(bytes.NewReader(buf.Bytes()), len(cache))
	require.NoError(t, err)
	assert.Equal(t, cache, loaded)

	_, err = importCache(bytes.NewReader(buf.Bytes()), len(cache)+1)
	assert.ErrorContains(t, err, "item 257")
}

func TestCalcSizes(t *testing.T) {
	s := calcSizes(390, etchash.ECIP1099Epoch)
	assert.Equal(t, epochSizes{
		Epoch:          390,
		EffectiveEpoch: 195,
		LightNumItems:  661483,
		LightSize:      661483 * 64,
		DagNumItems:    21168113,
		DagSize:        21168113 * 128,
	}, s)

	plain := calcSizes(390, -1)
	assert.Equal(t, 390, plain.EffectiveEpoch)
	assert.Equal(t, 1060861, plain.LightNumItems)

	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, s))
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))
	assert.Equal(t, float64(195), fields["effectiveEpoch"])
	assert.Equal(t, float64(21168113), fields["dagNumItems"])
}
