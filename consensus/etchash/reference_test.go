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
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/sha3"
)

// The functions below are an independent, byte-oriented rendition of the
// cache and dataset algorithms on top of the x/crypto legacy Keccak. Tests
// compare the typed implementation against them.

type refHasher func(dest []byte, data []byte)

func makeRefHasher(h hash.Hash) refHasher {
	return func(dest []byte, data []byte) {
		h.Write(data)
		h.Sum(dest[:0])
		h.Reset()
	}
}

func refGenerateCache(size int, seed []byte) []byte {
	keccak512 := makeRefHasher(sha3.NewLegacyKeccak512())
	cache := make([]byte, size)
	rows := size / hashBytes

	keccak512(cache, seed)
	for offset := hashBytes; offset < size; offset += hashBytes {
		keccak512(cache[offset:], cache[offset-hashBytes:offset])
	}
	temp := make([]byte, hashBytes)
	for i := 0; i < cacheRounds; i++ {
		for j := 0; j < rows; j++ {
			var (
				srcOff = ((j - 1 + rows) % rows) * hashBytes
				dstOff = j * hashBytes
				xorOff = int(binary.LittleEndian.Uint32(cache[dstOff:])%uint32(rows)) * hashBytes
			)
			for k := 0; k < hashBytes; k++ {
				temp[k] = cache[srcOff+k] ^ cache[xorOff+k]
			}
			keccak512(cache[dstOff:], temp)
		}
	}
	return cache
}

func refGenerateNode(cache []byte, index uint32) []byte {
	keccak512 := makeRefHasher(sha3.NewLegacyKeccak512())
	rows := uint32(len(cache) / hashBytes)

	words := make([]uint32, len(cache)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(cache[i*4:])
	}
	mix := make([]byte, hashBytes)
	binary.LittleEndian.PutUint32(mix, words[(index%rows)*hashWords]^index)
	for i := 1; i < hashWords; i++ {
		binary.LittleEndian.PutUint32(mix[i*4:], words[(index%rows)*hashWords+uint32(i)])
	}
	keccak512(mix, mix)

	intMix := make([]uint32, hashWords)
	for i := range intMix {
		intMix[i] = binary.LittleEndian.Uint32(mix[i*4:])
	}
	for i := uint32(0); i < datasetParents; i++ {
		parent := (((index ^ i) * fnvPrime) ^ intMix[i%hashWords]) % rows
		for k := uint32(0); k < hashWords; k++ {
			intMix[k] = intMix[k]*fnvPrime ^ words[parent*hashWords+k]
		}
	}
	for i, val := range intMix {
		binary.LittleEndian.PutUint32(mix[i*4:], val)
	}
	keccak512(mix, mix)
	return mix
}

func cacheBytes(cache []Hash512) []byte {
	out := make([]byte, 0, len(cache)*hashBytes)
	for i := range cache {
		out = append(out, cache[i][:]...)
	}
	return out
}
