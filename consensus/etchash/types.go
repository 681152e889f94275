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
	"encoding/hex"
)

// Hash256 is a 256 bit digest, used for epoch seeds.
type Hash256 [32]byte

// Hash512 is a 512 bit digest: one light cache item, or half a dataset item.
type Hash512 [64]byte

// Hash1024 is one full dataset item, two Hash512 nodes back to back.
type Hash1024 [128]byte

// Hash2048 groups four consecutive Hash512 nodes (two dataset items).
type Hash2048 [256]byte

func (h Hash256) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash256) String() string { return h.Hex() }

// Word32 returns the i'th little-endian 32 bit word.
func (h *Hash512) Word32(i int) uint32 { return binary.LittleEndian.Uint32(h[i*4:]) }

// SetWord32 stores v as the i'th little-endian 32 bit word.
func (h *Hash512) SetWord32(i int, v uint32) { binary.LittleEndian.PutUint32(h[i*4:], v) }

// Word64 returns the i'th little-endian 64 bit word.
func (h *Hash512) Word64(i int) uint64 { return binary.LittleEndian.Uint64(h[i*8:]) }

// SetWord64 stores v as the i'th little-endian 64 bit word.
func (h *Hash512) SetWord64(i int, v uint64) { binary.LittleEndian.PutUint64(h[i*8:], v) }

func (h Hash512) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// Word32 returns the i'th little-endian 32 bit word.
func (h *Hash1024) Word32(i int) uint32 { return binary.LittleEndian.Uint32(h[i*4:]) }

// Half returns node i (0 or 1) of the item.
func (h *Hash1024) Half(i int) (n Hash512) {
	copy(n[:], h[i*64:(i+1)*64])
	return n
}

func (h Hash1024) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// Quarter returns node i (0..3) of the group.
func (h *Hash2048) Quarter(i int) (n Hash512) {
	copy(n[:], h[i*64:(i+1)*64])
	return n
}

// Item returns dataset item i (0 or 1) of the group.
func (h *Hash2048) Item(i int) (item Hash1024) {
	copy(item[:], h[i*128:(i+1)*128])
	return item
}

func (h Hash2048) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// xorHash512 returns x ^ y.
func xorHash512(x, y *Hash512) (z Hash512) {
	for i := 0; i < 8; i++ {
		z.SetWord64(i, x.Word64(i)^y.Word64(i))
	}
	return z
}
