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

// Package keccak implements the original Keccak sponge (pad byte 0x01) used by
// ethash and etchash. It is not FIPS-202 SHA-3.
package keccak

import (
	"encoding/binary"
	"hash"
)

const (
	// maxRate is the largest block size in bytes (Keccak-256).
	maxRate = (1600 - 2*256) / 8

	lastWordBit = 0x8000000000000000
)

// sponge hashes data into out (bits/8 bytes) using a rate of (1600-2*bits)/8.
func sponge(out []byte, bits int, data []byte) {
	var (
		state      [25]uint64
		blockSize  = (1600 - 2*bits) / 8
		blockWords = blockSize / 8
	)
	for len(data) >= blockSize {
		for i := 0; i < blockWords; i++ {
			state[i] ^= binary.LittleEndian.Uint64(data[i*8:])
		}
		KeccakF1600(&state)
		data = data[blockSize:]
	}

	w := 0
	for len(data) >= 8 {
		state[w] ^= binary.LittleEndian.Uint64(data)
		data = data[8:]
		w++
	}
	var last [8]byte
	n := copy(last[:], data)
	last[n] = 0x01
	state[w] ^= binary.LittleEndian.Uint64(last[:])
	state[blockWords-1] ^= lastWordBit

	KeccakF1600(&state)

	for i := 0; i < bits/64; i++ {
		binary.LittleEndian.PutUint64(out[i*8:], state[i])
	}
}

// Sum256 returns the Keccak-256 digest of data.
func Sum256(data []byte) (h [32]byte) {
	sponge(h[:], 256, data)
	return h
}

// Sum512 returns the Keccak-512 digest of data.
func Sum512(data []byte) (h [64]byte) {
	sponge(h[:], 512, data)
	return h
}

// Keccak256 calculates and returns the Keccak256 hash of the input data.
func Keccak256(data ...[]byte) []byte {
	if len(data) == 1 {
		h := Sum256(data[0])
		return h[:]
	}
	d := NewKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak512 calculates and returns the Keccak512 hash of the input data.
func Keccak512(data ...[]byte) []byte {
	if len(data) == 1 {
		h := Sum512(data[0])
		return h[:]
	}
	d := NewKeccak512()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// state is a streaming Keccak sponge. Absorbed input is buffered until a
// full block is available.
type state struct {
	a    [25]uint64
	buf  [maxRate]byte
	n    int // bytes buffered in buf
	rate int
	size int
}

// NewKeccak256 creates a new streaming Keccak-256 hash.
func NewKeccak256() hash.Hash { return &state{rate: (1600 - 2*256) / 8, size: 32} }

// NewKeccak512 creates a new streaming Keccak-512 hash.
func NewKeccak512() hash.Hash { return &state{rate: (1600 - 2*512) / 8, size: 64} }

func (s *state) Size() int      { return s.size }
func (s *state) BlockSize() int { return s.rate }

func (s *state) Reset() {
	s.a = [25]uint64{}
	s.n = 0
}

func (s *state) absorb(block []byte) {
	for i := 0; i < s.rate/8; i++ {
		s.a[i] ^= binary.LittleEndian.Uint64(block[i*8:])
	}
	KeccakF1600(&s.a)
}

func (s *state) Write(p []byte) (int, error) {
	written := len(p)
	if s.n > 0 {
		c := copy(s.buf[s.n:s.rate], p)
		s.n += c
		p = p[c:]
		if s.n < s.rate {
			return written, nil
		}
		s.absorb(s.buf[:s.rate])
		s.n = 0
	}
	for len(p) >= s.rate {
		s.absorb(p[:s.rate])
		p = p[s.rate:]
	}
	s.n = copy(s.buf[:], p)
	return written, nil
}

// Sum appends the digest to b without changing the underlying state.
func (s *state) Sum(b []byte) []byte {
	dup := *s
	var block [maxRate]byte
	copy(block[:], dup.buf[:dup.n])
	block[dup.n] ^= 0x01
	block[dup.rate-1] ^= 0x80
	dup.absorb(block[:dup.rate])

	var out [64]byte
	for i := 0; i < dup.size/8; i++ {
		binary.LittleEndian.PutUint64(out[i*8:], dup.a[i])
	}
	return append(b, out[:dup.size]...)
}
