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

// isOddPrime reports whether the odd number n has no odd factor up to its
// square root.
func isOddPrime(n int) bool {
	for d := 3; int64(d)*int64(d) <= int64(n); d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// FindLargestPrime returns the largest prime not above bound, or 0 when
// there is none.
func FindLargestPrime(bound int) int {
	n := bound
	if n < 2 {
		return 0
	}
	if n == 2 {
		return 2
	}
	if n%2 == 0 {
		n--
	}
	for !isOddPrime(n) {
		n -= 2
	}
	return n
}

// CalcLightCacheItems returns the number of 64 byte light cache items for an
// (already ECIP-1099 adjusted) epoch.
func CalcLightCacheItems(epoch int) int {
	const (
		initItems   = cacheInitBytes / hashBytes
		growthItems = cacheGrowthBytes / hashBytes
	)
	return FindLargestPrime(initItems + epoch*growthItems)
}

// CalcFullDatasetItems returns the number of 128 byte dataset items for an
// (already ECIP-1099 adjusted) epoch.
func CalcFullDatasetItems(epoch int) int {
	const (
		initItems   = datasetInitBytes / itemBytes
		growthItems = datasetGrowthBytes / itemBytes
	)
	return FindLargestPrime(initItems + epoch*growthItems)
}

// LightCacheSize is the byte size of a light cache with items entries.
func LightCacheSize(items int) uint64 { return uint64(items) * hashBytes }

// FullDatasetSize is the byte size of a dataset with items entries.
func FullDatasetSize(items int) uint64 { return uint64(items) * itemBytes }

// EffectiveEpoch applies the ECIP-1099 rule: from the activation epoch on,
// sizes grow with half the epoch number. A negative activation disables the
// rule (plain ethash).
func EffectiveEpoch(epoch, activation int) int {
	if activation < 0 || epoch < activation {
		return epoch
	}
	return epoch / 2
}

// EpochForBlock returns the ethash epoch number containing block.
func EpochForBlock(block uint64) int {
	return int(block / epochLength)
}
