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

import "errors"

var (
	// ErrInvalidEpoch is returned for negative epoch numbers.
	ErrInvalidEpoch = errors.New("invalid epoch number")

	// ErrEpochNotFound is returned when a seed does not belong to any of the
	// searchable epochs.
	ErrEpochNotFound = errors.New("epoch not found for seed")

	// ErrAllocation is returned when a cache or dataset buffer cannot be
	// obtained.
	ErrAllocation = errors.New("cannot allocate epoch buffer")
)
