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
	"runtime"
	"sync/atomic"
	"time"

	"gitlab.com/aquachain/etchash/common/log"
	"golang.org/x/sync/errgroup"
)

// errNotFull is returned when dataset generation is asked of a light context.
var errNotFull = errors.New("epoch context has no dataset")

// GenerateDataset computes every dataset item of a full context that is not
// yet filled, using threads goroutines (all CPUs if threads <= 0). Items are
// independent, so the result equals computing them one by one. Generation
// stops early with the context's error when ctx is cancelled; items finished
// by then are kept. progress, if set, is called from the worker goroutines.
func GenerateDataset(ctx context.Context, ec *EpochContext, threads int, progress func(done, total int)) error {
	if !ec.IsFull() {
		return errNotFull
	}
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	var (
		start  = time.Now()
		total  = ec.FullDatasetItems
		words  = int64(len(ec.filled))
		next   atomic.Int64
		done   atomic.Int64
		logger = log.New("epoch", ec.EpochNumber)
	)
	logger.Info("Generating etchash dataset", "items", total, "size", ec.FullDatasetSize(), "threads", threads)

	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < threads; t++ {
		g.Go(func() error {
			var block [64]Hash1024
			for {
				word := next.Add(1) - 1
				if word >= words {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				first := int(word) * 64
				n := total - first
				if n > 64 {
					n = 64
				}
				if atomic.LoadUint64(&ec.filled[word]) != mask(n) {
					for k := 0; k < n; k++ {
						block[k] = CalcDatasetItem1024(ec.LightCache, uint32(first+k))
					}
					ec.storeBlock(int(word), block[:n])
				}
				finished := done.Add(int64(n))
				if progress != nil {
					progress(int(finished), total)
				}
				if prev := finished - int64(n); finished*100/int64(total) != prev*100/int64(total) {
					logger.Debug("Generating etchash dataset in progress", "percentage", finished*100/int64(total), "elapsed", time.Since(start))
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("Etchash dataset generation interrupted", "done", done.Load(), "err", err)
		return err
	}
	logger.Info("Generated etchash dataset", "elapsed", time.Since(start))
	return nil
}
