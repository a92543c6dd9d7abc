// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package pairwise

import (
	"context"

	"github.com/grailbio/base/traverse"

	"github.com/grailbio/bigalign/device"
	"github.com/grailbio/bigalign/scoring"
)

func init() {
	RegisterAlgorithm("needleman", &needleman{memory: device.Default})
}

// needleman is the device backend. It stages the scoring table into
// device memory once per run and computes one pair per block, with
// blocks resident concurrently up to the device's occupancy and
// memory budget. Each block's scratch is a single rolled score row
// bounded by the shorter sequence, the same O(n) footprint the
// wavefront kernel keeps in shared memory; the kernel's
// anti-diagonal lock-step is serialized within a block here, so
// block results are bit-identical to the host backend's.
type needleman struct {
	memory func() *device.Memory
}

// Name implements Algorithm.
func (*needleman) Name() string { return "needleman" }

// Align implements Algorithm.
func (b *needleman) Align(ctx context.Context, task *Task) ([]scoring.Score, error) {
	mem := b.memory()
	dt, err := task.Table.ToDevice(mem)
	if err != nil {
		return nil, err
	}
	defer dt.Free()
	view := dt.View()

	// Reserve each block's scratch row up front: the widest rolled
	// row any pair needs, times the resident block count. Sizing
	// against the worst pair keeps the reservation independent of
	// scheduling order.
	var widest int
	for _, p := range task.Pairs {
		_, two := orient(task.DB.Seq(int(p.Major)), task.DB.Seq(int(p.Minor)))
		if n := two.Len() + 1; n > widest {
			widest = n
		}
	}
	blocks := device.DefaultBlocks
	if len(task.Pairs) < blocks {
		blocks = len(task.Pairs)
	}
	if blocks == 0 {
		return []scoring.Score{}, nil
	}
	scratch, err := mem.Alloc(int64(blocks) * int64(widest) * 4)
	if err != nil {
		return nil, err
	}
	defer scratch.Free()

	scores := make([]scoring.Score, len(task.Pairs))
	err = traverse.Limit(blocks).Each(len(task.Pairs), func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := task.Pairs[i]
		one, two := orient(task.DB.Seq(int(p.Major)), task.DB.Seq(int(p.Minor)))
		scores[i] = alignPair(one, two, view)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return scores, nil
}
