// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package pairwise

import (
	"context"

	"github.com/grailbio/base/log"

	"github.com/grailbio/bigalign/scoring"
)

func init() {
	RegisterAlgorithm("hybrid", hybrid{})
}

// hybridThreshold is the workload, in DP cells, below which the
// device staging overhead is not worth paying.
const hybridThreshold = 1 << 22

// hybrid selects a backend at run time: small workloads run on the
// host, larger ones on the device.
type hybrid struct{}

// Name implements Algorithm.
func (hybrid) Name() string { return "hybrid" }

// Align implements Algorithm.
func (hybrid) Align(ctx context.Context, task *Task) ([]scoring.Score, error) {
	var cells int64
	for _, p := range task.Pairs {
		one := task.DB.Seq(int(p.Major)).Len() + 1
		two := task.DB.Seq(int(p.Minor)).Len() + 1
		cells += int64(one) * int64(two)
	}
	name := "sequential"
	if cells >= hybridThreshold {
		name = "needleman"
	}
	a, err := LookupAlgorithm(name)
	if err != nil {
		return nil, err
	}
	log.Debug.Printf("pairwise: hybrid chose %s for %d cells", name, cells)
	return a.Align(ctx, task)
}
