// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package pairwise

import (
	"context"

	"github.com/grailbio/bigalign/scoring"
)

func init() {
	RegisterAlgorithm("sequential", sequential{})
}

// sequential is the host backend: it aligns the rank's pairs one
// after another on the driving thread, with no device staging.
type sequential struct{}

// Name implements Algorithm.
func (sequential) Name() string { return "sequential" }

// Align implements Algorithm.
func (sequential) Align(ctx context.Context, task *Task) ([]scoring.Score, error) {
	view := task.Table.View()
	scores := make([]scoring.Score, len(task.Pairs))
	for i, p := range task.Pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		one, two := orient(task.DB.Seq(int(p.Major)), task.DB.Seq(int(p.Minor)))
		scores[i] = alignPair(one, two, view)
	}
	return scores, nil
}
