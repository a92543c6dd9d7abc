// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package pairwise

import (
	"github.com/grailbio/base/log"

	"github.com/grailbio/bigalign/scoring"
)

// A DistanceMatrix is the symmetric matrix of pairwise alignment
// scores over n sequences, stored as the strict lower triangle in
// pair-ordinal order. The diagonal is implicitly zero. It is
// produced by the engine and read-only thereafter.
type DistanceMatrix struct {
	n     int
	cells []scoring.Score
}

// FromScores wraps the packed triangle cells, in pair-ordinal
// order, as a DistanceMatrix over n sequences.
func FromScores(n int, cells []scoring.Score) *DistanceMatrix {
	if len(cells) != NumPairs(n) {
		log.Panicf("pairwise: triangle size %d does not hold %d sequences", len(cells), n)
	}
	return &DistanceMatrix{n: n, cells: cells}
}

// Len returns the number of sequences the matrix covers.
func (d *DistanceMatrix) Len() int { return d.n }

// Cells returns the number of stored triangle cells.
func (d *DistanceMatrix) Cells() int { return len(d.cells) }

// At returns the score of pair (i, j). At(i, i) is zero.
func (d *DistanceMatrix) At(i, j int) scoring.Score {
	if i == j {
		return 0
	}
	return d.cells[MakePair(i, j).Ordinal()]
}
