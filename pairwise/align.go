// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package pairwise

import (
	"github.com/grailbio/bigalign/alphabet"
	"github.com/grailbio/bigalign/scoring"
)

// alignPair computes the global alignment score of one against two
// under the Needleman-Wunsch recurrence with a linear gap penalty.
// The caller arranges one to be the longer sequence so the rolled
// row is bounded by the shorter one. Padding terminates the row
// loop early; padded columns propagate their left neighbor, so a
// padded tail never changes the score.
//
// Both backends share this core, so their results are numerically
// identical by construction.
func alignPair(one, two alphabet.Sequence, table scoring.View) scoring.Score {
	penalty := table.Penalty()
	n := two.Len()
	line := make([]scoring.Score, n+1)
	for j := range line {
		line[j] = scoring.Score(j) * -penalty
	}
	for i := 0; i < one.Len(); i++ {
		a := one.At(i)
		if a == alphabet.Padding {
			break
		}
		diag := line[0]
		line[0] = scoring.Score(i+1) * -penalty
		for j := 1; j <= n; j++ {
			value := line[j-1]
			if b := two.At(j - 1); b != alphabet.Padding {
				matched := diag + table.Score(a, b)
				inserted := value - penalty
				removed := line[j] - penalty
				// The diagonal wins ties, then insert, then
				// delete.
				value = matched
				if inserted > value {
					value = inserted
				}
				if removed > value {
					value = removed
				}
			}
			diag = line[j]
			line[j] = value
		}
	}
	return line[n]
}

// orient returns the pair's sequences with the longer one first.
func orient(one, two alphabet.Sequence) (alphabet.Sequence, alphabet.Sequence) {
	if one.Len() >= two.Len() {
		return one, two
	}
	return two, one
}
