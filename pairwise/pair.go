// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package pairwise

import "github.com/grailbio/base/log"

// A Pair is an unordered pair of database indices, canonicalized so
// that Major > Minor. Its ordinal is its position in the canonical
// enumeration of all pairs, which is also its cell's position in
// the packed distance triangle.
type Pair struct {
	Major, Minor int32
}

// MakePair canonicalizes (i, j), i != j, into a Pair.
func MakePair(i, j int) Pair {
	if i == j {
		log.Panicf("pairwise: degenerate pair (%d, %d)", i, j)
	}
	if i < j {
		i, j = j, i
	}
	return Pair{Major: int32(i), Minor: int32(j)}
}

// Ordinal returns the pair's position in canonical enumeration
// order: major*(major-1)/2 + minor.
func (p Pair) Ordinal() int {
	m := int(p.Major)
	return m*(m-1)/2 + int(p.Minor)
}

// NumPairs returns the number of distinct pairs over n elements.
func NumPairs(n int) int {
	return n * (n - 1) / 2
}

// Partition returns rank's share of the canonical pair enumeration
// over n elements: every world'th pair starting at rank, in
// enumeration order. Shares are balanced within one pair, and the
// preserved order lets gathered results be placed positionally.
func Partition(n, rank, world int) []Pair {
	if world < 1 || rank < 0 || rank >= world {
		log.Panicf("pairwise: invalid partition coordinates %d/%d", rank, world)
	}
	total := NumPairs(n)
	pairs := make([]Pair, 0, (total+world-1-rank)/world)
	ordinal := 0
	for major := 1; major < n; major++ {
		for minor := 0; minor < major; minor++ {
			if ordinal%world == rank {
				pairs = append(pairs, Pair{Major: int32(major), Minor: int32(minor)})
			}
			ordinal++
		}
	}
	return pairs
}
