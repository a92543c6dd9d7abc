// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package scoring

// residues is the axis order of the matrix data below, the order
// the published NCBI matrices use. The build step permutes it into
// alphabet code order.
const residues = "ARNDCQEGHILKMFPSTWYVBZX"

// defaultPenalty is the linear gap penalty attached to every
// catalog table.
const defaultPenalty Score = 4

// matrices holds the lower triangle (diagonal included) of
// each published matrix, row i carrying scores against residues
// 0..i.
var matrices = map[string][][]Score{
	"blosum62": {
		{4},
		{-1, 5},
		{-2, 0, 6},
		{-2, -2, 1, 6},
		{0, -3, -3, -3, 9},
		{-1, 1, 0, 0, -3, 5},
		{-1, 0, 0, 2, -4, 2, 5},
		{0, -2, 0, -1, -3, -2, -2, 6},
		{-2, 0, 1, -1, -3, 0, 0, -2, 8},
		{-1, -3, -3, -3, -1, -3, -3, -4, -3, 4},
		{-1, -2, -3, -4, -1, -2, -3, -4, -3, 2, 4},
		{-1, 2, 0, -1, -3, 1, 1, -2, -1, -3, -2, 5},
		{-1, -1, -2, -3, -1, 0, -2, -3, -2, 1, 2, -1, 5},
		{-2, -3, -3, -3, -2, -3, -3, -3, -1, 0, 0, -3, 0, 6},
		{-1, -2, -2, -1, -3, -1, -1, -2, -2, -3, -3, -1, -2, -4, 7},
		{1, -1, 1, 0, -1, 0, 0, 0, -1, -2, -2, 0, -1, -2, -1, 4},
		{0, -1, 0, -1, -1, -1, -1, -2, -2, -1, -1, -1, -1, -2, -1, 1, 5},
		{-3, -3, -4, -4, -2, -2, -3, -2, -2, -3, -2, -3, -1, 1, -4, -3, -2, 11},
		{-2, -2, -2, -3, -2, -1, -2, -3, 2, -1, -1, -2, -1, 3, -3, -2, -2, 2, 7},
		{0, -3, -3, -3, -1, -2, -2, -3, -3, 3, 1, -2, 1, -1, -2, -2, 0, -3, -1, 4},
		{-2, -1, 3, 4, -3, 0, 1, -1, 0, -3, -4, 0, -3, -3, -2, 0, -1, -4, -3, -3, 4},
		{-1, 0, 0, 1, -3, 3, 4, -2, 0, -3, -3, 1, -1, -3, -1, 0, -1, -3, -2, -2, 1, 4},
		{0, -1, -1, -1, -2, -1, -1, -1, -1, -1, -1, -1, -1, -1, -2, 0, 0, -2, -1, -1, -1, -1, -1},
	},
	"blosum45": {
		{5},
		{-2, 7},
		{-1, 0, 6},
		{-2, -1, 2, 7},
		{-1, -3, -2, -3, 12},
		{-1, 1, 0, 0, -3, 6},
		{-1, 0, 0, 2, -3, 2, 6},
		{0, -2, 0, -1, -3, -2, -2, 7},
		{-2, 0, 1, 0, -3, 1, 0, -2, 10},
		{-1, -3, -2, -4, -3, -2, -3, -4, -3, 5},
		{-1, -2, -3, -3, -2, -2, -2, -3, -2, 2, 5},
		{-1, 3, 0, 0, -3, 1, 1, -2, -1, -3, -3, 5},
		{-1, -1, -2, -3, -2, 0, -2, -2, 0, 2, 2, -1, 6},
		{-2, -2, -2, -4, -2, -4, -3, -3, -2, 0, 1, -3, 0, 8},
		{-1, -2, -2, -1, -4, -1, 0, -2, -2, -2, -3, -1, -2, -3, 9},
		{1, -1, 1, 0, -1, 0, 0, 0, -1, -2, -3, -1, -2, -2, -1, 4},
		{0, -1, 0, -1, -1, -1, -1, -2, -2, -1, -1, -1, -1, -1, -1, 2, 5},
		{-2, -2, -4, -4, -5, -2, -3, -2, -3, -2, -2, -2, -2, 1, -3, -4, -3, 15},
		{-2, -1, -2, -2, -3, -1, -2, -3, 2, 0, 0, -1, 0, 3, -3, -2, -1, 3, 8},
		{0, -2, -3, -3, -1, -3, -3, -3, -3, 3, 1, -2, 1, 0, -3, -1, 0, -3, -1, 5},
		{-1, -1, 4, 5, -2, 0, 1, -1, 0, -3, -3, 0, -2, -3, -2, 0, 0, -4, -2, -3, 4},
		{-1, 0, 0, 1, -3, 4, 4, -2, 0, -3, -2, 1, -1, -3, -1, 0, -1, -2, -2, -3, 2, 4},
		{0, -1, -1, -1, -2, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, 0, 0, -2, -1, -1, -1, -1, -1},
	},
	"blosum50": {
		{5},
		{-2, 7},
		{-1, -1, 7},
		{-2, -2, 2, 8},
		{-1, -4, -2, -4, 13},
		{-1, 1, 0, 0, -3, 7},
		{-1, 0, 0, 2, -3, 2, 6},
		{0, -3, 0, -1, -3, -2, -3, 8},
		{-2, 0, 1, -1, -3, 1, 0, -2, 10},
		{-1, -4, -3, -4, -2, -3, -4, -4, -4, 5},
		{-2, -3, -4, -4, -2, -2, -3, -4, -3, 2, 5},
		{-1, 3, 0, -1, -3, 2, 1, -2, 0, -3, -3, 6},
		{-1, -2, -2, -4, -2, 0, -2, -3, -1, 2, 3, -2, 7},
		{-3, -3, -4, -5, -2, -4, -3, -4, -1, 0, 1, -4, 0, 8},
		{-1, -3, -2, -1, -4, -1, -1, -2, -2, -3, -4, -1, -3, -4, 10},
		{1, -1, 1, 0, -1, 0, -1, 0, -1, -3, -3, 0, -2, -3, -1, 5},
		{0, -1, 0, -1, -1, -1, -1, -2, -2, -1, -1, -1, -1, -2, -1, 2, 5},
		{-3, -3, -4, -5, -5, -1, -3, -3, -3, -3, -2, -3, -1, 1, -4, -4, -3, 15},
		{-2, -1, -2, -3, -3, -1, -2, -3, 2, -1, -1, -2, 0, 4, -3, -2, -2, 2, 8},
		{0, -3, -3, -4, -1, -3, -3, -4, -4, 4, 1, -3, 1, -1, -3, -2, 0, -3, -1, 5},
		{-2, -1, 4, 5, -3, 0, 1, -1, 0, -4, -4, 0, -3, -4, -2, 0, 0, -5, -3, -4, 5},
		{-1, 0, 0, 1, -3, 4, 5, -2, 0, -3, -3, 1, -1, -4, -1, 0, -1, -2, -2, -3, 2, 5},
		{-1, -1, -1, -1, -2, -1, -1, -2, -1, -1, -1, -1, -1, -2, -2, -1, 0, -3, -1, -1, -1, -1, -1},
	},
	"blosum80": {
		{5},
		{-2, 6},
		{-2, -1, 6},
		{-2, -2, 1, 6},
		{-1, -4, -3, -4, 9},
		{-1, 1, 0, -1, -4, 6},
		{-1, -1, -1, 1, -5, 2, 6},
		{0, -3, -1, -2, -4, -2, -3, 6},
		{-2, 0, 0, -2, -4, 1, 0, -3, 8},
		{-2, -3, -4, -4, -2, -3, -4, -5, -4, 5},
		{-2, -3, -4, -5, -2, -3, -4, -4, -3, 1, 4},
		{-1, 2, 0, -1, -4, 1, 1, -2, -1, -3, -3, 5},
		{-1, -2, -3, -4, -2, 0, -2, -4, -2, 1, 2, -2, 6},
		{-3, -4, -4, -4, -3, -4, -4, -4, -2, -1, 0, -4, 0, 6},
		{-1, -2, -3, -2, -4, -2, -2, -3, -3, -4, -3, -1, -3, -4, 8},
		{1, -1, 0, -1, -2, 0, 0, -1, -1, -3, -3, -1, -2, -3, -1, 5},
		{0, -1, 0, -1, -1, -1, -1, -2, -2, -1, -2, -1, -1, -2, -2, 1, 5},
		{-3, -4, -4, -6, -3, -3, -4, -4, -3, -3, -2, -4, -2, 0, -5, -4, -4, 11},
		{-2, -3, -3, -4, -3, -2, -3, -4, 2, -2, -2, -3, -2, 3, -4, -2, -2, 2, 7},
		{0, -3, -4, -4, -1, -3, -3, -4, -4, 3, 1, -3, 1, -1, -3, -2, 0, -3, -2, 4},
		{-2, -2, 4, 4, -4, 0, 1, -1, -1, -4, -4, -1, -3, -4, -2, 0, -1, -5, -3, -4, 4},
		{-1, 0, 0, 1, -4, 3, 4, -3, 0, -4, -3, 1, -2, -4, -2, 0, -1, -4, -3, -3, 0, 4},
		{-1, -1, -1, -2, -3, -1, -1, -2, -2, -2, -2, -1, -1, -2, -2, -1, -1, -3, -2, -1, -2, -1, -1},
	},
	"blosum90": {
		{5},
		{-2, 6},
		{-2, -1, 7},
		{-3, -3, 1, 7},
		{-1, -5, -4, -5, 9},
		{-1, 1, 0, -1, -4, 7},
		{-1, -1, -1, 1, -6, 2, 6},
		{0, -3, -1, -2, -4, -3, -3, 6},
		{-2, 0, 0, -2, -5, 1, -1, -3, 8},
		{-2, -4, -4, -5, -2, -4, -4, -5, -4, 5},
		{-2, -3, -4, -5, -2, -3, -4, -5, -4, 1, 5},
		{-1, 2, 0, -1, -4, 1, 0, -2, -1, -4, -3, 6},
		{-2, -2, -3, -4, -2, 0, -3, -4, -3, 1, 2, -2, 7},
		{-3, -4, -4, -5, -3, -4, -5, -5, -2, -1, 0, -4, -1, 7},
		{-1, -3, -3, -3, -4, -2, -2, -3, -3, -4, -4, -2, -3, -4, 8},
		{1, -1, 0, -1, -2, -1, -1, -1, -2, -3, -3, -1, -2, -3, -2, 5},
		{0, -2, 0, -2, -2, -1, -1, -3, -2, -1, -2, -1, -1, -3, -2, 1, 6},
		{-4, -4, -5, -6, -4, -3, -5, -4, -3, -4, -3, -5, -2, 0, -5, -4, -4, 11},
		{-3, -3, -3, -4, -4, -3, -4, -5, 1, -2, -2, -3, -2, 3, -4, -3, -2, 2, 8},
		{-1, -3, -4, -5, -2, -3, -3, -5, -4, 3, 0, -3, 0, -2, -3, -2, -1, -3, -3, 5},
		{-2, -2, 4, 4, -4, 0, 0, -2, -1, -5, -5, -1, -4, -4, -3, 0, -1, -6, -4, -4, 4},
		{-1, 0, -1, 0, -5, 4, 4, -3, 0, -4, -4, 1, -2, -4, -2, -1, -1, -4, -3, -3, 0, 4},
		{-1, -2, -2, -2, -3, -1, -2, -2, -2, -2, -2, -1, -1, -2, -2, -1, -1, -3, -2, -2, -2, -1, -2},
	},
	"pam250": {
		{2},
		{-2, 6},
		{0, 0, 2},
		{0, -1, 2, 4},
		{-2, -4, -4, -5, 12},
		{0, 1, 1, 2, -5, 4},
		{0, -1, 1, 3, -5, 2, 4},
		{1, -3, 0, 1, -3, -1, 0, 5},
		{-1, 2, 2, 1, -3, 3, 1, -2, 6},
		{-1, -2, -2, -2, -2, -2, -2, -3, -2, 5},
		{-2, -3, -3, -4, -6, -2, -3, -4, -2, 2, 6},
		{-1, 3, 1, 0, -5, 1, 0, -2, 0, -2, -3, 5},
		{-1, 0, -2, -3, -5, -1, -2, -3, -2, 2, 4, 0, 6},
		{-3, -4, -3, -6, -4, -5, -5, -5, -2, 1, 2, -5, 0, 9},
		{1, 0, 0, -1, -3, 0, -1, 0, 0, -2, -3, -1, -2, -5, 6},
		{1, 0, 1, 0, 0, -1, 0, 1, -1, -1, -3, 0, -2, -3, 1, 2},
		{1, -1, 0, 0, -2, -1, 0, 0, -1, 0, -2, 0, -1, -3, 0, 1, 3},
		{-6, 2, -4, -7, -8, -5, -7, -7, -3, -5, -2, -3, -4, 0, -6, -2, -5, 17},
		{-3, -4, -2, -4, 0, -4, -4, -5, 0, -1, -1, -4, -2, 7, -5, -3, -3, 0, 10},
		{0, -2, -2, -2, -2, -2, -2, -1, -2, 4, 2, -2, 2, -1, -1, -1, 0, -6, -2, 4},
		{0, -1, 2, 3, -4, 1, 3, 0, 1, -2, -3, 1, -2, -4, -1, 0, 0, -5, -3, -2, 3},
		{0, 0, 1, 3, -5, 3, 3, 0, 2, -2, -3, 0, -2, -5, 0, 0, -1, -6, -4, -2, 2, 3},
		{0, -1, 0, -1, -3, -1, -1, -1, -1, -1, -1, -1, -1, -2, -1, 0, 0, -4, -2, -1, -1, -1, -1},
	},
}
