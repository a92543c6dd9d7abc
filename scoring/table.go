// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package scoring provides the catalog of residue substitution
// tables used by the pairwise aligner. Each table pairs a 25x25
// score matrix, axes in alphabet code order, with a linear gap
// penalty.
package scoring

import (
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/bigalign/alphabet"
)

// Score is the scalar type of substitution scores and alignment
// results.
type Score int32

// ErrUnknownTable is returned by Lookup for names absent from the
// catalog.
var ErrUnknownTable = errors.E(errors.NotExist, "unknown scoring table")

// A Table is an immutable named substitution matrix with its gap
// penalty. Tables are shared freely: they are read-only after
// construction.
type Table struct {
	name    string
	scores  [alphabet.NumCodes][alphabet.NumCodes]Score
	penalty Score
}

// Name returns the table's catalog name.
func (t *Table) Name() string { return t.name }

// Penalty returns the table's linear gap penalty. It is
// non-negative; the aligner subtracts it.
func (t *Table) Penalty() Score { return t.penalty }

// Score returns the substitution score for codes a, b.
func (t *Table) Score(a, b alphabet.Code) Score {
	return t.scores[a][b]
}

// catalog maps canonical table names to their built tables.
// "default" aliases blosum62, matching the aligner's historical
// behavior.
var catalog = map[string]*Table{}

func init() {
	for name, tri := range matrices {
		catalog[name] = build(name, tri, defaultPenalty)
	}
	catalog["default"] = catalog["blosum62"]
}

// build expands the lower-triangle residue-order data into a full
// code-order matrix. The triangle representation makes symmetry
// structural rather than a property of the data entry.
func build(name string, tri [][]Score, penalty Score) *Table {
	t := &Table{name: name, penalty: penalty}
	for i := 0; i < len(residues); i++ {
		a := alphabet.EncodeSymbol(residues[i])
		for j := 0; j <= i; j++ {
			b := alphabet.EncodeSymbol(residues[j])
			t.scores[a][b] = tri[i][j]
			t.scores[b][a] = tri[i][j]
		}
	}
	// The published matrices have no J column; score it as the
	// ambiguity code X. The padding row and column stay zero: the
	// aligner terminates before ever looking padding up.
	x := alphabet.Unknown
	j := alphabet.EncodeSymbol('J')
	for c := alphabet.Code(0); c < alphabet.NumCodes; c++ {
		if c == alphabet.Padding {
			continue
		}
		t.scores[j][c] = t.scores[x][c]
		t.scores[c][j] = t.scores[c][x]
	}
	t.scores[j][j] = t.scores[x][x]
	return t
}

// Lookup returns the named table, or ErrUnknownTable if the catalog
// has no such name. Names are case-sensitive.
func Lookup(name string) (*Table, error) {
	t, ok := catalog[name]
	if !ok {
		return nil, errors.E("scoring: "+name, ErrUnknownTable)
	}
	return t, nil
}

// Names returns the catalog's table names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
