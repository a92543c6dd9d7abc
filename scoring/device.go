// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package scoring

import (
	"github.com/grailbio/bigalign/alphabet"
	"github.com/grailbio/bigalign/device"
)

// A DeviceTable is a scoring table cloned onto device memory. The
// clone is owned by whoever allocated it and must be freed; kernels
// receive non-owning Views.
type DeviceTable struct {
	name    string
	alloc   *device.Allocation
	flat    []Score
	penalty Score
}

// ToDevice clones the table onto the provided device memory. The
// returned DeviceTable owns its allocation.
func (t *Table) ToDevice(mem *device.Memory) (*DeviceTable, error) {
	const n = alphabet.NumCodes * alphabet.NumCodes
	alloc, err := mem.Alloc(n * 4)
	if err != nil {
		return nil, err
	}
	dt := &DeviceTable{
		name:    t.name,
		alloc:   alloc,
		flat:    make([]Score, n),
		penalty: t.penalty,
	}
	for a := 0; a < alphabet.NumCodes; a++ {
		for b := 0; b < alphabet.NumCodes; b++ {
			dt.flat[a*alphabet.NumCodes+b] = t.scores[a][b]
		}
	}
	return dt, nil
}

// Free releases the clone's device memory.
func (dt *DeviceTable) Free() { dt.alloc.Free() }

// View returns a borrow of the device clone for use inside kernels.
func (dt *DeviceTable) View() View {
	return View{scores: dt.flat, penalty: dt.penalty}
}

// View returns a borrow of the host table, for backends that do not
// stage through device memory.
func (t *Table) View() View {
	const n = alphabet.NumCodes * alphabet.NumCodes
	flat := make([]Score, n)
	for a := 0; a < alphabet.NumCodes; a++ {
		for b := 0; b < alphabet.NumCodes; b++ {
			flat[a*alphabet.NumCodes+b] = t.scores[a][b]
		}
	}
	return View{scores: flat, penalty: t.penalty}
}

// A View is a non-owning, flat borrow of a scoring table. Its data
// layout has no indirection so a kernel can index it with the same
// cartesian (row, col) operation as the host table.
type View struct {
	scores  []Score
	penalty Score
}

// Score returns the substitution score for codes a, b.
func (v View) Score(a, b alphabet.Code) Score {
	return v.scores[int(a)*alphabet.NumCodes+int(b)]
}

// Penalty returns the linear gap penalty.
func (v View) Penalty() Score { return v.penalty }
