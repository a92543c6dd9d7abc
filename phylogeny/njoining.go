// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package phylogeny

import (
	"context"
	"math"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"

	"github.com/grailbio/bigalign/cluster"
)

func init() {
	RegisterAlgorithm("njoining", &njoining{})
	cluster.Register(candidate{})
	cluster.Register([]float64{})
}

// ErrDegenerateDistance is returned when the distance matrix holds
// a non-finite value.
var ErrDegenerateDistance = errors.E(errors.Invalid, "phylogeny: degenerate distance")

// A candidate is a rank's best joinable pair for the current step.
// U < V; Ok distinguishes a real candidate from the zero value a
// rank with no owned rows contributes.
type candidate struct {
	Q    float64
	U, V OTU
	Ok   bool
}

// closer reports whether b beats a: larger Q first, ties broken by
// smaller U, then smaller V. It is the total order that makes the
// build deterministic across any world size.
func closer(a, b candidate) bool {
	switch {
	case !b.Ok:
		return false
	case !a.Ok:
		return true
	case b.Q != a.Q:
		return b.Q > a.Q
	case b.U != a.U:
		return b.U < a.U
	default:
		return b.V < a.V
	}
}

// closest is the allreduce reducer selecting the global best
// candidate.
func closest(a, b interface{}) interface{} {
	x, y := a.(candidate), b.(candidate)
	if closer(x, y) {
		return y
	}
	return x
}

// njoining is the distributed neighbor-joining builder. Every rank
// holds a replica of the active distance matrix; candidate scans
// are striped over the active rows by rank, the winning join is
// selected by an allreduce, and the merged row is computed by its
// owning rank and broadcast, keeping a single writer per row.
type njoining struct{}

// Name implements Algorithm.
func (*njoining) Name() string { return "njoining" }

// Build implements Algorithm.
func (nj *njoining) Build(ctx context.Context, task *Task) (*Tree, error) {
	var (
		t     = task.Transport
		d     = task.Matrix
		n     = d.Len()
		size  = 2*n - 1
		tree  = newTree(n)
		world = t.Size()
		rank  = t.Rank()
	)
	// The working matrix is indexed by OTU reference so merged rows
	// extend it in place.
	dist := make([]float64, size*size)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			v := float64(d.At(i, j))
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.E("phylogeny: build", ErrDegenerateDistance)
			}
			dist[i*size+j] = v
			dist[j*size+i] = v
		}
	}

	active := make([]OTU, n)
	for i := range active {
		active[i] = OTU(i)
	}

	for len(active) > 2 {
		k := len(active)

		// Row sums over the active set, by active position.
		sums := make([]float64, k)
		for i := 1; i < k; i++ {
			for j := 0; j < i; j++ {
				v := dist[int(active[i])*size+int(active[j])]
				sums[i] += v
				sums[j] += v
			}
		}

		// Scan the rank's owned rows for the local best candidate.
		best := candidate{}
		for i := rank; i < k; i += world {
			for j := i + 1; j < k; j++ {
				u, v := active[i], active[j]
				if u > v {
					u, v = v, u
				}
				q := float64(k-2)*dist[int(u)*size+int(v)] - sums[i] - sums[j]
				if c := (candidate{Q: q, U: u, V: v, Ok: true}); closer(best, c) {
					best = c
				}
			}
		}

		global, err := t.Allreduce(ctx, best, closest)
		if err != nil {
			return nil, err
		}
		chosen, ok := global.(candidate)
		if !ok || !chosen.Ok {
			log.Panicf("phylogeny: no joinable candidate among %d OTUs", k)
		}

		pu, pv := -1, -1
		for i, x := range active {
			switch x {
			case chosen.U:
				pu = i
			case chosen.V:
				pv = i
			}
		}
		if pu < 0 || pv < 0 {
			log.Panicf("phylogeny: candidate (%d, %d) not active", chosen.U, chosen.V)
		}

		duv := dist[int(chosen.U)*size+int(chosen.V)]
		du := duv/2 + (sums[pu]-sums[pv])/(2*float64(k-2))
		dv := duv - du
		w := tree.join(chosen.U, chosen.V, du, dv)

		// The owner of the first joined row emits the merged row;
		// everyone else installs the broadcast copy.
		owner := pu % world
		var row []float64
		if rank == owner {
			row = make([]float64, k)
			for i, z := range active {
				if z == chosen.U || z == chosen.V {
					continue
				}
				row[i] = (dist[int(chosen.U)*size+int(z)] + dist[int(chosen.V)*size+int(z)] - duv) / 2
			}
		}
		bv, err := t.Broadcast(ctx, owner, row)
		if err != nil {
			return nil, err
		}
		row, ok = bv.([]float64)
		if !ok || len(row) != k {
			log.Panicf("phylogeny: malformed merged row at step %d", int(w)-n)
		}
		for i, z := range active {
			if z == chosen.U || z == chosen.V {
				continue
			}
			dist[int(w)*size+int(z)] = row[i]
			dist[int(z)*size+int(w)] = row[i]
		}

		// Replace u by w; drop v.
		active[pu] = w
		active = append(active[:pv], active[pv+1:]...)
	}

	// The final pair joins at the root, splitting its distance.
	u, v := active[0], active[1]
	if u > v {
		u, v = v, u
	}
	duv := dist[int(u)*size+int(v)]
	tree.join(u, v, duv/2, duv/2)
	return tree, nil
}
