// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package pairwise implements the distributed pairwise distance
// engine: it partitions the all-pairs workload across the ranks of
// a cluster, aligns each rank's share with a pluggable backend, and
// gathers the scores into a distance matrix replicated on every
// rank.
package pairwise

import (
	"context"
	"sort"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"

	"github.com/grailbio/bigalign/cluster"
	"github.com/grailbio/bigalign/scoring"
	"github.com/grailbio/bigalign/seqdb"
)

func init() {
	cluster.Register([]scoring.Score{})
}

// ErrUnknownAlgorithm is returned by Run for algorithm names absent
// from the registry.
var ErrUnknownAlgorithm = errors.E(errors.NotExist, "unknown pairwise algorithm")

// A Task is one rank's share of a pairwise run.
type Task struct {
	DB    *seqdb.Database
	Table *scoring.Table
	Pairs []Pair
}

// An Algorithm aligns a rank's pairs, returning one score per pair
// in task order. Algorithms are hot-swappable by name at run time.
type Algorithm interface {
	Name() string
	Align(ctx context.Context, task *Task) ([]scoring.Score, error)
}

var (
	algorithmsMu sync.Mutex
	algorithms   = make(map[string]Algorithm)
)

// RegisterAlgorithm adds an algorithm to the registry. Backends
// register themselves from their init.
func RegisterAlgorithm(name string, a Algorithm) {
	algorithmsMu.Lock()
	defer algorithmsMu.Unlock()
	if _, ok := algorithms[name]; ok {
		log.Panicf("pairwise: algorithm %s already registered", name)
	}
	algorithms[name] = a
}

// LookupAlgorithm returns the named algorithm, or
// ErrUnknownAlgorithm. "default" names the hybrid backend.
func LookupAlgorithm(name string) (Algorithm, error) {
	algorithmsMu.Lock()
	defer algorithmsMu.Unlock()
	if name == "default" {
		name = "hybrid"
	}
	a, ok := algorithms[name]
	if !ok {
		return nil, errors.E("pairwise: "+name, ErrUnknownAlgorithm)
	}
	return a, nil
}

// Algorithms returns the registered algorithm names in sorted
// order.
func Algorithms() []string {
	algorithmsMu.Lock()
	defer algorithmsMu.Unlock()
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// State tracks an engine run's progression. States only advance.
type State int

const (
	// Idle is the state of an engine that has not started.
	Idle State = iota
	// Partitioning: the rank is carving out its pair share.
	Partitioning
	// Executing: the backend is aligning the rank's pairs.
	Executing
	// Gathering: ranks are exchanging their scores.
	Gathering
	// Ready: the distance matrix is complete on every rank.
	Ready
)

var stateNames = [...]string{"idle", "partitioning", "executing", "gathering", "ready"}

// String implements fmt.Stringer.
func (s State) String() string { return stateNames[s] }

type engine struct {
	transport cluster.Transport
	state     State
}

// advance moves the engine to state next, enforcing monotonic
// progression.
func (e *engine) advance(next State) {
	if next <= e.state {
		log.Panicf("pairwise: state %s does not follow %s", next, e.state)
	}
	e.state = next
}

// Run aligns every pair of db's sequences under table using the
// named algorithm and returns the complete distance matrix. Run is
// rank-collective: every rank of t must call it with the same
// arguments, and every rank returns the same matrix or the same
// error. A rank-local fault is drained through a synchronization
// point before it surfaces, so no rank is left blocked in a
// collective.
func Run(ctx context.Context, db *seqdb.Database, table *scoring.Table, algorithm string, t cluster.Transport) (*DistanceMatrix, error) {
	a, err := LookupAlgorithm(algorithm)
	if err != nil {
		// The registry is identical on every rank: each surfaces
		// the same error without an exchange.
		return nil, err
	}
	e := &engine{transport: t}
	n := db.Len()

	e.advance(Partitioning)
	task := &Task{
		DB:    db,
		Table: table,
		Pairs: Partition(n, t.Rank(), t.Size()),
	}
	if t.Rank() == 0 {
		log.Printf("pairwise: aligning %d pairs over %d ranks with %s", NumPairs(n), t.Size(), a.Name())
	}

	e.advance(Executing)
	scores, alignErr := a.Align(ctx, task)
	if alignErr == nil && len(scores) != len(task.Pairs) {
		alignErr = errors.E(errors.Invalid, "pairwise: backend returned short scores")
	}

	// Fault drain: every rank reaches this synchronization point,
	// then all surface the same error or none.
	if err := cluster.Elevate(ctx, t, alignErr); err != nil {
		return nil, err
	}

	e.advance(Gathering)
	gathered, err := t.Allgather(ctx, scores)
	if err != nil {
		return nil, err
	}
	cells := make([]scoring.Score, NumPairs(n))
	for rank, v := range gathered {
		rankScores, ok := v.([]scoring.Score)
		if !ok {
			log.Panicf("pairwise: malformed gather contribution from rank %d", rank)
		}
		// Rank order was preserved through the gather, so the k'th
		// local score is the pair with ordinal k*world + rank.
		for k, s := range rankScores {
			cells[k*t.Size()+rank] = s
		}
	}

	e.advance(Ready)
	return FromScores(n, cells), nil
}
