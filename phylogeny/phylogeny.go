// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package phylogeny builds the guide tree that orders the
// downstream progressive alignment. Builders consume the pairwise
// distance matrix read-only and are rank-collective: every rank
// produces an identical tree.
package phylogeny

import (
	"context"
	"sort"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"

	"github.com/grailbio/bigalign/cluster"
	"github.com/grailbio/bigalign/pairwise"
)

// ErrUnknownAlgorithm is returned by Run for builder names absent
// from the registry.
var ErrUnknownAlgorithm = errors.E(errors.NotExist, "unknown phylogeny algorithm")

// ErrEmptyDatabase is returned when the distance matrix covers
// fewer than two sequences.
var ErrEmptyDatabase = errors.E(errors.Invalid, "phylogeny: fewer than two sequences")

// A Task is one rank's view of a tree build.
type Task struct {
	Matrix    *pairwise.DistanceMatrix
	Transport cluster.Transport
}

// An Algorithm builds a guide tree from a distance matrix.
type Algorithm interface {
	Name() string
	Build(ctx context.Context, task *Task) (*Tree, error)
}

var (
	algorithmsMu sync.Mutex
	algorithms   = make(map[string]Algorithm)
)

// RegisterAlgorithm adds a builder to the registry.
func RegisterAlgorithm(name string, a Algorithm) {
	algorithmsMu.Lock()
	defer algorithmsMu.Unlock()
	if _, ok := algorithms[name]; ok {
		log.Panicf("phylogeny: algorithm %s already registered", name)
	}
	algorithms[name] = a
}

// LookupAlgorithm returns the named builder, or
// ErrUnknownAlgorithm. "default" names neighbor-joining.
func LookupAlgorithm(name string) (Algorithm, error) {
	algorithmsMu.Lock()
	defer algorithmsMu.Unlock()
	if name == "default" {
		name = "njoining"
	}
	a, ok := algorithms[name]
	if !ok {
		return nil, errors.E("phylogeny: "+name, ErrUnknownAlgorithm)
	}
	return a, nil
}

// Algorithms returns the registered builder names in sorted order.
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

// Run builds the guide tree for the given distance matrix with the
// named builder. Run is rank-collective with the same contract as
// the pairwise engine.
func Run(ctx context.Context, d *pairwise.DistanceMatrix, algorithm string, t cluster.Transport) (*Tree, error) {
	a, err := LookupAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}
	if d.Len() < 2 {
		return nil, errors.E("phylogeny: run", ErrEmptyDatabase)
	}
	if t.Rank() == 0 {
		log.Printf("phylogeny: joining %d sequences with %s", d.Len(), a.Name())
	}
	return a.Build(ctx, &Task{Matrix: d, Transport: t})
}
