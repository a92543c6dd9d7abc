// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package bigalign computes multiple-sequence-alignment guide trees
// at scale. It scores every pair of an input protein database with
// a Needleman-Wunsch dynamic program, distributing the quadratic
// pair workload across the ranks of a cluster and the blocks of a
// compute device, then contracts the resulting distance matrix into
// a rooted binary guide tree with a distributed neighbor-joining
// reduction.
//
// The package composes its stages behind a typed pipeline:
//
//	load -> pairwise -> phylogeny
//
// Each stage's output is wrapped as the next stage's input conduit,
// and the composition is verified before anything runs. All stages
// are rank-collective: every rank of the cluster executes the same
// pipeline and finishes with the same distance matrix and tree.
package bigalign
