// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigalign

import (
	"context"
	"os"
	"reflect"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"

	"github.com/grailbio/bigalign/fasta"
	"github.com/grailbio/bigalign/pairwise"
	"github.com/grailbio/bigalign/phylogeny"
	"github.com/grailbio/bigalign/pipeline"
	"github.com/grailbio/bigalign/scoring"
	"github.com/grailbio/bigalign/seqdb"
)

// Configuration keys consulted by the modules' pre-flight checks.
const (
	// KeyInput is the path of the input sequence file.
	KeyInput = "input"
	// KeyParser selects the input parser.
	KeyParser = "parser"
	// KeyPairwise selects the pairwise algorithm.
	KeyPairwise = "pairwise"
	// KeyScoringTable selects the substitution table.
	KeyScoringTable = "scoring-table"
	// KeyPhylogeny selects the tree builder.
	KeyPhylogeny = "phylogeny"
)

// A DatabaseConduit carries the loaded sequence database.
type DatabaseConduit struct {
	DB *seqdb.Database
}

// A DistancesConduit carries the database and its pairwise
// distance matrix.
type DistancesConduit struct {
	DB        *seqdb.Database
	Distances *pairwise.DistanceMatrix
}

// A TreeConduit carries the completed run: database, distances and
// guide tree.
type TreeConduit struct {
	DB        *seqdb.Database
	Distances *pairwise.DistanceMatrix
	Tree      *phylogeny.Tree
}

// LoadModule is the pipeline source: it parses the configured
// input into a sequence database. Every rank parses the input
// itself; the database is deterministic, so replicas agree without
// an exchange.
type LoadModule struct{}

// Name implements pipeline.Module.
func (LoadModule) Name() string { return "load" }

// Check implements pipeline.Module.
func (LoadModule) Check(io *pipeline.IO) bool {
	if io.Get(KeyInput, "") == "" {
		log.Error.Printf("load: no input configured")
		return false
	}
	if _, err := fasta.Lookup(io.Get(KeyParser, "default")); err != nil {
		log.Error.Printf("load: %v", err)
		return false
	}
	return true
}

// Expects implements pipeline.Module.
func (LoadModule) Expects() reflect.Type { return nil }

// Produces implements pipeline.Module.
func (LoadModule) Produces() reflect.Type { return reflect.TypeOf(DatabaseConduit{}) }

// Run implements pipeline.Module.
func (LoadModule) Run(ctx context.Context, io *pipeline.IO, _ pipeline.Conduit) (pipeline.Conduit, error) {
	parse, err := fasta.Lookup(io.Get(KeyParser, "default"))
	if err != nil {
		return nil, err
	}
	db := seqdb.New()
	if err := parseInput(parse, io.Get(KeyInput, ""), db); err != nil {
		return nil, err
	}
	db.Seal()
	if io.Transport.Rank() == 0 {
		for _, group := range db.Duplicates() {
			log.Printf("load: sequences %v are identical", group)
		}
		log.Printf("load: %d sequences", db.Len())
	}
	return DatabaseConduit{DB: db}, nil
}

// parseInput is a hook for tests that load from memory.
var parseInput = func(parse fasta.Parser, path string, db *seqdb.Database) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.E("load: open "+path, err)
	}
	defer f.Close()
	return parse(f, db)
}

// PairwiseModule runs the distributed pairwise distance engine.
type PairwiseModule struct{}

// Name implements pipeline.Module.
func (PairwiseModule) Name() string { return "pairwise" }

// Check implements pipeline.Module.
func (PairwiseModule) Check(io *pipeline.IO) bool {
	if _, err := pairwise.LookupAlgorithm(io.Get(KeyPairwise, "default")); err != nil {
		log.Error.Printf("pairwise: %v", err)
		return false
	}
	if _, err := scoring.Lookup(io.Get(KeyScoringTable, "default")); err != nil {
		log.Error.Printf("pairwise: %v", err)
		return false
	}
	return true
}

// Expects implements pipeline.Module.
func (PairwiseModule) Expects() reflect.Type { return reflect.TypeOf(DatabaseConduit{}) }

// Produces implements pipeline.Module.
func (PairwiseModule) Produces() reflect.Type { return reflect.TypeOf(DistancesConduit{}) }

// Run implements pipeline.Module.
func (PairwiseModule) Run(ctx context.Context, io *pipeline.IO, in pipeline.Conduit) (pipeline.Conduit, error) {
	conduit := in.(DatabaseConduit)
	table, err := scoring.Lookup(io.Get(KeyScoringTable, "default"))
	if err != nil {
		return nil, err
	}
	d, err := pairwise.Run(ctx, conduit.DB, table, io.Get(KeyPairwise, "default"), io.Transport)
	if err != nil {
		return nil, err
	}
	return DistancesConduit{DB: conduit.DB, Distances: d}, nil
}

// PhylogenyModule builds the guide tree from the distance matrix.
type PhylogenyModule struct{}

// Name implements pipeline.Module.
func (PhylogenyModule) Name() string { return "phylogeny" }

// Check implements pipeline.Module.
func (PhylogenyModule) Check(io *pipeline.IO) bool {
	if _, err := phylogeny.LookupAlgorithm(io.Get(KeyPhylogeny, "default")); err != nil {
		log.Error.Printf("phylogeny: %v", err)
		return false
	}
	return true
}

// Expects implements pipeline.Module.
func (PhylogenyModule) Expects() reflect.Type { return reflect.TypeOf(DistancesConduit{}) }

// Produces implements pipeline.Module.
func (PhylogenyModule) Produces() reflect.Type { return reflect.TypeOf(TreeConduit{}) }

// Run implements pipeline.Module.
func (PhylogenyModule) Run(ctx context.Context, io *pipeline.IO, in pipeline.Conduit) (pipeline.Conduit, error) {
	conduit := in.(DistancesConduit)
	tree, err := phylogeny.Run(ctx, conduit.Distances, io.Get(KeyPhylogeny, "default"), io.Transport)
	if err != nil {
		return nil, err
	}
	return TreeConduit{DB: conduit.DB, Distances: conduit.Distances, Tree: tree}, nil
}

// Modules returns the standard module chain, each wrapped with the
// given middlewares.
func Modules(middlewares ...pipeline.Middleware) []pipeline.Module {
	modules := []pipeline.Module{LoadModule{}, PairwiseModule{}, PhylogenyModule{}}
	for i, m := range modules {
		modules[i] = pipeline.Wrap(m, middlewares...)
	}
	return modules
}

// Run composes and executes the standard pipeline over io,
// returning the completed run.
func Run(ctx context.Context, io *pipeline.IO, middlewares ...pipeline.Middleware) (TreeConduit, error) {
	p, err := pipeline.New(Modules(middlewares...)...)
	if err != nil {
		return TreeConduit{}, err
	}
	out, err := p.Run(ctx, io)
	if err != nil {
		return TreeConduit{}, err
	}
	result, ok := out.(TreeConduit)
	if !ok {
		return TreeConduit{}, errors.E(errors.Invalid, "bigalign: pipeline produced no tree")
	}
	return result, nil
}
