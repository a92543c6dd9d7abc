// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Bigalign aligns a FASTA database of protein sequences pairwise
// and prints the resulting guide tree in Newick format.
//
// Usage:
//
//	bigalign [flags] input.fasta
//
// A run executes on a single rank by default. -ranks hosts several
// ranks inside the process; -cluster runs one rank per bigmachine
// machine instead. The only cluster -cluster accepts is "local"
// (local forked processes); any other value is a fatal error.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/backgroundcontext"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/must"
	"github.com/grailbio/base/status"
	"github.com/grailbio/bigmachine"
	_ "github.com/grailbio/bigmachine/ec2system"

	"github.com/grailbio/bigalign"
	"github.com/grailbio/bigalign/cluster"
	"github.com/grailbio/bigalign/pairwise"
	"github.com/grailbio/bigalign/phylogeny"
	"github.com/grailbio/bigalign/pipeline"
	"github.com/grailbio/bigalign/scoring"
)

const job = "bigalign"

var (
	parserFlag    = flag.String("parser", "default", "input parser")
	pairwiseFlag  = flag.String("pairwise", "default", "pairwise algorithm")
	tableFlag     = flag.String("scoring-table", "default", "substitution table")
	phylogenyFlag = flag.String("phylogeny", "default", "tree building algorithm")
	ranksFlag     = flag.Int("ranks", 1, "number of in-process ranks")
	clusterFlag   = flag.String("cluster", "", "bigmachine cluster to run on (local)")
	worldFlag     = flag.Int("world", 2, "cluster world size with -cluster")
	listFlag      = flag.Bool("list", false, "list scoring tables and algorithms, then exit")
)

// Exit codes: 0 success, 1 configuration or input error, 2
// transport error, 3 device or resource error.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(errors.OOM, err):
		return 3
	case errors.Is(errors.Net, err), errors.Is(errors.Remote, err):
		return 2
	default:
		return 1
	}
}

var input string

func body(ctx context.Context, t cluster.Transport) error {
	io := pipeline.NewIO(t)
	io.Set(bigalign.KeyInput, input)
	io.Set(bigalign.KeyParser, *parserFlag)
	io.Set(bigalign.KeyPairwise, *pairwiseFlag)
	io.Set(bigalign.KeyScoringTable, *tableFlag)
	io.Set(bigalign.KeyPhylogeny, *phylogenyFlag)

	var middlewares []pipeline.Middleware
	if t.Rank() == 0 {
		var stat status.Status
		io.Status = &stat
		middlewares = append(middlewares, pipeline.WithStatus(stat.Group("bigalign")))
	}
	result, err := bigalign.Run(ctx, io, middlewares...)
	if err != nil {
		return err
	}
	if t.Rank() == 0 {
		db := result.DB
		fmt.Println(result.Tree.Newick(func(x phylogeny.OTU) string {
			if desc := db.Entry(int(x)).Description; desc != "" {
				if i := strings.IndexByte(desc, ' '); i > 0 {
					return desc[:i]
				}
				return desc
			}
			return fmt.Sprintf("%d", x)
		}))
	}
	return nil
}

func init() {
	cluster.RegisterJob(job, body)
}

func main() {
	log.AddFlags()
	log.SetFlags(0)
	log.SetPrefix("bigalign: ")
	must.Func = log.Fatal
	flag.Parse()

	if *listFlag {
		fmt.Println("scoring tables:", strings.Join(scoring.Names(), " "))
		fmt.Println("pairwise algorithms:", strings.Join(pairwise.Algorithms(), " "))
		fmt.Println("phylogeny algorithms:", strings.Join(phylogeny.Algorithms(), " "))
		return
	}
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bigalign [flags] input.fasta")
		os.Exit(1)
	}
	input = flag.Arg(0)

	ctx := backgroundcontext.Get()
	var err error
	switch {
	case *clusterFlag != "":
		var system bigmachine.System
		switch *clusterFlag {
		case "local":
			system = bigmachine.Local
		default:
			log.Fatalf("unknown cluster %s", *clusterFlag)
		}
		err = cluster.Bigmachine(ctx, system, *worldFlag, job)
	case *ranksFlag > 1:
		err = cluster.Process(ctx, *ranksFlag, body)
	default:
		err = body(ctx, cluster.Nop{})
	}
	if err != nil {
		log.Error.Printf("%v", err)
		os.Exit(exitCode(err))
	}
}
