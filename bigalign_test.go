// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigalign

import (
	"context"
	"io/ioutil"
	"os"
	"sync"
	"testing"

	"github.com/grailbio/base/errors"

	"github.com/grailbio/bigalign/cluster"
	"github.com/grailbio/bigalign/pipeline"
)

const testFasta = `>one
MKVLAAGLLLLAACQAHE
>two
MKVLAAGLLLLAACAHE
>three
ACTGRNDQE
>four
WYVWYVWYV
>five
MKVL
`

func writeFasta(t *testing.T) string {
	t.Helper()
	f, err := ioutil.TempFile("", "bigalign-test-*.fasta")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(testFasta); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

func testIO(t cluster.Transport, path string) *pipeline.IO {
	io := pipeline.NewIO(t)
	io.Set(KeyInput, path)
	io.Set(KeyPairwise, "sequential")
	return io
}

func TestPipeline(t *testing.T) {
	path := writeFasta(t)
	defer os.Remove(path)
	result, err := Run(context.Background(), testIO(cluster.Nop{}, path))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := result.DB.Len(), 5; got != want {
		t.Fatalf("got %d sequences, want %d", got, want)
	}
	if got, want := result.Distances.Cells(), 10; got != want {
		t.Errorf("got %d cells, want %d", got, want)
	}
	if got, want := result.Tree.Len(), 9; got != want {
		t.Errorf("got %d nodes, want %d", got, want)
	}
	// The two near-identical sequences pair up first.
	first := result.Tree.Node(5)
	if first.Left != 0 || first.Right != 1 {
		t.Errorf("first join is (%d, %d), want (0, 1)", first.Left, first.Right)
	}
}

func TestPipelineDistributionEquivalence(t *testing.T) {
	path := writeFasta(t)
	defer os.Remove(path)
	ctx := context.Background()
	single, err := Run(ctx, testIO(cluster.Nop{}, path))
	if err != nil {
		t.Fatal(err)
	}
	wantTree := single.Tree.Newick(nil)
	for _, world := range []int{1, 2, 3} {
		var (
			mu      sync.Mutex
			results []TreeConduit
		)
		err := cluster.Process(ctx, world, func(ctx context.Context, tr cluster.Transport) error {
			result, err := Run(ctx, testIO(tr, path))
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		for _, result := range results {
			for i := 0; i < single.DB.Len(); i++ {
				for j := 0; j < i; j++ {
					if got, want := result.Distances.At(i, j), single.Distances.At(i, j); got != want {
						t.Errorf("world %d: pair (%d, %d): got %d, want %d", world, i, j, got, want)
					}
				}
			}
			if got := result.Tree.Newick(nil); got != wantTree {
				t.Errorf("world %d: got tree %s, want %s", world, got, wantTree)
			}
		}
	}
}

func TestPipelineUnknownTable(t *testing.T) {
	path := writeFasta(t)
	defer os.Remove(path)
	io := testIO(cluster.Nop{}, path)
	io.Set(KeyScoringTable, "blosum99")
	_, err := Run(context.Background(), io)
	if err == nil {
		t.Fatal("expected pre-flight failure")
	}
	if !errors.Is(errors.Invalid, err) {
		t.Errorf("unexpected error kind: %v", err)
	}
}

func TestPipelineUnknownAlgorithm(t *testing.T) {
	path := writeFasta(t)
	defer os.Remove(path)
	io := testIO(cluster.Nop{}, path)
	io.Set(KeyPairwise, "smith-waterman")
	_, err := Run(context.Background(), io)
	if err == nil {
		t.Fatal("expected pre-flight failure")
	}
	if !errors.Is(errors.Invalid, err) {
		t.Errorf("unexpected error kind: %v", err)
	}
}

func TestPipelineMissingInput(t *testing.T) {
	_, err := Run(context.Background(), testIO(cluster.Nop{}, ""))
	if err == nil {
		t.Fatal("expected pre-flight failure")
	}
	if !errors.Is(errors.Invalid, err) {
		t.Errorf("unexpected error kind: %v", err)
	}
}
