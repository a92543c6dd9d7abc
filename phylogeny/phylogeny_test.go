// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package phylogeny

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/grailbio/base/errors"

	"github.com/grailbio/bigalign/cluster"
	"github.com/grailbio/bigalign/pairwise"
	"github.com/grailbio/bigalign/scoring"
	"github.com/grailbio/bigalign/seqdb"
)

// distances packs the strict lower triangle of a matrix over n
// sequences, listed in pair-ordinal order.
func distances(n int, cells ...scoring.Score) *pairwise.DistanceMatrix {
	return pairwise.FromScores(n, cells)
}

func build(t *testing.T, d *pairwise.DistanceMatrix) *Tree {
	t.Helper()
	tree, err := Run(context.Background(), d, "njoining", cluster.Nop{})
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestTreeShape(t *testing.T) {
	for _, n := range []int{2, 3, 5, 16} {
		db := seqdb.New()
		for i := 0; i < n; i++ {
			db.Append("", fmt.Sprintf("%c", 'A'+i%20))
		}
		db.Seal()
		table, err := scoring.Lookup("blosum62")
		if err != nil {
			t.Fatal(err)
		}
		d, err := pairwise.Run(context.Background(), db, table, "sequential", cluster.Nop{})
		if err != nil {
			t.Fatal(err)
		}
		tree := build(t, d)
		if got, want := tree.Len(), 2*n-1; got != want {
			t.Fatalf("n=%d: got %d nodes, want %d", n, got, want)
		}
		if got, want := tree.Root(), OTU(2*n-2); got != want {
			t.Errorf("n=%d: got root %d, want %d", n, got, want)
		}
		// Leaves have no children; internal nodes have two and
		// subtend the sum of their children's leaves.
		for x := OTU(0); int(x) < tree.Len(); x++ {
			node := tree.Node(x)
			if int(x) < n {
				if node.Left != None || node.Right != None {
					t.Errorf("n=%d: leaf %d has children", n, x)
				}
				continue
			}
			if node.Left == None || node.Right == None {
				t.Errorf("n=%d: internal node %d is missing children", n, x)
				continue
			}
			if got, want := node.Leaves, tree.Node(node.Left).Leaves+tree.Node(node.Right).Leaves; got != want {
				t.Errorf("n=%d: node %d subtends %d leaves, want %d", n, x, got, want)
			}
		}
		if got, want := tree.Node(tree.Root()).Leaves, int32(n); got != want {
			t.Errorf("n=%d: root subtends %d leaves, want %d", n, got, want)
		}
		// Every node except the root has a parent.
		for x := OTU(0); int(x) < tree.Len()-1; x++ {
			if tree.Node(x).Parent == None {
				t.Errorf("n=%d: node %d has no parent", n, x)
			}
		}
		if tree.Node(tree.Root()).Parent != None {
			t.Errorf("n=%d: root has a parent", n)
		}
	}
}

func TestJoinOrder(t *testing.T) {
	// Sequences AC, AC, GT under blosum62: the identical pair is
	// selected first.
	db := seqdb.New()
	for _, s := range []string{"AC", "AC", "GT"} {
		db.Append("", s)
	}
	db.Seal()
	table, err := scoring.Lookup("blosum62")
	if err != nil {
		t.Fatal(err)
	}
	d, err := pairwise.Run(context.Background(), db, table, "sequential", cluster.Nop{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := d.At(0, 1), scoring.Score(13); got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
	tree := build(t, d)
	first := tree.Node(OTU(3))
	if first.Left != 0 || first.Right != 1 {
		t.Errorf("first join is (%d, %d), want (0, 1)", first.Left, first.Right)
	}
}

func TestRootJoin(t *testing.T) {
	// Two sequences join at the root, splitting their distance.
	tree := build(t, distances(2, 16))
	root := tree.Node(tree.Root())
	if root.Left != 0 || root.Right != 1 {
		t.Fatalf("root joins (%d, %d), want (0, 1)", root.Left, root.Right)
	}
	if root.LengthLeft != 8 || root.LengthRight != 8 {
		t.Errorf("got branches (%g, %g), want (8, 8)", root.LengthLeft, root.LengthRight)
	}
}

func TestQuartetTopology(t *testing.T) {
	// Scores derived from an additive quartet (similarity 20 - d,
	// with 0,1 and 2,3 the close pairs). The builder must recover
	// the quartet split regardless of the affine score convention.
	tree := build(t, distances(4,
		15,     // (1, 0)
		13, 12, // (2, 0), (2, 1)
		12, 11, 11, // (3, 0), (3, 1), (3, 2)
	))
	if got, want := tree.Len(), 7; got != want {
		t.Fatalf("got %d nodes, want %d", got, want)
	}
	first := tree.Node(OTU(4))
	if first.Left != 0 || first.Right != 1 {
		t.Errorf("first join is (%d, %d), want (0, 1)", first.Left, first.Right)
	}
	second := tree.Node(OTU(5))
	if second.Left != 2 || second.Right != 3 {
		t.Errorf("second join is (%d, %d), want (2, 3)", second.Left, second.Right)
	}
	root := tree.Node(tree.Root())
	if root.Left != 4 || root.Right != 5 {
		t.Errorf("root joins (%d, %d), want (4, 5)", root.Left, root.Right)
	}
}

func TestDeterministicAcrossWorlds(t *testing.T) {
	db := seqdb.New()
	for _, s := range []string{
		"MKVLAAGLLLLAACQAHE",
		"MKVLAAGLLLLAACAHE",
		"ACTGRNDQE",
		"WYVWYVWYV",
		"MKVL",
		"ACTGRNDQEHILKMFPSWYV",
	} {
		db.Append("", s)
	}
	db.Seal()
	table, err := scoring.Lookup("blosum62")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	d, err := pairwise.Run(ctx, db, table, "sequential", cluster.Nop{})
	if err != nil {
		t.Fatal(err)
	}
	want := build(t, d).Newick(nil)
	for _, world := range []int{1, 2, 3, 4} {
		var (
			mu    sync.Mutex
			trees []string
		)
		err := cluster.Process(ctx, world, func(ctx context.Context, tr cluster.Transport) error {
			tree, err := Run(ctx, d, "njoining", tr)
			if err != nil {
				return err
			}
			mu.Lock()
			trees = append(trees, tree.Newick(nil))
			mu.Unlock()
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		for _, got := range trees {
			if got != want {
				t.Errorf("world %d: got %s, want %s", world, got, want)
			}
		}
	}
}

func TestEmptyDatabase(t *testing.T) {
	for _, n := range []int{0, 1} {
		var cells []scoring.Score
		_, err := Run(context.Background(), pairwise.FromScores(n, cells), "njoining", cluster.Nop{})
		if err == nil {
			t.Fatalf("n=%d: expected error", n)
		}
		if !errors.Is(errors.Invalid, err) {
			t.Errorf("n=%d: unexpected error kind: %v", n, err)
		}
	}
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := Run(context.Background(), distances(2, 1), "upgma", cluster.Nop{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(errors.NotExist, err) {
		t.Errorf("unexpected error kind: %v", err)
	}
}
