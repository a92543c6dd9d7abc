// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package pairwise

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/grailbio/base/errors"

	"github.com/grailbio/bigalign/cluster"
	"github.com/grailbio/bigalign/device"
	"github.com/grailbio/bigalign/scoring"
	"github.com/grailbio/bigalign/seqdb"
)

var testSequences = []string{
	"MKVLAAGLLLLAACQAHE",
	"MKVLAAGLLLLAACAHE",
	"ACTGRNDQE",
	"WYVWYVWYV",
	"MKVL",
	"A",
	"",
	"ACTGRNDQEHILKMFPSWYV",
}

func testDB(t *testing.T, sequences ...string) *seqdb.Database {
	t.Helper()
	if len(sequences) == 0 {
		sequences = testSequences
	}
	db := seqdb.New()
	for i, s := range sequences {
		db.Append(fmt.Sprintf("seq%d", i), s)
	}
	db.Seal()
	return db
}

func testTable(t *testing.T) *scoring.Table {
	t.Helper()
	table, err := scoring.Lookup("blosum62")
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestRunSingleRank(t *testing.T) {
	db := testDB(t, "AAAA", "AAAA")
	d, err := Run(context.Background(), db, testTable(t), "sequential", cluster.Nop{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := d.Cells(), 1; got != want {
		t.Fatalf("got %d cells, want %d", got, want)
	}
	if got, want := d.At(0, 1), scoring.Score(16); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestDistanceMatrixSymmetry(t *testing.T) {
	db := testDB(t)
	d, err := Run(context.Background(), db, testTable(t), "sequential", cluster.Nop{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < db.Len(); i++ {
		if got := d.At(i, i); got != 0 {
			t.Errorf("diagonal (%d, %d): got %d, want 0", i, i, got)
		}
		for j := 0; j < i; j++ {
			if x, y := d.At(i, j), d.At(j, i); x != y {
				t.Errorf("asymmetry at (%d, %d): %d != %d", i, j, x, y)
			}
		}
	}
}

func TestSelfScoreBound(t *testing.T) {
	// Identity maximizes a substitution table's score: no pair can
	// beat a sequence's self alignment.
	db := testDB(t)
	table := testTable(t)
	d, err := Run(context.Background(), db, table, "sequential", cluster.Nop{})
	if err != nil {
		t.Fatal(err)
	}
	view := table.View()
	for i := 0; i < db.Len(); i++ {
		self := alignPair(db.Seq(i), db.Seq(i), view)
		for j := 0; j < db.Len(); j++ {
			if i == j {
				continue
			}
			if d.At(i, j) > self {
				t.Errorf("pair (%d, %d) scores %d above self score %d", i, j, d.At(i, j), self)
			}
		}
	}
}

func TestBackendsAgree(t *testing.T) {
	db := testDB(t)
	table := testTable(t)
	ctx := context.Background()
	want, err := Run(ctx, db, table, "sequential", cluster.Nop{})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"needleman", "hybrid", "default"} {
		got, err := Run(ctx, db, table, name, cluster.Nop{})
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < db.Len(); i++ {
			for j := 0; j < i; j++ {
				if got.At(i, j) != want.At(i, j) {
					t.Errorf("%s: pair (%d, %d): got %d, want %d", name, i, j, got.At(i, j), want.At(i, j))
				}
			}
		}
	}
}

func TestRunDistributionEquivalence(t *testing.T) {
	db := testDB(t)
	table := testTable(t)
	ctx := context.Background()
	single, err := Run(ctx, db, table, "sequential", cluster.Nop{})
	if err != nil {
		t.Fatal(err)
	}
	for _, world := range []int{1, 2, 3} {
		var (
			mu       sync.Mutex
			matrices []*DistanceMatrix
		)
		err := cluster.Process(ctx, world, func(ctx context.Context, tr cluster.Transport) error {
			d, err := Run(ctx, db, table, "sequential", tr)
			if err != nil {
				return err
			}
			mu.Lock()
			matrices = append(matrices, d)
			mu.Unlock()
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if got, want := len(matrices), world; got != want {
			t.Fatalf("world %d: got %d matrices, want %d", world, got, want)
		}
		for _, d := range matrices {
			for i := 0; i < db.Len(); i++ {
				for j := 0; j < i; j++ {
					if got, want := d.At(i, j), single.At(i, j); got != want {
						t.Errorf("world %d: pair (%d, %d): got %d, want %d", world, i, j, got, want)
					}
				}
			}
		}
	}
}

func TestRunUnknownAlgorithm(t *testing.T) {
	db := testDB(t, "AAAA", "ACGT")
	_, err := Run(context.Background(), db, testTable(t), "smith-waterman", cluster.Nop{})
	if err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
	if !errors.Is(errors.NotExist, err) {
		t.Errorf("unexpected error kind: %v", err)
	}
}

func TestRunDeviceOOMCollective(t *testing.T) {
	RegisterAlgorithm("needleman-oomtest", &needleman{
		memory: func() *device.Memory { return device.New(64) },
	})
	db := testDB(t)
	table := testTable(t)
	var (
		mu    sync.Mutex
		kinds []error
	)
	err := cluster.Process(context.Background(), 3, func(ctx context.Context, tr cluster.Transport) error {
		_, err := Run(ctx, db, table, "needleman-oomtest", tr)
		mu.Lock()
		kinds = append(kinds, err)
		mu.Unlock()
		return err
	})
	if err == nil {
		t.Fatal("expected collective out of memory")
	}
	if got, want := len(kinds), 3; got != want {
		t.Fatalf("got %d rank errors, want %d", got, want)
	}
	for rank, err := range kinds {
		if err == nil || !errors.Is(errors.OOM, err) {
			t.Errorf("rank %d: got %v, want an OOM error", rank, err)
		}
	}
}
