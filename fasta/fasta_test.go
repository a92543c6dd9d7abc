// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package fasta

import (
	"strings"
	"testing"

	"github.com/grailbio/base/errors"

	"github.com/grailbio/bigalign/seqdb"
)

const input = `>sp|P01308|INS_HUMAN Insulin
MALWMRLLPL
LALLALWGPD

>second
ACTG
>empty
`

func TestParse(t *testing.T) {
	db := seqdb.New()
	if err := Parse(strings.NewReader(input), db); err != nil {
		t.Fatal(err)
	}
	if got, want := db.Len(), 3; got != want {
		t.Fatalf("got %d records, want %d", got, want)
	}
	if got, want := db.Entry(0).Description, "sp|P01308|INS_HUMAN Insulin"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := db.Seq(0).Decode(), "MALWMRLLPLLALLALWGPD"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := db.Seq(1).Decode(), "ACTG"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := db.Seq(2).Len(), 0; got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestParseFolding(t *testing.T) {
	db := seqdb.New()
	if err := Parse(strings.NewReader(">x\nac1u\n"), db); err != nil {
		t.Fatal(err)
	}
	// Lower case folds up; letters outside the alphabet fold to X.
	if got, want := db.Seq(0).Decode(), "ACXX"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseHeaderless(t *testing.T) {
	db := seqdb.New()
	err := Parse(strings.NewReader("ACTG\n"), db)
	if err == nil {
		t.Fatal("expected error for headerless input")
	}
	if !errors.Is(errors.Invalid, err) {
		t.Errorf("unexpected error kind: %v", err)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"fasta", "default"} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	_, err := Lookup("genbank")
	if err == nil {
		t.Fatal("expected error for unknown parser")
	}
	if !errors.Is(errors.NotExist, err) {
		t.Errorf("unexpected error kind: %v", err)
	}
}
