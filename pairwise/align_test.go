// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package pairwise

import (
	"testing"

	"github.com/grailbio/bigalign/alphabet"
	"github.com/grailbio/bigalign/scoring"
)

func score(t *testing.T, a, b string) scoring.Score {
	t.Helper()
	table, err := scoring.Lookup("blosum62")
	if err != nil {
		t.Fatal(err)
	}
	one, two := orient(alphabet.Encode(a), alphabet.Encode(b))
	return alignPair(one, two, table.View())
}

func TestAlignIdentical(t *testing.T) {
	// Four A-A matches at blosum62's A/A score of 4.
	if got, want := score(t, "AAAA", "AAAA"), scoring.Score(16); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestAlignEmpty(t *testing.T) {
	// One gap against the empty sequence.
	if got, want := score(t, "", "A"), scoring.Score(-4); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
	if got, want := score(t, "A", ""), scoring.Score(-4); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
	if got, want := score(t, "", ""), scoring.Score(0); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestAlignSubstitution(t *testing.T) {
	// AC against AC is A/A + C/C; against GT it is A/G + C/T.
	if got, want := score(t, "AC", "AC"), scoring.Score(13); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
	if got, want := score(t, "AC", "GT"), scoring.Score(-1); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestAlignGapped(t *testing.T) {
	// The longer sequence pays one gap beyond the diagonal.
	if got, want := score(t, "AAAA", "AAA"), scoring.Score(12-4); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestAlignEarlyTermination(t *testing.T) {
	// A padded tail behaves exactly like the unpadded sequence.
	for _, other := range []string{"AAAA", "ACGT", "", "WYV"} {
		if got, want := score(t, "ACGT***", other), score(t, "ACGT", other); got != want {
			t.Errorf("vs %q: got %d, want %d", other, got, want)
		}
	}
	if got, want := score(t, "ACGT***", "ACGT***"), score(t, "ACGT", "ACGT"); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestAlignCommutes(t *testing.T) {
	pairs := [][2]string{
		{"MKVLAA", "MKV"},
		{"ACTG", "GTCA"},
		{"WYVWYV", "A"},
	}
	for _, p := range pairs {
		if got, want := score(t, p[0], p[1]), score(t, p[1], p[0]); got != want {
			t.Errorf("%q vs %q: got %d, want %d", p[0], p[1], got, want)
		}
	}
}
