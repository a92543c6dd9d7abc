// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package phylogeny

import "testing"

func TestNewick(t *testing.T) {
	tree := newTree(3)
	tree.join(0, 1, 1.5, 2.5)
	tree.join(2, 3, 4, 0)
	if got, want := tree.Newick(nil), "(2:4,(0:1.5,1:2.5):0);"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	labels := []string{"alpha", "beta", "gamma"}
	got := tree.Newick(func(x OTU) string { return labels[x] })
	if want := "(gamma:4,(alpha:1.5,beta:2.5):0);"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
