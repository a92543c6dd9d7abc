// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package phylogeny

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/log"
)

// An OTU identifies an operational taxonomic unit: a leaf (database
// index) or an internal node of the guide tree.
type OTU int32

// None marks an absent OTU reference.
const None OTU = -1

// A Node is one guide-tree node. Leaves have no children; internal
// nodes carry the branch length to each child and the number of
// leaves they subtend.
type Node struct {
	Parent      OTU
	Left, Right OTU
	LengthLeft  float64
	LengthRight float64
	Leaves      int32
}

// A Tree is the rooted binary guide tree over 2N-1 OTUs: leaves
// 0..N-1 map to database indices and internal nodes N..2N-2 are
// numbered in join order, the last being the root.
type Tree struct {
	nodes  []Node
	leaves int
	next   OTU
}

// newTree returns a tree over n leaves with no joins yet.
func newTree(n int) *Tree {
	t := &Tree{
		nodes:  make([]Node, 2*n-1),
		leaves: n,
		next:   OTU(n),
	}
	for i := range t.nodes {
		t.nodes[i] = Node{Parent: None, Left: None, Right: None}
		if i < n {
			t.nodes[i].Leaves = 1
		}
	}
	return t
}

// join creates the next internal node over children u and v with
// the given branch lengths, returning its reference.
func (t *Tree) join(u, v OTU, du, dv float64) OTU {
	w := t.next
	if int(w) >= len(t.nodes) {
		log.Panicf("phylogeny: join past tree capacity %d", len(t.nodes))
	}
	t.next++
	t.nodes[w].Left, t.nodes[w].Right = u, v
	t.nodes[w].LengthLeft, t.nodes[w].LengthRight = du, dv
	t.nodes[w].Leaves = t.nodes[u].Leaves + t.nodes[v].Leaves
	t.nodes[u].Parent = w
	t.nodes[v].Parent = w
	return w
}

// Len returns the total number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Leaves returns the number of leaves.
func (t *Tree) Leaves() int { return t.leaves }

// Root returns the root reference.
func (t *Tree) Root() OTU { return OTU(len(t.nodes) - 1) }

// Node returns the node for reference x.
func (t *Tree) Node(x OTU) Node { return t.nodes[x] }

// Newick renders the tree in Newick format. Leaves are labeled by
// label, or by their index if label is nil.
func (t *Tree) Newick(label func(OTU) string) string {
	if label == nil {
		label = func(x OTU) string { return fmt.Sprintf("%d", x) }
	}
	var b strings.Builder
	t.newick(&b, t.Root(), label)
	b.WriteByte(';')
	return b.String()
}

func (t *Tree) newick(b *strings.Builder, x OTU, label func(OTU) string) {
	n := t.nodes[x]
	if n.Left == None {
		b.WriteString(label(x))
		return
	}
	b.WriteByte('(')
	t.newick(b, n.Left, label)
	fmt.Fprintf(b, ":%g,", n.LengthLeft)
	t.newick(b, n.Right, label)
	fmt.Fprintf(b, ":%g", n.LengthRight)
	b.WriteByte(')')
}
