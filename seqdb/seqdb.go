// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package seqdb implements the in-memory sequence database consumed
// by the alignment pipeline: an insertion-ordered collection of
// encoded sequences with dense, stable indices.
package seqdb

import (
	"github.com/grailbio/base/log"
	"github.com/spaolacci/murmur3"

	"github.com/grailbio/bigalign/alphabet"
)

// An Entry is one database record. Index is dense and stable for
// the lifetime of the run; Digest is a content hash of the encoded
// sequence used for duplicate detection.
type Entry struct {
	Index       int
	Description string
	Seq         alphabet.Sequence
	Digest      uint64
}

// A Database is an append-only collection of entries. Once sealed
// (handed to downstream modules) it is immutable and may be shared
// freely across goroutines.
type Database struct {
	entries []Entry
	sealed  bool
}

// New returns an empty database.
func New() *Database {
	return &Database{}
}

// Append adds a sequence with the given description, returning its
// index. Append panics if the database has been sealed.
func (d *Database) Append(description, raw string) int {
	return d.AppendSeq(description, alphabet.Encode(raw))
}

// AppendSeq adds an already-encoded sequence.
func (d *Database) AppendSeq(description string, seq alphabet.Sequence) int {
	if d.sealed {
		log.Panicf("seqdb: append to sealed database")
	}
	index := len(d.entries)
	d.entries = append(d.entries, Entry{
		Index:       index,
		Description: description,
		Seq:         seq,
		Digest:      digest(seq),
	})
	return index
}

// Seal marks the database immutable. It is called once, by the
// producer, before the database is handed downstream.
func (d *Database) Seal() { d.sealed = true }

// Len returns the number of entries.
func (d *Database) Len() int { return len(d.entries) }

// Entry returns the i'th entry.
func (d *Database) Entry(i int) Entry { return d.entries[i] }

// Seq returns the i'th entry's sequence.
func (d *Database) Seq(i int) alphabet.Sequence { return d.entries[i].Seq }

// Duplicates returns the index groups of entries sharing a content
// digest, for groups of two or more. Members are in index order;
// groups are ordered by the index of their second member.
func (d *Database) Duplicates() [][]int {
	byDigest := make(map[uint64][]int)
	var order []uint64
	for _, e := range d.entries {
		if len(byDigest[e.Digest]) == 1 {
			order = append(order, e.Digest)
		}
		byDigest[e.Digest] = append(byDigest[e.Digest], e.Index)
	}
	var groups [][]int
	for _, dig := range order {
		groups = append(groups, byDigest[dig])
	}
	return groups
}

// digest hashes the packed words of a sequence together with its
// length, so sequences differing only in padding hash apart.
func digest(seq alphabet.Sequence) uint64 {
	h := murmur3.New64()
	var buf [4]byte
	for i := 0; i < seq.Words(); i++ {
		w := seq.Word(i)
		buf[0] = byte(w)
		buf[1] = byte(w >> 8)
		buf[2] = byte(w >> 16)
		buf[3] = byte(w >> 24)
		h.Write(buf[:])
	}
	n := seq.Len()
	buf[0] = byte(n)
	buf[1] = byte(n >> 8)
	buf[2] = byte(n >> 16)
	buf[3] = byte(n >> 24)
	h.Write(buf[:])
	return h.Sum64()
}
