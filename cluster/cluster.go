// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package cluster provides the collective transport that binds the
// ranks of a bigalign run together. The transport exposes the small
// set of primitives the engine needs: broadcast, all-reduce with a
// caller-supplied reducer, ordered all-gather and a barrier.
//
// Every rank must reach each collective in the same program order;
// transports detect mismatched calls and fail them all with a
// transport error rather than deadlock.
//
// Three transports are provided: Nop (no cluster support: a single
// rank, all primitives are identity), Process (several ranks as
// goroutines in one process), and the bigmachine-backed transport
// for real clusters.
package cluster

import (
	"context"

	"github.com/grailbio/base/errors"
)

// A Reducer combines two values of the same type into one. Reducers
// must be pure, associative and commutative: the transport chooses
// the combination order.
type Reducer func(a, b interface{}) interface{}

// A Transport carries collective operations between the ranks of a
// run. Implementations must be safe for use by the single host
// thread of each rank; collectives block until every rank arrives.
type Transport interface {
	// Rank returns the calling process's rank, in [0, Size).
	Rank() int
	// Size returns the world size.
	Size() int
	// Broadcast returns root's value on every rank.
	Broadcast(ctx context.Context, root int, value interface{}) (interface{}, error)
	// Allreduce folds every rank's value with reduce and returns
	// the result on every rank. The fold is applied in rank order.
	Allreduce(ctx context.Context, value interface{}, reduce Reducer) (interface{}, error)
	// Allgather returns every rank's value, indexed by rank, on
	// every rank.
	Allgather(ctx context.Context, value interface{}) ([]interface{}, error)
	// Barrier blocks until every rank arrives.
	Barrier(ctx context.Context) error
}

// opKind discriminates collective operations so transports can
// detect program-order violations.
type opKind int

const (
	opBroadcast opKind = iota
	opAllreduce
	opAllgather
	opBarrier
)

func (o opKind) String() string {
	switch o {
	case opBroadcast:
		return "broadcast"
	case opAllreduce:
		return "allreduce"
	case opAllgather:
		return "allgather"
	case opBarrier:
		return "barrier"
	}
	return "invalid"
}

// An op tags one collective call: its kind and, for broadcasts, the
// root rank.
type op struct {
	Kind opKind
	Root int
}

// errMismatch constructs the collective failure surfaced when ranks
// disagree on the next operation.
func errMismatch(got, want op) error {
	return errors.E(errors.Net,
		"cluster: collective order violation: "+got.Kind.String()+" does not match "+want.Kind.String())
}

// Nop is the transport of a binary built without cluster support:
// world size 1, rank 0, and every primitive degrades to identity.
type Nop struct{}

// Rank implements Transport.
func (Nop) Rank() int { return 0 }

// Size implements Transport.
func (Nop) Size() int { return 1 }

// Broadcast implements Transport.
func (Nop) Broadcast(ctx context.Context, root int, value interface{}) (interface{}, error) {
	return value, nil
}

// Allreduce implements Transport.
func (Nop) Allreduce(ctx context.Context, value interface{}, reduce Reducer) (interface{}, error) {
	return value, nil
}

// Allgather implements Transport.
func (Nop) Allgather(ctx context.Context, value interface{}) ([]interface{}, error) {
	return []interface{}{value}, nil
}

// Barrier implements Transport.
func (Nop) Barrier(ctx context.Context) error { return nil }

// fault is the value exchanged by Elevate.
type fault struct {
	Rank    int
	Kind    int
	Message string
}

// Elevate turns a possibly rank-local error into a collective one.
// Every rank calls Elevate at a synchronization point with its local
// error, nil if none; the call drains in-flight collectives and
// returns nil only if no rank faulted. Ranks that faulted receive
// their own error back; healthy ranks receive the lowest faulted
// rank's error, reconstructed with its kind so that callers can
// still map it to an exit code.
func Elevate(ctx context.Context, t Transport, err error) error {
	f := fault{Rank: t.Rank()}
	if err != nil {
		f.Kind = int(errors.Recover(err).Kind)
		f.Message = err.Error()
	} else {
		f.Rank = -1
	}
	all, gerr := t.Allgather(ctx, f)
	if gerr != nil {
		if err != nil {
			return err
		}
		return gerr
	}
	if err != nil {
		return err
	}
	for _, v := range all {
		g, ok := v.(fault)
		if !ok || g.Rank < 0 {
			continue
		}
		return errors.E(errors.Kind(g.Kind), "cluster: collective failure", errors.New(g.Message))
	}
	return nil
}
