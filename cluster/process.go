// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cluster

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/grailbio/bigalign/ctxsync"
)

// Process runs body once per rank, each rank on its own goroutine,
// with a shared in-process transport of the given world size. It
// returns the first body error. Process is how a single binary
// hosts a multi-rank run without an external launcher; it is also
// the harness the distribution-equivalence tests are written
// against.
func Process(ctx context.Context, world int, body func(ctx context.Context, t Transport) error) error {
	h := newHub(world)
	g, ctx := errgroup.WithContext(ctx)
	for rank := 0; rank < world; rank++ {
		rank := rank
		g.Go(func() error {
			return body(ctx, &processRank{hub: h, rank: rank})
		})
	}
	return g.Wait()
}

// hub synchronizes the ranks of a Process transport. Collectives
// proceed in rounds: every rank deposits its contribution, the last
// arrival publishes the round's results, and the round resets once
// every rank has departed.
type hub struct {
	mu   sync.Mutex
	cond *ctxsync.Cond

	world int

	// Round state, guarded by mu.
	op       op
	args     []interface{}
	arrived  int
	departed int
	open     bool // results published, departures pending
	err      error
}

func newHub(world int) *hub {
	h := &hub{world: world, args: make([]interface{}, world)}
	h.cond = ctxsync.NewCond(&h.mu)
	return h
}

// exchange deposits rank's contribution to the next collective and
// returns all contributions in rank order. All ranks of a round
// must present the same op; a mismatch fails the hub permanently,
// as the SPMD program order has diverged.
func (h *hub) exchange(ctx context.Context, rank int, o op, value interface{}) ([]interface{}, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	// Wait out the departure phase of the previous round.
	for h.open && h.err == nil {
		if err := h.cond.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if h.err != nil {
		return nil, h.err
	}
	if h.arrived == 0 {
		h.op = o
	} else if h.op != o {
		h.err = errMismatch(o, h.op)
		h.cond.Broadcast()
		return nil, h.err
	}
	h.args[rank] = value
	h.arrived++
	if h.arrived == h.world {
		h.open = true
		h.cond.Broadcast()
	} else {
		for !h.open && h.err == nil {
			if err := h.cond.Wait(ctx); err != nil {
				return nil, err
			}
		}
		if h.err != nil {
			return nil, h.err
		}
	}
	results := make([]interface{}, h.world)
	copy(results, h.args)
	h.departed++
	if h.departed == h.world {
		h.arrived, h.departed, h.open = 0, 0, false
		for i := range h.args {
			h.args[i] = nil
		}
		h.cond.Broadcast()
	}
	return results, nil
}

// A processRank is one rank's handle on a Process transport.
type processRank struct {
	hub  *hub
	rank int
}

// Rank implements Transport.
func (p *processRank) Rank() int { return p.rank }

// Size implements Transport.
func (p *processRank) Size() int { return p.hub.world }

// Broadcast implements Transport.
func (p *processRank) Broadcast(ctx context.Context, root int, value interface{}) (interface{}, error) {
	all, err := p.hub.exchange(ctx, p.rank, op{Kind: opBroadcast, Root: root}, value)
	if err != nil {
		return nil, err
	}
	return all[root], nil
}

// Allreduce implements Transport.
func (p *processRank) Allreduce(ctx context.Context, value interface{}, reduce Reducer) (interface{}, error) {
	all, err := p.hub.exchange(ctx, p.rank, op{Kind: opAllreduce}, value)
	if err != nil {
		return nil, err
	}
	acc := all[0]
	for _, v := range all[1:] {
		acc = reduce(acc, v)
	}
	return acc, nil
}

// Allgather implements Transport.
func (p *processRank) Allgather(ctx context.Context, value interface{}) ([]interface{}, error) {
	return p.hub.exchange(ctx, p.rank, op{Kind: opAllgather}, value)
}

// Barrier implements Transport.
func (p *processRank) Barrier(ctx context.Context) error {
	_, err := p.hub.exchange(ctx, p.rank, op{Kind: opBarrier}, nil)
	return err
}
