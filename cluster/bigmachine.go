// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cluster

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/bigmachine"
	"golang.org/x/sync/errgroup"
)

func init() {
	gob.Register(fault{})
	gob.Register([]interface{}{})
	gob.Register(&RankService{})
}

// A Body is the rank program of a bigmachine-backed run. Bodies are
// registered by name in every binary of the cluster; the driver
// names the body to run and each machine looks it up in its own
// registry, so driver and workers must be the same binary.
type Body func(ctx context.Context, t Transport) error

var (
	jobsMu sync.Mutex
	jobs   = make(map[string]Body)
)

// RegisterJob registers body under name. It is typically called
// from a package init so that driver and worker binaries agree on
// the registry.
func RegisterJob(name string, body Body) {
	jobsMu.Lock()
	defer jobsMu.Unlock()
	if _, ok := jobs[name]; ok {
		log.Panicf("cluster: job %s already registered", name)
	}
	jobs[name] = body
}

func lookupJob(name string) (Body, bool) {
	jobsMu.Lock()
	defer jobsMu.Unlock()
	body, ok := jobs[name]
	return body, ok
}

// Register records a concrete type exchanged through a
// bigmachine-backed transport, so it can pass through the wire
// encoding. In-process transports do not need it.
func Register(value interface{}) {
	gob.Register(value)
}

// An envelope frames one collective payload on the wire.
type envelope struct {
	Op    op
	Value interface{}
	Err   string
}

func encodeEnvelope(e envelope) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&e); err != nil {
		return nil, errors.E(errors.Net, "cluster: encode", err)
	}
	return buf.Bytes(), nil
}

func decodeEnvelope(p []byte) (envelope, error) {
	var e envelope
	if err := gob.NewDecoder(bytes.NewReader(p)).Decode(&e); err != nil {
		return envelope{}, errors.E(errors.Net, "cluster: decode", err)
	}
	return e, nil
}

// RunRequest asks a machine to run a rank of the named job.
type RunRequest struct {
	Job   string
	Rank  int
	World int
}

// Contribution is a machine rank's payload for the collective the
// driver is currently exchanging.
type Contribution struct {
	Payload []byte
}

// Delivery is the computed result of a collective, returned to a
// machine rank.
type Delivery struct {
	Payload []byte
}

// RankService is the bigmachine service hosting one worker rank. It
// pairs the rank's in-flight collective calls with the driver's
// exchange RPCs.
type RankService struct {
	mu       sync.Mutex
	offers   chan []byte
	delivers chan []byte
}

// Init implements the bigmachine service initialization hook.
func (s *RankService) Init(_ *bigmachine.B) error {
	s.offers = make(chan []byte, 1)
	s.delivers = make(chan []byte, 1)
	return nil
}

// Run executes the named job's rank program on this machine. It
// returns when the body does; the driver's matching exchange loop
// services the body's collectives in the meantime.
func (s *RankService) Run(ctx context.Context, req RunRequest, _ *struct{}) error {
	body, ok := lookupJob(req.Job)
	if !ok {
		return errors.E(errors.NotExist, "cluster: job not registered: "+req.Job)
	}
	log.Printf("cluster: rank %d/%d running job %s", req.Rank, req.World, req.Job)
	return body(ctx, &machineRank{svc: s, rank: req.Rank, world: req.World})
}

// Offer returns the rank's next collective contribution, blocking
// until the rank posts one.
func (s *RankService) Offer(ctx context.Context, _ struct{}, reply *Contribution) error {
	select {
	case p := <-s.offers:
		reply.Payload = p
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Deliver hands a collective result back to the blocked rank.
func (s *RankService) Deliver(ctx context.Context, d Delivery, _ *struct{}) error {
	select {
	case s.delivers <- d.Payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// A machineRank is a worker rank's transport handle. Collectives
// post their payload for the driver to collect and block on the
// driver's delivery.
type machineRank struct {
	svc   *RankService
	rank  int
	world int
}

// Rank implements Transport.
func (m *machineRank) Rank() int { return m.rank }

// Size implements Transport.
func (m *machineRank) Size() int { return m.world }

func (m *machineRank) exchange(ctx context.Context, o op, value interface{}) (interface{}, error) {
	p, err := encodeEnvelope(envelope{Op: o, Value: value})
	if err != nil {
		return nil, err
	}
	select {
	case m.svc.offers <- p:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case p = <-m.svc.delivers:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	e, err := decodeEnvelope(p)
	if err != nil {
		return nil, err
	}
	if e.Err != "" {
		return nil, errors.E(errors.Net, "cluster: "+e.Err)
	}
	return e.Value, nil
}

// Broadcast implements Transport.
func (m *machineRank) Broadcast(ctx context.Context, root int, value interface{}) (interface{}, error) {
	return m.exchange(ctx, op{Kind: opBroadcast, Root: root}, value)
}

// Allreduce implements Transport.
func (m *machineRank) Allreduce(ctx context.Context, value interface{}, reduce Reducer) (interface{}, error) {
	// The fold happens driver-side. Every rank runs the same
	// program, so the driver's copy of the reducer is the same
	// pure function passed here.
	return m.exchange(ctx, op{Kind: opAllreduce}, value)
}

// Allgather implements Transport.
func (m *machineRank) Allgather(ctx context.Context, value interface{}) ([]interface{}, error) {
	v, err := m.exchange(ctx, op{Kind: opAllgather}, value)
	if err != nil {
		return nil, err
	}
	all, ok := v.([]interface{})
	if !ok {
		return nil, errors.E(errors.Net, "cluster: malformed allgather result")
	}
	return all, nil
}

// Barrier implements Transport.
func (m *machineRank) Barrier(ctx context.Context) error {
	_, err := m.exchange(ctx, op{Kind: opBarrier}, nil)
	return err
}

// A driverRank is rank 0's transport handle: it collects every
// machine rank's contribution, computes the collective, and
// delivers the results.
type driverRank struct {
	machines []*bigmachine.Machine
	world    int
}

// Rank implements Transport.
func (d *driverRank) Rank() int { return 0 }

// Size implements Transport.
func (d *driverRank) Size() int { return d.world }

func (d *driverRank) exchange(ctx context.Context, o op, value interface{}, reduce Reducer) (interface{}, error) {
	all := make([]envelope, d.world)
	all[0] = envelope{Op: o, Value: value}
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range d.machines {
		i, m := i, m
		g.Go(func() error {
			var c Contribution
			if err := m.RetryCall(gctx, "Rank.Offer", struct{}{}, &c); err != nil {
				return errors.E(errors.Net, fmt.Sprintf("cluster: offer from rank %d", i+1), err)
			}
			e, err := decodeEnvelope(c.Payload)
			if err != nil {
				return err
			}
			all[i+1] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		d.deliverAll(ctx, envelope{Op: o, Err: err.Error()})
		return nil, err
	}
	for rank, e := range all {
		if e.Op != o {
			err := errMismatch(e.Op, o)
			log.Error.Printf("cluster: rank %d diverged: %v", rank, err)
			d.deliverAll(ctx, envelope{Op: o, Err: err.Error()})
			return nil, err
		}
	}
	values := make([]interface{}, d.world)
	for i, e := range all {
		values[i] = e.Value
	}
	var result interface{}
	switch o.Kind {
	case opBroadcast:
		result = values[o.Root]
	case opAllreduce:
		acc := values[0]
		for _, v := range values[1:] {
			acc = reduce(acc, v)
		}
		result = acc
	case opAllgather:
		result = values
	case opBarrier:
	}
	if err := d.deliverAll(ctx, envelope{Op: o, Value: result}); err != nil {
		return nil, err
	}
	return result, nil
}

func (d *driverRank) deliverAll(ctx context.Context, e envelope) error {
	p, err := encodeEnvelope(e)
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range d.machines {
		i, m := i, m
		g.Go(func() error {
			if err := m.RetryCall(gctx, "Rank.Deliver", Delivery{Payload: p}, nil); err != nil {
				return errors.E(errors.Net, fmt.Sprintf("cluster: deliver to rank %d", i+1), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Broadcast implements Transport.
func (d *driverRank) Broadcast(ctx context.Context, root int, value interface{}) (interface{}, error) {
	return d.exchange(ctx, op{Kind: opBroadcast, Root: root}, value, nil)
}

// Allreduce implements Transport.
func (d *driverRank) Allreduce(ctx context.Context, value interface{}, reduce Reducer) (interface{}, error) {
	return d.exchange(ctx, op{Kind: opAllreduce}, value, reduce)
}

// Allgather implements Transport.
func (d *driverRank) Allgather(ctx context.Context, value interface{}) ([]interface{}, error) {
	v, err := d.exchange(ctx, op{Kind: opAllgather}, value, nil)
	if err != nil {
		return nil, err
	}
	return v.([]interface{}), nil
}

// Barrier implements Transport.
func (d *driverRank) Barrier(ctx context.Context) error {
	_, err := d.exchange(ctx, op{Kind: opBarrier}, nil, nil)
	return err
}

// Bigmachine runs the named registered job across world ranks on
// the given bigmachine system: rank 0 on the driver, one machine
// per remaining rank. It returns the first rank error.
func Bigmachine(ctx context.Context, system bigmachine.System, world int, job string) error {
	body, ok := lookupJob(job)
	if !ok {
		return errors.E(errors.NotExist, "cluster: job not registered: "+job)
	}
	b := bigmachine.Start(system)
	defer b.Shutdown()
	if world <= 1 {
		return body(ctx, Nop{})
	}
	machines, err := b.Start(ctx, world-1, bigmachine.Services{"Rank": &RankService{}})
	if err != nil {
		return errors.E(errors.Net, "cluster: start machines", err)
	}
	for _, m := range machines {
		<-m.Wait(bigmachine.Running)
		if err := m.Err(); err != nil {
			return errors.E(errors.Net, "cluster: machine failed to start", err)
		}
	}
	driver := &driverRank{machines: machines, world: world}
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range machines {
		i, m := i, m
		g.Go(func() error {
			return m.RetryCall(gctx, "Rank.Run", RunRequest{Job: job, Rank: i + 1, World: world}, nil)
		})
	}
	g.Go(func() error {
		return body(gctx, driver)
	})
	return g.Wait()
}
