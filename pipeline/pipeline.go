// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package pipeline composes the stages of a bigalign run into a
// typed module chain. Each module declares the conduit type it
// expects from its predecessor and the type it produces; the
// composition is verified once, at construction, before any stage
// has side effects. Middlewares decorate modules like onion layers
// and may short-circuit the wrapped body.
package pipeline

import (
	"context"
	"reflect"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/status"

	"github.com/grailbio/bigalign/cluster"
)

// ErrInvalid is returned when a pipeline's composition or
// configuration does not validate.
var ErrInvalid = errors.E(errors.Invalid, "invalid pipeline")

// A Conduit is the typed value a stage hands to its successor. The
// runner owns conduits: one lives from its producer's return until
// its consumer's stage completes.
type Conduit interface{}

// IO is the ambient service a pipeline run threads through its
// modules: the cluster transport, optional status display, and the
// configuration surface modules consult in their pre-flight checks.
type IO struct {
	Transport cluster.Transport
	Status    *status.Status

	values map[string]string
}

// NewIO returns an IO over the given transport.
func NewIO(t cluster.Transport) *IO {
	return &IO{Transport: t, values: make(map[string]string)}
}

// Set records a configuration value.
func (io *IO) Set(key, value string) { io.values[key] = value }

// Get returns the configuration value for key, or def when unset
// or empty.
func (io *IO) Get(key, def string) string {
	if v, ok := io.values[key]; ok && v != "" {
		return v
	}
	return def
}

// A Module is one pipeline stage.
type Module interface {
	// Name identifies the module in logs and status lines.
	Name() string
	// Check validates the module against the run's configuration
	// before any stage executes.
	Check(io *IO) bool
	// Expects returns the conduit type the module consumes, nil
	// for a source module.
	Expects() reflect.Type
	// Produces returns the conduit type the module returns.
	Produces() reflect.Type
	// Run executes the stage.
	Run(ctx context.Context, io *IO, in Conduit) (Conduit, error)
}

// A Middleware decorates a module. It may run the wrapped body,
// wrap its conduits, or short-circuit it entirely.
type Middleware func(Module) Module

// Wrap applies middlewares to m, the first middleware outermost.
func Wrap(m Module, middlewares ...Middleware) Module {
	for i := len(middlewares) - 1; i >= 0; i-- {
		m = middlewares[i](m)
	}
	return m
}

// A Pipeline is a verified, ordered module chain.
type Pipeline struct {
	modules []Module
}

// New composes the given modules into a pipeline, verifying that
// each module's expected conduit type matches its predecessor's
// produced type. Composition errors are ErrInvalid.
func New(modules ...Module) (*Pipeline, error) {
	if len(modules) == 0 {
		return nil, errors.E("pipeline: no modules", ErrInvalid)
	}
	if expect := modules[0].Expects(); expect != nil {
		return nil, errors.E("pipeline: source module "+modules[0].Name()+" expects "+expect.String(), ErrInvalid)
	}
	for i := 1; i < len(modules); i++ {
		produced, expected := modules[i-1].Produces(), modules[i].Expects()
		if produced != expected {
			return nil, errors.E("pipeline: module "+modules[i].Name()+" cannot follow "+modules[i-1].Name(), ErrInvalid)
		}
	}
	return &Pipeline{modules: modules}, nil
}

// Run pre-flights every module's Check and then executes the
// stages strictly in order, moving each stage's conduit into the
// next. A check failure surfaces as ErrInvalid before any stage
// runs.
func (p *Pipeline) Run(ctx context.Context, io *IO) (Conduit, error) {
	for _, m := range p.modules {
		if !m.Check(io) {
			return nil, errors.E("pipeline: check failed for module "+m.Name(), ErrInvalid)
		}
	}
	var conduit Conduit
	for _, m := range p.modules {
		if expect := m.Expects(); expect != nil && reflect.TypeOf(conduit) != expect {
			// The composition was verified, so a mismatch here
			// means a module returned a conduit it did not
			// declare.
			log.Panicf("pipeline: module %s received %T, expected %s", m.Name(), conduit, expect)
		}
		out, err := m.Run(ctx, io, conduit)
		if err != nil {
			return nil, err
		}
		conduit = out
	}
	return conduit, nil
}
