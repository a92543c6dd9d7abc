// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package device models the accelerator attached to a process: a
// fixed memory budget from which the alignment backends allocate
// their scoring tables and scratch rows, and an occupancy bound on
// concurrently resident blocks. One device per process; allocation
// failures surface as OOM errors so the engine can turn them into
// collective failures.
package device

import (
	"flag"
	"fmt"
	"sync"

	"github.com/grailbio/base/data"
	"github.com/grailbio/base/errors"
)

var memoryFlag = flag.Int64("device-memory", 1<<30, "memory budget of the compute device in bytes")

// DefaultBlocks is the default bound on concurrently resident
// blocks, matching the reference kernel's launch geometry.
const DefaultBlocks = 128

// ThreadsPerBlock is the wavefront width of a single block.
const ThreadsPerBlock = 32

// A Memory is an accounting allocator over the device's memory
// budget. It hands out Allocations and fails with an OOM error when
// the budget is exceeded.
type Memory struct {
	mu     sync.Mutex
	budget int64
	used   int64
}

// New returns a Memory with the provided budget in bytes.
func New(budget int64) *Memory {
	return &Memory{budget: budget}
}

var (
	defaultOnce   sync.Once
	defaultMemory *Memory
)

// Default returns the process's device memory, sized by the
// -device-memory flag on first use.
func Default() *Memory {
	defaultOnce.Do(func() {
		defaultMemory = New(*memoryFlag)
	})
	return defaultMemory
}

// Capacity returns the memory's total budget in bytes.
func (m *Memory) Capacity() int64 { return m.budget }

// Used returns the number of bytes currently allocated.
func (m *Memory) Used() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.used
}

// Alloc reserves n bytes of device memory. It returns an OOM error
// when the reservation would exceed the budget.
func (m *Memory) Alloc(n int64) (*Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.used+n > m.budget {
		return nil, errors.E(errors.OOM, fmt.Sprintf("device: out of memory: requested %s, %s of %s in use",
			data.Size(n), data.Size(m.used), data.Size(m.budget)))
	}
	m.used += n
	return &Allocation{mem: m, size: n}, nil
}

// An Allocation is a reservation of device memory. Free returns it
// to the budget; Free is idempotent.
type Allocation struct {
	mem  *Memory
	size int64
	once sync.Once
}

// Size returns the allocation's size in bytes.
func (a *Allocation) Size() int64 { return a.size }

// Free releases the allocation.
func (a *Allocation) Free() {
	a.once.Do(func() {
		a.mem.mu.Lock()
		a.mem.used -= a.size
		a.mem.mu.Unlock()
	})
}
