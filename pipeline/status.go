// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"

	"github.com/grailbio/base/status"
)

// WithStatus returns a middleware that reports each wrapped
// module's lifecycle to a task in the given status group.
func WithStatus(group *status.Group) Middleware {
	return func(m Module) Module {
		return &statusModule{Module: m, group: group}
	}
}

type statusModule struct {
	Module
	group *status.Group
}

func (s *statusModule) Run(ctx context.Context, io *IO, in Conduit) (Conduit, error) {
	task := s.group.Start()
	task.Title(s.Name())
	task.Print("running")
	defer task.Done()
	out, err := s.Module.Run(ctx, io, in)
	if err != nil {
		task.Printf("failed: %v", err)
		return nil, err
	}
	task.Print("done")
	return out, nil
}
