// Copyright 2022 Cerno Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package process

import (
	"context"
	"time"

	"github.com/cernodb/cerno/pkg/common/mpool"
)

// Process carries the per-query execution context: the cancellation
// context, the memory pool every allocation is accounted to, and the
// query start time volatile functions read.
type Process struct {
	Ctx context.Context

	Id string

	// UnixTime is the query start time in nanoseconds.
	UnixTime int64

	mp *mpool.MPool
}

func New(ctx context.Context, mp *mpool.MPool) *Process {
	return &Process{
		Ctx:      ctx,
		mp:       mp,
		UnixTime: time.Now().UnixNano(),
	}
}

func (proc *Process) Mp() *mpool.MPool {
	return proc.mp
}

// GetMPool is an alias of Mp.
func (proc *Process) GetMPool() *mpool.MPool {
	return proc.mp
}
