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

package mpool

import (
	"fmt"
	"sync/atomic"

	"github.com/cernodb/cerno/pkg/common/cerr"
)

const (
	MB = 1 << 20
	GB = 1 << 30

	// NoFixed means the pool has no capacity limit.
	NoFixed = int64(0)
)

// MPool is a named accounting pool. It does not own the bytes it hands
// out; it tracks how many are outstanding so a runaway query fails with
// an OOM error instead of taking the process down.
type MPool struct {
	name     string
	capacity int64

	currNB  int64
	highNB  int64
	numAlloc int64
	numFree  int64
}

func NewMPool(name string, capacity int64) (*MPool, error) {
	if capacity < 0 {
		return nil, cerr.NewBadConfigNoCtx("mpool capacity %d", capacity)
	}
	return &MPool{
		name:     name,
		capacity: capacity,
	}, nil
}

// MustNewZero returns an unbounded pool. Test and tooling helper.
func MustNewZero() *MPool {
	mp, err := NewMPool("zero-cap", NoFixed)
	if err != nil {
		panic(err)
	}
	return mp
}

func (mp *MPool) Name() string {
	return mp.name
}

func (mp *MPool) Cap() int64 {
	return mp.capacity
}

// CurrNB returns the number of bytes currently accounted to the pool.
func (mp *MPool) CurrNB() int64 {
	return atomic.LoadInt64(&mp.currNB)
}

func (mp *MPool) HighWaterMark() int64 {
	return atomic.LoadInt64(&mp.highNB)
}

// Grow accounts sz bytes to the pool without handing out a buffer.
// Callers that manage their own storage use Grow/Shrink pairs.
func (mp *MPool) Grow(sz int64) error {
	if sz < 0 {
		return cerr.NewInvalidArgNoCtx("mpool grow size", sz)
	}
	curr := atomic.AddInt64(&mp.currNB, sz)
	if mp.capacity != NoFixed && curr > mp.capacity {
		atomic.AddInt64(&mp.currNB, -sz)
		return cerr.NewOOMNoCtx()
	}
	atomic.AddInt64(&mp.numAlloc, 1)
	for {
		high := atomic.LoadInt64(&mp.highNB)
		if curr <= high || atomic.CompareAndSwapInt64(&mp.highNB, high, curr) {
			break
		}
	}
	return nil
}

func (mp *MPool) Shrink(sz int64) {
	if sz <= 0 {
		return
	}
	atomic.AddInt64(&mp.numFree, 1)
	if atomic.AddInt64(&mp.currNB, -sz) < 0 {
		panic(cerr.NewInternalNoCtx("mpool %s: free more bytes than allocated", mp.name))
	}
}

func (mp *MPool) Alloc(sz int) ([]byte, error) {
	if sz < 0 {
		return nil, cerr.NewInvalidArgNoCtx("mpool alloc size", sz)
	}
	if sz == 0 {
		return nil, nil
	}
	if err := mp.Grow(int64(sz)); err != nil {
		return nil, err
	}
	return make([]byte, sz), nil
}

func (mp *MPool) Free(bs []byte) {
	if bs == nil {
		return
	}
	mp.Shrink(int64(cap(bs)))
}

// ReportAllocs renders the pool counters for diagnostics.
func (mp *MPool) ReportAllocs() string {
	return fmt.Sprintf("mpool %s: curr %d, high %d, allocs %d, frees %d",
		mp.name,
		atomic.LoadInt64(&mp.currNB),
		atomic.LoadInt64(&mp.highNB),
		atomic.LoadInt64(&mp.numAlloc),
		atomic.LoadInt64(&mp.numFree))
}
