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
	"sync"
	"testing"

	"github.com/cernodb/cerno/pkg/common/cerr"
	"github.com/stretchr/testify/require"
)

func TestMP(t *testing.T) {
	pool, err := NewMPool("test", 1*MB)
	require.NoError(t, err)

	buf, err := pool.Alloc(1024)
	require.NoError(t, err)
	require.Equal(t, 1024, len(buf))
	require.Equal(t, int64(1024), pool.CurrNB())

	pool.Free(buf)
	require.Equal(t, int64(0), pool.CurrNB())
	require.Equal(t, int64(1024), pool.HighWaterMark())
}

func TestMPCapacity(t *testing.T) {
	pool, err := NewMPool("small", 100)
	require.NoError(t, err)

	_, err = pool.Alloc(101)
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrOOM))
	require.Equal(t, int64(0), pool.CurrNB())

	buf, err := pool.Alloc(100)
	require.NoError(t, err)
	_, err = pool.Alloc(1)
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrOOM))
	pool.Free(buf)
}

func TestMPBadConfig(t *testing.T) {
	_, err := NewMPool("neg", -1)
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrBadConfig))
}

func TestMPOverFree(t *testing.T) {
	pool := MustNewZero()
	require.Panics(t, func() {
		pool.Shrink(1)
	})
}

func TestMPConcurrent(t *testing.T) {
	pool := MustNewZero()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				buf, err := pool.Alloc(8)
				if err != nil {
					panic(err)
				}
				pool.Free(buf)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int64(0), pool.CurrNB())
}
