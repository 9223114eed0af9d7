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

package nulls

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddContains(t *testing.T) {
	nsp := NewWithSize(0)
	require.False(t, Any(nsp))
	Add(nsp, 1, 3, 5)
	require.True(t, Any(nsp))
	require.True(t, Contains(nsp, 3))
	require.False(t, Contains(nsp, 2))
	require.Equal(t, 3, Length(nsp))

	Del(nsp, 3)
	require.False(t, Contains(nsp, 3))
	require.Equal(t, 2, Length(nsp))

	Reset(nsp)
	require.False(t, Any(nsp))
}

func TestNilSafety(t *testing.T) {
	var nsp *Nulls
	require.False(t, Any(nsp))
	require.False(t, Contains(nsp, 0))
	require.Equal(t, 0, Length(nsp))
	require.Equal(t, "[]", String(nsp))
	require.Nil(t, nsp.Clone())
	require.Equal(t, []uint64{}, nsp.ToArray())
}

func TestOr(t *testing.T) {
	a := Build(0, 1, 2)
	b := Build(0, 2, 3)
	r := &Nulls{}
	Or(a, b, r)
	require.Equal(t, []uint64{1, 2, 3}, r.ToArray())

	r = &Nulls{}
	Or(&Nulls{}, &Nulls{}, r)
	require.Nil(t, r.Np)
}

func TestSet(t *testing.T) {
	a := &Nulls{}
	Set(a, Build(0, 7))
	require.True(t, a.Contains(7))
	a.Set(9)
	require.True(t, a.Contains(9))
}

func TestIterate(t *testing.T) {
	nsp := Build(0, 2, 4, 6)
	var got []uint64
	Iterate(nsp, func(row uint64) bool {
		got = append(got, row)
		return true
	})
	require.Equal(t, []uint64{2, 4, 6}, got)

	got = got[:0]
	Iterate(nsp, func(row uint64) bool {
		got = append(got, row)
		return false
	})
	require.Equal(t, []uint64{2}, got)
}

func TestFilter(t *testing.T) {
	nsp := Build(0, 1, 3)
	Filter(nsp, []int64{3, 0, 1})
	require.Equal(t, []uint64{0, 2}, nsp.ToArray())
}

func TestIsSame(t *testing.T) {
	require.True(t, Build(0, 1, 2).IsSame(Build(0, 1, 2)))
	require.False(t, Build(0, 1).IsSame(Build(0, 2)))
	require.True(t, (&Nulls{}).IsSame(&Nulls{}))
}

func TestClone(t *testing.T) {
	a := Build(0, 5)
	b := a.Clone()
	b.Set(9)
	require.False(t, a.Contains(9))
	require.True(t, b.Contains(5))
}
