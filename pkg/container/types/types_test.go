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

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToType(t *testing.T) {
	typ := T_int64.ToType()
	require.Equal(t, T_int64, typ.Oid)
	require.Equal(t, int32(8), typ.Size)

	typ = T_varchar.ToType()
	require.Equal(t, int32(0), typ.Size)
	require.Equal(t, int32(MaxVarcharLen), typ.Width)
}

func TestTypeLen(t *testing.T) {
	require.Equal(t, 1, T_bool.TypeLen())
	require.Equal(t, 2, T_int16.TypeLen())
	require.Equal(t, 4, T_float32.TypeLen())
	require.Equal(t, 8, T_uint64.TypeLen())
	require.Equal(t, 0, T_varchar.TypeLen())
	require.Equal(t, 0, T_any.TypeLen())
}

func TestPredicates(t *testing.T) {
	require.True(t, T_int8.IsSignedInt())
	require.False(t, T_uint8.IsSignedInt())
	require.True(t, T_uint32.IsUnsignedInt())
	require.True(t, T_int64.IsInteger())
	require.True(t, T_float64.IsFloat())
	require.True(t, T_float32.IsNumber())
	require.False(t, T_varchar.IsNumber())
	require.True(t, T_varchar.IsString())
	require.False(t, T_bool.IsNumber())
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "BIGINT", T_int64.String())
	require.Equal(t, "DOUBLE", T_float64.ToType().String())
	require.Equal(t, "VARCHAR", T_varchar.String())
}

func TestTypeEq(t *testing.T) {
	require.True(t, T_int32.ToType().Eq(T_int32.ToType()))
	require.False(t, T_int32.ToType().Eq(T_int64.ToType()))
	a := New(T_varchar, 20, 0)
	b := New(T_varchar, 30, 0)
	require.False(t, a.Eq(b))
}
