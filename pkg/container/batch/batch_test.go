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

package batch

import (
	"testing"

	"github.com/cernodb/cerno/pkg/common/mpool"
	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/container/vector"
	"github.com/stretchr/testify/require"
)

func TestBatch(t *testing.T) {
	mp := mpool.MustNewZero()
	bat := NewWithSize(2)
	require.Equal(t, 2, bat.VectorCount())

	v0 := vector.NewVec(types.T_int64.ToType())
	require.NoError(t, vector.AppendFixedList(v0, []int64{1, 2, 3}, nil, mp))
	v1 := vector.NewVec(types.T_varchar.ToType())
	require.NoError(t, vector.AppendStringList(v1, []string{"a", "b", "c"}, nil, mp))
	bat.SetVector(0, v0)
	bat.SetVector(1, v1)
	bat.SetRowCount(3)

	require.Same(t, v1, bat.GetVector(1))
	require.Equal(t, 3, bat.RowCount())

	bat.Shrink([]int64{0, 2})
	require.Equal(t, 2, bat.RowCount())
	require.Equal(t, []int64{1, 3}, vector.MustFixedCol[int64](bat.GetVector(0)))
	require.Equal(t, "c", bat.GetVector(1).GetStringAt(1))

	bat.Clean(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestEmptyForConstFoldBatch(t *testing.T) {
	require.Equal(t, 1, EmptyForConstFoldBatch.RowCount())
	require.Equal(t, 0, EmptyForConstFoldBatch.VectorCount())
	// cleaning the shared fold batch is a no-op
	EmptyForConstFoldBatch.Clean(mpool.MustNewZero())
	require.Equal(t, 1, EmptyForConstFoldBatch.RowCount())
}
