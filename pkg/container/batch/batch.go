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
	"strings"

	"github.com/cernodb/cerno/pkg/common/mpool"
	"github.com/cernodb/cerno/pkg/container/vector"
)

// EmptyForConstFoldBatch is a one row batch with no columns, used when
// evaluating an expression that references no column data.
var EmptyForConstFoldBatch = &Batch{rowCount: 1}

// Batch is a set of equal-length vectors, the unit of data flowing
// through the execution pipeline.
type Batch struct {
	Vecs     []*vector.Vector
	rowCount int
}

func New() *Batch {
	return &Batch{}
}

func NewWithSize(n int) *Batch {
	return &Batch{
		Vecs: make([]*vector.Vector, n),
	}
}

func (bat *Batch) RowCount() int {
	return bat.rowCount
}

func (bat *Batch) SetRowCount(n int) {
	bat.rowCount = n
}

func (bat *Batch) VectorCount() int {
	return len(bat.Vecs)
}

func (bat *Batch) GetVector(pos int32) *vector.Vector {
	return bat.Vecs[pos]
}

func (bat *Batch) SetVector(pos int32, vec *vector.Vector) {
	bat.Vecs[pos] = vec
}

// Shrink keeps only the rows in sels across every vector.
func (bat *Batch) Shrink(sels []int64) {
	for _, vec := range bat.Vecs {
		vec.Shrink(sels)
	}
	bat.rowCount = len(sels)
}

func (bat *Batch) Clean(mp *mpool.MPool) {
	if bat == nil || bat == EmptyForConstFoldBatch {
		return
	}
	for _, vec := range bat.Vecs {
		if vec != nil {
			vec.Free(mp)
		}
	}
	bat.Vecs = nil
	bat.rowCount = 0
}

func (bat *Batch) String() string {
	var sb strings.Builder
	for i, vec := range bat.Vecs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(vec.String())
	}
	return sb.String()
}
