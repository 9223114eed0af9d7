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

package function

import (
	"github.com/cernodb/cerno/pkg/container/nulls"
	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/container/vector"
	"github.com/cernodb/cerno/pkg/vm/process"
)

// fixedAt reads row i of a fixed-width column, collapsing CONSTANT
// vectors to their single stored element.
func fixedAt[T types.FixedSizeT](v *vector.Vector, col []T, i int) T {
	if v.IsConst() {
		return col[0]
	}
	return col[i]
}

func bytesAt(v *vector.Vector, col [][]byte, i int) []byte {
	if v.IsConst() {
		return col[0]
	}
	return col[i]
}

// opUnaryFixed runs a fixed-width unary kernel over length rows.
// Null rows are skipped; a constant non-null input yields a constant
// result.
func opUnaryFixed[A, R types.FixedSizeT](
	vs []*vector.Vector, proc *process.Process, length int,
	rtyp types.Type, op func(A) (R, error),
) (*vector.Vector, error) {
	v := vs[0]
	if v.IsConstNull() {
		return vector.NewConstNull(rtyp, length, proc.Mp()), nil
	}
	col := vector.MustFixedCol[A](v)
	if v.IsConst() {
		r, err := op(col[0])
		if err != nil {
			return nil, err
		}
		return vector.NewConstFixed(rtyp, r, length, proc.Mp())
	}

	rs := make([]R, length)
	rnsp := v.GetNulls().Clone()
	for i := 0; i < length; i++ {
		if nulls.Contains(rnsp, uint64(i)) {
			continue
		}
		r, err := op(col[i])
		if err != nil {
			return nil, err
		}
		rs[i] = r
	}
	return buildFixedResult(rtyp, rs, rnsp, proc)
}

// opBinaryFixed runs a fixed-width binary kernel over length rows.
func opBinaryFixed[A, B, R types.FixedSizeT](
	vs []*vector.Vector, proc *process.Process, length int,
	rtyp types.Type, op func(A, B) (R, error),
) (*vector.Vector, error) {
	v1, v2 := vs[0], vs[1]
	if v1.IsConstNull() || v2.IsConstNull() {
		return vector.NewConstNull(rtyp, length, proc.Mp()), nil
	}
	c1 := vector.MustFixedCol[A](v1)
	c2 := vector.MustFixedCol[B](v2)
	if v1.IsConst() && v2.IsConst() {
		r, err := op(c1[0], c2[0])
		if err != nil {
			return nil, err
		}
		return vector.NewConstFixed(rtyp, r, length, proc.Mp())
	}

	rs := make([]R, length)
	rnsp := &nulls.Nulls{}
	nulls.Or(v1.GetNulls(), v2.GetNulls(), rnsp)
	for i := 0; i < length; i++ {
		if nulls.Contains(rnsp, uint64(i)) {
			continue
		}
		r, err := op(fixedAt(v1, c1, i), fixedAt(v2, c2, i))
		if err != nil {
			return nil, err
		}
		rs[i] = r
	}
	return buildFixedResult(rtyp, rs, rnsp, proc)
}

// opBinaryBytesFixed is opBinaryFixed for two byte-string inputs and a
// fixed-width result.
func opBinaryBytesFixed[R types.FixedSizeT](
	vs []*vector.Vector, proc *process.Process, length int,
	rtyp types.Type, op func([]byte, []byte) (R, error),
) (*vector.Vector, error) {
	v1, v2 := vs[0], vs[1]
	if v1.IsConstNull() || v2.IsConstNull() {
		return vector.NewConstNull(rtyp, length, proc.Mp()), nil
	}
	c1 := vector.MustBytesCol(v1)
	c2 := vector.MustBytesCol(v2)
	if v1.IsConst() && v2.IsConst() {
		r, err := op(c1[0], c2[0])
		if err != nil {
			return nil, err
		}
		return vector.NewConstFixed(rtyp, r, length, proc.Mp())
	}

	rs := make([]R, length)
	rnsp := &nulls.Nulls{}
	nulls.Or(v1.GetNulls(), v2.GetNulls(), rnsp)
	for i := 0; i < length; i++ {
		if nulls.Contains(rnsp, uint64(i)) {
			continue
		}
		r, err := op(bytesAt(v1, c1, i), bytesAt(v2, c2, i))
		if err != nil {
			return nil, err
		}
		rs[i] = r
	}
	return buildFixedResult(rtyp, rs, rnsp, proc)
}

// opUnaryBytesFixed is opUnaryFixed for a byte-string input.
func opUnaryBytesFixed[R types.FixedSizeT](
	vs []*vector.Vector, proc *process.Process, length int,
	rtyp types.Type, op func([]byte) (R, error),
) (*vector.Vector, error) {
	v := vs[0]
	if v.IsConstNull() {
		return vector.NewConstNull(rtyp, length, proc.Mp()), nil
	}
	col := vector.MustBytesCol(v)
	if v.IsConst() {
		r, err := op(col[0])
		if err != nil {
			return nil, err
		}
		return vector.NewConstFixed(rtyp, r, length, proc.Mp())
	}

	rs := make([]R, length)
	rnsp := v.GetNulls().Clone()
	for i := 0; i < length; i++ {
		if nulls.Contains(rnsp, uint64(i)) {
			continue
		}
		r, err := op(col[i])
		if err != nil {
			return nil, err
		}
		rs[i] = r
	}
	return buildFixedResult(rtyp, rs, rnsp, proc)
}

// opBinaryBytesBytes is the byte-string in, byte-string out shape.
func opBinaryBytesBytes(
	vs []*vector.Vector, proc *process.Process, length int,
	rtyp types.Type, op func([]byte, []byte) ([]byte, error),
) (*vector.Vector, error) {
	v1, v2 := vs[0], vs[1]
	if v1.IsConstNull() || v2.IsConstNull() {
		return vector.NewConstNull(rtyp, length, proc.Mp()), nil
	}
	c1 := vector.MustBytesCol(v1)
	c2 := vector.MustBytesCol(v2)
	if v1.IsConst() && v2.IsConst() {
		r, err := op(c1[0], c2[0])
		if err != nil {
			return nil, err
		}
		return vector.NewConstBytes(rtyp, r, length, proc.Mp())
	}

	rs := make([][]byte, length)
	rnsp := &nulls.Nulls{}
	nulls.Or(v1.GetNulls(), v2.GetNulls(), rnsp)
	for i := 0; i < length; i++ {
		if nulls.Contains(rnsp, uint64(i)) {
			continue
		}
		r, err := op(bytesAt(v1, c1, i), bytesAt(v2, c2, i))
		if err != nil {
			return nil, err
		}
		rs[i] = r
	}
	return buildBytesResult(rtyp, rs, rnsp, proc)
}

// opUnaryFixedBytes is the fixed-width in, byte-string out shape.
func opUnaryFixedBytes[A types.FixedSizeT](
	vs []*vector.Vector, proc *process.Process, length int,
	rtyp types.Type, op func(A) ([]byte, error),
) (*vector.Vector, error) {
	v := vs[0]
	if v.IsConstNull() {
		return vector.NewConstNull(rtyp, length, proc.Mp()), nil
	}
	col := vector.MustFixedCol[A](v)
	if v.IsConst() {
		r, err := op(col[0])
		if err != nil {
			return nil, err
		}
		return vector.NewConstBytes(rtyp, r, length, proc.Mp())
	}

	rs := make([][]byte, length)
	rnsp := v.GetNulls().Clone()
	for i := 0; i < length; i++ {
		if nulls.Contains(rnsp, uint64(i)) {
			continue
		}
		r, err := op(col[i])
		if err != nil {
			return nil, err
		}
		rs[i] = r
	}
	return buildBytesResult(rtyp, rs, rnsp, proc)
}

// opUnaryBytesBytes is the byte-string in, byte-string out shape.
func opUnaryBytesBytes(
	vs []*vector.Vector, proc *process.Process, length int,
	rtyp types.Type, op func([]byte) ([]byte, error),
) (*vector.Vector, error) {
	v := vs[0]
	if v.IsConstNull() {
		return vector.NewConstNull(rtyp, length, proc.Mp()), nil
	}
	col := vector.MustBytesCol(v)
	if v.IsConst() {
		r, err := op(col[0])
		if err != nil {
			return nil, err
		}
		return vector.NewConstBytes(rtyp, r, length, proc.Mp())
	}

	rs := make([][]byte, length)
	rnsp := v.GetNulls().Clone()
	for i := 0; i < length; i++ {
		if nulls.Contains(rnsp, uint64(i)) {
			continue
		}
		r, err := op(col[i])
		if err != nil {
			return nil, err
		}
		rs[i] = r
	}
	return buildBytesResult(rtyp, rs, rnsp, proc)
}

func buildFixedResult[R types.FixedSizeT](
	rtyp types.Type, rs []R, rnsp *nulls.Nulls, proc *process.Process,
) (*vector.Vector, error) {
	res := vector.NewVec(rtyp)
	if err := vector.AppendFixedList(res, rs, nil, proc.Mp()); err != nil {
		return nil, err
	}
	res.SetNulls(rnsp)
	return res, nil
}

func buildBytesResult(
	rtyp types.Type, rs [][]byte, rnsp *nulls.Nulls, proc *process.Process,
) (*vector.Vector, error) {
	res := vector.NewVec(rtyp)
	for i := range rs {
		if rs[i] == nil {
			rs[i] = []byte{}
		}
	}
	if err := vector.AppendBytesList(res, rs, nil, proc.Mp()); err != nil {
		return nil, err
	}
	res.SetNulls(rnsp)
	return res, nil
}
