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

package vector

import (
	"fmt"
	"strings"

	"github.com/cernodb/cerno/pkg/common/cerr"
	"github.com/cernodb/cerno/pkg/common/mpool"
	"github.com/cernodb/cerno/pkg/container/nulls"
	"github.com/cernodb/cerno/pkg/container/types"
)

const (
	// FLAT is a standard vector: one value per row.
	FLAT = iota
	// CONSTANT is a vector with a single value repeated length times.
	CONSTANT
)

// Vector is a columnar value container. Fixed-width types store their
// values in a []T, strings in a [][]byte. A CONSTANT vector holds one
// physical value; a CONSTANT vector with nil col is a typed NULL.
type Vector struct {
	class  int
	typ    types.Type
	nsp    *nulls.Nulls
	col    any
	length int

	// bytes accounted against the owning mpool
	allocated int64
}

func NewVec(typ types.Type) *Vector {
	return &Vector{
		class: FLAT,
		typ:   typ,
		nsp:   &nulls.Nulls{},
	}
}

func NewConstFixed[T types.FixedSizeT](typ types.Type, val T, length int, mp *mpool.MPool) (*Vector, error) {
	vec := &Vector{
		class: CONSTANT,
		typ:   typ,
		nsp:   &nulls.Nulls{},
	}
	if err := appendOne(vec, val, false, mp); err != nil {
		return nil, err
	}
	vec.length = length
	return vec, nil
}

func NewConstBytes(typ types.Type, val []byte, length int, mp *mpool.MPool) (*Vector, error) {
	vec := &Vector{
		class: CONSTANT,
		typ:   typ,
		nsp:   &nulls.Nulls{},
	}
	if err := appendOneBytes(vec, val, false, mp); err != nil {
		return nil, err
	}
	vec.length = length
	return vec, nil
}

func NewConstNull(typ types.Type, length int, _ *mpool.MPool) *Vector {
	return &Vector{
		class:  CONSTANT,
		typ:    typ,
		nsp:    &nulls.Nulls{},
		length: length,
	}
}

func (v *Vector) Length() int {
	return v.length
}

func (v *Vector) SetLength(n int) {
	v.length = n
}

func (v *Vector) GetType() *types.Type {
	return &v.typ
}

func (v *Vector) SetType(typ types.Type) {
	v.typ = typ
}

func (v *Vector) GetNulls() *nulls.Nulls {
	return v.nsp
}

func (v *Vector) SetNulls(nsp *nulls.Nulls) {
	v.nsp = nsp
}

func (v *Vector) IsConst() bool {
	return v.class == CONSTANT
}

func (v *Vector) IsConstNull() bool {
	return v.class == CONSTANT && v.col == nil
}

// MustFixedCol returns the raw column of a fixed-width vector.
// A CONSTANT vector yields a one element slice.
func MustFixedCol[T types.FixedSizeT](v *Vector) []T {
	if v.col == nil {
		return nil
	}
	return v.col.([]T)
}

// MustBytesCol returns the raw column of a varchar vector.
func MustBytesCol(v *Vector) [][]byte {
	if v.col == nil {
		return nil
	}
	return v.col.([][]byte)
}

// GetFixedAt reads row i honoring CONSTANT layout.
func GetFixedAt[T types.FixedSizeT](v *Vector, i int) T {
	if v.IsConst() {
		i = 0
	}
	return v.col.([]T)[i]
}

func (v *Vector) GetBytesAt(i int) []byte {
	if v.IsConst() {
		i = 0
	}
	return v.col.([][]byte)[i]
}

func (v *Vector) GetStringAt(i int) string {
	return string(v.GetBytesAt(i))
}

func AppendFixed[T types.FixedSizeT](vec *Vector, val T, isNull bool, mp *mpool.MPool) error {
	if vec.IsConst() {
		return cerr.NewInvalidStateNoCtx("append to const vector")
	}
	return appendOne(vec, val, isNull, mp)
}

func AppendFixedList[T types.FixedSizeT](vec *Vector, vals []T, isNulls []bool, mp *mpool.MPool) error {
	for i, val := range vals {
		isNull := len(isNulls) > i && isNulls[i]
		if err := AppendFixed(vec, val, isNull, mp); err != nil {
			return err
		}
	}
	return nil
}

func AppendBytes(vec *Vector, val []byte, isNull bool, mp *mpool.MPool) error {
	if vec.IsConst() {
		return cerr.NewInvalidStateNoCtx("append to const vector")
	}
	return appendOneBytes(vec, val, isNull, mp)
}

func AppendBytesList(vec *Vector, vals [][]byte, isNulls []bool, mp *mpool.MPool) error {
	for i, val := range vals {
		isNull := len(isNulls) > i && isNulls[i]
		if err := AppendBytes(vec, val, isNull, mp); err != nil {
			return err
		}
	}
	return nil
}

func AppendStringList(vec *Vector, vals []string, isNulls []bool, mp *mpool.MPool) error {
	for i, val := range vals {
		isNull := len(isNulls) > i && isNulls[i]
		if err := AppendBytes(vec, []byte(val), isNull, mp); err != nil {
			return err
		}
	}
	return nil
}

func appendOne[T types.FixedSizeT](vec *Vector, val T, isNull bool, mp *mpool.MPool) error {
	sz := int64(vec.typ.Oid.TypeLen())
	if sz == 0 {
		sz = 8
	}
	if mp != nil {
		if err := mp.Grow(sz); err != nil {
			return err
		}
	}
	var col []T
	if vec.col == nil {
		col = make([]T, 0, 4)
	} else {
		col = vec.col.([]T)
	}
	if isNull {
		var zero T
		col = append(col, zero)
		vec.nsp.Set(uint64(vec.length))
	} else {
		col = append(col, val)
	}
	vec.col = col
	vec.allocated += sz
	vec.length++
	return nil
}

func appendOneBytes(vec *Vector, val []byte, isNull bool, mp *mpool.MPool) error {
	sz := int64(len(val))
	if mp != nil {
		if err := mp.Grow(sz); err != nil {
			return err
		}
	}
	var col [][]byte
	if vec.col == nil {
		col = make([][]byte, 0, 4)
	} else {
		col = vec.col.([][]byte)
	}
	if isNull {
		col = append(col, nil)
		vec.nsp.Set(uint64(vec.length))
	} else {
		owned := make([]byte, len(val))
		copy(owned, val)
		col = append(col, owned)
	}
	vec.col = col
	vec.allocated += sz
	vec.length++
	return nil
}

// Dup deep copies the vector, accounting the copy to mp.
func (v *Vector) Dup(mp *mpool.MPool) (*Vector, error) {
	if mp != nil {
		if err := mp.Grow(v.allocated); err != nil {
			return nil, err
		}
	}
	w := &Vector{
		class:     v.class,
		typ:       v.typ,
		nsp:       v.nsp.Clone(),
		length:    v.length,
		allocated: v.allocated,
	}
	if w.nsp == nil {
		w.nsp = &nulls.Nulls{}
	}
	switch col := v.col.(type) {
	case nil:
	case [][]byte:
		dst := make([][]byte, len(col))
		for i, bs := range col {
			if bs != nil {
				dst[i] = make([]byte, len(bs))
				copy(dst[i], bs)
			}
		}
		w.col = dst
	case []bool:
		w.col = append([]bool{}, col...)
	case []int8:
		w.col = append([]int8{}, col...)
	case []int16:
		w.col = append([]int16{}, col...)
	case []int32:
		w.col = append([]int32{}, col...)
	case []int64:
		w.col = append([]int64{}, col...)
	case []uint8:
		w.col = append([]uint8{}, col...)
	case []uint16:
		w.col = append([]uint16{}, col...)
	case []uint32:
		w.col = append([]uint32{}, col...)
	case []uint64:
		w.col = append([]uint64{}, col...)
	case []float32:
		w.col = append([]float32{}, col...)
	case []float64:
		w.col = append([]float64{}, col...)
	default:
		return nil, cerr.NewNYINoCtx("dup vector of column type %T", col)
	}
	return w, nil
}

// Shrink keeps only the rows in sels, in sels order. Not legal on a
// CONSTANT vector; callers expand const vectors first.
func (v *Vector) Shrink(sels []int64) {
	if v.IsConst() {
		v.length = len(sels)
		return
	}
	switch col := v.col.(type) {
	case [][]byte:
		v.col = shrinkFixed(col, sels)
	case []bool:
		v.col = shrinkFixed(col, sels)
	case []int8:
		v.col = shrinkFixed(col, sels)
	case []int16:
		v.col = shrinkFixed(col, sels)
	case []int32:
		v.col = shrinkFixed(col, sels)
	case []int64:
		v.col = shrinkFixed(col, sels)
	case []uint8:
		v.col = shrinkFixed(col, sels)
	case []uint16:
		v.col = shrinkFixed(col, sels)
	case []uint32:
		v.col = shrinkFixed(col, sels)
	case []uint64:
		v.col = shrinkFixed(col, sels)
	case []float32:
		v.col = shrinkFixed(col, sels)
	case []float64:
		v.col = shrinkFixed(col, sels)
	}
	v.nsp = nulls.Filter(v.nsp, sels)
	v.length = len(sels)
}

func shrinkFixed[T any](col []T, sels []int64) []T {
	dst := make([]T, len(sels))
	for i, sel := range sels {
		dst[i] = col[sel]
	}
	return dst
}

func (v *Vector) Free(mp *mpool.MPool) {
	if v == nil {
		return
	}
	if mp != nil && v.allocated > 0 {
		mp.Shrink(v.allocated)
	}
	v.allocated = 0
	v.col = nil
	v.nsp = &nulls.Nulls{}
	v.length = 0
}

func (v *Vector) String() string {
	var sb strings.Builder
	sb.WriteString(v.typ.String())
	if v.IsConstNull() {
		sb.WriteString("-const[null]")
		return sb.String()
	}
	if v.IsConst() {
		sb.WriteString("-const")
	}
	sb.WriteString(fmt.Sprintf("%v", v.col))
	if nulls.Any(v.nsp) {
		sb.WriteString("-" + nulls.String(v.nsp))
	}
	return sb.String()
}
