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
	"fmt"

	"golang.org/x/exp/constraints"
)

// T is the type oid.
type T uint8

const (
	// T_any is the scalar NULL type. It matches any required type
	// during overload resolution.
	T_any T = 0

	T_bool T = 10

	T_int8  T = 20
	T_int16 T = 21
	T_int32 T = 22
	T_int64 T = 23

	T_uint8  T = 30
	T_uint16 T = 31
	T_uint32 T = 32
	T_uint64 T = 33

	T_float32 T = 40
	T_float64 T = 41

	T_varchar T = 60
)

const (
	MaxVarcharLen = 65535
)

// Type describes a concrete column type: oid plus the layout metadata
// a vector of this type carries.
type Type struct {
	Oid   T
	Size  int32
	Width int32
	Scale int32
}

// New constructs a Type with explicit width and scale.
func New(oid T, width, scale int32) Type {
	return Type{
		Oid:   oid,
		Size:  int32(oid.TypeLen()),
		Width: width,
		Scale: scale,
	}
}

func (t T) ToType() Type {
	typ := Type{Oid: t, Size: int32(t.TypeLen())}
	if t == T_varchar {
		typ.Width = MaxVarcharLen
	}
	return typ
}

// TypeLen returns the fixed byte width of the oid, 0 for varlen types.
func (t T) TypeLen() int {
	switch t {
	case T_bool, T_int8, T_uint8:
		return 1
	case T_int16, T_uint16:
		return 2
	case T_int32, T_uint32, T_float32:
		return 4
	case T_int64, T_uint64, T_float64:
		return 8
	case T_varchar, T_any:
		return 0
	}
	panic(fmt.Sprintf("unknown type oid %d", t))
}

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_bool:
		return "BOOL"
	case T_int8:
		return "TINYINT"
	case T_int16:
		return "SMALLINT"
	case T_int32:
		return "INT"
	case T_int64:
		return "BIGINT"
	case T_uint8:
		return "TINYINT UNSIGNED"
	case T_uint16:
		return "SMALLINT UNSIGNED"
	case T_uint32:
		return "INT UNSIGNED"
	case T_uint64:
		return "BIGINT UNSIGNED"
	case T_float32:
		return "FLOAT"
	case T_float64:
		return "DOUBLE"
	case T_varchar:
		return "VARCHAR"
	}
	return fmt.Sprintf("unexpected_type[%d]", t)
}

func (t Type) String() string {
	return t.Oid.String()
}

// Eq compares oid, width and scale. Size is derived and ignored.
func (t Type) Eq(b Type) bool {
	return t.Oid == b.Oid && t.Width == b.Width && t.Scale == b.Scale
}

func (t T) IsSignedInt() bool {
	return t == T_int8 || t == T_int16 || t == T_int32 || t == T_int64
}

func (t T) IsUnsignedInt() bool {
	return t == T_uint8 || t == T_uint16 || t == T_uint32 || t == T_uint64
}

func (t T) IsInteger() bool {
	return t.IsSignedInt() || t.IsUnsignedInt()
}

func (t T) IsFloat() bool {
	return t == T_float32 || t == T_float64
}

func (t T) IsNumber() bool {
	return t.IsInteger() || t.IsFloat()
}

func (t T) IsString() bool {
	return t == T_varchar
}

// FixedSizeT is the constraint over the Go representations of the
// fixed-width oids.
type FixedSizeT interface {
	bool | constraints.Integer | constraints.Float
}
