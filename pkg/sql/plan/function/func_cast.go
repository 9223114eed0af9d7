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
	"math"
	"strconv"
	"strings"

	"github.com/cernodb/cerno/pkg/common/cerr"
	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/container/vector"
	"github.com/cernodb/cerno/pkg/vm/process"
	"github.com/fagongzi/util/format"
	"golang.org/x/exp/constraints"
)

// castFunction reserves the "cast" name in the catalog. Casts are a
// dedicated expression variant, not a call, so the entry never
// resolves; RunCast is the executor.
var castFunction = FuncNew{
	functionId: CAST,
	name:       "cast",
	class:      NONE_FLAG,
	layout:     CAST_EXPRESSION,
	checkFn: func(overloads []overload, inputs []types.Type) checkResult {
		return newCheckResultWithFailure(failedFunctionParametersWrong)
	},
}

// IsImplicitCastable reports whether from widens to target without an
// explicit cast. Implicit casts are the ones overload resolution may
// insert on its own.
func IsImplicitCastable(from, target types.T) bool {
	_, ok := implicitCastCost(from, target)
	return ok
}

// CanCast reports whether an explicit cast between the two types is
// supported.
func CanCast(from, target types.T) bool {
	if from == target {
		return true
	}
	switch {
	case from.IsNumber() && target.IsNumber():
		return true
	case from.IsString():
		return target.IsNumber() || target == types.T_bool || target.IsString()
	case target.IsString():
		return from.IsNumber() || from == types.T_bool
	}
	return false
}

// RunCast converts src to the target type, row by row. Nulls stay
// null; a value the target cannot represent is an out-of-range error.
func RunCast(src *vector.Vector, toType types.Type, proc *process.Process, length int) (*vector.Vector, error) {
	fromType := *src.GetType()
	if !CanCast(fromType.Oid, toType.Oid) {
		return nil, cerr.NewNotSupportedNoCtx(
			"cast from %s to %s", fromType.String(), toType.String())
	}
	if src.IsConstNull() {
		return vector.NewConstNull(toType, length, proc.Mp()), nil
	}
	// same-width strings still need the length check below.
	if fromType.Oid == toType.Oid && !fromType.Oid.IsString() {
		dup, err := src.Dup(proc.Mp())
		if err != nil {
			return nil, err
		}
		dup.SetType(toType)
		return dup, nil
	}

	vs := []*vector.Vector{src}
	switch fromType.Oid {
	case types.T_bool:
		if toType.Oid.IsString() {
			return opUnaryFixedBytes(vs, proc, length, toType, func(v bool) ([]byte, error) {
				if v {
					return []byte("true"), nil
				}
				return []byte("false"), nil
			})
		}

	case types.T_int8:
		return castFromSigned[int8](vs, proc, length, toType)
	case types.T_int16:
		return castFromSigned[int16](vs, proc, length, toType)
	case types.T_int32:
		return castFromSigned[int32](vs, proc, length, toType)
	case types.T_int64:
		return castFromSigned[int64](vs, proc, length, toType)
	case types.T_uint8:
		return castFromUnsigned[uint8](vs, proc, length, toType)
	case types.T_uint16:
		return castFromUnsigned[uint16](vs, proc, length, toType)
	case types.T_uint32:
		return castFromUnsigned[uint32](vs, proc, length, toType)
	case types.T_uint64:
		return castFromUnsigned[uint64](vs, proc, length, toType)
	case types.T_float32:
		return castFromFloat[float32](vs, proc, length, toType)
	case types.T_float64:
		return castFromFloat[float64](vs, proc, length, toType)

	case types.T_varchar:
		return castFromString(vs, proc, length, toType)
	}
	return nil, cerr.NewNotSupportedNoCtx(
		"cast from %s to %s", fromType.String(), toType.String())
}

func castFromSigned[F constraints.Signed](vs []*vector.Vector, proc *process.Process, length int, toType types.Type) (*vector.Vector, error) {
	switch toType.Oid {
	case types.T_int8:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, int8])
	case types.T_int16:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, int16])
	case types.T_int32:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, int32])
	case types.T_int64:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, int64])
	case types.T_uint8:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, uint8])
	case types.T_uint16:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, uint16])
	case types.T_uint32:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, uint32])
	case types.T_uint64:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, uint64])
	case types.T_float32:
		return opUnaryFixed(vs, proc, length, toType, func(v F) (float32, error) { return float32(v), nil })
	case types.T_float64:
		return opUnaryFixed(vs, proc, length, toType, func(v F) (float64, error) { return float64(v), nil })
	case types.T_varchar:
		return opUnaryFixedBytes(vs, proc, length, toType, func(v F) ([]byte, error) {
			return []byte(format.Int64ToString(int64(v))), nil
		})
	}
	return nil, cerr.NewNotSupportedNoCtx("cast to %s", toType.String())
}

func castFromUnsigned[F constraints.Unsigned](vs []*vector.Vector, proc *process.Process, length int, toType types.Type) (*vector.Vector, error) {
	switch toType.Oid {
	case types.T_int8:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, int8])
	case types.T_int16:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, int16])
	case types.T_int32:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, int32])
	case types.T_int64:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, int64])
	case types.T_uint8:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, uint8])
	case types.T_uint16:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, uint16])
	case types.T_uint32:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, uint32])
	case types.T_uint64:
		return opUnaryFixed(vs, proc, length, toType, intToInt[F, uint64])
	case types.T_float32:
		return opUnaryFixed(vs, proc, length, toType, func(v F) (float32, error) { return float32(v), nil })
	case types.T_float64:
		return opUnaryFixed(vs, proc, length, toType, func(v F) (float64, error) { return float64(v), nil })
	case types.T_varchar:
		return opUnaryFixedBytes(vs, proc, length, toType, func(v F) ([]byte, error) {
			return []byte(format.Uint64ToString(uint64(v))), nil
		})
	}
	return nil, cerr.NewNotSupportedNoCtx("cast to %s", toType.String())
}

func castFromFloat[F constraints.Float](vs []*vector.Vector, proc *process.Process, length int, toType types.Type) (*vector.Vector, error) {
	switch toType.Oid {
	case types.T_int8:
		return opUnaryFixed(vs, proc, length, toType, floatToInt[F, int8](math.MinInt8, math.MaxInt8+1))
	case types.T_int16:
		return opUnaryFixed(vs, proc, length, toType, floatToInt[F, int16](math.MinInt16, math.MaxInt16+1))
	case types.T_int32:
		return opUnaryFixed(vs, proc, length, toType, floatToInt[F, int32](math.MinInt32, math.MaxInt32+1))
	case types.T_int64:
		return opUnaryFixed(vs, proc, length, toType, floatToInt[F, int64](math.MinInt64, math.MaxInt64+1))
	case types.T_uint8:
		return opUnaryFixed(vs, proc, length, toType, floatToInt[F, uint8](0, math.MaxUint8+1))
	case types.T_uint16:
		return opUnaryFixed(vs, proc, length, toType, floatToInt[F, uint16](0, math.MaxUint16+1))
	case types.T_uint32:
		return opUnaryFixed(vs, proc, length, toType, floatToInt[F, uint32](0, math.MaxUint32+1))
	case types.T_uint64:
		return opUnaryFixed(vs, proc, length, toType, floatToInt[F, uint64](0, math.MaxUint64+1))
	case types.T_float32:
		return opUnaryFixed(vs, proc, length, toType, func(v F) (float32, error) {
			r := float32(v)
			if math.IsInf(float64(r), 0) && !math.IsInf(float64(v), 0) {
				return 0, cerr.NewOutOfRangeNoCtx("float32", "value %v", v)
			}
			return r, nil
		})
	case types.T_float64:
		return opUnaryFixed(vs, proc, length, toType, func(v F) (float64, error) { return float64(v), nil })
	case types.T_varchar:
		return opUnaryFixedBytes(vs, proc, length, toType, func(v F) ([]byte, error) {
			return strconv.AppendFloat(nil, float64(v), 'g', -1, 64), nil
		})
	}
	return nil, cerr.NewNotSupportedNoCtx("cast to %s", toType.String())
}

func castFromString(vs []*vector.Vector, proc *process.Process, length int, toType types.Type) (*vector.Vector, error) {
	switch toType.Oid {
	case types.T_bool:
		return opUnaryBytesFixed(vs, proc, length, toType, func(v []byte) (bool, error) {
			switch strings.ToLower(strings.TrimSpace(string(v))) {
			case "true", "1":
				return true, nil
			case "false", "0":
				return false, nil
			}
			return false, cerr.NewInvalidInputNoCtx("'%s' is not a valid bool", string(v))
		})
	case types.T_int8:
		return opUnaryBytesFixed(vs, proc, length, toType, strToSigned[int8](8))
	case types.T_int16:
		return opUnaryBytesFixed(vs, proc, length, toType, strToSigned[int16](16))
	case types.T_int32:
		return opUnaryBytesFixed(vs, proc, length, toType, strToSigned[int32](32))
	case types.T_int64:
		return opUnaryBytesFixed(vs, proc, length, toType, strToSigned[int64](64))
	case types.T_uint8:
		return opUnaryBytesFixed(vs, proc, length, toType, strToUnsigned[uint8](8))
	case types.T_uint16:
		return opUnaryBytesFixed(vs, proc, length, toType, strToUnsigned[uint16](16))
	case types.T_uint32:
		return opUnaryBytesFixed(vs, proc, length, toType, strToUnsigned[uint32](32))
	case types.T_uint64:
		return opUnaryBytesFixed(vs, proc, length, toType, strToUnsigned[uint64](64))
	case types.T_float32:
		return opUnaryBytesFixed(vs, proc, length, toType, strToFloat[float32](32))
	case types.T_float64:
		return opUnaryBytesFixed(vs, proc, length, toType, strToFloat[float64](64))
	case types.T_varchar:
		return opUnaryBytesBytes(vs, proc, length, toType, func(v []byte) ([]byte, error) {
			if toType.Width > 0 && int32(len(v)) > toType.Width {
				return nil, cerr.NewOutOfRangeNoCtx("varchar", "value too long for varchar(%d)", toType.Width)
			}
			return v, nil
		})
	}
	return nil, cerr.NewNotSupportedNoCtx("cast to %s", toType.String())
}

// intToInt converts between integer widths. The round trip plus sign
// comparison catches both truncation and signedness flips.
func intToInt[F, T constraints.Integer](v F) (T, error) {
	r := T(v)
	if F(r) != v || (v < 0) != (r < 0) {
		return 0, cerr.NewOutOfRangeNoCtx("integer", "value %v", v)
	}
	return r, nil
}

// floatToInt truncates toward zero. The upper bound is exclusive: MaxInt64
// and MaxUint64 round up to exact powers of two as float64, so an inclusive
// check would admit values one past the integer range.
func floatToInt[F constraints.Float, T constraints.Integer](lo, hi float64) func(F) (T, error) {
	return func(v F) (T, error) {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) || f < lo || f >= hi {
			return 0, cerr.NewOutOfRangeNoCtx("integer", "value %v", v)
		}
		return T(f), nil
	}
}

func strToSigned[T constraints.Signed](bitSize int) func([]byte) (T, error) {
	return func(v []byte) (T, error) {
		r, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, bitSize)
		if err != nil {
			return 0, cerr.NewInvalidInputNoCtx("'%s' is not a valid integer", string(v))
		}
		return T(r), nil
	}
}

func strToUnsigned[T constraints.Unsigned](bitSize int) func([]byte) (T, error) {
	return func(v []byte) (T, error) {
		r, err := strconv.ParseUint(strings.TrimSpace(string(v)), 10, bitSize)
		if err != nil {
			return 0, cerr.NewInvalidInputNoCtx("'%s' is not a valid unsigned integer", string(v))
		}
		return T(r), nil
	}
}

func strToFloat[T constraints.Float](bitSize int) func([]byte) (T, error) {
	return func(v []byte) (T, error) {
		r, err := strconv.ParseFloat(strings.TrimSpace(string(v)), bitSize)
		if err != nil {
			return 0, cerr.NewInvalidInputNoCtx("'%s' is not a valid float", string(v))
		}
		return T(r), nil
	}
}
