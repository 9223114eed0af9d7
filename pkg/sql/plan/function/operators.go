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
	"bytes"
	"math"

	"github.com/cernodb/cerno/pkg/common/cerr"
	"github.com/cernodb/cerno/pkg/container/nulls"
	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/container/vector"
	"github.com/cernodb/cerno/pkg/vm/process"
	"golang.org/x/exp/constraints"
)

// binaryOvl builds a same-shape binary overload from a row kernel.
func binaryOvl[A, B, R types.FixedSizeT](id int, a, b, ret types.T, op func(A, B) (R, error)) overload {
	return overload{
		overloadId: id,
		args:       []types.T{a, b},
		retType:    fixedTypeRet(ret),
		fn: func(vs []*vector.Vector, _ FunctionData, proc *process.Process, length int) (*vector.Vector, error) {
			return opBinaryFixed(vs, proc, length, ret.ToType(), op)
		},
	}
}

func arithOvl[T types.FixedSizeT](id int, t types.T, op func(T, T) (T, error)) overload {
	return binaryOvl[T, T, T](id, t, t, t, op)
}

func compareOvl[T types.FixedSizeT](id int, t types.T, op func(T, T) (bool, error)) overload {
	return binaryOvl[T, T, bool](id, t, t, types.T_bool, op)
}

func compareBytesOvl(id int, op func([]byte, []byte) (bool, error)) overload {
	return overload{
		overloadId: id,
		args:       []types.T{types.T_varchar, types.T_varchar},
		retType:    fixedTypeRet(types.T_bool),
		fn: func(vs []*vector.Vector, _ FunctionData, proc *process.Process, length int) (*vector.Vector, error) {
			return opBinaryBytesFixed(vs, proc, length, types.T_bool.ToType(), op)
		},
	}
}

func addSigned[T constraints.Signed](a, b T) (T, error) {
	r := a + b
	if (a > 0 && b > 0 && r < 0) || (a < 0 && b < 0 && r >= 0) {
		return 0, cerr.NewOutOfRangeNoCtx("integer", "addition overflow")
	}
	return r, nil
}

func addUnsigned[T constraints.Unsigned](a, b T) (T, error) {
	r := a + b
	if r < a {
		return 0, cerr.NewOutOfRangeNoCtx("unsigned integer", "addition overflow")
	}
	return r, nil
}

func addFloat[T constraints.Float](a, b T) (T, error) {
	return a + b, nil
}

func subSigned[T constraints.Signed](a, b T) (T, error) {
	r := a - b
	if (a >= 0 && b < 0 && r < 0) || (a < 0 && b > 0 && r > 0) {
		return 0, cerr.NewOutOfRangeNoCtx("integer", "subtraction overflow")
	}
	return r, nil
}

func subUnsigned[T constraints.Unsigned](a, b T) (T, error) {
	if b > a {
		return 0, cerr.NewOutOfRangeNoCtx("unsigned integer", "subtraction overflow")
	}
	return a - b, nil
}

func subFloat[T constraints.Float](a, b T) (T, error) {
	return a - b, nil
}

func mulSigned[T constraints.Signed](a, b T) (T, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if a == -1 {
		// -b overflows only when b is the minimum value, in which case
		// the product wraps back onto b.
		if r == b {
			return 0, cerr.NewOutOfRangeNoCtx("integer", "multiplication overflow")
		}
		return r, nil
	}
	if r/a != b {
		return 0, cerr.NewOutOfRangeNoCtx("integer", "multiplication overflow")
	}
	return r, nil
}

func mulUnsigned[T constraints.Unsigned](a, b T) (T, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/a != b {
		return 0, cerr.NewOutOfRangeNoCtx("unsigned integer", "multiplication overflow")
	}
	return r, nil
}

func mulFloat[T constraints.Float](a, b T) (T, error) {
	return a * b, nil
}

// divSigned is integer division. The quotient truncates toward zero.
func divSigned[T constraints.Signed](a, b T) (T, error) {
	if b == 0 {
		return 0, cerr.NewDivByZeroNoCtx()
	}
	if b == -1 {
		r := -a
		if a < 0 && r < 0 {
			return 0, cerr.NewOutOfRangeNoCtx("integer", "division overflow")
		}
		return r, nil
	}
	return a / b, nil
}

func divUnsigned[T constraints.Unsigned](a, b T) (T, error) {
	if b == 0 {
		return 0, cerr.NewDivByZeroNoCtx()
	}
	return a / b, nil
}

func divFloat[T constraints.Float](a, b T) (T, error) {
	if b == 0 {
		return 0, cerr.NewDivByZeroNoCtx()
	}
	return a / b, nil
}

func modSigned[T constraints.Signed](a, b T) (T, error) {
	if b == 0 {
		return 0, cerr.NewDivByZeroNoCtx()
	}
	if b == -1 {
		return 0, nil
	}
	return a % b, nil
}

func modUnsigned[T constraints.Unsigned](a, b T) (T, error) {
	if b == 0 {
		return 0, cerr.NewDivByZeroNoCtx()
	}
	return a % b, nil
}

func modFloat[T constraints.Float](a, b T) (T, error) {
	if b == 0 {
		return 0, cerr.NewDivByZeroNoCtx()
	}
	return T(math.Mod(float64(a), float64(b))), nil
}

func ordEq[T constraints.Ordered](a, b T) (bool, error) { return a == b, nil }
func ordNe[T constraints.Ordered](a, b T) (bool, error) { return a != b, nil }
func ordGt[T constraints.Ordered](a, b T) (bool, error) { return a > b, nil }
func ordGe[T constraints.Ordered](a, b T) (bool, error) { return a >= b, nil }
func ordLt[T constraints.Ordered](a, b T) (bool, error) { return a < b, nil }
func ordLe[T constraints.Ordered](a, b T) (bool, error) { return a <= b, nil }
func boolEq(a, b bool) (bool, error)                    { return a == b, nil }
func boolNe(a, b bool) (bool, error)                    { return a != b, nil }
func bytesCmp(want int) func([]byte, []byte) (bool, error) {
	switch want {
	case 0:
		return func(a, b []byte) (bool, error) { return bytes.Equal(a, b), nil }
	case 1:
		return func(a, b []byte) (bool, error) { return bytes.Compare(a, b) > 0, nil }
	default:
		return func(a, b []byte) (bool, error) { return bytes.Compare(a, b) < 0, nil }
	}
}

func arithOverloads(
	si8 func(int8, int8) (int8, error), si16 func(int16, int16) (int16, error),
	si32 func(int32, int32) (int32, error), si64 func(int64, int64) (int64, error),
	u8 func(uint8, uint8) (uint8, error), u16 func(uint16, uint16) (uint16, error),
	u32 func(uint32, uint32) (uint32, error), u64 func(uint64, uint64) (uint64, error),
	f32 func(float32, float32) (float32, error), f64 func(float64, float64) (float64, error),
) []overload {
	return []overload{
		arithOvl(0, types.T_int8, si8),
		arithOvl(1, types.T_int16, si16),
		arithOvl(2, types.T_int32, si32),
		arithOvl(3, types.T_int64, si64),
		arithOvl(4, types.T_uint8, u8),
		arithOvl(5, types.T_uint16, u16),
		arithOvl(6, types.T_uint32, u32),
		arithOvl(7, types.T_uint64, u64),
		arithOvl(8, types.T_float32, f32),
		arithOvl(9, types.T_float64, f64),
	}
}

func compareOverloads(
	si8 func(int8, int8) (bool, error), si16 func(int16, int16) (bool, error),
	si32 func(int32, int32) (bool, error), si64 func(int64, int64) (bool, error),
	u8 func(uint8, uint8) (bool, error), u16 func(uint16, uint16) (bool, error),
	u32 func(uint32, uint32) (bool, error), u64 func(uint64, uint64) (bool, error),
	f32 func(float32, float32) (bool, error), f64 func(float64, float64) (bool, error),
	str func([]byte, []byte) (bool, error), b func(bool, bool) (bool, error),
) []overload {
	ovs := []overload{
		compareOvl(0, types.T_int8, si8),
		compareOvl(1, types.T_int16, si16),
		compareOvl(2, types.T_int32, si32),
		compareOvl(3, types.T_int64, si64),
		compareOvl(4, types.T_uint8, u8),
		compareOvl(5, types.T_uint16, u16),
		compareOvl(6, types.T_uint32, u32),
		compareOvl(7, types.T_uint64, u64),
		compareOvl(8, types.T_float32, f32),
		compareOvl(9, types.T_float64, f64),
		compareBytesOvl(10, str),
	}
	if b != nil {
		ovs = append(ovs, compareOvl(11, types.T_bool, b))
	}
	return ovs
}

// logicArg reads row i of a bool operand as (value, isNull).
type logicArg struct {
	v    *vector.Vector
	col  []bool
	cnil bool
}

func newLogicArg(v *vector.Vector) logicArg {
	if v.IsConstNull() {
		return logicArg{v: v, cnil: true}
	}
	return logicArg{v: v, col: vector.MustFixedCol[bool](v)}
}

func (a logicArg) at(i int) (val bool, isNull bool) {
	if a.cnil {
		return false, true
	}
	if a.v.IsConst() {
		return a.col[0], false
	}
	if nulls.Contains(a.v.GetNulls(), uint64(i)) {
		return false, true
	}
	return a.col[i], false
}

// opLogic evaluates a three-valued binary connective. Unlike the
// generic kernels a null operand does not force a null result: with
// and, a false operand wins; with or, a true one.
func opLogic(
	vs []*vector.Vector, proc *process.Process, length int,
	op func(a, anull, b, bnull bool) (val bool, isNull bool),
) (*vector.Vector, error) {
	x, y := newLogicArg(vs[0]), newLogicArg(vs[1])

	if vs[0].IsConst() && vs[1].IsConst() {
		a, anull := x.at(0)
		b, bnull := y.at(0)
		r, rnull := op(a, anull, b, bnull)
		if rnull {
			return vector.NewConstNull(types.T_bool.ToType(), length, proc.Mp()), nil
		}
		return vector.NewConstFixed(types.T_bool.ToType(), r, length, proc.Mp())
	}

	rs := make([]bool, length)
	rnsp := &nulls.Nulls{}
	for i := 0; i < length; i++ {
		a, anull := x.at(i)
		b, bnull := y.at(i)
		r, rnull := op(a, anull, b, bnull)
		if rnull {
			nulls.Add(rnsp, uint64(i))
			continue
		}
		rs[i] = r
	}
	return buildFixedResult(types.T_bool.ToType(), rs, rnsp, proc)
}

func andLogic(a, anull, b, bnull bool) (bool, bool) {
	if !anull && !a || !bnull && !b {
		return false, false
	}
	if anull || bnull {
		return false, true
	}
	return true, false
}

func orLogic(a, anull, b, bnull bool) (bool, bool) {
	if !anull && a || !bnull && b {
		return true, false
	}
	if anull || bnull {
		return false, true
	}
	return false, false
}

var supportedOperators = []FuncNew{
	{
		functionId: EQUAL,
		name:       "=",
		class:      MONOTONIC,
		layout:     COMPARISON_OPERATOR,
		checkFn:    generalFunctionCheck,
		Overloads: compareOverloads(
			ordEq[int8], ordEq[int16], ordEq[int32], ordEq[int64],
			ordEq[uint8], ordEq[uint16], ordEq[uint32], ordEq[uint64],
			ordEq[float32], ordEq[float64], bytesCmp(0), boolEq),
	},
	{
		functionId: NOT_EQUAL,
		name:       "<>",
		class:      NONE_FLAG,
		layout:     COMPARISON_OPERATOR,
		checkFn:    generalFunctionCheck,
		Overloads: compareOverloads(
			ordNe[int8], ordNe[int16], ordNe[int32], ordNe[int64],
			ordNe[uint8], ordNe[uint16], ordNe[uint32], ordNe[uint64],
			ordNe[float32], ordNe[float64],
			func(a, b []byte) (bool, error) { return !bytes.Equal(a, b), nil }, boolNe),
	},
	{
		functionId: GREAT_THAN,
		name:       ">",
		class:      MONOTONIC,
		layout:     COMPARISON_OPERATOR,
		checkFn:    generalFunctionCheck,
		Overloads: compareOverloads(
			ordGt[int8], ordGt[int16], ordGt[int32], ordGt[int64],
			ordGt[uint8], ordGt[uint16], ordGt[uint32], ordGt[uint64],
			ordGt[float32], ordGt[float64], bytesCmp(1), nil),
	},
	{
		functionId: GREAT_EQUAL,
		name:       ">=",
		class:      MONOTONIC,
		layout:     COMPARISON_OPERATOR,
		checkFn:    generalFunctionCheck,
		Overloads: compareOverloads(
			ordGe[int8], ordGe[int16], ordGe[int32], ordGe[int64],
			ordGe[uint8], ordGe[uint16], ordGe[uint32], ordGe[uint64],
			ordGe[float32], ordGe[float64],
			func(a, b []byte) (bool, error) { return bytes.Compare(a, b) >= 0, nil }, nil),
	},
	{
		functionId: LESS_THAN,
		name:       "<",
		class:      MONOTONIC,
		layout:     COMPARISON_OPERATOR,
		checkFn:    generalFunctionCheck,
		Overloads: compareOverloads(
			ordLt[int8], ordLt[int16], ordLt[int32], ordLt[int64],
			ordLt[uint8], ordLt[uint16], ordLt[uint32], ordLt[uint64],
			ordLt[float32], ordLt[float64], bytesCmp(-1), nil),
	},
	{
		functionId: LESS_EQUAL,
		name:       "<=",
		class:      MONOTONIC,
		layout:     COMPARISON_OPERATOR,
		checkFn:    generalFunctionCheck,
		Overloads: compareOverloads(
			ordLe[int8], ordLe[int16], ordLe[int32], ordLe[int64],
			ordLe[uint8], ordLe[uint16], ordLe[uint32], ordLe[uint64],
			ordLe[float32], ordLe[float64],
			func(a, b []byte) (bool, error) { return bytes.Compare(a, b) <= 0, nil }, nil),
	},
	{
		functionId: PLUS,
		name:       "+",
		class:      MONOTONIC,
		layout:     BINARY_ARITHMETIC_OPERATOR,
		checkFn:    generalFunctionCheck,
		Overloads: arithOverloads(
			addSigned[int8], addSigned[int16], addSigned[int32], addSigned[int64],
			addUnsigned[uint8], addUnsigned[uint16], addUnsigned[uint32], addUnsigned[uint64],
			addFloat[float32], addFloat[float64]),
	},
	{
		functionId: MINUS,
		name:       "-",
		class:      MONOTONIC,
		layout:     BINARY_ARITHMETIC_OPERATOR,
		checkFn:    generalFunctionCheck,
		Overloads: arithOverloads(
			subSigned[int8], subSigned[int16], subSigned[int32], subSigned[int64],
			subUnsigned[uint8], subUnsigned[uint16], subUnsigned[uint32], subUnsigned[uint64],
			subFloat[float32], subFloat[float64]),
	},
	{
		functionId: MULTI,
		name:       "*",
		class:      NONE_FLAG,
		layout:     BINARY_ARITHMETIC_OPERATOR,
		checkFn:    generalFunctionCheck,
		Overloads: arithOverloads(
			mulSigned[int8], mulSigned[int16], mulSigned[int32], mulSigned[int64],
			mulUnsigned[uint8], mulUnsigned[uint16], mulUnsigned[uint32], mulUnsigned[uint64],
			mulFloat[float32], mulFloat[float64]),
	},
	{
		functionId: DIV,
		name:       "/",
		class:      NONE_FLAG,
		layout:     BINARY_ARITHMETIC_OPERATOR,
		checkFn:    generalFunctionCheck,
		Overloads: arithOverloads(
			divSigned[int8], divSigned[int16], divSigned[int32], divSigned[int64],
			divUnsigned[uint8], divUnsigned[uint16], divUnsigned[uint32], divUnsigned[uint64],
			divFloat[float32], divFloat[float64]),
	},
	{
		functionId: MOD,
		name:       "%",
		class:      NONE_FLAG,
		layout:     BINARY_ARITHMETIC_OPERATOR,
		checkFn:    generalFunctionCheck,
		Overloads: arithOverloads(
			modSigned[int8], modSigned[int16], modSigned[int32], modSigned[int64],
			modUnsigned[uint8], modUnsigned[uint16], modUnsigned[uint32], modUnsigned[uint64],
			modFloat[float32], modFloat[float64]),
	},
	{
		functionId: AND,
		name:       "and",
		class:      NONE_FLAG,
		layout:     BINARY_LOGICAL_OPERATOR,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			{
				overloadId: 0,
				args:       []types.T{types.T_bool, types.T_bool},
				retType:    fixedTypeRet(types.T_bool),
				fn: func(vs []*vector.Vector, _ FunctionData, proc *process.Process, length int) (*vector.Vector, error) {
					return opLogic(vs, proc, length, andLogic)
				},
			},
		},
	},
	{
		functionId: OR,
		name:       "or",
		class:      NONE_FLAG,
		layout:     BINARY_LOGICAL_OPERATOR,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			{
				overloadId: 0,
				args:       []types.T{types.T_bool, types.T_bool},
				retType:    fixedTypeRet(types.T_bool),
				fn: func(vs []*vector.Vector, _ FunctionData, proc *process.Process, length int) (*vector.Vector, error) {
					return opLogic(vs, proc, length, orLogic)
				},
			},
		},
	},
	{
		functionId: NOT,
		name:       "not",
		class:      NONE_FLAG,
		layout:     UNARY_LOGICAL_OPERATOR,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			{
				overloadId: 0,
				args:       []types.T{types.T_bool},
				retType:    fixedTypeRet(types.T_bool),
				fn: func(vs []*vector.Vector, _ FunctionData, proc *process.Process, length int) (*vector.Vector, error) {
					return opUnaryFixed(vs, proc, length, types.T_bool.ToType(),
						func(v bool) (bool, error) { return !v, nil })
				},
			},
		},
	},
}
