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
	"math/rand"

	"github.com/cernodb/cerno/pkg/common/cerr"
	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/container/vector"
	"github.com/cernodb/cerno/pkg/vm/process"
)

func absSigned[T int8 | int16 | int32 | int64](v T) (T, error) {
	if v >= 0 {
		return v, nil
	}
	r := -v
	if r < 0 {
		return 0, cerr.NewOutOfRangeNoCtx("integer", "abs of minimum value")
	}
	return r, nil
}

func builtinSqrt(v float64) (float64, error) {
	if v < 0 {
		return 0, cerr.NewInvalidArgNoCtx("sqrt of negative number", v)
	}
	return math.Sqrt(v), nil
}

func builtinLn(v float64) (float64, error) {
	if v <= 0 {
		return 0, cerr.NewInvalidArgNoCtx("ln of non-positive number", v)
	}
	return math.Log(v), nil
}

func builtinPower(a, b float64) (float64, error) {
	r := math.Pow(a, b)
	if math.IsNaN(r) && !math.IsNaN(a) && !math.IsNaN(b) {
		return 0, cerr.NewInvalidArgNoCtx("power", a)
	}
	return r, nil
}

func unaryF64Ovl(id int, op func(float64) (float64, error)) overload {
	return overload{
		overloadId: id,
		args:       []types.T{types.T_float64},
		retType:    fixedTypeRet(types.T_float64),
		fn: func(vs []*vector.Vector, _ FunctionData, proc *process.Process, length int) (*vector.Vector, error) {
			return opUnaryFixed(vs, proc, length, types.T_float64.ToType(), op)
		},
	}
}

func unaryIdentityOvl[T types.FixedSizeT](id int, t types.T) overload {
	return overload{
		overloadId: id,
		args:       []types.T{t},
		retType:    fixedTypeRet(t),
		fn: func(vs []*vector.Vector, _ FunctionData, proc *process.Process, length int) (*vector.Vector, error) {
			return opUnaryFixed(vs, proc, length, t.ToType(),
				func(v T) (T, error) { return v, nil })
		},
	}
}

// randState is the bind-time state of rand(seed): a private generator
// so the stream is reproducible per call site.
type randState struct {
	seed int64
	rng  *rand.Rand
}

func (s *randState) Copy() FunctionData {
	return &randState{seed: s.seed, rng: rand.New(rand.NewSource(s.seed))}
}

func bindRandSeed(_ *process.Process, args []BoundArg) (FunctionData, error) {
	if len(args) != 1 {
		return nil, cerr.NewInvalidArgNoCtx("rand seed", len(args))
	}
	val, isConst := args[0].ConstValue()
	if !isConst {
		return nil, cerr.NewInvalidArgNoCtx("rand seed", "non-constant")
	}
	seed, ok := val.(int64)
	if !ok {
		return nil, cerr.NewInvalidArgNoCtx("rand seed", val)
	}
	return &randState{seed: seed, rng: rand.New(rand.NewSource(seed))}, nil
}

func execRand(vs []*vector.Vector, data FunctionData, proc *process.Process, length int) (*vector.Vector, error) {
	next := rand.Float64
	if data != nil {
		next = data.(*randState).rng.Float64
	}
	rs := make([]float64, length)
	for i := range rs {
		rs[i] = next()
	}
	res := vector.NewVec(types.T_float64.ToType())
	if err := vector.AppendFixedList(res, rs, nil, proc.Mp()); err != nil {
		return nil, err
	}
	return res, nil
}

// aggRet1 returns the type of the first parameter, for min and max.
func aggRet1(parameters []types.Type) types.Type {
	return parameters[0]
}

var supportedBuiltins = []FuncNew{
	{
		functionId: ABS,
		name:       "abs",
		class:      NONE_FLAG,
		layout:     STANDARD_FUNCTION,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			{
				overloadId: 0,
				args:       []types.T{types.T_int64},
				retType:    fixedTypeRet(types.T_int64),
				fn: func(vs []*vector.Vector, _ FunctionData, proc *process.Process, length int) (*vector.Vector, error) {
					return opUnaryFixed(vs, proc, length, types.T_int64.ToType(), absSigned[int64])
				},
			},
			unaryIdentityOvl[uint64](1, types.T_uint64),
			unaryF64Ovl(2, func(v float64) (float64, error) { return math.Abs(v), nil }),
		},
	},
	{
		functionId: SQRT,
		name:       "sqrt",
		class:      NONE_FLAG,
		layout:     STANDARD_FUNCTION,
		checkFn:    generalFunctionCheck,
		Overloads:  []overload{unaryF64Ovl(0, builtinSqrt)},
	},
	{
		functionId: POWER,
		name:       "power",
		class:      NONE_FLAG,
		layout:     STANDARD_FUNCTION,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			binaryOvl[float64, float64, float64](0,
				types.T_float64, types.T_float64, types.T_float64, builtinPower),
		},
	},
	{
		functionId: FLOOR,
		name:       "floor",
		class:      MONOTONIC,
		layout:     STANDARD_FUNCTION,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			unaryIdentityOvl[int64](0, types.T_int64),
			unaryIdentityOvl[uint64](1, types.T_uint64),
			unaryF64Ovl(2, func(v float64) (float64, error) { return math.Floor(v), nil }),
		},
	},
	{
		functionId: CEIL,
		name:       "ceil",
		class:      MONOTONIC,
		layout:     STANDARD_FUNCTION,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			unaryIdentityOvl[int64](0, types.T_int64),
			unaryIdentityOvl[uint64](1, types.T_uint64),
			unaryF64Ovl(2, func(v float64) (float64, error) { return math.Ceil(v), nil }),
		},
	},
	{
		functionId: LN,
		name:       "ln",
		class:      NONE_FLAG,
		layout:     STANDARD_FUNCTION,
		checkFn:    generalFunctionCheck,
		Overloads:  []overload{unaryF64Ovl(0, builtinLn)},
	},
	{
		functionId: PI,
		name:       "pi",
		class:      NONE_FLAG,
		layout:     NOPARAMETER_FUNCTION,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			{
				overloadId: 0,
				args:       []types.T{},
				retType:    fixedTypeRet(types.T_float64),
				fn: func(vs []*vector.Vector, _ FunctionData, proc *process.Process, length int) (*vector.Vector, error) {
					return vector.NewConstFixed(types.T_float64.ToType(), math.Pi, length, proc.Mp())
				},
			},
		},
	},
	{
		functionId: RAND,
		name:       "rand",
		class:      NONE_FLAG,
		layout:     STANDARD_FUNCTION,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			{
				overloadId: 0,
				args:       []types.T{},
				retType:    fixedTypeRet(types.T_float64),
				volatile:   true,
				fn:         execRand,
			},
			{
				overloadId: 1,
				args:       []types.T{types.T_int64},
				retType:    fixedTypeRet(types.T_float64),
				volatile:   true,
				bind:       bindRandSeed,
				fn:         execRand,
			},
		},
	},
	{
		functionId: LENGTH,
		name:       "length",
		class:      NONE_FLAG,
		layout:     STANDARD_FUNCTION,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			{
				overloadId: 0,
				args:       []types.T{types.T_varchar},
				retType:    fixedTypeRet(types.T_int64),
				fn: func(vs []*vector.Vector, _ FunctionData, proc *process.Process, length int) (*vector.Vector, error) {
					return opUnaryBytesFixed(vs, proc, length, types.T_int64.ToType(),
						func(v []byte) (int64, error) { return int64(len(v)), nil })
				},
			},
		},
	},
	{
		functionId: CONCAT,
		name:       "concat",
		class:      NONE_FLAG,
		layout:     STANDARD_FUNCTION,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			{
				overloadId: 0,
				args:       []types.T{types.T_varchar, types.T_varchar},
				retType: func(parameters []types.Type) types.Type {
					return types.New(types.T_varchar, types.MaxVarcharLen, 0)
				},
				fn: func(vs []*vector.Vector, _ FunctionData, proc *process.Process, length int) (*vector.Vector, error) {
					return opBinaryBytesBytes(vs, proc, length,
						types.New(types.T_varchar, types.MaxVarcharLen, 0),
						func(a, b []byte) ([]byte, error) {
							r := make([]byte, 0, len(a)+len(b))
							r = append(r, a...)
							return append(r, b...), nil
						})
				},
			},
		},
	},
}

// Aggregates carry no scalar executor. They exist in the catalog so
// name lookups can tell "not a function" apart from "not a scalar
// function".
var supportedAggregates = []FuncNew{
	{
		functionId: SUM,
		name:       "sum",
		class:      AGG,
		layout:     STANDARD_FUNCTION,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			{overloadId: 0, args: []types.T{types.T_int64}, retType: fixedTypeRet(types.T_int64)},
			{overloadId: 1, args: []types.T{types.T_uint64}, retType: fixedTypeRet(types.T_uint64)},
			{overloadId: 2, args: []types.T{types.T_float64}, retType: fixedTypeRet(types.T_float64)},
		},
	},
	{
		functionId: COUNT,
		name:       "count",
		class:      AGG,
		layout:     STANDARD_FUNCTION,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			{overloadId: 0, args: []types.T{types.T_any}, retType: fixedTypeRet(types.T_int64)},
		},
	},
	{
		functionId: AVG,
		name:       "avg",
		class:      AGG,
		layout:     STANDARD_FUNCTION,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			{overloadId: 0, args: []types.T{types.T_float64}, retType: fixedTypeRet(types.T_float64)},
		},
	},
	{
		functionId: MIN,
		name:       "min",
		class:      AGG,
		layout:     STANDARD_FUNCTION,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			{overloadId: 0, args: []types.T{types.T_any}, retType: aggRet1},
		},
	},
	{
		functionId: MAX,
		name:       "max",
		class:      AGG,
		layout:     STANDARD_FUNCTION,
		checkFn:    generalFunctionCheck,
		Overloads: []overload{
			{overloadId: 0, args: []types.T{types.T_any}, retType: aggRet1},
		},
	},
}
