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
	"context"
	"math"
	"testing"

	"github.com/cernodb/cerno/pkg/common/cerr"
	"github.com/cernodb/cerno/pkg/container/nulls"
	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/container/vector"
	"github.com/cernodb/cerno/pkg/testutil"
	"github.com/cernodb/cerno/pkg/vm/process"
	"github.com/stretchr/testify/require"
)

// runByName resolves name over the argument types and executes the
// matched overload. Arguments must already have the overload's types.
func runByName(t *testing.T, proc *process.Process, name string, vs []*vector.Vector, length int) (*vector.Vector, error) {
	t.Helper()
	argTypes := make([]types.Type, len(vs))
	for i, v := range vs {
		argTypes[i] = *v.GetType()
	}
	r, err := GetFunctionByName(context.Background(), name, argTypes)
	require.NoError(t, err)
	_, should := r.ShouldDoImplicitTypeCast()
	require.False(t, should)
	ov, err := GetFunctionById(context.Background(), r.GetEncodedOverloadID())
	require.NoError(t, err)
	return ov.Execute(vs, nil, proc, length)
}

func TestArith(t *testing.T) {
	proc := testutil.NewProc()

	res, err := runByName(t, proc, "+", []*vector.Vector{
		testutil.NewInt64Vector(proc, []int64{1, 2, 3}),
		testutil.NewInt64Vector(proc, []int64{10, 20, 30}),
	}, 3)
	require.NoError(t, err)
	require.Equal(t, []int64{11, 22, 33}, vector.MustFixedCol[int64](res))

	// nulls pass through untouched.
	res, err = runByName(t, proc, "*", []*vector.Vector{
		testutil.NewInt64Vector(proc, []int64{1, 2, 3}, 1),
		testutil.NewInt64Vector(proc, []int64{4, 5, 6}),
	}, 3)
	require.NoError(t, err)
	require.True(t, nulls.Contains(res.GetNulls(), 1))
	require.Equal(t, int64(4), vector.GetFixedAt[int64](res, 0))
	require.Equal(t, int64(18), vector.GetFixedAt[int64](res, 2))

	// scalar against column.
	res, err = runByName(t, proc, "-", []*vector.Vector{
		testutil.NewInt64Vector(proc, []int64{10, 20, 30}),
		testutil.NewScalarInt64(proc, 1, 3),
	}, 3)
	require.NoError(t, err)
	require.Equal(t, []int64{9, 19, 29}, vector.MustFixedCol[int64](res))

	// two scalars give a scalar.
	res, err = runByName(t, proc, "+", []*vector.Vector{
		testutil.NewScalarInt64(proc, 2, 5),
		testutil.NewScalarInt64(proc, 3, 5),
	}, 5)
	require.NoError(t, err)
	require.True(t, res.IsConst())
	require.Equal(t, int64(5), vector.GetFixedAt[int64](res, 0))

	// a scalar null poisons the whole result.
	res, err = runByName(t, proc, "+", []*vector.Vector{
		testutil.NewInt64Vector(proc, []int64{1, 2, 3}),
		testutil.NewScalarNull(types.T_int64, 3),
	}, 3)
	require.NoError(t, err)
	require.True(t, res.IsConstNull())
}

func TestArithOverflow(t *testing.T) {
	proc := testutil.NewProc()

	_, err := runByName(t, proc, "+", []*vector.Vector{
		testutil.NewInt64Vector(proc, []int64{math.MaxInt64}),
		testutil.NewInt64Vector(proc, []int64{1}),
	}, 1)
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrOutOfRange))

	_, err = runByName(t, proc, "-", []*vector.Vector{
		testutil.NewInt64Vector(proc, []int64{math.MinInt64}),
		testutil.NewInt64Vector(proc, []int64{1}),
	}, 1)
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrOutOfRange))

	_, err = runByName(t, proc, "*", []*vector.Vector{
		testutil.NewInt64Vector(proc, []int64{math.MinInt64}),
		testutil.NewInt64Vector(proc, []int64{-1}),
	}, 1)
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrOutOfRange))

	_, err = runByName(t, proc, "/", []*vector.Vector{
		testutil.NewInt64Vector(proc, []int64{math.MinInt64}),
		testutil.NewInt64Vector(proc, []int64{-1}),
	}, 1)
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrOutOfRange))
}

func TestDivMod(t *testing.T) {
	proc := testutil.NewProc()

	// integer division truncates toward zero.
	res, err := runByName(t, proc, "/", []*vector.Vector{
		testutil.NewInt64Vector(proc, []int64{7, -7}),
		testutil.NewInt64Vector(proc, []int64{2, 2}),
	}, 2)
	require.NoError(t, err)
	require.Equal(t, []int64{3, -3}, vector.MustFixedCol[int64](res))

	_, err = runByName(t, proc, "/", []*vector.Vector{
		testutil.NewInt64Vector(proc, []int64{1}),
		testutil.NewInt64Vector(proc, []int64{0}),
	}, 1)
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrDivByZero))

	_, err = runByName(t, proc, "/", []*vector.Vector{
		testutil.NewFloat64Vector(proc, []float64{1}),
		testutil.NewFloat64Vector(proc, []float64{0}),
	}, 1)
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrDivByZero))

	res, err = runByName(t, proc, "%", []*vector.Vector{
		testutil.NewInt64Vector(proc, []int64{7, -7}),
		testutil.NewInt64Vector(proc, []int64{3, 3}),
	}, 2)
	require.NoError(t, err)
	require.Equal(t, []int64{1, -1}, vector.MustFixedCol[int64](res))

	_, err = runByName(t, proc, "%", []*vector.Vector{
		testutil.NewInt64Vector(proc, []int64{1}),
		testutil.NewInt64Vector(proc, []int64{0}),
	}, 1)
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrDivByZero))
}

func TestCompare(t *testing.T) {
	proc := testutil.NewProc()

	res, err := runByName(t, proc, "<", []*vector.Vector{
		testutil.NewInt64Vector(proc, []int64{1, 5, 3}),
		testutil.NewInt64Vector(proc, []int64{2, 2, 3}),
	}, 3)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, false}, vector.MustFixedCol[bool](res))

	res, err = runByName(t, proc, "=", []*vector.Vector{
		testutil.NewVarcharVector(proc, []string{"a", "b"}),
		testutil.NewVarcharVector(proc, []string{"a", "c"}),
	}, 2)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false}, vector.MustFixedCol[bool](res))

	res, err = runByName(t, proc, ">=", []*vector.Vector{
		testutil.NewVarcharVector(proc, []string{"b", "a"}),
		testutil.NewVarcharVector(proc, []string{"a", "b"}),
	}, 2)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false}, vector.MustFixedCol[bool](res))
}

func TestLogicKleene(t *testing.T) {
	proc := testutil.NewProc()

	// false and null is false; true and null is null.
	res, err := runByName(t, proc, "and", []*vector.Vector{
		testutil.NewBoolVector(proc, []bool{false, true}),
		testutil.NewScalarNull(types.T_bool, 2),
	}, 2)
	require.NoError(t, err)
	require.False(t, vector.GetFixedAt[bool](res, 0))
	require.False(t, nulls.Contains(res.GetNulls(), 0))
	require.True(t, nulls.Contains(res.GetNulls(), 1))

	// true or null is true; false or null is null.
	res, err = runByName(t, proc, "or", []*vector.Vector{
		testutil.NewBoolVector(proc, []bool{true, false}),
		testutil.NewScalarNull(types.T_bool, 2),
	}, 2)
	require.NoError(t, err)
	require.True(t, vector.GetFixedAt[bool](res, 0))
	require.False(t, nulls.Contains(res.GetNulls(), 0))
	require.True(t, nulls.Contains(res.GetNulls(), 1))

	res, err = runByName(t, proc, "not", []*vector.Vector{
		testutil.NewBoolVector(proc, []bool{true, false, true}, 2),
	}, 3)
	require.NoError(t, err)
	require.Equal(t, false, vector.GetFixedAt[bool](res, 0))
	require.Equal(t, true, vector.GetFixedAt[bool](res, 1))
	require.True(t, nulls.Contains(res.GetNulls(), 2))
}

func TestBuiltins(t *testing.T) {
	proc := testutil.NewProc()

	res, err := runByName(t, proc, "abs", []*vector.Vector{
		testutil.NewInt64Vector(proc, []int64{-3, 4}),
	}, 2)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 4}, vector.MustFixedCol[int64](res))

	_, err = runByName(t, proc, "abs", []*vector.Vector{
		testutil.NewInt64Vector(proc, []int64{math.MinInt64}),
	}, 1)
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrOutOfRange))

	res, err = runByName(t, proc, "sqrt", []*vector.Vector{
		testutil.NewFloat64Vector(proc, []float64{4, 9}),
	}, 2)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 3}, vector.MustFixedCol[float64](res))

	_, err = runByName(t, proc, "sqrt", []*vector.Vector{
		testutil.NewFloat64Vector(proc, []float64{-1}),
	}, 1)
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrInvalidArg))

	_, err = runByName(t, proc, "ln", []*vector.Vector{
		testutil.NewFloat64Vector(proc, []float64{0}),
	}, 1)
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrInvalidArg))

	res, err = runByName(t, proc, "floor", []*vector.Vector{
		testutil.NewFloat64Vector(proc, []float64{1.7, -1.2}),
	}, 2)
	require.NoError(t, err)
	require.Equal(t, []float64{1, -2}, vector.MustFixedCol[float64](res))

	res, err = runByName(t, proc, "pi", nil, 3)
	require.NoError(t, err)
	require.True(t, res.IsConst())
	require.Equal(t, math.Pi, vector.GetFixedAt[float64](res, 0))

	res, err = runByName(t, proc, "length", []*vector.Vector{
		testutil.NewVarcharVector(proc, []string{"", "hello"}),
	}, 2)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 5}, vector.MustFixedCol[int64](res))

	res, err = runByName(t, proc, "concat", []*vector.Vector{
		testutil.NewVarcharVector(proc, []string{"foo", "a"}),
		testutil.NewVarcharVector(proc, []string{"bar", ""}),
	}, 2)
	require.NoError(t, err)
	require.Equal(t, "foobar", res.GetStringAt(0))
	require.Equal(t, "a", res.GetStringAt(1))
}

func TestRandSeeded(t *testing.T) {
	proc := testutil.NewProc()

	ov, err := GetFunctionById(context.Background(), EncodeOverloadID(RAND, 1))
	require.NoError(t, err)
	require.True(t, ov.CannotFold())
	require.True(t, ov.HasBind())

	data, err := ov.Bind(proc, []BoundArg{constArg{typ: types.T_int64.ToType(), val: int64(42)}})
	require.NoError(t, err)

	run := func(d FunctionData) []float64 {
		res, err := ov.Execute(nil, d, proc, 4)
		require.NoError(t, err)
		return vector.MustFixedCol[float64](res)
	}
	// the same seed replays the same stream.
	first := run(data)
	second := run(data.Copy())
	require.Equal(t, first, second)

	// a non-constant seed cannot be bound.
	_, err = ov.Bind(proc, []BoundArg{constArg{typ: types.T_int64.ToType()}})
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrInvalidArg))
}

// constArg is a test stand-in for a bound call argument.
type constArg struct {
	typ types.Type
	val any
}

func (c constArg) Type() types.Type { return c.typ }

func (c constArg) ConstValue() (any, bool) {
	if c.val == nil {
		return nil, false
	}
	return c.val, true
}
