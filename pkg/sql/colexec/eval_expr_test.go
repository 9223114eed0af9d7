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

package colexec

import (
	"context"
	"testing"

	"github.com/cernodb/cerno/pkg/common/cerr"
	"github.com/cernodb/cerno/pkg/container/batch"
	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/container/vector"
	"github.com/cernodb/cerno/pkg/sql/plan"
	"github.com/cernodb/cerno/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func makeBatch(vecs ...*vector.Vector) *batch.Batch {
	bat := batch.New()
	bat.Vecs = vecs
	bat.SetRowCount(vecs[0].Length())
	return bat
}

func TestEvalLiteral(t *testing.T) {
	proc := testutil.NewProc()
	bat := makeBatch(testutil.NewInt64Vector(proc, []int64{1, 2, 3}))

	v, err := EvalExpr(bat, proc, plan.MakeInt64ConstExpr(7))
	require.NoError(t, err)
	require.True(t, v.IsConst())
	require.Equal(t, 3, v.Length())
	require.Equal(t, int64(7), vector.GetFixedAt[int64](v, 0))

	v, err = EvalExpr(bat, proc, plan.MakeVarcharConstExpr("hi"))
	require.NoError(t, err)
	require.Equal(t, "hi", v.GetStringAt(0))

	v, err = EvalExpr(bat, proc, plan.MakeNullExpr(types.T_int64))
	require.NoError(t, err)
	require.True(t, v.IsConstNull())
}

func TestEvalColRef(t *testing.T) {
	proc := testutil.NewProc()
	col := testutil.NewInt64Vector(proc, []int64{10, 20})
	bat := makeBatch(col)

	v, err := EvalExpr(bat, proc, plan.MakeColExpr(types.T_int64.ToType(), 0, 0, "a"))
	require.NoError(t, err)
	require.Same(t, col, v)

	_, err = EvalExpr(bat, proc, plan.MakeColExpr(types.T_int64.ToType(), 0, 5, "b"))
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrInvalidInput))

	_, err = EvalExpr(bat, proc, plan.MakeColExpr(types.T_int64.ToType(), 0, -1, "c"))
	require.True(t, cerr.IsCernoErrCode(err, cerr.ErrInvalidInput))
}

func TestEvalCall(t *testing.T) {
	proc := testutil.NewProc()
	ctx := context.Background()
	bat := makeBatch(testutil.NewInt64Vector(proc, []int64{1, 2, 3}))

	// col + 10
	call, err := plan.BindFuncExprByName(ctx, proc, "+", []*plan.Expr{
		plan.MakeColExpr(types.T_int64.ToType(), 0, 0, "a"),
		plan.MakeInt64ConstExpr(10),
	})
	require.NoError(t, err)

	v, err := EvalExpr(bat, proc, call)
	require.NoError(t, err)
	require.Equal(t, []int64{11, 12, 13}, vector.MustFixedCol[int64](v))

	// an unknown encoded id is an error.
	bad := &plan.Expr{
		Typ: types.T_int64.ToType(),
		Expr: &plan.Expr_F{F: &plan.Function{
			Func: &plan.ObjectRef{Obj: int64(900) << 32, ObjName: "ghost"},
		}},
	}
	_, err = EvalExpr(bat, proc, bad)
	require.Error(t, err)
}

func TestEvalCast(t *testing.T) {
	proc := testutil.NewProc()
	ctx := context.Background()
	bat := makeBatch(testutil.NewInt64Vector(proc, []int64{3}))

	e, err := plan.AppendCastBeforeExpr(ctx, plan.MakeInt64ConstExpr(3), types.T_float64.ToType())
	require.NoError(t, err)

	v, err := EvalExpr(bat, proc, e)
	require.NoError(t, err)
	require.Equal(t, types.T_float64, v.GetType().Oid)
	require.Equal(t, float64(3), vector.GetFixedAt[float64](v, 0))
}

func TestEvalExpressionOnce(t *testing.T) {
	proc := testutil.NewProc()
	ctx := context.Background()

	call, err := plan.BindFuncExprByName(ctx, proc, "*", []*plan.Expr{
		plan.MakeInt64ConstExpr(3),
		plan.MakeInt64ConstExpr(4),
	})
	require.NoError(t, err)

	v, err := EvalExpressionOnce(proc, call)
	require.NoError(t, err)
	require.True(t, v.IsConst())
	require.Equal(t, 1, v.Length())
	require.Equal(t, int64(12), vector.GetFixedAt[int64](v, 0))
}
