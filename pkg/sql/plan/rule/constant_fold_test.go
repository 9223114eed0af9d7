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

package rule

import (
	"context"
	"testing"

	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/sql/plan"
	"github.com/cernodb/cerno/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestConstantFold(t *testing.T) {
	registerReplacements(t)
	proc := testutil.NewProc()

	qry := singleProjectQuery(mustBind(t, proc, "*",
		plan.MakeInt64ConstExpr(3), plan.MakeInt64ConstExpr(4)))
	require.NoError(t, ApplyRules(proc, qry, NewConstantFold(false)))

	got := rootProject(qry, 0)
	require.Equal(t, types.T_int64, got.Typ.Oid)
	v, ok := got.GetLit().GetI64Val()
	require.True(t, ok)
	require.Equal(t, int64(12), v)
}

func TestConstantFoldNested(t *testing.T) {
	registerReplacements(t)
	proc := testutil.NewProc()

	// abs((3 - 5) * 2) folds all the way down.
	inner := mustBind(t, proc, "-", plan.MakeInt64ConstExpr(3), plan.MakeInt64ConstExpr(5))
	mid := mustBind(t, proc, "*", inner, plan.MakeInt64ConstExpr(2))
	outer := mustBind(t, proc, "abs", mid)

	qry := singleProjectQuery(outer)
	require.NoError(t, ApplyRules(proc, qry, NewConstantFold(false)))

	v, ok := rootProject(qry, 0).GetLit().GetI64Val()
	require.True(t, ok)
	require.Equal(t, int64(4), v)
}

func TestConstantFoldCast(t *testing.T) {
	registerReplacements(t)
	proc := testutil.NewProc()

	e, err := plan.AppendCastBeforeExpr(context.Background(),
		plan.MakeInt64ConstExpr(7), types.T_float64.ToType())
	require.NoError(t, err)

	qry := singleProjectQuery(e)
	require.NoError(t, ApplyRules(proc, qry, NewConstantFold(false)))

	got := rootProject(qry, 0)
	require.Equal(t, types.T_float64, got.Typ.Oid)
	v, ok := got.GetLit().GetDval()
	require.True(t, ok)
	require.Equal(t, float64(7), v)
}

func TestConstantFoldSkipsVolatile(t *testing.T) {
	registerReplacements(t)
	proc := testutil.NewProc()

	qry := singleProjectQuery(mustBind(t, proc, "rand", plan.MakeInt64ConstExpr(1)))
	require.NoError(t, ApplyRules(proc, qry, NewConstantFold(false)))
	require.NotNil(t, rootProject(qry, 0).GetF())
}

func TestConstantFoldLeavesColumnsAndErrors(t *testing.T) {
	registerReplacements(t)
	proc := testutil.NewProc()

	// a column argument blocks folding.
	qry := singleProjectQuery(mustBind(t, proc, "+",
		plan.MakeColExpr(types.T_int64.ToType(), 0, 0, "a"),
		plan.MakeInt64ConstExpr(1)))
	require.NoError(t, ApplyRules(proc, qry, NewConstantFold(false)))
	require.NotNil(t, rootProject(qry, 0).GetF())

	// fold-time evaluation errors leave the call for run time.
	qry = singleProjectQuery(mustBind(t, proc, "/",
		plan.MakeInt64ConstExpr(1), plan.MakeInt64ConstExpr(0)))
	require.NoError(t, ApplyRules(proc, qry, NewConstantFold(false)))
	require.NotNil(t, rootProject(qry, 0).GetF())
}

func TestFoldAfterSubstitution(t *testing.T) {
	registerReplacements(t)
	proc := testutil.NewProc()

	qry := singleProjectQuery(mustBind(t, proc, "*",
		plan.MakeInt64ConstExpr(3), plan.MakeInt64ConstExpr(4)))

	reg := NewRegistry()
	reg.Register("*", "custom_multiply")
	require.NoError(t, ApplyRules(proc, qry, NewReplaceFunction(reg), NewConstantFold(false)))

	// custom_multiply doubles its left operand, so the folded value
	// reflects the substituted semantics.
	got := rootProject(qry, 0)
	v, ok := got.GetLit().GetI64Val()
	require.True(t, ok)
	require.Equal(t, int64(6), v)
}
