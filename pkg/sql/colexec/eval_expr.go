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

// Package colexec evaluates bound expressions over batches.
package colexec

import (
	"github.com/cernodb/cerno/pkg/common/cerr"
	"github.com/cernodb/cerno/pkg/container/batch"
	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/container/vector"
	"github.com/cernodb/cerno/pkg/sql/plan"
	"github.com/cernodb/cerno/pkg/sql/plan/function"
	"github.com/cernodb/cerno/pkg/vm/process"
)

// EvalExpr evaluates expr against bat. Column references borrow the
// batch's vectors; everything else is newly allocated on proc's pool.
func EvalExpr(bat *batch.Batch, proc *process.Process, expr *plan.Expr) (*vector.Vector, error) {
	length := bat.RowCount()
	switch t := expr.Expr.(type) {
	case *plan.Expr_Lit:
		return getConstVec(proc, expr, length)

	case *plan.Expr_Col:
		pos := t.Col.ColPos
		if pos < 0 || int(pos) >= bat.VectorCount() {
			return nil, cerr.NewInvalidInput(proc.Ctx, "column position %d out of range", pos)
		}
		return bat.GetVector(pos), nil

	case *plan.Expr_F:
		args := make([]*vector.Vector, len(t.F.Args))
		for i, argExpr := range t.F.Args {
			v, err := EvalExpr(bat, proc, argExpr)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		ov, err := function.GetFunctionById(proc.Ctx, t.F.Func.Obj)
		if err != nil {
			return nil, err
		}
		return ov.Execute(args, t.F.Data, proc, length)

	case *plan.Expr_Cast:
		v, err := EvalExpr(bat, proc, t.Cast.Arg)
		if err != nil {
			return nil, err
		}
		return function.RunCast(v, expr.Typ, proc, length)
	}
	return nil, cerr.NewInvalidInput(proc.Ctx, "unsupported expression variant %T", expr.Expr)
}

// EvalExpressionOnce evaluates an expression that touches no column
// data, over the shared one-row fold batch.
func EvalExpressionOnce(proc *process.Process, expr *plan.Expr) (*vector.Vector, error) {
	return EvalExpr(batch.EmptyForConstFoldBatch, proc, expr)
}

func getConstVec(proc *process.Process, expr *plan.Expr, length int) (*vector.Vector, error) {
	lit := expr.GetLit()
	if lit.Isnull {
		return vector.NewConstNull(expr.Typ, length, proc.Mp()), nil
	}
	mp := proc.Mp()
	switch expr.Typ.Oid {
	case types.T_bool:
		if v, ok := lit.GetBval(); ok {
			return vector.NewConstFixed(expr.Typ, v, length, mp)
		}
	case types.T_int8:
		if v, ok := lit.GetI64Val(); ok {
			return vector.NewConstFixed(expr.Typ, int8(v), length, mp)
		}
	case types.T_int16:
		if v, ok := lit.GetI64Val(); ok {
			return vector.NewConstFixed(expr.Typ, int16(v), length, mp)
		}
	case types.T_int32:
		if v, ok := lit.GetI64Val(); ok {
			return vector.NewConstFixed(expr.Typ, int32(v), length, mp)
		}
	case types.T_int64:
		if v, ok := lit.GetI64Val(); ok {
			return vector.NewConstFixed(expr.Typ, v, length, mp)
		}
	case types.T_uint8:
		if v, ok := lit.GetU64Val(); ok {
			return vector.NewConstFixed(expr.Typ, uint8(v), length, mp)
		}
	case types.T_uint16:
		if v, ok := lit.GetU64Val(); ok {
			return vector.NewConstFixed(expr.Typ, uint16(v), length, mp)
		}
	case types.T_uint32:
		if v, ok := lit.GetU64Val(); ok {
			return vector.NewConstFixed(expr.Typ, uint32(v), length, mp)
		}
	case types.T_uint64:
		if v, ok := lit.GetU64Val(); ok {
			return vector.NewConstFixed(expr.Typ, v, length, mp)
		}
	case types.T_float32:
		if v, ok := lit.GetFval(); ok {
			return vector.NewConstFixed(expr.Typ, v, length, mp)
		}
	case types.T_float64:
		if v, ok := lit.GetDval(); ok {
			return vector.NewConstFixed(expr.Typ, v, length, mp)
		}
	case types.T_varchar:
		if v, ok := lit.GetSval(); ok {
			return vector.NewConstBytes(expr.Typ, []byte(v), length, mp)
		}
	}
	return nil, cerr.NewInvalidInput(proc.Ctx, "literal payload does not match type %s", expr.Typ.Oid)
}
