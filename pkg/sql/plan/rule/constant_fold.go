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
	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/container/vector"
	"github.com/cernodb/cerno/pkg/sql/colexec"
	"github.com/cernodb/cerno/pkg/sql/plan"
	"github.com/cernodb/cerno/pkg/sql/plan/function"
	"github.com/cernodb/cerno/pkg/vm/process"
)

// ConstantFold evaluates foldable expressions over constant arguments
// once and rewrites the slot to a literal of the same type.
type ConstantFold struct {
	isPrepared bool
}

func NewConstantFold(isPrepared bool) *ConstantFold {
	return &ConstantFold{isPrepared: isPrepared}
}

func (f *ConstantFold) Match(_ *plan.Node) bool {
	return true
}

func (f *ConstantFold) Apply(node *plan.Node, _ *plan.Query, proc *process.Process) error {
	return exprSlots(node, func(e *plan.Expr) (*plan.Expr, error) {
		return f.constantFold(e, proc), nil
	})
}

func (f *ConstantFold) constantFold(expr *plan.Expr, proc *process.Process) *plan.Expr {
	switch t := expr.Expr.(type) {
	case *plan.Expr_F:
		ov, exists := function.GetFunctionByIdWithoutError(t.F.Func.Obj)
		if !exists {
			return expr
		}
		if ov.CannotFold() || (f.isPrepared && ov.IsRealTimeRelated()) {
			return expr
		}
		for i, arg := range t.F.Args {
			t.F.Args[i] = f.constantFold(arg, proc)
		}
		if !f.isAllConstant(t.F.Args) {
			return expr
		}

	case *plan.Expr_Cast:
		t.Cast.Arg = f.constantFold(t.Cast.Arg, proc)
		if t.Cast.Arg.GetLit() == nil {
			return expr
		}

	default:
		return expr
	}

	// fold errors are deferred to run time; the slot stays as it is.
	vec, err := colexec.EvalExpressionOnce(proc, expr)
	if err != nil {
		return expr
	}
	defer vec.Free(proc.Mp())
	lit := GetConstantValue(vec, 0)
	if lit == nil {
		return expr
	}
	return &plan.Expr{
		Typ:  expr.Typ,
		Expr: &plan.Expr_Lit{Lit: lit},
	}
}

func (f *ConstantFold) isAllConstant(args []*plan.Expr) bool {
	for _, arg := range args {
		if arg.GetLit() == nil {
			return false
		}
	}
	return true
}

// GetConstantValue reads one row of a vector back into a literal.
func GetConstantValue(vec *vector.Vector, row int) *plan.Literal {
	if vec.IsConstNull() || vec.GetNulls().Contains(uint64(row)) {
		return &plan.Literal{Isnull: true}
	}
	switch vec.GetType().Oid {
	case types.T_bool:
		return &plan.Literal{Value: &plan.Literal_Bval{Bval: vector.GetFixedAt[bool](vec, row)}}
	case types.T_int8:
		return &plan.Literal{Value: &plan.Literal_I64Val{I64Val: int64(vector.GetFixedAt[int8](vec, row))}}
	case types.T_int16:
		return &plan.Literal{Value: &plan.Literal_I64Val{I64Val: int64(vector.GetFixedAt[int16](vec, row))}}
	case types.T_int32:
		return &plan.Literal{Value: &plan.Literal_I64Val{I64Val: int64(vector.GetFixedAt[int32](vec, row))}}
	case types.T_int64:
		return &plan.Literal{Value: &plan.Literal_I64Val{I64Val: vector.GetFixedAt[int64](vec, row)}}
	case types.T_uint8:
		return &plan.Literal{Value: &plan.Literal_U64Val{U64Val: uint64(vector.GetFixedAt[uint8](vec, row))}}
	case types.T_uint16:
		return &plan.Literal{Value: &plan.Literal_U64Val{U64Val: uint64(vector.GetFixedAt[uint16](vec, row))}}
	case types.T_uint32:
		return &plan.Literal{Value: &plan.Literal_U64Val{U64Val: uint64(vector.GetFixedAt[uint32](vec, row))}}
	case types.T_uint64:
		return &plan.Literal{Value: &plan.Literal_U64Val{U64Val: vector.GetFixedAt[uint64](vec, row)}}
	case types.T_float32:
		return &plan.Literal{Value: &plan.Literal_Fval{Fval: vector.GetFixedAt[float32](vec, row)}}
	case types.T_float64:
		return &plan.Literal{Value: &plan.Literal_Dval{Dval: vector.GetFixedAt[float64](vec, row)}}
	case types.T_varchar:
		return &plan.Literal{Value: &plan.Literal_Sval{Sval: vec.GetStringAt(row)}}
	}
	return nil
}
