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

package plan

import (
	"context"

	"github.com/cernodb/cerno/pkg/common/cerr"
	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/sql/plan/function"
	"github.com/cernodb/cerno/pkg/vm/process"
)

// BindFuncExprByName resolves name over the argument types, inserts
// the implicit casts the resolution asks for, and returns the bound
// call carrying the overload's return type and bind state.
func BindFuncExprByName(ctx context.Context, proc *process.Process, name string, args []*Expr) (*Expr, error) {
	argTypes := make([]types.Type, len(args))
	for i, a := range args {
		argTypes[i] = a.Typ
	}
	r, err := function.GetFunctionByName(ctx, name, argTypes)
	if err != nil {
		return nil, err
	}

	if targets, should := r.ShouldDoImplicitTypeCast(); should {
		for i, a := range args {
			if a.Typ.Oid == targets[i].Oid {
				continue
			}
			args[i], err = AppendCastBeforeExpr(ctx, a, targets[i])
			if err != nil {
				return nil, err
			}
		}
	}

	fnExpr := &Function{
		Func: &ObjectRef{
			Obj:     r.GetEncodedOverloadID(),
			ObjName: name,
		},
		Args: args,
	}

	ov, err := function.GetFunctionById(ctx, r.GetEncodedOverloadID())
	if err != nil {
		return nil, err
	}
	if ov.HasBind() {
		fnExpr.Data, err = ov.Bind(proc, BoundArgs(args))
		if err != nil {
			return nil, err
		}
	}

	return &Expr{
		Typ:  r.GetReturnType(),
		Expr: &Expr_F{F: fnExpr},
	}, nil
}

// AppendCastBeforeExpr wraps expr in a cast to toType.
func AppendCastBeforeExpr(ctx context.Context, expr *Expr, toType types.Type) (*Expr, error) {
	if !function.CanCast(expr.Typ.Oid, toType.Oid) {
		return nil, cerr.NewNotSupported(ctx, "cast from %s to %s", expr.Typ.Oid, toType.Oid)
	}
	return &Expr{
		Typ: toType,
		Expr: &Expr_Cast{Cast: &CastExpr{
			Arg: expr,
			Func: &ObjectRef{
				Obj:     function.EncodeOverloadID(function.CAST, 0),
				ObjName: "cast",
			},
		}},
	}, nil
}

// BoundArgs adapts bound expressions to the catalog's BoundArg view
// so bind constructors can inspect constant arguments.
func BoundArgs(args []*Expr) []function.BoundArg {
	boundArgs := make([]function.BoundArg, len(args))
	for i, a := range args {
		boundArgs[i] = exprBoundArg{e: a}
	}
	return boundArgs
}

// exprBoundArg adapts a bound expression to the catalog's BoundArg
// view so bind constructors can inspect constant arguments.
type exprBoundArg struct {
	e *Expr
}

func (a exprBoundArg) Type() types.Type {
	return a.e.Typ
}

func (a exprBoundArg) ConstValue() (any, bool) {
	lit := a.e.GetLit()
	if lit == nil || lit.Isnull {
		return nil, false
	}
	switch v := lit.Value.(type) {
	case *Literal_Bval:
		return v.Bval, true
	case *Literal_I64Val:
		return v.I64Val, true
	case *Literal_U64Val:
		return v.U64Val, true
	case *Literal_Fval:
		return v.Fval, true
	case *Literal_Dval:
		return v.Dval, true
	case *Literal_Sval:
		return v.Sval, true
	}
	return nil, false
}
