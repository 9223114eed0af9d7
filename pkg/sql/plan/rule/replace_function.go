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
	"github.com/cernodb/cerno/pkg/sql/plan"
	"github.com/cernodb/cerno/pkg/sql/plan/function"
	"github.com/cernodb/cerno/pkg/vm/process"
)

// ReplaceFunction rewrites every bound call whose name is registered
// to call the replacement instead, preserving each slot's type as its
// parent observes it. The rule works over the snapshot taken at
// construction; build a fresh rule per optimization pass.
type ReplaceFunction struct {
	snapshot map[string]string
}

func NewReplaceFunction(registry *Registry) *ReplaceFunction {
	return &ReplaceFunction{snapshot: registry.Snapshot()}
}

// Rewrite runs one substitution pass over the query. An empty
// registry returns without walking the plan.
func Rewrite(proc *process.Process, qry *plan.Query, registry *Registry) error {
	r := NewReplaceFunction(registry)
	if len(r.snapshot) == 0 {
		return nil
	}
	return ApplyRules(proc, qry, r)
}

func (r *ReplaceFunction) Match(_ *plan.Node) bool {
	return len(r.snapshot) > 0
}

func (r *ReplaceFunction) Apply(node *plan.Node, _ *plan.Query, proc *process.Process) error {
	return exprSlots(node, func(e *plan.Expr) (*plan.Expr, error) {
		return r.rewriteExpr(proc, e)
	})
}

// rewriteExpr rewrites bottom-up: arguments first, then the call
// itself, so a replaced call's arguments are already in their final
// shape when the call's replacement is resolved.
func (r *ReplaceFunction) rewriteExpr(proc *process.Process, expr *plan.Expr) (*plan.Expr, error) {
	switch t := expr.Expr.(type) {
	case *plan.Expr_F:
		var err error
		for i, arg := range t.F.Args {
			if t.F.Args[i], err = r.rewriteExpr(proc, arg); err != nil {
				return nil, err
			}
		}
		return r.replaceCall(proc, expr)

	case *plan.Expr_Cast:
		arg, err := r.rewriteExpr(proc, t.Cast.Arg)
		if err != nil {
			return nil, err
		}
		t.Cast.Arg = arg
		return expr, nil
	}
	return expr, nil
}

// replaceCall substitutes one call if its name is registered and the
// replacement resolves over the call's current argument types. Every
// failed lookup leaves the expression untouched; only catalog
// inconsistencies surface as errors.
func (r *ReplaceFunction) replaceCall(proc *process.Process, expr *plan.Expr) (*plan.Expr, error) {
	fn := expr.GetF()
	replacement, ok := r.snapshot[fn.Func.ObjName]
	if !ok {
		return expr, nil
	}

	argTypes := make([]types.Type, len(fn.Args))
	for i, arg := range fn.Args {
		argTypes[i] = arg.Typ
	}
	fr, state := function.ResolveFunctionByName(replacement, argTypes)
	if state != function.Resolved {
		return expr, nil
	}

	// the parent must keep observing the original type; without a
	// cast path back the substitution is abandoned.
	tOld := expr.Typ
	tNew := fr.GetReturnType()
	if tNew.Oid != tOld.Oid && !function.CanCast(tNew.Oid, tOld.Oid) {
		return expr, nil
	}

	newArgs := make([]*plan.Expr, len(fn.Args))
	copy(newArgs, fn.Args)
	if targets, should := fr.ShouldDoImplicitTypeCast(); should {
		var err error
		for i, arg := range newArgs {
			if arg.Typ.Oid == targets[i].Oid {
				continue
			}
			if newArgs[i], err = plan.AppendCastBeforeExpr(proc.Ctx, arg, targets[i]); err != nil {
				return nil, err
			}
		}
	}

	newCall := &plan.Function{
		Func: &plan.ObjectRef{
			Obj:     fr.GetEncodedOverloadID(),
			ObjName: replacement,
		},
		Args: newArgs,
	}

	// bind state belongs to the replacement; the old node's state is
	// never carried over.
	ov, err := function.GetFunctionById(proc.Ctx, fr.GetEncodedOverloadID())
	if err != nil {
		return nil, err
	}
	if ov.HasBind() {
		if newCall.Data, err = ov.Bind(proc, plan.BoundArgs(newArgs)); err != nil {
			return nil, err
		}
	}

	newExpr := &plan.Expr{
		Typ:  tNew,
		Expr: &plan.Expr_F{F: newCall},
	}
	if tNew.Oid != tOld.Oid {
		if newExpr, err = plan.AppendCastBeforeExpr(proc.Ctx, newExpr, tOld); err != nil {
			return nil, err
		}
	}
	return newExpr, nil
}
