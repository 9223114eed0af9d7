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
	"github.com/cernodb/cerno/pkg/container/types"
)

func MakePlanType(oid types.T) types.Type {
	return oid.ToType()
}

func MakeBoolConstExpr(v bool) *Expr {
	return &Expr{
		Typ: types.T_bool.ToType(),
		Expr: &Expr_Lit{Lit: &Literal{
			Value: &Literal_Bval{Bval: v},
		}},
	}
}

func MakeInt64ConstExpr(v int64) *Expr {
	return &Expr{
		Typ: types.T_int64.ToType(),
		Expr: &Expr_Lit{Lit: &Literal{
			Value: &Literal_I64Val{I64Val: v},
		}},
	}
}

func MakeUint64ConstExpr(v uint64) *Expr {
	return &Expr{
		Typ: types.T_uint64.ToType(),
		Expr: &Expr_Lit{Lit: &Literal{
			Value: &Literal_U64Val{U64Val: v},
		}},
	}
}

func MakeFloat32ConstExpr(v float32) *Expr {
	return &Expr{
		Typ: types.T_float32.ToType(),
		Expr: &Expr_Lit{Lit: &Literal{
			Value: &Literal_Fval{Fval: v},
		}},
	}
}

func MakeFloat64ConstExpr(v float64) *Expr {
	return &Expr{
		Typ: types.T_float64.ToType(),
		Expr: &Expr_Lit{Lit: &Literal{
			Value: &Literal_Dval{Dval: v},
		}},
	}
}

func MakeVarcharConstExpr(v string) *Expr {
	typ := types.T_varchar.ToType()
	typ.Width = int32(len(v))
	return &Expr{
		Typ: typ,
		Expr: &Expr_Lit{Lit: &Literal{
			Value: &Literal_Sval{Sval: v},
		}},
	}
}

// MakeNullExpr builds a typed null literal.
func MakeNullExpr(oid types.T) *Expr {
	return &Expr{
		Typ:  oid.ToType(),
		Expr: &Expr_Lit{Lit: &Literal{Isnull: true}},
	}
}

func MakeColExpr(typ types.Type, relPos, colPos int32, name string) *Expr {
	return &Expr{
		Typ: typ,
		Expr: &Expr_Col{Col: &ColRef{
			RelPos: relPos,
			ColPos: colPos,
			Name:   name,
		}},
	}
}
