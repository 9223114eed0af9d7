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

// Package plan defines the bound logical plan model: a flat node array
// addressed by child indices, with expression trees hanging off each
// node's expression slots.
package plan

import (
	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/sql/plan/function"
)

type NodeType int32

const (
	Node_VALUE_SCAN NodeType = iota
	Node_PROJECT
	Node_FILTER
	Node_JOIN
)

func (t NodeType) String() string {
	switch t {
	case Node_VALUE_SCAN:
		return "VALUE_SCAN"
	case Node_PROJECT:
		return "PROJECT"
	case Node_FILTER:
		return "FILTER"
	case Node_JOIN:
		return "JOIN"
	}
	return "UNKNOWN"
}

// Query is a bound plan. Nodes is a flat array; Children holds indices
// into it. Steps lists the root node of each execution step.
type Query struct {
	Steps []int32
	Nodes []*Node
}

type Node struct {
	NodeId      int32
	NodeType    NodeType
	Children    []int32
	ProjectList []*Expr
	FilterList  []*Expr
	OnList      []*Expr
	Limit       *Expr
	Offset      *Expr
	RowsetData  *RowsetData
}

// RowsetData is the literal payload of a VALUE_SCAN: one expression
// list per column, row-aligned.
type RowsetData struct {
	Cols []*ColData
}

type ColData struct {
	Data []*Expr
}

// ObjectRef names a catalog object. Obj carries the encoded overload
// id for function references.
type ObjectRef struct {
	Obj     int64
	ObjName string
}

// Expr is one bound expression node. Typ is the expression's result
// type as the parent observes it; Expr holds the variant payload.
type Expr struct {
	Typ  types.Type
	Expr isExpr_Expr
}

type isExpr_Expr interface {
	isExpr_Expr()
}

type Expr_Lit struct {
	Lit *Literal
}

type Expr_Col struct {
	Col *ColRef
}

type Expr_F struct {
	F *Function
}

type Expr_Cast struct {
	Cast *CastExpr
}

func (*Expr_Lit) isExpr_Expr()  {}
func (*Expr_Col) isExpr_Expr()  {}
func (*Expr_F) isExpr_Expr()    {}
func (*Expr_Cast) isExpr_Expr() {}

func (e *Expr) GetLit() *Literal {
	if e == nil {
		return nil
	}
	if x, ok := e.Expr.(*Expr_Lit); ok {
		return x.Lit
	}
	return nil
}

func (e *Expr) GetCol() *ColRef {
	if e == nil {
		return nil
	}
	if x, ok := e.Expr.(*Expr_Col); ok {
		return x.Col
	}
	return nil
}

func (e *Expr) GetF() *Function {
	if e == nil {
		return nil
	}
	if x, ok := e.Expr.(*Expr_F); ok {
		return x.F
	}
	return nil
}

func (e *Expr) GetCast() *CastExpr {
	if e == nil {
		return nil
	}
	if x, ok := e.Expr.(*Expr_Cast); ok {
		return x.Cast
	}
	return nil
}

// Function is a bound scalar call. Data holds bind-time state produced
// by the overload's bind constructor, nil when the overload has none.
type Function struct {
	Func *ObjectRef
	Args []*Expr
	Data function.FunctionData
}

// CastExpr converts Arg to the enclosing Expr.Typ.
type CastExpr struct {
	Arg  *Expr
	Func *ObjectRef
}

// ColRef addresses a column of an input relation by position.
type ColRef struct {
	RelPos int32
	ColPos int32
	Name   string
}

// Literal is a typed constant. Isnull set means the value payload is
// meaningless and the literal is a typed null.
type Literal struct {
	Isnull bool
	Value  isLiteral_Value
}

type isLiteral_Value interface {
	isLiteral_Value()
}

type Literal_Bval struct {
	Bval bool
}

type Literal_I64Val struct {
	I64Val int64
}

type Literal_U64Val struct {
	U64Val uint64
}

type Literal_Fval struct {
	Fval float32
}

type Literal_Dval struct {
	Dval float64
}

type Literal_Sval struct {
	Sval string
}

func (*Literal_Bval) isLiteral_Value()   {}
func (*Literal_I64Val) isLiteral_Value() {}
func (*Literal_U64Val) isLiteral_Value() {}
func (*Literal_Fval) isLiteral_Value()   {}
func (*Literal_Dval) isLiteral_Value()   {}
func (*Literal_Sval) isLiteral_Value()   {}

func (l *Literal) GetBval() (bool, bool) {
	if x, ok := l.Value.(*Literal_Bval); ok {
		return x.Bval, true
	}
	return false, false
}

func (l *Literal) GetI64Val() (int64, bool) {
	if x, ok := l.Value.(*Literal_I64Val); ok {
		return x.I64Val, true
	}
	return 0, false
}

func (l *Literal) GetU64Val() (uint64, bool) {
	if x, ok := l.Value.(*Literal_U64Val); ok {
		return x.U64Val, true
	}
	return 0, false
}

func (l *Literal) GetFval() (float32, bool) {
	if x, ok := l.Value.(*Literal_Fval); ok {
		return x.Fval, true
	}
	return 0, false
}

func (l *Literal) GetDval() (float64, bool) {
	if x, ok := l.Value.(*Literal_Dval); ok {
		return x.Dval, true
	}
	return 0, false
}

func (l *Literal) GetSval() (string, bool) {
	if x, ok := l.Value.(*Literal_Sval); ok {
		return x.Sval, true
	}
	return "", false
}
