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

func DeepCopyExpr(expr *Expr) *Expr {
	if expr == nil {
		return nil
	}
	newExpr := &Expr{Typ: expr.Typ}
	switch item := expr.Expr.(type) {
	case *Expr_Lit:
		lit := &Literal{Isnull: item.Lit.Isnull}
		switch v := item.Lit.Value.(type) {
		case *Literal_Bval:
			lit.Value = &Literal_Bval{Bval: v.Bval}
		case *Literal_I64Val:
			lit.Value = &Literal_I64Val{I64Val: v.I64Val}
		case *Literal_U64Val:
			lit.Value = &Literal_U64Val{U64Val: v.U64Val}
		case *Literal_Fval:
			lit.Value = &Literal_Fval{Fval: v.Fval}
		case *Literal_Dval:
			lit.Value = &Literal_Dval{Dval: v.Dval}
		case *Literal_Sval:
			lit.Value = &Literal_Sval{Sval: v.Sval}
		}
		newExpr.Expr = &Expr_Lit{Lit: lit}

	case *Expr_Col:
		newExpr.Expr = &Expr_Col{Col: &ColRef{
			RelPos: item.Col.RelPos,
			ColPos: item.Col.ColPos,
			Name:   item.Col.Name,
		}}

	case *Expr_F:
		newFn := &Function{
			Func: deepCopyObjectRef(item.F.Func),
			Args: make([]*Expr, len(item.F.Args)),
		}
		for i, arg := range item.F.Args {
			newFn.Args[i] = DeepCopyExpr(arg)
		}
		if item.F.Data != nil {
			newFn.Data = item.F.Data.Copy()
		}
		newExpr.Expr = &Expr_F{F: newFn}

	case *Expr_Cast:
		newExpr.Expr = &Expr_Cast{Cast: &CastExpr{
			Arg:  DeepCopyExpr(item.Cast.Arg),
			Func: deepCopyObjectRef(item.Cast.Func),
		}}
	}
	return newExpr
}

func deepCopyObjectRef(ref *ObjectRef) *ObjectRef {
	if ref == nil {
		return nil
	}
	return &ObjectRef{Obj: ref.Obj, ObjName: ref.ObjName}
}

func DeepCopyNode(node *Node) *Node {
	newNode := &Node{
		NodeId:   node.NodeId,
		NodeType: node.NodeType,
		Limit:    DeepCopyExpr(node.Limit),
		Offset:   DeepCopyExpr(node.Offset),
	}
	if node.Children != nil {
		newNode.Children = make([]int32, len(node.Children))
		copy(newNode.Children, node.Children)
	}
	if node.ProjectList != nil {
		newNode.ProjectList = make([]*Expr, len(node.ProjectList))
		for i, e := range node.ProjectList {
			newNode.ProjectList[i] = DeepCopyExpr(e)
		}
	}
	if node.FilterList != nil {
		newNode.FilterList = make([]*Expr, len(node.FilterList))
		for i, e := range node.FilterList {
			newNode.FilterList[i] = DeepCopyExpr(e)
		}
	}
	if node.OnList != nil {
		newNode.OnList = make([]*Expr, len(node.OnList))
		for i, e := range node.OnList {
			newNode.OnList[i] = DeepCopyExpr(e)
		}
	}
	if node.RowsetData != nil {
		newNode.RowsetData = &RowsetData{
			Cols: make([]*ColData, len(node.RowsetData.Cols)),
		}
		for i, col := range node.RowsetData.Cols {
			newCol := &ColData{Data: make([]*Expr, len(col.Data))}
			for j, e := range col.Data {
				newCol.Data[j] = DeepCopyExpr(e)
			}
			newNode.RowsetData.Cols[i] = newCol
		}
	}
	return newNode
}

func DeepCopyQuery(qry *Query) *Query {
	newQry := &Query{}
	if qry.Steps != nil {
		newQry.Steps = make([]int32, len(qry.Steps))
		copy(newQry.Steps, qry.Steps)
	}
	if qry.Nodes != nil {
		newQry.Nodes = make([]*Node, len(qry.Nodes))
		for i, node := range qry.Nodes {
			newQry.Nodes[i] = DeepCopyNode(node)
		}
	}
	return newQry
}
