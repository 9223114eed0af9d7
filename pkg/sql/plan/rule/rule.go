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

// Package rule holds the optimizer rules and the replacement registry
// driving runtime function substitution.
package rule

import (
	"github.com/cernodb/cerno/pkg/sql/plan"
	"github.com/cernodb/cerno/pkg/vm/process"
)

// Rule rewrites one node's expression slots in place.
type Rule interface {
	Match(*plan.Node) bool
	Apply(*plan.Node, *plan.Query, *process.Process) error
}

// ApplyRules runs the rules over every node of the query, depth first
// from each step root. A node's expression slots are rewritten before
// its children are visited.
func ApplyRules(proc *process.Process, qry *plan.Query, rules ...Rule) error {
	for _, step := range qry.Steps {
		if err := applyToNode(proc, qry, step, rules); err != nil {
			return err
		}
	}
	return nil
}

func applyToNode(proc *process.Process, qry *plan.Query, nodeId int32, rules []Rule) error {
	node := qry.Nodes[nodeId]
	for _, r := range rules {
		if !r.Match(node) {
			continue
		}
		if err := r.Apply(node, qry, proc); err != nil {
			return err
		}
	}
	for _, child := range node.Children {
		if err := applyToNode(proc, qry, child, rules); err != nil {
			return err
		}
	}
	return nil
}

// exprSlots visits every top-level expression slot of a node and
// replaces each with the rewriter's result.
func exprSlots(node *plan.Node, rewrite func(*plan.Expr) (*plan.Expr, error)) error {
	var err error
	if node.Limit != nil {
		if node.Limit, err = rewrite(node.Limit); err != nil {
			return err
		}
	}
	if node.Offset != nil {
		if node.Offset, err = rewrite(node.Offset); err != nil {
			return err
		}
	}
	for i, e := range node.OnList {
		if node.OnList[i], err = rewrite(e); err != nil {
			return err
		}
	}
	for i, e := range node.FilterList {
		if node.FilterList[i], err = rewrite(e); err != nil {
			return err
		}
	}
	for i, e := range node.ProjectList {
		if node.ProjectList[i], err = rewrite(e); err != nil {
			return err
		}
	}
	if node.RowsetData != nil {
		for _, col := range node.RowsetData.Cols {
			for i, e := range col.Data {
				if col.Data[i], err = rewrite(e); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
