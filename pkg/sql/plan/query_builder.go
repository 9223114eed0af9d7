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

// QueryBuilder assembles a Query programmatically. Nodes are appended
// bottom-up; the last appended node becomes the step root.
type QueryBuilder struct {
	qry *Query
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{qry: &Query{}}
}

// AppendNode assigns the node its id, links the given children, and
// returns the id for use as a later node's child.
func (b *QueryBuilder) AppendNode(node *Node, children ...int32) int32 {
	node.NodeId = int32(len(b.qry.Nodes))
	node.Children = append(node.Children, children...)
	b.qry.Nodes = append(b.qry.Nodes, node)
	return node.NodeId
}

// Build finalizes the query with rootId as its single step.
func (b *QueryBuilder) Build(rootId int32) *Query {
	b.qry.Steps = []int32{rootId}
	return b.qry
}
