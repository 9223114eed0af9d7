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

// Package compile drives the execution of an optimized plan.
package compile

import (
	"sync"

	"github.com/cernodb/cerno/pkg/common/cerr"
	"github.com/cernodb/cerno/pkg/config"
	"github.com/cernodb/cerno/pkg/container/batch"
	"github.com/cernodb/cerno/pkg/container/nulls"
	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/container/vector"
	"github.com/cernodb/cerno/pkg/sql/colexec"
	"github.com/cernodb/cerno/pkg/sql/plan"
	"github.com/cernodb/cerno/pkg/vm/process"
	"github.com/panjf2000/ants/v2"
)

// Compile executes plans for one host session. Independent projection
// columns fan out on the worker pool.
type Compile struct {
	proc    *process.Process
	workers *ants.Pool
}

func NewCompile(proc *process.Process, cfg *config.EngineConfig) (*Compile, error) {
	if cfg == nil {
		cfg = &config.Default().Engine
	}
	pool, err := ants.NewPool(cfg.WorkerPoolSize)
	if err != nil {
		return nil, cerr.NewInternal(proc.Ctx, "create worker pool: %v", err)
	}
	return &Compile{proc: proc, workers: pool}, nil
}

// Release shuts the worker pool down.
func (c *Compile) Release() {
	c.workers.Release()
}

// Run executes the query's root step and returns its batch.
func (c *Compile) Run(qry *plan.Query) (*batch.Batch, error) {
	if len(qry.Steps) == 0 {
		return nil, cerr.NewInvalidInput(c.proc.Ctx, "query has no steps")
	}
	return c.runNode(qry, qry.Steps[0])
}

func (c *Compile) runNode(qry *plan.Query, nodeId int32) (*batch.Batch, error) {
	node := qry.Nodes[nodeId]
	var bat *batch.Batch
	var err error
	switch node.NodeType {
	case plan.Node_VALUE_SCAN:
		bat, err = c.runValueScan(node)
	case plan.Node_FILTER:
		bat, err = c.runFilter(qry, node)
	case plan.Node_PROJECT:
		bat, err = c.runProject(qry, node)
	default:
		return nil, cerr.NewNYI(c.proc.Ctx, "executing %s node", node.NodeType)
	}
	if err != nil {
		return nil, err
	}
	return c.applyLimit(node, bat)
}

// runValueScan materializes the node's rowset. A scan with no rowset
// produces a fresh one-row batch so constant projections above it still
// emit a row. It must not be the shared const-fold batch: filters and
// limits shrink the scan's output in place.
func (c *Compile) runValueScan(node *plan.Node) (*batch.Batch, error) {
	if node.RowsetData == nil || len(node.RowsetData.Cols) == 0 {
		bat := batch.NewWithSize(0)
		bat.SetRowCount(1)
		return bat, nil
	}
	cols := node.RowsetData.Cols
	bat := batch.NewWithSize(len(cols))
	for i, col := range cols {
		vec := vector.NewVec(types.T_any.ToType())
		for j, rowExpr := range col.Data {
			v, err := colexec.EvalExpressionOnce(c.proc, rowExpr)
			if err != nil {
				return nil, err
			}
			if j == 0 {
				vec = vector.NewVec(*v.GetType())
			}
			if err = appendRow(vec, v, c.proc); err != nil {
				return nil, err
			}
		}
		bat.SetVector(int32(i), vec)
	}
	bat.SetRowCount(len(cols[0].Data))
	return bat, nil
}

func (c *Compile) runFilter(qry *plan.Query, node *plan.Node) (*batch.Batch, error) {
	bat, err := c.runNode(qry, node.Children[0])
	if err != nil {
		return nil, err
	}
	for _, cond := range node.FilterList {
		v, err := colexec.EvalExpr(bat, c.proc, cond)
		if err != nil {
			return nil, err
		}
		if v.GetType().Oid != types.T_bool {
			return nil, cerr.NewInvalidInput(c.proc.Ctx, "filter condition is %s, not bool", v.GetType().Oid)
		}
		bat.Shrink(selectedRows(v, bat.RowCount()))
	}
	return bat, nil
}

func selectedRows(v *vector.Vector, rows int) []int64 {
	sels := make([]int64, 0, rows)
	if v.IsConst() {
		if !v.IsConstNull() && vector.GetFixedAt[bool](v, 0) {
			for i := 0; i < rows; i++ {
				sels = append(sels, int64(i))
			}
		}
		return sels
	}
	col := vector.MustFixedCol[bool](v)
	for i := 0; i < rows; i++ {
		if !nulls.Contains(v.GetNulls(), uint64(i)) && col[i] {
			sels = append(sels, int64(i))
		}
	}
	return sels
}

func (c *Compile) runProject(qry *plan.Query, node *plan.Node) (*batch.Batch, error) {
	bat, err := c.runNode(qry, node.Children[0])
	if err != nil {
		return nil, err
	}
	out := batch.NewWithSize(len(node.ProjectList))
	errs := make([]error, len(node.ProjectList))
	var wg sync.WaitGroup
	for i, e := range node.ProjectList {
		i, e := i, e
		wg.Add(1)
		if submitErr := c.workers.Submit(func() {
			defer wg.Done()
			var v *vector.Vector
			if v, errs[i] = colexec.EvalExpr(bat, c.proc, e); errs[i] == nil {
				out.SetVector(int32(i), v)
			}
		}); submitErr != nil {
			wg.Done()
			return nil, cerr.NewInternal(c.proc.Ctx, "submit projection: %v", submitErr)
		}
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	out.SetRowCount(bat.RowCount())
	return out, nil
}

func (c *Compile) applyLimit(node *plan.Node, bat *batch.Batch) (*batch.Batch, error) {
	offset, err := c.evalRowCount(node.Offset, 0)
	if err != nil {
		return nil, err
	}
	limit, err := c.evalRowCount(node.Limit, int64(bat.RowCount()))
	if err != nil {
		return nil, err
	}
	if node.Limit == nil && node.Offset == nil {
		return bat, nil
	}
	start := offset
	if start > int64(bat.RowCount()) {
		start = int64(bat.RowCount())
	}
	end := start + limit
	if end > int64(bat.RowCount()) {
		end = int64(bat.RowCount())
	}
	sels := make([]int64, 0, end-start)
	for i := start; i < end; i++ {
		sels = append(sels, i)
	}
	bat.Shrink(sels)
	return bat, nil
}

func (c *Compile) evalRowCount(e *plan.Expr, dflt int64) (int64, error) {
	if e == nil {
		return dflt, nil
	}
	v, err := colexec.EvalExpressionOnce(c.proc, e)
	if err != nil {
		return 0, err
	}
	if v.GetType().Oid != types.T_int64 || v.IsConstNull() {
		return 0, cerr.NewInvalidInput(c.proc.Ctx, "limit/offset must be a non-null int64")
	}
	n := vector.GetFixedAt[int64](v, 0)
	if n < 0 {
		return 0, cerr.NewInvalidInput(c.proc.Ctx, "limit/offset %d is negative", n)
	}
	return n, nil
}

// appendRow copies row 0 of src onto dst.
func appendRow(dst, src *vector.Vector, proc *process.Process) error {
	mp := proc.Mp()
	if src.IsConstNull() || nulls.Contains(src.GetNulls(), 0) {
		switch dst.GetType().Oid {
		case types.T_bool:
			return vector.AppendFixed(dst, false, true, mp)
		case types.T_int8:
			return vector.AppendFixed(dst, int8(0), true, mp)
		case types.T_int16:
			return vector.AppendFixed(dst, int16(0), true, mp)
		case types.T_int32:
			return vector.AppendFixed(dst, int32(0), true, mp)
		case types.T_int64:
			return vector.AppendFixed(dst, int64(0), true, mp)
		case types.T_uint8:
			return vector.AppendFixed(dst, uint8(0), true, mp)
		case types.T_uint16:
			return vector.AppendFixed(dst, uint16(0), true, mp)
		case types.T_uint32:
			return vector.AppendFixed(dst, uint32(0), true, mp)
		case types.T_uint64:
			return vector.AppendFixed(dst, uint64(0), true, mp)
		case types.T_float32:
			return vector.AppendFixed(dst, float32(0), true, mp)
		case types.T_float64:
			return vector.AppendFixed(dst, float64(0), true, mp)
		case types.T_varchar:
			return vector.AppendBytes(dst, nil, true, mp)
		}
		return cerr.NewNYINoCtx("materializing %s rowset values", dst.GetType().Oid)
	}
	switch src.GetType().Oid {
	case types.T_bool:
		return vector.AppendFixed(dst, vector.GetFixedAt[bool](src, 0), false, mp)
	case types.T_int8:
		return vector.AppendFixed(dst, vector.GetFixedAt[int8](src, 0), false, mp)
	case types.T_int16:
		return vector.AppendFixed(dst, vector.GetFixedAt[int16](src, 0), false, mp)
	case types.T_int32:
		return vector.AppendFixed(dst, vector.GetFixedAt[int32](src, 0), false, mp)
	case types.T_int64:
		return vector.AppendFixed(dst, vector.GetFixedAt[int64](src, 0), false, mp)
	case types.T_uint8:
		return vector.AppendFixed(dst, vector.GetFixedAt[uint8](src, 0), false, mp)
	case types.T_uint16:
		return vector.AppendFixed(dst, vector.GetFixedAt[uint16](src, 0), false, mp)
	case types.T_uint32:
		return vector.AppendFixed(dst, vector.GetFixedAt[uint32](src, 0), false, mp)
	case types.T_uint64:
		return vector.AppendFixed(dst, vector.GetFixedAt[uint64](src, 0), false, mp)
	case types.T_float32:
		return vector.AppendFixed(dst, vector.GetFixedAt[float32](src, 0), false, mp)
	case types.T_float64:
		return vector.AppendFixed(dst, vector.GetFixedAt[float64](src, 0), false, mp)
	case types.T_varchar:
		return vector.AppendBytes(dst, src.GetBytesAt(0), false, mp)
	}
	return cerr.NewNYINoCtx("materializing %s rowset values", src.GetType().Oid)
}
