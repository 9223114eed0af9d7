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

// cerno-demo shows runtime function substitution end to end: it
// registers two replacement functions, rewires `*` and `sqrt` to
// them through a replacement registry, and runs the same two plans
// with and without the rewrite.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/cernodb/cerno/pkg/common/mpool"
	"github.com/cernodb/cerno/pkg/config"
	"github.com/cernodb/cerno/pkg/container/batch"
	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/container/vector"
	"github.com/cernodb/cerno/pkg/logutil"
	"github.com/cernodb/cerno/pkg/sql/compile"
	"github.com/cernodb/cerno/pkg/sql/plan"
	"github.com/cernodb/cerno/pkg/sql/plan/function"
	"github.com/cernodb/cerno/pkg/sql/plan/rule"
	"github.com/cernodb/cerno/pkg/vm/process"
	"github.com/fagongzi/util/format"
)

var cfgFile = flag.String("cfg", "", "toml configuration file")

func main() {
	flag.Parse()

	cfg := config.Default()
	if *cfgFile != "" {
		var err error
		if cfg, err = config.LoadConfig(*cfgFile); err != nil {
			logutil.Errorf("load config: %v", err)
			os.Exit(1)
		}
	}
	logutil.SetupCernoLogger(&cfg.Log)

	if err := run(cfg); err != nil {
		logutil.Errorf("demo failed: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if err := registerCustomFunctions(); err != nil {
		return err
	}
	for _, entry := range function.Functions() {
		logutil.Debugf("catalog: %s (%s overloads, aggregate=%v)",
			entry.Name, format.Int64ToString(int64(entry.NumOverloads)), entry.IsAggregate)
	}

	mp, err := mpool.NewMPool("cerno-demo", cfg.Engine.MemoryLimit)
	if err != nil {
		return err
	}
	proc := process.New(context.Background(), mp)
	c, err := compile.NewCompile(proc, &cfg.Engine)
	if err != nil {
		return err
	}
	defer c.Release()

	registry := rule.NewRegistry()
	registry.Register("*", "custom_multiply")
	registry.Register("sqrt", "custom_sqrt")

	// 3 * 4: 12 normally, 6 through custom_multiply (left * 2).
	mulPlan, err := projectPlan(proc, "*",
		plan.MakeInt64ConstExpr(3), plan.MakeInt64ConstExpr(4))
	if err != nil {
		return err
	}
	original, substituted, err := runBothWays(proc, c, registry, mulPlan)
	if err != nil {
		return err
	}
	logutil.Infof("3 * 4 = %s, substituted = %s",
		format.Int64ToString(vector.GetFixedAt[int64](original.Vecs[0], 0)),
		format.Int64ToString(vector.GetFixedAt[int64](substituted.Vecs[0], 0)))

	// sqrt(25.0): 5 normally, 125 through custom_sqrt (x + 100).
	sqrtPlan, err := projectPlan(proc, "sqrt", plan.MakeFloat64ConstExpr(25))
	if err != nil {
		return err
	}
	original, substituted, err = runBothWays(proc, c, registry, sqrtPlan)
	if err != nil {
		return err
	}
	logutil.Infof("sqrt(25.0) = %v, substituted = %v",
		vector.GetFixedAt[float64](original.Vecs[0], 0),
		vector.GetFixedAt[float64](substituted.Vecs[0], 0))
	return nil
}

func registerCustomFunctions() error {
	err := function.Register("custom_multiply",
		function.Overload{
			Args:   []types.T{types.T_int64, types.T_int64},
			RetTyp: types.T_int64,
			Fn: func(vs []*vector.Vector, _ function.FunctionData, proc *process.Process, length int) (*vector.Vector, error) {
				rs := make([]int64, length)
				for i := 0; i < length; i++ {
					rs[i] = vector.GetFixedAt[int64](vs[0], i) * 2
				}
				out := vector.NewVec(types.T_int64.ToType())
				if err := vector.AppendFixedList(out, rs, nil, proc.Mp()); err != nil {
					return nil, err
				}
				return out, nil
			},
		})
	if err != nil {
		return err
	}
	return function.Register("custom_sqrt",
		function.Overload{
			Args:   []types.T{types.T_float64},
			RetTyp: types.T_float64,
			Fn: func(vs []*vector.Vector, _ function.FunctionData, proc *process.Process, length int) (*vector.Vector, error) {
				rs := make([]float64, length)
				for i := 0; i < length; i++ {
					rs[i] = vector.GetFixedAt[float64](vs[0], i) + 100
				}
				out := vector.NewVec(types.T_float64.ToType())
				if err := vector.AppendFixedList(out, rs, nil, proc.Mp()); err != nil {
					return nil, err
				}
				return out, nil
			},
		})
}

func projectPlan(proc *process.Process, name string, args ...*plan.Expr) (*plan.Query, error) {
	call, err := plan.BindFuncExprByName(context.Background(), proc, name, args)
	if err != nil {
		return nil, err
	}
	b := plan.NewQueryBuilder()
	scan := b.AppendNode(&plan.Node{NodeType: plan.Node_VALUE_SCAN})
	root := b.AppendNode(&plan.Node{
		NodeType:    plan.Node_PROJECT,
		ProjectList: []*plan.Expr{call},
	}, scan)
	return b.Build(root), nil
}

// runBothWays executes qry as built and again after the substitution
// and fold rules rewrote a deep copy.
func runBothWays(proc *process.Process, c *compile.Compile, registry *rule.Registry, qry *plan.Query) (original, substituted *batch.Batch, err error) {
	plain := plan.DeepCopyQuery(qry)
	if err = rule.ApplyRules(proc, plain, rule.NewConstantFold(false)); err != nil {
		return nil, nil, err
	}
	if original, err = c.Run(plain); err != nil {
		return nil, nil, err
	}

	rewritten := plan.DeepCopyQuery(qry)
	if err = rule.ApplyRules(proc, rewritten,
		rule.NewReplaceFunction(registry), rule.NewConstantFold(false)); err != nil {
		return nil, nil, err
	}
	if substituted, err = c.Run(rewritten); err != nil {
		return nil, nil, err
	}
	return original, substituted, nil
}
