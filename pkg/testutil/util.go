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

package testutil

import (
	"context"

	"github.com/cernodb/cerno/pkg/common/mpool"
	"github.com/cernodb/cerno/pkg/container/nulls"
	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/container/vector"
	"github.com/cernodb/cerno/pkg/vm/process"
)

// NewProc makes a process with an unlimited pool for tests.
func NewProc() *process.Process {
	return process.New(context.Background(), mpool.MustNewZero())
}

func NewFixedVector[T types.FixedSizeT](proc *process.Process, typ types.Type, vals []T, nullRows ...uint64) *vector.Vector {
	vec := vector.NewVec(typ)
	if err := vector.AppendFixedList(vec, vals, nil, proc.Mp()); err != nil {
		panic(err)
	}
	if len(nullRows) > 0 {
		vec.SetNulls(nulls.Build(len(vals), nullRows...))
	}
	return vec
}

func NewInt64Vector(proc *process.Process, vals []int64, nullRows ...uint64) *vector.Vector {
	return NewFixedVector(proc, types.T_int64.ToType(), vals, nullRows...)
}

func NewInt32Vector(proc *process.Process, vals []int32, nullRows ...uint64) *vector.Vector {
	return NewFixedVector(proc, types.T_int32.ToType(), vals, nullRows...)
}

func NewFloat64Vector(proc *process.Process, vals []float64, nullRows ...uint64) *vector.Vector {
	return NewFixedVector(proc, types.T_float64.ToType(), vals, nullRows...)
}

func NewBoolVector(proc *process.Process, vals []bool, nullRows ...uint64) *vector.Vector {
	return NewFixedVector(proc, types.T_bool.ToType(), vals, nullRows...)
}

func NewVarcharVector(proc *process.Process, vals []string, nullRows ...uint64) *vector.Vector {
	vec := vector.NewVec(types.New(types.T_varchar, types.MaxVarcharLen, 0))
	if err := vector.AppendStringList(vec, vals, nil, proc.Mp()); err != nil {
		panic(err)
	}
	if len(nullRows) > 0 {
		vec.SetNulls(nulls.Build(len(vals), nullRows...))
	}
	return vec
}

func NewScalarInt64(proc *process.Process, v int64, length int) *vector.Vector {
	vec, err := vector.NewConstFixed(types.T_int64.ToType(), v, length, proc.Mp())
	if err != nil {
		panic(err)
	}
	return vec
}

func NewScalarFloat64(proc *process.Process, v float64, length int) *vector.Vector {
	vec, err := vector.NewConstFixed(types.T_float64.ToType(), v, length, proc.Mp())
	if err != nil {
		panic(err)
	}
	return vec
}

func NewScalarBool(proc *process.Process, v bool, length int) *vector.Vector {
	vec, err := vector.NewConstFixed(types.T_bool.ToType(), v, length, proc.Mp())
	if err != nil {
		panic(err)
	}
	return vec
}

func NewScalarVarchar(proc *process.Process, v string, length int) *vector.Vector {
	vec, err := vector.NewConstBytes(types.New(types.T_varchar, types.MaxVarcharLen, 0), []byte(v), length, proc.Mp())
	if err != nil {
		panic(err)
	}
	return vec
}

func NewScalarNull(typ types.T, length int) *vector.Vector {
	return vector.NewConstNull(typ.ToType(), length, nil)
}
