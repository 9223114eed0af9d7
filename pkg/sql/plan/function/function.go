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

package function

import (
	"context"
	"fmt"
	"sync"

	"github.com/cernodb/cerno/pkg/common/cerr"
	"github.com/cernodb/cerno/pkg/container/types"
	"github.com/cernodb/cerno/pkg/container/vector"
	"github.com/cernodb/cerno/pkg/vm/process"
	"github.com/google/btree"
)

// FuncFlag marks the class of a catalog entry.
type FuncFlag int32

const (
	NONE_FLAG FuncFlag = 0
	// AGG marks an aggregate entry. Aggregates have no scalar executor
	// and are rejected by kind-constrained resolution.
	AGG FuncFlag = 1 << 0
	// MONOTONIC marks entries safe for range pruning.
	MONOTONIC FuncFlag = 1 << 1
)

// FuncExplainLayout decides how an expression is rendered.
type FuncExplainLayout int32

const (
	STANDARD_FUNCTION FuncExplainLayout = iota
	UNARY_ARITHMETIC_OPERATOR
	BINARY_ARITHMETIC_OPERATOR
	UNARY_LOGICAL_OPERATOR
	BINARY_LOGICAL_OPERATOR
	COMPARISON_OPERATOR
	CAST_EXPRESSION
	NOPARAMETER_FUNCTION
)

// FunctionData is the opaque bind-time state attached to a call site.
// It is produced once when the call is bound and consumed by the
// executor at run time.
type FunctionData interface {
	Copy() FunctionData
}

// BoundArg is the view of a call argument a bind constructor sees:
// its resolved type, and its literal value when the argument is a
// constant.
type BoundArg interface {
	Type() types.Type
	ConstValue() (any, bool)
}

// BindFunc builds the bind-time state of a call from its arguments.
type BindFunc func(proc *process.Process, args []BoundArg) (FunctionData, error)

// ExecuteFn is the vectorized executor of one overload. Input vectors
// are either length rows or CONSTANT; the result must be length rows
// (or CONSTANT of that length).
type ExecuteFn func(parameters []*vector.Vector, data FunctionData, proc *process.Process, length int) (*vector.Vector, error)

// FuncNew records all overloads of one function name.
type FuncNew struct {
	functionId int
	name       string
	class      FuncFlag
	Overloads  []overload

	// found which overload can match.
	checkFn func(overloads []overload, inputs []types.Type) checkResult

	// layout used to render the call.
	layout FuncExplainLayout
}

type overload struct {
	overloadId int
	args       []types.T
	retType    func(parameters []types.Type) types.Type
	fn         ExecuteFn
	bind       BindFunc

	// if true, overload cannot be folded
	volatile bool
	// if realTimeRelated, overload cannot be folded when prepare.
	realTimeRelated bool
}

func (ov *overload) CannotFold() bool {
	return ov.volatile
}

func (ov *overload) IsRealTimeRelated() bool {
	return ov.realTimeRelated
}

func (ov *overload) HasBind() bool {
	return ov.bind != nil
}

func (ov *overload) Bind(proc *process.Process, args []BoundArg) (FunctionData, error) {
	if ov.bind == nil {
		return nil, nil
	}
	return ov.bind(proc, args)
}

func (ov *overload) Execute(parameters []*vector.Vector, data FunctionData, proc *process.Process, length int) (*vector.Vector, error) {
	return ov.fn(parameters, data, proc, length)
}

func (ov *overload) ReturnType(args []types.Type) types.Type {
	return ov.retType(args)
}

func (ov *overload) ArgTypes() []types.T {
	return ov.args
}

func (fn *FuncNew) isAggregate() bool {
	return fn.testFlag(AGG)
}

func (fn *FuncNew) testFlag(funcFlag FuncFlag) bool {
	return fn.class&funcFlag != 0
}

type overloadCheckSituation int

const (
	succeedMatched                overloadCheckSituation = 0
	succeedWithCast               overloadCheckSituation = -1
	failedFunctionParametersWrong overloadCheckSituation = -2
	failedTooManyFunctionMatched  overloadCheckSituation = -3
)

type checkResult struct {
	status overloadCheckSituation

	// if matched
	idx       int
	finalType []types.Type
}

func newCheckResultWithSuccess(overloadId int) checkResult {
	return checkResult{status: succeedMatched, idx: overloadId}
}

func newCheckResultWithFailure(status overloadCheckSituation) checkResult {
	return checkResult{status: status}
}

func newCheckResultWithCast(overloadId int, castType []types.Type) checkResult {
	return checkResult{
		status:    succeedWithCast,
		idx:       overloadId,
		finalType: castType,
	}
}

var (
	mu sync.RWMutex

	allSupportedFunctions [1000]FuncNew

	// nameIndex orders the catalog by name for listing.
	nameIndex = btree.New(2)

	nextRuntimeId = int32(runtimeFunctionIdStart)
)

type catalogItem struct {
	name string
	fid  int32
}

func (c catalogItem) Less(than btree.Item) bool {
	return c.name < than.(catalogItem).name
}

func init() {
	for _, fn := range supportedOperators {
		allSupportedFunctions[fn.functionId] = fn
		nameIndex.ReplaceOrInsert(catalogItem{name: fn.name, fid: int32(fn.functionId)})
	}
	for _, fn := range supportedBuiltins {
		allSupportedFunctions[fn.functionId] = fn
		nameIndex.ReplaceOrInsert(catalogItem{name: fn.name, fid: int32(fn.functionId)})
	}
	for _, fn := range supportedAggregates {
		allSupportedFunctions[fn.functionId] = fn
		nameIndex.ReplaceOrInsert(catalogItem{name: fn.name, fid: int32(fn.functionId)})
	}
	nameIndex.ReplaceOrInsert(catalogItem{name: "cast", fid: CAST})
	allSupportedFunctions[CAST] = castFunction
}

// Overload is the declaration form used to add a function at runtime.
type Overload struct {
	Args []types.T

	// RetTyp is the declared return type. RetType overrides it when a
	// return type depends on the parameters.
	RetTyp  types.T
	RetType func(parameters []types.Type) types.Type

	Volatile        bool
	RealTimeRelated bool

	Fn   ExecuteFn
	Bind BindFunc
}

// Register adds a scalar function to the catalog at runtime. The name
// must not collide with an existing entry.
func Register(name string, overloads ...Overload) error {
	if name == "" {
		return cerr.NewInvalidArgNoCtx("function name", name)
	}
	if len(overloads) == 0 {
		return cerr.NewInvalidArgNoCtx("function overloads", name)
	}
	mu.Lock()
	defer mu.Unlock()

	if _, exists := functionIdRegister[name]; exists {
		return cerr.NewFunctionAlreadyExistsNoCtx(name)
	}
	if int(nextRuntimeId) >= len(allSupportedFunctions) {
		return cerr.NewInternalNoCtx("function catalog is full")
	}
	fid := nextRuntimeId

	fn := FuncNew{
		functionId: int(fid),
		name:       name,
		class:      NONE_FLAG,
		layout:     STANDARD_FUNCTION,
		checkFn:    generalFunctionCheck,
	}
	for i, ov := range overloads {
		if ov.Fn == nil {
			return cerr.NewInvalidArgNoCtx("function overload executor", name)
		}
		retType := ov.RetType
		if retType == nil {
			retType = fixedTypeRet(ov.RetTyp)
		}
		fn.Overloads = append(fn.Overloads, overload{
			overloadId:      i,
			args:            ov.Args,
			retType:         retType,
			fn:              ov.Fn,
			bind:            ov.Bind,
			volatile:        ov.Volatile,
			realTimeRelated: ov.RealTimeRelated,
		})
	}

	nextRuntimeId++
	functionIdRegister[name] = fid
	allSupportedFunctions[fid] = fn
	nameIndex.ReplaceOrInsert(catalogItem{name: name, fid: fid})
	return nil
}

// CatalogEntry is one row of the catalog listing.
type CatalogEntry struct {
	Name         string
	FunctionId   int32
	NumOverloads int
	IsAggregate  bool
}

// Functions lists the whole catalog in name order.
func Functions() []CatalogEntry {
	mu.RLock()
	defer mu.RUnlock()
	entries := make([]CatalogEntry, 0, nameIndex.Len())
	nameIndex.Ascend(func(item btree.Item) bool {
		c := item.(catalogItem)
		f := &allSupportedFunctions[c.fid]
		entries = append(entries, CatalogEntry{
			Name:         c.name,
			FunctionId:   c.fid,
			NumOverloads: len(f.Overloads),
			IsAggregate:  f.isAggregate(),
		})
		return true
	})
	return entries
}

// GetFunctionIsAggregateByName reports whether the name resolves to an
// aggregate entry.
func GetFunctionIsAggregateByName(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	fid, exists := functionIdRegister[name]
	if !exists {
		return false
	}
	return allSupportedFunctions[fid].isAggregate()
}

func GetFunctionById(ctx context.Context, overloadID int64) (f overload, err error) {
	mu.RLock()
	defer mu.RUnlock()
	fid, oIndex := DecodeOverloadID(overloadID)
	if int(fid) >= len(allSupportedFunctions) || int(fid) != allSupportedFunctions[fid].functionId {
		return overload{}, cerr.NewInvalidInput(ctx, "function overload id not found")
	}
	if int(oIndex) >= len(allSupportedFunctions[fid].Overloads) {
		return overload{}, cerr.NewInvalidInput(ctx, "function overload id not found")
	}
	return allSupportedFunctions[fid].Overloads[oIndex], nil
}

func GetFunctionByIdWithoutError(overloadID int64) (f overload, exists bool) {
	mu.RLock()
	defer mu.RUnlock()
	fid, oIndex := DecodeOverloadID(overloadID)
	if int(fid) >= len(allSupportedFunctions) || int(fid) != allSupportedFunctions[fid].functionId {
		return overload{}, false
	}
	if int(oIndex) >= len(allSupportedFunctions[fid].Overloads) {
		return overload{}, false
	}
	return allSupportedFunctions[fid].Overloads[oIndex], true
}

// GetFunctionByName is the binder-grade resolution: failing to match
// is an error.
func GetFunctionByName(ctx context.Context, name string, args []types.Type) (r FuncGetResult, err error) {
	mu.RLock()
	defer mu.RUnlock()

	fid, exists := functionIdRegister[name]
	if !exists {
		return r, cerr.NewNotSupported(ctx, "function or operator '%s'", name)
	}
	r.fid = fid
	f := &allSupportedFunctions[fid]
	if f.isAggregate() {
		return r, cerr.NewInvalidInput(ctx, "aggregate function '%s' cannot be bound as a scalar call", name)
	}

	check := f.checkFn(f.Overloads, args)
	switch check.status {
	case succeedMatched:
		r.overloadId = int32(check.idx)
		r.retType = f.Overloads[r.overloadId].retType(args)

	case succeedWithCast:
		r.overloadId = int32(check.idx)
		r.needCast = true
		r.targetTypes = check.finalType
		r.retType = f.Overloads[r.overloadId].retType(r.targetTypes)

	case failedFunctionParametersWrong:
		err = cerr.NewInvalidArg(ctx, fmt.Sprintf("function %s", name), typeNames(args))

	case failedTooManyFunctionMatched:
		err = cerr.NewInvalidArg(ctx, fmt.Sprintf("too many overloads matched %s", name), typeNames(args))
	}

	return r, err
}

// ResolveState is the outcome of rewrite-grade resolution. Everything
// except Resolved is a data outcome, not an error.
type ResolveState int

const (
	Resolved ResolveState = iota
	// NotFound: no catalog entry with that name.
	NotFound
	// NotScalar: the entry exists but is not a scalar function.
	NotScalar
	// NoMatch: no overload is compatible with the argument types.
	NoMatch
)

// ResolveFunctionByName resolves a name against the catalog with a
// scalar-entry kind constraint. Unlike GetFunctionByName it never
// turns a failed match into an error.
func ResolveFunctionByName(name string, args []types.Type) (r FuncGetResult, state ResolveState) {
	mu.RLock()
	defer mu.RUnlock()

	fid, exists := functionIdRegister[name]
	if !exists {
		return r, NotFound
	}
	f := &allSupportedFunctions[fid]
	if f.isAggregate() {
		return r, NotScalar
	}
	r.fid = fid

	check := f.checkFn(f.Overloads, args)
	switch check.status {
	case succeedMatched:
		r.overloadId = int32(check.idx)
		r.retType = f.Overloads[r.overloadId].retType(args)
		return r, Resolved

	case succeedWithCast:
		r.overloadId = int32(check.idx)
		r.needCast = true
		r.targetTypes = check.finalType
		r.retType = f.Overloads[r.overloadId].retType(r.targetTypes)
		return r, Resolved

	default:
		// parameters wrong and ambiguous both mean: no usable overload.
		return r, NoMatch
	}
}

type FuncGetResult struct {
	fid        int32
	overloadId int32
	retType    types.Type

	needCast    bool
	targetTypes []types.Type
}

func (fr *FuncGetResult) GetEncodedOverloadID() (overloadID int64) {
	return EncodeOverloadID(fr.fid, fr.overloadId)
}

func (fr *FuncGetResult) ShouldDoImplicitTypeCast() (typs []types.Type, should bool) {
	return fr.targetTypes, fr.needCast
}

func (fr *FuncGetResult) GetReturnType() types.Type {
	return fr.retType
}

func EncodeOverloadID(fid, overloadId int32) (overloadID int64) {
	overloadID = int64(fid)
	overloadID = overloadID << 32
	overloadID |= int64(overloadId)
	return
}

func DecodeOverloadID(overloadID int64) (fid int32, oIndex int32) {
	base := overloadID
	oIndex = int32(overloadID)
	fid = int32(base >> 32)
	return fid, oIndex
}

func typeNames(args []types.Type) []string {
	names := make([]string, len(args))
	for i, arg := range args {
		names[i] = arg.String()
	}
	return names
}

func fixedTypeRet(t types.T) func(parameters []types.Type) types.Type {
	return func(parameters []types.Type) types.Type {
		return t.ToType()
	}
}
