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
	"math"

	"github.com/cernodb/cerno/pkg/container/types"
)

// generalFunctionCheck is the default overload matcher. Resolution
// runs in two passes: an exact pass (T_any in a declaration is a
// wildcard) and then a cheapest-implicit-cast pass. Two candidates at
// the same minimal cost make the call ambiguous.
func generalFunctionCheck(overloads []overload, inputs []types.Type) checkResult {
	for _, ov := range overloads {
		if exactMatch(ov.args, inputs) {
			return newCheckResultWithSuccess(ov.overloadId)
		}
	}

	minCost := math.MaxInt32
	matched := make([]int, 0, 1)
	for i, ov := range overloads {
		cost, ok := tryToMatch(ov.args, inputs)
		if !ok {
			continue
		}
		if cost < minCost {
			minCost = cost
			matched = matched[:0]
			matched = append(matched, i)
		} else if cost == minCost {
			matched = append(matched, i)
		}
	}

	switch len(matched) {
	case 0:
		return newCheckResultWithFailure(failedFunctionParametersWrong)
	case 1:
		ov := overloads[matched[0]]
		return newCheckResultWithCast(ov.overloadId, castTargets(ov.args, inputs))
	default:
		return newCheckResultWithFailure(failedTooManyFunctionMatched)
	}
}

func exactMatch(required []types.T, inputs []types.Type) bool {
	if len(required) != len(inputs) {
		return false
	}
	for i, t := range required {
		if t != types.T_any && t != inputs[i].Oid {
			return false
		}
	}
	return true
}

// tryToMatch sums the implicit-cast cost over all parameters. A
// parameter that cannot be implicitly cast disqualifies the overload.
func tryToMatch(required []types.T, inputs []types.Type) (cost int, ok bool) {
	if len(required) != len(inputs) {
		return 0, false
	}
	for i, t := range required {
		c, can := implicitCastCost(inputs[i].Oid, t)
		if !can {
			return 0, false
		}
		cost += c
	}
	return cost, true
}

func castTargets(required []types.T, inputs []types.Type) []types.Type {
	targets := make([]types.Type, len(inputs))
	for i, t := range required {
		if t == types.T_any || t == inputs[i].Oid {
			targets[i] = inputs[i]
		} else {
			targets[i] = t.ToType()
		}
	}
	return targets
}

// numericRank orders the numeric types along the widening ladder.
// Signed and unsigned integers share ranks 1..4; floats sit above all
// integers.
func numericRank(t types.T) int {
	switch t {
	case types.T_int8, types.T_uint8:
		return 1
	case types.T_int16, types.T_uint16:
		return 2
	case types.T_int32, types.T_uint32:
		return 3
	case types.T_int64, types.T_uint64:
		return 4
	case types.T_float32:
		return 5
	case types.T_float64:
		return 6
	}
	return 0
}

// implicitCastCost reports whether from can be implicitly cast to
// target, and how far up the widening ladder that cast travels. Only
// lossless-in-practice widenings are implicit: narrowing, bool and
// string conversions must be written explicitly.
func implicitCastCost(from, target types.T) (cost int, ok bool) {
	if from == target {
		return 0, true
	}
	if target == types.T_any {
		return 1, true
	}
	if !from.IsNumber() || !target.IsNumber() {
		return 0, false
	}

	fr, tr := numericRank(from), numericRank(target)
	switch {
	case from.IsFloat():
		// float32 -> float64 only.
		if target.IsFloat() && tr > fr {
			return tr - fr, true
		}
		return 0, false

	case target.IsFloat():
		// any integer widens to either float.
		return tr - fr, true

	case from.IsSignedInt() && target.IsSignedInt(),
		from.IsUnsignedInt() && target.IsUnsignedInt():
		if tr > fr {
			return tr - fr, true
		}
		return 0, false

	case from.IsUnsignedInt() && target.IsSignedInt():
		// an unsigned value always fits in a strictly wider signed type.
		if tr > fr {
			return tr - fr + 1, true
		}
		return 0, false
	}
	return 0, false
}
