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

// function ids, the index of builtin functions in allSupportedFunctions.
const (
	EQUAL       = 0 // =
	NOT_EQUAL   = 1 // <>
	GREAT_THAN  = 2 // >
	GREAT_EQUAL = 3 // >=
	LESS_THAN   = 4 // <
	LESS_EQUAL  = 5 // <=

	PLUS  = 6  // +
	MINUS = 7  // -
	MULTI = 8  // *
	DIV   = 9  // /
	MOD   = 10 // %

	AND = 11
	OR  = 12
	NOT = 13

	CAST = 14

	ABS    = 15
	SQRT   = 16
	POWER  = 17
	FLOOR  = 18
	CEIL   = 19
	LN     = 20
	PI     = 21
	RAND   = 22
	LENGTH = 23
	CONCAT = 24

	SUM   = 25
	COUNT = 26
	AVG   = 27
	MIN   = 28
	MAX   = 29

	// FUNCTION_END_NUMBER is not a function, just a flag to record the
	// max number of builtin function ids.
	FUNCTION_END_NUMBER = 30
)

// runtimeFunctionIdStart is the first id handed to functions added at
// runtime via Register.
const runtimeFunctionIdStart = 500

// functionIdRegister maps the builtin function / operator name to its id.
var functionIdRegister = map[string]int32{
	// operators
	"=":  EQUAL,
	"<>": NOT_EQUAL,
	"!=": NOT_EQUAL,
	">":  GREAT_THAN,
	">=": GREAT_EQUAL,
	"<":  LESS_THAN,
	"<=": LESS_EQUAL,
	"+":  PLUS,
	"-":  MINUS,
	"*":  MULTI,
	"/":  DIV,
	"%":  MOD,

	"and": AND,
	"or":  OR,
	"not": NOT,

	"cast": CAST,

	// builtins
	"abs":    ABS,
	"sqrt":   SQRT,
	"power":  POWER,
	"floor":  FLOOR,
	"ceil":   CEIL,
	"ln":     LN,
	"pi":     PI,
	"rand":   RAND,
	"length": LENGTH,
	"concat": CONCAT,

	// aggregates
	"sum":   SUM,
	"count": COUNT,
	"avg":   AVG,
	"min":   MIN,
	"max":   MAX,
}
