/*
 * Copyright 2025 The StreamWind Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package functions

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/streamwind/streamwind/types"
)

// ExprInput is a compiled computed input for an aggregate call: instead
// of reading a raw field, the call evaluates an expression over the row,
// e.g. "amount * rate". Compilation happens once at operator construction
// time; evaluation is pure.
type ExprInput struct {
	expression string
	program    *vm.Program
}

// CompileInput compiles an expression into a reusable program. Undefined
// variables evaluate to nil so sparse rows do not fail the program.
func CompileInput(expression string) (*ExprInput, error) {
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, types.Wrap(types.KindConfiguration, err, "compile aggregate input expression")
	}
	return &ExprInput{expression: expression, program: program}, nil
}

// Expression returns the source expression text.
func (e *ExprInput) Expression() string {
	return e.expression
}

// Eval runs the program against a field-name keyed environment.
func (e *ExprInput) Eval(env map[string]interface{}) (interface{}, error) {
	result, err := expr.Run(e.program, env)
	if err != nil {
		return nil, types.Wrap(types.KindConfiguration, err, "evaluate aggregate input expression")
	}
	return result, nil
}
