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

package stream

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/streamwind/streamwind/model"
	"github.com/streamwind/streamwind/types"
)

// Filter is an optional row predicate applied before the aggregation
// stages, compiled once from an expression over field names.
type Filter struct {
	expression string
	program    *vm.Program
}

// NewFilter compiles a boolean expression, e.g. `amount > 0 && user != "test"`.
func NewFilter(expression string) (*Filter, error) {
	program, err := expr.Compile(expression,
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, types.Wrap(types.KindConfiguration, err, "compile filter expression")
	}
	return &Filter{expression: expression, program: program}, nil
}

// Expression returns the filter's source text.
func (f *Filter) Expression() string {
	return f.expression
}

// Keep reports whether the row passes the predicate. Evaluation failures
// drop the row rather than failing the pipeline.
func (f *Filter) Keep(row model.Row) bool {
	result, err := expr.Run(f.program, row.AsMap())
	if err != nil {
		return false
	}
	keep, ok := result.(bool)
	return ok && keep
}
