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

// Package aggregator implements the composite incremental combiner
// running N independent aggregate functions in lock-step over the fields
// routed to each.
package aggregator

import (
	"github.com/streamwind/streamwind/functions"
	"github.com/streamwind/streamwind/model"
	"github.com/streamwind/streamwind/types"
)

// Call describes one aggregate function invocation: the function kind,
// the input fields (or a computed input expression) and the output field.
// Calls are fixed at operator construction time.
type Call struct {
	// Kind is the aggregate function name, e.g. "sum".
	Kind string
	// Inputs lists the input field indices. Empty with no Expression
	// means the call counts rows, count(*) style.
	Inputs model.FieldSet
	// Expression, when set, computes the input value from the whole row
	// instead of reading raw fields. Mutually exclusive with Inputs.
	Expression string
	// Output is the call's output field name and type.
	Output model.Field
}

// validate checks the call against the input schema and returns a proto
// accumulator for it. All failures here are fatal construction-time
// errors: bad indices are schema errors, incompatible field types are
// type mismatches, unknown kinds are configuration errors.
func (c Call) validate(input model.Schema) (functions.AggregatorFunction, error) {
	fn, err := functions.Create(c.Kind)
	if err != nil {
		return nil, err
	}
	if c.Expression != "" && len(c.Inputs) > 0 {
		return nil, types.NewConfigurationError("aggregate call %q has both field inputs and an expression", c.Output.Name)
	}
	if err := c.Inputs.Validate(input); err != nil {
		return nil, err
	}
	for _, idx := range c.Inputs {
		if f := input.Field(idx); !fn.AcceptsType(f.Type) {
			return nil, types.NewTypeMismatchError("aggregate function %q cannot consume field %q of type %s", c.Kind, f.Name, f.Type)
		}
	}
	if c.Expression == "" {
		inputType := model.TypeFloat
		if len(c.Inputs) > 0 {
			inputType = input.Field(c.Inputs[0]).Type
		}
		if want := fn.ResultType(inputType); c.Output.Type != want {
			return nil, types.NewTypeMismatchError("aggregate call %q declares output type %s but %q produces %s",
				c.Output.Name, c.Output.Type, c.Kind, want)
		}
	}
	return fn, nil
}
