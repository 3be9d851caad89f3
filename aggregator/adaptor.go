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

package aggregator

import (
	"github.com/streamwind/streamwind/functions"
	"github.com/streamwind/streamwind/model"
)

// Accumulator is the running state of one (group key, window) pair: one
// sub-accumulator per aggregate call, opaque to everything but that
// call's own function.
type Accumulator []functions.AggregatorFunction

// Adaptor runs every aggregate call of an operator in lock-step. It
// behaves as an associative, commutative combiner: partial accumulators
// built from disjoint row subsets merge in any order, which is what
// allows pre-shuffle partial aggregation.
type Adaptor struct {
	calls    []Call
	input    model.Schema
	schema   model.Schema
	protos   []functions.AggregatorFunction
	programs []*functions.ExprInput
}

// NewAdaptor validates every call against the input schema, compiles
// computed input expressions, and derives the aggregate-value schema:
// the ordered concatenation of each call's output field.
func NewAdaptor(calls []Call, input model.Schema) (*Adaptor, error) {
	protos := make([]functions.AggregatorFunction, len(calls))
	programs := make([]*functions.ExprInput, len(calls))
	outFields := make([]model.Field, len(calls))
	for i, call := range calls {
		fn, err := call.validate(input)
		if err != nil {
			return nil, err
		}
		protos[i] = fn
		if call.Expression != "" {
			program, err := functions.CompileInput(call.Expression)
			if err != nil {
				return nil, err
			}
			programs[i] = program
		}
		outFields[i] = call.Output
	}
	return &Adaptor{
		calls:    append([]Call(nil), calls...),
		input:    input,
		schema:   model.NewSchema(outFields...),
		protos:   protos,
		programs: programs,
	}, nil
}

// Schema returns the aggregate-value schema.
func (a *Adaptor) Schema() model.Schema {
	return a.schema
}

// Calls returns the adaptor's aggregate calls.
func (a *Adaptor) Calls() []Call {
	return append([]Call(nil), a.calls...)
}

// Init returns a fresh composite accumulator.
func (a *Adaptor) Init() Accumulator {
	acc := make(Accumulator, len(a.protos))
	for i, proto := range a.protos {
		acc[i] = proto.New()
	}
	return acc
}

// Add folds one row into the accumulator. Each call extracts its own
// input fields independently; calls without inputs count the row.
func (a *Adaptor) Add(acc Accumulator, row model.Row) error {
	var env map[string]interface{}
	for i, call := range a.calls {
		switch {
		case a.programs[i] != nil:
			if env == nil {
				env = row.AsMap()
			}
			value, err := a.programs[i].Eval(env)
			if err != nil {
				return err
			}
			acc[i].Add(value)
		case len(call.Inputs) == 0:
			acc[i].Add(int64(1))
		default:
			for _, idx := range call.Inputs {
				acc[i].Add(row.Value(idx))
			}
		}
	}
	return nil
}

// Merge folds from into into, call by call, and returns into. Merging is
// associative and commutative per sub-accumulator.
func (a *Adaptor) Merge(into, from Accumulator) Accumulator {
	for i := range into {
		into[i].Merge(from[i])
	}
	return into
}

// Extract finalizes the accumulator into the aggregate-value row, one
// value per call in call order.
func (a *Adaptor) Extract(acc Accumulator) (model.Row, error) {
	values := make([]interface{}, len(acc))
	for i, fn := range acc {
		values[i] = fn.Result()
	}
	return model.NewRow(a.schema, values...)
}
