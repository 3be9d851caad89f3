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

package streamwind

import (
	"context"

	"github.com/streamwind/streamwind/aggregator"
	"github.com/streamwind/streamwind/functions"
	"github.com/streamwind/streamwind/model"
	"github.com/streamwind/streamwind/operator"
	"github.com/streamwind/streamwind/stream"
	"github.com/streamwind/streamwind/types"
	"github.com/streamwind/streamwind/window"
)

// Aggregate describes one aggregate column by name instead of by field
// index. The root API resolves it into an aggregator.Call.
type Aggregate struct {
	// Func is the aggregate function kind, e.g. "sum".
	Func string
	// Field is the input field name. Empty with no Expression counts
	// rows, count(*) style.
	Field string
	// Expression computes the input from the whole row, e.g.
	// "amount * rate". Mutually exclusive with Field.
	Expression string
	// As is the output column name; defaults to Func(Field).
	As string
}

// Config assembles an aggregation by field names. The planner-facing
// operator API works in field indices; Config is the convenience layer
// on top of it.
type Config struct {
	// Input is the input row schema.
	Input model.Schema
	// GroupBy lists the group-key field names, the window field
	// included when windowing is configured.
	GroupBy []string
	// GroupSets optionally lists grouping-set variants for rollup and
	// cube shapes. Each variant is a subset of GroupBy. Nil means the
	// primary set only.
	GroupSets [][]string
	// Aggregates lists the aggregate columns.
	Aggregates []Aggregate
	// Window is the window policy; window.None() disables windowing.
	Window window.Policy
	// WindowField names the timestamp field carrying event time and,
	// in output rows, the window's representative timestamp. Required
	// when Window is set.
	WindowField string
}

// StreamWind binds an aggregation operator to a source and an execution
// pipeline.
type StreamWind struct {
	op       *operator.AggregationOp
	source   *stream.Source
	pipeline *stream.Pipeline

	pipelineOpts []stream.Option
	filterExpr   string
}

// New creates an instance. Configure it with options, then call Prepare.
func New(options ...Option) *StreamWind {
	s := &StreamWind{}
	for _, option := range options {
		option(s)
	}
	return s
}

// Prepare resolves the configuration against the source and builds the
// operator and its pipeline. All construction-time validation happens
// here: unknown names, bad indices, incompatible types and invalid
// window parameters are fatal.
func (s *StreamWind) Prepare(cfg Config, source *stream.Source) error {
	op, err := BuildOperator(cfg, source)
	if err != nil {
		return err
	}
	opts := s.pipelineOpts
	if s.filterExpr != "" {
		filter, err := stream.NewFilter(s.filterExpr)
		if err != nil {
			return err
		}
		opts = append(opts, stream.WithFilter(filter))
	}
	s.op = op
	s.source = source
	s.pipeline = stream.NewPipeline(op, opts...)
	return nil
}

// Operator returns the prepared aggregation operator.
func (s *StreamWind) Operator() *operator.AggregationOp {
	return s.op
}

// Explain renders the prepared plan.
func (s *StreamWind) Explain() (string, error) {
	return s.op.Explain()
}

// Run executes a bounded source to completion.
func (s *StreamWind) Run(ctx context.Context) ([]model.Row, error) {
	return s.pipeline.Run(ctx)
}

// Start begins consuming an unbounded source. Results arrive on the
// returned channel as windows close.
func (s *StreamWind) Start(ctx context.Context) (<-chan model.Row, error) {
	return s.pipeline.Start(ctx)
}

// Emit feeds one row into the unbounded source.
func (s *StreamWind) Emit(row model.Row) error {
	return s.source.Emit(row)
}

// Close ends the unbounded source, flushing open windows.
func (s *StreamWind) Close() {
	if s.source != nil {
		s.source.Close()
	}
}

// BuildOperator resolves a name-based Config into an aggregation
// operator over the given child node.
func BuildOperator(cfg Config, child operator.Node) (*operator.AggregationOp, error) {
	groupSet, err := resolveFields(cfg.Input, cfg.GroupBy)
	if err != nil {
		return nil, err
	}
	var groupSets []model.FieldSet
	for _, names := range cfg.GroupSets {
		variant, err := resolveFields(cfg.Input, names)
		if err != nil {
			return nil, err
		}
		groupSets = append(groupSets, variant)
	}
	calls, err := resolveCalls(cfg.Input, cfg.Aggregates)
	if err != nil {
		return nil, err
	}
	windowFieldIndex := -1
	if !cfg.Window.IsNone() {
		if cfg.WindowField == "" {
			return nil, types.NewConfigurationError("window policy %s requires a window field", cfg.Window.Kind)
		}
		idx, ok := cfg.Input.IndexOf(cfg.WindowField)
		if !ok {
			return nil, types.NewSchemaError("unknown window field %q", cfg.WindowField)
		}
		windowFieldIndex = idx
	}
	outputSchema, err := operator.DeriveOutputSchema(cfg.Input, groupSet, calls)
	if err != nil {
		return nil, err
	}
	return operator.New(child, cfg.Input, outputSchema, groupSet, groupSets, calls, cfg.Window, windowFieldIndex)
}

func resolveFields(schema model.Schema, names []string) (model.FieldSet, error) {
	set := make(model.FieldSet, 0, len(names))
	for _, name := range names {
		idx, ok := schema.IndexOf(name)
		if !ok {
			return nil, types.NewSchemaError("unknown field %q in schema %s", name, schema)
		}
		set = append(set, idx)
	}
	return set, nil
}

func resolveCalls(schema model.Schema, aggs []Aggregate) ([]aggregator.Call, error) {
	calls := make([]aggregator.Call, 0, len(aggs))
	for _, agg := range aggs {
		fn, err := functions.Create(agg.Func)
		if err != nil {
			return nil, err
		}
		call := aggregator.Call{Kind: agg.Func, Expression: agg.Expression}
		inputType := model.TypeFloat
		if agg.Field != "" {
			idx, ok := schema.IndexOf(agg.Field)
			if !ok {
				return nil, types.NewSchemaError("unknown aggregate field %q in schema %s", agg.Field, schema)
			}
			call.Inputs = model.FieldSet{idx}
			inputType = schema.Field(idx).Type
		}
		name := agg.As
		if name == "" {
			arg := agg.Field
			if arg == "" {
				arg = "*"
			}
			name = agg.Func + "(" + arg + ")"
		}
		call.Output = model.F(name, fn.ResultType(inputType))
		calls = append(calls, call)
	}
	return calls, nil
}
