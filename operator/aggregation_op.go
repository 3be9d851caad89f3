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

// Package operator implements the windowed grouped-aggregation operator:
// given a stream of rows, group-by fields, aggregate calls and an
// optional window policy, it produces one output row per (window, group
// key) pair. The operator only configures the surrounding engine — it
// supplies pure functions for timestamp extraction, window assignment,
// key extraction, combining and output-row assembly, and the engine
// decides where and when to run them.
package operator

import (
	"fmt"
	"strings"

	"github.com/streamwind/streamwind/aggregator"
	"github.com/streamwind/streamwind/model"
	"github.com/streamwind/streamwind/types"
	"github.com/streamwind/streamwind/window"
)

// Stream is the engine's handle to one row stream entering the operator.
type Stream interface {
	// Schema returns the stream's row schema.
	Schema() model.Schema
	// Bounded reports whether the stream is finite.
	Bounded() bool
	// Strategy returns the windowing already in effect on the stream.
	Strategy() window.Strategy
}

// Node is an upstream plan node. Expanding it yields its output streams.
type Node interface {
	Streams() []Stream
}

// AggregationOp is an immutable windowed grouped-aggregation operator
// node. Window policy and window field index are operator identity:
// cloning the operator with a different child preserves them unchanged.
type AggregationOp struct {
	child            Node
	inputSchema      model.Schema
	outputSchema     model.Schema
	groupSet         model.FieldSet
	groupSets        []model.FieldSet
	calls            []aggregator.Call
	policy           window.Policy
	windowFieldIndex int
	adaptor          *aggregator.Adaptor
}

// New constructs an aggregation operator and fails fast on any
// configuration the engine could never execute: out-of-range or
// duplicate field indices, aggregate functions over incompatible field
// types, invalid window parameters, or an output schema that does not
// match the derived layout. groupSets lists the grouping-set variants
// for rollup/cube; nil means the primary group set only. windowFieldIndex
// is ignored when policy is None.
func New(
	child Node,
	inputSchema model.Schema,
	outputSchema model.Schema,
	groupSet model.FieldSet,
	groupSets []model.FieldSet,
	calls []aggregator.Call,
	policy window.Policy,
	windowFieldIndex int,
) (*AggregationOp, error) {
	if err := groupSet.Validate(inputSchema); err != nil {
		return nil, err
	}
	if len(groupSets) == 0 {
		groupSets = []model.FieldSet{groupSet.Copy()}
	}
	for _, variant := range groupSets {
		if err := variant.Validate(inputSchema); err != nil {
			return nil, err
		}
		for _, idx := range variant {
			if !groupSet.Contains(idx) {
				return nil, types.NewSchemaError("grouping set field index %d is not part of the primary group set", idx)
			}
		}
	}
	adaptor, err := aggregator.NewAdaptor(calls, inputSchema)
	if err != nil {
		return nil, err
	}
	if !policy.IsNone() {
		// NewAssigner validates policy parameters and the window field.
		if _, err := window.NewAssigner(policy, windowFieldIndex, inputSchema); err != nil {
			return nil, err
		}
		if !groupSet.Contains(windowFieldIndex) {
			return nil, types.NewConfigurationError("window field index %d must be part of the group set", windowFieldIndex)
		}
	}
	derived, err := DeriveOutputSchema(inputSchema, groupSet, calls)
	if err != nil {
		return nil, err
	}
	if !outputSchema.Equal(derived) {
		return nil, types.NewSchemaError("output schema %s does not match derived schema %s", outputSchema, derived)
	}
	return &AggregationOp{
		child:            child,
		inputSchema:      inputSchema,
		outputSchema:     outputSchema,
		groupSet:         groupSet.Copy(),
		groupSets:        copyFieldSets(groupSets),
		calls:            append([]aggregator.Call(nil), calls...),
		policy:           policy,
		windowFieldIndex: windowFieldIndex,
		adaptor:          adaptor,
	}, nil
}

// DeriveOutputSchema computes the operator's output layout: the group
// fields in group-set order followed by each call's output field.
// Deriving twice from the same inputs yields identical schemas.
func DeriveOutputSchema(input model.Schema, groupSet model.FieldSet, calls []aggregator.Call) (model.Schema, error) {
	keyPart, err := input.Project(groupSet)
	if err != nil {
		return model.Schema{}, err
	}
	fields := keyPart.Fields()
	for _, call := range calls {
		fields = append(fields, call.Output)
	}
	return model.NewSchema(fields...), nil
}

func copyFieldSets(sets []model.FieldSet) []model.FieldSet {
	out := make([]model.FieldSet, len(sets))
	for i, s := range sets {
		out[i] = s.Copy()
	}
	return out
}

// WithInput clones the operator with a different child input. Windowing
// configuration is operator identity, not derived from the child, so the
// policy and window field index carry over unchanged. The clone is a new
// value; the receiver is never mutated.
func (op *AggregationOp) WithInput(child Node) *AggregationOp {
	clone := *op
	clone.child = child
	return &clone
}

// Child returns the operator's child input node.
func (op *AggregationOp) Child() Node {
	return op.child
}

// InputSchema returns the expected input row schema.
func (op *AggregationOp) InputSchema() model.Schema {
	return op.inputSchema
}

// OutputSchema returns the output row schema.
func (op *AggregationOp) OutputSchema() model.Schema {
	return op.outputSchema
}

// GroupSet returns the primary group-field index set.
func (op *AggregationOp) GroupSet() model.FieldSet {
	return op.groupSet.Copy()
}

// GroupSets returns the grouping-set variants.
func (op *AggregationOp) GroupSets() []model.FieldSet {
	return copyFieldSets(op.groupSets)
}

// Calls returns the aggregate calls.
func (op *AggregationOp) Calls() []aggregator.Call {
	return append([]aggregator.Call(nil), op.calls...)
}

// Policy returns the window policy.
func (op *AggregationOp) Policy() window.Policy {
	return op.policy
}

// WindowFieldIndex returns the position reserved for the window's
// representative timestamp.
func (op *AggregationOp) WindowFieldIndex() int {
	return op.windowFieldIndex
}

// Windowed reports whether the operator inserts a windowing stage.
func (op *AggregationOp) Windowed() bool {
	return !op.policy.IsNone()
}

// Explain renders the operator for plan display. The window descriptor
// is emitted only when a window policy is present; an unknown policy
// kind fails here, at explain time.
func (op *AggregationOp) Explain() (string, error) {
	var sb strings.Builder
	sb.WriteString("Aggregation(group=[")
	for i, idx := range op.groupSet {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(op.inputSchema.Field(idx).Name)
	}
	sb.WriteString("], aggs=[")
	for i, call := range op.calls {
		if i > 0 {
			sb.WriteString(", ")
		}
		if call.Expression != "" {
			fmt.Fprintf(&sb, "%s(%s) AS %s", call.Kind, call.Expression, call.Output.Name)
			continue
		}
		args := make([]string, 0, len(call.Inputs))
		for _, idx := range call.Inputs {
			args = append(args, op.inputSchema.Field(idx).Name)
		}
		if len(args) == 0 {
			args = append(args, "*")
		}
		fmt.Fprintf(&sb, "%s(%s) AS %s", call.Kind, strings.Join(args, ", "), call.Output.Name)
	}
	sb.WriteString("]")
	if !op.policy.IsNone() {
		descriptor, err := op.policy.Describe(op.windowFieldIndex)
		if err != nil {
			return "", err
		}
		sb.WriteString(", window=")
		sb.WriteString(descriptor)
	}
	sb.WriteString(")")
	return sb.String(), nil
}

// Stage is the per-grouping-set slice of the expansion: the key
// extractor and output-row assembler for one variant.
type Stage struct {
	Keys  *KeyExtractor
	Merge *MergeStage
}

// Stages is the operator's expansion: the composition of windowing,
// grouping, combining and merging the engine executes. Every function it
// carries is pure and side-effect free.
type Stages struct {
	// Input is the single upstream row stream.
	Input Stream
	// Assigner extracts event timestamps and assigns windows. It places
	// every record in the global window when no policy is configured.
	Assigner *window.Assigner
	// Strategy is the windowing in effect on the stream entering
	// grouping, after the windowing stage.
	Strategy window.Strategy
	// Adaptor is the per-key, per-window incremental combiner.
	Adaptor *aggregator.Adaptor
	// Variants holds one grouping stage per grouping-set variant,
	// primary set first.
	Variants []Stage
}

// Expand composes the operator's stages over the child's output. The
// child must produce exactly one row stream; anything else is a fatal
// precondition violation. Before grouping, the window-support validator
// rejects configurations that would never emit on an unbounded stream.
func (op *AggregationOp) Expand() (*Stages, error) {
	streams := op.child.Streams()
	if len(streams) != 1 {
		return nil, types.NewPreconditionViolation("aggregation expects exactly one input stream, got %d", len(streams))
	}
	input := streams[0]
	if !input.Schema().Equal(op.inputSchema) {
		return nil, types.NewSchemaError("input stream schema %s does not match operator schema %s", input.Schema(), op.inputSchema)
	}

	assigner, err := window.NewAssigner(op.policy, op.windowFieldIndex, op.inputSchema)
	if err != nil {
		return nil, err
	}
	effective := window.ForPolicy(op.policy, input.Strategy())

	validator := newWindowSupportValidator()
	if err := validator.validate(effective, input.Bounded()); err != nil {
		return nil, err
	}

	variants := make([]Stage, len(op.groupSets))
	for i, variant := range op.groupSets {
		keys, err := NewKeyExtractor(op.inputSchema, variant, op.windowFieldIndexOrNone())
		if err != nil {
			return nil, err
		}
		merge, err := NewMergeStage(op.outputSchema, op.groupSet, variant, op.windowFieldIndexOrNone())
		if err != nil {
			return nil, err
		}
		variants[i] = Stage{Keys: keys, Merge: merge}
	}
	return &Stages{
		Input:    input,
		Assigner: assigner,
		Strategy: effective,
		Adaptor:  op.adaptor,
		Variants: variants,
	}, nil
}

// windowFieldIndexOrNone returns the window field index, or -1 when the
// operator is not windowed, so downstream stages never match a real
// field by accident.
func (op *AggregationOp) windowFieldIndexOrNone() int {
	if op.policy.IsNone() {
		return -1
	}
	return op.windowFieldIndex
}
