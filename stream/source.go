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

// Package stream is the in-process reference engine for StreamWind: it
// executes an aggregation operator's expansion over bounded batches and
// unbounded channels. A distributed runtime would replace this package;
// the operator core never depends on it.
package stream

import (
	"github.com/streamwind/streamwind/model"
	"github.com/streamwind/streamwind/operator"
	"github.com/streamwind/streamwind/types"
	"github.com/streamwind/streamwind/window"
)

// Source is a single row stream feeding a pipeline. A bounded source
// holds a finite batch; an unbounded source is fed through Emit until
// Close. Every source starts under the ambient strategy of one global
// window with the default trigger.
type Source struct {
	schema   model.Schema
	bounded  bool
	strategy window.Strategy
	rows     []model.Row
	ch       chan model.Row
	closed   bool
}

// NewBounded creates a finite source over a batch of rows.
func NewBounded(schema model.Schema, rows ...model.Row) *Source {
	return &Source{
		schema:   schema,
		bounded:  true,
		strategy: window.GlobalDefault(),
		rows:     append([]model.Row(nil), rows...),
	}
}

// NewUnbounded creates a channel-fed source with the given buffer size.
func NewUnbounded(schema model.Schema, buffer int) *Source {
	if buffer <= 0 {
		buffer = 1024
	}
	return &Source{
		schema:   schema,
		strategy: window.GlobalDefault(),
		ch:       make(chan model.Row, buffer),
	}
}

// WithStrategy returns a copy of the source carrying an explicit ambient
// windowing strategy, for streams already windowed or triggered upstream.
func (s *Source) WithStrategy(strategy window.Strategy) *Source {
	clone := *s
	clone.strategy = strategy
	return &clone
}

// Schema returns the source's row schema.
func (s *Source) Schema() model.Schema {
	return s.schema
}

// Bounded reports whether the source is finite.
func (s *Source) Bounded() bool {
	return s.bounded
}

// Strategy returns the windowing in effect on the source.
func (s *Source) Strategy() window.Strategy {
	return s.strategy
}

// Streams makes a source usable as a single-output plan node.
func (s *Source) Streams() []operator.Stream {
	return []operator.Stream{s}
}

// All returns the bounded batch.
func (s *Source) All() []model.Row {
	return s.rows
}

// Chan returns the unbounded feed channel.
func (s *Source) Chan() <-chan model.Row {
	return s.ch
}

// Emit feeds one row into an unbounded source. The row schema must match
// the source schema.
func (s *Source) Emit(row model.Row) error {
	if s.bounded {
		return types.NewPreconditionViolation("cannot emit into a bounded source")
	}
	if !row.Schema().Equal(s.schema) {
		return types.NewSchemaError("row schema %s does not match source schema %s", row.Schema(), s.schema)
	}
	s.ch <- row
	return nil
}

// Close ends an unbounded source. Pending windows flush once the
// pipeline drains the channel.
func (s *Source) Close() {
	if !s.bounded && !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Group is a plan node producing several streams at once. Aggregations
// reject it at expansion time; it exists so multi-input plans can be
// represented and validated.
type Group []*Source

// Streams returns every member stream.
func (g Group) Streams() []operator.Stream {
	out := make([]operator.Stream, len(g))
	for i, s := range g {
		out[i] = s
	}
	return out
}
