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

// Package streamwind is a windowed grouped-aggregation engine for
// structured record streams.
//
// Given a stream of rows, a set of group-by fields, a list of aggregate
// functions and an optional event-time window policy, it produces one
// output row per (window, group key) pair: the group-key fields, the
// aggregate results and the window's representative timestamp.
//
// The core is the operator package: an immutable aggregation node that
// validates its configuration at construction time and expands into a
// composition of pure stages (timestamp extraction, window assignment,
// key extraction, incremental combining, output-row assembly). The
// stream package is an in-process reference engine executing that
// composition over bounded batches and unbounded channels; a
// distributed runtime would replace it without touching the core.
//
// Basic usage:
//
//	schema := model.NewSchema(
//		model.F("user", model.TypeString),
//		model.F("amount", model.TypeFloat),
//		model.F("ts", model.TypeTimestamp),
//	)
//	source := stream.NewBounded(schema, rows...)
//	sw := streamwind.New()
//	err := sw.Prepare(streamwind.Config{
//		Input:       schema,
//		GroupBy:     []string{"user", "ts"},
//		Aggregates:  []streamwind.Aggregate{{Func: "sum", Field: "amount", As: "total"}},
//		Window:      window.Fixed(time.Minute, 0),
//		WindowField: "ts",
//	}, source)
//	results, err := sw.Run(ctx)
//
// Windows follow event time read from the window field; skew against
// processing time is unbounded. Sliding windows count a record in every
// overlapping window by design.
package streamwind
