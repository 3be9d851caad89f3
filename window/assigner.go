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

package window

import (
	"time"

	"github.com/spf13/cast"

	"github.com/streamwind/streamwind/model"
	"github.com/streamwind/streamwind/types"
)

// Assigner converts a window policy plus the designated window field
// index into per-record event-time extraction and window assignment.
// Both functions are pure: the engine may invoke them in any order, on
// any worker, and re-execute them on failure.
type Assigner struct {
	policy     Policy
	fieldIndex int
}

// NewAssigner validates the policy against the input schema and returns
// an assigner. The window field must be a timestamp field. A None policy
// yields a pass-through assigner placing every record in the global
// window.
func NewAssigner(policy Policy, fieldIndex int, input model.Schema) (*Assigner, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if !policy.IsNone() {
		if fieldIndex < 0 || fieldIndex >= input.Len() {
			return nil, types.NewSchemaError("window field index %d out of range for schema with %d fields", fieldIndex, input.Len())
		}
		if f := input.Field(fieldIndex); f.Type != model.TypeTimestamp {
			return nil, types.NewTypeMismatchError("window field %q must be a timestamp, got %s", f.Name, f.Type)
		}
	}
	return &Assigner{policy: policy, fieldIndex: fieldIndex}, nil
}

// Policy returns the assigner's window policy.
func (a *Assigner) Policy() Policy {
	return a.policy
}

// Timestamp reads the record's event time from the window field. Skew
// between event time and processing time is unbounded: a record is never
// rejected for being too late or too early relative to ingestion.
func (a *Assigner) Timestamp(row model.Row) (time.Time, error) {
	v := row.Value(a.fieldIndex)
	switch t := v.(type) {
	case time.Time:
		return t, nil
	default:
		// Epoch milliseconds are accepted for timestamp fields carried
		// as integers.
		millis, err := cast.ToInt64E(v)
		if err != nil {
			return time.Time{}, types.NewTypeMismatchError("window field %q holds %T, want time.Time or epoch millis",
				row.Schema().Field(a.fieldIndex).Name, v)
		}
		return time.UnixMilli(millis).UTC(), nil
	}
}

// Assign maps an event timestamp to the window(s) containing it. Sliding
// policies assign each record to every overlapping window by design.
// Session policies return the proto window [ts, ts+gap); proto windows
// for one key are merged later with MergeSessions.
func (a *Assigner) Assign(ts time.Time) []Window {
	switch a.policy.Kind {
	case KindNone:
		return []Window{Global}
	case KindFixed:
		start := lastAlignedStart(ts, a.policy.Size, a.policy.Offset)
		return []Window{{Start: start, End: start.Add(a.policy.Size)}}
	case KindSliding:
		var ws []Window
		last := lastAlignedStart(ts, a.policy.Period, a.policy.Offset)
		for start := last; start.Add(a.policy.Size).After(ts); start = start.Add(-a.policy.Period) {
			ws = append(ws, Window{Start: start, End: start.Add(a.policy.Size)})
		}
		return ws
	case KindSession:
		return []Window{{Start: ts, End: ts.Add(a.policy.Gap)}}
	default:
		// Unreachable for validated policies; Validate rejects unknown
		// kinds at construction time.
		return nil
	}
}

// lastAlignedStart returns the latest window start not after ts, with
// starts aligned to the epoch every interval, shifted by offset.
func lastAlignedStart(ts time.Time, interval, offset time.Duration) time.Time {
	tsMillis := ts.UnixMilli()
	intervalMillis := interval.Milliseconds()
	offsetMillis := offset.Milliseconds()
	rem := floorMod(tsMillis-offsetMillis, intervalMillis)
	return time.UnixMilli(tsMillis - rem).UTC()
}

// floorMod is the Euclidean remainder: always in [0, m).
func floorMod(x, m int64) int64 {
	r := x % m
	if r < 0 {
		r += m
	}
	return r
}
