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
	"fmt"
	"sort"
	"time"
)

// Window is a concrete window instance assigned to a record: a half-open
// event-time interval [Start, End). For session policies it is the merged
// session interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// Global is the marker instance standing for the single global window of
// a stream without explicit windowing.
var Global = Window{}

// IsGlobal reports whether w is the global window marker.
func (w Window) IsGlobal() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// MaxTimestamp is the window's representative timestamp: its end minus
// one millisecond, since the end bound is exclusive. It is the value
// written into the synthetic window field of output rows.
func (w Window) MaxTimestamp() time.Time {
	return w.End.Add(-time.Millisecond)
}

// Contains reports whether t falls inside [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Intersects reports whether both intervals overlap.
func (w Window) Intersects(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// Span returns the smallest window covering both intervals.
func (w Window) Span(other Window) Window {
	out := w
	if other.Start.Before(out.Start) {
		out.Start = other.Start
	}
	if other.End.After(out.End) {
		out.End = other.End
	}
	return out
}

// Equal reports whether both windows cover the same interval.
func (w Window) Equal(other Window) bool {
	return w.Start.Equal(other.Start) && w.End.Equal(other.End)
}

// Key returns a comparable map-key representation with millisecond
// precision.
func (w Window) Key() [2]int64 {
	return [2]int64{w.Start.UnixMilli(), w.End.UnixMilli()}
}

func (w Window) String() string {
	if w.IsGlobal() {
		return "[global]"
	}
	return fmt.Sprintf("[%s, %s)", w.Start.UTC().Format(time.RFC3339Nano), w.End.UTC().Format(time.RFC3339Nano))
}

// MergeSessions merges every overlapping interval in ws and returns the
// resulting disjoint intervals sorted by start time. Inputs are proto
// session windows [ts, ts+gap) for one group key.
func MergeSessions(ws []Window) []Window {
	if len(ws) <= 1 {
		return append([]Window(nil), ws...)
	}
	sorted := append([]Window(nil), ws...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	merged := []Window{sorted[0]}
	for _, w := range sorted[1:] {
		last := &merged[len(merged)-1]
		if last.Intersects(w) {
			*last = last.Span(w)
		} else {
			merged = append(merged, w)
		}
	}
	return merged
}
