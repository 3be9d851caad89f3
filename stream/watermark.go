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
	"sync"
	"time"
)

// Watermark estimates event-time completeness for an unbounded pipeline:
// no records with timestamps before the watermark are expected. Windows
// whose end is at or before the watermark can close and emit.
type Watermark struct {
	mu                sync.RWMutex
	maxEventTime      time.Time
	maxOutOfOrderness time.Duration
	current           time.Time
}

// NewWatermark creates a watermark tracker. maxOutOfOrderness is how far
// behind the fastest-seen event time records may still arrive.
func NewWatermark(maxOutOfOrderness time.Duration) *Watermark {
	return &Watermark{maxOutOfOrderness: maxOutOfOrderness}
}

// Observe advances the watermark for one event timestamp and returns the
// current watermark. The watermark never moves backwards.
func (w *Watermark) Observe(eventTime time.Time) time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.maxEventTime.IsZero() || eventTime.After(w.maxEventTime) {
		w.maxEventTime = eventTime
		candidate := eventTime.Add(-w.maxOutOfOrderness)
		if w.current.IsZero() || candidate.After(w.current) {
			w.current = candidate
		}
	}
	return w.current
}

// Current returns the current watermark; zero until the first event.
func (w *Watermark) Current() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// IsLate reports whether eventTime is behind the current watermark.
func (w *Watermark) IsLate(eventTime time.Time) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return !w.current.IsZero() && eventTime.Before(w.current)
}
