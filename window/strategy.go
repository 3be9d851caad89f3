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

// Fn identifies the window function in effect on a stream.
type Fn int

const (
	// GlobalWindows places every record in one global window.
	GlobalWindows Fn = iota
	// IntervalWindows places records in bounded event-time intervals
	// (fixed, sliding or session policies).
	IntervalWindows
)

func (f Fn) String() string {
	switch f {
	case GlobalWindows:
		return "GlobalWindows"
	case IntervalWindows:
		return "IntervalWindows"
	default:
		return "UnknownFn"
	}
}

// Trigger identifies the trigger in effect on a stream. The core never
// implements triggering; it only inspects the configured kind.
type Trigger int

const (
	// DefaultTrigger fires once when the watermark passes the end of the
	// window. Under GlobalWindows on an unbounded stream it never fires.
	DefaultTrigger Trigger = iota
	// EarlyTrigger stands for any explicitly configured early-firing
	// trigger supplied by the surrounding engine.
	EarlyTrigger
)

func (t Trigger) String() string {
	switch t {
	case DefaultTrigger:
		return "DefaultTrigger"
	case EarlyTrigger:
		return "EarlyTrigger"
	default:
		return "UnknownTrigger"
	}
}

// Strategy is the effective windowing of a stream: the window function
// plus the trigger closing its windows.
type Strategy struct {
	Fn      Fn
	Trigger Trigger
}

// GlobalDefault is the ambient strategy of a stream without explicit
// windowing: one global window closed by the default trigger.
func GlobalDefault() Strategy {
	return Strategy{Fn: GlobalWindows, Trigger: DefaultTrigger}
}

// ForPolicy returns the strategy in effect after applying policy to a
// stream. The None policy leaves the ambient strategy untouched, so it
// has no strategy of its own.
func ForPolicy(p Policy, ambient Strategy) Strategy {
	if p.IsNone() {
		return ambient
	}
	return Strategy{Fn: IntervalWindows, Trigger: DefaultTrigger}
}
