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

// Package window implements event-time window policies and per-record
// window assignment for StreamWind aggregations.
package window

import (
	"fmt"
	"time"

	"github.com/streamwind/streamwind/types"
)

// Kind tags a window policy variant.
type Kind int

const (
	// KindNone means no windowing stage is inserted; the stream keeps its
	// ambient windowing.
	KindNone Kind = iota
	// KindFixed is a tumbling window of fixed size.
	KindFixed
	// KindSliding is an overlapping window advancing by a fixed period.
	KindSliding
	// KindSession is a gap-delimited merging window.
	KindSession
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindFixed:
		return "Fixed"
	case KindSliding:
		return "Sliding"
	case KindSession:
		return "Session"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Policy is the tagged window-policy variant attached to an aggregation
// operator. It is fixed at operator construction time and copied verbatim
// when the operator is cloned with a different child input.
type Policy struct {
	Kind Kind
	// Size is the window length for fixed and sliding windows.
	Size time.Duration
	// Period is the slide interval for sliding windows.
	Period time.Duration
	// Offset shifts fixed and sliding window boundaries from the epoch.
	Offset time.Duration
	// Gap is the inactivity gap closing a session window.
	Gap time.Duration
}

// None returns the absent policy: no windowing stage is inserted.
func None() Policy {
	return Policy{Kind: KindNone}
}

// Fixed returns a tumbling window policy.
func Fixed(size, offset time.Duration) Policy {
	return Policy{Kind: KindFixed, Size: size, Offset: offset}
}

// Sliding returns a sliding window policy.
func Sliding(size, period, offset time.Duration) Policy {
	return Policy{Kind: KindSliding, Size: size, Period: period, Offset: offset}
}

// Session returns a session window policy.
func Session(gap time.Duration) Policy {
	return Policy{Kind: KindSession, Gap: gap}
}

// IsNone reports whether the policy inserts no windowing stage.
func (p Policy) IsNone() bool {
	return p.Kind == KindNone
}

// Validate checks the policy invariants: size > 0, period > 0 and
// period <= size for sliding, gap > 0 for session.
func (p Policy) Validate() error {
	switch p.Kind {
	case KindNone:
		return nil
	case KindFixed:
		if p.Size <= 0 {
			return types.NewConfigurationError("fixed window size must be positive, got %v", p.Size)
		}
		return nil
	case KindSliding:
		if p.Size <= 0 {
			return types.NewConfigurationError("sliding window size must be positive, got %v", p.Size)
		}
		if p.Period <= 0 {
			return types.NewConfigurationError("sliding window period must be positive, got %v", p.Period)
		}
		if p.Period > p.Size {
			return types.NewConfigurationError("sliding window period %v must not exceed size %v", p.Period, p.Size)
		}
		return nil
	case KindSession:
		if p.Gap <= 0 {
			return types.NewConfigurationError("session window gap must be positive, got %v", p.Gap)
		}
		return nil
	default:
		return types.NewConfigurationError("unknown window function %s", p.Kind)
	}
}

// Describe renders the stable plan-explain descriptor for the policy,
// with fieldIndex the position of the synthetic window field:
//
//	Fixed(#idx, size, offset)
//	Sliding(#idx, period, size, offset)
//	Session(#idx, gap)
//
// Calling Describe on the None policy or an unknown kind is a
// configuration error.
func (p Policy) Describe(fieldIndex int) (string, error) {
	switch p.Kind {
	case KindFixed:
		return fmt.Sprintf("Fixed(#%d, %v, %v)", fieldIndex, p.Size, p.Offset), nil
	case KindSliding:
		return fmt.Sprintf("Sliding(#%d, %v, %v, %v)", fieldIndex, p.Period, p.Size, p.Offset), nil
	case KindSession:
		return fmt.Sprintf("Session(#%d, %v)", fieldIndex, p.Gap), nil
	default:
		return "", types.NewConfigurationError("unknown window function %s", p.Kind)
	}
}
