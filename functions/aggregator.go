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

// Package functions implements the incremental aggregate functions
// available to StreamWind aggregations, plus a registry for user-defined
// kinds.
package functions

import (
	"fmt"
	"sync"

	"github.com/streamwind/streamwind/model"
	"github.com/streamwind/streamwind/types"
)

// AggregatorFunction is one aggregate kind's incremental accumulator.
// Add folds a single input value; Merge folds another accumulator of the
// same kind into the receiver. Merge must be associative and commutative:
// partial results built from disjoint row subsets can be merged in any
// order and on any worker. Input order within a window is irrelevant for
// every builtin; any kind added later must document the same.
type AggregatorFunction interface {
	// Name returns the function kind, e.g. "sum".
	Name() string
	// New returns a fresh accumulator of the same kind.
	New() AggregatorFunction
	// Add folds one input value into the accumulator. Nil values are
	// ignored.
	Add(value interface{})
	// Merge folds other into the receiver. Other must be the same kind.
	Merge(other AggregatorFunction)
	// Result extracts the final output value, nil when no values were
	// added (count excepted).
	Result() interface{}
	// Reset returns the accumulator to its initial state.
	Reset()
	// AcceptsType reports whether input fields of type t can feed this
	// function.
	AcceptsType(t model.FieldType) bool
	// ResultType returns the output field type for the given input type.
	ResultType(input model.FieldType) model.FieldType
}

var (
	registry   = make(map[string]func() AggregatorFunction)
	registryMu sync.RWMutex
)

// Register adds a custom aggregator kind to the global registry. Custom
// kinds override builtins of the same name.
func Register(name string, constructor func() AggregatorFunction) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = constructor
}

// Get returns a fresh accumulator for the named kind.
func Get(name string) (AggregatorFunction, bool) {
	registryMu.RLock()
	constructor, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, false
	}
	return constructor(), true
}

// Create returns a fresh accumulator for the named kind, or a
// configuration error when the kind is unknown.
func Create(name string) (AggregatorFunction, error) {
	fn, ok := Get(name)
	if !ok {
		return nil, types.NewConfigurationError("unknown aggregate function %q", name)
	}
	return fn, nil
}

// mustSameKind asserts that other is the same concrete kind as self.
// A mismatch is an engine bug, not a recoverable condition.
func mustSameKind(self, other AggregatorFunction) {
	if self.Name() != other.Name() {
		panic(fmt.Sprintf("cannot merge aggregator %q into %q", other.Name(), self.Name()))
	}
}
