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

package functions

import (
	"github.com/spf13/cast"

	"github.com/streamwind/streamwind/model"
)

// Builtin aggregate kind names.
const (
	SumStr   = "sum"
	CountStr = "count"
	AvgStr   = "avg"
	MinStr   = "min"
	MaxStr   = "max"
)

func init() {
	Register(SumStr, func() AggregatorFunction { return &SumFunction{} })
	Register(CountStr, func() AggregatorFunction { return &CountFunction{} })
	Register(AvgStr, func() AggregatorFunction { return &AvgFunction{} })
	Register(MinStr, func() AggregatorFunction { return &MinFunction{} })
	Register(MaxStr, func() AggregatorFunction { return &MaxFunction{} })
}

// SumFunction calculates the sum of numeric values.
type SumFunction struct {
	value     float64
	hasValues bool
}

func (f *SumFunction) Name() string { return SumStr }

func (f *SumFunction) New() AggregatorFunction { return &SumFunction{} }

func (f *SumFunction) Add(value interface{}) {
	if value == nil {
		return
	}
	if v, err := cast.ToFloat64E(value); err == nil {
		f.value += v
		f.hasValues = true
	}
}

func (f *SumFunction) Merge(other AggregatorFunction) {
	mustSameKind(f, other)
	o := other.(*SumFunction)
	f.value += o.value
	f.hasValues = f.hasValues || o.hasValues
}

func (f *SumFunction) Result() interface{} {
	if !f.hasValues {
		return nil
	}
	return f.value
}

func (f *SumFunction) Reset() {
	f.value = 0
	f.hasValues = false
}

func (f *SumFunction) AcceptsType(t model.FieldType) bool { return t.IsNumeric() }

func (f *SumFunction) ResultType(model.FieldType) model.FieldType { return model.TypeFloat }

// CountFunction counts added values, nil included. count(*) feeds it one
// value per row.
type CountFunction struct {
	count int64
}

func (f *CountFunction) Name() string { return CountStr }

func (f *CountFunction) New() AggregatorFunction { return &CountFunction{} }

func (f *CountFunction) Add(interface{}) {
	f.count++
}

func (f *CountFunction) Merge(other AggregatorFunction) {
	mustSameKind(f, other)
	f.count += other.(*CountFunction).count
}

func (f *CountFunction) Result() interface{} { return f.count }

func (f *CountFunction) Reset() { f.count = 0 }

func (f *CountFunction) AcceptsType(model.FieldType) bool { return true }

func (f *CountFunction) ResultType(model.FieldType) model.FieldType { return model.TypeInt }

// AvgFunction calculates the mean of numeric values. It carries the
// running sum and count so merging partial results stays exact.
type AvgFunction struct {
	sum   float64
	count int64
}

func (f *AvgFunction) Name() string { return AvgStr }

func (f *AvgFunction) New() AggregatorFunction { return &AvgFunction{} }

func (f *AvgFunction) Add(value interface{}) {
	if value == nil {
		return
	}
	if v, err := cast.ToFloat64E(value); err == nil {
		f.sum += v
		f.count++
	}
}

func (f *AvgFunction) Merge(other AggregatorFunction) {
	mustSameKind(f, other)
	o := other.(*AvgFunction)
	f.sum += o.sum
	f.count += o.count
}

func (f *AvgFunction) Result() interface{} {
	if f.count == 0 {
		return nil
	}
	return f.sum / float64(f.count)
}

func (f *AvgFunction) Reset() {
	f.sum = 0
	f.count = 0
}

func (f *AvgFunction) AcceptsType(t model.FieldType) bool { return t.IsNumeric() }

func (f *AvgFunction) ResultType(model.FieldType) model.FieldType { return model.TypeFloat }

// MinFunction tracks the smallest numeric value.
type MinFunction struct {
	value     float64
	hasValues bool
}

func (f *MinFunction) Name() string { return MinStr }

func (f *MinFunction) New() AggregatorFunction { return &MinFunction{} }

func (f *MinFunction) Add(value interface{}) {
	if value == nil {
		return
	}
	if v, err := cast.ToFloat64E(value); err == nil {
		if !f.hasValues || v < f.value {
			f.value = v
		}
		f.hasValues = true
	}
}

func (f *MinFunction) Merge(other AggregatorFunction) {
	mustSameKind(f, other)
	o := other.(*MinFunction)
	if o.hasValues && (!f.hasValues || o.value < f.value) {
		f.value = o.value
	}
	f.hasValues = f.hasValues || o.hasValues
}

func (f *MinFunction) Result() interface{} {
	if !f.hasValues {
		return nil
	}
	return f.value
}

func (f *MinFunction) Reset() {
	f.value = 0
	f.hasValues = false
}

func (f *MinFunction) AcceptsType(t model.FieldType) bool { return t.IsNumeric() }

func (f *MinFunction) ResultType(model.FieldType) model.FieldType { return model.TypeFloat }

// MaxFunction tracks the largest numeric value.
type MaxFunction struct {
	value     float64
	hasValues bool
}

func (f *MaxFunction) Name() string { return MaxStr }

func (f *MaxFunction) New() AggregatorFunction { return &MaxFunction{} }

func (f *MaxFunction) Add(value interface{}) {
	if value == nil {
		return
	}
	if v, err := cast.ToFloat64E(value); err == nil {
		if !f.hasValues || v > f.value {
			f.value = v
		}
		f.hasValues = true
	}
}

func (f *MaxFunction) Merge(other AggregatorFunction) {
	mustSameKind(f, other)
	o := other.(*MaxFunction)
	if o.hasValues && (!f.hasValues || o.value > f.value) {
		f.value = o.value
	}
	f.hasValues = f.hasValues || o.hasValues
}

func (f *MaxFunction) Result() interface{} {
	if !f.hasValues {
		return nil
	}
	return f.value
}

func (f *MaxFunction) Reset() {
	f.value = 0
	f.hasValues = false
}

func (f *MaxFunction) AcceptsType(t model.FieldType) bool { return t.IsNumeric() }

func (f *MaxFunction) ResultType(model.FieldType) model.FieldType { return model.TypeFloat }
