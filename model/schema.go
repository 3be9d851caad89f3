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

package model

import (
	"strings"

	"github.com/streamwind/streamwind/types"
)

// Schema is an ordered sequence of named, typed fields. Field order is
// semantically significant: it defines schema position.
type Schema struct {
	fields []Field
	byName map[string]int
}

// NewSchema builds a schema from the given fields in order.
func NewSchema(fields ...Field) Schema {
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, exists := byName[f.Name]; !exists {
			byName[f.Name] = i
		}
	}
	return Schema{fields: append([]Field(nil), fields...), byName: byName}
}

// Len returns the number of fields.
func (s Schema) Len() int {
	return len(s.fields)
}

// Field returns the field at position i.
func (s Schema) Field(i int) Field {
	return s.fields[i]
}

// Fields returns a copy of the field list.
func (s Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// IndexOf returns the position of the first field with the given name.
func (s Schema) IndexOf(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// Equal reports whether both schemas have the same fields in the same order.
func (s Schema) Equal(other Schema) bool {
	if len(s.fields) != len(other.fields) {
		return false
	}
	for i, f := range s.fields {
		if other.fields[i] != f {
			return false
		}
	}
	return true
}

// Project returns the schema restricted to the listed positions, in the
// listed order.
func (s Schema) Project(indexes []int) (Schema, error) {
	fields := make([]Field, 0, len(indexes))
	for _, i := range indexes {
		if i < 0 || i >= len(s.fields) {
			return Schema{}, types.NewSchemaError("field index %d out of range for schema with %d fields", i, len(s.fields))
		}
		fields = append(fields, s.fields[i])
	}
	return NewSchema(fields...), nil
}

// Concat returns a new schema with other's fields appended after s's.
func (s Schema) Concat(other Schema) Schema {
	return NewSchema(append(s.Fields(), other.fields...)...)
}

func (s Schema) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range s.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteByte(' ')
		sb.WriteString(f.Type.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// FieldSet is an ordered list of field indices identifying which input
// fields form a group key or an aggregate's inputs.
type FieldSet []int

// Validate checks that every index references a valid position in schema
// and that no index appears twice.
func (fs FieldSet) Validate(schema Schema) error {
	seen := make(map[int]bool, len(fs))
	for _, i := range fs {
		if i < 0 || i >= schema.Len() {
			return types.NewSchemaError("field index %d out of range for schema with %d fields", i, schema.Len())
		}
		if seen[i] {
			return types.NewSchemaError("duplicate field index %d", i)
		}
		seen[i] = true
	}
	return nil
}

// Contains reports whether index is a member of the set.
func (fs FieldSet) Contains(index int) bool {
	for _, i := range fs {
		if i == index {
			return true
		}
	}
	return false
}

// Without returns the set with every occurrence of index removed,
// preserving order.
func (fs FieldSet) Without(index int) FieldSet {
	out := make(FieldSet, 0, len(fs))
	for _, i := range fs {
		if i != index {
			out = append(out, i)
		}
	}
	return out
}

// Copy returns an independent copy of the set.
func (fs FieldSet) Copy() FieldSet {
	return append(FieldSet(nil), fs...)
}
