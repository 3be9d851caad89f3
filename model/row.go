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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/streamwind/streamwind/types"
)

// Row is an ordered tuple of field values bound to a schema. Rows are
// immutable once constructed.
type Row struct {
	schema Schema
	values []interface{}
}

// NewRow builds a row over schema. The number of values must match the
// schema length; values are not type-coerced here.
func NewRow(schema Schema, values ...interface{}) (Row, error) {
	if len(values) != schema.Len() {
		return Row{}, types.NewSchemaError("row has %d values but schema %s has %d fields", len(values), schema, schema.Len())
	}
	return Row{schema: schema, values: append([]interface{}(nil), values...)}, nil
}

// MustNewRow is NewRow that panics on arity mismatch. Intended for tests
// and examples.
func MustNewRow(schema Schema, values ...interface{}) Row {
	r, err := NewRow(schema, values...)
	if err != nil {
		panic(err)
	}
	return r
}

// Schema returns the row's schema.
func (r Row) Schema() Schema {
	return r.schema
}

// Len returns the number of fields.
func (r Row) Len() int {
	return len(r.values)
}

// Value returns the value at position i.
func (r Row) Value(i int) interface{} {
	return r.values[i]
}

// ValueByName returns the value of the named field.
func (r Row) ValueByName(name string) (interface{}, bool) {
	i, ok := r.schema.IndexOf(name)
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Values returns a copy of the value list.
func (r Row) Values() []interface{} {
	return append([]interface{}(nil), r.values...)
}

// AsMap returns the row as a field-name keyed map. Used to feed
// expression environments.
func (r Row) AsMap() map[string]interface{} {
	m := make(map[string]interface{}, len(r.values))
	for i, v := range r.values {
		m[r.schema.Field(i).Name] = v
	}
	return m
}

// Equal reports whether both rows have equal schemas and equal values.
// Timestamp values compare with time.Time.Equal.
func (r Row) Equal(other Row) bool {
	if !r.schema.Equal(other.schema) || len(r.values) != len(other.values) {
		return false
	}
	for i, v := range r.values {
		if t, ok := v.(time.Time); ok {
			o, ook := other.values[i].(time.Time)
			if !ook || !t.Equal(o) {
				return false
			}
			continue
		}
		if v != other.values[i] {
			return false
		}
	}
	return true
}

func (r Row) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, v := range r.values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(r.schema.Field(i).Name)
		sb.WriteByte(':')
		fmt.Fprintf(&sb, "%v", v)
	}
	sb.WriteByte('}')
	return sb.String()
}

// GroupKey is a row restricted to the group-key fields. Two records with
// equal group keys but different assigned windows never aggregate
// together: the engine partitions by (GroupKey, Window).
type GroupKey struct {
	Row
}

// NewGroupKey wraps a projected row as a group key.
func NewGroupKey(row Row) GroupKey {
	return GroupKey{Row: row}
}

// Encode renders a stable partition-key string for the group key. Each
// field is quoted so values containing the separator cannot collide with
// a different key split.
func (k GroupKey) Encode() string {
	var sb strings.Builder
	for i, v := range k.values {
		if i > 0 {
			sb.WriteByte('|')
		}
		switch t := v.(type) {
		case time.Time:
			fmt.Fprintf(&sb, "%d", t.UnixNano())
		case string:
			sb.WriteString(strconv.Quote(t))
		default:
			fmt.Fprintf(&sb, "%v", v)
		}
	}
	return sb.String()
}
