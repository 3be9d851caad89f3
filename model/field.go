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

// Package model defines the row and schema value types flowing through
// StreamWind operators. Rows and schemas are immutable values: once
// constructed they are never mutated, so they can be shared freely across
// workers.
package model

// FieldType identifies the type of a schema field.
type FieldType int

const (
	// TypeInt is a 64-bit signed integer field.
	TypeInt FieldType = iota
	// TypeFloat is a 64-bit float field.
	TypeFloat
	// TypeString is a string field.
	TypeString
	// TypeBool is a boolean field.
	TypeBool
	// TypeTimestamp is an event-time field carrying a time.Time value.
	TypeTimestamp
)

func (t FieldType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether values of this type can feed numeric
// aggregate functions.
func (t FieldType) IsNumeric() bool {
	return t == TypeInt || t == TypeFloat
}

// Field is a named, typed schema position.
type Field struct {
	Name string
	Type FieldType
}

// F is a shorthand constructor for Field.
func F(name string, typ FieldType) Field {
	return Field{Name: name, Type: typ}
}
