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

// Package types holds the error kinds shared by every StreamWind package.
// All of them are non-retriable: they describe a plan that can never
// execute correctly and are surfaced to the caller immediately.
package types

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// ErrorKind classifies a fatal plan error.
type ErrorKind int

const (
	// KindConfiguration marks an invalid operator or window configuration.
	KindConfiguration ErrorKind = iota
	// KindSchema marks a field index that is out of range or duplicated.
	KindSchema
	// KindTypeMismatch marks an aggregate function applied to a field of an
	// incompatible type.
	KindTypeMismatch
	// KindPrecondition marks a violated expansion precondition, such as an
	// operator receiving more than one input stream.
	KindPrecondition
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "ConfigurationError"
	case KindSchema:
		return "SchemaError"
	case KindTypeMismatch:
		return "TypeMismatchError"
	case KindPrecondition:
		return "PreconditionViolation"
	default:
		return "UnknownError"
	}
}

// Error is a kinded, stack-carrying error.
type Error struct {
	kind ErrorKind
	err  error
}

func (e *Error) Error() string {
	return e.kind.String() + ": " + e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

// Kind returns the error classification.
func (e *Error) Kind() ErrorKind {
	return e.kind
}

func newError(kind ErrorKind, format string, args ...interface{}) error {
	return &Error{kind: kind, err: errors.Errorf(format, args...)}
}

// NewConfigurationError creates a fatal configuration error.
func NewConfigurationError(format string, args ...interface{}) error {
	return newError(KindConfiguration, format, args...)
}

// NewSchemaError creates a fatal schema error.
func NewSchemaError(format string, args ...interface{}) error {
	return newError(KindSchema, format, args...)
}

// NewTypeMismatchError creates a fatal type mismatch error.
func NewTypeMismatchError(format string, args ...interface{}) error {
	return newError(KindTypeMismatch, format, args...)
}

// NewPreconditionViolation creates a fatal precondition violation.
func NewPreconditionViolation(format string, args ...interface{}) error {
	return newError(KindPrecondition, format, args...)
}

// Wrap attaches a kind to an existing error, keeping it in the chain.
func Wrap(kind ErrorKind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, err: errors.Wrap(err, message)}
}

// KindOf reports the kind of err if it is (or wraps) a StreamWind error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.kind, true
	}
	return 0, false
}

// IsConfigurationError reports whether err is a configuration error.
func IsConfigurationError(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindConfiguration
}

// IsSchemaError reports whether err is a schema error.
func IsSchemaError(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindSchema
}

// IsTypeMismatchError reports whether err is a type mismatch error.
func IsTypeMismatchError(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindTypeMismatch
}

// IsPreconditionViolation reports whether err is a precondition violation.
func IsPreconditionViolation(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindPrecondition
}
