package types

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind ErrorKind
		is   func(error) bool
	}{
		{NewConfigurationError("bad window"), KindConfiguration, IsConfigurationError},
		{NewSchemaError("bad index"), KindSchema, IsSchemaError},
		{NewTypeMismatchError("bad type"), KindTypeMismatch, IsTypeMismatchError},
		{NewPreconditionViolation("two inputs"), KindPrecondition, IsPreconditionViolation},
	}
	for _, tc := range cases {
		k, ok := KindOf(tc.err)
		require.True(t, ok)
		assert.Equal(t, tc.kind, k)
		assert.True(t, tc.is(tc.err))
		assert.Contains(t, tc.err.Error(), tc.kind.String())
	}
}

func TestKindsAreDistinct(t *testing.T) {
	err := NewSchemaError("bad index")
	assert.False(t, IsConfigurationError(err))
	assert.False(t, IsTypeMismatchError(err))
	assert.False(t, IsPreconditionViolation(err))
}

func TestKindOfForeignError(t *testing.T) {
	_, ok := KindOf(io.EOF)
	assert.False(t, ok)
	assert.False(t, IsConfigurationError(io.EOF))
}

func TestWrapKeepsCause(t *testing.T) {
	wrapped := Wrap(KindConfiguration, io.EOF, "read plan")
	require.Error(t, wrapped)
	assert.True(t, IsConfigurationError(wrapped))
	assert.Equal(t, io.EOF, errors.Cause(errors.Unwrap(wrapped)))

	assert.NoError(t, Wrap(KindConfiguration, nil, "read plan"))
}

func TestWrapThroughChain(t *testing.T) {
	inner := NewSchemaError("bad index")
	outer := errors.Wrap(inner, "building operator")
	assert.True(t, IsSchemaError(outer))
}
