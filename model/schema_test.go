package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamwind/streamwind/types"
)

func TestSchemaLookup(t *testing.T) {
	schema := NewSchema(
		F("user", TypeString),
		F("amount", TypeFloat),
		F("ts", TypeTimestamp),
	)

	require.Equal(t, 3, schema.Len())
	assert.Equal(t, Field{Name: "amount", Type: TypeFloat}, schema.Field(1))

	idx, ok := schema.IndexOf("ts")
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = schema.IndexOf("missing")
	assert.False(t, ok)
}

func TestSchemaProject(t *testing.T) {
	schema := NewSchema(
		F("user", TypeString),
		F("amount", TypeFloat),
		F("ts", TypeTimestamp),
	)

	key, err := schema.Project([]int{2, 0})
	require.NoError(t, err)
	assert.True(t, key.Equal(NewSchema(F("ts", TypeTimestamp), F("user", TypeString))))

	_, err = schema.Project([]int{3})
	require.Error(t, err)
	assert.True(t, types.IsSchemaError(err))
}

func TestSchemaProjectIdempotent(t *testing.T) {
	schema := NewSchema(F("a", TypeInt), F("b", TypeFloat), F("c", TypeString))

	first, err := schema.Project([]int{1, 2})
	require.NoError(t, err)
	second, err := schema.Project([]int{1, 2})
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestFieldSetValidate(t *testing.T) {
	schema := NewSchema(F("a", TypeInt), F("b", TypeFloat))

	require.NoError(t, FieldSet{0, 1}.Validate(schema))

	err := FieldSet{0, 2}.Validate(schema)
	require.Error(t, err)
	assert.True(t, types.IsSchemaError(err))

	err = FieldSet{1, 1}.Validate(schema)
	require.Error(t, err)
	assert.True(t, types.IsSchemaError(err))

	err = FieldSet{-1}.Validate(schema)
	require.Error(t, err)
	assert.True(t, types.IsSchemaError(err))
}

func TestFieldSetWithout(t *testing.T) {
	fs := FieldSet{0, 2, 3}
	assert.Equal(t, FieldSet{0, 3}, fs.Without(2))
	assert.Equal(t, FieldSet{0, 2, 3}, fs.Without(5))
	assert.True(t, fs.Contains(2))
	assert.False(t, fs.Contains(1))
}
