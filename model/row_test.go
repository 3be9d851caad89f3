package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamwind/streamwind/types"
)

func TestNewRowArity(t *testing.T) {
	schema := NewSchema(F("user", TypeString), F("amount", TypeFloat))

	row, err := NewRow(schema, "a", 10.0)
	require.NoError(t, err)
	assert.Equal(t, "a", row.Value(0))
	assert.Equal(t, 10.0, row.Value(1))

	_, err = NewRow(schema, "a")
	require.Error(t, err)
	assert.True(t, types.IsSchemaError(err))
}

func TestRowAsMap(t *testing.T) {
	schema := NewSchema(F("user", TypeString), F("amount", TypeFloat))
	row := MustNewRow(schema, "a", 10.0)

	assert.Equal(t, map[string]interface{}{"user": "a", "amount": 10.0}, row.AsMap())
}

func TestRowEqual(t *testing.T) {
	schema := NewSchema(F("user", TypeString), F("ts", TypeTimestamp))
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	a := MustNewRow(schema, "a", base)
	b := MustNewRow(schema, "a", base.In(time.FixedZone("x", 3600)))
	c := MustNewRow(schema, "a", base.Add(time.Second))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestGroupKeyEncode(t *testing.T) {
	schema := NewSchema(F("user", TypeString), F("region", TypeString))

	k1 := NewGroupKey(MustNewRow(schema, "a", "eu"))
	k2 := NewGroupKey(MustNewRow(schema, "a", "eu"))
	k3 := NewGroupKey(MustNewRow(schema, "a", "us"))

	assert.Equal(t, k1.Encode(), k2.Encode())
	assert.NotEqual(t, k1.Encode(), k3.Encode())
}

// Values containing the separator must not collide with a different
// split of the same characters.
func TestGroupKeyEncodeSeparatorValues(t *testing.T) {
	schema := NewSchema(F("a", TypeString), F("b", TypeString))

	k1 := NewGroupKey(MustNewRow(schema, "x|y", "z"))
	k2 := NewGroupKey(MustNewRow(schema, "x", "y|z"))
	assert.NotEqual(t, k1.Encode(), k2.Encode())

	k3 := NewGroupKey(MustNewRow(schema, `x"`, `y`))
	k4 := NewGroupKey(MustNewRow(schema, `x`, `"y`))
	assert.NotEqual(t, k3.Encode(), k4.Encode())
}
