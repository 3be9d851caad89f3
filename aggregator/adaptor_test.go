package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamwind/streamwind/functions"
	"github.com/streamwind/streamwind/model"
	"github.com/streamwind/streamwind/types"
)

func salesSchema() model.Schema {
	return model.NewSchema(
		model.F("user", model.TypeString),
		model.F("amount", model.TypeFloat),
		model.F("qty", model.TypeInt),
	)
}

func salesCalls() []Call {
	return []Call{
		{Kind: functions.SumStr, Inputs: model.FieldSet{1}, Output: model.F("total", model.TypeFloat)},
		{Kind: functions.CountStr, Output: model.F("n", model.TypeInt)},
	}
}

func TestNewAdaptorSchema(t *testing.T) {
	adaptor, err := NewAdaptor(salesCalls(), salesSchema())
	require.NoError(t, err)
	assert.True(t, adaptor.Schema().Equal(model.NewSchema(
		model.F("total", model.TypeFloat),
		model.F("n", model.TypeInt),
	)))
}

func TestNewAdaptorErrors(t *testing.T) {
	schema := salesSchema()

	_, err := NewAdaptor([]Call{
		{Kind: "median", Inputs: model.FieldSet{1}, Output: model.F("m", model.TypeFloat)},
	}, schema)
	require.Error(t, err)
	assert.True(t, types.IsConfigurationError(err))

	_, err = NewAdaptor([]Call{
		{Kind: functions.SumStr, Inputs: model.FieldSet{9}, Output: model.F("total", model.TypeFloat)},
	}, schema)
	require.Error(t, err)
	assert.True(t, types.IsSchemaError(err))

	_, err = NewAdaptor([]Call{
		{Kind: functions.SumStr, Inputs: model.FieldSet{0}, Output: model.F("total", model.TypeFloat)},
	}, schema)
	require.Error(t, err)
	assert.True(t, types.IsTypeMismatchError(err))

	_, err = NewAdaptor([]Call{
		{Kind: functions.SumStr, Inputs: model.FieldSet{1}, Output: model.F("total", model.TypeString)},
	}, schema)
	require.Error(t, err)
	assert.True(t, types.IsTypeMismatchError(err))

	_, err = NewAdaptor([]Call{
		{Kind: functions.SumStr, Inputs: model.FieldSet{1}, Expression: "amount * 2", Output: model.F("total", model.TypeFloat)},
	}, schema)
	require.Error(t, err)
	assert.True(t, types.IsConfigurationError(err))
}

func TestAdaptorAddExtract(t *testing.T) {
	adaptor, err := NewAdaptor(salesCalls(), salesSchema())
	require.NoError(t, err)

	acc := adaptor.Init()
	for _, amount := range []float64{10, 5, 7} {
		require.NoError(t, adaptor.Add(acc, model.MustNewRow(salesSchema(), "a", amount, int64(1))))
	}

	out, err := adaptor.Extract(acc)
	require.NoError(t, err)
	assert.Equal(t, 22.0, out.Value(0))
	assert.Equal(t, int64(3), out.Value(1))
}

func TestAdaptorMergeOrderIndependent(t *testing.T) {
	adaptor, err := NewAdaptor(salesCalls(), salesSchema())
	require.NoError(t, err)

	feed := func(amounts ...float64) Accumulator {
		acc := adaptor.Init()
		for _, amount := range amounts {
			require.NoError(t, adaptor.Add(acc, model.MustNewRow(salesSchema(), "a", amount, int64(1))))
		}
		return acc
	}

	ab := adaptor.Merge(feed(1, 2), feed(3))
	ba := adaptor.Merge(feed(3), feed(1, 2))

	outAB, err := adaptor.Extract(ab)
	require.NoError(t, err)
	outBA, err := adaptor.Extract(ba)
	require.NoError(t, err)
	assert.True(t, outAB.Equal(outBA))
	assert.Equal(t, 6.0, outAB.Value(0))
	assert.Equal(t, int64(3), outAB.Value(1))
}

func TestAdaptorExpressionInput(t *testing.T) {
	calls := []Call{
		{Kind: functions.SumStr, Expression: "amount * qty", Output: model.F("weighted", model.TypeFloat)},
	}
	adaptor, err := NewAdaptor(calls, salesSchema())
	require.NoError(t, err)

	acc := adaptor.Init()
	require.NoError(t, adaptor.Add(acc, model.MustNewRow(salesSchema(), "a", 2.0, int64(3))))
	require.NoError(t, adaptor.Add(acc, model.MustNewRow(salesSchema(), "a", 4.0, int64(2))))

	out, err := adaptor.Extract(acc)
	require.NoError(t, err)
	assert.Equal(t, 14.0, out.Value(0))
}

func TestAdaptorEmptyAccumulator(t *testing.T) {
	adaptor, err := NewAdaptor(salesCalls(), salesSchema())
	require.NoError(t, err)

	out, err := adaptor.Extract(adaptor.Init())
	require.NoError(t, err)
	assert.Nil(t, out.Value(0))
	assert.Equal(t, int64(0), out.Value(1))
}
