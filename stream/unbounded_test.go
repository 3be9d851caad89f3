package stream_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamwind/streamwind/logger"
	"github.com/streamwind/streamwind/model"
	"github.com/streamwind/streamwind/stream"
	"github.com/streamwind/streamwind/window"
)

func collect(t *testing.T, out <-chan model.Row, n int) []model.Row {
	t.Helper()
	rows := make([]model.Row, 0, n)
	timeout := time.After(5 * time.Second)
	for len(rows) < n {
		select {
		case row, open := <-out:
			if !open {
				return rows
			}
			rows = append(rows, row)
		case <-timeout:
			t.Fatalf("timed out waiting for %d rows, got %d", n, len(rows))
		}
	}
	return rows
}

func drain(t *testing.T, out <-chan model.Row) []model.Row {
	t.Helper()
	var rows []model.Row
	timeout := time.After(5 * time.Second)
	for {
		select {
		case row, open := <-out:
			if !open {
				return rows
			}
			rows = append(rows, row)
		case <-timeout:
			t.Fatal("timed out draining output")
		}
	}
}

func TestStartFixedWindowEmitsOnWatermark(t *testing.T) {
	src := stream.NewUnbounded(salesSchema(), 16)
	op := sumOp(t, src, model.FieldSet{0, 2}, nil, window.Fixed(10*time.Second, 0), 2)

	out, err := stream.NewPipeline(op).Start(context.Background())
	require.NoError(t, err)

	require.NoError(t, src.Emit(saleAt("a", 10, 2_000)))
	require.NoError(t, src.Emit(saleAt("a", 5, 8_000)))
	// Advancing event time past the first window's end closes it.
	require.NoError(t, src.Emit(saleAt("a", 7, 12_000)))

	outSchema := op.OutputSchema()
	first := collect(t, out, 1)
	assertRowsMatch(t, []model.Row{
		model.MustNewRow(outSchema, "a", time.UnixMilli(9_999).UTC(), 15.0),
	}, first)

	src.Close()
	rest := drain(t, out)
	assertRowsMatch(t, []model.Row{
		model.MustNewRow(outSchema, "a", time.UnixMilli(19_999).UTC(), 7.0),
	}, rest)
}

func TestStartDropsLateRecords(t *testing.T) {
	var logBuf bytes.Buffer
	oldLog := logger.Default()
	logger.SetDefault(logger.New(logger.DEBUG, &logBuf))
	defer logger.SetDefault(oldLog)

	src := stream.NewUnbounded(salesSchema(), 16)
	op := sumOp(t, src, model.FieldSet{0, 2}, nil, window.Fixed(10*time.Second, 0), 2)

	out, err := stream.NewPipeline(op).Start(context.Background())
	require.NoError(t, err)

	require.NoError(t, src.Emit(saleAt("a", 10, 2_000)))
	require.NoError(t, src.Emit(saleAt("a", 7, 12_000)))

	outSchema := op.OutputSchema()
	first := collect(t, out, 1)
	assertRowsMatch(t, []model.Row{
		model.MustNewRow(outSchema, "a", time.UnixMilli(9_999).UTC(), 10.0),
	}, first)

	// The [0s, 10s) window already closed; this record is dropped.
	require.NoError(t, src.Emit(saleAt("a", 99, 3_000)))

	src.Close()
	rest := drain(t, out)
	assertRowsMatch(t, []model.Row{
		model.MustNewRow(outSchema, "a", time.UnixMilli(19_999).UTC(), 7.0),
	}, rest)
	assert.Contains(t, logBuf.String(), "late rows dropped after their window closed: 1")
}

func TestStartOutOfOrderness(t *testing.T) {
	src := stream.NewUnbounded(salesSchema(), 16)
	op := sumOp(t, src, model.FieldSet{0, 2}, nil, window.Fixed(10*time.Second, 0), 2)

	out, err := stream.NewPipeline(op, stream.WithOutOfOrderness(5*time.Second)).Start(context.Background())
	require.NoError(t, err)

	require.NoError(t, src.Emit(saleAt("a", 10, 2_000)))
	// Watermark is 12s - 5s = 7s: the first window stays open.
	require.NoError(t, src.Emit(saleAt("a", 7, 12_000)))
	// A straggler behind the fastest event time still lands in it.
	require.NoError(t, src.Emit(saleAt("a", 5, 8_000)))

	src.Close()
	outSchema := op.OutputSchema()
	assertRowsMatch(t, []model.Row{
		model.MustNewRow(outSchema, "a", time.UnixMilli(9_999).UTC(), 15.0),
		model.MustNewRow(outSchema, "a", time.UnixMilli(19_999).UTC(), 7.0),
	}, drain(t, out))
}

func TestStartSessionWindows(t *testing.T) {
	src := stream.NewUnbounded(salesSchema(), 16)
	op := sumOp(t, src, model.FieldSet{0, 2}, nil, window.Session(5*time.Second), 2)

	out, err := stream.NewPipeline(op).Start(context.Background())
	require.NoError(t, err)

	require.NoError(t, src.Emit(saleAt("a", 10, 0)))
	// Extends the open session to [0s, 8s).
	require.NoError(t, src.Emit(saleAt("a", 5, 3_000)))
	// A gap larger than 5s closes the first session.
	require.NoError(t, src.Emit(saleAt("a", 7, 20_000)))

	outSchema := op.OutputSchema()
	first := collect(t, out, 1)
	assertRowsMatch(t, []model.Row{
		model.MustNewRow(outSchema, "a", time.UnixMilli(7_999).UTC(), 15.0),
	}, first)

	src.Close()
	assertRowsMatch(t, []model.Row{
		model.MustNewRow(outSchema, "a", time.UnixMilli(24_999).UTC(), 7.0),
	}, drain(t, out))
}

func TestStartContextCancel(t *testing.T) {
	src := stream.NewUnbounded(salesSchema(), 16)
	op := sumOp(t, src, model.FieldSet{0, 2}, nil, window.Fixed(10*time.Second, 0), 2)

	ctx, cancel := context.WithCancel(context.Background())
	out, err := stream.NewPipeline(op).Start(ctx)
	require.NoError(t, err)

	require.NoError(t, src.Emit(saleAt("a", 10, 2_000)))
	cancel()

	// The consumer stops and closes the output without flushing.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, open := <-out:
			if !open {
				return
			}
		case <-timeout:
			t.Fatal("output channel never closed after cancel")
		}
	}
}

func TestStartRequiresUnboundedSource(t *testing.T) {
	src := stream.NewBounded(salesSchema())
	op := sumOp(t, src, model.FieldSet{0, 2}, nil, window.Fixed(10*time.Second, 0), 2)

	_, err := stream.NewPipeline(op).Start(context.Background())
	require.Error(t, err)
}

func TestEmitIntoBoundedSource(t *testing.T) {
	src := stream.NewBounded(salesSchema())
	err := src.Emit(saleAt("a", 1, 0))
	require.Error(t, err)
}

func TestWatermarkNeverMovesBackwards(t *testing.T) {
	wm := stream.NewWatermark(2 * time.Second)

	w := wm.Observe(time.UnixMilli(10_000).UTC())
	assert.True(t, w.Equal(time.UnixMilli(8_000).UTC()))

	// Older events leave the watermark unchanged.
	w = wm.Observe(time.UnixMilli(5_000).UTC())
	assert.True(t, w.Equal(time.UnixMilli(8_000).UTC()))

	w = wm.Observe(time.UnixMilli(20_000).UTC())
	assert.True(t, w.Equal(time.UnixMilli(18_000).UTC()))

	assert.True(t, wm.IsLate(time.UnixMilli(17_000).UTC()))
	assert.False(t, wm.IsLate(time.UnixMilli(18_000).UTC()))
}
