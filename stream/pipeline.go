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

package stream

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"

	"github.com/streamwind/streamwind/aggregator"
	"github.com/streamwind/streamwind/logger"
	"github.com/streamwind/streamwind/model"
	"github.com/streamwind/streamwind/operator"
	"github.com/streamwind/streamwind/types"
	"github.com/streamwind/streamwind/window"
)

// Pipeline executes one aggregation operator over its child source.
// Grouping is implemented as a hash shuffle across partitions; each
// partition combines its rows into partial accumulators on a worker
// pool, and only the compact partials cross partition boundaries before
// the final merge (combiner lifting).
type Pipeline struct {
	id             string
	op             *operator.AggregationOp
	partitions     int
	poolSize       int
	filter         *Filter
	outOfOrderness time.Duration
	outBuffer      int
}

// Option configures a pipeline.
type Option func(*Pipeline)

// WithPartitions sets the number of shuffle partitions.
func WithPartitions(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.partitions = n
		}
	}
}

// WithPoolSize sets the combine worker pool size.
func WithPoolSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.poolSize = n
		}
	}
}

// WithFilter applies a row predicate before the aggregation stages.
func WithFilter(f *Filter) Option {
	return func(p *Pipeline) {
		p.filter = f
	}
}

// WithOutOfOrderness sets how far behind the fastest event time records
// may arrive on an unbounded source before their window is considered
// closed.
func WithOutOfOrderness(d time.Duration) Option {
	return func(p *Pipeline) {
		if d >= 0 {
			p.outOfOrderness = d
		}
	}
}

// WithOutputBuffer sets the output channel buffer for unbounded runs.
func WithOutputBuffer(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.outBuffer = n
		}
	}
}

// NewPipeline wraps an operator for execution.
func NewPipeline(op *operator.AggregationOp, opts ...Option) *Pipeline {
	p := &Pipeline{
		id:         uuid.NewString(),
		op:         op,
		partitions: 4,
		poolSize:   4,
		outBuffer:  1024,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the pipeline instance id.
func (p *Pipeline) ID() string {
	return p.id
}

// keyedRow is one input row tagged with its group key and assigned
// windows for a single grouping-set variant.
type keyedRow struct {
	key     model.GroupKey
	enc     string
	row     model.Row
	windows []window.Window
}

// accKey identifies one (group key, window) accumulator.
type accKey struct {
	enc string
	win [2]int64
}

// accEntry is the open state of one (group key, window) pair.
type accEntry struct {
	key model.GroupKey
	win window.Window
	acc aggregator.Accumulator
}

// Run executes the pipeline over a bounded source and returns the output
// rows. Output order is unspecified.
func (p *Pipeline) Run(ctx context.Context) ([]model.Row, error) {
	stages, err := p.op.Expand()
	if err != nil {
		return nil, err
	}
	src, ok := stages.Input.(interface{ All() []model.Row })
	if !ok || !stages.Input.Bounded() {
		return nil, types.NewConfigurationError("Run requires a bounded source; use Start for unbounded input")
	}
	rows := src.All()
	logger.Default().Debug("pipeline %s: aggregating bounded batch of %d rows across %d partitions", p.id, len(rows), p.partitions)

	tagged, err := p.assign(stages, rows)
	if err != nil {
		return nil, err
	}

	var out []model.Row
	for _, stage := range stages.Variants {
		variantOut, err := p.runVariant(ctx, stages, stage, tagged)
		if err != nil {
			return nil, err
		}
		out = append(out, variantOut...)
	}
	logger.Default().Debug("pipeline %s: emitted %d rows", p.id, len(out))
	return out, nil
}

type taggedRow struct {
	row     model.Row
	windows []window.Window
}

// assign filters rows and attaches event-time windows.
func (p *Pipeline) assign(stages *operator.Stages, rows []model.Row) ([]taggedRow, error) {
	out := make([]taggedRow, 0, len(rows))
	for _, row := range rows {
		if p.filter != nil && !p.filter.Keep(row) {
			continue
		}
		if p.op.Windowed() {
			ts, err := stages.Assigner.Timestamp(row)
			if err != nil {
				return nil, err
			}
			out = append(out, taggedRow{row: row, windows: stages.Assigner.Assign(ts)})
		} else {
			out = append(out, taggedRow{row: row, windows: []window.Window{window.Global}})
		}
	}
	return out, nil
}

// runVariant shuffles, combines and merges one grouping-set variant.
func (p *Pipeline) runVariant(ctx context.Context, stages *operator.Stages, stage operator.Stage, tagged []taggedRow) ([]model.Row, error) {
	keyed := make([]keyedRow, 0, len(tagged))
	for _, tr := range tagged {
		key, err := stage.Keys.Extract(tr.row)
		if err != nil {
			return nil, err
		}
		keyed = append(keyed, keyedRow{key: key, enc: key.Encode(), row: tr.row, windows: tr.windows})
	}
	if p.op.Policy().Kind == window.KindSession {
		mergeSessionWindows(keyed)
	}

	buckets := make([][]keyedRow, p.partitions)
	for _, kr := range keyed {
		i := partitionOf(kr.enc, p.partitions)
		buckets[i] = append(buckets[i], kr)
	}

	partials := make([]map[accKey]*accEntry, p.partitions)
	pool, err := ants.NewPool(p.poolSize)
	if err != nil {
		return nil, errors.Wrap(err, "create combine pool")
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var combineErr error
	for i := range buckets {
		i := i
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			local := make(map[accKey]*accEntry)
			for _, kr := range buckets[i] {
				for _, w := range kr.windows {
					k := accKey{enc: kr.enc, win: w.Key()}
					entry, ok := local[k]
					if !ok {
						entry = &accEntry{key: kr.key, win: w, acc: stages.Adaptor.Init()}
						local[k] = entry
					}
					if err := stages.Adaptor.Add(entry.acc, kr.row); err != nil {
						mu.Lock()
						if combineErr == nil {
							combineErr = err
						}
						mu.Unlock()
						return
					}
				}
			}
			partials[i] = local
		})
		if submitErr != nil {
			wg.Done()
			return nil, errors.Wrap(submitErr, "submit partition combine")
		}
	}
	wg.Wait()
	if combineErr != nil {
		return nil, combineErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Only compact partial accumulators cross partitions here.
	merged := make(map[accKey]*accEntry)
	for _, local := range partials {
		for k, entry := range local {
			if cur, ok := merged[k]; ok {
				cur.acc = stages.Adaptor.Merge(cur.acc, entry.acc)
			} else {
				merged[k] = entry
			}
		}
	}

	out := make([]model.Row, 0, len(merged))
	for _, entry := range merged {
		row, err := finalize(stages.Adaptor, stage.Merge, entry)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// finalize extracts one closed accumulator and assembles its output row.
func finalize(adaptor *aggregator.Adaptor, merge *operator.MergeStage, entry *accEntry) (model.Row, error) {
	aggRow, err := adaptor.Extract(entry.acc)
	if err != nil {
		return model.Row{}, err
	}
	return merge.MergeRecord(entry.key, aggRow, entry.win)
}

// mergeSessionWindows replaces per-record proto session windows with the
// merged session intervals of their group key. A proto window's start is
// the record timestamp, so it falls in exactly one merged interval.
func mergeSessionWindows(rows []keyedRow) {
	protos := make(map[string][]window.Window)
	for _, kr := range rows {
		protos[kr.enc] = append(protos[kr.enc], kr.windows...)
	}
	merged := make(map[string][]window.Window, len(protos))
	for enc, ws := range protos {
		merged[enc] = window.MergeSessions(ws)
	}
	for i := range rows {
		sessions := merged[rows[i].enc]
		replaced := make([]window.Window, len(rows[i].windows))
		for j, proto := range rows[i].windows {
			replaced[j] = sessionFor(proto, sessions)
		}
		rows[i].windows = replaced
	}
}

func sessionFor(proto window.Window, sessions []window.Window) window.Window {
	for _, s := range sessions {
		if s.Contains(proto.Start) {
			return s
		}
	}
	// Unreachable: merged sessions cover every proto start.
	return proto
}

func partitionOf(enc string, partitions int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(enc))
	return int(h.Sum32() % uint32(partitions))
}
