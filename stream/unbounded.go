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
	"time"

	"github.com/streamwind/streamwind/logger"
	"github.com/streamwind/streamwind/model"
	"github.com/streamwind/streamwind/operator"
	"github.com/streamwind/streamwind/types"
	"github.com/streamwind/streamwind/window"
)

// Start executes the pipeline over an unbounded source. Window lifetime
// is driven by the event-time watermark: a window closes and emits once
// the watermark passes its end. Closing the source flushes every open
// window and closes the returned channel. Records arriving behind the
// watermark after their window already closed are dropped.
func (p *Pipeline) Start(ctx context.Context) (<-chan model.Row, error) {
	stages, err := p.op.Expand()
	if err != nil {
		return nil, err
	}
	src, ok := stages.Input.(interface{ Chan() <-chan model.Row })
	if !ok || stages.Input.Bounded() {
		return nil, types.NewConfigurationError("Start requires an unbounded source; use Run for bounded input")
	}
	logger.Default().Debug("pipeline %s: starting unbounded run, out-of-orderness %v", p.id, p.outOfOrderness)
	out := make(chan model.Row, p.outBuffer)
	go p.consume(ctx, stages, src.Chan(), out)
	return out, nil
}

func (p *Pipeline) consume(ctx context.Context, stages *operator.Stages, in <-chan model.Row, out chan<- model.Row) {
	defer close(out)
	wm := NewWatermark(p.outOfOrderness)
	states := make([]*variantState, len(stages.Variants))
	for i := range states {
		states[i] = newVariantState()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case row, open := <-in:
			if !open {
				for i, stage := range stages.Variants {
					states[i].flush(ctx, stages, stage, out)
				}
				return
			}
			if p.filter != nil && !p.filter.Keep(row) {
				continue
			}
			watermark, windows, ok := p.observe(stages, wm, row)
			if !ok {
				continue
			}
			for i, stage := range stages.Variants {
				if err := states[i].add(stages, stage, row, windows, watermark); err != nil {
					logger.Default().Error("pipeline %s: combine failed: %v", p.id, err)
					continue
				}
				states[i].emitClosed(ctx, stages, stage, watermark, out)
			}
		}
	}
}

// observe extracts the event time, advances the watermark and assigns
// windows. Streams without an operator window policy stay in the global
// window and only flush when the source closes.
func (p *Pipeline) observe(stages *operator.Stages, wm *Watermark, row model.Row) (time.Time, []window.Window, bool) {
	if !p.op.Windowed() {
		return time.Time{}, []window.Window{window.Global}, true
	}
	ts, err := stages.Assigner.Timestamp(row)
	if err != nil {
		logger.Default().Error("pipeline %s: dropping row without event time: %v", p.id, err)
		return time.Time{}, nil, false
	}
	return wm.Observe(ts), stages.Assigner.Assign(ts), true
}

// variantState is the open window state of one grouping-set variant.
type variantState struct {
	entries map[accKey]*accEntry
	// sessions lists open session entries per group key. Session
	// intervals extend and merge as records arrive.
	sessions map[string][]*accEntry
	dropped  int64
}

func newVariantState() *variantState {
	return &variantState{
		entries:  make(map[accKey]*accEntry),
		sessions: make(map[string][]*accEntry),
	}
}

func (s *variantState) add(stages *operator.Stages, stage operator.Stage, row model.Row, windows []window.Window, watermark time.Time) error {
	key, err := stage.Keys.Extract(row)
	if err != nil {
		return err
	}
	enc := key.Encode()
	if stages.Assigner.Policy().Kind == window.KindSession {
		return s.addSession(stages, key, enc, row, windows[0], watermark)
	}
	for _, w := range windows {
		if !w.IsGlobal() && !watermark.IsZero() && !w.End.After(watermark) {
			// The window already closed and emitted.
			s.dropped++
			continue
		}
		k := accKey{enc: enc, win: w.Key()}
		entry, ok := s.entries[k]
		if !ok {
			entry = &accEntry{key: key, win: w, acc: stages.Adaptor.Init()}
			s.entries[k] = entry
		}
		if err := stages.Adaptor.Add(entry.acc, row); err != nil {
			return err
		}
	}
	return nil
}

// addSession folds the record into its session, merging every open
// session its proto window overlaps. Merging accumulators keeps the
// combine incremental: no raw rows are retained.
func (s *variantState) addSession(stages *operator.Stages, key model.GroupKey, enc string, row model.Row, proto window.Window, watermark time.Time) error {
	if !watermark.IsZero() && !proto.End.After(watermark) {
		s.dropped++
		return nil
	}
	open := s.sessions[enc]
	merged := &accEntry{key: key, win: proto, acc: stages.Adaptor.Init()}
	var remaining []*accEntry
	for _, session := range open {
		if session.win.Intersects(proto) {
			merged.win = merged.win.Span(session.win)
			merged.acc = stages.Adaptor.Merge(merged.acc, session.acc)
		} else {
			remaining = append(remaining, session)
		}
	}
	if err := stages.Adaptor.Add(merged.acc, row); err != nil {
		return err
	}
	s.sessions[enc] = append(remaining, merged)
	return nil
}

// emitClosed emits every window the watermark has passed.
func (s *variantState) emitClosed(ctx context.Context, stages *operator.Stages, stage operator.Stage, watermark time.Time, out chan<- model.Row) {
	if watermark.IsZero() {
		return
	}
	for k, entry := range s.entries {
		if entry.win.IsGlobal() || entry.win.End.After(watermark) {
			continue
		}
		s.emit(ctx, stages, stage, entry, out)
		delete(s.entries, k)
	}
	for enc, open := range s.sessions {
		var remaining []*accEntry
		for _, session := range open {
			if session.win.End.After(watermark) {
				remaining = append(remaining, session)
				continue
			}
			s.emit(ctx, stages, stage, session, out)
		}
		if len(remaining) == 0 {
			delete(s.sessions, enc)
		} else {
			s.sessions[enc] = remaining
		}
	}
}

// flush emits every open window; called when the source closes, which
// stands for the watermark reaching the end of time.
func (s *variantState) flush(ctx context.Context, stages *operator.Stages, stage operator.Stage, out chan<- model.Row) {
	if s.dropped > 0 {
		logger.Default().Debug("late rows dropped after their window closed: %d", s.dropped)
	}
	for _, entry := range s.entries {
		s.emit(ctx, stages, stage, entry, out)
	}
	for _, open := range s.sessions {
		for _, session := range open {
			s.emit(ctx, stages, stage, session, out)
		}
	}
	s.entries = make(map[accKey]*accEntry)
	s.sessions = make(map[string][]*accEntry)
}

func (s *variantState) emit(ctx context.Context, stages *operator.Stages, stage operator.Stage, entry *accEntry, out chan<- model.Row) {
	row, err := finalize(stages.Adaptor, stage.Merge, entry)
	if err != nil {
		logger.Default().Error("finalize window %v: %v", entry.win, err)
		return
	}
	select {
	case out <- row:
	case <-ctx.Done():
	}
}
