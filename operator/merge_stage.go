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

package operator

import (
	"github.com/streamwind/streamwind/model"
	"github.com/streamwind/streamwind/types"
	"github.com/streamwind/streamwind/window"
)

// MergeStage reassembles final output rows from (group key,
// aggregate-value row, window) triples. Reconstruction is deterministic:
// key fields land at their group-set positions, aggregate fields follow,
// group positions not covered by this grouping-set variant are null, and
// the window's representative timestamp goes into the synthetic window
// field. This is the only code path that writes the window field value.
type MergeStage struct {
	output           model.Schema
	groupSet         model.FieldSet
	windowFieldIndex int
	// keyPos maps an input field index to its position in the variant's
	// group key.
	keyPos map[int]int
}

// NewMergeStage builds the merge stage for one grouping-set variant.
// windowFieldIndex is -1 when the operator is not windowed.
func NewMergeStage(output model.Schema, groupSet model.FieldSet, variant model.FieldSet, windowFieldIndex int) (*MergeStage, error) {
	if output.Len() < len(groupSet) {
		return nil, types.NewSchemaError("output schema %s is shorter than the group set", output)
	}
	keyPos := make(map[int]int)
	for _, idx := range variant.Without(windowFieldIndex) {
		keyPos[idx] = len(keyPos)
	}
	return &MergeStage{
		output:           output,
		groupSet:         groupSet.Copy(),
		windowFieldIndex: windowFieldIndex,
		keyPos:           keyPos,
	}, nil
}

// MergeRecord builds the final output row for one closed (key, window)
// pair.
func (m *MergeStage) MergeRecord(key model.GroupKey, aggValues model.Row, w window.Window) (model.Row, error) {
	values := make([]interface{}, 0, m.output.Len())
	for _, idx := range m.groupSet {
		switch {
		case idx == m.windowFieldIndex:
			values = append(values, w.MaxTimestamp())
		default:
			if pos, ok := m.keyPos[idx]; ok {
				values = append(values, key.Value(pos))
			} else {
				// Group position outside this grouping-set variant.
				values = append(values, nil)
			}
		}
	}
	values = append(values, aggValues.Values()...)
	return model.NewRow(m.output, values...)
}
