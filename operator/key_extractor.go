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
)

// KeyExtractor projects the group-key fields out of input rows,
// excluding the synthetic window field: the window value is carried by
// the window assignment, not by the key.
type KeyExtractor struct {
	indexes   model.FieldSet
	keySchema model.Schema
}

// NewKeyExtractor builds the extractor for one grouping set.
// windowFieldIndex is -1 when the operator is not windowed.
func NewKeyExtractor(input model.Schema, groupSet model.FieldSet, windowFieldIndex int) (*KeyExtractor, error) {
	indexes := groupSet.Without(windowFieldIndex)
	keySchema, err := input.Project(indexes)
	if err != nil {
		return nil, err
	}
	return &KeyExtractor{indexes: indexes, keySchema: keySchema}, nil
}

// Schema returns the group-key schema.
func (k *KeyExtractor) Schema() model.Schema {
	return k.keySchema
}

// Indexes returns the key-field indices in key order.
func (k *KeyExtractor) Indexes() model.FieldSet {
	return k.indexes.Copy()
}

// Extract returns the row's group key, preserving key-field order.
func (k *KeyExtractor) Extract(row model.Row) (model.GroupKey, error) {
	values := make([]interface{}, len(k.indexes))
	for i, idx := range k.indexes {
		values[i] = row.Value(idx)
	}
	keyRow, err := model.NewRow(k.keySchema, values...)
	if err != nil {
		return model.GroupKey{}, err
	}
	return model.NewGroupKey(keyRow), nil
}
