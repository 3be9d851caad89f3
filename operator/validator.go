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
	"github.com/streamwind/streamwind/types"
	"github.com/streamwind/streamwind/window"
)

// windowSupportValidator guards against configurations that would
// deadlock an unbounded pipeline. It fires once per operator expansion,
// before grouping begins, and is otherwise inert: it transforms no data.
type windowSupportValidator struct {
	checked bool
}

func newWindowSupportValidator() *windowSupportValidator {
	return &windowSupportValidator{}
}

// validate rejects exactly one case: an unbounded stream entering
// grouping under one global window with the default trigger. The
// watermark that closes the global window is only reached when the
// stream ends, so such a pipeline would never emit. Bounded streams and
// streams with explicit windowing or triggering pass silently.
func (v *windowSupportValidator) validate(strategy window.Strategy, bounded bool) error {
	if v.checked {
		return nil
	}
	v.checked = true
	if strategy.Fn == window.GlobalWindows && strategy.Trigger == window.DefaultTrigger && !bounded {
		return types.NewConfigurationError(
			"unbounded input with global windowing and the default trigger will never emit; " +
				"specify an explicit window policy (fixed, sliding or session) on the aggregation, " +
				"or configure an early-firing trigger upstream")
	}
	return nil
}
