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

package streamwind

import (
	"time"

	"github.com/streamwind/streamwind/logger"
	"github.com/streamwind/streamwind/stream"
)

// Option modifies the default StreamWind behavior.
type Option func(*StreamWind)

// WithLogger replaces the default logger backend.
func WithLogger(log logger.Logger) Option {
	return func(s *StreamWind) {
		logger.SetDefault(log)
	}
}

// WithLogLevel sets the level on the default logger.
func WithLogLevel(level logger.Level) Option {
	return func(s *StreamWind) {
		logger.Default().SetLevel(level)
	}
}

// WithDiscardLog disables all logging.
func WithDiscardLog() Option {
	return func(s *StreamWind) {
		logger.SetDefault(logger.NewDiscard())
	}
}

// WithPartitions sets the number of shuffle partitions.
func WithPartitions(n int) Option {
	return func(s *StreamWind) {
		s.pipelineOpts = append(s.pipelineOpts, stream.WithPartitions(n))
	}
}

// WithPoolSize sets the combine worker pool size.
func WithPoolSize(n int) Option {
	return func(s *StreamWind) {
		s.pipelineOpts = append(s.pipelineOpts, stream.WithPoolSize(n))
	}
}

// WithFilter applies a boolean row filter expression ahead of the
// aggregation, e.g. `amount > 0`.
func WithFilter(expression string) Option {
	return func(s *StreamWind) {
		s.filterExpr = expression
	}
}

// WithOutOfOrderness tolerates records arriving up to d behind the
// fastest event time on unbounded sources.
func WithOutOfOrderness(d time.Duration) Option {
	return func(s *StreamWind) {
		s.pipelineOpts = append(s.pipelineOpts, stream.WithOutOfOrderness(d))
	}
}
