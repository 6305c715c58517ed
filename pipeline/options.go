// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"log/slog"
	"runtime"

	"github.com/blinklabs-io/goxrpl/ledger/engine"
)

// DefaultMaxPendingTxs is the default limit for out-of-order transactions
// buffered in the apply stage.
const DefaultMaxPendingTxs = 1024

// PipelineConfig holds configuration for a TxPipeline.
type PipelineConfig struct {
	// Format is the encoding of submitted transactions.
	Format Format
	// DecodeWorkers is the number of parallel decode workers.
	DecodeWorkers int
	// ValidateWorkers is the number of parallel validate workers. Zero
	// sends decoded transactions straight to the apply stage.
	ValidateWorkers int
	// PrefetchBufferSize is the buffer size for inter-stage channels.
	PrefetchBufferSize int
	// MaxPendingTxs limits out-of-order transactions buffered in the apply
	// stage.
	MaxPendingTxs int
	// Checker runs the stateless checks in the validate stage.
	Checker Checker
	// ApplyFunc is the function called to apply transactions in order.
	ApplyFunc ApplyFunc
	// HaltFunc decides whether a processed transaction stops later ones
	// from being applied.
	HaltFunc HaltFunc
	// Logger reports a halt. Defaults to discarding.
	Logger *slog.Logger
}

// DefaultPipelineConfig returns a PipelineConfig with sensible defaults.
// Validation is disabled by default since it requires a Checker.
func DefaultPipelineConfig() PipelineConfig {
	decodeWorkers := runtime.NumCPU() / 4
	if decodeWorkers < 2 {
		decodeWorkers = 2
	}
	return PipelineConfig{
		Format:             FormatJSON,
		DecodeWorkers:      decodeWorkers,
		ValidateWorkers:    0,
		PrefetchBufferSize: 1000,
		MaxPendingTxs:      DefaultMaxPendingTxs,
	}
}

// PipelineOption is a functional option for configuring a TxPipeline.
type PipelineOption func(*PipelineConfig)

// WithConfig applies a complete PipelineConfig, replacing all default values.
// Options applied after WithConfig still override the config values.
func WithConfig(config PipelineConfig) PipelineOption {
	return func(c *PipelineConfig) {
		*c = config
	}
}

// WithEngine checks transactions with e and applies them to its ledger.
// Validation runs with one worker per decode worker unless
// WithValidateWorkers says otherwise.
func WithEngine(e *engine.Engine) PipelineOption {
	return func(c *PipelineConfig) {
		c.Checker = e
		c.ApplyFunc = EngineApplyFunc(e)
		if c.ValidateWorkers == 0 {
			c.ValidateWorkers = c.DecodeWorkers
		}
	}
}

// WithFormat sets the encoding of submitted transactions.
func WithFormat(format Format) PipelineOption {
	return func(c *PipelineConfig) {
		c.Format = format
	}
}

// WithDecodeWorkers sets the number of decode workers.
func WithDecodeWorkers(n int) PipelineOption {
	return func(c *PipelineConfig) {
		if n > 0 {
			c.DecodeWorkers = n
		}
	}
}

// WithValidateWorkers sets the number of validate workers.
// Set to 0 to disable validation entirely.
func WithValidateWorkers(n int) PipelineOption {
	return func(c *PipelineConfig) {
		if n >= 0 {
			c.ValidateWorkers = n
		}
	}
}

// WithPrefetchBufferSize sets the buffer size for inter-stage channels.
func WithPrefetchBufferSize(size int) PipelineOption {
	return func(c *PipelineConfig) {
		if size > 0 {
			c.PrefetchBufferSize = size
		}
	}
}

// WithMaxPendingTxs sets the limit for out-of-order transactions in the apply
// stage.
func WithMaxPendingTxs(n int) PipelineOption {
	return func(c *PipelineConfig) {
		if n > 0 {
			c.MaxPendingTxs = n
		}
	}
}

// WithChecker sets the checker used by the validate stage.
func WithChecker(checker Checker) PipelineOption {
	return func(c *PipelineConfig) {
		c.Checker = checker
	}
}

// WithApplyFunc sets the apply function.
// A nil function is ignored (the pipeline will use a no-op apply).
func WithApplyFunc(fn ApplyFunc) PipelineOption {
	return func(c *PipelineConfig) {
		if fn != nil {
			c.ApplyFunc = fn
		}
	}
}

// WithHaltFunc sets the function that decides when to stop applying
// transactions.
func WithHaltFunc(fn HaltFunc) PipelineOption {
	return func(c *PipelineConfig) {
		c.HaltFunc = fn
	}
}

// WithLogger sets the logger for pipeline events
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(c *PipelineConfig) {
		c.Logger = logger
	}
}
