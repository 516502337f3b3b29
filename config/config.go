/*
   Copyright 2025 The Velk Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package config provides defaults and functional options for apis.Config.
package config

import (
	"github.com/rs/zerolog"

	"velk.dev/velk/apis"
)

const (
	// DefaultBlockPoolCapacity bounds the control-block recycling pool.
	DefaultBlockPoolCapacity = 256
	// DefaultMaxUnwrap is the default Config.MaxUnwrap. It equals the fixed
	// unwrap depth that UID derivation uses.
	DefaultMaxUnwrap = 8
)

// DefaultPageSchedule lists hive page capacities in allocation order; the
// last entry repeats for all further pages.
var DefaultPageSchedule = []int{16, 64, 256, 1024}

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.BlockPoolCapacity < 0 {
		cfg.BlockPoolCapacity = DefaultBlockPoolCapacity
	}
	if len(cfg.PageSchedule) == 0 {
		cfg.PageSchedule = DefaultPageSchedule
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		BlockPoolCapacity: DefaultBlockPoolCapacity,
		PageSchedule:      DefaultPageSchedule,
		Logger:            zerolog.Nop(),
		MaxUnwrap:         DefaultMaxUnwrap,
	}
}

// Option is a functional option that mutates an apis.Config during
// construction.
type Option func(*apis.Config)

// WithBlockPoolCapacity sets the control-block pool capacity.
// Zero disables pooling; a negative value resets to the default.
func WithBlockPoolCapacity(capacity int) Option {
	return func(c *apis.Config) {
		if capacity < 0 {
			c.BlockPoolCapacity = DefaultBlockPoolCapacity
			return
		}
		c.BlockPoolCapacity = capacity
	}
}

// WithPageSchedule sets the hive page capacity schedule.
// Empty or invalid schedules reset to the default.
func WithPageSchedule(schedule []int) Option {
	return func(c *apis.Config) {
		for _, n := range schedule {
			if n <= 0 {
				c.PageSchedule = DefaultPageSchedule
				return
			}
		}
		if len(schedule) == 0 {
			c.PageSchedule = DefaultPageSchedule
			return
		}
		c.PageSchedule = schedule
	}
}

// WithLogger sets the structured debug logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *apis.Config) {
		c.Logger = l
	}
}

// WithMaxUnwrap sets Config.MaxUnwrap. A negative value resets to the
// default. UID derivation does not read the setting.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}
