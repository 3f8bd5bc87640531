/*
 * Copyright 2025 tomoncle.
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

package types

import (
	"context"
	"time"
)

// Options holds the per-call settings of a facade operation.
type Options struct {
	// Params is bound into the filter, query or procedure call.
	Params Params
	// Timeout bounds the whole call, connection included. Zero means none.
	Timeout time.Duration
	// ArgOrder fixes the positional order of Params for procedure calls on
	// dialects without named arguments. Defaults to sorted names.
	ArgOrder []string
}

// Option sets a field of Options.
type Option func(*Options)

// GetOpts resolves the given options into an Options value.
func GetOpts(opt ...Option) Options {
	opts := getDefaultOptions()
	for _, o := range opt {
		if o != nil {
			o(&opts)
		}
	}
	return opts
}

func getDefaultOptions() Options {
	return Options{}
}

// WithParams sets the parameter set of the call.
func WithParams(p Params) Option {
	return func(o *Options) {
		o.Params = p
	}
}

// WithTimeout sets the command timeout of the call.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithArgOrder sets the positional order of procedure arguments.
func WithArgOrder(names ...string) Option {
	return func(o *Options) {
		o.ArgOrder = names
	}
}

// Context derives the call context, applying Timeout when set.
func (o Options) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.Timeout > 0 {
		return context.WithTimeout(ctx, o.Timeout)
	}
	return context.WithCancel(ctx)
}

// OrderedNames returns the parameter names in call order.
func (o Options) OrderedNames() []string {
	if len(o.ArgOrder) > 0 {
		return o.ArgOrder
	}
	return o.Params.Names()
}
