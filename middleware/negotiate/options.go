// Copyright 2025 The Rivaas Authors
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

package negotiate

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"rivaas.dev/negotiation"
)

// Option defines functional options for the negotiate middleware.
type Option func(*config)

type config struct {
	// produces lists the media types the wrapped handler can render, in
	// preference order. Empty disables media enforcement.
	produces []string

	negotiatorOpts []negotiation.Option
	logger         *slog.Logger
	meterProvider  metric.MeterProvider

	// problemType is the RFC 9457 type URI of 406 responses.
	problemType string

	// notAcceptable replaces the default problem response when set.
	notAcceptable http.Handler
}

func defaultConfig() *config {
	return &config{
		logger:        slog.New(slog.DiscardHandler),
		meterProvider: noop.NewMeterProvider(),
		problemType:   "about:blank",
	}
}

// WithProduces makes the middleware negotiate the media type against types.
// Requests with no acceptable type get 406 Not Acceptable; otherwise the
// choice is available through [Selected].
func WithProduces(types ...string) Option {
	return func(c *config) {
		c.produces = append([]string(nil), types...)
	}
}

// WithNegotiatorOptions passes options to every [negotiation.New] call.
func WithNegotiatorOptions(opts ...negotiation.Option) Option {
	return func(c *config) {
		c.negotiatorOpts = append(c.negotiatorOpts, opts...)
	}
}

// WithLogger sets the logger. It is also handed to the negotiator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMeterProvider records negotiation outcomes on a counter named
// "negotiation.requests".
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		if mp != nil {
			c.meterProvider = mp
		}
	}
}

// WithProblemType sets the type URI of the 406 problem document.
func WithProblemType(uri string) Option {
	return func(c *config) { c.problemType = uri }
}

// WithNotAcceptableHandler replaces the default 406 problem response.
// The handler can read the negotiator with [FromContext].
func WithNotAcceptableHandler(h http.Handler) Option {
	return func(c *config) { c.notAcceptable = h }
}
