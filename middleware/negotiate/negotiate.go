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
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/negotiation"
)

const instrumentationName = "rivaas.dev/negotiation/middleware/negotiate"

// Outcomes recorded on the negotiation.requests counter and the
// negotiation.outcome span attribute.
const (
	OutcomeMatched       = "matched"
	OutcomeNoPreference  = "no_preference"
	OutcomeNotAcceptable = "not_acceptable"
)

type contextKey int

const (
	negotiatorKey contextKey = iota
	selectedKey
)

// New returns a middleware that parses the Accept-family headers of every
// request into a [negotiation.Negotiator] stored in the request context.
//
// With [WithProduces], the media type is negotiated up front: the response
// gets "Vary: Accept", and requests that accept none of the produced types
// are answered with 406 and an RFC 9457 problem document.
//
// Example:
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/reports/", func(w http.ResponseWriter, r *http.Request) {
//	    typ, _ := negotiate.Selected(r.Context())
//	    n, _ := negotiate.FromContext(r.Context())
//	    lang, _ := n.NegotiateLanguage("en", "de")
//	    // render typ in lang
//	})
//	handler := negotiate.New(
//	    negotiate.WithProduces("application/json", "application/xml"),
//	)(mux)
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	negotiatorOpts := append([]negotiation.Option{negotiation.WithLogger(cfg.logger)}, cfg.negotiatorOpts...)

	requests, err := cfg.meterProvider.Meter(instrumentationName).Int64Counter(
		"negotiation.requests",
		metric.WithDescription("Requests whose media type was negotiated, by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		cfg.logger.Warn("failed to create negotiation counter", "error", err)
		requests = noop.Int64Counter{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := negotiation.New(negotiation.FromHTTP(r), negotiatorOpts...)
			ctx := context.WithValue(r.Context(), negotiatorKey, n)

			if len(cfg.produces) == 0 {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			w.Header().Add("Vary", negotiation.HeaderAccept)

			outcome := OutcomeMatched
			if len(n.Media()) == 0 {
				outcome = OutcomeNoPreference
			}
			typ, ok := n.NegotiateMedia(cfg.produces...)
			if !ok {
				outcome = OutcomeNotAcceptable
			}

			requests.Add(ctx, 1, metric.WithAttributes(
				attribute.String("dimension", negotiation.Media.String()),
				attribute.String("outcome", outcome),
			))
			if span := trace.SpanFromContext(ctx); span.IsRecording() {
				span.SetAttributes(attribute.String("negotiation.outcome", outcome))
				if ok {
					span.SetAttributes(attribute.String("negotiation.media", typ))
				}
			}

			if !ok {
				cfg.logger.Debug("no acceptable media type",
					"path", r.URL.Path,
					"accept", r.Header.Get(negotiation.HeaderAccept),
					"produces", cfg.produces,
				)
				r = r.WithContext(ctx)
				if cfg.notAcceptable != nil {
					cfg.notAcceptable.ServeHTTP(w, r)
					return
				}
				writeNotAcceptable(w, r, cfg.problemType, cfg.produces)
				return
			}

			ctx = context.WithValue(ctx, selectedKey, typ)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the negotiator stored by the middleware.
func FromContext(ctx context.Context) (*negotiation.Negotiator, bool) {
	n, ok := ctx.Value(negotiatorKey).(*negotiation.Negotiator)
	return n, ok
}

// Selected returns the media type negotiated against [WithProduces].
func Selected(ctx context.Context) (string, bool) {
	typ, ok := ctx.Value(selectedKey).(string)
	return typ, ok
}

// writeNotAcceptable answers with a 406 problem document listing the
// media types that are available.
func writeNotAcceptable(w http.ResponseWriter, r *http.Request, problemType string, available []string) {
	p := ProblemDetail{
		Type:     problemType,
		Title:    http.StatusText(http.StatusNotAcceptable),
		Status:   http.StatusNotAcceptable,
		Detail:   "none of the available representations is acceptable",
		Instance: r.URL.Path,
		Extensions: map[string]any{
			"available": available,
		},
	}

	w.Header().Set("Content-Type", ProblemContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusNotAcceptable)
	_ = json.NewEncoder(w).Encode(p)
}
