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

// Package negotiate provides net/http middleware for content negotiation.
//
// The middleware builds a [negotiation.Negotiator] for every request and
// stores it in the request context:
//
//	handler := negotiate.New()(mux)
//
//	func serve(w http.ResponseWriter, r *http.Request) {
//	    n, _ := negotiate.FromContext(r.Context())
//	    enc, _ := n.NegotiateEncoding("br", "gzip", "identity")
//	    // ...
//	}
//
// With [WithProduces] it also enforces the media dimension: every response
// varies on Accept, and clients that accept none of the produced types get
// 406 Not Acceptable with an application/problem+json body.
//
// # Observability
//
// [WithMeterProvider] enables the negotiation.requests counter, labeled by
// dimension and outcome (matched, no_preference, not_acceptable). When the
// request context carries a recording span, it is annotated with
// negotiation.outcome and negotiation.media.
//
// Settings loaded with package config plug in directly:
//
//	s := loader.MustLoad(ctx)
//	handler := negotiate.New(
//	    negotiate.WithProduces(s.Produces...),
//	    negotiate.WithNegotiatorOptions(s.Options()...),
//	)(mux)
package negotiate
