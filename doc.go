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

// Package negotiation implements HTTP content negotiation over the
// Accept, Accept-Charset, Accept-Encoding and Accept-Language headers.
//
// A [Negotiator] is built once per request from a [Request], which exposes
// only raw header values and the request path. It parses each header into
// a quality-ranked set (see package quality) and picks, per [Dimension],
// the server-offered representation that best satisfies the client.
//
// # Matching Rules
//
//   - Charset and encoding: case-insensitive equality, "*" matches anything
//   - Media: case-insensitive "type/subtype", "type/*" matches any subtype
//     of type, "*/*" matches anything
//   - Language: a bare tag ("en") matches any tag with that primary subtag
//     ("en-US"); a full tag must match exactly, ignoring case; "*" matches
//     anything
//
// Entries with q=0 are skipped. When the client sent no preference for a
// dimension, the first server offer wins.
//
// # Path Extension Override
//
// A request for "/reports/42.json" negotiates as if the client had sent
// "Accept: application/json", whatever the Accept header says. The table
// is [DefaultMediaTypes] and can be extended with [WithMediaTypes] or
// disabled with WithExtensionOverride(false).
//
// # Quick Start
//
//	n := negotiation.New(negotiation.FromHTTP(r))
//
//	typ, ok := n.NegotiateMedia("application/json", "application/xml")
//	if !ok {
//	    http.Error(w, "not acceptable", http.StatusNotAcceptable)
//	    return
//	}
//	enc, _ := n.NegotiateEncoding("br", "gzip", "identity")
//	lang, _ := n.NegotiateLanguage("en-us", "fr")
//
// A Negotiator never mutates its sets after [New], so it can be shared by
// goroutines serving the same request.
package negotiation
