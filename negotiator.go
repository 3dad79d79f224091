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

package negotiation

import (
	"log/slog"

	"rivaas.dev/negotiation/quality"
)

// Negotiator holds the parsed Accept-family preferences of one request and
// picks representations from server-supplied lists.
//
// A Negotiator is read-only after [New] and safe for concurrent use.
//
// Example:
//
//	n := negotiation.New(negotiation.FromHTTP(r))
//	typ, ok := n.NegotiateMedia("application/json", "text/html")
//	if !ok {
//	    w.WriteHeader(http.StatusNotAcceptable)
//	    return
//	}
type Negotiator struct {
	sets   [len(Dimensions)]*quality.Set
	logger *slog.Logger
}

// New parses the four Accept-family headers of req.
//
// When the extension override is enabled (the default) and the final path
// segment of req ends in a known extension, the media preferences become a
// single q=1.0 entry for the mapped type and the Accept header is ignored.
//
// A non-empty Accept-Charset set that does not list [DefaultCharset] gets it
// as a q=1.0 entry at the head of the 1.0 bucket. An absent header stays
// empty.
func New(req Request, opts ...Option) *Negotiator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	n := &Negotiator{logger: cfg.logger}

	n.sets[Media] = quality.Parse(req.Header(HeaderAccept))
	if cfg.extensionOverride {
		path := req.Path()
		if typ, ok := cfg.mediaTypes.Lookup(path); ok {
			n.sets[Media] = quality.NewSet(false, quality.New(typ, quality.DefaultQuality))
			n.logger.Debug("media type forced by path extension",
				"path", path,
				"media_type", typ,
			)
		}
	}

	charset := quality.ParseFold(req.Header(HeaderAcceptCharset))
	if cfg.defaultCharset != "" && !charset.Empty() && !charset.Contains(cfg.defaultCharset) {
		charset.Prepend(quality.New(cfg.defaultCharset, quality.DefaultQuality))
	}
	n.sets[Charset] = charset

	n.sets[Encoding] = quality.ParseFold(req.Header(HeaderAcceptEncoding))
	n.sets[Language] = quality.Parse(req.Header(HeaderAcceptLanguage))

	return n
}

// Media returns the ranked media preferences.
func (n *Negotiator) Media() []quality.Value { return n.sets[Media].Values() }

// Charset returns the ranked charset preferences.
func (n *Negotiator) Charset() []quality.Value { return n.sets[Charset].Values() }

// Encoding returns the ranked content-coding preferences.
func (n *Negotiator) Encoding() []quality.Value { return n.sets[Encoding].Values() }

// Language returns the ranked language preferences.
func (n *Negotiator) Language() []quality.Value { return n.sets[Language].Values() }

// Set returns a copy of the preference set of d, or nil for an unknown
// dimension.
func (n *Negotiator) Set(d Dimension) *quality.Set {
	if int(d) >= len(n.sets) {
		return nil
	}
	return n.sets[d].Clone()
}

// NegotiateMedia picks a media type from available, which is ordered by
// server preference. See [Negotiator.Negotiate].
func (n *Negotiator) NegotiateMedia(available ...string) (string, bool) {
	return n.Negotiate(Media, available...)
}

// NegotiateCharset picks a charset from available.
func (n *Negotiator) NegotiateCharset(available ...string) (string, bool) {
	return n.Negotiate(Charset, available...)
}

// NegotiateEncoding picks a content coding from available.
func (n *Negotiator) NegotiateEncoding(available ...string) (string, bool) {
	return n.Negotiate(Encoding, available...)
}

// NegotiateLanguage picks a language from available.
func (n *Negotiator) NegotiateLanguage(available ...string) (string, bool) {
	return n.Negotiate(Language, available...)
}

// Negotiate picks the representation of dimension d that best satisfies
// the client. available is ordered by server preference and the returned
// string is always one of its elements, verbatim.
//
// The rules, in order:
//   - nothing available: failure
//   - no client preference (header absent or empty): the first available
//   - otherwise the client preferences are walked from highest quality down;
//     q=0 entries are skipped, a wildcard picks the first available, and any
//     other entry picks the first available it matches
//   - no entry matched: failure
//
// Failure is reported as ("", false). It is an expected outcome; callers
// decide between 406 Not Acceptable and a fallback.
func (n *Negotiator) Negotiate(d Dimension, available ...string) (string, bool) {
	if len(available) == 0 {
		return "", false
	}
	if int(d) >= len(n.sets) {
		return "", false
	}

	acceptable := n.sets[d]
	if acceptable.Empty() {
		return available[0], true
	}

	if i, ok := match(d, acceptable, offers(available)); ok {
		return available[i], true
	}

	n.logger.Debug("negotiation failed",
		"dimension", d.String(),
		"acceptable", acceptable.String(),
		"available", available,
	)
	return "", false
}
