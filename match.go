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
	"strings"

	"rivaas.dev/negotiation/quality"
)

// offers turns the server's list into q=1.0 values in the same order.
// Parameters on an offer ("text/html;level=1") are dropped for matching.
func offers(available []string) []quality.Value {
	values := make([]quality.Value, len(available))
	for i, a := range available {
		base, _, _ := strings.Cut(a, ";")
		values[i] = quality.New(strings.TrimSpace(base), quality.DefaultQuality)
	}
	return values
}

// match walks acceptable in ranked order and returns the index of the
// first offer that satisfies the first usable preference.
func match(d Dimension, acceptable *quality.Set, offers []quality.Value) (int, bool) {
	matches := matcherFor(d)
	for _, accept := range acceptable.All() {
		if accept.Rejected() {
			continue
		}
		if d.wildcard(accept.Value) {
			return 0, true
		}
		for i, offer := range offers {
			if matches(accept.Value, offer.Value) {
				return i, true
			}
		}
	}
	return 0, false
}

func matcherFor(d Dimension) func(accept, offer string) bool {
	switch d {
	case Media:
		return matchMedia
	case Language:
		return matchLanguage
	default:
		return strings.EqualFold
	}
}

// matchMedia compares type/subtype pairs case-insensitively. An accepted
// "type/*" matches any subtype of type.
func matchMedia(accept, offer string) bool {
	if strings.EqualFold(accept, offer) {
		return true
	}
	acceptType, acceptSubtype := splitMediaType(accept)
	offerType, offerSubtype := splitMediaType(offer)
	if !strings.EqualFold(acceptType, offerType) {
		return false
	}
	return acceptSubtype == "*" || strings.EqualFold(acceptSubtype, offerSubtype)
}

// matchLanguage compares language tags. A bare primary tag ("en") matches
// any tag with that primary ("en-US"); a tag with a subtag must match in
// full. Comparison is case-insensitive.
func matchLanguage(accept, offer string) bool {
	acceptType, acceptSubtype, hasSubtype := strings.Cut(accept, "-")
	if !hasSubtype || acceptSubtype == "" {
		offerType, _, _ := strings.Cut(offer, "-")
		return strings.EqualFold(acceptType, offerType)
	}
	return strings.EqualFold(accept, offer)
}

// splitMediaType splits "type/subtype". A value without a slash is all type.
func splitMediaType(mediaType string) (typ, subtype string) {
	typ, subtype, _ = strings.Cut(mediaType, "/")
	return strings.TrimSpace(typ), strings.TrimSpace(subtype)
}
