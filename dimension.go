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

import "strconv"

// Dimension is one negotiable aspect of a response.
type Dimension uint8

const (
	// Media is the media type, negotiated from Accept.
	Media Dimension = iota
	// Charset is the character set, negotiated from Accept-Charset.
	Charset
	// Encoding is the content coding, negotiated from Accept-Encoding.
	Encoding
	// Language is the natural language, negotiated from Accept-Language.
	Language
)

// Dimensions lists every dimension in a fixed order.
var Dimensions = [...]Dimension{Media, Charset, Encoding, Language}

// String returns the lowercase dimension name, e.g. "media".
func (d Dimension) String() string {
	switch d {
	case Media:
		return "media"
	case Charset:
		return "charset"
	case Encoding:
		return "encoding"
	case Language:
		return "language"
	default:
		return "dimension(" + strconv.Itoa(int(d)) + ")"
	}
}

// Header returns the request header the dimension is negotiated from.
func (d Dimension) Header() string {
	switch d {
	case Media:
		return HeaderAccept
	case Charset:
		return HeaderAcceptCharset
	case Encoding:
		return HeaderAcceptEncoding
	case Language:
		return HeaderAcceptLanguage
	default:
		return ""
	}
}

// wildcard reports whether value accepts anything in this dimension.
func (d Dimension) wildcard(value string) bool {
	if d == Media {
		return value == "*/*" || value == "*"
	}
	return value == "*"
}
