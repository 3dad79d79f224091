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
	"net/http"
	"strings"
)

// Header names of the negotiable dimensions.
const (
	HeaderAccept         = "Accept"
	HeaderAcceptCharset  = "Accept-Charset"
	HeaderAcceptEncoding = "Accept-Encoding"
	HeaderAcceptLanguage = "Accept-Language"
)

// Request is the part of an HTTP request that negotiation reads: raw header
// values and the request path.
//
// Header returns the raw value for name, or "" when the header is absent.
// Path may still carry a query string; only the part before '?' is used.
type Request interface {
	Header(name string) string
	Path() string
}

// FromHTTP adapts an [http.Request] to [Request]. Repeated header lines are
// joined with ", " as RFC 9110 allows for list-valued fields.
func FromHTTP(r *http.Request) Request {
	return httpRequest{r: r}
}

type httpRequest struct {
	r *http.Request
}

func (h httpRequest) Header(name string) string {
	values := h.r.Header.Values(name)
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ", ")
	}
}

func (h httpRequest) Path() string {
	if h.r.URL == nil {
		return ""
	}
	return h.r.URL.Path
}

// Static is a [Request] backed by plain values, useful outside net/http and
// in tests. Header names are matched case-insensitively.
//
// Example:
//
//	req := negotiation.Static{
//	    Headers: map[string]string{"Accept": "application/json"},
//	    URI:     "/users/42.json?pretty=1",
//	}
type Static struct {
	Headers map[string]string
	URI     string
}

// Header implements [Request].
func (s Static) Header(name string) string {
	if v, ok := s.Headers[name]; ok {
		return v
	}
	for k, v := range s.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Path implements [Request].
func (s Static) Path() string {
	return s.URI
}
