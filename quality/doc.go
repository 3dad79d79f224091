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

// Package quality parses Accept-family HTTP header values into
// quality-ranked sets.
//
// A header such as
//
//	Accept: text/*;q=0.9, text/html, text/xhtml;q=0.8
//
// becomes a [Set] ordered text/html (1.0), text/* (0.9), text/xhtml (0.8).
// Values with equal quality keep their header order, and duplicates are
// dropped in favor of the first value in ranked order.
//
// Parsing is lenient: malformed tokens are skipped and a bad q parameter
// weighs 0, so a garbled header degrades to "no preference" instead of
// failing the request.
package quality
