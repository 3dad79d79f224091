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

package quality

import (
	"strconv"
	"strings"
)

// DefaultQuality is the weight of a token that carries no q parameter.
const DefaultQuality = 1.0

// Param is a single non-q parameter attached to a header token,
// e.g. level=1 in "text/html;level=1".
type Param struct {
	Name  string
	Value string
}

// Value is a single parsed token of an Accept-family header.
//
// Values are immutable once parsed. Params keeps the order in which the
// parameters appeared in the header.
type Value struct {
	Value   string
	Quality float64
	Params  []Param
}

// New returns a Value with the given quality and no parameters.
func New(value string, q float64) Value {
	return Value{Value: value, Quality: q}
}

// Param returns the value of the named parameter. Names are compared
// case-insensitively.
func (v Value) Param(name string) (string, bool) {
	for _, p := range v.Params {
		if strings.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}
	return "", false
}

// Rejected reports whether the client explicitly excluded this value with q=0.
func (v Value) Rejected() bool {
	return v.Quality == 0
}

// String formats the value back into header syntax. The q parameter is
// omitted when it equals [DefaultQuality].
func (v Value) String() string {
	var b strings.Builder
	b.WriteString(v.Value)
	for _, p := range v.Params {
		b.WriteByte(';')
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	if v.Quality != DefaultQuality {
		b.WriteString(";q=")
		b.WriteString(strconv.FormatFloat(v.Quality, 'f', -1, 64))
	}
	return b.String()
}

// clone returns a copy of v that shares no memory with it.
func (v Value) clone() Value {
	if v.Params != nil {
		v.Params = append([]Param(nil), v.Params...)
	}
	return v
}
