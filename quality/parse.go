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
	"math"
	"strconv"
	"strings"
)

// ParseValues splits an Accept-style header into its tokens, in the order
// they appear in the header. It does not sort or deduplicate; use [Parse]
// or [ParseFold] for that.
//
// Parsing never fails. Tokens with an empty value (e.g. ";q=0.5" or the
// gaps in ",,") are skipped, and parameters without '=' are ignored.
//
// Example:
//
//	ParseValues("text/*;q=0.9, text/html")
//	// [{text/* 0.9 []} {text/html 1 []}]
func ParseValues(header string) []Value {
	if header == "" {
		return nil
	}

	var values []Value

	start := 0
	for i := 0; i <= len(header); i++ {
		if i == len(header) || header[i] == ',' {
			if i > start {
				if v, ok := parsePart(header[start:i]); ok {
					values = append(values, v)
				}
			}
			start = i + 1
		}
	}

	return values
}

// parsePart parses a single token (the text between two commas).
func parsePart(part string) (Value, bool) {
	v := Value{Quality: DefaultQuality}

	part = trimWhitespace(part)
	if part == "" {
		return v, false
	}

	semicolon := strings.IndexByte(part, ';')
	if semicolon == -1 {
		v.Value = part
		return v, true
	}

	v.Value = trimWhitespace(part[:semicolon])
	if v.Value == "" {
		return v, false
	}

	rest := part[semicolon+1:]
	for rest != "" {
		param := rest
		if next := strings.IndexByte(rest, ';'); next != -1 {
			param, rest = rest[:next], rest[next+1:]
		} else {
			rest = ""
		}
		parseParam(param, &v)
	}

	return v, true
}

// parseParam parses a single name=value parameter and records it on v.
// The q parameter sets the quality instead of being kept as a param.
func parseParam(param string, v *Value) {
	name, value, ok := strings.Cut(param, "=")
	if !ok {
		return
	}

	name = trimWhitespace(name)
	if name == "" {
		return
	}

	value = trimWhitespace(value)
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}

	if name == "q" || name == "Q" {
		v.Quality = parseQValue(value)
		return
	}

	v.Params = append(v.Params, Param{Name: name, Value: value})
}

// parseQValue converts a q parameter into a weight. Well-formed RFC
// qvalues take the integer fast path; anything else goes through
// strconv.ParseFloat and is kept as-is, including values outside [0, 1].
// Unparseable and non-finite values weigh 0.
func parseQValue(s string) float64 {
	if q := parseQuality(s); q >= 0 {
		return float64(q) / 1000.0
	}

	q, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

// parseQuality parses a quality value (q-value) from an Accept header.
// Parses strings like "1", "1.0", "0.9", "0.85" into integer thousandths (1000, 1000, 900, 850).
// Returns -1 when s is not a well-formed qvalue.
//
//	qvalue = ( "0" [ "." 0*3DIGIT ] ) / ( "1" [ "." 0*3("0") ] )
func parseQuality(s string) int {
	if len(s) == 0 || len(s) > 5 { // Max valid: "1.000" or "0.999"
		return -1
	}

	if s[0] == '1' {
		if len(s) == 1 {
			return 1000
		}
		if len(s) < 3 || s[1] != '.' {
			return -1
		}
		for i := 2; i < len(s); i++ {
			if s[i] != '0' {
				return -1
			}
		}
		return 1000
	}

	if s[0] == '0' {
		if len(s) == 1 {
			return 0
		}
		if len(s) < 3 || s[1] != '.' {
			return -1
		}

		result := 0
		multiplier := 100
		for i := 2; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				return -1
			}
			result += int(s[i]-'0') * multiplier
			multiplier /= 10
		}
		return result
	}

	return -1
}

// trimWhitespace strips spaces and horizontal tabs, the only whitespace
// allowed around header list elements.
func trimWhitespace(s string) string {
	return strings.Trim(s, " \t")
}
