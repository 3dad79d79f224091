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

package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidMediaType is returned when a configured media type is not of
	// the form type/subtype.
	ErrInvalidMediaType = errors.New("invalid media type")

	// ErrNilSource is returned when a nil [Source] is passed to [WithSource].
	ErrNilSource = errors.New("source cannot be nil")
)

// Stage names the step of building settings that failed.
type Stage string

const (
	StageSetup    Stage = "setup"    // building the Loader
	StageLoad     Stage = "load"     // reading a source
	StageMerge    Stage = "merge"    // layering a source over earlier ones
	StageBind     Stage = "bind"     // decoding merged values into Settings
	StageValidate Stage = "validate" // checking bound Settings
)

// noSource marks an [Error] that is not tied to one source.
const noSource = -1

// Error reports where loading negotiation settings went wrong.
//
// Key is the settings key or environment variable involved, like
// "media_types.geojson" or "produces[1]". Value is the offending input,
// such as a media type, a file path or an environment value.
type Error struct {
	Stage  Stage
	Source int // index in load order, or -1
	Key    string
	Value  string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("negotiation settings: ")
	b.WriteString(string(e.Stage))
	if e.Source != noSource {
		fmt.Fprintf(&b, " source[%d]", e.Source)
	}
	if e.Key != "" {
		b.WriteByte(' ')
		b.WriteString(e.Key)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " %q", e.Value)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a target *Error by its non-zero Stage and Key, so callers can
// test for a class of failure:
//
//	errors.Is(err, &config.Error{Stage: config.StageValidate})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return (t.Stage == "" || t.Stage == e.Stage) && (t.Key == "" || t.Key == e.Key)
}

func stageError(stage Stage, source int, err error) *Error {
	return &Error{Stage: stage, Source: source, Err: err}
}

func keyError(stage Stage, key, value string, err error) *Error {
	return &Error{Stage: stage, Source: noSource, Key: key, Value: value, Err: err}
}

// atSource attributes err to the source at index i. Errors a source
// already reported as *Error keep their stage and key.
func atSource(i int, stage Stage, err error) error {
	var e *Error
	if errors.As(err, &e) && e.Source == noSource {
		e.Source = i
		return e
	}
	return stageError(stage, i, err)
}
