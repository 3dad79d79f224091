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
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"

	"rivaas.dev/negotiation/config/codec"
)

// Source produces a generic settings map. Keys are matched
// case-insensitively after loading.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// File loads settings from a file on disk or from in-memory content.
type File struct {
	path    string
	data    []byte
	decoder codec.Decoder
}

// NewFile returns a source that reads and decodes path on every Load.
func NewFile(path string, decoder codec.Decoder) *File {
	return &File{path: path, decoder: decoder}
}

// NewFileContent returns a source that decodes data.
func NewFileContent(data []byte, decoder codec.Decoder) *File {
	return &File{data: data, decoder: decoder}
}

// Load implements [Source].
func (f *File) Load(context.Context) (map[string]any, error) {
	data := f.data
	if f.path != "" {
		var err error
		if data, err = os.ReadFile(f.path); err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	var values map[string]any
	if err := f.decoder.Decode(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode file: %w", err)
	}
	return values, nil
}

// Env loads settings from environment variables sharing a prefix.
//
//	NEGOTIATION_DEFAULT_CHARSET=utf-8
//	NEGOTIATION_EXTENSION_OVERRIDE=false
//	NEGOTIATION_PRODUCES=application/json,application/xml
//	NEGOTIATION_MEDIA_TYPES_GEOJSON=application/geo+json
type Env struct {
	prefix  string
	environ func() []string
}

// NewEnv returns an environment source for prefix, e.g. "NEGOTIATION_".
func NewEnv(prefix string) *Env {
	return &Env{prefix: prefix, environ: os.Environ}
}

// Load implements [Source].
func (e *Env) Load(context.Context) (map[string]any, error) {
	values := make(map[string]any)
	mediaTypes := make(map[string]any)

	for _, kv := range e.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, e.prefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, e.prefix))

		switch {
		case key == keyDefaultCharset:
			values[key] = value
		case key == keyExtensionOverride:
			b, err := cast.ToBoolE(value)
			if err != nil {
				return nil, keyError(StageLoad, name, value, err)
			}
			values[key] = b
		case key == keyReplaceMediaTypes:
			b, err := cast.ToBoolE(value)
			if err != nil {
				return nil, keyError(StageLoad, name, value, err)
			}
			values[key] = b
		case key == keyProduces:
			values[key] = splitList(value)
		case strings.HasPrefix(key, keyMediaTypes+"_"):
			mediaTypes["."+strings.TrimPrefix(key, keyMediaTypes+"_")] = value
		}
	}

	if len(mediaTypes) > 0 {
		values[keyMediaTypes] = mediaTypes
	}
	return values, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
