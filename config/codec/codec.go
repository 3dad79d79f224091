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

// Package codec decodes configuration documents into generic maps.
//
// Decoders register themselves by [Type] in init functions; JSON, YAML and
// TOML are built in.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Type identifies a document format.
type Type string

// Decoder converts an encoded document into the value pointed to by v.
// Implementations must be safe for concurrent use.
type Decoder interface {
	Decode(data []byte, v any) error
}

var (
	mu       sync.RWMutex
	decoders = make(map[Type]Decoder)
)

// RegisterDecoder registers decoder for name, replacing any previous one.
func RegisterDecoder(name Type, decoder Decoder) {
	mu.Lock()
	defer mu.Unlock()
	decoders[name] = decoder
}

// GetDecoder returns the decoder registered for name.
func GetDecoder(name Type) (Decoder, error) {
	mu.RLock()
	defer mu.RUnlock()

	decoder, ok := decoders[name]
	if !ok {
		return nil, fmt.Errorf("decoder not found for type: %s", name)
	}
	return decoder, nil
}

var extensionTypes = map[string]Type{
	".json": TypeJSON,
	".yaml": TypeYAML,
	".yml":  TypeYAML,
	".toml": TypeTOML,
}

// DetectType returns the format implied by the extension of path.
func DetectType(path string) (Type, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extensionTypes[ext]; ok {
		return t, nil
	}
	return "", fmt.Errorf("cannot detect format from extension %q", ext)
}
