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
	"errors"
	"fmt"
	"os"
	"strings"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"rivaas.dev/negotiation"
	"rivaas.dev/negotiation/config/codec"
	"rivaas.dev/negotiation/middleware/negotiate"
)

const (
	keyMediaTypes        = "media_types"
	keyReplaceMediaTypes = "replace_media_types"
	keyDefaultCharset    = "default_charset"
	keyExtensionOverride = "extension_override"
	keyProduces          = "produces"
)

// Settings is the file form of the negotiation options.
//
//	# negotiation.yaml
//	default_charset: ISO-8859-1
//	extension_override: true
//	produces: [application/json, application/xml]
//	media_types:
//	  .geojson: application/geo+json
//	  .php: ""          # drop a built-in mapping
type Settings struct {
	// MediaTypes adds extension mappings over the built-in table.
	MediaTypes map[string]string `config:"media_types"`

	// ReplaceMediaTypes uses MediaTypes as the whole table.
	ReplaceMediaTypes bool `config:"replace_media_types"`

	// DefaultCharset overrides the charset added to non-empty
	// Accept-Charset sets. nil keeps ISO-8859-1, "" disables the rule.
	DefaultCharset *string `config:"default_charset"`

	// ExtensionOverride toggles the path extension override. nil keeps it on.
	ExtensionOverride *bool `config:"extension_override"`

	// Produces lists the media types a service offers, in preference order.
	Produces []string `config:"produces"`
}

// Validate checks that every configured media type looks like type/subtype.
func (s *Settings) Validate() error {
	for ext, typ := range s.MediaTypes {
		if typ == "" {
			continue
		}
		if !validMediaType(typ) {
			return keyError(StageValidate, keyMediaTypes+"."+strings.TrimPrefix(ext, "."), typ, ErrInvalidMediaType)
		}
	}
	for i, typ := range s.Produces {
		if !validMediaType(typ) {
			return keyError(StageValidate, fmt.Sprintf("%s[%d]", keyProduces, i), typ, ErrInvalidMediaType)
		}
	}
	return nil
}

// Options converts the settings into [negotiation.Option] values.
func (s *Settings) Options() []negotiation.Option {
	var opts []negotiation.Option

	if len(s.MediaTypes) > 0 || s.ReplaceMediaTypes {
		types := negotiation.MediaTypes(s.MediaTypes)
		if s.ReplaceMediaTypes {
			opts = append(opts, negotiation.WithOnlyMediaTypes(types))
		} else {
			opts = append(opts, negotiation.WithMediaTypes(types))
		}
	}
	if s.DefaultCharset != nil {
		opts = append(opts, negotiation.WithDefaultCharset(*s.DefaultCharset))
	}
	if s.ExtensionOverride != nil {
		opts = append(opts, negotiation.WithExtensionOverride(*s.ExtensionOverride))
	}
	return opts
}

// MiddlewareOptions converts the settings into [negotiate.Option] values:
// Produces becomes [negotiate.WithProduces] and the rest is passed through
// [negotiate.WithNegotiatorOptions].
func (s *Settings) MiddlewareOptions() []negotiate.Option {
	opts := []negotiate.Option{negotiate.WithNegotiatorOptions(s.Options()...)}
	if len(s.Produces) > 0 {
		opts = append(opts, negotiate.WithProduces(s.Produces...))
	}
	return opts
}

func validMediaType(typ string) bool {
	t, sub, ok := strings.Cut(strings.TrimSpace(typ), "/")
	return ok && t != "" && sub != "" && !strings.ContainsAny(t+sub, " /")
}

// Option configures a [Loader].
type Option func(l *Loader) error

// Loader reads [Settings] from an ordered list of sources. Later sources
// override earlier ones.
type Loader struct {
	sources []Source
}

// New returns a Loader for the given sources. With no sources, Load
// returns zero Settings.
func New(opts ...Option) (*Loader, error) {
	l := &Loader{}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// WithSource adds a custom source.
func WithSource(src Source) Option {
	return func(l *Loader) error {
		if src == nil {
			return ErrNilSource
		}
		l.sources = append(l.sources, src)
		return nil
	}
}

// WithFile adds a file source. The format is taken from the extension
// (.json, .yaml, .yml, .toml) and ${VAR} references in path are expanded.
func WithFile(path string) Option {
	return func(l *Loader) error {
		path = os.ExpandEnv(path)

		format, err := codec.DetectType(path)
		if err != nil {
			return keyError(StageSetup, "", path, err)
		}
		return WithFileAs(path, format)(l)
	}
}

// WithFileAs adds a file source decoded as format.
func WithFileAs(path string, format codec.Type) Option {
	return func(l *Loader) error {
		decoder, err := codec.GetDecoder(format)
		if err != nil {
			return keyError(StageSetup, "", path, err)
		}
		l.sources = append(l.sources, NewFile(os.ExpandEnv(path), decoder))
		return nil
	}
}

// WithContent adds in-memory content decoded as format.
func WithContent(data []byte, format codec.Type) Option {
	return func(l *Loader) error {
		decoder, err := codec.GetDecoder(format)
		if err != nil {
			return keyError(StageSetup, "", "", err)
		}
		l.sources = append(l.sources, NewFileContent(data, decoder))
		return nil
	}
}

// WithEnv adds environment variables carrying prefix. See [Env].
func WithEnv(prefix string) Option {
	return WithSource(NewEnv(prefix))
}

// Load reads every source in order, merges them, and binds the result.
//
// Errors:
//   - [Error] with [StageLoad] or [StageMerge] and the source index if a
//     source fails
//   - [Error] with [StageBind] if the merged values do not fit [Settings]
//   - [Error] with [StageValidate] wrapping [ErrInvalidMediaType] if a media
//     type is malformed
func (l *Loader) Load(ctx context.Context) (*Settings, error) {
	if ctx == nil {
		return nil, errors.New("context cannot be nil")
	}

	merged := make(map[string]any)
	for i, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		values, err := src.Load(ctx)
		if err != nil {
			return nil, atSource(i, StageLoad, err)
		}
		if values == nil {
			continue
		}

		if err = mergo.Map(&merged, normalizeMapKeys(values), mergo.WithOverride); err != nil {
			return nil, atSource(i, StageMerge, err)
		}
	}

	settings, err := bind(merged)
	if err != nil {
		return nil, err
	}
	if err = settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// MustLoad is like Load but panics on error.
func (l *Loader) MustLoad(ctx context.Context) *Settings {
	s, err := l.Load(ctx)
	if err != nil {
		panic(err)
	}
	return s
}

func bind(values map[string]any) (*Settings, error) {
	settings := &Settings{}

	if raw, ok := values[keyMediaTypes]; ok && raw != nil {
		types, err := cast.ToStringMapStringE(raw)
		if err != nil {
			return nil, keyError(StageBind, keyMediaTypes, "", err)
		}
		normalized := make(map[string]string, len(types))
		for ext, typ := range types {
			if ext = negotiation.NormalizeExtension(ext); ext != "" {
				normalized[ext] = strings.TrimSpace(typ)
			}
		}
		values[keyMediaTypes] = normalized
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		Result:           settings,
	})
	if err != nil {
		return nil, stageError(StageBind, noSource, err)
	}
	if err = decoder.Decode(values); err != nil {
		return nil, stageError(StageBind, noSource, err)
	}

	for i, typ := range settings.Produces {
		settings.Produces[i] = strings.TrimSpace(typ)
	}
	return settings, nil
}

// normalizeMapKeys lowercases keys recursively so sources merge
// case-insensitively.
func normalizeMapKeys(m map[string]any) map[string]any {
	normalized := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeMapKeys(nested)
		}
		normalized[strings.ToLower(k)] = v
	}
	return normalized
}
