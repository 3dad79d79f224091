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

import "log/slog"

// DefaultCharset is added to a non-empty Accept-Charset set that does not
// mention it, since HTTP/1.1 treats ISO-8859-1 as acceptable unless the
// client excludes it with q=0.
const DefaultCharset = "ISO-8859-1"

// Option configures a [Negotiator].
type Option func(*config)

type config struct {
	mediaTypes        MediaTypes
	extensionOverride bool
	defaultCharset    string
	logger            *slog.Logger
}

func defaultConfig() *config {
	return &config{
		mediaTypes:        defaultMediaTypes,
		extensionOverride: true,
		defaultCharset:    DefaultCharset,
		logger:            slog.New(slog.DiscardHandler),
	}
}

// WithMediaTypes adds extension mappings on top of [DefaultMediaTypes].
// Later calls override earlier ones. Mapping an extension to "" removes it.
func WithMediaTypes(types MediaTypes) Option {
	return func(c *config) {
		c.mediaTypes = c.mediaTypes.With(types)
	}
}

// WithOnlyMediaTypes replaces the extension table entirely.
func WithOnlyMediaTypes(types MediaTypes) Option {
	return func(c *config) {
		c.mediaTypes = MediaTypes{}.With(types)
	}
}

// WithExtensionOverride turns the path extension override of the media
// dimension on or off. It is on by default.
func WithExtensionOverride(enabled bool) Option {
	return func(c *config) { c.extensionOverride = enabled }
}

// WithDefaultCharset sets the charset implicitly added to a non-empty
// Accept-Charset set. An empty name disables the rule.
func WithDefaultCharset(name string) Option {
	return func(c *config) { c.defaultCharset = name }
}

// WithLogger sets the logger used for debug records about overrides and
// failed negotiations. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
