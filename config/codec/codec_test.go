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

package codec

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// CodecTestSuite exercises the built-in decoders against the same document.
type CodecTestSuite struct {
	suite.Suite
}

// TestCodecTestSuite runs the CodecTestSuite.
func TestCodecTestSuite(t *testing.T) {
	suite.Run(t, new(CodecTestSuite))
}

func (s *CodecTestSuite) TestRegistration() {
	for _, tc := range []struct {
		name     Type
		expected Decoder
	}{
		{TypeJSON, JSONCodec{}},
		{TypeYAML, YAMLCodec{}},
		{TypeTOML, TOMLCodec{}},
	} {
		decoder, err := GetDecoder(tc.name)
		s.Require().NoError(err)
		s.IsType(tc.expected, decoder)
	}

	_, err := GetDecoder("ini")
	s.Error(err)
}

func (s *CodecTestSuite) TestDecode() {
	documents := map[Type]string{
		TypeJSON: `{"default_charset": "utf-8", "media_types": {".json": "application/json"}}`,
		TypeYAML: "default_charset: utf-8\nmedia_types:\n  .json: application/json\n",
		TypeTOML: "default_charset = \"utf-8\"\n[media_types]\n\".json\" = \"application/json\"\n",
	}

	for typ, doc := range documents {
		decoder, err := GetDecoder(typ)
		s.Require().NoError(err)

		var out map[string]any
		s.Require().NoError(decoder.Decode([]byte(doc), &out), typ)
		s.Equal("utf-8", out["default_charset"], typ)

		media, ok := out["media_types"].(map[string]any)
		s.Require().True(ok, "%s: media_types is %T", typ, out["media_types"])
		s.Equal("application/json", media[".json"], typ)
	}
}

func (s *CodecTestSuite) TestDecodeInvalid() {
	for _, typ := range []Type{TypeJSON, TypeYAML, TypeTOML} {
		decoder, err := GetDecoder(typ)
		s.Require().NoError(err)

		var out map[string]any
		s.Error(decoder.Decode([]byte("key: [unterminated"), &out), typ)
	}
}

func (s *CodecTestSuite) TestDetectType() {
	for path, expected := range map[string]Type{
		"negotiation.json":      TypeJSON,
		"/etc/app/neg.YAML":     TypeYAML,
		"neg.yml":               TypeYAML,
		"conf.d/negotiate.toml": TypeTOML,
	} {
		got, err := DetectType(path)
		s.Require().NoError(err, path)
		s.Equal(expected, got, path)
	}

	_, err := DetectType("negotiation.ini")
	s.Error(err)
	_, err = DetectType("negotiation")
	s.Error(err)
}
