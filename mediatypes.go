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
	"maps"
	"strings"
)

// MediaTypes maps file extensions, including the leading dot (".json"), to
// media types ("application/json"). Keys are matched case-insensitively.
type MediaTypes map[string]string

// DefaultMediaTypes returns a fresh copy of the built-in extension table.
func DefaultMediaTypes() MediaTypes {
	return maps.Clone(defaultMediaTypes)
}

// With returns a new table holding m overridden by other. Keys of other are
// normalized with [NormalizeExtension]; entries with an empty media type
// remove the extension.
func (m MediaTypes) With(other MediaTypes) MediaTypes {
	merged := make(MediaTypes, len(m)+len(other))
	for ext, typ := range m {
		merged[NormalizeExtension(ext)] = typ
	}
	for ext, typ := range other {
		ext = NormalizeExtension(ext)
		if ext == "" {
			continue
		}
		if typ = strings.TrimSpace(typ); typ == "" {
			delete(merged, ext)
			continue
		}
		merged[ext] = typ
	}
	return merged
}

// Lookup returns the media type mapped to the extension of the final
// segment of path. Anything from the first '?' or '#' on is ignored.
//
// Example:
//
//	DefaultMediaTypes().Lookup("/path/to/resource.json?x=1") // "application/json", true
//	DefaultMediaTypes().Lookup("/path/to/resource")          // "", false
func (m MediaTypes) Lookup(path string) (string, bool) {
	ext := Extension(path)
	if ext == "" {
		return "", false
	}
	if typ, ok := m[ext]; ok {
		return typ, true
	}
	typ, ok := m[strings.ToLower(ext)]
	return typ, ok
}

// Extension returns the extension of the final path segment, including the
// dot, or "" when there is none. The query string and fragment are ignored,
// and a dotfile such as "/.json" has no extension.
func Extension(path string) string {
	if i := strings.IndexAny(path, "?#"); i != -1 {
		path = path[:i]
	}
	if i := strings.LastIndexByte(path, '/'); i != -1 {
		path = path[i+1:]
	}
	dot := strings.LastIndexByte(path, '.')
	if dot <= 0 || dot == len(path)-1 {
		return ""
	}
	return path[dot:]
}

// NormalizeExtension lowercases ext and ensures it starts with a dot.
// It returns "" for an empty or dot-only extension.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		return ""
	}
	return "." + ext
}

var defaultMediaTypes = MediaTypes{
	".aac":    "audio/aac",
	".ai":     "application/postscript",
	".aif":    "audio/x-aiff",
	".aiff":   "audio/x-aiff",
	".atom":   "application/atom+xml",
	".avi":    "video/x-msvideo",
	".avif":   "image/avif",
	".bin":    "application/octet-stream",
	".bmp":    "image/bmp",
	".bz2":    "application/x-bzip2",
	".css":    "text/css",
	".csv":    "text/csv",
	".doc":    "application/msword",
	".docx":   "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".dtd":    "application/xml-dtd",
	".eot":    "application/vnd.ms-fontobject",
	".eps":    "application/postscript",
	".epub":   "application/epub+zip",
	".flac":   "audio/flac",
	".gif":    "image/gif",
	".gz":     "application/gzip",
	".htm":    "text/html",
	".html":   "text/html",
	".ico":    "image/vnd.microsoft.icon",
	".ics":    "text/calendar",
	".jar":    "application/java-archive",
	".jpe":    "image/jpeg",
	".jpeg":   "image/jpeg",
	".jpg":    "image/jpeg",
	".js":     "application/javascript",
	".json":   "application/json",
	".jsonld": "application/ld+json",
	".m3u":    "audio/x-mpegurl",
	".m4a":    "audio/mp4",
	".m4v":    "video/x-m4v",
	".md":     "text/markdown",
	".mid":    "audio/midi",
	".midi":   "audio/midi",
	".mjs":    "text/javascript",
	".mov":    "video/quicktime",
	".mp3":    "audio/mpeg",
	".mp4":    "video/mp4",
	".mpeg":   "video/mpeg",
	".mpg":    "video/mpeg",
	".odp":    "application/vnd.oasis.opendocument.presentation",
	".ods":    "application/vnd.oasis.opendocument.spreadsheet",
	".odt":    "application/vnd.oasis.opendocument.text",
	".oga":    "audio/ogg",
	".ogg":    "audio/ogg",
	".ogv":    "video/ogg",
	".otf":    "font/otf",
	".pdf":    "application/pdf",
	".php":    "application/x-httpd-php",
	".png":    "image/png",
	".ppt":    "application/vnd.ms-powerpoint",
	".pptx":   "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".ps":     "application/postscript",
	".psd":    "image/vnd.adobe.photoshop",
	".qt":     "video/quicktime",
	".rar":    "application/vnd.rar",
	".rdf":    "application/rdf+xml",
	".rss":    "application/rss+xml",
	".rtf":    "application/rtf",
	".sh":     "application/x-sh",
	".svg":    "image/svg+xml",
	".svgz":   "image/svg+xml",
	".swf":    "application/x-shockwave-flash",
	".tar":    "application/x-tar",
	".tif":    "image/tiff",
	".tiff":   "image/tiff",
	".tgz":    "application/gzip",
	".tsv":    "text/tab-separated-values",
	".ttf":    "font/ttf",
	".txt":    "text/plain",
	".vcf":    "text/vcard",
	".wasm":   "application/wasm",
	".wav":    "audio/wav",
	".weba":   "audio/webm",
	".webm":   "video/webm",
	".webp":   "image/webp",
	".woff":   "font/woff",
	".woff2":  "font/woff2",
	".xhtml":  "application/xhtml+xml",
	".xls":    "application/vnd.ms-excel",
	".xlsx":   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xml":    "application/xml",
	".xsl":    "application/xslt+xml",
	".yaml":   "application/yaml",
	".yml":    "application/yaml",
	".zip":    "application/zip",
	".7z":     "application/x-7z-compressed",
}
