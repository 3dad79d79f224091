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


// This file exercises the middleware as a service would wire it: settings
// loaded through the config package, a ServeMux behind the middleware, and
// handlers reading the stored negotiator.

//go:build integration

package negotiate_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rivaas.dev/negotiation/config"
	"rivaas.dev/negotiation/config/codec"
	"rivaas.dev/negotiation/middleware/negotiate"
)

const serviceSettings = `
produces: [application/json, application/xml]
default_charset: UTF-8
media_types:
  .geojson: application/geo+json
`

var _ = Describe("Negotiate middleware", func() {
	var handler http.Handler

	BeforeEach(func() {
		loader, err := config.New(config.WithContent([]byte(serviceSettings), codec.TypeYAML))
		Expect(err).NotTo(HaveOccurred())
		settings, err := loader.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())

		mux := http.NewServeMux()
		mux.HandleFunc("/reports/", func(w http.ResponseWriter, r *http.Request) {
			typ, _ := negotiate.Selected(r.Context())
			n, ok := negotiate.FromContext(r.Context())
			if !ok {
				http.Error(w, "no negotiator", http.StatusInternalServerError)
				return
			}
			lang, _ := n.NegotiateLanguage("en", "de")
			w.Header().Set("Content-Type", typ)
			w.Header().Set("Content-Language", lang)
			w.WriteHeader(http.StatusOK)
		})

		handler = negotiate.New(settings.MiddlewareOptions()...)(mux)
	})

	serve := func(path string, headers map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for name, value := range headers {
			req.Header.Set(name, value)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	Context("when the client accepts a produced type", func() {
		It("selects it and negotiates the remaining dimensions", func() {
			rec := serve("/reports/q3", map[string]string{
				"Accept":          "text/html, application/xml;q=0.9, */*;q=0.1",
				"Accept-Language": "de, en;q=0.5",
			})

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/xml"))
			Expect(rec.Header().Get("Content-Language")).To(Equal("de"))
			Expect(rec.Header().Values("Vary")).To(ContainElement("Accept"))
		})

		It("falls back to the first produced type without an Accept header", func() {
			rec := serve("/reports/q3", nil)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
			Expect(rec.Header().Get("Content-Language")).To(Equal("en"))
		})
	})

	Context("when the path carries a known extension", func() {
		It("lets the extension win over the Accept header", func() {
			rec := serve("/reports/q3.xml", map[string]string{"Accept": "application/json"})

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/xml"))
		})

		It("rejects an extension mapped to a type the service does not produce", func() {
			rec := serve("/reports/q3.geojson", map[string]string{"Accept": "application/json"})

			Expect(rec.Code).To(Equal(http.StatusNotAcceptable))
		})
	})

	Context("when nothing produced is acceptable", func() {
		It("answers 406 with a problem document", func() {
			rec := serve("/reports/q3", map[string]string{"Accept": "image/png, text/html"})

			Expect(rec.Code).To(Equal(http.StatusNotAcceptable))
			Expect(rec.Header().Get("Content-Type")).To(Equal(negotiate.ProblemContentType))
			Expect(rec.Header().Values("Vary")).To(ContainElement("Accept"))

			var body map[string]any
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body).To(HaveKeyWithValue("status", BeNumerically("==", http.StatusNotAcceptable)))
			Expect(body).To(HaveKeyWithValue("instance", "/reports/q3"))
			Expect(body).To(HaveKeyWithValue("available", ConsistOf("application/json", "application/xml")))
		})
	})

	Context("under concurrent requests", func() {
		It("keeps each request's negotiation separate", func() {
			accepts := []string{"application/json", "application/xml", "text/html"}
			want := []string{"application/json", "application/xml", ""}

			const rounds = 20
			got := make([]string, rounds*len(accepts))
			codes := make([]int, len(got))

			var wg sync.WaitGroup
			for i := range got {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					rec := serve("/reports/q3", map[string]string{"Accept": accepts[i%len(accepts)]})
					codes[i] = rec.Code
					if rec.Code == http.StatusOK {
						got[i] = rec.Header().Get("Content-Type")
					}
				}(i)
			}
			wg.Wait()

			for i := range got {
				Expect(got[i]).To(Equal(want[i%len(accepts)]))
				if want[i%len(accepts)] == "" {
					Expect(codes[i]).To(Equal(http.StatusNotAcceptable))
				} else {
					Expect(codes[i]).To(Equal(http.StatusOK))
				}
			}
		})
	})
})
