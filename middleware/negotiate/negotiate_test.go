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

package negotiate

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"rivaas.dev/negotiation"
)

// echoHandler writes the negotiated media type, or "-" when none was
// selected, and the encoding chosen from the stored negotiator.
func echoHandler(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, ok := FromContext(r.Context())
		if !ok {
			http.Error(w, "negotiator missing from context", http.StatusInternalServerError)
			return
		}

		typ, ok := Selected(r.Context())
		if !ok {
			typ = "-"
		}
		enc, _ := n.NegotiateEncoding("br", "gzip")
		_, _ = w.Write([]byte(typ + " " + enc))
	})
}

func TestNew_StoresNegotiator(t *testing.T) {
	t.Parallel()

	handler := New()(echoHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=0.5")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "- gzip", w.Body.String())
	assert.Empty(t, w.Header().Values("Vary"), "no media enforcement without WithProduces")
}

func TestNew_Produces(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		target       string
		accept       string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "quality wins",
			target:       "/reports",
			accept:       "application/xml;q=0.5, application/json",
			expectedCode: http.StatusOK,
			expectedBody: "application/json br",
		},
		{
			name:         "no accept header picks first produced",
			target:       "/reports",
			expectedCode: http.StatusOK,
			expectedBody: "application/xml br",
		},
		{
			name:         "extension override",
			target:       "/reports/1.json",
			accept:       "application/xml",
			expectedCode: http.StatusOK,
			expectedBody: "application/json br",
		},
		{
			name:         "wildcard",
			target:       "/reports",
			accept:       "*/*",
			expectedCode: http.StatusOK,
			expectedBody: "application/xml br",
		},
		{
			name:         "not acceptable",
			target:       "/reports",
			accept:       "image/png",
			expectedCode: http.StatusNotAcceptable,
		},
	}

	handler := New(WithProduces("application/xml", "application/json"))(echoHandler(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			assert.Equal(t, []string{"Accept"}, w.Header().Values("Vary"))
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestNew_NotAcceptableProblem(t *testing.T) {
	t.Parallel()

	handler := New(
		WithProduces("application/json"),
		WithProblemType("https://example.com/problems/not-acceptable"),
	)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("next handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/things", nil)
	req.Header.Set("Accept", "text/html, application/json;q=0")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotAcceptable, w.Code)
	assert.Equal(t, ProblemContentType, w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "https://example.com/problems/not-acceptable", body["type"])
	assert.Equal(t, "Not Acceptable", body["title"])
	assert.InDelta(t, 406, body["status"], 0)
	assert.Equal(t, "/things", body["instance"])
	assert.Equal(t, []any{"application/json"}, body["available"])
}

func TestNew_NotAcceptableHandler(t *testing.T) {
	t.Parallel()

	custom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := FromContext(r.Context())
		assert.True(t, ok)
		w.WriteHeader(http.StatusTeapot)
	})
	handler := New(WithProduces("application/json"), WithNotAcceptableHandler(custom))(echoHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/csv")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestNew_NegotiatorOptions(t *testing.T) {
	t.Parallel()

	handler := New(
		WithProduces("application/xml", "application/json"),
		WithNegotiatorOptions(negotiation.WithExtensionOverride(false)),
	)(echoHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/reports/1.json", nil)
	req.Header.Set("Accept", "application/xml")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "application/xml br", w.Body.String())
}

func TestNew_Logs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	handler := New(WithProduces("application/json"), WithLogger(logger))(echoHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Accept", "text/plain")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "no acceptable media type")
	assert.Contains(t, buf.String(), `"accept":"text/plain"`)
}

func TestNew_Metrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	handler := New(WithProduces("application/json"), WithMeterProvider(provider))(echoHandler(t))

	for _, accept := range []string{"application/json", "", "", "image/png"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "negotiation.requests" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "unexpected data type %T", m.Data)
			for _, dp := range sum.DataPoints {
				dimension, _ := dp.Attributes.Value(attribute.Key("dimension"))
				assert.Equal(t, "media", dimension.AsString())
				outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
				counts[outcome.AsString()] += dp.Value
			}
		}
	}

	assert.Equal(t, map[string]int64{
		OutcomeMatched:       1,
		OutcomeNoPreference:  2,
		OutcomeNotAcceptable: 1,
	}, counts)
}

// spanAttributes serves one request with accept inside a recorded span and
// returns the attributes the middleware set on it.
func spanAttributes(t *testing.T, accept string) map[attribute.Key]string {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	handler := New(WithProduces("text/html", "application/json"))(echoHandler(t))

	ctx, span := provider.Tracer("test").Start(context.Background(), "GET /")
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	req.Header.Set("Accept", accept)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	attrs := map[attribute.Key]string{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value.AsString()
	}
	return attrs
}

func TestNew_SpanAttributes(t *testing.T) {
	t.Parallel()

	attrs := spanAttributes(t, "application/json")
	assert.Equal(t, OutcomeMatched, attrs["negotiation.outcome"])
	assert.Equal(t, "application/json", attrs["negotiation.media"])
}

func TestNew_SpanAttributesNotAcceptable(t *testing.T) {
	t.Parallel()

	attrs := spanAttributes(t, "image/png")
	assert.Equal(t, OutcomeNotAcceptable, attrs["negotiation.outcome"])
	assert.NotContains(t, attrs, attribute.Key("negotiation.media"))
}

func TestProblemDetail_MarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ProblemDetail{
		Type:   "about:blank",
		Title:  "Not Acceptable",
		Status: 406,
		Extensions: map[string]any{
			"available": []string{"a/b"},
			"status":    500,
			"instance":  "/hijack",
		},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"about:blank","title":"Not Acceptable","status":406,"available":["a/b"]}`, string(data))
}

func TestContextHelpers_Empty(t *testing.T) {
	t.Parallel()

	_, ok := FromContext(context.Background())
	assert.False(t, ok)
	_, ok = Selected(context.Background())
	assert.False(t, ok)
}
