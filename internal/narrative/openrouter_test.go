package narrative

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouter_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, appTitle, r.Header.Get("X-Title"))
		assert.NotEmpty(t, r.Header.Get("HTTP-Referer"))

		var req chatRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			assert.Equal(t, DefaultOpenRouterModel, req.Model)
			assert.Equal(t, 1000, req.MaxTokens)
			if assert.NotNil(t, req.Temperature) {
				assert.InDelta(t, 0.7, *req.Temperature, 1e-9)
			}
			if assert.Len(t, req.Messages, 2) {
				assert.Equal(t, "system", req.Messages[0].Role)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"summary\":\"hi\",\"roadmap\":[\"a\"]}"}}]}`))
	}))
	defer srv.Close()

	client := NewOpenRouter("sk-test", "", srv.URL)
	out, err := client.Complete(context.Background(), []Message{{Role: "system", Content: "s"}, {Role: "user", Content: "u"}}, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"hi","roadmap":["a"]}`, out)
}

func TestOpenRouter_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`},
		{"error payload", http.StatusOK, `{"error":{"message":"model overloaded"}}`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"not json", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewOpenRouter("k", "m", srv.URL).Complete(context.Background(), nil, DefaultParams())
			assert.Error(t, err)
		})
	}
}

func TestOpenRouter_FallsBackThroughLLM(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	g := WithFallback(NewLLM(NewOpenRouter("k", "", srv.URL), Params{}), nil)
	n, err := g.Generate(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Contains(t, n.Roadmap, stepCI)
}

func TestOpenRouter_SendsZeroTemperature(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	}))
	defer srv.Close()

	p := DefaultParams()
	p.Temperature = Float64(0)
	_, err := NewOpenRouter("k", "", srv.URL).Complete(context.Background(), nil, p)
	require.NoError(t, err)
	assert.Contains(t, raw, "temperature")
	assert.Equal(t, float64(0), raw["temperature"])
}
