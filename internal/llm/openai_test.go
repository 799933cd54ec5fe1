package llm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dvornikita/SleecReddit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewOpenAIProvider(config.LLMConfig{
		Model:   "gpt-4.1-mini",
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
	}, testLogger())
}

func chatResponse(content string) string {
	resp := map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4.1-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestOpenAIProvider_Complete(t *testing.T) {
	t.Run("json mode request", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var body struct {
				Model          string `json:"model"`
				ResponseFormat *struct {
					Type string `json:"type"`
				} `json:"response_format"`
				Messages []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

			assert.Equal(t, "gpt-4.1-mini", body.Model)
			require.NotNil(t, body.ResponseFormat)
			assert.Equal(t, "json_object", body.ResponseFormat.Type)
			require.Len(t, body.Messages, 2)
			assert.Equal(t, "system", body.Messages[0].Role)
			assert.Equal(t, "be strict", body.Messages[0].Content)
			assert.Equal(t, "user", body.Messages[1].Role)
			assert.Equal(t, "classify this", body.Messages[1].Content)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(chatResponse(`{"verdict":"No","reason":"x"}`)))
		})

		out, err := p.Complete(context.Background(), Request{System: "be strict", User: "classify this", JSON: true})
		require.NoError(t, err)
		assert.Equal(t, `{"verdict":"No","reason":"x"}`, out)
	})

	t.Run("plain request has no response format", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_, ok := body["response_format"]
			assert.False(t, ok)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(chatResponse("hello")))
		})

		out, err := p.Complete(context.Background(), Request{System: "s", User: "u"})
		require.NoError(t, err)
		assert.Equal(t, "hello", out)
	})

	t.Run("server error", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
		})

		_, err := p.Complete(context.Background(), Request{System: "s", User: "u", JSON: true})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "openai api error")
	})

	t.Run("no choices", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
		})

		_, err := p.Complete(context.Background(), Request{System: "s", User: "u"})
		assert.EqualError(t, err, "no choices in response")
	})

	t.Run("cancelled context", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			t.Error("no request expected")
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.Complete(ctx, Request{System: "s", User: "u"})
		assert.Error(t, err)
	})
}
