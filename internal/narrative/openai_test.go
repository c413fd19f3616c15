package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/triage-service/internal/config"
)

func fakeCompletions(t *testing.T, status int, content string, inspect func(chatRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if inspect != nil {
			inspect(req)
		}

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(baseURL string) *ChatClient {
	return NewChatClient(ChatConfig{
		BaseURL:     baseURL + "/",
		Model:       "llama-3.1-8b-instant",
		APIKey:      "test-key",
		Temperature: 0.1,
		HTTPClient:  &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 5 * time.Second},
	})
}

func TestChatClient_Explain(t *testing.T) {
	var seen chatRequest
	srv := fakeCompletions(t, http.StatusOK, `{"evidence":"asks for refund","recommendation":"approve refund"}`, func(req chatRequest) {
		seen = req
	})

	got, err := testClient(srv.URL).Explain(context.Background(), "I want a refund", "refund_request")
	require.NoError(t, err)
	assert.Equal(t, "asks for refund", got.Evidence)
	assert.Equal(t, "approve refund", got.Recommendation)

	assert.Equal(t, "llama-3.1-8b-instant", seen.Model)
	assert.InDelta(t, 0.1, seen.Temperature, 1e-9)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, Instruction, seen.Messages[0].Content)
	assert.Contains(t, seen.Messages[1].Content, "ISSUE_TYPE: refund_request")
	require.NotNil(t, seen.ResponseFormat)
	assert.Equal(t, "json_object", seen.ResponseFormat.Type)
}

func TestChatClient_Failures(t *testing.T) {
	t.Run("unparseable content", func(t *testing.T) {
		srv := fakeCompletions(t, http.StatusOK, "I think this is a refund.", nil)
		_, err := testClient(srv.URL).Explain(context.Background(), "refund", "refund_request")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedResponse))
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := fakeCompletions(t, http.StatusTooManyRequests, "{}", nil)
		_, err := testClient(srv.URL).Explain(context.Background(), "refund", "refund_request")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("no choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()
		_, err := testClient(srv.URL).Explain(context.Background(), "refund", "refund_request")
		assert.True(t, errors.Is(err, ErrMalformedResponse))
	})

	t.Run("missing api key", func(t *testing.T) {
		client := NewChatClient(ChatConfig{BaseURL: "http://127.0.0.1:1"})
		_, err := client.Explain(context.Background(), "refund", "refund_request")
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := fakeCompletions(t, http.StatusOK, `{"evidence":"e","recommendation":"r"}`, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := testClient(srv.URL).Explain(ctx, "refund", "refund_request")
		assert.Error(t, err)
	})
}

func TestNew_SelectsBackend(t *testing.T) {
	gen, err := New(context.Background(), config.NarrativeConfig{Provider: config.ProviderOpenAI, BaseURL: "http://localhost", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &ChatClient{}, gen)

	gen, err = New(context.Background(), config.NarrativeConfig{Provider: config.ProviderGemini, APIKey: "k", Model: "gemini-2.0-flash"})
	require.NoError(t, err)
	assert.IsType(t, &GeminiGenerator{}, gen)

	_, err = New(context.Background(), config.NarrativeConfig{Provider: config.ProviderGemini})
	assert.Error(t, err, "gemini requires an API key")

	_, err = New(context.Background(), config.NarrativeConfig{Provider: "other"})
	assert.Error(t, err)
}
