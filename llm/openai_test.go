package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_Complete(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "{\"target_resource\": \"b\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20}
		}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("gpt-4o", "sk-test", WithBaseURL(srv.URL))
	req := NewCompletionRequest([]Message{UserMessage("next experiment?")})

	resp, err := c.Complete(context.Background(), *req)
	require.NoError(t, err)

	assert.Equal(t, `{"target_resource": "b"}`, resp.Content)
	assert.True(t, resp.IsComplete())
	assert.Equal(t, 20, resp.Usage.TotalTokens)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o", gotReq.Model)
	require.NotNil(t, gotReq.Temperature)
	assert.Equal(t, DefaultTemperature, *gotReq.Temperature)
	require.NotNil(t, gotReq.MaxTokens)
	assert.Equal(t, DefaultMaxTokens, *gotReq.MaxTokens)
}

func TestOpenAIClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limit exceeded", "type": "rate_limit_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("gpt-4o", "sk-test", WithBaseURL(srv.URL))
	_, err := c.Complete(context.Background(), *NewCompletionRequest([]Message{UserMessage("hi")}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("gpt-4o", "sk-test", WithBaseURL(srv.URL))
	_, err := c.Complete(context.Background(), *NewCompletionRequest([]Message{UserMessage("hi")}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenAIClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewOpenAIClient("gpt-4o", "sk-test", WithBaseURL(srv.URL))
	_, err := c.Complete(context.Background(), *NewCompletionRequest([]Message{UserMessage("hi")}))
	assert.Error(t, err)
}
