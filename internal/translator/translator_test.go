package translator

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/stretchr/testify/require"
	"github.com/tabvc/tabvc/internal/operations"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeCompletions serves the chat completion endpoint with a fixed assistant reply.
func fakeCompletions(t *testing.T, status int, reply string, seen *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
}

func newTranslator(t *testing.T, url string) *Translator {
	t.Helper()
	tr, err := New(&Config{BaseURL: url, Model: "test", APIKey: "key", Timeout: time.Second})
	require.NoError(t, err)
	return tr
}

func TestNew(t *testing.T) {
	_, err := New(&Config{})
	require.Error(t, err)

	tr, err := New(&Config{BaseURL: DefaultBaseURL, Model: DefaultModel, Timeout: DefaultTimeout})
	require.NoError(t, err)
	_, err = tr.Translate(context.Background(), "anything", "")
	require.True(t, errors.Is(err, ErrUnavailable))
}

func TestTranslate(t *testing.T) {
	req := require.New(t)
	var seen map[string]any
	reply := "Sure:\n```json\n{\"message\":\"ok\",\"operations\":[" +
		"{\"type\":\"set_cell\",\"cell\":\"A1\",\"value\":1}," +
		"{\"type\":\"sort\",\"by\":\"score\",\"ascending\":false}]}\n```"
	srv := fakeCompletions(t, http.StatusOK, reply, &seen)
	defer srv.Close()

	res, err := newTranslator(t, srv.URL).Translate(context.Background(), "sort it", "Data")
	req.NoError(err)
	req.Equal("ok", res.Message)
	req.Equal(operations.List{
		operations.SetCell{Cell: "A1", Value: 1.0},
		operations.Sort{By: "score"},
	}, res.Operations)

	req.Equal("test", seen["model"])
	messages := seen["messages"].([]any)
	req.Len(messages, 2)
	system := messages[0].(map[string]any)["content"].(string)
	req.Contains(system, "Default sheet is Data")
}

func TestTranslate_Failures(t *testing.T) {
	tests := map[string]struct {
		status int
		reply  string
	}{
		"upstream error":     {status: http.StatusInternalServerError},
		"no json":            {status: http.StatusOK, reply: "I cannot help with that"},
		"invalid operations": {status: http.StatusOK, reply: `{"operations":[{"type":"sort"}]}`},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			srv := fakeCompletions(t, tc.status, tc.reply, nil)
			defer srv.Close()

			_, err := newTranslator(t, srv.URL).Translate(context.Background(), "x", "")
			require.True(t, errors.Is(err, ErrFailed), "got %v", err)
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected string
		ok       bool
	}{
		"bare object":     {input: ` {"a":1} `, expected: `{"a":1}`, ok: true},
		"surrounded":      {input: "x {\"a\":{\"b\":2}} y", expected: `{"a":{"b":2}}`, ok: true},
		"no braces":       {input: "nothing", ok: false},
		"reversed braces": {input: "} {", ok: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := extractJSON(tc.input)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.expected, got)
		})
	}
}
