package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemlab/exploratorium/internal/explore"
	"github.com/stemlab/exploratorium/internal/store"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	// Flag values survive between Execute calls on the shared root command.
	require.NoError(t, rootCmd.PersistentFlags().Set("db", ""))
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// fakeChatServer answers OpenAI-style chat completions with replies in order.
func fakeChatServer(t *testing.T, replies ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		reply := replies[len(replies)-1]
		if n < len(replies) {
			reply = replies[n]
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": reply},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func useFakeTiers(t *testing.T, baseURL string) {
	t.Setenv("EXPLORATORIUM_PRIMARY", "openai")
	t.Setenv("EXPLORATORIUM_FALLBACK", "openai")
	t.Setenv("EXPLORATORIUM_OPENAI_API_KEY", "sk-test")
	t.Setenv("EXPLORATORIUM_OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("EXPLORATORIUM_OPENAI_BASE_URL", baseURL)
	t.Setenv("EXPLORATORIUM_SENTRY_DSN", "")
	t.Setenv("SENTRY_DSN", "")
	t.Setenv("EXPLORATORIUM_DB", "")
}

func TestGenerate_FallbackAndHistory(t *testing.T) {
	srv, calls := fakeChatServer(t, "too short", "a detailed fallback answer")
	useFakeTiers(t, srv.URL)
	// The parent directory does not exist yet.
	dbPath := filepath.Join(t.TempDir(), "state", "exploratorium", "history.db")

	stdout, stderr, err := execute(t, "generate", "--db", dbPath, "-a", "challenge", "-t", "bridges")
	require.NoError(t, err)

	assert.Equal(t, "a detailed fallback answer \n", stdout)
	assert.Contains(t, stderr, explore.ShortResponseNotice)
	assert.Equal(t, int32(2), calls.Load())

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	gens, err := st.EventRepo().QueryGenerations(t.Context(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, gens, 1)
	assert.Equal(t, "fallback", gens[0].Tier)
	assert.Equal(t, "Create a STEM challenge for the topic: bridges.", gens[0].Prompt)

	llmEvents, err := st.EventRepo().QueryLLMEvents(t.Context(), store.QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, llmEvents, 2)
}

func TestGenerate_EmptyTopic(t *testing.T) {
	srv, calls := fakeChatServer(t, "unused")
	useFakeTiers(t, srv.URL)

	_, _, err := execute(t, "generate", "-a", "diy", "-t", "  ")
	require.Error(t, err)
	assert.Equal(t, explore.PromptForInput, err.Error())
	assert.Zero(t, calls.Load())
}

func TestGenerate_MissingKeyFailsBeforeAnyCall(t *testing.T) {
	srv, calls := fakeChatServer(t, "unused")
	useFakeTiers(t, srv.URL)
	t.Setenv("EXPLORATORIUM_OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	_, _, err := execute(t, "generate", "-a", "diy", "-t", "magnets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXPLORATORIUM_OPENAI_API_KEY")
	assert.Zero(t, calls.Load())
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "exploratorium "))
}
