package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stemlab/exploratorium/internal/store"
)

type recordingRepo struct {
	store.EventRepo // unused methods panic

	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func TestLogging_RecordsSuccessfulCall(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewNamedMockProvider("o1-mini", MockResponse{
		Text:  "Build a baking-soda volcano.",
		Usage: Usage{InputTokens: 11, OutputTokens: 22},
	})
	p := WithLogging(mock, ProviderOpenAI, repo, nil)

	ctx := WithPurpose(context.Background(), PurposePrimary)
	if _, err := p.Generate(ctx, UserPrompt("Suggest a volcano project.", 512, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if e.Provider != ProviderOpenAI || e.Model != "o1-mini" || e.Purpose != PurposePrimary {
		t.Errorf("unexpected identity fields: %+v", e)
	}
	if !e.Success || e.ErrorMessage != "" {
		t.Errorf("expected success, got %+v", e)
	}
	if e.InputTokens != 11 || e.OutputTokens != 22 {
		t.Errorf("tokens = %d/%d, want 11/22", e.InputTokens, e.OutputTokens)
	}
	if e.ResponseBody != "Build a baking-soda volcano." {
		t.Errorf("response body = %q", e.ResponseBody)
	}
	if !strings.Contains(e.RequestBody, "Suggest a volcano project.") || !strings.Contains(e.RequestBody, "[max_tokens: 512]") {
		t.Errorf("request body missing prompt or limit: %q", e.RequestBody)
	}
	if strings.Contains(e.RequestBody, "temperature") {
		t.Errorf("request body should omit unset temperature: %q", e.RequestBody)
	}
}

func TestLogging_EmptyCompletionCountsAsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	p := WithLogging(NewMockProvider(MockResponse{Empty: true}), ProviderOpenAI, repo, nil)

	_, err := p.Generate(context.Background(), UserPrompt("x", 512, nil))
	if !errors.Is(err, ErrNoCompletion) {
		t.Fatalf("expected ErrNoCompletion to pass through, got %v", err)
	}
	if !repo.events[0].Success {
		t.Error("expected empty completion to be recorded as success")
	}
}

func TestLogging_RecordsFailure(t *testing.T) {
	repo := &recordingRepo{}
	p := WithLogging(NewMockProvider(MockResponse{Err: &ErrAuth{Err: errors.New("bad key")}}), ProviderAnthropic, repo, nil)

	ctx := WithPurpose(context.Background(), PurposeFallback)
	_, err := p.Generate(ctx, UserPrompt("x", 512, Float(0)))
	if err == nil {
		t.Fatal("expected error")
	}

	e := repo.events[0]
	if e.Success {
		t.Error("expected failure to be recorded")
	}
	if !strings.Contains(e.ErrorMessage, "bad key") {
		t.Errorf("error message = %q", e.ErrorMessage)
	}
	if !strings.Contains(e.RequestBody, "[temperature: 0]") {
		t.Errorf("request body should carry explicit temperature: %q", e.RequestBody)
	}
}

func TestLogging_RepoFailureDoesNotFailRequest(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Text: "ok"}), ProviderOpenAI, repo, nil)

	resp, err := p.Generate(context.Background(), UserPrompt("x", 512, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "ok" {
		t.Fatalf("unexpected text %q", resp.Text)
	}
}

func TestLogging_NilRepoUsesDiscard(t *testing.T) {
	p := WithLogging(NewMockProvider(MockResponse{Text: "ok"}), ProviderOpenAI, nil, nil)
	if _, err := p.Generate(context.Background(), UserPrompt("x", 512, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected model ID to delegate, got %q", p.ModelID())
	}
}
