// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citegap/pkg/types"
)

func TestMain(m *testing.M) {
	backoffBase = time.Millisecond
	os.Exit(m.Run())
}

func gapReport() types.Report {
	return types.Report{
		Library:  "thesis",
		Eligible: 40,
		Analyzed: 40,
		Gaps: []types.Candidate{
			{PaperID: "X", Title: "Deep Residual Learning", Year: 2016, CitationCount: 900, MentionCount: 4},
			{PaperID: "Y", Title: "Long Short-Term Memory", CitationCount: 5000, MentionCount: 3, EarlyInfluential: true},
		},
	}
}

func TestParseProviderKind(t *testing.T) {
	for _, name := range []string{"anthropic", "OpenAI", " command "} {
		_, err := ParseProviderKind(name)
		assert.NoError(t, err, name)
	}

	_, err := ParseProviderKind("gemini")
	var unknown *UnknownProviderError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "gemini", unknown.Name)
}

func TestNew(t *testing.T) {
	c, err := New(types.NarrativeConfig{Provider: "anthropic", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &Anthropic{}, c)

	c, err = New(types.NarrativeConfig{Provider: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, c)

	c, err = New(types.NarrativeConfig{Provider: "command", Command: "llm -m local"})
	require.NoError(t, err)
	cmd := c.(*Command)
	assert.Equal(t, "llm", cmd.bin)
	assert.Equal(t, []string{"-m", "local"}, cmd.args)

	_, err = New(types.NarrativeConfig{Provider: "anthropic"})
	assert.Error(t, err, "missing API key")

	_, err = New(types.NarrativeConfig{Provider: "bogus"})
	var unknown *UnknownProviderError
	assert.ErrorAs(t, err, &unknown)
}

func TestAnthropicComplete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key-a", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicAPIVersion, r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, defaultAnthropicModel, req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "hello", req.Messages[0].Content)

		w.Write([]byte(`{"content":[{"type":"text","text":"Hi "},{"type":"text","text":"there"}]}`))
	}))
	defer ts.Close()

	a := NewAnthropic("key-a", "", ts.URL, time.Second)
	got, err := a.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", got)
}

func TestAnthropicError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer ts.Close()

	_, err := NewAnthropic("bad", "", ts.URL, time.Second).Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

func TestOpenAIComplete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key-o", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"summary"}}]}`))
	}))
	defer ts.Close()

	got, err := NewOpenAI("key-o", "gpt-test", ts.URL, time.Second).Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "summary", got)
}

func TestOpenAINoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	_, err := NewOpenAI("k", "", ts.URL, time.Second).Complete(context.Background(), "p")
	assert.Error(t, err)
}

// mockExecutor records the piped input and writes a canned reply.
type mockExecutor struct {
	missing bool
	reply   string
	err     error
	stdin   string
	name    string
	args    []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.missing {
		return "", errors.New("not found: " + file)
	}
	return "/usr/bin/" + file, nil
}

func (m *mockExecutor) RunPiped(_ context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	m.name, m.args = name, args
	data, _ := io.ReadAll(stdin)
	m.stdin = string(data)
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(stdout, m.reply)
	return err
}

func TestCommandComplete(t *testing.T) {
	ex := &mockExecutor{reply: "  narrative text\n"}
	c, err := newCommand("", time.Second, ex)
	require.NoError(t, err)

	got, err := c.Complete(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "narrative text", got)
	assert.Equal(t, "claude", ex.name)
	assert.Equal(t, []string{"-p"}, ex.args)
	assert.Equal(t, "the prompt", ex.stdin)
}

func TestCommandErrors(t *testing.T) {
	c, _ := newCommand("tool", time.Second, &mockExecutor{missing: true})
	_, err := c.Complete(context.Background(), "p")
	assert.ErrorContains(t, err, "not found")

	c, _ = newCommand("tool", time.Second, &mockExecutor{err: errors.New("exit status 2")})
	_, err = c.Complete(context.Background(), "p")
	assert.ErrorContains(t, err, "exit status 2")

	c, _ = newCommand("tool", time.Second, &mockExecutor{reply: "   "})
	_, err = c.Complete(context.Background(), "p")
	assert.ErrorContains(t, err, "no output")
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(gapReport())
	assert.Contains(t, p, "Library: thesis")
	assert.Contains(t, p, "Sources analyzed: 40 of 40 eligible")
	assert.Contains(t, p, "1. Deep Residual Learning (2016), cited 900 times overall, mentioned 4 times")
	assert.Contains(t, p, "2. Long Short-Term Memory (n.d.)")
	assert.Contains(t, p, "early influential\n")
}

func TestBuildPromptCapsGaps(t *testing.T) {
	r := gapReport()
	r.Gaps = nil
	for i := 0; i < 15; i++ {
		r.Gaps = append(r.Gaps, types.Candidate{PaperID: "P", Title: "Paper", Year: 2020, MentionCount: 2})
	}
	p := BuildPrompt(r)
	assert.Equal(t, maxPromptGaps, strings.Count(p, "Paper (2020)"))
}

// flakyCompleter fails a fixed number of times before succeeding.
type flakyCompleter struct {
	failures int
	calls    int
}

func (f *flakyCompleter) Complete(context.Context, string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("transient")
	}
	return "ok", nil
}

func TestGenerateRetries(t *testing.T) {
	c := &flakyCompleter{failures: 2}
	got, err := Generate(context.Background(), c, gapReport(), 3)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, c.calls)
}

func TestGenerateExhausted(t *testing.T) {
	c := &flakyCompleter{failures: 10}
	_, err := Generate(context.Background(), c, gapReport(), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 retries")
	assert.Equal(t, 3, c.calls)
}

func TestGenerateBackoffDoubles(t *testing.T) {
	orig := backoffBase
	backoffBase = 20 * time.Millisecond
	defer func() { backoffBase = orig }()

	c := &flakyCompleter{failures: 3}
	start := time.Now()
	_, err := Generate(context.Background(), c, gapReport(), 3)
	require.NoError(t, err)

	// 20ms + 40ms + 80ms between the four calls.
	assert.GreaterOrEqual(t, time.Since(start), 140*time.Millisecond)
	assert.Equal(t, 4, c.calls)
}

func TestGenerateCancelledDuringBackoff(t *testing.T) {
	orig := backoffBase
	backoffBase = time.Hour
	defer func() { backoffBase = orig }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := &flakyCompleter{failures: 1}
	_, err := Generate(ctx, c, gapReport(), 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, c.calls)
}

func TestGenerateNoGaps(t *testing.T) {
	c := &flakyCompleter{}
	_, err := Generate(context.Background(), c, types.Report{}, 3)
	assert.ErrorIs(t, err, ErrNoGaps)
	assert.Zero(t, c.calls)
}
