package planner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/goarticle/internal/brief"
	"github.com/hyperifyio/goarticle/internal/cache"
	"github.com/hyperifyio/goarticle/internal/template"
)

type fakeClient struct {
	content string
	err     error
	calls   int
	last    openai.ChatCompletionRequest
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.content}}}}, nil
}

func fixedNow() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

func TestFallbackPlanner_QueryShape(t *testing.T) {
	p := &FallbackPlanner{Now: fixedNow}
	cases := []struct {
		req  brief.Request
		want string
	}{
		{brief.Request{Field: "Real Estate Marketing"}, "Real Estate Marketing insights trends guide 2026"},
		{brief.Request{Field: "Dental Care", Topic: "Invisalign Costs", Location: "Leeds"}, "Invisalign Costs Leeds insights trends guide 2026"},
	}
	for _, c := range cases {
		plan, err := p.Plan(context.Background(), c.req)
		if err != nil {
			t.Fatalf("fallback plan error: %v", err)
		}
		if plan.Query != c.want {
			t.Fatalf("query = %q, want %q", plan.Query, c.want)
		}
		if plan.Keywords == nil || len(plan.Keywords) != 0 {
			t.Fatalf("fallback keywords should be empty and non-nil, got %#v", plan.Keywords)
		}
	}
}

func TestFallbackPlanner_CustomSuffix(t *testing.T) {
	p := &FallbackPlanner{Now: fixedNow, Suffix: "news"}
	plan, _ := p.Plan(context.Background(), brief.Request{Field: "Bakeries"})
	if plan.Query != "Bakeries news 2026" {
		t.Fatalf("query = %q", plan.Query)
	}
}

func TestLLMPlanner_NotConfigured(t *testing.T) {
	p := &LLMPlanner{}
	if _, err := p.Plan(context.Background(), brief.Request{Field: "x"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestLLMPlanner_ParsesAndSanitizes(t *testing.T) {
	fc := &fakeClient{content: "```json\n{\"query\":\"  austin  home staging trends \",\"keywords\":[\"staging costs\",\"Staging Costs\",\" \",\"open houses.\"]}\n```"}
	p := &LLMPlanner{Client: fc, Model: "m"}
	plan, err := p.Plan(context.Background(), brief.Request{Field: "Real Estate", Location: "Austin", Tone: template.Expert, Words: 900})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.Query != "austin home staging trends" {
		t.Fatalf("query = %q", plan.Query)
	}
	if strings.Join(plan.Keywords, "|") != "staging costs|open houses" {
		t.Fatalf("keywords = %v", plan.Keywords)
	}
	user := fc.last.Messages[1].Content
	for _, want := range []string{"Field: Real Estate", "Location: Austin", "Tone: expert", "900 words"} {
		if !strings.Contains(user, want) {
			t.Fatalf("user prompt missing %q: %s", want, user)
		}
	}
}

func TestLLMPlanner_RejectsBadOutput(t *testing.T) {
	for _, content := range []string{"not json", `{"query":"  ","keywords":[]}`} {
		p := &LLMPlanner{Client: &fakeClient{content: content}, Model: "m"}
		if _, err := p.Plan(context.Background(), brief.Request{Field: "x"}); err == nil {
			t.Fatalf("expected error for %q", content)
		}
	}
	p := &LLMPlanner{Client: &fakeClient{err: errors.New("boom")}, Model: "m"}
	if _, err := p.Plan(context.Background(), brief.Request{Field: "x"}); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected wrapped call error, got %v", err)
	}
}

func TestLLMPlanner_UsesCache(t *testing.T) {
	store := &cache.Store{Dir: t.TempDir()}
	fc := &fakeClient{content: `{"query":"q1","keywords":["a1"]}`}
	p := &LLMPlanner{Client: fc, Model: "m", Cache: store}
	req := brief.Request{Field: "Plumbing"}
	first, err := p.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	fc.content = `{"query":"q2","keywords":[]}`
	second, err := p.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if fc.calls != 1 || second.Query != first.Query {
		t.Fatalf("expected cached plan, calls=%d second=%+v", fc.calls, second)
	}
}
