package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/goarticle/internal/brief"
	"github.com/hyperifyio/goarticle/internal/cache"
	"github.com/hyperifyio/goarticle/internal/llm"
)

// DefaultSuffix is appended to the subject to form the fallback search query.
const DefaultSuffix = "insights trends guide"

// MaxKeywords bounds the keyword ideas accepted from a model.
const MaxKeywords = 12

// ErrNotConfigured is returned by LLMPlanner when it has no client or model.
var ErrNotConfigured = errors.New("planner not configured")

// Plan is the search query for a request plus optional related keyword
// ideas to merge into the secondary keywords.
type Plan struct {
	Query    string   `json:"query"`
	Keywords []string `json:"keywords"`
}

// Planner turns a request into a Plan.
type Planner interface {
	Plan(ctx context.Context, req brief.Request) (Plan, error)
}

// LLMPlanner asks an OpenAI-compatible chat model for a Plan and enforces a
// JSON-only reply.
type LLMPlanner struct {
	Client  llm.Client
	Model   string
	Cache   *cache.Store
	Verbose bool
}

const systemMessage = "You are an SEO research assistant. Respond with strict JSON only, no narration. " +
	"The JSON schema is {\"query\": string, \"keywords\": string[0..12]}. " +
	"The query is one concise web search query that surfaces current articles about the subject for the given field and location. " +
	"Keywords are short related search phrases a reader might also look for. Do not repeat the field, topic or location as keywords."

// Plan calls the model. Non-JSON replies and empty queries are errors so the
// caller can fall back.
func (p *LLMPlanner) Plan(ctx context.Context, req brief.Request) (Plan, error) {
	if p.Client == nil || p.Model == "" {
		return Plan{}, ErrNotConfigured
	}
	user := buildUserPrompt(req)
	key := cache.KeyFrom("planner", p.Model, systemMessage, user)
	if p.Cache != nil {
		if raw, ok, _ := p.Cache.Get(ctx, key); ok {
			var plan Plan
			if err := json.Unmarshal(raw, &plan); err == nil && plan.Query != "" {
				return plan, nil
			}
		}
	}
	if p.Verbose {
		log.Debug().Str("stage", "planner").Str("model", p.Model).Int("user_len", len(user)).Msg("planner prompt")
	}
	resp, err := p.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.1,
		N:           1,
	})
	if err != nil {
		return Plan{}, fmt.Errorf("planner call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Plan{}, errors.New("no choices")
	}
	plan, err := parsePlan(resp.Choices[0].Message.Content)
	if err != nil {
		return Plan{}, err
	}
	if p.Cache != nil {
		if b, err := json.Marshal(plan); err == nil {
			_ = p.Cache.Save(ctx, key, b)
		}
	}
	return plan, nil
}

func parsePlan(content string) (Plan, error) {
	raw := strings.TrimSpace(content)
	// Some local models wrap JSON in a code fence despite instructions.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	var plan Plan
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &plan); err != nil {
		return Plan{}, fmt.Errorf("parse planner json: %w", err)
	}
	plan.Query = strings.Join(strings.Fields(plan.Query), " ")
	if plan.Query == "" {
		return Plan{}, errors.New("planner returned empty query")
	}
	plan.Keywords = sanitizeKeywords(plan.Keywords)
	return plan, nil
}

// FallbackPlanner builds the query "{subject} {location} {suffix} {year}"
// without any network call.
type FallbackPlanner struct {
	// Suffix defaults to DefaultSuffix.
	Suffix string
	// Now defaults to time.Now.
	Now func() time.Time
}

func (p *FallbackPlanner) Plan(_ context.Context, req brief.Request) (Plan, error) {
	suffix := p.Suffix
	if strings.TrimSpace(suffix) == "" {
		suffix = DefaultSuffix
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	parts := []string{req.Subject(), req.Location, suffix, strconv.Itoa(now().Year())}
	return Plan{Query: strings.Join(strings.Fields(strings.Join(parts, " ")), " "), Keywords: []string{}}, nil
}

func buildUserPrompt(req brief.Request) string {
	var sb strings.Builder
	sb.WriteString("Field: ")
	sb.WriteString(req.Field)
	if req.Topic != "" {
		sb.WriteString("\nTopic: ")
		sb.WriteString(req.Topic)
	}
	if req.Location != "" {
		sb.WriteString("\nLocation: ")
		sb.WriteString(req.Location)
	}
	sb.WriteString("\nTone: ")
	sb.WriteString(req.Tone.String())
	sb.WriteString(fmt.Sprintf("\nTarget length: %d words", req.Words))
	return sb.String()
}

func sanitizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, k := range in {
		s := strings.Join(strings.Fields(k), " ")
		s = strings.Trim(s, ".,;:!?\"'")
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
		if len(out) == MaxKeywords {
			break
		}
	}
	return out
}
