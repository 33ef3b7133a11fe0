package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"
)

type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	deadline time.Time
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	f.deadline, _ = ctx.Deadline()
	return f.resp, f.err
}

func textResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: parts},
		}},
	}
}

func TestGeneratorGenerateContent(t *testing.T) {
	models := &fakeModels{resp: textResponse(
		&genai.Part{Text: "thinking...", Thought: true},
		&genai.Part{Text: " 85 "},
		nil,
		&genai.Part{Text: "percent"},
	)}

	core, logs := observer.New(zap.DebugLevel)
	gen := newGenerator(models, Config{Model: "gemini-test", Timeout: time.Minute}, zap.New(core))

	out, err := gen.GenerateContent(context.Background(), "  rate this  ", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "85\npercent" {
		t.Fatalf("unexpected output: %q", out)
	}

	if models.model != "gemini-test" {
		t.Fatalf("unexpected model: %s", models.model)
	}
	if got := models.contents[0].Parts[0].Text; got != "rate this" {
		t.Fatalf("unexpected prompt: %q", got)
	}
	if models.config.MaxOutputTokens != 50 {
		t.Fatalf("expected max output tokens 50, got %d", models.config.MaxOutputTokens)
	}
	if models.config.ThinkingConfig != nil {
		t.Fatalf("expected thinking config to be omitted by default, got %+v", models.config.ThinkingConfig)
	}
	if models.deadline.IsZero() {
		t.Fatalf("expected request deadline to be set")
	}

	entries := logs.FilterMessage("gemini generate content request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["ai_provider"] != "gemini" || fields["ai_model"] != "gemini-test" {
		t.Fatalf("missing common fields: %v", fields)
	}
}

func TestGeneratorExplicitThinkingBudget(t *testing.T) {
	models := &fakeModels{resp: textResponse(&genai.Part{Text: "ok"})}
	gen := newGenerator(models, Config{ThinkingBudget: genai.Ptr(0)}, nil)

	if _, err := gen.GenerateContent(context.Background(), "hi", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if models.config.ThinkingConfig == nil || *models.config.ThinkingConfig.ThinkingBudget != 0 {
		t.Fatalf("expected thinking budget 0, got %+v", models.config.ThinkingConfig)
	}
	if models.config.MaxOutputTokens != 0 {
		t.Fatalf("expected no token limit")
	}
	if gen.Model() != DefaultModel {
		t.Fatalf("expected default model, got %s", gen.Model())
	}
}

func TestGeneratorErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		models *fakeModels
		prompt string
	}{
		{name: "empty prompt", models: &fakeModels{}, prompt: "  "},
		{name: "api error", models: &fakeModels{err: errors.New("quota exceeded")}, prompt: "hi"},
		{name: "empty response", models: &fakeModels{resp: textResponse(&genai.Part{Text: " "})}, prompt: "hi"},
		{name: "nil response", models: &fakeModels{}, prompt: "hi"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gen := newGenerator(tc.models, Config{}, nil)
			if _, err := gen.GenerateContent(context.Background(), tc.prompt, 10); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), Config{APIKey: " "}, nil); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

func TestNilGenerator(t *testing.T) {
	var gen *Generator
	if _, err := gen.GenerateContent(context.Background(), "hi", 1); err == nil {
		t.Fatalf("expected error from nil generator")
	}
	if gen.Model() != "" {
		t.Fatalf("expected empty model")
	}
}
