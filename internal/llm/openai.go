package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ppiankov/parallax/internal/model"
)

// ChatClient mirrors the subset of the OpenAI client we use, so tests can
// substitute a fake.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIAssistant implements Assistant over the Chat Completions API
type OpenAIAssistant struct {
	client ChatClient
	config Config
}

// NewOpenAIAssistant creates an OpenAI-backed assistant
func NewOpenAIAssistant(config Config) (*OpenAIAssistant, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIAssistant{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (a *OpenAIAssistant) Name() string { return "openai" }

// RefineQueries asks the model for sharper but neutral phrasings of the
// planner's queries. Any malformed response falls back to the originals.
func (a *OpenAIAssistant) RefineQueries(ctx context.Context, claim model.Claim, queries []string) ([]string, error) {
	prompt := fmt.Sprintf(`Rewrite these web search queries to be more precise while staying strictly neutral in wording (no loaded or leading terms). The queries investigate this claim: %q

Queries:
%s

Respond with a JSON array of exactly %d strings, nothing else.`,
		truncate(claim.Text, 200), "- "+strings.Join(queries, "\n- "), len(queries))

	content, err := a.complete(ctx, "You rewrite search queries. You answer with JSON only.", prompt)
	if err != nil {
		return nil, err
	}

	var refined []string
	if err := json.Unmarshal([]byte(extractJSONArray(content)), &refined); err != nil {
		return nil, fmt.Errorf("parse refined queries: %w", err)
	}
	if len(refined) != len(queries) {
		return nil, fmt.Errorf("expected %d queries, got %d", len(queries), len(refined))
	}
	return refined, nil
}

// Explain drafts the verdict explanation under the strict URL allowlist.
// Citations outside the allowlist become warnings rather than failures.
func (a *OpenAIAssistant) Explain(ctx context.Context, verdict *model.Verdict) (*model.AssistNote, error) {
	allowed := EvidenceAllowlist(verdict)
	prompt := buildExplainPrompt(verdict, allowed)

	content, err := a.complete(ctx, "You explain fact-check methodology with strict adherence to the provided evidence.", prompt)
	if err != nil {
		return nil, err
	}

	return &model.AssistNote{
		Provider:    a.Name(),
		Model:       a.modelName(),
		Explanation: content,
		Warnings:    leakWarnings(citedURLs(content), allowed),
	}, nil
}

func (a *OpenAIAssistant) complete(ctx context.Context, system, prompt string) (string, error) {
	timeout := time.Duration(a.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	maxTokens := a.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 700
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.modelName(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (a *OpenAIAssistant) modelName() string {
	if a.config.Model != "" {
		return a.config.Model
	}
	return openai.GPT4oMini
}

// extractJSONArray isolates the first JSON array in model output, tolerating
// code fences and prose around it
func extractJSONArray(content string) string {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}
