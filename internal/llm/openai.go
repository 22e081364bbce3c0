package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrisdamba/menusight/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const emptyChatReply = "I apologize, but I was unable to generate a response."

var errEmptyResponse = errors.New("empty response")

// generator is the part of llms.Model the client uses.
type generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// OpenAIClient implements every collaborator capability on top of an OpenAI
// compatible chat model.
type OpenAIClient struct {
	model generator
	now   func() time.Time
}

func NewOpenAIClient(cfg models.LLMConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing llm.api_key: %w", models.ErrValidation)
	}
	opts := []openai.Option{openai.WithToken(cfg.APIKey)}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return newOpenAIClient(llm), nil
}

func newOpenAIClient(model generator) *OpenAIClient {
	return &OpenAIClient{model: model, now: time.Now}
}

func (c *OpenAIClient) Name() string { return "openai" }

func (c *OpenAIClient) complete(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (string, error) {
	resp, err := c.model.GenerateContent(ctx, messages, options...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrCollaborator, err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", fmt.Errorf("%w: %w", models.ErrCollaborator, errEmptyResponse)
	}
	return resp.Choices[0].Content, nil
}

func (c *OpenAIClient) completeJSON(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}, llms.WithJSONMode())
}

func (c *OpenAIClient) Recommend(ctx context.Context, in AnalysisInput) ([]models.Recommendation, error) {
	content, err := c.completeJSON(ctx, recommendSystemPrompt, buildRecommendPrompt(in))
	if err != nil {
		return nil, err
	}
	return decodeRecommendations(content, c.now())
}

func (c *OpenAIClient) Insights(ctx context.Context, in AnalysisInput) ([]models.Insight, error) {
	content, err := c.completeJSON(ctx, insightSystemPrompt, buildInsightPrompt(in))
	if err != nil {
		return nil, err
	}
	return decodeInsights(content)
}

func (c *OpenAIClient) Parse(ctx context.Context, raw, format string) (ParseResult, error) {
	content, err := c.completeJSON(ctx, parseSystemPrompt, buildParsePrompt(raw, format))
	if err != nil {
		return ParseResult{}, err
	}
	return decodeParse(content)
}

func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	messages := []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeSystem, buildChatContext(req))}
	for _, msg := range req.History {
		role := llms.ChatMessageTypeHuman
		if msg.Role == "assistant" {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Content))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Message))

	reply, err := c.complete(ctx, messages, llms.WithMaxTokens(500))
	if errors.Is(err, errEmptyResponse) {
		return emptyChatReply, nil
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}
