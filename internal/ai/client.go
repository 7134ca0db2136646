package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client talks to any OpenAI-compatible chat completion endpoint.
type Client struct {
	api *openai.Client
}

func NewClient(baseURL, apiKey string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{api: openai.NewClientWithConfig(cfg)}
}

func (c *Client) Complete(ctx context.Context, model string, messages []ChatMessage, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(messages),
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty llm choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteJSON requests a single JSON object response; the prompt must still
// name every field the caller expects.
func (c *Client) CompleteJSON(ctx context.Context, model string, messages []ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(messages),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty llm choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) StreamComplete(
	ctx context.Context,
	model string,
	messages []ChatMessage,
	maxTokens int,
	onChunk func(chunk string) error,
) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(messages),
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	}

	stream, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm stream request failed: %w", err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("llm stream recv failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		text := resp.Choices[0].Delta.Content
		if text == "" {
			continue
		}
		full.WriteString(text)
		if err := onChunk(text); err != nil {
			return "", err
		}
	}
	return full.String(), nil
}

func toOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}
