package ai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

type openAIClient struct {
	client *openai.Client
	model  string
}

func newOpenAIClient(apiKey, model string) *openAIClient {
	return &openAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *openAIClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		logrus.Errorf("OpenAI request failed: %v", err)
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}
