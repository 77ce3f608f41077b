package transcript

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const cleanPrompt = `You are an AI assistant that will clean the transcript provided. Your role is to remove filler words and correct grammatical errors.
The format of the transcript should not change. Please leave the timestamps within "[" and "]" intact.
Do not add additional headers or information to your answer.

If needed, correct errors in text with the contexts within the course and video context.
`

// OpenAICleaner runs chunked transcript text through a chat model to strip
// filler words and fix grammar while keeping the timestamps intact.
type OpenAICleaner struct {
	client  *openai.Client
	chunker *Chunker
	model   string
}

func NewOpenAICleaner(client *openai.Client, chunker *Chunker) *OpenAICleaner {
	return &OpenAICleaner{
		client:  client,
		chunker: chunker,
		model:   openai.GPT4oMini,
	}
}

// Clean cleans a timestamped transcript chunk by chunk and concatenates
// the results. Newlines the model sneaks in are stripped so the cleaned
// transcript stays a single bracket-delimited line.
func (c *OpenAICleaner) Clean(ctx context.Context, timestamped, courseOutline, videoDescription string) (string, error) {
	var cleaned strings.Builder
	for _, chunk := range c.chunker.Split(timestamped) {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: cleanPrompt,
				},
				{
					Role: openai.ChatMessageRoleUser,
					Content: fmt.Sprintf("**Course Context:**\n\n%s\n\n**Video Context:**\n\n%s\n\n**Transcript:**\n\n%s",
						courseOutline, videoDescription, chunk),
				},
			},
		})
		if err != nil {
			return "", fmt.Errorf("failed to clean transcript chunk: %w", err)
		}

		answer := resp.Choices[len(resp.Choices)-1].Message.Content
		answer = strings.ReplaceAll(answer, "\n", "")
		answer = strings.ReplaceAll(answer, "\r", "")
		cleaned.WriteString(answer)
	}

	return cleaned.String(), nil
}
