package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const answerPrompt = `You are an AI assistant that answers questions based on detailed video context. The context includes:

- **Transcripts** with timestamps quoted by "(" and ")".

**Instructions:**

1. **Understand the User's Question:**
   - Carefully read the user's query to determine what information they are seeking.

2. **Use Relevant Context:**
   - Search through the provided context to find information that directly answers the question.
   - Reference specific timestamps (in **mm:ss** format) when mentioning parts of the video.
   - For every important information, I want you to quote the timestamp in this format ONLY: "Covered at [mm:ss]"

3. **Compose a Clear and Concise Answer:**
   - Provide the information in a straightforward manner.
   - Ensure the response is self-contained and understandable without needing additional information.
   - If unsure of question, ask the user to clarify again in a polite manner.
   - If unable to find answer in context, say that you are unable to find an answer in a polite manner.

4. **Formatting Guidelines:**
   - Begin your answer by addressing the user's question.
`

// OpenAIEmbedder implements Embedder on the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIEmbedder(client *openai.Client) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client: client,
		model:  openai.SmallEmbedding3,
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}

	return resp.Data[0].Embedding, nil
}

// OpenAIAnswerer implements AnswerGenerator with a single blocking chat
// completion.
type OpenAIAnswerer struct {
	client *openai.Client
	model  string
}

func NewOpenAIAnswerer(client *openai.Client) *OpenAIAnswerer {
	return &OpenAIAnswerer{
		client: client,
		model:  openai.GPT4oMini,
	}
}

func (a *OpenAIAnswerer) Generate(ctx context.Context, passages []string, question string, history []Exchange) (string, error) {
	formatted := make([]string, 0, len(history))
	for _, exchange := range history {
		formatted = append(formatted, fmt.Sprintf("User: %s\nAssistant: %s", exchange.UserInput, exchange.AssistantResponse))
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: answerPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("**History:**\n\n%s\n\n**Context:**\n\n%s\n\n**User's Question:**\n\n%s\n\n**Your Answer:**",
					strings.Join(formatted, "\n"), strings.Join(passages, "\n\n"), question),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	return resp.Choices[len(resp.Choices)-1].Message.Content, nil
}
