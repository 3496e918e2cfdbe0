package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultChatModelName = "gemini-1.5-flash-latest"

	chatSystemInstruction = "You are a helpful assistant. Answer questions based on the provided document excerpts. " +
		"If the answer is not found in the provided context, clearly state that you don't have the information. " +
		"Keep your answers concise and directly related to the user's question and provided context. " +
		"Do not make up information. If the context is insufficient, say so."
)

// GeminiComposer answers queries with the Gemini API, grounding the prompt
// in the retrieved sources. Selected when GEMINI_API_KEY is configured.
type GeminiComposer struct {
	client *genai.Client
}

func NewGeminiComposer(apiKey string) (*GeminiComposer, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiComposer{client: client}, nil
}

func (c *GeminiComposer) Close() {
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

func (c *GeminiComposer) Compose(query string, sources []Source) (string, error) {
	ctx := context.Background()
	model := c.client.GenerativeModel(defaultChatModelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(chatSystemInstruction)},
	}

	var prompt string
	if len(sources) > 0 {
		var contextBuilder strings.Builder
		for _, src := range sources {
			fmt.Fprintf(&contextBuilder, "[%s]\n%s\n\n", src.Title, src.Content)
		}
		prompt = fmt.Sprintf("Based on the following excerpts from uploaded documents:\n\n--- CONTEXT START ---\n%s--- CONTEXT END ---\n\nNow, please answer my question: %s", contextBuilder.String(), query)
	} else {
		prompt = fmt.Sprintf("Noting that no relevant document excerpts were found for this question, please answer: %s", query)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation request failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response was empty or had no valid candidates")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	if responseText.Len() == 0 {
		return "", fmt.Errorf("gemini response contained no text parts")
	}

	return responseText.String(), nil
}
