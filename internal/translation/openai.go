package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is the chat model used for fallback translations
const DefaultOpenAIModel = openai.GPT4oMini

var languageNames = map[string]string{
	"iw": "Hebrew",
	"he": "Hebrew",
	"ru": "Russian",
	"en": "English",
}

// OpenAITranslator translates with OpenAI chat completions
type OpenAITranslator struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAITranslator creates a new OpenAI translator
func NewOpenAITranslator(apiKey, model string) *OpenAITranslator {
	return NewOpenAITranslatorWithBaseURL(apiKey, model, "")
}

// NewOpenAITranslatorWithBaseURL creates an OpenAI translator talking to an
// OpenAI compatible endpoint. An empty baseURL uses the public API.
func NewOpenAITranslatorWithBaseURL(apiKey, model, baseURL string) *OpenAITranslator {
	if model == "" {
		model = DefaultOpenAIModel
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAITranslator{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(config),
	}
}

// Name returns the provider name
func (t *OpenAITranslator) Name() string {
	return "openai"
}

// Translate translates a word or short phrase
func (t *OpenAITranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not found")
	}

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Translate the %s word '%s' to %s. A '/' separates masculine and feminine forms. Respond with only the %s translation, nothing else.",
					languageName(source), text, languageName(target), languageName(target)),
			},
		},
		MaxTokens:   50,
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
